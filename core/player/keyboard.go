package player

// Key 键盘按键
type Key string

const (
	KeySpace      Key = " "
	KeyArrowLeft  Key = "ArrowLeft"
	KeyArrowRight Key = "ArrowRight"
)

// HandleKey applies keyboard control: space toggles playback, the arrow keys
// seek by the configured step. The return value reports whether the default
// platform behavior (page scroll on space) must be suppressed. Keys are
// ignored entirely while a text input has focus.
func (c *Controller) HandleKey(key Key) bool {
	if c.guard != nil && c.guard.TextInputFocused() {
		return false
	}

	switch key {
	case KeySpace:
		c.onActionTogglePlay()
		return true
	case KeyArrowLeft:
		c.seekBy(-c.opts.SeekStep)
	case KeyArrowRight:
		c.seekBy(c.opts.SeekStep)
	}
	return false
}

func (c *Controller) seekBy(delta float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.element.SetCurrentTime(c.element.CurrentTime() + delta)
}
