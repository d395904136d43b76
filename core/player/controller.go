package player

import (
	"context"
	"sync"
	"time"

	"MeloFM/core/bus"
	"MeloFM/logger"
	"MeloFM/model"
)

// Options 播放控制器参数
type Options struct {
	SeekStep           float64       // keyboard seek step in seconds
	TimeUpdateInterval time.Duration // minimum interval between timeUpdated events
	CacheThreshold     float64       // played fraction above which media is cached
	Debug              bool
}

// DefaultOptions mirrors the historical constants of the web player.
var DefaultOptions = Options{
	SeekStep:           5,
	TimeUpdateInterval: 300 * time.Millisecond,
	CacheThreshold:     0.75,
}

// Controller is the playback session controller. It exclusively owns the
// media element, holds at most one live session bound to a queue position,
// consumes control commands from the bus and publishes domain events on it.
//
// All entry points are safe for concurrent use, but the expected model is a
// single UI goroutine plus fire-and-forget background work.
type Controller struct {
	bus      *bus.Bus
	element  MediaElement
	recorder PlayRecorder
	advisor  *CacheAdvisor
	settings SettingProvider
	guard    InputGuard
	alerter  Alerter
	opts     Options

	mu       sync.Mutex
	queue    model.QueueMusic
	bound    bool
	state    ReadyState
	throttle throttle
	subs     []*bus.Subscription

	// tick defers a function by one scheduling tick, letting pending UI
	// updates settle before a seek mutates playback position.
	tick func(fn func())
}

// NewController wires the controller to its collaborators. Call Activate to
// bind the first queue position.
func NewController(
	b *bus.Bus,
	element MediaElement,
	recorder PlayRecorder,
	cache MediaCache,
	settings SettingProvider,
	guard InputGuard,
	alerter Alerter,
	opts Options,
) *Controller {
	if opts.SeekStep <= 0 {
		opts.SeekStep = DefaultOptions.SeekStep
	}
	if opts.TimeUpdateInterval <= 0 {
		opts.TimeUpdateInterval = DefaultOptions.TimeUpdateInterval
	}
	if opts.CacheThreshold <= 0 {
		opts.CacheThreshold = DefaultOptions.CacheThreshold
	}

	return &Controller{
		bus:      b,
		element:  element,
		recorder: recorder,
		advisor:  NewCacheAdvisor(cache, opts.CacheThreshold, opts.Debug),
		settings: settings,
		guard:    guard,
		alerter:  alerter,
		opts:     opts,
		state:    StateIdle,
		throttle: throttle{interval: opts.TimeUpdateInterval},
		tick:     func(fn func()) { time.AfterFunc(0, fn) },
	}
}

// Activate mounts the controller: applies the persisted volume, subscribes to
// control commands and setting changes, hooks the media element's signals and
// binds the initial queue position.
func (c *Controller) Activate(qm model.QueueMusic) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.element.SetVolume(c.settings.Current().PlayerVolume)
	c.element.OnSignal(c.handleSignal)

	c.subs = append(c.subs,
		c.bus.Subscribe(bus.ActionSetTime, c.onActionSetTime),
		c.bus.Subscribe(bus.ActionTogglePlay, func(bus.Event) { c.onActionTogglePlay() }),
		c.bus.Subscribe(bus.ActionPlay, func(bus.Event) { c.playElement() }),
		c.bus.Subscribe(bus.ActionPause, func(bus.Event) { c.element.Pause() }),
		c.bus.Subscribe(bus.SettingVolumeChanged, c.onVolumeChanged),
	)

	c.bindLocked(qm, true)
}

// ChangeQueue switches the controller to a new queue position. The outgoing
// session is flushed strictly before the incoming source is bound. A call
// with an unchanged position id is a no-op.
func (c *Controller) ChangeQueue(qm model.QueueMusic) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.bound && c.queue.PID == qm.PID {
		return
	}
	if c.bound {
		c.flushLocked()
	}
	c.bindLocked(qm, false)
}

// Teardown unsubscribes everything and flushes the final session. The
// controller must not be used afterwards.
func (c *Controller) Teardown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, sub := range c.subs {
		c.bus.Unsubscribe(sub)
	}
	c.subs = nil

	if c.bound {
		c.flushLocked()
		c.bound = false
		c.state = StateIdle
	}
}

// State returns the current readiness state.
func (c *Controller) State() ReadyState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// bindLocked binds a queue position to the element. On a position change the
// position is reset to zero, playback starts automatically and a zero
// time-update is published. On first activation the element's own autoplay
// takes over.
func (c *Controller) bindLocked(qm model.QueueMusic, first bool) {
	url := qm.Music.SourceURL(c.settings.Current().PlayMode)

	c.queue = qm
	c.bound = true
	c.state = StateLoading
	c.throttle.reset()
	c.element.SetSource(url)

	if !first {
		c.element.SetCurrentTime(0)
		c.playElement()
		c.bus.Emit(bus.TimeUpdated(0))
	}

	logger.Debug("绑定播放会话",
		logger.String("pid", qm.PID),
		logger.String("musicId", qm.Music.ID),
		logger.Bool("first", first))
}

// flushLocked closes out the current session: it derives the played fraction
// from the element's current ranges, then fires the play-record upload and the
// cache check. The two are independent and each is best effort.
func (c *Controller) flushLocked() {
	music := c.queue.Music
	percent := PlayedFraction(c.element.Played(), c.element.Duration())
	url := music.SourceURL(c.settings.Current().PlayMode)

	go func() {
		if err := c.recorder.RecordPlay(music.ID, percent); err != nil {
			logger.Warn("上传播放记录失败",
				logger.String("musicId", music.ID),
				logger.Float64("percent", percent),
				logger.ErrorField(err))
		}
	}()
	go c.advisor.Advise(context.Background(), url, percent)
}

// handleSignal mirrors the element's low-level signals onto the bus, in the
// order the platform delivers them. ended is remapped to an advance-to-next
// command instead of a raw terminal event.
func (c *Controller) handleSignal(sig Signal, err error) {
	if sig == SignalTimeUpdate {
		c.mu.Lock()
		due := c.throttle.allow(time.Now())
		current := c.element.CurrentTime()
		c.mu.Unlock()

		if due {
			c.bus.Emit(bus.TimeUpdated(current * 1000))
		}
		return
	}

	c.mu.Lock()
	next, ok := transition(c.state, sig)
	if !ok {
		state := c.state
		c.mu.Unlock()
		logger.Warn("忽略非法媒体信号",
			logger.String("state", state.String()),
			logger.String("signal", sig.String()))
		return
	}
	c.state = next
	c.mu.Unlock()

	switch sig {
	case SignalWaiting:
		c.bus.Emit(bus.Waiting())
	case SignalCanPlayThrough:
		c.bus.Emit(bus.CanPlayThrough(c.element.Duration()))
	case SignalPlay:
		c.bus.Emit(bus.Play())
	case SignalPause:
		c.bus.Emit(bus.Pause())
	case SignalEnded:
		c.bus.Emit(bus.Next())
	case SignalError:
		message := "unknown media error"
		if err != nil {
			message = err.Error()
		}
		logger.Error("播放发生错误",
			logger.String("musicId", c.currentMusicID()),
			logger.String("message", message))
		if c.alerter != nil {
			c.alerter.Alert("播放发生错误", message)
		}
		c.bus.Emit(bus.PlayError(message))
	}
}

// onActionSetTime publishes buffering feedback immediately, then performs the
// seek one tick later so pending UI updates can settle first.
func (c *Controller) onActionSetTime(e bus.Event) {
	second := e.Second
	c.bus.Emit(bus.Waiting())

	c.tick(func() {
		c.mu.Lock()
		c.element.SetCurrentTime(second)
		c.mu.Unlock()

		c.playElement()
		c.bus.Emit(bus.TimeUpdated(second * 1000))
	})
}

func (c *Controller) onActionTogglePlay() {
	if c.element.Paused() {
		c.playElement()
	} else {
		c.element.Pause()
	}
}

func (c *Controller) onVolumeChanged(e bus.Event) {
	c.element.SetVolume(e.Volume)
}

// playElement starts playback. Platform rejection (e.g. blocked autoplay) is
// logged and swallowed; playback simply stays paused.
func (c *Controller) playElement() {
	if err := c.element.Play(context.Background()); err != nil {
		logger.Warn("音频播放失败", logger.ErrorField(err))
	}
}

func (c *Controller) currentMusicID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.bound || c.queue.Music == nil {
		return ""
	}
	return c.queue.Music.ID
}
