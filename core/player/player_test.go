package player

import (
	"context"
	"sync"
	"testing"
	"time"

	"MeloFM/core/bus"
	"MeloFM/model"
)

// fakeElement is an in-memory MediaElement for tests.
type fakeElement struct {
	mu        sync.Mutex
	src       string
	paused    bool
	current   float64
	duration  float64
	played    []TimeRange
	volume    float64
	playErr   error
	playCalls int
	signal    SignalFunc
}

func newFakeElement() *fakeElement {
	return &fakeElement{paused: true}
}

func (f *fakeElement) SetSource(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.src = url
	// a new source starts over
	f.current = 0
	f.duration = 0
	f.played = nil
	f.paused = true
}

func (f *fakeElement) Play(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playCalls++
	if f.playErr != nil {
		return f.playErr
	}
	f.paused = false
	return nil
}

func (f *fakeElement) Pause() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paused = true
}

func (f *fakeElement) Paused() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.paused
}

func (f *fakeElement) CurrentTime() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

func (f *fakeElement) SetCurrentTime(second float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = second
}

func (f *fakeElement) Duration() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.duration
}

func (f *fakeElement) Played() []TimeRange {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.played
}

func (f *fakeElement) SetVolume(volume float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.volume = volume
}

func (f *fakeElement) OnSignal(fn SignalFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signal = fn
}

// prime sets playback state as if the media had been playing.
func (f *fakeElement) prime(duration float64, played []TimeRange) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.duration = duration
	f.played = played
}

func (f *fakeElement) fire(sig Signal, err error) {
	f.mu.Lock()
	fn := f.signal
	f.mu.Unlock()
	if fn != nil {
		fn(sig, err)
	}
}

type recordedPlay struct {
	musicID string
	percent float64
}

type fakeRecorder struct {
	mu    sync.Mutex
	calls []recordedPlay
}

func (r *fakeRecorder) RecordPlay(musicID string, percent float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, recordedPlay{musicID: musicID, percent: percent})
	return nil
}

func (r *fakeRecorder) snapshot() []recordedPlay {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recordedPlay(nil), r.calls...)
}

type fakeCache struct {
	mu     sync.Mutex
	cached map[string]bool
	hasErr error
	stores []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{cached: make(map[string]bool)}
}

func (c *fakeCache) Has(ctx context.Context, url string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hasErr != nil {
		return false, c.hasErr
	}
	return c.cached[url], nil
}

func (c *fakeCache) Store(ctx context.Context, url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stores = append(c.stores, url)
	c.cached[url] = true
	return nil
}

func (c *fakeCache) storeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.stores)
}

type fakeSettings struct {
	mu      sync.Mutex
	setting model.Setting
}

func (s *fakeSettings) Current() model.Setting {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setting
}

type fakeGuard struct{ focused bool }

func (g *fakeGuard) TextInputFocused() bool { return g.focused }

type fakeAlerter struct {
	mu     sync.Mutex
	alerts []string
}

func (a *fakeAlerter) Alert(title, message string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.alerts = append(a.alerts, message)
}

func (a *fakeAlerter) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.alerts)
}

// eventLog records bus events of the given types in delivery order.
type eventLog struct {
	mu     sync.Mutex
	events []bus.Event
}

func watchEvents(b *bus.Bus, types ...bus.EventType) *eventLog {
	l := &eventLog{}
	for _, t := range types {
		b.Subscribe(t, func(e bus.Event) {
			l.mu.Lock()
			l.events = append(l.events, e)
			l.mu.Unlock()
		})
	}
	return l
}

func (l *eventLog) ofType(t bus.EventType) []bus.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []bus.Event
	for _, e := range l.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

type testRig struct {
	bus      *bus.Bus
	element  *fakeElement
	recorder *fakeRecorder
	cache    *fakeCache
	settings *fakeSettings
	guard    *fakeGuard
	alerter  *fakeAlerter
	ctrl     *Controller
}

func newTestRig(opts Options) *testRig {
	rig := &testRig{
		bus:      bus.New(),
		element:  newFakeElement(),
		recorder: &fakeRecorder{},
		cache:    newFakeCache(),
		settings: &fakeSettings{setting: model.Setting{PlayerVolume: 0.8, PlayMode: model.PlayModeStandard}},
		guard:    &fakeGuard{},
		alerter:  &fakeAlerter{},
	}
	rig.ctrl = NewController(rig.bus, rig.element, rig.recorder, rig.cache,
		rig.settings, rig.guard, rig.alerter, opts)
	// run deferred seeks synchronously in tests
	rig.ctrl.tick = func(fn func()) { fn() }
	return rig
}

func testMusic(id string) *model.Music {
	return &model.Music{
		ID:   id,
		Name: "music " + id,
		SQ:   "http://assets.test/music/" + id + "_sq.mp3",
		HQ:   "http://assets.test/music/" + id + "_hq.mp3",
		AC:   "http://assets.test/music/" + id + "_ac.flac",
	}
}

// waitUntil polls cond until it holds or the deadline passes.
func waitUntil(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
