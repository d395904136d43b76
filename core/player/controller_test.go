package player

import (
	"errors"
	"testing"
	"time"

	"MeloFM/core/bus"
	"MeloFM/model"
)

func TestActivateAppliesVolumeAndBindsSource(t *testing.T) {
	rig := newTestRig(Options{})
	qm := model.QueueMusic{PID: "p1", Music: testMusic("m1")}

	rig.ctrl.Activate(qm)

	if rig.element.volume != 0.8 {
		t.Errorf("volume = %v, want 0.8", rig.element.volume)
	}
	if rig.element.src != qm.Music.SQ {
		t.Errorf("src = %q, want %q", rig.element.src, qm.Music.SQ)
	}
	if got := rig.ctrl.State(); got != StateLoading {
		t.Errorf("state = %v, want loading", got)
	}
	// first activation leaves playback to the element's own autoplay
	if rig.element.playCalls != 0 {
		t.Errorf("playCalls = %d, want 0 on first activation", rig.element.playCalls)
	}
}

func TestSourceURLFollowsPlayMode(t *testing.T) {
	rig := newTestRig(Options{})
	rig.settings.setting.PlayMode = model.PlayModeLossless
	qm := model.QueueMusic{PID: "p1", Music: testMusic("m1")}

	rig.ctrl.Activate(qm)

	if rig.element.src != qm.Music.AC {
		t.Errorf("src = %q, want lossless source %q", rig.element.src, qm.Music.AC)
	}
}

func TestQueueChangeFlushesOutgoingSession(t *testing.T) {
	rig := newTestRig(Options{})
	a := model.QueueMusic{PID: "pa", Music: testMusic("t1")}
	b := model.QueueMusic{PID: "pb", Music: testMusic("t2")}

	rig.ctrl.Activate(a)
	rig.element.prime(200, []TimeRange{{0, 50}, {60, 170}})

	log := watchEvents(rig.bus, bus.AudioTimeUpdated)
	rig.ctrl.ChangeQueue(b)

	// the record reflects the replaced position, proving flush ran before
	// the fake element was reset by the new source
	waitUntil(t, func() bool { return len(rig.recorder.snapshot()) == 1 })
	call := rig.recorder.snapshot()[0]
	if call.musicID != "t1" {
		t.Errorf("recorded musicID = %q, want t1", call.musicID)
	}
	if call.percent != 0.8 {
		t.Errorf("recorded percent = %v, want 0.8", call.percent)
	}

	// fraction 0.8 > 0.75, so the outgoing asset gets cached
	waitUntil(t, func() bool { return rig.cache.storeCount() == 1 })
	if rig.cache.stores[0] != a.Music.SQ {
		t.Errorf("cached url = %q, want %q", rig.cache.stores[0], a.Music.SQ)
	}

	// the incoming session starts at zero and plays automatically
	if rig.element.src != b.Music.SQ {
		t.Errorf("src = %q, want %q", rig.element.src, b.Music.SQ)
	}
	if rig.element.current != 0 {
		t.Errorf("current = %v, want 0", rig.element.current)
	}
	if rig.element.playCalls != 1 {
		t.Errorf("playCalls = %d, want 1", rig.element.playCalls)
	}

	resets := log.ofType(bus.AudioTimeUpdated)
	if len(resets) != 1 || resets[0].CurrentMillisecond != 0 {
		t.Errorf("position reset events = %+v, want one with millisecond 0", resets)
	}
}

func TestQueueChangeSamePositionIsNoop(t *testing.T) {
	rig := newTestRig(Options{})
	a := model.QueueMusic{PID: "pa", Music: testMusic("t1")}

	rig.ctrl.Activate(a)
	rig.element.prime(100, []TimeRange{{0, 100}})
	rig.ctrl.ChangeQueue(a)

	time.Sleep(50 * time.Millisecond)
	if n := len(rig.recorder.snapshot()); n != 0 {
		t.Errorf("record calls = %d, want 0", n)
	}
}

func TestFlushWithUnknownDurationRecordsZero(t *testing.T) {
	rig := newTestRig(Options{})
	a := model.QueueMusic{PID: "pa", Music: testMusic("t1")}
	b := model.QueueMusic{PID: "pb", Music: testMusic("t2")}

	rig.ctrl.Activate(a)
	rig.element.prime(0, []TimeRange{{0, 50}})
	rig.ctrl.ChangeQueue(b)

	waitUntil(t, func() bool { return len(rig.recorder.snapshot()) == 1 })
	if got := rig.recorder.snapshot()[0].percent; got != 0 {
		t.Errorf("percent = %v, want 0 for unknown duration", got)
	}

	time.Sleep(50 * time.Millisecond)
	if rig.cache.storeCount() != 0 {
		t.Error("cache store attempted for fraction 0")
	}
}

func TestTeardownFlushesOnceAndUnsubscribes(t *testing.T) {
	rig := newTestRig(Options{})
	a := model.QueueMusic{PID: "pa", Music: testMusic("t1")}

	rig.ctrl.Activate(a)
	rig.element.prime(100, []TimeRange{{0, 90}})
	rig.ctrl.Teardown()

	waitUntil(t, func() bool { return len(rig.recorder.snapshot()) == 1 })

	// commands no longer reach the element
	before := rig.element.playCalls
	rig.bus.Emit(bus.PlayAction())
	if rig.element.playCalls != before {
		t.Error("play command handled after teardown")
	}
}

func TestSetTimeCommand(t *testing.T) {
	rig := newTestRig(Options{})
	rig.ctrl.Activate(model.QueueMusic{PID: "p1", Music: testMusic("m1")})

	log := watchEvents(rig.bus, bus.AudioWaiting, bus.AudioTimeUpdated)
	rig.bus.Emit(bus.SetTime(42))

	if len(log.ofType(bus.AudioWaiting)) != 1 {
		t.Error("expected immediate waiting event")
	}
	if rig.element.current != 42 {
		t.Errorf("current = %v, want 42", rig.element.current)
	}
	if rig.element.paused {
		t.Error("playback not resumed after seek")
	}

	updates := log.ofType(bus.AudioTimeUpdated)
	if len(updates) != 1 || updates[0].CurrentMillisecond != 42000 {
		t.Errorf("time updates = %+v, want one carrying 42000", updates)
	}
}

func TestTogglePlayCommand(t *testing.T) {
	rig := newTestRig(Options{})
	rig.ctrl.Activate(model.QueueMusic{PID: "p1", Music: testMusic("m1")})

	rig.bus.Emit(bus.TogglePlay())
	if rig.element.Paused() {
		t.Error("toggle from paused did not start playback")
	}

	rig.bus.Emit(bus.TogglePlay())
	if !rig.element.Paused() {
		t.Error("toggle from playing did not pause")
	}
}

func TestPlayRejectionIsSilent(t *testing.T) {
	rig := newTestRig(Options{})
	rig.element.playErr = errors.New("autoplay blocked")
	rig.ctrl.Activate(model.QueueMusic{PID: "p1", Music: testMusic("m1")})

	log := watchEvents(rig.bus, bus.AudioError)
	rig.bus.Emit(bus.PlayAction())

	if !rig.element.Paused() {
		t.Error("element should stay paused on rejection")
	}
	if rig.alerter.count() != 0 {
		t.Error("rejection must not raise an alert")
	}
	if len(log.ofType(bus.AudioError)) != 0 {
		t.Error("rejection must not publish an error event")
	}
}

func TestSignalsMirroredAsDomainEvents(t *testing.T) {
	rig := newTestRig(Options{})
	rig.ctrl.Activate(model.QueueMusic{PID: "p1", Music: testMusic("m1")})
	rig.element.prime(200, nil)

	log := watchEvents(rig.bus,
		bus.AudioCanPlayThrough, bus.AudioPlay, bus.AudioPause, bus.AudioWaiting)

	rig.element.fire(SignalCanPlayThrough, nil)
	rig.element.fire(SignalPlay, nil)
	rig.element.fire(SignalWaiting, nil)
	rig.element.fire(SignalCanPlayThrough, nil)
	rig.element.fire(SignalPause, nil)

	if got := log.ofType(bus.AudioCanPlayThrough); len(got) != 2 || got[0].DurationSeconds != 200 {
		t.Errorf("canPlayThrough events = %+v, want two carrying duration 200", got)
	}
	if len(log.ofType(bus.AudioPlay)) != 1 {
		t.Error("expected one play event")
	}
	if len(log.ofType(bus.AudioWaiting)) != 1 {
		t.Error("expected one waiting event")
	}
	if len(log.ofType(bus.AudioPause)) != 1 {
		t.Error("expected one pause event")
	}
	if got := rig.ctrl.State(); got != StatePaused {
		t.Errorf("state = %v, want paused", got)
	}
}

func TestEndedRemappedToAdvance(t *testing.T) {
	rig := newTestRig(Options{})
	rig.ctrl.Activate(model.QueueMusic{PID: "p1", Music: testMusic("m1")})

	log := watchEvents(rig.bus, bus.ActionNext)
	rig.element.fire(SignalPlay, nil)
	rig.element.fire(SignalEnded, nil)

	if len(log.ofType(bus.ActionNext)) != 1 {
		t.Error("expected exactly one advance-to-next command")
	}
	if got := rig.ctrl.State(); got != StateEnded {
		t.Errorf("state = %v, want ended", got)
	}
}

func TestDecodeErrorAlertsOnce(t *testing.T) {
	rig := newTestRig(Options{})
	rig.ctrl.Activate(model.QueueMusic{PID: "p1", Music: testMusic("m1")})

	log := watchEvents(rig.bus, bus.AudioError, bus.ActionNext)
	rig.element.fire(SignalPlay, nil)
	rig.element.fire(SignalError, errors.New("decode failed"))
	// the session is terminal: a repeated error signal is ignored
	rig.element.fire(SignalError, errors.New("decode failed again"))

	errs := log.ofType(bus.AudioError)
	if len(errs) != 1 {
		t.Fatalf("error events = %d, want 1", len(errs))
	}
	if errs[0].Message != "decode failed" {
		t.Errorf("error message = %q", errs[0].Message)
	}
	if rig.alerter.count() != 1 {
		t.Errorf("alerts = %d, want 1", rig.alerter.count())
	}
	if len(log.ofType(bus.ActionNext)) != 0 {
		t.Error("error must not advance to the next music")
	}
	if got := rig.ctrl.State(); got != StateErrored {
		t.Errorf("state = %v, want errored", got)
	}
}

func TestTimeUpdateThrottled(t *testing.T) {
	rig := newTestRig(Options{TimeUpdateInterval: time.Hour})
	rig.ctrl.Activate(model.QueueMusic{PID: "p1", Music: testMusic("m1")})
	rig.element.fire(SignalPlay, nil)

	log := watchEvents(rig.bus, bus.AudioTimeUpdated)

	rig.element.SetCurrentTime(1)
	rig.element.fire(SignalTimeUpdate, nil)
	rig.element.SetCurrentTime(1.1)
	rig.element.fire(SignalTimeUpdate, nil)
	rig.element.SetCurrentTime(1.2)
	rig.element.fire(SignalTimeUpdate, nil)

	updates := log.ofType(bus.AudioTimeUpdated)
	if len(updates) != 1 {
		t.Fatalf("time updates = %d, want 1 within throttle window", len(updates))
	}
	if updates[0].CurrentMillisecond != 1000 {
		t.Errorf("millisecond = %v, want 1000", updates[0].CurrentMillisecond)
	}
}

func TestVolumeChangeAppliedLive(t *testing.T) {
	rig := newTestRig(Options{})
	rig.ctrl.Activate(model.QueueMusic{PID: "p1", Music: testMusic("m1")})
	rig.element.SetCurrentTime(33)

	rig.bus.Emit(bus.VolumeChanged(0.25))

	if rig.element.volume != 0.25 {
		t.Errorf("volume = %v, want 0.25", rig.element.volume)
	}
	if rig.element.current != 33 {
		t.Error("volume change disturbed playback position")
	}
}

func TestKeyboardControls(t *testing.T) {
	rig := newTestRig(Options{SeekStep: 5})
	rig.ctrl.Activate(model.QueueMusic{PID: "p1", Music: testMusic("m1")})
	rig.element.SetCurrentTime(50)

	if !rig.ctrl.HandleKey(KeySpace) {
		t.Error("space must suppress the default page scroll")
	}
	if rig.element.Paused() {
		t.Error("space did not toggle playback")
	}

	if rig.ctrl.HandleKey(KeyArrowRight) {
		t.Error("arrow keys must not suppress default behavior")
	}
	if rig.element.current != 55 {
		t.Errorf("current = %v, want 55 after forward seek", rig.element.current)
	}

	rig.ctrl.HandleKey(KeyArrowLeft)
	if rig.element.current != 50 {
		t.Errorf("current = %v, want 50 after backward seek", rig.element.current)
	}

	if rig.ctrl.HandleKey(Key("x")) {
		t.Error("unknown keys must be ignored")
	}
}

func TestKeyboardSuppressedWhileTyping(t *testing.T) {
	rig := newTestRig(Options{})
	rig.ctrl.Activate(model.QueueMusic{PID: "p1", Music: testMusic("m1")})
	rig.guard.focused = true

	if rig.ctrl.HandleKey(KeySpace) {
		t.Error("space handled while a text input has focus")
	}
	if !rig.element.Paused() {
		t.Error("playback toggled while a text input has focus")
	}
}
