package server

import (
	"context"
	"errors"
	"sync"

	"MeloFM/core/player"
	"MeloFM/model"
	"MeloFM/repository"
)

// 线上信号名 -> 媒体信号
var signalNames = map[string]player.Signal{
	"play":           player.SignalPlay,
	"pause":          player.SignalPause,
	"waiting":        player.SignalWaiting,
	"canplaythrough": player.SignalCanPlayThrough,
	"timeupdate":     player.SignalTimeUpdate,
	"ended":          player.SignalEnded,
	"error":          player.SignalError,
}

// remoteElement is the MediaElement of one websocket client. The client owns
// the real audio element: element commands travel down the connection, signals
// and playback snapshots travel up and are mirrored here.
type remoteElement struct {
	send func(wireEvent)

	mu       sync.Mutex
	paused   bool
	current  float64
	duration float64
	played   []player.TimeRange
	signal   player.SignalFunc
}

func newRemoteElement(send func(wireEvent)) *remoteElement {
	return &remoteElement{send: send, paused: true}
}

func (e *remoteElement) SetSource(url string) {
	e.mu.Lock()
	// 新音源从头开始
	e.paused = true
	e.current = 0
	e.duration = 0
	e.played = nil
	e.mu.Unlock()

	e.send(wireEvent{Type: "setSource", Data: payload{URL: url}})
}

// Play issues the start command. The client reports the actual outcome back
// through signals, so the command itself never fails here.
func (e *remoteElement) Play(ctx context.Context) error {
	e.mu.Lock()
	e.paused = false
	e.mu.Unlock()

	e.send(wireEvent{Type: "startPlayback"})
	return nil
}

func (e *remoteElement) Pause() {
	e.mu.Lock()
	e.paused = true
	e.mu.Unlock()

	e.send(wireEvent{Type: "pausePlayback"})
}

func (e *remoteElement) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

func (e *remoteElement) CurrentTime() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

func (e *remoteElement) SetCurrentTime(second float64) {
	e.mu.Lock()
	e.current = second
	e.mu.Unlock()

	e.send(wireEvent{Type: "setCurrentTime", Data: payload{Second: second}})
}

func (e *remoteElement) Duration() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.duration
}

func (e *remoteElement) Played() []player.TimeRange {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.played
}

func (e *remoteElement) SetVolume(volume float64) {
	e.send(wireEvent{Type: "setVolume", Data: payload{Volume: volume}})
}

func (e *remoteElement) OnSignal(fn player.SignalFunc) {
	e.mu.Lock()
	e.signal = fn
	e.mu.Unlock()
}

// applySignal mirrors the client's playback snapshot, then fires the signal.
func (e *remoteElement) applySignal(p payload) {
	e.mu.Lock()
	e.current = p.CurrentTime
	if p.Duration > 0 {
		e.duration = p.Duration
	}
	if p.Played != nil {
		ranges := make([]player.TimeRange, 0, len(p.Played))
		for _, r := range p.Played {
			ranges = append(ranges, player.TimeRange{Start: r[0], End: r[1]})
		}
		e.played = ranges
	}
	switch p.Name {
	case "play":
		e.paused = false
	case "pause", "ended":
		e.paused = true
	}
	fn := e.signal
	e.mu.Unlock()

	sig, ok := signalNames[p.Name]
	if !ok || fn == nil {
		return
	}
	var err error
	if sig == player.SignalError {
		message := p.Message
		if message == "" {
			message = "unknown media error"
		}
		err = errors.New(message)
	}
	fn(sig, err)
}

// remoteGuard mirrors whether a text input has focus on the client side.
type remoteGuard struct {
	mu      sync.Mutex
	focused bool
}

func (g *remoteGuard) setFocused(v bool) {
	g.mu.Lock()
	g.focused = v
	g.mu.Unlock()
}

func (g *remoteGuard) TextInputFocused() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.focused
}

// wireAlerter surfaces fatal media errors to the client as alert messages.
type wireAlerter struct {
	send func(wireEvent)
}

func (a *wireAlerter) Alert(title, message string) {
	a.send(wireEvent{Type: "alert", Data: payload{Title: title, Message: message}})
}

// sessionRecorder persists play records straight into the repository on behalf
// of the session's user.
type sessionRecorder struct {
	repo   repository.PlayRecordRepository
	userID string
}

func (r *sessionRecorder) RecordPlay(musicID string, percent float64) error {
	return r.repo.Create(&model.PlayRecord{
		UserID:  r.userID,
		MusicID: musicID,
		Percent: percent,
	})
}
