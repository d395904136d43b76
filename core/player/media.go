// Package player implements the playback session controller: it owns the live
// media element across music changes, translates low-level media signals into
// domain events on the shared bus, accumulates actually-played time, uploads
// play records and decides when to cache media for offline playback.
package player

import "context"

// TimeRange is one platform-reported interval of actually-rendered media time,
// in second offsets.
type TimeRange struct {
	Start float64
	End   float64
}

// Signal 媒体元素的底层信号
type Signal int

const (
	SignalPlay Signal = iota
	SignalPause
	SignalWaiting
	SignalCanPlayThrough
	SignalTimeUpdate
	SignalEnded
	SignalError
)

// String returns the string representation of the signal.
func (s Signal) String() string {
	switch s {
	case SignalPlay:
		return "play"
	case SignalPause:
		return "pause"
	case SignalWaiting:
		return "waiting"
	case SignalCanPlayThrough:
		return "canplaythrough"
	case SignalTimeUpdate:
		return "timeupdate"
	case SignalEnded:
		return "ended"
	case SignalError:
		return "error"
	default:
		return "unknown"
	}
}

// SignalFunc receives low-level media signals. err is non-nil only for
// SignalError.
type SignalFunc func(sig Signal, err error)

// MediaElement is the platform-owned audio element the controller drives.
// Exactly one playback session owns the element at a time. Play may be
// rejected by platform policy (e.g. blocked autoplay) and reports that as an
// error.
type MediaElement interface {
	SetSource(url string)
	Play(ctx context.Context) error
	Pause()
	Paused() bool
	CurrentTime() float64
	SetCurrentTime(second float64)
	// Duration returns the total media duration in seconds, 0 while unknown.
	Duration() float64
	// Played returns the non-overlapping, start-ordered ranges actually
	// rendered since the current source was bound.
	Played() []TimeRange
	SetVolume(volume float64)
	// OnSignal registers the signal callback. Registering replaces any
	// previous callback.
	OnSignal(fn SignalFunc)
}
