package player

// ReadyState 媒体就绪状态
type ReadyState int

const (
	StateIdle    ReadyState = iota // no session bound
	StateLoading                   // source bound, buffering towards playable
	StateReady                     // can play through, duration known
	StatePlaying
	StatePaused
	StateWaiting // rebuffering mid-playback
	StateEnded
	StateErrored // decode/network failure, terminal for the session
)

// String returns the string representation of the state.
func (s ReadyState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateWaiting:
		return "waiting"
	case StateEnded:
		return "ended"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// transition returns the state following sig. ok is false when the signal is
// illegal in the current state; the state is then left unchanged by callers.
// SignalTimeUpdate never changes readiness and is not routed through here.
func transition(s ReadyState, sig Signal) (next ReadyState, ok bool) {
	// 错误信号在任何非终态都合法，且进入终态
	if sig == SignalError {
		if s == StateErrored {
			return s, false
		}
		return StateErrored, true
	}

	switch s {
	case StateIdle:
		return s, false
	case StateLoading:
		switch sig {
		case SignalCanPlayThrough:
			return StateReady, true
		case SignalPlay:
			// autoplay may start before buffering settles
			return StatePlaying, true
		case SignalWaiting:
			return StateLoading, true
		}
	case StateReady:
		switch sig {
		case SignalPlay:
			return StatePlaying, true
		case SignalPause:
			return StatePaused, true
		case SignalCanPlayThrough:
			return StateReady, true
		}
	case StatePlaying:
		switch sig {
		case SignalPause:
			return StatePaused, true
		case SignalWaiting:
			return StateWaiting, true
		case SignalEnded:
			return StateEnded, true
		case SignalCanPlayThrough:
			return StatePlaying, true
		case SignalPlay:
			return StatePlaying, true
		}
	case StatePaused:
		switch sig {
		case SignalPlay:
			return StatePlaying, true
		case SignalWaiting:
			// seeking while paused triggers a buffer round
			return StateWaiting, true
		case SignalCanPlayThrough:
			return StatePaused, true
		case SignalPause:
			return StatePaused, true
		}
	case StateWaiting:
		switch sig {
		case SignalCanPlayThrough:
			return StatePlaying, true
		case SignalPlay:
			return StatePlaying, true
		case SignalPause:
			return StatePaused, true
		case SignalEnded:
			return StateEnded, true
		case SignalWaiting:
			return StateWaiting, true
		}
	case StateEnded, StateErrored:
		// terminal until a new source is bound
		return s, false
	}
	return s, false
}
