package bus

// EventType 事件类型
type EventType int

const (
	// 音频域事件，由播放控制器发布
	AudioWaiting        EventType = iota // 缓冲中
	AudioCanPlayThrough                  // 可流畅播放，时长已知
	AudioPlay                            // 开始播放
	AudioPause                           // 暂停
	AudioTimeUpdated                     // 播放进度更新（节流）
	AudioError                           // 播放错误

	// 控制命令，由其他界面组件发布、播放控制器消费
	ActionSetTime    // 跳转到指定秒
	ActionTogglePlay // 播放/暂停切换
	ActionPlay       // 播放
	ActionPause      // 暂停
	ActionNext       // 切换下一首（自然播放结束时由控制器发布）

	// 设置变更
	SettingVolumeChanged // 音量变更
)

// String returns the string representation of the event type.
func (t EventType) String() string {
	switch t {
	case AudioWaiting:
		return "audio_waiting"
	case AudioCanPlayThrough:
		return "audio_can_play_through"
	case AudioPlay:
		return "audio_play"
	case AudioPause:
		return "audio_pause"
	case AudioTimeUpdated:
		return "audio_time_updated"
	case AudioError:
		return "audio_error"
	case ActionSetTime:
		return "action_set_time"
	case ActionTogglePlay:
		return "action_toggle_play"
	case ActionPlay:
		return "action_play"
	case ActionPause:
		return "action_pause"
	case ActionNext:
		return "action_next"
	case SettingVolumeChanged:
		return "setting_volume_changed"
	default:
		return "unknown"
	}
}

// Event is one bus message. The payload fields are a closed set: which field
// is meaningful is determined by Type, all others stay zero.
type Event struct {
	Type EventType

	DurationSeconds    float64 `json:"durationSeconds,omitempty"`    // AudioCanPlayThrough
	CurrentMillisecond float64 `json:"currentMillisecond,omitempty"` // AudioTimeUpdated
	Second             float64 `json:"second,omitempty"`             // ActionSetTime
	Volume             float64 `json:"volume,omitempty"`             // SettingVolumeChanged
	Message            string  `json:"message,omitempty"`            // AudioError
}

// Waiting builds an AudioWaiting event.
func Waiting() Event {
	return Event{Type: AudioWaiting}
}

// CanPlayThrough builds an AudioCanPlayThrough event carrying the known duration.
func CanPlayThrough(durationSeconds float64) Event {
	return Event{Type: AudioCanPlayThrough, DurationSeconds: durationSeconds}
}

// Play builds an AudioPlay event.
func Play() Event {
	return Event{Type: AudioPlay}
}

// Pause builds an AudioPause event.
func Pause() Event {
	return Event{Type: AudioPause}
}

// TimeUpdated builds an AudioTimeUpdated event carrying the playback offset in
// milliseconds.
func TimeUpdated(currentMillisecond float64) Event {
	return Event{Type: AudioTimeUpdated, CurrentMillisecond: currentMillisecond}
}

// PlayError builds an AudioError event.
func PlayError(message string) Event {
	return Event{Type: AudioError, Message: message}
}

// SetTime builds an ActionSetTime command.
func SetTime(second float64) Event {
	return Event{Type: ActionSetTime, Second: second}
}

// TogglePlay builds an ActionTogglePlay command.
func TogglePlay() Event {
	return Event{Type: ActionTogglePlay}
}

// PlayAction builds an ActionPlay command.
func PlayAction() Event {
	return Event{Type: ActionPlay}
}

// PauseAction builds an ActionPause command.
func PauseAction() Event {
	return Event{Type: ActionPause}
}

// Next builds an ActionNext command.
func Next() Event {
	return Event{Type: ActionNext}
}

// VolumeChanged builds a SettingVolumeChanged event.
func VolumeChanged(volume float64) Event {
	return Event{Type: SettingVolumeChanged, Volume: volume}
}
