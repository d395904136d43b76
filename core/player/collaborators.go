package player

import "MeloFM/model"

// PlayRecorder uploads how much of a music was listened to. Fire-and-forget:
// the controller never retries and only logs failures.
type PlayRecorder interface {
	RecordPlay(musicID string, percent float64) error
}

// SettingProvider exposes the current persisted player settings.
type SettingProvider interface {
	Current() model.Setting
}

// InputGuard reports whether a text-input control currently has focus, in
// which case keyboard shortcuts must not fire.
type InputGuard interface {
	TextInputFocused() bool
}

// Alerter raises a user-facing alert. Used only for fatal media errors.
type Alerter interface {
	Alert(title, message string)
}
