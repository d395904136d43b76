package model

// Setting holds the persisted player settings. The player reads the current
// values whenever it resolves a source URL and reacts to volume changes only.
type Setting struct {
	PlayerVolume float64  `json:"playerVolume"` // 0.0 - 1.0
	PlayMode     PlayMode `json:"playMode"`
}

// DefaultSetting returns the setting used before the user changed anything.
func DefaultSetting() Setting {
	return Setting{
		PlayerVolume: 1,
		PlayMode:     PlayModeStandard,
	}
}
