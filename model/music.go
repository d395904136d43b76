package model

import "time"

// PlayMode selects which quality tier of a music's sources is played.
type PlayMode string

const (
	PlayModeStandard PlayMode = "sq" // standard quality
	PlayModeHigh     PlayMode = "hq" // high quality
	PlayModeLossless PlayMode = "ac" // lossless
)

// Music represents a music entry in the library.
// Each music carries three quality-tier source assets (sq/hq/ac).
type Music struct {
	ID        string    `json:"id"`
	Type      int       `json:"type"`
	Name      string    `json:"name"`
	Aliases   []string  `json:"aliases"`
	Cover     string    `json:"cover"`
	SQ        string    `json:"sq"` // standard quality source URL
	HQ        string    `json:"hq"` // high quality source URL
	AC        string    `json:"ac"` // lossless source URL
	Singers   []Singer  `json:"singers,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SourceURL returns the source asset URL for the given play mode.
func (m *Music) SourceURL(mode PlayMode) string {
	switch mode {
	case PlayModeHigh:
		return m.HQ
	case PlayModeLossless:
		return m.AC
	default:
		return m.SQ
	}
}

// Singer represents a performer attached to one or more musics.
type Singer struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Aliases []string `json:"aliases"`
}
