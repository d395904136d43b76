package model

import "github.com/google/uuid"

// QueueMusic pairs a queue position id with the music it points to.
// The PID changes every time the user (re)selects a music, even when the music
// itself repeats, so it identifies one listening attempt rather than the music.
type QueueMusic struct {
	PID   string `json:"pid"`
	Music *Music `json:"music"`
}

// NewQueueMusic enqueues a music under a fresh position id.
func NewQueueMusic(music *Music) QueueMusic {
	return QueueMusic{
		PID:   uuid.NewString(),
		Music: music,
	}
}
