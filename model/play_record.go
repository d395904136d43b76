package model

import "time"

// PlayRecord stores how much of a music was actually listened to in one
// listening attempt. Percent is playedSeconds/duration at session flush time,
// 0 when the duration was unknown.
type PlayRecord struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    string    `json:"userId" gorm:"column:user_id;size:64;index"`
	MusicID   string    `json:"musicId" gorm:"column:music_id;size:64;index"`
	Percent   float64   `json:"percent" gorm:"column:percent"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName maps PlayRecord to its table.
func (PlayRecord) TableName() string {
	return "music_play_records"
}
