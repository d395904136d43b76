package model

import "time"

// Musicbill is a user-curated collection of musics.
type Musicbill struct {
	ID              string    `json:"id"`
	UserID          string    `json:"-"`
	Name            string    `json:"name"`
	Cover           string    `json:"cover"`
	Public          bool      `json:"-"`
	CreateTimestamp int64     `json:"createTimestamp"`
	CreatedAt       time.Time `json:"-"`
}

// PublicMusicbill is the API shape of a public musicbill, including its owner
// summary and ordered music list.
type PublicMusicbill struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Cover           string      `json:"cover"`
	CreateTimestamp int64       `json:"createTimestamp"`
	User            UserSummary `json:"user"`
	MusicList       []*Music    `json:"musicList"`
	Collected       bool        `json:"collected"`
}

// User represents an account.
type User struct {
	ID           string    `json:"id"`
	Nickname     string    `json:"nickname"`
	Avatar       string    `json:"avatar"`
	Email        string    `json:"-"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserSummary is the public view of a user.
type UserSummary struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
}
