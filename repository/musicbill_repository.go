package repository

import (
	"database/sql"
	"fmt"

	"MeloFM/db"
	"MeloFM/model"
)

// MusicbillRepository defines the interface for musicbill data operations.
type MusicbillRepository interface {
	GetMusicbillByID(id string) (*model.Musicbill, error)
	IsCollectedBy(musicbillID, userID string) (bool, error)
}

// mysqlMusicbillRepository implements MusicbillRepository for MySQL.
type mysqlMusicbillRepository struct {
	DB *sql.DB
}

// NewMySQLMusicbillRepository creates a new instance of mysqlMusicbillRepository.
func NewMySQLMusicbillRepository() MusicbillRepository {
	return &mysqlMusicbillRepository{DB: db.DB}
}

// GetMusicbillByID retrieves a musicbill by its ID. Returns nil, nil when not
// found.
func (r *mysqlMusicbillRepository) GetMusicbillByID(id string) (*model.Musicbill, error) {
	query := `SELECT id, user_id, name, cover, public, create_timestamp, created_at
	           FROM musicbills WHERE id = ?`
	row := r.DB.QueryRow(query, id)

	musicbill := &model.Musicbill{}
	err := row.Scan(&musicbill.ID, &musicbill.UserID, &musicbill.Name, &musicbill.Cover,
		&musicbill.Public, &musicbill.CreateTimestamp, &musicbill.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan musicbill by ID %s: %w", id, err)
	}
	return musicbill, nil
}

// IsCollectedBy reports whether the user collected the musicbill.
func (r *mysqlMusicbillRepository) IsCollectedBy(musicbillID, userID string) (bool, error) {
	query := `SELECT id FROM musicbill_collections WHERE musicbill_id = ? AND user_id = ?`
	var id int64
	err := r.DB.QueryRow(query, musicbillID, userID).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("failed to query musicbill collection: %w", err)
	}
	return true, nil
}
