package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"MeloFM/db"
	"MeloFM/model"
)

// SingerRepository defines the interface for singer data operations.
type SingerRepository interface {
	// GetSingersInMusicIDs returns musicID -> singers for every given music.
	GetSingersInMusicIDs(musicIDs []string) (map[string][]model.Singer, error)
}

// mysqlSingerRepository implements SingerRepository for MySQL.
type mysqlSingerRepository struct {
	DB *sql.DB
}

// NewMySQLSingerRepository creates a new instance of mysqlSingerRepository.
func NewMySQLSingerRepository() SingerRepository {
	return &mysqlSingerRepository{DB: db.DB}
}

func (r *mysqlSingerRepository) GetSingersInMusicIDs(musicIDs []string) (map[string][]model.Singer, error) {
	result := make(map[string][]model.Singer)
	if len(musicIDs) == 0 {
		return result, nil
	}

	placeholders := strings.Repeat("?,", len(musicIDs))
	placeholders = placeholders[:len(placeholders)-1]
	query := fmt.Sprintf(`
		SELECT ms.music_id, s.id, s.name, s.aliases
		FROM music_singer AS ms
		LEFT JOIN singers AS s
			ON ms.singer_id = s.id
		WHERE ms.music_id IN (%s)`, placeholders)

	args := make([]any, len(musicIDs))
	for i, id := range musicIDs {
		args[i] = id
	}

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query singers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var musicID string
		var singer model.Singer
		var aliases string
		if err := rows.Scan(&musicID, &singer.ID, &singer.Name, &aliases); err != nil {
			if err == sql.ErrNoRows {
				continue
			}
			return nil, fmt.Errorf("failed to scan singer row: %w", err)
		}
		singer.Aliases = splitAliases(aliases)
		result[musicID] = append(result[musicID], singer)
	}
	return result, rows.Err()
}
