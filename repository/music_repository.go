package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"MeloFM/db"
	"MeloFM/model"
)

// aliasDivider separates stored aliases inside a single column.
const aliasDivider = "|"

func splitAliases(raw string) []string {
	if raw == "" {
		return []string{}
	}
	return strings.Split(raw, aliasDivider)
}

// MusicRepository defines the interface for music data operations.
type MusicRepository interface {
	GetMusicByID(id string) (*model.Music, error)
	GetMusicsInMusicbill(musicbillID string) ([]*model.Music, error)
	GetAllMusics() ([]*model.Music, error)
}

// mysqlMusicRepository implements MusicRepository for MySQL.
type mysqlMusicRepository struct {
	DB *sql.DB
}

// NewMySQLMusicRepository creates a new instance of mysqlMusicRepository.
func NewMySQLMusicRepository() MusicRepository {
	return &mysqlMusicRepository{DB: db.DB}
}

const musicColumns = `m.id, m.type, m.name, m.aliases, m.cover, m.sq, m.hq, m.ac, m.created_at, m.updated_at`

func scanMusic(row interface{ Scan(...any) error }) (*model.Music, error) {
	music := &model.Music{}
	var aliases string
	err := row.Scan(&music.ID, &music.Type, &music.Name, &aliases, &music.Cover,
		&music.SQ, &music.HQ, &music.AC, &music.CreatedAt, &music.UpdatedAt)
	if err != nil {
		return nil, err
	}
	music.Aliases = splitAliases(aliases)
	return music, nil
}

// GetMusicByID retrieves a music by its ID. Returns nil, nil when not found.
func (r *mysqlMusicRepository) GetMusicByID(id string) (*model.Music, error) {
	query := fmt.Sprintf(`SELECT %s FROM musics AS m WHERE m.id = ?`, musicColumns)
	music, err := scanMusic(r.DB.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan music by ID %s: %w", id, err)
	}
	return music, nil
}

// GetMusicsInMusicbill retrieves a musicbill's musics, most recently added
// first.
func (r *mysqlMusicRepository) GetMusicsInMusicbill(musicbillID string) ([]*model.Music, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM musicbill_music AS mm
		LEFT JOIN musics AS m
			ON mm.music_id = m.id
		WHERE mm.musicbill_id = ?
		ORDER BY mm.add_timestamp DESC`, musicColumns)

	rows, err := r.DB.Query(query, musicbillID)
	if err != nil {
		return nil, fmt.Errorf("failed to query musics for musicbill %s: %w", musicbillID, err)
	}
	defer rows.Close()

	musics := make([]*model.Music, 0)
	for rows.Next() {
		music, err := scanMusic(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan music row: %w", err)
		}
		musics = append(musics, music)
	}
	return musics, rows.Err()
}

// GetAllMusics retrieves every music in the library.
func (r *mysqlMusicRepository) GetAllMusics() ([]*model.Music, error) {
	query := fmt.Sprintf(`SELECT %s FROM musics AS m ORDER BY m.created_at DESC`, musicColumns)
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query musics: %w", err)
	}
	defer rows.Close()

	musics := make([]*model.Music, 0)
	for rows.Next() {
		music, err := scanMusic(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan music row: %w", err)
		}
		musics = append(musics, music)
	}
	return musics, rows.Err()
}
