package repository

import (
	"database/sql"
	"fmt"

	"MeloFM/db"
	"MeloFM/model"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	CreateUser(user *model.User) error
	GetUserByID(id string) (*model.User, error)
	GetUserByEmail(email string) (*model.User, error)
}

// mysqlUserRepository implements UserRepository for MySQL.
type mysqlUserRepository struct {
	DB *sql.DB
}

// NewMySQLUserRepository creates a new instance of mysqlUserRepository.
func NewMySQLUserRepository() UserRepository {
	return &mysqlUserRepository{DB: db.DB}
}

// CreateUser adds a new user.
func (r *mysqlUserRepository) CreateUser(user *model.User) error {
	query := `INSERT INTO users (id, nickname, avatar, email, password_hash) VALUES (?, ?, ?, ?, ?)`
	if _, err := r.DB.Exec(query, user.ID, user.Nickname, user.Avatar, user.Email, user.PasswordHash); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByID retrieves a user by ID. Returns nil, nil when not found.
func (r *mysqlUserRepository) GetUserByID(id string) (*model.User, error) {
	return r.getUser(`SELECT id, nickname, avatar, email, password_hash, created_at FROM users WHERE id = ?`, id)
}

// GetUserByEmail retrieves a user by email. Returns nil, nil when not found.
func (r *mysqlUserRepository) GetUserByEmail(email string) (*model.User, error) {
	return r.getUser(`SELECT id, nickname, avatar, email, password_hash, created_at FROM users WHERE email = ?`, email)
}

func (r *mysqlUserRepository) getUser(query string, arg any) (*model.User, error) {
	row := r.DB.QueryRow(query, arg)

	user := &model.User{}
	err := row.Scan(&user.ID, &user.Nickname, &user.Avatar, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return user, nil
}
