package db

import (
	"database/sql"
	"fmt"
	"log"

	"MeloFM/config"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

var DB *sql.DB

// ConnectDB establishes a connection to the database.
func ConnectDB(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	var err error
	DB, err = sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	if err = DB.Ping(); err != nil {
		DB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Successfully connected to the database.")
	return nil
}

// InitDB initializes the database schema, creating tables if they don't exist.
func InitDB() error {
	if err := createUsersTable(); err != nil {
		return err
	}
	if err := createMusicsTable(); err != nil {
		return err
	}
	if err := createSingersTables(); err != nil {
		return err
	}
	if err := createMusicbillTables(); err != nil {
		return err
	}

	log.Println("Database initialization completed.")
	return nil
}

func createUsersTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id VARCHAR(64) PRIMARY KEY,
		nickname VARCHAR(255) NOT NULL,
		avatar VARCHAR(512) NOT NULL DEFAULT '',
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}
	return nil
}

func createMusicsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS musics (
		id VARCHAR(64) PRIMARY KEY,
		type INT NOT NULL DEFAULT 0,
		name VARCHAR(255) NOT NULL,
		aliases VARCHAR(1024) NOT NULL DEFAULT '',
		cover VARCHAR(512) NOT NULL DEFAULT '',
		sq VARCHAR(512) NOT NULL DEFAULT '',
		hq VARCHAR(512) NOT NULL DEFAULT '',
		ac VARCHAR(512) NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`
	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create musics table: %w", err)
	}
	return nil
}

func createSingersTables() error {
	query := `
	CREATE TABLE IF NOT EXISTS singers (
		id VARCHAR(64) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		aliases VARCHAR(1024) NOT NULL DEFAULT ''
	)`
	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create singers table: %w", err)
	}

	query = `
	CREATE TABLE IF NOT EXISTS music_singer (
		music_id VARCHAR(64) NOT NULL,
		singer_id VARCHAR(64) NOT NULL,
		PRIMARY KEY (music_id, singer_id)
	)`
	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create music_singer table: %w", err)
	}
	return nil
}

func createMusicbillTables() error {
	query := `
	CREATE TABLE IF NOT EXISTS musicbills (
		id VARCHAR(64) PRIMARY KEY,
		user_id VARCHAR(64) NOT NULL,
		name VARCHAR(255) NOT NULL,
		cover VARCHAR(512) NOT NULL DEFAULT '',
		public TINYINT(1) NOT NULL DEFAULT 0,
		create_timestamp BIGINT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_musicbills_user (user_id)
	)`
	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create musicbills table: %w", err)
	}

	query = `
	CREATE TABLE IF NOT EXISTS musicbill_music (
		musicbill_id VARCHAR(64) NOT NULL,
		music_id VARCHAR(64) NOT NULL,
		add_timestamp BIGINT NOT NULL,
		PRIMARY KEY (musicbill_id, music_id)
	)`
	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create musicbill_music table: %w", err)
	}

	query = `
	CREATE TABLE IF NOT EXISTS musicbill_collections (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		musicbill_id VARCHAR(64) NOT NULL,
		user_id VARCHAR(64) NOT NULL,
		UNIQUE KEY uk_collection (musicbill_id, user_id)
	)`
	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create musicbill_collections table: %w", err)
	}
	return nil
}
