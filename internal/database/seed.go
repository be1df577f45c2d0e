package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// seedCategories and seedGenres give a fresh development database
// something to browse.
var (
	seedCategories = [][2]string{
		{"Films", "movie"},
		{"Books", "book"},
		{"Music", "music"},
	}
	seedGenres = [][2]string{
		{"Drama", "drama"},
		{"Comedy", "comedy"},
		{"Science fiction", "sci-fi"},
		{"Rock", "rock"},
	}
)

// Seed populates the database with initial development data.
// It creates a default admin user and a starter catalog if no users exist.
func Seed(db *sql.DB) error {
	// Check if any users exist already.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO users (username, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT DO NOTHING
	`, "admin", "admin@yamdb.local", string(hash), "admin")
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	for _, c := range seedCategories {
		if _, err := tx.Exec(`INSERT INTO categories (name, slug) VALUES ($1, $2) ON CONFLICT (slug) DO NOTHING`, c[0], c[1]); err != nil {
			return fmt.Errorf("seed category %s: %w", c[1], err)
		}
	}
	for _, g := range seedGenres {
		if _, err := tx.Exec(`INSERT INTO genres (name, slug) VALUES ($1, $2) ON CONFLICT (slug) DO NOTHING`, g[0], g[1]); err != nil {
			return fmt.Errorf("seed genre %s: %w", g[1], err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with default admin user",
		"username", "admin",
		"password", "admin",
	)
	return nil
}
