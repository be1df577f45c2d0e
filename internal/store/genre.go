// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"yamdb/internal/models"
)

// GenreStore manages genres in the database.
type GenreStore struct {
	db *sql.DB
}

// NewGenreStore returns a new GenreStore.
func NewGenreStore(db *sql.DB) *GenreStore {
	return &GenreStore{db: db}
}

const genreColumns = `id, name, slug`

func scanGenre(row scanner) (*models.Genre, error) {
	var g models.Genre
	if err := row.Scan(&g.ID, &g.Name, &g.Slug); err != nil {
		return nil, err
	}
	return &g, nil
}

// List returns all genres ordered by id.
func (s *GenreStore) List(ctx context.Context) ([]models.Genre, error) {
	return queryGenres(ctx, s.db, `SELECT `+genreColumns+` FROM genres ORDER BY id`)
}

// FindBySlugs resolves slugs to genres. Slugs with no genre are simply
// absent from the result; callers compare lengths to detect them.
func (s *GenreStore) FindBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error) {
	if len(slugs) == 0 {
		return []models.Genre{}, nil
	}
	return queryGenres(ctx, s.db,
		`SELECT `+genreColumns+` FROM genres WHERE slug = ANY($1) ORDER BY id`, slugs)
}

// Create inserts a new genre and returns it. A taken slug yields an
// error matching ErrDuplicate.
func (s *GenreStore) Create(ctx context.Context, g *models.Genre) (*models.Genre, error) {
	result, err := scanGenre(s.db.QueryRowContext(ctx, `
		INSERT INTO genres (name, slug) VALUES ($1, $2)
		RETURNING `+genreColumns,
		g.Name, g.Slug,
	))
	if err != nil {
		return nil, fmt.Errorf("create genre: %w", constraintErr(err))
	}
	return result, nil
}

// DeleteBySlug removes a genre and its title links.
func (s *GenreStore) DeleteBySlug(ctx context.Context, slug string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM genres WHERE slug = $1`, slug)
	if err != nil {
		return fmt.Errorf("delete genre: %w", err)
	}
	return mustAffect(res)
}

func queryGenres(ctx context.Context, q querier, query string, args ...any) ([]models.Genre, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	defer rows.Close()

	items := []models.Genre{}
	for rows.Next() {
		g, err := scanGenre(rows)
		if err != nil {
			return nil, fmt.Errorf("scan genre: %w", err)
		}
		items = append(items, *g)
	}
	return items, rows.Err()
}
