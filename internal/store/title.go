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

// TitleStore manages titles and their genre links.
type TitleStore struct {
	db *sql.DB
}

// NewTitleStore returns a new TitleStore.
func NewTitleStore(db *sql.DB) *TitleStore {
	return &TitleStore{db: db}
}

// titleSelect joins the category and computes the rating as the rounded
// mean of review scores (NULL without reviews).
const titleSelect = `
	SELECT t.id, t.name, t.year, t.description, t.category_id,
	       c.name, c.slug,
	       (SELECT ROUND(AVG(r.score))::int FROM reviews r WHERE r.title_id = t.id)
	FROM titles t
	LEFT JOIN categories c ON c.id = t.category_id`

func scanTitle(row scanner) (*models.Title, error) {
	var (
		t                models.Title
		catName, catSlug sql.NullString
		rating           sql.NullInt64
	)
	err := row.Scan(&t.ID, &t.Name, &t.Year, &t.Description, &t.CategoryID,
		&catName, &catSlug, &rating)
	if err != nil {
		return nil, err
	}
	if t.CategoryID != nil && catSlug.Valid {
		t.Category = &models.Category{ID: *t.CategoryID, Name: catName.String, Slug: catSlug.String}
	}
	if rating.Valid {
		r := int(rating.Int64)
		t.Rating = &r
	}
	t.Genres = []models.Genre{}
	return &t, nil
}

// List returns all titles ordered by id, with category, genres and rating.
func (s *TitleStore) List(ctx context.Context) ([]models.Title, error) {
	rows, err := s.db.QueryContext(ctx, titleSelect+` ORDER BY t.id`)
	if err != nil {
		return nil, fmt.Errorf("list titles: %w", err)
	}
	defer rows.Close()

	items := []models.Title{}
	for rows.Next() {
		t, err := scanTitle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan title: %w", err)
		}
		items = append(items, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list titles: %w", err)
	}

	if err := s.attachGenres(ctx, s.db, items); err != nil {
		return nil, err
	}
	return items, nil
}

// FindByID retrieves a title by id. Returns nil if not found.
func (s *TitleStore) FindByID(ctx context.Context, id int64) (*models.Title, error) {
	return s.findByID(ctx, s.db, id)
}

func (s *TitleStore) findByID(ctx context.Context, q querier, id int64) (*models.Title, error) {
	t, err := scanTitle(q.QueryRowContext(ctx, titleSelect+` WHERE t.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find title by id: %w", err)
	}

	items := []models.Title{*t}
	if err := s.attachGenres(ctx, q, items); err != nil {
		return nil, err
	}
	return &items[0], nil
}

// Create inserts a title with its genre links in one transaction and
// returns the stored title.
func (s *TitleStore) Create(ctx context.Context, t *models.Title, genreIDs []int64) (*models.Title, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO titles (name, year, description, category_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		t.Name, t.Year, t.Description, t.CategoryID,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create title: %w", constraintErr(err))
	}

	if err := linkGenres(ctx, tx, id, genreIDs); err != nil {
		return nil, err
	}

	created, err := s.findByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit title: %w", err)
	}
	return created, nil
}

// Update writes name, year, description and category. When genreIDs is
// non-nil the genre links are replaced by it; nil leaves them untouched.
func (s *TitleStore) Update(ctx context.Context, t *models.Title, genreIDs []int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE titles SET name = $1, year = $2, description = $3, category_id = $4
		WHERE id = $5`,
		t.Name, t.Year, t.Description, t.CategoryID, t.ID,
	)
	if err != nil {
		return fmt.Errorf("update title: %w", constraintErr(err))
	}
	if err := mustAffect(res); err != nil {
		return err
	}

	if genreIDs != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM genre_title WHERE title_id = $1`, t.ID); err != nil {
			return fmt.Errorf("clear title genres: %w", err)
		}
		if err := linkGenres(ctx, tx, t.ID, genreIDs); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Delete removes a title. Reviews, their comments and genre links cascade.
func (s *TitleStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM titles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete title: %w", err)
	}
	return mustAffect(res)
}

func linkGenres(ctx context.Context, tx *sql.Tx, titleID int64, genreIDs []int64) error {
	if len(genreIDs) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO genre_title (title_id, genre_id) VALUES ($1, $2)
		ON CONFLICT (title_id, genre_id) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("prepare genre link: %w", err)
	}
	defer stmt.Close()

	for _, gid := range genreIDs {
		if _, err := stmt.ExecContext(ctx, titleID, gid); err != nil {
			return fmt.Errorf("link genre %d: %w", gid, constraintErr(err))
		}
	}
	return nil
}

// attachGenres loads the genres of every title in items with one query.
func (s *TitleStore) attachGenres(ctx context.Context, q querier, items []models.Title) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]int64, len(items))
	index := make(map[int64]int, len(items))
	for i, t := range items {
		ids[i] = t.ID
		index[t.ID] = i
	}

	rows, err := q.QueryContext(ctx, `
		SELECT gt.title_id, g.id, g.name, g.slug
		FROM genre_title gt
		JOIN genres g ON g.id = gt.genre_id
		WHERE gt.title_id = ANY($1)
		ORDER BY g.id`, ids)
	if err != nil {
		return fmt.Errorf("list title genres: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			titleID int64
			g       models.Genre
		)
		if err := rows.Scan(&titleID, &g.ID, &g.Name, &g.Slug); err != nil {
			return fmt.Errorf("scan title genre: %w", err)
		}
		i := index[titleID]
		items[i].Genres = append(items[i].Genres, g)
	}
	return rows.Err()
}
