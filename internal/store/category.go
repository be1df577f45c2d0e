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

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug`

// scanCategory scans a row into a Category struct.
func scanCategory(row scanner) (*models.Category, error) {
	var c models.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories ordered by id.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	items := []models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// FindBySlug retrieves a category by slug. Returns nil if not found.
func (s *CategoryStore) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	c, err := scanCategory(s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return c, nil
}

// Create inserts a new category and returns it. A taken slug yields an
// error matching ErrDuplicate.
func (s *CategoryStore) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	result, err := scanCategory(s.db.QueryRowContext(ctx, `
		INSERT INTO categories (name, slug) VALUES ($1, $2)
		RETURNING `+categoryColumns,
		c.Name, c.Slug,
	))
	if err != nil {
		return nil, fmt.Errorf("create category: %w", constraintErr(err))
	}
	return result, nil
}

// DeleteBySlug removes a category. Titles in it keep existing with a
// NULL category (ON DELETE SET NULL).
func (s *CategoryStore) DeleteBySlug(ctx context.Context, slug string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE slug = $1`, slug)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return mustAffect(res)
}
