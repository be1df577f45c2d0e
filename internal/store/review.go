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

// UniqueReviewConstraint is the name of the one-review-per-author-per-title
// constraint. ViolatedConstraint returns it when Create races a duplicate.
const UniqueReviewConstraint = "unique_review"

// ReviewStore manages reviews in the database.
type ReviewStore struct {
	db *sql.DB
}

// NewReviewStore returns a new ReviewStore.
func NewReviewStore(db *sql.DB) *ReviewStore {
	return &ReviewStore{db: db}
}

const reviewSelect = `
	SELECT r.id, r.title_id, r.author_id, u.username, r.text, r.score, r.pub_date
	FROM reviews r
	JOIN users u ON u.id = r.author_id`

func scanReview(row scanner) (*models.Review, error) {
	var r models.Review
	err := row.Scan(&r.ID, &r.TitleID, &r.AuthorID, &r.Author, &r.Text, &r.Score, &r.PubDate)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListByTitle returns the reviews of a title ordered by id.
func (s *ReviewStore) ListByTitle(ctx context.Context, titleID int64) ([]models.Review, error) {
	rows, err := s.db.QueryContext(ctx, reviewSelect+` WHERE r.title_id = $1 ORDER BY r.id`, titleID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	items := []models.Review{}
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		items = append(items, *r)
	}
	return items, rows.Err()
}

// FindByID retrieves a review of the given title. Returns nil if the
// review does not exist or belongs to another title.
func (s *ReviewStore) FindByID(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	r, err := scanReview(s.db.QueryRowContext(ctx,
		reviewSelect+` WHERE r.id = $1 AND r.title_id = $2`, reviewID, titleID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find review by id: %w", err)
	}
	return r, nil
}

// ExistsForAuthor reports whether authorID has already reviewed titleID.
func (s *ReviewStore) ExistsForAuthor(ctx context.Context, authorID, titleID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM reviews WHERE author_id = $1 AND title_id = $2)`,
		authorID, titleID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check review exists: %w", err)
	}
	return exists, nil
}

// Create inserts a review and returns it with the author's username.
// A second review by the same author for the same title fails with an
// error matching ErrDuplicate on UniqueReviewConstraint.
func (s *ReviewStore) Create(ctx context.Context, r *models.Review) (*models.Review, error) {
	created, err := scanReview(s.db.QueryRowContext(ctx, `
		WITH ins AS (
			INSERT INTO reviews (author_id, title_id, text, score)
			VALUES ($1, $2, $3, $4)
			RETURNING id, title_id, author_id, text, score, pub_date
		)
		SELECT ins.id, ins.title_id, ins.author_id, u.username, ins.text, ins.score, ins.pub_date
		FROM ins JOIN users u ON u.id = ins.author_id`,
		r.AuthorID, r.TitleID, r.Text, r.Score,
	))
	if err != nil {
		return nil, fmt.Errorf("create review: %w", constraintErr(err))
	}
	return created, nil
}

// Update writes text and score. Author and title are immutable.
func (s *ReviewStore) Update(ctx context.Context, r *models.Review) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE reviews SET text = $1, score = $2 WHERE id = $3 AND title_id = $4`,
		r.Text, r.Score, r.ID, r.TitleID,
	)
	if err != nil {
		return fmt.Errorf("update review: %w", constraintErr(err))
	}
	return mustAffect(res)
}

// Delete removes a review of the given title. Its comments cascade.
func (s *ReviewStore) Delete(ctx context.Context, titleID, reviewID int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM reviews WHERE id = $1 AND title_id = $2`, reviewID, titleID)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	return mustAffect(res)
}
