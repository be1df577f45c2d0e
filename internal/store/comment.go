package store

import (
	"context"
	"database/sql"
	"fmt"

	"yamdb/internal/models"
)

// CommentStore manages comments on reviews.
type CommentStore struct {
	db *sql.DB
}

// NewCommentStore returns a new CommentStore.
func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

const commentSelect = `
	SELECT c.id, c.review_id, c.author_id, u.username, c.text, c.pub_date
	FROM comments c
	JOIN users u ON u.id = c.author_id`

func scanComment(row scanner) (*models.Comment, error) {
	var c models.Comment
	if err := row.Scan(&c.ID, &c.ReviewID, &c.AuthorID, &c.Author, &c.Text, &c.PubDate); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListByReview returns the comments on a review ordered by id.
func (s *CommentStore) ListByReview(ctx context.Context, reviewID int64) ([]models.Comment, error) {
	rows, err := s.db.QueryContext(ctx, commentSelect+` WHERE c.review_id = $1 ORDER BY c.id`, reviewID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	items := []models.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// FindByID retrieves a comment on the given review. Returns nil if not found.
func (s *CommentStore) FindByID(ctx context.Context, reviewID, commentID int64) (*models.Comment, error) {
	c, err := scanComment(s.db.QueryRowContext(ctx,
		commentSelect+` WHERE c.id = $1 AND c.review_id = $2`, commentID, reviewID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find comment by id: %w", err)
	}
	return c, nil
}

// Create inserts a comment and returns it with the author's username.
func (s *CommentStore) Create(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	created, err := scanComment(s.db.QueryRowContext(ctx, `
		WITH ins AS (
			INSERT INTO comments (author_id, review_id, text)
			VALUES ($1, $2, $3)
			RETURNING id, review_id, author_id, text, pub_date
		)
		SELECT ins.id, ins.review_id, ins.author_id, u.username, ins.text, ins.pub_date
		FROM ins JOIN users u ON u.id = ins.author_id`,
		c.AuthorID, c.ReviewID, c.Text,
	))
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", constraintErr(err))
	}
	return created, nil
}

// Update writes the comment text.
func (s *CommentStore) Update(ctx context.Context, c *models.Comment) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE comments SET text = $1 WHERE id = $2 AND review_id = $3`,
		c.Text, c.ID, c.ReviewID,
	)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	return mustAffect(res)
}

// Delete removes a comment on the given review.
func (s *CommentStore) Delete(ctx context.Context, reviewID, commentID int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM comments WHERE id = $1 AND review_id = $2`, commentID, reviewID)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return mustAffect(res)
}
