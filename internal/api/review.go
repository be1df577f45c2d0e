package api

import (
	"context"
	"fmt"
	"strings"
	"time"

	"yamdb/internal/models"
)

// MsgDuplicateReview is reported when a user reviews a title twice.
const MsgDuplicateReview = "A user may leave only one review per title."

// Review is the wire shape of a review. Author is the author's username.
type Review struct {
	ID      int64     `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	Score   int       `json:"score"`
	PubDate time.Time `json:"pub_date"`
}

// NewReview converts a stored review to its wire shape.
func NewReview(r models.Review) Review {
	return Review{ID: r.ID, Text: r.Text, Author: r.Author, Score: r.Score, PubDate: r.PubDate}
}

// ReviewInput is the writable part of a review. The author always comes
// from the authenticated requester, never from the payload.
type ReviewInput struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

// Validate checks text and score. On create both are required.
func (in *ReviewInput) Validate(partial bool) error {
	errs := ValidationError{}
	validateText(errs, &in.Text, partial)

	if in.Score == nil {
		if !partial {
			errs.Add("score", msgRequired)
		}
	} else if *in.Score < models.MinScore {
		errs.Add("score", fmt.Sprintf("Ensure this value is greater than or equal to %d.", models.MinScore))
	} else if *in.Score > models.MaxScore {
		errs.Add("score", fmt.Sprintf("Ensure this value is less than or equal to %d.", models.MaxScore))
	}
	return errs.Err()
}

// Apply copies the present fields onto r.
func (in *ReviewInput) Apply(r *models.Review) {
	if in.Text != nil {
		r.Text = *in.Text
	}
	if in.Score != nil {
		r.Score = *in.Score
	}
}

// ReviewChecker reports whether an author already reviewed a title.
type ReviewChecker interface {
	ExistsForAuthor(ctx context.Context, authorID, titleID int64) (bool, error)
}

// CheckFirstReview rejects a second review of titleID by author. It only
// gives an early, friendly answer: the unique_review constraint is what
// actually prevents duplicates when two requests race.
func CheckFirstReview(ctx context.Context, reviews ReviewChecker, author *models.User, titleID int64) error {
	exists, err := reviews.ExistsForAuthor(ctx, author.ID, titleID)
	if err != nil {
		return err
	}
	if exists {
		return FieldError(NonFieldErrors, MsgDuplicateReview)
	}
	return nil
}

// Comment is the wire shape of a comment on a review.
type Comment struct {
	ID      int64     `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	PubDate time.Time `json:"pub_date"`
}

// NewComment converts a stored comment to its wire shape.
func NewComment(c models.Comment) Comment {
	return Comment{ID: c.ID, Text: c.Text, Author: c.Author, PubDate: c.PubDate}
}

// CommentInput is the writable part of a comment.
type CommentInput struct {
	Text *string `json:"text"`
}

// Validate checks the comment text. On create it is required.
func (in *CommentInput) Validate(partial bool) error {
	errs := ValidationError{}
	validateText(errs, &in.Text, partial)
	return errs.Err()
}

// Apply copies the present fields onto c.
func (in *CommentInput) Apply(c *models.Comment) {
	if in.Text != nil {
		c.Text = *in.Text
	}
}

func validateText(errs ValidationError, text **string, partial bool) {
	if *text == nil {
		if !partial {
			errs.Add("text", msgRequired)
		}
		return
	}
	if strings.TrimSpace(**text) == "" {
		errs.Add("text", msgBlank)
	}
}
