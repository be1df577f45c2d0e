// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the JSON HTTP handlers of the YaMDb API.
// Handlers are grouped by resource and receive their dependencies through
// small interfaces, so tests can substitute in-memory fakes for the
// PostgreSQL stores and Valkey caches.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"yamdb/internal/api"
	"yamdb/internal/middleware"
	"yamdb/internal/models"
	"yamdb/internal/session"
	"yamdb/internal/store"
)

// UserRepository is the account storage used by Auth.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	Create(ctx context.Context, username, email, password string, role models.Role) (*models.User, error)
	CheckPassword(user *models.User, password string) bool
}

// SessionIssuer creates and revokes bearer tokens.
type SessionIssuer interface {
	Create(ctx context.Context, data *session.Data) (string, error)
	Destroy(ctx context.Context, token string) error
}

// CategoryRepository is the category storage used by Catalog and Titles.
type CategoryRepository interface {
	api.CategoryFinder
	List(ctx context.Context) ([]models.Category, error)
	Create(ctx context.Context, c *models.Category) (*models.Category, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

// GenreRepository is the genre storage used by Catalog and Titles.
type GenreRepository interface {
	api.GenreFinder
	List(ctx context.Context) ([]models.Genre, error)
	Create(ctx context.Context, g *models.Genre) (*models.Genre, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

// TitleRepository is the title storage used by Titles and Reviews.
type TitleRepository interface {
	List(ctx context.Context) ([]models.Title, error)
	FindByID(ctx context.Context, id int64) (*models.Title, error)
	Create(ctx context.Context, t *models.Title, genreIDs []int64) (*models.Title, error)
	Update(ctx context.Context, t *models.Title, genreIDs []int64) error
	Delete(ctx context.Context, id int64) error
}

// ReviewRepository is the review storage used by Reviews.
type ReviewRepository interface {
	api.ReviewChecker
	ListByTitle(ctx context.Context, titleID int64) ([]models.Review, error)
	FindByID(ctx context.Context, titleID, reviewID int64) (*models.Review, error)
	Create(ctx context.Context, r *models.Review) (*models.Review, error)
	Update(ctx context.Context, r *models.Review) error
	Delete(ctx context.Context, titleID, reviewID int64) error
}

// CommentRepository is the comment storage used by Reviews.
type CommentRepository interface {
	ListByReview(ctx context.Context, reviewID int64) ([]models.Comment, error)
	FindByID(ctx context.Context, reviewID, commentID int64) (*models.Comment, error)
	Create(ctx context.Context, c *models.Comment) (*models.Comment, error)
	Update(ctx context.Context, c *models.Comment) error
	Delete(ctx context.Context, reviewID, commentID int64) error
}

// TitleCache caches serialized title reads. Every write that changes what
// a title renders, including its rating, must invalidate it.
type TitleCache interface {
	Get(ctx context.Context, id int64) ([]byte, bool)
	Set(ctx context.Context, id int64, body []byte)
	Invalidate(ctx context.Context, id int64)
	InvalidateAll(ctx context.Context)
}

// noCache is used when no TitleCache is configured.
type noCache struct{}

func (noCache) Get(context.Context, int64) ([]byte, bool) { return nil, false }
func (noCache) Set(context.Context, int64, []byte)        {}
func (noCache) Invalidate(context.Context, int64)         {}
func (noCache) InvalidateAll(context.Context)             {}

const (
	msgNotFound  = "Not found."
	msgForbidden = "You do not have permission to perform this action."
	msgInternal  = "Internal server error."
)

// writeJSON sends data as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}

// writeDetail sends a {"detail": msg} body.
func writeDetail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}

func notFound(w http.ResponseWriter) {
	writeDetail(w, http.StatusNotFound, msgNotFound)
}

func forbidden(w http.ResponseWriter) {
	writeDetail(w, http.StatusForbidden, msgForbidden)
}

// writeError maps err to a response: validation errors become 400 with the
// field map as body, store.ErrNotFound a 404 and everything else a logged 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr api.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, verr)
	case errors.Is(err, store.ErrNotFound):
		notFound(w)
	default:
		slog.Error("request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.RequestIDFromCtx(r.Context()),
		)
		writeDetail(w, http.StatusInternalServerError, msgInternal)
	}
}

// pathID parses the named chi URL parameter as a positive int64.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
