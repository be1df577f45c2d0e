// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"yamdb/internal/api"
	"yamdb/internal/middleware"
	"yamdb/internal/models"
	"yamdb/internal/store"
)

// Reviews groups the review and comment handlers. Every route is nested
// under a title, and comment routes additionally under a review of it.
type Reviews struct {
	titles   TitleRepository
	reviews  ReviewRepository
	comments CommentRepository
	cache    TitleCache
}

// NewReviews creates a new Reviews handler group. cache may be nil.
func NewReviews(titles TitleRepository, reviews ReviewRepository, comments CommentRepository, cache TitleCache) *Reviews {
	if cache == nil {
		cache = noCache{}
	}
	return &Reviews{titles: titles, reviews: reviews, comments: comments, cache: cache}
}

// requester returns the authenticated user or answers 401.
func requester(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		writeDetail(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
		return nil, false
	}
	return user, true
}

// loadTitleID resolves {title_id} to an existing title, answering 404 otherwise.
func (h *Reviews) loadTitleID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := pathID(r, "title_id")
	if !ok {
		notFound(w)
		return 0, false
	}
	t, err := h.titles.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return 0, false
	}
	if t == nil {
		notFound(w)
		return 0, false
	}
	return id, true
}

// loadReview resolves {title_id} and {review_id} to a review of that title.
func (h *Reviews) loadReview(w http.ResponseWriter, r *http.Request) (*models.Review, bool) {
	titleID, ok := pathID(r, "title_id")
	if !ok {
		notFound(w)
		return nil, false
	}
	reviewID, ok := pathID(r, "review_id")
	if !ok {
		notFound(w)
		return nil, false
	}

	rev, err := h.reviews.FindByID(r.Context(), titleID, reviewID)
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	if rev == nil {
		notFound(w)
		return nil, false
	}
	return rev, true
}

// --- Reviews ---

// ListReviews returns the reviews of a title.
func (h *Reviews) ListReviews(w http.ResponseWriter, r *http.Request) {
	titleID, ok := h.loadTitleID(w, r)
	if !ok {
		return
	}

	items, err := h.reviews.ListByTitle(r.Context(), titleID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]api.Review, 0, len(items))
	for _, rev := range items {
		out = append(out, api.NewReview(rev))
	}
	writeJSON(w, http.StatusOK, out)
}

// GetReview returns one review of a title.
func (h *Reviews) GetReview(w http.ResponseWriter, r *http.Request) {
	rev, ok := h.loadReview(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, api.NewReview(*rev))
}

// CreateReview posts the requester's review of a title. A user reviews a
// title at most once.
func (h *Reviews) CreateReview(w http.ResponseWriter, r *http.Request) {
	user, ok := requester(w, r)
	if !ok {
		return
	}
	titleID, ok := h.loadTitleID(w, r)
	if !ok {
		return
	}

	var in api.ReviewInput
	if err := api.Decode(r.Body, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if err := in.Validate(false); err != nil {
		writeError(w, r, err)
		return
	}
	if err := api.CheckFirstReview(r.Context(), h.reviews, user, titleID); err != nil {
		writeError(w, r, err)
		return
	}

	rev := &models.Review{TitleID: titleID, AuthorID: user.ID}
	in.Apply(rev)

	created, err := h.reviews.Create(r.Context(), rev)
	if err != nil {
		writeError(w, r, reviewWriteErr(err))
		return
	}
	h.cache.Invalidate(r.Context(), titleID)

	slog.Info("review created", "review_id", created.ID, "title_id", titleID, "user_id", user.ID)
	writeJSON(w, http.StatusCreated, api.NewReview(*created))
}

// UpdateReview partially updates a review. Allowed to its author,
// moderators and admins.
func (h *Reviews) UpdateReview(w http.ResponseWriter, r *http.Request) {
	user, ok := requester(w, r)
	if !ok {
		return
	}
	rev, ok := h.loadReview(w, r)
	if !ok {
		return
	}
	if !user.CanModify(rev.AuthorID) {
		forbidden(w)
		return
	}

	var in api.ReviewInput
	if err := api.Decode(r.Body, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if err := in.Validate(true); err != nil {
		writeError(w, r, err)
		return
	}

	in.Apply(rev)
	if err := h.reviews.Update(r.Context(), rev); err != nil {
		writeError(w, r, reviewWriteErr(err))
		return
	}
	h.cache.Invalidate(r.Context(), rev.TitleID)

	writeJSON(w, http.StatusOK, api.NewReview(*rev))
}

// DeleteReview removes a review and its comments.
func (h *Reviews) DeleteReview(w http.ResponseWriter, r *http.Request) {
	user, ok := requester(w, r)
	if !ok {
		return
	}
	rev, ok := h.loadReview(w, r)
	if !ok {
		return
	}
	if !user.CanModify(rev.AuthorID) {
		forbidden(w)
		return
	}

	if err := h.reviews.Delete(r.Context(), rev.TitleID, rev.ID); err != nil {
		writeError(w, r, err)
		return
	}
	h.cache.Invalidate(r.Context(), rev.TitleID)

	slog.Info("review deleted", "review_id", rev.ID, "by", user.ID)
	w.WriteHeader(http.StatusNoContent)
}

// reviewWriteErr maps constraint violations of a review write to the
// validation errors the request-time checks would have produced.
func reviewWriteErr(err error) error {
	switch {
	case errors.Is(err, store.ErrDuplicate) && store.ViolatedConstraint(err) == store.UniqueReviewConstraint:
		return api.FieldError(api.NonFieldErrors, api.MsgDuplicateReview)
	case errors.Is(err, store.ErrCheck):
		return api.FieldError("score", "Score must be between 1 and 10.")
	case errors.Is(err, store.ErrReference):
		return store.ErrNotFound
	}
	return err
}

// --- Comments ---

// ListComments returns the comments on a review.
func (h *Reviews) ListComments(w http.ResponseWriter, r *http.Request) {
	rev, ok := h.loadReview(w, r)
	if !ok {
		return
	}

	items, err := h.comments.ListByReview(r.Context(), rev.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]api.Comment, 0, len(items))
	for _, c := range items {
		out = append(out, api.NewComment(c))
	}
	writeJSON(w, http.StatusOK, out)
}

// loadComment resolves the full title/review/comment path.
func (h *Reviews) loadComment(w http.ResponseWriter, r *http.Request) (*models.Comment, bool) {
	rev, ok := h.loadReview(w, r)
	if !ok {
		return nil, false
	}
	commentID, ok := pathID(r, "comment_id")
	if !ok {
		notFound(w)
		return nil, false
	}

	c, err := h.comments.FindByID(r.Context(), rev.ID, commentID)
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	if c == nil {
		notFound(w)
		return nil, false
	}
	return c, true
}

// GetComment returns one comment.
func (h *Reviews) GetComment(w http.ResponseWriter, r *http.Request) {
	c, ok := h.loadComment(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, api.NewComment(*c))
}

// CreateComment posts the requester's comment on a review.
func (h *Reviews) CreateComment(w http.ResponseWriter, r *http.Request) {
	user, ok := requester(w, r)
	if !ok {
		return
	}
	rev, ok := h.loadReview(w, r)
	if !ok {
		return
	}

	var in api.CommentInput
	if err := api.Decode(r.Body, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if err := in.Validate(false); err != nil {
		writeError(w, r, err)
		return
	}

	c := &models.Comment{ReviewID: rev.ID, AuthorID: user.ID}
	in.Apply(c)

	created, err := h.comments.Create(r.Context(), c)
	if errors.Is(err, store.ErrReference) {
		notFound(w)
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, api.NewComment(*created))
}

// UpdateComment partially updates a comment. Allowed to its author,
// moderators and admins.
func (h *Reviews) UpdateComment(w http.ResponseWriter, r *http.Request) {
	user, ok := requester(w, r)
	if !ok {
		return
	}
	c, ok := h.loadComment(w, r)
	if !ok {
		return
	}
	if !user.CanModify(c.AuthorID) {
		forbidden(w)
		return
	}

	var in api.CommentInput
	if err := api.Decode(r.Body, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if err := in.Validate(true); err != nil {
		writeError(w, r, err)
		return
	}

	in.Apply(c)
	if err := h.comments.Update(r.Context(), c); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, api.NewComment(*c))
}

// DeleteComment removes a comment.
func (h *Reviews) DeleteComment(w http.ResponseWriter, r *http.Request) {
	user, ok := requester(w, r)
	if !ok {
		return
	}
	c, ok := h.loadComment(w, r)
	if !ok {
		return
	}
	if !user.CanModify(c.AuthorID) {
		forbidden(w)
		return
	}

	if err := h.comments.Delete(r.Context(), c.ReviewID, c.ID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
