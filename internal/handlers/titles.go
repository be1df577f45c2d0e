package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"yamdb/internal/api"
	"yamdb/internal/models"
	"yamdb/internal/store"
)

// Titles groups the title handlers.
type Titles struct {
	titles     TitleRepository
	categories CategoryRepository
	genres     GenreRepository
	cache      TitleCache
	now        func() time.Time
}

// NewTitles creates a new Titles handler group. cache may be nil.
func NewTitles(titles TitleRepository, categories CategoryRepository, genres GenreRepository, cache TitleCache) *Titles {
	if cache == nil {
		cache = noCache{}
	}
	return &Titles{
		titles:     titles,
		categories: categories,
		genres:     genres,
		cache:      cache,
		now:        time.Now,
	}
}

// List returns every title with its genres, category and rating.
func (h *Titles) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.titles.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]api.Title, 0, len(items))
	for _, t := range items {
		out = append(out, api.NewTitle(t))
	}
	writeJSON(w, http.StatusOK, out)
}

// Get returns one title, served from the title cache when possible.
func (h *Titles) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "title_id")
	if !ok {
		notFound(w)
		return
	}

	if body, hit := h.cache.Get(r.Context(), id); hit {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Cache", "HIT")
		w.WriteHeader(http.StatusOK)
		w.Write(body)
		return
	}

	t, err := h.titles.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if t == nil {
		notFound(w)
		return
	}

	body, err := json.Marshal(api.NewTitle(*t))
	if err != nil {
		writeError(w, r, err)
		return
	}
	body = append(body, '\n')
	h.cache.Set(r.Context(), id, body)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "MISS")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// Create adds a title. Genres and category are given by slug.
func (h *Titles) Create(w http.ResponseWriter, r *http.Request) {
	var in api.TitleInput
	if err := api.Decode(r.Body, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if err := in.Validate(false, h.now()); err != nil {
		writeError(w, r, err)
		return
	}

	t := &models.Title{}
	genreIDs, err := in.Resolve(r.Context(), t, h.categories, h.genres)
	if err != nil {
		writeError(w, r, err)
		return
	}

	created, err := h.titles.Create(r.Context(), t, genreIDs)
	if err != nil {
		writeError(w, r, referenceErr(err))
		return
	}

	slog.Info("title created", "title_id", created.ID, "name", created.Name)
	writeJSON(w, http.StatusCreated, api.NewTitle(*created))
}

// Update partially updates a title. An explicit genre list replaces the
// current genres; an absent one keeps them.
func (h *Titles) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "title_id")
	if !ok {
		notFound(w)
		return
	}

	t, err := h.titles.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if t == nil {
		notFound(w)
		return
	}

	var in api.TitleInput
	if err := api.Decode(r.Body, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if err := in.Validate(true, h.now()); err != nil {
		writeError(w, r, err)
		return
	}

	genreIDs, err := in.Resolve(r.Context(), t, h.categories, h.genres)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.titles.Update(r.Context(), t, genreIDs); err != nil {
		writeError(w, r, referenceErr(err))
		return
	}
	h.cache.Invalidate(r.Context(), id)

	updated, err := h.titles.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if updated == nil {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, api.NewTitle(*updated))
}

// Delete removes a title together with its reviews and their comments.
func (h *Titles) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "title_id")
	if !ok {
		notFound(w)
		return
	}

	if err := h.titles.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	h.cache.Invalidate(r.Context(), id)

	slog.Info("title deleted", "title_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// referenceErr turns a foreign key violation, a category or genre removed
// between resolving and writing, into a validation error.
func referenceErr(err error) error {
	if errors.Is(err, store.ErrReference) {
		return api.FieldError(api.NonFieldErrors, "A referenced category or genre no longer exists.")
	}
	return err
}
