// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"yamdb/internal/api"
	"yamdb/internal/store"
)

// Catalog groups the category and genre handlers. Both resources are
// addressed by slug.
type Catalog struct {
	categories CategoryRepository
	genres     GenreRepository
	titles     TitleCache
}

// NewCatalog creates a new Catalog handler group. titles may be nil.
func NewCatalog(categories CategoryRepository, genres GenreRepository, titles TitleCache) *Catalog {
	if titles == nil {
		titles = noCache{}
	}
	return &Catalog{categories: categories, genres: genres, titles: titles}
}

// --- Categories ---

// ListCategories returns every category.
func (c *Catalog) ListCategories(w http.ResponseWriter, r *http.Request) {
	items, err := c.categories.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]api.Category, 0, len(items))
	for _, item := range items {
		out = append(out, api.NewCategory(item))
	}
	writeJSON(w, http.StatusOK, out)
}

// CreateCategory adds a category.
func (c *Catalog) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var in api.Category
	if err := api.Decode(r.Body, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if err := in.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := c.categories.Create(r.Context(), in.Model())
	if errors.Is(err, store.ErrDuplicate) {
		writeError(w, r, api.FieldError("slug", api.UniqueMsg("category", "slug")))
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("category created", "slug", created.Slug)
	writeJSON(w, http.StatusCreated, api.NewCategory(*created))
}

// DeleteCategory removes a category. Its titles keep existing with no category.
func (c *Catalog) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if err := c.categories.DeleteBySlug(r.Context(), slug); err != nil {
		writeError(w, r, err)
		return
	}

	c.titles.InvalidateAll(r.Context())
	slog.Info("category deleted", "slug", slug)
	w.WriteHeader(http.StatusNoContent)
}

// --- Genres ---

// ListGenres returns every genre.
func (c *Catalog) ListGenres(w http.ResponseWriter, r *http.Request) {
	items, err := c.genres.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]api.Genre, 0, len(items))
	for _, item := range items {
		out = append(out, api.NewGenre(item))
	}
	writeJSON(w, http.StatusOK, out)
}

// CreateGenre adds a genre.
func (c *Catalog) CreateGenre(w http.ResponseWriter, r *http.Request) {
	var in api.Genre
	if err := api.Decode(r.Body, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if err := in.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := c.genres.Create(r.Context(), in.Model())
	if errors.Is(err, store.ErrDuplicate) {
		writeError(w, r, api.FieldError("slug", api.UniqueMsg("genre", "slug")))
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("genre created", "slug", created.Slug)
	writeJSON(w, http.StatusCreated, api.NewGenre(*created))
}

// DeleteGenre removes a genre and its links to titles.
func (c *Catalog) DeleteGenre(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if err := c.genres.DeleteBySlug(r.Context(), slug); err != nil {
		writeError(w, r, err)
		return
	}

	c.titles.InvalidateAll(r.Context())
	slog.Info("genre deleted", "slug", slug)
	w.WriteHeader(http.StatusNoContent)
}
