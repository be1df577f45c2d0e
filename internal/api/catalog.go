package api

import (
	"strings"
	"unicode/utf8"

	"yamdb/internal/models"
	"yamdb/internal/slug"
)

// MaxNameLen bounds category, genre and title names.
const MaxNameLen = 256

// Category is the wire shape of a category, used for input and output.
type Category struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Genre is the wire shape of a genre, used for input and output.
type Genre struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// NewCategory converts a stored category to its wire shape.
func NewCategory(c models.Category) Category {
	return Category{Name: c.Name, Slug: c.Slug}
}

// NewGenre converts a stored genre to its wire shape.
func NewGenre(g models.Genre) Genre {
	return Genre{Name: g.Name, Slug: g.Slug}
}

// Validate trims the payload, derives a missing slug from the name and
// checks both fields.
func (c *Category) Validate() error {
	c.Name, c.Slug = normalizeNameSlug(c.Name, c.Slug)
	return validateNameSlug(c.Name, c.Slug)
}

// Model returns the category to store.
func (c *Category) Model() *models.Category {
	return &models.Category{Name: c.Name, Slug: c.Slug}
}

// Validate trims the payload, derives a missing slug from the name and
// checks both fields.
func (g *Genre) Validate() error {
	g.Name, g.Slug = normalizeNameSlug(g.Name, g.Slug)
	return validateNameSlug(g.Name, g.Slug)
}

// Model returns the genre to store.
func (g *Genre) Model() *models.Genre {
	return &models.Genre{Name: g.Name, Slug: g.Slug}
}

func normalizeNameSlug(name, s string) (string, string) {
	name = strings.TrimSpace(name)
	s = strings.TrimSpace(s)
	if s == "" {
		s = slug.FromName(name)
	}
	return name, s
}

func validateNameSlug(name, s string) error {
	errs := ValidationError{}
	switch {
	case name == "":
		errs.Add("name", msgRequired)
	case utf8.RuneCountInString(name) > MaxNameLen:
		errs.Add("name", maxLenMsg(MaxNameLen))
	}
	switch {
	case s == "":
		errs.Add("slug", msgRequired)
	case len(s) > slug.MaxLen:
		errs.Add("slug", maxLenMsg(slug.MaxLen))
	case !slug.Valid(s):
		errs.Add("slug", msgSlug)
	}
	return errs.Err()
}
