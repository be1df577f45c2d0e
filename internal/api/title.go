package api

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"yamdb/internal/models"
)

const msgFutureYear = "This year has not come yet."

// Title is the read shape of a title: genres and category are expanded
// into objects and rating is the rounded mean score.
type Title struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Year        int       `json:"year"`
	Description *string   `json:"description"`
	Genre       []Genre   `json:"genre"`
	Category    *Category `json:"category"`
	Rating      *int      `json:"rating"`
}

// NewTitle converts a stored title to its read shape.
func NewTitle(t models.Title) Title {
	out := Title{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Description: t.Description,
		Genre:       make([]Genre, 0, len(t.Genres)),
		Rating:      t.Rating,
	}
	for _, g := range t.Genres {
		out.Genre = append(out.Genre, NewGenre(g))
	}
	if t.Category != nil {
		c := NewCategory(*t.Category)
		out.Category = &c
	}
	return out
}

// TitleInput is the write shape of a title: genre is a list of genre
// slugs and category a category slug. Nil fields were absent from the
// request and are left unchanged by a partial update.
type TitleInput struct {
	Name        *string   `json:"name"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Genre       *[]string `json:"genre"`
	Category    *string   `json:"category"`
}

// Validate checks field values. On create (partial == false) name, year
// and category are required; genre is always optional.
func (in *TitleInput) Validate(partial bool, now time.Time) error {
	errs := ValidationError{}

	if in.Name == nil {
		if !partial {
			errs.Add("name", msgRequired)
		}
	} else {
		name := strings.TrimSpace(*in.Name)
		in.Name = &name
		switch {
		case name == "":
			errs.Add("name", msgBlank)
		case utf8.RuneCountInString(name) > MaxNameLen:
			errs.Add("name", maxLenMsg(MaxNameLen))
		}
	}

	if in.Year == nil {
		if !partial {
			errs.Add("year", msgRequired)
		}
	} else if models.ValidateYear(*in.Year, now) != nil {
		errs.Add("year", msgFutureYear)
	}

	if in.Category == nil {
		if !partial {
			errs.Add("category", msgRequired)
		}
	} else if strings.TrimSpace(*in.Category) == "" {
		errs.Add("category", msgBlank)
	}

	return errs.Err()
}

// CategoryFinder resolves a category slug. It returns nil for unknown slugs.
type CategoryFinder interface {
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
}

// GenreFinder resolves genre slugs, omitting unknown ones from the result.
type GenreFinder interface {
	FindBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error)
}

// Resolve applies the input onto t, resolving category and genre slugs.
// It returns the genre IDs to link, or nil when the genre list was absent.
// Unknown slugs produce a ValidationError on the offending field.
func (in *TitleInput) Resolve(ctx context.Context, t *models.Title, categories CategoryFinder, genres GenreFinder) ([]int64, error) {
	errs := ValidationError{}

	if in.Category != nil {
		c, err := categories.FindBySlug(ctx, strings.TrimSpace(*in.Category))
		if err != nil {
			return nil, err
		}
		if c == nil {
			errs.Add("category", ReferenceMsg(*in.Category))
		} else {
			t.CategoryID = &c.ID
			t.Category = c
		}
	}

	var genreIDs []int64
	if in.Genre != nil {
		slugs := dedupe(*in.Genre)
		found, err := genres.FindBySlugs(ctx, slugs)
		if err != nil {
			return nil, err
		}
		known := make(map[string]bool, len(found))
		genreIDs = make([]int64, 0, len(found))
		for _, g := range found {
			known[g.Slug] = true
			genreIDs = append(genreIDs, g.ID)
		}
		for _, s := range slugs {
			if !known[s] {
				errs.Add("genre", ReferenceMsg(s))
			}
		}
		t.Genres = found
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}

	if in.Name != nil {
		t.Name = *in.Name
	}
	if in.Year != nil {
		t.Year = *in.Year
	}
	if in.Description != nil {
		t.Description = in.Description
	}
	return genreIDs, nil
}

// dedupe returns slugs without repeats, keeping first-seen order.
func dedupe(slugs []string) []string {
	seen := make(map[string]bool, len(slugs))
	out := make([]string, 0, len(slugs))
	for _, s := range slugs {
		s = strings.TrimSpace(s)
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
