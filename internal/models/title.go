// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"errors"
	"time"
)

// ErrFutureYear is returned by ValidateYear for years that have not started yet.
var ErrFutureYear = errors.New("year is in the future")

// Title is a reviewable work: a film, a book, an album.
type Title struct {
	ID          int64
	Name        string
	Year        int
	Description *string
	CategoryID  *int64

	// Populated by store methods.
	Category *Category
	Genres   []Genre
	Rating   *int
}

// ValidateYear rejects release years after the current one.
func ValidateYear(year int, now time.Time) error {
	if year > now.Year() {
		return ErrFutureYear
	}
	return nil
}
