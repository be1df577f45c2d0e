// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Score bounds for a review, inclusive.
const (
	MinScore = 1
	MaxScore = 10
)

// Review is a user's scored opinion of a title. A user reviews a given
// title at most once (unique_review constraint).
type Review struct {
	ID       int64
	TitleID  int64
	AuthorID int64
	Author   string // author's username, joined in by the store
	Text     string
	Score    int
	PubDate  time.Time
}

// ValidScore reports whether score is within [MinScore, MaxScore].
func ValidScore(score int) bool {
	return score >= MinScore && score <= MaxScore
}

// Comment is a reply attached to a review.
type Comment struct {
	ID       int64
	ReviewID int64
	AuthorID int64
	Author   string
	Text     string
	PubDate  time.Time
}
