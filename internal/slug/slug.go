// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation and validation.
package slug

import (
	"regexp"
	"strings"
)

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, or space.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
	// valid is the accepted slug alphabet: ASCII letters, digits, '_' and '-'.
	valid = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

// MaxLen is the longest slug the catalog tables accept.
const MaxLen = 50

// Generate creates a URL-friendly slug from the given string.
// Example: "Hello, World! 2026" → "hello-world-2026"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = strings.ReplaceAll(result, " ", "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	return result
}

// Valid reports whether s is a non-empty slug made only of ASCII letters,
// digits, underscores and hyphens.
func Valid(s string) bool {
	return valid.MatchString(s)
}

// FromName generates a slug for name truncated to MaxLen.
// Returns "" when name has no usable characters.
func FromName(name string) string {
	s := Generate(name)
	if len(s) > MaxLen {
		s = strings.TrimRight(s[:MaxLen], "-")
	}
	return s
}
