// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug generates canonical URL slugs for labels, articles, and projects.
//
// # Canonical Form
//
// A slug consists only of the characters [a-z0-9-], never starts or ends with a
// hyphen, and never contains two consecutive hyphens (e.g., "data-science").
// Slugs are stable identifiers used in public URLs and as the uniqueness key
// of the label namespaces.
package slug

import (
	"regexp"
	"strings"
)

var (
	// nonAlphanumeric matches every maximal run of characters outside [a-z0-9].
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	// canonical matches a slug that is already in canonical form.
	canonical = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// From converts free text into a canonical slug.
//
// # Transformation Pipeline
//
// 1. Converts to lowercase.
// 2. Trims leading and trailing whitespace.
// 3. Replaces each run of characters outside [a-z0-9] with a single hyphen.
// 4. Trims leading/trailing hyphens.
//
// Empty or all-symbol input yields "". Callers must treat an empty slug as
// invalid input.
func From(text string) string {
	// 1-2. Lowercase and trim
	result := strings.TrimSpace(strings.ToLower(text))

	// 3. Collapse every non-alphanumeric run into one hyphen
	result = nonAlphanumeric.ReplaceAllString(result, "-")

	// 4. Clean up the edges
	return strings.Trim(result, "-")
}

// Valid reports whether s is a non-empty slug in canonical form.
func Valid(s string) bool {
	return canonical.MatchString(s)
}
