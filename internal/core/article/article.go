// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package article manages blog posts: drafting, publishing, and listing.

Articles carry two sets of label names (tags and categories). Those sets are
never written by this package's repositories; every change goes through the
label service so that each name resolves to a canonical label first.
*/
package article

import "time"

// # Domain Model

// Article is one blog post. Content is stored as HTML.
type Article struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Slug           string     `json:"slug"`
	Excerpt        string     `json:"excerpt"`
	Content        string     `json:"content,omitempty"`
	CoverURL       *string    `json:"cover_url"`
	Tags           []string   `json:"tags"`
	Categories     []string   `json:"categories"`
	Published      bool       `json:"published"`
	Featured       bool       `json:"featured"`
	ReadingMinutes int        `json:"reading_minutes"`
	PublishedAt    *time.Time `json:"published_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Format is the markup of submitted content.
type Format string

const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
)

// Input is the payload for creating an article.
type Input struct {
	Title      string   `json:"title"`
	Slug       string   `json:"slug"`
	Excerpt    string   `json:"excerpt"`
	Content    string   `json:"content"`
	Format     Format   `json:"format"`
	CoverURL   *string  `json:"cover_url"`
	Tags       []string `json:"tags"`
	Categories []string `json:"categories"`
	Published  bool     `json:"published"`
	Featured   bool     `json:"featured"`
}

// Patch is a partial update. Nil fields are left unchanged; a non-nil
// Tags or Categories slice replaces the whole set.
type Patch struct {
	Title      *string  `json:"title"`
	Slug       *string  `json:"slug"`
	Excerpt    *string  `json:"excerpt"`
	Content    *string  `json:"content"`
	Format     Format   `json:"format"`
	CoverURL   *string  `json:"cover_url"`
	Tags       []string `json:"tags"`
	Categories []string `json:"categories"`
	Published  *bool    `json:"published"`
	Featured   *bool    `json:"featured"`
}

// Filter narrows an article listing.
type Filter struct {
	// Tag and Category match embedded names case-insensitively.
	Tag      string
	Category string
	Featured *bool
	Query    string

	// Published is forced to true for anonymous callers.
	Published *bool
}

// # Field Identifiers

const (
	FieldTitle    = "title"
	FieldSlug     = "slug"
	FieldExcerpt  = "excerpt"
	FieldContent  = "content"
	FieldFormat   = "format"
	FieldCoverURL = "cover_url"
)

const (
	maxTitleLength   = 200
	maxExcerptLength = 500
)
