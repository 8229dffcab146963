// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package project manages portfolio entries. Projects have no draft state
// and are ordered by an explicit sort order.
package project

import "time"

// Project is one portfolio entry.
type Project struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	RepoURL     *string   `json:"repo_url"`
	LiveURL     *string   `json:"live_url"`
	ImageURL    *string   `json:"image_url"`
	Tags        []string  `json:"tags"`
	Categories  []string  `json:"categories"`
	Featured    bool      `json:"featured"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Input is the payload for creating a project.
type Input struct {
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Summary     string   `json:"summary"`
	Description string   `json:"description"`
	RepoURL     *string  `json:"repo_url"`
	LiveURL     *string  `json:"live_url"`
	ImageURL    *string  `json:"image_url"`
	Tags        []string `json:"tags"`
	Categories  []string `json:"categories"`
	Featured    bool     `json:"featured"`
	SortOrder   int      `json:"sort_order"`
}

// Patch is a partial update. An empty URL clears it.
type Patch struct {
	Title       *string  `json:"title"`
	Slug        *string  `json:"slug"`
	Summary     *string  `json:"summary"`
	Description *string  `json:"description"`
	RepoURL     *string  `json:"repo_url"`
	LiveURL     *string  `json:"live_url"`
	ImageURL    *string  `json:"image_url"`
	Tags        []string `json:"tags"`
	Categories  []string `json:"categories"`
	Featured    *bool    `json:"featured"`
	SortOrder   *int     `json:"sort_order"`
}

// Filter narrows a project listing.
type Filter struct {
	Tag      string
	Category string
	Featured *bool
}

const (
	FieldTitle     = "title"
	FieldSlug      = "slug"
	FieldSummary   = "summary"
	FieldRepoURL   = "repo_url"
	FieldLiveURL   = "live_url"
	FieldImageURL  = "image_url"
	FieldSortOrder = "sort_order"
)

const (
	resourceProject  = "Project"
	maxTitleLength   = 200
	maxSummaryLength = 500
	maxSortOrder     = 10000
)
