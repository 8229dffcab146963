// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package label normalizes free-text tag and category names and associates them
with content items.

# Model

A label lives in one of two namespaces ([NamespaceTag], [NamespaceCategory]).
Each namespace has a canonical table keyed by a unique slug, and every content
item (article, project) embeds the label NAMES it carries, not their ids.

	canonical row:  {id, name: "Data Science", slug: "data-science"}
	article.tags:   ["Data Science", "Go"]

Consequences of the embedded-name design:

  - Names that slugify identically are the same label; the first stored
    display name wins.
  - Renaming a canonical row does not rewrite content items.
  - A name can be embedded without a canonical row (legacy data). Such names
    are surfaced as derived labels whose id equals their slug.
*/
package label

import (
	"strings"
	"time"

	"github.com/taibuivan/folio/internal/platform/validate"
	"github.com/taibuivan/folio/pkg/slice"
	"github.com/taibuivan/folio/pkg/slug"
)

// # Namespaces

// Namespace separates tags from categories. Slugs are unique per namespace.
type Namespace string

const (
	NamespaceTag      Namespace = "tags"
	NamespaceCategory Namespace = "categories"
)

// Namespaces lists every namespace in display order.
var Namespaces = []Namespace{NamespaceTag, NamespaceCategory}

// Valid reports whether n is a known namespace.
func (n Namespace) Valid() bool {
	return n == NamespaceTag || n == NamespaceCategory
}

// Resource is the singular, client-facing noun used in error messages.
func (n Namespace) Resource() string {
	if n == NamespaceCategory {
		return "Category"
	}
	return "Tag"
}

// ParseNamespace accepts the URL form ("tags", "categories") and the singular
// CLI form ("tag", "category").
func ParseNamespace(raw string) (Namespace, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "tags", "tag":
		return NamespaceTag, nil
	case "categories", "category":
		return NamespaceCategory, nil
	}
	return "", validate.FieldError(FieldNamespace, "Must be one of: tags, categories")
}

// # Content Items

// ContentKind identifies the table a labelled item lives in.
type ContentKind string

const (
	KindArticle ContentKind = "article"
	KindProject ContentKind = "project"
)

// Valid reports whether k is a known content kind.
func (k ContentKind) Valid() bool {
	return k == KindArticle || k == KindProject
}

// Resource is the singular, client-facing noun used in error messages.
func (k ContentKind) Resource() string {
	if k == KindProject {
		return "Project"
	}
	return "Article"
}

// ParseContentKind accepts "article(s)" and "project(s)".
func ParseContentKind(raw string) (ContentKind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "article", "articles":
		return KindArticle, nil
	case "project", "projects":
		return KindProject, nil
	}
	return "", validate.FieldError(FieldKind, "Must be one of: article, project")
}

// ContentRef points at one labelled item.
type ContentRef struct {
	Kind ContentKind
	ID   string
}

// ContentSummary is the minimal view of an item carrying a given label.
type ContentSummary struct {
	Kind      ContentKind `json:"kind"`
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Slug      string      `json:"slug"`
	Published bool        `json:"published"`
}

// # Labels

// Label is a canonical tag or category, or one synthesized from an embedded name.
type Label struct {
	ID          string    `json:"id"`
	Namespace   Namespace `json:"namespace"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	Color       *string   `json:"color"`
	Featured    bool      `json:"featured"`
	CreatedAt   time.Time `json:"created_at,omitzero"`

	// Derived marks labels built from an embedded name rather than read from
	// the canonical table. Their ID equals their Slug.
	Derived bool `json:"derived,omitempty"`
}

// MetadataPatch carries the display fields an admin may edit.
// Nil fields are left unchanged; an empty string clears the value.
type MetadataPatch struct {
	Description *string `json:"description"`
	Color       *string `json:"color"`
	Featured    *bool   `json:"featured"`
}

// IsEmpty reports whether the patch changes nothing.
func (p MetadataPatch) IsEmpty() bool {
	return p.Description == nil && p.Color == nil && p.Featured == nil
}

// # Field Identifiers

const (
	FieldName        = "name"
	FieldNames       = "names"
	FieldNamespace   = "namespace"
	FieldKind        = "kind"
	FieldDescription = "description"
	FieldColor       = "color"
)

const (
	// MaxNameLength bounds a label display name.
	MaxNameLength = 64
	// MaxLabelsPerItem bounds how many labels of one namespace an item may carry.
	MaxLabelsPerItem = 32
	// maxDescriptionLength bounds the admin-editable description.
	maxDescriptionLength = 500
)

// derive synthesizes the label-shaped view of an embedded name.
func derive(namespace Namespace, name string) *Label {
	labelSlug := slug.From(name)
	return &Label{
		ID:        labelSlug,
		Namespace: namespace,
		Name:      name,
		Slug:      labelSlug,
		Derived:   true,
	}
}

/*
Normalize prepares a list of requested label names for tagging.

Each name is trimmed and slugified. The whole list is rejected if any name
yields an empty slug or is too long, so that a tagging operation never
writes a partial result. Names whose slugs coincide are collapsed, keeping
the first occurrence.

Example:

	Normalize([]string{" Go ", "go", "Data Science"}) // ["Go", "Data Science"]
*/
func Normalize(names []string) ([]string, error) {
	validator := &validate.Validator{}

	trimmed := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)

		if slug.From(name) == "" {
			validator.Custom(FieldNames, true, "Label names must contain at least one letter or digit: "+quote(name))
			continue
		}
		validator.MaxLen(FieldNames, name, MaxNameLength)
		trimmed = append(trimmed, name)
	}

	unique := slice.UniqueBy(trimmed, slug.From)
	validator.Custom(FieldNames, len(unique) > MaxLabelsPerItem, "Too many labels for one item")

	if err := validator.Err(); err != nil {
		return nil, err
	}
	return unique, nil
}

func quote(s string) string {
	return `"` + s + `"`
}

// invalidRef reports a malformed content reference as a validation error.
func invalidRef(ref ContentRef) error {
	if !ref.Kind.Valid() {
		return validate.FieldError(FieldKind, "Must be one of: article, project")
	}
	if strings.TrimSpace(ref.ID) == "" {
		return validate.FieldError("id", "This field is required")
	}
	return nil
}

// invalidNamespace reports an unknown namespace as a validation error.
func invalidNamespace(namespace Namespace) error {
	if namespace.Valid() {
		return nil
	}
	return validate.FieldError(FieldNamespace, "Must be one of: tags, categories")
}
