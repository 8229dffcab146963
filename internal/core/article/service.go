// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package article

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/folio/internal/core/label"
	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/validate"
	"github.com/taibuivan/folio/pkg/pagination"
	"github.com/taibuivan/folio/pkg/slug"
	"github.com/taibuivan/folio/pkg/uuid"
)

// Labeler is the part of the label service that content authoring needs.
type Labeler interface {
	Resolve(ctx context.Context, namespace label.Namespace, names []string) ([]*label.Label, error)
	ContentChanged(ctx context.Context)
}

// # Service Layer

// Service orchestrates article authoring and discovery.
type Service struct {
	repo    Repository
	labeler Labeler
	logger  *slog.Logger
	now     func() time.Time
}

// NewService constructs a new [Service].
func NewService(repo Repository, labeler Labeler, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		labeler: labeler,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// # Lookups

// List returns one page of articles. Drafts are hidden unless includeDrafts.
func (service *Service) List(ctx context.Context, filter Filter, params pagination.Params, includeDrafts bool) ([]*Article, pagination.Meta, error) {
	if !includeDrafts {
		published := true
		filter.Published = &published
	}
	filter.Query = strings.TrimSpace(filter.Query)

	articles, total, err := service.repo.List(ctx, filter, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	// Listings never carry bodies.
	for _, item := range articles {
		item.Content = ""
	}
	return articles, pagination.NewMeta(params, total), nil
}

/*
Get fetches an article by UUID or slug.

A draft is reported as NOT_FOUND unless includeDrafts is set, so that
anonymous callers cannot probe for unpublished slugs.
*/
func (service *Service) Get(ctx context.Context, identifier string, includeDrafts bool) (*Article, error) {
	var (
		found *Article
		err   error
	)
	if uuid.Valid(identifier) {
		found, err = service.repo.FindByID(ctx, identifier)
	} else {
		found, err = service.repo.FindBySlug(ctx, identifier)
	}
	if err != nil {
		return nil, err
	}

	if !found.Published && !includeDrafts {
		return nil, apperr.NotFound(resourceArticle)
	}
	return found, nil
}

// # Authoring

/*
Create stores a new article and tags it.

Description: Label names are validated with the rest of the input, then
resolved to canonical labels (creating missing ones), and the row is inserted
with those names in one write. A failure before the insert stores nothing.

Returns:
  - *Article: The stored article with its canonical label names
  - error: VALIDATION_ERROR, CONFLICT on a duplicate slug, or a storage error
*/
func (service *Service) Create(ctx context.Context, input Input) (*Article, error) {
	tags, categories, err := normalizeLabels(input.Tags, input.Categories)
	if err != nil {
		return nil, err
	}

	now := service.now()
	article := &Article{
		ID:         uuid.New(),
		Title:      strings.TrimSpace(input.Title),
		Slug:       strings.TrimSpace(input.Slug),
		Excerpt:    strings.TrimSpace(input.Excerpt),
		CoverURL:   input.CoverURL,
		Tags:       []string{},
		Categories: []string{},
		Published:  input.Published,
		Featured:   input.Featured,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if article.Slug == "" {
		article.Slug = slug.From(article.Title)
	}
	if article.Published {
		article.PublishedAt = &now
	}

	if err := service.setContent(article, input.Content, input.Format, input.Excerpt == ""); err != nil {
		return nil, err
	}
	if err := validateArticle(article); err != nil {
		return nil, err
	}
	if err := service.resolveLabels(ctx, article, tags, categories); err != nil {
		return nil, err
	}

	if err := service.repo.Create(ctx, article); err != nil {
		return nil, err
	}
	service.labeler.ContentChanged(ctx)

	service.logger.InfoContext(ctx, "article_created",
		slog.String("article_id", article.ID),
		slog.String("slug", article.Slug),
	)
	return article, nil
}

/*
Update applies a partial update.

Description: Publishing for the first time stamps published_at; unpublishing
keeps it. A new body recomputes reading time, and the excerpt too unless one is
supplied. Non-nil Tags or Categories replace the whole set. Labels are resolved
before the row is written, so a failed update leaves the stored article as it was.
*/
func (service *Service) Update(ctx context.Context, id string, patch Patch) (*Article, error) {
	tags, categories, err := normalizeLabels(patch.Tags, patch.Categories)
	if err != nil {
		return nil, err
	}

	article, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		article.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Slug != nil {
		article.Slug = strings.TrimSpace(*patch.Slug)
	}
	if patch.Excerpt != nil {
		article.Excerpt = strings.TrimSpace(*patch.Excerpt)
	}
	if patch.CoverURL != nil {
		article.CoverURL = nullIfEmpty(patch.CoverURL)
	}
	if patch.Featured != nil {
		article.Featured = *patch.Featured
	}
	if patch.Published != nil {
		article.Published = *patch.Published
	}

	now := service.now()
	if article.Published && article.PublishedAt == nil {
		article.PublishedAt = &now
	}

	if patch.Content != nil {
		regenerateExcerpt := patch.Excerpt == nil || *patch.Excerpt == ""
		if err := service.setContent(article, *patch.Content, patch.Format, regenerateExcerpt); err != nil {
			return nil, err
		}
	}
	if err := validateArticle(article); err != nil {
		return nil, err
	}
	if err := service.resolveLabels(ctx, article, tags, categories); err != nil {
		return nil, err
	}

	article.UpdatedAt = now
	if err := service.repo.Update(ctx, article); err != nil {
		return nil, err
	}
	service.labeler.ContentChanged(ctx)

	service.logger.InfoContext(ctx, "article_updated", slog.String("article_id", article.ID))
	return article, nil
}

// Delete removes an article permanently. Its canonical labels are kept, but
// names only it carried leave the label listing.
func (service *Service) Delete(ctx context.Context, id string) error {
	if err := service.repo.Delete(ctx, id); err != nil {
		return err
	}
	service.labeler.ContentChanged(ctx)

	service.logger.WarnContext(ctx, "article_deleted", slog.String("article_id", id))
	return nil
}

// # Internal Helpers

// normalizeLabels validates both sets up front; nil stays nil (unchanged).
func normalizeLabels(tags, categories []string) ([]string, []string, error) {
	var err error
	if tags != nil {
		if tags, err = label.Normalize(tags); err != nil {
			return nil, nil, err
		}
	}
	if categories != nil {
		if categories, err = label.Normalize(categories); err != nil {
			return nil, nil, err
		}
	}
	return tags, categories, nil
}

// resolveLabels sets the canonical names of every set that is not nil.
// Nothing is written to the article row.
func (service *Service) resolveLabels(ctx context.Context, article *Article, tags, categories []string) error {
	sets := []struct {
		namespace label.Namespace
		names     []string
		target    *[]string
	}{
		{label.NamespaceTag, tags, &article.Tags},
		{label.NamespaceCategory, categories, &article.Categories},
	}

	for _, set := range sets {
		if set.names == nil {
			continue
		}

		labels, err := service.labeler.Resolve(ctx, set.namespace, set.names)
		if err != nil {
			service.logger.WarnContext(ctx, "article_labels_failed",
				slog.String("article_id", article.ID),
				slog.String("namespace", string(set.namespace)),
				slog.Any("error", err),
			)
			return err
		}

		names := make([]string, 0, len(labels))
		for _, item := range labels {
			names = append(names, item.Name)
		}
		*set.target = names
	}
	return nil
}

// setContent stores the body as HTML and derives reading time and, when
// asked, the excerpt.
func (service *Service) setContent(article *Article, content string, format Format, regenerateExcerpt bool) error {
	switch format {
	case "", FormatHTML:
	case FormatMarkdown:
		rendered, err := RenderMarkdown(content)
		if err != nil {
			return apperr.ValidationError("Invalid content", apperr.FieldError{Field: FieldContent, Message: err.Error()})
		}
		content = rendered
	default:
		return validate.FieldError(FieldFormat, "Must be one of: html, markdown")
	}

	text, err := plainText(content)
	if err != nil {
		return validate.FieldError(FieldContent, "Content is not valid HTML")
	}

	article.Content = content
	article.ReadingMinutes = readingMinutes(text)
	if regenerateExcerpt {
		article.Excerpt = excerptOf(text)
	}
	return nil
}

func validateArticle(article *Article) error {
	validator := &validate.Validator{}
	validator.Required(FieldTitle, article.Title).MaxLen(FieldTitle, article.Title, maxTitleLength)
	validator.Required(FieldSlug, article.Slug).Slug(FieldSlug, article.Slug)
	validator.MaxLen(FieldExcerpt, article.Excerpt, maxExcerptLength)
	if article.CoverURL != nil {
		validator.URL(FieldCoverURL, *article.CoverURL)
	}
	return validator.Err()
}

func nullIfEmpty(value *string) *string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	return &trimmed
}
