// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package project

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/folio/internal/core/label"
	"github.com/taibuivan/folio/internal/platform/validate"
	"github.com/taibuivan/folio/pkg/slug"
	"github.com/taibuivan/folio/pkg/uuid"
)

// Labeler resolves label names and learns about content writes.
type Labeler interface {
	Resolve(ctx context.Context, namespace label.Namespace, names []string) ([]*label.Label, error)
	ContentChanged(ctx context.Context)
}

// Service orchestrates the portfolio.
type Service struct {
	repo    Repository
	labeler Labeler
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(repo Repository, labeler Labeler, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		labeler: labeler,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (service *Service) List(ctx context.Context, filter Filter) ([]*Project, error) {
	return service.repo.List(ctx, filter)
}

// Get fetches a project by UUID or slug.
func (service *Service) Get(ctx context.Context, identifier string) (*Project, error) {
	if uuid.Valid(identifier) {
		return service.repo.FindByID(ctx, identifier)
	}
	return service.repo.FindBySlug(ctx, identifier)
}

// Create resolves the label names, then stores the project with them in one insert.
func (service *Service) Create(ctx context.Context, input Input) (*Project, error) {
	tags, categories, err := normalizeLabels(input.Tags, input.Categories)
	if err != nil {
		return nil, err
	}

	now := service.now()
	project := &Project{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(input.Title),
		Slug:        strings.TrimSpace(input.Slug),
		Summary:     strings.TrimSpace(input.Summary),
		Description: input.Description,
		RepoURL:     nullIfEmpty(input.RepoURL),
		LiveURL:     nullIfEmpty(input.LiveURL),
		ImageURL:    nullIfEmpty(input.ImageURL),
		Tags:        []string{},
		Categories:  []string{},
		Featured:    input.Featured,
		SortOrder:   input.SortOrder,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if project.Slug == "" {
		project.Slug = slug.From(project.Title)
	}

	if err := validateProject(project); err != nil {
		return nil, err
	}
	if err := service.resolveLabels(ctx, project, tags, categories); err != nil {
		return nil, err
	}
	if err := service.repo.Create(ctx, project); err != nil {
		return nil, err
	}
	service.labeler.ContentChanged(ctx)

	service.logger.InfoContext(ctx, "project_created",
		slog.String("project_id", project.ID),
		slog.String("slug", project.Slug),
	)
	return project, nil
}

// Update applies a partial update. Non-nil label sets replace the whole set.
func (service *Service) Update(ctx context.Context, id string, patch Patch) (*Project, error) {
	tags, categories, err := normalizeLabels(patch.Tags, patch.Categories)
	if err != nil {
		return nil, err
	}

	project, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		project.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Slug != nil {
		project.Slug = strings.TrimSpace(*patch.Slug)
	}
	if patch.Summary != nil {
		project.Summary = strings.TrimSpace(*patch.Summary)
	}
	if patch.Description != nil {
		project.Description = *patch.Description
	}
	if patch.RepoURL != nil {
		project.RepoURL = nullIfEmpty(patch.RepoURL)
	}
	if patch.LiveURL != nil {
		project.LiveURL = nullIfEmpty(patch.LiveURL)
	}
	if patch.ImageURL != nil {
		project.ImageURL = nullIfEmpty(patch.ImageURL)
	}
	if patch.Featured != nil {
		project.Featured = *patch.Featured
	}
	if patch.SortOrder != nil {
		project.SortOrder = *patch.SortOrder
	}

	if err := validateProject(project); err != nil {
		return nil, err
	}
	if err := service.resolveLabels(ctx, project, tags, categories); err != nil {
		return nil, err
	}

	project.UpdatedAt = service.now()
	if err := service.repo.Update(ctx, project); err != nil {
		return nil, err
	}
	service.labeler.ContentChanged(ctx)

	service.logger.InfoContext(ctx, "project_updated", slog.String("project_id", project.ID))
	return project, nil
}

func (service *Service) Delete(ctx context.Context, id string) error {
	if err := service.repo.Delete(ctx, id); err != nil {
		return err
	}
	service.labeler.ContentChanged(ctx)

	service.logger.WarnContext(ctx, "project_deleted", slog.String("project_id", id))
	return nil
}

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

func (service *Service) resolveLabels(ctx context.Context, project *Project, tags, categories []string) error {
	if tags != nil {
		labels, err := service.labeler.Resolve(ctx, label.NamespaceTag, tags)
		if err != nil {
			return err
		}
		project.Tags = labelNames(labels)
	}
	if categories != nil {
		labels, err := service.labeler.Resolve(ctx, label.NamespaceCategory, categories)
		if err != nil {
			return err
		}
		project.Categories = labelNames(labels)
	}
	return nil
}

func labelNames(labels []*label.Label) []string {
	names := make([]string, 0, len(labels))
	for _, item := range labels {
		names = append(names, item.Name)
	}
	return names
}

func validateProject(project *Project) error {
	validator := &validate.Validator{}
	validator.Required(FieldTitle, project.Title).MaxLen(FieldTitle, project.Title, maxTitleLength)
	validator.Required(FieldSlug, project.Slug).Slug(FieldSlug, project.Slug)
	validator.MaxLen(FieldSummary, project.Summary, maxSummaryLength)
	validator.Range(FieldSortOrder, project.SortOrder, 0, maxSortOrder)

	urls := []struct {
		field string
		value *string
	}{
		{FieldRepoURL, project.RepoURL},
		{FieldLiveURL, project.LiveURL},
		{FieldImageURL, project.ImageURL},
	}
	for _, url := range urls {
		if url.value != nil {
			validator.URL(url.field, *url.value)
		}
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
