// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package project

import "context"

// Repository persists projects. Update never writes the label arrays.
type Repository interface {
	// List returns every matching project by sort order, then newest first.
	List(ctx context.Context, filter Filter) ([]*Project, error)
	FindByID(ctx context.Context, id string) (*Project, error)
	FindBySlug(ctx context.Context, slug string) (*Project, error)
	Create(ctx context.Context, project *Project) error
	// Update overwrites every mutable column, the label arrays included.
	Update(ctx context.Context, project *Project) error
	Delete(ctx context.Context, id string) error
}
