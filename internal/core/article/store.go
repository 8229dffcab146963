// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package article

import "context"

// Repository persists articles.
//
// Create stores the Tags and Categories it is given; Update never touches
// them. Label sets change only through the label service.
type Repository interface {
	// List returns one page of articles and the total matching the filter,
	// newest publication first.
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Article, int, error)
	FindByID(ctx context.Context, id string) (*Article, error)
	FindBySlug(ctx context.Context, slug string) (*Article, error)
	Create(ctx context.Context, article *Article) error
	// Update overwrites every mutable column, the label arrays included.
	Update(ctx context.Context, article *Article) error
	Delete(ctx context.Context, id string) error
}
