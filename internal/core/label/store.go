// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package label

import "context"

// Repository persists canonical labels.
//
// Implementations must enforce slug uniqueness per namespace and report a
// violation on [Repository.Create] as an apperr CONFLICT, and a missing row
// as apperr NOT_FOUND.
type Repository interface {
	FindBySlug(ctx context.Context, namespace Namespace, slug string) (*Label, error)
	FindByID(ctx context.Context, namespace Namespace, id string) (*Label, error)

	// List returns every canonical label, featured first, then by name.
	List(ctx context.Context, namespace Namespace) ([]*Label, error)

	Create(ctx context.Context, label *Label) error
	UpdateMetadata(ctx context.Context, namespace Namespace, id string, patch MetadataPatch) (*Label, error)
}

// ContentRepository reads and overwrites the label names embedded in content items.
type ContentRepository interface {
	// LabelNames returns the embedded names, or NOT_FOUND if the item is missing.
	LabelNames(ctx context.Context, ref ContentRef, namespace Namespace) ([]string, error)

	// ReplaceLabelNames overwrites the whole embedded array (full replace).
	ReplaceLabelNames(ctx context.Context, ref ContentRef, namespace Namespace, names []string) error

	// DistinctLabelNames returns every name embedded in any item, sorted.
	DistinctLabelNames(ctx context.Context, namespace Namespace) ([]string, error)

	// ItemsWithLabel lists the items embedding name, compared case-insensitively.
	ItemsWithLabel(ctx context.Context, namespace Namespace, name string) ([]ContentSummary, error)
}

// Cache holds the namespace-wide listing produced by [Service.All].
//
// Implementations swallow their own failures; a cache outage must never
// fail a request.
type Cache interface {
	Get(ctx context.Context, namespace Namespace) ([]*Label, bool)
	Set(ctx context.Context, namespace Namespace, labels []*Label)
	Invalidate(ctx context.Context, namespace Namespace)
}
