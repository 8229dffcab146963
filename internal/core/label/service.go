// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package label

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/text/cases"

	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/constants"
	"github.com/taibuivan/folio/internal/platform/validate"
	"github.com/taibuivan/folio/pkg/slice"
	"github.com/taibuivan/folio/pkg/slug"
	"github.com/taibuivan/folio/pkg/uuid"
)

const (
	// maxCreateAttempts bounds the find/insert rounds of [Service.GetOrCreate].
	maxCreateAttempts = 3

	// readRetries is the number of extra attempts for idempotent reads.
	readRetries = 2

	// readRetryBackoff is multiplied by the attempt number between read retries.
	readRetryBackoff = 50 * time.Millisecond

	// autoColor asks [Service.UpdateMetadata] to pick a color.
	autoColor = "auto"
)

// # Service Layer

// Service normalizes, creates, associates, and lists labels.
//
// No lock is held around storage calls. Every multi-step operation tolerates
// concurrent writers through the storage layer's unique slug constraint.
type Service struct {
	repo    Repository
	content ContentRepository
	cache   Cache
	logger  *slog.Logger

	callTimeout time.Duration
	now         func() time.Time

	// cacheMu orders listing writes against invalidations. A listing read
	// before the latest invalidation is never stored.
	cacheMu     sync.Mutex
	generations map[Namespace]uint64
}

// Option customizes a [Service].
type Option func(*Service)

// WithCallTimeout overrides the per persistence call deadline.
func WithCallTimeout(timeout time.Duration) Option {
	return func(service *Service) { service.callTimeout = timeout }
}

// WithClock overrides the time source used for created_at.
func WithClock(now func() time.Time) Option {
	return func(service *Service) { service.now = now }
}

// NewService constructs a new [Service]. A nil cache disables caching.
func NewService(repo Repository, content ContentRepository, cache Cache, logger *slog.Logger, options ...Option) *Service {
	if cache == nil {
		cache = NoopCache{}
	}

	service := &Service{
		repo:        repo,
		content:     content,
		cache:       cache,
		logger:      logger,
		callTimeout: constants.PersistenceCallTimeout,
		now:         func() time.Time { return time.Now().UTC() },
		generations: make(map[Namespace]uint64, len(Namespaces)),
	}
	for _, option := range options {
		option(service)
	}
	return service
}

// # Get-or-Create

/*
GetOrCreate returns the label whose slug matches name, creating it if needed.

Description: The slug is the identity. An existing row is returned unchanged,
so the first stored display name wins over later casing variants. When two
callers race to create the same label, the loser's insert fails with a
uniqueness conflict; that conflict is resolved by reading the winner's row
and is never returned.

An insert that fails for any other reason may still have been applied, so it
is followed by one lookup. The insert itself is never retried.

Returns:
  - *Label: The canonical label
  - error: VALIDATION_ERROR if name has no letters or digits
*/
func (service *Service) GetOrCreate(ctx context.Context, namespace Namespace, name string) (*Label, error) {
	if err := invalidNamespace(namespace); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	labelSlug := slug.From(name)
	if labelSlug == "" {
		return nil, validate.FieldError(FieldName, "Name must contain at least one letter or digit")
	}

	validator := &validate.Validator{}
	if err := validator.MaxLen(FieldName, name, MaxNameLength).Err(); err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= maxCreateAttempts; attempt++ {
		existing, err := service.findBySlug(ctx, namespace, labelSlug)
		if err == nil {
			return existing, nil
		}
		if !apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, err
		}

		candidate := &Label{
			ID:        uuid.New(),
			Namespace: namespace,
			Name:      name,
			Slug:      labelSlug,
			CreatedAt: service.now(),
		}

		err = service.create(ctx, candidate)
		if err == nil {
			service.logger.InfoContext(ctx, "label_created",
				slog.String("namespace", string(namespace)),
				slog.String("slug", labelSlug),
				slog.String("id", candidate.ID),
			)
			service.invalidate(ctx, namespace)
			return candidate, nil
		}

		if apperr.HasCode(err, apperr.CodeConflict) {
			service.logger.InfoContext(ctx, "label_conflict_recovered",
				slog.String("namespace", string(namespace)),
				slog.String("slug", labelSlug),
				slog.Int("attempt", attempt),
			)
			continue
		}

		// Outcome unknown: the row may have been written before the failure.
		if existing, findErr := service.findBySlug(ctx, namespace, labelSlug); findErr == nil {
			service.logger.WarnContext(ctx, "label_insert_failed_but_present",
				slog.String("namespace", string(namespace)),
				slog.String("slug", labelSlug),
				slog.Any("error", err),
			)
			return existing, nil
		}
		return nil, err
	}

	return nil, apperr.Internal(fmt.Errorf("label: %s %q still missing after %d conflicting inserts",
		namespace, labelSlug, maxCreateAttempts))
}

// # Association

/*
Tag replaces the labels of one namespace on a content item.

Description: Every requested name is validated before anything is written;
one name without letters or digits rejects the whole request. Names whose
slugs coincide collapse to the first occurrence. Each remaining name is
resolved through [Service.GetOrCreate] and the item's array is overwritten
with the canonical display names.

Returns:
  - []*Label: The canonical labels now carried by the item, in request order
  - error: VALIDATION_ERROR, NOT_FOUND for a missing item, or a storage error
*/
func (service *Service) Tag(ctx context.Context, ref ContentRef, namespace Namespace, names []string) ([]*Label, error) {
	if err := invalidRef(ref); err != nil {
		return nil, err
	}
	if err := invalidNamespace(namespace); err != nil {
		return nil, err
	}

	if _, err := Normalize(names); err != nil {
		return nil, err
	}

	// A missing item must not leave freshly created labels behind.
	if _, err := service.labelNames(ctx, ref, namespace); err != nil {
		return nil, err
	}

	labels, err := service.Resolve(ctx, namespace, names)
	if err != nil {
		return nil, err
	}

	if err := service.Associate(ctx, ref, namespace, labels); err != nil {
		return nil, err
	}
	return labels, nil
}

/*
Resolve validates names and returns their canonical labels, creating any that
are missing. Nothing is associated with any item.

Content services call it before writing a row so that the row is stored with
canonical names in a single write. Labels created before a later failure stay
behind; they are valid labels and a retry reuses them.

Returns:
  - []*Label: One label per distinct slug, in request order
  - error: VALIDATION_ERROR for the whole request, or a storage error
*/
func (service *Service) Resolve(ctx context.Context, namespace Namespace, names []string) ([]*Label, error) {
	if err := invalidNamespace(namespace); err != nil {
		return nil, err
	}

	normalized, err := Normalize(names)
	if err != nil {
		return nil, err
	}

	labels := make([]*Label, 0, len(normalized))
	for _, name := range normalized {
		resolved, err := service.GetOrCreate(ctx, namespace, name)
		if err != nil {
			return nil, err
		}
		labels = append(labels, resolved)
	}
	return labels, nil
}

// ContentChanged drops the cached listings of every namespace. Content
// services call it after writing or deleting an item, since the embedded
// names feed the derived part of [Service.All].
func (service *Service) ContentChanged(ctx context.Context) {
	for _, namespace := range Namespaces {
		service.invalidate(ctx, namespace)
	}
}

/*
Associate overwrites the item's embedded names with the names of labels.

This is a full replace: callers wanting an incremental change read the current
set, compute the new one, and pass it whole. An empty slice clears the set.
*/
func (service *Service) Associate(ctx context.Context, ref ContentRef, namespace Namespace, labels []*Label) error {
	if err := invalidRef(ref); err != nil {
		return err
	}
	if err := invalidNamespace(namespace); err != nil {
		return err
	}

	names := make([]string, 0, len(labels))
	for _, item := range labels {
		names = append(names, item.Name)
	}

	callCtx, cancel := service.callContext(ctx)
	defer cancel()

	if err := service.content.ReplaceLabelNames(callCtx, ref, namespace, names); err != nil {
		service.logger.WarnContext(ctx, "label_association_failed",
			slog.String("kind", string(ref.Kind)),
			slog.String("id", ref.ID),
			slog.String("namespace", string(namespace)),
			slog.Any("error", err),
		)
		return err
	}

	service.invalidate(ctx, namespace)
	service.logger.InfoContext(ctx, "label_association_replaced",
		slog.String("kind", string(ref.Kind)),
		slog.String("id", ref.ID),
		slog.String("namespace", string(namespace)),
		slog.Int("count", len(names)),
	)
	return nil
}

// # Retrieval

// LabelsFor returns the labels embedded in one item.
//
// They are synthesized from the stored names (id = slug = slugified name) and
// marked derived; a canonical row may or may not exist for each.
func (service *Service) LabelsFor(ctx context.Context, ref ContentRef, namespace Namespace) ([]*Label, error) {
	if err := invalidRef(ref); err != nil {
		return nil, err
	}
	if err := invalidNamespace(namespace); err != nil {
		return nil, err
	}

	names, err := service.labelNames(ctx, ref, namespace)
	if err != nil {
		return nil, err
	}

	labels := make([]*Label, 0, len(names))
	for _, name := range names {
		labels = append(labels, derive(namespace, name))
	}
	return labels, nil
}

/*
All lists every label of a namespace.

Description: Canonical rows come first (featured, then by name). Names
embedded in content items that match no canonical row follow as derived
labels, sorted by name.

The match is a case-insensitive comparison of NAMES (Unicode case folding),
not of slugs. "Data Science" and "data-science" therefore both appear, even
though [Service.GetOrCreate] treats them as one label.
*/
func (service *Service) All(ctx context.Context, namespace Namespace) ([]*Label, error) {
	if err := invalidNamespace(namespace); err != nil {
		return nil, err
	}

	if cached, ok := service.cache.Get(ctx, namespace); ok {
		return cached, nil
	}
	generation := service.generation(namespace)

	canonical, err := retryRead(ctx, service, func(callCtx context.Context) ([]*Label, error) {
		return service.repo.List(callCtx, namespace)
	})
	if err != nil {
		return nil, err
	}

	embedded, err := retryRead(ctx, service, func(callCtx context.Context) ([]string, error) {
		return service.content.DistinctLabelNames(callCtx, namespace)
	})
	if err != nil {
		return nil, err
	}

	// A Caser keeps internal state and is not safe for concurrent use.
	fold := cases.Fold()

	seen := make(map[string]struct{}, len(canonical)+len(embedded))
	for _, item := range canonical {
		seen[fold.String(item.Name)] = struct{}{}
	}

	derived := make([]*Label, 0)
	for _, name := range embedded {
		if strings.TrimSpace(name) == "" {
			continue
		}
		key := fold.String(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		derived = append(derived, derive(namespace, name))
	}

	slices.SortStableFunc(derived, func(a, b *Label) int {
		return strings.Compare(a.Name, b.Name)
	})

	labels := append(canonical, derived...)
	service.store(ctx, namespace, generation, labels)
	return labels, nil
}

// Get returns a canonical label by id.
func (service *Service) Get(ctx context.Context, namespace Namespace, id string) (*Label, error) {
	if err := invalidNamespace(namespace); err != nil {
		return nil, err
	}

	return retryRead(ctx, service, func(callCtx context.Context) (*Label, error) {
		return service.repo.FindByID(callCtx, namespace, id)
	})
}

// GetBySlug returns a canonical label by slug. A slug that is not in
// canonical form cannot exist and is reported as NOT_FOUND without a query.
func (service *Service) GetBySlug(ctx context.Context, namespace Namespace, labelSlug string) (*Label, error) {
	if err := invalidNamespace(namespace); err != nil {
		return nil, err
	}
	if !slug.Valid(labelSlug) {
		return nil, apperr.NotFound(namespace.Resource())
	}

	return service.findBySlug(ctx, namespace, labelSlug)
}

// ItemsFor lists the content items carrying label. Unpublished articles are
// included only when includeDrafts is set.
func (service *Service) ItemsFor(ctx context.Context, namespace Namespace, label *Label, includeDrafts bool) ([]ContentSummary, error) {
	if err := invalidNamespace(namespace); err != nil {
		return nil, err
	}

	items, err := retryRead(ctx, service, func(callCtx context.Context) ([]ContentSummary, error) {
		return service.content.ItemsWithLabel(callCtx, namespace, label.Name)
	})
	if err != nil {
		return nil, err
	}

	if includeDrafts {
		return items, nil
	}
	return slice.Filter(items, func(item ContentSummary) bool { return item.Published }), nil
}

// # Administration

// UpdateMetadata edits the display fields of a canonical label.
// The color "auto" picks a pleasant random color; other colors are
// normalized to lowercase "#rrggbb".
func (service *Service) UpdateMetadata(ctx context.Context, namespace Namespace, id string, patch MetadataPatch) (*Label, error) {
	if err := invalidNamespace(namespace); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if patch.Description != nil {
		validator.MaxLen(FieldDescription, *patch.Description, maxDescriptionLength)
	}
	if patch.Color != nil && *patch.Color != "" {
		normalized, ok := normalizeColor(*patch.Color)
		validator.Custom(FieldColor, !ok, "Must be a hex color such as #1e90ff, or \"auto\"")
		patch.Color = &normalized
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	callCtx, cancel := service.callContext(ctx)
	defer cancel()

	updated, err := service.repo.UpdateMetadata(callCtx, namespace, id, patch)
	if err != nil {
		return nil, err
	}

	service.invalidate(ctx, namespace)
	service.logger.InfoContext(ctx, "label_metadata_updated",
		slog.String("namespace", string(namespace)),
		slog.String("id", id),
	)
	return updated, nil
}

func normalizeColor(raw string) (string, bool) {
	if strings.EqualFold(raw, autoColor) {
		return colorful.HappyColor().Hex(), true
	}

	validator := &validate.Validator{}
	if validator.HexColor(FieldColor, &raw).HasErrors() {
		return "", false
	}

	parsed, err := colorful.Hex(raw)
	if err != nil {
		return "", false
	}
	return parsed.Hex(), true
}

// # Cache Helpers

// invalidate runs even when ctx is cancelled: the write it follows has
// already been committed.
func (service *Service) invalidate(ctx context.Context, namespace Namespace) {
	service.cacheMu.Lock()
	defer service.cacheMu.Unlock()

	service.generations[namespace]++
	service.cache.Invalidate(context.WithoutCancel(ctx), namespace)
}

func (service *Service) generation(namespace Namespace) uint64 {
	service.cacheMu.Lock()
	defer service.cacheMu.Unlock()
	return service.generations[namespace]
}

// store caches labels unless an invalidation happened after they were read.
func (service *Service) store(ctx context.Context, namespace Namespace, generation uint64, labels []*Label) {
	service.cacheMu.Lock()
	defer service.cacheMu.Unlock()

	if service.generations[namespace] != generation {
		service.logger.DebugContext(ctx, "label_cache_skip_stale",
			slog.String("namespace", string(namespace)))
		return
	}
	service.cache.Set(ctx, namespace, labels)
}

// # Persistence Helpers

func (service *Service) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, service.callTimeout)
}

func (service *Service) findBySlug(ctx context.Context, namespace Namespace, labelSlug string) (*Label, error) {
	return retryRead(ctx, service, func(callCtx context.Context) (*Label, error) {
		return service.repo.FindBySlug(callCtx, namespace, labelSlug)
	})
}

func (service *Service) labelNames(ctx context.Context, ref ContentRef, namespace Namespace) ([]string, error) {
	return retryRead(ctx, service, func(callCtx context.Context) ([]string, error) {
		return service.content.LabelNames(callCtx, ref, namespace)
	})
}

// create runs a single insert under the call deadline. It is never retried.
func (service *Service) create(ctx context.Context, candidate *Label) error {
	callCtx, cancel := service.callContext(ctx)
	defer cancel()

	return service.repo.Create(callCtx, candidate)
}

// retryRead runs an idempotent read under the call deadline, retrying
// transient failures up to readRetries times.
func retryRead[T any](ctx context.Context, service *Service, read func(context.Context) (T, error)) (T, error) {
	var (
		result T
		err    error
	)

	for attempt := 0; attempt <= readRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return result, apperr.ServiceUnavailable("Request cancelled").WithCause(ctx.Err())
			case <-time.After(time.Duration(attempt) * readRetryBackoff):
			}
		}

		callCtx, cancel := service.callContext(ctx)
		result, err = read(callCtx)
		cancel()

		if err == nil || !apperr.IsTransient(err) {
			return result, err
		}

		service.logger.WarnContext(ctx, "label_read_retry",
			slog.Int("attempt", attempt+1),
			slog.Any("error", err),
		)
	}

	return result, err
}
