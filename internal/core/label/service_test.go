// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package label_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/folio/internal/core/label"
	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/pkg/slice"
)

func notFound() error {
	return apperr.NotFound("Tag")
}

func names(labels []*label.Label) []string {
	return slice.Map(labels, func(item *label.Label) string { return item.Name })
}

// # Get-or-Create

/*
TestService_GetOrCreate_CaseInsensitive checks that casing variants resolve
to the first stored label.
*/
func TestService_GetOrCreate_CaseInsensitive(t *testing.T) {
	service, _ := newSQLiteService(t, nil)
	ctx := context.Background()

	first, err := service.GetOrCreate(ctx, label.NamespaceTag, "  Rust ")
	require.NoError(t, err)
	assert.Equal(t, "Rust", first.Name)
	assert.Equal(t, "rust", first.Slug)
	assert.NotEmpty(t, first.ID)
	assert.False(t, first.Derived)

	for _, variant := range []string{"rust", "RUST", "Rust!"} {
		again, err := service.GetOrCreate(ctx, label.NamespaceTag, variant)
		require.NoError(t, err)
		assert.Equal(t, first.ID, again.ID, variant)
		assert.Equal(t, "Rust", again.Name, variant)
	}

	all, err := service.All(ctx, label.NamespaceTag)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestService_GetOrCreate_NamespacesAreIndependent(t *testing.T) {
	service, _ := newSQLiteService(t, nil)
	ctx := context.Background()

	tag, err := service.GetOrCreate(ctx, label.NamespaceTag, "Go")
	require.NoError(t, err)
	category, err := service.GetOrCreate(ctx, label.NamespaceCategory, "Go")
	require.NoError(t, err)

	assert.NotEqual(t, tag.ID, category.ID)
	assert.Equal(t, label.NamespaceCategory, category.Namespace)
}

func TestService_GetOrCreate_RejectsEmptySlug(t *testing.T) {
	repo := newFakeRepository()
	service := label.NewService(repo, nil, nil, discardLogger)

	for _, name := range []string{"", "   ", "!!!", "---"} {
		_, err := service.GetOrCreate(context.Background(), label.NamespaceTag, name)
		assert.True(t, apperr.HasCode(err, apperr.CodeValidation), "name %q", name)
	}
	assert.Zero(t, repo.creates)
	assert.Zero(t, repo.finds)
}

func TestService_GetOrCreate_RejectsUnknownNamespace(t *testing.T) {
	service := label.NewService(newFakeRepository(), nil, nil, discardLogger)

	_, err := service.GetOrCreate(context.Background(), label.Namespace("authors"), "Go")
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

/*
TestService_GetOrCreate_Concurrent races many callers on the real database
and expects exactly one stored row.
*/
func TestService_GetOrCreate_Concurrent(t *testing.T) {
	service, db := newSQLiteService(t, nil)
	ctx := context.Background()

	const callers = 12
	var (
		wg   sync.WaitGroup
		ids  = make([]string, callers)
		errs = make([]error, callers)
	)

	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			created, err := service.GetOrCreate(ctx, label.NamespaceTag, "Rust")
			errs[i] = err
			if err == nil {
				ids[i] = created.ID
			}
		}()
	}
	wg.Wait()

	for i := range callers {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM tag WHERE slug = 'rust'`).Scan(&count))
	assert.Equal(t, 1, count)
}

/*
TestService_GetOrCreate_ConflictRecovered simulates losing the insert race:
the conflict must be resolved by reading the winner's row.
*/
func TestService_GetOrCreate_ConflictRecovered(t *testing.T) {
	repo := newFakeRepository()
	winner := &label.Label{ID: "winner", Namespace: label.NamespaceTag, Name: "Rust", Slug: "rust"}

	repo.createErr = func(_ int, _ *label.Label) error {
		repo.rows["rust"] = winner
		return apperr.Conflict("Tag already exists")
	}

	service := label.NewService(repo, nil, nil, discardLogger)
	got, err := service.GetOrCreate(context.Background(), label.NamespaceTag, "rust")

	require.NoError(t, err)
	assert.Equal(t, "winner", got.ID)
	assert.Equal(t, "Rust", got.Name)
	assert.Equal(t, 1, repo.creates)
}

func TestService_GetOrCreate_PersistentConflictIsBounded(t *testing.T) {
	repo := newFakeRepository()
	repo.createErr = func(int, *label.Label) error { return apperr.Conflict("Tag already exists") }

	service := label.NewService(repo, nil, nil, discardLogger)
	_, err := service.GetOrCreate(context.Background(), label.NamespaceTag, "Rust")

	assert.True(t, apperr.HasCode(err, apperr.CodeInternal))
	assert.Equal(t, 3, repo.creates)
}

/*
TestService_GetOrCreate_NoBlindInsertRetry checks that a failed insert whose
outcome is unknown is followed by a lookup, never by a second insert.
*/
func TestService_GetOrCreate_NoBlindInsertRetry(t *testing.T) {
	t.Run("row_absent", func(t *testing.T) {
		repo := newFakeRepository()
		repo.createErr = func(int, *label.Label) error { return apperr.Internal(errors.New("connection reset")) }

		service := label.NewService(repo, nil, nil, discardLogger)
		_, err := service.GetOrCreate(context.Background(), label.NamespaceTag, "Rust")

		assert.True(t, apperr.HasCode(err, apperr.CodeInternal))
		assert.Equal(t, 1, repo.creates)
		assert.Equal(t, 2, repo.finds)
	})

	t.Run("row_written_before_failure", func(t *testing.T) {
		repo := newFakeRepository()
		repo.createErr = func(_ int, candidate *label.Label) error {
			repo.rows[candidate.Slug] = candidate
			return apperr.ServiceUnavailable("Database is temporarily unavailable")
		}

		service := label.NewService(repo, nil, nil, discardLogger)
		got, err := service.GetOrCreate(context.Background(), label.NamespaceTag, "Rust")

		require.NoError(t, err)
		assert.Equal(t, "rust", got.Slug)
		assert.Equal(t, 1, repo.creates)
	})
}

func TestService_GetOrCreate_RetriesTransientReads(t *testing.T) {
	repo := newFakeRepository()
	repo.put(&label.Label{ID: "go", Namespace: label.NamespaceTag, Name: "Go", Slug: "go"})
	repo.findErr = func(call int) error {
		if call == 1 {
			return apperr.ServiceUnavailable("Database is temporarily unavailable")
		}
		return nil
	}

	service := label.NewService(repo, nil, nil, discardLogger)
	got, err := service.GetOrCreate(context.Background(), label.NamespaceTag, "go")

	require.NoError(t, err)
	assert.Equal(t, "go", got.ID)
	assert.Equal(t, 2, repo.finds)
	assert.Zero(t, repo.creates)
}

func TestService_GetOrCreate_DoesNotRetryPermanentReads(t *testing.T) {
	repo := newFakeRepository()
	repo.findErr = func(int) error { return apperr.Internal(errors.New("syntax error")) }

	service := label.NewService(repo, nil, nil, discardLogger)
	_, err := service.GetOrCreate(context.Background(), label.NamespaceTag, "go")

	assert.True(t, apperr.HasCode(err, apperr.CodeInternal))
	assert.Equal(t, 1, repo.finds)
	assert.Zero(t, repo.creates)
}

// # Tagging

/*
TestService_Tag_FullReplace checks that each tagging call overwrites the
previous set rather than merging into it.
*/
func TestService_Tag_FullReplace(t *testing.T) {
	service, db := newSQLiteService(t, nil)
	ctx := context.Background()
	ref := seedArticle(t, db, articleSeed{ID: "a1", Title: "Hello", Slug: "hello"})

	tagged, err := service.Tag(ctx, ref, label.NamespaceTag, []string{"Go", "Rust", "go"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Rust"}, names(tagged))

	tagged, err = service.Tag(ctx, ref, label.NamespaceTag, []string{"Python"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Python"}, names(tagged))

	current, err := service.LabelsFor(ctx, ref, label.NamespaceTag)
	require.NoError(t, err)
	assert.Equal(t, []string{"Python"}, names(current))

	categories, err := service.LabelsFor(ctx, ref, label.NamespaceCategory)
	require.NoError(t, err)
	assert.Empty(t, categories)
}

func TestService_Tag_UsesCanonicalDisplayName(t *testing.T) {
	service, db := newSQLiteService(t, nil)
	ctx := context.Background()
	ref := seedArticle(t, db, articleSeed{ID: "a1", Title: "Hello", Slug: "hello"})

	_, err := service.GetOrCreate(ctx, label.NamespaceTag, "JavaScript")
	require.NoError(t, err)

	tagged, err := service.Tag(ctx, ref, label.NamespaceTag, []string{"javascript"})
	require.NoError(t, err)
	assert.Equal(t, []string{"JavaScript"}, names(tagged))
}

func TestService_Tag_EmptySetClears(t *testing.T) {
	service, db := newSQLiteService(t, nil)
	ctx := context.Background()
	ref := seedArticle(t, db, articleSeed{ID: "a1", Title: "Hello", Slug: "hello", Tags: `["Go"]`})

	tagged, err := service.Tag(ctx, ref, label.NamespaceTag, nil)
	require.NoError(t, err)
	assert.Empty(t, tagged)

	var raw string
	require.NoError(t, db.QueryRow(`SELECT tags FROM article WHERE id = 'a1'`).Scan(&raw))
	assert.Equal(t, "[]", raw)
}

func TestService_Tag_RejectsWholeRequest(t *testing.T) {
	service, db := newSQLiteService(t, nil)
	ctx := context.Background()
	ref := seedArticle(t, db, articleSeed{ID: "a1", Title: "Hello", Slug: "hello", Tags: `["Go"]`})

	_, err := service.Tag(ctx, ref, label.NamespaceTag, []string{"Rust", "???"})
	require.True(t, apperr.HasCode(err, apperr.CodeValidation))

	current, err := service.LabelsFor(ctx, ref, label.NamespaceTag)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go"}, names(current))

	_, err = service.GetBySlug(ctx, label.NamespaceTag, "rust")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound), "no label may be created")
}

func TestService_Tag_MissingItem(t *testing.T) {
	service, _ := newSQLiteService(t, nil)
	ctx := context.Background()

	ref := label.ContentRef{Kind: label.KindProject, ID: "missing"}
	_, err := service.Tag(ctx, ref, label.NamespaceTag, []string{"Go"})
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	_, err = service.GetBySlug(ctx, label.NamespaceTag, "go")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

func TestService_LabelsFor_Derived(t *testing.T) {
	service, db := newSQLiteService(t, nil)
	ref := seedArticle(t, db, articleSeed{ID: "a1", Title: "Hello", Slug: "hello", Categories: `["Data Science"]`})

	labels, err := service.LabelsFor(context.Background(), ref, label.NamespaceCategory)
	require.NoError(t, err)
	require.Len(t, labels, 1)

	assert.Equal(t, "data-science", labels[0].ID)
	assert.Equal(t, "data-science", labels[0].Slug)
	assert.Equal(t, "Data Science", labels[0].Name)
	assert.True(t, labels[0].Derived)
}

// # Listing

/*
TestService_All_Union checks that embedded names join the canonical rows
unless a canonical name matches them case-insensitively.
*/
func TestService_All_Union(t *testing.T) {
	service, db := newSQLiteService(t, nil)
	ctx := context.Background()

	_, err := service.GetOrCreate(ctx, label.NamespaceTag, "Go")
	require.NoError(t, err)
	_, err = service.GetOrCreate(ctx, label.NamespaceTag, "Émigré")
	require.NoError(t, err)

	seedArticle(t, db, articleSeed{ID: "a1", Title: "One", Slug: "one", Tags: `["go", "Web", "ÉMIGRÉ"]`})
	seedProject(t, db, "p1", "Two", `["web", "Zig", "  "]`)

	all, err := service.All(ctx, label.NamespaceTag)
	require.NoError(t, err)

	assert.Equal(t, []string{"Go", "Émigré", "Web", "Zig"}, names(all))
	assert.False(t, all[0].Derived)
	assert.False(t, all[1].Derived)
	assert.True(t, all[2].Derived)
	assert.Equal(t, "zig", all[3].ID)
}

// TestService_All_DedupIsByNameNotSlug pins the known asymmetry with
// get-or-create: different names with equal slugs both appear.
func TestService_All_DedupIsByNameNotSlug(t *testing.T) {
	service, db := newSQLiteService(t, nil)
	ctx := context.Background()

	_, err := service.GetOrCreate(ctx, label.NamespaceCategory, "Data Science")
	require.NoError(t, err)
	seedArticle(t, db, articleSeed{ID: "a1", Title: "One", Slug: "one", Categories: `["data-science"]`})

	all, err := service.All(ctx, label.NamespaceCategory)
	require.NoError(t, err)
	assert.Equal(t, []string{"Data Science", "data-science"}, names(all))
}

func TestService_All_FeaturedFirst(t *testing.T) {
	service, _ := newSQLiteService(t, nil)
	ctx := context.Background()

	_, err := service.GetOrCreate(ctx, label.NamespaceTag, "Alpha")
	require.NoError(t, err)
	beta, err := service.GetOrCreate(ctx, label.NamespaceTag, "Beta")
	require.NoError(t, err)

	featured := true
	_, err = service.UpdateMetadata(ctx, label.NamespaceTag, beta.ID, label.MetadataPatch{Featured: &featured})
	require.NoError(t, err)

	all, err := service.All(ctx, label.NamespaceTag)
	require.NoError(t, err)
	assert.Equal(t, []string{"Beta", "Alpha"}, names(all))
}

func TestService_All_Cache(t *testing.T) {
	cache := newRecordingCache()
	service, db := newSQLiteService(t, cache)
	ctx := context.Background()
	ref := seedArticle(t, db, articleSeed{ID: "a1", Title: "One", Slug: "one"})

	_, err := service.GetOrCreate(ctx, label.NamespaceTag, "Go")
	require.NoError(t, err)

	first, err := service.All(ctx, label.NamespaceTag)
	require.NoError(t, err)
	cached, ok := cache.Get(ctx, label.NamespaceTag)
	require.True(t, ok)
	assert.Equal(t, first, cached)

	// Written behind the service's back: a cached listing does not see it.
	seedArticle(t, db, articleSeed{ID: "a2", Title: "Two", Slug: "two", Tags: `["Hidden"]`})
	again, err := service.All(ctx, label.NamespaceTag)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go"}, names(again))

	before := cache.invalidations
	_, err = service.Tag(ctx, ref, label.NamespaceTag, []string{"Rust"})
	require.NoError(t, err)
	assert.Greater(t, cache.invalidations, before)

	fresh, err := service.All(ctx, label.NamespaceTag)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Rust", "Hidden"}, names(fresh))
}

/*
TestService_All_DiscardsListingReadBeforeInvalidation checks that a write
landing while the listing is being read keeps that listing out of the cache.
*/
func TestService_All_DiscardsListingReadBeforeInvalidation(t *testing.T) {
	cache := newRecordingCache()
	content := &hookedContent{names: []string{"Legacy"}}
	service := label.NewService(newFakeRepository(), content, cache, discardLogger)
	ctx := context.Background()

	content.onRead = func() { service.ContentChanged(ctx) }
	labels, err := service.All(ctx, label.NamespaceTag)
	require.NoError(t, err)
	assert.Equal(t, []string{"Legacy"}, names(labels))

	_, cached := cache.Get(ctx, label.NamespaceTag)
	assert.False(t, cached)

	content.onRead = nil
	_, err = service.All(ctx, label.NamespaceTag)
	require.NoError(t, err)

	_, cached = cache.Get(ctx, label.NamespaceTag)
	assert.True(t, cached)
}

func TestService_ContentChanged(t *testing.T) {
	cache := newRecordingCache()
	service := label.NewService(newFakeRepository(), &hookedContent{}, cache, discardLogger)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	service.ContentChanged(cancelled)

	assert.Equal(t, len(label.Namespaces), cache.invalidations)
	assert.Equal(t, cache.invalidations, cache.liveInvalidations, "invalidation must survive a cancelled request")
}

func TestService_Resolve(t *testing.T) {
	service, db := newSQLiteService(t, nil)
	ctx := context.Background()
	ref := seedArticle(t, db, articleSeed{ID: "a1", Title: "One", Slug: "one"})

	_, err := service.Resolve(ctx, label.NamespaceTag, []string{"Go", "!!!"})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	all, err := service.All(ctx, label.NamespaceTag)
	require.NoError(t, err)
	assert.Empty(t, all, "a rejected request creates no labels")

	resolved, err := service.Resolve(ctx, label.NamespaceTag, []string{"Go", "GO", "Rust"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Rust"}, names(resolved))

	// Resolving associates nothing.
	carried, err := service.LabelsFor(ctx, ref, label.NamespaceTag)
	require.NoError(t, err)
	assert.Empty(t, carried)
}

// # Lookups

func TestService_GetBySlug(t *testing.T) {
	service, _ := newSQLiteService(t, nil)
	ctx := context.Background()

	created, err := service.GetOrCreate(ctx, label.NamespaceTag, "Machine Learning")
	require.NoError(t, err)

	found, err := service.GetBySlug(ctx, label.NamespaceTag, "machine-learning")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	byID, err := service.Get(ctx, label.NamespaceTag, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Machine Learning", byID.Name)

	_, err = service.GetBySlug(ctx, label.NamespaceTag, "Machine Learning")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

func TestService_ItemsFor(t *testing.T) {
	service, db := newSQLiteService(t, nil)
	ctx := context.Background()

	seedArticle(t, db, articleSeed{ID: "a1", Title: "Published", Slug: "published", Tags: `["go"]`, Published: true})
	seedArticle(t, db, articleSeed{ID: "a2", Title: "Draft", Slug: "draft", Tags: `["Go"]`})
	seedArticle(t, db, articleSeed{ID: "a3", Title: "Other", Slug: "other", Tags: `["Rust"]`, Published: true})
	seedProject(t, db, "p1", "Project", `["GO"]`)

	goLabel, err := service.GetOrCreate(ctx, label.NamespaceTag, "Go")
	require.NoError(t, err)

	public, err := service.ItemsFor(ctx, label.NamespaceTag, goLabel, false)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a1", "p1"}, slice.Map(public, func(item label.ContentSummary) string { return item.ID }))

	admin, err := service.ItemsFor(ctx, label.NamespaceTag, goLabel, true)
	require.NoError(t, err)
	assert.Len(t, admin, 3)
}

// # Administration

func TestService_UpdateMetadata(t *testing.T) {
	service, _ := newSQLiteService(t, nil)
	ctx := context.Background()

	created, err := service.GetOrCreate(ctx, label.NamespaceTag, "Go")
	require.NoError(t, err)

	color := "#00ADD8"
	description := "The Go language"
	updated, err := service.UpdateMetadata(ctx, label.NamespaceTag, created.ID, label.MetadataPatch{
		Color:       &color,
		Description: &description,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Color)
	assert.Equal(t, "#00add8", *updated.Color)
	assert.Equal(t, "The Go language", *updated.Description)
	assert.Equal(t, "Go", updated.Name)

	empty := ""
	cleared, err := service.UpdateMetadata(ctx, label.NamespaceTag, created.ID, label.MetadataPatch{Color: &empty})
	require.NoError(t, err)
	assert.Nil(t, cleared.Color)
	assert.NotNil(t, cleared.Description)
}

func TestService_UpdateMetadata_AutoColor(t *testing.T) {
	repo := newFakeRepository()
	repo.put(&label.Label{ID: "go", Namespace: label.NamespaceTag, Name: "Go", Slug: "go"})
	service := label.NewService(repo, nil, nil, discardLogger)

	auto := "auto"
	updated, err := service.UpdateMetadata(context.Background(), label.NamespaceTag, "go", label.MetadataPatch{Color: &auto})
	require.NoError(t, err)
	require.NotNil(t, updated.Color)
	assert.Regexp(t, `^#[0-9a-f]{6}$`, *updated.Color)
}

func TestService_UpdateMetadata_Validation(t *testing.T) {
	repo := newFakeRepository()
	repo.put(&label.Label{ID: "go", Namespace: label.NamespaceTag, Name: "Go", Slug: "go"})
	service := label.NewService(repo, nil, nil, discardLogger)

	bad := "blue"
	_, err := service.UpdateMetadata(context.Background(), label.NamespaceTag, "go", label.MetadataPatch{Color: &bad})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	_, err = service.UpdateMetadata(context.Background(), label.NamespaceTag, "missing", label.MetadataPatch{})
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}
