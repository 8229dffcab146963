// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package label_test

import (
	"context"
	"database/sql"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taibuivan/folio/internal/core/label"
	"github.com/taibuivan/folio/internal/platform/sqlite"
)

var discardLogger = slog.New(slog.DiscardHandler)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "folio.db"), discardLogger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// newSQLiteService wires a service on a fresh database.
func newSQLiteService(t *testing.T, cache label.Cache) (*label.Service, *sql.DB) {
	t.Helper()

	db := openTestDB(t)
	service := label.NewService(
		label.NewSQLiteRepository(db),
		label.NewSQLiteContentRepository(db),
		cache,
		discardLogger,
	)
	return service, db
}

type articleSeed struct {
	ID         string
	Title      string
	Slug       string
	Tags       string
	Categories string
	Published  bool
}

func seedArticle(t *testing.T, db *sql.DB, seed articleSeed) label.ContentRef {
	t.Helper()

	if seed.Tags == "" {
		seed.Tags = "[]"
	}
	if seed.Categories == "" {
		seed.Categories = "[]"
	}
	now := sqlite.FormatTime(time.Now().UTC())

	_, err := db.Exec(
		`INSERT INTO article (id, title, slug, tags, categories, published, createdat, updatedat) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		seed.ID, seed.Title, seed.Slug, seed.Tags, seed.Categories, seed.Published, now, now)
	require.NoError(t, err)

	return label.ContentRef{Kind: label.KindArticle, ID: seed.ID}
}

func seedProject(t *testing.T, db *sql.DB, id, title, tags string) label.ContentRef {
	t.Helper()

	now := sqlite.FormatTime(time.Now().UTC())
	_, err := db.Exec(
		`INSERT INTO project (id, title, slug, tags, createdat, updatedat) VALUES (?, ?, ?, ?, ?, ?)`,
		id, title, id, tags, now, now)
	require.NoError(t, err)

	return label.ContentRef{Kind: label.KindProject, ID: id}
}

// # Fakes

// fakeRepository lets tests inject failures per call.
type fakeRepository struct {
	mu      sync.Mutex
	rows    map[string]*label.Label
	creates int
	finds   int

	findErr   func(call int) error
	createErr func(call int, candidate *label.Label) error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{rows: make(map[string]*label.Label)}
}

func (repo *fakeRepository) FindBySlug(_ context.Context, _ label.Namespace, slug string) (*label.Label, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	repo.finds++
	if repo.findErr != nil {
		if err := repo.findErr(repo.finds); err != nil {
			return nil, err
		}
	}
	if found, ok := repo.rows[slug]; ok {
		return found, nil
	}
	return nil, notFound()
}

func (repo *fakeRepository) FindByID(_ context.Context, _ label.Namespace, id string) (*label.Label, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, row := range repo.rows {
		if row.ID == id {
			return row, nil
		}
	}
	return nil, notFound()
}

func (repo *fakeRepository) List(context.Context, label.Namespace) ([]*label.Label, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	labels := make([]*label.Label, 0, len(repo.rows))
	for _, row := range repo.rows {
		labels = append(labels, row)
	}
	return labels, nil
}

func (repo *fakeRepository) Create(_ context.Context, candidate *label.Label) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	repo.creates++
	if repo.createErr != nil {
		if err := repo.createErr(repo.creates, candidate); err != nil {
			return err
		}
	}
	repo.rows[candidate.Slug] = candidate
	return nil
}

func (repo *fakeRepository) UpdateMetadata(_ context.Context, _ label.Namespace, id string, patch label.MetadataPatch) (*label.Label, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, row := range repo.rows {
		if row.ID != id {
			continue
		}
		if patch.Color != nil {
			row.Color = patch.Color
		}
		if patch.Description != nil {
			row.Description = patch.Description
		}
		if patch.Featured != nil {
			row.Featured = *patch.Featured
		}
		return row, nil
	}
	return nil, notFound()
}

func (repo *fakeRepository) put(row *label.Label) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.rows[row.Slug] = row
}

// recordingCache is an in-memory [label.Cache] that counts invalidations.
// liveInvalidations counts those that arrived with a usable context.
type recordingCache struct {
	mu                sync.Mutex
	entries           map[label.Namespace][]*label.Label
	invalidations     int
	liveInvalidations int
}

func newRecordingCache() *recordingCache {
	return &recordingCache{entries: make(map[label.Namespace][]*label.Label)}
}

func (cache *recordingCache) Get(_ context.Context, namespace label.Namespace) ([]*label.Label, bool) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	labels, ok := cache.entries[namespace]
	return labels, ok
}

func (cache *recordingCache) Set(_ context.Context, namespace label.Namespace, labels []*label.Label) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.entries[namespace] = labels
}

func (cache *recordingCache) Invalidate(ctx context.Context, namespace label.Namespace) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.invalidations++
	if ctx.Err() == nil {
		cache.liveInvalidations++
	}
	delete(cache.entries, namespace)
}

// hookedContent serves fixed embedded names and runs onRead during the read.
type hookedContent struct {
	names  []string
	onRead func()
}

func (content *hookedContent) LabelNames(context.Context, label.ContentRef, label.Namespace) ([]string, error) {
	return nil, notFound()
}

func (content *hookedContent) ReplaceLabelNames(context.Context, label.ContentRef, label.Namespace, []string) error {
	return nil
}

func (content *hookedContent) DistinctLabelNames(context.Context, label.Namespace) ([]string, error) {
	if content.onRead != nil {
		content.onRead()
	}
	return content.names, nil
}

func (content *hookedContent) ItemsWithLabel(context.Context, label.Namespace, string) ([]label.ContentSummary, error) {
	return nil, nil
}
