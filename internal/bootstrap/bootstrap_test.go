// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package bootstrap_test

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/folio/internal/auth"
	"github.com/taibuivan/folio/internal/bootstrap"
	"github.com/taibuivan/folio/internal/core/label"
	"github.com/taibuivan/folio/internal/platform/config"
)

func TestOpen_SQLiteWithoutRedis(t *testing.T) {
	cfg := &config.Config{
		DatabaseDriver: config.DriverSQLite,
		SQLitePath:     filepath.Join(t.TempDir(), "folio.db"),
	}

	services, err := bootstrap.Open(context.Background(), cfg, slog.New(slog.DiscardHandler), true)
	require.NoError(t, err)
	t.Cleanup(services.Close)

	assert.Equal(t, config.DriverSQLite, services.DatabaseName)
	assert.Nil(t, services.CheckCache)
	assert.IsType(t, &auth.MemoryRevocationStore{}, services.Revocations)
	require.NoError(t, services.CheckDatabase(context.Background()))

	created, err := services.Labels.GetOrCreate(context.Background(), label.NamespaceTag, "Go")
	require.NoError(t, err)
	assert.Equal(t, "go", created.Slug)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := bootstrap.Open(context.Background(), &config.Config{DatabaseDriver: "mysql"}, slog.New(slog.DiscardHandler), false)
	assert.Error(t, err)
}
