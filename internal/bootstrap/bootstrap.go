// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package bootstrap builds the storage-backed services shared by cmd/api and
cmd/folioctl.

The selected driver decides which repository adapters are constructed; the
services above them are identical for both drivers.
*/
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/folio/internal/auth"
	"github.com/taibuivan/folio/internal/core/article"
	"github.com/taibuivan/folio/internal/core/label"
	"github.com/taibuivan/folio/internal/core/project"
	"github.com/taibuivan/folio/internal/platform/config"
	"github.com/taibuivan/folio/internal/platform/constants"
	"github.com/taibuivan/folio/internal/platform/migration"
	pgstore "github.com/taibuivan/folio/internal/platform/postgres"
	redisstore "github.com/taibuivan/folio/internal/platform/redis"
	"github.com/taibuivan/folio/internal/platform/sqlite"
)

// Services is the wired domain layer plus the handles needed to probe and
// close its backing stores.
type Services struct {
	Labels      *label.Service
	Articles    *article.Service
	Projects    *project.Service
	Revocations auth.RevocationStore

	// DatabaseName is the driver in use, for health reporting.
	DatabaseName string

	// CheckDatabase pings the configured store.
	CheckDatabase func(ctx context.Context) error

	// CheckCache pings Redis; nil when Redis is disabled.
	CheckCache func(ctx context.Context) error

	closers []func()
}

// Close releases the database and Redis connections in reverse order.
func (services *Services) Close() {
	for i := len(services.closers) - 1; i >= 0; i-- {
		services.closers[i]()
	}
}

// Open connects to the configured stores and wires the services. Postgres
// migrations run when migrate is true; the SQLite schema is always applied.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger, migrate bool) (*Services, error) {
	services := &Services{DatabaseName: cfg.DatabaseDriver}

	var (
		labelRepo   label.Repository
		contentRepo label.ContentRepository
		articleRepo article.Repository
		projectRepo project.Repository
	)

	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, err
		}
		services.closers = append(services.closers, pool.Close)

		if migrate {
			if _, err := migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, logger); err != nil {
				services.Close()
				return nil, err
			}
		}

		labelRepo, contentRepo = label.NewPostgresRepository(pool), label.NewPostgresContentRepository(pool)
		articleRepo, projectRepo = article.NewPostgresRepository(pool), project.NewPostgresRepository(pool)
		services.CheckDatabase = pingPool(pool)

	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		services.closers = append(services.closers, func() { _ = db.Close() })

		labelRepo, contentRepo = label.NewSQLiteRepository(db), label.NewSQLiteContentRepository(db)
		articleRepo, projectRepo = article.NewSQLiteRepository(db), project.NewSQLiteRepository(db)
		services.CheckDatabase = pingSQLite(db)

	default:
		return nil, fmt.Errorf("bootstrap: unknown database driver %q", cfg.DatabaseDriver)
	}

	client, err := redisstore.NewOptionalClient(ctx, cfg.RedisURL, logger)
	if err != nil {
		services.Close()
		return nil, err
	}

	var cache label.Cache
	if client != nil {
		services.closers = append(services.closers, func() { _ = client.Close() })
		cache = label.NewRedisCache(client, cfg.LabelCacheTTL, logger)
		services.Revocations = auth.NewRedisRevocationStore(client)
		services.CheckCache = pingRedis(client)
	} else {
		services.Revocations = auth.NewMemoryRevocationStore()
	}

	services.Labels = label.NewService(labelRepo, contentRepo, cache, logger,
		label.WithCallTimeout(constants.PersistenceCallTimeout))
	services.Articles = article.NewService(articleRepo, services.Labels, logger)
	services.Projects = project.NewService(projectRepo, services.Labels, logger)

	return services, nil
}

func pingPool(pool *pgxpool.Pool) func(context.Context) error {
	return func(ctx context.Context) error { return pgstore.Ping(ctx, pool) }
}

func pingSQLite(db *sql.DB) func(context.Context) error {
	return func(ctx context.Context) error { return sqlite.Ping(ctx, db) }
}

func pingRedis(client *goredis.Client) func(context.Context) error {
	return func(ctx context.Context) error { return redisstore.Ping(ctx, client) }
}
