// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package project

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/folio/internal/platform/database/schema"
	"github.com/taibuivan/folio/internal/platform/dberr"
)

// PostgresRepository implements [Repository] on content.project.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (repository *PostgresRepository) List(ctx context.Context, filter Filter) ([]*Project, error) {
	table := schema.ContentProject

	var (
		queryBuilder strings.Builder
		args         []any
	)

	queryBuilder.WriteString(fmt.Sprintf(`SELECT %s FROM %s WHERE TRUE`,
		strings.Join(table.Columns(), ", "), table.Table))

	if filter.Tag != "" {
		args = append(args, filter.Tag)
		queryBuilder.WriteString(fmt.Sprintf(` AND EXISTS (SELECT 1 FROM unnest(%s) AS t(name) WHERE lower(t.name) = lower($%d))`,
			table.Tags, len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		queryBuilder.WriteString(fmt.Sprintf(` AND EXISTS (SELECT 1 FROM unnest(%s) AS c(name) WHERE lower(c.name) = lower($%d))`,
			table.Categories, len(args)))
	}
	if filter.Featured != nil {
		args = append(args, *filter.Featured)
		queryBuilder.WriteString(fmt.Sprintf(` AND %s = $%d`, table.Featured, len(args)))
	}

	queryBuilder.WriteString(fmt.Sprintf(` ORDER BY %s ASC, %s DESC`, table.SortOrder, table.CreatedAt))

	rows, err := repository.pool.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, dberr.Wrap(err, resourceProject)
	}

	projects, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Project, error) {
		found := &Project{}
		return found, row.Scan(postgresDestinations(found)...)
	})
	if err != nil {
		return nil, dberr.Wrap(err, resourceProject)
	}
	return projects, nil
}

func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*Project, error) {
	return repository.findOne(ctx, schema.ContentProject.ID, id)
}

func (repository *PostgresRepository) FindBySlug(ctx context.Context, slug string) (*Project, error) {
	return repository.findOne(ctx, schema.ContentProject.Slug, slug)
}

func (repository *PostgresRepository) findOne(ctx context.Context, column, value string) (*Project, error) {
	table := schema.ContentProject
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		strings.Join(table.Columns(), ", "), table.Table, column)

	found := &Project{}
	if err := repository.pool.QueryRow(ctx, query, value).Scan(postgresDestinations(found)...); err != nil {
		return nil, dberr.Wrap(err, resourceProject)
	}
	return found, nil
}

func (repository *PostgresRepository) Create(ctx context.Context, project *Project) error {
	table := schema.ContentProject
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		table.Table, strings.Join(table.Columns(), ", "))

	_, err := repository.pool.Exec(ctx, query,
		project.ID, project.Title, project.Slug, project.Summary, project.Description,
		project.RepoURL, project.LiveURL, project.ImageURL,
		nonNil(project.Tags), nonNil(project.Categories),
		project.Featured, project.SortOrder, project.CreatedAt, project.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, resourceProject)
	}
	return nil
}

func (repository *PostgresRepository) Update(ctx context.Context, project *Project) error {
	table := schema.ContentProject
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = $9, %s = $10, %s = $11, %s = $12, %s = $13 WHERE %s = $1`,
		table.Table,
		table.Title, table.Slug, table.Summary, table.Description,
		table.RepoURL, table.LiveURL, table.ImageURL, table.Tags, table.Categories,
		table.Featured, table.SortOrder, table.UpdatedAt,
		table.ID)

	tag, err := repository.pool.Exec(ctx, query,
		project.ID, project.Title, project.Slug, project.Summary, project.Description,
		project.RepoURL, project.LiveURL, project.ImageURL,
		nonNil(project.Tags), nonNil(project.Categories),
		project.Featured, project.SortOrder, project.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, resourceProject)
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, resourceProject)
	}
	return nil
}

func (repository *PostgresRepository) Delete(ctx context.Context, id string) error {
	table := schema.ContentProject
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table.Table, table.ID)

	tag, err := repository.pool.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, resourceProject)
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, resourceProject)
	}
	return nil
}

func postgresDestinations(project *Project) []any {
	return []any{
		&project.ID, &project.Title, &project.Slug, &project.Summary, &project.Description,
		&project.RepoURL, &project.LiveURL, &project.ImageURL,
		&project.Tags, &project.Categories,
		&project.Featured, &project.SortOrder, &project.CreatedAt, &project.UpdatedAt,
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
