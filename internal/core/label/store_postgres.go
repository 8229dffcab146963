// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package label

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/folio/internal/platform/dberr"
)

// # Canonical Labels

// PostgresRepository implements [Repository] on content.tag and content.category.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) FindBySlug(ctx context.Context, namespace Namespace, slug string) (*Label, error) {
	table := labelTableFor(namespace)
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		strings.Join(table.Columns(), ", "), table.Table, table.Slug)

	found, err := scanPostgresLabel(repository.db.QueryRow(ctx, query, slug), namespace)
	if err != nil {
		return nil, dberr.Wrap(err, namespace.Resource())
	}
	return found, nil
}

func (repository *PostgresRepository) FindByID(ctx context.Context, namespace Namespace, id string) (*Label, error) {
	table := labelTableFor(namespace)
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		strings.Join(table.Columns(), ", "), table.Table, table.ID)

	found, err := scanPostgresLabel(repository.db.QueryRow(ctx, query, id), namespace)
	if err != nil {
		return nil, dberr.Wrap(err, namespace.Resource())
	}
	return found, nil
}

func (repository *PostgresRepository) List(ctx context.Context, namespace Namespace) ([]*Label, error) {
	table := labelTableFor(namespace)
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s DESC, %s ASC`,
		strings.Join(table.Columns(), ", "), table.Table, table.Featured, table.Label)

	rows, err := repository.db.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, namespace.Resource())
	}
	defer rows.Close()

	labels := make([]*Label, 0)
	for rows.Next() {
		found, err := scanPostgresLabel(rows, namespace)
		if err != nil {
			return nil, dberr.Wrap(err, namespace.Resource())
		}
		labels = append(labels, found)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, namespace.Resource())
	}
	return labels, nil
}

// Create inserts a new label. A duplicate slug surfaces as apperr CONFLICT.
func (repository *PostgresRepository) Create(ctx context.Context, label *Label) error {
	table := labelTableFor(label.Namespace)
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		table.Table, strings.Join(table.Columns(), ", "))

	_, err := repository.db.Exec(ctx, query,
		label.ID, label.Name, label.Slug, label.Description, label.Color, label.Featured, label.CreatedAt)
	if err != nil {
		return dberr.Wrap(err, label.Namespace.Resource())
	}
	return nil
}

func (repository *PostgresRepository) UpdateMetadata(ctx context.Context, namespace Namespace, id string, patch MetadataPatch) (*Label, error) {
	if patch.IsEmpty() {
		return repository.FindByID(ctx, namespace, id)
	}

	table := labelTableFor(namespace)

	var (
		sets []string
		args []any
	)
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Description != nil {
		set(table.Description, nullIfEmpty(patch.Description))
	}
	if patch.Color != nil {
		set(table.Color, nullIfEmpty(patch.Color))
	}
	if patch.Featured != nil {
		set(table.Featured, *patch.Featured)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE %s SET %s WHERE %s = $%d RETURNING %s`,
		table.Table, strings.Join(sets, ", "), table.ID, len(args), strings.Join(table.Columns(), ", "))

	updated, err := scanPostgresLabel(repository.db.QueryRow(ctx, query, args...), namespace)
	if err != nil {
		return nil, dberr.Wrap(err, namespace.Resource())
	}
	return updated, nil
}

func scanPostgresLabel(row pgx.Row, namespace Namespace) (*Label, error) {
	found := &Label{Namespace: namespace}
	err := row.Scan(&found.ID, &found.Name, &found.Slug, &found.Description, &found.Color, &found.Featured, &found.CreatedAt)
	if err != nil {
		return nil, err
	}
	return found, nil
}

// # Embedded Names

// PostgresContentRepository implements [ContentRepository] on the text[]
// columns of content.article and content.project.
type PostgresContentRepository struct {
	db *pgxpool.Pool
}

func NewPostgresContentRepository(db *pgxpool.Pool) *PostgresContentRepository {
	return &PostgresContentRepository{db: db}
}

func (repository *PostgresContentRepository) LabelNames(ctx context.Context, ref ContentRef, namespace Namespace) ([]string, error) {
	table := contentTableFor(ref.Kind)
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		table.labelsColumn(namespace), table.qualified, table.id)

	var names []string
	if err := repository.db.QueryRow(ctx, query, ref.ID).Scan(&names); err != nil {
		return nil, dberr.Wrap(err, ref.Kind.Resource())
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// ReplaceLabelNames overwrites one array column of one row.
func (repository *PostgresContentRepository) ReplaceLabelNames(ctx context.Context, ref ContentRef, namespace Namespace, names []string) error {
	if names == nil {
		names = []string{}
	}

	table := contentTableFor(ref.Kind)
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1`,
		table.qualified, table.labelsColumn(namespace), table.updatedAt, table.id)

	tag, err := repository.db.Exec(ctx, query, ref.ID, names)
	if err != nil {
		return dberr.Wrap(err, ref.Kind.Resource())
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, ref.Kind.Resource())
	}
	return nil
}

func (repository *PostgresContentRepository) DistinctLabelNames(ctx context.Context, namespace Namespace) ([]string, error) {
	selects := make([]string, 0, len(contentKinds))
	for _, kind := range contentKinds {
		table := contentTableFor(kind)
		selects = append(selects, fmt.Sprintf(`SELECT unnest(%s) AS name FROM %s`,
			table.labelsColumn(namespace), table.qualified))
	}
	query := strings.Join(selects, " UNION ") + " ORDER BY name"

	rows, err := repository.db.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, namespace.Resource())
	}

	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, dberr.Wrap(err, namespace.Resource())
	}
	return names, nil
}

func (repository *PostgresContentRepository) ItemsWithLabel(ctx context.Context, namespace Namespace, name string) ([]ContentSummary, error) {
	selects := make([]string, 0, len(contentKinds))
	for _, kind := range contentKinds {
		table := contentTableFor(kind)

		published := "TRUE"
		if table.published != "" {
			published = table.published
		}

		selects = append(selects, fmt.Sprintf(
			`SELECT '%s'::text AS kind, %s, %s AS title, %s, %s FROM %s WHERE EXISTS (SELECT 1 FROM unnest(%s) AS n WHERE lower(n) = lower($1))`,
			kind, table.id, table.title, table.slug, published, table.qualified, table.labelsColumn(namespace)))
	}
	query := strings.Join(selects, " UNION ALL ") + " ORDER BY title"

	rows, err := repository.db.Query(ctx, query, name)
	if err != nil {
		return nil, dberr.Wrap(err, namespace.Resource())
	}
	defer rows.Close()

	items := make([]ContentSummary, 0)
	for rows.Next() {
		var (
			item ContentSummary
			kind string
		)
		if err := rows.Scan(&kind, &item.ID, &item.Title, &item.Slug, &item.Published); err != nil {
			return nil, dberr.Wrap(err, namespace.Resource())
		}
		item.Kind = ContentKind(kind)
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, namespace.Resource())
	}
	return items, nil
}
