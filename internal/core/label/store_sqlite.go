// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package label

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/taibuivan/folio/internal/platform/dberr"
	"github.com/taibuivan/folio/internal/platform/sqlite"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// # Canonical Labels

// SQLiteRepository implements [Repository] on the tag and category tables.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (repository *SQLiteRepository) FindBySlug(ctx context.Context, namespace Namespace, slug string) (*Label, error) {
	table := labelTableFor(namespace)
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ?`,
		strings.Join(table.Columns(), ", "), table.Name, table.Slug)

	found, err := scanSQLiteLabel(repository.db.QueryRowContext(ctx, query, slug), namespace)
	if err != nil {
		return nil, dberr.Wrap(err, namespace.Resource())
	}
	return found, nil
}

func (repository *SQLiteRepository) FindByID(ctx context.Context, namespace Namespace, id string) (*Label, error) {
	table := labelTableFor(namespace)
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ?`,
		strings.Join(table.Columns(), ", "), table.Name, table.ID)

	found, err := scanSQLiteLabel(repository.db.QueryRowContext(ctx, query, id), namespace)
	if err != nil {
		return nil, dberr.Wrap(err, namespace.Resource())
	}
	return found, nil
}

func (repository *SQLiteRepository) List(ctx context.Context, namespace Namespace) ([]*Label, error) {
	table := labelTableFor(namespace)
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s DESC, %s ASC`,
		strings.Join(table.Columns(), ", "), table.Name, table.Featured, table.Label)

	rows, err := repository.db.QueryContext(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, namespace.Resource())
	}
	defer rows.Close()

	labels := make([]*Label, 0)
	for rows.Next() {
		found, err := scanSQLiteLabel(rows, namespace)
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
func (repository *SQLiteRepository) Create(ctx context.Context, label *Label) error {
	table := labelTableFor(label.Namespace)
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		table.Name, strings.Join(table.Columns(), ", "))

	_, err := repository.db.ExecContext(ctx, query,
		label.ID, label.Name, label.Slug,
		sqlite.NullableString(label.Description), sqlite.NullableString(label.Color),
		label.Featured, sqlite.FormatTime(label.CreatedAt))
	if err != nil {
		return dberr.Wrap(err, label.Namespace.Resource())
	}
	return nil
}

func (repository *SQLiteRepository) UpdateMetadata(ctx context.Context, namespace Namespace, id string, patch MetadataPatch) (*Label, error) {
	if patch.IsEmpty() {
		return repository.FindByID(ctx, namespace, id)
	}

	table := labelTableFor(namespace)

	var (
		sets []string
		args []any
	)
	if patch.Description != nil {
		sets = append(sets, table.Description+" = ?")
		args = append(args, sqlite.NullableString(nullIfEmpty(patch.Description)))
	}
	if patch.Color != nil {
		sets = append(sets, table.Color+" = ?")
		args = append(args, sqlite.NullableString(nullIfEmpty(patch.Color)))
	}
	if patch.Featured != nil {
		sets = append(sets, table.Featured+" = ?")
		args = append(args, *patch.Featured)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE %s SET %s WHERE %s = ? RETURNING %s`,
		table.Name, strings.Join(sets, ", "), table.ID, strings.Join(table.Columns(), ", "))

	updated, err := scanSQLiteLabel(repository.db.QueryRowContext(ctx, query, args...), namespace)
	if err != nil {
		return nil, dberr.Wrap(err, namespace.Resource())
	}
	return updated, nil
}

func scanSQLiteLabel(row rowScanner, namespace Namespace) (*Label, error) {
	var (
		found       = &Label{Namespace: namespace}
		description sql.NullString
		color       sql.NullString
		createdAt   string
	)

	if err := row.Scan(&found.ID, &found.Name, &found.Slug, &description, &color, &found.Featured, &createdAt); err != nil {
		return nil, err
	}

	parsed, err := sqlite.ParseTime(createdAt)
	if err != nil {
		return nil, err
	}

	found.Description = sqlite.StringPtr(description)
	found.Color = sqlite.StringPtr(color)
	found.CreatedAt = parsed
	return found, nil
}

// # Embedded Names

// SQLiteContentRepository implements [ContentRepository] on the JSON text
// columns of the article and project tables.
type SQLiteContentRepository struct {
	db *sql.DB
}

func NewSQLiteContentRepository(db *sql.DB) *SQLiteContentRepository {
	return &SQLiteContentRepository{db: db}
}

func (repository *SQLiteContentRepository) LabelNames(ctx context.Context, ref ContentRef, namespace Namespace) ([]string, error) {
	table := contentTableFor(ref.Kind)
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ?`,
		table.labelsColumn(namespace), table.name, table.id)

	var raw string
	if err := repository.db.QueryRowContext(ctx, query, ref.ID).Scan(&raw); err != nil {
		return nil, dberr.Wrap(err, ref.Kind.Resource())
	}

	names, err := sqlite.DecodeStrings(raw)
	if err != nil {
		return nil, dberr.Wrap(err, ref.Kind.Resource())
	}
	return names, nil
}

// ReplaceLabelNames overwrites one array column of one row.
func (repository *SQLiteContentRepository) ReplaceLabelNames(ctx context.Context, ref ContentRef, namespace Namespace, names []string) error {
	encoded, err := sqlite.EncodeStrings(names)
	if err != nil {
		return dberr.Wrap(err, ref.Kind.Resource())
	}

	table := contentTableFor(ref.Kind)
	query := fmt.Sprintf(`UPDATE %s SET %s = ?, %s = strftime('%%Y-%%m-%%dT%%H:%%M:%%fZ', 'now') WHERE %s = ?`,
		table.name, table.labelsColumn(namespace), table.updatedAt, table.id)

	result, err := repository.db.ExecContext(ctx, query, encoded, ref.ID)
	if err != nil {
		return dberr.Wrap(err, ref.Kind.Resource())
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return dberr.Wrap(err, ref.Kind.Resource())
	}
	if affected == 0 {
		return dberr.Wrap(sql.ErrNoRows, ref.Kind.Resource())
	}
	return nil
}

func (repository *SQLiteContentRepository) DistinctLabelNames(ctx context.Context, namespace Namespace) ([]string, error) {
	selects := make([]string, 0, len(contentKinds))
	for _, kind := range contentKinds {
		table := contentTableFor(kind)
		selects = append(selects, fmt.Sprintf(`SELECT j.value AS name FROM %s, json_each(%s.%s) AS j`,
			table.name, table.name, table.labelsColumn(namespace)))
	}
	query := strings.Join(selects, " UNION ") + " ORDER BY name"

	rows, err := repository.db.QueryContext(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, namespace.Resource())
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, dberr.Wrap(err, namespace.Resource())
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, namespace.Resource())
	}
	return names, nil
}

// ItemsWithLabel matches names with SQLite's lower(), which folds ASCII only.
func (repository *SQLiteContentRepository) ItemsWithLabel(ctx context.Context, namespace Namespace, name string) ([]ContentSummary, error) {
	var (
		selects = make([]string, 0, len(contentKinds))
		args    = make([]any, 0, len(contentKinds))
	)
	for _, kind := range contentKinds {
		table := contentTableFor(kind)

		published := "1"
		if table.published != "" {
			published = table.published
		}

		selects = append(selects, fmt.Sprintf(
			`SELECT '%s' AS kind, %s, %s AS title, %s, %s FROM %s WHERE EXISTS (SELECT 1 FROM json_each(%s.%s) AS j WHERE lower(j.value) = lower(?))`,
			kind, table.id, table.title, table.slug, published, table.name, table.name, table.labelsColumn(namespace)))
		args = append(args, name)
	}
	query := strings.Join(selects, " UNION ALL ") + " ORDER BY title"

	rows, err := repository.db.QueryContext(ctx, query, args...)
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
