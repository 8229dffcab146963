// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package article

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/taibuivan/folio/internal/platform/database/schema"
	"github.com/taibuivan/folio/internal/platform/dberr"
	"github.com/taibuivan/folio/internal/platform/sqlite"
)

// SQLiteRepository implements [Repository] on the embedded database.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// List mirrors the PostgreSQL query; label matching uses json_each and
// ASCII-only lower().
func (repository *SQLiteRepository) List(ctx context.Context, filter Filter, limit, offset int) ([]*Article, int, error) {
	table := schema.ContentArticle

	var (
		queryBuilder strings.Builder
		args         []any
	)

	queryBuilder.WriteString(fmt.Sprintf(`SELECT %s, COUNT(*) OVER() FROM %s WHERE 1 = 1`,
		strings.Join(table.Columns(), ", "), table.Name))

	if filter.Tag != "" {
		queryBuilder.WriteString(fmt.Sprintf(` AND EXISTS (SELECT 1 FROM json_each(%s.%s) AS j WHERE lower(j.value) = lower(?))`,
			table.Name, table.Tags))
		args = append(args, filter.Tag)
	}
	if filter.Category != "" {
		queryBuilder.WriteString(fmt.Sprintf(` AND EXISTS (SELECT 1 FROM json_each(%s.%s) AS j WHERE lower(j.value) = lower(?))`,
			table.Name, table.Categories))
		args = append(args, filter.Category)
	}
	if filter.Published != nil {
		queryBuilder.WriteString(fmt.Sprintf(` AND %s = ?`, table.Published))
		args = append(args, *filter.Published)
	}
	if filter.Featured != nil {
		queryBuilder.WriteString(fmt.Sprintf(` AND %s = ?`, table.Featured))
		args = append(args, *filter.Featured)
	}
	if filter.Query != "" {
		queryBuilder.WriteString(fmt.Sprintf(` AND (%s LIKE ? OR %s LIKE ?)`, table.Title, table.Excerpt))
		args = append(args, "%"+filter.Query+"%", "%"+filter.Query+"%")
	}

	queryBuilder.WriteString(fmt.Sprintf(` ORDER BY %s IS NULL, %s DESC, %s DESC LIMIT ? OFFSET ?`,
		table.PublishedAt, table.PublishedAt, table.CreatedAt))
	args = append(args, limit, offset)

	rows, err := repository.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, resourceArticle)
	}
	defer rows.Close()

	var (
		articles = make([]*Article, 0)
		total    int
	)
	for rows.Next() {
		found, err := scanSQLiteArticle(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, resourceArticle)
		}
		articles = append(articles, found)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, resourceArticle)
	}
	return articles, total, nil
}

func (repository *SQLiteRepository) FindByID(ctx context.Context, id string) (*Article, error) {
	return repository.findOne(ctx, schema.ContentArticle.ID, id)
}

func (repository *SQLiteRepository) FindBySlug(ctx context.Context, slug string) (*Article, error) {
	return repository.findOne(ctx, schema.ContentArticle.Slug, slug)
}

func (repository *SQLiteRepository) findOne(ctx context.Context, column, value string) (*Article, error) {
	table := schema.ContentArticle
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ?`,
		strings.Join(table.Columns(), ", "), table.Name, column)

	found, err := scanSQLiteArticle(repository.db.QueryRowContext(ctx, query, value))
	if err != nil {
		return nil, dberr.Wrap(err, resourceArticle)
	}
	return found, nil
}

func (repository *SQLiteRepository) Create(ctx context.Context, article *Article) error {
	tags, err := sqlite.EncodeStrings(article.Tags)
	if err != nil {
		return dberr.Wrap(err, resourceArticle)
	}
	categories, err := sqlite.EncodeStrings(article.Categories)
	if err != nil {
		return dberr.Wrap(err, resourceArticle)
	}

	table := schema.ContentArticle
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		table.Name, strings.Join(table.Columns(), ", "))

	_, err = repository.db.ExecContext(ctx, query,
		article.ID, article.Title, article.Slug, article.Excerpt, article.Content,
		sqlite.NullableString(article.CoverURL), tags, categories,
		article.Published, article.Featured, article.ReadingMinutes,
		sqlite.FormatNullableTime(article.PublishedAt),
		sqlite.FormatTime(article.CreatedAt), sqlite.FormatTime(article.UpdatedAt),
	)
	if err != nil {
		return dberr.Wrap(err, resourceArticle)
	}
	return nil
}

func (repository *SQLiteRepository) Update(ctx context.Context, article *Article) error {
	tags, err := sqlite.EncodeStrings(article.Tags)
	if err != nil {
		return dberr.Wrap(err, resourceArticle)
	}
	categories, err := sqlite.EncodeStrings(article.Categories)
	if err != nil {
		return dberr.Wrap(err, resourceArticle)
	}

	table := schema.ContentArticle
	query := fmt.Sprintf(`UPDATE %s SET %s = ?, %s = ?, %s = ?, %s = ?, %s = ?, %s = ?, %s = ?, %s = ?, %s = ?, %s = ?, %s = ?, %s = ? WHERE %s = ?`,
		table.Name,
		table.Title, table.Slug, table.Excerpt, table.Content, table.CoverURL, table.Tags, table.Categories,
		table.Published, table.Featured, table.ReadingMinutes, table.PublishedAt, table.UpdatedAt,
		table.ID)

	result, err := repository.db.ExecContext(ctx, query,
		article.Title, article.Slug, article.Excerpt, article.Content, sqlite.NullableString(article.CoverURL),
		tags, categories, article.Published, article.Featured, article.ReadingMinutes,
		sqlite.FormatNullableTime(article.PublishedAt), sqlite.FormatTime(article.UpdatedAt),
		article.ID,
	)
	return affectedOne(result, err)
}

func (repository *SQLiteRepository) Delete(ctx context.Context, id string) error {
	table := schema.ContentArticle
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = ?`, table.Name, table.ID)

	result, err := repository.db.ExecContext(ctx, query, id)
	return affectedOne(result, err)
}

func affectedOne(result sql.Result, err error) error {
	if err != nil {
		return dberr.Wrap(err, resourceArticle)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return dberr.Wrap(err, resourceArticle)
	}
	if affected == 0 {
		return dberr.Wrap(sql.ErrNoRows, resourceArticle)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanSQLiteArticle reads the columns of [schema.ArticleTable.Columns],
// followed by any extra destinations.
func scanSQLiteArticle(row rowScanner, extra ...any) (*Article, error) {
	var (
		found       = &Article{}
		coverURL    sql.NullString
		tags        string
		categories  string
		publishedAt sql.NullString
		createdAt   string
		updatedAt   string
	)

	destinations := []any{
		&found.ID, &found.Title, &found.Slug, &found.Excerpt, &found.Content, &coverURL,
		&tags, &categories,
		&found.Published, &found.Featured, &found.ReadingMinutes,
		&publishedAt, &createdAt, &updatedAt,
	}
	if err := row.Scan(append(destinations, extra...)...); err != nil {
		return nil, err
	}

	var err error
	found.CoverURL = sqlite.StringPtr(coverURL)
	if found.Tags, err = sqlite.DecodeStrings(tags); err != nil {
		return nil, err
	}
	if found.Categories, err = sqlite.DecodeStrings(categories); err != nil {
		return nil, err
	}
	if found.PublishedAt, err = sqlite.ParseNullableTime(publishedAt); err != nil {
		return nil, err
	}
	if found.CreatedAt, err = sqlite.ParseTime(createdAt); err != nil {
		return nil, err
	}
	if found.UpdatedAt, err = sqlite.ParseTime(updatedAt); err != nil {
		return nil, err
	}
	return found, nil
}
