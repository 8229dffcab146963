// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package article

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/folio/internal/platform/database/schema"
	"github.com/taibuivan/folio/internal/platform/dberr"
)

const resourceArticle = "Article"

// PostgresRepository implements [Repository] on content.article.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
List builds the WHERE clause from the filter and reads the total with
COUNT(*) OVER() so that one round-trip serves both the page and the meta.
*/
func (repository *PostgresRepository) List(ctx context.Context, filter Filter, limit, offset int) ([]*Article, int, error) {
	table := schema.ContentArticle

	var (
		queryBuilder strings.Builder
		args         []any
	)
	next := func(value any) int {
		args = append(args, value)
		return len(args)
	}

	queryBuilder.WriteString(fmt.Sprintf(`SELECT %s, COUNT(*) OVER() FROM %s WHERE TRUE`,
		strings.Join(table.Columns(), ", "), table.Table))

	if filter.Tag != "" {
		queryBuilder.WriteString(fmt.Sprintf(` AND EXISTS (SELECT 1 FROM unnest(%s) AS t(name) WHERE lower(t.name) = lower($%d))`,
			table.Tags, next(filter.Tag)))
	}
	if filter.Category != "" {
		queryBuilder.WriteString(fmt.Sprintf(` AND EXISTS (SELECT 1 FROM unnest(%s) AS c(name) WHERE lower(c.name) = lower($%d))`,
			table.Categories, next(filter.Category)))
	}
	if filter.Published != nil {
		queryBuilder.WriteString(fmt.Sprintf(` AND %s = $%d`, table.Published, next(*filter.Published)))
	}
	if filter.Featured != nil {
		queryBuilder.WriteString(fmt.Sprintf(` AND %s = $%d`, table.Featured, next(*filter.Featured)))
	}
	if filter.Query != "" {
		position := next("%" + filter.Query + "%")
		queryBuilder.WriteString(fmt.Sprintf(` AND (%s ILIKE $%d OR %s ILIKE $%d)`,
			table.Title, position, table.Excerpt, position))
	}

	queryBuilder.WriteString(fmt.Sprintf(` ORDER BY %s DESC NULLS LAST, %s DESC LIMIT $%d OFFSET $%d`,
		table.PublishedAt, table.CreatedAt, next(limit), next(offset)))

	rows, err := repository.pool.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, resourceArticle)
	}
	defer rows.Close()

	var (
		articles = make([]*Article, 0)
		total    int
	)
	for rows.Next() {
		found := &Article{}
		if err := rows.Scan(append(postgresDestinations(found), &total)...); err != nil {
			return nil, 0, dberr.Wrap(err, resourceArticle)
		}
		articles = append(articles, found)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, resourceArticle)
	}
	return articles, total, nil
}

func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*Article, error) {
	return repository.findOne(ctx, schema.ContentArticle.ID, id)
}

func (repository *PostgresRepository) FindBySlug(ctx context.Context, slug string) (*Article, error) {
	return repository.findOne(ctx, schema.ContentArticle.Slug, slug)
}

func (repository *PostgresRepository) findOne(ctx context.Context, column, value string) (*Article, error) {
	table := schema.ContentArticle
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		strings.Join(table.Columns(), ", "), table.Table, column)

	found := &Article{}
	if err := repository.pool.QueryRow(ctx, query, value).Scan(postgresDestinations(found)...); err != nil {
		return nil, dberr.Wrap(err, resourceArticle)
	}
	return found, nil
}

func (repository *PostgresRepository) Create(ctx context.Context, article *Article) error {
	table := schema.ContentArticle
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		table.Table, strings.Join(table.Columns(), ", "))

	_, err := repository.pool.Exec(ctx, query,
		article.ID, article.Title, article.Slug, article.Excerpt, article.Content, article.CoverURL,
		nonNil(article.Tags), nonNil(article.Categories),
		article.Published, article.Featured, article.ReadingMinutes,
		article.PublishedAt, article.CreatedAt, article.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, resourceArticle)
	}
	return nil
}

func (repository *PostgresRepository) Update(ctx context.Context, article *Article) error {
	table := schema.ContentArticle
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = $9, %s = $10, %s = $11, %s = $12, %s = $13 WHERE %s = $1`,
		table.Table,
		table.Title, table.Slug, table.Excerpt, table.Content, table.CoverURL, table.Tags, table.Categories,
		table.Published, table.Featured, table.ReadingMinutes, table.PublishedAt, table.UpdatedAt,
		table.ID)

	tag, err := repository.pool.Exec(ctx, query,
		article.ID, article.Title, article.Slug, article.Excerpt, article.Content, article.CoverURL,
		nonNil(article.Tags), nonNil(article.Categories),
		article.Published, article.Featured, article.ReadingMinutes, article.PublishedAt, article.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, resourceArticle)
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, resourceArticle)
	}
	return nil
}

func (repository *PostgresRepository) Delete(ctx context.Context, id string) error {
	table := schema.ContentArticle
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table.Table, table.ID)

	tag, err := repository.pool.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, resourceArticle)
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, resourceArticle)
	}
	return nil
}

// postgresDestinations matches the order of [schema.ArticleTable.Columns].
func postgresDestinations(article *Article) []any {
	return []any{
		&article.ID, &article.Title, &article.Slug, &article.Excerpt, &article.Content, &article.CoverURL,
		&article.Tags, &article.Categories,
		&article.Published, &article.Featured, &article.ReadingMinutes,
		&article.PublishedAt, &article.CreatedAt, &article.UpdatedAt,
	}
}

// nonNil keeps NOT NULL array columns from receiving NULL.
func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
