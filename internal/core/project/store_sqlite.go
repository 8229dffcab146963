// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package project

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

func (repository *SQLiteRepository) List(ctx context.Context, filter Filter) ([]*Project, error) {
	table := schema.ContentProject

	var (
		queryBuilder strings.Builder
		args         []any
	)

	queryBuilder.WriteString(fmt.Sprintf(`SELECT %s FROM %s WHERE 1 = 1`,
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
	if filter.Featured != nil {
		queryBuilder.WriteString(fmt.Sprintf(` AND %s = ?`, table.Featured))
		args = append(args, *filter.Featured)
	}

	queryBuilder.WriteString(fmt.Sprintf(` ORDER BY %s ASC, %s DESC`, table.SortOrder, table.CreatedAt))

	rows, err := repository.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, dberr.Wrap(err, resourceProject)
	}
	defer rows.Close()

	projects := make([]*Project, 0)
	for rows.Next() {
		found, err := scanSQLiteProject(rows)
		if err != nil {
			return nil, dberr.Wrap(err, resourceProject)
		}
		projects = append(projects, found)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, resourceProject)
	}
	return projects, nil
}

func (repository *SQLiteRepository) FindByID(ctx context.Context, id string) (*Project, error) {
	return repository.findOne(ctx, schema.ContentProject.ID, id)
}

func (repository *SQLiteRepository) FindBySlug(ctx context.Context, slug string) (*Project, error) {
	return repository.findOne(ctx, schema.ContentProject.Slug, slug)
}

func (repository *SQLiteRepository) findOne(ctx context.Context, column, value string) (*Project, error) {
	table := schema.ContentProject
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ?`,
		strings.Join(table.Columns(), ", "), table.Name, column)

	found, err := scanSQLiteProject(repository.db.QueryRowContext(ctx, query, value))
	if err != nil {
		return nil, dberr.Wrap(err, resourceProject)
	}
	return found, nil
}

func (repository *SQLiteRepository) Create(ctx context.Context, project *Project) error {
	tags, err := sqlite.EncodeStrings(project.Tags)
	if err != nil {
		return dberr.Wrap(err, resourceProject)
	}
	categories, err := sqlite.EncodeStrings(project.Categories)
	if err != nil {
		return dberr.Wrap(err, resourceProject)
	}

	table := schema.ContentProject
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		table.Name, strings.Join(table.Columns(), ", "))

	_, err = repository.db.ExecContext(ctx, query,
		project.ID, project.Title, project.Slug, project.Summary, project.Description,
		sqlite.NullableString(project.RepoURL), sqlite.NullableString(project.LiveURL), sqlite.NullableString(project.ImageURL),
		tags, categories, project.Featured, project.SortOrder,
		sqlite.FormatTime(project.CreatedAt), sqlite.FormatTime(project.UpdatedAt),
	)
	if err != nil {
		return dberr.Wrap(err, resourceProject)
	}
	return nil
}

func (repository *SQLiteRepository) Update(ctx context.Context, project *Project) error {
	tags, err := sqlite.EncodeStrings(project.Tags)
	if err != nil {
		return dberr.Wrap(err, resourceProject)
	}
	categories, err := sqlite.EncodeStrings(project.Categories)
	if err != nil {
		return dberr.Wrap(err, resourceProject)
	}

	table := schema.ContentProject
	query := fmt.Sprintf(`UPDATE %s SET %s = ?, %s = ?, %s = ?, %s = ?, %s = ?, %s = ?, %s = ?, %s = ?, %s = ?, %s = ?, %s = ?, %s = ? WHERE %s = ?`,
		table.Name,
		table.Title, table.Slug, table.Summary, table.Description,
		table.RepoURL, table.LiveURL, table.ImageURL, table.Tags, table.Categories,
		table.Featured, table.SortOrder, table.UpdatedAt,
		table.ID)

	result, err := repository.db.ExecContext(ctx, query,
		project.Title, project.Slug, project.Summary, project.Description,
		sqlite.NullableString(project.RepoURL), sqlite.NullableString(project.LiveURL), sqlite.NullableString(project.ImageURL),
		tags, categories, project.Featured, project.SortOrder, sqlite.FormatTime(project.UpdatedAt),
		project.ID,
	)
	return affectedOne(result, err)
}

func (repository *SQLiteRepository) Delete(ctx context.Context, id string) error {
	table := schema.ContentProject
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = ?`, table.Name, table.ID)

	result, err := repository.db.ExecContext(ctx, query, id)
	return affectedOne(result, err)
}

func affectedOne(result sql.Result, err error) error {
	if err != nil {
		return dberr.Wrap(err, resourceProject)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return dberr.Wrap(err, resourceProject)
	}
	if affected == 0 {
		return dberr.Wrap(sql.ErrNoRows, resourceProject)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteProject(row rowScanner) (*Project, error) {
	var (
		found                      = &Project{}
		repoURL, liveURL, imageURL sql.NullString
		tags, categories           string
		createdAt, updatedAt       string
	)

	err := row.Scan(
		&found.ID, &found.Title, &found.Slug, &found.Summary, &found.Description,
		&repoURL, &liveURL, &imageURL, &tags, &categories,
		&found.Featured, &found.SortOrder, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	found.RepoURL = sqlite.StringPtr(repoURL)
	found.LiveURL = sqlite.StringPtr(liveURL)
	found.ImageURL = sqlite.StringPtr(imageURL)

	if found.Tags, err = sqlite.DecodeStrings(tags); err != nil {
		return nil, err
	}
	if found.Categories, err = sqlite.DecodeStrings(categories); err != nil {
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
