// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/dberr"
)

/*
TestWrap maps driver errors onto the application error taxonomy.
*/
func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"pgx_no_rows", pgx.ErrNoRows, apperr.CodeNotFound},
		{"sql_no_rows", fmt.Errorf("scan: %w", sql.ErrNoRows), apperr.CodeNotFound},
		{"pg_unique_violation", &pgconn.PgError{Code: pgerrcode.UniqueViolation}, apperr.CodeConflict},
		{"sqlite_unique_message", errors.New("constraint failed: UNIQUE constraint failed: tag.slug (2067)"), apperr.CodeConflict},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), apperr.CodeServiceUnavailable},
		{"other_pg_error", &pgconn.PgError{Code: pgerrcode.UndefinedTable}, apperr.CodeInternal},
		{"unknown", errors.New("connection reset by peer"), apperr.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := dberr.Wrap(tt.err, "Tag")

			ae := apperr.As(wrapped)
			require.NotNil(t, ae)
			assert.Equal(t, tt.wantCode, ae.Code)
		})
	}
}

func TestWrap_Nil(t *testing.T) {
	assert.NoError(t, dberr.Wrap(nil, "Tag"))
}

func TestWrap_PassesThroughAppErrors(t *testing.T) {
	original := apperr.Forbidden("nope")
	assert.Same(t, original, dberr.Wrap(original, "Tag"))
}

func TestWrap_NotFoundMessageNamesResource(t *testing.T) {
	err := dberr.Wrap(pgx.ErrNoRows, "Category")
	assert.Equal(t, "Category not found", err.Error())
}
