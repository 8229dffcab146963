// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// # Classification
//
// Both storage drivers (pgx for PostgreSQL, modernc for SQLite) are folded into
// the same four outcomes so that services never inspect driver types:
//
//   - missing row         -> apperr NOT_FOUND
//   - unique violation    -> apperr CONFLICT
//   - deadline / timeout  -> apperr SERVICE_UNAVAILABLE (retryable)
//   - anything else       -> apperr INTERNAL_ERROR
package dberr

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/taibuivan/folio/internal/platform/apperr"
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// resource names the entity in client-facing messages (e.g. "Tag", "Article").
func Wrap(err error, resource string) error {
	if err == nil {
		return nil
	}

	// Already classified further down the stack
	if apperr.As(err) != nil {
		return err
	}

	switch {
	case IsNoRows(err):
		return apperr.NotFound(resource)

	case IsUniqueViolation(err):
		return apperr.Conflict(resource + " already exists").WithCause(err)

	case IsTimeout(err):
		return apperr.ServiceUnavailable("Storage did not respond in time").WithCause(err)
	}

	return apperr.Internal(fmt.Errorf("%s: %w", strings.ToLower(resource), err))
}

// IsNoRows reports whether err signals an empty single-row result.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows)
}

// IsUniqueViolation reports whether err is a unique-constraint failure from
// either PostgreSQL (SQLSTATE 23505) or SQLite.
func IsUniqueViolation(err error) bool {
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		return pgError.Code == pgerrcode.UniqueViolation
	}

	var sqliteError *sqlite.Error
	if errors.As(err, &sqliteError) {
		code := sqliteError.Code()
		if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY {
			return true
		}
	}

	// Extended result codes are not guaranteed on every connection.
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// IsTimeout reports whether err was caused by a deadline or cancelled wait.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err)
}
