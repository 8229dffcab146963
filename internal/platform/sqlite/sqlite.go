// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package sqlite provides the embedded single-file storage driver.

It is selected with DATABASE_DRIVER=sqlite and is the driver used by the
repository tests, since it enforces the same UNIQUE constraints as PostgreSQL
without an external server.

Representation:

  - Label name arrays are stored as JSON text ('["Go","Rust"]').
  - Timestamps are stored as RFC3339Nano text in UTC.
  - Booleans are stored as INTEGER 0/1.
*/
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	// Registers the "sqlite" database/sql driver.
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

const (
	// busyTimeoutMillis lets concurrent writers wait for the lock instead of failing.
	busyTimeoutMillis = 5000
	maxOpenConns      = 4
	pingTimeout       = 2 * time.Second
)

// Open opens (creating if needed) the database file at path and applies the schema.
//
// Pragmas are passed through the DSN so that every pooled connection gets
// them, not only the first one.
func Open(path string, logger *slog.Logger) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(1)&_txlock=immediate",
		path, busyTimeoutMillis,
	)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}

	logger.Info("sqlite_opened", slog.String("path", path))
	return db, nil
}

// Ping verifies that the database file is reachable.
func Ping(ctx context.Context, db *sql.DB) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("sqlite: ping failed: %w", err)
	}
	return nil
}

// # Column Codecs

// EncodeStrings renders a name array as JSON text. A nil slice is stored as "[]".
func EncodeStrings(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("sqlite: encode string array: %w", err)
	}
	return string(encoded), nil
}

// DecodeStrings parses a JSON text column back into a name array.
// Empty text decodes to an empty, non-nil slice.
func DecodeStrings(raw string) ([]string, error) {
	values := []string{}
	if raw == "" {
		return values, nil
	}
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("sqlite: decode string array: %w", err)
	}
	return values, nil
}

// FormatTime formats a time.Time to RFC3339Nano for storage.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseTime parses a RFC3339Nano string back to time.Time.
func ParseTime(s string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: parse time %q: %w", s, err)
	}
	return parsed, nil
}

// FormatNullableTime formats an optional time for a nullable column.
func FormatNullableTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: FormatTime(*t), Valid: true}
}

// ParseNullableTime parses an optional time column.
func ParseNullableTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	parsed, err := ParseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// NullableString maps an optional string onto a nullable column.
func NullableString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

// StringPtr maps a nullable column back onto an optional string.
func StringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	return &value.String
}
