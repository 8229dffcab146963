// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxkey defines the typed context keys shared by middleware and
// handlers. The unexported key type keeps them from colliding with string
// keys set by other packages.
package ctxkey

type key uint8

const (
	// KeyRequestID holds the X-Request-ID correlation value.
	KeyRequestID key = iota + 1

	// KeyUser holds the verified admin claims ([sec.AuthClaims]).
	KeyUser

	// KeyLogger holds the request-scoped [*log/slog.Logger].
	KeyLogger
)
