// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the single-admin login flow.

# Architecture

There is exactly one privileged account: the site owner. Its bcrypt password
hash comes from configuration, so there is no user table. A successful login
yields a short-lived RS256 token carrying the admin role; logout revokes the
token's jti until the token would have expired.
*/
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/constants"
	"github.com/taibuivan/folio/internal/platform/sec"
)

// TokenProvider signs and verifies access tokens.
type TokenProvider interface {
	GenerateAccessToken(subject string, role sec.UserRole, timeToLive time.Duration) (string, error)
	VerifyToken(tokenString string) (*sec.AuthClaims, error)
}

// Session is the result of a successful login.
type Session struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Service implements login, logout, and token verification.
type Service struct {
	passwordHash string
	tokens       TokenProvider
	revocations  RevocationStore
	logger       *slog.Logger
	now          func() time.Time
}

// NewService constructs a new [Service]. passwordHash is the bcrypt hash of
// the admin password.
func NewService(passwordHash string, tokens TokenProvider, revocations RevocationStore, logger *slog.Logger) *Service {
	return &Service{
		passwordHash: passwordHash,
		tokens:       tokens,
		revocations:  revocations,
		logger:       logger,
		now:          time.Now,
	}
}

/*
Login checks the admin password and issues a token.

Returns:
  - *Session: The signed token and its expiry
  - error: UNAUTHORIZED on a wrong password
*/
func (service *Service) Login(ctx context.Context, password string) (*Session, error) {
	if password == "" || !sec.CheckPasswordHash(password, service.passwordHash) {
		service.logger.WarnContext(ctx, "auth_login_failed")
		return nil, apperr.Unauthorized("Invalid credentials")
	}

	expiresAt := service.now().Add(constants.AccessTokenTTL)
	token, err := service.tokens.GenerateAccessToken(constants.AdminSubject, sec.RoleAdmin, constants.AccessTokenTTL)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth: issue token: %w", err))
	}

	service.logger.InfoContext(ctx, "auth_login_succeeded")
	return &Session{AccessToken: token, TokenType: "Bearer", ExpiresAt: expiresAt}, nil
}

// Logout revokes the token described by claims for the rest of its lifetime.
func (service *Service) Logout(ctx context.Context, claims *sec.AuthClaims) error {
	if claims == nil || claims.ID == "" {
		return apperr.Unauthorized("Authentication required")
	}

	ttl := constants.AccessTokenTTL
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Sub(service.now())
	}

	if err := service.revocations.Revoke(ctx, claims.ID, ttl); err != nil {
		return apperr.ServiceUnavailable("Could not revoke the session").WithCause(err)
	}

	service.logger.InfoContext(ctx, "auth_logout", slog.String("jti", claims.ID))
	return nil
}

/*
VerifyToken validates a bearer token and checks that it was not revoked.

It satisfies middleware.TokenVerifier. A revocation store outage is reported
as SERVICE_UNAVAILABLE rather than letting the token through.
*/
func (service *Service) VerifyToken(ctx context.Context, token string) (*sec.AuthClaims, error) {
	claims, err := service.tokens.VerifyToken(token)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired token").WithCause(err)
	}

	revoked, err := service.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		service.logger.ErrorContext(ctx, "auth_revocation_check_failed", slog.Any("error", err))
		return nil, apperr.ServiceUnavailable("Could not verify the session").WithCause(err)
	}
	if revoked {
		return nil, apperr.Unauthorized("Session has been revoked")
	}
	return claims, nil
}
