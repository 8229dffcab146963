// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/folio/internal/api"
	"github.com/taibuivan/folio/internal/auth"
	"github.com/taibuivan/folio/internal/core/article"
	"github.com/taibuivan/folio/internal/core/label"
	"github.com/taibuivan/folio/internal/core/project"
	"github.com/taibuivan/folio/internal/platform/config"
	"github.com/taibuivan/folio/internal/platform/constants"
	"github.com/taibuivan/folio/internal/platform/sec"
	"github.com/taibuivan/folio/internal/platform/sqlite"
)

const adminPassword = "correct horse battery staple"

var discardLogger = slog.New(slog.DiscardHandler)

// newTestServer assembles the full stack on SQLite the way cmd/api does.
func newTestServer(t *testing.T, deps api.HealthDependencies) http.Handler {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "folio.db"), discardLogger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	hash, err := sec.HashPassword(adminPassword)
	require.NoError(t, err)

	authService := auth.NewService(hash, sec.NewTokenServiceFromKey(key, constants.AuthIssuer), auth.NewMemoryRevocationStore(), discardLogger)
	labelService := label.NewService(label.NewSQLiteRepository(db), label.NewSQLiteContentRepository(db), nil, discardLogger)
	labelHandler := label.NewHandler(labelService)

	liveness, readiness := api.NewHealthHandlers(deps, discardLogger)
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(authService),
		Labels:    labelHandler,
		Articles:  article.NewHandler(article.NewService(article.NewSQLiteRepository(db), labelService, discardLogger), labelHandler),
		Projects:  project.NewHandler(project.NewService(project.NewSQLiteRepository(db), labelService, discardLogger), labelHandler),
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cfg := &config.Config{Environment: "test"}
	return api.NewRouter(ctx, cfg, discardLogger, authService, handlers)
}

func do(t *testing.T, handler http.Handler, method, path, bearer, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	request := httptest.NewRequest(method, path, reader)
	if bearer != "" {
		request.Header.Set("Authorization", "Bearer "+bearer)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func decodeData[T any](t *testing.T, recorder *httptest.ResponseRecorder) T {
	t.Helper()

	var envelope struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&envelope))
	return envelope.Data
}

func login(t *testing.T, handler http.Handler) string {
	t.Helper()

	recorder := do(t, handler, http.MethodPost, "/api/v1/auth/login", "", `{"password":"`+adminPassword+`"}`)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	return decodeData[auth.Session](t, recorder).AccessToken
}

func TestServer_TaggingFlow(t *testing.T) {
	server := newTestServer(t, api.HealthDependencies{})
	token := login(t, server)

	recorder := do(t, server, http.MethodPost, "/api/v1/articles", token,
		`{"title":"First Post","content":"<p>hello</p>","tags":["Go"],"categories":["Notes"],"published":true}`)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
	created := decodeData[article.Article](t, recorder)

	recorder = do(t, server, http.MethodPut, "/api/v1/articles/"+created.ID+"/tags", token, `{"names":["go","Web Dev"]}`)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	tagged := decodeData[[]label.Label](t, recorder)
	require.Len(t, tagged, 2)
	assert.Equal(t, "Go", tagged[0].Name, "the first spelling stays canonical")
	assert.Equal(t, "web-dev", tagged[1].Slug)

	recorder = do(t, server, http.MethodGet, "/api/v1/articles/"+created.ID+"/tags", "", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Len(t, decodeData[[]label.Label](t, recorder), 2)

	recorder = do(t, server, http.MethodGet, "/api/v1/tags", "", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	names := make([]string, 0)
	for _, item := range decodeData[[]label.Label](t, recorder) {
		names = append(names, item.Name)
	}
	assert.ElementsMatch(t, []string{"Go", "Web Dev"}, names)

	recorder = do(t, server, http.MethodGet, "/api/v1/categories/by-slug/notes", "", "")
	assert.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
}

func TestServer_AccessControl(t *testing.T) {
	server := newTestServer(t, api.HealthDependencies{})

	recorder := do(t, server, http.MethodPut, "/api/v1/articles/whatever/tags", "", `{"names":["go"]}`)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = do(t, server, http.MethodGet, "/api/v1/tags", "not-a-jwt", "")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	token := login(t, server)
	recorder = do(t, server, http.MethodPut, "/api/v1/projects/missing/labels", token, `{"names":["go"]}`)
	assert.Equal(t, http.StatusNotFound, recorder.Code, "unknown namespaces are not routable")

	recorder = do(t, server, http.MethodGet, "/api/v1/nowhere", "", "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "NOT_FOUND")
}

func TestServer_Health(t *testing.T) {
	healthy := newTestServer(t, api.HealthDependencies{
		DatabaseName:  "sqlite",
		CheckDatabase: func(context.Context) error { return nil },
	})

	recorder := do(t, healthy, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, constants.AppName, decodeData[map[string]string](t, recorder)[constants.FieldApp])

	recorder = do(t, healthy, http.MethodGet, "/ready", "", "")
	assert.Equal(t, http.StatusOK, recorder.Code)

	degraded := newTestServer(t, api.HealthDependencies{
		DatabaseName:  "sqlite",
		CheckDatabase: func(context.Context) error { return nil },
		CheckCache:    func(context.Context) error { return errors.New("dial tcp: connection refused") },
	})

	recorder = do(t, degraded, http.MethodGet, "/ready", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)

	body := decodeData[struct {
		Status string `json:"status"`
		Checks []struct {
			Name string `json:"name"`
			OK   bool   `json:"ok"`
		} `json:"checks"`
	}](t, recorder)
	assert.Equal(t, "degraded", body.Status)
	require.Len(t, body.Checks, 2)
	assert.True(t, body.Checks[0].OK)
	assert.Equal(t, "redis", body.Checks[1].Name)
	assert.False(t, body.Checks[1].OK)
}
