// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package label_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/folio/internal/core/label"
	"github.com/taibuivan/folio/internal/platform/ctxutil"
	"github.com/taibuivan/folio/internal/platform/sec"
)

// asRole injects claims the way the Authenticate middleware would.
func asRole(role sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := &sec.AuthClaims{Role: role}
			claims.Subject = "admin"
			next.ServeHTTP(writer, request.WithContext(ctxutil.WithAuthUser(request.Context(), claims)))
		})
	}
}

func newTestRouter(service *label.Service, role sec.UserRole) chi.Router {
	handler := label.NewHandler(service)

	router := chi.NewRouter()
	if role != "" {
		router.Use(asRole(role))
	}
	router.Mount("/tags", handler.Routes(label.NamespaceTag))
	router.Mount("/categories", handler.Routes(label.NamespaceCategory))
	router.Get("/articles/{id}/{namespace}", handler.ContentLabels(label.KindArticle))
	router.With(asRole(sec.RoleAdmin)).Put("/articles/{id}/{namespace}", handler.TagContent(label.KindArticle))
	return router
}

func decodeData[T any](t *testing.T, recorder *httptest.ResponseRecorder) T {
	t.Helper()

	var envelope struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&envelope))
	return envelope.Data
}

// labelDetailView mirrors the by-slug payload.
type labelDetailView struct {
	Name  string                 `json:"name"`
	Items []label.ContentSummary `json:"items"`
}

func TestHandler_TagAndRead(t *testing.T) {
	service, db := newSQLiteService(t, nil)
	seedArticle(t, db, articleSeed{ID: "a1", Title: "Hello", Slug: "hello", Published: true})
	router := newTestRouter(service, "")

	request := httptest.NewRequest(http.MethodPut, "/articles/a1/tags", strings.NewReader(`{"names":["Go","rust","GO"]}`))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	tagged := decodeData[[]label.Label](t, recorder)
	require.Len(t, tagged, 2)
	assert.Equal(t, "Go", tagged[0].Name)
	assert.Equal(t, "rust", tagged[1].Slug)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/articles/a1/tags", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	embedded := decodeData[[]label.Label](t, recorder)
	require.Len(t, embedded, 2)
	assert.True(t, embedded[0].Derived)
	assert.Equal(t, "go", embedded[0].ID)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/tags/by-slug/go", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	detail := decodeData[labelDetailView](t, recorder)
	assert.Equal(t, "Go", detail.Name)
	require.Len(t, detail.Items, 1)
	assert.Equal(t, "a1", detail.Items[0].ID)
}

func TestHandler_Errors(t *testing.T) {
	service, db := newSQLiteService(t, nil)
	seedArticle(t, db, articleSeed{ID: "a1", Title: "Hello", Slug: "hello"})

	tests := []struct {
		name   string
		role   sec.UserRole
		method string
		path   string
		body   string
		want   int
	}{
		{"empty_slug_name", "", http.MethodPut, "/articles/a1/tags", `{"names":["***"]}`, http.StatusBadRequest},
		{"unknown_field", "", http.MethodPut, "/articles/a1/tags", `{"tags":["Go"]}`, http.StatusBadRequest},
		{"unknown_namespace", "", http.MethodPut, "/articles/a1/authors", `{"names":["Go"]}`, http.StatusNotFound},
		{"missing_article", "", http.MethodPut, "/articles/zz/tags", `{"names":["Go"]}`, http.StatusNotFound},
		{"unknown_label", "", http.MethodGet, "/categories/nope", "", http.StatusNotFound},
		{"patch_anonymous", "", http.MethodPatch, "/tags/x", `{"featured":true}`, http.StatusUnauthorized},
		{"patch_guest", sec.RoleGuest, http.MethodPatch, "/tags/x", `{"featured":true}`, http.StatusForbidden},
		{"patch_admin_missing", sec.RoleAdmin, http.MethodPatch, "/tags/x", `{"featured":true}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(service, tt.role)

			request := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, request)

			assert.Equal(t, tt.want, recorder.Code, recorder.Body.String())
		})
	}
}

func TestHandler_List(t *testing.T) {
	service, db := newSQLiteService(t, nil)
	seedArticle(t, db, articleSeed{ID: "a1", Title: "Hello", Slug: "hello", Categories: `["Essays"]`})
	router := newTestRouter(service, "")

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/categories", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	listed := decodeData[[]label.Label](t, recorder)
	require.Len(t, listed, 1)
	assert.Equal(t, "Essays", listed[0].Name)
	assert.True(t, listed[0].Derived)
}
