// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/folio/internal/auth"
	"github.com/taibuivan/folio/internal/platform/middleware"
)

func TestHandler_LoginLogout(t *testing.T) {
	service := newAuthService(t, auth.NewMemoryRevocationStore())

	router := chi.NewRouter()
	router.Use(middleware.Authenticate(service))
	router.Mount("/auth", auth.NewHandler(service).Routes(nil))

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"password":"nope"}`)))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"password":"`+adminPassword+`"}`)))
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var envelope struct {
		Data auth.Session `json:"data"`
	}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&envelope))
	bearer := "Bearer " + envelope.Data.AccessToken

	logout := func() int {
		request := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
		request.Header.Set("Authorization", bearer)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)
		return recorder.Code
	}

	assert.Equal(t, http.StatusNoContent, logout())
	assert.Equal(t, http.StatusUnauthorized, logout(), "a revoked token is rejected")

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestHandler_LoginValidation(t *testing.T) {
	service := newAuthService(t, auth.NewMemoryRevocationStore())
	router := auth.NewHandler(service).Routes(nil)

	for name, body := range map[string]string{"empty": `{}`, "unknown_field": `{"user":"x"}`, "not_json": `nope`} {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, recorder.Code, name)
	}
}
