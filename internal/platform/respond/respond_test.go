// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package respond_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/ctxutil"
	"github.com/taibuivan/folio/internal/platform/respond"
	"github.com/taibuivan/folio/pkg/pagination"
)

/*
TestError renders application and plain errors into the error envelope.
*/
func TestError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"not_found", apperr.NotFound("Tag"), http.StatusNotFound, apperr.CodeNotFound, "Tag not found"},
		{"validation", apperr.ValidationError("Validation failed", apperr.FieldError{Field: "name"}), http.StatusBadRequest, apperr.CodeValidation, "Validation failed"},
		{"plain_error_hidden", errors.New("pq: relation does not exist"), http.StatusInternalServerError, apperr.CodeInternal, "An unexpected error occurred"},
		{"unavailable", apperr.ServiceUnavailable("Storage did not respond in time"), http.StatusServiceUnavailable, apperr.CodeServiceUnavailable, "Storage did not respond in time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			request = request.WithContext(ctxutil.WithRequestID(request.Context(), "req-1"))
			recorder := httptest.NewRecorder()

			respond.Error(recorder, request, tt.err)

			assert.Equal(t, tt.wantStatus, recorder.Code)

			var body respond.ErrorEnvelope
			require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Equal(t, tt.wantMsg, body.Error)
			assert.Equal(t, "req-1", body.RequestID)
		})
	}
}

func TestError_RetryAfterOnUnavailable(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.Error(recorder, httptest.NewRequest(http.MethodGet, "/", nil), apperr.ServiceUnavailable("later"))
	assert.NotEmpty(t, recorder.Header().Get("Retry-After"))
}

func TestPaginated(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.Paginated(recorder, []string{"a"}, pagination.NewMeta(pagination.Params{Page: 1, Limit: 10}, 11))

	var body struct {
		Data []string        `json:"data"`
		Meta pagination.Meta `json:"meta"`
	}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
	assert.Equal(t, []string{"a"}, body.Data)
	assert.Equal(t, 2, body.Meta.TotalPages)
	assert.True(t, body.Meta.HasNext)
}
