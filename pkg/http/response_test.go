package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "toolrent/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError_UsesAppErrorStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"conflict", apperrors.Conflict("dates already booked"), http.StatusConflict, apperrors.CodeConflict},
		{"validation", apperrors.Validation("bad", nil), http.StatusUnprocessableEntity, apperrors.CodeValidation},
		{"forbidden", apperrors.Forbidden("no"), http.StatusForbidden, apperrors.CodeForbidden},
		{"plain error", errors.New("secret db detail"), http.StatusInternalServerError, apperrors.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			require.NoError(t, WriteError(rec, tt.err))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Code)
			assert.NotContains(t, rec.Body.String(), "secret db detail")
		})
	}
}

func TestWritePaginated(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WritePaginated(rec, []string{"a"}, 7, 10, 5))

	var body PaginatedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(7), body.TotalCount)
	assert.Equal(t, 10, body.Limit)
	assert.Equal(t, int64(5), body.Offset)
}

func TestExtractLimitOffset(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings?limit=500&offset=-3", nil)
	limit, offset, err := ExtractLimitOffset(req)
	require.NoError(t, err)
	assert.Equal(t, 100, limit)
	assert.Equal(t, int64(0), offset)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/bookings?limit=abc", nil)
	_, _, err = ExtractLimitOffset(req)
	assert.Error(t, err)
}
