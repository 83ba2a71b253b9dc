package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bulkpickup_app/internal/handlers"
	"bulkpickup_app/internal/validation"
)

func serveError(t *testing.T, path string, err error) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	CustomErrorHandler(err, e.NewContext(req, rec))
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) handlers.Envelope {
	t.Helper()
	var env handlers.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestAPIErrorsRenderEnvelope(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"api error", handlers.NewAPIError(http.StatusNotFound, "BOOKING_NOT_FOUND", "Booking not found"), http.StatusNotFound, "BOOKING_NOT_FOUND"},
		{"validation", &validation.Error{Code: validation.CodeMissingField, Field: "rating", Message: "Field rating is required"}, http.StatusBadRequest, "MISSING_FIELD"},
		{"unknown route", echo.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"wrong method", echo.ErrMethodNotAllowed, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED"},
		{"unexpected", errors.New("db down"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serveError(t, "/api/bookings/9", tt.err)
			assert.Equal(t, tt.status, rec.Code)

			env := decodeEnvelope(t, rec)
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
			assert.NotEmpty(t, env.Timestamp)
			assert.NotContains(t, rec.Body.String(), "db down")
		})
	}
}

func TestPageErrorsRenderErrorPage(t *testing.T) {
	rec := serveError(t, "/missing", echo.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/html")
	assert.Contains(t, rec.Body.String(), "Page Not Found")

	rec = serveError(t, "/", errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Something went wrong")
	assert.NotContains(t, rec.Body.String(), "boom")
}
