package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bulkpickup_app/internal/catalog"
	"bulkpickup_app/internal/navigation"
	"bulkpickup_app/internal/session"
)

const testSessionID = "7c1c2d6e-0d7e-4b43-9a43-2d7e3f0b9a11"

func newPortal(t *testing.T) (*echo.Echo, *session.MemoryStore) {
	t.Helper()
	store := session.NewMemoryStore(time.Hour)
	h := NewPortalHandler(store, catalog.MustDefault(), "")

	e := echo.New()
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(session.ContextKey, testSessionID)
			return next(c)
		}
	})
	RegisterPortal(e, h)
	return e, store
}

func post(t *testing.T, e *echo.Echo, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, e *echo.Echo, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func screenOf(t *testing.T, e *echo.Echo) string {
	t.Helper()
	rec := get(t, e, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	i := strings.Index(body, `data-screen="`)
	require.GreaterOrEqual(t, i, 0)
	rest := body[i+len(`data-screen="`):]
	return rest[:strings.Index(rest, `"`)]
}

func TestPortalStartsOnHomepage(t *testing.T) {
	e, _ := newPortal(t)
	rec := get(t, e, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get(echo.HeaderCacheControl))
	assert.Equal(t, "homepage", screenOf(t, e))
}

func TestPortalActionsRedirect(t *testing.T) {
	e, _ := newPortal(t)
	for _, path := range []string{"/nav/sign-in", "/nav/roles/vendor", "/nav/back", "/nav/search"} {
		rec := post(t, e, path, nil)
		assert.Equal(t, http.StatusSeeOther, rec.Code, path)
		assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation), path)
	}
}

func TestPortalRoleSelectionAndBack(t *testing.T) {
	tests := []struct {
		role   string
		screen string
		title  string
	}{
		{"residential", "residential_dashboard", "Residential Dashboard"},
		{"professional", "professional_dashboard", "Professional Dashboard"},
		{"vendor", "vendor_dashboard", "Vendor Dashboard"},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			e, store := newPortal(t)
			post(t, e, "/nav/roles/"+tt.role, nil)
			assert.Equal(t, tt.screen, screenOf(t, e))
			assert.Contains(t, get(t, e, "/").Body.String(), tt.title)

			post(t, e, "/nav/back", nil)
			assert.Equal(t, "homepage", screenOf(t, e))

			state, err := store.Load(context.Background(), testSessionID)
			require.NoError(t, err)
			assert.Equal(t, navigation.ViewHomepage, state.View)
		})
	}
}

func TestPortalSignInFallsBackToHomepage(t *testing.T) {
	e, store := newPortal(t)
	post(t, e, "/nav/sign-in", nil)

	state, err := store.Load(context.Background(), testSessionID)
	require.NoError(t, err)
	assert.Equal(t, navigation.ViewPortal, state.View)
	assert.Equal(t, "homepage", screenOf(t, e))
}

func TestPortalUnknownRoleIsNotAnError(t *testing.T) {
	e, store := newPortal(t)
	rec := post(t, e, "/nav/roles/admin", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	state, err := store.Load(context.Background(), testSessionID)
	require.NoError(t, err)
	assert.Equal(t, navigation.RoleUnset, state.Role)
	assert.Equal(t, "homepage", screenOf(t, e))
}

func TestPortalSearchAddressSurvivesNavigation(t *testing.T) {
	e, _ := newPortal(t)
	post(t, e, "/nav/roles/residential", nil)
	post(t, e, "/nav/search", url.Values{"address": {"742 Evergreen Terrace 62704"}})

	body := get(t, e, "/").Body.String()
	assert.Contains(t, body, `value="742 Evergreen Terrace 62704"`)

	post(t, e, "/nav/back", nil)
	post(t, e, "/nav/roles/professional", nil)
	assert.Contains(t, get(t, e, "/").Body.String(), `value="742 Evergreen Terrace 62704"`)
}

func TestPortalCharts(t *testing.T) {
	e, _ := newPortal(t)

	rec := get(t, e, "/portal/professional/portfolio.png")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "\x89PNG"))

	rec = get(t, e, "/portal/vendor/performance.html")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Performance by Location")
}

func TestHealthz(t *testing.T) {
	e, _ := newPortal(t)
	rec := get(t, e, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
