package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"bulkpickup_app/internal/catalog"
	"bulkpickup_app/internal/charts"
	"bulkpickup_app/internal/navigation"
	"bulkpickup_app/internal/session"
)

// PortalHandler serves the single-page portal. GET / renders whatever the
// session's state resolves to; every POST applies one navigation action and
// redirects back to /.
type PortalHandler struct {
	store      session.Store
	dashboards *DashboardHandler
	catalog    *catalog.Catalog
	assetsHost string
}

func NewPortalHandler(store session.Store, cat *catalog.Catalog, assetsHost string) *PortalHandler {
	return &PortalHandler{
		store:      store,
		dashboards: NewDashboardHandler(cat),
		catalog:    cat,
		assetsHost: assetsHost,
	}
}

func (h *PortalHandler) Index(c echo.Context) error {
	state, err := h.store.Load(c.Request().Context(), getStringFromContext(c, session.ContextKey))
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	screen := navigation.Resolve(state)
	if navigation.IsFallback(state) {
		c.Logger().Debugf("portal view without a role, rendering %s", screen)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return h.dashboards.Screen(screen, state).Render(c.Request().Context(), c.Response())
}

func (h *PortalHandler) SignIn(c echo.Context) error {
	return h.dispatch(c, navigation.SignIn())
}

// SelectRole never fails: an unknown role selects RoleUnset
func (h *PortalHandler) SelectRole(c echo.Context) error {
	return h.dispatch(c, navigation.SelectRole(navigation.ParseRole(c.Param("role"))))
}

func (h *PortalHandler) Back(c echo.Context) error {
	return h.dispatch(c, navigation.Back())
}

func (h *PortalHandler) Search(c echo.Context) error {
	return h.dispatch(c, navigation.SetSearchAddress(c.FormValue("address")))
}

func (h *PortalHandler) dispatch(c echo.Context, action navigation.Action) error {
	id := getStringFromContext(c, session.ContextKey)
	_, err := h.store.Update(c.Request().Context(), id, func(s navigation.State) navigation.State {
		return navigation.Reduce(s, action)
	})
	if err != nil {
		return fmt.Errorf("apply %s: %w", action.Kind, err)
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// PortfolioChart renders the professional pickup success rate as a PNG
func (h *PortalHandler) PortfolioChart(c echo.Context) error {
	var buf bytes.Buffer
	if err := charts.PortfolioPNG(&buf, h.catalog.Professional.Stats); err != nil {
		return fmt.Errorf("render portfolio chart: %w", err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "public, max-age=300")
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}

// PerformanceChart renders the vendor per-location chart page shown in the
// dashboard iframe
func (h *PortalHandler) PerformanceChart(c echo.Context) error {
	html, err := charts.VendorPerformance(h.catalog.Vendor.Performance, h.assetsHost)
	if errors.Is(err, charts.ErrNoData) {
		return echo.NewHTTPError(http.StatusNotFound, "No performance data yet.")
	}
	if err != nil {
		return fmt.Errorf("render performance chart: %w", err)
	}
	return c.HTML(http.StatusOK, html)
}

func Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
