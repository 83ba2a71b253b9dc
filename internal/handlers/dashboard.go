package handlers

import (
	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"bulkpickup_app/internal/catalog"
	"bulkpickup_app/internal/navigation"
	"bulkpickup_app/web/templates/pages"
	"bulkpickup_app/web/templates/shared"
)

const (
	portfolioChartPath   = "/portal/professional/portfolio.png"
	performanceChartPath = "/portal/vendor/performance.html"
)

// DashboardHandler builds the page for each resolved screen from the
// catalogue content
type DashboardHandler struct {
	catalog *catalog.Catalog
}

func NewDashboardHandler(cat *catalog.Catalog) *DashboardHandler {
	return &DashboardHandler{catalog: cat}
}

// Screen returns the component rendering screen for state
func (h *DashboardHandler) Screen(screen navigation.Screen, state navigation.State) templ.Component {
	switch screen {
	case navigation.ScreenResidentialDashboard:
		return pages.ResidentialDashboard(h.residential(state))
	case navigation.ScreenProfessionalDashboard:
		return pages.ProfessionalDashboard(h.professional(state))
	case navigation.ScreenVendorDashboard:
		return pages.VendorDashboard(h.vendor(state))
	default:
		return pages.Homepage(pages.HomepageProps{
			Layout:   pages.Layout{ActiveNav: "home"},
			Roles:    pages.DefaultRoleCards(),
			Features: pages.DefaultFeatures(),
		})
	}
}

func dashboard(title, nav string, state navigation.State) pages.Dashboard {
	return pages.Dashboard{
		Layout: pages.Layout{
			Title:       title,
			ActiveNav:   nav,
			Breadcrumbs: shared.Trail(title),
		},
		SearchAddress: state.SearchAddress,
	}
}

func (h *DashboardHandler) residential(state navigation.State) pages.ResidentialProps {
	return pages.ResidentialProps{
		Dashboard: dashboard("Residential Dashboard", "residential", state),
		Pickups:   h.catalog.Pickups,
		Providers: h.catalog.Providers,
	}
}

func (h *DashboardHandler) professional(state navigation.State) pages.ProfessionalProps {
	return pages.ProfessionalProps{
		Dashboard:         dashboard("Professional Dashboard", "professional", state),
		Properties:        h.catalog.Professional.Properties,
		Stats:             h.catalog.Professional.Stats,
		PortfolioChartURL: portfolioChartPath,
	}
}

func (h *DashboardHandler) vendor(state navigation.State) pages.VendorProps {
	props := pages.VendorProps{
		Dashboard:    dashboard("Vendor Dashboard", "vendor", state),
		Metrics:      h.catalog.Vendor.Metrics,
		ServiceAreas: h.catalog.Vendor.ServiceAreas,
		Leads:        h.catalog.Vendor.Leads,
		Performance:  h.catalog.Vendor.Performance,
	}
	if len(props.Performance) > 0 {
		props.PerformanceChartURL = performanceChartPath
	}
	return props
}

// Helper to safely get string from context
func getStringFromContext(c echo.Context, key string) string {
	val := c.Get(key)
	if val == nil {
		return ""
	}
	strVal, ok := val.(string)
	if !ok {
		return ""
	}
	return strVal
}
