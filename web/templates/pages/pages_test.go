package pages

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bulkpickup_app/internal/catalog"
	"bulkpickup_app/web/templates/shared"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestHomepage(t *testing.T) {
	html := renderString(t, Homepage(HomepageProps{Roles: DefaultRoleCards(), Features: DefaultFeatures()}))

	assert.Contains(t, html, `data-screen="homepage"`)
	assert.Contains(t, html, "Never Miss Your")
	assert.Contains(t, html, `action="/nav/sign-in"`)
	for _, role := range []string{"residential", "professional", "vendor"} {
		assert.Contains(t, html, `action="/nav/roles/`+role+`"`)
	}
	assert.Contains(t, html, "Get Started Free")
	assert.Contains(t, html, "Nationwide Coverage")
	assert.Contains(t, html, "2025 BulkPickup Pro. Powered by AI technology.")
}

func TestResidentialDashboard(t *testing.T) {
	props := ResidentialProps{
		Dashboard: Dashboard{Layout: Layout{Title: "Residential Dashboard", Breadcrumbs: shared.Trail("Residential Dashboard")}, SearchAddress: "12 Elm <St>"},
		Pickups: []catalog.PickupSchedule{
			{ID: 1, Type: "Bulk Pickup", Date: time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC), Zone: "Zone A", Status: "scheduled"},
		},
		Providers: []catalog.ServiceProviderListing{
			{ID: 1, Name: "Green Cleanup Services", Rating: 4.8, RatingCount: 127, DistanceKm: 2.3, Services: []string{"Junk Removal", "Yard Cleanup"}, PriceRange: "$$"},
		},
	}
	html := renderString(t, ResidentialDashboard(props))

	assert.Contains(t, html, `data-screen="residential_dashboard"`)
	assert.Contains(t, html, `action="/nav/back"`)
	assert.Contains(t, html, `action="/nav/search"`)
	assert.Contains(t, html, `placeholder="Enter your address"`)
	assert.Contains(t, html, "12 Elm &lt;St&gt;")
	assert.NotContains(t, html, "<St>")
	assert.Contains(t, html, "Wednesday, Oct 15")
	assert.Contains(t, html, "Junk Removal, Yard Cleanup")
	assert.Contains(t, html, "Upgrade to Professional")
}

func TestProfessionalDashboard(t *testing.T) {
	props := ProfessionalProps{
		Properties:        []catalog.MonitoredProperty{{Address: "123 Main St, Springfield, IL", NextPickup: time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)}},
		Stats:             catalog.PortfolioStats{PropertiesMonitored: 12, PickupSuccessRate: 98},
		PortfolioChartURL: "/portal/professional/portfolio.png",
	}
	html := renderString(t, ProfessionalDashboard(props))

	assert.Contains(t, html, "Pro Plan")
	assert.Contains(t, html, "Search any address in the US...")
	assert.Contains(t, html, "Next pickup: Oct 15, 2025")
	assert.Contains(t, html, "98%")
	assert.Contains(t, html, `src="/portal/professional/portfolio.png"`)
}

func TestVendorDashboard(t *testing.T) {
	props := VendorProps{
		Metrics:             []catalog.VendorMetric{{Label: "Monthly Revenue", Value: "$4,250", Tone: "green"}},
		ServiceAreas:        []catalog.ServiceArea{{Name: "Springfield, IL", ZipRange: "62701-62708", ActiveLeads: 23, Revenue: 1850}},
		Leads:               []catalog.Lead{{Name: "Sarah Johnson", Service: "Furniture removal", Location: "Springfield, IL"}},
		Performance:         []catalog.LocationPerformance{{Location: "Springfield, IL", Leads: 23, Percent: 85}},
		PerformanceChartURL: "/portal/vendor/performance.html",
	}
	html := renderString(t, VendorDashboard(props))

	assert.Contains(t, html, "Business Plan")
	assert.Contains(t, html, "Springfield, IL (62701-62708)")
	assert.Contains(t, html, "23 active leads &bull; $1,850 revenue")
	assert.Contains(t, html, "Furniture removal &bull; Springfield, IL")
	assert.Contains(t, html, "23 leads")
	assert.Contains(t, html, `src="/portal/vendor/performance.html"`)
}

func TestErrorPage(t *testing.T) {
	html := renderString(t, ErrorPage(ErrorPageProps{
		Layout:  Layout{Title: "Page Not Found", Breadcrumbs: shared.Trail("Error")},
		Code:    404,
		Heading: "Page Not Found",
		Message: "The page you're looking for doesn't exist.",
	}))
	assert.Contains(t, html, "404")
	assert.Contains(t, html, "Page Not Found")
	assert.Contains(t, html, `<a href="/">Home</a>`)
}

func TestMoney(t *testing.T) {
	tests := map[int]string{0: "$0", 950: "$950", 1850: "$1,850", 1234567: "$1,234,567", -2400: "-$2,400"}
	for in, want := range tests {
		assert.Equal(t, want, Money(in))
	}
}
