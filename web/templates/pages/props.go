package pages

import (
	"bulkpickup_app/internal/catalog"
	"bulkpickup_app/web/templates/shared"
)

// Layout is the data every page shares with the base layout
type Layout struct {
	Title       string
	ActiveNav   string
	Screen      string
	BodyClass   string
	Breadcrumbs []shared.Breadcrumb
}

// RoleCard is one persona card on the homepage
type RoleCard struct {
	Role         string
	Icon         string
	Title        string
	Description  string
	CallToAction string
}

// Feature is one tile in the homepage feature strip
type Feature struct {
	Icon  string
	Title string
	Text  string
}

type HomepageProps struct {
	Layout
	Roles    []RoleCard
	Features []Feature
}

// Dashboard carries the header and address search shared by the three
// role dashboards
type Dashboard struct {
	Layout
	Badge             string
	BadgeTone         string
	SearchAddress     string
	SearchPlaceholder string
}

type ResidentialProps struct {
	Dashboard
	Pickups   []catalog.PickupSchedule
	Providers []catalog.ServiceProviderListing
}

type ProfessionalProps struct {
	Dashboard
	Properties        []catalog.MonitoredProperty
	Stats             catalog.PortfolioStats
	PortfolioChartURL string
}

type VendorProps struct {
	Dashboard
	Metrics             []catalog.VendorMetric
	ServiceAreas        []catalog.ServiceArea
	Leads               []catalog.Lead
	Performance         []catalog.LocationPerformance
	PerformanceChartURL string
}

type ErrorPageProps struct {
	Layout
	Code    int
	Heading string
	Message string
}

// DefaultRoleCards is the homepage persona grid in display order
func DefaultRoleCards() []RoleCard {
	return []RoleCard{
		{
			Role:         "residential",
			Icon:         "home",
			Title:        "Residential User",
			Description:  "Find pickup schedules for your address and connect with local service providers",
			CallToAction: "Get Started Free",
		},
		{
			Role:         "professional",
			Icon:         "building",
			Title:        "Professional User",
			Description:  "Nationwide search capabilities and advanced monitoring for multiple properties",
			CallToAction: "Start Pro Trial",
		},
		{
			Role:         "vendor",
			Icon:         "truck",
			Title:        "Service Provider",
			Description:  "Grow your business with CRM, analytics, and nationwide lead generation",
			CallToAction: "Join Network",
		},
	}
}

func DefaultFeatures() []Feature {
	return []Feature{
		{Icon: "calendar", Title: "Smart Scheduling", Text: "AI-powered pickup predictions and alerts"},
		{Icon: "globe", Title: "Nationwide Coverage", Text: "Access schedules across all US municipalities"},
		{Icon: "users", Title: "Service Network", Text: "Connect with verified service providers"},
		{Icon: "chart", Title: "Business Analytics", Text: "Performance tracking and insights"},
	}
}
