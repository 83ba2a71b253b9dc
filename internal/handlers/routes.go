package handlers

import "github.com/labstack/echo/v4"

// RegisterPortal wires the server-rendered portal
func RegisterPortal(e *echo.Echo, portal *PortalHandler) {
	e.GET("/", portal.Index)
	e.POST("/nav/sign-in", portal.SignIn)
	e.POST("/nav/roles/:role", portal.SelectRole)
	e.POST("/nav/back", portal.Back)
	e.POST("/nav/search", portal.Search)
	e.GET("/portal/professional/portfolio.png", portal.PortfolioChart)
	e.GET("/portal/vendor/performance.html", portal.PerformanceChart)
	e.GET("/healthz", Healthz)
}

// RegisterAPI wires the JSON API under g, normally /api
func RegisterAPI(g *echo.Group, schedules *ScheduleHandler, businesses *BusinessHandler, bookings *BookingHandler) {
	g.GET("/schedules/lookup", schedules.Lookup)
	g.GET("/schedules/subscriptions", schedules.Subscriptions)
	g.POST("/schedules/subscriptions", schedules.Subscribe)
	g.DELETE("/schedules/subscriptions/:id", schedules.Unsubscribe)
	g.GET("/schedules/:id/events", schedules.Events)
	g.GET("/schedules", schedules.List)
	g.POST("/schedules", schedules.Create)

	g.GET("/businesses/search", businesses.Search)
	g.GET("/businesses/profile", businesses.Profile)
	g.POST("/businesses/profile", businesses.UpsertProfile)
	g.GET("/businesses/:id", businesses.Get)
	g.POST("/businesses/:id/reviews", businesses.CreateReview)
	g.GET("/businesses/:id/reviews", businesses.Reviews)

	g.POST("/bookings/requests", bookings.CreateRequest)
	g.POST("/bookings/requests/:id/quotes", bookings.SubmitQuote)
	g.GET("/bookings/requests/:id/quotes", bookings.Quotes)
	g.POST("/bookings/quotes/:id/accept", bookings.AcceptQuote)
	g.GET("/bookings/history", bookings.History)
	g.GET("/bookings/:id", bookings.Get)
	g.POST("/bookings/:id/start", bookings.Start)
	g.POST("/bookings/:id/cancel", bookings.Cancel)
	g.POST("/bookings/:id/complete", bookings.Complete)
}
