package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"bulkpickup_app/internal/models"
	"bulkpickup_app/internal/services"
	"bulkpickup_app/internal/validation"
)

// BusinessStore is the part of services.BusinessService the API needs
type BusinessStore interface {
	Search(ctx context.Context, q services.SearchQuery) (services.SearchResult, error)
	Get(ctx context.Context, id uint) (*models.Business, error)
	ProfileFor(ctx context.Context, userID string) (*models.Business, error)
	UpsertProfile(ctx context.Context, userID string, in services.ProfileInput) (*models.Business, bool, error)
	AddReview(ctx context.Context, review *models.BusinessReview) error
	Reviews(ctx context.Context, businessID uint, page, limit int) (*services.ReviewPage, error)
}

type BusinessHandler struct {
	businesses BusinessStore
	validator  *validation.Validator
	// ownerID owns the vendor profile; reviewerID writes reviews
	ownerID    string
	reviewerID string
}

func NewBusinessHandler(businesses BusinessStore, validator *validation.Validator, ownerID, reviewerID string) *BusinessHandler {
	return &BusinessHandler{businesses: businesses, validator: validator, ownerID: ownerID, reviewerID: reviewerID}
}

const (
	codeBusinessNotFound = "BUSINESS_NOT_FOUND"
	msgBusinessNotFound  = "Business not found"
)

// Search lists businesses filtered by category and rating
func (h *BusinessHandler) Search(c echo.Context) error {
	q := services.SearchQuery{
		ServiceCategory: c.QueryParam("serviceCategory"),
		SortBy:          c.QueryParam("sortBy"),
		Page:            intQuery(c, "page", 1),
		Limit:           intQuery(c, "limit", 10),
	}
	if raw := c.QueryParam("minRating"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			q.MinRating = v
		}
	}

	result, err := h.businesses.Search(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, result, "")
}

func (h *BusinessHandler) Get(c echo.Context) error {
	id, err := idParam(c, "id", codeBusinessNotFound, msgBusinessNotFound)
	if err != nil {
		return err
	}
	business, err := h.businesses.Get(c.Request().Context(), id)
	if err != nil {
		return serviceError(err, codeBusinessNotFound, msgBusinessNotFound, nil)
	}
	return ok(c, http.StatusOK, business, "")
}

type profileRequest struct {
	Name               string                   `json:"businessName"`
	Type               string                   `json:"businessType"`
	Description        string                   `json:"description"`
	WebsiteURL         string                   `json:"websiteUrl"`
	Phone              string                   `json:"phone"`
	Email              string                   `json:"email"`
	LicenseNumber      string                   `json:"licenseNumber"`
	ServiceRadiusMiles int                      `json:"serviceRadiusMiles"`
	Services           []models.BusinessService `json:"services"`
}

// UpsertProfile creates or updates the vendor's own business
func (h *BusinessHandler) UpsertProfile(c echo.Context) error {
	var req profileRequest
	if err := h.validator.Decode("profile_upsert", c.Request().Body, &req); err != nil {
		return err
	}
	for i := range req.Services {
		req.Services[i].Category = services.NormalizeCategory(req.Services[i].Category)
	}

	business, created, err := h.businesses.UpsertProfile(c.Request().Context(), h.ownerID, services.ProfileInput{
		Name:               req.Name,
		Type:               req.Type,
		Description:        req.Description,
		WebsiteURL:         req.WebsiteURL,
		Phone:              req.Phone,
		Email:              req.Email,
		LicenseNumber:      req.LicenseNumber,
		ServiceRadiusMiles: req.ServiceRadiusMiles,
		Services:           req.Services,
	})
	if err != nil {
		return err
	}

	status, message := http.StatusOK, "Business profile updated successfully"
	if created {
		status, message = http.StatusCreated, "Business profile created successfully"
	}
	return ok(c, status, map[string]any{"business": business}, message)
}

func (h *BusinessHandler) Profile(c echo.Context) error {
	business, err := h.businesses.ProfileFor(c.Request().Context(), h.ownerID)
	if err != nil {
		return serviceError(err, codeBusinessNotFound, "Business profile not found", nil)
	}
	return ok(c, http.StatusOK, map[string]any{"business": business}, "")
}

type reviewRequest struct {
	Rating    int    `json:"rating"`
	Title     string `json:"reviewTitle"`
	Text      string `json:"reviewText"`
	BookingID *uint  `json:"bookingId"`
	IsPublic  *bool  `json:"isPublic"`
}

// CreateReview adds a 1 to 5 star review and refreshes the average
func (h *BusinessHandler) CreateReview(c echo.Context) error {
	id, err := idParam(c, "id", codeBusinessNotFound, msgBusinessNotFound)
	if err != nil {
		return err
	}
	var req reviewRequest
	if err := h.validator.Decode("review_create", c.Request().Body, &req); err != nil {
		return err
	}
	if req.Rating < 1 || req.Rating > 5 {
		return badRequest("INVALID_RATING", "Rating must be between 1 and 5")
	}

	review := &models.BusinessReview{
		BusinessID:     id,
		ReviewerUserID: h.reviewerID,
		BookingID:      req.BookingID,
		Rating:         req.Rating,
		Title:          req.Title,
		Text:           req.Text,
		IsPublic:       req.IsPublic == nil || *req.IsPublic,
	}
	if err := h.businesses.AddReview(c.Request().Context(), review); err != nil {
		return serviceError(err, codeBusinessNotFound, msgBusinessNotFound, nil)
	}
	return ok(c, http.StatusCreated, map[string]any{"review": review}, "Review created successfully")
}

func (h *BusinessHandler) Reviews(c echo.Context) error {
	id, err := idParam(c, "id", codeBusinessNotFound, msgBusinessNotFound)
	if err != nil {
		return err
	}
	page, err := h.businesses.Reviews(c.Request().Context(), id, intQuery(c, "page", 1), intQuery(c, "limit", 10))
	if err != nil {
		return serviceError(err, codeBusinessNotFound, msgBusinessNotFound, nil)
	}
	return ok(c, http.StatusOK, page, "")
}
