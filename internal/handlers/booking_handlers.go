package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"bulkpickup_app/internal/models"
	"bulkpickup_app/internal/services"
	"bulkpickup_app/internal/validation"
)

// BookingStore is the part of services.BookingService the API needs
type BookingStore interface {
	CreateRequest(ctx context.Context, req *models.ServiceRequest) error
	SubmitQuote(ctx context.Context, quote *models.ServiceQuote) error
	Quotes(ctx context.Context, requestID uint) ([]models.ServiceQuote, error)
	AcceptQuote(ctx context.Context, quoteID uint, in services.AcceptInput) (*models.Booking, error)
	History(ctx context.Context, userID, status string, limit, offset int) (*services.BookingPage, error)
	Get(ctx context.Context, userID string, id uint) (*models.Booking, error)
	Start(ctx context.Context, userID string, id uint) (*models.Booking, error)
	Cancel(ctx context.Context, userID string, id uint, reason string) (*models.Booking, error)
	Complete(ctx context.Context, userID string, id uint, in services.CompletionInput) (*models.Booking, error)
}

type BookingHandler struct {
	bookings  BookingStore
	validator *validation.Validator
	userID    string
}

func NewBookingHandler(bookings BookingStore, validator *validation.Validator, userID string) *BookingHandler {
	return &BookingHandler{bookings: bookings, validator: validator, userID: userID}
}

const (
	codeBookingNotFound = "BOOKING_NOT_FOUND"
	msgBookingNotFound  = "Booking not found"
	codeRequestNotFound = "REQUEST_NOT_FOUND"
	msgRequestNotFound  = "Service request not found"
)

var bookingTransitions = map[error]*APIError{
	services.ErrBookingNotConfirmed:   badRequest("BOOKING_NOT_CONFIRMED", "Only confirmed bookings can be started"),
	services.ErrBookingNotCancellable: badRequest("BOOKING_CANNOT_BE_CANCELLED", "Booking cannot be cancelled"),
	services.ErrBookingNotInProgress:  badRequest("BOOKING_NOT_IN_PROGRESS", "Only bookings in progress can be completed"),
}

type serviceRequestBody struct {
	AddressID           string   `json:"addressId"`
	ServiceCategory     string   `json:"serviceCategory"`
	Description         string   `json:"description"`
	PreferredDate       *string  `json:"preferredDate"`
	PreferredTimeStart  *string  `json:"preferredTimeStart"`
	PreferredTimeEnd    *string  `json:"preferredTimeEnd"`
	UrgencyLevel        string   `json:"urgencyLevel"`
	EstimatedBudget     *float64 `json:"estimatedBudget"`
	SpecialInstructions string   `json:"specialInstructions"`
	Photos              []string `json:"photos"`
}

// CreateRequest opens a service request that vendors can quote on
func (h *BookingHandler) CreateRequest(c echo.Context) error {
	var body serviceRequestBody
	if err := h.validator.Decode("request_create", c.Request().Body, &body); err != nil {
		return err
	}
	preferred, err := parseOptionalDate(deref(body.PreferredDate))
	if err != nil {
		return err
	}

	req := &models.ServiceRequest{
		CustomerUserID:      h.userID,
		AddressID:           body.AddressID,
		ServiceCategory:     services.NormalizeCategory(body.ServiceCategory),
		Description:         body.Description,
		PreferredDate:       preferred,
		PreferredTimeStart:  deref(body.PreferredTimeStart),
		PreferredTimeEnd:    deref(body.PreferredTimeEnd),
		UrgencyLevel:        body.UrgencyLevel,
		EstimatedBudget:     body.EstimatedBudget,
		SpecialInstructions: body.SpecialInstructions,
		Photos:              body.Photos,
	}
	if err := h.bookings.CreateRequest(c.Request().Context(), req); err != nil {
		return err
	}
	return ok(c, http.StatusCreated, map[string]any{"request": req}, "Service request created successfully")
}

type quoteBody struct {
	BusinessID        uint    `json:"businessId"`
	Amount            float64 `json:"amount"`
	Details           string  `json:"details"`
	EstimatedDuration string  `json:"estimatedDuration"`
	AdditionalFees    float64 `json:"additionalFees"`
}

// SubmitQuote records a vendor's price on an open request
func (h *BookingHandler) SubmitQuote(c echo.Context) error {
	requestID, err := idParam(c, "id", codeRequestNotFound, msgRequestNotFound)
	if err != nil {
		return err
	}
	var body quoteBody
	if err := h.validator.Decode("quote_create", c.Request().Body, &body); err != nil {
		return err
	}

	quote := &models.ServiceQuote{
		RequestID:         requestID,
		BusinessID:        body.BusinessID,
		Amount:            body.Amount,
		Details:           body.Details,
		EstimatedDuration: body.EstimatedDuration,
		AdditionalFees:    body.AdditionalFees,
	}
	if err := h.bookings.SubmitQuote(c.Request().Context(), quote); err != nil {
		return serviceError(err, codeRequestNotFound, "Service request or business not found", map[error]*APIError{
			services.ErrRequestNotOpen: NewAPIError(http.StatusConflict, "REQUEST_NOT_OPEN", "Service request is no longer accepting quotes"),
		})
	}
	return ok(c, http.StatusCreated, map[string]any{"quote": quote}, "Quote submitted successfully")
}

func (h *BookingHandler) Quotes(c echo.Context) error {
	requestID, err := idParam(c, "id", codeRequestNotFound, msgRequestNotFound)
	if err != nil {
		return err
	}
	quotes, err := h.bookings.Quotes(c.Request().Context(), requestID)
	if err != nil {
		return serviceError(err, codeRequestNotFound, msgRequestNotFound, nil)
	}
	return ok(c, http.StatusOK, map[string]any{"quotes": quotes}, "")
}

type acceptBody struct {
	ScheduledDate      string `json:"scheduledDate"`
	ScheduledTimeStart string `json:"scheduledTimeStart"`
	ScheduledTimeEnd   string `json:"scheduledTimeEnd"`
}

// AcceptQuote books the visit described by a pending quote
func (h *BookingHandler) AcceptQuote(c echo.Context) error {
	quoteID, err := idParam(c, "id", "QUOTE_NOT_FOUND", "Quote not found")
	if err != nil {
		return err
	}
	var body acceptBody
	if err := h.validator.Decode("quote_accept", c.Request().Body, &body); err != nil {
		return err
	}
	date, err := parseDate(body.ScheduledDate)
	if err != nil {
		return err
	}

	booking, err := h.bookings.AcceptQuote(c.Request().Context(), quoteID, services.AcceptInput{
		ScheduledDate: date,
		TimeStart:     body.ScheduledTimeStart,
		TimeEnd:       body.ScheduledTimeEnd,
	})
	if err != nil {
		return serviceError(err, "QUOTE_NOT_FOUND", "Quote not found", map[error]*APIError{
			services.ErrQuoteNotPending: NewAPIError(http.StatusConflict, "QUOTE_NOT_PENDING", "Quote has already been accepted"),
			services.ErrRequestNotOpen:  NewAPIError(http.StatusConflict, "REQUEST_NOT_OPEN", "Service request has already been booked"),
		})
	}
	return ok(c, http.StatusCreated, map[string]any{"booking": booking}, "Quote accepted and booking created successfully")
}

// History pages through the user's bookings, optionally by status
func (h *BookingHandler) History(c echo.Context) error {
	status := strings.TrimSpace(c.QueryParam("status"))
	page, err := h.bookings.History(c.Request().Context(), h.userID, status, intQuery(c, "limit", 20), intQuery(c, "offset", 0))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, page, "")
}

func (h *BookingHandler) Get(c echo.Context) error {
	id, err := idParam(c, "id", codeBookingNotFound, msgBookingNotFound)
	if err != nil {
		return err
	}
	booking, err := h.bookings.Get(c.Request().Context(), h.userID, id)
	if err != nil {
		return serviceError(err, codeBookingNotFound, msgBookingNotFound, nil)
	}
	return ok(c, http.StatusOK, map[string]any{"booking": booking}, "")
}

func (h *BookingHandler) Start(c echo.Context) error {
	id, err := idParam(c, "id", codeBookingNotFound, msgBookingNotFound)
	if err != nil {
		return err
	}
	booking, err := h.bookings.Start(c.Request().Context(), h.userID, id)
	if err != nil {
		return serviceError(err, codeBookingNotFound, msgBookingNotFound, bookingTransitions)
	}
	return ok(c, http.StatusOK, map[string]any{"booking": booking}, "Booking started successfully")
}

type cancelBody struct {
	Reason string `json:"reason"`
}

func (h *BookingHandler) Cancel(c echo.Context) error {
	id, err := idParam(c, "id", codeBookingNotFound, msgBookingNotFound)
	if err != nil {
		return err
	}
	var body cancelBody
	if err := h.validator.Decode("booking_cancel", c.Request().Body, &body); err != nil {
		return err
	}
	booking, err := h.bookings.Cancel(c.Request().Context(), h.userID, id, body.Reason)
	if err != nil {
		return serviceError(err, codeBookingNotFound, msgBookingNotFound, bookingTransitions)
	}
	return ok(c, http.StatusOK, map[string]any{"booking": booking}, "Booking cancelled successfully")
}

type completeBody struct {
	Notes       string   `json:"completionNotes"`
	AfterPhotos []string `json:"afterPhotos"`
	Signature   string   `json:"customerSignature"`
}

func (h *BookingHandler) Complete(c echo.Context) error {
	id, err := idParam(c, "id", codeBookingNotFound, msgBookingNotFound)
	if err != nil {
		return err
	}
	var body completeBody
	if err := h.validator.Decode("booking_complete", c.Request().Body, &body); err != nil {
		return err
	}
	booking, err := h.bookings.Complete(c.Request().Context(), h.userID, id, services.CompletionInput{
		Notes:       body.Notes,
		AfterPhotos: body.AfterPhotos,
		Signature:   body.Signature,
	})
	if err != nil {
		return serviceError(err, codeBookingNotFound, msgBookingNotFound, bookingTransitions)
	}
	return ok(c, http.StatusOK, map[string]any{"booking": booking}, "Booking completed successfully")
}
