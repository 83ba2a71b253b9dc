package handlers

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"

	"bulkpickup_app/internal/models"
	"bulkpickup_app/internal/services"
	"bulkpickup_app/internal/validation"
)

// ScheduleStore is the part of services.ScheduleService the API needs
type ScheduleStore interface {
	ListActive(ctx context.Context) ([]models.PickupSchedule, error)
	Lookup(ctx context.Context, zip string) ([]services.ScheduleSummary, error)
	Events(ctx context.Context, id uint, q services.EventQuery) ([]services.PickupEvent, error)
	Create(ctx context.Context, schedule *models.PickupSchedule) error
	Subscribe(ctx context.Context, sub *models.ScheduleSubscription) error
	Subscriptions(ctx context.Context, userID string) ([]models.ScheduleSubscription, error)
	Unsubscribe(ctx context.Context, userID string, id uint) error
}

type ScheduleHandler struct {
	schedules ScheduleStore
	validator *validation.Validator
	userID    string
}

func NewScheduleHandler(schedules ScheduleStore, validator *validation.Validator, userID string) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules, validator: validator, userID: userID}
}

var zipPattern = regexp.MustCompile(`\b(\d{5})(?:-\d{4})?\b`)

// zipFromAddress returns the last 5-digit ZIP in a free-form address
func zipFromAddress(address string) string {
	matches := zipPattern.FindAllStringSubmatch(address, -1)
	if len(matches) == 0 {
		return ""
	}
	return matches[len(matches)-1][1]
}

// Lookup finds the schedules serving an address, coordinates or ZIP code.
// Without a ZIP every active schedule is returned.
func (h *ScheduleHandler) Lookup(c echo.Context) error {
	address := strings.TrimSpace(c.QueryParam("address"))
	zip := strings.TrimSpace(c.QueryParam("zipCode"))
	lat, lng := c.QueryParam("lat"), c.QueryParam("lng")

	if address == "" && zip == "" && (lat == "" || lng == "") {
		return badRequest("MISSING_PARAMETERS", "Address, coordinates, or ZIP code is required")
	}
	if zip == "" {
		zip = zipFromAddress(address)
	}

	summaries, err := h.schedules.Lookup(c.Request().Context(), zip)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, map[string]any{"schedules": summaries}, "")
}

// Events expands a schedule's recurrence into dated pickups
func (h *ScheduleHandler) Events(c echo.Context) error {
	id, err := idParam(c, "id", "SCHEDULE_NOT_FOUND", "Schedule not found")
	if err != nil {
		return err
	}

	var q services.EventQuery
	if raw := c.QueryParam("startDate"); raw != "" {
		if q.From, err = parseDate(raw); err != nil {
			return err
		}
	}
	if raw := c.QueryParam("endDate"); raw != "" {
		if q.To, err = parseDate(raw); err != nil {
			return err
		}
	}
	q.Limit = intQuery(c, "limit", 0)

	events, err := h.schedules.Events(c.Request().Context(), id, q)
	if err != nil {
		return scheduleError(err)
	}
	return ok(c, http.StatusOK, map[string]any{"events": events}, "")
}

func (h *ScheduleHandler) List(c echo.Context) error {
	schedules, err := h.schedules.ListActive(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, map[string]any{"schedules": schedules}, "")
}

type createScheduleRequest struct {
	MunicipalityID string  `json:"municipality_id"`
	Name           string  `json:"schedule_name"`
	Type           string  `json:"schedule_type"`
	Description    string  `json:"description"`
	Frequency      string  `json:"frequency"`
	StartDate      string  `json:"start_date"`
	EndDate        *string `json:"end_date"`
	Rules          *string `json:"rules"`
	ZoneID         *uint   `json:"zone_id"`
}

// Create stores a new municipal schedule
func (h *ScheduleHandler) Create(c echo.Context) error {
	var req createScheduleRequest
	if err := h.validator.Decode("schedule_create", c.Request().Body, &req); err != nil {
		return err
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		return err
	}
	endDate, err := parseOptionalDate(deref(req.EndDate))
	if err != nil {
		return err
	}

	schedule := &models.PickupSchedule{
		MunicipalityID: req.MunicipalityID,
		Name:           req.Name,
		Type:           req.Type,
		Description:    req.Description,
		Frequency:      models.Frequency(strings.ToLower(req.Frequency)),
		StartDate:      start,
		EndDate:        endDate,
		Rules:          req.Rules,
		ZoneID:         req.ZoneID,
	}
	if err := h.schedules.Create(c.Request().Context(), schedule); err != nil {
		return scheduleError(err)
	}
	return ok(c, http.StatusCreated, map[string]any{"schedule": schedule}, "Schedule created successfully")
}

type subscribeRequest struct {
	ScheduleID              uint                            `json:"scheduleId"`
	AddressID               string                          `json:"addressId"`
	Email                   string                          `json:"email"`
	Phone                   string                          `json:"phone"`
	TelegramChatID          int64                           `json:"telegramChatId"`
	NotificationPreferences *models.NotificationPreferences `json:"notificationPreferences"`
}

// Subscribe signs the demo user up for reminders on a schedule
func (h *ScheduleHandler) Subscribe(c echo.Context) error {
	var req subscribeRequest
	if err := h.validator.Decode("subscription_create", c.Request().Body, &req); err != nil {
		return err
	}

	prefs := models.DefaultNotificationPreferences()
	if req.NotificationPreferences != nil {
		prefs = *req.NotificationPreferences
		if prefs.AdvanceDays == nil {
			prefs.AdvanceDays = models.DefaultNotificationPreferences().AdvanceDays
		}
	}

	sub := &models.ScheduleSubscription{
		UserID:                  h.userID,
		AddressID:               req.AddressID,
		ScheduleID:              req.ScheduleID,
		NotificationPreferences: prefs,
		Email:                   req.Email,
		Phone:                   req.Phone,
		TelegramChatID:          req.TelegramChatID,
	}
	if err := h.schedules.Subscribe(c.Request().Context(), sub); err != nil {
		return scheduleError(err)
	}
	return ok(c, http.StatusCreated, map[string]any{"subscription": sub}, "Subscription created successfully")
}

func (h *ScheduleHandler) Subscriptions(c echo.Context) error {
	subs, err := h.schedules.Subscriptions(c.Request().Context(), h.userID)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, map[string]any{"subscriptions": subs}, "")
}

func (h *ScheduleHandler) Unsubscribe(c echo.Context) error {
	id, err := idParam(c, "id", "SUBSCRIPTION_NOT_FOUND", "Subscription not found")
	if err != nil {
		return err
	}
	if err := h.schedules.Unsubscribe(c.Request().Context(), h.userID, id); err != nil {
		return serviceError(err, "SUBSCRIPTION_NOT_FOUND", "Subscription not found", nil)
	}
	return ok(c, http.StatusOK, nil, "Subscription deleted successfully")
}

func scheduleError(err error) error {
	if errors.Is(err, services.ErrInvalidFrequency) {
		return badRequest("INVALID_FREQUENCY", "Frequency must be one of weekly, biweekly, monthly, yearly")
	}
	return serviceError(err, "SCHEDULE_NOT_FOUND", "Schedule not found", nil)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
