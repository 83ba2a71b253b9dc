package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"bulkpickup_app/internal/services"
	"bulkpickup_app/internal/validation"
)

// ErrorBody is the error block of the JSON envelope
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Envelope wraps every /api response
type Envelope struct {
	Success   bool       `json:"success"`
	Data      any        `json:"data,omitempty"`
	Message   string     `json:"message,omitempty"`
	Error     *ErrorBody `json:"error,omitempty"`
	Timestamp string     `json:"timestamp"`
	RequestID string     `json:"requestId,omitempty"`
}

// APIError is returned by API handlers and rendered by the error handler
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return e.Code + ": " + e.Message
}

func NewAPIError(status int, code, message string) *APIError {
	return &APIError{Status: status, Code: code, Message: message}
}

func badRequest(code, message string) *APIError {
	return NewAPIError(http.StatusBadRequest, code, message)
}

func notFound(code, message string) *APIError {
	return NewAPIError(http.StatusNotFound, code, message)
}

var errInternal = NewAPIError(http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")

func envelope(c echo.Context) Envelope {
	return Envelope{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RequestID: c.Response().Header().Get(echo.HeaderXRequestID),
	}
}

// ok writes a success envelope
func ok(c echo.Context, status int, data any, message string) error {
	env := envelope(c)
	env.Success = true
	env.Data = data
	env.Message = message
	return c.JSON(status, env)
}

// WriteAPIError renders err as an error envelope. Validation errors map to
// 400; anything that is not an *APIError becomes a 500.
func WriteAPIError(c echo.Context, err error) error {
	var apiErr *APIError
	var verr *validation.Error
	switch {
	case errors.As(err, &apiErr):
	case errors.As(err, &verr):
		apiErr = badRequest(verr.Code, verr.Message)
	default:
		c.Logger().Error(err)
		apiErr = errInternal
	}

	env := envelope(c)
	env.Error = &ErrorBody{Code: apiErr.Code, Message: apiErr.Message}
	return c.JSON(apiErr.Status, env)
}

// serviceError maps service sentinels to API errors. notFoundCode is used
// for services.ErrNotFound; transitions maps specific transition errors.
func serviceError(err error, notFoundCode, notFoundMsg string, transitions map[error]*APIError) error {
	if errors.Is(err, services.ErrNotFound) {
		return notFound(notFoundCode, notFoundMsg)
	}
	for target, apiErr := range transitions {
		if errors.Is(err, target) {
			return apiErr
		}
	}
	return err
}

// idParam parses a positive numeric path parameter
func idParam(c echo.Context, name, notFoundCode, notFoundMsg string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, notFound(notFoundCode, notFoundMsg)
	}
	return uint(id), nil
}

// intQuery reads an integer query parameter, falling back to def when the
// value is missing or not a number
func intQuery(c echo.Context, name string, def int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

const (
	dateLayout = "2006-01-02"
	codeDate   = "INVALID_DATE_FORMAT"
)

func parseDate(raw string) (time.Time, error) {
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, badRequest(codeDate, "Date must be in YYYY-MM-DD format")
	}
	return t, nil
}

func parseOptionalDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := parseDate(raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
