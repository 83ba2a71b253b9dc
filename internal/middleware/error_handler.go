package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"bulkpickup_app/internal/handlers"
	"bulkpickup_app/web/templates/pages"
	"bulkpickup_app/web/templates/shared"
)

// CustomErrorHandler renders the JSON envelope for /api routes and the error
// page for everything else
func CustomErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		c.Logger().Error(err)
		return
	}

	if strings.HasPrefix(c.Request().URL.Path, "/api/") {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			err = handlers.NewAPIError(he.Code, httpErrorCode(he.Code), httpErrorMessage(he))
		}
		if renderErr := handlers.WriteAPIError(c, err); renderErr != nil {
			c.Logger().Error(renderErr)
		}
		return
	}

	code := http.StatusInternalServerError
	errorTitle := "Internal Server Error"
	errorMessage := ""

	// Check if it's an Echo HTTPError
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if msg, ok := he.Message.(string); ok && msg != "" {
			errorMessage = msg
		}

		switch code {
		case http.StatusNotFound:
			errorTitle = "Page Not Found"
			if errorMessage == "" {
				errorMessage = "The page you're looking for doesn't exist."
			}
		case http.StatusMethodNotAllowed:
			errorTitle = "Method Not Allowed"
			if errorMessage == "" {
				errorMessage = "That action is not available here."
			}
		case http.StatusBadRequest:
			errorTitle = "Bad Request"
			if errorMessage == "" {
				errorMessage = "The request could not be processed."
			}
		default:
			if errorMessage == "" {
				errorMessage = "Something went wrong. Please try again later."
			}
		}
	} else {
		errorMessage = "Something went wrong. Please try again later."
	}

	c.Logger().Error(err)

	props := pages.ErrorPageProps{
		Layout: pages.Layout{
			Title:       errorTitle,
			Breadcrumbs: shared.Trail("Error"),
		},
		Code:    code,
		Heading: errorTitle,
		Message: errorMessage,
	}

	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	if renderErr := pages.ErrorPage(props).Render(c.Request().Context(), c.Response()); renderErr != nil {
		// Headers are already out, so plain text is the best we can do
		c.Logger().Error(fmt.Errorf("failed to render error page: %w", renderErr))
		_, _ = c.Response().Write([]byte(errorMessage))
	}
}

func httpErrorCode(status int) string {
	switch status {
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	default:
		if status >= 500 {
			return "INTERNAL_ERROR"
		}
		return strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
	}
}

func httpErrorMessage(he *echo.HTTPError) string {
	if msg, ok := he.Message.(string); ok && msg != "" {
		return msg
	}
	return http.StatusText(he.Code)
}
