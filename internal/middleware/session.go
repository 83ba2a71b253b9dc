package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"bulkpickup_app/internal/session"
)

// CookieName is the browser cookie carrying the session id
const CookieName = "bp_session"

// Session makes sure every request has a session id. A missing or malformed
// cookie gets a fresh id, which the store treats as a new visitor.
func Session(secure bool, ttl time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := ""
			if cookie, err := c.Cookie(CookieName); err == nil {
				if _, err := uuid.Parse(cookie.Value); err == nil {
					id = cookie.Value
				}
			}

			if id == "" {
				id = uuid.NewString()
			}

			// Refresh on every request so the cookie outlives idle periods
			// shorter than ttl.
			c.SetCookie(&http.Cookie{
				Name:     CookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   int(ttl.Seconds()),
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			})

			c.Set(session.ContextKey, id)
			return next(c)
		}
	}
}
