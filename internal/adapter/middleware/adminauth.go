package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// AdminKeyMiddleware guards the session-authenticated admin entry point.
// The dashboard's session layer terminates upstream and forwards the shared
// key; requests without it never reach a state machine.
func AdminKeyMiddleware(adminKey string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if adminKey == "" {
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "admin access not configured"})
			}
			got := strings.TrimSpace(c.Request().Header.Get("X-Admin-Key"))
			if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(adminKey)) != 1 {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			}
			return next(c)
		}
	}
}
