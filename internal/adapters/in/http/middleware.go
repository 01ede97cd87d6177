package http

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	headerAPIKey = "X-API-KEY"
	headerRole   = "X-Role"

	roleCourier = "courier"
)

// apiKeyMiddleware rejects requests whose X-API-KEY header does not match the
// configured key.
func apiKeyMiddleware(apiKey string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			provided := c.Request().Header.Get(headerAPIKey)
			if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
				return c.JSON(http.StatusUnauthorized, errorBody{
					Code:    http.StatusUnauthorized,
					Message: "invalid api key",
				})
			}
			return next(c)
		}
	}
}

// courierRoleMiddleware requires the courier role header on webhook calls.
func courierRoleMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get(headerRole) != roleCourier {
				return c.JSON(http.StatusForbidden, errorBody{
					Code:    http.StatusForbidden,
					Message: "courier role required",
				})
			}
			return next(c)
		}
	}
}
