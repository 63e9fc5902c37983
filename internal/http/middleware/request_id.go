package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Rohit2924/news-sub000/internal/gateway"
)

const requestIDContextKey = "request_id"

// RequestID tags each request with a correlation id, reusing the
// caller's if one arrived. It must run before the gateway, which reads
// the response header when recording audit events.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(gateway.HeaderRequestID)
			if id == "" {
				id = uuid.New().String()
			}

			c.Set(requestIDContextKey, id)
			c.Response().Header().Set(gateway.HeaderRequestID, id)

			return next(c)
		}
	}
}

// GetRequestID returns the id assigned by RequestID, or "".
func GetRequestID(c echo.Context) string {
	id, _ := c.Get(requestIDContextKey).(string)
	return id
}
