package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	apperrors "github.com/Rohit2924/news-sub000/pkg/errors"
)

// NewHTTPErrorHandler maps sentinel errors to HTTP status codes,
// sanitizes internal errors, and logs with request context. Handlers
// never leak a stack trace or framework error page to the client.
func NewHTTPErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := "Internal server error"

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			code = httpErr.Code
			message = fmt.Sprintf("%v", httpErr.Message)
		} else {
			switch {
			case errors.Is(err, apperrors.ErrNotFound):
				code = http.StatusNotFound
				message = "Resource not found"
			case errors.Is(err, apperrors.ErrInvalidCredentials):
				code = http.StatusUnauthorized
				message = "Invalid credentials"
			case errors.Is(err, apperrors.ErrUnauthorized):
				code = http.StatusUnauthorized
				message = "Unauthorized"
			case errors.Is(err, apperrors.ErrForbidden):
				code = http.StatusForbidden
				message = "Forbidden"
			case errors.Is(err, apperrors.ErrInsufficientPerms):
				code = http.StatusForbidden
				message = "Insufficient permissions"
			case errors.Is(err, apperrors.ErrBadRequest):
				code = http.StatusBadRequest
				message = "Bad request"
			case errors.Is(err, apperrors.ErrInvalidInput):
				code = http.StatusBadRequest
				message = "Invalid input"
			case errors.Is(err, apperrors.ErrValidation):
				code = http.StatusBadRequest
				message = "Validation error"
			case errors.Is(err, apperrors.ErrEmailExists):
				code = http.StatusConflict
				message = "Email already exists"
			case errors.Is(err, apperrors.ErrConflict):
				code = http.StatusConflict
				message = "Resource already exists"
			case errors.Is(err, apperrors.ErrTooManyRequests):
				code = http.StatusTooManyRequests
				message = "Too many requests"
			}

			var appErr *apperrors.AppError
			if errors.As(err, &appErr) && code < 500 {
				message = appErr.Message
			}
		}

		requestID := c.Response().Header().Get(echo.HeaderXRequestID)
		if requestID == "" {
			requestID = "unknown"
		}

		if code >= 500 {
			logger.Error().
				Str("request_id", requestID).
				Int("status", code).
				Err(err).
				Msg("internal server error")
			// Never expose internal details to the client.
			message = "Internal server error"
		} else {
			logger.Warn().
				Str("request_id", requestID).
				Int("status", code).
				Err(err).
				Msg("client error")
		}

		if err := c.JSON(code, map[string]interface{}{
			"error":      message,
			"request_id": requestID,
		}); err != nil {
			logger.Error().Err(err).Msg("failed to write error response")
		}
	}
}
