// ABOUTME: Centralized error handling middleware for Echo framework
// ABOUTME: Converts AppContextError to secure HTTP responses, hides internal details
package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "genai-news/utils/errors"
)

const genericErrorMessage = "An unexpected error occurred. Please try again later."

// CustomHTTPErrorHandler renders every error as {"error":{...}}.
// AppContextError keeps its code, echo.HTTPError keeps its status and anything
// else becomes a 500 with a generic message.
func CustomHTTPErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		ctx := c.Request().Context()

		var response apperrors.SecureHTTPResponse
		var status int

		var appErr *apperrors.AppContextError
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &appErr):
			status = appErr.HTTPStatusCode()
			response = appErr.ToSecureHTTPResponse()

			logger.ErrorContext(ctx, "application error",
				"error_id", appErr.ErrorID,
				"code", appErr.Code,
				"message", appErr.Message,
				"layer", appErr.Layer,
				"component", appErr.Component,
				"operation", appErr.Operation,
				"cause", appErr.Cause,
				"context", appErr.Context,
			)

		case errors.As(err, &httpErr):
			status = httpErr.Code
			msg := http.StatusText(status)
			if m, ok := httpErr.Message.(string); ok {
				msg = m
			}

			safeMsg := msg
			if status >= 500 {
				safeMsg = genericErrorMessage
			}

			response = apperrors.SecureHTTPResponse{
				Error: apperrors.SecureErrorDetail{
					Code:      "HTTP_ERROR",
					Message:   safeMsg,
					Retryable: apperrors.IsRetryableHTTPStatus(status),
				},
			}

			logger.WarnContext(ctx, "HTTP error",
				"status", status,
				"message", msg,
			)

		default:
			status = http.StatusInternalServerError
			response = apperrors.SecureHTTPResponse{
				Error: apperrors.SecureErrorDetail{
					Code:    apperrors.CodeInternal,
					Message: genericErrorMessage,
				},
			}

			logger.ErrorContext(ctx, "unhandled error", "error", err)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, response)
		}
		if err != nil {
			logger.ErrorContext(ctx, "failed to send error response", "error", err)
		}
	}
}
