package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"genai-news/utils/logger"
)

const RequestIDHeader = "X-Request-ID"

// RequestIDMiddleware propagates the caller's request ID or generates one,
// and puts it in the context for log records.
func RequestIDMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			requestID := req.Header.Get(RequestIDHeader)
			if requestID == "" || len(requestID) > 128 {
				requestID = uuid.NewString()
			}

			ctx := logger.WithRequestID(req.Context(), requestID)
			c.SetRequest(req.WithContext(ctx))
			c.Response().Header().Set(RequestIDHeader, requestID)

			return next(c)
		}
	}
}
