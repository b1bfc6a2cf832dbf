// ABOUTME: Access logging for the HTTP API
// ABOUTME: Adds the operation to the request context and logs one line per completed request
package middleware

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"genai-news/utils/logger"
)

// OperationMiddleware tags the request context with "METHOD /route".
func OperationMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			route := c.Path()
			if route == "" {
				route = req.URL.Path
			}
			ctx := logger.WithOperation(req.Context(), req.Method+" "+route)
			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	}
}

// RequestLogger logs completed requests. Health and metrics probes are skipped.
func RequestLogger(log *slog.Logger, skipPaths ...string) echo.MiddlewareFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}

	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			_, ok := skip[c.Request().URL.Path]
			return ok
		},
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogError:     true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			attrs := []any{
				"log_type", "access",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency_ms", v.Latency.Milliseconds(),
				"ip_address", v.RemoteIP,
				"user_agent", v.UserAgent,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			log.InfoContext(c.Request().Context(), "HTTP request completed", attrs...)
			return nil
		},
	})
}
