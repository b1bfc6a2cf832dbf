package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// DependencyCheck reports whether a backing service is reachable.
type DependencyCheck func(ctx context.Context) error

type HealthResponse struct {
	Status       string            `json:"status"`
	Service      string            `json:"service"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// HealthHandler answers liveness probes and, with ?deep=true, dependency checks.
type HealthHandler struct {
	service string
	checks  map[string]DependencyCheck
	timeout time.Duration
	logger  *slog.Logger
}

func NewHealthHandler(service string, checks map[string]DependencyCheck, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		service: service,
		checks:  checks,
		timeout: 3 * time.Second,
		logger:  logger,
	}
}

// HandleHealth handles GET /health.
func (h *HealthHandler) HandleHealth(c echo.Context) error {
	resp := HealthResponse{Status: "healthy", Service: h.service}
	if c.QueryParam("deep") != "true" || len(h.checks) == 0 {
		return c.JSON(http.StatusOK, resp)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	status := http.StatusOK
	resp.Dependencies = make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.logger.WarnContext(ctx, "dependency health check failed", "dependency", name, "error", err)
			resp.Dependencies[name] = "unhealthy"
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Dependencies[name] = "healthy"
	}

	return c.JSON(status, resp)
}
