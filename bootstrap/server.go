package bootstrap

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	appmiddleware "genai-news/middleware"
)

const serviceName = "genai-news"

// NewHTTPServer creates and configures the Echo HTTP server.
func NewHTTPServer(deps *Dependencies, otelEnabled bool, otelServiceName string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Custom error handler for consistent error responses
	e.HTTPErrorHandler = appmiddleware.CustomHTTPErrorHandler(deps.Logger)

	if otelEnabled {
		e.Use(otelecho.Middleware(otelServiceName))
		e.Use(appmiddleware.OTelStatusMiddleware())
	}

	metricsPath := deps.Config.Metrics.Path

	e.Use(appmiddleware.RequestIDMiddleware())
	e.Use(appmiddleware.OperationMiddleware())
	e.Use(appmiddleware.RequestLogger(deps.Logger, "/health", metricsPath))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.GET("/health", deps.HealthHandler.HandleHealth)
	if deps.Config.Metrics.Enabled {
		e.GET(metricsPath, echo.WrapHandler(promhttp.Handler()))
	}

	// API routes
	api := e.Group("/api/v1")
	api.GET("/articles", deps.ArticleHandler.HandleLatest)

	if deps.Verifier.Enabled() {
		requireJWT := appmiddleware.RequireJWT(deps.Verifier, deps.Logger)
		api.POST("/articles/refresh", deps.ArticleHandler.HandleRefresh, requireJWT)
		api.POST("/session", deps.SessionHandler.HandleSignIn, requireJWT)
		api.DELETE("/session", deps.SessionHandler.HandleSignOut, requireJWT)
	} else {
		deps.Logger.Warn("AUTH_TOKEN_SECRET is not set, authenticated routes are disabled")
	}

	return e
}
