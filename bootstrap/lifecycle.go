package bootstrap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"genai-news/config"
	"genai-news/trigger"
	"genai-news/usecase/refresh"
	"genai-news/utils/logger"
	"genai-news/utils/otel"
)

// Serve runs the HTTP API and the refresh triggers until SIGINT or SIGTERM.
func Serve(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return withRuntime(ctx, func(ctx context.Context, deps *Dependencies, otelCfg otel.Config) error {
		log := deps.Logger
		cfg := deps.Config

		e := NewHTTPServer(deps, otelCfg.Enabled, otelCfg.ServiceName)
		server := &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		}

		g, gctx := errgroup.WithContext(ctx)

		// Triggers start first so a bad schedule fails before the listener is up.
		if err := deps.Triggers.Start(gctx, fireRefresh(deps.Refresher, log)); err != nil {
			return fmt.Errorf("failed to start triggers: %w", err)
		}

		g.Go(func() error {
			log.Info("Starting HTTP server", "port", cfg.Server.Port)
			if err := e.StartServer(server); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})

		g.Go(func() error {
			<-gctx.Done()
			log.Info("Shutting down genai-news service")

			// triggers wait for their running refresh, so abort it first
			deps.CancelRefreshes()
			deps.Triggers.Stop()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := e.Shutdown(shutdownCtx); err != nil {
				log.Error("Error shutting down HTTP server", "error", err)
			}
			return nil
		})

		if deps.Journal != nil {
			g.Go(func() error {
				deps.Journal.StartCleanup(gctx)
				return nil
			})
		}

		log.Info("genai-news service started successfully")

		err := g.Wait()
		log.Info("genai-news service stopped")
		return err
	})
}

// FetchOnce runs the pipeline a single time and writes the stored batch to out as JSON.
func FetchOnce(ctx context.Context, out io.Writer) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return withRuntime(ctx, func(ctx context.Context, deps *Dependencies, _ otel.Config) error {
		batch, err := deps.Refresher.Refresh(ctx, refresh.ReasonCLI)
		if err != nil {
			return fmt.Errorf("refresh failed: %w", err)
		}

		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(batch); err != nil {
			return fmt.Errorf("failed to write batch: %w", err)
		}
		return nil
	})
}

// withRuntime initializes telemetry, logging, configuration and dependencies,
// then hands them to run.
func withRuntime(ctx context.Context, run func(context.Context, *Dependencies, otel.Config) error) error {
	otelCfg := otel.ConfigFromEnv()
	otelShutdown, err := otel.InitProvider(ctx, otelCfg)
	if err != nil {
		slog.Error("Failed to initialize OpenTelemetry", "error", err)
		otelCfg.Enabled = false
		otelShutdown = func(context.Context) error { return nil }
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			slog.Error("Failed to shutdown OpenTelemetry", "error", err)
		}
	}()

	loggerConfig := logger.LoadLoggerConfigFromEnv()
	log := logger.InitializeUnifiedLogger(loggerConfig, otelCfg.Enabled).Logger()
	slog.SetDefault(log)

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log.Info("Starting genai-news",
		"log_level", loggerConfig.Level,
		"otel_enabled", otelCfg.Enabled,
		"search_provider", cfg.Search.Provider,
		"store_backend", cfg.Store.Backend,
		"archive_enabled", cfg.Archive.Enabled,
		"journal_enabled", cfg.Journal.Enabled)

	deps, cleanup, err := BuildDependencies(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to build dependencies: %w", err)
	}
	defer cleanup()

	return run(ctx, deps, otelCfg)
}

// fireRefresh adapts the refresher to the trigger callback. Errors are logged
// because triggers have nobody to return them to.
func fireRefresh(refresher *refresh.Refresher, log *slog.Logger) trigger.FireFunc {
	return func(ctx context.Context, reason string) {
		ctx = logger.WithOperation(ctx, "refresh:"+reason)
		if _, err := refresher.Refresh(ctx, reason); err != nil {
			log.ErrorContext(ctx, "triggered refresh failed", "reason", reason, "error", err)
		}
	}
}
