package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"genai-news/auth"
	"genai-news/config"
	"genai-news/dlq"
	"genai-news/driver/extractor"
	"genai-news/driver/newscreator"
	"genai-news/driver/search"
	"genai-news/handler"
	"genai-news/metrics"
	"genai-news/repository"
	"genai-news/retry"
	"genai-news/service"
	"genai-news/trigger"
	"genai-news/usecase/refresh"
)

// Dependencies holds all application dependencies.
type Dependencies struct {
	Config    *config.Config
	Logger    *slog.Logger
	Store     repository.BatchStore
	Refresher *refresh.Refresher
	Broker    *auth.StateBroker
	Verifier  *auth.Verifier
	Journal   *dlq.FileJournal
	Triggers  *trigger.Manager

	// CancelRefreshes aborts in-flight and future refresh runs.
	CancelRefreshes context.CancelFunc

	ArticleHandler *handler.ArticleHandler
	SessionHandler *handler.SessionHandler
	HealthHandler  *handler.HealthHandler
}

// BuildDependencies constructs all application dependencies.
// Returns a cleanup function that should be deferred.
func BuildDependencies(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	recorder := metrics.NewRecorder()

	// Drivers
	searchClient, err := search.New(cfg.Search, cfg.HTTP, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create search client: %w", err)
	}
	contentExtractor := extractor.NewExtractor(cfg.Extractor, cfg.HTTP, log)
	generator := newscreator.NewClient(cfg.NewsCreator, cfg.HTTP, log)

	retrier := retry.NewRetrier(
		retry.RetryConfig{MaxAttempts: cfg.Retry.MaxAttempts, BaseDelay: cfg.Retry.BaseDelay},
		log,
		retry.WithRecorder(recorder),
	)

	aggregatorOpts := []service.AggregatorOption{service.WithFailureRecorder(recorder)}
	var journal *dlq.FileJournal
	if cfg.Journal.Enabled {
		journal = dlq.NewFileJournal(cfg.Journal, log)
		aggregatorOpts = append(aggregatorOpts, service.WithJournal(journal))
	}
	aggregator := service.NewNewsAggregator(cfg.Pipeline, searchClient, contentExtractor, generator, retrier, log, aggregatorOpts...)

	// Storage
	checks := make(map[string]handler.DependencyCheck)
	var store repository.BatchStore
	switch cfg.Store.Backend {
	case config.StoreBackendRedis:
		redisStore, err := repository.NewRedisBatchStoreWithURL(ctx, cfg.Store.RedisURL, cfg.Store.Key, cfg.Store.Timeout)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect batch store: %w", err)
		}
		closers = append(closers, func() {
			if err := redisStore.Close(); err != nil {
				log.Error("failed to close redis batch store", "error", err)
			}
		})
		checks["redis"] = redisStore.Ping
		store = redisStore
	default:
		store = repository.NewMemoryBatchStore()
	}

	lifetime, cancelRefreshes := context.WithCancel(ctx)
	closers = append(closers, cancelRefreshes)
	refreshOpts := []refresh.Option{refresh.WithRecorder(recorder), refresh.WithLifetime(lifetime)}
	if cfg.Archive.Enabled {
		archive, err := repository.ConnectArchive(ctx, cfg.Archive.DatabaseURL, log)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to connect archive: %w", err)
		}
		closers = append(closers, archive.Close)
		refreshOpts = append(refreshOpts, refresh.WithArchive(archive))
	}

	refresher := refresh.NewRefresher(aggregator, service.NewFallbackProvider(), store, log, refreshOpts...)

	// Auth
	verifier := auth.NewVerifier(cfg.Auth)
	broker := auth.NewStateBroker()

	var triggers []trigger.Trigger
	if cfg.Trigger.CronEnabled {
		triggers = append(triggers, trigger.NewCronTrigger(cfg.Trigger.Schedule, cfg.Trigger.RunOnStart, log))
	}
	if cfg.Trigger.AuthEnabled {
		if verifier.Enabled() {
			triggers = append(triggers, trigger.NewAuthStateTrigger(broker, log))
		} else {
			log.Warn("auth trigger disabled: AUTH_TOKEN_SECRET is not set")
		}
	}

	deps := &Dependencies{
		Config:    cfg,
		Logger:    log,
		Store:     store,
		Refresher: refresher,
		Broker:    broker,
		Verifier:  verifier,
		Journal:   journal,
		Triggers:  trigger.NewManager(log, triggers...),

		CancelRefreshes: cancelRefreshes,

		ArticleHandler: handler.NewArticleHandler(store, refresher, log),
		SessionHandler: handler.NewSessionHandler(broker, log),
		HealthHandler:  handler.NewHealthHandler(serviceName, checks, log),
	}

	return deps, cleanup, nil
}
