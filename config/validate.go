package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.HTTP.Timeout <= 0 {
		return fmt.Errorf("HTTP timeout must be positive: %v", config.HTTP.Timeout)
	}

	if config.HTTP.MaxRedirects < 0 {
		return fmt.Errorf("max redirects must be non-negative: %d", config.HTTP.MaxRedirects)
	}

	if config.Retry.MaxAttempts <= 0 {
		return fmt.Errorf("retry max attempts must be positive: %d", config.Retry.MaxAttempts)
	}

	if config.Retry.BaseDelay < 0 {
		return fmt.Errorf("retry base delay must be non-negative: %v", config.Retry.BaseDelay)
	}

	if err := validatePipelineConfig(&config.Pipeline); err != nil {
		return err
	}

	if err := validateSearchConfig(&config.Search); err != nil {
		return err
	}

	if config.NewsCreator.Host == "" {
		return fmt.Errorf("news creator host cannot be empty")
	}

	if config.NewsCreator.Timeout <= 0 {
		return fmt.Errorf("news creator timeout must be positive: %v", config.NewsCreator.Timeout)
	}

	if config.Extractor.Timeout <= 0 {
		return fmt.Errorf("extractor timeout must be positive: %v", config.Extractor.Timeout)
	}

	if config.Extractor.HostInterval < 0 {
		return fmt.Errorf("extractor host interval must be non-negative: %v", config.Extractor.HostInterval)
	}

	switch config.Store.Backend {
	case StoreBackendMemory:
	case StoreBackendRedis:
		if config.Store.RedisURL == "" {
			return fmt.Errorf("redis URL cannot be empty when store backend is redis")
		}
	default:
		return fmt.Errorf("unknown store backend: %s", config.Store.Backend)
	}

	if config.Archive.Enabled && config.Archive.DatabaseURL == "" {
		return fmt.Errorf("archive database URL cannot be empty when ARCHIVE_ENABLED is true")
	}

	if config.Journal.Enabled && config.Journal.BasePath == "" {
		return fmt.Errorf("journal base path cannot be empty when JOURNAL_ENABLED is true")
	}

	if config.Trigger.CronEnabled {
		if _, err := cron.ParseStandard(config.Trigger.Schedule); err != nil {
			return fmt.Errorf("invalid trigger schedule %q: %w", config.Trigger.Schedule, err)
		}
	}

	if config.Metrics.Enabled && !strings.HasPrefix(config.Metrics.Path, "/") {
		return fmt.Errorf("metrics path must start with '/': %s", config.Metrics.Path)
	}

	return nil
}

func validatePipelineConfig(cfg *PipelineConfig) error {
	// An empty query list is allowed here; the pipeline reports it and the fallback batch is served.
	for i, q := range cfg.Queries {
		if strings.TrimSpace(q) == "" {
			return fmt.Errorf("query at index %d cannot be empty", i)
		}
	}

	if cfg.ResultsPerQuery <= 0 {
		return fmt.Errorf("results per query must be positive: %d", cfg.ResultsPerQuery)
	}

	if cfg.MaxArticles <= 0 {
		return fmt.Errorf("max articles must be positive: %d", cfg.MaxArticles)
	}

	nonNegative := map[string]int{
		"extraction eligible":  cfg.ExtractionEligible,
		"short body threshold": cfg.ShortBodyThreshold,
		"extracted min length": cfg.ExtractedMinLength,
		"translate min length": cfg.TranslateMinLength,
	}
	for name, v := range nonNegative {
		if v < 0 {
			return fmt.Errorf("%s must be non-negative: %d", name, v)
		}
	}

	if cfg.ExtractedMaxLength <= 0 {
		return fmt.Errorf("extracted max length must be positive: %d", cfg.ExtractedMaxLength)
	}

	if cfg.TranslationMaxTokens <= 0 {
		return fmt.Errorf("translation max tokens must be positive: %d", cfg.TranslationMaxTokens)
	}

	if cfg.QueryDelay < 0 || cfg.TranslationDelay < 0 || cfg.ArticleDelay < 0 {
		return fmt.Errorf("pipeline delays must be non-negative")
	}

	if cfg.TranslationFailureMarker == "" {
		return fmt.Errorf("translation failure marker cannot be empty")
	}

	return nil
}

func validateSearchConfig(cfg *SearchConfig) error {
	switch cfg.Provider {
	case SearchProviderSerpAPI:
		if cfg.SerpAPIHost == "" {
			return fmt.Errorf("serpapi host cannot be empty")
		}
		if cfg.APIKey == "" {
			return fmt.Errorf("search API key is required for provider %s", cfg.Provider)
		}
	case SearchProviderGoogleNews:
		if cfg.GoogleNewsHost == "" {
			return fmt.Errorf("google news host cannot be empty")
		}
	default:
		return fmt.Errorf("unknown search provider: %s", cfg.Provider)
	}

	if cfg.Timeout <= 0 {
		return fmt.Errorf("search timeout must be positive: %v", cfg.Timeout)
	}

	return nil
}
