package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// LoadConfig builds the configuration from defaults and overrides provided via environment variables.
func LoadConfig() (*Config, error) {
	// .env is optional; a missing file is not an error.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	config := defaultConfig()

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if config.Pipeline.QueriesFile != "" {
		queries, err := loadQueriesFile(config.Pipeline.QueriesFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load queries file: %w", err)
		}
		config.Pipeline.Queries = queries
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func loadFromEnv(config *Config) error {
	if err := loadServerConfig(&config.Server); err != nil {
		return fmt.Errorf("failed to load server config: %w", err)
	}

	if err := loadHTTPConfig(&config.HTTP); err != nil {
		return fmt.Errorf("failed to load HTTP config: %w", err)
	}

	if err := loadRetryConfig(&config.Retry); err != nil {
		return fmt.Errorf("failed to load retry config: %w", err)
	}

	if err := loadPipelineConfig(&config.Pipeline); err != nil {
		return fmt.Errorf("failed to load pipeline config: %w", err)
	}

	if err := loadSearchConfig(&config.Search); err != nil {
		return fmt.Errorf("failed to load search config: %w", err)
	}

	if err := loadNewsCreatorConfig(&config.NewsCreator); err != nil {
		return fmt.Errorf("failed to load news creator config: %w", err)
	}

	if err := loadExtractorConfig(&config.Extractor); err != nil {
		return fmt.Errorf("failed to load extractor config: %w", err)
	}

	if err := loadStoreConfig(&config.Store); err != nil {
		return fmt.Errorf("failed to load store config: %w", err)
	}

	if err := loadArchiveConfig(&config.Archive); err != nil {
		return fmt.Errorf("failed to load archive config: %w", err)
	}

	if err := loadJournalConfig(&config.Journal); err != nil {
		return fmt.Errorf("failed to load journal config: %w", err)
	}

	if err := loadTriggerConfig(&config.Trigger); err != nil {
		return fmt.Errorf("failed to load trigger config: %w", err)
	}

	loadAuthConfig(&config.Auth)

	if err := loadMetricsConfig(&config.Metrics); err != nil {
		return fmt.Errorf("failed to load metrics config: %w", err)
	}

	return nil
}

// loadServerConfig loads server configuration from environment variables
func loadServerConfig(cfg *ServerConfig) error {
	var err error

	if cfg.Port, err = parseIntEnv("SERVER_PORT", cfg.Port); err != nil {
		return err
	}

	if cfg.ShutdownTimeout, err = parseDurationEnv("SERVER_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout); err != nil {
		return err
	}

	if cfg.ReadTimeout, err = parseDurationEnv("SERVER_READ_TIMEOUT", cfg.ReadTimeout); err != nil {
		return err
	}

	if cfg.WriteTimeout, err = parseDurationEnv("SERVER_WRITE_TIMEOUT", cfg.WriteTimeout); err != nil {
		return err
	}

	return nil
}

// loadHTTPConfig loads outbound HTTP client configuration
func loadHTTPConfig(cfg *HTTPConfig) error {
	var err error

	if cfg.Timeout, err = parseDurationEnv("HTTP_TIMEOUT", cfg.Timeout); err != nil {
		return err
	}

	if cfg.MaxIdleConns, err = parseIntEnv("HTTP_MAX_IDLE_CONNS", cfg.MaxIdleConns); err != nil {
		return err
	}

	if cfg.MaxIdleConnsPerHost, err = parseIntEnv("HTTP_MAX_IDLE_CONNS_PER_HOST", cfg.MaxIdleConnsPerHost); err != nil {
		return err
	}

	if cfg.IdleConnTimeout, err = parseDurationEnv("HTTP_IDLE_CONN_TIMEOUT", cfg.IdleConnTimeout); err != nil {
		return err
	}

	if cfg.TLSHandshakeTimeout, err = parseDurationEnv("HTTP_TLS_HANDSHAKE_TIMEOUT", cfg.TLSHandshakeTimeout); err != nil {
		return err
	}

	cfg.UserAgent = parseStringEnv("HTTP_USER_AGENT", cfg.UserAgent)

	if cfg.MaxRedirects, err = parseIntEnv("HTTP_MAX_REDIRECTS", cfg.MaxRedirects); err != nil {
		return err
	}

	return nil
}

func loadRetryConfig(cfg *RetryConfig) error {
	var err error

	if cfg.MaxAttempts, err = parseIntEnv("RETRY_MAX_ATTEMPTS", cfg.MaxAttempts); err != nil {
		return err
	}

	if cfg.BaseDelay, err = parseDurationEnv("RETRY_BASE_DELAY", cfg.BaseDelay); err != nil {
		return err
	}

	return nil
}

func loadPipelineConfig(cfg *PipelineConfig) error {
	var err error

	cfg.Queries = parseListEnv("PIPELINE_QUERIES", cfg.Queries)
	cfg.QueriesFile = parseStringEnv("PIPELINE_QUERIES_FILE", cfg.QueriesFile)

	ints := []struct {
		key string
		dst *int
	}{
		{"PIPELINE_RESULTS_PER_QUERY", &cfg.ResultsPerQuery},
		{"PIPELINE_MAX_ARTICLES", &cfg.MaxArticles},
		{"PIPELINE_EXTRACTION_ELIGIBLE", &cfg.ExtractionEligible},
		{"PIPELINE_SHORT_BODY_THRESHOLD", &cfg.ShortBodyThreshold},
		{"PIPELINE_EXTRACTED_MIN_LENGTH", &cfg.ExtractedMinLength},
		{"PIPELINE_EXTRACTED_MAX_LENGTH", &cfg.ExtractedMaxLength},
		{"PIPELINE_TRANSLATE_MIN_LENGTH", &cfg.TranslateMinLength},
		{"PIPELINE_TRANSLATION_MAX_TOKENS", &cfg.TranslationMaxTokens},
	}
	for _, field := range ints {
		if *field.dst, err = parseIntEnv(field.key, *field.dst); err != nil {
			return err
		}
	}

	if cfg.QueryDelay, err = parseDurationEnv("PIPELINE_QUERY_DELAY", cfg.QueryDelay); err != nil {
		return err
	}

	if cfg.TranslationDelay, err = parseDurationEnv("PIPELINE_TRANSLATION_DELAY", cfg.TranslationDelay); err != nil {
		return err
	}

	if cfg.ArticleDelay, err = parseDurationEnv("PIPELINE_ARTICLE_DELAY", cfg.ArticleDelay); err != nil {
		return err
	}

	cfg.TranslationFailureMarker = parseStringEnv("PIPELINE_TRANSLATION_FAILURE_MARKER", cfg.TranslationFailureMarker)

	return nil
}

func loadSearchConfig(cfg *SearchConfig) error {
	var err error

	cfg.Provider = parseStringEnv("SEARCH_PROVIDER", cfg.Provider)
	cfg.SerpAPIHost = parseStringEnv("SEARCH_SERPAPI_HOST", cfg.SerpAPIHost)
	cfg.GoogleNewsHost = parseStringEnv("SEARCH_GOOGLENEWS_HOST", cfg.GoogleNewsHost)
	cfg.APIKey = parseStringEnv("SEARCH_API_KEY", cfg.APIKey)
	cfg.Language = parseStringEnv("SEARCH_LANGUAGE", cfg.Language)
	cfg.Region = parseStringEnv("SEARCH_REGION", cfg.Region)

	if cfg.Timeout, err = parseDurationEnv("SEARCH_TIMEOUT", cfg.Timeout); err != nil {
		return err
	}

	return nil
}

func loadNewsCreatorConfig(cfg *NewsCreatorConfig) error {
	var err error

	cfg.Host = parseStringEnv("NEWS_CREATOR_HOST", cfg.Host)
	cfg.APIPath = parseStringEnv("NEWS_CREATOR_API_PATH", cfg.APIPath)
	cfg.Model = parseStringEnv("NEWS_CREATOR_MODEL", cfg.Model)

	if cfg.Timeout, err = parseDurationEnv("NEWS_CREATOR_TIMEOUT", cfg.Timeout); err != nil {
		return err
	}

	return nil
}

func loadExtractorConfig(cfg *ExtractorConfig) error {
	var err error

	if cfg.Timeout, err = parseDurationEnv("EXTRACTOR_TIMEOUT", cfg.Timeout); err != nil {
		return err
	}

	if cfg.HostInterval, err = parseDurationEnv("EXTRACTOR_HOST_INTERVAL", cfg.HostInterval); err != nil {
		return err
	}

	maxBody, err := parseIntEnv("EXTRACTOR_MAX_BODY_BYTES", int(cfg.MaxBodyBytes))
	if err != nil {
		return err
	}
	cfg.MaxBodyBytes = int64(maxBody)

	return nil
}

func loadStoreConfig(cfg *StoreConfig) error {
	var err error

	cfg.Backend = parseStringEnv("STORE_BACKEND", cfg.Backend)
	cfg.RedisURL = parseStringEnv("STORE_REDIS_URL", cfg.RedisURL)
	cfg.Key = parseStringEnv("STORE_KEY", cfg.Key)

	if cfg.Timeout, err = parseDurationEnv("STORE_TIMEOUT", cfg.Timeout); err != nil {
		return err
	}

	return nil
}

func loadArchiveConfig(cfg *ArchiveConfig) error {
	var err error

	if cfg.Enabled, err = parseBoolEnv("ARCHIVE_ENABLED", cfg.Enabled); err != nil {
		return err
	}
	cfg.DatabaseURL = parseStringEnv("ARCHIVE_DATABASE_URL", cfg.DatabaseURL)

	return nil
}

func loadJournalConfig(cfg *JournalConfig) error {
	var err error

	if cfg.Enabled, err = parseBoolEnv("JOURNAL_ENABLED", cfg.Enabled); err != nil {
		return err
	}
	cfg.BasePath = parseStringEnv("JOURNAL_BASE_PATH", cfg.BasePath)
	if cfg.Retention, err = parseDurationEnv("JOURNAL_RETENTION", cfg.Retention); err != nil {
		return err
	}

	return nil
}

func loadTriggerConfig(cfg *TriggerConfig) error {
	var err error

	if cfg.CronEnabled, err = parseBoolEnv("TRIGGER_CRON_ENABLED", cfg.CronEnabled); err != nil {
		return err
	}

	cfg.Schedule = parseStringEnv("TRIGGER_SCHEDULE", cfg.Schedule)

	if cfg.RunOnStart, err = parseBoolEnv("TRIGGER_RUN_ON_START", cfg.RunOnStart); err != nil {
		return err
	}

	if cfg.AuthEnabled, err = parseBoolEnv("TRIGGER_AUTH_ENABLED", cfg.AuthEnabled); err != nil {
		return err
	}

	return nil
}

func loadAuthConfig(cfg *AuthConfig) {
	cfg.TokenSecret = parseStringEnv("AUTH_TOKEN_SECRET", cfg.TokenSecret)
	cfg.Issuer = parseStringEnv("AUTH_TOKEN_ISSUER", cfg.Issuer)
	cfg.Audience = parseStringEnv("AUTH_TOKEN_AUDIENCE", cfg.Audience)
}

func loadMetricsConfig(cfg *MetricsConfig) error {
	var err error

	if cfg.Enabled, err = parseBoolEnv("METRICS_ENABLED", cfg.Enabled); err != nil {
		return err
	}
	cfg.Path = parseStringEnv("METRICS_PATH", cfg.Path)

	return nil
}

type queriesFile struct {
	Queries []string `yaml:"queries"`
}

// loadQueriesFile reads the ordered query list from a YAML document.
func loadQueriesFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file queriesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("invalid queries file %s: %w", path, err)
	}

	queries := make([]string, 0, len(file.Queries))
	for _, q := range file.Queries {
		if q = strings.TrimSpace(q); q != "" {
			queries = append(queries, q)
		}
	}
	return queries, nil
}

func parseStringEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	if value := os.Getenv(key); value != "" {
		d, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		return d, nil
	}
	return defaultValue, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	if value := os.Getenv(key); value != "" {
		i, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		return i, nil
	}
	return defaultValue, nil
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	if value := os.Getenv(key); value != "" {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid %s: %s", key, value)
		}
		return b, nil
	}
	return defaultValue, nil
}
