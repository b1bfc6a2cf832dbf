package config

import (
	"time"
)

// Config aggregates all service configuration blocks.
type Config struct {
	Server      ServerConfig      `json:"server"`
	HTTP        HTTPConfig        `json:"http"`
	Retry       RetryConfig       `json:"retry"`
	Pipeline    PipelineConfig    `json:"pipeline"`
	Search      SearchConfig      `json:"search"`
	NewsCreator NewsCreatorConfig `json:"news_creator"`
	Extractor   ExtractorConfig   `json:"extractor"`
	Store       StoreConfig       `json:"store"`
	Archive     ArchiveConfig     `json:"archive"`
	Journal     JournalConfig     `json:"journal"`
	Trigger     TriggerConfig     `json:"trigger"`
	Auth        AuthConfig        `json:"auth"`
	Metrics     MetricsConfig     `json:"metrics"`
}

type ServerConfig struct {
	Port            int           `json:"port" env:"SERVER_PORT" default:"9300"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
	ReadTimeout     time.Duration `json:"read_timeout" env:"SERVER_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `json:"write_timeout" env:"SERVER_WRITE_TIMEOUT" default:"300s"`
}

type HTTPConfig struct {
	Timeout             time.Duration `json:"timeout" env:"HTTP_TIMEOUT" default:"30s"`
	MaxIdleConns        int           `json:"max_idle_conns" env:"HTTP_MAX_IDLE_CONNS" default:"10"`
	MaxIdleConnsPerHost int           `json:"max_idle_conns_per_host" env:"HTTP_MAX_IDLE_CONNS_PER_HOST" default:"2"`
	IdleConnTimeout     time.Duration `json:"idle_conn_timeout" env:"HTTP_IDLE_CONN_TIMEOUT" default:"90s"`
	TLSHandshakeTimeout time.Duration `json:"tls_handshake_timeout" env:"HTTP_TLS_HANDSHAKE_TIMEOUT" default:"10s"`
	UserAgent           string        `json:"user_agent" env:"HTTP_USER_AGENT" default:"Mozilla/5.0 (compatible; GenAINewsBot/1.0)"`
	MaxRedirects        int           `json:"max_redirects" env:"HTTP_MAX_REDIRECTS" default:"5"`
}

// RetryConfig drives the backoff executor wrapped around every external call.
type RetryConfig struct {
	MaxAttempts int           `json:"max_attempts" env:"RETRY_MAX_ATTEMPTS" default:"3"`
	BaseDelay   time.Duration `json:"base_delay" env:"RETRY_BASE_DELAY" default:"1s"`
}

// PipelineConfig holds the fixed-budget pacing policy of the aggregation pipeline.
type PipelineConfig struct {
	Queries                  []string      `json:"queries" env:"PIPELINE_QUERIES"`
	QueriesFile              string        `json:"queries_file" env:"PIPELINE_QUERIES_FILE"`
	ResultsPerQuery          int           `json:"results_per_query" env:"PIPELINE_RESULTS_PER_QUERY" default:"5"`
	MaxArticles              int           `json:"max_articles" env:"PIPELINE_MAX_ARTICLES" default:"6"`
	ExtractionEligible       int           `json:"extraction_eligible" env:"PIPELINE_EXTRACTION_ELIGIBLE" default:"3"`
	ShortBodyThreshold       int           `json:"short_body_threshold" env:"PIPELINE_SHORT_BODY_THRESHOLD" default:"200"`
	ExtractedMinLength       int           `json:"extracted_min_length" env:"PIPELINE_EXTRACTED_MIN_LENGTH" default:"200"`
	ExtractedMaxLength       int           `json:"extracted_max_length" env:"PIPELINE_EXTRACTED_MAX_LENGTH" default:"2000"`
	TranslateMinLength       int           `json:"translate_min_length" env:"PIPELINE_TRANSLATE_MIN_LENGTH" default:"50"`
	TranslationMaxTokens     int           `json:"translation_max_tokens" env:"PIPELINE_TRANSLATION_MAX_TOKENS" default:"2000"`
	QueryDelay               time.Duration `json:"query_delay" env:"PIPELINE_QUERY_DELAY" default:"2s"`
	TranslationDelay         time.Duration `json:"translation_delay" env:"PIPELINE_TRANSLATION_DELAY" default:"1500ms"`
	ArticleDelay             time.Duration `json:"article_delay" env:"PIPELINE_ARTICLE_DELAY" default:"2s"`
	TranslationFailureMarker string        `json:"translation_failure_marker" env:"PIPELINE_TRANSLATION_FAILURE_MARKER" default:"翻訳に失敗しました"`
}

// SearchConfig selects the news search provider. SerpAPI needs an API key,
// the Google News RSS provider does not.
type SearchConfig struct {
	Provider       string        `json:"provider" env:"SEARCH_PROVIDER" default:"googlenews"`
	SerpAPIHost    string        `json:"serpapi_host" env:"SEARCH_SERPAPI_HOST" default:"https://serpapi.com"`
	GoogleNewsHost string        `json:"googlenews_host" env:"SEARCH_GOOGLENEWS_HOST" default:"https://news.google.com"`
	APIKey         string        `json:"-" env:"SEARCH_API_KEY"`
	Language       string        `json:"language" env:"SEARCH_LANGUAGE" default:"en"`
	Region         string        `json:"region" env:"SEARCH_REGION" default:"US"`
	Timeout        time.Duration `json:"timeout" env:"SEARCH_TIMEOUT" default:"30s"`
}

const (
	SearchProviderSerpAPI    = "serpapi"
	SearchProviderGoogleNews = "googlenews"

	StoreBackendMemory = "memory"
	StoreBackendRedis  = "redis"
)

type NewsCreatorConfig struct {
	Host    string        `json:"host" env:"NEWS_CREATOR_HOST" default:"http://news-creator:11434"`
	APIPath string        `json:"api_path" env:"NEWS_CREATOR_API_PATH" default:"/api/generate"`
	Model   string        `json:"model" env:"NEWS_CREATOR_MODEL" default:"gemma3:4b"`
	Timeout time.Duration `json:"timeout" env:"NEWS_CREATOR_TIMEOUT" default:"240s"`
}

type ExtractorConfig struct {
	Timeout      time.Duration `json:"timeout" env:"EXTRACTOR_TIMEOUT" default:"20s"`
	HostInterval time.Duration `json:"host_interval" env:"EXTRACTOR_HOST_INTERVAL" default:"1s"`
	MaxBodyBytes int64         `json:"max_body_bytes" env:"EXTRACTOR_MAX_BODY_BYTES" default:"5242880"`
}

type StoreConfig struct {
	Backend  string        `json:"backend" env:"STORE_BACKEND" default:"memory"`
	RedisURL string        `json:"redis_url" env:"STORE_REDIS_URL" default:"redis://redis:6379/0"`
	Key      string        `json:"key" env:"STORE_KEY" default:"genai-news:batch:latest"`
	Timeout  time.Duration `json:"timeout" env:"STORE_TIMEOUT" default:"5s"`
}

type ArchiveConfig struct {
	Enabled     bool   `json:"enabled" env:"ARCHIVE_ENABLED" default:"false"`
	DatabaseURL string `json:"-" env:"ARCHIVE_DATABASE_URL"`
}

type JournalConfig struct {
	Enabled   bool          `json:"enabled" env:"JOURNAL_ENABLED" default:"false"`
	BasePath  string        `json:"base_path" env:"JOURNAL_BASE_PATH" default:"/var/lib/genai-news/journal"`
	Retention time.Duration `json:"retention" env:"JOURNAL_RETENTION" default:"720h"` // 30 days
}

type TriggerConfig struct {
	CronEnabled bool   `json:"cron_enabled" env:"TRIGGER_CRON_ENABLED" default:"true"`
	Schedule    string `json:"schedule" env:"TRIGGER_SCHEDULE" default:"@every 30m"`
	RunOnStart  bool   `json:"run_on_start" env:"TRIGGER_RUN_ON_START" default:"true"`
	AuthEnabled bool   `json:"auth_enabled" env:"TRIGGER_AUTH_ENABLED" default:"true"`
}

type AuthConfig struct {
	TokenSecret string `json:"-" env:"AUTH_TOKEN_SECRET"`
	Issuer      string `json:"issuer" env:"AUTH_TOKEN_ISSUER" default:"auth-hub"`
	Audience    string `json:"audience" env:"AUTH_TOKEN_AUDIENCE" default:"genai-news"`
}

type MetricsConfig struct {
	Enabled bool   `json:"enabled" env:"METRICS_ENABLED" default:"true"`
	Path    string `json:"path" env:"METRICS_PATH" default:"/metrics"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            9300,
			ShutdownTimeout: 30 * time.Second,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    300 * time.Second,
		},
		HTTP: HTTPConfig{
			Timeout:             30 * time.Second,
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 2,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
			UserAgent:           "Mozilla/5.0 (compatible; GenAINewsBot/1.0)",
			MaxRedirects:        5,
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   1 * time.Second,
		},
		Pipeline: PipelineConfig{
			Queries:                  defaultQueries(),
			ResultsPerQuery:          5,
			MaxArticles:              6,
			ExtractionEligible:       3,
			ShortBodyThreshold:       200,
			ExtractedMinLength:       200,
			ExtractedMaxLength:       2000,
			TranslateMinLength:       50,
			TranslationMaxTokens:     2000,
			QueryDelay:               2 * time.Second,
			TranslationDelay:         1500 * time.Millisecond,
			ArticleDelay:             2 * time.Second,
			TranslationFailureMarker: "翻訳に失敗しました",
		},
		Search: SearchConfig{
			Provider:       SearchProviderGoogleNews,
			SerpAPIHost:    "https://serpapi.com",
			GoogleNewsHost: "https://news.google.com",
			Language:       "en",
			Region:         "US",
			Timeout:        30 * time.Second,
		},
		NewsCreator: NewsCreatorConfig{
			Host:    "http://news-creator:11434",
			APIPath: "/api/generate",
			Model:   "gemma3:4b",
			Timeout: 240 * time.Second,
		},
		Extractor: ExtractorConfig{
			Timeout:      20 * time.Second,
			HostInterval: 1 * time.Second,
			MaxBodyBytes: 5 << 20,
		},
		Store: StoreConfig{
			Backend:  StoreBackendMemory,
			RedisURL: "redis://redis:6379/0",
			Key:      "genai-news:batch:latest",
			Timeout:  5 * time.Second,
		},
		Journal: JournalConfig{
			BasePath:  "/var/lib/genai-news/journal",
			Retention: 720 * time.Hour,
		},
		Trigger: TriggerConfig{
			CronEnabled: true,
			Schedule:    "@every 30m",
			RunOnStart:  true,
			AuthEnabled: true,
		},
		Auth: AuthConfig{
			Issuer:   "auth-hub",
			Audience: "genai-news",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

func defaultQueries() []string {
	return []string{
		"generative AI",
		"ChatGPT OR Claude OR Gemini AI model",
	}
}
