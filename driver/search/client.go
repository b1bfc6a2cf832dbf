// ABOUTME: News search providers behind a single SearchNews call
// ABOUTME: The provider is chosen from config; both classify 429s as rate-limited errors
package search

import (
	"context"
	"fmt"
	"log/slog"

	"genai-news/config"
	"genai-news/domain"
)

type Client interface {
	SearchNews(ctx context.Context, query string, limit int) ([]domain.SearchResult, error)
}

// New returns the client for cfg.Provider.
func New(cfg config.SearchConfig, httpCfg config.HTTPConfig, logger *slog.Logger) (Client, error) {
	switch cfg.Provider {
	case config.SearchProviderSerpAPI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("search provider %s requires an API key", cfg.Provider)
		}
		return NewSerpAPIClient(cfg, httpCfg, logger), nil
	case config.SearchProviderGoogleNews:
		return NewGoogleNewsClient(cfg, httpCfg, logger), nil
	default:
		return nil, fmt.Errorf("unknown search provider: %q", cfg.Provider)
	}
}
