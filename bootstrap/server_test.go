package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genai-news/auth"
	"genai-news/config"
	"genai-news/domain"
	"genai-news/handler"
	"genai-news/repository"
)

type noopRefresher struct{}

func (noopRefresher) Refresh(context.Context, string) (*domain.Batch, error) {
	return &domain.Batch{}, nil
}

func newTestDeps(t *testing.T, secret string) *Dependencies {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		Auth:    config.AuthConfig{TokenSecret: secret, Issuer: "auth-hub", Audience: "genai-news"},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}

	store := repository.NewMemoryBatchStore()
	require.NoError(t, store.Replace(context.Background(), &domain.Batch{
		Articles:    []domain.Article{{ID: "a1", Title: "t"}},
		GeneratedAt: time.Now(),
	}))

	broker := auth.NewStateBroker()
	return &Dependencies{
		Config:         cfg,
		Logger:         log,
		Store:          store,
		Broker:         broker,
		Verifier:       auth.NewVerifier(cfg.Auth),
		ArticleHandler: handler.NewArticleHandler(store, noopRefresher{}, log),
		SessionHandler: handler.NewSessionHandler(broker, log),
		HealthHandler:  handler.NewHealthHandler(serviceName, nil, log),
	}
}

func TestNewHTTPServer_Routes(t *testing.T) {
	tests := map[string]struct {
		secret     string
		method     string
		path       string
		wantStatus int
		wantBody   string
	}{
		"articles served from store": {
			method:     http.MethodGet,
			path:       "/api/v1/articles",
			wantStatus: http.StatusOK,
			wantBody:   `"id":"a1"`,
		},
		"health": {
			method:     http.MethodGet,
			path:       "/health",
			wantStatus: http.StatusOK,
		},
		"metrics exposed": {
			method:     http.MethodGet,
			path:       "/metrics",
			wantStatus: http.StatusOK,
			wantBody:   "go_goroutines",
		},
		"session requires token": {
			secret:     "test-secret",
			method:     http.MethodPost,
			path:       "/api/v1/session",
			wantStatus: http.StatusUnauthorized,
			wantBody:   `"code":"UNAUTHORIZED_ERROR"`,
		},
		"refresh requires token": {
			secret:     "test-secret",
			method:     http.MethodPost,
			path:       "/api/v1/articles/refresh",
			wantStatus: http.StatusUnauthorized,
		},
		"authenticated routes absent without secret": {
			method:     http.MethodPost,
			path:       "/api/v1/session",
			wantStatus: http.StatusNotFound,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			e := NewHTTPServer(newTestDeps(t, tc.secret), false, serviceName)

			req := httptest.NewRequest(tc.method, tc.path, nil)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
			if tc.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tc.wantBody)
			}
		})
	}
}
