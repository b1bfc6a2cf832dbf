package extractor

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genai-news/config"
	"genai-news/domain"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestExtractor(opts ...Option) *Extractor {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.ExtractorConfig{Timeout: 5 * time.Second, MaxBodyBytes: 1 << 20}
	httpCfg := config.HTTPConfig{
		Timeout:             5 * time.Second,
		MaxIdleConns:        2,
		MaxIdleConnsPerHost: 1,
		IdleConnTimeout:     time.Second,
		TLSHandshakeTimeout: time.Second,
		UserAgent:           "GenAINewsBot-test",
		MaxRedirects:        3,
	}
	opts = append([]Option{WithAllowPrivateHosts(), WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewExtractor(cfg, httpCfg, logger, opts...)
}

func TestExtractor_ExtractFromURL(t *testing.T) {
	body := strings.Repeat("Large language models now draft most first-pass summaries in the newsroom. ", 6)
	page := `<html><head><title>t</title></head><body><nav>menu</nav><article><h1>Headline</h1><p>` +
		body + `</p></article><footer>legal</footer></body></html>`

	tests := map[string]struct {
		handler       http.HandlerFunc
		wantContains  string
		wantErrIs     error
		wantRateLimit bool
		wantResetAt   *time.Time
	}{
		"html page": {
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/html; charset=utf-8")
				_, _ = w.Write([]byte(page))
			},
			wantContains: "Large language models now draft",
		},
		"rate limited with retry after": {
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Retry-After", "30")
				w.WriteHeader(http.StatusTooManyRequests)
			},
			wantRateLimit: true,
			wantResetAt:   timePtr(fixedNow.Add(30 * time.Second)),
		},
		"not found is a plain external error": {
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.NotFound(w, r)
			},
		},
		"binary content rejected": {
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/pdf")
				_, _ = w.Write([]byte("%PDF-1.7"))
			},
		},
		"empty page": {
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/html")
				_, _ = w.Write([]byte("<html><body><script>x()</script></body></html>"))
			},
			wantErrIs: domain.ErrContentTooShort,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(tc.handler)
			defer server.Close()

			text, err := newTestExtractor().ExtractFromURL(context.Background(), server.URL+"/article")

			if tc.wantContains != "" {
				require.NoError(t, err)
				assert.Contains(t, text, tc.wantContains)
				assert.NotContains(t, text, "menu")
				return
			}

			require.Error(t, err)
			assert.Empty(t, text)
			if tc.wantErrIs != nil {
				assert.ErrorIs(t, err, tc.wantErrIs)
			}
			assert.Equal(t, tc.wantRateLimit, domain.IsRateLimited(err))
			if tc.wantResetAt != nil {
				resetAt, ok := domain.ResetAtOf(err)
				require.True(t, ok)
				assert.True(t, tc.wantResetAt.Equal(resetAt))
			}
		})
	}
}

func TestExtractor_SendsUserAgent(t *testing.T) {
	var gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("plain body text"))
	}))
	defer server.Close()

	_, err := newTestExtractor().ExtractFromURL(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "GenAINewsBot-test", gotAgent)
}

func TestExtractor_RejectsPrivateTargets(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	e := NewExtractor(config.ExtractorConfig{Timeout: time.Second}, config.HTTPConfig{MaxRedirects: 1}, logger)

	_, err := e.ExtractFromURL(context.Background(), "http://127.0.0.1:8080/")
	assert.ErrorIs(t, err, domain.ErrInvalidURL)
}

func TestExtractor_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("never read"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestExtractor().ExtractFromURL(ctx, server.URL)
	assert.Error(t, err)
	assert.False(t, domain.IsRateLimited(err))
}

func timePtr(t time.Time) *time.Time { return &t }
