// ABOUTME: Fetches article pages and reduces them to readable plain text
// ABOUTME: URLs are vetted against SSRF targets and requests are paced per host
package extractor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"genai-news/config"
	"genai-news/domain"
	apperrors "genai-news/utils/errors"
	"genai-news/utils/html_parser"
	"genai-news/utils/httpclient"
	"genai-news/utils/rate_limiter"
)

const (
	serviceName         = "extractor"
	defaultMaxBodyBytes = 5 << 20
)

type Extractor struct {
	client       *http.Client
	limiter      *rate_limiter.HostRateLimiter
	validator    *URLValidator
	maxBodyBytes int64
	logger       *slog.Logger
	now          func() time.Time
}

type Option func(*Extractor)

// WithAllowPrivateHosts lifts the private address check. Only tests against
// local servers need it.
func WithAllowPrivateHosts() Option {
	return func(e *Extractor) { e.validator = NewURLValidator(true) }
}

func WithClock(now func() time.Time) Option {
	return func(e *Extractor) { e.now = now }
}

func NewExtractor(cfg config.ExtractorConfig, httpCfg config.HTTPConfig, logger *slog.Logger, opts ...Option) *Extractor {
	e := &Extractor{
		limiter:      rate_limiter.NewHostRateLimiter(cfg.HostInterval),
		validator:    NewURLValidator(false),
		maxBodyBytes: cfg.MaxBodyBytes,
		logger:       logger,
		now:          time.Now,
	}
	if e.maxBodyBytes <= 0 {
		e.maxBodyBytes = defaultMaxBodyBytes
	}
	for _, opt := range opts {
		opt(e)
	}

	client := httpclient.New(httpCfg, cfg.Timeout, func(req *http.Request) error {
		return e.validator.Validate(req.URL)
	})
	e.client = httpclient.WithUserAgent(client, httpCfg.UserAgent)
	return e
}

// ExtractFromURL downloads the page and returns its article text.
func (e *Extractor) ExtractFromURL(ctx context.Context, urlStr string) (string, error) {
	parsed, err := e.validator.ValidateString(urlStr)
	if err != nil {
		return "", err
	}

	if err := e.limiter.WaitForHost(ctx, parsed.String()); err != nil {
		return "", fmt.Errorf("wait for host %s: %w", parsed.Hostname(), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")
	req.Header.Set("Accept-Language", "en-US,en;q=0.8,ja;q=0.6")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", apperrors.ClassifyTransportError(serviceName, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := apperrors.ClassifyHTTPResponse(serviceName, resp, e.now()); err != nil {
		return "", err
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" && !isTextual(ct) {
		return "", domain.NewExternalError(serviceName, resp.StatusCode,
			fmt.Errorf("unsupported content type %q", ct))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, e.maxBodyBytes))
	if err != nil {
		return "", apperrors.ClassifyTransportError(serviceName, fmt.Errorf("read body: %w", err))
	}

	text := html_parser.ExtractArticleText(string(body))
	if text == "" {
		return "", fmt.Errorf("no readable text at %s: %w", parsed.Host, domain.ErrContentTooShort)
	}

	e.logger.DebugContext(ctx, "extracted article text",
		"host", parsed.Hostname(),
		"bytes", len(body),
		"text_length", len([]rune(text)))
	return text, nil
}

func isTextual(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "html") || strings.HasPrefix(ct, "text/")
}
