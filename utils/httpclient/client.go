// ABOUTME: Builds the outbound HTTP clients shared by the search, extractor and news-creator drivers
// ABOUTME: Pooling, timeouts and the redirect budget come from config.HTTPConfig
package httpclient

import (
	"fmt"
	"net/http"
	"time"

	"genai-news/config"
)

// RedirectCheck vets every redirect target before it is followed.
type RedirectCheck func(req *http.Request) error

// New returns a pooled client. A non-zero timeout overrides cfg.Timeout.
func New(cfg config.HTTPConfig, timeout time.Duration, check RedirectCheck) *http.Client {
	if timeout <= 0 {
		timeout = cfg.Timeout
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.IdleConnTimeout,
		TLSHandshakeTimeout: cfg.TLSHandshakeTimeout,
	}

	maxRedirects := cfg.MaxRedirects
	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			if check != nil {
				return check(req)
			}
			return nil
		},
	}
}

// UserAgentTransport sets the User-Agent header on requests that do not carry one.
type UserAgentTransport struct {
	Base      http.RoundTripper
	UserAgent string
}

func (t *UserAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	if t.UserAgent == "" || req.Header.Get("User-Agent") != "" {
		return base.RoundTrip(req)
	}

	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", t.UserAgent)
	return base.RoundTrip(clone)
}

// WithUserAgent wraps the client's transport so every request carries userAgent.
func WithUserAgent(client *http.Client, userAgent string) *http.Client {
	client.Transport = &UserAgentTransport{Base: client.Transport, UserAgent: userAgent}
	return client
}
