// ABOUTME: Classifies upstream HTTP responses into tagged external errors
// ABOUTME: 429 and 503 with Retry-After become rate-limited errors carrying the reset time
package errors

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"genai-news/domain"
)

const maxErrorBodyBytes = 512

// ClassifyHTTPResponse returns nil for 2xx responses and a *domain.ExternalError otherwise.
// It reads at most a short prefix of the body for the error message; the caller still closes it.
func ClassifyHTTPResponse(service string, resp *http.Response, now time.Time) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	cause := fmt.Errorf("unexpected status: %s", resp.Status)
	if body := readErrorBody(resp.Body); body != "" {
		cause = fmt.Errorf("unexpected status: %s: %s", resp.Status, body)
	}

	if isRateLimitStatus(resp) {
		return domain.NewRateLimitedError(service, resp.StatusCode, ParseResetAt(resp.Header, now), cause)
	}
	return domain.NewExternalError(service, resp.StatusCode, cause)
}

// ClassifyTransportError wraps a failed round trip.
func ClassifyTransportError(service string, err error) error {
	return domain.NewExternalError(service, 0, err)
}

func isRateLimitStatus(resp *http.Response) bool {
	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return true
	case http.StatusServiceUnavailable:
		return resp.Header.Get("Retry-After") != ""
	default:
		return false
	}
}

// ParseResetAt reads the server reset time from Retry-After (delta seconds
// or HTTP date) or X-RateLimit-Reset (unix seconds). It returns nil when
// neither header carries a usable value.
func ParseResetAt(h http.Header, now time.Time) *time.Time {
	if v := strings.TrimSpace(h.Get("Retry-After")); v != "" {
		if secs, err := strconv.ParseInt(v, 10, 64); err == nil && secs >= 0 {
			t := now.Add(time.Duration(secs) * time.Second)
			return &t
		}
		if t, err := http.ParseTime(v); err == nil {
			return &t
		}
	}

	if v := strings.TrimSpace(h.Get("X-RateLimit-Reset")); v != "" {
		if secs, err := strconv.ParseInt(v, 10, 64); err == nil && secs > 0 {
			t := time.Unix(secs, 0)
			return &t
		}
	}

	return nil
}

func readErrorBody(body io.Reader) string {
	if body == nil {
		return ""
	}
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBodyBytes))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// IsRetryableHTTPStatus reports whether a client may retry a request that got status.
func IsRetryableHTTPStatus(status int) bool {
	switch status {
	case http.StatusRequestTimeout, http.StatusTooManyRequests,
		http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
