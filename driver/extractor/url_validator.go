package extractor

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"genai-news/domain"
)

const (
	SchemeHTTP  = "http"
	SchemeHTTPS = "https"
)

var blockedPorts = map[string]bool{
	"22": true, "23": true, "25": true, "53": true, "110": true,
	"143": true, "993": true, "995": true, "1433": true, "3306": true,
	"5432": true, "6379": true, "11211": true,
}

var internalSuffixes = []string{".local", ".internal", ".corp", ".lan", ".localhost"}

// URLValidator rejects URLs that would let a search result point the fetcher
// at internal infrastructure.
type URLValidator struct {
	allowPrivate bool
}

func NewURLValidator(allowPrivate bool) *URLValidator {
	return &URLValidator{allowPrivate: allowPrivate}
}

// ValidateString parses and validates a raw URL.
func (v *URLValidator) ValidateString(raw string) (*url.URL, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%w: empty url", domain.ErrInvalidURL)
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidURL, err)
	}
	if err := v.Validate(parsed); err != nil {
		return nil, err
	}
	return parsed, nil
}

// Validate checks scheme, host, port and address range.
func (v *URLValidator) Validate(u *url.URL) error {
	if u.Scheme != SchemeHTTP && u.Scheme != SchemeHTTPS {
		return fmt.Errorf("%w: only http or https schemes allowed", domain.ErrInvalidURL)
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return fmt.Errorf("%w: url must contain a host", domain.ErrInvalidURL)
	}

	if port := u.Port(); port != "" && blockedPorts[port] {
		return fmt.Errorf("%w: port %s is not allowed", domain.ErrInvalidURL, port)
	}

	if !v.allowPrivate && isPrivateHost(host) {
		return fmt.Errorf("%w: access to private networks not allowed", domain.ErrInvalidURL)
	}

	return nil
}

func isPrivateHost(host string) bool {
	if ip := net.ParseIP(host); ip != nil {
		return isPrivateIP(ip)
	}

	if host == "localhost" || host == "metadata.google.internal" {
		return true
	}
	for _, suffix := range internalSuffixes {
		if strings.HasSuffix(host, suffix) {
			return true
		}
	}
	return false
}

func isPrivateIP(ip net.IP) bool {
	return ip.IsLoopback() ||
		ip.IsPrivate() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsUnspecified()
}
