// ABOUTME: Domain-level errors for the news aggregation service
// ABOUTME: Sentinels are checked with errors.Is, ExternalError with errors.As
package domain

import (
	"errors"
	"fmt"
	"time"
)

// Pipeline errors
var (
	// ErrEmptyQueryList indicates the pipeline was started without any search query
	ErrEmptyQueryList = errors.New("no search queries configured")

	// ErrPipelinePanic indicates a panic was recovered at the pipeline boundary
	ErrPipelinePanic = errors.New("pipeline panicked")

	// ErrSearchResultMissingLink indicates a search hit that cannot become an article
	ErrSearchResultMissingLink = errors.New("search result has no link")
)

// External service errors
var (
	// ErrInvalidURL indicates a URL that must not be fetched
	ErrInvalidURL = errors.New("invalid url")

	// ErrContentTooShort indicates extracted content is not worth keeping
	ErrContentTooShort = errors.New("extracted content too short")

	// ErrEmptyTranslation indicates the model returned nothing usable
	ErrEmptyTranslation = errors.New("empty translation returned")
)

// ErrorKind classifies failures reported by external services.
type ErrorKind int

const (
	ErrorKindOther ErrorKind = iota
	ErrorKindRateLimited
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindRateLimited:
		return "rate_limited"
	default:
		return "other"
	}
}

// ExternalError is the tagged error every driver returns for a failed call.
// Retry decisions only look at Kind and ResetAt.
type ExternalError struct {
	Service    string
	Kind       ErrorKind
	ResetAt    *time.Time
	StatusCode int
	Err        error
}

func (e *ExternalError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Service, e.Kind)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ExternalError) Unwrap() error {
	return e.Err
}

// NewRateLimitedError builds a rate-limit error. resetAt may be nil.
func NewRateLimitedError(service string, statusCode int, resetAt *time.Time, err error) *ExternalError {
	return &ExternalError{
		Service:    service,
		Kind:       ErrorKindRateLimited,
		ResetAt:    resetAt,
		StatusCode: statusCode,
		Err:        err,
	}
}

// NewExternalError builds a non-retryable external error.
func NewExternalError(service string, statusCode int, err error) *ExternalError {
	return &ExternalError{
		Service:    service,
		Kind:       ErrorKindOther,
		StatusCode: statusCode,
		Err:        err,
	}
}

// IsRateLimited reports whether err carries a rate-limit classification.
func IsRateLimited(err error) bool {
	var extErr *ExternalError
	if errors.As(err, &extErr) {
		return extErr.Kind == ErrorKindRateLimited
	}
	return false
}

// ResetAtOf returns the server-provided reset time carried by err, if any.
func ResetAtOf(err error) (time.Time, bool) {
	var extErr *ExternalError
	if errors.As(err, &extErr) && extErr.ResetAt != nil {
		return *extErr.ResetAt, true
	}
	return time.Time{}, false
}
