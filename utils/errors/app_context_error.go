// ABOUTME: Structured error type following the AppContextError pattern
// ABOUTME: Provides rich context, HTTP mapping, retryability, and secure client responses
package errors

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// Error codes shared by handlers and the error middleware.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED_ERROR"
	CodeNotFound     = "NOT_FOUND_ERROR"
	CodeRateLimit    = "RATE_LIMIT_ERROR"
	CodeExternalAPI  = "EXTERNAL_API_ERROR"
	CodeTimeout      = "TIMEOUT_ERROR"
	CodeUnavailable  = "SERVICE_UNAVAILABLE"
	CodeInternal     = "INTERNAL_ERROR"
)

// AppContextError represents an error with rich context information
type AppContextError struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Layer     string                 `json:"layer,omitempty"`     // handler, usecase, service, driver
	Component string                 `json:"component,omitempty"` // Specific component name
	Operation string                 `json:"operation,omitempty"` // Specific operation/method name
	Cause     error                  `json:"-"`                   // Underlying error (not serialized)
	Context   map[string]interface{} `json:"context,omitempty"`
	ErrorID   string                 `json:"-"` // Unique ID for log correlation
}

// Error implements the error interface
func (e *AppContextError) Error() string {
	var prefix string
	if e.Layer != "" && e.Component != "" && e.Operation != "" {
		prefix = fmt.Sprintf("[%s:%s:%s] ", e.Layer, e.Component, e.Operation)
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s%s: %s (caused by: %v)", prefix, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s%s: %s", prefix, e.Code, e.Message)
}

// Unwrap returns the underlying error for error chain unwrapping
func (e *AppContextError) Unwrap() error {
	return e.Cause
}

// HTTPStatusCode maps error codes to HTTP status codes
func (e *AppContextError) HTTPStatusCode() int {
	switch e.Code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeRateLimit:
		return http.StatusTooManyRequests
	case CodeExternalAPI:
		return http.StatusBadGateway
	case CodeTimeout:
		return http.StatusGatewayTimeout
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// IsRetryable determines if the error represents a retryable condition
func (e *AppContextError) IsRetryable() bool {
	switch e.Code {
	case CodeRateLimit, CodeTimeout, CodeExternalAPI, CodeUnavailable:
		return true
	default:
		return false
	}
}

var safeMessages = map[string]string{
	CodeExternalAPI: "Unable to connect to external service. Please try again.",
	CodeRateLimit:   "Too many requests. Please wait before trying again.",
	CodeTimeout:     "The request took too long. Please try again.",
	CodeUnavailable: "The service is not ready yet. Please try again shortly.",
	CodeInternal:    "An unexpected error occurred. Please try again later.",
}

// SafeMessage returns a user-friendly message that does not leak internal details.
// Validation, unauthorized and not-found messages are written for clients and returned as is.
func (e *AppContextError) SafeMessage() string {
	if msg, ok := safeMessages[e.Code]; ok {
		return msg
	}
	switch e.Code {
	case CodeValidation, CodeUnauthorized, CodeNotFound:
		return e.Message
	}
	return "An error occurred."
}

// SecureHTTPResponse represents a secure HTTP error response that does not leak internal details
type SecureHTTPResponse struct {
	Error SecureErrorDetail `json:"error"`
}

type SecureErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	ErrorID   string `json:"error_id,omitempty"`
	Retryable bool   `json:"retryable"`
}

func (e *AppContextError) ToSecureHTTPResponse() SecureHTTPResponse {
	return SecureHTTPResponse{
		Error: SecureErrorDetail{
			Code:      e.Code,
			Message:   e.SafeMessage(),
			ErrorID:   e.ErrorID,
			Retryable: e.IsRetryable(),
		},
	}
}

// generateErrorID generates a short unique error ID for log correlation
func generateErrorID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// NewAppContextError creates a new AppContextError with full context
func NewAppContextError(
	code, message, layer, component, operation string,
	cause error,
	context map[string]interface{},
) *AppContextError {
	if context == nil {
		context = make(map[string]interface{})
	}

	return &AppContextError{
		Code:      code,
		Message:   message,
		Layer:     layer,
		Component: component,
		Operation: operation,
		Cause:     cause,
		Context:   context,
		ErrorID:   generateErrorID(),
	}
}

// NewValidationContextError creates a validation error with context
func NewValidationContextError(message, layer, component, operation string, context map[string]interface{}) *AppContextError {
	return NewAppContextError(CodeValidation, message, layer, component, operation, nil, context)
}

// NewUnauthorizedContextError creates an authentication error with context
func NewUnauthorizedContextError(message, layer, component, operation string, cause error) *AppContextError {
	return NewAppContextError(CodeUnauthorized, message, layer, component, operation, cause, nil)
}

// NewUnavailableContextError signals that the service cannot answer yet
func NewUnavailableContextError(message, layer, component, operation string, cause error) *AppContextError {
	return NewAppContextError(CodeUnavailable, message, layer, component, operation, cause, nil)
}

// NewInternalContextError creates an internal error with context
func NewInternalContextError(message, layer, component, operation string, cause error, context map[string]interface{}) *AppContextError {
	return NewAppContextError(CodeInternal, message, layer, component, operation, cause, context)
}

// NewTimeoutContextError creates a timeout error with context
func NewTimeoutContextError(message, layer, component, operation string, cause error) *AppContextError {
	return NewAppContextError(CodeTimeout, message, layer, component, operation, cause, nil)
}
