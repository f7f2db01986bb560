// Package errors provides standardized error classification for the demo pipeline and its HTTP surface.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeConfiguration ErrorCode = "CONFIGURATION_ERROR"
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodeDependency    ErrorCode = "DEPENDENCY_ERROR"
	ErrCodeParse         ErrorCode = "PARSE_ERROR"
	ErrCodeTimeout       ErrorCode = "TIMEOUT_ERROR"
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeRateLimited   ErrorCode = "RATE_LIMITED"
	ErrCodeInternal      ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
// Error returns Message unchanged so stable messages reach API callers verbatim.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return e.Message
}

// Unwrap exposes the wrapped cause, if any.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// String includes the code, for logs.
func (e *StandardError) String() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// WithCause attaches an underlying error so errors.Is / errors.As can see through it.
func (e *StandardError) WithCause(err error) *StandardError {
	e.cause = err
	if err != nil && e.Details == "" {
		e.Details = err.Error()
	}
	return e
}

// WithMetadata merges metadata into the error.
func (e *StandardError) WithMetadata(kv map[string]interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{}, len(kv))
	}
	for k, v := range kv {
		e.Metadata[k] = v
	}
	return e
}

// ==========================
// 2. Error Constructors
// ==========================

// NewConfigurationError reports a missing or invalid credential or setting. Never retryable.
func NewConfigurationError(message string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfiguration,
		Message:   message,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationError aggregates field problems into one error.
func NewValidationError(problems []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidation,
		Message:   "Request validation failed",
		Details:   strings.Join(problems, "; "),
		Retryable: false,
		Metadata:  map[string]interface{}{"problems": problems},
		Timestamp: time.Now().UTC(),
	}
}

// NewDependencyError wraps a failure of an external service.
func NewDependencyError(service, message string, err error) *StandardError {
	e := &StandardError{
		Code:      ErrCodeDependency,
		Message:   message,
		Retryable: true,
		Metadata:  map[string]interface{}{"service": service},
		Timestamp: time.Now().UTC(),
	}
	return e.WithCause(err)
}

// NewParseError reports unusable output from an upstream.
func NewParseError(service string, err error) *StandardError {
	e := &StandardError{
		Code:      ErrCodeParse,
		Message:   fmt.Sprintf("Failed to parse %s response", service),
		Retryable: false,
		Metadata:  map[string]interface{}{"service": service},
		Timestamp: time.Now().UTC(),
	}
	return e.WithCause(err)
}

// NewTimeoutError reports a dependency that did not answer in time.
func NewTimeoutError(service string, err error) *StandardError {
	e := &StandardError{
		Code:      ErrCodeTimeout,
		Message:   fmt.Sprintf("%s timed out", service),
		Retryable: true,
		Metadata:  map[string]interface{}{"service": service},
		Timestamp: time.Now().UTC(),
	}
	return e.WithCause(err)
}

// NewNotFoundError reports a lookup with no result.
func NewNotFoundError(resource, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotFound,
		Message:   fmt.Sprintf("%s not found", resource),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRateLimitedError is returned to clients that exceed their request budget.
func NewRateLimitedError(retryAfter time.Duration) *StandardError {
	return &StandardError{
		Code:      ErrCodeRateLimited,
		Message:   "Too many requests, please try again later",
		Retryable: true,
		Metadata:  map[string]interface{}{"retryAfterSeconds": int(retryAfter.Seconds() + 0.5)},
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError hides err behind a generic message.
func NewInternalError(err error) *StandardError {
	e := &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Internal server error",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
	return e.WithCause(err)
}

// ==========================
// 3. Utility Functions
// ==========================

// AsStandard normalizes any error to a StandardError. Plain errors become INTERNAL_ERROR.
func AsStandard(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// CodeOf returns the code of err, or INTERNAL_ERROR for unclassified errors.
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ErrCodeInternal
}

// IsConfigurationError reports whether err is a missing-credential style failure.
func IsConfigurationError(err error) bool {
	return err != nil && CodeOf(err) == ErrCodeConfiguration
}

// HTTPStatus maps an error code to the status the API answers with.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidation, ErrCodeParse:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeDependency:
		return http.StatusBadGateway
	case ErrCodeConfiguration:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	switch code {
	case ErrCodeDependency, ErrCodeTimeout, ErrCodeRateLimited:
		return true
	default:
		return false
	}
}

// GetErrorCategory groups codes for log aggregation.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeConfiguration:
		return "CONFIGURATION"
	case ErrCodeValidation, ErrCodeParse:
		return "VALIDATION"
	case ErrCodeDependency, ErrCodeTimeout:
		return "DEPENDENCY"
	case ErrCodeRateLimited:
		return "THROTTLING"
	default:
		return "OTHER"
	}
}
