// Package errors provides the standardized error taxonomy of the intake service.
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
	ErrCodeValidationFailed   ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidRequest     ErrorCode = "INVALID_REQUEST"
	ErrCodeAttachmentTooLarge ErrorCode = "ATTACHMENT_TOO_LARGE"
	ErrCodeRateLimited        ErrorCode = "RATE_LIMITED"

	ErrCodePersistenceFailed  ErrorCode = "PERSISTENCE_FAILED"
	ErrCodeNotificationFailed ErrorCode = "NOTIFICATION_FAILED"
	ErrCodeDecodeFailed       ErrorCode = "DECODE_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
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
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata returns e with key set in its metadata map.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. Error Constructors
// ==========================

// NewValidationFailedError is returned when a submission misses required data.
// The candidate-facing message is fixed; details carry the field list.
func NewValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Missing required fields",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidRequestError covers bodies that are not a readable multipart form.
func NewInvalidRequestError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequest,
		Message:   "Invalid submission",
		Details:   errorDetails(err),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewAttachmentTooLargeError reports an attachment part above the server maximum.
func NewAttachmentTooLargeError(part string, limit int64) *StandardError {
	return &StandardError{
		Code:      ErrCodeAttachmentTooLarge,
		Message:   "Attachment is too large",
		Details:   fmt.Sprintf("part: %s, limit: %d bytes", part, limit),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRateLimitedError is returned by the per-client submission throttle.
func NewRateLimitedError(client string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRateLimited,
		Message:   "Too many submissions, please try again later",
		Details:   fmt.Sprintf("client: %s", client),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewPersistenceFailedError wraps a storage backend failure.
func NewPersistenceFailedError(strategy string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePersistenceFailed,
		Message:   "Failed to process application",
		Details:   fmt.Sprintf("strategy: %s, error: %s", strategy, errorDetails(err)),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewNotificationFailedError wraps a delivery failure. It is logged, never returned to a client.
func NewNotificationFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationFailed,
		Message:   fmt.Sprintf("Notification via %s failed", channel),
		Details:   errorDetails(err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewDecodeFailedError records a structured field that could not be parsed.
func NewDecodeFailedError(field string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDecodeFailed,
		Message:   "Structured field could not be decoded",
		Details:   fmt.Sprintf("field: %s, error: %s", field, errorDetails(err)),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewInternalError is the fallback for anything outside the taxonomy.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Failed to process application",
		Details:   errorDetails(err),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func errorDetails(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// ==========================
// 3. Utility Functions
// ==========================

// AsStandardError extracts a StandardError from err's chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// HTTPStatus maps an error code to the response status the intake endpoint uses.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidationFailed, ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case ErrCodeAttachmentTooLarge:
		return http.StatusRequestEntityTooLarge
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// IsRetryableErrorCode reports whether a client may retry the same request later.
func IsRetryableErrorCode(code ErrorCode) bool {
	switch code {
	case ErrCodeRateLimited, ErrCodePersistenceFailed, ErrCodeNotificationFailed:
		return true
	default:
		return false
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	case strings.Contains(codeStr, "ATTACHMENT") || strings.Contains(codeStr, "DECODE"):
		return "TRANSPORT"
	case strings.Contains(codeStr, "RATE"):
		return "THROTTLE"
	case strings.Contains(codeStr, "PERSISTENCE"):
		return "DATABASE"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	default:
		return "OTHER"
	}
}
