// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Search pipeline error codes. Only VALIDATION_FAILED surfaces to the
// caller of a search; the adapter-level codes are absorbed by the
// aggregator and show up in logs and metrics.
const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeAdapterFailure   ErrorCode = "ADAPTER_FAILURE"
	ErrCodeParseFailure     ErrorCode = "PARSE_FAILURE"
	ErrCodeUpstreamTimeout  ErrorCode = "UPSTREAM_TIMEOUT"
	ErrCodeStoreFailure     ErrorCode = "STORE_FAILURE"

	ErrCodeScholarshipNotFound ErrorCode = "SCHOLARSHIP_NOT_FOUND"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	if e.ErrorVariables != nil {
		for k, v := range e.ErrorVariables {
			vars[k] = v
		}
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewValidationFailedError creates a non-retryable criteria validation error.
// This is the only error a search is allowed to fail with.
func NewValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Search criteria validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAdapterFailureError creates a retryable source adapter error. The
// aggregator absorbs it; the adapter's own retry loop is what consumes
// the Retryable flag.
func NewAdapterFailureError(source string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAdapterFailure,
		Message:   fmt.Sprintf("Source adapter '%s' failed", source),
		Details:   err.Error(),
		Retryable: true,
		Metadata:  map[string]interface{}{"source": source},
		Timestamp: time.Now().UTC(),
	}
}

// NewParseFailureError creates a non-retryable payload parse error.
// Retrying the same malformed payload cannot succeed.
func NewParseFailureError(source string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeParseFailure,
		Message:   fmt.Sprintf("Failed to parse response from '%s'", source),
		Details:   err.Error(),
		Retryable: false,
		Metadata:  map[string]interface{}{"source": source},
		Timestamp: time.Now().UTC(),
	}
}

// NewUpstreamTimeoutError creates a retryable upstream timeout error.
func NewUpstreamTimeoutError(source string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUpstreamTimeout,
		Message:   fmt.Sprintf("Upstream '%s' exceeded its deadline", source),
		Details:   "call exceeded the configured timeout",
		Retryable: true,
		Metadata:  map[string]interface{}{"source": source},
		Timestamp: time.Now().UTC(),
	}
}

// NewStoreFailureError creates a retryable scholarship store error.
func NewStoreFailureError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreFailure,
		Message:   "Scholarship store operation failed",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewScholarshipNotFoundError creates a non-retryable lookup error.
func NewScholarshipNotFoundError(id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeScholarshipNotFound,
		Message:   "Scholarship not found",
		Details:   fmt.Sprintf("scholarshipId: %s", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// Generic constructors

func NewBusinessRuleError(message, details string) *StandardError {
	return &StandardError{
		Code:      "BUSINESS_RULE_VIOLATION",
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewResourceNotFoundError(service, details string) *StandardError {
	return &StandardError{
		Code:      "RESOURCE_NOT_FOUND",
		Message:   fmt.Sprintf("Resource not found in %s", service),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewAuthenticationError(details string) *StandardError {
	return &StandardError{
		Code:      "AUTHENTICATION_ERROR",
		Message:   "Authentication failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes.
// They are kept identical so process models can match on either.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeValidationFailed:    "VALIDATION_FAILED",
	ErrCodeAdapterFailure:      "ADAPTER_FAILURE",
	ErrCodeParseFailure:        "PARSE_FAILURE",
	ErrCodeUpstreamTimeout:     "UPSTREAM_TIMEOUT",
	ErrCodeStoreFailure:        "STORE_FAILURE",
	ErrCodeScholarshipNotFound: "SCHOLARSHIP_NOT_FOUND",
}

// GetRetryCount returns the recommended retry count per error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeAdapterFailure,
		ErrCodeStoreFailure:
		return 3 // Retryable technical errors

	case ErrCodeUpstreamTimeout:
		return 2 // Partial retry for timeouts

	default:
		return 0 // Validation and parse errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code) // Fallback
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// IsValidationError reports whether err is the criteria-validation failure
// that must surface to the caller instead of being absorbed.
func IsValidationError(err error) bool {
	stdErr, ok := err.(*StandardError)
	return ok && stdErr.Code == ErrCodeValidationFailed
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	case strings.Contains(codeStr, "TIMEOUT"):
		return "TIMEOUT"
	case strings.Contains(codeStr, "PARSE"):
		return "PARSE"
	case strings.Contains(codeStr, "STORE") || strings.Contains(codeStr, "SCHOLARSHIP"):
		return "STORE"
	case strings.Contains(codeStr, "ADAPTER") || strings.Contains(codeStr, "EXTERNAL"):
		return "ADAPTER"
	default:
		return "OTHER"
	}
}
