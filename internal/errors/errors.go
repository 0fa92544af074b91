// Package errors provides unified error handling across the prompt-overflow system.
//
// SYSTEM ARCHITECTURE ROLE:
// This module serves as the foundation for error handling across both interfaces (CLI, TUI).
// It standardizes error representation and categorization throughout the application.
//
// KEY RESPONSIBILITIES:
// - Define standardized error codes and categories for consistent error identification
// - Provide structured error types (AppError) with severity levels and context
// - Enable interface-specific error formatting while maintaining consistent core error data
//
// INTEGRATION POINTS:
// - internal/storage: repositories wrap fetch failures with FetchError()
// - internal/service/service.go: lookups return NotFoundError() with suggestions
// - internal/config/config.go: invalid settings are reported with ConfigError()
// - internal/validation/validator.go: collection checks return ValidationError()
// - internal/cli: CLIErrorHandler formats AppErrors for terminal display
// - internal/ui/model.go: TUIErrorHandler formats and styles errors in the status bar
//
// USAGE PATTERNS:
// - Create errors: Use constructor functions like FetchError(), NotFoundError()
// - Wrap errors: Use Wrap() to add context to existing errors
// - Check types: Use IsAppError() and GetAppError() for type-safe error handling
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized error codes
type ErrorCode string

const (
	// Validation errors
	ErrCodeValidation   ErrorCode = "VALIDATION_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeDuplicateID  ErrorCode = "DUPLICATE_ID"

	// Service errors
	ErrCodeInternalError ErrorCode = "INTERNAL_ERROR"
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"

	// Repository errors
	ErrCodeFetchFailed    ErrorCode = "FETCH_FAILED"
	ErrCodeStorageFailure ErrorCode = "STORAGE_FAILURE"
	ErrCodeFileCorrupted  ErrorCode = "FILE_CORRUPTED"

	// Network errors
	ErrCodeNetworkFailure ErrorCode = "NETWORK_FAILURE"
	ErrCodeUnauthorized   ErrorCode = "UNAUTHORIZED"

	// Environment errors
	ErrCodeClipboard ErrorCode = "CLIPBOARD_FAILURE"
	ErrCodeConfig    ErrorCode = "CONFIG_ERROR"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

const (
	SeverityInfo     ErrorSeverity = "info"
	SeverityWarning  ErrorSeverity = "warning"
	SeverityError    ErrorSeverity = "error"
	SeverityCritical ErrorSeverity = "critical"
)

// ErrorCategory represents the category of an error
type ErrorCategory string

const (
	CategoryValidation     ErrorCategory = "validation"
	CategoryService        ErrorCategory = "service"
	CategoryStorage        ErrorCategory = "storage"
	CategoryNetwork        ErrorCategory = "network"
	CategoryAuthentication ErrorCategory = "authentication"
	CategorySystem         ErrorCategory = "system"
)

// AppError represents a standardized application error
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Severity  ErrorSeverity          `json:"severity"`
	Category  ErrorCategory          `json:"category"`
	Cause     error                  `json:"-"`
	Context   map[string]interface{} `json:"context,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Details != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Details)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message string) *AppError {
	category, severity := categorizeError(code)
	return &AppError{
		Code:      code,
		Message:   message,
		Severity:  severity,
		Category:  category,
		Timestamp: time.Now(),
	}
}

// Wrap wraps an existing error with application error context
func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := NewAppError(code, message)
	appErr.Cause = err
	return appErr
}

// categorizeError determines the category and severity based on error code
func categorizeError(code ErrorCode) (ErrorCategory, ErrorSeverity) {
	switch code {
	case ErrCodeValidation, ErrCodeInvalidInput, ErrCodeDuplicateID:
		return CategoryValidation, SeverityWarning

	case ErrCodeInternalError:
		return CategoryService, SeverityCritical
	case ErrCodeNotFound:
		return CategoryService, SeverityInfo

	case ErrCodeFetchFailed, ErrCodeStorageFailure, ErrCodeFileCorrupted:
		return CategoryStorage, SeverityError

	case ErrCodeNetworkFailure:
		return CategoryNetwork, SeverityError
	case ErrCodeUnauthorized:
		return CategoryAuthentication, SeverityError

	case ErrCodeClipboard:
		return CategorySystem, SeverityWarning
	case ErrCodeConfig:
		return CategorySystem, SeverityError

	default:
		return CategorySystem, SeverityError
	}
}

// IsAppError checks if an error is, or wraps, an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetAppError extracts an AppError from an error, or converts it to one
func GetAppError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, ErrCodeInternalError, "Internal error occurred")
}

// HasCode reports whether err is an AppError with the given code
func HasCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Code == code
}

// Common error constructors for frequently used errors
func ValidationError(message string) *AppError {
	return NewAppError(ErrCodeValidation, message)
}

func NotFoundError(resource string) *AppError {
	return NewAppError(ErrCodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InternalError(message string) *AppError {
	return NewAppError(ErrCodeInternalError, message)
}

// FetchError reports a failed load of the prompt collection
func FetchError(source string, err error) *AppError {
	return Wrap(err, ErrCodeFetchFailed, fmt.Sprintf("Failed to fetch prompts from %s", source))
}

func StorageError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeStorageFailure, fmt.Sprintf("Storage operation failed: %s", operation))
}

func NetworkError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeNetworkFailure, fmt.Sprintf("Network operation failed: %s", operation))
}

func ClipboardError(err error) *AppError {
	return Wrap(err, ErrCodeClipboard, "Failed to copy to clipboard")
}

func ConfigError(message string) *AppError {
	return NewAppError(ErrCodeConfig, message)
}
