package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestCategorizeError(t *testing.T) {
	testCases := []struct {
		code     ErrorCode
		category ErrorCategory
		severity ErrorSeverity
	}{
		{ErrCodeFetchFailed, CategoryStorage, SeverityError},
		{ErrCodeNotFound, CategoryService, SeverityInfo},
		{ErrCodeDuplicateID, CategoryValidation, SeverityWarning},
		{ErrCodeClipboard, CategorySystem, SeverityWarning},
		{ErrCodeUnauthorized, CategoryAuthentication, SeverityError},
		{ErrorCode("SOMETHING_ELSE"), CategorySystem, SeverityError},
	}

	for _, tc := range testCases {
		t.Run(string(tc.code), func(t *testing.T) {
			err := NewAppError(tc.code, "message")
			if err.Category != tc.category {
				t.Errorf("Expected category %s, got %s", tc.category, err.Category)
			}
			if err.Severity != tc.severity {
				t.Errorf("Expected severity %s, got %s", tc.severity, err.Severity)
			}
		})
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := FetchError("remote table", cause)

	if !stderrors.Is(err, cause) {
		t.Error("Expected wrapped error to match its cause")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("Expected cause in message, got '%s'", err.Error())
	}
	if !HasCode(fmt.Errorf("outer: %w", err), ErrCodeFetchFailed) {
		t.Error("Expected HasCode to see through wrapping")
	}
}

func TestGetAppError(t *testing.T) {
	plain := stderrors.New("boom")
	appErr := GetAppError(plain)
	if appErr.Code != ErrCodeInternalError {
		t.Errorf("Expected plain errors to become internal errors, got %s", appErr.Code)
	}

	nf := NotFoundError("prompt 'x'")
	if GetAppError(fmt.Errorf("wrapped: %w", nf)) != nf {
		t.Error("Expected GetAppError to unwrap to the original AppError")
	}
	if !IsAppError(nf) || IsAppError(plain) {
		t.Error("IsAppError returned the wrong answer")
	}
}

func TestCLIErrorHandlerFormat(t *testing.T) {
	h := NewCLIErrorHandler(false)
	err := NotFoundError("prompt 'emial'").WithDetails("did you mean: email")

	msg := h.FormatError(err)
	if !strings.HasPrefix(msg, "ℹ️  INFO:") {
		t.Errorf("Expected info prefix, got '%s'", msg)
	}
	if !strings.Contains(msg, "did you mean: email") {
		t.Errorf("Expected details in message, got '%s'", msg)
	}

	verbose := NewCLIErrorHandler(true).FormatError(FetchError("remote", stderrors.New("timeout")))
	if !strings.Contains(verbose, "caused by: timeout") {
		t.Errorf("Expected cause in verbose output, got '%s'", verbose)
	}
}

func TestTUIErrorHandler(t *testing.T) {
	h := NewTUIErrorHandler(false)

	if got := h.StatusType(NotFoundError("x")); got != "info" {
		t.Errorf("Expected info status, got %s", got)
	}
	if got := h.StatusType(ClipboardError(stderrors.New("no xclip"))); got != "warning" {
		t.Errorf("Expected warning status, got %s", got)
	}
	if got := h.StatusType(stderrors.New("plain")); got != "error" {
		t.Errorf("Expected error status, got %s", got)
	}
	if got := h.FormatError(FetchError("file library", stderrors.New("denied"))); got != "Failed to fetch prompts from file library" {
		t.Errorf("Unexpected message: %s", got)
	}
}
