package errors

import (
	"fmt"

	"github.com/dpshade/prompt-overflow/internal/logging"
)

// ErrorHandler provides interface-specific error handling
type ErrorHandler interface {
	HandleError(err error) error
	FormatError(err error) string
}

// CLIErrorHandler handles errors for CLI interface
type CLIErrorHandler struct {
	Verbose bool
}

// NewCLIErrorHandler creates a new CLI error handler
func NewCLIErrorHandler(verbose bool) *CLIErrorHandler {
	return &CLIErrorHandler{
		Verbose: verbose,
	}
}

// HandleError logs the error and returns it formatted for display
func (h *CLIErrorHandler) HandleError(err error) error {
	appErr := GetAppError(err)
	logError(appErr)
	return fmt.Errorf("%s", h.FormatError(appErr))
}

// FormatError formats an error for CLI display
func (h *CLIErrorHandler) FormatError(err error) string {
	appErr := GetAppError(err)

	message := appErr.Message
	if appErr.Details != "" {
		message = fmt.Sprintf("%s (%s)", message, appErr.Details)
	}
	if h.Verbose && appErr.Cause != nil {
		message = fmt.Sprintf("%s\n  caused by: %v", message, appErr.Cause)
	}

	switch appErr.Severity {
	case SeverityCritical:
		return fmt.Sprintf("❌ CRITICAL: %s", message)
	case SeverityError:
		return fmt.Sprintf("❌ ERROR: %s", message)
	case SeverityWarning:
		return fmt.Sprintf("⚠️  WARNING: %s", message)
	case SeverityInfo:
		return fmt.Sprintf("ℹ️  INFO: %s", message)
	default:
		return fmt.Sprintf("❌ %s", message)
	}
}

// TUIErrorHandler handles errors for TUI interface
type TUIErrorHandler struct {
	ShowDetails bool
}

// NewTUIErrorHandler creates a new TUI error handler
func NewTUIErrorHandler(showDetails bool) *TUIErrorHandler {
	return &TUIErrorHandler{
		ShowDetails: showDetails,
	}
}

// HandleError logs the error to the log file
func (h *TUIErrorHandler) HandleError(err error) error {
	appErr := GetAppError(err)
	logError(appErr)
	return appErr
}

// FormatError formats an error for TUI display
func (h *TUIErrorHandler) FormatError(err error) string {
	appErr := GetAppError(err)

	message := appErr.Message
	if appErr.Details != "" {
		message = fmt.Sprintf("%s (%s)", message, appErr.Details)
	}
	if h.ShowDetails && appErr.Cause != nil {
		message = fmt.Sprintf("%s: %v", message, appErr.Cause)
	}

	return message
}

// StatusType maps the error severity to a status bar style name
func (h *TUIErrorHandler) StatusType(err error) string {
	switch GetAppError(err).Severity {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	default:
		return "error"
	}
}

// logError records an AppError with the global logger
func logError(appErr *AppError) {
	fields := []interface{}{
		"code", appErr.Code,
		"category", appErr.Category,
		"severity", appErr.Severity,
	}
	if appErr.Details != "" {
		fields = append(fields, "details", appErr.Details)
	}
	if appErr.Cause != nil {
		fields = append(fields, "cause", appErr.Cause.Error())
	}
	for k, v := range appErr.Context {
		fields = append(fields, k, v)
	}

	switch appErr.Severity {
	case SeverityInfo:
		logging.Logger.Infow(appErr.Message, fields...)
	case SeverityWarning:
		logging.Logger.Warnw(appErr.Message, fields...)
	default:
		logging.Logger.Errorw(appErr.Message, fields...)
	}
}
