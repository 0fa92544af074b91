package clipboard

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/atotto/clipboard"
)

// CopiedMessage is the status text shown after a successful copy
const CopiedMessage = "Copied to clipboard!"

// Writer writes text to a clipboard
type Writer interface {
	WriteAll(text string) error
}

// SystemWriter writes to the system clipboard
type SystemWriter struct{}

// WriteAll copies text to the system clipboard
func (SystemWriter) WriteAll(text string) error {
	if clipboard.Unsupported {
		return NewClipboardError()
	}
	return clipboard.WriteAll(text)
}

// ClipboardError represents an error when no clipboard utility is available
type ClipboardError struct {
	OS      string
	Message string
}

func (e *ClipboardError) Error() string {
	return e.Message
}

// NewClipboardError creates a new ClipboardError with helpful installation instructions
func NewClipboardError() *ClipboardError {
	var msg string
	switch runtime.GOOS {
	case "linux", "freebsd", "netbsd", "openbsd":
		msg = "no clipboard utility found. " + GetInstallInstructions()
	default:
		msg = fmt.Sprintf("clipboard not supported on %s", runtime.GOOS)
	}

	return &ClipboardError{
		OS:      runtime.GOOS,
		Message: msg,
	}
}

// Copy copies text to the system clipboard
func Copy(text string) error {
	return SystemWriter{}.WriteAll(text)
}

// CopyWithFallback writes text with w and returns a status message
func CopyWithFallback(w Writer, text string) (string, error) {
	if err := w.WriteAll(text); err != nil {
		var clipErr *ClipboardError
		if errors.As(err, &clipErr) {
			// Missing utilities already carry installation instructions
			return "", err
		}
		return "", fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return CopiedMessage, nil
}

// IsClipboardAvailable checks if clipboard functionality is available
func IsClipboardAvailable() bool {
	return !clipboard.Unsupported
}

// GetInstallInstructions returns installation instructions for clipboard utilities
func GetInstallInstructions() string {
	switch runtime.GOOS {
	case "linux", "freebsd", "netbsd", "openbsd":
		return "Install a clipboard utility:\n" +
			"  • Ubuntu/Debian: sudo apt install xclip\n" +
			"  • Fedora/RHEL: sudo dnf install xclip\n" +
			"  • Arch: sudo pacman -S xclip\n" +
			"  • For Wayland: install wl-clipboard"
	case "darwin":
		return "pbcopy should be available by default on macOS"
	case "windows":
		return "clip should be available by default on Windows"
	default:
		return fmt.Sprintf("Clipboard not supported on %s", runtime.GOOS)
	}
}
