package clipboard

import (
	"errors"
	"runtime"
	"strings"
	"testing"
)

type fakeWriter struct {
	text string
	err  error
}

func (f *fakeWriter) WriteAll(text string) error {
	if f.err != nil {
		return f.err
	}
	f.text = text
	return nil
}

func TestClipboardError(t *testing.T) {
	err := NewClipboardError()

	if err.OS != runtime.GOOS {
		t.Errorf("Expected OS to be %s, got %s", runtime.GOOS, err.OS)
	}

	if err.Error() == "" {
		t.Error("Error message should not be empty")
	}

	var clipErr *ClipboardError
	if !errors.As(err, &clipErr) {
		t.Error("Should be able to unwrap as ClipboardError")
	}
}

func TestGetInstallInstructions(t *testing.T) {
	instructions := GetInstallInstructions()

	if instructions == "" {
		t.Error("Install instructions should not be empty")
	}

	switch runtime.GOOS {
	case "linux":
		if !strings.Contains(instructions, "xclip") {
			t.Error("Linux instructions should mention xclip")
		}
	case "darwin":
		if !strings.Contains(instructions, "pbcopy") {
			t.Error("macOS instructions should mention pbcopy")
		}
	case "windows":
		if !strings.Contains(instructions, "clip") {
			t.Error("Windows instructions should mention clip")
		}
	}
}

func TestCopyWithFallback(t *testing.T) {
	w := &fakeWriter{}

	statusMsg, err := CopyWithFallback(w, "test clipboard content")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if statusMsg != CopiedMessage {
		t.Errorf("Expected '%s', got '%s'", CopiedMessage, statusMsg)
	}
	if w.text != "test clipboard content" {
		t.Errorf("Expected text to be written, got '%s'", w.text)
	}
}

func TestCopyWithFallbackErrors(t *testing.T) {
	clipErr := NewClipboardError()
	if _, err := CopyWithFallback(&fakeWriter{err: clipErr}, "x"); !errors.Is(err, clipErr) {
		t.Errorf("Expected ClipboardError to be returned as is, got %v", err)
	}

	cause := errors.New("exit status 1")
	_, err := CopyWithFallback(&fakeWriter{err: cause}, "x")
	if err == nil || !strings.Contains(err.Error(), "failed to copy to clipboard") {
		t.Errorf("Non-clipboard errors should be wrapped: %v", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("Wrapped error should keep its cause: %v", err)
	}
}
