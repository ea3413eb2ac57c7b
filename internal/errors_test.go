package internal

import (
	"errors"
	"strings"
	"testing"
)

func TestStorageError(t *testing.T) {
	originalErr := errors.New("permission denied")
	err := &StorageError{
		Backend: "sqlite",
		Op:      "set",
		Key:     "studio:session",
		Err:     originalErr,
	}

	errorMsg := err.Error()
	if !strings.Contains(errorMsg, "storage error") {
		t.Errorf("StorageError.Error() should contain 'storage error', got: %q", errorMsg)
	}
	if !strings.Contains(errorMsg, "studio:session") {
		t.Errorf("StorageError.Error() should contain key, got: %q", errorMsg)
	}
	if !errors.Is(err, originalErr) {
		t.Error("StorageError.Unwrap() should return original error")
	}
}

func TestParseError(t *testing.T) {
	originalErr := errors.New("invalid JSON")
	err := &ParseError{
		Source: "store",
		Key:    "studio:topics",
		Err:    originalErr,
	}

	errorMsg := err.Error()
	if !strings.Contains(errorMsg, "parse error") {
		t.Errorf("ParseError.Error() should contain 'parse error', got: %q", errorMsg)
	}
	if !strings.Contains(errorMsg, "store") {
		t.Errorf("ParseError.Error() should contain source, got: %q", errorMsg)
	}
	if !errors.Is(err, originalErr) {
		t.Error("ParseError.Unwrap() should return original error")
	}
}

func TestArchiveError(t *testing.T) {
	err := &ArchiveError{EntryID: "entry-1", Err: ErrEntryNotFound}

	if !strings.Contains(err.Error(), "entry-1") {
		t.Errorf("ArchiveError.Error() should contain entry id, got: %q", err.Error())
	}
	if !errors.Is(err, ErrEntryNotFound) {
		t.Error("ArchiveError should unwrap to ErrEntryNotFound")
	}
}

func TestExportError(t *testing.T) {
	originalErr := errors.New("disk full")
	err := &ExportError{Format: "md", Path: "/tmp/out.md", Err: originalErr}

	errorMsg := err.Error()
	if !strings.Contains(errorMsg, "export error") || !strings.Contains(errorMsg, "md") {
		t.Errorf("ExportError.Error() = %q", errorMsg)
	}
	if !errors.Is(err, originalErr) {
		t.Error("ExportError.Unwrap() should return original error")
	}
}
