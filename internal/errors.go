package internal

import (
	"errors"
	"fmt"
)

var (
	// ErrEntryNotFound is returned when an archive entry id does not resolve
	ErrEntryNotFound = errors.New("archive entry not found")
	// ErrTopicLimit is returned when a second topic is added
	ErrTopicLimit = errors.New("only one topic can be active")
)

// StorageError represents errors reported by a key/value backend
type StorageError struct {
	Backend string // "sqlite", "redis", "memory"
	Op      string // "get", "set", "delete", "keys"
	Key     string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s %s: %v", e.Backend, e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ParseError represents errors parsing persisted data
type ParseError struct {
	Source string // "store", "archive", "webhook"
	Key    string // storage key or file path
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error [%s] %s: %v", e.Source, e.Key, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ArchiveError represents errors while operating on an archive entry
type ArchiveError struct {
	EntryID string
	Err     error
}

func (e *ArchiveError) Error() string {
	return fmt.Sprintf("archive error [%s]: %v", e.EntryID, e.Err)
}

func (e *ArchiveError) Unwrap() error {
	return e.Err
}

// ExportError represents errors during export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
