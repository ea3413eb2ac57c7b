package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/iksnae/studio-session/internal"
)

// Exporter defines the interface for all export formats
type Exporter interface {
	Export(entry *internal.ArchiveEntry, w io.Writer) error
	Extension() string
}

// NewExporter creates a new exporter based on format
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "jsonl":
		return &JSONLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "yaml":
		return &YAMLExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: jsonl, md, yaml, json)", format)
	}
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// FileName builds "<title-slug>_<entry id>.<ext>"
func FileName(entry *internal.ArchiveEntry, ext string) string {
	slug := strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(entry.Title), "-"), "-")
	if slug == "" {
		slug = "session"
	}
	return fmt.Sprintf("%s_%s.%s", slug, entry.ID, ext)
}

// WriteFile exports entry into dir and returns the path written
func WriteFile(entry *internal.ArchiveEntry, exporter Exporter, dir string) (string, error) {
	format := exporter.Extension()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", &internal.ExportError{Format: format, Path: dir, Err: err}
	}

	path := filepath.Join(dir, FileName(entry, format))
	file, err := os.Create(path)
	if err != nil {
		return "", &internal.ExportError{Format: format, Path: path, Err: err}
	}

	if err := exporter.Export(entry, file); err != nil {
		_ = file.Close()
		return "", &internal.ExportError{Format: format, Path: path, Err: err}
	}
	if err := file.Close(); err != nil {
		return "", &internal.ExportError{Format: format, Path: path, Err: err}
	}
	return path, nil
}
