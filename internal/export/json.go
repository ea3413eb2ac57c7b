package export

import (
	"encoding/json"
	"io"

	"github.com/iksnae/studio-session/internal"
)

// JSONExporter exports archive entries in JSON format (pretty-printed)
type JSONExporter struct{}

// Export writes the whole entry, bundle included
func (e *JSONExporter) Export(entry *internal.ArchiveEntry, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(entry)
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
