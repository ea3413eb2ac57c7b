package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/iksnae/studio-session/internal"
)

// JSONLExporter exports the snapshot chat of an entry, one turn per line
type JSONLExporter struct{}

// Export writes one JSON object per chat turn
func (e *JSONLExporter) Export(entry *internal.ArchiveEntry, w io.Writer) error {
	enc := json.NewEncoder(w)

	for _, msg := range entry.Data.SnapshotChat {
		obj := map[string]interface{}{
			"sessionId": entry.SessionID,
			"role":      msg.Role,
			"content":   msg.Content,
		}

		if !msg.At.IsZero() {
			obj["timestamp"] = msg.At.UTC().Format(time.RFC3339)
		}

		if err := enc.Encode(obj); err != nil {
			return fmt.Errorf("failed to encode message: %w", err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
