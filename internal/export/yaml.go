package export

import (
	"io"

	"github.com/iksnae/studio-session/internal"
	"gopkg.in/yaml.v3"
)

// YAMLExporter exports archive entries in YAML format
type YAMLExporter struct{}

// Export writes the whole entry as a YAML document
func (e *YAMLExporter) Export(entry *internal.ArchiveEntry, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()

	return enc.Encode(entry)
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
