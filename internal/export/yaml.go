package export

import (
	"io"

	"github.com/iksnae/chat-rotator/internal"
	"gopkg.in/yaml.v3"
)

// YAMLExporter exports messages in YAML format
type YAMLExporter struct{}

// Export writes messages as a YAML sequence
func (e *YAMLExporter) Export(messages []internal.Message, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()

	return enc.Encode(map[string]interface{}{"messages": messages})
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
