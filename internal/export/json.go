package export

import (
	"encoding/json"
	"io"

	"github.com/iksnae/chat-rotator/internal"
)

// JSONExporter exports messages as a pretty-printed JSON array
type JSONExporter struct{}

// Export writes messages as one JSON document
func (e *JSONExporter) Export(messages []internal.Message, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if messages == nil {
		messages = []internal.Message{}
	}
	return enc.Encode(messages)
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
