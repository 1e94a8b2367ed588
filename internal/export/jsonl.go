package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iksnae/chat-rotator/internal"
)

// JSONLExporter exports messages in JSONL format (one message per line)
type JSONLExporter struct{}

// Export writes one JSON object per message
func (e *JSONLExporter) Export(messages []internal.Message, w io.Writer) error {
	enc := json.NewEncoder(w)

	for _, msg := range messages {
		obj := map[string]interface{}{
			"id":          msg.ID,
			"role":        msg.Role,
			"service":     msg.Service,
			"content":     msg.Content,
			"detected_at": msg.DetectedAt,
		}
		if msg.TS != "" {
			obj["ts"] = msg.TS
		}
		if msg.Meta.Label != "" {
			obj["label"] = msg.Meta.Label
		}
		if msg.Meta.Source != "" {
			obj["source"] = msg.Meta.Source
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
