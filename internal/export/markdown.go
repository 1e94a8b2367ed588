package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/chat-rotator/internal"
)

// MarkdownExporter exports messages in Markdown format, pairing each reply
// with the question it answers where the tag timestamp allows it
type MarkdownExporter struct{}

// Export writes messages as a Markdown document
func (e *MarkdownExporter) Export(messages []internal.Message, w io.Writer) error {
	_, _ = fmt.Fprintf(w, "# Captured messages\n\n")
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n", len(messages))
	_, _ = fmt.Fprintf(w, "---\n\n")

	for i, msg := range messages {
		heading := msg.Service
		if msg.IsQuestion() {
			heading = "Question"
		}

		var details []string
		if msg.TS != "" {
			details = append(details, "tag "+msg.TS)
		}
		if !msg.DetectedAt.IsZero() {
			details = append(details, msg.DetectedAt.Local().Format("2006-01-02 15:04:05"))
		}
		if msg.Meta.Label != "" && !msg.IsQuestion() {
			details = append(details, "label "+msg.Meta.Label)
		}

		suffix := ""
		if len(details) > 0 {
			suffix = fmt.Sprintf(" (%s)", strings.Join(details, ", "))
		}

		_, _ = fmt.Fprintf(w, "## #%d %s%s\n\n%s\n\n", msg.ID, heading, suffix, escapeMarkdown(msg.Content))

		if i < len(messages)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

// escapeMarkdown escapes markdown special characters outside code blocks
func escapeMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
