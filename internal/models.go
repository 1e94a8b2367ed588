package internal

import (
	"encoding/json"
	"fmt"
	"time"
)

// Role identifies which half of an exchange a message is
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// UnknownService is recorded when no tag, pattern or hint identifies the origin
const UnknownService = "Unknown"

// QuestionService is the service name recorded on question rows
const QuestionService = "User"

// Message sources
const (
	SourceClipboard = "clipboard"
	SourceLocalAPI  = "local_api"
	SourcePrompt    = "prompt"
)

// LabelQuestion marks the prompt half of an exchange
const LabelQuestion = "question"

// Label describes a user-assignable message label
type Label struct {
	Key         string
	Title       string
	Description string
}

// Labels is the catalogue of labels a user may assign
var Labels = []Label{
	{Key: "summary", Title: "Summary", Description: "material to summarize"},
	{Key: "difference", Title: "Difference", Description: "material to compare"},
	{Key: "code_snippet", Title: "Code", Description: "code"},
	{Key: "reference", Title: "Reference", Description: "reference material"},
	{Key: "user_note", Title: "Note", Description: "personal note"},
}

// IsKnownLabel reports whether label is in the catalogue or is the reserved question label
func IsKnownLabel(label string) bool {
	if label == LabelQuestion {
		return true
	}
	for _, l := range Labels {
		if l.Key == label {
			return true
		}
	}
	return false
}

// Session is one logical grouping of captured messages, one per day by default
type Session struct {
	ID        int64     `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// MessageMeta holds the optional per-message fields stored alongside the content
type MessageMeta struct {
	Label     string `json:"label,omitempty" yaml:"label,omitempty"`
	Source    string `json:"source,omitempty" yaml:"source,omitempty"`
	Model     string `json:"model,omitempty" yaml:"model,omitempty"`
	TS        string `json:"ts,omitempty" yaml:"ts,omitempty"`
	Question  string `json:"q,omitempty" yaml:"question,omitempty"`
	Framework string `json:"fw,omitempty" yaml:"framework,omitempty"`
	Viewpoint string `json:"vp,omitempty" yaml:"viewpoint,omitempty"`
	Format    string `json:"fmt,omitempty" yaml:"format,omitempty"`
}

// Validate checks the metadata before it is written to the store
func (m MessageMeta) Validate() error {
	if m.Label != "" && !IsKnownLabel(m.Label) {
		return fmt.Errorf("unknown label %q", m.Label)
	}
	switch m.Source {
	case "", SourceClipboard, SourceLocalAPI, SourcePrompt:
	default:
		return fmt.Errorf("unknown source %q", m.Source)
	}
	return nil
}

func (m MessageMeta) encode() (string, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to encode metadata: %w", err)
	}
	return string(data), nil
}

func decodeMeta(raw string) MessageMeta {
	var m MessageMeta
	if raw == "" {
		return m
	}
	// Rows written by older versions may carry extra keys; unknown keys are ignored
	_ = json.Unmarshal([]byte(raw), &m)
	return m
}

// Message is a single stored capture or question
type Message struct {
	ID          int64       `json:"id" yaml:"id"`
	SessionID   int64       `json:"session_id" yaml:"session_id"`
	TS          string      `json:"ts,omitempty" yaml:"ts,omitempty"`
	Role        Role        `json:"role" yaml:"role"`
	Service     string      `json:"service" yaml:"service"`
	Content     string      `json:"content" yaml:"content"`
	ContentHash string      `json:"content_hash" yaml:"content_hash"`
	DetectedAt  time.Time   `json:"detected_at" yaml:"detected_at"`
	Meta        MessageMeta `json:"metadata" yaml:"metadata"`
}

// IsQuestion reports whether the message is the prompt half of an exchange
func (m *Message) IsQuestion() bool {
	return m.Meta.Label == LabelQuestion
}

// ServiceType distinguishes browser services from local completion endpoints
type ServiceType string

const (
	ServiceTypeBrowser ServiceType = "browser"
	ServiceTypeLocal   ServiceType = "local"
)

// ServiceConfig describes one upstream text-generation service
type ServiceConfig struct {
	Name     string      `json:"name" yaml:"name"`
	Type     ServiceType `json:"type" yaml:"type"`
	URL      string      `json:"url" yaml:"url"`
	Role     string      `json:"role,omitempty" yaml:"role,omitempty"`
	Color    string      `json:"color,omitempty" yaml:"color,omitempty"`
	Enabled  bool        `json:"enabled" yaml:"enabled"`
	Model    string      `json:"model,omitempty" yaml:"model,omitempty"`
	Endpoint string      `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	Patterns []string    `json:"patterns,omitempty" yaml:"patterns,omitempty"`
}

// Stats summarizes the contents of the store
type Stats struct {
	Total            int            `json:"total" yaml:"total"`
	Active           int            `json:"active" yaml:"active"`
	UnknownUnlabeled int            `json:"unknown_unlabeled" yaml:"unknown_unlabeled"`
	Questions        int            `json:"questions" yaml:"questions"`
	ByService        map[string]int `json:"by_service" yaml:"by_service"`
}
