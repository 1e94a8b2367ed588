package internal

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// TagTimestampLayout is the second-precision timestamp carried in a tag line
const TagTimestampLayout = "2006-01-02T15:04:05"

// TrailerPhrase is the fixed instruction that precedes the tag line in an
// outbound prompt. Captured text containing it is an outgoing prompt.
const TrailerPhrase = "Please copy the tracking tag line below verbatim as the first line of your answer, then answer as usual:"

const (
	DefaultQuestionLen = 50
	DefaultServiceLen  = 32
)

const tagPattern = `\[AI:([^\]]+)\]\[Q:([^\]]*)\]\[TS:([^\]]+)\]`

var (
	tagRegex     = regexp.MustCompile(tagPattern)
	trailerRegex = regexp.MustCompile(`\n*-{3,}\n` + regexp.QuoteMeta(TrailerPhrase) + `\n` + tagPattern + `(?:\n-{3,})?`)

	tagEscaper = strings.NewReplacer("[", "［", "]", "］", "\r\n", " ", "\n", " ", "\r", " ")
)

// Signature is the correlation tag reproduced by a service in its reply
type Signature struct {
	Service   string `json:"service"`
	Question  string `json:"question"`
	Timestamp string `json:"timestamp"`
}

// Tag renders the signature as a tag line
func (s Signature) Tag() string {
	return fmt.Sprintf("[AI:%s][Q:%s][TS:%s]", s.Service, s.Question, s.Timestamp)
}

// SignatureCodec embeds correlation tags into outbound prompts
type SignatureCodec struct {
	QuestionLen int
	ServiceLen  int
}

// NewSignatureCodec creates a codec with the default truncation lengths
func NewSignatureCodec() *SignatureCodec {
	return &SignatureCodec{QuestionLen: DefaultQuestionLen, ServiceLen: DefaultServiceLen}
}

// NewSignature builds the signature the codec would embed, truncated and with
// brackets replaced by their full-width forms.
func (c *SignatureCodec) NewSignature(service, question, timestamp string) Signature {
	return Signature{
		Service:   tagEscaper.Replace(truncateRunes(service, c.ServiceLen)),
		Question:  tagEscaper.Replace(truncateRunes(question, c.QuestionLen)),
		Timestamp: timestamp,
	}
}

// Embed appends the instructional trailer and tag line to prompt
func (c *SignatureCodec) Embed(prompt, service, question, timestamp string) string {
	sig := c.NewSignature(service, question, timestamp)
	return prompt + "\n\n---\n" + TrailerPhrase + "\n" + sig.Tag() + "\n---"
}

// TagTimestamp formats t for use in a tag line
func TagTimestamp(t time.Time) string {
	return t.Format(TagTimestampLayout)
}

// ExtractSignature returns the first tag found in text
func ExtractSignature(text string) (Signature, bool) {
	m := tagRegex.FindStringSubmatch(text)
	if m == nil {
		return Signature{}, false
	}
	return Signature{Service: m[1], Question: m[2], Timestamp: m[3]}, true
}

// StripSignature removes the instructional trailer block, or failing that any
// bare tag lines, and trims the result.
func StripSignature(text string) string {
	if stripped := trailerRegex.ReplaceAllString(text, ""); stripped != text {
		text = stripped
	} else {
		text = tagRegex.ReplaceAllString(text, "")
	}
	return strings.TrimSpace(text)
}

// IsOutboundPrompt reports whether text carries the instructional trailer,
// meaning it is a prompt on its way out rather than a reply.
func IsOutboundPrompt(text string) bool {
	return strings.Contains(text, TrailerPhrase)
}
