package internal

import "regexp"

// sensitivePattern is one credential shape the guard refuses to persist
type sensitivePattern struct {
	kind string
	re   *regexp.Regexp
}

var sensitivePatterns = []sensitivePattern{
	{"anthropic_key", regexp.MustCompile(`sk-ant-[A-Za-z0-9_-]{20,}`)},
	{"openai_key", regexp.MustCompile(`sk-[A-Za-z0-9]{20,}`)},
	{"aws_access_key", regexp.MustCompile(`AKIA[A-Z0-9]{16}`)},
	{"jwt", regexp.MustCompile(`eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}`)},
	{"github_token", regexp.MustCompile(`gh[pousr]_[A-Za-z0-9]{36}`)},
	{"slack_token", regexp.MustCompile(`xox[bpas]-[A-Za-z0-9-]{40,}`)},
	{"google_api_key", regexp.MustCompile(`AIza[A-Za-z0-9_-]{35}`)},
	{"base64_blob", regexp.MustCompile(`[A-Za-z0-9+/]{40,}={0,2}`)},
}

// SensitiveGuard detects credential-shaped content that must never be stored
type SensitiveGuard struct {
	patterns []sensitivePattern
}

// NewSensitiveGuard creates a guard with the builtin credential patterns
func NewSensitiveGuard() *SensitiveGuard {
	return &SensitiveGuard{patterns: sensitivePatterns}
}

// Scan reports whether text contains anything credential-shaped
func (g *SensitiveGuard) Scan(text string) bool {
	_, found := g.Match(text)
	return found
}

// Match returns the kind of the first credential shape found in text. The
// matched content itself is never returned.
func (g *SensitiveGuard) Match(text string) (string, bool) {
	for _, p := range g.patterns {
		if p.re.MatchString(text) {
			return p.kind, true
		}
	}
	return "", false
}
