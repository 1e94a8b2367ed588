package internal

import (
	"fmt"
	"regexp"
)

// ServicePatterns pairs a service name with the patterns that identify its replies
type ServicePatterns struct {
	Name     string
	Patterns []*regexp.Regexp
}

// Match reports whether any pattern matches text
func (sp ServicePatterns) Match(text string) bool {
	for _, p := range sp.Patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// builtinPatterns is the ordered heuristic table for the builtin browser services
var builtinPatterns = []struct {
	name     string
	patterns []string
}{
	{"Claude", []string{`Anthropic`, `I['’]m Claude`, `私はClaude`, `claude\.ai`}},
	{"Gemini", []string{`Google DeepMind`, `Google AI`, `I['’]m Gemini`, `私はGemini`, `gemini\.google`}},
	{"Grok", []string{`xAI`, `I['’]m Grok`, `私はGrok`, `grok\.com`}},
	{"ChatGPT", []string{`OpenAI`, `I['’]m ChatGPT`, `As an AI( language model)?`, `chatgpt\.com`, `ChatGPT`, `GPT-4`, `GPT-3`}},
}

// CompilePatterns compiles case-insensitive patterns for a service
func CompilePatterns(name string, patterns []string) (ServicePatterns, error) {
	sp := ServicePatterns{Name: name}
	for _, p := range patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return ServicePatterns{}, fmt.Errorf("service %s: invalid pattern %q: %w", name, p, err)
		}
		sp.Patterns = append(sp.Patterns, re)
	}
	return sp, nil
}

// DefaultServicePatterns returns the builtin heuristic table
func DefaultServicePatterns() []ServicePatterns {
	table := make([]ServicePatterns, 0, len(builtinPatterns))
	for _, b := range builtinPatterns {
		sp, err := CompilePatterns(b.name, b.patterns)
		if err != nil {
			panic(err)
		}
		table = append(table, sp)
	}
	return table
}

// ServiceClassifier maps captured text to the service that most likely produced it
type ServiceClassifier struct {
	table []ServicePatterns
}

// NewServiceClassifier creates a classifier over an ordered pattern table
func NewServiceClassifier(table []ServicePatterns) *ServiceClassifier {
	return &ServiceClassifier{table: table}
}

// NewDefaultClassifier creates a classifier over the builtin table
func NewDefaultClassifier() *ServiceClassifier {
	return NewServiceClassifier(DefaultServicePatterns())
}

// ClassifierFromServices builds a classifier from the builtin table followed
// by the patterns of any registered service that declares its own. A service
// that declares patterns and shares a builtin name replaces the builtin entry
// in place.
func ClassifierFromServices(services []ServiceConfig) (*ServiceClassifier, error) {
	table := DefaultServicePatterns()
	index := make(map[string]int, len(table))
	for i, sp := range table {
		index[sp.Name] = i
	}

	for _, svc := range services {
		if len(svc.Patterns) == 0 {
			continue
		}
		sp, err := CompilePatterns(svc.Name, svc.Patterns)
		if err != nil {
			return nil, err
		}
		if i, ok := index[svc.Name]; ok {
			table[i] = sp
			continue
		}
		index[svc.Name] = len(table)
		table = append(table, sp)
	}
	return NewServiceClassifier(table), nil
}

// Classify returns the service named by a tag in text if present, otherwise
// the first heuristic match, otherwise hint, otherwise UnknownService.
func (c *ServiceClassifier) Classify(text, hint string) string {
	if sig, ok := ExtractSignature(text); ok {
		return sig.Service
	}
	if name, ok := c.Detect(text); ok {
		return name
	}
	if hint != "" {
		return hint
	}
	return UnknownService
}

// Detect runs only the heuristic table
func (c *ServiceClassifier) Detect(text string) (string, bool) {
	for _, sp := range c.table {
		if sp.Match(text) {
			return sp.Name, true
		}
	}
	return "", false
}

// Names returns the service names in table order
func (c *ServiceClassifier) Names() []string {
	names := make([]string, len(c.table))
	for i, sp := range c.table {
		names[i] = sp.Name
	}
	return names
}
