package internal

import (
	"fmt"
	"strings"
)

// PromptOption is a selectable prompt modifier
type PromptOption struct {
	Key         string
	Title       string
	Instruction string
}

// Frameworks structure the answer
var Frameworks = []PromptOption{
	{"swot", "SWOT", "Answer using a SWOT analysis (strengths, weaknesses, opportunities, threats)."},
	{"prep", "PREP", "Structure the answer as PREP: point, reason, example, point."},
	{"mece", "MECE", "Organize the answer so it is mutually exclusive and collectively exhaustive."},
	{"5w1h", "5W1H", "Cover who, what, when, where, why and how."},
	{"pdca", "PDCA", "Organize the answer as a plan, do, check, act cycle."},
	{"star", "STAR", "Structure the answer as situation, task, action, result."},
}

// Viewpoints pick the angle of the answer
var Viewpoints = []PromptOption{
	{"legal", "Legal", "Answer from the perspective of legal risk."},
	{"ux", "UX", "Answer from the perspective of user experience."},
	{"cost", "Cost", "Answer from the perspective of cost efficiency and ROI."},
	{"tech", "Tech", "Answer from the perspective of technical feasibility and effort."},
	{"market", "Market", "Answer from the perspective of market trends and competitors."},
}

// OutputFormats shape the answer
var OutputFormats = []PromptOption{
	{"bullets", "Bullets", "Summarize the answer as bullet points."},
	{"table", "Table", "Summarize the answer as a Markdown table."},
	{"diagram", "Diagram", "Include an ASCII diagram where possible."},
	{"brief", "Brief", "Keep the answer to one short paragraph."},
	{"steps", "Steps", "Organize the answer as numbered steps."},
}

// ViewpointCustom selects a caller-supplied viewpoint
const ViewpointCustom = "custom"

// PromptRequest describes one prompt to build
type PromptRequest struct {
	Base            string
	Role            string
	Framework       string
	Viewpoint       string
	CustomViewpoint string
	Format          string
	Example         string
}

// FindOption looks up an option by key
func FindOption(options []PromptOption, key string) (PromptOption, bool) {
	for _, o := range options {
		if o.Key == key {
			return o, true
		}
	}
	return PromptOption{}, false
}

// Validate rejects unknown option keys; empty and "none" mean no modifier
func (r PromptRequest) Validate() error {
	check := func(kind string, options []PromptOption, key string) error {
		if key == "" || key == "none" {
			return nil
		}
		if _, ok := FindOption(options, key); !ok {
			return fmt.Errorf("unknown %s %q", kind, key)
		}
		return nil
	}
	if err := check("framework", Frameworks, r.Framework); err != nil {
		return err
	}
	if r.Viewpoint != ViewpointCustom {
		if err := check("viewpoint", Viewpoints, r.Viewpoint); err != nil {
			return err
		}
	}
	return check("format", OutputFormats, r.Format)
}

// BuildPrompt composes the instruction lines and the base prompt
func BuildPrompt(r PromptRequest) string {
	var parts []string
	if role := strings.TrimSpace(r.Role); role != "" {
		parts = append(parts, fmt.Sprintf("Answer as an expert in the role of %q.", role))
	}
	if o, ok := FindOption(Frameworks, r.Framework); ok {
		parts = append(parts, o.Instruction)
	}
	if r.Viewpoint == ViewpointCustom {
		if v := strings.TrimSpace(r.CustomViewpoint); v != "" {
			parts = append(parts, fmt.Sprintf("Answer from the perspective of %s.", v))
		}
	} else if o, ok := FindOption(Viewpoints, r.Viewpoint); ok {
		parts = append(parts, o.Instruction)
	}
	if o, ok := FindOption(OutputFormats, r.Format); ok {
		parts = append(parts, o.Instruction)
	}

	prompt := strings.TrimSpace(r.Base)
	if len(parts) > 0 {
		prompt = strings.Join(parts, "\n") + "\n\n---\n\n" + prompt
	}
	if ex := strings.TrimSpace(r.Example); ex != "" {
		prompt += "\n\n---\nExample of an ideal answer:\n" + ex
	}
	return prompt
}
