package detector

import (
	"encoding/json"
	"strings"
)

// Format names a stream capture layout.
type Format string

const (
	// FormatJSONL is one {"content": ..., "is_final": ...} message per line.
	FormatJSONL Format = "jsonl"

	// FormatText is the raw buffer text with no message framing.
	FormatText Format = "text"
)

// InputFormat describes a capture layout the detector can recognize.
type InputFormat struct {
	Name        Format
	Description string
	Examples    []string
	match       func(line string) bool
}

// Matches reports whether a single sampled line fits this format.
func (f *InputFormat) Matches(line string) bool {
	return f.match(line)
}

// DefaultFormats returns the built-in capture formats to detect.
func DefaultFormats() []*InputFormat {
	return []*InputFormat{
		{
			Name:        FormatJSONL,
			Description: "JSON Lines chunk messages",
			Examples: []string{
				`{"content":"__SUMMARY|||A talk","is_final":false}`,
				`{"content":"","is_final":true}`,
			},
			match: isChunkMessage,
		},
		{
			Name:        FormatText,
			Description: "raw buffer text",
			Examples: []string{
				"__TIMELINE|||[0:00] intro",
			},
			match: func(line string) bool { return !isChunkMessage(line) },
		},
	}
}

// isChunkMessage reports whether line decodes as a JSON object carrying a
// content or is_final field.
func isChunkMessage(line string) bool {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "{") {
		return false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(line), &fields); err != nil {
		return false
	}
	_, hasContent := fields["content"]
	_, hasFinal := fields["is_final"]
	return hasContent || hasFinal
}
