// Package output provides formatting and output generation for parsed cards.
package output

import (
	"time"

	"github.com/samber/lo"

	"github.com/ccollicutt/streamcard/pkg/cards"
)

// Report is the complete parse output.
type Report struct {
	// Summary provides aggregate statistics.
	Summary Summary `json:"summary"`

	// Cards contains the parsed cards in buffer order.
	Cards []cards.Card `json:"cards"`

	// Issues lists malformed timestamp tokens across all cards.
	Issues []*cards.ParseIssue `json:"issues,omitempty"`

	// Metadata provides context about the run.
	Metadata Metadata `json:"metadata"`
}

// Summary provides aggregate statistics.
type Summary struct {
	Cards           int `json:"cards"`
	Comments        int `json:"comments"`
	Summaries       int `json:"summaries"`
	Timelines       int `json:"timelines"`
	TimelineEntries int `json:"timeline_entries"`
	SeekableEntries int `json:"seekable_entries"`
	Issues          int `json:"issues"`

	// SuppressedDuplicates counts repeated timeline cards that were dropped.
	SuppressedDuplicates int `json:"suppressed_duplicates"`
}

// Metadata provides context about the parse run.
type Metadata struct {
	// Source is the file the buffer was read from ("-" for stdin).
	Source string `json:"source"`

	// SessionID identifies the stream session, when one was used.
	SessionID string `json:"session_id,omitempty"`

	// Chunks is the number of stream chunks consumed.
	Chunks int `json:"chunks,omitempty"`

	// BufferBytes is the size of the parsed buffer.
	BufferBytes int `json:"buffer_bytes"`

	// ParsedAt is when the parse completed.
	ParsedAt time.Time `json:"parsed_at"`

	// Duration is how long reading and parsing took.
	Duration time.Duration `json:"duration"`
}

// NewReport creates a Report from parsed cards.
func NewReport(parsed []cards.Card, suppressed int, meta Metadata) *Report {
	if parsed == nil {
		parsed = []cards.Card{}
	}
	issues := cards.Issues(parsed)

	return &Report{
		Cards:    parsed,
		Issues:   issues,
		Metadata: meta,
		Summary: Summary{
			Cards:     len(parsed),
			Comments:  countKind(parsed, cards.KindComment),
			Summaries: countKind(parsed, cards.KindSummary),
			Timelines: countKind(parsed, cards.KindTimeline),
			TimelineEntries: lo.SumBy(parsed, func(c cards.Card) int {
				return len(c.Entries)
			}),
			SeekableEntries: lo.SumBy(parsed, func(c cards.Card) int {
				return lo.CountBy(c.Entries, func(e cards.TimelineEntry) bool { return e.Seekable() })
			}),
			Issues:               len(issues),
			SuppressedDuplicates: suppressed,
		},
	}
}

func countKind(parsed []cards.Card, kind cards.Kind) int {
	return lo.CountBy(parsed, func(c cards.Card) bool { return c.Kind == kind })
}

// HasIssues returns true if any malformed timestamps were found.
func (r *Report) HasIssues() bool {
	return r.Summary.Issues > 0
}
