// Package cards splits a streamed summarization buffer into typed cards.
//
// A buffer is plain text containing zero or more section markers of the form
// __COMMENT|||, __SUMMARY||| and __TIMELINE|||. Each marker opens a section
// that runs until the next marker or the end of the buffer. Parsing is a pure
// function of the buffer, so callers re-parse the whole buffer every time it
// grows and replace previously derived cards.
package cards

import "strings"

// Kind identifies the type of a section.
type Kind string

const (
	KindComment  Kind = "COMMENT"
	KindSummary  Kind = "SUMMARY"
	KindTimeline Kind = "TIMELINE"
)

// Kinds lists the recognized section kinds in marker-matching order.
var Kinds = []Kind{KindComment, KindSummary, KindTimeline}

// Marker returns the sentinel that opens a section of this kind.
func (k Kind) Marker() string {
	return markerPrefix + string(k) + markerSuffix
}

// Valid reports whether k is one of the recognized kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindComment, KindSummary, KindTimeline:
		return true
	}
	return false
}

const (
	markerPrefix = "__"
	markerSuffix = "|||"
)

// RawSection is a slice of the buffer tagged with its section kind.
type RawSection struct {
	// Kind is the tag of the marker that opened this section.
	Kind Kind

	// Content is the text between this marker and the next one (or the end
	// of the buffer).
	Content string

	// Offset is the byte offset of the opening marker in the buffer.
	Offset int

	// End is the byte offset just past Content.
	End int

	// Closed is true when another marker follows this section. A closed
	// section never changes as the buffer grows.
	Closed bool
}

// Card is the parsed, display-ready form of a RawSection.
type Card struct {
	Kind Kind `json:"kind"`

	// Text is the trimmed content of a Comment or Summary card.
	Text string `json:"text,omitempty"`

	// Entries holds the timeline lines of a Timeline card.
	Entries []TimelineEntry `json:"entries,omitempty"`
}

// TimelineEntry is one line of a Timeline card.
type TimelineEntry struct {
	// Timestamp is the elapsed time in seconds, or nil when the line carries
	// no usable timestamp token.
	Timestamp *int `json:"timestamp"`

	// Label is the line text with the timestamp token removed. Lines without
	// a usable token keep their full text.
	Label string `json:"label"`

	// Line is the normalized source line used for deduplication.
	Line string `json:"line"`

	// Issue is set when the line contained a timestamp-shaped token that
	// could not be converted.
	Issue *ParseIssue `json:"issue,omitempty"`
}

// Seekable reports whether the entry can drive a seek action.
func (e TimelineEntry) Seekable() bool {
	return e.Timestamp != nil
}

// Seconds returns the timestamp, or -1 when the entry has none.
func (e TimelineEntry) Seconds() int {
	if e.Timestamp == nil {
		return -1
	}
	return *e.Timestamp
}

// Key returns a stable identity for the card. Timeline cards are keyed by
// their entry lines so that an identical timeline re-derived from a longer
// buffer maps to the same key.
func (c Card) Key() string {
	if c.Kind != KindTimeline {
		return string(c.Kind) + markerSuffix + c.Text
	}
	lines := make([]string, len(c.Entries))
	for i, e := range c.Entries {
		lines[i] = e.Line
	}
	return strings.Join(lines, "\n")
}

// Empty reports whether the card carries no displayable content.
func (c Card) Empty() bool {
	if c.Kind == KindTimeline {
		return len(c.Entries) == 0
	}
	return c.Text == ""
}
