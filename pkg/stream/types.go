// Package stream feeds chunked summarization output into parsing sessions.
package stream

// Chunk is one message of a streamed response. The summarization worker
// sends a run of content chunks followed by a chunk with Final set.
type Chunk struct {
	// Content is appended verbatim to the session buffer.
	Content string `json:"content"`

	// Final marks the last chunk of the response.
	Final bool `json:"is_final"`
}

// Default values for chunk sources.
const (
	DefaultChunkSize = 64
	maxLineSize      = 1024 * 1024
)
