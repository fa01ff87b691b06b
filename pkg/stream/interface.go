package stream

import "context"

// ChunkSource provides an iterator over the chunks of one streamed response.
// Implementations must be safe for sequential access (not concurrent).
type ChunkSource interface {
	// Next returns the next chunk.
	// Returns io.EOF when no more chunks are available.
	Next(ctx context.Context) (*Chunk, error)

	// Close releases any resources held by the source.
	Close() error
}
