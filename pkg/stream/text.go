package stream

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
)

// TextSource splits raw text into fixed-size chunks, reproducing the
// arbitrary boundaries a network transport produces. The last chunk read is
// marked Final.
type TextSource struct {
	reader    io.Reader
	br        *bufio.Reader
	name      string
	chunkSize int
	done      bool
}

// NewTextSource creates a ChunkSource over r. A chunkSize <= 0 uses
// DefaultChunkSize.
func NewTextSource(r io.Reader, name string, chunkSize int) *TextSource {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &TextSource{
		reader:    r,
		br:        bufio.NewReader(r),
		name:      name,
		chunkSize: chunkSize,
	}
}

// Next returns the next chunk of at most chunkSize bytes.
func (s *TextSource) Next(ctx context.Context) (*Chunk, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if s.done {
		return nil, io.EOF
	}

	buf := make([]byte, s.chunkSize)
	n, err := io.ReadFull(s.br, buf)
	switch {
	case errors.Is(err, io.EOF):
		s.done = true
		return nil, io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		s.done = true
	case err != nil:
		return nil, fmt.Errorf("reading %s: %w", s.name, err)
	default:
		if _, peekErr := s.br.Peek(1); errors.Is(peekErr, io.EOF) {
			s.done = true
		}
	}

	return &Chunk{Content: string(buf[:n]), Final: s.done}, nil
}

// Close closes the underlying reader if it is closable.
func (s *TextSource) Close() error {
	if c, ok := s.reader.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
