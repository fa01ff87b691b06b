package stream

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// JSONLSource reads chunk messages encoded as one JSON object per line, e.g.
//
//	{"content":"__SUMMARY|||The talk","is_final":false}
type JSONLSource struct {
	reader  io.Reader
	scanner *bufio.Scanner
	name    string
	lineNum int
}

// NewJSONLSource creates a ChunkSource reading JSON lines from r. The name
// is used in error messages.
func NewJSONLSource(r io.Reader, name string) *JSONLSource {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &JSONLSource{reader: r, scanner: scanner, name: name}
}

// Next returns the next chunk. Blank lines are skipped.
func (s *JSONLSource) Next(ctx context.Context) (*Chunk, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return nil, fmt.Errorf("reading %s: %w", s.name, err)
			}
			return nil, io.EOF
		}
		s.lineNum++

		line := strings.TrimSpace(s.scanner.Text())
		if line == "" {
			continue
		}

		var chunk Chunk
		if err := json.Unmarshal([]byte(line), &chunk); err != nil {
			return nil, fmt.Errorf("%s:%d: decoding chunk: %w", s.name, s.lineNum, err)
		}
		return &chunk, nil
	}
}

// Close closes the underlying reader if it is closable.
func (s *JSONLSource) Close() error {
	if c, ok := s.reader.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
