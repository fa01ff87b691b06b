package stream

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, src ChunkSource) []Chunk {
	t.Helper()
	var chunks []Chunk
	for {
		chunk, err := src.Next(context.Background())
		if errors.Is(err, io.EOF) {
			return chunks
		}
		require.NoError(t, err)
		chunks = append(chunks, *chunk)
	}
}

func TestJSONLSourceNext(t *testing.T) {
	input := `{"content":"__SUMMARY|||hel","is_final":false}

{"content":"lo","is_final":false}
{"content":"","is_final":true}
`
	src := NewJSONLSource(strings.NewReader(input), "capture.jsonl")
	defer src.Close()

	chunks := collect(t, src)

	assert.Equal(t, []Chunk{
		{Content: "__SUMMARY|||hel"},
		{Content: "lo"},
		{Content: "", Final: true},
	}, chunks)
}

func TestJSONLSourceMalformedLine(t *testing.T) {
	src := NewJSONLSource(strings.NewReader("{\"content\":\"a\"}\nnot json\n"), "bad.jsonl")

	_, err := src.Next(context.Background())
	require.NoError(t, err)

	_, err = src.Next(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.jsonl:2")
}

func TestJSONLSourceClosesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"content":"x","is_final":true}`+"\n"), 0644))

	f, err := os.Open(path)
	require.NoError(t, err)

	src := NewJSONLSource(f, path)
	assert.Len(t, collect(t, src), 1)
	require.NoError(t, src.Close())

	_, err = f.Read(make([]byte, 1))
	assert.Error(t, err)
}

func TestJSONLSourceContextCancellation(t *testing.T) {
	src := NewJSONLSource(strings.NewReader(`{"content":"x"}`), "c")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTextSourceChunks(t *testing.T) {
	src := NewTextSource(strings.NewReader("abcdefghij"), "raw.txt", 4)

	chunks := collect(t, src)

	assert.Equal(t, []Chunk{
		{Content: "abcd"},
		{Content: "efgh"},
		{Content: "ij", Final: true},
	}, chunks)
}

func TestTextSourceExactMultiple(t *testing.T) {
	src := NewTextSource(strings.NewReader("abcdefgh"), "raw.txt", 4)

	chunks := collect(t, src)

	require.Len(t, chunks, 2)
	assert.False(t, chunks[0].Final)
	assert.True(t, chunks[1].Final)
	assert.Equal(t, "efgh", chunks[1].Content)
}

func TestTextSourceEmpty(t *testing.T) {
	src := NewTextSource(strings.NewReader(""), "empty.txt", 4)
	assert.Empty(t, collect(t, src))
}

func TestTextSourceDefaultChunkSize(t *testing.T) {
	src := NewTextSource(strings.NewReader(strings.Repeat("x", DefaultChunkSize+1)), "raw.txt", 0)

	chunks := collect(t, src)

	require.Len(t, chunks, 2)
	assert.Len(t, chunks[0].Content, DefaultChunkSize)
}

func TestTextSourceContextCancellation(t *testing.T) {
	src := NewTextSource(strings.NewReader("abc"), "raw.txt", 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
