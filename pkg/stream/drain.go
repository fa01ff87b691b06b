package stream

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ccollicutt/streamcard/pkg/cards"
)

// CardFunc receives each card as soon as it is complete.
type CardFunc func(card cards.Card) error

// Drain pumps src into session until the source is exhausted or a final
// chunk arrives, calling fn for every completed card. A source that ends
// without a final chunk has its trailing section flushed.
func Drain(ctx context.Context, src ChunkSource, session *Session, fn CardFunc) error {
	for {
		chunk, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			return emit(session.Flush(), fn)
		}
		if err != nil {
			return err
		}

		completed, err := session.Append(*chunk)
		if err != nil {
			return fmt.Errorf("appending chunk: %w", err)
		}
		if err := emit(completed, fn); err != nil {
			return err
		}
		if chunk.Final {
			return nil
		}
	}
}

func emit(completed []cards.Card, fn CardFunc) error {
	for _, card := range completed {
		if err := fn(card); err != nil {
			return err
		}
	}
	return nil
}
