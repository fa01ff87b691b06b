package stream

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ccollicutt/streamcard/pkg/cards"
)

// ErrSessionClosed is returned when appending to a session that already
// received its final chunk.
var ErrSessionClosed = errors.New("stream session is closed")

// Session owns the growing buffer of one streamed response. Every append
// re-parses the whole buffer and reports the cards completed by it.
type Session struct {
	mu      sync.Mutex
	id      string
	buf     strings.Builder
	tracker *cards.Tracker
	chunks  int
	closed  bool
	started time.Time
}

// NewSession creates an empty session with a fresh ID.
func NewSession() *Session {
	return &Session{
		id:      uuid.New().String(),
		tracker: cards.NewTracker(),
		started: time.Now(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Append adds a chunk to the buffer and returns the cards it completed.
// A final chunk also completes the trailing section and closes the session.
func (s *Session) Append(chunk Chunk) ([]cards.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSessionClosed
	}

	s.buf.WriteString(chunk.Content)
	s.chunks++
	if chunk.Final {
		s.closed = true
	}
	return s.tracker.Observe(cards.SplitSections(s.buf.String()), s.closed), nil
}

// Flush closes the session without new content and returns the trailing
// card if it was still open. Flushing a closed session returns nothing.
func (s *Session) Flush() []cards.Card {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.tracker.Observe(cards.SplitSections(s.buf.String()), true)
}

// Cards re-parses the whole buffer and returns every card with repeated
// timelines removed, along with the number of suppressed duplicates.
func (s *Session) Cards() ([]cards.Card, int) {
	return cards.DedupTimelines(cards.ParseBuffer(s.Buffer()))
}

// Sections returns the raw sections of the current buffer.
func (s *Session) Sections() []cards.RawSection {
	return cards.SplitSections(s.Buffer())
}

// Buffer returns the accumulated text.
func (s *Session) Buffer() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

// Len returns the buffer length in bytes.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Len()
}

// Chunks returns the number of chunks appended.
func (s *Session) Chunks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chunks
}

// Closed reports whether the session received its final chunk or was flushed.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Suppressed returns the number of repeated timelines withheld from Append.
func (s *Session) Suppressed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.Suppressed()
}

// Started returns when the session was created or last reset.
func (s *Session) Started() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// Reset discards the buffer and starts a new session under a new ID, as when
// a fresh summarization request replaces the previous one.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.id = uuid.New().String()
	s.buf.Reset()
	s.tracker.Reset()
	s.chunks = 0
	s.closed = false
	s.started = time.Now()
}
