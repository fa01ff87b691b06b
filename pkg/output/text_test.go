package output

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ccollicutt/streamcard/pkg/cards"
)

const testBuffer = "__SUMMARY|||A talk\nabout parsers." +
	"__TIMELINE|||[0:00] intro\n[2:09] tokenizer\n[ab:cd] broken\nplain note" +
	"__COMMENT|||"

func newTestReport() *Report {
	parsed := cards.ParseBuffer(testBuffer)
	return NewReport(parsed, 2, Metadata{
		Source:      "buffer.txt",
		SessionID:   "session-1",
		Chunks:      4,
		BufferBytes: len(testBuffer),
		ParsedAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Duration:    1500 * time.Microsecond,
	})
}

func TestNewReport_Summary(t *testing.T) {
	report := newTestReport()
	s := report.Summary

	if s.Cards != 3 || s.Summaries != 1 || s.Timelines != 1 || s.Comments != 1 {
		t.Errorf("Summary card counts = %+v", s)
	}
	if s.TimelineEntries != 4 {
		t.Errorf("TimelineEntries = %d, want 4", s.TimelineEntries)
	}
	if s.SeekableEntries != 2 {
		t.Errorf("SeekableEntries = %d, want 2", s.SeekableEntries)
	}
	if s.Issues != 1 || len(report.Issues) != 1 {
		t.Errorf("Issues = %d (%d listed), want 1", s.Issues, len(report.Issues))
	}
	if s.SuppressedDuplicates != 2 {
		t.Errorf("SuppressedDuplicates = %d, want 2", s.SuppressedDuplicates)
	}
	if !report.HasIssues() {
		t.Error("HasIssues() = false, want true")
	}
}

func TestNewReport_Empty(t *testing.T) {
	report := NewReport(nil, 0, Metadata{})
	if report.Cards == nil {
		t.Error("Cards = nil, want empty slice")
	}
	if report.HasIssues() {
		t.Error("HasIssues() = true, want false")
	}
}

func TestTextFormatter_Name(t *testing.T) {
	f := NewTextFormatter(FormatOptions{})
	if f.Name() != "text" {
		t.Errorf("Name() = %q, want text", f.Name())
	}
}

func TestTextFormatter_Full(t *testing.T) {
	var buf bytes.Buffer
	f := NewTextFormatter(FormatOptions{})
	if err := f.Format(context.Background(), newTestReport(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	out := buf.String()

	wants := []string{
		"=== streamcard report ===",
		"[SUMMARY]",
		"  A talk\n  about parsers.",
		"[TIMELINE] 4 entries",
		"0:00  intro",
		"2:09  tokenizer",
		"-  [ab:cd] broken",
		"malformed timestamp [ab:cd]",
		"-  plain note",
		"[COMMENT]",
		"(empty)",
		"Summary: 3 cards (1 summary, 1 comment, 1 timeline), 4 timeline entries, 1 issue",
		"Suppressed: 2 duplicate timelines",
	}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "Session:") {
		t.Error("non-verbose output should not include session metadata")
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("output to a non-terminal writer should not contain escape codes")
	}
}

func TestTextFormatter_Verbose(t *testing.T) {
	var buf bytes.Buffer
	f := NewTextFormatter(FormatOptions{Verbose: true})
	if err := f.Format(context.Background(), newTestReport(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{"line: [2:09] tokenizer", "Source: buffer.txt", "Session: session-1 (4 chunks)", "Duration: 2ms"} {
		if !strings.Contains(out, want) {
			t.Errorf("verbose output missing %q\n%s", want, out)
		}
	}
}

func TestTextFormatter_Quiet(t *testing.T) {
	var buf bytes.Buffer
	f := NewTextFormatter(FormatOptions{Quiet: true})
	if err := f.Format(context.Background(), newTestReport(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	want := "streamcard: 3 cards, 4 timeline entries, 1 issues\n"
	if buf.String() != want {
		t.Errorf("Format() = %q, want %q", buf.String(), want)
	}
}

func TestTextFormatter_NoCards(t *testing.T) {
	var buf bytes.Buffer
	f := NewTextFormatter(FormatOptions{})
	if err := f.Format(context.Background(), NewReport(nil, 0, Metadata{}), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(buf.String(), "No cards found") {
		t.Errorf("output missing empty notice:\n%s", buf.String())
	}
}

func TestTextFormatter_FormatCard(t *testing.T) {
	var buf bytes.Buffer
	f := NewTextFormatter(FormatOptions{})
	card := cards.Card{Kind: cards.KindSummary, Text: "done"}
	if err := f.FormatCard(context.Background(), card, &buf); err != nil {
		t.Fatalf("FormatCard() error = %v", err)
	}
	if buf.String() != "[SUMMARY]\n  done\n\n" {
		t.Errorf("FormatCard() = %q", buf.String())
	}
}

func TestPlural(t *testing.T) {
	tests := []struct {
		n    int
		noun string
		want string
	}{
		{1, "card", "1 card"},
		{0, "card", "0 cards"},
		{2, "entry", "2 entries"},
		{1, "timeline entry", "1 timeline entry"},
	}
	for _, tt := range tests {
		if got := plural(tt.n, tt.noun); got != tt.want {
			t.Errorf("plural(%d, %q) = %q, want %q", tt.n, tt.noun, got, tt.want)
		}
	}
}
