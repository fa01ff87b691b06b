package output

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ccollicutt/streamcard/pkg/cards"
)

func TestJSONFormatter_Name(t *testing.T) {
	f := NewJSONFormatter(FormatOptions{})
	if f.Name() != "json" {
		t.Errorf("Name() = %q, want json", f.Name())
	}
}

func TestJSONFormatter_Full(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(FormatOptions{})
	if err := f.Format(context.Background(), newTestReport(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var decoded struct {
		Summary Summary `json:"summary"`
		Cards   []struct {
			Kind    string `json:"kind"`
			Text    string `json:"text"`
			Entries []struct {
				Timestamp *int   `json:"timestamp"`
				Label     string `json:"label"`
			} `json:"entries"`
		} `json:"cards"`
		Issues []struct {
			Token string `json:"token"`
		} `json:"issues"`
		Metadata struct {
			SessionID string `json:"session_id"`
		} `json:"metadata"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}

	if decoded.Summary.Cards != 3 {
		t.Errorf("summary.cards = %d, want 3", decoded.Summary.Cards)
	}
	if len(decoded.Cards) != 3 || decoded.Cards[1].Kind != "TIMELINE" {
		t.Fatalf("cards = %+v", decoded.Cards)
	}
	entries := decoded.Cards[1].Entries
	if entries[1].Timestamp == nil || *entries[1].Timestamp != 129 {
		t.Errorf("entries[1].timestamp = %v, want 129", entries[1].Timestamp)
	}
	if entries[2].Timestamp != nil {
		t.Errorf("entries[2].timestamp = %v, want null", *entries[2].Timestamp)
	}
	if len(decoded.Issues) != 1 || decoded.Issues[0].Token != "[ab:cd]" {
		t.Errorf("issues = %+v", decoded.Issues)
	}
	if decoded.Metadata.SessionID != "session-1" {
		t.Errorf("metadata.session_id = %q", decoded.Metadata.SessionID)
	}
}

func TestJSONFormatter_Quiet(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(FormatOptions{Quiet: true})
	if err := f.Format(context.Background(), newTestReport(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var summary Summary
	if err := json.Unmarshal(buf.Bytes(), &summary); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if summary.TimelineEntries != 4 {
		t.Errorf("timeline_entries = %d, want 4", summary.TimelineEntries)
	}
	if strings.Contains(buf.String(), "cards\": [") {
		t.Error("quiet output should not include cards")
	}
}

func TestJSONFormatter_FormatCard(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(FormatOptions{})
	card := cards.ParseBuffer("__TIMELINE|||[1:00] said something")[0]
	if err := f.FormatCard(context.Background(), card, &buf); err != nil {
		t.Fatalf("FormatCard() error = %v", err)
	}

	out := buf.String()
	if strings.Count(out, "\n") != 1 {
		t.Errorf("FormatCard() should emit one line, got %q", out)
	}
	if !strings.Contains(out, `"timestamp":60`) || !strings.Contains(out, `"label":"said something"`) {
		t.Errorf("FormatCard() = %s", out)
	}
}

func TestNew(t *testing.T) {
	for _, name := range []string{"text", "json"} {
		f, ok := New(name, FormatOptions{})
		if !ok || f.Name() != name {
			t.Errorf("New(%q) = %v, %v", name, f, ok)
		}
	}
	if _, ok := New("xml", FormatOptions{}); ok {
		t.Error("New(\"xml\") ok = true, want false")
	}
}
