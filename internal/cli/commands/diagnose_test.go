package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ccollicutt/streamcard/pkg/cards"
)

func TestNewDiagnoseCommand(t *testing.T) {
	cmd := NewDiagnoseCommand()

	if cmd.Use != "diagnose <buffer-file|->" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}
	if cmd.Flags().Lookup("verbose") == nil {
		t.Error("Missing flag: verbose")
	}
}

func TestRunDiagnose_Clean(t *testing.T) {
	var buf bytes.Buffer
	ExitCode = 0
	t.Cleanup(func() { ExitCode = 0 })

	err := runDiagnose(&buf, "__SUMMARY|||hello__TIMELINE|||[0:05] intro\n[1:00] demo", &DiagnoseOptions{})
	if err != nil {
		t.Fatalf("runDiagnose failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"SUMMARY", "TIMELINE", "[PASS] Sections", "2 section(s)", "Buffer looks good!"} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}
	if ExitCode != 0 {
		t.Errorf("Expected exit code 0, got %d", ExitCode)
	}
}

func TestRunDiagnose_MalformedTimestamp(t *testing.T) {
	var buf bytes.Buffer
	ExitCode = 0
	t.Cleanup(func() { ExitCode = 0 })

	err := runDiagnose(&buf, "__TIMELINE|||[ab:cd] broken\n[0:01] ok", &DiagnoseOptions{})
	if err != nil {
		t.Fatalf("runDiagnose failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "[FAIL] Timeline #1") {
		t.Errorf("Expected timeline failure:\n%s", out)
	}
	if !strings.Contains(out, "[ab:cd]") {
		t.Errorf("Expected token in details:\n%s", out)
	}
	if ExitCode != 1 {
		t.Errorf("Expected exit code 1, got %d", ExitCode)
	}
}

func TestCheckSections(t *testing.T) {
	if r := checkSections(nil); r.Status != "warning" {
		t.Errorf("Expected warning for no sections, got %s", r.Status)
	}
	if r := checkSections(cards.SplitSections("__COMMENT|||x")); r.Status != "ok" {
		t.Errorf("Expected ok, got %s", r.Status)
	}
}

func TestCheckLeadingText(t *testing.T) {
	tests := []struct {
		name       string
		buffer     string
		wantStatus string
	}{
		{"starts with marker", "__SUMMARY|||x", "ok"},
		{"whitespace only", "  \n__SUMMARY|||x", "ok"},
		{"leading text", "Sure! Here you go:\n__SUMMARY|||x", "warning"},
		{"no marker at all", "just text", "warning"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := checkLeadingText(tt.buffer, &DiagnoseOptions{Verbose: true})
			if r.Status != tt.wantStatus {
				t.Errorf("Status = %s, want %s", r.Status, tt.wantStatus)
			}
		})
	}
}

func TestCheckUnknownMarkers(t *testing.T) {
	r := checkUnknownMarkers("__SUMMARY|||a __FOO||| b __FOO||| __BAR|||")
	if r.Status != "warning" {
		t.Fatalf("Expected warning, got %s", r.Status)
	}
	if len(r.Details) != 2 || r.Details[0] != "__FOO|||" || r.Details[1] != "__BAR|||" {
		t.Errorf("Unexpected details: %v", r.Details)
	}

	if r := checkUnknownMarkers("__SUMMARY|||a__TIMELINE|||b"); r.Status != "ok" {
		t.Errorf("Expected ok for known markers, got %s", r.Status)
	}
}

func TestCheckTrailingSection(t *testing.T) {
	tests := []struct {
		name       string
		buffer     string
		wantStatus string
	}{
		{"no sections", "", "ok"},
		{"open with content", "__SUMMARY|||partial text", "ok"},
		{"open and empty", "__SUMMARY|||x__TIMELINE|||", "warning"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := checkTrailingSection(cards.SplitSections(tt.buffer))
			if r.Status != tt.wantStatus {
				t.Errorf("Status = %s, want %s", r.Status, tt.wantStatus)
			}
		})
	}
}

func TestCheckTimestamps_Verbose(t *testing.T) {
	sections := cards.SplitSections("__TIMELINE|||[2:09] tokenizer\nno stamp")
	results := checkTimestamps(sections, &DiagnoseOptions{Verbose: true})

	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	if results[0].Status != "ok" {
		t.Errorf("Expected ok, got %s", results[0].Status)
	}
	if len(results[0].Details) != 1 || results[0].Details[0] != "2:09 tokenizer" {
		t.Errorf("Unexpected details: %v", results[0].Details)
	}
}

func TestSectionTable(t *testing.T) {
	table, err := sectionTable(cards.SplitSections("__COMMENT|||hi__TIMELINE|||[0:01] a\n[0:02] b"))
	if err != nil {
		t.Fatalf("sectionTable failed: %v", err)
	}
	for _, want := range []string{"Kind", "COMMENT", "TIMELINE"} {
		if !strings.Contains(table, want) {
			t.Errorf("Table missing %q:\n%s", want, table)
		}
	}
}

func TestPrintDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	results := []DiagnosticResult{
		{Check: "Test OK", Status: "ok", Message: "All good"},
		{Check: "Test Warning", Status: "warning", Message: "Minor issue", Details: []string{"detail"}},
		{Check: "Test Error", Status: "error", Message: "Major issue", Suggests: []string{"Fix this"}},
	}

	errs := printDiagnostics(&buf, results, &DiagnoseOptions{})

	if errs != 1 {
		t.Errorf("Expected 1 error, got %d", errs)
	}
	out := buf.String()
	for _, want := range []string{"[PASS] Test OK", "[WARN] Test Warning", "- detail", "Hint: Fix this", "Summary: 1 passed, 1 warnings, 1 errors"} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input  string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is a longer string", 10, "this is..."},
	}

	for _, tt := range tests {
		got := truncate(tt.input, tt.maxLen)
		if got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
		}
	}
}
