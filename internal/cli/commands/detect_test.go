package commands

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ccollicutt/streamcard/pkg/detector"
)

func TestRunDetect_JSONL(t *testing.T) {
	path := writeFile(t, "capture.jsonl", `{"content":"__SUMMARY|||hi","is_final":false}
{"content":"","is_final":true}
`)

	stdout, _, err := runCommand(t, NewDetectCommand(), "", path)
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}
	for _, want := range []string{"Detected Format: jsonl", "Confidence: 100.0%", "Section markers: 1"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("Output missing %q:\n%s", want, stdout)
		}
	}
}

func TestRunDetect_JSONOutput(t *testing.T) {
	path := writeFile(t, "buffer.txt", "__SUMMARY|||hi\n__TIMELINE|||[0:01] a\n")

	stdout, _, err := runCommand(t, NewDetectCommand(), "", "-o", "json", path)
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}

	var out JSONDetectOutput
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if out.Format != "text" || out.SampledLines != 2 || out.MarkerCount != 2 {
		t.Errorf("Unexpected output: %+v", out)
	}
}

func TestRunDetect_MissingFile(t *testing.T) {
	_, _, err := runCommand(t, NewDetectCommand(), "", "/nonexistent/capture.jsonl")
	if err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestRunDetect_UnknownOutput(t *testing.T) {
	path := writeFile(t, "buffer.txt", "x\n")
	_, _, err := runCommand(t, NewDetectCommand(), "", "-o", "xml", path)
	if err == nil {
		t.Error("Expected error for unknown output format")
	}
}

func TestOutputDetectText_Empty(t *testing.T) {
	var buf bytes.Buffer
	result := detector.New().DetectFromLines(nil)

	if err := outputDetectText(&buf, result, "empty.txt", &DetectOptions{}); err != nil {
		t.Fatalf("outputDetectText failed: %v", err)
	}
	if !strings.Contains(buf.String(), "File is empty") {
		t.Errorf("Expected empty notice:\n%s", buf.String())
	}
}

func TestOutputDetectText_NoMarkers(t *testing.T) {
	var buf bytes.Buffer
	result := detector.New().DetectFromLines([]string{"plain text"})

	if err := outputDetectText(&buf, result, "plain.txt", &DetectOptions{}); err != nil {
		t.Fatalf("outputDetectText failed: %v", err)
	}
	if !strings.Contains(buf.String(), "no section markers") {
		t.Errorf("Expected marker note:\n%s", buf.String())
	}
}

func TestOutputDetectText_ShowAll(t *testing.T) {
	var buf bytes.Buffer
	result := detector.New().DetectFromLines([]string{
		`{"content":"__SUMMARY|||a"}`,
		"__TIMELINE|||[0:01] b",
	})

	if err := outputDetectText(&buf, result, "mixed.txt", &DetectOptions{ShowAll: true}); err != nil {
		t.Fatalf("outputDetectText failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"--- All formats ---", "jsonl: JSON Lines chunk messages (50.0%, 1 lines)", "text: raw buffer text (50.0%, 1 lines)"} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}
}
