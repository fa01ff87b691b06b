package commands

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/streamcard/pkg/cards"
)

// DiagnoseOptions holds options for the diagnose command
type DiagnoseOptions struct {
	Verbose bool
}

// DiagnosticResult represents the result of a single diagnostic check
type DiagnosticResult struct {
	Check    string
	Status   string // "ok", "warning", "error"
	Message  string
	Details  []string
	Suggests []string
}

// markerLike matches anything shaped like a section marker, known or not.
var markerLike = regexp.MustCompile(`__[A-Z]+\|\|\|`)

// NewDiagnoseCommand creates the diagnose command
func NewDiagnoseCommand() *cobra.Command {
	opts := &DiagnoseOptions{}

	cmd := &cobra.Command{
		Use:   "diagnose <buffer-file|->",
		Short: "Show how a buffer splits into sections",
		Long: `Diagnose how a buffer is split into sections.

Prints a table of the raw sections (kind, byte offset, size, whether the
section is closed) and checks for common problems:
- Text before the first marker, which is discarded
- Marker-shaped tags that are not COMMENT, SUMMARY or TIMELINE
- An open trailing section that may still grow
- Malformed timeline timestamps

Example:
  streamcard diagnose buffer.txt
  streamcard diagnose -v buffer.txt  # verbose output`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			buffer, err := readBuffer(cmd, args[0])
			if err != nil {
				return err
			}
			return runDiagnose(cmd.OutOrStdout(), buffer, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show detailed diagnostic output")

	return cmd
}

func runDiagnose(w io.Writer, buffer string, opts *DiagnoseOptions) error {
	sections := cards.SplitSections(buffer)

	table, err := sectionTable(sections)
	if err != nil {
		return fmt.Errorf("rendering sections: %w", err)
	}
	fmt.Fprintln(w, "=== Sections ===")
	fmt.Fprintln(w)
	if len(sections) > 0 {
		fmt.Fprintln(w, table)
	}

	results := []DiagnosticResult{
		checkSections(sections),
		checkLeadingText(buffer, opts),
		checkUnknownMarkers(buffer),
		checkTrailingSection(sections),
	}
	results = append(results, checkTimestamps(sections, opts)...)

	if printDiagnostics(w, results, opts) > 0 {
		ExitCode = 1
	}
	return nil
}

func sectionTable(sections []cards.RawSection) (string, error) {
	data := pterm.TableData{{"#", "Kind", "Offset", "Bytes", "Closed", "Entries", "Issues"}}
	for i, s := range sections {
		entries, issues := "-", "-"
		if s.Kind == cards.KindTimeline {
			card := cards.ParseSection(s)
			entries = strconv.Itoa(len(card.Entries))
			issues = strconv.Itoa(len(cards.Issues([]cards.Card{card})))
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			string(s.Kind),
			strconv.Itoa(s.Offset),
			strconv.Itoa(len(s.Content)),
			strconv.FormatBool(s.Closed),
			entries,
			issues,
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}

func checkSections(sections []cards.RawSection) DiagnosticResult {
	result := DiagnosticResult{Check: "Sections"}
	if len(sections) == 0 {
		result.Status = "warning"
		result.Message = "No section markers found"
		result.Suggests = []string{
			"Sections start with __COMMENT|||, __SUMMARY||| or __TIMELINE|||",
		}
		return result
	}
	result.Status = "ok"
	result.Message = fmt.Sprintf("%d section(s)", len(sections))
	return result
}

func checkLeadingText(buffer string, opts *DiagnoseOptions) DiagnosticResult {
	result := DiagnosticResult{Check: "Leading Text"}
	leading := strings.TrimSpace(cards.LeadingText(buffer))
	if leading == "" {
		result.Status = "ok"
		result.Message = "Buffer starts with a marker"
		return result
	}
	result.Status = "warning"
	result.Message = fmt.Sprintf("%d byte(s) before the first marker are discarded", len(leading))
	if opts.Verbose {
		result.Details = []string{truncate(leading, 80)}
	}
	return result
}

func checkUnknownMarkers(buffer string) DiagnosticResult {
	result := DiagnosticResult{Check: "Unknown Markers"}
	var unknown []string
	seen := make(map[string]bool)
	for _, m := range markerLike.FindAllString(buffer, -1) {
		kind := cards.Kind(strings.TrimSuffix(strings.TrimPrefix(m, "__"), "|||"))
		if kind.Valid() || seen[m] {
			continue
		}
		seen[m] = true
		unknown = append(unknown, m)
	}
	if len(unknown) == 0 {
		result.Status = "ok"
		result.Message = "None"
		return result
	}
	result.Status = "warning"
	result.Message = fmt.Sprintf("%d unknown tag(s) kept as section content", len(unknown))
	result.Details = unknown
	return result
}

func checkTrailingSection(sections []cards.RawSection) DiagnosticResult {
	result := DiagnosticResult{Check: "Trailing Section"}
	if len(sections) == 0 {
		result.Status = "ok"
		result.Message = "No sections"
		return result
	}
	last := sections[len(sections)-1]
	if strings.TrimSpace(last.Content) == "" {
		result.Status = "warning"
		result.Message = fmt.Sprintf("%s section at offset %d is open and empty", last.Kind, last.Offset)
		result.Suggests = []string{
			"The stream may have been cut off right after a marker",
		}
		return result
	}
	result.Status = "ok"
	result.Message = fmt.Sprintf("%s section at offset %d is open until the stream ends", last.Kind, last.Offset)
	return result
}

func checkTimestamps(sections []cards.RawSection, opts *DiagnoseOptions) []DiagnosticResult {
	var results []DiagnosticResult
	for i, s := range sections {
		if s.Kind != cards.KindTimeline {
			continue
		}
		card := cards.ParseSection(s)
		issues := cards.Issues([]cards.Card{card})

		result := DiagnosticResult{Check: fmt.Sprintf("Timeline #%d", i+1)}
		if len(issues) == 0 {
			result.Status = "ok"
			result.Message = fmt.Sprintf("%d entries", len(card.Entries))
			if opts.Verbose {
				for _, e := range card.Entries {
					if e.Seekable() {
						result.Details = append(result.Details, fmt.Sprintf("%s %s", cards.FormatTimestamp(e.Seconds()), e.Label))
					}
				}
			}
		} else {
			result.Status = "error"
			result.Message = fmt.Sprintf("%d malformed timestamp(s)", len(issues))
			for _, issue := range issues {
				result.Details = append(result.Details, fmt.Sprintf("%s in %s", issue.Token, truncate(issue.Line, 60)))
			}
			result.Suggests = []string{"Timestamps look like [m:ss], e.g. [2:09]"}
		}
		results = append(results, result)
	}
	return results
}

func printDiagnostics(w io.Writer, results []DiagnosticResult, opts *DiagnoseOptions) int {
	fmt.Fprintln(w, "=== streamcard Buffer Diagnostics ===")
	fmt.Fprintln(w)

	okCount := 0
	warnCount := 0
	errCount := 0

	for _, r := range results {
		var icon string
		switch r.Status {
		case "ok":
			icon = "PASS"
			okCount++
		case "warning":
			icon = "WARN"
			warnCount++
		case "error":
			icon = "FAIL"
			errCount++
		}

		fmt.Fprintf(w, "[%s] %s\n", icon, r.Check)
		fmt.Fprintf(w, "    %s\n", r.Message)

		if opts.Verbose || r.Status != "ok" {
			for _, d := range r.Details {
				fmt.Fprintf(w, "      - %s\n", d)
			}
		}

		for _, hint := range r.Suggests {
			fmt.Fprintf(w, "      Hint: %s\n", hint)
		}

		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

	if errCount > 0 {
		fmt.Fprintln(w, "\nSome timeline entries will not be seekable.")
	} else if warnCount > 0 {
		fmt.Fprintln(w, "\nBuffer parses but has warnings.")
	} else {
		fmt.Fprintln(w, "\nBuffer looks good!")
	}

	return errCount
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
