package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/streamcard/pkg/detector"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	Output     string
	SampleSize int
	ShowAll    bool
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <capture-file>",
		Short: "Detect the format of a stream capture",
		Long: `Sample a stream capture and report whether it holds JSONL chunk
messages or raw buffer text.

A capture is JSONL when at least 90% of the sampled non-blank lines are JSON
objects with a "content" or "is_final" field. The result is what
'streamcard stream --input auto' would use.

Example:
  streamcard detect capture.jsonl
  streamcard detect --sample 500 capture.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "n", 100, "Number of lines to sample")
	cmd.Flags().BoolVar(&opts.ShowAll, "all", false, "Show every format's score, not just the selected one")

	return cmd
}

func runDetect(cmd *cobra.Command, args []string, opts *DetectOptions) error {
	file := args[0]
	ctx := commandContext(cmd)

	if _, err := os.Stat(file); os.IsNotExist(err) {
		return fmt.Errorf("capture file not found: %s", file)
	}

	d := detector.New(detector.WithSampleSize(opts.SampleSize))
	result, err := d.DetectFromFile(ctx, file)
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	switch opts.Output {
	case "json":
		return outputDetectJSON(cmd.OutOrStdout(), result, file)
	case "text":
		return outputDetectText(cmd.OutOrStdout(), result, file, opts)
	default:
		return fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}
}

func outputDetectText(w io.Writer, result *detector.DetectionResult, file string, opts *DetectOptions) error {
	fmt.Fprintln(w, "=== Capture Format Detection ===")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "File: %s\n", file)
	fmt.Fprintf(w, "Lines sampled: %d\n", result.SampledLines)
	fmt.Fprintf(w, "Chunk messages: %d\n", result.MatchedLines)
	fmt.Fprintf(w, "Section markers: %d\n", result.MarkerCount)
	fmt.Fprintln(w)

	if result.SampledLines == 0 {
		fmt.Fprintln(w, "File is empty; treating it as text.")
		return nil
	}

	fmt.Fprintf(w, "Detected Format: %s\n", result.Format)
	fmt.Fprintf(w, "Confidence: %.1f%%\n", result.Confidence*100)

	if result.MarkerCount == 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Note: no section markers in the sample. The capture may not be a summarization stream.")
	}

	if best := result.BestMatch(); best != nil {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Sample line:\n  %s\n", truncate(best.SampleLine, 100))
	}

	if opts.ShowAll && len(result.Matches) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "--- All formats ---")
		for i, m := range result.Matches {
			fmt.Fprintf(w, "%d. %s: %s (%.1f%%, %d lines)\n",
				i+1, m.Format.Name, m.Format.Description, m.Confidence*100, m.MatchCount)
		}
	}

	return nil
}

// JSONDetectOutput represents the detect command's JSON output.
type JSONDetectOutput struct {
	File         string  `json:"file"`
	Format       string  `json:"format"`
	Confidence   float64 `json:"confidence"`
	SampledLines int     `json:"sampled_lines"`
	MatchedLines int     `json:"matched_lines"`
	MarkerCount  int     `json:"marker_count"`
}

func outputDetectJSON(w io.Writer, result *detector.DetectionResult, file string) error {
	out := JSONDetectOutput{
		File:         file,
		Format:       string(result.Format),
		Confidence:   result.Confidence,
		SampledLines: result.SampledLines,
		MatchedLines: result.MatchedLines,
		MarkerCount:  result.MarkerCount,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
