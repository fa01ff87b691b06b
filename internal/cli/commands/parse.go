package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/streamcard/pkg/cards"
	"github.com/ccollicutt/streamcard/pkg/output"
)

// ParseOptions holds command-line options for the parse command.
type ParseOptions struct {
	OutputOptions
	WebhookOptions
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	opts := &ParseOptions{}

	cmd := &cobra.Command{
		Use:   "parse <buffer-file|->",
		Short: "Parse a complete buffer into cards",
		Long: `Parse a summarization buffer into COMMENT, SUMMARY and TIMELINE cards.

The buffer is split on the __COMMENT|||, __SUMMARY||| and __TIMELINE|||
markers. Text before the first marker is discarded. Timeline lines are
deduplicated and their [m:ss] timestamps extracted. Repeated timeline cards
are dropped unless --keep-duplicates is set.

Use - to read the buffer from stdin.

Exit codes:
  0 - Parsed cleanly
  1 - Malformed timestamps found
  2 - Configuration or runtime error`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, opts)
		},
	}

	addOutputFlags(cmd, &opts.OutputOptions)
	cmd.Flags().BoolVar(&opts.KeepDuplicates, "keep-duplicates", false, "Keep repeated timeline cards")
	addWebhookFlags(cmd, &opts.WebhookOptions)

	return cmd
}

func runParse(cmd *cobra.Command, args []string, opts *ParseOptions) error {
	source := args[0]
	ctx := commandContext(cmd)
	start := time.Now()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	mergeOutputConfig(cmd, &opts.OutputOptions, cfg)

	formatter, err := createFormatter(&opts.OutputOptions)
	if err != nil {
		return err
	}

	buffer, err := readBuffer(cmd, source)
	if err != nil {
		return err
	}

	parsed := cards.ParseBuffer(buffer)
	suppressed := 0
	if !opts.KeepDuplicates {
		parsed, suppressed = cards.DedupTimelines(parsed)
	}

	report := output.NewReport(parsed, suppressed, output.Metadata{
		Source:      source,
		BufferBytes: len(buffer),
		ParsedAt:    time.Now(),
		Duration:    time.Since(start),
	})

	if err := formatter.Format(ctx, report, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	sendWebhooks(ctx, newLogger(cmd), cfg, &opts.WebhookOptions, report)

	if report.HasIssues() {
		ExitCode = 1
	}

	return nil
}
