package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/streamcard/pkg/cards"
	"github.com/ccollicutt/streamcard/pkg/config"
	"github.com/ccollicutt/streamcard/pkg/detector"
	"github.com/ccollicutt/streamcard/pkg/output"
	"github.com/ccollicutt/streamcard/pkg/stream"
)

// StreamOptions holds command-line options for the stream command.
type StreamOptions struct {
	OutputOptions
	WebhookOptions

	Input     string
	ChunkSize int
}

// NewStreamCommand creates the stream command.
func NewStreamCommand() *cobra.Command {
	opts := &StreamOptions{}

	cmd := &cobra.Command{
		Use:   "stream [capture-file|-]",
		Short: "Replay a chunked stream and print cards as they complete",
		Long: `Replay a captured summarization stream chunk by chunk.

Each chunk is appended to the session buffer and the buffer is re-parsed.
A card is printed as soon as the next marker closes its section; the last
card is printed when the final chunk arrives or the capture ends. Repeated
timeline cards are printed once.

Input formats:
  jsonl - one {"content": "...", "is_final": false} message per line
  text  - raw buffer text, replayed in --chunk-size byte chunks
  auto  - sniff the capture (default)

Reads stdin when no file (or -) is given.

Exit codes:
  0 - Parsed cleanly
  1 - Malformed timestamps found
  2 - Configuration or runtime error`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStream(cmd, args, opts)
		},
	}

	addOutputFlags(cmd, &opts.OutputOptions)
	addWebhookFlags(cmd, &opts.WebhookOptions)
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "auto", "Capture format (auto|jsonl|text)")
	cmd.Flags().IntVar(&opts.ChunkSize, "chunk-size", config.DefaultChunkSize, "Byte size of replayed text chunks")

	return cmd
}

func runStream(cmd *cobra.Command, args []string, opts *StreamOptions) error {
	source := "-"
	if len(args) == 1 {
		source = args[0]
	}
	ctx := commandContext(cmd)
	log := newLogger(cmd)

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	mergeOutputConfig(cmd, &opts.OutputOptions, cfg)
	if !cmd.Flags().Changed("input") {
		opts.Input = string(cfg.Stream.Input)
	}
	if !cmd.Flags().Changed("chunk-size") {
		opts.ChunkSize = cfg.Stream.ChunkSize
	}
	if opts.ChunkSize <= 0 {
		return fmt.Errorf("--chunk-size must be positive, got %d", opts.ChunkSize)
	}

	formatter, err := createFormatter(&opts.OutputOptions)
	if err != nil {
		return err
	}

	r, err := openInput(cmd, source)
	if err != nil {
		return err
	}
	defer r.Close()

	input, reader, err := resolveInput(ctx, config.InputFormat(opts.Input), r)
	if err != nil {
		return err
	}

	var src stream.ChunkSource
	switch input {
	case config.InputJSONL:
		src = stream.NewJSONLSource(reader, source)
	default:
		src = stream.NewTextSource(reader, source, opts.ChunkSize)
	}
	defer src.Close()

	session := stream.NewSession()
	if !opts.Quiet {
		log.info.Printfln("Session %s: reading %s as %s", session.ID(), source, input)
	}

	out := cmd.OutOrStdout()
	err = stream.Drain(ctx, src, session, func(card cards.Card) error {
		if opts.Quiet {
			return nil
		}
		return formatter.FormatCard(ctx, card, out)
	})
	if err != nil {
		return fmt.Errorf("streaming %s: %w", source, err)
	}

	parsed, suppressed := session.Cards()
	report := output.NewReport(parsed, suppressed, output.Metadata{
		Source:      source,
		SessionID:   session.ID(),
		Chunks:      session.Chunks(),
		BufferBytes: session.Len(),
		ParsedAt:    time.Now(),
		Duration:    time.Since(session.Started()),
	})

	if opts.Quiet {
		if err := formatter.Format(ctx, report, out); err != nil {
			return fmt.Errorf("formatting output: %w", err)
		}
	} else {
		log.success.Printfln("Stream complete: %d cards from %d chunks (%d duplicate timelines suppressed)",
			report.Summary.Cards, report.Metadata.Chunks, report.Summary.SuppressedDuplicates)
	}

	for _, issue := range report.Issues {
		log.warning.Printfln("malformed timestamp %s in %q", issue.Token, issue.Line)
	}

	sendWebhooks(ctx, log, cfg, &opts.WebhookOptions, report)

	if report.HasIssues() {
		ExitCode = 1
	}

	return nil
}

// resolveInput settles the capture format. For auto it buffers the input,
// sniffs it, and returns a reader over the buffered bytes.
func resolveInput(ctx context.Context, input config.InputFormat, r io.Reader) (config.InputFormat, io.Reader, error) {
	switch input {
	case config.InputJSONL, config.InputText:
		return input, r, nil
	case config.InputAuto, "":
	default:
		return "", nil, fmt.Errorf("unknown input format %q (use auto, jsonl, or text)", input)
	}

	if err := ctx.Err(); err != nil {
		return "", nil, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", nil, fmt.Errorf("reading input: %w", err)
	}

	result := detector.New().DetectFromLines(strings.Split(string(data), "\n"))
	if result.Format == detector.FormatJSONL {
		return config.InputJSONL, bytes.NewReader(data), nil
	}
	return config.InputText, bytes.NewReader(data), nil
}
