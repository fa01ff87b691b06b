package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/streamcard/pkg/cards"
	"github.com/ccollicutt/streamcard/pkg/webhook"
)

// SeekOptions holds command-line options for the seek command.
type SeekOptions struct {
	URL   string
	Token string
}

// NewSeekCommand creates the seek command.
func NewSeekCommand() *cobra.Command {
	opts := &SeekOptions{}

	cmd := &cobra.Command{
		Use:   "seek <target>",
		Short: "Ask the host page to seek its video to a timeline entry",
		Long: `Relay a seek request to the page hosting the video.

The target is a timeline timestamp ([2:09] or 2:09) or whole seconds (129).
The request is posted as {"type": "SEEK_TO", "seconds": N} to --url, or to
seek.url from the config file.

Example:
  streamcard seek --url http://localhost:8080/seek "[2:09]"
  STREAMCARD_SEEK_URL=http://localhost:8080/seek streamcard seek 129`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeek(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.URL, "url", "", "Seek relay URL (overrides seek.url)")
	cmd.Flags().StringVar(&opts.Token, "token", "", "Bearer token for the relay (overrides seek.token)")

	return cmd
}

func runSeek(cmd *cobra.Command, args []string, opts *SeekOptions) error {
	ctx := commandContext(cmd)

	seconds, err := cards.ParseSeekTarget(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	url := cfg.Seek.URL
	if opts.URL != "" {
		url = opts.URL
	}
	if url == "" {
		return fmt.Errorf("no seek URL configured (use --url or seek.url)")
	}
	token := cfg.Seek.Token
	if opts.Token != "" {
		token = opts.Token
	}

	resp := webhook.NewClient().Seek(ctx, seconds, webhook.SendOptions{
		URL:     url,
		Token:   token,
		Timeout: cfg.Seek.Timeout,
	})
	if !resp.Success() {
		return fmt.Errorf("seek to %s failed: %w", cards.FormatTimestamp(seconds), resp.Error)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Seeked to %s (%ds)\n", cards.FormatTimestamp(seconds), seconds)
	return nil
}
