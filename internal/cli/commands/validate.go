package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/streamcard/pkg/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a streamcard configuration file (YAML, or TOML for .toml files).

Checks:
  - File syntax
  - Output and input format names
  - Chunk size and timeouts
  - Seek and webhook URLs
  - Webhook triggers`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := commandContext(cmd)
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(w, "\nConfiguration valid!\n")
	fmt.Fprintf(w, "  Output:   %s\n", cfg.Output.Format)
	fmt.Fprintf(w, "  Input:    %s (chunk size %d)\n", cfg.Stream.Input, cfg.Stream.ChunkSize)
	if cfg.Seek.URL != "" {
		fmt.Fprintf(w, "  Seek:     %s (timeout %s)\n", cfg.Seek.URL, cfg.Seek.Timeout)
	} else {
		fmt.Fprintf(w, "  Seek:     disabled\n")
	}
	fmt.Fprintf(w, "  Webhooks: %d\n", len(cfg.Webhooks))

	if len(cfg.Webhooks) > 0 {
		fmt.Fprintf(w, "\nWebhooks:\n")
		for i, wh := range cfg.Webhooks {
			fmt.Fprintf(w, "  %d. [%s] %s\n", i+1, wh.Trigger, wh.DisplayName())
		}
	}

	return nil
}
