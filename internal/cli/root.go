// Package cli provides the command-line interface for streamcard.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/streamcard/internal/cli/commands"
	"github.com/ccollicutt/streamcard/pkg/config"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	rootCmd := NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		// SilenceErrors prevents Cobra from printing this
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2 // Configuration or runtime error
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "streamcard",
		Short: "Split streamed summaries into cards",
		Long: `streamcard parses the growing text buffer of a streamed video summary.

The buffer is split on section markers into cards:
  __COMMENT|||   a free-form comment
  __SUMMARY|||   the summary text
  __TIMELINE|||  time-coded lines such as "[2:09] tokenizer"

Timeline lines are deduplicated and their timestamps extracted so an entry
can seek the video. Repeated timeline cards are shown once.

Configuration is read from --config (YAML, or TOML for .toml files) and
STREAMCARD_* environment variables, which may be set in --env-file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.LoadEnvFile(commands.Globals.EnvFile)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&commands.Globals.ConfigPath, "config", "c", "", "Config file (YAML or TOML)")
	rootCmd.PersistentFlags().StringVar(&commands.Globals.EnvFile, "env-file", config.DefaultEnvFile, "Dotenv file loaded before reading the environment")

	rootCmd.AddCommand(commands.NewParseCommand())
	rootCmd.AddCommand(commands.NewStreamCommand())
	rootCmd.AddCommand(commands.NewSeekCommand())
	rootCmd.AddCommand(commands.NewDiagnoseCommand())
	rootCmd.AddCommand(commands.NewDetectCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
