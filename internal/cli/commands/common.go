package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/streamcard/pkg/config"
	"github.com/ccollicutt/streamcard/pkg/output"
	"github.com/ccollicutt/streamcard/pkg/webhook"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// GlobalOptions holds the persistent flags shared by every command.
type GlobalOptions struct {
	ConfigPath string
	EnvFile    string
}

// Globals is bound to the root command's persistent flags.
var Globals = &GlobalOptions{EnvFile: config.DefaultEnvFile}

// WebhookOptions holds the ad-hoc webhook flags of parse and stream.
type WebhookOptions struct {
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

func addWebhookFlags(cmd *cobra.Command, opts *WebhookOptions) {
	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", "on_issues", "When to fire webhook (on_issues|always|never)")
}

// OutputOptions holds the report flags of parse and stream.
type OutputOptions struct {
	Output         string
	Verbose        bool
	Quiet          bool
	KeepDuplicates bool
}

func addOutputFlags(cmd *cobra.Command, opts *OutputOptions) {
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show timeline source lines and run metadata")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no cards")
}

// mergeOutputConfig lets config values fill in flags the user did not set.
func mergeOutputConfig(cmd *cobra.Command, opts *OutputOptions, cfg *config.Config) {
	flags := cmd.Flags()
	if !flags.Changed("output") {
		opts.Output = string(cfg.Output.Format)
	}
	if !flags.Changed("verbose") {
		opts.Verbose = cfg.Output.Verbose
	}
	if !flags.Changed("quiet") {
		opts.Quiet = cfg.Output.Quiet
	}
	if flags.Lookup("keep-duplicates") != nil && !flags.Changed("keep-duplicates") {
		opts.KeepDuplicates = cfg.Stream.KeepDuplicates
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loadConfig loads the --config file, or defaults when none was given.
func loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(ctx, Globals.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// openInput opens a file argument, treating "-" as the command's stdin.
func openInput(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(path) // #nosec G304 -- user-provided input path is expected
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	return f, nil
}

// readBuffer reads a whole buffer file (or stdin for "-").
func readBuffer(cmd *cobra.Command, path string) (string, error) {
	r, err := openInput(cmd, path)
	if err != nil {
		return "", err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return string(data), nil
}

func createFormatter(opts *OutputOptions) (output.Formatter, error) {
	if opts.Verbose && opts.Quiet {
		return nil, fmt.Errorf("--verbose and --quiet are mutually exclusive")
	}
	f, ok := output.New(opts.Output, output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	})
	if !ok {
		return nil, fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}
	return f, nil
}

// logger prints progress and warnings to the command's stderr so stdout
// carries only the report.
type logger struct {
	info    *pterm.PrefixPrinter
	success *pterm.PrefixPrinter
	warning *pterm.PrefixPrinter
	err     *pterm.PrefixPrinter
}

func newLogger(cmd *cobra.Command) *logger {
	return newLoggerTo(cmd.ErrOrStderr())
}

func newLoggerTo(w io.Writer) *logger {
	return &logger{
		info:    pterm.Info.WithWriter(w),
		success: pterm.Success.WithWriter(w),
		warning: pterm.Warning.WithWriter(w),
		err:     pterm.Error.WithWriter(w),
	}
}

// sendWebhooks sends the report to all configured webhooks.
// Errors are logged but don't fail the command.
func sendWebhooks(ctx context.Context, log *logger, cfg *config.Config, opts *WebhookOptions, report *output.Report) {
	webhooks := collectWebhooks(cfg, opts)
	if len(webhooks) == 0 {
		return
	}

	client := webhook.NewClient()

	for _, wh := range webhooks {
		if !shouldFireWebhook(wh.Trigger, report.HasIssues()) {
			continue
		}

		resp := client.Send(ctx, report, webhook.SendOptions{
			URL:     wh.URL,
			Token:   wh.Token,
			Timeout: wh.Timeout,
		})

		if resp.Success() {
			log.success.Printfln("Webhook %s: sent (%d, %s)", wh.DisplayName(), resp.StatusCode, resp.Duration)
		} else {
			log.err.Printfln("Webhook %s: failed (%v)", wh.DisplayName(), resp.Error)
		}
	}
}

// collectWebhooks merges config file webhooks with the CLI webhook.
func collectWebhooks(cfg *config.Config, opts *WebhookOptions) []config.WebhookConfig {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)
	webhooks = append(webhooks, cfg.Webhooks...)

	if opts.WebhookURL != "" {
		trigger := config.WebhookTrigger(opts.WebhookTrigger)
		if trigger == "" {
			trigger = config.WebhookTriggerOnIssues
		}

		webhooks = append(webhooks, config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: trigger,
			Timeout: config.DefaultWebhookTimeout,
		})
	}

	return webhooks
}

// shouldFireWebhook determines if a webhook should fire based on trigger and issues.
func shouldFireWebhook(trigger config.WebhookTrigger, hasIssues bool) bool {
	switch trigger {
	case config.WebhookTriggerAlways:
		return true
	case config.WebhookTriggerNever:
		return false
	default:
		return hasIssues
	}
}
