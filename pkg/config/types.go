// Package config provides configuration loading and validation for streamcard.
package config

import "time"

// Config is the root configuration structure loaded from YAML or TOML.
type Config struct {
	Output   OutputConfig    `yaml:"output" toml:"output"`
	Stream   StreamConfig    `yaml:"stream" toml:"stream"`
	Seek     SeekConfig      `yaml:"seek,omitempty" toml:"seek"`
	Webhooks []WebhookConfig `yaml:"webhooks,omitempty" toml:"webhooks"`
}

// OutputFormat selects the report renderer.
type OutputFormat string

const (
	OutputText OutputFormat = "text"
	OutputJSON OutputFormat = "json"
)

// OutputConfig controls how cards and reports are printed.
type OutputConfig struct {
	// Format is text or json.
	Format OutputFormat `yaml:"format" toml:"format"`

	// Verbose adds timeline line sources and run metadata.
	Verbose bool `yaml:"verbose,omitempty" toml:"verbose"`

	// Quiet prints the summary only.
	Quiet bool `yaml:"quiet,omitempty" toml:"quiet"`
}

// InputFormat selects how a stream capture is split into chunks.
type InputFormat string

const (
	// InputAuto sniffs the capture (see package detector).
	InputAuto InputFormat = "auto"
	// InputJSONL reads one {"content","is_final"} message per line.
	InputJSONL InputFormat = "jsonl"
	// InputText reads raw text in fixed-size chunks.
	InputText InputFormat = "text"
)

// StreamConfig controls the stream command.
type StreamConfig struct {
	Input InputFormat `yaml:"input" toml:"input"`

	// ChunkSize is the byte size of raw text chunks.
	ChunkSize int `yaml:"chunk_size,omitempty" toml:"chunk_size"`

	// KeepDuplicates disables timeline card deduplication.
	KeepDuplicates bool `yaml:"keep_duplicates,omitempty" toml:"keep_duplicates"`
}

// SeekConfig defines where seek requests for a timeline entry are relayed.
type SeekConfig struct {
	// URL of the host page relay. Empty disables seeking.
	URL string `yaml:"url,omitempty" toml:"url"`

	// Token is an optional bearer token.
	Token string `yaml:"token,omitempty" toml:"token"`

	// Timeout is the HTTP request timeout.
	Timeout time.Duration `yaml:"timeout,omitempty" toml:"timeout"`
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnIssues fires only when parse issues are found (default).
	WebhookTriggerOnIssues WebhookTrigger = "on_issues"
	// WebhookTriggerAlways fires after every parse.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines a webhook endpoint that receives parse reports.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty" toml:"name"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url" toml:"url"`

	// Token is an optional bearer token for authentication.
	Token string `yaml:"token,omitempty" toml:"token"`

	// Trigger determines when the webhook fires.
	// Defaults to "on_issues" if not specified.
	Trigger WebhookTrigger `yaml:"trigger,omitempty" toml:"trigger"`

	// Timeout is the HTTP request timeout.
	// Defaults to 10s if not specified.
	Timeout time.Duration `yaml:"timeout,omitempty" toml:"timeout"`
}

// DisplayName returns the webhook name, falling back to its URL.
func (w WebhookConfig) DisplayName() string {
	if w.Name != "" {
		return w.Name
	}
	return w.URL
}
