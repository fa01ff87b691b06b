package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Default values for configuration.
const (
	DefaultChunkSize      = 64
	DefaultSeekTimeout    = 5 * time.Second
	DefaultWebhookTimeout = 10 * time.Second
	DefaultEnvFile        = ".env"
)

// Environment variable names.
const (
	EnvOutput    = "STREAMCARD_OUTPUT"
	EnvSeekURL   = "STREAMCARD_SEEK_URL"
	EnvSeekToken = "STREAMCARD_SEEK_TOKEN"
	EnvChunkSize = "STREAMCARD_CHUNK_SIZE"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Format: OutputText,
		},
		Stream: StreamConfig{
			Input:     InputAuto,
			ChunkSize: DefaultChunkSize,
		},
		Seek: SeekConfig{
			Timeout: DefaultSeekTimeout,
		},
		Webhooks: []WebhookConfig{},
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() error {
	if format := os.Getenv(EnvOutput); format != "" {
		c.Output.Format = OutputFormat(format)
	}
	if u := os.Getenv(EnvSeekURL); u != "" {
		c.Seek.URL = u
	}
	if token := os.Getenv(EnvSeekToken); token != "" {
		c.Seek.Token = token
	}
	if size := os.Getenv(EnvChunkSize); size != "" {
		n, err := strconv.Atoi(size)
		if err != nil {
			return fmt.Errorf("%s: invalid chunk size %q: %w", EnvChunkSize, size, err)
		}
		c.Stream.ChunkSize = n
	}
	return nil
}
