// Package config holds the CLI tool configuration: logging and tracing.
package config

import (
	"fmt"

	"github.com/pipedock/oauthbridge/internal/observability"
)

// LogConfig configures log output.
type LogConfig struct {
	Level         string `json:"level"`
	EnableFile    bool   `json:"enable_file"`
	EnableConsole bool   `json:"enable_console"`
	Filename      string `json:"filename"`
	LogDir        string `json:"log_dir,omitempty"`
	MaxSize       int    `json:"max_size"`    // megabytes
	MaxBackups    int    `json:"max_backups"` // files
	MaxAge        int    `json:"max_age"`     // days
	Compress      bool   `json:"compress"`
	JSONFormat    bool   `json:"json_format"`
}

// Config is the top-level tool configuration.
type Config struct {
	Logging *LogConfig                   `json:"logging,omitempty"`
	Tracing *observability.TracingConfig `json:"tracing,omitempty"`
}

// DefaultConfig returns the configuration used when no file or environment
// overrides are present.
func DefaultConfig() *Config {
	return &Config{
		Logging: &LogConfig{
			Level:         "info",
			EnableFile:    false,
			EnableConsole: true,
			Filename:      "oauthbridge.log",
			MaxSize:       10,
			MaxBackups:    5,
			MaxAge:        30,
			Compress:      true,
			JSONFormat:    false,
		},
		Tracing: &observability.TracingConfig{
			Enabled:        false,
			ServiceName:    "oauthbridge",
			ServiceVersion: "dev",
			OTLPEndpoint:   "localhost:4318",
			SampleRate:     1.0,
		},
	}
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	if c.Logging != nil {
		switch c.Logging.Level {
		case "debug", "info", "warn", "error":
		default:
			return fmt.Errorf("invalid log level: %q", c.Logging.Level)
		}
		if !c.Logging.EnableConsole && !c.Logging.EnableFile {
			return fmt.Errorf("no log outputs configured")
		}
	}
	if c.Tracing != nil && c.Tracing.Enabled {
		if c.Tracing.OTLPEndpoint == "" {
			return fmt.Errorf("tracing enabled but otlp_endpoint is empty")
		}
		if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
			return fmt.Errorf("tracing sample_rate must be in [0,1], got %v", c.Tracing.SampleRate)
		}
	}
	return nil
}
