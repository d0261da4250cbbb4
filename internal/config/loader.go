package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "OAUTHBRIDGE"

// Load builds the configuration from defaults, an optional JSON config file,
// and OAUTHBRIDGE_* environment variable overrides, in that order.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, cfg)
}

// applyEnvOverrides layers OAUTHBRIDGE_* environment variables over the
// config, e.g. OAUTHBRIDGE_LOG_LEVEL or OAUTHBRIDGE_TRACING_ENABLED.
func applyEnvOverrides(cfg *Config) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if s := v.GetString("log_level"); s != "" {
		cfg.Logging.Level = s
	}
	if v.IsSet("log_to_file") {
		cfg.Logging.EnableFile = v.GetBool("log_to_file")
	}
	if s := v.GetString("log_dir"); s != "" {
		cfg.Logging.LogDir = s
	}
	if v.IsSet("tracing_enabled") {
		cfg.Tracing.Enabled = v.GetBool("tracing_enabled")
	}
	if s := v.GetString("tracing_endpoint"); s != "" {
		cfg.Tracing.OTLPEndpoint = s
	}
}
