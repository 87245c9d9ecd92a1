package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"chat-export-go/internal/extractor"
	"chat-export-go/internal/output"
)

// LoadConfig loads configuration from a YAML or JSON file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config (tried YAML and JSON): %w", err)
			}
		}
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// ValidateConfig validates the configuration for required fields and consistency
func ValidateConfig(cfg *Config) error {
	if cfg.HTTP.DelayMS < 0 {
		return fmt.Errorf("http.delayMs must be >= 0")
	}
	if cfg.HTTP.TimeoutSeconds < 1 {
		cfg.HTTP.TimeoutSeconds = 30
	}

	known := map[string]bool{}
	for _, name := range extractor.DefaultOrder() {
		known[name] = true
	}
	for _, name := range cfg.Strategies.Disabled {
		if !known[name] {
			return fmt.Errorf("strategies.disabled: unknown strategy %q (valid: %s)",
				name, strings.Join(extractor.DefaultOrder(), ", "))
		}
	}
	for name, seconds := range cfg.Strategies.TimeoutSeconds {
		if !known[name] {
			return fmt.Errorf("strategies.timeouts: unknown strategy %q", name)
		}
		if seconds < 1 {
			return fmt.Errorf("strategies.timeouts.%s must be >= 1", name)
		}
	}

	if cfg.Strategies.Render.MaxWaitSeconds < 1 {
		cfg.Strategies.Render.MaxWaitSeconds = 10
	}
	if cfg.Strategies.Render.PollIntervalMS < 1 {
		cfg.Strategies.Render.PollIntervalMS = 500
	}
	if cfg.Strategies.Semantic.MaxExcerptChars < 1 {
		cfg.Strategies.Semantic.MaxExcerptChars = 12000
	}

	if cfg.Rules.FeedPath != "" {
		if _, err := os.Stat(cfg.Rules.FeedPath); err != nil {
			return fmt.Errorf("rules.feedPath: %w", err)
		}
	}

	if _, err := output.ForFormat(cfg.Output.Format); err != nil {
		return fmt.Errorf("output.format: %w", err)
	}
	if cfg.Output.Path == "" {
		cfg.Output.Path = "."
	}

	switch strings.ToLower(cfg.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error")
	}

	return nil
}

// SaveConfig saves the configuration to a file
func SaveConfig(cfg *Config, path string) error {
	ext := strings.ToLower(filepath.Ext(path))

	var data []byte
	var err error

	switch ext {
	case ".json":
		data, err = json.MarshalIndent(cfg, "", "  ")
	default:
		data, err = yaml.Marshal(cfg)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ExportOptions resolves the configured output options against the
// generator defaults.
func (o OutputOptions) ExportOptions() *output.ExportOptions {
	opts := output.DefaultExportOptions()
	if o.IncludeMetadata != nil {
		opts.IncludeMetadata = *o.IncludeMetadata
	}
	if o.IncludeTimestamps != nil {
		opts.IncludeTimestamps = *o.IncludeTimestamps
	}
	if o.IncludeArtifacts != nil {
		opts.IncludeArtifacts = *o.IncludeArtifacts
	}
	if o.PageSize != "" {
		opts.PageSize = o.PageSize
	}
	if o.FontSize > 0 {
		opts.FontSize = o.FontSize
	}
	return opts
}
