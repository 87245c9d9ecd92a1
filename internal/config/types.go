// Package config provides configuration types and loading functionality
// for the conversation exporter.
package config

// Config is the root configuration structure
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Strategies StrategiesConfig `yaml:"strategies"`
	Rules      RulesConfig      `yaml:"rules"`
	Output     OutputConfig     `yaml:"output"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// HTTPConfig controls outbound fetching behavior
type HTTPConfig struct {
	UserAgent      string `yaml:"userAgent,omitempty"`
	TimeoutSeconds int    `yaml:"timeout,omitempty"`
	DelayMS        int    `yaml:"delayMs,omitempty"`
}

// StrategiesConfig controls which extraction strategies run and how long
// each may take
type StrategiesConfig struct {
	Disabled       []string       `yaml:"disabled,omitempty"`
	TimeoutSeconds map[string]int `yaml:"timeouts,omitempty"`
	Render         RenderConfig   `yaml:"render,omitempty"`
	Semantic       SemanticConfig `yaml:"semantic,omitempty"`
}

// RenderConfig controls the headless-browser strategy
type RenderConfig struct {
	MaxWaitSeconds int `yaml:"maxWait,omitempty"`
	PollIntervalMS int `yaml:"pollIntervalMs,omitempty"`
}

// SemanticConfig controls the LLM fallback strategy. The strategy stays
// disabled when no API key is configured.
type SemanticConfig struct {
	APIKey          string `yaml:"apiKey,omitempty"`
	Model           string `yaml:"model,omitempty"`
	MaxExcerptChars int    `yaml:"maxExcerptChars,omitempty"`
}

// RulesConfig points at an optional community rule feed file
type RulesConfig struct {
	FeedPath string `yaml:"feedPath,omitempty"`
}

// OutputConfig controls output generation
type OutputConfig struct {
	Format  string        `yaml:"format"`
	Path    string        `yaml:"outputPath"`
	Options OutputOptions `yaml:"options,omitempty"`
}

// OutputOptions mirror the rendering options of the output generators.
// Nil pointers mean "use the default", which is enabled.
type OutputOptions struct {
	IncludeMetadata   *bool   `yaml:"includeMetadata,omitempty"`
	IncludeTimestamps *bool   `yaml:"includeTimestamps,omitempty"`
	IncludeArtifacts  *bool   `yaml:"includeArtifacts,omitempty"`
	PageSize          string  `yaml:"pageSize,omitempty"`
	FontSize          float64 `yaml:"fontSize,omitempty"`
}

// LoggingConfig controls log verbosity and encoding
type LoggingConfig struct {
	Level string `yaml:"level,omitempty"`
	JSON  bool   `yaml:"json,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			UserAgent:      "Mozilla/5.0 (compatible; ChatExport/1.0)",
			TimeoutSeconds: 30,
			DelayMS:        1000,
		},
		Strategies: StrategiesConfig{
			Render: RenderConfig{
				MaxWaitSeconds: 10,
				PollIntervalMS: 500,
			},
			Semantic: SemanticConfig{
				MaxExcerptChars: 12000,
			},
		},
		Output: OutputConfig{
			Format: "pdf",
			Path:   ".",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
