// Chat Export
// Extracts shared AI chatbot conversations and exports them as documents.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"chat-export-go/internal/adaptive"
	"chat-export-go/internal/config"
	"chat-export-go/internal/extractor"
	"chat-export-go/internal/model"
	"chat-export-go/internal/orchestrator"
	"chat-export-go/internal/output"
	"chat-export-go/internal/platform"
	"chat-export-go/internal/rules"
)

const (
	AppName    = "chatexport"
	AppVersion = "1.0.0"
)

func main() {
	var (
		url        = flag.String("url", "", "Share URL of the conversation to export")
		configFile = flag.String("config", "", "Path to configuration file (YAML or JSON)")
		format     = flag.String("format", "", "Output format (overrides config): "+strings.Join(output.Formats(), ", "))
		outputPath = flag.String("output", "", "Output directory (overrides config)")
		testMode   = flag.Bool("test", false, "Extract and print a summary without writing a file")
		verbose    = flag.Bool("verbose", false, "Enable verbose output")
		version    = flag.Bool("version", false, "Show version information")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `%s v%s - AI Conversation Exporter

Extracts shared AI chatbot conversations (ChatGPT, Claude, Gemini,
Perplexity) and exports them as PDF, Markdown, JSON, CSV, text, or EPUB.

Usage:
  %s -url <share-url> [options]

Options:
`, AppName, AppVersion, os.Args[0])
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Export a shared conversation as PDF
  %s -url "https://chatgpt.com/share/abc123"

  # Export as Markdown into a specific directory
  %s -url "https://claude.ai/share/abc123" -format markdown -output ./exports

  # Verify extraction without writing a file
  %s -url "https://chatgpt.com/share/abc123" -test

Supported platforms: %s
`, os.Args[0], os.Args[0], os.Args[0], strings.Join(platformLabels(), ", "))
	}

	flag.Parse()

	if *version {
		fmt.Printf("%s v%s\n", AppName, AppVersion)
		os.Exit(0)
	}

	if *url == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		fatalf("Failed to load configuration: %v", err)
	}
	if *format != "" {
		cfg.Output.Format = *format
	}
	if *outputPath != "" {
		cfg.Output.Path = *outputPath
	}
	if err := config.ValidateConfig(cfg); err != nil {
		fatalf("Invalid configuration: %v", err)
	}

	logger := newLogger(cfg.Logging, *verbose)

	gen, err := output.ForFormat(cfg.Output.Format)
	if err != nil {
		fatalf("%v", err)
	}

	orch, err := buildOrchestrator(cfg, logger)
	if err != nil {
		fatalf("Failed to set up extraction: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	fmt.Printf("Extracting conversation from %s ...\n", *url)
	conv, err := orch.Extract(ctx, *url)
	if err != nil {
		reportExtractionFailure(err, logger)
		os.Exit(1)
	}

	if *testMode {
		printSummary(conv)
		return
	}

	data, err := gen.Generate(conv, cfg.Output.Options.ExportOptions())
	if err != nil {
		fatalf("Failed to render %s output: %v", cfg.Output.Format, err)
	}

	if err := os.MkdirAll(cfg.Output.Path, 0755); err != nil {
		fatalf("Failed to create output directory: %v", err)
	}
	path := filepath.Join(cfg.Output.Path, output.FilenameFor(conv, gen))
	if err := os.WriteFile(path, data, 0644); err != nil {
		fatalf("Failed to write output file: %v", err)
	}

	fmt.Printf("✓ %s (%d messages, %s)\n", path, len(conv.Messages), output.FormatFileSize(int64(len(data))))
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.DefaultConfig(), nil
	}
	return config.LoadConfig(path)
}

func newLogger(lc config.LoggingConfig, verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(lc.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	if verbose {
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)

	if lc.JSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}

// buildOrchestrator wires the rule registry, fetcher, strategies, and
// adaptive selector from configuration.
func buildOrchestrator(cfg *config.Config, logger *logrus.Logger) (*orchestrator.Orchestrator, error) {
	registry := rules.NewRegistry()
	if cfg.Rules.FeedPath != "" {
		if err := registry.LoadFeed(cfg.Rules.FeedPath); err != nil {
			return nil, fmt.Errorf("failed to load rule feed: %w", err)
		}
	}

	fetcher := extractor.NewFetcher(cfg.HTTP.UserAgent, cfg.HTTP.TimeoutSeconds, cfg.HTTP.DelayMS)

	disabled := map[string]bool{}
	for _, name := range cfg.Strategies.Disabled {
		disabled[name] = true
	}

	apiKey := cfg.Strategies.Semantic.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" && !disabled[extractor.StrategySemantic] {
		disabled[extractor.StrategySemantic] = true
		logger.Debug("semantic fallback disabled: no API key configured")
	}

	all := []extractor.Strategy{
		&extractor.StaticStrategy{Fetcher: fetcher, Rules: registry},
		&extractor.StructuredEndpointStrategy{Fetcher: fetcher},
		&extractor.RenderedDOMStrategy{
			Rules:        registry,
			MaxWait:      time.Duration(cfg.Strategies.Render.MaxWaitSeconds) * time.Second,
			PollInterval: time.Duration(cfg.Strategies.Render.PollIntervalMS) * time.Millisecond,
		},
		&extractor.CommunityRuleStrategy{Fetcher: fetcher, Rules: registry},
	}
	if !disabled[extractor.StrategySemantic] {
		all = append(all, &extractor.SemanticFallbackStrategy{
			Client:     openai.NewClient(apiKey),
			Fetcher:    fetcher,
			Model:      cfg.Strategies.Semantic.Model,
			MaxExcerpt: cfg.Strategies.Semantic.MaxExcerptChars,
		})
	}

	var enabled []extractor.Strategy
	for _, s := range all {
		if disabled[s.Name()] {
			logger.WithField("strategy", s.Name()).Debug("strategy disabled by configuration")
			continue
		}
		enabled = append(enabled, s)
	}
	if len(enabled) == 0 {
		return nil, errors.New("all extraction strategies are disabled")
	}

	timeouts := make(map[string]time.Duration, len(cfg.Strategies.TimeoutSeconds))
	for name, seconds := range cfg.Strategies.TimeoutSeconds {
		timeouts[name] = time.Duration(seconds) * time.Second
	}

	outcomes := adaptive.NewLog()
	selector := adaptive.NewSelector(outcomes)
	return orchestrator.New(enabled, selector, outcomes, timeouts, logger), nil
}

func reportExtractionFailure(err error, logger *logrus.Logger) {
	var unsupported *platform.UnsupportedPlatformError
	if errors.As(err, &unsupported) {
		fmt.Fprintf(os.Stderr, "✗ %v\n", err)
		return
	}

	var exhausted *orchestrator.AllStrategiesFailed
	if errors.As(err, &exhausted) {
		fmt.Fprintf(os.Stderr, "✗ %v\n", exhausted)
		logger.WithField("details", exhausted.Details()).Debug("strategy failures")
		return
	}

	fmt.Fprintf(os.Stderr, "✗ Extraction failed: %v\n", err)
}

func printSummary(conv *model.Conversation) {
	fmt.Println("\n✓ Extraction successful!")
	fmt.Printf("Title:    %s\n", conv.Title)
	fmt.Printf("Platform: %s\n", platform.Label(conv.Platform))
	fmt.Printf("Messages: %d\n", len(conv.Messages))

	artifacts := 0
	for _, m := range conv.Messages {
		artifacts += len(m.Content.Artifacts)
	}
	fmt.Printf("Artifacts: %d\n", artifacts)

	if len(conv.Messages) > 0 {
		preview := conv.Messages[0].Content.Text
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		fmt.Printf("First message: %s\n", preview)
	}
}

func platformLabels() []string {
	names := platform.Supported()
	labels := make([]string, 0, len(names))
	for _, name := range names {
		labels = append(labels, platform.Label(platform.Platform(name)))
	}
	return labels
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "✗ "+format+"\n", args...)
	os.Exit(1)
}
