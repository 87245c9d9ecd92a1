// Package output renders a finished conversation into downloadable document
// formats. Generators depend only on the data model, never on parsing.
package output

import (
	"fmt"
	"strings"

	"chat-export-go/internal/model"
)

// ExportOptions affect rendering only, never extraction.
type ExportOptions struct {
	IncludeMetadata   bool
	IncludeTimestamps bool
	IncludeArtifacts  bool
	PageSize          string
	FontSize          float64
}

// DefaultExportOptions returns the options used when the caller supplies none.
func DefaultExportOptions() *ExportOptions {
	return &ExportOptions{
		IncludeMetadata:   true,
		IncludeTimestamps: true,
		IncludeArtifacts:  true,
		PageSize:          "A4",
		FontSize:          12,
	}
}

// Generator renders a conversation into one output encoding.
type Generator interface {
	Generate(conv *model.Conversation, opts *ExportOptions) ([]byte, error)
	Extension() string
	ContentType() string
}

// Formats returns the supported format names.
func Formats() []string {
	return []string{"json", "csv", "markdown", "text", "pdf", "epub"}
}

// ForFormat returns the generator for a format name.
func ForFormat(format string) (Generator, error) {
	switch strings.ToLower(format) {
	case "json":
		return &JSONGenerator{}, nil
	case "csv":
		return &CSVGenerator{}, nil
	case "markdown", "md":
		return &MarkdownGenerator{}, nil
	case "text", "txt":
		return &TextGenerator{}, nil
	case "pdf":
		return &PDFGenerator{}, nil
	case "epub":
		return &EPUBGenerator{}, nil
	}
	return nil, fmt.Errorf("unknown output format %q (supported: %s)", format, strings.Join(Formats(), ", "))
}

func roleLabel(r model.Role) string {
	switch r {
	case model.RoleUser:
		return "User"
	case model.RoleAssistant:
		return "Assistant"
	case model.RoleSystem:
		return "System"
	}
	return string(r)
}
