package output

import (
	"fmt"
	"strings"
	"time"

	"chat-export-go/internal/model"
)

// TextGenerator renders a plain-text transcript.
type TextGenerator struct{}

func (g *TextGenerator) Extension() string   { return "txt" }
func (g *TextGenerator) ContentType() string { return "text/plain" }

func (g *TextGenerator) Generate(conv *model.Conversation, opts *ExportOptions) ([]byte, error) {
	if opts == nil {
		opts = DefaultExportOptions()
	}

	rule := strings.Repeat("=", 60)
	var b strings.Builder

	b.WriteString(rule + "\n")
	b.WriteString(conv.Title + "\n")
	b.WriteString(rule + "\n")

	if opts.IncludeMetadata {
		fmt.Fprintf(&b, "Platform: %s\n", conv.Metadata.Platform)
		fmt.Fprintf(&b, "Source:   %s\n", conv.Metadata.SourceURL)
		fmt.Fprintf(&b, "Exported: %s\n", conv.Metadata.ExtractedAt.Format(time.RFC3339))
	}
	b.WriteString("\n")

	for _, m := range conv.Messages {
		header := fmt.Sprintf("[%s]", strings.ToUpper(roleLabel(m.Role)))
		if opts.IncludeTimestamps && !m.Timestamp.IsZero() {
			header += " " + m.Timestamp.UTC().Format(time.RFC3339)
		}
		b.WriteString(header + "\n")
		b.WriteString(m.Content.Text + "\n")

		if opts.IncludeArtifacts {
			for _, a := range m.Content.Artifacts {
				if a.Type != model.ArtifactCode {
					fmt.Fprintf(&b, "(%s) %s\n", a.Type, a.Content)
				}
			}
		}
		b.WriteString("\n" + strings.Repeat("-", 60) + "\n\n")
	}

	return []byte(b.String()), nil
}
