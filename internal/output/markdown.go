package output

import (
	"fmt"
	"strings"
	"time"

	"chat-export-go/internal/model"
)

// MarkdownGenerator renders the conversation as a Markdown document with
// fenced code blocks for code artifacts.
type MarkdownGenerator struct{}

func (g *MarkdownGenerator) Extension() string   { return "md" }
func (g *MarkdownGenerator) ContentType() string { return "text/markdown" }

func (g *MarkdownGenerator) Generate(conv *model.Conversation, opts *ExportOptions) ([]byte, error) {
	if opts == nil {
		opts = DefaultExportOptions()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", conv.Title)

	if opts.IncludeMetadata {
		fmt.Fprintf(&b, "- Platform: %s\n", conv.Metadata.Platform)
		fmt.Fprintf(&b, "- Source: %s\n", conv.Metadata.SourceURL)
		fmt.Fprintf(&b, "- Exported: %s\n", conv.Metadata.ExtractedAt.Format(time.RFC3339))
		fmt.Fprintf(&b, "- Messages: %d\n\n", conv.Metadata.MessageCount)
	}

	for _, m := range conv.Messages {
		fmt.Fprintf(&b, "## %s\n\n", roleLabel(m.Role))
		if opts.IncludeTimestamps && !m.Timestamp.IsZero() {
			fmt.Fprintf(&b, "*%s*\n\n", m.Timestamp.UTC().Format(time.RFC3339))
		}

		b.WriteString(m.Content.Text)
		b.WriteString("\n\n")

		if opts.IncludeArtifacts {
			for _, a := range m.Content.Artifacts {
				switch a.Type {
				case model.ArtifactCode:
					// Skip artifacts already inlined when the body was
					// converted to Markdown with fences intact.
					if m.Content.Formatting.IsMarkdown && strings.Contains(m.Content.Text, a.Content) {
						continue
					}
					fmt.Fprintf(&b, "```%s\n%s\n```\n\n", a.Language, a.Content)
				case model.ArtifactImage:
					fmt.Fprintf(&b, "![image](%s)\n\n", a.Content)
				case model.ArtifactLink, model.ArtifactFile:
					fmt.Fprintf(&b, "<%s>\n\n", a.Content)
				}
			}
		}
	}

	return []byte(b.String()), nil
}
