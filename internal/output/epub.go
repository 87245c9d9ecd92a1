package output

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/go-shiori/go-epub"

	"chat-export-go/internal/model"
	"chat-export-go/internal/platform"
)

// EPUBGenerator renders the conversation as an EPUB book, one section per
// message.
type EPUBGenerator struct{}

func (g *EPUBGenerator) Extension() string   { return "epub" }
func (g *EPUBGenerator) ContentType() string { return "application/epub+zip" }

func (g *EPUBGenerator) Generate(conv *model.Conversation, opts *ExportOptions) ([]byte, error) {
	if opts == nil {
		opts = DefaultExportOptions()
	}

	e, err := epub.NewEpub(conv.Title)
	if err != nil {
		return nil, fmt.Errorf("failed to create EPUB: %w", err)
	}

	e.SetAuthor(platform.Label(conv.Platform))
	e.SetLang("en")
	e.SetIdentifier("urn:uuid:" + conv.ID)
	if opts.IncludeMetadata {
		e.SetDescription(fmt.Sprintf("Conversation exported from %s (%d messages)",
			platform.Label(conv.Platform), conv.Metadata.MessageCount))
	}

	for i, m := range conv.Messages {
		title := fmt.Sprintf("%d. %s", i+1, roleLabel(m.Role))
		if _, err := e.AddSection(messageXHTML(m, opts), title, "", ""); err != nil {
			return nil, fmt.Errorf("failed to add message %d: %w", i+1, err)
		}
	}

	var buf bytes.Buffer
	if _, err := e.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write EPUB: %w", err)
	}
	return buf.Bytes(), nil
}

func messageXHTML(m model.Message, opts *ExportOptions) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h2>%s</h2>\n", html.EscapeString(roleLabel(m.Role)))

	if opts.IncludeTimestamps && !m.Timestamp.IsZero() {
		fmt.Fprintf(&b, "<p><em>%s</em></p>\n", m.Timestamp.UTC().Format(time.RFC3339))
	}

	for _, para := range strings.Split(m.Content.Text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(para))
	}

	if opts.IncludeArtifacts {
		for _, a := range m.Content.Artifacts {
			if a.Type != model.ArtifactCode {
				continue
			}
			fmt.Fprintf(&b, "<pre><code>%s</code></pre>\n", html.EscapeString(a.Content))
		}
	}

	return b.String()
}
