package output

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"chat-export-go/internal/model"
)

// PDFGenerator renders the conversation as a paginated PDF document.
type PDFGenerator struct{}

func (g *PDFGenerator) Extension() string   { return "pdf" }
func (g *PDFGenerator) ContentType() string { return "application/pdf" }

var pageSizes = map[string]string{
	"a4":     "A4",
	"letter": "Letter",
	"legal":  "Legal",
}

func (g *PDFGenerator) Generate(conv *model.Conversation, opts *ExportOptions) ([]byte, error) {
	if opts == nil {
		opts = DefaultExportOptions()
	}

	size, ok := pageSizes[strings.ToLower(opts.PageSize)]
	if !ok {
		size = "A4"
	}
	font := opts.FontSize
	if font <= 0 {
		font = 12
	}

	pdf := fpdf.New("P", "mm", size, "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(conv.Title), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", font+4)
	pdf.MultiCell(0, 8, tr(conv.Title), "", "L", false)
	pdf.Ln(2)

	if opts.IncludeMetadata {
		pdf.SetFont("Helvetica", "", font-2)
		pdf.SetTextColor(110, 110, 110)
		pdf.MultiCell(0, 5, tr(fmt.Sprintf("Platform: %s", conv.Metadata.Platform)), "", "L", false)
		pdf.MultiCell(0, 5, tr(fmt.Sprintf("Source: %s", conv.Metadata.SourceURL)), "", "L", false)
		pdf.MultiCell(0, 5, tr(fmt.Sprintf("Exported: %s", conv.Metadata.ExtractedAt.Format(time.RFC3339))), "", "L", false)
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(4)
	}

	for _, m := range conv.Messages {
		header := roleLabel(m.Role)
		if opts.IncludeTimestamps && !m.Timestamp.IsZero() {
			header += " - " + m.Timestamp.UTC().Format(time.RFC3339)
		}
		pdf.SetFont("Helvetica", "B", font)
		pdf.MultiCell(0, 6, tr(header), "", "L", false)

		pdf.SetFont("Helvetica", "", font)
		pdf.MultiCell(0, 5, tr(m.Content.Text), "", "L", false)
		pdf.Ln(2)

		if opts.IncludeArtifacts {
			for _, a := range m.Content.Artifacts {
				if a.Type != model.ArtifactCode {
					continue
				}
				pdf.SetFont("Courier", "", font-2)
				pdf.SetFillColor(245, 245, 245)
				pdf.MultiCell(0, 4.5, tr(a.Content), "", "L", true)
				pdf.Ln(2)
			}
			pdf.SetFont("Helvetica", "", font)
		}
		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}
