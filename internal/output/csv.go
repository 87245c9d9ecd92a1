package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"chat-export-go/internal/model"
)

// CSVGenerator writes one row per message with standard CSV escaping.
type CSVGenerator struct{}

func (g *CSVGenerator) Extension() string   { return "csv" }
func (g *CSVGenerator) ContentType() string { return "text/csv" }

func (g *CSVGenerator) Generate(conv *model.Conversation, opts *ExportOptions) ([]byte, error) {
	if opts == nil {
		opts = DefaultExportOptions()
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"index", "role", "timestamp", "text", "artifacts"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i, m := range conv.Messages {
		timestamp := ""
		if opts.IncludeTimestamps && !m.Timestamp.IsZero() {
			timestamp = m.Timestamp.UTC().Format(time.RFC3339)
		}

		artifacts := ""
		if opts.IncludeArtifacts {
			artifacts = strconv.Itoa(len(m.Content.Artifacts))
		}

		row := []string{strconv.Itoa(i + 1), string(m.Role), timestamp, m.Content.Text, artifacts}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row %d: %w", i+1, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}
