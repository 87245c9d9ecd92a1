package output

import (
	"encoding/json"
	"fmt"
	"time"

	"chat-export-go/internal/model"
)

// JSONGenerator is the canonical lossless encoding: with all options
// enabled, parsing its output reconstructs the conversation exactly.
type JSONGenerator struct{}

func (g *JSONGenerator) Extension() string   { return "json" }
func (g *JSONGenerator) ContentType() string { return "application/json" }

func (g *JSONGenerator) Generate(conv *model.Conversation, opts *ExportOptions) ([]byte, error) {
	if opts == nil {
		opts = DefaultExportOptions()
	}

	view := *conv
	if !opts.IncludeMetadata {
		view.Metadata = model.Metadata{}
	}
	if !opts.IncludeTimestamps || !opts.IncludeArtifacts {
		messages := make([]model.Message, len(conv.Messages))
		copy(messages, conv.Messages)
		for i := range messages {
			if !opts.IncludeTimestamps {
				messages[i].Timestamp = time.Time{}
			}
			if !opts.IncludeArtifacts {
				messages[i].Content.Artifacts = nil
			}
		}
		view.Messages = messages
	}

	data, err := json.MarshalIndent(&view, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode conversation: %w", err)
	}
	return append(data, '\n'), nil
}
