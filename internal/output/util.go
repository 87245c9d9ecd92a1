package output

import (
	"fmt"
	"strings"

	"chat-export-go/internal/model"
)

// SanitizeFilename creates a safe filename from a title.
func SanitizeFilename(name string) string {
	invalid := []string{"\\", "/", ":", "*", "?", "\"", "<", ">", "|"}
	result := name
	for _, char := range invalid {
		result = strings.ReplaceAll(result, char, "")
	}

	result = strings.TrimSpace(result)
	result = strings.ReplaceAll(result, " ", "_")

	if len(result) > 100 {
		result = result[:100]
	}
	if result == "" {
		result = "conversation"
	}
	return result
}

// FilenameFor returns the output filename for a conversation and generator.
func FilenameFor(conv *model.Conversation, gen Generator) string {
	return SanitizeFilename(conv.Title) + "." + gen.Extension()
}

// FormatFileSize formats a byte count as a human-readable size.
func FormatFileSize(bytes int64) string {
	const (
		kb = 1024
		mb = kb * 1024
		gb = mb * 1024
	)

	switch {
	case bytes >= gb:
		return fmt.Sprintf("%.2f GB", float64(bytes)/gb)
	case bytes >= mb:
		return fmt.Sprintf("%.2f MB", float64(bytes)/mb)
	case bytes >= kb:
		return fmt.Sprintf("%.2f KB", float64(bytes)/kb)
	default:
		return fmt.Sprintf("%d bytes", bytes)
	}
}
