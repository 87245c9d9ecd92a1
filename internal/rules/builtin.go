package rules

import (
	"time"

	"chat-export-go/internal/platform"
)

// builtinRules returns the shipped baseline rules. These track the markup the
// platforms serve as of the LastUpdated date; the feed can override them with
// higher-confidence replacements without a code change.
func builtinRules() []ParsingRule {
	updated := time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC)

	return []ParsingRule{
		{
			ID:       "chatgpt-baseline",
			Platform: platform.ChatGPT,
			Version:  3,
			Selectors: Selectors{
				Messages:      "[data-message-author-role]",
				UserRole:      "[data-message-author-role='user']",
				AssistantRole: "[data-message-author-role='assistant']",
				Content:       ".markdown, .whitespace-pre-wrap",
				Timestamp:     "time",
				Title:         "title",
				CodeBlock:     "pre code",
			},
			Confidence:  0.95,
			Verified:    true,
			LastUpdated: updated,
		},
		{
			ID:       "claude-baseline",
			Platform: platform.Claude,
			Version:  2,
			Selectors: Selectors{
				Messages:      "[data-testid='user-message'], [data-testid='assistant-message'], .font-user-message, .font-claude-message",
				UserRole:      "[data-testid='user-message'], .font-user-message",
				AssistantRole: "[data-testid='assistant-message'], .font-claude-message",
				Timestamp:     "time",
				Title:         "title",
				CodeBlock:     "pre code",
			},
			Confidence:  0.9,
			Verified:    true,
			LastUpdated: updated,
		},
		{
			ID:       "gemini-baseline",
			Platform: platform.Gemini,
			Version:  2,
			Selectors: Selectors{
				Messages:      "user-query, model-response",
				UserRole:      "user-query",
				AssistantRole: "model-response",
				Content:       ".query-text, .markdown",
				Title:         "title",
				CodeBlock:     "pre code, code-block",
			},
			Confidence:  0.88,
			Verified:    true,
			LastUpdated: updated,
		},
		{
			ID:       "perplexity-baseline",
			Platform: platform.Perplexity,
			Version:  1,
			Selectors: Selectors{
				Messages:      "[class*='UserQuery'], .prose",
				UserRole:      "[class*='UserQuery']",
				AssistantRole: ".prose",
				Title:         "title",
				CodeBlock:     "pre code",
			},
			Confidence:  0.85,
			Verified:    true,
			LastUpdated: updated,
		},
	}
}
