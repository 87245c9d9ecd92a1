package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"chat-export-go/internal/model"
	"chat-export-go/internal/platform"
)

// defaultProbes lists best-effort structured-data routes per platform, tried
// in order. These are undocumented backend routes and liable to stop working;
// any failure here is an ordinary strategy failure, never load-bearing.
var defaultProbes = map[platform.Platform][]string{
	platform.ChatGPT: {
		"https://chatgpt.com/backend-api/share/%s",
		"https://chat.openai.com/backend-api/share/%s",
	},
	platform.Claude: {
		"https://claude.ai/api/chat_snapshots/%s",
	},
	platform.Perplexity: {
		"https://www.perplexity.ai/rest/thread/%s",
	},
}

// StructuredEndpointStrategy probes known structured-data endpoints for the
// platform's share id. On a structured response, fields map directly to the
// model without text-cleaning heuristics, bypassing markup guesswork.
type StructuredEndpointStrategy struct {
	Fetcher *Fetcher
	// Probes overrides the default probe table; used by tests.
	Probes map[platform.Platform][]string
}

func (s *StructuredEndpointStrategy) Name() string {
	return StrategyEndpoint
}

func (s *StructuredEndpointStrategy) Attempt(ctx context.Context, src *Source) (*model.Conversation, error) {
	probes := s.Probes
	if probes == nil {
		probes = defaultProbes
	}

	templates := probes[src.Platform]
	if len(templates) == 0 {
		return nil, failf(s.Name(), "no structured endpoints known for %s", src.Platform)
	}
	if s.Fetcher == nil {
		return nil, failf(s.Name(), "no fetcher configured")
	}

	var reasons []string
	for _, tmpl := range templates {
		endpoint := fmt.Sprintf(tmpl, src.ShareID)

		body, err := s.Fetcher.FetchStructured(ctx, endpoint)
		if err != nil {
			reasons = append(reasons, err.Error())
			continue
		}

		var payload map[string]any
		if err := json.Unmarshal(body, &payload); err != nil {
			reasons = append(reasons, fmt.Sprintf("invalid JSON from %s: %v", endpoint, err))
			continue
		}

		conv, err := mapPayload(payload, src)
		if err != nil {
			reasons = append(reasons, fmt.Sprintf("%s: %v", endpoint, err))
			continue
		}
		return conv, nil
	}

	return nil, failf(s.Name(), "all endpoints failed: %s", strings.Join(reasons, "; "))
}

// mapPayload maps a structured response onto the model. Platforms disagree on
// field names, so it tolerates the common variants.
func mapPayload(payload map[string]any, src *Source) (*model.Conversation, error) {
	items := firstSlice(payload, "messages", "chat_messages", "entries", "linear_conversation")
	if len(items) == 0 {
		return nil, fmt.Errorf("no message array in payload")
	}

	conv := model.NewConversation(src.Platform, src.URL)
	conv.Title = strings.TrimSpace(stringField(payload, "title"))

	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}

		text := messageText(m)
		role := messageRole(m)
		if !role.Valid() {
			role = InferRole(text, false)
		}

		conv.AddMessage(model.Message{
			Role:    role,
			Content: model.Content{Text: text},
		})
	}

	conv.Finalize()
	if len(conv.Messages) == 0 {
		return nil, fmt.Errorf("payload contained no usable messages")
	}
	return conv, nil
}

func messageRole(m map[string]any) model.Role {
	if r := stringField(m, "role"); r != "" {
		return model.Role(strings.ToLower(r))
	}
	if author, ok := m["author"].(map[string]any); ok {
		return model.Role(strings.ToLower(stringField(author, "role")))
	}
	if r := stringField(m, "sender"); r != "" {
		if r == "human" {
			return model.RoleUser
		}
		return model.Role(strings.ToLower(r))
	}
	return model.Role("")
}

func messageText(m map[string]any) string {
	if t := stringField(m, "text"); t != "" {
		return t
	}

	switch content := m["content"].(type) {
	case string:
		return content
	case map[string]any:
		if t := stringField(content, "text"); t != "" {
			return t
		}
		if parts, ok := content["parts"].([]any); ok {
			var b strings.Builder
			for _, p := range parts {
				if s, ok := p.(string); ok {
					if b.Len() > 0 {
						b.WriteString("\n")
					}
					b.WriteString(s)
				}
			}
			return b.String()
		}
	}
	return ""
}

func stringField(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func firstSlice(m map[string]any, keys ...string) []any {
	for _, key := range keys {
		if v, ok := m[key].([]any); ok && len(v) > 0 {
			return v
		}
	}
	return nil
}
