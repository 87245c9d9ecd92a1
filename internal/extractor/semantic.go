package extractor

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
	openai "github.com/sashabaranov/go-openai"

	"chat-export-go/internal/model"
)

const defaultMaxExcerpt = 12000

// semanticInstruction asks the model for the canonical shape and nothing else.
const semanticInstruction = `You are given the visible text of a publicly shared AI chat page.
Reconstruct the conversation and respond with strict JSON only, no prose and no code fences:
{"title": "...", "messages": [{"role": "user|assistant|system", "text": "..."}]}
Exclude navigation chrome, cookie banners, and anything that is not part of the conversation.`

// SemanticFallbackStrategy is the last resort: it hands a bounded excerpt of
// the page text to an external text-understanding service and parses the
// response into the model. Used only after all structural strategies fail.
type SemanticFallbackStrategy struct {
	Client     *openai.Client
	Fetcher    *Fetcher
	Model      string
	MaxExcerpt int
}

func (s *SemanticFallbackStrategy) Name() string {
	return StrategySemantic
}

func (s *SemanticFallbackStrategy) Attempt(ctx context.Context, src *Source) (*model.Conversation, error) {
	if s.Client == nil {
		return nil, failf(s.Name(), "no semantic service configured")
	}

	if src.HTML == "" {
		if s.Fetcher == nil {
			return nil, failf(s.Name(), "no page content and no fetcher configured")
		}
		body, err := s.Fetcher.Fetch(ctx, src.URL)
		if err != nil {
			return nil, failf(s.Name(), "fetch failed: %w", err)
		}
		src.HTML = string(body)
	}

	excerpt := s.excerpt(src.HTML)
	if excerpt == "" {
		return nil, failf(s.Name(), "page has no visible text")
	}

	chatModel := s.Model
	if chatModel == "" {
		chatModel = openai.GPT4oMini
	}

	resp, err := s.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       chatModel,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: semanticInstruction},
			{Role: openai.ChatMessageRoleUser, Content: excerpt},
		},
	})
	if err != nil {
		return nil, failf(s.Name(), "semantic service call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, failf(s.Name(), "semantic service returned no choices")
	}

	conv, err := parseSemanticResponse(resp.Choices[0].Message.Content, src)
	if err != nil {
		return nil, failf(s.Name(), "unusable semantic response: %w", err)
	}
	return conv, nil
}

// excerpt reduces the page to its visible text, bounded to the excerpt limit.
func (s *SemanticFallbackStrategy) excerpt(html string) string {
	max := s.MaxExcerpt
	if max <= 0 {
		max = defaultMaxExcerpt
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	doc.Find("script, style, noscript, svg").Remove()

	text := CleanMessageText(doc.Find("body").Text())
	if len(text) > max {
		text = text[:max]
	}
	return text
}

type semanticPayload struct {
	Title    string `json:"title"`
	Messages []struct {
		Role string `json:"role"`
		Text string `json:"text"`
	} `json:"messages"`
}

// parseSemanticResponse parses the service's JSON, tolerating code fences
// that models wrap around output despite instructions.
func parseSemanticResponse(raw string, src *Source) (*model.Conversation, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var payload semanticPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, err
	}

	conv := model.NewConversation(src.Platform, src.URL)
	conv.Title = strings.TrimSpace(payload.Title)

	for _, m := range payload.Messages {
		role := model.Role(strings.ToLower(m.Role))
		text := CleanMessageText(m.Text)
		if !role.Valid() {
			role = InferRole(text, false)
		}
		conv.AddMessage(model.Message{
			Role:    role,
			Content: model.Content{Text: text},
		})
	}

	conv.Finalize()
	return conv, nil
}
