package extractor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-export-go/internal/platform"
	"chat-export-go/internal/rules"
)

func TestCommunityStrategyFallsThroughToWorkingRule(t *testing.T) {
	registry := rules.NewRegistry()

	// Higher-confidence rule whose selectors no longer match the markup;
	// the baseline rule below it still does.
	stale := rules.ParsingRule{
		ID:         "chatgpt-stale",
		Platform:   platform.ChatGPT,
		Version:    9,
		Confidence: 0.99,
		Verified:   true,
		Selectors: rules.Selectors{
			Messages:  ".conversation-turn-v9",
			Title:     "title",
			CodeBlock: "pre code",
		},
		LastUpdated: time.Now().UTC(),
	}
	require.True(t, registry.AddRule(stale))

	best, ok := registry.BestRule(platform.ChatGPT)
	require.True(t, ok)
	require.Equal(t, "chatgpt-stale", best.ID)

	// Static uses only the (stale) best rule and fails.
	static := &StaticStrategy{Rules: registry}
	_, err := static.Attempt(context.Background(), chatgptSource(twoTurnFixture))
	require.Error(t, err)

	// Community iterates in confidence order and reaches the baseline.
	community := &CommunityRuleStrategy{Rules: registry}
	conv, err := community.Attempt(context.Background(), chatgptSource(twoTurnFixture))
	require.NoError(t, err)
	require.NoError(t, conv.Validate())
	assert.Len(t, conv.Messages, 2)
}

func TestCommunityStrategyReportsAllRuleFailures(t *testing.T) {
	registry := rules.NewRegistry()
	html := `<html><head><title>Blank</title></head><body><p>nothing here</p></body></html>`

	community := &CommunityRuleStrategy{Rules: registry}
	_, err := community.Attempt(context.Background(), chatgptSource(html))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no match")
}

func TestParseSemanticResponse(t *testing.T) {
	src := &Source{URL: "https://chatgpt.com/share/abc", Platform: platform.ChatGPT, ShareID: "abc"}

	raw := "```json\n{\"title\": \"Fenced\", \"messages\": [{\"role\": \"user\", \"text\": \"hi\"}, {\"role\": \"assistant\", \"text\": \"hello\"}]}\n```"
	conv, err := parseSemanticResponse(raw, src)
	require.NoError(t, err)
	require.NoError(t, conv.Validate())
	assert.Equal(t, "Fenced", conv.Title)
	assert.Len(t, conv.Messages, 2)

	_, err = parseSemanticResponse("not json at all", src)
	assert.Error(t, err)
}
