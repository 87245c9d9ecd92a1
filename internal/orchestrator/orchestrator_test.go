package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-export-go/internal/adaptive"
	"chat-export-go/internal/extractor"
	"chat-export-go/internal/model"
	"chat-export-go/internal/platform"
)

type stubStrategy struct {
	name     string
	attempts int
	result   func(src *extractor.Source) (*model.Conversation, error)
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Attempt(ctx context.Context, src *extractor.Source) (*model.Conversation, error) {
	s.attempts++
	if s.result == nil {
		return nil, &extractor.ExtractionError{Strategy: s.name, Err: errors.New("stubbed failure")}
	}
	return s.result(src)
}

func failing(name string) *stubStrategy {
	return &stubStrategy{name: name}
}

func succeeding(name string) *stubStrategy {
	return &stubStrategy{name: name, result: func(src *extractor.Source) (*model.Conversation, error) {
		conv := model.NewConversation(src.Platform, src.URL)
		conv.AddMessage(model.Message{Role: model.RoleUser, Content: model.Content{Text: "hello"}})
		conv.AddMessage(model.Message{Role: model.RoleAssistant, Content: model.Content{Text: "hi there"}})
		conv.Finalize()
		return conv, nil
	}}
}

func allStubs() []*stubStrategy {
	stubs := make([]*stubStrategy, 0)
	for _, name := range extractor.DefaultOrder() {
		stubs = append(stubs, failing(name))
	}
	return stubs
}

func newOrchestrator(stubs []*stubStrategy) (*Orchestrator, *adaptive.Log) {
	strategies := make([]extractor.Strategy, 0, len(stubs))
	for _, s := range stubs {
		strategies = append(strategies, s)
	}
	log := adaptive.NewLog()
	return New(strategies, adaptive.NewSelector(log), log, nil, nil), log
}

const shareURL = "https://chatgpt.com/share/abc123"

func TestExtractUnsupportedPlatformIsTerminal(t *testing.T) {
	stubs := allStubs()
	o, outcomes := newOrchestrator(stubs)

	_, err := o.Extract(context.Background(), "https://example.com/chat/123")

	var unsupported *platform.UnsupportedPlatformError
	require.True(t, errors.As(err, &unsupported))
	for _, s := range stubs {
		assert.Zero(t, s.attempts, "no strategy should run for an unsupported platform")
	}
	assert.Zero(t, outcomes.Len())
}

func TestExtractStopsAtFirstValidatedResult(t *testing.T) {
	stubs := allStubs()
	stubs[1] = succeeding(extractor.StrategyEndpoint)
	o, outcomes := newOrchestrator(stubs)

	conv, err := o.Extract(context.Background(), shareURL)
	require.NoError(t, err)
	require.NoError(t, conv.Validate())

	assert.Equal(t, 1, stubs[0].attempts)
	assert.Equal(t, 1, stubs[1].attempts)
	assert.Zero(t, stubs[2].attempts)
	assert.Zero(t, stubs[3].attempts)
	assert.Zero(t, stubs[4].attempts)
	assert.Equal(t, 2, outcomes.Len())
}

func TestExtractExhaustionAttemptsEveryStrategyOnce(t *testing.T) {
	stubs := allStubs()
	o, outcomes := newOrchestrator(stubs)

	_, err := o.Extract(context.Background(), shareURL)

	var exhausted *AllStrategiesFailed
	require.True(t, errors.As(err, &exhausted))
	assert.Equal(t, platform.ChatGPT, exhausted.Platform)
	require.Len(t, exhausted.Attempts, len(stubs))

	seen := map[string]bool{}
	for _, a := range exhausted.Attempts {
		assert.False(t, seen[a.Strategy], "strategy %s attempted twice", a.Strategy)
		assert.NotEmpty(t, a.Reason)
		seen[a.Strategy] = true
	}
	for _, s := range stubs {
		assert.Equal(t, 1, s.attempts)
	}
	assert.Equal(t, len(stubs), outcomes.Len())

	// User-visible message stays actionable, not a raw internal error.
	assert.Contains(t, err.Error(), "could not extract conversation")
	assert.Contains(t, exhausted.Details(), "stubbed failure")
}

func TestExtractRejectsInvalidResults(t *testing.T) {
	// A strategy returning a conversation with a blank message must be
	// treated exactly like a failed strategy.
	invalid := &stubStrategy{name: extractor.StrategyStatic, result: func(src *extractor.Source) (*model.Conversation, error) {
		conv := model.NewConversation(src.Platform, src.URL)
		conv.Messages = []model.Message{{ID: "x", Role: model.RoleUser, Content: model.Content{Text: "  "}}}
		conv.Finalize()
		return conv, nil
	}}
	stubs := allStubs()
	stubs[0] = invalid
	stubs[3] = succeeding(extractor.StrategyCommunity)
	o, _ := newOrchestrator(stubs)

	conv, err := o.Extract(context.Background(), shareURL)
	require.NoError(t, err)
	require.NoError(t, conv.Validate())
	assert.Equal(t, 1, invalid.attempts)
}

func TestExtractValidationTotality(t *testing.T) {
	stubs := allStubs()
	stubs[0] = succeeding(extractor.StrategyStatic)
	o, _ := newOrchestrator(stubs)

	conv, err := o.Extract(context.Background(), shareURL)
	require.NoError(t, err)

	assert.NotEmpty(t, conv.Messages)
	assert.NotEmpty(t, conv.Title)
	for _, m := range conv.Messages {
		assert.NotEmpty(t, m.Content.Text)
		assert.True(t, m.Role.Valid())
	}
}

func TestExtractStrategyTimeoutAdvancesChain(t *testing.T) {
	slow := &stubStrategy{name: extractor.StrategyStatic, result: func(src *extractor.Source) (*model.Conversation, error) {
		return nil, context.DeadlineExceeded
	}}
	stubs := allStubs()
	stubs[0] = slow
	stubs[1] = succeeding(extractor.StrategyEndpoint)

	strategies := make([]extractor.Strategy, 0, len(stubs))
	for _, s := range stubs {
		strategies = append(strategies, s)
	}
	log := adaptive.NewLog()
	o := New(strategies, adaptive.NewSelector(log), log, map[string]time.Duration{
		extractor.StrategyStatic: 10 * time.Millisecond,
	}, nil)

	conv, err := o.Extract(context.Background(), shareURL)
	require.NoError(t, err)
	require.NoError(t, conv.Validate())

	outcomes := log.Snapshot()
	require.Len(t, outcomes, 2)
	assert.False(t, outcomes[0].Succeeded)
	assert.Equal(t, "timeout", outcomes[0].ErrorClass)
	assert.True(t, outcomes[1].Succeeded)
}

func TestExtractCanceledRequestStopsChain(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	first := &stubStrategy{name: extractor.StrategyStatic, result: func(src *extractor.Source) (*model.Conversation, error) {
		cancel()
		return nil, context.Canceled
	}}
	stubs := allStubs()
	stubs[0] = first
	o, _ := newOrchestrator(stubs)

	_, err := o.Extract(ctx, shareURL)
	require.ErrorIs(t, err, context.Canceled)
	for _, s := range stubs[1:] {
		assert.Zero(t, s.attempts, "no strategy should run after the request is abandoned")
	}
}

func TestOrderStartsWithAdaptiveChoice(t *testing.T) {
	log := adaptive.NewLog()
	for i := 0; i < 10; i++ {
		log.Record(adaptive.Outcome{Platform: platform.ChatGPT, Strategy: extractor.StrategyRendered, Succeeded: true, Latency: time.Second})
		log.Record(adaptive.Outcome{Platform: platform.ChatGPT, Strategy: extractor.StrategyStatic, Succeeded: false, Latency: time.Second})
	}

	o := New(nil, adaptive.NewSelector(log), log, nil, nil)
	order := o.order(platform.ChatGPT)

	require.Len(t, order, len(extractor.DefaultOrder()))
	assert.Equal(t, extractor.StrategyRendered, order[0])

	rest := append([]string{}, order[1:]...)
	want := []string{}
	for _, name := range extractor.DefaultOrder() {
		if name != extractor.StrategyRendered {
			want = append(want, name)
		}
	}
	assert.Equal(t, want, rest)
}
