package adaptive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-export-go/internal/extractor"
	"chat-export-go/internal/platform"
)

func indexOf(order []string, name string) int {
	for i, n := range order {
		if n == name {
			return i
		}
	}
	return -1
}

func TestRankColdStartUsesDefaultOrder(t *testing.T) {
	s := NewSelector(NewLog())
	assert.Equal(t, extractor.DefaultOrder(), s.Rank(platform.ChatGPT))
}

func TestRankAdaptsToOutcomes(t *testing.T) {
	log := NewLog()
	for i := 0; i < 10; i++ {
		log.Record(Outcome{
			Platform:  platform.ChatGPT,
			Strategy:  extractor.StrategyRendered,
			Succeeded: true,
			Latency:   2 * time.Second,
		})
		log.Record(Outcome{
			Platform:   platform.ChatGPT,
			Strategy:   extractor.StrategyStatic,
			Succeeded:  false,
			Latency:    200 * time.Millisecond,
			ErrorClass: "extraction-failed",
		})
	}

	order := NewSelector(log).Rank(platform.ChatGPT)

	rendered := indexOf(order, extractor.StrategyRendered)
	static := indexOf(order, extractor.StrategyStatic)
	require.NotEqual(t, -1, rendered)
	require.NotEqual(t, -1, static)
	assert.Less(t, rendered, static, "consistently succeeding strategy should outrank consistently failing one")
}

func TestRankIsPlatformScoped(t *testing.T) {
	log := NewLog()
	for i := 0; i < 10; i++ {
		log.Record(Outcome{Platform: platform.Claude, Strategy: extractor.StrategySemantic, Succeeded: true, Latency: time.Second})
	}

	// ChatGPT has no outcomes; its order stays at the default.
	assert.Equal(t, extractor.DefaultOrder(), NewSelector(log).Rank(platform.ChatGPT))
}

func TestRankListsEveryStrategyExactlyOnce(t *testing.T) {
	log := NewLog()
	for i := 0; i < 6; i++ {
		log.Record(Outcome{Platform: platform.Gemini, Strategy: extractor.StrategyStatic, Succeeded: i%2 == 0, Latency: time.Second})
	}

	order := NewSelector(log).Rank(platform.Gemini)
	require.Len(t, order, len(extractor.DefaultOrder()))
	seen := map[string]bool{}
	for _, name := range order {
		assert.False(t, seen[name], "strategy %s ranked twice", name)
		seen[name] = true
	}
}

func TestLogIsBounded(t *testing.T) {
	log := NewLog()
	for i := 0; i < defaultLogCap+100; i++ {
		log.Record(Outcome{Platform: platform.ChatGPT, Strategy: extractor.StrategyStatic, Succeeded: true})
	}
	assert.LessOrEqual(t, log.Len(), defaultLogCap)
	assert.Greater(t, log.Len(), defaultLogCap/2)
}
