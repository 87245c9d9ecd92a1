package adaptive

import (
	"sort"
	"time"

	"chat-export-go/internal/extractor"
	"chat-export-go/internal/platform"
)

// minOutcomes is the cold-start threshold: a platform keeps the fixed default
// order until this many outcomes have been recorded for it.
const minOutcomes = 5

// costWeights is a fixed relative cost table per strategy kind, higher being
// cheaper to run. Normalized against the ranked set before scoring.
var costWeights = map[string]float64{
	extractor.StrategyStatic:    1.0,
	extractor.StrategyEndpoint:  0.9,
	extractor.StrategyCommunity: 0.8,
	extractor.StrategyRendered:  0.4,
	extractor.StrategySemantic:  0.1,
}

// Selector re-ranks strategy order per platform from the outcome log.
// Ranking is recomputed on demand from the latest log state; there is no
// background recomputation.
type Selector struct {
	log      *Log
	defaults []string
}

// NewSelector creates a selector over the given outcome log.
func NewSelector(log *Log) *Selector {
	return &Selector{log: log, defaults: extractor.DefaultOrder()}
}

type strategyStats struct {
	attempts    int
	successes   int
	latencySum  time.Duration
	successRate float64
	meanLatency time.Duration
}

// Rank returns strategy names for a platform, best first.
// score = 0.5*successRate + 0.3*speedScore + 0.2*costEfficiencyScore, with
// speed and cost normalized (0-1) relative to the other strategies.
func (s *Selector) Rank(p platform.Platform) []string {
	stats := map[string]*strategyStats{}
	total := 0
	for _, o := range s.log.Snapshot() {
		if o.Platform != p {
			continue
		}
		total++
		st := stats[o.Strategy]
		if st == nil {
			st = &strategyStats{}
			stats[o.Strategy] = st
		}
		st.attempts++
		st.latencySum += o.Latency
		if o.Succeeded {
			st.successes++
		}
	}

	if total < minOutcomes {
		return append([]string{}, s.defaults...)
	}

	var minLat, maxLat time.Duration
	first := true
	for _, st := range stats {
		st.successRate = float64(st.successes) / float64(st.attempts)
		st.meanLatency = st.latencySum / time.Duration(st.attempts)
		if first || st.meanLatency < minLat {
			minLat = st.meanLatency
		}
		if first || st.meanLatency > maxLat {
			maxLat = st.meanLatency
		}
		first = false
	}

	minCost, maxCost := 1.0, 0.0
	for _, name := range s.defaults {
		c := costWeights[name]
		if c < minCost {
			minCost = c
		}
		if c > maxCost {
			maxCost = c
		}
	}

	scores := map[string]float64{}
	for name, st := range stats {
		speed := 1.0
		if maxLat > minLat {
			speed = float64(maxLat-st.meanLatency) / float64(maxLat-minLat)
		}
		cost := 1.0
		if maxCost > minCost {
			cost = (costWeights[name] - minCost) / (maxCost - minCost)
		}
		scores[name] = 0.5*st.successRate + 0.3*speed + 0.2*cost
	}

	// Strategies with recorded data, best score first; unobserved strategies
	// follow in default priority order.
	scored := make([]string, 0, len(scores))
	for name := range scores {
		scored = append(scored, name)
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scores[scored[i]] != scores[scored[j]] {
			return scores[scored[i]] > scores[scored[j]]
		}
		return defaultIndex(s.defaults, scored[i]) < defaultIndex(s.defaults, scored[j])
	})

	order := scored
	for _, name := range s.defaults {
		if _, seen := scores[name]; !seen {
			order = append(order, name)
		}
	}
	return order
}

func defaultIndex(defaults []string, name string) int {
	for i, n := range defaults {
		if n == name {
			return i
		}
	}
	return len(defaults)
}
