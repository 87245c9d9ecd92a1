// Package rules holds the per-platform selector rules used by markup-driven
// extraction strategies. The registry is process-wide shared state: reads take
// an immutable snapshot, writes build a new snapshot and swap it in, so a
// refresh can never corrupt a concurrent extraction.
package rules

import (
	"sort"
	"sync"
	"time"

	"chat-export-go/internal/platform"
)

// MinConfidence is the acceptance gate for community-supplied rules.
const MinConfidence = 0.8

// Selectors is the set of structural queries a rule uses to locate
// conversation elements within a platform's markup.
type Selectors struct {
	Messages      string `yaml:"messages" json:"messages"`
	UserRole      string `yaml:"userRole" json:"userRole"`
	AssistantRole string `yaml:"assistantRole" json:"assistantRole"`
	Content       string `yaml:"content" json:"content"`
	Timestamp     string `yaml:"timestamp" json:"timestamp"`
	Title         string `yaml:"title" json:"title"`
	CodeBlock     string `yaml:"codeBlock" json:"codeBlock"`
}

// ParsingRule is one published, immutable rule set for a platform.
type ParsingRule struct {
	ID          string            `yaml:"id" json:"id"`
	Platform    platform.Platform `yaml:"platform" json:"platform"`
	Version     int               `yaml:"version" json:"version"`
	Selectors   Selectors         `yaml:"selectors" json:"selectors"`
	Confidence  float64           `yaml:"confidence" json:"confidence"`
	Verified    bool              `yaml:"verified" json:"verified"`
	LastUpdated time.Time         `yaml:"lastUpdated" json:"lastUpdated"`
}

// acceptable applies the publication gate: only verified, high-confidence
// rules for a known platform are ever selectable.
func acceptable(r ParsingRule) bool {
	return r.Verified && r.Confidence > MinConfidence && r.Platform.Valid() && r.Selectors.Messages != ""
}

type snapshot map[platform.Platform][]ParsingRule

// Registry holds the current best-known rules per platform.
type Registry struct {
	mu   sync.RWMutex
	snap snapshot
}

// NewRegistry creates a registry seeded with the built-in rules.
func NewRegistry() *Registry {
	r := &Registry{snap: snapshot{}}
	r.Refresh(nil)
	return r
}

// read returns the current snapshot. Snapshots are never mutated after
// publication, so callers may iterate without holding the lock.
func (r *Registry) read() snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snap
}

// RulesFor returns all selectable rules for a platform, best first:
// highest confidence, ties broken by most recent LastUpdated.
func (r *Registry) RulesFor(p platform.Platform) []ParsingRule {
	return r.read()[p]
}

// BestRule returns the single best rule for a platform, if any.
func (r *Registry) BestRule(p platform.Platform) (ParsingRule, bool) {
	rules := r.read()[p]
	if len(rules) == 0 {
		return ParsingRule{}, false
	}
	return rules[0], true
}

// AddRule publishes a single rule. Rules failing the confidence/verification
// gate are silently rejected; reports whether the rule was accepted.
func (r *Registry) AddRule(rule ParsingRule) bool {
	if !acceptable(rule) {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	next := snapshot{}
	for p, rs := range r.snap {
		next[p] = rs
	}
	merged := append(append([]ParsingRule{}, next[rule.Platform]...), rule)
	sortRules(merged)
	next[rule.Platform] = merged
	r.snap = next
	return true
}

// Refresh replaces the registry contents with the built-in rules plus every
// acceptable rule from the supplied feed.
func (r *Registry) Refresh(feed []ParsingRule) {
	next := snapshot{}
	for _, rule := range append(builtinRules(), feed...) {
		if !acceptable(rule) {
			continue
		}
		next[rule.Platform] = append(next[rule.Platform], rule)
	}
	for _, rs := range next {
		sortRules(rs)
	}

	r.mu.Lock()
	r.snap = next
	r.mu.Unlock()
}

func sortRules(rs []ParsingRule) {
	sort.SliceStable(rs, func(i, j int) bool {
		if rs[i].Confidence != rs[j].Confidence {
			return rs[i].Confidence > rs[j].Confidence
		}
		return rs[i].LastUpdated.After(rs[j].LastUpdated)
	})
}
