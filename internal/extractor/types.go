// Package extractor implements the extraction strategies that turn a shared
// conversation page into the canonical conversation model.
package extractor

import (
	"context"
	"fmt"

	"chat-export-go/internal/model"
	"chat-export-go/internal/platform"
)

// Strategy names, in fixed default priority order.
const (
	StrategyStatic    = "static-markup"
	StrategyEndpoint  = "structured-endpoint"
	StrategyRendered  = "rendered-dom"
	StrategyCommunity = "community-rule"
	StrategySemantic  = "semantic-fallback"
)

// DefaultOrder returns the fixed strategy priority used before outcome
// data accumulates for a platform.
func DefaultOrder() []string {
	return []string{StrategyStatic, StrategyEndpoint, StrategyRendered, StrategyCommunity, StrategySemantic}
}

// Source is the input handed to every strategy for one request. HTML may be
// pre-filled with an already-fetched page body; strategies fetch it when empty.
type Source struct {
	URL      string
	Platform platform.Platform
	ShareID  string
	HTML     string
}

// Strategy is one self-contained method of recovering a conversation from
// source content. Strategies are stateless with respect to each other; the
// orchestrator assigns each attempt its own timeout via ctx.
type Strategy interface {
	Name() string
	Attempt(ctx context.Context, src *Source) (*model.Conversation, error)
}

// ExtractionError wraps a single strategy's internal failure. It is recorded
// by the orchestrator and drives strategy advancement; it is never surfaced
// directly as a request outcome.
type ExtractionError struct {
	Strategy string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Strategy, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

func failf(strategy, format string, args ...any) error {
	return &ExtractionError{Strategy: strategy, Err: fmt.Errorf(format, args...)}
}
