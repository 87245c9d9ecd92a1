// Package orchestrator sequences extraction strategies for one request:
// detect the platform, try strategies in ranked order under per-strategy
// timeouts, validate each candidate, and record every outcome.
package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"chat-export-go/internal/adaptive"
	"chat-export-go/internal/extractor"
	"chat-export-go/internal/model"
	"chat-export-go/internal/platform"
)

const defaultStrategyTimeout = 30 * time.Second

// Orchestrator drives the extraction state machine:
// Detecting -> Trying(i) -> Validated | Trying(i+1) -> ExhaustedFailure.
type Orchestrator struct {
	strategies map[string]extractor.Strategy
	selector   *adaptive.Selector
	outcomes   *adaptive.Log
	timeouts   map[string]time.Duration
	logger     logrus.FieldLogger
}

// New creates an orchestrator over the given strategies. Collaborators are
// injected, never global: tests substitute doubles freely.
func New(strategies []extractor.Strategy, selector *adaptive.Selector, outcomes *adaptive.Log, timeouts map[string]time.Duration, logger logrus.FieldLogger) *Orchestrator {
	byName := make(map[string]extractor.Strategy, len(strategies))
	for _, s := range strategies {
		byName[s.Name()] = s
	}
	if logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.WarnLevel)
		logger = l
	}
	return &Orchestrator{
		strategies: byName,
		selector:   selector,
		outcomes:   outcomes,
		timeouts:   timeouts,
		logger:     logger,
	}
}

// Extract runs the full state machine for one request. A detection failure
// is terminal and immediate; individual strategy failures only advance the
// chain. Each strategy gets exactly one attempt.
func (o *Orchestrator) Extract(ctx context.Context, rawURL string) (*model.Conversation, error) {
	match, err := platform.Detect(rawURL)
	if err != nil {
		return nil, err
	}

	log := o.logger.WithFields(logrus.Fields{"platform": match.Platform, "url": rawURL})
	src := &extractor.Source{URL: rawURL, Platform: match.Platform, ShareID: match.ShareID}

	var attempts []AttemptFailure
	for _, name := range o.order(match.Platform) {
		strategy, ok := o.strategies[name]
		if !ok {
			continue
		}

		conv, err := o.try(ctx, strategy, src, log)
		if err != nil {
			attempts = append(attempts, AttemptFailure{Strategy: name, Reason: err.Error()})
			if ctx.Err() != nil {
				// The request itself was abandoned; stop advancing.
				return nil, ctx.Err()
			}
			continue
		}
		return conv, nil
	}

	exhausted := &AllStrategiesFailed{Platform: match.Platform, Attempts: attempts}
	log.WithField("details", exhausted.Details()).Warn("all extraction strategies failed")
	return nil, exhausted
}

// try runs one strategy under its timeout, validates the candidate, and
// records the outcome either way.
func (o *Orchestrator) try(ctx context.Context, strategy extractor.Strategy, src *extractor.Source, log logrus.FieldLogger) (*model.Conversation, error) {
	timeout := o.timeouts[strategy.Name()]
	if timeout <= 0 {
		timeout = defaultStrategyTimeout
	}
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	conv, err := strategy.Attempt(attemptCtx, src)
	if err == nil {
		// InvalidResult is control-flow-identical to ExtractionFailed.
		err = conv.Validate()
	}
	latency := time.Since(start)

	o.outcomes.Record(adaptive.Outcome{
		Platform:   src.Platform,
		Strategy:   strategy.Name(),
		Succeeded:  err == nil,
		Latency:    latency,
		ErrorClass: classify(err),
	})

	entry := log.WithFields(logrus.Fields{"strategy": strategy.Name(), "latency": latency})
	if err != nil {
		entry.WithError(err).Debug("strategy attempt failed")
		return nil, err
	}
	entry.WithField("messages", len(conv.Messages)).Info("strategy attempt validated")
	return conv, nil
}

// order starts with the adaptive selector's best guess for the platform,
// followed by the remaining strategies in fixed default priority.
func (o *Orchestrator) order(p platform.Platform) []string {
	ranked := o.selector.Rank(p)
	if len(ranked) == 0 {
		return extractor.DefaultOrder()
	}

	order := []string{ranked[0]}
	for _, name := range extractor.DefaultOrder() {
		if name != ranked[0] {
			order = append(order, name)
		}
	}
	return order
}

func classify(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	}
	var extractionErr *extractor.ExtractionError
	if errors.As(err, &extractionErr) {
		return "extraction-failed"
	}
	return "invalid-result"
}
