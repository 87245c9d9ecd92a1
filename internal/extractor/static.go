package extractor

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"chat-export-go/internal/model"
	"chat-export-go/internal/rules"
)

// StaticStrategy extracts from the page body as delivered, without script
// execution, using the platform's single best selector rule.
type StaticStrategy struct {
	Fetcher *Fetcher
	Rules   *rules.Registry
}

func (s *StaticStrategy) Name() string {
	return StrategyStatic
}

func (s *StaticStrategy) Attempt(ctx context.Context, src *Source) (*model.Conversation, error) {
	doc, err := s.document(ctx, src)
	if err != nil {
		return nil, err
	}

	rule, ok := s.Rules.BestRule(src.Platform)
	if !ok {
		return nil, failf(s.Name(), "no selector rule for platform %s", src.Platform)
	}

	match, ok := applyRule(doc, rule)
	if !ok {
		return nil, failf(s.Name(), "rule %s matched no message containers", rule.ID)
	}

	conv := conversationFromRule(doc, match, rule, src)
	if len(conv.Messages) == 0 {
		return nil, failf(s.Name(), "rule %s yielded no usable messages", rule.ID)
	}
	return conv, nil
}

func (s *StaticStrategy) document(ctx context.Context, src *Source) (*goquery.Document, error) {
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

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src.HTML))
	if err != nil {
		return nil, failf(s.Name(), "failed to parse HTML: %w", err)
	}
	return doc, nil
}
