package extractor

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"chat-export-go/internal/model"
	"chat-export-go/internal/rules"
)

// CommunityRuleStrategy runs the same mechanics as the static strategy but
// iterates every verified rule for the platform in confidence order,
// stopping at the first whose result validates.
type CommunityRuleStrategy struct {
	Fetcher *Fetcher
	Rules   *rules.Registry
}

func (s *CommunityRuleStrategy) Name() string {
	return StrategyCommunity
}

func (s *CommunityRuleStrategy) Attempt(ctx context.Context, src *Source) (*model.Conversation, error) {
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

	candidates := s.Rules.RulesFor(src.Platform)
	if len(candidates) == 0 {
		return nil, failf(s.Name(), "no selector rules for platform %s", src.Platform)
	}

	var reasons []string
	for _, rule := range candidates {
		match, ok := applyRule(doc, rule)
		if !ok {
			reasons = append(reasons, rule.ID+": no match")
			continue
		}
		conv := conversationFromRule(doc, match, rule, src)
		if err := conv.Validate(); err != nil {
			reasons = append(reasons, rule.ID+": "+err.Error())
			continue
		}
		return conv, nil
	}

	return nil, failf(s.Name(), "all %d rules failed: %s", len(candidates), strings.Join(reasons, "; "))
}
