package extractor

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"chat-export-go/internal/model"
	"chat-export-go/internal/rules"
)

const (
	defaultRenderWait   = 10 * time.Second
	defaultPollInterval = 500 * time.Millisecond
	expandSettlePause   = 300 * time.Millisecond
	maxExpandClicks     = 10
)

// blockedResourceTypes lists network resource types the renderer skips;
// conversation text never lives in them.
var blockedResourceTypes = []proto.NetworkResourceType{
	proto.NetworkResourceTypeImage,
	proto.NetworkResourceTypeFont,
	proto.NetworkResourceTypeStylesheet,
	proto.NetworkResourceTypeMedia,
}

// RenderedDOMStrategy executes the page in headless Chromium before running
// the rule-driven extraction, for platforms that only populate message
// content via client-side script. The browser session is torn down on every
// exit path: success, failure, and cancellation.
type RenderedDOMStrategy struct {
	Rules        *rules.Registry
	MaxWait      time.Duration
	PollInterval time.Duration
}

func (s *RenderedDOMStrategy) Name() string {
	return StrategyRendered
}

func (s *RenderedDOMStrategy) Attempt(ctx context.Context, src *Source) (*model.Conversation, error) {
	rule, ok := s.Rules.BestRule(src.Platform)
	if !ok {
		return nil, failf(s.Name(), "no selector rule for platform %s", src.Platform)
	}

	html, err := s.render(ctx, src.URL, rule.Selectors.Messages)
	if err != nil {
		return nil, failf(s.Name(), "render failed: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, failf(s.Name(), "failed to parse rendered HTML: %w", err)
	}

	match, ok := applyRule(doc, rule)
	if !ok {
		return nil, failf(s.Name(), "rule %s matched nothing in rendered DOM", rule.ID)
	}

	conv := conversationFromRule(doc, match, rule, src)
	if len(conv.Messages) == 0 {
		return nil, failf(s.Name(), "rendered DOM yielded no usable messages")
	}
	return conv, nil
}

// render navigates to pageURL in a fresh headless browser, waits for the
// message-container count to stabilize, reveals collapsed content, and
// returns the resulting HTML.
func (s *RenderedDOMStrategy) render(ctx context.Context, pageURL, containerSelector string) (string, error) {
	u, err := launcher.New().
		Headless(true).
		Set("disable-gpu").
		Set("no-sandbox").
		Set("disable-dev-shm-usage").
		Launch()
	if err != nil {
		return "", err
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		return "", err
	}
	defer browser.Close()

	page, err := stealth.Page(browser)
	if err != nil {
		return "", err
	}
	defer page.Close()
	page = page.Context(ctx)

	router := page.HijackRequests()
	for _, rt := range blockedResourceTypes {
		rt := rt
		_ = router.Add("*", rt, func(h *rod.Hijack) {
			h.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
		})
	}
	go router.Run()
	defer router.MustStop()

	if err := page.Navigate(pageURL); err != nil {
		return "", err
	}

	s.waitForContainers(ctx, page, containerSelector)
	s.expandCollapsed(page)

	return page.HTML()
}

// waitForContainers polls the message-container count until it stops growing
// for two consecutive checks, up to a bounded total wait. A page that never
// stabilizes is still extracted from: whatever is present at the deadline.
func (s *RenderedDOMStrategy) waitForContainers(ctx context.Context, page *rod.Page, selector string) {
	maxWait := s.MaxWait
	if maxWait <= 0 {
		maxWait = defaultRenderWait
	}
	poll := s.PollInterval
	if poll <= 0 {
		poll = defaultPollInterval
	}

	deadline := time.Now().Add(maxWait)
	prev, stable := -1, 0
	for time.Now().Before(deadline) {
		count := 0
		if els, err := page.Elements(selector); err == nil {
			count = len(els)
		}

		if count > 0 && count == prev {
			stable++
			if stable >= 2 {
				return
			}
		} else {
			stable = 0
		}
		prev = count

		select {
		case <-time.After(poll):
		case <-ctx.Done():
			return
		}
	}
}

// expandCollapsed activates "show more" affordances: elements flagged
// aria-expanded=false and buttons whose sole visible text is an ellipsis.
func (s *RenderedDOMStrategy) expandCollapsed(page *rod.Page) {
	clicks := 0

	if els, err := page.Elements(`[aria-expanded="false"]`); err == nil {
		for _, el := range els {
			if clicks >= maxExpandClicks {
				return
			}
			if el.Click(proto.InputMouseButtonLeft, 1) == nil {
				clicks++
				time.Sleep(expandSettlePause)
			}
		}
	}

	if els, err := page.Elements("button, span"); err == nil {
		for _, el := range els {
			if clicks >= maxExpandClicks {
				return
			}
			text, err := el.Text()
			if err != nil {
				continue
			}
			trimmed := strings.TrimSpace(text)
			if trimmed != "…" && trimmed != "..." {
				continue
			}
			if el.Click(proto.InputMouseButtonLeft, 1) == nil {
				clicks++
				time.Sleep(expandSettlePause)
			}
		}
	}
}
