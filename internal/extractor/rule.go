package extractor

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"chat-export-go/internal/model"
	"chat-export-go/internal/rules"
)

// ruleMatch is the explicit result of applying a rule's message selector.
// The no-match case is a distinct branch, not an empty collection.
type ruleMatch struct {
	containers *goquery.Selection
}

// applyRule locates message containers with a rule. Reports whether the
// selector matched anything at all.
func applyRule(doc *goquery.Document, rule rules.ParsingRule) (ruleMatch, bool) {
	containers := doc.Find(rule.Selectors.Messages)
	if containers.Length() == 0 {
		return ruleMatch{}, false
	}
	return ruleMatch{containers: containers}, true
}

// conversationFromRule builds a conversation from matched containers,
// preserving source order. Containers that clean down to nothing are
// dropped; an empty result is reported so the caller can fail the attempt.
func conversationFromRule(doc *goquery.Document, match ruleMatch, rule rules.ParsingRule, src *Source) *model.Conversation {
	conv := model.NewConversation(src.Platform, src.URL)
	conv.Title = ExtractTitle(doc, rule.Selectors.Title)

	match.containers.Each(func(i int, s *goquery.Selection) {
		if m, ok := buildMessage(s, rule); ok {
			conv.AddMessage(m)
		}
	})

	conv.Finalize()
	return conv
}

// buildMessage turns one message container into a model message. Reports
// false for containers that are empty, noise, or oversized.
func buildMessage(s *goquery.Selection, rule rules.ParsingRule) (model.Message, bool) {
	body := s
	if rule.Selectors.Content != "" {
		if inner := s.Find(rule.Selectors.Content); inner.Length() > 0 {
			body = inner
		}
	}

	artifacts, hasCode := collectArtifacts(s, rule)
	text, isMarkdown := extractMessageText(body)
	if text == "" || looksLikeNoise(text) {
		return model.Message{}, false
	}

	msg := model.Message{
		Role: detectRole(s, rule, text, hasCode),
		Content: model.Content{
			Text:      text,
			Artifacts: artifacts,
			Formatting: model.Formatting{
				IsMarkdown:    isMarkdown,
				HasCodeBlocks: hasCode,
				HasLinks:      s.Find("a[href]").Length() > 0,
				HasImages:     s.Find("img[src]").Length() > 0,
			},
		},
		Timestamp: detectTimestamp(s, rule),
	}
	return msg, true
}

// detectRole prefers the rule's explicit role selectors; only marker-free
// containers fall back to the shape heuristic.
func detectRole(s *goquery.Selection, rule rules.ParsingRule, text string, hasCode bool) model.Role {
	if rule.Selectors.UserRole != "" && s.Is(rule.Selectors.UserRole) {
		return model.RoleUser
	}
	if rule.Selectors.AssistantRole != "" && s.Is(rule.Selectors.AssistantRole) {
		return model.RoleAssistant
	}
	if role, ok := s.Attr("data-message-author-role"); ok {
		if r := model.Role(role); r.Valid() {
			return r
		}
	}
	return InferRole(text, hasCode)
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"Jan 2, 2006 3:04 PM",
	"Jan 2, 2006",
}

// detectTimestamp is best-effort; a zero time means "use extraction time".
func detectTimestamp(s *goquery.Selection, rule rules.ParsingRule) time.Time {
	if rule.Selectors.Timestamp == "" {
		return time.Time{}
	}
	el := s.Find(rule.Selectors.Timestamp).First()
	if el.Length() == 0 {
		return time.Time{}
	}

	candidates := []string{}
	if dt, ok := el.Attr("datetime"); ok {
		candidates = append(candidates, dt)
	}
	candidates = append(candidates, strings.TrimSpace(el.Text()))

	for _, c := range candidates {
		for _, layout := range timestampLayouts {
			if ts, err := time.Parse(layout, c); err == nil {
				return ts.UTC()
			}
		}
	}
	return time.Time{}
}

// collectArtifacts gathers code blocks, images, and links embedded in a
// message container. Artifacts below the minimum useful length are noise
// and discarded.
func collectArtifacts(s *goquery.Selection, rule rules.ParsingRule) (artifacts []model.Artifact, hasCode bool) {
	codeSel := rule.Selectors.CodeBlock
	if codeSel == "" {
		codeSel = "pre code"
	}

	s.Find(codeSel).Each(func(i int, code *goquery.Selection) {
		content := strings.TrimRight(code.Text(), "\n")
		if len(strings.TrimSpace(content)) < model.MinArtifactLength {
			return
		}
		class, _ := code.Attr("class")
		artifacts = append(artifacts, model.Artifact{
			ID:       model.NewID(),
			Type:     model.ArtifactCode,
			Content:  content,
			Language: InferLanguage(class, content),
		})
		hasCode = true
	})

	s.Find("img[src]").Each(func(i int, img *goquery.Selection) {
		src, _ := img.Attr("src")
		if len(src) < model.MinArtifactLength || strings.HasPrefix(src, "data:") {
			return
		}
		artifacts = append(artifacts, model.Artifact{
			ID:      model.NewID(),
			Type:    model.ArtifactImage,
			Content: src,
		})
	})

	return artifacts, hasCode
}
