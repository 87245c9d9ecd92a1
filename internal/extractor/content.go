package extractor

import (
	"regexp"
	"strings"
	"unicode"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"chat-export-go/internal/model"
)

// maxMessageLength guards against accidentally capturing page chrome or
// embedded application state as a message. Real turns never get close.
const maxMessageLength = 50000

// roleLengthThreshold is the cutoff for the role fallback heuristic: short,
// marker-free, code-free content defaults to user. Known-imperfect; only
// used when a rule's role selectors find no explicit marker.
const roleLengthThreshold = 240

// InferRole guesses the author of a marker-free message from its shape.
func InferRole(text string, hasCode bool) model.Role {
	if hasCode {
		return model.RoleAssistant
	}
	if len(text) <= roleLengthThreshold {
		return model.RoleUser
	}
	return model.RoleAssistant
}

var langClassRe = regexp.MustCompile(`(?:language|lang)-([A-Za-z0-9+#]+)`)

var (
	pythonDefRe    = regexp.MustCompile(`(?m)^\s*def\s+\w+\s*\(.*\)\s*:`)
	pythonImportRe = regexp.MustCompile(`(?m)^\s*from\s+[\w.]+\s+import\s`)
	sqlRe          = regexp.MustCompile(`(?is)\bSELECT\b.+\bFROM\b`)
	jsRe           = regexp.MustCompile(`(?m)(^\s*import\s|^\s*export\s|=>|\bfunction\s|\bconst\s|\blet\s)`)
	goRe           = regexp.MustCompile(`(?m)(^\s*package\s+\w+$|^\s*func\s+\w+\s*\()`)
)

// InferLanguage infers a code artifact's language from a CSS-class-style
// hint when present, else from a small set of content heuristics. Returns
// "" when nothing matches; the language is then left unset.
func InferLanguage(classAttr, code string) string {
	if m := langClassRe.FindStringSubmatch(classAttr); len(m) > 1 {
		return strings.ToLower(m[1])
	}

	switch {
	case strings.Contains(code, "#include"):
		return "c"
	case strings.Contains(code, "<?php"):
		return "php"
	case pythonDefRe.MatchString(code) || pythonImportRe.MatchString(code):
		return "python"
	case goRe.MatchString(code):
		return "go"
	case sqlRe.MatchString(code):
		return "sql"
	case jsRe.MatchString(code):
		return "javascript"
	}
	return ""
}

// noisePatterns match non-conversational text that platforms embed in their
// pages: serialized application state, script variable dumps, and
// navigation chrome.
var noisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`window\.__[A-Za-z0-9_]+`),
	regexp.MustCompile(`self\.__next_f`),
	regexp.MustCompile(`^\s*\{"props":`),
	regexp.MustCompile(`(?i)^\s*skip to (main )?content`),
	regexp.MustCompile(`(?i)^(log in|sign up|new chat|continue with google)$`),
	regexp.MustCompile(`(?i)cookie (policy|preferences|settings)`),
}

// looksLikeNoise reports whether cleaned text is page boilerplate rather
// than a conversational turn.
func looksLikeNoise(text string) bool {
	if len(text) > maxMessageLength {
		return true
	}
	for _, re := range noisePatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// CleanMessageText normalizes extracted text: runs of spaces collapse to a
// single space, runs of blank lines collapse to a single blank line, and
// control characters are removed.
func CleanMessageText(text string) string {
	text = removeControlCharacters(text)

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		line = strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return ' '
			}
			return r
		}, line)
		lines[i] = strings.TrimSpace(regexp.MustCompile(` +`).ReplaceAllString(line, " "))
	}
	text = strings.Join(lines, "\n")

	text = regexp.MustCompile(`\n{3,}`).ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

func removeControlCharacters(text string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' || r >= 32 {
			return r
		}
		return -1
	}, text)
}

// blockTags are elements whose presence means a message body carries
// structure worth preserving as Markdown.
var blockTags = "p, ul, ol, pre, blockquote, table, h1, h2, h3, h4, h5, h6"

// extractMessageText returns the cleaned body of a message selection. Bodies
// with block structure are converted to Markdown so lists, emphasis, and
// fenced code survive; flat bodies come back as plain text.
func extractMessageText(sel *goquery.Selection) (text string, isMarkdown bool) {
	if sel.Find(blockTags).Length() > 0 {
		if raw, err := goquery.OuterHtml(sel); err == nil {
			if md, err := htmltomarkdown.ConvertString(raw); err == nil && strings.TrimSpace(md) != "" {
				return CleanMessageText(md), true
			}
		}
	}

	var b strings.Builder
	for _, node := range sel.Nodes {
		visibleText(node, &b)
	}
	return CleanMessageText(b.String()), false
}

// visibleText walks the node tree accumulating rendered text, skipping
// script/style subtrees and inserting line breaks at block boundaries.
func visibleText(n *html.Node, b *strings.Builder) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript", "template":
			return
		case "br":
			b.WriteString("\n")
		}
	}
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		visibleText(c, b)
	}
	if n.Type == html.ElementNode {
		switch n.Data {
		case "p", "div", "li", "pre", "blockquote", "h1", "h2", "h3", "h4", "h5", "h6", "tr":
			b.WriteString("\n")
		}
	}
}

// titleSuffixes are platform branding tails trimmed off page titles.
var titleSuffixes = []string{
	" - ChatGPT", " | ChatGPT", " - Claude", " | Claude",
	" - Gemini", " | Gemini", " - Perplexity", " | Perplexity",
}

// ExtractTitle locates the conversation title: the rule's title selector
// first, then a fallback ladder of common locations. Returns "" when no
// usable title exists; the caller applies the platform default.
func ExtractTitle(doc *goquery.Document, selector string) string {
	candidates := []string{}
	if selector != "" {
		candidates = append(candidates, selector)
	}
	candidates = append(candidates, "h1", "title")

	for _, sel := range candidates {
		text := strings.TrimSpace(doc.Find(sel).First().Text())
		if title := cleanTitle(text); title != "" {
			return title
		}
	}

	if content, ok := doc.Find("meta[property='og:title']").First().Attr("content"); ok {
		return cleanTitle(content)
	}
	return ""
}

func cleanTitle(title string) string {
	title = CleanMessageText(title)
	for _, suffix := range titleSuffixes {
		title = strings.TrimSuffix(title, suffix)
	}
	title = strings.TrimSpace(title)
	if len(title) > 200 {
		title = title[:200]
	}
	return title
}
