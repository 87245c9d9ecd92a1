// Package platform classifies share-link URLs into supported chat platforms.
package platform

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Platform identifies one of the supported chat platforms.
type Platform string

const (
	ChatGPT    Platform = "chatgpt"
	Claude     Platform = "claude"
	Gemini     Platform = "gemini"
	Perplexity Platform = "perplexity"
)

// Valid reports whether p is one of the supported platforms.
func (p Platform) Valid() bool {
	switch p {
	case ChatGPT, Claude, Gemini, Perplexity:
		return true
	}
	return false
}

// Match is the result of a successful detection.
type Match struct {
	Platform Platform
	ShareID  string
}

// pattern pairs a host expression with a path expression whose first
// capture group is the opaque share identifier.
type pattern struct {
	platform Platform
	host     *regexp.Regexp
	path     *regexp.Regexp
}

// patterns is checked in declaration order; the first match wins.
var patterns = []pattern{
	{ChatGPT, regexp.MustCompile(`^(www\.)?chatgpt\.com$`), regexp.MustCompile(`^/share/([A-Za-z0-9-]+)/?$`)},
	{ChatGPT, regexp.MustCompile(`^chat\.openai\.com$`), regexp.MustCompile(`^/share/([A-Za-z0-9-]+)/?$`)},
	{Claude, regexp.MustCompile(`^(www\.)?claude\.ai$`), regexp.MustCompile(`^/share/([0-9a-fA-F-]+)/?$`)},
	{Gemini, regexp.MustCompile(`^gemini\.google\.com$`), regexp.MustCompile(`^/share/([0-9a-f]+)/?$`)},
	{Gemini, regexp.MustCompile(`^g\.co$`), regexp.MustCompile(`^/gemini/share/([A-Za-z0-9]+)/?$`)},
	{Perplexity, regexp.MustCompile(`^(www\.)?perplexity\.ai$`), regexp.MustCompile(`^/search/([A-Za-z0-9_-]+)/?$`)},
}

// Supported returns the names of all supported platforms.
func Supported() []string {
	return []string{string(ChatGPT), string(Claude), string(Gemini), string(Perplexity)}
}

// UnsupportedPlatformError is returned when a URL matches no known
// platform share-link shape.
type UnsupportedPlatformError struct {
	URL       string
	Supported []string
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("unsupported platform URL %q (supported platforms: %s)",
		e.URL, strings.Join(e.Supported, ", "))
}

// Detect classifies a share-link URL. It is a pure function of its input:
// the same URL always yields the same match or the same failure.
func Detect(rawURL string) (Match, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return Match{}, fmt.Errorf("invalid URL: %w", err)
	}
	if !u.IsAbs() || u.Host == "" {
		return Match{}, fmt.Errorf("invalid URL %q: must be absolute", rawURL)
	}
	if !strings.EqualFold(u.Scheme, "https") {
		return Match{}, fmt.Errorf("invalid URL %q: share links must use https", rawURL)
	}

	host := strings.ToLower(u.Hostname())
	for _, p := range patterns {
		if !p.host.MatchString(host) {
			continue
		}
		if m := p.path.FindStringSubmatch(u.Path); len(m) > 1 {
			return Match{Platform: p.platform, ShareID: m[1]}, nil
		}
	}

	return Match{}, &UnsupportedPlatformError{URL: rawURL, Supported: Supported()}
}

// DefaultTitle returns the fallback conversation title used when a page
// yields no usable title.
func DefaultTitle(p Platform) string {
	switch p {
	case ChatGPT:
		return "ChatGPT Conversation"
	case Claude:
		return "Claude Conversation"
	case Gemini:
		return "Gemini Conversation"
	case Perplexity:
		return "Perplexity Conversation"
	}
	return "Conversation"
}

// Label returns a human-readable platform name for display.
func Label(p Platform) string {
	switch p {
	case ChatGPT:
		return "ChatGPT"
	case Claude:
		return "Claude"
	case Gemini:
		return "Gemini"
	case Perplexity:
		return "Perplexity"
	}
	return string(p)
}
