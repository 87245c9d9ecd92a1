package platform

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		platform Platform
		shareID  string
	}{
		{"chatgpt", "https://chatgpt.com/share/67a1b2c3-d4e5-f678-9012-3456789abcde", ChatGPT, "67a1b2c3-d4e5-f678-9012-3456789abcde"},
		{"chatgpt www", "https://www.chatgpt.com/share/abc123", ChatGPT, "abc123"},
		{"chatgpt legacy host", "https://chat.openai.com/share/abc123", ChatGPT, "abc123"},
		{"chatgpt uppercase host", "https://CHATGPT.COM/share/abc123", ChatGPT, "abc123"},
		{"claude", "https://claude.ai/share/d3f2a1b0-1234-5678-9abc-def012345678", Claude, "d3f2a1b0-1234-5678-9abc-def012345678"},
		{"gemini", "https://gemini.google.com/share/6d141b7f1bd6", Gemini, "6d141b7f1bd6"},
		{"gemini short link", "https://g.co/gemini/share/AbC123", Gemini, "AbC123"},
		{"perplexity", "https://www.perplexity.ai/search/how-do-react-hooks-work-XyZ_12", Perplexity, "how-do-react-hooks-work-XyZ_12"},
		{"trailing slash", "https://chatgpt.com/share/abc123/", ChatGPT, "abc123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Detect(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.platform, m.Platform)
			assert.Equal(t, tt.shareID, m.ShareID)
		})
	}
}

func TestDetectUnsupported(t *testing.T) {
	_, err := Detect("https://example.com/chat/123")
	require.Error(t, err)

	var unsupported *UnsupportedPlatformError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, Supported(), unsupported.Supported)
}

func TestDetectRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"relative", "/share/abc123"},
		{"empty", ""},
		{"http scheme", "http://chatgpt.com/share/abc123"},
		{"wrong path", "https://chatgpt.com/c/abc123"},
		{"no id", "https://chatgpt.com/share/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Detect(tt.url)
			assert.Error(t, err)
		})
	}
}

func TestDetectIsIdempotent(t *testing.T) {
	const url = "https://claude.ai/share/d3f2a1b0-1234-5678-9abc-def012345678"

	first, err := Detect(url)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		m, err := Detect(url)
		require.NoError(t, err)
		assert.Equal(t, first, m)
	}

	const bad = "https://example.com/chat/123"
	for i := 0; i < 10; i++ {
		_, err := Detect(bad)
		var unsupported *UnsupportedPlatformError
		require.True(t, errors.As(err, &unsupported))
	}
}

func TestDefaultTitle(t *testing.T) {
	assert.Equal(t, "ChatGPT Conversation", DefaultTitle(ChatGPT))
	assert.Equal(t, "Claude Conversation", DefaultTitle(Claude))
	assert.Equal(t, "Gemini Conversation", DefaultTitle(Gemini))
	assert.Equal(t, "Perplexity Conversation", DefaultTitle(Perplexity))
	assert.Equal(t, "Conversation", DefaultTitle(Platform("unknown")))
}
