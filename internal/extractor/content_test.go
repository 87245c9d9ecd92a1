package extractor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"chat-export-go/internal/model"
)

func TestInferRole(t *testing.T) {
	assert.Equal(t, model.RoleUser, InferRole("Can you help me with this?", false))
	assert.Equal(t, model.RoleAssistant, InferRole("short but code-bearing", true))
	assert.Equal(t, model.RoleAssistant, InferRole(strings.Repeat("a long explanation ", 30), false))
}

func TestInferLanguage(t *testing.T) {
	tests := []struct {
		name  string
		class string
		code  string
		want  string
	}{
		{"class hint", "language-javascript", "whatever();", "javascript"},
		{"class hint lang prefix", "lang-Rust highlight", "fn main() {}", "rust"},
		{"python def", "", "def handler(event):\n    return event", "python"},
		{"python from import", "", "from os import path\npath.join('a')", "python"},
		{"c include", "", "#include <stdio.h>\nint main(void) { return 0; }", "c"},
		{"sql", "", "SELECT id, name FROM users WHERE id = 1;", "sql"},
		{"javascript import", "", "import { useState } from 'react';\nconst [n] = useState(0);", "javascript"},
		{"javascript arrow", "", "items.map(x => x * 2)", "javascript"},
		{"go", "", "package main\n\nfunc main() {}", "go"},
		{"php", "", "<?php echo 'hi'; ?>", "php"},
		{"unknown", "", "just some prose without syntax", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferLanguage(tt.class, tt.code))
		})
	}
}

func TestCleanMessageText(t *testing.T) {
	in := "Hello   world\t!\n\n\n\n\nNext  paragraph here\n"
	want := "Hello world !\n\nNext paragraph here"
	assert.Equal(t, want, CleanMessageText(in))
}

func TestLooksLikeNoise(t *testing.T) {
	assert.True(t, looksLikeNoise(`window.__remixContext = {"state":{}}`))
	assert.True(t, looksLikeNoise(`self.__next_f.push([1,"..."])`))
	assert.True(t, looksLikeNoise(`{"props":{"pageProps":{}}}`))
	assert.True(t, looksLikeNoise("Skip to content"))
	assert.True(t, looksLikeNoise(strings.Repeat("x", maxMessageLength+1)))

	assert.False(t, looksLikeNoise("Hello! Can you help me understand how React hooks work?"))
	assert.False(t, looksLikeNoise("Sure - here is an explanation of useState and useEffect."))
}
