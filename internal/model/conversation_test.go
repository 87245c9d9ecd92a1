package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-export-go/internal/platform"
)

func newMessage(role Role, text string) Message {
	return Message{
		Role:      role,
		Content:   Content{Text: text},
		Timestamp: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestAddMessageDropsEmptyText(t *testing.T) {
	conv := NewConversation(platform.ChatGPT, "https://chatgpt.com/share/abc")

	assert.False(t, conv.AddMessage(newMessage(RoleUser, "")))
	assert.False(t, conv.AddMessage(newMessage(RoleUser, "   \n\t ")))
	assert.True(t, conv.AddMessage(newMessage(RoleUser, "hello")))
	assert.Len(t, conv.Messages, 1)
}

func TestAddMessageAssignsIDAndTimestamp(t *testing.T) {
	conv := NewConversation(platform.Claude, "https://claude.ai/share/abc")

	require.True(t, conv.AddMessage(Message{Role: RoleAssistant, Content: Content{Text: "hi"}}))
	m := conv.Messages[0]
	assert.NotEmpty(t, m.ID)
	assert.False(t, m.Timestamp.IsZero())
}

func TestFinalizeAppliesDefaultTitle(t *testing.T) {
	conv := NewConversation(platform.Gemini, "https://gemini.google.com/share/abcdef")
	conv.AddMessage(newMessage(RoleUser, "hello"))
	conv.Finalize()

	assert.Equal(t, "Gemini Conversation", conv.Title)
	assert.Equal(t, conv.Title, conv.Metadata.Title)
	assert.Equal(t, 1, conv.Metadata.MessageCount)
}

func TestFinalizeKeepsExtractedTitle(t *testing.T) {
	conv := NewConversation(platform.ChatGPT, "https://chatgpt.com/share/abc")
	conv.Title = "React Hooks Explained"
	conv.AddMessage(newMessage(RoleUser, "hello"))
	conv.Finalize()

	assert.Equal(t, "React Hooks Explained", conv.Title)
}

func TestValidate(t *testing.T) {
	valid := NewConversation(platform.ChatGPT, "https://chatgpt.com/share/abc")
	valid.AddMessage(newMessage(RoleUser, "hello"))
	valid.Finalize()
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(c *Conversation)
	}{
		{"no messages", func(c *Conversation) { c.Messages = nil }},
		{"empty title", func(c *Conversation) { c.Title = "  " }},
		{"blank message text", func(c *Conversation) { c.Messages[0].Content.Text = " " }},
		{"unknown role", func(c *Conversation) { c.Messages[0].Role = Role("robot") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv := NewConversation(platform.ChatGPT, "https://chatgpt.com/share/abc")
			conv.AddMessage(newMessage(RoleUser, "hello"))
			conv.Finalize()
			tt.mutate(conv)
			assert.Error(t, conv.Validate())
		})
	}

	var nilConv *Conversation
	assert.Error(t, nilConv.Validate())
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleUser.Valid())
	assert.True(t, RoleAssistant.Valid())
	assert.True(t, RoleSystem.Valid())
	assert.False(t, Role("moderator").Valid())
}
