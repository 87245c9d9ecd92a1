// Package model defines the conversation data model that extraction
// strategies produce and document generators consume.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid"

	"chat-export-go/internal/platform"
)

// Role identifies the author of a message turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

// ArtifactType identifies the kind of rich content embedded in a message.
type ArtifactType string

const (
	ArtifactCode  ArtifactType = "code"
	ArtifactImage ArtifactType = "image"
	ArtifactFile  ArtifactType = "file"
	ArtifactLink  ArtifactType = "link"
)

// MinArtifactLength is the smallest artifact content considered useful;
// anything shorter is treated as noise and discarded.
const MinArtifactLength = 10

// Artifact is a distinguishable embedded content block inside a message.
type Artifact struct {
	ID       string       `json:"id"`
	Type     ArtifactType `json:"type"`
	Content  string       `json:"content"`
	Language string       `json:"language,omitempty"`
}

// Formatting describes structural traits of a message body.
type Formatting struct {
	IsMarkdown    bool `json:"isMarkdown"`
	HasCodeBlocks bool `json:"hasCodeBlocks"`
	HasLinks      bool `json:"hasLinks"`
	HasImages     bool `json:"hasImages"`
}

// Content is the cleaned body of a message plus its embedded artifacts.
type Content struct {
	Text       string     `json:"text"`
	Artifacts  []Artifact `json:"artifacts,omitempty"`
	Formatting Formatting `json:"formatting"`
}

// Message is one turn in a conversation.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   Content   `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Metadata describes the extraction, not the original chat.
type Metadata struct {
	Platform     platform.Platform `json:"platform"`
	ExtractedAt  time.Time         `json:"extractedAt"`
	MessageCount int               `json:"messageCount"`
	Title        string            `json:"title"`
	SourceURL    string            `json:"sourceUrl"`
}

// Conversation is the unit of work: created by a successful extraction
// strategy, validated by the orchestrator, consumed exactly once by a
// document generator. It is never persisted.
type Conversation struct {
	ID       string            `json:"id"`
	Title    string            `json:"title"`
	Platform platform.Platform `json:"platform"`
	Messages []Message         `json:"messages"`
	Metadata Metadata          `json:"metadata"`
}

// NewConversation creates an empty conversation for a source page.
func NewConversation(p platform.Platform, sourceURL string) *Conversation {
	return &Conversation{
		ID:       NewID(),
		Platform: p,
		Metadata: Metadata{
			Platform:    p,
			ExtractedAt: time.Now().UTC(),
			SourceURL:   sourceURL,
		},
	}
}

// AddMessage appends a message in conversational order. Messages whose
// cleaned text is empty are dropped and never reach the model. Reports
// whether the message was kept.
func (c *Conversation) AddMessage(m Message) bool {
	if strings.TrimSpace(m.Content.Text) == "" {
		return false
	}
	if m.ID == "" {
		m.ID = NewID()
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	c.Messages = append(c.Messages, m)
	return true
}

// Finalize fills derived metadata and applies the platform default title
// when no usable title was found.
func (c *Conversation) Finalize() {
	if strings.TrimSpace(c.Title) == "" {
		c.Title = platform.DefaultTitle(c.Platform)
	}
	c.Metadata.Title = c.Title
	c.Metadata.MessageCount = len(c.Messages)
}

// Validate enforces the all-or-nothing acceptance contract: a conversation
// is either fully well-formed or rejected outright.
func (c *Conversation) Validate() error {
	if c == nil {
		return errors.New("nil conversation")
	}
	if len(c.Messages) == 0 {
		return errors.New("conversation has no messages")
	}
	if strings.TrimSpace(c.Title) == "" {
		return errors.New("conversation has no title")
	}
	for i, m := range c.Messages {
		if strings.TrimSpace(m.Content.Text) == "" {
			return fmt.Errorf("message %d has empty text", i)
		}
		if !m.Role.Valid() {
			return fmt.Errorf("message %d has invalid role %q", i, m.Role)
		}
	}
	return nil
}

// NewID generates an opaque unique identifier.
func NewID() string {
	id, err := uuid.NewV4()
	if err != nil {
		return fmt.Sprintf("gen-%d", time.Now().UnixNano())
	}
	return id.String()
}
