// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/asked/internal/util"
)

// DefaultTitle is the title of a conversation before any user message has
// been recorded.
const DefaultTitle = "untitled"

// TitleMaxRunes is the truncation point for titles derived from the first
// user message.
const TitleMaxRunes = 50

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds a complete chat conversation with history and metadata.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	Messages  []Message `json:"messages"`
}

// NewConversation creates a new empty conversation with a generated ID and
// the default title.
func NewConversation() *Conversation {
	return &Conversation{
		ID:        uuid.NewString(),
		Title:     DefaultTitle,
		CreatedAt: time.Now(),
		Messages:  make([]Message, 0),
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// Append creates a message, appends it in order, and returns it. The first
// user message appended while the title is still DefaultTitle sets the title
// once; later messages never change it.
func (c *Conversation) Append(role Role, content string) Message {
	msg := NewMessage(role, content)
	c.Messages = append(c.Messages, msg)

	if role == RoleUser && c.Title == DefaultTitle {
		c.Title = DeriveTitle(content)
	}
	return msg
}

// DeriveTitle produces a conversation title from a user message: verbatim up
// to TitleMaxRunes runes, truncated with an ellipsis marker beyond that.
// Newlines are flattened so the title renders on one line.
func DeriveTitle(content string) string {
	return util.TruncateRunes(util.Flatten(content), TitleMaxRunes)
}

// LastMessage returns the most recent message, or a zero Message and false
// if the conversation is empty.
func (c *Conversation) LastMessage() (Message, bool) {
	if len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}

// MessageCount returns the number of messages.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// IsEmpty returns true if there are no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// Preview returns a short single-line preview from the first user message.
func (c *Conversation) Preview() string {
	for _, msg := range c.Messages {
		if msg.Role == RoleUser {
			return util.TruncateRunes(util.Flatten(msg.Content), 80)
		}
	}
	return "Empty conversation"
}

// Clone creates a deep copy of the conversation. Messages are value types so
// copying the slice copies the turns.
func (c *Conversation) Clone() *Conversation {
	clone := &Conversation{
		ID:        c.ID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		Messages:  make([]Message, len(c.Messages)),
	}
	copy(clone.Messages, c.Messages)
	return clone
}
