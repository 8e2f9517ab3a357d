// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"testing"
)

// =============================================================================
// APPEND ORDER TESTS
// =============================================================================

func TestConversation_AppendOrder(t *testing.T) {
	conv := NewConversation()

	contents := []string{"first", "second", "third", "fourth"}
	for i, c := range contents {
		role := RoleUser
		if i%2 == 1 {
			role = RoleAssistant
		}
		conv.Append(role, c)
	}

	if conv.MessageCount() != len(contents) {
		t.Fatalf("MessageCount() = %d, want %d", conv.MessageCount(), len(contents))
	}
	for i, msg := range conv.Messages {
		if msg.Content != contents[i] {
			t.Errorf("Messages[%d].Content = %q, want %q", i, msg.Content, contents[i])
		}
	}
}

func TestConversation_UniqueMessageIDs(t *testing.T) {
	conv := NewConversation()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		msg := conv.Append(RoleUser, "hello")
		if seen[msg.ID] {
			t.Fatalf("duplicate message ID %q", msg.ID)
		}
		seen[msg.ID] = true
	}
}

// =============================================================================
// TITLE TESTS
// =============================================================================

func TestConversation_TitleFromFirstUserMessage(t *testing.T) {
	conv := NewConversation()
	if conv.Title != DefaultTitle {
		t.Fatalf("new conversation title = %q, want %q", conv.Title, DefaultTitle)
	}

	// Assistant messages never set the title
	conv.Append(RoleAssistant, "welcome aboard")
	if conv.Title != DefaultTitle {
		t.Errorf("assistant append changed title to %q", conv.Title)
	}

	conv.Append(RoleUser, "What is photosynthesis?")
	if conv.Title != "What is photosynthesis?" {
		t.Errorf("title = %q, want first user message", conv.Title)
	}

	// Later user messages never change it
	conv.Append(RoleUser, "And what about respiration?")
	if conv.Title != "What is photosynthesis?" {
		t.Errorf("title changed by second user message: %q", conv.Title)
	}
}

func TestDeriveTitle_Truncation(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "short verbatim",
			input: "short question",
			want:  "short question",
		},
		{
			name:  "exactly fifty verbatim",
			input: strings.Repeat("a", 50),
			want:  strings.Repeat("a", 50),
		},
		{
			name:  "fifty one truncated",
			input: strings.Repeat("a", 51),
			want:  strings.Repeat("a", 50) + "...",
		},
		{
			name:  "newlines flattened",
			input: "line one\nline two",
			want:  "line one line two",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DeriveTitle(tc.input); got != tc.want {
				t.Errorf("DeriveTitle() = %q, want %q", got, tc.want)
			}
		})
	}
}

// =============================================================================
// CLONE TESTS
// =============================================================================

func TestConversation_CloneIsDeep(t *testing.T) {
	conv := NewConversation()
	conv.Append(RoleUser, "original")

	clone := conv.Clone()
	clone.Append(RoleUser, "extra")

	if conv.MessageCount() != 1 {
		t.Errorf("mutating clone changed original: %d messages", conv.MessageCount())
	}
	if clone.MessageCount() != 2 {
		t.Errorf("clone MessageCount() = %d, want 2", clone.MessageCount())
	}
}

func TestRole_Valid(t *testing.T) {
	if !RoleUser.Valid() || !RoleAssistant.Valid() {
		t.Error("user and assistant roles should be valid")
	}
	if Role("system").Valid() {
		t.Error("system is not a stored message role")
	}
}
