// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// A Conversation is an ordered, append-only sequence of Messages. Messages
// are immutable once appended; only the owning conversation appends them.
// The conversation title starts as DefaultTitle and is derived exactly once
// from the first user message.
package model
