// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package engine orchestrates one send: record the learner's message, build
// the payload, dispatch the completion request, and record exactly one
// assistant reply (real or fallback) per completed attempt.
//
// The engine enforces single-flight per conversation: issuing a new send
// while one is pending cancels the pending request first. Cancelled attempts
// never append an assistant message.
package engine
