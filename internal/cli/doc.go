// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the interactive asked REPL: line editing with
// history, slash commands for conversation and settings management, and
// graceful cancellation of a pending request with Ctrl+C.
package cli
