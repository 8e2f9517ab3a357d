// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package openrouter implements the client for the OpenRouter chat
// completions API.
//
// OpenRouter provides access to multiple LLM providers through a single API.
// The client retries transient failures with exponential backoff, rate-limits
// outbound requests, and surfaces non-2xx responses as StatusError values so
// callers can map them to user-facing outcomes.
package openrouter
