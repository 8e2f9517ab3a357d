// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package enrich fetches short reference summaries from Wikipedia to ground
// a completion request. The lookup is strictly best-effort: every failure
// mode resolves to "no enrichment" and never to an error, so a broken or
// offline lookup service cannot affect a send.
package enrich
