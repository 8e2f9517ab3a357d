// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store owns the conversation collection and the learner settings.
//
// The Store is the only owner of Conversations and their Messages; every
// structural mutation (create, delete, clear, append) persists the whole
// collection through the injected storage port. Malformed durable data at
// load time is logged and discarded, never fatal.
package store
