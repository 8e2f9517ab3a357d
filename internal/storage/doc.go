// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the durable key/value port used by the asked
// client, with two interchangeable backends: atomic JSON files (default)
// and a single-table sqlite database.
//
// The store holds three logical keys: the learner display name, the API
// credential, and the serialized conversation collection. Writes are
// whole-value overwrites; a crash mid-write never corrupts a previously
// durable value.
package storage
