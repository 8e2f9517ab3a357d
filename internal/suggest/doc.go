// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package suggest appends study-tip lines to assistant replies based on the
// subject of the learner's question. Subject detection is a cheap keyword
// scan, first match wins.
package suggest
