// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package prompt assembles the instruction payload sent to the completion
// service: a fixed system instruction, optional reference material, the
// conversation history oldest first, and the new user utterance. Building a
// payload is a pure function of its inputs so request construction can be
// tested without a network.
package prompt
