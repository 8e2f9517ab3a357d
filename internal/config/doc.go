// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading for asked.
//
// Configuration is read from ~/.asked/config.toml, then overridden by
// ASKED_* environment variables, then validated. Missing files are fine:
// built-in defaults produce a working client that only needs an API key.
package config
