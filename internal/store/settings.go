// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"errors"
	"strings"

	"github.com/jeranaias/asked/internal/storage"
)

// ErrEmptyValue is returned when a settings write receives a blank value.
var ErrEmptyValue = errors.New("value must not be empty")

// Settings reads and writes the learner display name and the API credential.
// These are the only paths that persist either value; the credential is
// never written anywhere else.
type Settings struct {
	kv storage.KV
}

// NewSettings creates a settings accessor over kv.
func NewSettings(kv storage.KV) *Settings {
	return &Settings{kv: kv}
}

// Username returns the stored learner display name, or "" when unset.
func (s *Settings) Username() string {
	data, ok, err := s.kv.Get(storage.KeyUsername)
	if err != nil || !ok {
		return ""
	}
	return string(data)
}

// SetUsername stores the learner display name.
func (s *Settings) SetUsername(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyValue
	}
	return s.kv.Put(storage.KeyUsername, []byte(name))
}

// APIKey returns the stored credential, or "" when unset.
func (s *Settings) APIKey() string {
	data, ok, err := s.kv.Get(storage.KeyAPIKey)
	if err != nil || !ok {
		return ""
	}
	return string(data)
}

// SetAPIKey stores the credential.
func (s *Settings) SetAPIKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrEmptyValue
	}
	return s.kv.Put(storage.KeyAPIKey, []byte(key))
}

// ClearAPIKey removes the stored credential.
func (s *Settings) ClearAPIKey() error {
	return s.kv.Delete(storage.KeyAPIKey)
}
