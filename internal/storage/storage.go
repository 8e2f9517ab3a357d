// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jeranaias/asked/internal/util"
)

// Logical keys held by the store.
const (
	KeyUsername      = "username"
	KeyAPIKey        = "api_key"
	KeyConversations = "conversations"
)

// KV is the durable key/value port. Implementations must make Put a
// whole-value overwrite that is atomic from the caller's perspective.
type KV interface {
	// Get returns the value for key, and false when the key is absent.
	Get(key string) ([]byte, bool, error)

	// Put overwrites the value for key.
	Put(key string, value []byte) error

	// Delete removes key. Deleting an absent key is a no-op.
	Delete(key string) error

	// Close releases backend resources.
	Close() error
}

// =============================================================================
// FILE BACKEND
// =============================================================================

// FileKV stores each key as one JSON document file under a base directory.
// Writes go through an atomic temp-file-and-rename so a crash mid-write
// leaves the previous value intact.
type FileKV struct {
	baseDir string
}

// NewFileKV creates a file-backed store rooted at baseDir, creating the
// directory if needed.
func NewFileKV(baseDir string) (*FileKV, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileKV{baseDir: baseDir}, nil
}

// Get implements KV.
func (s *FileKV) Get(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.filePath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

// Put implements KV.
func (s *FileKV) Put(key string, value []byte) error {
	return util.AtomicWriteFile(s.filePath(key), value, 0600)
}

// Delete implements KV.
func (s *FileKV) Delete(key string) error {
	err := os.Remove(s.filePath(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Close implements KV. File handles are not held open between operations.
func (s *FileKV) Close() error {
	return nil
}

// filePath maps a logical key to its on-disk file.
func (s *FileKV) filePath(key string) string {
	// Keys are internal constants, but sanitize anyway.
	key = strings.ReplaceAll(key, string(os.PathSeparator), "_")
	return filepath.Join(s.baseDir, key+".json")
}
