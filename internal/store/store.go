// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jeranaias/asked/internal/model"
	"github.com/jeranaias/asked/internal/storage"
)

// DefaultMaxConversations limits stored conversations; the oldest are
// evicted beyond this point.
const DefaultMaxConversations = 100

// ErrNotFound is returned when a conversation ID does not exist.
// Use errors.Is(err, ErrNotFound) to check for this error.
var ErrNotFound = errors.New("conversation not found")

// =============================================================================
// CONVERSATION STORE
// =============================================================================

// Store owns the conversation collection. All mutation goes through its
// methods; every structural mutation persists the full collection to the
// storage port.
type Store struct {
	mu sync.Mutex

	kv  storage.KV
	log zerolog.Logger

	// conversations is kept most-recently-created first, matching the
	// snapshot order presented to callers.
	conversations []*model.Conversation
	activeID      string

	maxConversations int
}

// New creates a Store backed by kv and rehydrates any previously persisted
// collection. Malformed durable data is logged and discarded; the store
// starts empty in that case.
func New(kv storage.KV, log zerolog.Logger) *Store {
	s := &Store{
		kv:               kv,
		log:              log.With().Str("component", "store").Logger(),
		conversations:    make([]*model.Conversation, 0),
		maxConversations: DefaultMaxConversations,
	}
	s.rehydrate()
	return s
}

// SetMaxConversations overrides the eviction limit (0 = unlimited).
func (s *Store) SetMaxConversations(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxConversations = n
}

// rehydrate loads the persisted collection, failing soft on malformed data.
func (s *Store) rehydrate() {
	data, ok, err := s.kv.Get(storage.KeyConversations)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to read persisted conversations, starting empty")
		return
	}
	if !ok {
		return
	}

	var convs []*model.Conversation
	if err := json.Unmarshal(data, &convs); err != nil {
		// Recoverable corruption: discard and start empty.
		s.log.Warn().Err(err).Msg("persisted conversations are malformed, starting empty")
		return
	}
	// Valid JSON can still be malformed as a collection ("[null]", entries
	// without an ID). Treat those as corruption too.
	for _, conv := range convs {
		if conv == nil || conv.ID == "" {
			s.log.Warn().Msg("persisted conversations are malformed, starting empty")
			return
		}
	}
	s.conversations = convs
	s.log.Debug().Int("count", len(convs)).Msg("rehydrated conversations")
}

// persist writes the whole collection. Write failures are logged, never
// surfaced: the in-memory conversation stays usable.
func (s *Store) persist() {
	data, err := json.Marshal(s.conversations)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to serialize conversations")
		return
	}
	if err := s.kv.Put(storage.KeyConversations, data); err != nil {
		s.log.Error().Err(err).Msg("failed to persist conversations")
	}
}

// =============================================================================
// LIFECYCLE OPERATIONS
// =============================================================================

// Create makes a new empty conversation, marks it active, and returns its ID.
func (s *Store) Create() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := model.NewConversation()
	s.conversations = append([]*model.Conversation{conv}, s.conversations...)
	s.activeID = conv.ID

	s.enforceLimit()
	s.persist()
	return conv.ID
}

// Delete removes a conversation. If it was active, no conversation is active
// afterwards.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	s.conversations = append(s.conversations[:idx], s.conversations[idx+1:]...)
	if s.activeID == id {
		s.activeID = ""
	}
	s.persist()
	return nil
}

// ClearAll removes every conversation; active becomes none.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conversations = make([]*model.Conversation, 0)
	s.activeID = ""
	s.persist()
}

// =============================================================================
// MESSAGE OPERATIONS
// =============================================================================

// Append records a message on a conversation and returns the new message ID.
// The first user-role append to a conversation still carrying the default
// title sets the title once, per model.DeriveTitle.
func (s *Store) Append(id string, role model.Role, content string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return "", fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	msg := s.conversations[idx].Append(role, content)
	s.persist()
	return msg.ID, nil
}

// Messages returns a copy of a conversation's ordered message history.
func (s *Store) Messages(id string) ([]model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	msgs := make([]model.Message, len(s.conversations[idx].Messages))
	copy(msgs, s.conversations[idx].Messages)
	return msgs, nil
}

// =============================================================================
// READ OPERATIONS
// =============================================================================

// Snapshot returns deep copies of every conversation, most recently created
// first, for presentation.
func (s *Store) Snapshot() []*model.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*model.Conversation, len(s.conversations))
	for i, conv := range s.conversations {
		out[i] = conv.Clone()
	}
	return out
}

// Get returns a deep copy of one conversation.
func (s *Store) Get(id string) (*model.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.conversations[idx].Clone(), nil
}

// Count returns the number of conversations.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conversations)
}

// =============================================================================
// ACTIVE CONVERSATION
// =============================================================================

// Active returns the active conversation ID, and false when none is active.
func (s *Store) Active() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID, s.activeID != ""
}

// SetActive selects the active conversation.
func (s *Store) SetActive(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(id) < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.activeID = id
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

// indexOf returns the slice index for id, or -1. Caller holds the lock.
func (s *Store) indexOf(id string) int {
	for i, conv := range s.conversations {
		if conv.ID == id {
			return i
		}
	}
	return -1
}

// enforceLimit evicts the oldest conversations beyond the cap. The slice is
// newest-first, so eviction trims the tail. Caller holds the lock.
func (s *Store) enforceLimit() {
	if s.maxConversations <= 0 || len(s.conversations) <= s.maxConversations {
		return
	}
	evicted := len(s.conversations) - s.maxConversations
	s.conversations = s.conversations[:s.maxConversations]
	s.log.Debug().Int("evicted", evicted).Msg("evicted oldest conversations")
	if s.indexOf(s.activeID) < 0 {
		s.activeID = ""
	}
}
