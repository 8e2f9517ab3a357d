// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/asked/internal/model"
	"github.com/jeranaias/asked/internal/storage"
)

// fakeKV is an in-memory storage port for tests.
type fakeKV struct {
	data map[string][]byte
	puts int
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: make(map[string][]byte)}
}

func (f *fakeKV) Get(key string) ([]byte, bool, error) {
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *fakeKV) Put(key string, value []byte) error {
	f.puts++
	f.data[key] = append([]byte(nil), value...)
	return nil
}

func (f *fakeKV) Delete(key string) error {
	delete(f.data, key)
	return nil
}

func (f *fakeKV) Close() error { return nil }

func newTestStore(t *testing.T) (*Store, *fakeKV) {
	t.Helper()
	kv := newFakeKV()
	return New(kv, zerolog.Nop()), kv
}

// =============================================================================
// LIFECYCLE TESTS
// =============================================================================

func TestStore_CreateBecomesActive(t *testing.T) {
	s, _ := newTestStore(t)

	id := s.Create()
	active, ok := s.Active()
	require.True(t, ok)
	require.Equal(t, id, active)
}

func TestStore_DeleteActiveClearsActive(t *testing.T) {
	s, _ := newTestStore(t)

	first := s.Create()
	second := s.Create()

	// Deleting a non-active conversation keeps the active one
	require.NoError(t, s.Delete(first))
	active, ok := s.Active()
	require.True(t, ok)
	require.Equal(t, second, active)

	// Deleting the active conversation leaves none active
	require.NoError(t, s.Delete(second))
	_, ok = s.Active()
	require.False(t, ok)
}

func TestStore_DeleteUnknown(t *testing.T) {
	s, _ := newTestStore(t)
	err := s.Delete("nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStore_ClearAll(t *testing.T) {
	s, kv := newTestStore(t)
	s.Create()
	s.Create()

	s.ClearAll()
	require.Equal(t, 0, s.Count())
	_, ok := s.Active()
	require.False(t, ok)

	// The empty collection is what ends up durable
	data := kv.data[storage.KeyConversations]
	var convs []*model.Conversation
	require.NoError(t, json.Unmarshal(data, &convs))
	require.Empty(t, convs)
}

// =============================================================================
// APPEND TESTS
// =============================================================================

func TestStore_AppendOrderEqualsCallOrder(t *testing.T) {
	s, _ := newTestStore(t)
	id := s.Create()

	contents := []string{"one", "two", "three", "four", "five"}
	for i, c := range contents {
		role := model.RoleUser
		if i%2 == 1 {
			role = model.RoleAssistant
		}
		_, err := s.Append(id, role, c)
		require.NoError(t, err)
	}

	msgs, err := s.Messages(id)
	require.NoError(t, err)
	require.Len(t, msgs, len(contents))
	for i, msg := range msgs {
		require.Equal(t, contents[i], msg.Content)
	}
}

func TestStore_AppendUnknownConversation(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Append("nope", model.RoleUser, "hello")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStore_TitleSetOnce(t *testing.T) {
	s, _ := newTestStore(t)
	id := s.Create()

	conv, err := s.Get(id)
	require.NoError(t, err)
	require.Equal(t, model.DefaultTitle, conv.Title)

	_, err = s.Append(id, model.RoleUser, "Can you explain entropy?")
	require.NoError(t, err)

	conv, _ = s.Get(id)
	require.Equal(t, "Can you explain entropy?", conv.Title)

	_, err = s.Append(id, model.RoleUser, "A different question entirely")
	require.NoError(t, err)

	conv, _ = s.Get(id)
	require.Equal(t, "Can you explain entropy?", conv.Title, "title must never auto-change after being set")
}

func TestStore_TitleTruncation(t *testing.T) {
	s, _ := newTestStore(t)
	id := s.Create()

	long := strings.Repeat("x", 80)
	_, err := s.Append(id, model.RoleUser, long)
	require.NoError(t, err)

	conv, _ := s.Get(id)
	require.Equal(t, strings.Repeat("x", 50)+"...", conv.Title)
}

// =============================================================================
// SNAPSHOT TESTS
// =============================================================================

func TestStore_SnapshotNewestFirst(t *testing.T) {
	s, _ := newTestStore(t)
	first := s.Create()
	second := s.Create()
	third := s.Create()

	snap := s.Snapshot()
	require.Len(t, snap, 3)
	require.Equal(t, third, snap[0].ID)
	require.Equal(t, second, snap[1].ID)
	require.Equal(t, first, snap[2].ID)
}

func TestStore_SnapshotIsReadOnlyView(t *testing.T) {
	s, _ := newTestStore(t)
	id := s.Create()
	_, err := s.Append(id, model.RoleUser, "hello")
	require.NoError(t, err)

	snap := s.Snapshot()
	snap[0].Append(model.RoleUser, "tampered")

	msgs, _ := s.Messages(id)
	require.Len(t, msgs, 1, "mutating a snapshot must not affect the store")
}

// =============================================================================
// PERSISTENCE TESTS
// =============================================================================

func TestStore_EveryMutationPersists(t *testing.T) {
	s, kv := newTestStore(t)

	id := s.Create()
	_, err := s.Append(id, model.RoleUser, "hi")
	require.NoError(t, err)
	require.NoError(t, s.Delete(id))
	s.ClearAll()

	require.Equal(t, 4, kv.puts)
}

func TestStore_RehydratesFromDurableStorage(t *testing.T) {
	kv := newFakeKV()
	s := New(kv, zerolog.Nop())
	id := s.Create()
	_, err := s.Append(id, model.RoleUser, "persist me")
	require.NoError(t, err)

	// A fresh store over the same port sees the same collection
	s2 := New(kv, zerolog.Nop())
	require.Equal(t, 1, s2.Count())
	msgs, err := s2.Messages(id)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Equal(t, "persist me", msgs[0].Content)
	require.False(t, msgs[0].Timestamp.IsZero(), "timestamps must round-trip")

	// Active selection is process state, not durable state
	_, ok := s2.Active()
	require.False(t, ok)
}

func TestStore_MalformedDurableDataStartsEmpty(t *testing.T) {
	kv := newFakeKV()
	kv.data[storage.KeyConversations] = []byte("{not json")

	s := New(kv, zerolog.Nop())
	require.Equal(t, 0, s.Count(), "corrupt data is discarded, never fatal")

	// The store stays fully usable afterwards
	id := s.Create()
	_, err := s.Append(id, model.RoleUser, "still works")
	require.NoError(t, err)
}

func TestStore_InvalidDurableEntriesStartEmpty(t *testing.T) {
	// Valid JSON that is still malformed as a collection must be discarded
	// the same way unparseable bytes are.
	cases := []struct {
		name string
		data string
	}{
		{"null entry", `[null]`},
		{"entry without id", `[{"title":"orphan","messages":[]}]`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			kv := newFakeKV()
			kv.data[storage.KeyConversations] = []byte(tc.data)

			s := New(kv, zerolog.Nop())
			require.Equal(t, 0, s.Count())
			require.Empty(t, s.Snapshot())

			id := s.Create()
			_, err := s.Append(id, model.RoleUser, "still works")
			require.NoError(t, err)
		})
	}
}

func TestStore_EvictsOldestBeyondLimit(t *testing.T) {
	s, _ := newTestStore(t)
	s.SetMaxConversations(3)

	var ids []string
	for i := 0; i < 5; i++ {
		ids = append(ids, s.Create())
	}

	require.Equal(t, 3, s.Count())
	snap := s.Snapshot()
	require.Equal(t, ids[4], snap[0].ID)
	require.Equal(t, ids[2], snap[2].ID)

	err := s.Delete(ids[0])
	require.True(t, errors.Is(err, ErrNotFound), "oldest conversations are evicted")
}

// =============================================================================
// SETTINGS TESTS
// =============================================================================

func TestSettings_RoundTrip(t *testing.T) {
	kv := newFakeKV()
	settings := NewSettings(kv)

	require.Empty(t, settings.Username())
	require.NoError(t, settings.SetUsername("  Marcus "))
	require.Equal(t, "Marcus", settings.Username())

	require.Empty(t, settings.APIKey())
	require.NoError(t, settings.SetAPIKey("sk-or-abc"))
	require.Equal(t, "sk-or-abc", settings.APIKey())

	require.NoError(t, settings.ClearAPIKey())
	require.Empty(t, settings.APIKey())
}

func TestSettings_RejectsEmpty(t *testing.T) {
	settings := NewSettings(newFakeKV())
	require.ErrorIs(t, settings.SetUsername("   "), ErrEmptyValue)
	require.ErrorIs(t, settings.SetAPIKey(""), ErrEmptyValue)
}
