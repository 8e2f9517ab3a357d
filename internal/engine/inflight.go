// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"context"
	"sync"
)

// =============================================================================
// IN-FLIGHT REQUEST REGISTRY (THREAD-SAFE)
// =============================================================================

// inflightRegistry tracks the pending request per conversation with mutex
// protection. Beginning a request for a conversation that already has one
// pending cancels the older request first, which keeps at most one
// outstanding remote call per conversation.
type inflightRegistry struct {
	mu      sync.Mutex
	pending map[string]*inflightEntry
}

type inflightEntry struct {
	cancel context.CancelFunc
}

// newInflightRegistry creates an empty registry.
func newInflightRegistry() *inflightRegistry {
	return &inflightRegistry{pending: make(map[string]*inflightEntry)}
}

// begin registers a new request for the conversation, cancelling any request
// already pending for it. The returned context is cancelled when the request
// is superseded, explicitly cancelled, or finished. The returned done
// function must be called when the request completes; it releases the
// context and removes the registration unless a newer request has already
// replaced it.
func (r *inflightRegistry) begin(parent context.Context, conversationID string) (context.Context, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.pending[conversationID]; ok {
		prev.cancel()
	}

	ctx, cancel := context.WithCancel(parent)
	entry := &inflightEntry{cancel: cancel}
	r.pending[conversationID] = entry

	done := func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		cancel()
		if r.pending[conversationID] == entry {
			delete(r.pending, conversationID)
		}
	}
	return ctx, done
}

// cancel cancels the pending request for the conversation, if any. Returns
// true when there was one to cancel.
func (r *inflightRegistry) cancel(conversationID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.pending[conversationID]
	if !ok {
		return false
	}
	entry.cancel()
	delete(r.pending, conversationID)
	return true
}

// active reports whether a request is pending for the conversation.
func (r *inflightRegistry) active(conversationID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.pending[conversationID]
	return ok
}
