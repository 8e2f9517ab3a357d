// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jeranaias/asked/internal/model"
	"github.com/jeranaias/asked/internal/openrouter"
	"github.com/jeranaias/asked/internal/prompt"
	"github.com/jeranaias/asked/internal/store"
	"github.com/jeranaias/asked/internal/suggest"
)

// FallbackReply is recorded as the assistant message when a dispatched
// request fails. It goes through the same formatting path as real replies.
const FallbackReply = "I apologize, but I'm having trouble processing your request right now. " +
	"Please check your API key in settings and try again."

// ErrMissingCredential indicates no API key could be resolved for a send.
// The request is never dispatched and nothing is recorded.
var ErrMissingCredential = errors.New("no API key available")

// Completer dispatches one chat completion request with a per-send key.
type Completer interface {
	ChatWithKey(ctx context.Context, apiKey string, messages []openrouter.ChatMessage) (*openrouter.ChatResponse, error)
}

// Enricher resolves optional reference text for a query. ok=false means no
// enrichment; the provider never fails a send.
type Enricher interface {
	Lookup(ctx context.Context, query string) (text string, ok bool)
}

// SendOptions adjust a single send.
type SendOptions struct {
	// APIKey overrides the stored credential for this send.
	APIKey string
	// Deep asks the model for extended, example-rich reasoning.
	Deep bool
	// Enrich runs the reference lookup before dispatching.
	Enrich bool
}

// Outcome describes how a send concluded.
type Outcome struct {
	Category Category
	// Detail carries the service's human-readable error message, when any.
	Detail string
	// Reply is the recorded assistant message content (real or fallback).
	// Empty for cancelled and never-dispatched sends.
	Reply string
}

// Engine coordinates the store, prompt builder, enrichment provider, and
// completion client for the send lifecycle.
type Engine struct {
	store    *store.Store
	settings *store.Settings
	client   Completer
	enricher Enricher
	log      zerolog.Logger
	inflight *inflightRegistry

	mu         sync.Mutex
	defaultKey string
}

// New creates an engine. enricher may be nil to disable enrichment; the
// defaultKey (typically from configuration) is used when no stored or
// per-send key is available.
func New(st *store.Store, settings *store.Settings, client Completer, enricher Enricher, defaultKey string, log zerolog.Logger) *Engine {
	return &Engine{
		store:      st,
		settings:   settings,
		client:     client,
		enricher:   enricher,
		defaultKey: strings.TrimSpace(defaultKey),
		log:        log,
		inflight:   newInflightRegistry(),
	}
}

// SetDefaultKey replaces the configured fallback key, applied on the next
// send. Used when configuration is reloaded at runtime.
func (e *Engine) SetDefaultKey(key string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.defaultKey = strings.TrimSpace(key)
}

// resolveKey picks the credential for one send: per-send override first,
// then the stored key, then the configured default.
func (e *Engine) resolveKey(override string) (string, error) {
	if key := strings.TrimSpace(override); key != "" {
		return key, nil
	}
	if key := e.settings.APIKey(); key != "" {
		return key, nil
	}
	e.mu.Lock()
	defaultKey := e.defaultKey
	e.mu.Unlock()
	if defaultKey != "" {
		return defaultKey, nil
	}
	return "", ErrMissingCredential
}

// Send records the learner's message, dispatches a completion request, and
// records exactly one assistant message for a completed or failed attempt.
//
// A send with no resolvable credential fails with ErrMissingCredential
// before anything is recorded or dispatched. A send for an unknown
// conversation fails with store.ErrNotFound. All other failures are folded
// into the Outcome: the fallback reply is recorded and the category tells
// the caller what went wrong. A cancelled send yields CategoryCancelled
// with no assistant message; the learner's message stays on record.
func (e *Engine) Send(ctx context.Context, conversationID, text string, opts SendOptions) (Outcome, error) {
	key, err := e.resolveKey(opts.APIKey)
	if err != nil {
		e.log.Warn().Str("conversation", conversationID).Msg("send rejected: no API key")
		return Outcome{Category: CategoryMissingCredential}, err
	}

	// History is captured before the new message so the utterance appears
	// exactly once in the payload, as its final user entry.
	history, err := e.store.Messages(conversationID)
	if err != nil {
		return Outcome{Category: CategoryUnexpected}, err
	}

	reqCtx, done := e.inflight.begin(ctx, conversationID)
	defer done()

	if _, err := e.store.Append(conversationID, model.RoleUser, text); err != nil {
		return Outcome{Category: CategoryUnexpected}, err
	}

	enrichment := ""
	if opts.Enrich && e.enricher != nil {
		if ref, ok := e.enricher.Lookup(reqCtx, text); ok {
			enrichment = ref
		}
	}

	fragments := prompt.Build(history, e.settings.Username(), enrichment, opts.Deep, text)
	messages := make([]openrouter.ChatMessage, len(fragments))
	for i, f := range fragments {
		messages[i] = openrouter.ChatMessage{Role: f.Role, Content: f.Content}
	}

	resp, err := e.client.ChatWithKey(reqCtx, key, messages)
	if err != nil {
		return e.concludeFailure(conversationID, text, err)
	}

	// A reply that races its own cancellation is dropped, not recorded.
	if reqCtx.Err() != nil {
		e.log.Debug().Str("conversation", conversationID).Msg("send cancelled after completion")
		return Outcome{Category: CategoryCancelled}, nil
	}

	reply := suggest.Format(resp.GetContent(), text)
	if _, err := e.store.Append(conversationID, model.RoleAssistant, reply); err != nil {
		return Outcome{Category: CategoryUnexpected}, err
	}
	return Outcome{Category: CategoryOK, Reply: reply}, nil
}

// concludeFailure maps a dispatch error to an outcome. Every failure except
// cancellation records the fallback reply so the conversation always shows
// what happened.
func (e *Engine) concludeFailure(conversationID, text string, err error) (Outcome, error) {
	category := Classify(err)
	if category == CategoryCancelled {
		e.log.Debug().Str("conversation", conversationID).Msg("send cancelled")
		return Outcome{Category: CategoryCancelled}, nil
	}

	detail := err.Error()
	var statusErr *openrouter.StatusError
	if errors.As(err, &statusErr) {
		detail = statusErr.Message
	}
	e.log.Warn().
		Str("conversation", conversationID).
		Stringer("category", category).
		Str("detail", detail).
		Msg("send failed")

	reply := suggest.Format(FallbackReply, text)
	if _, appendErr := e.store.Append(conversationID, model.RoleAssistant, reply); appendErr != nil {
		return Outcome{Category: CategoryUnexpected, Detail: detail}, appendErr
	}
	return Outcome{Category: category, Detail: detail, Reply: reply}, nil
}

// Cancel cancels the pending send for a conversation, if any. Returns true
// when a pending send was cancelled.
func (e *Engine) Cancel(conversationID string) bool {
	return e.inflight.cancel(conversationID)
}

// Busy reports whether a send is pending for the conversation.
func (e *Engine) Busy(conversationID string) bool {
	return e.inflight.active(conversationID)
}
