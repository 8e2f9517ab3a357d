// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"context"
	"errors"
	"net/http"

	"github.com/jeranaias/asked/internal/openrouter"
)

// =============================================================================
// OUTCOME CLASSIFICATION
// =============================================================================

// Category is the caller-facing outcome of a send attempt.
type Category int

const (
	// CategoryOK means the remote call succeeded and a real reply was recorded.
	CategoryOK Category = iota
	// CategoryMissingCredential means no API key was resolvable; nothing was
	// dispatched or recorded.
	CategoryMissingCredential
	// CategoryUnauthorized means the service rejected the credential (401/403).
	CategoryUnauthorized
	// CategoryRateLimited means the service throttled the request (429).
	CategoryRateLimited
	// CategoryServiceUnavailable means the service failed server-side (5xx).
	CategoryServiceUnavailable
	// CategoryCancelled means the attempt was cancelled before completing.
	// Not an error: a normal outcome with no assistant message.
	CategoryCancelled
	// CategoryUnexpected covers everything else, including malformed
	// response bodies and transport failures.
	CategoryUnexpected
)

// String returns the human-readable name of the category.
func (c Category) String() string {
	switch c {
	case CategoryOK:
		return "OK"
	case CategoryMissingCredential:
		return "MissingCredential"
	case CategoryUnauthorized:
		return "Unauthorized"
	case CategoryRateLimited:
		return "RateLimited"
	case CategoryServiceUnavailable:
		return "ServiceUnavailable"
	case CategoryCancelled:
		return "Cancelled"
	default:
		return "Unexpected"
	}
}

// Classify maps a failed remote call to its outcome category. The mapping is
// total: any error not recognized by a more specific rule is Unexpected.
func Classify(err error) Category {
	if err == nil {
		return CategoryOK
	}
	if errors.Is(err, ErrMissingCredential) {
		return CategoryMissingCredential
	}
	if errors.Is(err, context.Canceled) {
		return CategoryCancelled
	}

	var statusErr *openrouter.StatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.Status == http.StatusUnauthorized || statusErr.Status == http.StatusForbidden:
			return CategoryUnauthorized
		case statusErr.Status == http.StatusTooManyRequests:
			return CategoryRateLimited
		case statusErr.Status >= 500:
			return CategoryServiceUnavailable
		}
	}
	return CategoryUnexpected
}
