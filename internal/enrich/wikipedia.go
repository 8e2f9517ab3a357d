// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package enrich

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultSearchURL is the opensearch endpoint used to resolve a free-text
	// query to a canonical article title.
	DefaultSearchURL = "https://en.wikipedia.org/w/api.php"

	// DefaultSummaryURL is the REST endpoint serving short page summaries.
	// The resolved title is appended as a path segment.
	DefaultSummaryURL = "https://en.wikipedia.org/api/rest_v1/page/summary"

	// lookupTimeout bounds each of the two lookup calls.
	lookupTimeout = 5 * time.Second

	// maxBodySize caps lookup response bodies.
	maxBodySize = 1 * 1024 * 1024
)

// Wikipedia resolves free-text queries to article summaries in two steps:
// opensearch for the canonical title, then the REST summary for its extract.
type Wikipedia struct {
	searchURL  string
	summaryURL string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewWikipedia creates a Wikipedia lookup provider.
func NewWikipedia(log zerolog.Logger) *Wikipedia {
	return &Wikipedia{
		searchURL:  DefaultSearchURL,
		summaryURL: DefaultSummaryURL,
		httpClient: &http.Client{Timeout: lookupTimeout},
		log:        log,
	}
}

// WithEndpoints overrides both lookup endpoints.
func (w *Wikipedia) WithEndpoints(searchURL, summaryURL string) *Wikipedia {
	w.searchURL = strings.TrimSuffix(searchURL, "/")
	w.summaryURL = strings.TrimSuffix(summaryURL, "/")
	return w
}

// summaryResponse is the subset of the REST page summary we consume.
type summaryResponse struct {
	Extract string `json:"extract"`
}

// Lookup returns a short reference summary for the query, or ok=false when
// no summary could be obtained. It never returns an error: enrichment is
// optional context and a failed lookup is logged and swallowed.
func (w *Wikipedia) Lookup(ctx context.Context, query string) (string, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", false
	}

	title, ok := w.resolveTitle(ctx, query)
	if !ok {
		return "", false
	}

	extract, ok := w.fetchSummary(ctx, title)
	if !ok {
		return "", false
	}
	return extract, true
}

// resolveTitle runs the opensearch call and returns the first matching
// article title.
func (w *Wikipedia) resolveTitle(ctx context.Context, query string) (string, bool) {
	params := url.Values{}
	params.Set("action", "opensearch")
	params.Set("search", query)
	params.Set("limit", "1")
	params.Set("format", "json")

	body, ok := w.get(ctx, w.searchURL+"?"+params.Encode())
	if !ok {
		return "", false
	}

	// Opensearch returns a positional array: [query, [titles], [descs], [urls]].
	var result []json.RawMessage
	if err := json.Unmarshal(body, &result); err != nil || len(result) < 2 {
		w.log.Debug().Str("query", query).Msg("lookup: malformed opensearch payload")
		return "", false
	}
	var titles []string
	if err := json.Unmarshal(result[1], &titles); err != nil || len(titles) == 0 {
		return "", false
	}
	return titles[0], true
}

// fetchSummary retrieves the REST summary extract for an article title.
func (w *Wikipedia) fetchSummary(ctx context.Context, title string) (string, bool) {
	body, ok := w.get(ctx, w.summaryURL+"/"+url.PathEscape(title))
	if !ok {
		return "", false
	}

	var summary summaryResponse
	if err := json.Unmarshal(body, &summary); err != nil {
		w.log.Debug().Str("title", title).Msg("lookup: malformed summary payload")
		return "", false
	}
	if strings.TrimSpace(summary.Extract) == "" {
		return "", false
	}
	return summary.Extract, true
}

// get performs one bounded GET and returns the body on a 200.
func (w *Wikipedia) get(ctx context.Context, requestURL string) ([]byte, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, false
	}
	req.Header.Set("User-Agent", "asked/0.1.0")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		w.log.Debug().Err(err).Msg("lookup: request failed")
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		w.log.Debug().Int("status", resp.StatusCode).Msg("lookup: non-200 response")
		return nil, false
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, false
	}
	return body, true
}
