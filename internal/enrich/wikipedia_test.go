// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package enrich

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func wikiServer(t *testing.T, search http.HandlerFunc, summary http.HandlerFunc) *Wikipedia {
	t.Helper()
	searchSrv := httptest.NewServer(search)
	summarySrv := httptest.NewServer(summary)
	t.Cleanup(searchSrv.Close)
	t.Cleanup(summarySrv.Close)
	return NewWikipedia(zerolog.Nop()).WithEndpoints(searchSrv.URL, summarySrv.URL)
}

func TestLookup_TwoStepSuccess(t *testing.T) {
	var gotSearch, gotPath string
	w := wikiServer(t,
		func(rw http.ResponseWriter, r *http.Request) {
			gotSearch = r.URL.Query().Get("search")
			rw.Write([]byte(`["entropy",["Entropy"],[""],["https://en.wikipedia.org/wiki/Entropy"]]`))
		},
		func(rw http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			rw.Write([]byte(`{"title":"Entropy","extract":"Entropy is a scientific concept."}`))
		},
	)

	text, ok := w.Lookup(context.Background(), "what is entropy")
	if !ok {
		t.Fatal("Lookup() ok = false, want true")
	}
	if text != "Entropy is a scientific concept." {
		t.Errorf("Lookup() = %q", text)
	}
	if gotSearch != "what is entropy" {
		t.Errorf("search query = %q", gotSearch)
	}
	if gotPath != "/Entropy" {
		t.Errorf("summary path = %q, want resolved title", gotPath)
	}
}

func TestLookup_AbsentCases(t *testing.T) {
	okSearch := func(rw http.ResponseWriter, r *http.Request) {
		rw.Write([]byte(`["q",["Topic"],[""],[""]]`))
	}

	tests := []struct {
		name    string
		search  http.HandlerFunc
		summary http.HandlerFunc
	}{
		{
			name: "no title matches",
			search: func(rw http.ResponseWriter, r *http.Request) {
				rw.Write([]byte(`["q",[],[],[]]`))
			},
			summary: func(rw http.ResponseWriter, r *http.Request) {
				t.Error("summary must not be fetched without a resolved title")
			},
		},
		{
			name: "malformed opensearch payload",
			search: func(rw http.ResponseWriter, r *http.Request) {
				rw.Write([]byte(`{"unexpected":"shape"}`))
			},
			summary: func(rw http.ResponseWriter, r *http.Request) {},
		},
		{
			name:   "search endpoint errors",
			search: func(rw http.ResponseWriter, r *http.Request) { rw.WriteHeader(500) },
			summary: func(rw http.ResponseWriter, r *http.Request) {
			},
		},
		{
			name:    "summary not found",
			search:  okSearch,
			summary: func(rw http.ResponseWriter, r *http.Request) { rw.WriteHeader(404) },
		},
		{
			name:   "summary malformed",
			search: okSearch,
			summary: func(rw http.ResponseWriter, r *http.Request) {
				rw.Write([]byte(`not json`))
			},
		},
		{
			name:   "summary empty extract",
			search: okSearch,
			summary: func(rw http.ResponseWriter, r *http.Request) {
				rw.Write([]byte(`{"extract":"  "}`))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := wikiServer(t, tt.search, tt.summary)
			if text, ok := w.Lookup(context.Background(), "anything"); ok {
				t.Errorf("Lookup() = (%q, true), want absent", text)
			}
		})
	}
}

func TestLookup_BlankQuery(t *testing.T) {
	w := NewWikipedia(zerolog.Nop())
	if _, ok := w.Lookup(context.Background(), "   "); ok {
		t.Error("blank queries must resolve to absent without a network call")
	}
}
