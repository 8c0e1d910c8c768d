package mcp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/txtsearch/txtsearch/internal/search"
	"github.com/txtsearch/txtsearch/internal/store"
)

func TestFormatSearchResultsEmpty(t *testing.T) {
	out := FormatSearchResults(&search.Response{Query: "missing", Strategy: "lexical"})
	assert.Contains(t, out, `No results found for "missing"`)
	assert.Contains(t, out, "lexical")
}

func TestFormatSearchResults(t *testing.T) {
	resp := &search.Response{
		Query:    "hello",
		Strategy: "semantic",
		Hits: []search.Hit{
			{Path: "a.txt", StartLine: 1, EndLine: 1, Snippet: "hello world", Score: 0.91},
			{Path: "b/c.md", StartLine: 4, EndLine: 8, Snippet: "more hello", Score: 0.5},
		},
	}

	out := FormatSearchResults(resp)
	assert.Contains(t, out, `## Search Results for "hello"`)
	assert.Contains(t, out, "Found 2 results")
	assert.Contains(t, out, "### 1. a.txt:1 (score: 0.910)")
	assert.Contains(t, out, "### 2. b/c.md:4-8 (score: 0.500)")
	assert.Contains(t, out, "hello world")
}

func TestFormatSearchResultsSingular(t *testing.T) {
	resp := &search.Response{
		Query:    "x",
		Strategy: "lexical",
		Hits:     []search.Hit{{Path: "a.txt", StartLine: 1, Snippet: "x"}},
	}
	assert.Contains(t, FormatSearchResults(resp), "Found 1 result\n")
}

func TestFormatSearchResultsPrefersContext(t *testing.T) {
	resp := &search.Response{
		Query:    "mid",
		Strategy: "lexical",
		Hits: []search.Hit{{
			Path: "a.txt", StartLine: 2, Snippet: "mid",
			Context: []string{"before", "mid", "after"},
		}},
	}
	out := FormatSearchResults(resp)
	assert.Contains(t, out, "before\nmid\nafter")
}

func TestFormatIndexStatus(t *testing.T) {
	meta := &store.IndexMetadata{
		BuildID:    "20260101T000000-abcd1234",
		Root:       "/srv/docs",
		CreatedAt:  time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
		FileCount:  12,
		ChunkCount: 80,
		Strategies: []string{"lexical", "semantic"},
		EmbedModel: "nomic-embed-text",
	}

	out := FormatIndexStatus(meta)
	assert.Contains(t, out, "## Index Status")
	assert.Contains(t, out, "/srv/docs")
	assert.Contains(t, out, "**Files:** 12")
	assert.Contains(t, out, "lexical, semantic")
	assert.Contains(t, out, "nomic-embed-text")
}
