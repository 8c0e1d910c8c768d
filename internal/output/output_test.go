package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/txtsearch/txtsearch/internal/index"
	"github.com/txtsearch/txtsearch/internal/search"
	"github.com/txtsearch/txtsearch/internal/store"
)

func sampleResponse() *search.Response {
	return &search.Response{
		Query:    "hello",
		Strategy: "lexical",
		BuildID:  "20260101T000000-abcd1234",
		Duration: 12 * time.Millisecond,
		Hits: []search.Hit{
			{Path: "a.txt", StartLine: 1, EndLine: 1, Snippet: "hello world", Score: 1.0, Strategy: "lexical"},
			{Path: "docs/b.md", StartLine: 3, EndLine: 5, Snippet: "hello\nagain", Score: 0.42, Strategy: "lexical"},
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)

	f, err = ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xml")
	require.Error(t, err)
}

func TestSearchResponseText(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, FormatText)

	require.NoError(t, r.SearchResponse(sampleResponse()))

	out := buf.String()
	assert.Contains(t, out, "a.txt:1")
	assert.Contains(t, out, "docs/b.md:3-5")
	assert.Contains(t, out, "1.000")
	assert.Contains(t, out, "0.420")
	assert.Contains(t, out, "hello world")
	assert.Contains(t, out, "2 result(s)")
	// Plain writer gets no escape codes.
	assert.NotContains(t, out, "\x1b[")
}

func TestSearchResponseTextNoHits(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, FormatText)

	resp := &search.Response{Query: "nothing", Strategy: "semantic"}
	require.NoError(t, r.SearchResponse(resp))
	assert.Contains(t, buf.String(), `No results for "nothing"`)
}

func TestSearchResponseTextContextPreferred(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, FormatText)

	resp := &search.Response{
		Query:    "target",
		Strategy: "lexical",
		Hits: []search.Hit{{
			Path: "doc.txt", StartLine: 2, EndLine: 2,
			Snippet: "target line",
			Context: []string{"before", "target line", "after"},
			Score:   0.9, Strategy: "lexical",
		}},
	}
	require.NoError(t, r.SearchResponse(resp))
	assert.Contains(t, buf.String(), "before")
	assert.Contains(t, buf.String(), "after")
}

func TestSearchResponseJSON(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, FormatJSON)

	require.NoError(t, r.SearchResponse(sampleResponse()))

	var decoded search.Response
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "hello", decoded.Query)
	require.Len(t, decoded.Hits, 2)
	assert.Equal(t, "a.txt", decoded.Hits[0].Path)
}

func TestBuildStatsText(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, FormatText)

	require.NoError(t, r.BuildStats(&index.BuildStats{
		BuildID:    "20260101T000000-abcd1234",
		Files:      3,
		Chunks:     17,
		Skipped:    2,
		Strategies: []string{"lexical", "semantic"},
		Duration:   250 * time.Millisecond,
	}))

	out := buf.String()
	assert.Contains(t, out, "Index built")
	assert.Contains(t, out, "3 files, 17 chunks (2 skipped)")
	assert.Contains(t, out, "lexical, semantic")
}

func TestBuildStatsJSON(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, FormatJSON)

	require.NoError(t, r.BuildStats(&index.BuildStats{BuildID: "b1", Files: 1, Strategies: []string{"lexical"}}))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "b1", decoded["build_id"])
	assert.Equal(t, float64(1), decoded["files"])
}

func TestStatusText(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, FormatText)

	require.NoError(t, r.Status(&store.IndexMetadata{
		BuildID:    "b1",
		Root:       "/tmp/project",
		CreatedAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		FileCount:  4,
		ChunkCount: 9,
		Strategies: []string{"lexical"},
		EmbedModel: "nomic-embed-text",
	}))

	out := buf.String()
	assert.Contains(t, out, "/tmp/project")
	assert.Contains(t, out, "2026-01-02 03:04:05")
	assert.Contains(t, out, "nomic-embed-text")
}
