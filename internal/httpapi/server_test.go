package httpapi

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/txtsearch/txtsearch/internal/config"
	"github.com/txtsearch/txtsearch/internal/embed"
	"github.com/txtsearch/txtsearch/internal/errors"
	"github.com/txtsearch/txtsearch/internal/index"
	"github.com/txtsearch/txtsearch/internal/search"
)

func newTestServer(t *testing.T, withEmbedder bool) *Server {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "greeting.txt"), []byte("hello world\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.md"), []byte("# Notes\n\nabout databases\n"), 0644))

	cfg := config.NewConfig()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	var embedder embed.Embedder
	if withEmbedder {
		embedder = embed.NewStaticEmbedder()
	}
	manager, err := index.NewManager(root, cfg, embedder, logger)
	require.NoError(t, err)

	o := search.NewOrchestrator(manager, search.NewRegistry(cfg, nil), logger, search.Options{Ephemeral: true})
	t.Cleanup(func() { _ = o.Close() })

	return NewServer(o, logger, "127.0.0.1:0")
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echoContentType, "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

const echoContentType = "Content-Type"

func TestHealthz(t *testing.T) {
	s := newTestServer(t, true)
	rec := doJSON(t, s.Handler(), http.MethodGet, "/healthz", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestSearchEndpoint(t *testing.T) {
	s := newTestServer(t, true)

	rec := doJSON(t, s.Handler(), http.MethodPost, "/v1/search",
		search.Request{Query: "hello", Strategy: "lexical"})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp search.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Hits)
	assert.Equal(t, "greeting.txt", resp.Hits[0].Path)
}

func TestSearchEndpointNoHitsIsEmptyArray(t *testing.T) {
	s := newTestServer(t, true)

	rec := doJSON(t, s.Handler(), http.MethodPost, "/v1/search",
		search.Request{Query: "zzqqxx-no-such-token", Strategy: "lexical"})

	require.Equal(t, http.StatusOK, rec.Code)
	// Hits must serialize as [], never null.
	assert.Contains(t, rec.Body.String(), `"hits":[]`)
}

func TestSearchEndpointEmptyQuery(t *testing.T) {
	s := newTestServer(t, true)

	rec := doJSON(t, s.Handler(), http.MethodPost, "/v1/search", search.Request{Query: ""})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, errors.ErrCodeQueryEmpty, resp.Code)
}

func TestSearchEndpointUnavailableStrategy(t *testing.T) {
	// No embedder: semantic data is never built, so searching it is a
	// failed dependency rather than a server fault.
	s := newTestServer(t, false)

	rec := doJSON(t, s.Handler(), http.MethodPost, "/v1/search",
		search.Request{Query: "hello", Strategy: "semantic"})

	require.Equal(t, http.StatusFailedDependency, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, errors.ErrCodeSemanticDataMissing, resp.Code)
}

func TestSearchEndpointUnknownStrategy(t *testing.T) {
	s := newTestServer(t, true)

	rec := doJSON(t, s.Handler(), http.MethodPost, "/v1/search",
		search.Request{Query: "hello", Strategy: "regex"})

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIndexEndpoint(t *testing.T) {
	s := newTestServer(t, true)

	rec := doJSON(t, s.Handler(), http.MethodPost, "/v1/index", IndexRequest{})

	require.Equal(t, http.StatusOK, rec.Code)
	var stats index.BuildStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.Files)
	assert.Contains(t, stats.Strategies, "lexical")
}

func TestStatusEndpoint(t *testing.T) {
	s := newTestServer(t, true)

	// Build first so status has something to report.
	rec := doJSON(t, s.Handler(), http.MethodPost, "/v1/index", IndexRequest{})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s.Handler(), http.MethodGet, "/v1/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"file_count":2`)
}
