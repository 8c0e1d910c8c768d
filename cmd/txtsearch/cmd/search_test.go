package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProject(t *testing.T) string {
	t.Helper()
	t.Setenv("TXTSEARCH_EMBED_PROVIDER", "static")
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "readme.md"), []byte("# Demo\n\nhello world from the readme\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("notes about database connections\n"), 0644))
	return root
}

func TestIndexThenSearch(t *testing.T) {
	root := seedProject(t)

	out, err := execute(t, "index", root)
	require.NoError(t, err)
	assert.Contains(t, out, "Index built")
	assert.DirExists(t, filepath.Join(root, ".txtsearch"))

	out, err = execute(t, "search", "hello", "-d", root, "-s", "lexical")
	require.NoError(t, err)
	assert.Contains(t, out, "readme.md")
}

func TestSearchNoResultsExitCode(t *testing.T) {
	root := seedProject(t)

	_, err := execute(t, "index", root)
	require.NoError(t, err)

	_, err = execute(t, "search", "zzqqxx-absent-token", "-d", root, "-s", "lexical")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errNoResults))
}

func TestSearchWithoutIndexFails(t *testing.T) {
	root := seedProject(t)

	_, err := execute(t, "search", "hello", "-d", root, "-s", "lexical")
	require.Error(t, err)
	assert.False(t, errors.Is(err, errNoResults))
}

func TestSearchIngestIfMissing(t *testing.T) {
	root := seedProject(t)

	out, err := execute(t, "search", "hello", "-d", root, "-s", "lexical", "--ingest-if-missing")
	require.NoError(t, err)
	assert.Contains(t, out, "readme.md")
	assert.DirExists(t, filepath.Join(root, ".txtsearch"))
}

func TestSearchJSONFormat(t *testing.T) {
	root := seedProject(t)

	_, err := execute(t, "index", root)
	require.NoError(t, err)

	out, err := execute(t, "search", "hello", "-d", root, "-s", "lexical", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"hits"`)
	assert.Contains(t, out, `"readme.md"`)
}

func TestSearchBadFormat(t *testing.T) {
	root := seedProject(t)
	_, err := execute(t, "search", "hello", "-d", root, "--format", "xml")
	require.Error(t, err)
}

func TestIndexFilePattern(t *testing.T) {
	root := seedProject(t)

	out, err := execute(t, "index", root, "-f", "*.md", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"files": 1`)
}

func TestStatusAfterIndex(t *testing.T) {
	root := seedProject(t)

	_, err := execute(t, "index", root)
	require.NoError(t, err)

	out, err := execute(t, "status", "-d", root)
	require.NoError(t, err)
	assert.Contains(t, out, "2 files")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "txtsearch")

	out, err = execute(t, "version", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"version"`)
}
