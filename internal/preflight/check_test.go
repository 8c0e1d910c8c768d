package preflight

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/txtsearch/txtsearch/internal/config"
)

func testConfig() *config.Config {
	cfg := config.NewConfig()
	cfg.Embeddings.Provider = "static"
	return cfg
}

func TestCheckStatusString(t *testing.T) {
	assert.Equal(t, "PASS", StatusPass.String())
	assert.Equal(t, "WARN", StatusWarn.String())
	assert.Equal(t, "FAIL", StatusFail.String())
	assert.Equal(t, "UNKNOWN", CheckStatus(99).String())
}

func TestCheckWritePermissions(t *testing.T) {
	c := New(testConfig())

	result := c.CheckWritePermissions(t.TempDir())
	assert.Equal(t, StatusPass, result.Status)
	assert.True(t, result.Required)

	result = c.CheckWritePermissions(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Equal(t, StatusFail, result.Status)
	assert.True(t, result.IsCritical())
}

func TestCheckRipgrepMissingBinary(t *testing.T) {
	cfg := testConfig()
	cfg.Strategies.Literal.Binary = "definitely-not-a-real-binary-xyz"
	c := New(cfg)

	result := c.CheckRipgrep()
	assert.Equal(t, StatusFail, result.Status)
	assert.False(t, result.Required)
	assert.Contains(t, result.Message, "definitely-not-a-real-binary-xyz")
}

func TestCheckEmbedderStatic(t *testing.T) {
	c := New(testConfig())

	result := c.CheckEmbedder(context.Background())
	assert.Equal(t, StatusPass, result.Status)
	assert.Contains(t, result.Message, "static")
}

func TestCheckIndex(t *testing.T) {
	c := New(testConfig())
	root := t.TempDir()

	result := c.CheckIndex(root)
	assert.Equal(t, StatusWarn, result.Status)

	indexDir := filepath.Join(root, ".txtsearch")
	require.NoError(t, os.MkdirAll(indexDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(indexDir, "CURRENT"), []byte("20240101T000000-abcd\n"), 0o644))

	result = c.CheckIndex(root)
	assert.Equal(t, StatusPass, result.Status)
	assert.Contains(t, result.Message, "20240101T000000-abcd")
}

func TestRunAllOrderAndCriticals(t *testing.T) {
	c := New(testConfig())

	results := c.RunAll(context.Background(), t.TempDir())
	require.Len(t, results, 5)
	assert.Equal(t, "write permissions", results[0].Name)
	assert.Equal(t, "index", results[4].Name)
	assert.False(t, HasCriticalFailures(results))

	results[0].Status = StatusFail
	assert.True(t, HasCriticalFailures(results))
}
