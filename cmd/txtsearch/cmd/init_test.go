package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/txtsearch/txtsearch/internal/config"
)

func TestInitWritesProjectConfig(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "init", "-d", dir)
	require.NoError(t, err)
	assert.Contains(t, out, config.ConfigFileName)

	path := filepath.Join(dir, config.ConfigFileName)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "strategies:")

	// The template must parse as a valid config.
	_, err = config.Load(dir)
	require.NoError(t, err)
}

func TestInitRefusesToOverwrite(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, "init", "-d", dir)
	require.NoError(t, err)

	_, err = execute(t, "init", "-d", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = execute(t, "init", "-d", dir, "--force")
	require.NoError(t, err)
}
