package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoctorReportsChecks(t *testing.T) {
	t.Setenv("TXTSEARCH_EMBED_PROVIDER", "static")

	out, err := execute(t, "doctor", "-d", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "write permissions")
	assert.Contains(t, out, "index")
}

func TestDoctorJSONFormat(t *testing.T) {
	t.Setenv("TXTSEARCH_EMBED_PROVIDER", "static")

	out, err := execute(t, "doctor", "-d", t.TempDir(), "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"name"`)
	assert.Contains(t, out, `"status"`)
}
