package profiling

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionDisabledIsNoop(t *testing.T) {
	var s Session
	require.NoError(t, s.Start())
	require.NoError(t, s.Stop())
}

func TestSessionWritesProfiles(t *testing.T) {
	dir := t.TempDir()
	s := Session{
		CPUPath:  filepath.Join(dir, "cpu.prof"),
		HeapPath: filepath.Join(dir, "heap.prof"),
	}

	require.NoError(t, s.Start())

	// Do a little work so the profile has samples to flush.
	sum := 0
	for i := 0; i < 1_000_000; i++ {
		sum += i % 7
	}
	_ = sum

	require.NoError(t, s.Stop())

	for _, name := range []string{"cpu.prof", "heap.prof"} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestSessionBadCPUPath(t *testing.T) {
	s := Session{CPUPath: filepath.Join(t.TempDir(), "missing", "cpu.prof")}
	require.Error(t, s.Start())
}
