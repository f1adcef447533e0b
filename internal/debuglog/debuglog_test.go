package debuglog

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledLoggerWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audio.log")
	l := New(false, path)
	l.Debug("hello")
	require.NoError(t, l.Close())

	assert.False(t, l.Enabled())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestNewCreatesOwnerOnlyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audio.log")
	l := New(true, path)
	require.True(t, l.Enabled())
	l.WithField("device", "Monitor of Built-in").Debug("device selected")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	line := string(data)
	assert.Contains(t, line, "device selected")
	assert.Contains(t, line, `device="Monitor of Built-in"`)
	assert.Contains(t, line, "time=")

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(FileMode), info.Mode().Perm())
	}
}

func TestNewTruncatesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audio.log")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("stale\n", 100)), FileMode))

	l := New(true, path)
	l.Info("fresh")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale")
	assert.Contains(t, string(data), "fresh")
}

func TestUnwritablePathIsNoop(t *testing.T) {
	l := New(true, filepath.Join(t.TempDir(), "missing", "dir", "audio.log"))
	assert.False(t, l.Enabled())
	assert.NotPanics(t, func() { l.Warn("dropped") })
	assert.NoError(t, l.Close())
}
