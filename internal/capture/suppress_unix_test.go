//go:build unix

package capture

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestSuppressFDRestoresOriginalTarget(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diag.log")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	fd, err := unix.Dup(int(f.Fd()))
	require.NoError(t, err)
	defer unix.Close(fd)

	_, err = unix.Write(fd, []byte("before\n"))
	require.NoError(t, err)

	restore := suppressFD(fd)
	_, err = unix.Write(fd, []byte("hidden\n"))
	require.NoError(t, err)
	restore()
	restore()

	_, err = unix.Write(fd, []byte("after\n"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "before\nafter\n", string(data))
}
