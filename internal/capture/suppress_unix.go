//go:build unix

package capture

import (
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

// SuppressDiagnostics points fd 2 at /dev/null so native audio libraries
// cannot scribble over the alternate screen while devices are enumerated.
// The returned func puts the original stream back; calling it more than once
// is harmless. If redirection fails nothing is changed.
func SuppressDiagnostics() (restore func()) {
	return suppressFD(unix.Stderr)
}

func suppressFD(fd int) func() {
	devNull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if err != nil {
		return func() {}
	}

	saved, err := unix.Dup(fd)
	if err != nil {
		devNull.Close()
		return func() {}
	}

	if err := unix.Dup2(int(devNull.Fd()), fd); err != nil {
		unix.Close(saved)
		devNull.Close()
		return func() {}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			_ = unix.Dup2(saved, fd)
			unix.Close(saved)
			devNull.Close()
		})
	}
}
