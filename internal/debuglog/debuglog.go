// Package debuglog provides the optional diagnostic log enabled by --debug.
package debuglog

import (
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// FileMode is owner read/write only.
const FileMode = 0o600

// Logger wraps a logrus logger and the file it writes to, if any.
type Logger struct {
	*logrus.Logger
	file *os.File
}

// New returns a logger writing to path when enabled. Any failure to open the
// file degrades to a logger that discards everything.
func New(enabled bool, path string) *Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
	})

	lg := &Logger{Logger: l}
	if !enabled || path == "" {
		return lg
	}

	f, err := openLog(path)
	if err != nil {
		return lg
	}
	lg.file = f
	l.SetOutput(f)
	return lg
}

// openLog creates path exclusively, or truncates it in place if it already
// exists. Neither path removes and recreates the file.
func openLog(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL|os.O_APPEND, FileMode)
	if err == nil {
		return f, nil
	}
	return os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_APPEND, 0)
}

// Enabled reports whether lines reach a file.
func (l *Logger) Enabled() bool { return l.file != nil }

// Close flushes and closes the log file.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	l.SetOutput(io.Discard)
	return err
}
