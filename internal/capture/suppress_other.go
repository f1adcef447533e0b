//go:build !unix

package capture

// SuppressDiagnostics is a no-op where native stderr redirection is not
// supported.
func SuppressDiagnostics() (restore func()) {
	return func() {}
}
