// Package capture feeds live or replayed audio into a stereo ring buffer.
package capture

// Source is a running producer of samples for the visualizer.
type Source interface {
	SampleRate() int
	Name() string
	Close() error
}
