package capture

import "errors"

var (
	// ErrNoInputDevice means neither a configured, default nor monitor
	// input device could be found.
	ErrNoInputDevice = errors.New("no audio input device found")
	// ErrNoChannels means the selected device reports zero input channels.
	ErrNoChannels = errors.New("audio device reported 0 channels")
	// ErrStreamConfig means the device rejected the stream parameters.
	ErrStreamConfig = errors.New("unsupported stream configuration")
	// ErrStreamStart means the stream opened but could not be started.
	ErrStreamStart = errors.New("failed to start stream")
)
