package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gordonklaus/portaudio"
	"github.com/olivier-w/spectra/internal/visualizer"
	"github.com/sirupsen/logrus"
)

// Options configures a capture session.
type Options struct {
	// Device selects an input whose name contains this text. Empty means the
	// system default input.
	Device string
	// MaxChannels caps the channels requested from the device.
	MaxChannels int
	// FramesPerBuffer is the callback size; 0 lets the host decide.
	FramesPerBuffer int
	// Route temporarily makes the output monitor the default input.
	Route  bool
	Runner Runner
	Logger logrus.FieldLogger
}

func (o Options) withDefaults() Options {
	if o.MaxChannels <= 0 {
		o.MaxChannels = 2
	}
	if o.Runner == nil {
		o.Runner = ExecRunner{}
	}
	if o.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		o.Logger = l
	}
	return o
}

// Session is a running portaudio input stream feeding a ring buffer.
type Session struct {
	stream     *portaudio.Stream
	device     string
	sampleRate int
	channels   int
	guard      *RouteGuard
	log        logrus.FieldLogger

	overflows atomic.Uint64
	closeOnce sync.Once
	closeErr  error
}

// Open routes system audio if asked, selects an input device, and starts a
// stream whose callback pushes every delivered buffer into buf. On any error
// the default source is already restored when Open returns.
func Open(ctx context.Context, buf *visualizer.StereoRingBuffer, opts Options) (_ *Session, err error) {
	opts = opts.withDefaults()
	log := opts.Logger

	guard := NewRouteGuard(opts.Runner, "", false)
	if opts.Route {
		prior, routed := DetectAndRouteSystemAudio(ctx, opts.Runner)
		guard = NewRouteGuard(opts.Runner, prior, routed)
		log.WithFields(logrus.Fields{"prior": guard.Prior(), "routed": guard.Routed()}).Debug("monitor source detection")
	}
	defer func() {
		if err != nil {
			guard.Restore()
		}
	}()

	dev, err := initInput(opts.Device)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = portaudio.Terminate()
		}
	}()
	log.WithFields(logrus.Fields{
		"device":   dev.Name,
		"rate":     dev.DefaultSampleRate,
		"channels": dev.MaxInputChannels,
	}).Debug("input device selected")

	if dev.MaxInputChannels <= 0 {
		return nil, fmt.Errorf("%s: %w", dev.Name, ErrNoChannels)
	}
	channels := min(dev.MaxInputChannels, opts.MaxChannels)

	s := &Session{
		device:     dev.Name,
		sampleRate: int(dev.DefaultSampleRate),
		channels:   channels,
		guard:      guard,
		log:        log,
	}

	params := portaudio.HighLatencyParameters(dev, nil)
	params.Input.Channels = channels
	params.SampleRate = dev.DefaultSampleRate
	if opts.FramesPerBuffer > 0 {
		params.FramesPerBuffer = opts.FramesPerBuffer
	}

	stream, err := portaudio.OpenStream(params, func(in []float32, _ portaudio.StreamCallbackTimeInfo, flags portaudio.StreamCallbackFlags) {
		if flags&portaudio.InputOverflow != 0 {
			s.overflows.Add(1)
		}
		buf.Push(in, channels)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStreamConfig, err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		return nil, fmt.Errorf("%w: %w", ErrStreamStart, err)
	}
	s.stream = stream

	log.WithField("channels", channels).Debug("stream started")
	return s, nil
}

// initInput is swapped in tests that run without an audio host.
var initInput = initDevice

// initDevice initialises portaudio and picks the input device with native
// diagnostics silenced. portaudio stays initialised on success.
func initDevice(name string) (*portaudio.DeviceInfo, error) {
	restore := SuppressDiagnostics()
	defer restore()

	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoInputDevice, err)
	}

	devs, err := portaudio.Devices()
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("%w: %w", ErrNoInputDevice, err)
	}
	def, _ := portaudio.DefaultInputDevice()

	dev := pickDevice(devs, def, name)
	if dev == nil {
		_ = portaudio.Terminate()
		if name != "" {
			return nil, fmt.Errorf("%w: nothing matches %q", ErrNoInputDevice, name)
		}
		return nil, ErrNoInputDevice
	}
	return dev, nil
}

// pickDevice chooses the first input device whose name contains name, or the
// default input, or any monitor device.
func pickDevice(devs []*portaudio.DeviceInfo, def *portaudio.DeviceInfo, name string) *portaudio.DeviceInfo {
	if name != "" {
		want := strings.ToLower(name)
		for _, d := range devs {
			if d != nil && d.MaxInputChannels > 0 && strings.Contains(strings.ToLower(d.Name), want) {
				return d
			}
		}
		return nil
	}
	if def != nil {
		return def
	}
	for _, d := range devs {
		if d != nil && d.MaxInputChannels > 0 && strings.Contains(strings.ToLower(d.Name), "monitor") {
			return d
		}
	}
	return nil
}

func (s *Session) SampleRate() int { return s.sampleRate }
func (s *Session) Name() string    { return s.device }
func (s *Session) Channels() int   { return s.channels }

// Routed reports whether the system default source was switched to a monitor.
func (s *Session) Routed() bool { return s.guard.Routed() }

// PriorSource is the default source before routing, restored by Close.
func (s *Session) PriorSource() string { return s.guard.Prior() }

// Overflows counts callbacks that reported dropped input.
func (s *Session) Overflows() uint64 { return s.overflows.Load() }

// Close stops the stream, releases portaudio and restores the default
// source. It is safe to call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		var errs []error
		if s.stream != nil {
			errs = append(errs, s.stream.Stop(), s.stream.Close())
		}
		errs = append(errs, portaudio.Terminate())
		s.guard.Restore()
		s.closeErr = errors.Join(errs...)
		s.log.WithFields(logrus.Fields{
			"overflows": s.Overflows(),
			"restored":  s.guard.Prior(),
		}).Debug("capture stopped")
	})
	return s.closeErr
}
