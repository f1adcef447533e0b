package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/olivier-w/spectra/internal/media"
	"github.com/olivier-w/spectra/internal/visualizer"
	"github.com/sirupsen/logrus"
)

const (
	defaultReplayInterval = 10 * time.Millisecond
	// maxReplayBurst bounds how much audio one tick may push after a stall.
	maxReplayBurst = 250 * time.Millisecond
)

// FileSource replays a decoded audio file into a ring buffer at real-time
// pace, looping at the end. Nothing is sent to an output device.
type FileSource struct {
	file *os.File
	dec  pcmDecoder
	buf  *visualizer.StereoRingBuffer
	meta Metadata
	log  logrus.FieldLogger

	interval time.Duration
	scratch  []float32

	frames atomic.Int64 // frames pushed in the current loop
	loops  atomic.Int64

	mu  sync.Mutex
	err error

	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

// FileOptions configures a replay source.
type FileOptions struct {
	// Interval is the tick period of the replay goroutine.
	Interval time.Duration
	Logger   logrus.FieldLogger
}

// OpenFile starts replaying path into buf. The replay goroutine stops when
// ctx is cancelled or Close is called.
func OpenFile(ctx context.Context, path string, buf *visualizer.StereoRingBuffer, opts FileOptions) (*FileSource, error) {
	if !media.IsSupportedPath(path) {
		return nil, fmt.Errorf("unsupported format %q (supported: %s)", path, media.SupportedExtsList())
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening replay file: %w", err)
	}
	dec, err := newDecoder(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	if dec.SampleRate() <= 0 || dec.Channels() <= 0 {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, ErrNoChannels)
	}

	if opts.Interval <= 0 {
		opts.Interval = defaultReplayInterval
	}
	if opts.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		opts.Logger = l
	}

	ctx, cancel := context.WithCancel(ctx)
	s := &FileSource{
		file:     f,
		dec:      dec,
		buf:      buf,
		meta:     ReadMetadata(path),
		log:      opts.Logger.WithField("file", path),
		interval: opts.Interval,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	s.log.WithFields(logrus.Fields{
		"rate":     dec.SampleRate(),
		"channels": dec.Channels(),
	}).Debug("replay started")

	go s.run(ctx)
	return s, nil
}

func (s *FileSource) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	rate := s.dec.SampleRate()
	channels := s.dec.Channels()
	maxFrames := int(int64(rate) * int64(maxReplayBurst) / int64(time.Second))

	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			due := int64(now.Sub(start).Seconds()*float64(rate)) - s.frames.Load()
			if due <= 0 {
				continue
			}
			if due > int64(maxFrames) {
				// Skip ahead rather than flooding the buffer after a stall.
				start = now.Add(-time.Duration(s.frames.Load()+int64(maxFrames)) * time.Second / time.Duration(rate))
				due = int64(maxFrames)
			}
			looped, err := s.pump(int(due), channels)
			if err != nil {
				s.fail(err)
				return
			}
			if looped {
				start = now
			}
		}
	}
}

// pump decodes and pushes frames. It reports whether the file wrapped.
func (s *FileSource) pump(frames, channels int) (bool, error) {
	need := frames * channels
	if cap(s.scratch) < need {
		s.scratch = make([]float32, need)
	}
	samples := s.scratch[:need]

	n, err := s.dec.ReadFloats(samples)
	if n > 0 {
		n -= n % channels
		s.buf.Push(samples[:n], channels)
		s.frames.Add(int64(n / channels))
	}
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("decoding replay file: %w", err)
	}

	if err := s.dec.Rewind(); err != nil {
		return false, fmt.Errorf("rewinding replay file: %w", err)
	}
	s.buf.Reset()
	s.frames.Store(0)
	s.loops.Add(1)
	s.log.WithField("loops", s.loops.Load()).Debug("replay looped")
	return true, nil
}

func (s *FileSource) fail(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
	s.log.WithError(err).Warn("replay stopped")
}

// Err returns the error that stopped replay, if any.
func (s *FileSource) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *FileSource) SampleRate() int { return s.dec.SampleRate() }
func (s *FileSource) Name() string    { return s.meta.Label() }

// Elapsed is the position within the current loop.
func (s *FileSource) Elapsed() time.Duration {
	return time.Duration(s.frames.Load()) * time.Second / time.Duration(s.dec.SampleRate())
}

// Loops counts how many times the file wrapped around.
func (s *FileSource) Loops() int { return int(s.loops.Load()) }

// Close stops the replay goroutine and closes the file.
func (s *FileSource) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.cancel()
		<-s.done
		err = s.file.Close()
	})
	return err
}
