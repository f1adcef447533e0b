package capture

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
)

// pcmDecoder produces interleaved float32 samples in -1..1.
type pcmDecoder interface {
	// ReadFloats fills dst and returns the number of samples written. It
	// returns io.EOF once the stream is exhausted.
	ReadFloats(dst []float32) (int, error)
	Rewind() error
	SampleRate() int
	Channels() int
}

// newDecoder detects format by file extension and returns the appropriate decoder.
func newDecoder(f *os.File) (pcmDecoder, error) {
	ext := strings.ToLower(filepath.Ext(f.Name()))
	switch ext {
	case ".mp3":
		return newMP3Decoder(f)
	case ".wav":
		return newWAVDecoder(f)
	case ".flac":
		return newFLACDecoder(f)
	case ".ogg":
		return newOGGDecoder(f)
	default:
		return nil, fmt.Errorf("unsupported format: %s", ext)
	}
}

// --- MP3 decoder ---

// go-mp3 always yields 16-bit little-endian stereo.
type mp3Decoder struct {
	dec *mp3.Decoder
	raw []byte
}

func newMP3Decoder(f *os.File) (*mp3Decoder, error) {
	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, fmt.Errorf("decoding MP3: %w", err)
	}
	return &mp3Decoder{dec: dec}, nil
}

func (d *mp3Decoder) ReadFloats(dst []float32) (int, error) {
	need := len(dst) * 2
	if cap(d.raw) < need {
		d.raw = make([]byte, need)
	}
	raw := d.raw[:need]

	n, err := io.ReadFull(d.dec, raw)
	samples := n / 2
	for i := range samples {
		dst[i] = float32(int16(binary.LittleEndian.Uint16(raw[i*2:]))) / 32768
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		err = io.EOF
	}
	return samples, err
}

func (d *mp3Decoder) Rewind() error {
	_, err := d.dec.Seek(0, io.SeekStart)
	return err
}

func (d *mp3Decoder) SampleRate() int { return d.dec.SampleRate() }
func (d *mp3Decoder) Channels() int   { return 2 }

// --- WAV decoder ---

type wavDecoder struct {
	dec      *wav.Decoder
	ints     audio.IntBuffer
	scale    float32
	offset   int
	rate     int
	channels int
}

func newWAVDecoder(f *os.File) (*wavDecoder, error) {
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file")
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("reading WAV PCM data: %w", err)
	}

	d := &wavDecoder{
		dec:      dec,
		rate:     int(dec.SampleRate),
		channels: int(dec.NumChans),
	}
	switch dec.BitDepth {
	case 8:
		// 8-bit WAV is unsigned
		d.offset = 128
		d.scale = 1.0 / 128
	case 16, 24, 32:
		d.scale = 1 / float32(int64(1)<<(dec.BitDepth-1))
	default:
		return nil, fmt.Errorf("unsupported WAV bit depth: %d", dec.BitDepth)
	}
	if d.channels == 0 {
		return nil, fmt.Errorf("WAV file has no channels")
	}
	return d, nil
}

func (d *wavDecoder) ReadFloats(dst []float32) (int, error) {
	if cap(d.ints.Data) < len(dst) {
		d.ints.Data = make([]int, len(dst))
	}
	d.ints.Data = d.ints.Data[:len(dst)]

	n, err := d.dec.PCMBuffer(&d.ints)
	if err != nil {
		return 0, fmt.Errorf("reading WAV samples: %w", err)
	}
	if n == 0 {
		return 0, io.EOF
	}
	for i, v := range d.ints.Data[:n] {
		dst[i] = float32(v-d.offset) * d.scale
	}
	return n, nil
}

func (d *wavDecoder) Rewind() error    { return d.dec.Rewind() }
func (d *wavDecoder) SampleRate() int { return d.rate }
func (d *wavDecoder) Channels() int   { return d.channels }

// --- FLAC decoder ---

type flacDecoder struct {
	stream   *flac.Stream
	pending  []float32
	frame    []float32
	scale    float32
	rate     int
	channels int
}

func newFLACDecoder(f *os.File) (*flacDecoder, error) {
	stream, err := flac.NewSeek(f)
	if err != nil {
		return nil, fmt.Errorf("decoding FLAC: %w", err)
	}

	info := stream.Info
	return &flacDecoder{
		stream:   stream,
		scale:    1 / float32(int64(1)<<(info.BitsPerSample-1)),
		rate:     int(info.SampleRate),
		channels: int(info.NChannels),
	}, nil
}

func (d *flacDecoder) ReadFloats(dst []float32) (int, error) {
	n := 0
	for n < len(dst) {
		if len(d.pending) == 0 {
			frame, err := d.stream.ParseNext()
			if err != nil {
				if n > 0 && errors.Is(err, io.EOF) {
					return n, nil
				}
				return n, err
			}

			nSamples := int(frame.Subframes[0].NSamples)
			d.frame = d.frame[:0]
			for i := range nSamples {
				for ch := range d.channels {
					d.frame = append(d.frame, float32(frame.Subframes[ch].Samples[i])*d.scale)
				}
			}
			d.pending = d.frame
		}
		c := copy(dst[n:], d.pending)
		d.pending = d.pending[c:]
		n += c
	}
	return n, nil
}

func (d *flacDecoder) Rewind() error {
	d.pending = nil
	_, err := d.stream.Seek(0)
	return err
}

func (d *flacDecoder) SampleRate() int { return d.rate }
func (d *flacDecoder) Channels() int   { return d.channels }

// --- OGG Vorbis decoder ---

type oggDecoder struct {
	reader *oggvorbis.Reader
}

func newOGGDecoder(f *os.File) (*oggDecoder, error) {
	reader, err := oggvorbis.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("decoding OGG: %w", err)
	}
	return &oggDecoder{reader: reader}, nil
}

func (d *oggDecoder) ReadFloats(dst []float32) (int, error) {
	n, err := d.reader.Read(dst)
	if n > 0 && errors.Is(err, io.EOF) {
		err = nil
	}
	return n, err
}

func (d *oggDecoder) Rewind() error   { return d.reader.SetPosition(0) }
func (d *oggDecoder) SampleRate() int { return d.reader.SampleRate() }
func (d *oggDecoder) Channels() int   { return d.reader.Channels() }
