package visualizer

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// binRadius is how many FFT bins on each side are averaged into a bar.
const binRadius = 2

// Channel is the per-channel bar state: smoothed targets, the last row count
// that produced a hit, and one decay state per bar.
type Channel struct {
	Target  []float64
	PrevHit []int
	Decay   []*BarDecay

	springs springField
}

// NewChannel allocates decay states for up to maxBars bars and tracks bars of them.
func NewChannel(bars, maxBars, maxLevels int, t Tuning) *Channel {
	c := &Channel{
		Decay:   make([]*BarDecay, maxBars),
		springs: newSpringField(t.SpringFrequency, t.SpringDamping),
	}
	for i := range c.Decay {
		c.Decay[i] = NewBarDecay(maxLevels, t)
	}
	c.SetBars(bars)
	return c
}

// Bars returns the number of tracked bars.
func (c *Channel) Bars() int { return len(c.Target) }

// SetBars resizes the target and hit trackers, keeping existing entries.
func (c *Channel) SetBars(n int) {
	n = max(0, min(n, len(c.Decay)))
	if n == len(c.Target) {
		return
	}
	target := make([]float64, n)
	prev := make([]int, n)
	copy(target, c.Target)
	copy(prev, c.PrevHit)
	c.Target, c.PrevHit = target, prev
	c.springs.resize(n)
}

// ResizeLevels resizes every decay state to maxLevels rows.
func (c *Channel) ResizeLevels(maxLevels int) {
	for _, d := range c.Decay {
		d.Resize(maxLevels)
	}
}

// Update advances the decay timers of the active bars and retimes the
// spring smoothing to the frame interval.
func (c *Channel) Update(dt float64) {
	c.springs.retime(dt)
	for i := range min(len(c.Target), len(c.Decay)) {
		c.Decay[i].Update(dt)
	}
}

// Processor turns a chronological sample window into per-bar amplitudes.
type Processor struct {
	tuning     Tuning
	sampleRate int

	window []float64
	buf    []float64
	bins   []float64
}

// NewProcessor creates a processor for audio at sampleRate Hz.
func NewProcessor(sampleRate int, t Tuning) *Processor {
	return &Processor{tuning: t, sampleRate: sampleRate}
}

// Spectrum applies a Hann window, runs an FFT and returns the magnitudes of
// the bins between FreqMin and FreqMax, scaled by 1/sqrt(N). The returned
// slice is reused on the next call.
func (p *Processor) Spectrum(samples []float32) []float64 {
	n := len(samples)
	if n < 2 || p.sampleRate <= 0 {
		return nil
	}
	if len(p.window) != n {
		p.window = window.Hann(n)
		p.buf = make([]float64, n)
	}
	for i, s := range samples {
		p.buf[i] = float64(s) * p.window[i]
	}

	coeffs := fft.FFTReal(p.buf)

	scale := 1 / math.Sqrt(float64(n))
	binHz := float64(p.sampleRate) / float64(n)
	p.bins = p.bins[:0]
	for k := 0; k <= n/2; k++ {
		f := float64(k) * binHz
		if f < p.tuning.FreqMin || f > p.tuning.FreqMax {
			continue
		}
		p.bins = append(p.bins, cmplx.Abs(coeffs[k])*scale)
	}
	return p.bins
}

// ProcessChannel maps the spectrum of samples onto ch's bars, smooths the
// targets and fires a hit on every bar whose row count rose since the last
// frame. availableHeight is the pixel budget the sensitivity scales into;
// halfRows is the number of rows one channel may fill.
func (p *Processor) ProcessChannel(samples []float32, ch *Channel, availableHeight float64, halfRows int) {
	if availableHeight <= 0 || halfRows <= 0 {
		return
	}
	bins := p.Spectrum(samples)
	if len(bins) == 0 {
		return
	}

	t := p.tuning
	bars := ch.Bars()
	for i := range bars {
		raw := math.Min(logBinAverage(bins, i, bars)*t.Sensitivity, availableHeight)

		switch t.Smoothing {
		case SmoothSpring:
			ch.Target[i] = ch.springs.step(i, raw, availableHeight)
		default:
			if raw > ch.Target[i] {
				ch.Target[i] = ch.Target[i]*(1-t.Attack) + raw*t.Attack
			} else {
				ch.Target[i] *= t.Decay
			}
		}

		rows := HitRows(ch.Target[i], availableHeight, halfRows)
		if rows > ch.PrevHit[i] && i < len(ch.Decay) {
			ch.Decay[i].Hit(rows)
		}
		ch.PrevHit[i] = rows
	}
}

// logBinAverage picks the spectrum bin for bar i of bars on a log10 scale and
// averages it with its neighbours.
func logBinAverage(bins []float64, i, bars int) float64 {
	pos := float64(i) / float64(max(bars-1, 1))
	logPos := math.Log10(pos*9 + 1)
	idx := min(int(logPos*float64(len(bins))), len(bins)-1)

	lo := max(idx-binRadius, 0)
	hi := min(idx+binRadius+1, len(bins))
	var sum float64
	for _, v := range bins[lo:hi] {
		sum += v
	}
	return sum / float64(max(hi-lo, 1))
}

// HitRows converts a smoothed height into whole rows: values under half a row
// round to zero, anything else rounds up, capped at halfRows.
func HitRows(target, availableHeight float64, halfRows int) int {
	if availableHeight <= 0 {
		return 0
	}
	scaled := target / availableHeight * float64(halfRows)
	if scaled < 0.5 {
		return 0
	}
	return min(int(math.Ceil(scaled)), halfRows)
}
