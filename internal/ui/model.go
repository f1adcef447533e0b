package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/spectra/internal/capture"
	"github.com/olivier-w/spectra/internal/util"
	"github.com/olivier-w/spectra/internal/visualizer"
	"github.com/sirupsen/logrus"
)

const pausedInterval = 100 * time.Millisecond

// Options configures the render loop.
type Options struct {
	Buffer *visualizer.StereoRingBuffer
	// Source provides the sample rate and the name shown in the help box.
	// It may be nil when Err is set.
	Source capture.Source
	Tuning visualizer.Tuning
	Bars   int
	Scheme uint8
	// Speed is the frame interval in seconds.
	Speed float64
	// Err switches the model to the error overlay.
	Err    error
	Logger logrus.FieldLogger
}

// Model is the bubbletea model of the spectrum visualizer.
type Model struct {
	buf    *visualizer.StereoRingBuffer
	source capture.Source
	proc   *visualizer.Processor
	left   *visualizer.Channel
	right  *visualizer.Channel
	viz    *VizState
	grid   *Grid
	log    logrus.FieldLogger
	err    error

	bars          int
	peakThreshold float64
	width, height int

	leftSamples  []float32
	rightSamples []float32
	last         time.Time
	frames       uint64
}

// New creates the model. With opts.Err set it only shows the error text and
// waits for a quit key.
func New(opts Options) Model {
	if opts.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		opts.Logger = l
	}
	if opts.Bars <= 0 {
		opts.Bars = visualizer.DefaultBars
	}
	m := Model{
		buf:           opts.Buffer,
		source:        opts.Source,
		viz:           NewVizState(opts.Speed, opts.Scheme),
		grid:          NewGrid(0, 0),
		log:           opts.Logger,
		err:           opts.Err,
		bars:          max(visualizer.MinBars, min(opts.Bars, visualizer.MaxBars)),
		peakThreshold: opts.Tuning.PeakThreshold,
		leftSamples:   make([]float32, visualizer.BufferSize),
		rightSamples:  make([]float32, visualizer.BufferSize),
	}
	if m.err == nil && m.source != nil {
		m.proc = visualizer.NewProcessor(m.source.SampleRate(), opts.Tuning)
		m.left = visualizer.NewChannel(m.bars, visualizer.MaxBars, 1, opts.Tuning)
		m.right = visualizer.NewChannel(m.bars, visualizer.MaxBars, 1, opts.Tuning)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	if m.err != nil || m.proc == nil {
		return tea.SetWindowTitle("spectra")
	}
	return tea.Batch(frameCmd(visualizer.MinFrameTime), tea.SetWindowTitle("spectra: "+m.source.Name()))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.err != nil || m.proc == nil {
			if isQuit(msg) {
				return m, tea.Quit
			}
			return m, nil
		}
		switch {
		case key.Matches(msg, keys.Fewer):
			m.bars = max(m.bars-visualizer.BarStep, visualizer.MinBars)
		case key.Matches(msg, keys.More):
			m.bars = min(m.bars+visualizer.BarStep, visualizer.MaxBars, max(m.width, 1))
		case m.viz.HandleKey(msg):
			m.log.WithField("frames", m.frames).Debug("quit")
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.grid.Resize(msg.Width, msg.Height)
		if m.err != nil || m.proc == nil {
			m.drawError()
			return m, nil
		}
		rows := max(1, msg.Height/2)
		m.left.ResizeLevels(rows)
		m.right.ResizeLevels(rows)
		m.log.WithFields(logrus.Fields{"width": msg.Width, "height": msg.Height}).Debug("resize")
		return m, nil

	case frameMsg:
		if m.proc == nil {
			return m, nil
		}
		now := time.Time(msg)
		dt := 0.0
		if !m.last.IsZero() {
			dt = now.Sub(m.last).Seconds()
		}
		m.last = now

		if m.viz.Paused {
			return m, frameCmd(pausedInterval)
		}
		m.frame(dt)
		return m, frameCmd(m.interval())
	}

	return m, nil
}

func (m Model) interval() time.Duration {
	d := time.Duration(m.viz.Speed * float64(time.Second))
	return max(d, visualizer.MinFrameTime)
}

// frame reads the latest samples, advances the bars by dt seconds and redraws
// the grid.
func (m *Model) frame(dt float64) {
	m.frames++
	m.grid.Clear()
	if m.width <= 0 || m.height <= 0 {
		return
	}

	if !m.buf.CopyInto(m.leftSamples, m.rightSamples) {
		clear(m.leftSamples)
		clear(m.rightSamples)
	}

	layout := visualizer.ComputeLayout(m.width, m.bars, visualizer.BarGap)
	m.left.SetBars(layout.Bars)
	m.right.SetBars(layout.Bars)

	avail := float64(m.height - 1)
	halfRows := max(1, m.height/2)
	m.proc.ProcessChannel(m.leftSamples, m.left, avail, halfRows)
	m.proc.ProcessChannel(m.rightSamples, m.right, avail, halfRows)
	m.left.Update(dt)
	m.right.Update(dt)

	field := visualizer.NewField(m.width, m.height, m.bars, m.viz.ColorScheme(), m.peakThreshold)
	field.Draw(m.grid, m.left, m.right)

	if m.viz.ShowHelp {
		m.viz.RenderHelp(m.grid, m.status()...)
	}
}

type elapser interface {
	Elapsed() time.Duration
}

type overflower interface {
	Overflows() uint64
}

func (m Model) status() []string {
	lines := []string{
		m.source.Name(),
		fmt.Sprintf("bars %d  scheme %d  frame %s", m.bars, m.viz.Scheme, util.FormatInterval(m.interval())),
	}
	if e, ok := m.source.(elapser); ok {
		lines = append(lines, "position "+util.FormatDuration(e.Elapsed()))
	}
	if o, ok := m.source.(overflower); ok {
		lines = append(lines, fmt.Sprintf("overflows %d", o.Overflows()))
	}
	return lines
}

func (m *Model) drawError() {
	m.grid.Clear()
	drawLines(m.grid, errorLines(m.err))
}

func (m Model) View() string {
	return m.grid.Render()
}
