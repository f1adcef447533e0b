package visualizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cell struct {
	r    rune
	c    RGB
	bold bool
}

type fakeCanvas struct {
	w, h  int
	cells map[[2]int]cell
}

func newFakeCanvas(w, h int) *fakeCanvas {
	return &fakeCanvas{w: w, h: h, cells: make(map[[2]int]cell)}
}

func (f *fakeCanvas) Set(x, y int, r rune, c RGB, bold bool) {
	if x < 0 || y < 0 || x >= f.w || y >= f.h {
		return
	}
	f.cells[[2]int{x, y}] = cell{r: r, c: c, bold: bold}
}

func (f *fakeCanvas) column(x int) map[int]cell {
	out := make(map[int]cell)
	for k, v := range f.cells {
		if k[0] == x {
			out[k[1]] = v
		}
	}
	return out
}

func TestComputeLayoutCapsBarsToWidth(t *testing.T) {
	l := ComputeLayout(80, 300, BarGap)
	assert.Equal(t, 40, l.Bars)
	assert.Equal(t, 1, l.BarWidth)
	last := l.X(l.Bars-1) + l.BarWidth
	assert.LessOrEqual(t, last, 80)
}

func TestComputeLayoutSpreadsBars(t *testing.T) {
	l := ComputeLayout(80, 16, BarGap)
	assert.Equal(t, 16, l.Bars)
	assert.Equal(t, 4, l.BarWidth)
	for i := 1; i < l.Bars; i++ {
		assert.Greater(t, l.X(i), l.X(i-1)+l.BarWidth-1)
	}
}

func TestComputeLayoutDegenerate(t *testing.T) {
	assert.Equal(t, 1, ComputeLayout(1, 64, BarGap).Bars)
	assert.Equal(t, 0, ComputeLayout(0, 64, BarGap).Bars)
	assert.Equal(t, 1, ComputeLayout(80, 0, BarGap).Bars)
}

func TestDrawTooManyBarsNoOverlap(t *testing.T) {
	tun := DefaultTuning()
	left := NewChannel(MaxBars, MaxBars, 10, tun)
	right := NewChannel(MaxBars, MaxBars, 10, tun)
	for i := range MaxBars {
		left.Decay[i].Hit(3)
	}

	canvas := newFakeCanvas(80, 20)
	field := NewField(80, 20, 300, 0, tun.PeakThreshold)
	field.Draw(canvas, left, right)

	drawn := 0
	for x := range 80 {
		if len(canvas.column(x)) > 0 {
			drawn++
		}
	}
	assert.Equal(t, field.Layout.Bars, drawn)
}

func TestSingleHitRendersAndDecays(t *testing.T) {
	const width, height = 80, 20
	tun := DefaultTuning()
	maxLevels := max(1, height/2)
	left := NewChannel(16, MaxBars, maxLevels, tun)
	right := NewChannel(16, MaxBars, maxLevels, tun)

	left.Decay[0].Hit(8)

	canvas := newFakeCanvas(width, height)
	field := NewField(width, height, 16, 0, tun.PeakThreshold)
	field.Draw(canvas, left, right)

	top, bold := SchemeColor(0, TopTier, false)
	bar0 := canvas.column(field.Layout.X(0))
	require.Len(t, bar0, 8)
	centre := height / 2
	for y := range 8 {
		got, ok := bar0[centre-1-y]
		require.True(t, ok, "row %d", y)
		assert.Equal(t, fullBlock, got.r)
		assert.Equal(t, top, got.c)
		assert.Equal(t, bold, got.bold)
	}
	assert.Empty(t, canvas.column(field.Layout.X(1)))

	for range 120 {
		left.Update(1.0 / 60)
		right.Update(1.0 / 60)
	}
	for level := range maxLevels {
		assert.Equal(t, -1, left.Decay[0].TierAt(level))
	}
	assert.Less(t, left.Decay[0].VisualHeight(), 0.5)
}

func TestDrawPartialTipGlyph(t *testing.T) {
	tun := DefaultTuning()
	left := NewChannel(1, 1, 10, tun)
	right := NewChannel(1, 1, 10, tun)
	left.Decay[0].Hit(3)
	right.Decay[0].Hit(3)
	left.Update(0.05)
	right.Update(0.05)

	visual := left.Decay[0].VisualHeight()
	require.Less(t, visual, 3.0)
	require.Greater(t, visual, 2.5)

	canvas := newFakeCanvas(4, 20)
	NewField(4, 20, 1, 0, tun.PeakThreshold).Draw(canvas, left, right)

	col := canvas.column(0)
	require.Len(t, col, 6)
	assert.Equal(t, '█', col[9].r)
	assert.Equal(t, '█', col[8].r)
	assert.Equal(t, '▄', col[7].r)
	assert.Equal(t, '█', col[10].r)
	assert.Equal(t, '█', col[11].r)
	assert.Equal(t, '▀', col[12].r)
}

func TestResizeMidAnimationClamps(t *testing.T) {
	tun := DefaultTuning()
	left := NewChannel(16, MaxBars, 10, tun)
	right := NewChannel(16, MaxBars, 10, tun)
	for i := range 16 {
		left.Decay[i].Hit(10)
		right.Decay[i].Hit(9)
	}
	left.Update(1.0 / 60)

	require.NotPanics(t, func() {
		left.ResizeLevels(5)
		right.ResizeLevels(5)
		NewField(80, 10, 16, 3, tun.PeakThreshold).Draw(newFakeCanvas(80, 10), left, right)
	})
	for i := range MaxBars {
		assert.LessOrEqual(t, left.Decay[i].VisualHeight(), 5.0)
		assert.LessOrEqual(t, right.Decay[i].VisualHeight(), 5.0)
	}
}

func TestRainbowColoursByPosition(t *testing.T) {
	a, boldA := BarColor(RainbowScheme, 0, 0, false)
	b, boldB := BarColor(RainbowScheme, 0.5, 3, false)
	assert.NotEqual(t, a, b)
	assert.False(t, boldA)
	assert.True(t, boldB)

	same, _ := BarColor(RainbowScheme, 0.5, 0, true)
	assert.Equal(t, b, same)
}

func TestSchemeColorBrightensWithTier(t *testing.T) {
	for scheme := range uint8(10) {
		if scheme == RainbowScheme {
			continue
		}
		_, dimBold := SchemeColor(scheme, 0, true)
		_, topBold := SchemeColor(scheme, TopTier, false)
		assert.False(t, dimBold, "scheme %d", scheme)
		assert.True(t, topBold, "scheme %d", scheme)
	}
	unknown, _ := SchemeColor(42, 1, false)
	fallback, _ := SchemeColor(0, 1, false)
	assert.Equal(t, fallback, unknown)
}
