package visualizer

// Canvas is a character grid the bar field draws into.
type Canvas interface {
	Set(x, y int, r rune, c RGB, bold bool)
}

// Direction is the way a bar grows from the centre line.
type Direction int

const (
	Up Direction = iota
	Down
)

var (
	glyphsUp   = []rune{'▁', '▄', '█'}
	glyphsDown = []rune{'▔', '▀', '█'}
)

const fullBlock = '█'

// Layout is the horizontal placement of the bar field.
type Layout struct {
	Bars     int
	BarWidth int
	Gap      int
}

// ComputeLayout fits requested bars into width columns. Bars never get
// narrower than one column; when too many are requested the count is capped
// to what fits.
func ComputeLayout(width, requested, gap int) Layout {
	gap = max(gap, 0)
	if width <= 0 {
		return Layout{Bars: 0, BarWidth: 1, Gap: gap}
	}
	fit := width / (1 + gap)
	bars := max(1, min(requested, fit))
	barWidth := max(1, (width-(bars-1)*gap)/bars)
	return Layout{Bars: bars, BarWidth: barWidth, Gap: gap}
}

// X returns the left column of bar i.
func (l Layout) X(i int) int { return i * (l.BarWidth + l.Gap) }

// Ratio returns bar i's horizontal position in 0..1.
func (l Layout) Ratio(i int) float64 {
	return float64(i) / float64(max(l.Bars, 1))
}

// Field is everything needed to draw one frame of the mirrored bars.
type Field struct {
	Width, Height int
	Scheme        uint8
	PeakThreshold float64
	Layout        Layout
}

// NewField lays out a frame of the given size.
func NewField(width, height, bars int, scheme uint8, peak float64) Field {
	return Field{
		Width:         width,
		Height:        height,
		Scheme:        scheme,
		PeakThreshold: peak,
		Layout:        ComputeLayout(width, bars, BarGap),
	}
}

// Draw renders left growing up from the centre line and right growing down.
func (f Field) Draw(c Canvas, left, right *Channel) {
	if f.Height <= 0 || f.Layout.Bars == 0 {
		return
	}
	centre := f.Height / 2
	n := min(f.Layout.Bars, len(left.Decay), len(right.Decay))
	for i := range n {
		x := f.Layout.X(i)
		ratio := f.Layout.Ratio(i)
		f.DrawBar(c, left.Decay[i], x, ratio, centre, centre, Up)
		f.DrawBar(c, right.Decay[i], x, ratio, centre, f.Height-centre, Down)
	}
}

// DrawBar draws one bar column of the decay state d starting at the centre
// row. Whole rows use a full block; the fractional part of the visual height
// picks a partial glyph for the tip.
func (f Field) DrawBar(c Canvas, d *BarDecay, x int, ratio float64, centre, maxRows int, dir Direction) {
	glyphs := glyphsUp
	if dir == Down {
		glyphs = glyphsDown
	}
	half := float64(max(f.Height/2, 1))

	visual := d.VisualHeight()
	full := int(visual)
	frac := visual - float64(full)

	for y := range min(full, maxRows) {
		color, bold := BarColor(f.Scheme, ratio, max(d.TierAt(y), 0), float64(y)/half > f.PeakThreshold)
		f.fill(c, x, rowFor(centre, y, dir), fullBlock, color, bold)
	}

	if frac > 0 && full < maxRows {
		idx := min(int(frac*float64(len(glyphs)-1)+0.5), len(glyphs)-1)
		color, bold := BarColor(f.Scheme, ratio, max(d.TierAt(full), 0), false)
		f.fill(c, x, rowFor(centre, full, dir), glyphs[idx], color, bold)
	}
}

func (f Field) fill(c Canvas, x, y int, r rune, color RGB, bold bool) {
	if y < 0 || y >= f.Height {
		return
	}
	for dx := range f.Layout.BarWidth {
		c.Set(x+dx, y, r, color, bold)
	}
}

func rowFor(centre, level int, dir Direction) int {
	if dir == Up {
		return centre - 1 - level
	}
	return centre + level
}
