package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/olivier-w/spectra/internal/visualizer"
)

type cell struct {
	r    rune
	fg   visualizer.RGB
	bold bool
	set  bool
}

type styleKey struct {
	fg   visualizer.RGB
	bold bool
}

// Grid is a character cell buffer rendered as one string per frame. Cells
// that were never set render as plain spaces.
type Grid struct {
	w, h   int
	cells  []cell
	styles map[styleKey]lipgloss.Style
}

// NewGrid creates an empty grid.
func NewGrid(w, h int) *Grid {
	g := &Grid{styles: make(map[styleKey]lipgloss.Style)}
	g.Resize(w, h)
	return g
}

func (g *Grid) Size() (int, int) { return g.w, g.h }

// Resize reallocates the grid and clears it.
func (g *Grid) Resize(w, h int) {
	w, h = max(w, 0), max(h, 0)
	g.w, g.h = w, h
	if cap(g.cells) >= w*h {
		g.cells = g.cells[:w*h]
	} else {
		g.cells = make([]cell, w*h)
	}
	g.Clear()
}

func (g *Grid) Clear() {
	clear(g.cells)
}

// Set writes one cell. Writes outside the grid are ignored.
func (g *Grid) Set(x, y int, r rune, c visualizer.RGB, bold bool) {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return
	}
	g.cells[y*g.w+x] = cell{r: r, fg: c, bold: bold, set: true}
}

// Text writes s starting at (x, y), clipping at the right edge.
func (g *Grid) Text(x, y int, s string, c visualizer.RGB, bold bool) {
	for _, r := range s {
		g.Set(x, y, r, c, bold)
		x++
	}
}

// At returns the rune at (x, y), or a space when unset or out of range.
func (g *Grid) At(x, y int) rune {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return ' '
	}
	c := g.cells[y*g.w+x]
	if !c.set {
		return ' '
	}
	return c.r
}

func (g *Grid) style(k styleKey) lipgloss.Style {
	s, ok := g.styles[k]
	if !ok {
		s = lipgloss.NewStyle().Foreground(lipgloss.Color(k.fg.Hex())).Bold(k.bold)
		g.styles[k] = s
	}
	return s
}

// Render draws the grid, styling each run of equally coloured cells once.
func (g *Grid) Render() string {
	var b strings.Builder
	var run strings.Builder
	for y := range g.h {
		if y > 0 {
			b.WriteByte('\n')
		}
		row := g.cells[y*g.w : (y+1)*g.w]
		for x := 0; x < len(row); {
			start := row[x]
			run.Reset()
			for x < len(row) && sameStyle(row[x], start) {
				if row[x].set {
					run.WriteRune(row[x].r)
				} else {
					run.WriteByte(' ')
				}
				x++
			}
			if start.set {
				b.WriteString(g.style(styleKey{fg: start.fg, bold: start.bold}).Render(run.String()))
			} else {
				b.WriteString(run.String())
			}
		}
	}
	return b.String()
}

func sameStyle(a, b cell) bool {
	if !a.set || !b.set {
		return a.set == b.set
	}
	return a.fg == b.fg && a.bold == b.bold
}
