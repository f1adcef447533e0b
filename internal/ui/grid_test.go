package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/olivier-w/spectra/internal/visualizer"
)

func TestGridSetIgnoresOutOfRange(t *testing.T) {
	g := NewGrid(4, 2)
	red := visualizer.RGB{R: 255}
	g.Set(-1, 0, 'x', red, false)
	g.Set(4, 0, 'x', red, false)
	g.Set(0, 2, 'x', red, false)
	g.Set(3, 1, 'y', red, true)

	if got := ansi.Strip(g.Render()); got != "    \n   y" {
		t.Fatalf("render = %q", got)
	}
}

func TestGridTextClipsAtRightEdge(t *testing.T) {
	g := NewGrid(5, 1)
	g.Text(2, 0, "hello", visualizer.RGB{}, false)
	if got := ansi.Strip(g.Render()); got != "  hel" {
		t.Fatalf("render = %q", got)
	}
}

func TestGridResizeClears(t *testing.T) {
	g := NewGrid(3, 3)
	g.Set(1, 1, 'x', visualizer.RGB{}, false)
	g.Resize(2, 4)
	w, h := g.Size()
	if w != 2 || h != 4 {
		t.Fatalf("size = %dx%d", w, h)
	}
	if g.At(1, 1) != ' ' {
		t.Fatal("expected resize to clear cells")
	}
	if rows := strings.Count(g.Render(), "\n") + 1; rows != 4 {
		t.Fatalf("rendered %d rows, want 4", rows)
	}
}

func TestGridRenderMixedRuns(t *testing.T) {
	g := NewGrid(6, 1)
	a := visualizer.RGB{R: 10}
	b := visualizer.RGB{G: 10}
	g.Text(0, 0, "aa", a, false)
	g.Text(2, 0, "bb", b, true)
	g.Set(5, 0, 'a', a, false)
	if got := ansi.Strip(g.Render()); got != "aabb a" {
		t.Fatalf("render = %q", got)
	}
}
