package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

const helpTitle = "AUDIO SPECTRUM"

// VizState is the user-controlled part of the visualizer: frame speed,
// colour scheme, pause and help toggles.
type VizState struct {
	Speed    float64 // seconds between frames
	Scheme   uint8
	Paused   bool
	ShowHelp bool

	help help.Model
}

// NewVizState returns a state running at speed seconds per frame.
func NewVizState(speed float64, scheme uint8) *VizState {
	h := help.New()
	h.ShowAll = true
	return &VizState{Speed: speed, Scheme: scheme, help: h}
}

// HandleKey applies a key press and reports whether the program should quit.
// Keys it does not know are ignored.
func (v *VizState) HandleKey(msg tea.KeyMsg) bool {
	switch {
	case key.Matches(msg, keys.Quit):
		return true
	case key.Matches(msg, keys.Pause):
		v.Paused = !v.Paused
	case key.Matches(msg, keys.Help):
		v.ShowHelp = !v.ShowHelp
	case key.Matches(msg, keys.Speed):
		v.Speed = speeds[msg.String()[0]-'0']
	case key.Matches(msg, keys.Scheme):
		v.Scheme = uint8(strings.Index(schemeKeys, msg.String()))
	}
	return false
}

func (v *VizState) ColorScheme() uint8 { return v.Scheme }

// helpLines returns the plain text of the help box.
func (v *VizState) helpLines(status []string) []string {
	lines := []string{helpTitle, strings.Repeat("─", 17)}
	for _, l := range strings.Split(ansi.Strip(v.help.View(keys)), "\n") {
		lines = append(lines, strings.TrimRight(l, " "))
	}
	if len(status) > 0 {
		lines = append(lines, "")
		lines = append(lines, status...)
	}
	return lines
}

// RenderHelp draws the bordered help box centred in g. Status lines are
// appended below the key list.
func (v *VizState) RenderHelp(g *Grid, status ...string) {
	drawBox(g, v.helpLines(status))
}

// drawBox centres a bordered box around lines. A box larger than the grid is
// clipped from the top-left corner.
func drawBox(g *Grid, lines []string) {
	w, h := g.Size()
	inner := 0
	for _, l := range lines {
		inner = max(inner, ansi.StringWidth(l))
	}
	boxW := inner + 4
	boxH := len(lines) + 2
	x0 := max(0, (w-boxW)/2)
	y0 := max(0, (h-boxH)/2)

	bar := strings.Repeat("─", boxW-2)
	g.Text(x0, y0, "┌"+bar+"┐", borderColor, false)
	for i, l := range lines {
		pad := strings.Repeat(" ", inner-ansi.StringWidth(l))
		y := y0 + 1 + i
		g.Text(x0, y, "│", borderColor, false)
		g.Text(x0+1, y, " "+l+pad+" ", textColor, i == 0)
		g.Text(x0+boxW-1, y, "│", borderColor, false)
	}
	g.Text(x0, y0+boxH-1, "└"+bar+"┘", borderColor, false)
}
