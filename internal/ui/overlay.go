package ui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/x/ansi"
	"github.com/olivier-w/spectra/internal/capture"
)

// errorLines returns the overlay text shown when audio could not start.
func errorLines(err error) []string {
	switch {
	case errors.Is(err, capture.ErrNoInputDevice):
		return []string{
			"No audio input device found",
			"",
			"For system audio, set a monitor source as default:",
			"  pactl set-default-source \\",
			"    $(pactl list sources short | grep monitor | head -1 | cut -f1)",
			"",
			"Or use pavucontrol to select the monitor source",
		}
	case errors.Is(err, capture.ErrNoChannels), errors.Is(err, capture.ErrStreamConfig):
		return []string{fmt.Sprintf("Audio stream error: %v", err)}
	default:
		return []string{fmt.Sprintf("Failed to start audio: %v", err)}
	}
}

// drawLines centres each line horizontally and the block vertically.
func drawLines(g *Grid, lines []string) {
	w, h := g.Size()
	y0 := max(0, (h-len(lines))/2)
	for i, l := range lines {
		x := max(0, (w-ansi.StringWidth(l))/2)
		g.Text(x, y0+i, l, errorColor, i == 0)
	}
}
