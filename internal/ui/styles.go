package ui

import "github.com/olivier-w/spectra/internal/visualizer"

var (
	borderColor = visualizer.RGB{R: 0xFF, G: 0xFF, B: 0xFF}
	textColor   = visualizer.RGB{R: 0x88, G: 0x88, B: 0x88}
	errorColor  = visualizer.RGB{R: 0xFF, G: 0x55, B: 0x55}
)
