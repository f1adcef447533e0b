package visualizer

import (
	"fmt"
	"math"
)

// RGB is a 24-bit colour.
type RGB struct {
	R uint8
	G uint8
	B uint8
}

// Hex formats the colour as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func rgbFromHSV(h, s, v float64) RGB {
	h = math.Mod(h, 1)
	if h < 0 {
		h += 1
	}
	s = clamp01(s)
	v = clamp01(v)

	i := int(h * 6)
	f := h*6 - float64(i)
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	var r, g, b float64
	switch i % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}

	return RGB{R: uint8(r * 255), G: uint8(g * 255), B: uint8(b * 255)}
}

// Rainbow maps a position in 0..1 onto a full-saturation hue.
func Rainbow(pos float64) RGB {
	return rgbFromHSV(pos, 1, 1)
}

// Terminal palette approximations.
var (
	darkRed     = RGB{R: 128, G: 0, B: 0}
	red         = RGB{R: 205, G: 49, B: 49}
	brightRed   = RGB{R: 255, G: 85, B: 85}
	darkYellow  = RGB{R: 128, G: 128, B: 0}
	yellow      = RGB{R: 229, G: 229, B: 16}
	brightYell  = RGB{R: 255, G: 255, B: 85}
	darkBlue    = RGB{R: 0, G: 0, B: 128}
	blue        = RGB{R: 36, G: 114, B: 200}
	darkMagenta = RGB{R: 128, G: 0, B: 128}
	magenta     = RGB{R: 188, G: 63, B: 188}
	brightMag   = RGB{R: 255, G: 85, B: 255}
	darkCyan    = RGB{R: 0, G: 128, B: 128}
	cyan        = RGB{R: 17, G: 168, B: 205}
	brightCyan  = RGB{R: 85, G: 255, B: 255}
	darkGreen   = RGB{R: 0, G: 100, B: 0}
	green       = RGB{R: 13, G: 188, B: 121}
	brightGreen = RGB{R: 85, G: 255, B: 85}
	darkGrey    = RGB{R: 102, G: 102, B: 102}
	grey        = RGB{R: 170, G: 170, B: 170}
	white       = RGB{R: 240, G: 240, B: 240}
)

type schemeStop struct {
	color RGB
	bold  int8 // 0 never, 1 when peak, 2 always
}

// schemes holds four intensities per colour scheme, dimmest first.
var schemes = [10][4]schemeStop{
	0: {{darkGreen, 0}, {green, 0}, {green, 2}, {brightGreen, 2}},
	1: {{darkRed, 0}, {red, 0}, {darkYellow, 1}, {yellow, 2}},
	2: {{darkBlue, 0}, {blue, 0}, {cyan, 1}, {cyan, 2}},
	3: {{darkMagenta, 0}, {magenta, 0}, {magenta, 1}, {brightMag, 2}},
	4: {{darkYellow, 0}, {yellow, 0}, {yellow, 1}, {brightYell, 2}},
	5: {{darkCyan, 0}, {cyan, 0}, {cyan, 1}, {brightCyan, 2}},
	6: {{darkRed, 0}, {red, 0}, {magenta, 1}, {brightRed, 2}},
	7: {{darkGrey, 0}, {grey, 0}, {white, 1}, {white, 2}},
	8: {{red, 0}, {yellow, 0}, {green, 1}, {cyan, 2}},
	9: {{darkBlue, 0}, {blue, 0}, {magenta, 1}, {brightMag, 2}},
}

// SchemeColor returns the colour and bold flag for an intensity (0..3) of a
// colour scheme. Unknown schemes fall back to scheme 0.
func SchemeColor(scheme, intensity uint8, peak bool) (RGB, bool) {
	if int(scheme) >= len(schemes) {
		scheme = 0
	}
	stop := schemes[scheme][min(intensity, TopTier)]
	return stop.color, stop.bold == 2 || (stop.bold == 1 && peak)
}

// BarColor picks a cell colour for a bar. Rainbow mode colours by horizontal
// position and emphasises the two brightest tiers; other schemes colour by tier.
func BarColor(scheme uint8, xRatio float64, tier int, peak bool) (RGB, bool) {
	if scheme == RainbowScheme {
		return Rainbow(xRatio), tier >= 2
	}
	return SchemeColor(scheme, uint8(max(tier, 0)), peak)
}
