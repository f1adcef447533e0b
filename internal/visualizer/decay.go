package visualizer

import "math"

// BarDecay tracks per-level brightness for one bar of one channel.
//
// Each level (row) holds a tier in -1..3 and a countdown for that tier. Tiers
// only rise through Hit and only fall as their timers expire in Update. A
// separate continuous height decays smoothly for sub-row animation.
type BarDecay struct {
	tiers  []int8
	timers []float64
	visual float64

	holds [NumTiers]float64
	fall  float64 // seconds for visual height to lose one e-fold
}

// NewBarDecay creates a collapsed bar with maxLevels rows.
func NewBarDecay(maxLevels int, t Tuning) *BarDecay {
	d := &BarDecay{}
	for tier := range NumTiers {
		d.holds[tier] = t.TierHold(tier)
	}
	d.fall = t.FallTime() * t.HeightDecayFactor
	d.Resize(maxLevels)
	return d
}

// MaxLevels returns the number of rows tracked.
func (d *BarDecay) MaxLevels() int { return len(d.tiers) }

// Resize grows or shrinks the level arrays in place. New levels start
// collapsed; surviving levels keep their tier and timer.
func (d *BarDecay) Resize(maxLevels int) {
	if maxLevels < 0 {
		maxLevels = 0
	}
	n := len(d.tiers)
	switch {
	case maxLevels < n:
		d.tiers = d.tiers[:maxLevels]
		d.timers = d.timers[:maxLevels]
	case maxLevels > n:
		for range maxLevels - n {
			d.tiers = append(d.tiers, -1)
			d.timers = append(d.timers, 0)
		}
	}
	d.visual = math.Min(d.visual, float64(maxLevels))
}

// Hit resets every level below height to the brightest tier and raises the
// visual height to at least height.
func (d *BarDecay) Hit(height int) {
	level := min(height, len(d.tiers))
	for i := range level {
		d.tiers[i] = TopTier
		d.timers[i] = d.holds[TopTier]
	}
	d.visual = math.Max(d.visual, float64(level))
}

// Update advances all tier timers by dt seconds and decays the visual height.
func (d *BarDecay) Update(dt float64) {
	if dt <= 0 {
		return
	}
	for i, tier := range d.tiers {
		if tier < 0 {
			continue
		}
		d.timers[i] -= dt
		if d.timers[i] > 0 {
			continue
		}
		tier--
		d.tiers[i] = tier
		if tier >= 0 {
			d.timers[i] = d.holds[tier]
		}
	}

	if d.fall > 0 {
		d.visual *= 1 - math.Min(1, dt/d.fall)
	} else {
		d.visual = 0
	}
}

// TierAt returns the tier of a level, or -1 when collapsed or out of range.
func (d *BarDecay) TierAt(level int) int {
	if level < 0 || level >= len(d.tiers) {
		return -1
	}
	return int(d.tiers[level])
}

// VisualHeight is the continuous bar height in rows.
func (d *BarDecay) VisualHeight() float64 { return d.visual }
