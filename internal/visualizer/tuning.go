package visualizer

import "time"

const (
	// BufferSize is the per-channel sample window fed to the FFT.
	BufferSize = 2048

	DefaultBars = 64
	MinBars     = 8
	MaxBars     = 200
	BarStep     = 8
	BarGap      = 1

	// NumTiers counts the brightness tiers; TopTier is the brightest.
	NumTiers = 4
	TopTier  = NumTiers - 1

	// RainbowScheme colours bars by horizontal position instead of tier.
	RainbowScheme uint8 = 8

	MinFrameTime = 16 * time.Millisecond
)

// SmoothingMode selects how a bar's target height follows the raw amplitude.
type SmoothingMode string

const (
	SmoothAttackDecay SmoothingMode = "attack-decay"
	SmoothSpring      SmoothingMode = "spring"
)

// Tuning holds the feel-tuned constants of the spectrum and decay animation.
type Tuning struct {
	Sensitivity float64 `yaml:"sensitivity"`
	// Attack is the blend weight toward a rising target, Decay the per-frame
	// multiplier applied while falling.
	Attack float64 `yaml:"attack"`
	Decay  float64 `yaml:"decay"`

	// Tier hold times: tier 3 holds TierBase, each dimmer tier adds TierStep.
	TierBase          float64 `yaml:"tier_base"`
	TierStep          float64 `yaml:"tier_step"`
	HeightDecayFactor float64 `yaml:"height_decay_factor"`

	FreqMin       float64 `yaml:"freq_min"`
	FreqMax       float64 `yaml:"freq_max"`
	PeakThreshold float64 `yaml:"peak_threshold"`

	Smoothing       SmoothingMode `yaml:"smoothing"`
	SpringFrequency float64       `yaml:"spring_frequency"`
	SpringDamping   float64       `yaml:"spring_damping"`
}

// DefaultTuning returns the tuning the visualizer ships with.
func DefaultTuning() Tuning {
	return Tuning{
		Sensitivity:       150,
		Attack:            0.7,
		Decay:             0.85,
		TierBase:          0.04,
		TierStep:          0.03,
		HeightDecayFactor: 1.2,
		FreqMin:           20,
		FreqMax:           16000,
		PeakThreshold:     0.8,
		Smoothing:         SmoothAttackDecay,
		SpringFrequency:   8,
		SpringDamping:     0.9,
	}
}

// TierHold returns how long a level stays at the given tier.
func (t Tuning) TierHold(tier int) float64 {
	fromTop := TopTier - tier
	if fromTop < 0 {
		fromTop = 0
	}
	return t.TierBase + float64(fromTop)*t.TierStep
}

// FallTime is the sum of all tier holds: the time one level takes to
// collapse after a hit.
func (t Tuning) FallTime() float64 {
	var total float64
	for tier := range NumTiers {
		total += t.TierHold(tier)
	}
	return total
}
