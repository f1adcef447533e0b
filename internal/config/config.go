// Package config loads spectra's YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/olivier-w/spectra/internal/visualizer"
	"gopkg.in/yaml.v3"
)

// MaxScheme is the highest colour scheme index.
const MaxScheme = 9

// Config holds user settings. Zero values are never meaningful; start from
// Default.
type Config struct {
	// TimeStep is the target seconds between frames.
	TimeStep float64 `yaml:"time_step"`
	Bars     int     `yaml:"bars"`
	Scheme   uint8   `yaml:"scheme"`

	Device      string `yaml:"device"`
	Route       bool   `yaml:"route"`
	MaxChannels int    `yaml:"max_channels"`

	DebugLog string `yaml:"debug_log"`

	Tuning visualizer.Tuning `yaml:"tuning"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		TimeStep:    0.03,
		Bars:        visualizer.DefaultBars,
		Scheme:      0,
		Route:       true,
		MaxChannels: 2,
		DebugLog:    "/tmp/spectra-audio.log",
		Tuning:      visualizer.DefaultTuning(),
	}
}

// DefaultPath is $XDG_CONFIG_HOME/spectra/config.yaml or the platform
// equivalent.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "spectra", "config.yaml")
}

// Load reads path over the defaults. A missing file yields the defaults
// unless mustExist is set.
func Load(path string, mustExist bool) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !mustExist {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks ranges and the relative magnitudes the animation depends
// on: bars rise faster than they fall, and dimmer tiers hold longer.
func (c Config) Validate() error {
	var errs []error
	if c.TimeStep <= 0 || c.TimeStep > 1 {
		errs = append(errs, fmt.Errorf("time_step %v out of range (0, 1]", c.TimeStep))
	}
	if c.Bars < visualizer.MinBars || c.Bars > visualizer.MaxBars {
		errs = append(errs, fmt.Errorf("bars %d out of range [%d, %d]", c.Bars, visualizer.MinBars, visualizer.MaxBars))
	}
	if c.Scheme > MaxScheme {
		errs = append(errs, fmt.Errorf("scheme %d out of range [0, %d]", c.Scheme, MaxScheme))
	}
	if c.MaxChannels < 1 {
		errs = append(errs, fmt.Errorf("max_channels must be at least 1"))
	}
	errs = append(errs, validateTuning(c.Tuning))
	return errors.Join(errs...)
}

func validateTuning(t visualizer.Tuning) error {
	var errs []error
	if t.Sensitivity <= 0 {
		errs = append(errs, fmt.Errorf("tuning.sensitivity must be positive"))
	}
	if t.Attack <= 0 || t.Attack > 1 {
		errs = append(errs, fmt.Errorf("tuning.attack %v out of range (0, 1]", t.Attack))
	}
	if t.Decay <= 0 || t.Decay >= 1 {
		errs = append(errs, fmt.Errorf("tuning.decay %v out of range (0, 1)", t.Decay))
	}
	if t.Attack <= 1-t.Decay {
		errs = append(errs, fmt.Errorf("tuning.attack %v must exceed 1 - decay (%v)", t.Attack, 1-t.Decay))
	}
	if t.TierBase <= 0 || t.TierStep <= 0 {
		errs = append(errs, fmt.Errorf("tuning.tier_base and tuning.tier_step must be positive"))
	}
	if t.HeightDecayFactor <= 0 {
		errs = append(errs, fmt.Errorf("tuning.height_decay_factor must be positive"))
	}
	if t.FreqMin < 0 || t.FreqMax <= t.FreqMin {
		errs = append(errs, fmt.Errorf("tuning.freq_min/freq_max must satisfy 0 <= min < max"))
	}
	if t.PeakThreshold <= 0 || t.PeakThreshold > 1 {
		errs = append(errs, fmt.Errorf("tuning.peak_threshold %v out of range (0, 1]", t.PeakThreshold))
	}
	switch t.Smoothing {
	case visualizer.SmoothAttackDecay:
	case visualizer.SmoothSpring:
		if t.SpringFrequency <= 0 || t.SpringDamping < 0 {
			errs = append(errs, fmt.Errorf("tuning.spring_frequency must be positive and spring_damping non-negative"))
		}
	default:
		errs = append(errs, fmt.Errorf("tuning.smoothing %q is not %q or %q", t.Smoothing, visualizer.SmoothAttackDecay, visualizer.SmoothSpring))
	}
	return errors.Join(errs...)
}
