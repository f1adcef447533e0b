package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/olivier-w/spectra/internal/config"
	"github.com/olivier-w/spectra/internal/debuglog"
	"github.com/olivier-w/spectra/internal/visualizer"
)

func TestFlagsOverrideOnlyWhatIsSet(t *testing.T) {
	f, fs, err := parseFlags([]string{"--bars", "96", "--scheme", "8", "--device", "monitor"})
	if err != nil {
		t.Fatal(err)
	}
	cfg := f.apply(config.Default(), fs)
	if cfg.Bars != 96 || cfg.Scheme != 8 || cfg.Device != "monitor" {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
	if cfg.TimeStep != config.Default().TimeStep {
		t.Fatalf("unset --time changed time step to %v", cfg.TimeStep)
	}
	if isSet(fs, "config") {
		t.Fatal("--config was not given")
	}
}

func TestRunRejectsBadFlags(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "nope.yaml")
	for _, args := range [][]string{
		{"--bogus"},
		{"--scheme", "12"},
		{"--scheme", "-5"},
		{"--config", missing},
		{"--config", "", "--bars", "3"},
	} {
		if err := run(args); err == nil {
			t.Fatalf("run(%q) succeeded", args)
		}
	}
}

func TestOpenSourceRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(txt, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	log := debuglog.New(false, "")
	buf := visualizer.NewStereoRingBuffer()

	cases := map[string]string{
		filepath.Join(dir, "gone.wav"): "no such file",
		dir:                            "is a directory",
		txt:                            "unsupported format",
	}
	for path, want := range cases {
		src, err := openSource(context.Background(), config.Default(), path, buf, log)
		if err == nil || !strings.Contains(err.Error(), want) {
			t.Fatalf("openSource(%s) error = %v, want %q", path, err, want)
		}
		if src != nil {
			t.Fatalf("openSource(%s) returned a source with an error", path)
		}
	}
}

func TestRunRejectsNegativeScheme(t *testing.T) {
	err := run([]string{"--config", "", "--scheme", "-5"})
	if err == nil || !strings.Contains(err.Error(), "scheme -5 out of range") {
		t.Fatalf("run error = %v", err)
	}
}
