package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/spectra/internal/config"
	"github.com/olivier-w/spectra/internal/debuglog"
	"github.com/olivier-w/spectra/internal/ui"
	"github.com/olivier-w/spectra/internal/visualizer"
)

type flags struct {
	config string
	time   float64
	debug  bool
	file   string
	device string
	bars   int
	scheme int
}

func parseFlags(args []string) (flags, *flag.FlagSet, error) {
	var f flags
	fs := flag.NewFlagSet("spectra", flag.ContinueOnError)
	fs.StringVar(&f.config, "config", config.DefaultPath(), "config file `path`")
	fs.Float64Var(&f.time, "time", 0, "seconds between frames (overrides config)")
	fs.BoolVar(&f.debug, "debug", false, "write a diagnostic log")
	fs.StringVar(&f.file, "file", "", "replay an audio `file` instead of capturing")
	fs.StringVar(&f.device, "device", "", "input device `name` to capture from")
	fs.IntVar(&f.bars, "bars", 0, "initial bar count")
	fs.IntVar(&f.scheme, "scheme", -1, "initial colour scheme (0-9)")
	err := fs.Parse(args)
	return f, fs, err
}

// apply overrides cfg with every flag that was set on the command line.
func (f flags) apply(cfg config.Config, fs *flag.FlagSet) config.Config {
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "time":
			cfg.TimeStep = f.time
		case "device":
			cfg.Device = f.device
		case "bars":
			cfg.Bars = f.bars
		case "scheme":
			cfg.Scheme = uint8(f.scheme)
		}
	})
	return cfg
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string) error {
	f, fs, err := parseFlags(args)
	if err != nil {
		return err
	}
	if isSet(fs, "scheme") && (f.scheme < 0 || f.scheme > config.MaxScheme) {
		return fmt.Errorf("scheme %d out of range [0, %d]", f.scheme, config.MaxScheme)
	}

	cfg, err := config.Load(f.config, isSet(fs, "config"))
	if err != nil {
		return err
	}
	cfg = f.apply(cfg, fs)
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := debuglog.New(f.debug, cfg.DebugLog)
	defer log.Close()
	log.WithField("config", f.config).Debug("starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	buf := visualizer.NewStereoRingBuffer()
	src, srcErr := openSource(ctx, cfg, f.file, buf, log)
	if srcErr != nil {
		log.WithError(srcErr).Warn("audio unavailable")
		if f.file != "" {
			return srcErr
		}
	} else {
		defer src.Close()
	}

	model := ui.New(ui.Options{
		Buffer: buf,
		Source: src,
		Tuning: cfg.Tuning,
		Bars:   cfg.Bars,
		Scheme: cfg.Scheme,
		Speed:  cfg.TimeStep,
		Err:    srcErr,
		Logger: log,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running terminal UI: %w", err)
	}
	return nil
}

func isSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(fl *flag.Flag) {
		if fl.Name == name {
			set = true
		}
	})
	return set
}
