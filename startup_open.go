package main

import (
	"context"
	"fmt"
	"os"

	"github.com/olivier-w/spectra/internal/capture"
	"github.com/olivier-w/spectra/internal/config"
	"github.com/olivier-w/spectra/internal/media"
	"github.com/olivier-w/spectra/internal/visualizer"
	"github.com/sirupsen/logrus"
)

// openSource starts the replay of file when given, otherwise a live capture
// session. The returned source is nil whenever err is not.
func openSource(ctx context.Context, cfg config.Config, file string, buf *visualizer.StereoRingBuffer, log logrus.FieldLogger) (capture.Source, error) {
	if file != "" {
		info, err := os.Stat(file)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%s is a directory", file)
		}
		if !media.IsSupportedPath(file) {
			return nil, fmt.Errorf("unsupported format %s (supported: %s)", file, media.SupportedExtsList())
		}
		src, err := capture.OpenFile(ctx, file, buf, capture.FileOptions{Logger: log})
		if err != nil {
			return nil, err
		}
		return src, nil
	}

	s, err := capture.Open(ctx, buf, capture.Options{
		Device:      cfg.Device,
		MaxChannels: cfg.MaxChannels,
		Route:       cfg.Route,
		Logger:      log,
	})
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"device":   s.Name(),
		"rate":     s.SampleRate(),
		"channels": s.Channels(),
		"routed":   s.Routed(),
		"prior":    s.PriorSource(),
	}).Info("capture started")
	return s, nil
}
