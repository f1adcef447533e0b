package capture

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"
)

const pactlTimeout = 3 * time.Second

// Runner executes an external command and returns its standard output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return nil, fmt.Errorf("%s not found", name)
	}

	ctx, cancel := context.WithTimeout(ctx, pactlTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = nil
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %w", name, strings.Join(args, " "), err)
	}
	return out, nil
}

// validSourceName accepts PulseAudio names such as
// "alsa_output.pci-0000_03_00.1.hdmi-stereo.monitor" or "@DEFAULT_SINK@".
func validSourceName(name string) bool {
	if name == "" {
		return false
	}
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case strings.ContainsRune(".-_:@", c):
		default:
			return false
		}
	}
	return true
}

func pactlName(ctx context.Context, r Runner, args ...string) string {
	out, err := r.Run(ctx, "pactl", args...)
	if err != nil {
		return ""
	}
	name := string(bytes.TrimSpace(out))
	if !validSourceName(name) {
		return ""
	}
	return name
}

// findMonitor picks the monitor of sink from `pactl list sources short`
// output, falling back to any monitor source.
func findMonitor(list []byte, sink string) string {
	var names []string
	for line := range strings.SplitSeq(string(list), "\n") {
		fields := strings.Split(line, "\t")
		if len(fields) < 2 || !validSourceName(fields[1]) {
			continue
		}
		names = append(names, fields[1])
	}

	if sink != "" {
		want := sink + ".monitor"
		for _, name := range names {
			if name == want {
				return name
			}
		}
	}
	for _, name := range names {
		if strings.Contains(name, ".monitor") {
			return name
		}
	}
	return ""
}

// DetectAndRouteSystemAudio makes a monitor of the current output the default
// input so system audio is captured instead of a microphone. It returns the
// previous default source and whether the default was changed. Any pactl
// failure leaves the system untouched and reports routed == false.
func DetectAndRouteSystemAudio(ctx context.Context, r Runner) (prior string, routed bool) {
	prior = pactlName(ctx, r, "get-default-source")
	sink := pactlName(ctx, r, "get-default-sink")

	list, err := r.Run(ctx, "pactl", "list", "sources", "short")
	if err != nil {
		return prior, false
	}
	monitor := findMonitor(list, sink)
	if monitor == "" {
		return prior, false
	}
	if _, err := r.Run(ctx, "pactl", "set-default-source", monitor); err != nil {
		return prior, false
	}
	return prior, true
}

// RouteGuard puts the original default source back. Restore runs the undo at
// most once no matter how many exit paths call it.
type RouteGuard struct {
	runner Runner
	prior  string
	routed bool
	once   sync.Once
}

// NewRouteGuard returns a guard for the result of DetectAndRouteSystemAudio.
func NewRouteGuard(r Runner, prior string, routed bool) *RouteGuard {
	return &RouteGuard{runner: r, prior: prior, routed: routed}
}

// Routed reports whether the default source was substituted.
func (g *RouteGuard) Routed() bool { return g.routed }

// Prior returns the default source that was active before routing.
func (g *RouteGuard) Prior() string { return g.prior }

// Restore reinstates the prior default source if routing changed it.
func (g *RouteGuard) Restore() {
	g.once.Do(func() {
		if !g.routed || g.prior == "" {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), pactlTimeout)
		defer cancel()
		_, _ = g.runner.Run(ctx, "pactl", "set-default-source", g.prior)
	})
}
