package capture

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	outputs map[string]string
	fail    map[string]bool
	calls   []string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	key := strings.Join(append([]string{name}, args...), " ")
	f.calls = append(f.calls, key)
	if f.fail[key] {
		return nil, errors.New("exit status 1")
	}
	return []byte(f.outputs[key]), nil
}

func (f *fakeRunner) called(prefix string) []string {
	var out []string
	for _, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

const sourcesShort = "0\talsa_input.usb-mic.analog-stereo\tPipeWire\ts16le 2ch 48000Hz\tSUSPENDED\n" +
	"1\talsa_output.pci-0000_00_1f.3.analog-stereo.monitor\tPipeWire\ts32le 2ch 48000Hz\tIDLE\n" +
	"2\tbluez_output.AA_BB.1.monitor\tPipeWire\ts16le 2ch 48000Hz\tRUNNING\n"

func newPactl() *fakeRunner {
	return &fakeRunner{
		outputs: map[string]string{
			"pactl get-default-source":  "alsa_input.usb-mic.analog-stereo\n",
			"pactl get-default-sink":    "bluez_output.AA_BB.1\n",
			"pactl list sources short": sourcesShort,
		},
		fail: map[string]bool{},
	}
}

func TestDetectPrefersDefaultSinkMonitor(t *testing.T) {
	r := newPactl()
	prior, routed := DetectAndRouteSystemAudio(context.Background(), r)

	assert.Equal(t, "alsa_input.usb-mic.analog-stereo", prior)
	assert.True(t, routed)
	assert.Equal(t, []string{"pactl set-default-source bluez_output.AA_BB.1.monitor"}, r.called("pactl set-default-source"))
}

func TestDetectFallsBackToAnyMonitor(t *testing.T) {
	r := newPactl()
	r.outputs["pactl get-default-sink"] = "hdmi_output.missing\n"

	_, routed := DetectAndRouteSystemAudio(context.Background(), r)
	require.True(t, routed)
	assert.Equal(t,
		[]string{"pactl set-default-source alsa_output.pci-0000_00_1f.3.analog-stereo.monitor"},
		r.called("pactl set-default-source"))
}

func TestDetectNoMonitorLeavesDefault(t *testing.T) {
	r := newPactl()
	r.outputs["pactl list sources short"] = "0\talsa_input.usb-mic.analog-stereo\tPipeWire\n"

	prior, routed := DetectAndRouteSystemAudio(context.Background(), r)
	assert.Equal(t, "alsa_input.usb-mic.analog-stereo", prior)
	assert.False(t, routed)
	assert.Empty(t, r.called("pactl set-default-source"))
}

func TestDetectWithoutPactl(t *testing.T) {
	r := newPactl()
	r.fail["pactl get-default-source"] = true
	r.fail["pactl get-default-sink"] = true
	r.fail["pactl list sources short"] = true

	prior, routed := DetectAndRouteSystemAudio(context.Background(), r)
	assert.Empty(t, prior)
	assert.False(t, routed)
}

func TestDetectSetFailureIsNotRouted(t *testing.T) {
	r := newPactl()
	r.fail["pactl set-default-source bluez_output.AA_BB.1.monitor"] = true

	_, routed := DetectAndRouteSystemAudio(context.Background(), r)
	assert.False(t, routed)
}

func TestDetectRejectsUnsafeNames(t *testing.T) {
	r := newPactl()
	r.outputs["pactl get-default-source"] = "mic; rm -rf ~\n"
	r.outputs["pactl list sources short"] = "1\tevil$(reboot).monitor\tPipeWire\n"

	prior, routed := DetectAndRouteSystemAudio(context.Background(), r)
	assert.Empty(t, prior)
	assert.False(t, routed)
}

func TestValidSourceName(t *testing.T) {
	for _, name := range []string{"@DEFAULT_SINK@", "alsa_output.pci-0000_03_00.1.hdmi-stereo.monitor", "a:b"} {
		assert.True(t, validSourceName(name), name)
	}
	for _, name := range []string{"", "has space", "semi;colon", "tab\tname", "ünïcode"} {
		assert.False(t, validSourceName(name), name)
	}
}

func TestRouteGuardRestoresOnce(t *testing.T) {
	r := newPactl()
	g := NewRouteGuard(r, "alsa_input.usb-mic.analog-stereo", true)
	assert.True(t, g.Routed())
	assert.Equal(t, "alsa_input.usb-mic.analog-stereo", g.Prior())
	g.Restore()
	g.Restore()

	assert.Equal(t, []string{"pactl set-default-source alsa_input.usb-mic.analog-stereo"}, r.calls)
}

func TestRouteGuardSkipsWhenNotRouted(t *testing.T) {
	r := newPactl()
	NewRouteGuard(r, "alsa_input.usb-mic.analog-stereo", false).Restore()
	NewRouteGuard(r, "", true).Restore()
	assert.Empty(t, r.calls)
}
