package visualizer

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
)

// springField moves each bar target toward its raw amplitude on a damped
// spring. The spring is re-derived whenever the frame interval changes, so
// the motion keeps its feel at any speed setting.
type springField struct {
	frequency, damping float64

	spring harmonica.Spring
	dt     float64
	pos    []float64
	vel    []float64
}

func newSpringField(frequency, damping float64) springField {
	s := springField{frequency: frequency, damping: damping}
	s.retime(MinFrameTime.Seconds())
	return s
}

// retime rebuilds the spring for a new frame interval. Changes under a
// millisecond are ignored.
func (s *springField) retime(dt float64) {
	if dt <= 0 || math.Abs(dt-s.dt) < float64(time.Millisecond)/float64(time.Second) {
		return
	}
	s.dt = dt
	s.spring = harmonica.NewSpring(dt, s.frequency, s.damping)
}

func (s *springField) resize(n int) {
	if len(s.pos) == n {
		return
	}
	pos := make([]float64, n)
	vel := make([]float64, n)
	copy(pos, s.pos)
	copy(vel, s.vel)
	s.pos, s.vel = pos, vel
}

// step advances bar i one frame toward target and returns the new position,
// held within [0, ceiling].
func (s *springField) step(i int, target, ceiling float64) float64 {
	p, v := s.spring.Update(s.pos[i], s.vel[i], target)
	switch {
	case p < 0:
		p, v = 0, 0
	case p > ceiling:
		p, v = ceiling, 0
	}
	s.pos[i], s.vel[i] = p, v
	return p
}
