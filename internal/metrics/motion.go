package metrics

import (
	"math"

	"github.com/san-kum/motionkit/internal/dynamo"
	"github.com/san-kum/motionkit/internal/spring"
)

// The motion metrics read second-order states (positions then velocities)
// and treat the input as the target position.

// Overshoot is how far the value travelled past the target, as a fraction of
// the distance it started from. A new target restarts the measurement baseline.
type Overshoot struct {
	start  dynamo.Vec
	target dynamo.Vec
	max    float64
}

func NewOvershoot() *Overshoot { return &Overshoot{} }

func (o *Overshoot) Name() string { return "overshoot" }

func (o *Overshoot) Observe(x dynamo.State, u dynamo.Input, t float64) {
	pos, _ := x.Split()
	target := dynamo.Vec(u)
	if o.target == nil || !sameVec(o.target, target) {
		o.start = pos.Clone()
		o.target = target.Clone()
	}

	d0 := o.start.Sub(o.target)
	dist2 := dot(d0, d0)
	if dist2 == 0 {
		return
	}
	// Displacement along the initial direction; negative means past the target.
	along := dot(pos.Sub(o.target), d0) / dist2
	o.max = math.Max(o.max, -along)
}

func (o *Overshoot) Value() float64 { return o.max }

func (o *Overshoot) Reset() {
	o.start, o.target = nil, nil
	o.max = 0
}

// SettleTime is the time from which the spring stays settled for the rest of
// the run, or -1 if it never settles.
type SettleTime struct {
	Threshold float64

	since float64
}

func NewSettleTime(threshold float64) *SettleTime {
	if threshold <= 0 {
		threshold = spring.DefaultThreshold
	}
	return &SettleTime{Threshold: threshold, since: -1}
}

func (s *SettleTime) Name() string { return "settle_time" }

func (s *SettleTime) Observe(x dynamo.State, u dynamo.Input, t float64) {
	pos, vel := x.Split()
	settled := spring.Settled(spring.State{Position: pos, Velocity: vel}, dynamo.Vec(u), s.Threshold)
	switch {
	case !settled:
		s.since = -1
	case s.since < 0:
		s.since = t
	}
}

func (s *SettleTime) Value() float64 { return s.since }

func (s *SettleTime) Reset() { s.since = -1 }

// PeakSpeed is the largest velocity magnitude seen.
type PeakSpeed struct {
	peak float64
}

func NewPeakSpeed() *PeakSpeed { return &PeakSpeed{} }

func (p *PeakSpeed) Name() string { return "peak_speed" }

func (p *PeakSpeed) Observe(x dynamo.State, u dynamo.Input, t float64) {
	_, vel := x.Split()
	p.peak = math.Max(p.peak, vel.Norm())
}

func (p *PeakSpeed) Value() float64 { return p.peak }

func (p *PeakSpeed) Reset() { p.peak = 0 }

// Motion returns the standard metric set for a spring run.
func Motion(threshold float64) []dynamo.Metric {
	return []dynamo.Metric{NewOvershoot(), NewSettleTime(threshold), NewPeakSpeed()}
}

func dot(a, b dynamo.Vec) float64 {
	s := 0.0
	for i := range a {
		if i < len(b) {
			s += a[i] * b[i]
		}
	}
	return s
}

func sameVec(a, b dynamo.Vec) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
