package spring

import (
	"math"

	"github.com/san-kum/motionkit/internal/dynamo"
)

// DefaultThreshold is the settle tolerance used when none is given, in the
// same units as the animated value (pixels for most effects).
const DefaultThreshold = 0.01

// Params are the physical constants of a damped spring.
type Params struct {
	Stiffness float64 `yaml:"stiffness" json:"stiffness"`
	Damping   float64 `yaml:"damping" json:"damping"`
	Mass      float64 `yaml:"mass" json:"mass"`
}

// State is the position and velocity of a spring-driven value.
type State struct {
	Position dynamo.Vec
	Velocity dynamo.Vec
}

// NewState returns a state at rest at pos.
func NewState(pos dynamo.Vec) State {
	return State{Position: pos.Clone(), Velocity: make(dynamo.Vec, len(pos))}
}

func (s State) Clone() State {
	return State{Position: s.Position.Clone(), Velocity: s.Velocity.Clone()}
}

// normalized copies s with one velocity component per position component.
// Missing components are zero.
func (s State) normalized() State {
	vel := make(dynamo.Vec, len(s.Position))
	copy(vel, s.Velocity)
	return State{Position: s.Position.Clone(), Velocity: vel}
}

// Step advances s toward target by dt. Force is -k*(x-target) - c*v; the
// velocity is updated first and the position moves with the new velocity.
// A zero mass yields no motion.
func Step(s State, target dynamo.Vec, p Params, dt float64) State {
	next := s.normalized()
	if p.Mass == 0 {
		return next
	}
	for i := range next.Position {
		springForce := -p.Stiffness * (next.Position[i] - at(target, i))
		dampingForce := -p.Damping * next.Velocity[i]
		acc := (springForce + dampingForce) / p.Mass

		next.Velocity[i] += acc * dt
		next.Position[i] += next.Velocity[i] * dt
	}
	return next
}

// Settled reports whether the distance to the target and the speed are both
// below threshold.
func Settled(s State, target dynamo.Vec, threshold float64) bool {
	offset := make(dynamo.Vec, len(s.Position))
	for i := range s.Position {
		offset[i] = s.Position[i] - at(target, i)
	}
	return offset.Norm() < threshold && s.Velocity.Norm() < threshold
}

// at reads component i, treating missing components as zero.
func at(v dynamo.Vec, i int) float64 {
	if i < len(v) {
		return v[i]
	}
	return 0
}

// AngularFrequency is the undamped natural frequency sqrt(k/m) in rad/s.
func AngularFrequency(p Params) float64 {
	if p.Mass <= 0 || p.Stiffness <= 0 {
		return 0
	}
	return math.Sqrt(p.Stiffness / p.Mass)
}

// DampingRatio is c / (2*sqrt(k*m)). Below 1 the spring overshoots.
func DampingRatio(p Params) float64 {
	crit := 2 * math.Sqrt(p.Stiffness*p.Mass)
	if crit == 0 {
		return 0
	}
	return p.Damping / crit
}
