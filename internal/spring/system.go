package spring

import (
	"fmt"

	"github.com/san-kum/motionkit/internal/dynamo"
)

// Spring exposes a Dim-dimensional damped spring as a dynamo.System so the
// simulation runner and the integrators can drive it. The input is the target.
type Spring struct {
	Params
	Dim int
	// Anchor is the rest position used by Energy.
	Anchor dynamo.Vec
}

func NewSpring(p Params, dim int) *Spring {
	if dim < 1 {
		dim = 1
	}
	return &Spring{Params: p, Dim: dim, Anchor: make(dynamo.Vec, dim)}
}

func (s *Spring) StateDim() int { return s.Dim * 2 }
func (s *Spring) InputDim() int { return s.Dim }

func (s *Spring) Derive(x dynamo.State, u dynamo.Input, t float64) dynamo.State {
	pos, vel := x.Split()
	dx := make(dynamo.State, len(x))
	copy(dx, vel)

	if s.Mass == 0 {
		return dx
	}
	for i := range pos {
		force := -s.Stiffness*(pos[i]-at(dynamo.Vec(u), i)) - s.Damping*vel[i]
		dx[len(pos)+i] = force / s.Mass
	}
	return dx
}

// Energy is kinetic plus elastic energy relative to Anchor.
func (s *Spring) Energy(x dynamo.State) float64 {
	pos, vel := x.Split()
	e := 0.0
	for i := range pos {
		d := pos[i] - at(s.Anchor, i)
		e += 0.5*s.Mass*vel[i]*vel[i] + 0.5*s.Stiffness*d*d
	}
	return e
}

func (s *Spring) GetParams() map[string]float64 {
	return map[string]float64{
		"stiffness": s.Stiffness,
		"damping":   s.Damping,
		"mass":      s.Mass,
	}
}

func (s *Spring) SetParam(name string, value float64) error {
	if value < 0 {
		return fmt.Errorf("%w: %s=%f", dynamo.ErrParameterBounds, name, value)
	}
	switch name {
	case "stiffness":
		s.Stiffness = value
	case "damping":
		s.Damping = value
	case "mass":
		s.Mass = value
	default:
		return fmt.Errorf("%w: %s", dynamo.ErrUnknownParam, name)
	}
	return nil
}
