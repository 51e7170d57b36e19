package integrators

import (
	"github.com/san-kum/motionkit/internal/dynamo"
	"github.com/san-kum/motionkit/internal/spring"
)

// Harmonic steps spring systems with the closed-form solution, so the result
// does not depend on how a run is divided into steps. Other systems fall back
// to semi-implicit Euler. Coefficients are cached until the parameters or the
// step length change.
type Harmonic struct {
	fallback SemiImplicitEuler

	cached bool
	params spring.Params
	dt     float64
	step   spring.Harmonic
}

func NewHarmonic() *Harmonic {
	return &Harmonic{}
}

func (h *Harmonic) Step(dyn dynamo.System, x dynamo.State, u dynamo.Input, t float64, dt float64) dynamo.State {
	sp, ok := dyn.(*spring.Spring)
	if !ok {
		return h.fallback.Step(dyn, x, u, t, dt)
	}
	if !h.cached || h.params != sp.Params || h.dt != dt {
		h.step = spring.NewHarmonicStep(sp.Params, dt)
		h.params, h.dt, h.cached = sp.Params, dt, true
	}

	pos, vel := x.Split()
	next := h.step.Update(spring.State{Position: pos, Velocity: vel}, dynamo.Vec(u))
	return dynamo.Join(next.Position, next.Velocity)
}
