package spring

import (
	"github.com/charmbracelet/harmonica"

	"github.com/san-kum/motionkit/internal/dynamo"
)

// Harmonic is the closed-form damped oscillator from harmonica. It is
// unconditionally stable for any frame length and serves as the reference
// the Euler step is checked against.
//
// A spring with zero stiffness or mass has no angular frequency, and
// harmonica leaves such a state untouched.
type Harmonic struct {
	spring harmonica.Spring
	Omega  float64
	Zeta   float64
	Dt     float64
}

// NewHarmonic precomputes coefficients for a fixed frame rate.
func NewHarmonic(p Params, fps int) Harmonic {
	return NewHarmonicStep(p, harmonica.FPS(fps))
}

// NewHarmonicStep precomputes coefficients for steps of dt seconds.
func NewHarmonicStep(p Params, dt float64) Harmonic {
	omega := AngularFrequency(p)
	zeta := DampingRatio(p)
	return Harmonic{
		spring: harmonica.NewSpring(dt, omega, zeta),
		Omega:  omega,
		Zeta:   zeta,
		Dt:     dt,
	}
}

// Update advances s by one step toward target.
func (h Harmonic) Update(s State, target dynamo.Vec) State {
	next := s.normalized()
	for i := range next.Position {
		next.Position[i], next.Velocity[i] = h.spring.Update(next.Position[i], next.Velocity[i], at(target, i))
	}
	return next
}
