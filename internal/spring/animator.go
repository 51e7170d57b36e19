package spring

import (
	"math"

	"github.com/san-kum/motionkit/internal/dynamo"
)

// DefaultMaxStep caps a single integration step; longer frames are split.
// Light, heavily damped springs (the magnetic preset) go unstable at 1/60.
const DefaultMaxStep = 1.0 / 240

// MaxSubsteps bounds the work done for one frame. A frame that would need
// more, such as the first one after a long stall, finishes the animation.
const MaxSubsteps = 2400

// Animator owns one spring-driven value. Once the value settles it snaps to
// the target and stops integrating until the target changes.
type Animator struct {
	Params    Params
	Threshold float64
	MaxStep   float64

	state  State
	target dynamo.Vec
	idle   bool
}

func NewAnimator(p Params, initial dynamo.Vec) *Animator {
	return &Animator{
		Params:    p,
		Threshold: DefaultThreshold,
		MaxStep:   DefaultMaxStep,
		state:     NewState(initial),
		target:    initial.Clone(),
		idle:      true,
	}
}

// SetTarget moves the rest point and wakes the animator.
func (a *Animator) SetTarget(target dynamo.Vec) {
	a.target = target.Clone()
	a.idle = Settled(a.state, a.target, a.Threshold)
}

// Jump places the value at pos with no velocity and no pending motion.
func (a *Animator) Jump(pos dynamo.Vec) {
	a.state = NewState(pos)
	a.target = pos.Clone()
	a.idle = true
}

// Impulse adds velocity, e.g. from a flick gesture.
func (a *Animator) Impulse(v dynamo.Vec) {
	for i := range a.state.Velocity {
		a.state.Velocity[i] += at(v, i)
	}
	a.idle = false
}

// Update advances the animation by dt seconds and reports whether it is
// still moving.
func (a *Animator) Update(dt float64) bool {
	if a.idle || dt <= 0 {
		return !a.idle
	}

	steps := 1
	if a.MaxStep > 0 && dt > a.MaxStep {
		n := math.Ceil(dt / a.MaxStep)
		if n > MaxSubsteps {
			a.finish()
			return false
		}
		steps = int(n)
	}
	h := dt / float64(steps)

	for i := 0; i < steps; i++ {
		a.state = Step(a.state, a.target, a.Params, h)
	}

	if Settled(a.state, a.target, a.Threshold) {
		a.finish()
	}
	return !a.idle
}

// finish snaps the value onto the target at rest.
func (a *Animator) finish() {
	pos := make(dynamo.Vec, len(a.state.Position))
	copy(pos, a.target)
	a.state = NewState(pos)
	a.idle = true
}

func (a *Animator) Position() dynamo.Vec { return a.state.Position.Clone() }
func (a *Animator) Velocity() dynamo.Vec { return a.state.Velocity.Clone() }
func (a *Animator) Target() dynamo.Vec   { return a.target.Clone() }
func (a *Animator) Idle() bool           { return a.idle }

// Value returns the first component, for one-dimensional animators.
func (a *Animator) Value() float64 {
	if len(a.state.Position) == 0 {
		return 0
	}
	return a.state.Position[0]
}
