// Package spring integrates damped springs for UI motion.
//
// [Step] is the per-frame primitive: Hooke's law plus linear damping,
// advanced with a semi-implicit Euler step. [Settled] tells callers when
// further frames would not move anything, and [Animator] wraps both so an
// element stops doing per-frame work once it comes to rest.
//
// [Spring] adapts the same physics to [dynamo.System] for offline traces,
// and [Harmonic] wraps the closed-form solver from harmonica.
//
//	a := spring.NewAnimator(spring.Presets["wobbly"], dynamo.Vec{0, 0})
//	a.SetTarget(dynamo.Vec{120, -40})
//	for a.Update(1.0 / 60) {
//	    draw(a.Position())
//	}
package spring
