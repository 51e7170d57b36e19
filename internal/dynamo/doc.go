// Package dynamo provides the shared primitives for motion simulation.
//
// Springs, smoothed values and effect kernels are all small dynamical
// systems. This package defines the vocabulary they share:
//
//   - [State]: flat vector, positions first then velocities
//   - [System]: dX/dt = f(X, u, t) where u is the external input (usually a target)
//   - [Integrator]: advances a System by one timestep
//   - [Driver]: supplies the input over time (a fixed target, a pointer path)
//   - [Metric]: observes a run and reduces it to a number
//
// # Example
//
//	s := spring.NewSpring(spring.Presets["wobbly"], 1)
//	integ := integrators.NewSemiImplicitEuler()
//	x := integ.Step(s, x0, dynamo.Input{1}, 0, 1.0/60)
//
// # Thread Safety
//
// States are plain slices; nothing in this package synchronizes access.
// Each animated element owns its own state.
package dynamo
