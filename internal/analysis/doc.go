// Package analysis characterizes recorded motion.
//
//   - [PowerSpectrum] and [DominantFrequency]: oscillation content of a trace
//   - [Phase]: position/velocity trajectory around the rest point
//   - [ParamSweep]: metrics as one spring parameter varies
//
// A lightly damped spring rings near its damped natural frequency:
//
//	f := analysis.DominantFrequency(result.Column(0), cfg.Dt)
package analysis
