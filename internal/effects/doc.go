// Package effects holds the per-frame kernels behind the site's decorative
// motion: magnetic buttons, parallax layers, hover tilt, scroll reveals,
// animated counters and idle drift.
//
// Every kernel owns its state exclusively and is advanced by the caller's
// frame loop with the elapsed time in seconds.
package effects
