// Package mathx holds the small numeric helpers shared by the easing, spring
// and viewport packages.
package mathx

import "math"

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 limits v to [0, 1].
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// Lerp interpolates between a and b. t is not clamped.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// InvLerp returns where v sits between a and b. Returns 0 when a == b.
func InvLerp(a, b, v float64) float64 {
	if a == b {
		return 0
	}
	return (v - a) / (b - a)
}

// MapRange maps v from [inLo, inHi] onto [outLo, outHi], clamped to the output range.
func MapRange(v, inLo, inHi, outLo, outHi float64) float64 {
	return Lerp(outLo, outHi, Clamp01(InvLerp(inLo, inHi, v)))
}

// Smoothstep is the cubic Hermite ramp from 0 at edge0 to 1 at edge1.
func Smoothstep(edge0, edge1, x float64) float64 {
	t := Clamp01(InvLerp(edge0, edge1, x))
	return t * t * (3 - 2*t)
}

// Damp moves current toward target with exponential decay rate lambda (1/s).
// The result depends only on total elapsed time, not on how dt is split.
func Damp(current, target, lambda, dt float64) float64 {
	return Lerp(current, target, 1-math.Exp(-lambda*dt))
}

// DampFactor converts a per-frame lerp factor tuned at refFPS into the
// equivalent factor for a frame of length dt seconds.
func DampFactor(smoothing, dt, refFPS float64) float64 {
	smoothing = Clamp01(smoothing)
	if smoothing == 1 {
		return 1
	}
	return 1 - math.Pow(1-smoothing, dt*refFPS)
}

// ApproxEqual reports whether a and b differ by at most eps.
func ApproxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}
