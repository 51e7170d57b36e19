package easing

import (
	"math"

	"github.com/san-kum/motionkit/internal/mathx"
)

const (
	newtonIterations     = 4
	newtonMinSlope       = 0.001
	subdivisionPrecision = 1e-7
	subdivisionMaxIters  = 10

	splineTableSize = 11
	sampleStepSize  = 1.0 / (splineTableSize - 1)
)

// CubicBezier is a CSS-style timing curve through (0,0), (x1,y1), (x2,y2), (1,1).
type CubicBezier struct {
	X1, Y1, X2, Y2 float64

	linear  bool
	samples [splineTableSize]float64
}

func NewCubicBezier(x1, y1, x2, y2 float64) *CubicBezier {
	b := &CubicBezier{X1: x1, Y1: y1, X2: x2, Y2: y2}
	if x1 == y1 && x2 == y2 {
		b.linear = true
		return b
	}
	for i := range b.samples {
		b.samples[i] = bezierAt(float64(i)*sampleStepSize, x1, x2)
	}
	return b
}

// Ease maps linear progress t to eased progress. Ease(0) is 0 and Ease(1) is 1.
func (b *CubicBezier) Ease(t float64) float64 {
	if b.linear {
		return mathx.Clamp01(t)
	}
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return bezierAt(b.solveT(t), b.Y1, b.Y2)
}

// Func returns Ease as a plain easing function.
func (b *CubicBezier) Func() Func { return b.Ease }

// solveT finds the curve parameter whose x coordinate is x.
func (b *CubicBezier) solveT(x float64) float64 {
	intervalStart := 0.0
	sample := 1
	last := splineTableSize - 1

	for ; sample != last && b.samples[sample] <= x; sample++ {
		intervalStart += sampleStepSize
	}
	sample--

	span := b.samples[sample+1] - b.samples[sample]
	dist := 0.0
	if span != 0 {
		dist = (x - b.samples[sample]) / span
	}
	guess := intervalStart + dist*sampleStepSize

	slope := slopeAt(guess, b.X1, b.X2)
	switch {
	case slope >= newtonMinSlope:
		return newtonRaphson(x, guess, b.X1, b.X2)
	case slope == 0:
		return guess
	default:
		return subdivide(x, intervalStart, intervalStart+sampleStepSize, b.X1, b.X2)
	}
}

func newtonRaphson(x, guess, p1, p2 float64) float64 {
	for i := 0; i < newtonIterations; i++ {
		slope := slopeAt(guess, p1, p2)
		if slope == 0 {
			return guess
		}
		guess -= (bezierAt(guess, p1, p2) - x) / slope
	}
	return guess
}

func subdivide(x, a, b, p1, p2 float64) float64 {
	var cur, t float64
	for i := 0; i < subdivisionMaxIters; i++ {
		t = a + (b-a)/2
		cur = bezierAt(t, p1, p2) - x
		if cur > 0 {
			b = t
		} else {
			a = t
		}
		if math.Abs(cur) <= subdivisionPrecision {
			break
		}
	}
	return t
}

// Polynomial form of one coordinate with endpoints pinned at 0 and 1:
// B(t) = ((A*t + B)*t + C)*t
func coefA(p1, p2 float64) float64 { return 1 - 3*p2 + 3*p1 }
func coefB(p1, p2 float64) float64 { return 3*p2 - 6*p1 }
func coefC(p1 float64) float64     { return 3 * p1 }

func bezierAt(t, p1, p2 float64) float64 {
	return ((coefA(p1, p2)*t+coefB(p1, p2))*t + coefC(p1)) * t
}

func slopeAt(t, p1, p2 float64) float64 {
	return 3*coefA(p1, p2)*t*t + 2*coefB(p1, p2)*t + coefC(p1)
}
