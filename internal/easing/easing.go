package easing

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

var (
	ErrUnknownEasing   = errors.New("easing: unknown easing")
	ErrMalformedBezier = errors.New("easing: malformed cubic-bezier")
)

// Func maps normalized time to normalized progress.
type Func func(t float64) float64

// Bezier control points for the named CSS-style curves.
var bezierPresets = map[string][4]float64{
	"ease":        {0.25, 0.1, 0.25, 1},
	"ease-in":     {0.42, 0, 1, 1},
	"ease-out":    {0, 0, 0.58, 1},
	"ease-in-out": {0.42, 0, 0.58, 1},
	"smooth":      {0.16, 1, 0.3, 1},
	"circ-in-out": {0.85, 0, 0.15, 1},
	"back-out":    {0.34, 1.56, 0.64, 1},
}

var closedForms = map[string]Func{
	"linear":       Linear,
	"quad-in":      func(t float64) float64 { return t * t },
	"quad-out":     func(t float64) float64 { return 1 - (1-t)*(1-t) },
	"quad-in-out":  inOut(2),
	"cubic-in":     func(t float64) float64 { return t * t * t },
	"cubic-out":    func(t float64) float64 { return 1 - math.Pow(1-t, 3) },
	"cubic-in-out": inOut(3),
	"quart-in":     func(t float64) float64 { return math.Pow(t, 4) },
	"quart-out":    func(t float64) float64 { return 1 - math.Pow(1-t, 4) },
	"quart-in-out": inOut(4),
	"sine-in":      func(t float64) float64 { return 1 - math.Cos(t*math.Pi/2) },
	"sine-out":     func(t float64) float64 { return math.Sin(t * math.Pi / 2) },
	"sine-in-out":  func(t float64) float64 { return -(math.Cos(math.Pi*t) - 1) / 2 },
	"expo-in":      expoIn,
	"expo-out":     expoOut,
}

func Linear(t float64) float64 { return t }

func inOut(power float64) Func {
	return func(t float64) float64 {
		if t < 0.5 {
			return math.Pow(2, power-1) * math.Pow(t, power)
		}
		return 1 - math.Pow(-2*t+2, power)/2
	}
}

func expoIn(t float64) float64 {
	if t <= 0 {
		return 0
	}
	return math.Pow(2, 10*t-10)
}

func expoOut(t float64) float64 {
	if t >= 1 {
		return 1
	}
	return 1 - math.Pow(2, -10*t)
}

// Named returns the easing registered under name.
func Named(name string) (Func, error) {
	if p, ok := bezierPresets[name]; ok {
		return NewCubicBezier(p[0], p[1], p[2], p[3]).Ease, nil
	}
	if f, ok := closedForms[name]; ok {
		return clamped(f), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEasing, name)
}

// Names lists every registered easing, sorted.
func Names() []string {
	names := make([]string, 0, len(bezierPresets)+len(closedForms))
	for n := range bezierPresets {
		names = append(names, n)
	}
	for n := range closedForms {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Parse accepts a preset name, "cubic-bezier(a, b, c, d)" or four bare numbers.
func Parse(s string) (Func, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrUnknownEasing)
	}

	if f, err := Named(s); err == nil {
		return f, nil
	}

	body := s
	if strings.HasPrefix(s, "cubic-bezier") {
		open := strings.Index(s, "(")
		end := strings.LastIndex(s, ")")
		if open < 0 || end < open {
			return nil, fmt.Errorf("%w: %q", ErrMalformedBezier, s)
		}
		body = s[open+1 : end]
	} else if !strings.ContainsAny(s, ", \t") {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEasing, s)
	}

	p, err := ParsePoints(body)
	if err != nil {
		return nil, err
	}
	return NewCubicBezier(p[0], p[1], p[2], p[3]).Ease, nil
}

// ParsePoints reads four control-point coordinates separated by commas or spaces.
func ParsePoints(s string) ([4]float64, error) {
	var p [4]float64
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	if len(fields) != 4 {
		return p, fmt.Errorf("%w: want 4 values, got %d", ErrMalformedBezier, len(fields))
	}
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return p, fmt.Errorf("%w: %v", ErrMalformedBezier, err)
		}
		p[i] = v
	}
	return p, nil
}

func clamped(f Func) Func {
	return func(t float64) float64 {
		if t <= 0 {
			return 0
		}
		if t >= 1 {
			return 1
		}
		return f(t)
	}
}

// Sample evaluates f at n+1 evenly spaced points over [0, 1].
func Sample(f Func, n int) []float64 {
	if n < 1 {
		n = 1
	}
	out := make([]float64, n+1)
	for i := 0; i <= n; i++ {
		out[i] = f(float64(i) / float64(n))
	}
	return out
}

// IsMonotonic reports whether f never decreases across n+1 samples.
func IsMonotonic(f Func, n int) bool {
	s := Sample(f, n)
	for i := 1; i < len(s); i++ {
		if s[i] < s[i-1] {
			return false
		}
	}
	return true
}
