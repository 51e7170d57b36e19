package dynamo

import (
	"math"
)

type State []float64

// Vec is a position or velocity vector. It shares State's algebra.
type Vec = State

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// MaxAbs returns the largest absolute component (the infinity norm).
func (s State) MaxAbs() float64 {
	m := 0.0
	for _, v := range s {
		if a := math.Abs(v); a > m {
			m = a
		}
	}
	return m
}

func (s State) Add(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] + other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Scale(factor float64) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] * factor
	}
	return result
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// Split returns the position and velocity halves of a second-order state.
// The halves alias s.
func (s State) Split() (pos, vel Vec) {
	half := len(s) / 2
	return s[:half], s[half:]
}

// Join packs position and velocity into one state.
func Join(pos, vel Vec) State {
	s := make(State, 0, len(pos)+len(vel))
	s = append(s, pos...)
	return append(s, vel...)
}

// Input is the external input to a System, usually the target position.
type Input []float64

type System interface {
	Derive(x State, u Input, t float64) State
	StateDim() int
	InputDim() int
}

type Hamiltonian interface {
	Energy(x State) float64
}

type Integrator interface {
	Step(dyn System, x State, u Input, t float64, dt float64) State
}

// Driver supplies the input for each step.
type Driver interface {
	Drive(x State, t float64) Input
}

// Fixed drives a system toward a constant target.
type Fixed Input

func (f Fixed) Drive(x State, t float64) Input { return Input(f) }

// DriverFunc adapts a plain function to Driver.
type DriverFunc func(x State, t float64) Input

func (f DriverFunc) Drive(x State, t float64) Input { return f(x, t) }

type Metric interface {
	Name() string
	Observe(x State, u Input, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(x State, u Input, t float64)
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

type Config struct {
	Dt            float64
	Duration      float64
	ValidateState bool
	// StopWhen ends the run early once it returns true.
	StopWhen func(x State, u Input, t float64) bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            1.0 / 60,
		Duration:      2.0,
		ValidateState: true,
	}
}

type Result struct {
	States      []State
	Inputs      []Input
	Times       []float64
	Metrics     map[string]float64
	EnergyDrift float64
	StepsTaken  int
	Stopped     bool
	Errors      []error
}

// Column extracts component i of every recorded state.
func (r *Result) Column(i int) []float64 {
	out := make([]float64, 0, len(r.States))
	for _, s := range r.States {
		if i < len(s) {
			out = append(out, s[i])
		}
	}
	return out
}
