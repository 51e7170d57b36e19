package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/motionkit/internal/dynamo"
	"github.com/san-kum/motionkit/internal/spring"
)

// oscillator is x'' = -x, state {x, v}.
type oscillator struct{}

func (o *oscillator) Derive(x dynamo.State, u dynamo.Input, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

func (o *oscillator) StateDim() int { return 2 }
func (o *oscillator) InputDim() int { return 0 }

// damped is x'' = -k(x-u) - c v with k=100, c=20 (critically damped).
type damped struct{}

func (d *damped) Derive(x dynamo.State, u dynamo.Input, t float64) dynamo.State {
	return dynamo.State{x[1], -100*(x[0]-u[0]) - 20*x[1]}
}

func (d *damped) StateDim() int { return 2 }
func (d *damped) InputDim() int { return 1 }

func run(integ dynamo.Integrator, dyn dynamo.System, x dynamo.State, u dynamo.Input, dt float64, steps int) dynamo.State {
	for i := 0; i < steps; i++ {
		x = integ.Step(dyn, x, u, float64(i)*dt, dt)
	}
	return x
}

func TestRK4Accuracy(t *testing.T) {
	x := run(NewRK4(), &oscillator{}, dynamo.State{1.0, 0.0}, nil, 0.01, 100)

	if math.Abs(x[0]-math.Cos(1)) > 1e-6 {
		t.Errorf("position error too large: got %.8f, expected %.8f", x[0], math.Cos(1))
	}
	if math.Abs(x[1]+math.Sin(1)) > 1e-6 {
		t.Errorf("velocity error too large: got %.8f, expected %.8f", x[1], -math.Sin(1))
	}
}

func TestEulerFirstStep(t *testing.T) {
	x := NewEuler().Step(&oscillator{}, dynamo.State{1, 0}, nil, 0, 0.1)
	if x[0] != 1 || x[1] != -0.1 {
		t.Errorf("explicit euler should use the old velocity, got %v", x)
	}
}

func TestSemiImplicitEulerFirstStep(t *testing.T) {
	x := NewSemiImplicitEuler().Step(&oscillator{}, dynamo.State{1, 0}, nil, 0, 0.1)
	if math.Abs(x[1]+0.1) > 1e-12 {
		t.Errorf("expected velocity -0.1, got %f", x[1])
	}
	if math.Abs(x[0]-0.99) > 1e-12 {
		t.Errorf("position should use the new velocity: expected 0.99, got %f", x[0])
	}
}

func TestSemiImplicitEulerBoundedEnergy(t *testing.T) {
	x := run(NewSemiImplicitEuler(), &oscillator{}, dynamo.State{1, 0}, nil, 0.05, 2000)
	e := 0.5 * (x[0]*x[0] + x[1]*x[1])
	if math.Abs(e-0.5) > 0.05 {
		t.Errorf("energy drifted to %f", e)
	}
}

func TestAllConvergeToTarget(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			integ, err := ByName(name)
			if err != nil {
				t.Fatal(err)
			}
			x := run(integ, &damped{}, dynamo.State{0, 0}, dynamo.Input{1}, 1.0/120, 600)
			if math.Abs(x[0]-1) > 1e-3 || math.Abs(x[1]) > 1e-2 {
				t.Errorf("did not settle at target: %v", x)
			}
		})
	}
}

func TestHarmonicIndependentOfStepSize(t *testing.T) {
	sys := spring.NewSpring(spring.Presets["wobbly"], 2)
	u := dynamo.Input{100, -40}

	coarse := run(NewHarmonic(), sys, dynamo.State{0, 0, 0, 0}, u, 1.0/30, 15)
	fine := run(NewHarmonic(), sys, dynamo.State{0, 0, 0, 0}, u, 1.0/480, 240)
	for i := range coarse {
		if math.Abs(coarse[i]-fine[i]) > 1e-6 {
			t.Errorf("component %d: %v at 1/30 vs %v at 1/480", i, coarse[i], fine[i])
		}
	}
}

func TestHarmonicFollowsParamChanges(t *testing.T) {
	sys := spring.NewSpring(spring.Presets["default"], 1)
	h := NewHarmonic()
	u := dynamo.Input{1}

	a := h.Step(sys, dynamo.State{0, 0}, u, 0, 1.0/60)
	if err := sys.SetParam("stiffness", 400); err != nil {
		t.Fatal(err)
	}
	b := h.Step(sys, dynamo.State{0, 0}, u, 0, 1.0/60)
	if b[0] <= a[0] {
		t.Errorf("stiffer spring should move further in one step: %v vs %v", b[0], a[0])
	}
}

func TestHarmonicFallback(t *testing.T) {
	got := NewHarmonic().Step(&oscillator{}, dynamo.State{1, 0}, nil, 0, 0.1)
	want := NewSemiImplicitEuler().Step(&oscillator{}, dynamo.State{1, 0}, nil, 0, 0.1)
	if got[0] != want[0] || got[1] != want[1] {
		t.Errorf("expected semi-implicit euler for non-spring systems, got %v want %v", got, want)
	}
}

func TestByNameUnknown(t *testing.T) {
	if _, err := ByName("midpoint"); err == nil {
		t.Error("expected error for unknown integrator")
	}
}

func BenchmarkEuler(b *testing.B)             { benchStep(b, NewEuler()) }
func BenchmarkSemiImplicitEuler(b *testing.B) { benchStep(b, NewSemiImplicitEuler()) }
func BenchmarkRK4(b *testing.B)               { benchStep(b, NewRK4()) }
func BenchmarkVerlet(b *testing.B)            { benchStep(b, NewVerlet()) }

func BenchmarkHarmonic(b *testing.B) {
	sys := spring.NewSpring(spring.Presets["default"], 1)
	h := NewHarmonic()
	x := dynamo.State{0, 0}
	u := dynamo.Input{1}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = h.Step(sys, x, u, 0, 1.0/60)
	}
}

func benchStep(b *testing.B, integ dynamo.Integrator) {
	dyn := &damped{}
	x := dynamo.State{0, 0}
	u := dynamo.Input{1}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integ.Step(dyn, x, u, 0, 1.0/60)
	}
}
