package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/motionkit/internal/dynamo"
	"github.com/san-kum/motionkit/internal/integrators"
	"github.com/san-kum/motionkit/internal/spring"
)

type decay struct{}

func (decay) Derive(x dynamo.State, u dynamo.Input, t float64) dynamo.State {
	return dynamo.State{-x[0]}
}

func (decay) StateDim() int { return 1 }
func (decay) InputDim() int { return 0 }

type blowup struct{}

func (blowup) Derive(x dynamo.State, u dynamo.Input, t float64) dynamo.State {
	return dynamo.State{math.Inf(1)}
}

func (blowup) StateDim() int { return 1 }
func (blowup) InputDim() int { return 0 }

func TestSimulatorRun(t *testing.T) {
	sim := New(decay{}, integrators.NewEuler(), nil)

	cfg := dynamo.Config{Dt: 0.1, Duration: 1.0}
	result, err := sim.Run(context.Background(), dynamo.State{1.0}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.States) != 11 {
		t.Errorf("expected 11 states, got %d", len(result.States))
	}
	if len(result.Times) != 11 {
		t.Errorf("expected 11 times, got %d", len(result.Times))
	}

	final := result.States[len(result.States)-1][0]
	expected := math.Exp(-1.0)
	if math.Abs(final-expected) > 0.2 {
		t.Errorf("expected final state ~%.4f, got %.4f", expected, final)
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	sim := New(decay{}, integrators.NewEuler(), nil)

	tests := []struct {
		name string
		x0   dynamo.State
		cfg  dynamo.Config
	}{
		{"zero dt", dynamo.State{1}, dynamo.Config{Dt: 0, Duration: 1.0}},
		{"negative dt", dynamo.State{1}, dynamo.Config{Dt: -0.1, Duration: 1.0}},
		{"zero duration", dynamo.State{1}, dynamo.Config{Dt: 0.1, Duration: 0}},
		{"negative duration", dynamo.State{1}, dynamo.Config{Dt: 0.1, Duration: -1.0}},
		{"wrong dimension", dynamo.State{1, 2}, dynamo.Config{Dt: 0.1, Duration: 1.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := sim.Run(context.Background(), tt.x0, tt.cfg); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}

	_, err := sim.Run(context.Background(), dynamo.State{1, 2}, dynamo.DefaultConfig())
	if !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

type countMetric struct {
	count int
	sum   float64
}

func (m *countMetric) Name() string { return "mean" }
func (m *countMetric) Observe(x dynamo.State, u dynamo.Input, t float64) {
	m.count++
	m.sum += x[0]
}
func (m *countMetric) Value() float64 {
	if m.count == 0 {
		return 0
	}
	return m.sum / float64(m.count)
}
func (m *countMetric) Reset() {
	m.count = 0
	m.sum = 0
}

func TestSimulatorMetrics(t *testing.T) {
	sim := New(decay{}, integrators.NewEuler(), nil)
	metric := &countMetric{}
	sim.AddMetric(metric)

	result, err := sim.Run(context.Background(), dynamo.State{1.0}, dynamo.Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, ok := result.Metrics["mean"]; !ok {
		t.Error("metric not found in result")
	}
	if metric.count != 10 {
		t.Errorf("expected 10 observations, got %d", metric.count)
	}
}

func TestSimulatorInvalidState(t *testing.T) {
	sim := New(blowup{}, integrators.NewEuler(), nil)
	cfg := dynamo.Config{Dt: 0.1, Duration: 1.0, ValidateState: true}

	result, err := sim.Run(context.Background(), dynamo.State{0}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !result.Stopped || len(result.Errors) != 1 {
		t.Fatalf("expected one error and an early stop, got %+v", result.Errors)
	}
	if !errors.Is(result.Errors[0], dynamo.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", result.Errors[0])
	}
	if result.StepsTaken != 0 {
		t.Errorf("expected no steps recorded, got %d", result.StepsTaken)
	}
}

func TestSimulatorCancel(t *testing.T) {
	sim := New(decay{}, integrators.NewEuler(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sim.Run(ctx, dynamo.State{1}, dynamo.DefaultConfig())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSimulatorStopsWhenSettled(t *testing.T) {
	p := spring.Presets["default"]
	sys := spring.NewSpring(p, 1)
	sim := New(sys, integrators.NewSemiImplicitEuler(), dynamo.Fixed{1})

	cfg := dynamo.DefaultConfig()
	cfg.Duration = 10
	cfg.StopWhen = func(x dynamo.State, u dynamo.Input, t float64) bool {
		pos, vel := x.Split()
		return spring.Settled(spring.State{Position: pos, Velocity: vel}, dynamo.Vec(u), spring.DefaultThreshold)
	}

	result, err := sim.Run(context.Background(), dynamo.State{0, 0}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !result.Stopped {
		t.Fatal("expected the run to stop once settled")
	}
	if last := result.Times[len(result.Times)-1]; last >= 10 {
		t.Errorf("expected settling well before 10s, got %v", last)
	}
}

func TestRunWithCallback(t *testing.T) {
	sim := New(decay{}, integrators.NewRK4(), nil)
	calls := 0
	err := sim.RunWithCallback(context.Background(), dynamo.State{1}, dynamo.Config{Dt: 0.01, Duration: 1}, func(x dynamo.State, u dynamo.Input, t float64) bool {
		calls++
		return calls < 5
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 5 {
		t.Errorf("expected callback to stop the run at 5 calls, got %d", calls)
	}
}
