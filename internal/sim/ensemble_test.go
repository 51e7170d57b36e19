package sim

import (
	"context"
	"testing"

	"github.com/san-kum/motionkit/internal/dynamo"
	"github.com/san-kum/motionkit/internal/integrators"
	"github.com/san-kum/motionkit/internal/spring"
)

func TestEnsembleKeepsOrder(t *testing.T) {
	names := spring.PresetNames()
	e := NewEnsemble(2)
	for _, name := range names {
		sys := spring.NewSpring(spring.Presets[name], 1)
		e.Add(Job{
			Name: name,
			Sim:  New(sys, integrators.NewRK4(), dynamo.Fixed{1}),
			X0:   dynamo.State{0, 0},
		})
	}
	if e.Len() != len(names) {
		t.Fatalf("expected %d jobs, got %d", len(names), e.Len())
	}

	cfg := dynamo.Config{Dt: 1.0 / 240, Duration: 3}
	results, err := e.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}

	for i, r := range results {
		if r == nil {
			t.Fatalf("missing result for %s", names[i])
		}
		if len(r.States) != 721 {
			t.Errorf("%s: expected 721 states, got %d", names[i], len(r.States))
		}
	}
}

func TestEnsembleError(t *testing.T) {
	e := NewEnsemble(0,
		Job{Name: "ok", Sim: New(decay{}, integrators.NewEuler(), nil), X0: dynamo.State{1}},
		Job{Name: "bad", Sim: New(decay{}, integrators.NewEuler(), nil), X0: dynamo.State{1, 2}},
	)
	if _, err := e.Run(context.Background(), dynamo.DefaultConfig()); err == nil {
		t.Error("expected error from mismatched job")
	}
}
