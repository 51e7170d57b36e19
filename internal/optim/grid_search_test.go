package optim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/motionkit/internal/dynamo"
	"github.com/san-kum/motionkit/internal/integrators"
	"github.com/san-kum/motionkit/internal/metrics"
	"github.com/san-kum/motionkit/internal/sim"
	"github.com/san-kum/motionkit/internal/spring"
)

func TestLinspace(t *testing.T) {
	got := Linspace(0, 1, 5)
	want := []float64{0, 0.25, 0.5, 0.75, 1}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("Linspace[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if len(Linspace(3, 9, 1)) != 1 {
		t.Error("expected single value for n=1")
	}
}

func TestGridSearchQuadratic(t *testing.T) {
	g := NewGridSearch([]string{"a", "b"}, [][]float64{Linspace(-2, 2, 5), Linspace(-2, 2, 5)})
	if g.Size() != 25 {
		t.Fatalf("expected 25 points, got %d", g.Size())
	}

	calls := 0
	run := func(ctx context.Context, p map[string]float64) (map[string]float64, error) {
		calls++
		a, b := p["a"], p["b"]
		return map[string]float64{"cost": (a-1)*(a-1) + (b+1)*(b+1), "a": a}, nil
	}

	best, all, err := g.Search(context.Background(), run, "cost")
	if err != nil {
		t.Fatal(err)
	}
	if calls != 25 || len(all) != 25 {
		t.Errorf("expected 25 evaluations, got %d calls and %d candidates", calls, len(all))
	}
	if best.Params["a"] != 1 || best.Params["b"] != -1 || best.Score != 0 {
		t.Errorf("unexpected best %+v", best)
	}

	g.Limits = map[string]float64{"a": 0}
	best, _, err = g.Search(context.Background(), run, "cost")
	if err != nil {
		t.Fatal(err)
	}
	if best.Params["a"] != 0 {
		t.Errorf("limit should exclude a > 0, got %+v", best.Params)
	}

	g.Limits = map[string]float64{"a": -5}
	if _, _, err := g.Search(context.Background(), run, "cost"); !errors.Is(err, ErrNoCandidate) {
		t.Errorf("expected ErrNoCandidate, got %v", err)
	}
}

func TestGridSearchNegativeRanksLast(t *testing.T) {
	g := NewGridSearch([]string{"x"}, [][]float64{{1, 2, 3}})
	run := func(ctx context.Context, p map[string]float64) (map[string]float64, error) {
		if p["x"] == 1 {
			return map[string]float64{"settle_time": -1}, nil
		}
		return map[string]float64{"settle_time": p["x"]}, nil
	}
	best, all, err := g.Search(context.Background(), run, "settle_time")
	if err != nil {
		t.Fatal(err)
	}
	if best.Params["x"] != 2 {
		t.Errorf("expected x=2, got %v", best.Params["x"])
	}
	if !math.IsInf(all[len(all)-1].Score, 1) {
		t.Error("never-settling run should rank last")
	}
}

func TestGridSearchCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g := NewGridSearch([]string{"x"}, [][]float64{{1, 2}})
	run := func(ctx context.Context, p map[string]float64) (map[string]float64, error) {
		return map[string]float64{}, nil
	}
	if _, _, err := g.Search(ctx, run, "m"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestTuneSpring(t *testing.T) {
	run := func(ctx context.Context, p map[string]float64) (map[string]float64, error) {
		s := sim.New(spring.NewSpring(spring.Params{Stiffness: p["stiffness"], Damping: p["damping"], Mass: 1}, 1),
			integrators.NewSemiImplicitEuler(), dynamo.Fixed{100})
		for _, m := range metrics.Motion(0.01) {
			s.AddMetric(m)
		}
		cfg := dynamo.DefaultConfig()
		cfg.Duration = 3
		r, err := s.Run(ctx, dynamo.State{0, 0}, cfg)
		if err != nil {
			return nil, err
		}
		return r.Metrics, nil
	}

	g := NewGridSearch([]string{"stiffness", "damping"}, [][]float64{{100, 200, 300}, {5, 20, 40}})
	g.Limits = map[string]float64{"overshoot": 0.01}
	best, _, err := g.Search(context.Background(), run, "settle_time")
	if err != nil {
		t.Fatal(err)
	}
	if best.Metrics["overshoot"] > 0.01 {
		t.Errorf("best candidate violates overshoot limit: %v", best.Metrics)
	}
	if best.Params["damping"] == 5 {
		t.Error("lightly damped springs overshoot and should be rejected")
	}
}
