package analysis

import (
	"context"
	"fmt"

	"github.com/san-kum/motionkit/internal/dynamo"
	"github.com/san-kum/motionkit/internal/sim"
)

// Tunable is a system whose parameters can be changed between runs.
type Tunable interface {
	dynamo.System
	dynamo.Configurable
}

type SweepPoint struct {
	Param   float64            `json:"param"`
	Metrics map[string]float64 `json:"metrics"`
}

// SweepSpec describes a one-parameter sweep. NewMetrics is called once per
// point so metric state never leaks between runs.
type SweepSpec struct {
	Param      string
	Min, Max   float64
	Steps      int
	X0         dynamo.State
	Driver     dynamo.Driver
	Config     dynamo.Config
	NewMetrics func() []dynamo.Metric
}

// ParamSweep runs sys once per parameter value and collects the metrics. The
// original parameter value is restored afterwards.
func ParamSweep(ctx context.Context, sys Tunable, integ dynamo.Integrator, spec SweepSpec) ([]SweepPoint, error) {
	original, ok := sys.GetParams()[spec.Param]
	if !ok {
		return nil, fmt.Errorf("%w: %s", dynamo.ErrUnknownParam, spec.Param)
	}
	defer sys.SetParam(spec.Param, original)

	steps := spec.Steps
	if steps < 2 {
		steps = 2
	}
	stride := (spec.Max - spec.Min) / float64(steps-1)

	points := make([]SweepPoint, 0, steps)
	for i := 0; i < steps; i++ {
		value := spec.Min + float64(i)*stride
		if err := sys.SetParam(spec.Param, value); err != nil {
			return points, err
		}

		s := sim.New(sys, integ, spec.Driver)
		if spec.NewMetrics != nil {
			for _, m := range spec.NewMetrics() {
				s.AddMetric(m)
			}
		}

		result, err := s.Run(ctx, spec.X0, spec.Config)
		if err != nil {
			return points, fmt.Errorf("sweep %s=%g: %w", spec.Param, value, err)
		}
		points = append(points, SweepPoint{Param: value, Metrics: result.Metrics})
	}

	return points, nil
}

// Series extracts one metric across the sweep, for plotting.
func Series(points []SweepPoint, metric string) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Metrics[metric]
	}
	return out
}
