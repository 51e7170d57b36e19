package automation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/motionkit/internal/control"
	"github.com/san-kum/motionkit/internal/dynamo"
	"github.com/san-kum/motionkit/internal/easing"
	"github.com/san-kum/motionkit/internal/integrators"
	"github.com/san-kum/motionkit/internal/metrics"
	"github.com/san-kum/motionkit/internal/sim"
	"github.com/san-kum/motionkit/internal/spring"
	"github.com/san-kum/motionkit/internal/storage"
)

var ErrEmptyScenario = errors.New("automation: scenario has no steps")

// Scenario is a scripted list of spring runs, usually one per interaction of
// a page, checked and optionally recorded in one go.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep describes one run. The target either stays at Target, follows
// Keyframes, or glides there along Tween.
type ScenarioStep struct {
	Name       string             `yaml:"name"`
	Spring     string             `yaml:"spring"`
	Params     map[string]float64 `yaml:"params"`
	Integrator string             `yaml:"integrator"`
	Dt         float64            `yaml:"dt"`
	Duration   float64            `yaml:"duration"`
	Threshold  float64            `yaml:"threshold"`
	From       float64            `yaml:"from"`
	Target     float64            `yaml:"target"`
	Keyframes  []control.Keyframe `yaml:"keyframes"`
	Tween      *TweenStep         `yaml:"tween"`
	Save       bool               `yaml:"save"`
	// Expect lists upper bounds on metrics. Exceeding one fails the step.
	Expect map[string]float64 `yaml:"expect"`
}

type TweenStep struct {
	Start    float64 `yaml:"start"`
	Duration float64 `yaml:"duration"`
	Ease     string  `yaml:"ease"`
}

// Outcome is the result of one step.
type Outcome struct {
	Step        string
	Metrics     map[string]float64
	RecordingID string
	Failures    []string
}

func (o Outcome) Passed() bool { return len(o.Failures) == 0 }

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario %s: %w", path, err)
	}
	if len(sc.Steps) == 0 {
		return nil, ErrEmptyScenario
	}
	return &sc, nil
}

// RunScenario executes every step in order. Steps with Save are written to
// st, which may be nil when nothing is saved.
func RunScenario(ctx context.Context, sc *Scenario, st *storage.Store) ([]Outcome, error) {
	if len(sc.Steps) == 0 {
		return nil, ErrEmptyScenario
	}
	outcomes := make([]Outcome, 0, len(sc.Steps))

	for i, step := range sc.Steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step-%d", i+1)
		}
		slog.Info("running scenario step", "scenario", sc.Name, "step", name, "index", i+1, "of", len(sc.Steps))

		out, err := runStep(ctx, name, step, st)
		if err != nil {
			return outcomes, fmt.Errorf("step %d (%s): %w", i+1, name, err)
		}
		outcomes = append(outcomes, out)
	}
	return outcomes, nil
}

func runStep(ctx context.Context, name string, step ScenarioStep, st *storage.Store) (Outcome, error) {
	preset := step.Spring
	if preset == "" {
		preset = "default"
	}
	p, err := spring.Preset(preset)
	if err != nil {
		return Outcome{}, err
	}
	sys := spring.NewSpring(p, 1)
	for k, v := range step.Params {
		if err := sys.SetParam(k, v); err != nil {
			return Outcome{}, err
		}
	}

	integName := step.Integrator
	if integName == "" {
		integName = "semi-euler"
	}
	integ, err := integrators.ByName(integName)
	if err != nil {
		return Outcome{}, err
	}

	driver, err := step.driver()
	if err != nil {
		return Outcome{}, err
	}

	s := sim.New(sys, integ, driver)
	for _, m := range metrics.Motion(step.Threshold) {
		s.AddMetric(m)
	}

	cfg := dynamo.DefaultConfig()
	if step.Dt > 0 {
		cfg.Dt = step.Dt
	}
	if step.Duration > 0 {
		cfg.Duration = step.Duration
	}

	result, err := s.Run(ctx, dynamo.State{step.From, 0}, cfg)
	if err != nil {
		return Outcome{}, err
	}

	out := Outcome{Step: name, Metrics: result.Metrics}
	for _, e := range result.Errors {
		out.Failures = append(out.Failures, e.Error())
	}
	for metric, limit := range step.Expect {
		v, ok := result.Metrics[metric]
		switch {
		case !ok:
			out.Failures = append(out.Failures, fmt.Sprintf("unknown metric %s", metric))
		case metric == "settle_time" && v < 0:
			out.Failures = append(out.Failures, "never settled")
		case v > limit:
			out.Failures = append(out.Failures, fmt.Sprintf("%s %.4f exceeds %.4f", metric, v, limit))
		}
	}

	if step.Save && st != nil {
		params := sys.GetParams()
		params["from"], params["target"] = step.From, step.Target
		id, err := st.Save(storage.Recording{
			Kind:       "scenario",
			Name:       name,
			Dt:         cfg.Dt,
			Duration:   cfg.Duration,
			Integrator: integName,
			Params:     params,
		}, result)
		if err != nil {
			return out, err
		}
		out.RecordingID = id
	}
	return out, nil
}

func (step ScenarioStep) driver() (dynamo.Driver, error) {
	switch {
	case step.Tween != nil:
		tw := control.Tween{
			From:     dynamo.Vec{step.From},
			To:       dynamo.Vec{step.Target},
			Start:    step.Tween.Start,
			Duration: step.Tween.Duration,
		}
		if step.Tween.Ease != "" {
			f, err := easing.Parse(step.Tween.Ease)
			if err != nil {
				return nil, err
			}
			tw.Ease = f
		}
		return tw, nil
	case len(step.Keyframes) > 0:
		return control.NewKeyframes(dynamo.Vec{step.Target}, step.Keyframes...), nil
	default:
		return dynamo.Fixed{step.Target}, nil
	}
}
