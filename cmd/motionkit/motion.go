package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/motionkit/internal/analysis"
	"github.com/san-kum/motionkit/internal/audio"
	"github.com/san-kum/motionkit/internal/automation"
	"github.com/san-kum/motionkit/internal/config"
	"github.com/san-kum/motionkit/internal/control"
	"github.com/san-kum/motionkit/internal/dynamo"
	"github.com/san-kum/motionkit/internal/easing"
	"github.com/san-kum/motionkit/internal/export"
	"github.com/san-kum/motionkit/internal/integrators"
	"github.com/san-kum/motionkit/internal/metrics"
	"github.com/san-kum/motionkit/internal/optim"
	"github.com/san-kum/motionkit/internal/sim"
	"github.com/san-kum/motionkit/internal/spring"
	"github.com/san-kum/motionkit/internal/storage"
	"github.com/san-kum/motionkit/internal/viewport"
	"github.com/san-kum/motionkit/internal/viz"
)

func runEase(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig("easing")
	if err != nil {
		return err
	}
	spec := cfg.Easing.Curve
	if len(args) > 0 {
		spec = args[0]
	}
	if !cmd.Flags().Changed("samples") && cfg.Easing.Samples > 0 {
		samples = cfg.Easing.Samples
	}

	f, err := easing.Parse(spec)
	if err != nil {
		return err
	}

	values := easing.Sample(f, samples)
	fmt.Println(asciigraph.Plot(values,
		asciigraph.Height(12),
		asciigraph.Width(72),
		asciigraph.Caption(spec),
	))
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "T\tVALUE")
	for _, t := range []float64{0, 0.1, 0.25, 0.5, 0.75, 0.9, 1} {
		fmt.Fprintf(w, "%.2f\t%.4f\n", t, f(t))
	}
	w.Flush()

	if easing.IsMonotonic(f, 1000) {
		fmt.Println("\nmonotonic: yes")
	} else {
		lo, hi := minMax(easing.Sample(f, 1000))
		fmt.Printf("\nmonotonic: no (range %.3f to %.3f)\n", lo, hi)
	}

	if svgOut != "" {
		svg := export.CurveSVG(f, 200, "#ff5a36", export.DefaultOptions())
		if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("svg: %s\n", svgOut)
	}
	return nil
}

// newSpringSim builds a one-dimensional spring run toward cfg's target. A nil
// driver holds the target fixed.
func newSpringSim(cfg *config.Config, p spring.Params, driver dynamo.Driver) (*sim.Simulator, *spring.Spring, dynamo.State, error) {
	integ, err := integrators.ByName(cfg.Simulation.Integrator)
	if err != nil {
		return nil, nil, nil, err
	}
	sys := spring.NewSpring(p, 1)
	sys.Anchor = dynamo.Vec{cfg.Spring.Target}

	if driver == nil {
		driver = dynamo.Fixed{cfg.Spring.Target}
	}
	s := sim.New(sys, integ, driver)
	for _, m := range metrics.Motion(cfg.Spring.Threshold) {
		s.AddMetric(m)
	}
	s.AddMetric(metrics.NewResidualEnergy(sys))
	s.AddMetric(metrics.NewEnergyGain(sys))
	return s, sys, dynamo.State{cfg.Spring.From, 0}, nil
}

func runSpring(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig("spring")
	if err != nil {
		return err
	}
	applySpringFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	p, err := cfg.SpringParams()
	if err != nil {
		return err
	}
	var driver dynamo.Driver
	if keyframes != "" {
		frames, err := control.ParseKeyframes(keyframes)
		if err != nil {
			return err
		}
		driver = control.NewKeyframes(dynamo.Vec{cfg.Spring.Target}, frames...)
	}
	s, sys, x0, err := newSpringSim(cfg, p, driver)
	if err != nil {
		return err
	}

	simCfg := cfg.SimConfig()
	slog.Info("running spring", "preset", cfg.Spring.Preset, "integrator", cfg.Simulation.Integrator, "dt", simCfg.Dt)
	start := time.Now()
	result, err := s.Run(cmd.Context(), x0, simCfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Println(asciigraph.Plot(result.Column(0),
		asciigraph.Height(12),
		asciigraph.Width(72),
		asciigraph.Caption(fmt.Sprintf("%s: %.0f -> %.0f", cfg.Spring.Preset, cfg.Spring.From, cfg.Spring.Target)),
	))
	fmt.Println()

	fmt.Printf("stiffness %.1f  damping %.1f  mass %.2f  ratio %.3f\n", p.Stiffness, p.Damping, p.Mass, spring.DampingRatio(p))
	fmt.Printf("steps: %d in %v\n", result.StepsTaken, elapsed)
	printMetrics(result.Metrics)
	if len(result.Errors) > 0 {
		slog.Warn("run ended early", "err", result.Errors[0])
	}

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		recName := name
		if recName == "" {
			recName = cfg.Spring.Preset
		}
		params := sys.GetParams()
		params["from"] = cfg.Spring.From
		params["target"] = cfg.Spring.Target
		id, err := st.Save(storage.Recording{
			Kind:       "spring",
			Name:       recName,
			Dt:         simCfg.Dt,
			Duration:   simCfg.Duration,
			Integrator: cfg.Simulation.Integrator,
			Params:     params,
		}, result)
		if err != nil {
			return err
		}
		fmt.Printf("recording: %s\n", id)
	}
	return nil
}

func printMetrics(m map[string]float64) {
	fmt.Println("\nmetrics:")
	for _, k := range sortedKeys(m) {
		fmt.Printf("  %-12s %.4f\n", k, m[k])
	}
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig("spring")
	if err != nil {
		return err
	}
	applySpringFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if sweepParam != "" {
		return sweepParameter(cmd.Context(), cfg)
	}

	names := spring.PresetNames()
	ens := sim.NewEnsemble(workers)
	for _, n := range names {
		p, _ := spring.Preset(n)
		s, _, x0, err := newSpringSim(cfg, p, nil)
		if err != nil {
			return err
		}
		ens.Add(sim.Job{Name: n, Sim: s, X0: x0})
	}

	slog.Info("running ensemble", "jobs", ens.Len(), "workers", workers)
	results, err := ens.Run(cmd.Context(), cfg.SimConfig())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tSTIFF\tDAMP\tMASS\tRATIO\tOVERSHOOT\tSETTLE\tPEAK")
	for i, n := range names {
		p := spring.Presets[n]
		m := results[i].Metrics
		settle := "never"
		if v := m["settle_time"]; v >= 0 {
			settle = fmt.Sprintf("%.3fs", v)
		}
		fmt.Fprintf(w, "%s\t%.0f\t%.0f\t%.2f\t%.2f\t%.2f%%\t%s\t%.1f\n",
			n, p.Stiffness, p.Damping, p.Mass, spring.DampingRatio(p), m["overshoot"]*100, settle, m["peak_speed"])
	}
	return w.Flush()
}

func sweepParameter(ctx context.Context, cfg *config.Config) error {
	p, err := cfg.SpringParams()
	if err != nil {
		return err
	}
	integ, err := integrators.ByName(cfg.Simulation.Integrator)
	if err != nil {
		return err
	}
	sys := spring.NewSpring(p, 1)

	points, err := analysis.ParamSweep(ctx, sys, integ, analysis.SweepSpec{
		Param:  sweepParam,
		Min:    sweepMin,
		Max:    sweepMax,
		Steps:  sweepSteps,
		X0:     dynamo.State{cfg.Spring.From, 0},
		Driver: dynamo.Fixed{cfg.Spring.Target},
		Config: cfg.SimConfig(),
		NewMetrics: func() []dynamo.Metric {
			return metrics.Motion(cfg.Spring.Threshold)
		},
	})
	if err != nil {
		return err
	}

	fmt.Println(asciigraph.Plot(analysis.Series(points, "overshoot"),
		asciigraph.Height(10),
		asciigraph.Width(60),
		asciigraph.Caption("overshoot vs "+sweepParam),
	))
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tOVERSHOOT\tSETTLE\tPEAK\n", strings.ToUpper(sweepParam))
	for _, pt := range points {
		fmt.Fprintf(w, "%.2f\t%.2f%%\t%.3f\t%.1f\n", pt.Param, pt.Metrics["overshoot"]*100, pt.Metrics["settle_time"], pt.Metrics["peak_speed"])
	}
	return w.Flush()
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig("spring")
	if err != nil {
		return err
	}
	applySpringFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	base, err := cfg.SpringParams()
	if err != nil {
		return err
	}

	g := optim.NewGridSearch(
		[]string{"stiffness", "damping"},
		[][]float64{optim.Linspace(80, 400, gridSize), optim.Linspace(8, 60, gridSize)},
	)
	g.Limits = map[string]float64{"overshoot": maxOvershoot}

	run := func(ctx context.Context, params map[string]float64) (map[string]float64, error) {
		p := base
		p.Stiffness, p.Damping = params["stiffness"], params["damping"]
		s, _, x0, err := newSpringSim(cfg, p, nil)
		if err != nil {
			return nil, err
		}
		result, err := s.Run(ctx, x0, cfg.SimConfig())
		if err != nil {
			return nil, err
		}
		return result.Metrics, nil
	}

	slog.Info("tuning spring", "points", g.Size(), "max_overshoot", maxOvershoot)
	best, all, err := g.Search(cmd.Context(), run, "settle_time")
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STIFF\tDAMP\tRATIO\tOVERSHOOT\tSETTLE")
	for _, c := range all[:min(len(all), 5)] {
		p := spring.Params{Stiffness: c.Params["stiffness"], Damping: c.Params["damping"], Mass: base.Mass}
		fmt.Fprintf(w, "%.0f\t%.1f\t%.2f\t%.2f%%\t%.3fs\n", p.Stiffness, p.Damping, spring.DampingRatio(p), c.Metrics["overshoot"]*100, c.Metrics["settle_time"])
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nbest: stiffness %.0f, damping %.1f (%d of %d points within limits)\n",
		best.Params["stiffness"], best.Params["damping"], len(all), g.Size())
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	outcomes, err := automation.RunScenario(cmd.Context(), sc, st)
	if err != nil {
		return err
	}

	failed := 0
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tRESULT\tOVERSHOOT\tSETTLE\tRECORDING")
	for _, o := range outcomes {
		status := "ok"
		if !o.Passed() {
			status = "FAIL: " + strings.Join(o.Failures, "; ")
			failed++
		}
		fmt.Fprintf(w, "%s\t%s\t%.2f%%\t%.3f\t%s\n", o.Step, status, o.Metrics["overshoot"]*100, o.Metrics["settle_time"], orDash(o.RecordingID))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d steps failed", failed, len(outcomes))
	}
	return nil
}

func runScroll(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig("scroll")
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("viewport") {
		cfg.Scroll.ViewportHeight = viewportHeight
	}
	if cmd.Flags().Changed("step") {
		cfg.Scroll.Step = scrollStep
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	step := cfg.Scroll.Step
	if step <= 0 {
		step = config.DefaultScrollStep
	}

	doc := cfg.Document()
	tracker := viewport.NewTracker()
	doc.Track(tracker)
	sampler := viewport.NewSampler(tracker)
	sampler.OnChange(func(prev, next string) {
		slog.Debug("active section changed", "from", prev, "to", next, "scroll", doc.ScrollY)
	})

	var snaps []scrollSample
	for y := 0.0; ; y += step {
		doc.ScrollTo(y)
		sampler.Invalidate()
		snaps = append(snaps, scrollSample{
			ScrollY:  doc.ScrollY,
			Page:     doc.ScrollProgress(),
			Snapshot: sampler.Frame(doc.Viewport),
		})
		if y >= doc.MaxScroll() {
			break
		}
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snaps)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	header := []string{"SCROLL", "PAGE", "ACTIVE"}
	for _, s := range doc.Sections {
		header = append(header, strings.ToUpper(s.ID))
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, s := range snaps {
		row := []string{fmt.Sprintf("%.0f", s.ScrollY), fmt.Sprintf("%.0f%%", s.Page*100), orDash(s.Active)}
		for _, sec := range doc.Sections {
			if m, ok := s.Get(sec.ID); ok {
				row = append(row, fmt.Sprintf("%.2f", m.Progress))
			} else {
				row = append(row, "-")
			}
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	frames, evals := sampler.Stats()
	fmt.Printf("\n%d frames, %d evaluations, page height %.0f\n", frames, evals, doc.Height())
	return nil
}

type scrollSample struct {
	ScrollY float64 `json:"scroll_y"`
	Page    float64 `json:"page"`
	viewport.Snapshot
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig("spring")
	if err != nil {
		return err
	}
	if springName != "" {
		cfg.Spring.Preset = springName
	}
	if curve != "" {
		cfg.Easing.Curve = curve
	}
	return viz.Run(viz.Options{
		SpringPreset:    cfg.Spring.Preset,
		Easing:          cfg.Easing.Curve,
		Document:        cfg.Document(),
		ScrollStep:      cfg.Scroll.Step,
		RevealThreshold: cfg.Scroll.RevealThreshold,
		Theme:           theme,
	})
}

func runAudio(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig("")
	if err != nil {
		return err
	}
	opts := cfg.Audio

	var (
		src   audio.Source
		label string
	)
	if audioFile != "" {
		f, err := audio.OpenFile(audioFile, opts.FrameSize)
		if err != nil {
			return err
		}
		defer f.Close()
		f.Loop = loop
		opts.SampleRate = f.SampleRate()
		src, label = f, fmt.Sprintf("%s (%s)", audioFile, f.Duration().Round(time.Second))
	} else {
		mic := audio.NewMic(opts.SampleRate, opts.FrameSize)
		defer mic.Close()
		src, label = mic, "microphone"
	}

	an := audio.NewAnalyzer(opts)
	slog.Info("starting audio", "source", label, "bins", an.Options().Bins)

	inactive, err := viz.RunAudio(an, src, label, theme)
	if inactive != nil {
		slog.Warn("audio inactive", "err", inactive)
	}
	return err
}

func listPresets(cmd *cobra.Command, args []string) error {
	kinds := config.Kinds()
	if len(args) > 0 {
		if config.ListPresets(args[0]) == nil {
			return fmt.Errorf("no presets of kind %s (available: %v)", args[0], kinds)
		}
		kinds = args[:1]
	}
	for _, kind := range kinds {
		fmt.Printf("%s:\n", kind)
		for _, p := range config.ListPresets(kind) {
			fmt.Printf("  %-14s %s\n", p, describePreset(kind, config.GetPreset(kind, p)))
		}
	}
	if len(args) == 0 {
		fmt.Printf("\nsprings: %s\n", strings.Join(spring.PresetNames(), ", "))
		fmt.Printf("easings: %s\n", strings.Join(easing.Names(), ", "))
		fmt.Printf("integrators: %s\n", strings.Join(integrators.Names(), ", "))
	}
	return nil
}

func describePreset(kind string, cfg *config.Config) string {
	switch kind {
	case "spring":
		return fmt.Sprintf("%s spring, %.0f -> %.0f", cfg.Spring.Preset, cfg.Spring.From, cfg.Spring.Target)
	case "scroll":
		ids := make([]string, len(cfg.Scroll.Sections))
		for i, s := range cfg.Scroll.Sections {
			ids[i] = s.ID
		}
		return fmt.Sprintf("viewport %.0f, %s", cfg.Scroll.ViewportHeight, strings.Join(ids, " / "))
	case "easing":
		return cfg.Easing.Curve
	}
	return ""
}
