package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/motionkit/internal/audio"
	"github.com/san-kum/motionkit/internal/config"
)

var (
	dataDir    string
	configFile string
	logLevel   string
	preset     string

	dt         float64
	duration   float64
	integrator string
	springName string
	stiffness  float64
	damping    float64
	mass       float64
	from       float64
	target     float64
	threshold  float64
	save       bool
	name       string
	keyframes  string

	maxOvershoot float64
	gridSize     int

	samples int
	svgOut  string

	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	workers    int

	viewportHeight float64
	scrollStep     float64
	asJSON         bool

	theme     string
	audioFile string
	loop      bool

	xAxis  int
	yAxis  int
	output string
	curve  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "motionkit",
		Short:         "easing, spring and scroll motion toolkit",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logLevel)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".motionkit", "recordings directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	easeCmd := &cobra.Command{
		Use:   "ease [curve]",
		Short: "plot an easing curve",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEase,
	}
	easeCmd.Flags().IntVar(&samples, "samples", config.DefaultEasingSamples, "samples across [0,1]")
	easeCmd.Flags().StringVar(&svgOut, "svg", "", "also write the curve as SVG")
	easeCmd.Flags().StringVar(&preset, "preset", "", "easing preset configuration")

	springCmd := &cobra.Command{
		Use:   "spring",
		Short: "simulate a spring toward a target",
		RunE:  runSpring,
	}
	addSpringFlags(springCmd)
	springCmd.Flags().BoolVar(&save, "save", false, "save the run as a recording")
	springCmd.Flags().StringVar(&name, "name", "", "recording name")
	springCmd.Flags().StringVar(&keyframes, "keyframes", "", "retarget at times, e.g. 0.5:200,1.2:40")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "search stiffness and damping for the fastest settle",
		RunE:  runTune,
	}
	addSpringFlags(tuneCmd)
	tuneCmd.Flags().Float64Var(&maxOvershoot, "max-overshoot", 0.02, "largest acceptable overshoot fraction")
	tuneCmd.Flags().IntVar(&gridSize, "grid", 8, "values per parameter")

	runCmd := &cobra.Command{
		Use:   "run [scenario.yaml]",
		Short: "run a scripted scenario of spring interactions",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "compare spring presets or sweep one parameter",
		RunE:  runSweep,
	}
	addSpringFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "", "parameter to sweep (stiffness, damping, mass)")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 5, "sweep start")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 60, "sweep end")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 12, "sweep points")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "concurrent runs (0 = GOMAXPROCS)")

	scrollCmd := &cobra.Command{
		Use:   "scroll",
		Short: "sample section progress down a page",
		RunE:  runScroll,
	}
	scrollCmd.Flags().Float64Var(&viewportHeight, "viewport", config.DefaultViewportHeight, "viewport height")
	scrollCmd.Flags().Float64Var(&scrollStep, "step", config.DefaultScrollStep, "scroll distance between samples")
	scrollCmd.Flags().BoolVar(&asJSON, "json", false, "print snapshots as JSON")
	scrollCmd.Flags().StringVar(&preset, "preset", "", "scroll preset configuration")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive spring, easing and scroll preview",
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&theme, "theme", "ink", "color theme")
	liveCmd.Flags().StringVar(&springName, "spring", "", "spring preset")
	liveCmd.Flags().StringVar(&curve, "curve", "", "easing curve")

	audioCmd := &cobra.Command{
		Use:   "audio",
		Short: "audio reactive bars from the microphone or a file",
		RunE:  runAudio,
	}
	audioCmd.Flags().StringVar(&audioFile, "file", "", "wav, mp3 or flac file instead of the microphone")
	audioCmd.Flags().BoolVar(&loop, "loop", false, "loop the file")
	audioCmd.Flags().StringVar(&theme, "theme", "ink", "color theme")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recordings",
		RunE:  listRecordings,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [id]",
		Short: "plot a recording",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRecording,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [id]",
		Short: "oscillation frequency and phase portrait",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRecording,
	}
	analyzeCmd.Flags().IntVar(&xAxis, "x-axis", 0, "state index for x-axis")
	analyzeCmd.Flags().IntVar(&yAxis, "y-axis", 1, "state index for y-axis")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [id]",
		Short: "export recording samples to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [id]",
		Short: "export recording metadata and samples to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [id]",
		Short: "render a recording or an easing curve as SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().StringVar(&curve, "curve", "", "easing curve to render instead of a recording")

	deleteCmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "delete a recording",
		Args:  cobra.ExactArgs(1),
		RunE:  deleteRecording,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [kind]",
		Short: "list presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	rootCmd.AddCommand(easeCmd, springCmd, tuneCmd, runCmd, sweepCmd, scrollCmd, liveCmd, audioCmd,
		listCmd, plotCmd, analyzeCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, deleteCmd, presetsCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addSpringFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "", "spring preset configuration")
	cmd.Flags().StringVar(&springName, "spring", config.DefaultSpringPreset, "spring parameters preset")
	cmd.Flags().Float64Var(&stiffness, "stiffness", 0, "override stiffness")
	cmd.Flags().Float64Var(&damping, "damping", 0, "override damping")
	cmd.Flags().Float64Var(&mass, "mass", 0, "override mass")
	cmd.Flags().Float64Var(&from, "from", 0, "start position")
	cmd.Flags().Float64Var(&target, "target", config.DefaultTarget, "target position")
	cmd.Flags().Float64Var(&threshold, "threshold", 0.01, "settle threshold")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator (harmonic is the closed-form reference)")
}

func setupLogging(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return fmt.Errorf("invalid log level %q", level)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	audio.SetLogger(logger.With("component", "audio"))
	return nil
}

// loadConfig resolves the effective configuration: a named preset of kind,
// else the config file, else the defaults.
func loadConfig(kind string) (*config.Config, error) {
	if preset != "" {
		cfg := config.GetPreset(kind, preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown %s preset: %s (available: %v)", kind, preset, config.ListPresets(kind))
		}
		slog.Debug("using preset", "kind", kind, "preset", preset)
		return cfg, nil
	}
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		slog.Debug("loaded config", "path", configFile)
		return cfg, nil
	}
	return config.DefaultConfig(), nil
}

// applySpringFlags lets explicit flags override the configuration.
func applySpringFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("spring") {
		cfg.Spring.Preset = springName
	}
	if flags.Changed("stiffness") {
		cfg.Spring.Stiffness = stiffness
	}
	if flags.Changed("damping") {
		cfg.Spring.Damping = damping
	}
	if flags.Changed("mass") {
		cfg.Spring.Mass = mass
	}
	if flags.Changed("from") {
		cfg.Spring.From = from
	}
	if flags.Changed("target") {
		cfg.Spring.Target = target
	}
	if flags.Changed("threshold") {
		cfg.Spring.Threshold = threshold
	}
	if flags.Changed("dt") {
		cfg.Simulation.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Simulation.Duration = duration
	}
	if flags.Changed("integrator") {
		cfg.Simulation.Integrator = integrator
	}
}

func writeOutput(path string, write func(f *os.File) error) error {
	if path == "" {
		return write(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	slog.Info("wrote file", "path", path)
	return nil
}
