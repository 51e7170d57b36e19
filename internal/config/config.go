package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/motionkit/internal/audio"
	"github.com/san-kum/motionkit/internal/dynamo"
	"github.com/san-kum/motionkit/internal/easing"
	"github.com/san-kum/motionkit/internal/spring"
	"github.com/san-kum/motionkit/internal/viewport"
)

const (
	DefaultDt              = 1.0 / 60
	DefaultDuration        = 3.0
	DefaultIntegrator      = "semi-euler"
	DefaultSpringPreset    = "default"
	DefaultTarget          = 100.0
	DefaultEasing          = "ease-out"
	DefaultEasingSamples   = 60
	DefaultViewportHeight  = 800.0
	DefaultRevealThreshold = 0.2
	DefaultScrollStep      = 200.0
	DefaultCursorRadius    = 120.0
	DefaultCursorStrength  = 0.3
)

var ErrInvalidConfig = errors.New("config: invalid")

type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Spring     SpringConfig     `yaml:"spring"`
	Easing     EasingConfig     `yaml:"easing"`
	Scroll     ScrollConfig     `yaml:"scroll"`
	Audio      audio.Options    `yaml:"audio"`
	Cursor     CursorConfig     `yaml:"cursor"`
}

type SimulationConfig struct {
	Dt         float64 `yaml:"dt"`
	Duration   float64 `yaml:"duration"`
	Integrator string  `yaml:"integrator"`
}

// SpringConfig starts from a named preset. Non-zero fields override it.
type SpringConfig struct {
	Preset    string  `yaml:"preset"`
	Stiffness float64 `yaml:"stiffness,omitempty"`
	Damping   float64 `yaml:"damping,omitempty"`
	Mass      float64 `yaml:"mass,omitempty"`
	Threshold float64 `yaml:"threshold"`
	From      float64 `yaml:"from"`
	Target    float64 `yaml:"target"`
}

type EasingConfig struct {
	Curve   string `yaml:"curve"`
	Samples int    `yaml:"samples"`
}

type ScrollConfig struct {
	ViewportHeight  float64            `yaml:"viewport_height"`
	Sections        []viewport.Section `yaml:"sections"`
	RevealThreshold float64            `yaml:"reveal_threshold"`
	Step            float64            `yaml:"step"`
}

type CursorConfig struct {
	Radius   float64 `yaml:"radius"`
	Strength float64 `yaml:"strength"`
	Preset   string  `yaml:"preset"`
}

func DefaultSections() []viewport.Section {
	return []viewport.Section{
		{ID: "hero", Height: 800},
		{ID: "portfolio", Height: 1600},
		{ID: "about", Height: 700},
		{ID: "commission", Height: 900},
		{ID: "contact", Height: 500},
	}
}

func DefaultConfig() *Config {
	return &Config{
		Simulation: SimulationConfig{
			Dt:         DefaultDt,
			Duration:   DefaultDuration,
			Integrator: DefaultIntegrator,
		},
		Spring: SpringConfig{
			Preset:    DefaultSpringPreset,
			Threshold: spring.DefaultThreshold,
			Target:    DefaultTarget,
		},
		Easing: EasingConfig{
			Curve:   DefaultEasing,
			Samples: DefaultEasingSamples,
		},
		Scroll: ScrollConfig{
			ViewportHeight:  DefaultViewportHeight,
			Sections:        DefaultSections(),
			RevealThreshold: DefaultRevealThreshold,
			Step:            DefaultScrollStep,
		},
		Audio: audio.Options{
			FrameSize:  audio.DefaultFrameSize,
			Bins:       audio.DefaultBins,
			Smoothing:  audio.DefaultSmoothing,
			SampleRate: audio.DefaultSampleRate,
		},
		Cursor: CursorConfig{
			Radius:   DefaultCursorRadius,
			Strength: DefaultCursorStrength,
			Preset:   "magnetic",
		},
	}
}

// Load reads a YAML file over the defaults, so a file only needs the values
// it changes.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Simulation.Dt <= 0 {
		return fmt.Errorf("%w: simulation.dt must be positive, got %g", ErrInvalidConfig, c.Simulation.Dt)
	}
	if c.Simulation.Duration <= 0 {
		return fmt.Errorf("%w: simulation.duration must be positive, got %g", ErrInvalidConfig, c.Simulation.Duration)
	}
	if c.Scroll.ViewportHeight <= 0 {
		return fmt.Errorf("%w: scroll.viewport_height must be positive", ErrInvalidConfig)
	}
	if _, err := c.SpringParams(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := easing.Parse(c.Easing.Curve); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// SpringParams resolves the preset and applies overrides.
func (c *Config) SpringParams() (spring.Params, error) {
	name := c.Spring.Preset
	if name == "" {
		name = DefaultSpringPreset
	}
	p, err := spring.Preset(name)
	if err != nil {
		return spring.Params{}, err
	}
	if c.Spring.Stiffness > 0 {
		p.Stiffness = c.Spring.Stiffness
	}
	if c.Spring.Damping > 0 {
		p.Damping = c.Spring.Damping
	}
	if c.Spring.Mass > 0 {
		p.Mass = c.Spring.Mass
	}
	return p, nil
}

func (c *Config) SimConfig() dynamo.Config {
	cfg := dynamo.DefaultConfig()
	cfg.Dt = c.Simulation.Dt
	cfg.Duration = c.Simulation.Duration
	return cfg
}

func (c *Config) EasingFunc() (easing.Func, error) {
	return easing.Parse(c.Easing.Curve)
}

// Document builds the simulated page described by the scroll section.
func (c *Config) Document() *viewport.Document {
	sections := c.Scroll.Sections
	if len(sections) == 0 {
		sections = DefaultSections()
	}
	return viewport.NewDocument(viewport.Viewport{Height: c.Scroll.ViewportHeight}, sections...)
}
