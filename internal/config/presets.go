package config

import (
	"sort"

	"github.com/san-kum/motionkit/internal/viewport"
)

// Presets are ready-made configurations grouped by the kind of motion they
// exercise. GetPreset hands out copies.
var Presets = map[string]map[string]*Config{
	"spring": {
		"button-press": withSpring(SpringConfig{Preset: "stiff", From: 0, Target: 8, Threshold: 0.01}, 1.0),
		"card-hover":   withSpring(SpringConfig{Preset: "wobbly", From: 0, Target: 12, Threshold: 0.01}, 2.0),
		"page-slide":   withSpring(SpringConfig{Preset: "slow", From: 0, Target: 1200, Threshold: 0.5}, 2.0),
		"magnet":       withSpring(SpringConfig{Preset: "magnetic", From: 0, Target: 36, Threshold: 0.01}, 1.0),
	},
	"scroll": {
		"portfolio": withSections(900,
			viewport.Section{ID: "hero", Height: 900},
			viewport.Section{ID: "gallery", Height: 2400},
			viewport.Section{ID: "process", Height: 1100},
			viewport.Section{ID: "contact", Height: 600},
		),
		"product": withSections(760,
			viewport.Section{ID: "cover", Height: 760},
			viewport.Section{ID: "details", Height: 1200},
			viewport.Section{ID: "pricing", Height: 900},
			viewport.Section{ID: "faq", Height: 800},
		),
		"mobile": withSections(640,
			viewport.Section{ID: "hero", Height: 640},
			viewport.Section{ID: "portfolio", Height: 3200},
			viewport.Section{ID: "about", Height: 1400},
		),
	},
	"easing": {
		"reveal":  withEasing("smooth"),
		"bounce":  withEasing("back-out"),
		"counter": withEasing("expo-out"),
	},
}

func withSpring(s SpringConfig, duration float64) *Config {
	cfg := DefaultConfig()
	cfg.Spring = s
	cfg.Simulation.Duration = duration
	return cfg
}

func withSections(viewportHeight float64, sections ...viewport.Section) *Config {
	cfg := DefaultConfig()
	cfg.Scroll.ViewportHeight = viewportHeight
	cfg.Scroll.Sections = sections
	return cfg
}

func withEasing(curve string) *Config {
	cfg := DefaultConfig()
	cfg.Easing.Curve = curve
	return cfg
}

func GetPreset(kind, preset string) *Config {
	kindPresets, ok := Presets[kind]
	if !ok {
		return nil
	}
	cfg, ok := kindPresets[preset]
	if !ok {
		return nil
	}
	c := *cfg
	c.Scroll.Sections = append([]viewport.Section(nil), cfg.Scroll.Sections...)
	return &c
}

func ListPresets(kind string) []string {
	kindPresets, ok := Presets[kind]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(kindPresets))
	for name := range kindPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Kinds lists the preset groups.
func Kinds() []string {
	kinds := make([]string, 0, len(Presets))
	for k := range Presets {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
