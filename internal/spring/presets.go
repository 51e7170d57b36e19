package spring

import (
	"fmt"
	"sort"
)

// Presets are the named spring configurations used across the site effects.
var Presets = map[string]Params{
	"default":  {Stiffness: 170, Damping: 26, Mass: 1},
	"gentle":   {Stiffness: 120, Damping: 14, Mass: 1},
	"wobbly":   {Stiffness: 180, Damping: 12, Mass: 1},
	"stiff":    {Stiffness: 210, Damping: 20, Mass: 1},
	"slow":     {Stiffness: 280, Damping: 60, Mass: 1},
	"molasses": {Stiffness: 280, Damping: 120, Mass: 1},
	"magnetic": {Stiffness: 150, Damping: 15, Mass: 0.1},
}

func Preset(name string) (Params, error) {
	p, ok := Presets[name]
	if !ok {
		return Params{}, fmt.Errorf("unknown spring preset: %s (available: %v)", name, PresetNames())
	}
	return p, nil
}

func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for n := range Presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
