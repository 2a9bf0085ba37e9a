package config

import (
	"fmt"
	"maps"
	"slices"

	"github.com/phanxgames/bubblepop"
)

// Presets are named simulation tunings selectable with simulation.preset.
var Presets = map[string]SimulationConfig{
	"classic": simulationFromTuning(bubblepop.DefaultTuning()),
	"calm": {
		InitialBubbles: 8, SpawnRadius: 5, GrowthStep: 0.25, WobbleAmplitude: 0.3,
		Speed: [2]float64{-0.4, 0.4}, MaxRadius: [2]float64{30, 60}, WobbleSpeed: [2]float64{0.005, 0.03},
	},
	"frenzy": {
		InitialBubbles: 40, SpawnRadius: 5, GrowthStep: 1, WobbleAmplitude: 0.8,
		Speed: [2]float64{-2, 2}, MaxRadius: [2]float64{15, 35}, WobbleSpeed: [2]float64{0.03, 0.12},
	},
}

// ApplyPreset replaces the simulation tuning with the named preset, keeping
// the seed.
func (c *Config) ApplyPreset(name string) error {
	p, ok := Presets[name]
	if !ok {
		return fmt.Errorf("config: unknown preset %q (have %v)", name, ListPresets())
	}
	seed := c.Simulation.Seed
	c.Simulation = p
	c.Simulation.Seed = seed
	c.Simulation.Preset = name
	return nil
}

// ListPresets returns the preset names in sorted order.
func ListPresets() []string {
	return slices.Sorted(maps.Keys(Presets))
}
