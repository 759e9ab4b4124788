package config

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownPreset is returned by Preset for names with no registered
// configuration.
var ErrUnknownPreset = errors.New("config: unknown preset")

var Presets = map[string]*Config{
	"default":    DefaultConfig(),
	"classic":    classicConfig(),
	"aggressive": aggressiveConfig(),
	"sluggish":   sluggishConfig(),
	"crisis":     crisisConfig(),
}

// classicConfig reproduces the first-generation economy: no output boost
// during stimulus and no natural output decay, so the supply response is the
// only stabilizer.
func classicConfig() *Config {
	c := DefaultConfig()
	c.Params.StimulusBoost = 0
	c.Params.OutputDecay = 1.0
	return c
}

func aggressiveConfig() *Config {
	c := DefaultConfig()
	c.Params.Kp = 0.30
	c.Params.Ki = 0.05
	c.Params.Kd = 0.12
	c.Params.Floor = -0.08
	c.Params.Ceiling = 0.30
	return c
}

func sluggishConfig() *Config {
	c := DefaultConfig()
	c.Params.Kp = 0.05
	c.Params.Ki = 0.005
	c.Params.Kd = 0.02
	return c
}

// crisisConfig starts the economy deep in stagnation.
func crisisConfig() *Config {
	c := DefaultConfig()
	c.Epochs = 250
	c.Params.InitialVelocity = 2.0
	return c
}

// Preset returns a copy of the named preset configuration.
func Preset(name string) (*Config, error) {
	cfg, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	out := *cfg
	return &out, nil
}

// PresetNames lists the presets in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
