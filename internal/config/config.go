package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kelswick/monsim/internal/econ"
)

const (
	DefaultEpochs  = 200
	DefaultDataDir = "runs"
)

type Config struct {
	Epochs  int          `yaml:"epochs"`
	Seed    int64        `yaml:"seed"`
	NoNoise bool         `yaml:"no_noise"`
	DataDir string       `yaml:"data_dir"`
	Params  ParamsConfig `yaml:"params"`
}

type ParamsConfig struct {
	Kp float64 `yaml:"kp"`
	Ki float64 `yaml:"ki"`
	Kd float64 `yaml:"kd"`

	TargetVelocity  float64 `yaml:"target_velocity"`
	InitialSupply   float64 `yaml:"initial_supply"`
	InitialVelocity float64 `yaml:"initial_velocity"`
	InitialPrice    float64 `yaml:"initial_price"`
	InitialOutput   float64 `yaml:"initial_output"`

	Floor   float64 `yaml:"floor"`
	Ceiling float64 `yaml:"ceiling"`

	StimulusMultiplier float64 `yaml:"stimulus_multiplier"`
	StimulusBoost      float64 `yaml:"stimulus_boost"`
	DemurrageRate      float64 `yaml:"demurrage_rate"`
	ExtractionDamping  float64 `yaml:"extraction_damping"`
	StagnationRatio    float64 `yaml:"stagnation_ratio"`
	OverheatRatio      float64 `yaml:"overheat_ratio"`

	OutputDecay   float64 `yaml:"output_decay"`
	NoiseStdDev   float64 `yaml:"noise_std_dev"`
	VelocityFloor float64 `yaml:"velocity_floor"`

	MaintenanceCost float64 `yaml:"maintenance_cost"`
	GenesisCost     float64 `yaml:"genesis_cost"`
}

func DefaultConfig() *Config {
	return &Config{
		Epochs:  DefaultEpochs,
		DataDir: DefaultDataDir,
		Params:  FromParams(econ.Default()),
	}
}

// FromParams mirrors engine parameters into their config representation.
func FromParams(p econ.Params) ParamsConfig {
	return ParamsConfig{
		Kp:                 p.Kp,
		Ki:                 p.Ki,
		Kd:                 p.Kd,
		TargetVelocity:     p.TargetVelocity,
		InitialSupply:      p.InitialSupply,
		InitialVelocity:    p.InitialVelocity,
		InitialPrice:       p.InitialPrice,
		InitialOutput:      p.InitialOutput,
		Floor:              p.Floor,
		Ceiling:            p.Ceiling,
		StimulusMultiplier: p.StimulusMultiplier,
		StimulusBoost:      p.StimulusBoost,
		DemurrageRate:      p.DemurrageRate,
		ExtractionDamping:  p.ExtractionDamping,
		StagnationRatio:    p.StagnationRatio,
		OverheatRatio:      p.OverheatRatio,
		OutputDecay:        p.OutputDecay,
		NoiseStdDev:        p.NoiseStdDev,
		VelocityFloor:      p.VelocityFloor,
		MaintenanceCost:    p.MaintenanceCost,
		GenesisCost:        p.GenesisCost,
	}
}

// EconParams assembles the engine parameters for this configuration,
// applying the seed and the noise toggle.
func (c *Config) EconParams() econ.Params {
	p := econ.Params{
		Kp:                 c.Params.Kp,
		Ki:                 c.Params.Ki,
		Kd:                 c.Params.Kd,
		TargetVelocity:     c.Params.TargetVelocity,
		InitialSupply:      c.Params.InitialSupply,
		InitialVelocity:    c.Params.InitialVelocity,
		InitialPrice:       c.Params.InitialPrice,
		InitialOutput:      c.Params.InitialOutput,
		Floor:              c.Params.Floor,
		Ceiling:            c.Params.Ceiling,
		StimulusMultiplier: c.Params.StimulusMultiplier,
		StimulusBoost:      c.Params.StimulusBoost,
		DemurrageRate:      c.Params.DemurrageRate,
		ExtractionDamping:  c.Params.ExtractionDamping,
		StagnationRatio:    c.Params.StagnationRatio,
		OverheatRatio:      c.Params.OverheatRatio,
		OutputDecay:        c.Params.OutputDecay,
		NoiseStdDev:        c.Params.NoiseStdDev,
		VelocityFloor:      c.Params.VelocityFloor,
		MaintenanceCost:    c.Params.MaintenanceCost,
		GenesisCost:        c.Params.GenesisCost,
		Seed:               c.Seed,
	}
	if c.NoNoise {
		p.NoiseStdDev = 0
	}
	return p
}

// Load reads a yaml config file. Missing keys keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
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
