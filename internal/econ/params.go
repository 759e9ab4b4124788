package econ

import "fmt"

// Default parameter values for the reference economy.
const (
	DefaultKp = 0.15
	DefaultKi = 0.02
	DefaultKd = 0.08

	DefaultTargetVelocity  = 6.0
	DefaultInitialSupply   = 1000.0
	DefaultInitialVelocity = 5.0
	DefaultInitialPrice    = 1.0
	DefaultInitialOutput   = 5000.0

	DefaultFloor   = -0.05
	DefaultCeiling = 0.20

	DefaultStimulusMultiplier = 1.5
	DefaultStimulusBoost      = 0.15
	DefaultDemurrageRate      = 0.001
	DefaultExtractionDamping  = 0.8
	DefaultStagnationRatio    = 0.8
	DefaultOverheatRatio      = 1.2

	DefaultOutputDecay   = 0.995
	DefaultNoiseStdDev   = 0.02
	DefaultVelocityFloor = 0.1

	DefaultMaintenanceCost = 0.01
	DefaultGenesisCost     = 0.1
)

// Params holds the immutable per-run configuration of an economy. The zero
// value is not usable; start from Default and override fields.
type Params struct {
	// Controller gains.
	Kp float64
	Ki float64
	Kd float64

	TargetVelocity float64

	// Construction-time state. InitialVelocity and InitialOutput are
	// parameters rather than constants so presets and scenarios can start an
	// economy off-equilibrium.
	InitialSupply   float64
	InitialVelocity float64
	InitialPrice    float64
	InitialOutput   float64

	// Floor and Ceiling bound the fractional supply change the controller may
	// request in a single epoch.
	Floor   float64
	Ceiling float64

	// Stimulus (stagnation) policy.
	StimulusMultiplier float64
	StimulusBoost      float64

	// Extraction (overheating) policy.
	DemurrageRate     float64
	ExtractionDamping float64

	// Regime thresholds as fractions of TargetVelocity.
	StagnationRatio float64
	OverheatRatio   float64

	OutputDecay   float64
	NoiseStdDev   float64
	VelocityFloor float64

	// Identity economics, consumed by the sybil attack analysis.
	MaintenanceCost float64
	GenesisCost     float64

	// Seed for the noise generator. Zero means time-seeded; any other value
	// makes trajectories reproducible.
	Seed int64
}

// Default returns the reference economy parameters.
func Default() Params {
	return Params{
		Kp:                 DefaultKp,
		Ki:                 DefaultKi,
		Kd:                 DefaultKd,
		TargetVelocity:     DefaultTargetVelocity,
		InitialSupply:      DefaultInitialSupply,
		InitialVelocity:    DefaultInitialVelocity,
		InitialPrice:       DefaultInitialPrice,
		InitialOutput:      DefaultInitialOutput,
		Floor:              DefaultFloor,
		Ceiling:            DefaultCeiling,
		StimulusMultiplier: DefaultStimulusMultiplier,
		StimulusBoost:      DefaultStimulusBoost,
		DemurrageRate:      DefaultDemurrageRate,
		ExtractionDamping:  DefaultExtractionDamping,
		StagnationRatio:    DefaultStagnationRatio,
		OverheatRatio:      DefaultOverheatRatio,
		OutputDecay:        DefaultOutputDecay,
		NoiseStdDev:        DefaultNoiseStdDev,
		VelocityFloor:      DefaultVelocityFloor,
		MaintenanceCost:    DefaultMaintenanceCost,
		GenesisCost:        DefaultGenesisCost,
	}
}

// Validate reports the first constraint violation found, wrapped in
// ErrInvalidParams. A valid parameter set guarantees the supply stays
// strictly positive and the velocity feedback stays well-defined for any
// run length.
func (p Params) Validate() error {
	switch {
	case p.Kp < 0 || p.Ki < 0 || p.Kd < 0:
		return fmt.Errorf("%w: gains must be non-negative, got kp=%v ki=%v kd=%v", ErrInvalidParams, p.Kp, p.Ki, p.Kd)
	case p.TargetVelocity <= 0:
		return fmt.Errorf("%w: target velocity must be positive, got %v", ErrInvalidParams, p.TargetVelocity)
	case p.InitialSupply <= 0:
		return fmt.Errorf("%w: initial supply must be positive, got %v", ErrInvalidParams, p.InitialSupply)
	case p.InitialVelocity <= 0:
		return fmt.Errorf("%w: initial velocity must be positive, got %v", ErrInvalidParams, p.InitialVelocity)
	case p.InitialPrice <= 0:
		return fmt.Errorf("%w: initial price must be positive, got %v", ErrInvalidParams, p.InitialPrice)
	case p.InitialOutput <= 0:
		return fmt.Errorf("%w: initial output must be positive, got %v", ErrInvalidParams, p.InitialOutput)
	case p.Floor >= 0:
		return fmt.Errorf("%w: floor must be negative, got %v", ErrInvalidParams, p.Floor)
	case p.Floor <= -1:
		return fmt.Errorf("%w: floor must stay above -1, got %v", ErrInvalidParams, p.Floor)
	case p.Ceiling <= 0:
		return fmt.Errorf("%w: ceiling must be positive, got %v", ErrInvalidParams, p.Ceiling)
	case p.StimulusMultiplier <= 1:
		return fmt.Errorf("%w: stimulus multiplier must exceed 1, got %v", ErrInvalidParams, p.StimulusMultiplier)
	case p.StimulusBoost < 0:
		return fmt.Errorf("%w: stimulus boost must be non-negative, got %v", ErrInvalidParams, p.StimulusBoost)
	case p.DemurrageRate < 0 || p.DemurrageRate >= 1:
		return fmt.Errorf("%w: demurrage rate must be in [0,1), got %v", ErrInvalidParams, p.DemurrageRate)
	case p.ExtractionDamping <= 0 || p.ExtractionDamping > 1:
		return fmt.Errorf("%w: extraction damping must be in (0,1], got %v", ErrInvalidParams, p.ExtractionDamping)
	case p.StagnationRatio <= 0:
		return fmt.Errorf("%w: stagnation ratio must be positive, got %v", ErrInvalidParams, p.StagnationRatio)
	case p.StagnationRatio >= p.OverheatRatio:
		return fmt.Errorf("%w: stagnation ratio %v must be below overheat ratio %v", ErrInvalidParams, p.StagnationRatio, p.OverheatRatio)
	case p.OutputDecay <= 0 || p.OutputDecay > 1:
		return fmt.Errorf("%w: output decay must be in (0,1], got %v", ErrInvalidParams, p.OutputDecay)
	case p.NoiseStdDev < 0:
		return fmt.Errorf("%w: noise std dev must be non-negative, got %v", ErrInvalidParams, p.NoiseStdDev)
	case p.VelocityFloor <= 0:
		return fmt.Errorf("%w: velocity floor must be positive, got %v", ErrInvalidParams, p.VelocityFloor)
	case p.MaintenanceCost < 0 || p.GenesisCost < 0:
		return fmt.Errorf("%w: identity costs must be non-negative, got maintenance=%v genesis=%v", ErrInvalidParams, p.MaintenanceCost, p.GenesisCost)
	}
	return nil
}

// StagnationThreshold returns the measured velocity below which the stimulus
// regime activates.
func (p Params) StagnationThreshold() float64 {
	return p.TargetVelocity * p.StagnationRatio
}

// OverheatThreshold returns the measured velocity above which the demurrage
// regime activates.
func (p Params) OverheatThreshold() float64 {
	return p.TargetVelocity * p.OverheatRatio
}
