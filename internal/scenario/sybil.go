package scenario

import (
	"fmt"

	"github.com/kelswick/monsim/internal/econ"
)

// SybilConfig sizes the identity flood evaluated by the sybil scenario.
type SybilConfig struct {
	// Identities is the number of fake participants.
	Identities int
	// MintFraction is the share of the initial supply minted as stimulus
	// rewards each stagnation epoch.
	MintFraction float64
	// CaptureShare is the fraction of one epoch's mint a single identity can
	// capture.
	CaptureShare float64
	// Epochs is the attack duration.
	Epochs int
	// StartVelocity puts the economy in stagnation for the whole attack.
	StartVelocity float64
}

// DefaultSybilConfig returns the canonical 10000-identity attack.
func DefaultSybilConfig() SybilConfig {
	return SybilConfig{
		Identities:    10000,
		MintFraction:  0.05,
		CaptureShare:  0.0001,
		Epochs:        100,
		StartVelocity: 2.0,
	}
}

// NewSybil returns the sybil attack scenario: an identity flood farms
// stimulus rewards during forced stagnation, and the genesis plus
// maintenance costs of the identities must outweigh the captured mint.
func NewSybil(cfg SybilConfig) Scenario {
	return Scenario{
		Name:        "sybil",
		Description: "identity flood farms stimulus rewards during forced stagnation",
		Epochs:      cfg.Epochs,
		Prepare: func(p econ.Params) econ.Params {
			p.InitialVelocity = cfg.StartVelocity
			return p
		},
		Evaluate: func(p econ.Params, traj econ.Trajectory, res *Result) {
			evaluateSybil(cfg, p, traj, res)
		},
	}
}

func evaluateSybil(cfg SybilConfig, p econ.Params, traj econ.Trajectory, res *Result) {
	n := float64(cfg.Identities)
	cost := n * (p.GenesisCost + p.MaintenanceCost*float64(cfg.Epochs))

	mint := p.InitialSupply * cfg.MintFraction
	gain := n * mint * cfg.CaptureShare * float64(traj.StimulusEpochs())

	roi := 0.0
	if cost > 0 {
		roi = gain / cost
	}

	res.Attack = &AttackEconomics{
		Identities: cfg.Identities,
		Cost:       cost,
		Gain:       gain,
		ROI:        roi,
		Viable:     gain > cost,
	}

	res.Checks = append(res.Checks, Check{
		Name:   "attack unviable",
		Passed: !res.Attack.Viable,
		Detail: fmt.Sprintf("cost %.0f energy, gain %.0f energy", cost, gain),
	})
	if res.Attack.Viable {
		res.Verdict = "attack viable"
	} else {
		res.Verdict = "attack unviable"
	}
}
