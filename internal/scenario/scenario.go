// Package scenario defines named stress tests for the closed economy and
// evaluates their outcomes.
package scenario

import (
	"context"

	"github.com/kelswick/monsim/internal/econ"
	"github.com/kelswick/monsim/internal/metrics"
)

// Check is a single pass/fail criterion evaluated against a finished run.
type Check struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// Result bundles everything a scenario run produced.
type Result struct {
	Scenario   string             `json:"scenario"`
	Params     econ.Params        `json:"params"`
	Trajectory econ.Trajectory    `json:"trajectory"`
	Metrics    map[string]float64 `json:"metrics"`
	Checks     []Check            `json:"checks"`
	Verdict    string             `json:"verdict"`
	Attack     *AttackEconomics   `json:"attack,omitempty"`
}

// Passed reports whether every check succeeded.
func (r *Result) Passed() bool {
	for _, c := range r.Checks {
		if !c.Passed {
			return false
		}
	}
	return true
}

// AttackEconomics summarizes the cost/benefit of an identity flood against
// the stimulus mechanism.
type AttackEconomics struct {
	Identities int     `json:"identities"`
	Cost       float64 `json:"cost"`
	Gain       float64 `json:"gain"`
	ROI        float64 `json:"roi"`
	Viable     bool    `json:"viable"`
}

// Scenario describes a stress test: how to set up the economy, which shocks
// to schedule, and how to judge the outcome.
type Scenario struct {
	Name        string
	Description string
	Epochs      int
	Shocks      econ.Shocks

	// Prepare adjusts the base parameters before the run. Nil means use them
	// unchanged.
	Prepare func(econ.Params) econ.Params

	// Evaluate fills in checks, verdict, and any scenario-specific extras.
	Evaluate func(p econ.Params, traj econ.Trajectory, res *Result)
}

// Run executes the scenario against the given base parameters and evaluates
// the outcome.
func Run(ctx context.Context, s Scenario, p econ.Params) (*Result, error) {
	if s.Prepare != nil {
		p = s.Prepare(p)
	}

	sim, err := econ.New(p)
	if err != nil {
		return nil, err
	}

	traj, err := sim.Run(ctx, s.Epochs, s.Shocks)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Scenario:   s.Name,
		Params:     p,
		Trajectory: traj,
		Metrics:    metrics.Apply(traj, metrics.Standard(p)...),
	}
	s.Evaluate(p, traj, res)
	return res, nil
}
