package metrics

import "github.com/kelswick/monsim/internal/econ"

// Metric accumulates a scalar summary over the step results of a run.
type Metric interface {
	Name() string
	Observe(r econ.StepResult)
	Value() float64
	Reset()
}

// Apply resets each metric, feeds it the whole trajectory, and returns the
// final values keyed by metric name.
func Apply(traj econ.Trajectory, ms ...Metric) map[string]float64 {
	for _, m := range ms {
		m.Reset()
	}
	for _, r := range traj {
		for _, m := range ms {
			m.Observe(r)
		}
	}
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}

// Standard returns the full metric set for an economy with the given
// parameters.
func Standard(p econ.Params) []Metric {
	return []Metric{
		NewMeanEnergy(),
		NewVelocityDeviation(p.TargetVelocity),
		NewControlEffort(),
		NewStimulusOccupancy(),
		NewDemurrageOccupancy(),
		NewSupplyGrowth(),
	}
}
