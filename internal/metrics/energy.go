package metrics

import "github.com/kelswick/monsim/internal/econ"

type MeanEnergy struct {
	name    string
	sum     float64
	samples int
}

func NewMeanEnergy() *MeanEnergy {
	return &MeanEnergy{name: "mean_energy"}
}

func (e *MeanEnergy) Name() string { return e.name }

func (e *MeanEnergy) Observe(r econ.StepResult) {
	e.sum += r.Energy
	e.samples++
}

func (e *MeanEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.sum / float64(e.samples)
}

func (e *MeanEnergy) Reset() {
	e.sum = 0
	e.samples = 0
}
