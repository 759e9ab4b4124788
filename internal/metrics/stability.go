package metrics

import (
	"math"

	"github.com/kelswick/monsim/internal/econ"
)

type VelocityDeviation struct {
	name    string
	target  float64
	sumSq   float64
	samples int
}

func NewVelocityDeviation(target float64) *VelocityDeviation {
	return &VelocityDeviation{
		name:   "velocity_deviation",
		target: target,
	}
}

func (v *VelocityDeviation) Name() string {
	return v.name
}

func (v *VelocityDeviation) Observe(r econ.StepResult) {
	d := r.Velocity - v.target
	v.sumSq += d * d
	v.samples++
}

func (v *VelocityDeviation) Value() float64 {
	if v.samples == 0 {
		return 0
	}
	return math.Sqrt(v.sumSq / float64(v.samples))
}

func (v *VelocityDeviation) Reset() {
	v.sumSq = 0
	v.samples = 0
}
