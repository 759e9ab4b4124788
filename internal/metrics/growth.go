package metrics

import (
	"math"

	"github.com/kelswick/monsim/internal/econ"
)

type SupplyGrowth struct {
	name    string
	first   float64
	last    float64
	samples int
}

func NewSupplyGrowth() *SupplyGrowth {
	return &SupplyGrowth{name: "supply_growth"}
}

func (g *SupplyGrowth) Name() string { return g.name }

func (g *SupplyGrowth) Observe(r econ.StepResult) {
	if g.samples == 0 {
		g.first = r.Supply
	}
	g.last = r.Supply
	g.samples++
}

func (g *SupplyGrowth) Value() float64 {
	if g.samples == 0 || g.first == 0 {
		return 0
	}
	return math.Log(g.last / g.first)
}

func (g *SupplyGrowth) Reset() {
	g.first = 0
	g.last = 0
	g.samples = 0
}
