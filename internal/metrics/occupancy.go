package metrics

import "github.com/kelswick/monsim/internal/econ"

type Occupancy struct {
	name      string
	demurrage bool
	hits      int
	samples   int
}

func NewStimulusOccupancy() *Occupancy {
	return &Occupancy{name: "stimulus_occupancy"}
}

func NewDemurrageOccupancy() *Occupancy {
	return &Occupancy{name: "demurrage_occupancy", demurrage: true}
}

func (o *Occupancy) Name() string { return o.name }

func (o *Occupancy) Observe(r econ.StepResult) {
	o.samples++
	if o.demurrage {
		if r.Demurrage {
			o.hits++
		}
		return
	}
	if r.Stimulus {
		o.hits++
	}
}

func (o *Occupancy) Value() float64 {
	if o.samples == 0 {
		return 0
	}
	return float64(o.hits) / float64(o.samples)
}

func (o *Occupancy) Reset() {
	o.hits = 0
	o.samples = 0
}
