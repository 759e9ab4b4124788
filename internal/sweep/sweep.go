// Package sweep runs controller gain grids over the economy and ranks the
// candidates by their disturbance response.
package sweep

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"github.com/kelswick/monsim/internal/econ"
	"github.com/kelswick/monsim/internal/metrics"
)

// NeverRecovered is the recovery value assigned to candidates whose velocity
// never returns above the recovery threshold after the shock.
const NeverRecovered = 999

// Recovery counts from the first epoch the velocity climbs back above this
// fraction of target; overshoot is measured once the transient has had
// settleLag epochs to develop.
const (
	recoveredRatio = 0.8
	settleLag      = 20
)

// Config describes a gain grid. An empty axis pins that gain to its value in
// Base, so sweeping a single gain needs only one axis populated.
type Config struct {
	Base econ.Params

	Kp []float64
	Ki []float64
	Kd []float64

	Epochs     int
	ShockEpoch int
	ShockSize  float64
}

// Default returns the reference sweep: four integral gains against a
// stagnation shock of -3.0 at epoch 30.
func Default(base econ.Params) Config {
	return Config{
		Base:       base,
		Ki:         []float64{0.005, 0.01, 0.02, 0.05},
		Epochs:     100,
		ShockEpoch: 30,
		ShockSize:  -3.0,
	}
}

// Candidate is one evaluated grid cell.
type Candidate struct {
	Kp float64 `json:"kp"`
	Ki float64 `json:"ki"`
	Kd float64 `json:"kd"`

	Recovery  int     `json:"recovery"`
	Overshoot float64 `json:"overshoot"`
	Deviation float64 `json:"deviation"`
	FinalV    float64 `json:"final_v"`
	Score     float64 `json:"score"`
}

// Run evaluates every cell of the grid across a worker pool sized to the
// machine and returns the candidates sorted best-first. The score adds
// recovery epochs and overshoot percent, so lower is better.
func Run(ctx context.Context, cfg Config) ([]Candidate, error) {
	cells := cfg.cells()

	results := make([]Candidate, len(cells))
	errs := make([]error, len(cells))
	shocks := econ.Shocks{cfg.ShockEpoch: cfg.ShockSize}

	workers := runtime.NumCPU()
	if workers > len(cells) {
		workers = len(cells)
	}
	chunkSize := (len(cells) + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()

			start := worker * chunkSize
			end := start + chunkSize
			if end > len(cells) {
				end = len(cells)
			}

			for idx := start; idx < end; idx++ {
				p := cells[idx]
				if p.Seed != 0 {
					p.Seed += int64(idx)
				}

				sim, err := econ.New(p)
				if err != nil {
					errs[idx] = err
					continue
				}
				traj, err := sim.Run(ctx, cfg.Epochs, shocks)
				if err != nil {
					errs[idx] = err
					continue
				}
				results[idx] = evaluate(p, traj, cfg.ShockEpoch)
			}
		}(w)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score < b.Score
		}
		if a.Kp != b.Kp {
			return a.Kp < b.Kp
		}
		if a.Ki != b.Ki {
			return a.Ki < b.Ki
		}
		return a.Kd < b.Kd
	})
	return results, nil
}

func (cfg Config) cells() []econ.Params {
	kps := axis(cfg.Kp, cfg.Base.Kp)
	kis := axis(cfg.Ki, cfg.Base.Ki)
	kds := axis(cfg.Kd, cfg.Base.Kd)

	cells := make([]econ.Params, 0, len(kps)*len(kis)*len(kds))
	for _, kp := range kps {
		for _, ki := range kis {
			for _, kd := range kds {
				p := cfg.Base
				p.Kp, p.Ki, p.Kd = kp, ki, kd
				cells = append(cells, p)
			}
		}
	}
	return cells
}

func axis(vals []float64, base float64) []float64 {
	if len(vals) == 0 {
		return []float64{base}
	}
	return vals
}

func evaluate(p econ.Params, traj econ.Trajectory, shockEpoch int) Candidate {
	c := Candidate{Kp: p.Kp, Ki: p.Ki, Kd: p.Kd, Recovery: NeverRecovered}

	if elapsed, ok := traj.RecoveryEpoch(shockEpoch, recoveredRatio*p.TargetVelocity); ok {
		c.Recovery = elapsed
	}

	settled := traj
	if from := shockEpoch + settleLag; from > 0 && from < len(traj) {
		settled = traj[from:]
	}
	over := (settled.MaxVelocity() - p.TargetVelocity) / p.TargetVelocity * 100
	if over < 0 {
		over = 0
	}
	c.Overshoot = over

	dev := metrics.NewVelocityDeviation(p.TargetVelocity)
	for _, r := range traj {
		dev.Observe(r)
	}
	c.Deviation = dev.Value()

	c.FinalV = traj.Final().Velocity
	c.Score = float64(c.Recovery) + c.Overshoot
	return c
}
