package econ

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Simulator owns the economy state and advances it one epoch at a time. All
// state fields are private; callers observe the economy through StepResults
// and the read-only accessors.
type Simulator struct {
	params Params
	pid    *PID
	noise  Noise

	supply   float64
	velocity float64
	price    float64
	output   float64
	epoch    int
}

// New validates p and constructs a simulator in the initial state. With
// Seed == 0 the noise generator is time-seeded and runs are not reproducible;
// set a nonzero seed (or NoiseStdDev = 0) for deterministic trajectories.
func New(p Params) (*Simulator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	s := &Simulator{
		params: p,
		pid:    NewPID(p.Kp, p.Ki, p.Kd, p.Floor, p.Ceiling),
		noise:  defaultNoise(p),
	}
	s.resetState()
	return s, nil
}

func defaultNoise(p Params) Noise {
	if p.NoiseStdDev == 0 {
		return NoNoise{}
	}
	seed := p.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return NewGaussianNoise(p.NoiseStdDev, seed)
}

func (s *Simulator) resetState() {
	s.supply = s.params.InitialSupply
	s.velocity = s.params.InitialVelocity
	s.price = s.params.InitialPrice
	s.output = s.params.InitialOutput
	s.epoch = 0
}

// Reset restores the constructed initial state and clears controller memory.
// The noise source is kept as-is, so a reset does not replay earlier draws.
func (s *Simulator) Reset() {
	s.resetState()
	s.pid.Reset()
}

// SetNoise replaces the noise source. Pass NoNoise{} for fully deterministic
// stepping.
func (s *Simulator) SetNoise(n Noise) {
	s.noise = n
}

func (s *Simulator) Supply() float64   { return s.supply }
func (s *Simulator) Velocity() float64 { return s.velocity }
func (s *Simulator) Price() float64    { return s.price }
func (s *Simulator) Output() float64   { return s.output }
func (s *Simulator) Epoch() int        { return s.epoch }
func (s *Simulator) Params() Params    { return s.params }

// Energy returns the economic energy 0.5*M*V^2 of the current state.
func (s *Simulator) Energy() float64 {
	return 0.5 * s.supply * s.velocity * s.velocity
}

// Step advances the economy one epoch under an optional exogenous velocity
// shock and returns the resulting snapshot.
//
// The transition order is contractual: the PID output is clamped to
// [Floor, Ceiling] before the regime policies run, so stimulus amplification
// may push the applied delta above the ceiling. Both regime checks evaluate
// the measured velocity (current velocity plus shock); the shock itself does
// not persist, because velocity is recomputed from V = P*Q/M in the same
// step.
func (s *Simulator) Step(shock float64) StepResult {
	measured := s.velocity + shock
	err := s.params.TargetVelocity - measured
	delta := s.pid.Update(err)

	stimulus := measured < s.params.StagnationThreshold()
	if stimulus {
		delta *= s.params.StimulusMultiplier
		s.output *= 1 + s.params.StimulusBoost
	}

	demurrage := measured > s.params.OverheatThreshold()
	if demurrage {
		s.supply *= 1 - s.params.DemurrageRate
		delta *= s.params.ExtractionDamping
	}

	s.supply *= 1 + delta
	s.velocity = s.price * s.output / s.supply
	s.output *= s.params.OutputDecay
	s.velocity *= 1 + s.noise.Sample()
	s.velocity = math.Max(s.params.VelocityFloor, s.velocity)

	r := StepResult{
		Epoch:     s.epoch,
		Supply:    s.supply,
		Velocity:  s.velocity,
		Output:    s.output,
		Energy:    s.Energy(),
		Delta:     delta,
		Error:     err,
		Stimulus:  stimulus,
		Demurrage: demurrage,
	}
	s.epoch++
	return r
}

// Run advances the economy the given number of epochs, applying any
// scheduled shocks, and returns the trajectory. The context is checked
// between epochs; on cancellation the partial trajectory is returned along
// with the context error.
func (s *Simulator) Run(ctx context.Context, epochs int, shocks Shocks) (Trajectory, error) {
	if epochs <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidEpochs, epochs)
	}

	traj := make(Trajectory, 0, epochs)
	for i := 0; i < epochs; i++ {
		select {
		case <-ctx.Done():
			return traj, ctx.Err()
		default:
		}
		traj = append(traj, s.Step(shocks[i]))
	}
	return traj, nil
}

// RunWithCallback streams each step result to fn, stopping early when fn
// returns false. Live views use this to render a run in progress.
func (s *Simulator) RunWithCallback(ctx context.Context, epochs int, shocks Shocks, fn func(StepResult) bool) error {
	if epochs <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidEpochs, epochs)
	}

	for i := 0; i < epochs; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if !fn(s.Step(shocks[i])) {
			return nil
		}
	}
	return nil
}
