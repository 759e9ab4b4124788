package econ

// Shocks schedules one-off exogenous velocity shocks by epoch index. A nil
// map means no shock at any epoch.
type Shocks map[int]float64

// StepResult is the observable outcome of a single epoch. Values reflect the
// state after the full transition, except Error which is the raw control
// error measured at decision time.
type StepResult struct {
	Epoch     int     `json:"epoch"`
	Supply    float64 `json:"supply"`
	Velocity  float64 `json:"velocity"`
	Output    float64 `json:"output"`
	Energy    float64 `json:"energy"`
	Delta     float64 `json:"delta"`
	Error     float64 `json:"error"`
	Stimulus  bool    `json:"stimulus"`
	Demurrage bool    `json:"demurrage"`
}

// Trajectory is the ordered sequence of step results from one run.
type Trajectory []StepResult

// Final returns the last result, or the zero value for an empty trajectory.
func (t Trajectory) Final() StepResult {
	if len(t) == 0 {
		return StepResult{}
	}
	return t[len(t)-1]
}

// FinalVelocity returns the velocity of the last epoch, or 0 when empty.
func (t Trajectory) FinalVelocity() float64 {
	return t.Final().Velocity
}

func (t Trajectory) Supplies() []float64 {
	out := make([]float64, len(t))
	for i, r := range t {
		out[i] = r.Supply
	}
	return out
}

func (t Trajectory) Velocities() []float64 {
	out := make([]float64, len(t))
	for i, r := range t {
		out[i] = r.Velocity
	}
	return out
}

func (t Trajectory) Outputs() []float64 {
	out := make([]float64, len(t))
	for i, r := range t {
		out[i] = r.Output
	}
	return out
}

func (t Trajectory) Energies() []float64 {
	out := make([]float64, len(t))
	for i, r := range t {
		out[i] = r.Energy
	}
	return out
}

func (t Trajectory) Deltas() []float64 {
	out := make([]float64, len(t))
	for i, r := range t {
		out[i] = r.Delta
	}
	return out
}

func (t Trajectory) MinVelocity() float64 {
	if len(t) == 0 {
		return 0
	}
	min := t[0].Velocity
	for _, r := range t[1:] {
		if r.Velocity < min {
			min = r.Velocity
		}
	}
	return min
}

func (t Trajectory) MaxVelocity() float64 {
	if len(t) == 0 {
		return 0
	}
	max := t[0].Velocity
	for _, r := range t[1:] {
		if r.Velocity > max {
			max = r.Velocity
		}
	}
	return max
}

// StimulusEpochs counts epochs with the stimulus regime active.
func (t Trajectory) StimulusEpochs() int {
	n := 0
	for _, r := range t {
		if r.Stimulus {
			n++
		}
	}
	return n
}

// DemurrageEpochs counts epochs with the demurrage regime active.
func (t Trajectory) DemurrageEpochs() int {
	n := 0
	for _, r := range t {
		if r.Demurrage {
			n++
		}
	}
	return n
}

// RecoveryEpoch returns how many epochs at or after index `after` pass before
// velocity first exceeds threshold, and whether that ever happens.
func (t Trajectory) RecoveryEpoch(after int, threshold float64) (int, bool) {
	if after < 0 {
		after = 0
	}
	for i := after; i < len(t); i++ {
		if t[i].Velocity > threshold {
			return i - after, true
		}
	}
	return 0, false
}

// CoolingEpoch returns how many epochs at or after index `after` pass before
// velocity first drops below threshold, and whether that ever happens.
func (t Trajectory) CoolingEpoch(after int, threshold float64) (int, bool) {
	if after < 0 {
		after = 0
	}
	for i := after; i < len(t); i++ {
		if t[i].Velocity < threshold {
			return i - after, true
		}
	}
	return 0, false
}
