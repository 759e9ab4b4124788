package econ

// PID computes the fractional money-supply adjustment from the velocity
// error. The integral accumulates raw error with no anti-windup clamp; only
// the final output is clamped to [floor, ceiling]. Regime multipliers applied
// by the caller act on the already-clamped value.
type PID struct {
	Kp float64
	Ki float64
	Kd float64

	floor    float64
	ceiling  float64
	integral float64
	prevErr  float64
}

func NewPID(kp, ki, kd, floor, ceiling float64) *PID {
	return &PID{
		Kp:      kp,
		Ki:      ki,
		Kd:      kd,
		floor:   floor,
		ceiling: ceiling,
	}
}

// Update advances the controller one epoch and returns the clamped output.
func (p *PID) Update(err float64) float64 {
	p.integral += err
	derivative := err - p.prevErr
	u := p.Kp*err + p.Ki*p.integral + p.Kd*derivative
	p.prevErr = err
	return clamp(u, p.floor, p.ceiling)
}

// Reset clears integral and derivative state.
func (p *PID) Reset() {
	p.integral = 0
	p.prevErr = 0
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
