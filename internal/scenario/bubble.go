package scenario

import (
	"fmt"

	"github.com/kelswick/monsim/internal/econ"
)

const (
	bubbleEpochs     = 150
	bubbleShockEpoch = 50
	bubbleShock      = 35.0

	// Cooling demands the final velocity back below this multiple of target.
	coolingRatio = 1.5
)

// NewBubble returns the hyper-velocity scenario: a bubble spikes the
// measured velocity far above target and the demurrage regime must cool it
// without killing the economy.
func NewBubble() Scenario {
	return Scenario{
		Name:        "bubble",
		Description: "velocity bubble at epoch 50, demurrage must cool the economy",
		Epochs:      bubbleEpochs,
		Shocks:      econ.Shocks{bubbleShockEpoch: bubbleShock},
		Evaluate:    evaluateBubble,
	}
}

func evaluateBubble(p econ.Params, traj econ.Trajectory, res *Result) {
	limit := coolingRatio * p.TargetVelocity
	final := traj.FinalVelocity()
	over := p.OverheatThreshold()

	passed := final < limit
	detail := fmt.Sprintf("final velocity %.2f, need below %.2f", final, limit)
	if lag, ok := traj.CoolingEpoch(bubbleShockEpoch, over); ok {
		detail += fmt.Sprintf("; dropped below %.2f after %d epochs", over, lag)
	} else {
		detail += fmt.Sprintf("; never dropped below %.2f", over)
	}
	res.Checks = append(res.Checks, Check{
		Name:   "cooling",
		Passed: passed,
		Detail: detail,
	})
	if passed {
		res.Verdict = "cooled effectively"
	} else {
		res.Verdict = "still overheated"
	}
}
