package scenario

import (
	"fmt"

	"github.com/kelswick/monsim/internal/econ"
)

const (
	crashEpochs     = 150
	crashShockEpoch = 50
	crashShock      = -4.0

	// Recovery demands the final velocity back above this fraction of
	// target.
	recoveryRatio = 0.75
)

// NewCrash returns the deflationary spiral scenario: a panic knocks 4.0 off
// the measured velocity at epoch 50 and the stimulus regime has the rest of
// the run to pull the economy back.
func NewCrash() Scenario {
	return Scenario{
		Name:        "crash",
		Description: "velocity panic at epoch 50, stimulus must recover the economy",
		Epochs:      crashEpochs,
		Shocks:      econ.Shocks{crashShockEpoch: crashShock},
		Evaluate:    evaluateCrash,
	}
}

func evaluateCrash(p econ.Params, traj econ.Trajectory, res *Result) {
	need := recoveryRatio * p.TargetVelocity
	final := traj.FinalVelocity()
	stag := p.StagnationThreshold()

	passed := final > need
	detail := fmt.Sprintf("final velocity %.2f, need above %.2f", final, need)
	if lag, ok := traj.RecoveryEpoch(crashShockEpoch, stag); ok {
		detail += fmt.Sprintf("; climbed above %.2f after %d epochs", stag, lag)
	} else {
		detail += fmt.Sprintf("; never climbed above %.2f", stag)
	}
	res.Checks = append(res.Checks, Check{
		Name:   "recovery",
		Passed: passed,
		Detail: detail,
	})
	if passed {
		res.Verdict = "recovery achieved"
	} else {
		res.Verdict = "stuck in stagnation"
	}
}
