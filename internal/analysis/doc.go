// Package analysis provides post-run diagnostics for economy trajectories.
//
// The package characterizes a finished run two ways:
//
//   - [Spectrum] and [DominantPeriod]: frequency content of the velocity
//     series, for spotting controller-induced oscillation
//   - [PhasePortrait]: the supply-velocity trace, for seeing spirals and
//     attractors that time series hide
//
// # Oscillation Detection
//
// A nonzero dominant period means the controller is cycling the economy:
//
//	period := analysis.DominantPeriod(traj.Velocities())
//	if period > 0 {
//	    // velocity oscillates with this period, in epochs
//	}
package analysis
