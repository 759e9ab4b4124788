// Package econ implements a closed monetary economy as a feedback-controlled
// discrete-time dynamical system.
//
// The package defines the engine that advances the economy one epoch at a
// time:
//
//   - [Params]: tunable economy parameters, validated at construction
//   - [Simulator]: owns the state (supply, velocity, price, output) and the
//     controller memory; [Simulator.Step] is the single transition function
//   - [PID]: bounded proportional-integral-derivative control law
//   - [Noise]: injectable stochastic perturbation source
//   - [StepResult] and [Trajectory]: the observable outcome of a run
//
// Each epoch the controller measures the velocity error against the target,
// computes a supply adjustment clamped to the protocol floor and ceiling,
// applies the stagnation (stimulus) or overheating (demurrage) policy, updates
// the money supply, and recomputes velocity from the quantity-theory identity
// V = P*Q/M.
//
// # Example
//
//	sim, err := econ.New(econ.Default())
//	if err != nil {
//		return err
//	}
//	traj, err := sim.Run(ctx, 150, econ.Shocks{50: -4.0})
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. A run is an inherently sequential
// Markov chain; parallelize across independent Simulator instances, never
// within one.
package econ
