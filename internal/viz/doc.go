// Package viz provides terminal-based visualization for the economy.
//
// The package implements a watch-only TUI using the Bubble Tea framework:
//
//   - [Model]: live view that steps the economy one epoch per frame
//   - [Canvas]: Braille-based pixel canvas for high-fidelity plots
//   - [TrajectoryCharts]: ASCII chart panels for completed runs
//   - [PhaseSVG]: SVG export of velocity phase portraits
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Restart from the initial state
//	Q     - Quit
package viz
