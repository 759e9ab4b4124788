package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/kelswick/monsim/internal/econ"
)

const (
	DefaultPlotWidth  = 70
	DefaultPlotHeight = 10
)

// Chart plots a single series with a caption.
func Chart(series []float64, caption string, width, height int) string {
	if len(series) == 0 {
		return ""
	}
	return asciigraph.Plot(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// TrajectoryCharts renders the four standard panels of a finished run:
// velocity against its target, money supply, economic energy, and the
// controller output.
func TrajectoryCharts(traj econ.Trajectory, p econ.Params, width int) string {
	if len(traj) == 0 {
		return ""
	}

	panels := []string{
		Chart(traj.Velocities(),
			fmt.Sprintf("velocity (target %.1f, band %.1f..%.1f)",
				p.TargetVelocity, p.StagnationThreshold(), p.OverheatThreshold()),
			width, DefaultPlotHeight),
		Chart(traj.Supplies(), "money supply", width, DefaultPlotHeight),
		Chart(traj.Energies(), "economic energy 0.5*M*V^2", width, DefaultPlotHeight),
		Chart(percent(traj.Deltas()),
			fmt.Sprintf("supply delta %% (bounds %.0f%%..%.0f%%)", p.Floor*100, p.Ceiling*100),
			width, DefaultPlotHeight),
	}
	return strings.Join(panels, "\n\n")
}

func percent(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v * 100
	}
	return out
}
