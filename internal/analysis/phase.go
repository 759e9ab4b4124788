package analysis

import (
	"strings"

	"github.com/kelswick/monsim/internal/econ"
)

// Point is one supply-velocity sample.
type Point struct {
	X, Y float64
}

// PhasePortrait holds the supply-velocity trace of a run for plotting.
type PhasePortrait struct {
	Points []Point

	// TargetVelocity is drawn as a horizontal reference line when it falls
	// inside the plotted range.
	TargetVelocity float64
}

// NewPhasePortrait extracts the supply-velocity trace from a trajectory.
func NewPhasePortrait(traj econ.Trajectory, target float64) *PhasePortrait {
	p := &PhasePortrait{
		Points:         make([]Point, 0, len(traj)),
		TargetVelocity: target,
	}
	for _, r := range traj {
		p.Points = append(p.Points, Point{X: r.Supply, Y: r.Velocity})
	}
	return p
}

// ASCII renders the portrait on a width-by-height character grid with supply
// on the horizontal axis and velocity on the vertical axis.
func (p *PhasePortrait) ASCII(width, height int) string {
	if p == nil || len(p.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := p.Points[0].X, p.Points[0].X
	minY, maxY := p.Points[0].Y, p.Points[0].Y
	for _, pt := range p.Points {
		if pt.X < minX {
			minX = pt.X
		}
		if pt.X > maxX {
			maxX = pt.X
		}
		if pt.Y < minY {
			minY = pt.Y
		}
		if pt.Y > maxY {
			maxY = pt.Y
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	if p.TargetVelocity >= minY && p.TargetVelocity <= maxY {
		row := height - 1 - int((p.TargetVelocity-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height {
				canvas[row][col] = '─'
			}
		}
	}

	for _, pt := range p.Points {
		col := int((pt.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((pt.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
