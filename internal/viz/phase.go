package viz

import (
	"github.com/kelswick/monsim/internal/analysis"
)

// PhaseBraille renders the supply-velocity portrait on a braille canvas,
// width and height in character cells. The target velocity is drawn as a
// dashed line when it falls inside the plotted range.
func PhaseBraille(portrait *analysis.PhasePortrait, width, height int) string {
	if portrait == nil || len(portrait.Points) < 2 || width < 2 || height < 2 {
		return ""
	}

	pts := portrait.Points
	minX, minY, rangeX, rangeY := phaseBounds(pts)

	spanX := width*2 - 1
	spanY := height*4 - 1
	c := NewCanvas(width, height)

	if t := portrait.TargetVelocity; t >= minY && t <= minY+rangeY {
		y := spanY - int((t-minY)/rangeY*float64(spanY))
		for x := 0; x <= spanX; x += 4 {
			c.Set(x, y)
			c.Set(x+1, y)
		}
	}

	px, py := 0, 0
	for i, p := range pts {
		x := int((p.X - minX) / rangeX * float64(spanX))
		y := spanY - int((p.Y-minY)/rangeY*float64(spanY))
		if i > 0 {
			c.DrawLine(px, py, x, y)
		}
		px, py = x, y
	}

	return c.String()
}

// phaseBounds returns the plot window for a set of phase points, padded 10%
// on each side so the trace never touches the frame.
func phaseBounds(pts []analysis.Point) (minX, minY, rangeX, rangeY float64) {
	maxX, maxY := pts[0].X, pts[0].Y
	minX, minY = pts[0].X, pts[0].Y
	for _, p := range pts {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	rangeX = maxX - minX
	rangeY = maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2
	return minX, minY, rangeX, rangeY
}
