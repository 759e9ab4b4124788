package viz

import (
	"fmt"
	"strings"

	"github.com/kelswick/monsim/internal/analysis"
)

// CanvasToSVG converts a braille canvas to SVG, one dot per lit sub-pixel.
func CanvasToSVG(canvas *Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff88">
`, width, height, width, height))

	dotRadius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			r := canvas.Grid[row][col]
			if r < 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)

			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, dotRadius))
					}
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// PhaseSVG renders the supply-velocity portrait as an SVG path with a dashed
// reference line at the target velocity.
func PhaseSVG(portrait *analysis.PhasePortrait, width, height int) string {
	if portrait == nil || len(portrait.Points) < 2 {
		return ""
	}

	pts := portrait.Points
	minX, minY, rangeX, rangeY := phaseBounds(pts)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	if t := portrait.TargetVelocity; t >= minY && t <= minY+rangeY {
		y := float64(height) - (t-minY)/rangeY*float64(height)
		sb.WriteString(fmt.Sprintf(`<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="#666688" stroke-dasharray="4 4"/>
`, y, width, y))
	}

	sb.WriteString(`<path fill="none" stroke="#00ff88" stroke-width="1.5" d="M`)
	for i, p := range pts {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}
	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
