package analysis

import (
	"strings"
	"testing"

	"github.com/kelswick/monsim/internal/econ"
)

func TestNewPhasePortrait(t *testing.T) {
	traj := econ.Trajectory{
		{Supply: 1000, Velocity: 5.0},
		{Supply: 1200, Velocity: 4.2},
		{Supply: 1440, Velocity: 3.6},
	}

	p := NewPhasePortrait(traj, 6.0)
	if len(p.Points) != 3 {
		t.Fatalf("got %d points, want 3", len(p.Points))
	}
	if p.Points[1] != (Point{X: 1200, Y: 4.2}) {
		t.Errorf("point 1 = %+v", p.Points[1])
	}
	if p.TargetVelocity != 6.0 {
		t.Errorf("target = %v, want 6.0", p.TargetVelocity)
	}
}

func TestPhasePortraitASCII(t *testing.T) {
	traj := econ.Trajectory{
		{Supply: 1000, Velocity: 4.0},
		{Supply: 1100, Velocity: 5.0},
		{Supply: 1200, Velocity: 6.0},
		{Supply: 1300, Velocity: 7.0},
	}
	p := NewPhasePortrait(traj, 5.5)

	out := p.ASCII(20, 10)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 10 {
		t.Fatalf("got %d rows, want 10", len(lines))
	}
	for i, line := range lines {
		if n := len([]rune(line)); n != 20 {
			t.Errorf("row %d has %d columns, want 20", i, n)
		}
	}
	if !strings.ContainsRune(out, '•') {
		t.Error("no points plotted")
	}
	if !strings.ContainsRune(out, '─') {
		t.Error("target velocity line not drawn")
	}
}

func TestPhasePortraitASCIITargetOutOfRange(t *testing.T) {
	traj := econ.Trajectory{
		{Supply: 1000, Velocity: 1.0},
		{Supply: 1100, Velocity: 1.2},
	}
	p := NewPhasePortrait(traj, 50.0)

	if out := p.ASCII(20, 10); strings.ContainsRune(out, '─') {
		t.Error("target line drawn despite being out of range")
	}
}

func TestPhasePortraitASCIIEmpty(t *testing.T) {
	p := NewPhasePortrait(nil, 6.0)
	if out := p.ASCII(20, 10); out != "" {
		t.Errorf("got %q, want empty", out)
	}
}
