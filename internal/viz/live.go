package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/kelswick/monsim/internal/econ"
)

// historyWindow bounds the number of epochs kept for the live charts.
const historyWindow = 120

var (
	chartPanelStyle = lipgloss.NewStyle().
			Padding(1, 2)

	statsPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2).
			Width(42)
)

// TickMsg is sent on every animation frame.
type TickMsg time.Time

// Model is a watch-only bubbletea view of a running economy. It advances
// the simulation one epoch per tick and renders velocity and supply
// charts next to the current controller state.
type Model struct {
	sim      *econ.Simulator
	epochs   int
	shocks   econ.Shocks
	interval time.Duration

	running bool
	done    bool
	last    econ.StepResult

	velocities []float64
	supplies   []float64
	energies   []float64
}

// NewModel prepares a live view that will run the economy for the given
// number of epochs, applying shocks at their scheduled epochs.
func NewModel(sim *econ.Simulator, epochs int, shocks econ.Shocks, interval time.Duration) Model {
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}
	return Model{
		sim:        sim,
		epochs:     epochs,
		shocks:     shocks,
		interval:   interval,
		running:    true,
		velocities: make([]float64, 0, historyWindow),
		supplies:   make([]float64, 0, historyWindow),
		energies:   make([]float64, 0, historyWindow),
	}
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if !m.done {
				m.running = !m.running
			}
		case "r":
			m.restart()
		}

	case TickMsg:
		if m.running && !m.done {
			m.step()
		}
		return m, m.tick()
	}

	return m, nil
}

func (m *Model) step() {
	r := m.sim.Step(m.shocks[m.sim.Epoch()])
	m.last = r

	m.velocities = append(m.velocities, r.Velocity)
	m.supplies = append(m.supplies, r.Supply)
	m.energies = append(m.energies, r.Energy)
	if len(m.velocities) > historyWindow {
		m.velocities = m.velocities[1:]
		m.supplies = m.supplies[1:]
		m.energies = m.energies[1:]
	}

	if m.sim.Epoch() >= m.epochs {
		m.done = true
		m.running = false
	}
}

func (m *Model) restart() {
	m.sim.Reset()
	m.velocities = m.velocities[:0]
	m.supplies = m.supplies[:0]
	m.energies = m.energies[:0]
	m.last = econ.StepResult{}
	m.done = false
	m.running = true
}

func (m Model) View() string {
	p := m.sim.Params()

	var charts strings.Builder
	if len(m.velocities) > 1 {
		charts.WriteString(GraphStyle.Render(asciigraph.Plot(m.velocities,
			asciigraph.Height(8),
			asciigraph.Width(48),
			asciigraph.Caption(fmt.Sprintf("velocity (target %.1f)", p.TargetVelocity)))))
		charts.WriteString("\n\n")
		charts.WriteString(GraphStyle.Render(asciigraph.Plot(m.supplies,
			asciigraph.Height(6),
			asciigraph.Width(48),
			asciigraph.Caption("money supply"))))
	} else {
		charts.WriteString(SubtleStyle.Render("waiting for first epoch..."))
	}

	status := SuccessStyle.Render("RUNNING")
	switch {
	case m.done:
		status = SubtleStyle.Render("DONE")
	case !m.running:
		status = StimulusStyle.Render("PAUSED")
	}

	var stats strings.Builder
	stats.WriteString(TitleStyle.Render("MONETARY CONTROL") + "  " + status + "\n\n")
	stats.WriteString(LabelStyle.Render("Epoch") +
		ValueStyle.Render(fmt.Sprintf("%d / %d", m.last.Epoch, m.epochs)) + "\n")
	stats.WriteString(LabelStyle.Render("Velocity") +
		ValueStyle.Render(fmt.Sprintf("%.4f", m.last.Velocity)) + "\n")
	stats.WriteString(LabelStyle.Render("Supply") +
		ValueStyle.Render(fmt.Sprintf("%.2f", m.last.Supply)) + "\n")
	stats.WriteString(LabelStyle.Render("Output") +
		ValueStyle.Render(fmt.Sprintf("%.2f", m.last.Output)) + "\n")
	stats.WriteString(LabelStyle.Render("Energy") +
		ValueStyle.Render(fmt.Sprintf("%.1f", m.last.Energy)) + "\n")
	stats.WriteString(LabelStyle.Render("Delta") +
		ValueStyle.Render(fmt.Sprintf("%+.4f", m.last.Delta)) + "\n")
	stats.WriteString(LabelStyle.Render("Error") +
		ValueStyle.Render(fmt.Sprintf("%+.4f", m.last.Error)) + "\n")

	regime := SubtleStyle.Render("steady")
	switch {
	case m.last.Stimulus:
		regime = StimulusStyle.Render("STIMULUS")
	case m.last.Demurrage:
		regime = DemurrageStyle.Render("DEMURRAGE")
	}
	stats.WriteString(LabelStyle.Render("Regime") + regime + "\n")

	if len(m.energies) > 1 {
		stats.WriteString("\n" + LabelStyle.Render("Trend") +
			Sparkline(m.energies, 20) + "\n")
	}

	stats.WriteString("\n" + SubtleStyle.Render("space: pause  r: restart  q: quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top,
		chartPanelStyle.Render(charts.String()),
		statsPanelStyle.Render(stats.String()))
}
