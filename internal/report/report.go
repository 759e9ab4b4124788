// Package report renders human-readable summaries of runs, scenarios, and
// gain sweeps to a writer.
package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/kelswick/monsim/internal/econ"
	"github.com/kelswick/monsim/internal/scenario"
	"github.com/kelswick/monsim/internal/sweep"
)

const ruleWidth = 70

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	sectionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	ruleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(18)
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	passStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	stimulusTag  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	demurrageTag = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

func banner(w io.Writer, title string) {
	rule := ruleStyle.Render(strings.Repeat("=", ruleWidth))
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, titleStyle.Render(strings.ToUpper(title)))
	fmt.Fprintln(w, rule)
}

func section(w io.Writer, name string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, sectionStyle.Render(name))
}

func row(w io.Writer, label, format string, args ...any) {
	fmt.Fprintln(w, "  "+labelStyle.Render(label)+
		valueStyle.Render(fmt.Sprintf(format, args...)))
}

// Scenario writes the full report for one scenario run: the headline
// trajectory numbers, sampled key points, attack economics when present,
// and the verdict.
func Scenario(w io.Writer, s scenario.Scenario, res *scenario.Result) {
	banner(w, "scenario: "+s.Name)
	fmt.Fprintln(w, subtleStyle.Render(s.Description))

	p := res.Params
	traj := res.Trajectory
	final := traj.Final()

	section(w, "RESULTS")
	row(w, "Minimum V", "%.2f", traj.MinVelocity())
	row(w, "Maximum V", "%.2f", traj.MaxVelocity())
	row(w, "Final V", "%.2f (target %.1f)", final.Velocity, p.TargetVelocity)
	row(w, "Final M", "%.0f (initial %.0f)", final.Supply, p.InitialSupply)
	row(w, "Final Q", "%.0f (initial %.0f)", final.Output, p.InitialOutput)
	row(w, "Stimulus epochs", "%d", traj.StimulusEpochs())
	row(w, "Demurrage epochs", "%d", traj.DemurrageEpochs())

	if len(traj) > 0 {
		section(w, "KEY POINTS")
		stride := len(traj) / 5
		if stride == 0 {
			stride = 1
		}
		for i := 0; i < len(traj); i += stride {
			point(w, traj[i])
		}
		if (len(traj)-1)%stride != 0 {
			point(w, traj[len(traj)-1])
		}
	}

	if a := res.Attack; a != nil {
		section(w, "ATTACK ECONOMICS")
		row(w, "Identities", "%d", a.Identities)
		row(w, "Cost", "%.0f energy", a.Cost)
		row(w, "Gain", "%.0f energy", a.Gain)
		row(w, "ROI", "%.1f%%", a.ROI*100)
		verdict := failStyle.Render("UNVIABLE")
		if a.Viable {
			verdict = stimulusTag.Render("VIABLE")
		}
		fmt.Fprintln(w, "  "+labelStyle.Render("Attack")+verdict)
	}

	section(w, "CHECKS")
	for _, c := range res.Checks {
		mark := passStyle.Render("[PASS]")
		if !c.Passed {
			mark = failStyle.Render("[FAIL]")
		}
		fmt.Fprintf(w, "  %s %s: %s\n", mark, c.Name, c.Detail)
	}

	fmt.Fprintln(w)
	if res.Passed() {
		fmt.Fprintln(w, passStyle.Render("SUCCESS")+valueStyle.Render(": "+res.Verdict))
	} else {
		fmt.Fprintln(w, failStyle.Render("FAIL")+valueStyle.Render(": "+res.Verdict))
	}
}

func point(w io.Writer, r econ.StepResult) {
	tag := subtleStyle.Render("[NORMAL]")
	switch {
	case r.Stimulus:
		tag = stimulusTag.Render("[STIMULUS]")
	case r.Demurrage:
		tag = demurrageTag.Render("[DEMURRAGE]")
	}
	fmt.Fprintf(w, "  t=%3d: V=%.2f, Q=%.0f, M=%.0f %s\n",
		r.Epoch, r.Velocity, r.Output, r.Supply, tag)
}

// Summary writes one line per scenario result plus an overall verdict.
func Summary(w io.Writer, results []*scenario.Result) {
	banner(w, "validation summary")

	allPass := true
	for _, res := range results {
		mark := passStyle.Render("[PASS]")
		if !res.Passed() {
			mark = failStyle.Render("[FAIL]")
			allPass = false
		}
		fmt.Fprintf(w, "  %s %s: %s\n", mark, res.Scenario, res.Verdict)
	}

	fmt.Fprintln(w)
	if allPass {
		fmt.Fprintln(w, passStyle.Render("all scenarios passed"))
	} else {
		fmt.Fprintln(w, failStyle.Render("some scenarios failed"))
	}
}

// Sweep writes the ranked candidate table and names the winner. Candidates
// are expected in the order sweep.Run returned them, best first.
func Sweep(w io.Writer, cands []sweep.Candidate) error {
	if len(cands) == 0 {
		fmt.Fprintln(w, "no candidates")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KP\tKI\tKD\tRECOVERY\tOVERSHOOT\tDEVIATION\tFINAL V\tSCORE")
	for _, c := range cands {
		rec := strconv.Itoa(c.Recovery)
		if c.Recovery == sweep.NeverRecovered {
			rec = "never"
		}
		fmt.Fprintf(tw, "%.3f\t%.3f\t%.3f\t%s\t%.2f%%\t%.3f\t%.3f\t%.2f\n",
			c.Kp, c.Ki, c.Kd, rec, c.Overshoot, c.Deviation, c.FinalV, c.Score)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	best := cands[0]
	fmt.Fprintln(w)
	fmt.Fprintln(w, passStyle.Render("best")+valueStyle.Render(fmt.Sprintf(
		" kp=%.3f ki=%.3f kd=%.3f (score %.2f)", best.Kp, best.Ki, best.Kd, best.Score)))
	return nil
}

// Run writes the post-run summary: headline state, regime occupancy, and the
// standard metrics.
func Run(w io.Writer, p econ.Params, traj econ.Trajectory, values map[string]float64) error {
	banner(w, "run summary")

	final := traj.Final()
	row(w, "Epochs", "%d", len(traj))
	row(w, "Final V", "%.4f (target %.1f)", final.Velocity, p.TargetVelocity)
	row(w, "Final M", "%.2f", final.Supply)
	row(w, "Final Q", "%.2f", final.Output)
	row(w, "Final energy", "%.1f", final.Energy)
	row(w, "Min V", "%.4f", traj.MinVelocity())
	row(w, "Max V", "%.4f", traj.MaxVelocity())
	row(w, "Stimulus epochs", "%d", traj.StimulusEpochs())
	row(w, "Demurrage epochs", "%d", traj.DemurrageEpochs())

	if len(values) == 0 {
		return nil
	}

	section(w, "METRICS")
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(tw, "  %s\t%.6g\n", name, values[name])
	}
	return tw.Flush()
}
