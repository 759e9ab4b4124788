package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/kelswick/monsim/internal/analysis"
	"github.com/kelswick/monsim/internal/config"
	"github.com/kelswick/monsim/internal/econ"
	"github.com/kelswick/monsim/internal/metrics"
	"github.com/kelswick/monsim/internal/report"
	"github.com/kelswick/monsim/internal/scenario"
	"github.com/kelswick/monsim/internal/storage"
	"github.com/kelswick/monsim/internal/sweep"
	"github.com/kelswick/monsim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	epochs     int
	seed       int64
	noNoise    bool
	shockSpecs []string
	kp         float64
	ki         float64
	kd         float64
	target     float64
	runName    string
	// Scenario selection
	allScenarios bool
	// Sweep axes
	kpGrid     []float64
	kiGrid     []float64
	kdGrid     []float64
	shockEpoch int
	shockSize  float64
	// Output targets
	svgOut  string
	outPath string
	// Frame rate for live view
	frameRate int
)

var logger = log.New(os.Stderr)

// main registers the monsim commands and executes the root command. It
// exits the process with status 1 if command execution returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:   "monsim",
		Short: "closed economy monetary control simulator",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the economy and store the trajectory",
		RunE:  runEconomy,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().IntVar(&epochs, "epochs", config.DefaultEpochs, "number of epochs")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time-seeded)")
	runCmd.Flags().BoolVar(&noNoise, "no-noise", false, "disable demand noise")
	runCmd.Flags().StringArrayVar(&shockSpecs, "shock", nil, "scheduled shock as epoch:magnitude (repeatable)")
	runCmd.Flags().Float64Var(&kp, "kp", econ.DefaultKp, "pid kp")
	runCmd.Flags().Float64Var(&ki, "ki", econ.DefaultKi, "pid ki")
	runCmd.Flags().Float64Var(&kd, "kd", econ.DefaultKd, "pid kd")
	runCmd.Flags().Float64Var(&target, "target", econ.DefaultTargetVelocity, "target velocity")
	runCmd.Flags().StringVar(&runName, "name", "run", "run name used in the stored id")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [name]",
		Short: "run a stress scenario",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&allScenarios, "all", false, "run every scenario and summarize")
	scenarioCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	scenarioCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	scenarioCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time-seeded)")
	scenarioCmd.Flags().BoolVar(&noNoise, "no-noise", false, "disable demand noise")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep controller gains and rank the candidates",
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	sweepCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	sweepCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time-seeded)")
	sweepCmd.Flags().BoolVar(&noNoise, "no-noise", false, "disable demand noise")
	sweepCmd.Flags().IntVar(&epochs, "epochs", config.DefaultEpochs, "epochs per candidate")
	sweepCmd.Flags().Float64SliceVar(&kpGrid, "kp-grid", nil, "kp values to sweep")
	sweepCmd.Flags().Float64SliceVar(&kiGrid, "ki-grid", nil, "ki values to sweep")
	sweepCmd.Flags().Float64SliceVar(&kdGrid, "kd-grid", nil, "kd values to sweep")
	sweepCmd.Flags().IntVar(&shockEpoch, "shock-epoch", 30, "epoch of the test shock")
	sweepCmd.Flags().Float64Var(&shockSize, "shock-size", -3.0, "magnitude of the test shock")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "supply-velocity phase portrait",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().StringVar(&svgOut, "svg", "", "write the portrait to an svg file")

	spectrumCmd := &cobra.Command{
		Use:   "spectrum [run_id]",
		Short: "velocity frequency analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "write a configuration file",
		Args:  cobra.ExactArgs(1),
		RunE:  writeConfig,
	}
	configCmd.Flags().StringVar(&preset, "preset", "", "seed the file from a preset")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVar(&outPath, "out", "", "output file (default stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [preset1] [preset2] ...",
		Short: "compare presets on the same seed",
		RunE:  comparePresets,
	}
	compareCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time-seeded)")
	compareCmd.Flags().BoolVar(&noNoise, "no-noise", false, "disable demand noise")
	compareCmd.Flags().IntVar(&epochs, "epochs", config.DefaultEpochs, "number of epochs")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the economy with live visualization",
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	liveCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	liveCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time-seeded)")
	liveCmd.Flags().BoolVar(&noNoise, "no-noise", false, "disable demand noise")
	liveCmd.Flags().IntVar(&epochs, "epochs", config.DefaultEpochs, "number of epochs")
	liveCmd.Flags().StringArrayVar(&shockSpecs, "shock", nil, "scheduled shock as epoch:magnitude (repeatable)")
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	rootCmd.AddCommand(runCmd, scenarioCmd, sweepCmd, listCmd, plotCmd, phaseCmd,
		spectrumCmd, presetsCmd, configCmd, exportCmd, exportJSONCmd, exportCSVCmd,
		compareCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves the effective configuration: defaults, then preset,
// then config file, then explicit CLI flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		c, err := config.Preset(preset)
		if err != nil {
			return nil, fmt.Errorf("%w (available: %v)", err, config.PresetNames())
		}
		cfg = c
	}

	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	}

	flags := cmd.Flags()
	if flags.Changed("epochs") {
		cfg.Epochs = epochs
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("no-noise") {
		cfg.NoNoise = noNoise
	}
	if flags.Changed("kp") {
		cfg.Params.Kp = kp
	}
	if flags.Changed("ki") {
		cfg.Params.Ki = ki
	}
	if flags.Changed("kd") {
		cfg.Params.Kd = kd
	}
	if flags.Changed("target") {
		cfg.Params.TargetVelocity = target
	}

	if f := cmd.Root().PersistentFlags().Lookup("data"); f != nil && !f.Changed && cfg.DataDir != "" {
		dataDir = cfg.DataDir
	}

	return cfg, nil
}

func parseShocks(specs []string) (econ.Shocks, error) {
	if len(specs) == 0 {
		return nil, nil
	}

	shocks := make(econ.Shocks, len(specs))
	for _, spec := range specs {
		parts := strings.SplitN(spec, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid shock %q (want epoch:magnitude)", spec)
		}
		epoch, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("invalid shock epoch %q: %w", parts[0], err)
		}
		magnitude, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid shock magnitude %q: %w", parts[1], err)
		}
		shocks[epoch] = magnitude
	}
	return shocks, nil
}

func runEconomy(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	shocks, err := parseShocks(shockSpecs)
	if err != nil {
		return err
	}

	p := cfg.EconParams()
	sim, err := econ.New(p)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	logger.Info("running economy", "epochs", cfg.Epochs, "seed", p.Seed, "shocks", len(shocks))
	start := time.Now()

	traj, err := sim.Run(context.Background(), cfg.Epochs, shocks)
	if err != nil {
		return err
	}

	values := metrics.Apply(traj, metrics.Standard(p)...)

	runID, err := st.Save(runName, p, traj, values)
	if err != nil {
		return err
	}

	logger.Info("completed", "elapsed", time.Since(start), "run", runID)

	return report.Run(os.Stdout, p, traj, values)
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	p := cfg.EconParams()

	if allScenarios {
		scenarios := scenario.All()
		results := make([]*scenario.Result, 0, len(scenarios))
		for _, s := range scenarios {
			logger.Info("running scenario", "name", s.Name, "epochs", s.Epochs)
			res, err := scenario.Run(context.Background(), s, p)
			if err != nil {
				return err
			}

			report.Scenario(os.Stdout, s, res)
			fmt.Println()
			results = append(results, res)
		}
		report.Summary(os.Stdout, results)
		return nil
	}

	if len(args) == 0 {
		return fmt.Errorf("specify a scenario or --all (available: %v)", scenario.Names())
	}

	if args[0] == "list" {
		for _, s := range scenario.All() {
			fmt.Printf("  %-10s %s\n", s.Name, s.Description)
		}
		return nil
	}

	s, err := scenario.Get(args[0])
	if err != nil {
		return fmt.Errorf("%w (available: %v)", err, scenario.Names())
	}

	logger.Info("running scenario", "name", s.Name, "epochs", s.Epochs)
	res, err := scenario.Run(context.Background(), s, p)
	if err != nil {
		return err
	}

	report.Scenario(os.Stdout, s, res)
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	sc := sweep.Default(cfg.EconParams())
	if len(kpGrid)+len(kiGrid)+len(kdGrid) > 0 {
		sc.Kp, sc.Ki, sc.Kd = kpGrid, kiGrid, kdGrid
	}
	if cmd.Flags().Changed("epochs") {
		sc.Epochs = epochs
	}
	if cmd.Flags().Changed("shock-epoch") {
		sc.ShockEpoch = shockEpoch
	}
	if cmd.Flags().Changed("shock-size") {
		sc.ShockSize = shockSize
	}

	logger.Info("sweeping gains", "epochs", sc.Epochs, "shock_epoch", sc.ShockEpoch, "shock_size", sc.ShockSize)
	start := time.Now()

	cands, err := sweep.Run(context.Background(), sc)
	if err != nil {
		return err
	}

	logger.Info("sweep complete", "candidates", len(cands), "elapsed", time.Since(start))

	return report.Sweep(os.Stdout, cands)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tEPOCHS\tSEED\tTARGET V")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.1f\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Epochs,
			run.Seed,
			run.Params.TargetVelocity,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	traj, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	if len(traj) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("epochs: %d\n\n", len(traj))
	fmt.Println(viz.TrajectoryCharts(traj, meta.Params, viz.DefaultPlotWidth))

	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	traj, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	if len(traj) == 0 {
		return fmt.Errorf("no data to plot")
	}

	portrait := analysis.NewPhasePortrait(traj, meta.Params.TargetVelocity)

	if svgOut != "" {
		svg := viz.PhaseSVG(portrait, 800, 600)
		if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
			return err
		}
		logger.Info("wrote phase portrait", "path", svgOut)
		return nil
	}

	fmt.Printf("phase portrait: %s\n", meta.ID)
	fmt.Printf("x: money supply, y: velocity (target %.1f)\n\n", meta.Params.TargetVelocity)
	fmt.Println(viz.PhaseBraille(portrait, 70, 20))

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	traj, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	if len(traj) < 2 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("spectral analysis: %s\n\n", meta.ID)

	velocities := traj.Velocities()
	spec := analysis.Spectrum(velocities)

	// the interesting structure sits in the low-frequency quarter
	plotData := spec
	if quarter := len(spec) / 4; quarter >= 2 {
		plotData = spec[:quarter]
	}

	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("velocity power spectrum"),
	)
	fmt.Println(graph)
	fmt.Println()

	if period := analysis.DominantPeriod(velocities); period > 0 {
		fmt.Printf("dominant period: %.1f epochs\n", period)
	} else {
		fmt.Println("no dominant oscillation")
	}

	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	fmt.Println("available presets:")
	for _, name := range config.PresetNames() {
		cfg, err := config.Preset(name)
		if err != nil {
			continue
		}
		fmt.Printf("  %-12s epochs=%d kp=%.2f ki=%.3f kd=%.2f\n",
			name, cfg.Epochs, cfg.Params.Kp, cfg.Params.Ki, cfg.Params.Kd)
	}
	return nil
}

func writeConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := config.Save(args[0], cfg); err != nil {
		return err
	}

	logger.Info("wrote config", "path", args[0])
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	traj, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	data := storage.NewExportData(meta.Name, meta.Params, traj, meta.Metrics)
	if outPath != "" {
		return storage.ExportJSON(outPath, data)
	}
	return storage.ExportJSONStdout(data)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	traj, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	if len(traj) == 0 {
		return fmt.Errorf("no data to export")
	}
	return storage.WriteCSV(os.Stdout, traj)
}

func comparePresets(cmd *cobra.Command, args []string) error {
	names := args
	if len(names) == 0 {
		names = config.PresetNames()
	}

	// one shared seed keeps the comparison fair
	compareSeed := seed
	if compareSeed == 0 {
		compareSeed = time.Now().UnixNano()
	}

	fmt.Printf("comparing presets (seed %d)\n\n", compareSeed)
	fmt.Printf("%-12s  %-10s  %-10s  %-12s  %-9s  %-9s\n",
		"preset", "final_v", "min_v", "supply", "stimulus", "demurrage")
	fmt.Println(strings.Repeat("-", 72))

	for _, name := range names {
		cfg, err := config.Preset(name)
		if err != nil {
			fmt.Printf("%-12s  error: %v\n", name, err)
			continue
		}
		cfg.Seed = compareSeed
		if noNoise {
			cfg.NoNoise = true
		}

		runEpochs := cfg.Epochs
		if cmd.Flags().Changed("epochs") {
			runEpochs = epochs
		}

		sim, err := econ.New(cfg.EconParams())
		if err != nil {
			fmt.Printf("%-12s  error: %v\n", name, err)
			continue
		}

		traj, err := sim.Run(context.Background(), runEpochs, nil)
		if err != nil {
			fmt.Printf("%-12s  error: %v\n", name, err)
			continue
		}

		final := traj.Final()
		fmt.Printf("%-12s  %10.4f  %10.4f  %12.1f  %9d  %9d\n",
			name, final.Velocity, traj.MinVelocity(), final.Supply,
			traj.StimulusEpochs(), traj.DemurrageEpochs())
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	shocks, err := parseShocks(shockSpecs)
	if err != nil {
		return err
	}

	sim, err := econ.New(cfg.EconParams())
	if err != nil {
		return err
	}

	if frameRate <= 0 {
		frameRate = 30
	}
	m := viz.NewModel(sim, cfg.Epochs, shocks, time.Second/time.Duration(frameRate))

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
