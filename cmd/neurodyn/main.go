package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/san-kum/neurodyn/internal/analysis"
	"github.com/san-kum/neurodyn/internal/config"
	"github.com/san-kum/neurodyn/internal/dynamo"
	"github.com/san-kum/neurodyn/internal/integrators"
	"github.com/san-kum/neurodyn/internal/neuron"
	"github.com/san-kum/neurodyn/internal/storage"
	"github.com/san-kum/neurodyn/internal/tui"
	"github.com/san-kum/neurodyn/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	class      string
	integrator string
	dt         float64
	duration   float64
	stim       float64
	v0         float64
	w0         float64
	// Sweep parameters
	sweepFrom  float64
	sweepTo    float64
	sweepStep  float64
	workers    int
	horizon    float64
	transient  float64
	threshold  float64
	rowTimeout time.Duration
	// Plot sizing
	plotWidth  int
	plotHeight int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "neurodyn",
		Short: "excitability analysis of a two-variable conductance neuron model",
		RunE:  showParameters,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".neurodyn", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().StringVar(&class, "class", "class2", "excitability class (class1|class2|class3)")
	rootCmd.PersistentFlags().StringVar(&integrator, "integrator", "bdf2", "integrator")
	rootCmd.PersistentFlags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "simulate a voltage trace at a fixed stimulus",
		RunE:  runTrace,
	}
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration (time units)")
	runCmd.Flags().Float64Var(&stim, "stim", config.DefaultStimulus, "applied current")
	runCmd.Flags().Float64Var(&v0, "v0", config.DefaultV0, "initial voltage")
	runCmd.Flags().Float64Var(&w0, "w0", config.DefaultW0, "initial recovery fraction")
	runCmd.Flags().Float64Var(&threshold, "threshold", 0, "spike threshold (mV)")
	runCmd.Flags().Float64Var(&transient, "transient", config.DefaultTransient, "transient cutoff for extrema")
	runCmd.Flags().IntVar(&plotHeight, "plot-height", 12, "trace plot height")
	runCmd.Flags().IntVar(&plotWidth, "plot-width", 100, "trace plot width")

	fixedPointCmd := &cobra.Command{
		Use:   "fixedpoint",
		Short: "locate and classify the equilibrium at a stimulus",
		RunE:  runFixedPoint,
	}
	fixedPointCmd.Flags().Float64Var(&stim, "stim", config.DefaultStimulus, "applied current")

	phaseCmd := &cobra.Command{
		Use:   "phase",
		Short: "phase-plane plot with nullclines and trajectory",
		RunE:  runPhase,
	}
	phaseCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration (time units)")
	phaseCmd.Flags().Float64Var(&stim, "stim", config.DefaultStimulus, "applied current")
	phaseCmd.Flags().Float64Var(&v0, "v0", config.DefaultV0, "initial voltage")
	phaseCmd.Flags().Float64Var(&w0, "w0", config.DefaultW0, "initial recovery fraction")
	phaseCmd.Flags().IntVar(&plotWidth, "width", 78, "canvas width (cells)")
	phaseCmd.Flags().IntVar(&plotHeight, "height", 22, "canvas height (cells)")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "bifurcation sweep over a stimulus range",
		RunE:  runSweep,
	}
	addSweepFlags(sweepCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "bifurcation sweep with live progress view",
		RunE:  runLive,
	}
	addSweepFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := config.ListPresets()
			sort.Strings(names)
			for _, p := range names {
				fmt.Println(p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, fixedPointCmd, phaseCmd, sweepCmd, liveCmd, listCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSweepFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&sweepFrom, "from", config.DefaultSweepFrom, "sweep start stimulus")
	cmd.Flags().Float64Var(&sweepTo, "to", config.DefaultSweepTo, "sweep end stimulus")
	cmd.Flags().Float64Var(&sweepStep, "step", config.DefaultSweepStep, "sweep stimulus step")
	cmd.Flags().IntVar(&workers, "workers", 1, "parallel workers (1 = sequential)")
	cmd.Flags().Float64Var(&horizon, "horizon", config.DefaultHorizon, "simulation length per unstable row")
	cmd.Flags().Float64Var(&transient, "transient", config.DefaultTransient, "transient cutoff")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "spike threshold (mV)")
	cmd.Flags().DurationVar(&rowTimeout, "row-timeout", 0, "per-stimulus integration budget (0 = none)")
	cmd.Flags().IntVar(&plotHeight, "plot-height", 12, "diagram height")
}

// buildConfig resolves preset, config file, and flags in that order; a
// flag the user set always wins.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			names := config.ListPresets()
			sort.Strings(names)
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, names)
		}
		c := *p
		cfg = &c
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("class") {
		cfg.Class = class
	}
	if cmd.Flags().Changed("integrator") {
		cfg.Integrator = integrator
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("stim") {
		cfg.Stimulus = stim
	}
	if cmd.Flags().Changed("v0") {
		cfg.InitState.V = v0
	}
	if cmd.Flags().Changed("w0") {
		cfg.InitState.W = w0
	}
	if cmd.Flags().Changed("from") {
		cfg.Sweep.From = sweepFrom
	}
	if cmd.Flags().Changed("to") {
		cfg.Sweep.To = sweepTo
	}
	if cmd.Flags().Changed("step") {
		cfg.Sweep.Step = sweepStep
	}
	if cmd.Flags().Changed("workers") {
		cfg.Sweep.Workers = workers
	}
	if cmd.Flags().Changed("horizon") {
		cfg.Sweep.Horizon = horizon
	}
	if cmd.Flags().Changed("transient") {
		cfg.Sweep.Transient = transient
	}
	if cmd.Flags().Changed("threshold") {
		cfg.Sweep.Threshold = threshold
	}
	if cmd.Flags().Changed("row-timeout") {
		cfg.Sweep.RowTimeout = rowTimeout
	}

	return cfg, nil
}

func sweepOptions(cfg *config.Config) analysis.SweepOptions {
	opts := analysis.DefaultSweepOptions()
	opts.Dt = cfg.Dt
	if cfg.Sweep.Horizon > 0 {
		opts.Horizon = cfg.Sweep.Horizon
	}
	if cfg.Sweep.Transient > 0 {
		opts.Osc.TransientCutoff = cfg.Sweep.Transient
	}
	opts.Osc.Threshold = cfg.Sweep.Threshold
	opts.Workers = cfg.Sweep.Workers
	opts.RowTimeout = cfg.Sweep.RowTimeout
	opts.NewIntegrator = func() dynamo.Integrator {
		integ, err := integrators.New(cfg.Integrator)
		if err != nil {
			return integrators.NewBDF2()
		}
		return integ
	}
	return opts
}

func simulate(cfg *config.Config, stimValue float64) (*neuron.Cell, *dynamo.Trajectory, error) {
	params, err := cfg.ModelParameters()
	if err != nil {
		return nil, nil, err
	}
	cell := neuron.NewCell(params)

	integ, err := integrators.New(cfg.Integrator)
	if err != nil {
		return nil, nil, err
	}

	solverCfg := dynamo.DefaultConfig()
	solverCfg.Dt = cfg.Dt

	grid := dynamo.SampleGrid(0, cfg.Duration, int(cfg.Duration/cfg.Dt)+1)
	solver := dynamo.NewSolver(cell, integ)

	x0 := dynamo.State{cfg.InitState.V, cfg.InitState.W}
	traj, err := solver.Run(context.Background(), x0, dynamo.Control{stimValue}, 0, cfg.Duration, grid, solverCfg)
	if err != nil {
		return nil, nil, err
	}
	return cell, traj, nil
}

func showParameters(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	params, err := cfg.ModelParameters()
	if err != nil {
		return err
	}

	fmt.Printf("model parameters (%s):\n\n", cfg.Class)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "E_Na\t%.1f\tmV\n", params.ENa)
	fmt.Fprintf(w, "E_K\t%.1f\tmV\n", params.EK)
	fmt.Fprintf(w, "E_leak\t%.1f\tmV\n", params.ELeak)
	fmt.Fprintf(w, "g_fast\t%.1f\tmS/cm2\n", params.GFast)
	fmt.Fprintf(w, "g_slow\t%.1f\tmS/cm2\n", params.GSlow)
	fmt.Fprintf(w, "g_leak\t%.1f\tmS/cm2\n", params.GLeak)
	fmt.Fprintf(w, "C\t%.1f\tuF/cm2\n", params.C)
	fmt.Fprintf(w, "b_m\t%.1f\tmV\n", params.BM)
	fmt.Fprintf(w, "c_m\t%.1f\tmV\n", params.CM)
	fmt.Fprintf(w, "b_w\t%.1f\tmV\n", params.BW)
	fmt.Fprintf(w, "c_w\t%.1f\tmV\n", params.CW)
	fmt.Fprintf(w, "phi_w\t%.2f\t\n", params.PhiW)
	return w.Flush()
}

func runTrace(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("integrating %s, I=%.2f, %s, dt=%.3f...\n", cfg.Class, cfg.Stimulus, cfg.Integrator, cfg.Dt)
	start := time.Now()

	_, traj, err := simulate(cfg, cfg.Stimulus)
	if err != nil {
		return err
	}

	osc := analysis.AnalyzeOscillation(traj, analysis.OscillationOptions{
		Threshold:       cfg.Sweep.Threshold,
		TransientCutoff: cfg.Sweep.Transient,
	})

	fmt.Printf("completed in %v\n\n", time.Since(start))
	fmt.Println(viz.TracePlot(traj, plotWidth, plotHeight))
	fmt.Printf("\nspikes: %d", osc.SpikeCount)
	if osc.Frequency > 0 {
		fmt.Printf("  frequency: %.2f Hz", osc.Frequency)
	}
	fmt.Printf("  Vmax: %.2f  Vmin: %.2f\n", osc.VMax, osc.VMin)

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.SaveTrajectory(cfg.Class, cfg.Integrator, cfg.Dt, cfg.Stimulus, traj)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func runFixedPoint(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	params, err := cfg.ModelParameters()
	if err != nil {
		return err
	}
	cell := neuron.NewCell(params)

	fp := analysis.LocateFixedPoint(cell, cfg.Stimulus, analysis.DefaultLocateOptions())
	report := analysis.ClassifyStability(cell, fp, cfg.Stimulus)

	if !fp.Converged {
		fmt.Printf("warning: no equilibrium met tolerance in the search window (best residual %.2e)\n", fp.Residual)
	}
	fmt.Printf("fixed point: V*=%.4f mV  w*=%.6f  residual=%.2e\n", fp.V, fp.W, fp.Residual)
	fmt.Printf("label: %s\n", report.Label)
	fmt.Printf("eigenvalues: %v  %v\n", report.Eigenvalues[0], report.Eigenvalues[1])
	fmt.Printf("jacobian: [[%.5f %.5f] [%.5f %.5f]]\n",
		report.Jacobian[0][0], report.Jacobian[0][1], report.Jacobian[1][0], report.Jacobian[1][1])
	return nil
}

func runPhase(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	cell, traj, err := simulate(cfg, cfg.Stimulus)
	if err != nil {
		return err
	}

	fp := analysis.LocateFixedPoint(cell, cfg.Stimulus, analysis.DefaultLocateOptions())
	fmt.Println(viz.PhasePlane(cell, cfg.Stimulus, traj, &fp, plotWidth, plotHeight))
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	params, err := cfg.ModelParameters()
	if err != nil {
		return err
	}

	stimuli := analysis.Stimuli(cfg.Sweep.From, cfg.Sweep.To, cfg.Sweep.Step)
	if len(stimuli) == 0 {
		return fmt.Errorf("empty sweep range [%.2f, %.2f] step %.2f", cfg.Sweep.From, cfg.Sweep.To, cfg.Sweep.Step)
	}

	fmt.Printf("sweeping %s over [%.1f, %.1f] step %.2f (%d stimuli, %d workers)...\n",
		cfg.Class, cfg.Sweep.From, cfg.Sweep.To, cfg.Sweep.Step, len(stimuli), max(cfg.Sweep.Workers, 1))
	start := time.Now()

	sweep := analysis.SweepBifurcation(context.Background(), params, stimuli, sweepOptions(cfg))

	fmt.Printf("completed in %v\n\n", time.Since(start))
	fmt.Println(viz.SweepReport(sweep))
	fmt.Println(viz.FICurve(sweep.Records, plotHeight))
	fmt.Println()
	fmt.Println(viz.BifurcationDiagram(sweep.Records, plotHeight))

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.SaveSweep(cfg.Class, cfg.Integrator, cfg.Dt, params, sweep)
	if err != nil {
		return err
	}
	fmt.Printf("\nrun id: %s\n", runID)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	params, err := cfg.ModelParameters()
	if err != nil {
		return err
	}

	stimuli := analysis.Stimuli(cfg.Sweep.From, cfg.Sweep.To, cfg.Sweep.Step)
	if len(stimuli) == 0 {
		return fmt.Errorf("empty sweep range [%.2f, %.2f] step %.2f", cfg.Sweep.From, cfg.Sweep.To, cfg.Sweep.Step)
	}

	sweep, err := tui.Run(params, stimuli, sweepOptions(cfg))
	if err != nil {
		return err
	}

	fmt.Println(viz.SweepReport(sweep))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no stored runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tCLASS\tINTEGRATOR\tWHEN")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Kind, r.Class, r.Integrator, r.Timestamp.Format(time.RFC3339))
	}
	return w.Flush()
}
