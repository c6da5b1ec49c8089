package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/dverbeek/advect/internal/analysis"
	"github.com/dverbeek/advect/internal/config"
	"github.com/dverbeek/advect/internal/integrators"
	"github.com/dverbeek/advect/internal/ode"
	"github.com/dverbeek/advect/internal/solver"
	"github.com/dverbeek/advect/internal/store"
	"github.com/dverbeek/advect/internal/tui"
	"github.com/dverbeek/advect/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string

	nx, ny     int
	bx, by, c  float64
	sigma      float64
	x0, y0     float64
	t0, tf     float64
	stride     float64
	atol, rtol float64
	boundary   string
	integName  string
	dt         float64

	frameIdx  int
	gifOut    string
	gifCell   int
	gifDelay  int
	frameRate int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "advect",
		Short: "2d linear transport equation lab (method of lines)",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".advect", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "solve a transport problem and save the run",
		RunE:  runSolve,
	}
	runCmd.Flags().StringVar(&preset, "preset", "", "preset configuration")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().IntVar(&nx, "nx", config.DefaultN, "grid cells along x")
	runCmd.Flags().IntVar(&ny, "ny", config.DefaultN, "grid cells along y")
	runCmd.Flags().Float64Var(&bx, "bx", 1, "advection velocity x")
	runCmd.Flags().Float64Var(&by, "by", 2, "advection velocity y")
	runCmd.Flags().Float64Var(&c, "c", 0, "decay coefficient")
	runCmd.Flags().Float64Var(&sigma, "sigma", config.DefaultSigma, "initial gaussian width")
	runCmd.Flags().Float64Var(&x0, "x0", 0, "initial gaussian center x")
	runCmd.Flags().Float64Var(&y0, "y0", 0, "initial gaussian center y")
	runCmd.Flags().Float64Var(&t0, "t0", 0, "start time")
	runCmd.Flags().Float64Var(&tf, "tf", 3, "final time")
	runCmd.Flags().Float64Var(&stride, "stride", config.DefaultStride, "output sampling stride")
	runCmd.Flags().Float64Var(&atol, "atol", config.DefaultAtol, "absolute tolerance")
	runCmd.Flags().Float64Var(&rtol, "rtol", config.DefaultRtol, "relative tolerance")
	runCmd.Flags().StringVar(&boundary, "boundary", "clamp", "boundary policy (clamp|periodic)")
	runCmd.Flags().StringVar(&integName, "integrator", "dopri5", "integrator (dopri5|rk4|euler)")
	runCmd.Flags().Float64Var(&dt, "dt", 0.001, "fixed step size (rk4/euler)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot total mass and peak amplitude over time",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	heatmapCmd := &cobra.Command{
		Use:   "heatmap [run_id]",
		Short: "render one frame as a terminal heatmap",
		Args:  cobra.ExactArgs(1),
		RunE:  heatmapRun,
	}
	heatmapCmd.Flags().IntVar(&frameIdx, "frame", -1, "frame index (default last)")

	gifCmd := &cobra.Command{
		Use:   "gif [run_id]",
		Short: "export the run as an animated gif",
		Args:  cobra.ExactArgs(1),
		RunE:  gifRun,
	}
	gifCmd.Flags().StringVar(&gifOut, "out", "out.gif", "output path")
	gifCmd.Flags().IntVar(&gifCell, "cell", 3, "pixels per grid point")
	gifCmd.Flags().IntVar(&gifDelay, "delay", 4, "frame delay (1/100 s)")

	animateCmd := &cobra.Command{
		Use:   "animate [run_id]",
		Short: "play the run back in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  animateRun,
	}
	animateCmd.Flags().IntVar(&frameRate, "fps", 20, "playback frame rate")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset configurations",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				fmt.Println(p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, heatmapCmd, gifCmd, animateCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	// CLI flags override preset and file values.
	if cmd.Flags().Changed("nx") {
		cfg.Domain.Nx = nx
	}
	if cmd.Flags().Changed("ny") {
		cfg.Domain.Ny = ny
	}
	if cmd.Flags().Changed("bx") {
		cfg.Bx = bx
	}
	if cmd.Flags().Changed("by") {
		cfg.By = by
	}
	if cmd.Flags().Changed("c") {
		cfg.C = c
	}
	if cmd.Flags().Changed("sigma") {
		cfg.Sigma = sigma
	}
	if cmd.Flags().Changed("x0") {
		cfg.X0 = x0
	}
	if cmd.Flags().Changed("y0") {
		cfg.Y0 = y0
	}
	if cmd.Flags().Changed("t0") {
		cfg.T0 = t0
	}
	if cmd.Flags().Changed("tf") {
		cfg.TF = tf
	}
	if cmd.Flags().Changed("stride") {
		cfg.Stride = stride
	}
	if cmd.Flags().Changed("atol") {
		cfg.Atol = atol
	}
	if cmd.Flags().Changed("rtol") {
		cfg.Rtol = rtol
	}
	if cmd.Flags().Changed("boundary") {
		cfg.Boundary = boundary
	}
	if cmd.Flags().Changed("integrator") {
		cfg.Integrator = integName
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	return cfg, nil
}

func runSolve(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	prob, scfg, err := cfg.Build()
	if err != nil {
		return err
	}

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("solving transport equation: b=(%g, %g) c=%g grid %dx%d boundary %s\n",
		cfg.Bx, cfg.By, cfg.C, cfg.Domain.Nx, cfg.Domain.Ny, cfg.Boundary)

	sol := solver.New()
	start := time.Now()

	var rec *ode.Record
	switch cfg.Integrator {
	case "", "dopri5":
		rec, err = sol.Solve(context.Background(), prob, prob.InitialState(), scfg)
	case "rk4":
		rec, err = sol.SolveFixed(context.Background(), prob, prob.InitialState(), integrators.NewRK4(), cfg.Dt, scfg)
	case "euler":
		rec, err = sol.SolveFixed(context.Background(), prob, prob.InitialState(), integrators.NewEuler(), cfg.Dt, scfg)
	default:
		return fmt.Errorf("unknown integrator: %s", cfg.Integrator)
	}

	elapsed := time.Since(start)

	var solveErr *ode.SolveError
	if errors.As(err, &solveErr) {
		// partial results are still worth keeping
		fmt.Printf("warning: integration stopped early at t=%.4f: %v\n", solveErr.Time, err)
		rec = solveErr.Partial
	} else if err != nil {
		return err
	}

	runID, err := st.Save(cfg, rec)
	if err != nil {
		return err
	}

	stats := rec.Stats()
	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("samples: %d, steps: %d (rejected %d), rhs evals: %d\n",
		rec.Len(), stats.Steps, stats.Rejected, stats.Evals)

	if rec.Len() > 1 {
		masses := analysis.MassSeries(rec, prob.Grid())
		fmt.Printf("mass: %.6f -> %.6f\n", masses[0], masses[len(masses)-1])
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tGRID\tB\tC\tSAMPLES\tSTEPS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%dx%d\t(%g, %g)\t%g\t%d\t%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Config.Domain.Nx, run.Config.Domain.Ny,
			run.Config.Bx, run.Config.By,
			run.Config.C,
			run.Samples,
			run.Steps,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	rec, grid, err := st.LoadRecord(args[0])
	if err != nil {
		return err
	}
	if rec.Len() == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s, samples: %d\n\n", args[0], rec.Len())
	fmt.Println(viz.Series(analysis.MassSeries(rec, grid), "total mass vs time"))
	fmt.Println()
	fmt.Println(viz.Series(analysis.PeakSeries(rec), "peak amplitude vs time"))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func heatmapRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	rec, _, err := st.LoadRecord(args[0])
	if err != nil {
		return err
	}
	if rec.Len() == 0 {
		return fmt.Errorf("empty record")
	}
	k := frameIdx
	if k < 0 || k >= rec.Len() {
		k = rec.Len() - 1
	}
	min, max := viz.Range(rec)
	fmt.Println(viz.HeatmapFrame(rec.Time(k), rec.Frame(k), 40, 20, min, max))
	return nil
}

func gifRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	rec, _, err := st.LoadRecord(args[0])
	if err != nil {
		return err
	}
	f, err := os.Create(gifOut)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := viz.EncodeGIF(f, rec, gifCell, gifDelay); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d frames)\n", gifOut, rec.Len())
	return nil
}

func animateRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	rec, _, err := st.LoadRecord(args[0])
	if err != nil {
		return err
	}
	return tui.Run(rec, frameRate)
}
