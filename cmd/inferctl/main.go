// Command inferctl drives the sampler family against the bundled
// targets: run a sampler, list past runs, export a run's metadata, and
// benchmark a sampler's throughput. Grounded on the teacher's
// cmd/dynsim/main.go command layout (cobra root + subcommands, a
// persistent --data flag, a tabwriter run listing).
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/MMesbahU/stan/internal/advi"
	"github.com/MMesbahU/stan/internal/config"
	"github.com/MMesbahU/stan/internal/hmc"
	"github.com/MMesbahU/stan/internal/model"
	"github.com/MMesbahU/stan/internal/phase"
	"github.com/MMesbahU/stan/internal/rng"
	"github.com/MMesbahU/stan/internal/sampleio"
	"github.com/MMesbahU/stan/internal/tui"
)

var (
	dataDir    string
	seed       int64
	nDraws     int
	metricName string
	stepsize   float64
	intTime    float64
	maxDepth   int
	etaFlag    float64
	tolRelObj  float64
	maxIter    int
	configFile string
	presetName string
	live       bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "inferctl",
		Short: "Hamiltonian Monte Carlo and ADVI inference lab",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".inferctl", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [sampler] [model]",
		Short: "run a sampler against a target (sampler: static|nuts|advi)",
		Args:  cobra.ExactArgs(2),
		RunE:  runSampler,
	}
	runCmd.Flags().Int64Var(&seed, "seed", config.DefaultConfig().Seed, "random seed")
	runCmd.Flags().IntVar(&nDraws, "draws", 1000, "number of draws")
	runCmd.Flags().StringVar(&metricName, "metric", "unit", "HMC metric: unit|diag|dense")
	runCmd.Flags().Float64Var(&stepsize, "stepsize", config.DefaultStepsize, "leapfrog step size")
	runCmd.Flags().Float64Var(&intTime, "int-time", 1.0, "static HMC trajectory length")
	runCmd.Flags().IntVar(&maxDepth, "max-tree-depth", config.DefaultMaxDepth, "NUTS max tree depth")
	runCmd.Flags().Float64Var(&etaFlag, "eta", 0.0, "ADVI step size (0 tunes automatically)")
	runCmd.Flags().Float64Var(&tolRelObj, "tol-rel-obj", config.DefaultTolRelObj, "ADVI relative ELBO convergence tolerance")
	runCmd.Flags().IntVar(&maxIter, "max-iterations", config.DefaultMaxIter, "ADVI max iterations")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&presetName, "preset", "", "use a named preset")
	runCmd.Flags().BoolVar(&live, "live", false, "show a live trace while running")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list past runs",
		RunE:  listRuns,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	benchCmd := &cobra.Command{
		Use:   "bench [sampler] [model]",
		Short: "benchmark a sampler's throughput",
		Args:  cobra.ExactArgs(2),
		RunE:  benchSampler,
	}
	benchCmd.Flags().IntVar(&nDraws, "draws", 2000, "number of draws")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, exportCmd, benchCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfig merges a preset, a config file, and CLI flags in that
// order of increasing priority, mirroring runSimulation's
// preset-then-config-then-flags merge in the teacher's CLI.
func resolveConfig(cmd *cobra.Command, samplerArg, modelArg string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if presetName != "" {
		preset, ok := config.GetPreset(presetName)
		if !ok {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", presetName, config.ListPresets())
		}
		cfg = preset
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	cfg.Sampler = samplerArg
	cfg.Target.Kind = modelArg

	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("draws") {
		cfg.NDraws = nDraws
	}
	if cmd.Flags().Changed("metric") {
		cfg.HMC.Metric = metricName
	}
	if cmd.Flags().Changed("stepsize") {
		cfg.HMC.Stepsize = stepsize
	}
	if cmd.Flags().Changed("int-time") {
		cfg.HMC.IntTime = intTime
	}
	if cmd.Flags().Changed("max-tree-depth") {
		cfg.HMC.MaxTreeDepth = maxDepth
	}
	if cmd.Flags().Changed("eta") {
		cfg.ADVI.Eta = etaFlag
	}
	if cmd.Flags().Changed("tol-rel-obj") {
		cfg.ADVI.TolRelObj = tolRelObj
	}
	if cmd.Flags().Changed("max-iterations") {
		cfg.ADVI.MaxIterations = maxIter
	}

	return cfg, nil
}

// buildTarget constructs the model.LogDensityModel named by t.
func buildTarget(t config.TargetConfig) (model.LogDensityModel, error) {
	switch t.Kind {
	case "standard_normal":
		dim := t.Dim
		if dim <= 0 {
			dim = 1
		}
		return model.StandardNormal{Dim: dim}, nil
	case "gaussian":
		mean := t.Mean
		if mean == nil {
			mean = make([]float64, t.Dim)
		}
		cov := model.DiagCov(t.Diag)
		return model.NewGaussian(mean, cov)
	case "double_well":
		return model.NewDoubleWell(), nil
	default:
		return nil, fmt.Errorf("unknown target kind: %s", t.Kind)
	}
}

// buildMetric constructs the phase.Metric named by name, sized dim.
func buildMetric(name string, dim int) (phase.Metric, error) {
	switch name {
	case "unit", "":
		return phase.UnitMetric{}, nil
	case "diag":
		mInv := make([]float64, dim)
		for i := range mInv {
			mInv[i] = 1.0
		}
		return phase.NewDiagMetric(mInv)
	case "dense":
		cov := model.DiagCov(onesVec(dim))
		return phase.NewDenseMetric(cov)
	default:
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
}

func onesVec(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = 1.0
	}
	return v
}

func runSampler(cmd *cobra.Command, args []string) error {
	samplerArg, modelArg := args[0], args[1]

	cfg, err := resolveConfig(cmd, samplerArg, modelArg)
	if err != nil {
		return err
	}

	mdl, err := buildTarget(cfg.Target)
	if err != nil {
		return err
	}

	store := sampleio.NewRunStore(dataDir)
	if err := store.Init(); err != nil {
		return err
	}
	runID, runDir, err := store.Begin(cfg.Target.Kind, cfg.Sampler, cfg.Seed)
	if err != nil {
		return err
	}

	sampleFile, err := os.Create(fmt.Sprintf("%s/states.csv", runDir))
	if err != nil {
		return err
	}
	defer sampleFile.Close()
	sampleWriter := sampleio.NewCSVSampleWriter(sampleFile)

	names := make([]string, mdl.NumParamsR())
	for i := range names {
		names[i] = fmt.Sprintf("x%d", i)
	}
	if err := sampleWriter.WriteHeader(names); err != nil {
		return err
	}

	start := time.Now()
	var diagnostics map[string]float64

	switch cfg.Sampler {
	case "static", "nuts":
		diagnostics, err = runHMC(cfg, mdl, sampleWriter, runDir)
	case "advi":
		diagnostics, err = runADVI(cfg, mdl, runDir)
	default:
		return fmt.Errorf("unknown sampler: %s", cfg.Sampler)
	}
	if err != nil {
		return err
	}

	elapsed := time.Since(start)
	meta := sampleio.RunMetadata{
		ID:          runID,
		Model:       cfg.Target.Kind,
		Sampler:     cfg.Sampler,
		Timestamp:   time.Now(),
		Seed:        cfg.Seed,
		NIterations: cfg.NDraws,
		Duration:    elapsed.Seconds(),
		Diagnostics: diagnostics,
	}
	if err := store.Save(meta); err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	for k, v := range diagnostics {
		fmt.Printf("  %s: %.6f\n", k, v)
	}
	return nil
}

func runHMC(cfg *config.Config, mdl model.LogDensityModel, w sampleio.SampleWriter, runDir string) (map[string]float64, error) {
	src := rng.New(cfg.Seed)
	metric, err := buildMetric(cfg.HMC.Metric, mdl.NumParamsR())
	if err != nil {
		return nil, err
	}

	diagFile, err := os.Create(fmt.Sprintf("%s/diagnostics.csv", runDir))
	if err != nil {
		return nil, err
	}
	defer diagFile.Close()
	diagWriter := sampleio.NewCSVHMCDiagnosticWriter(diagFile)

	var tp *tea.Program
	if live {
		p := tea.NewProgram(tui.NewModel(cfg.Sampler, "lp__", cfg.NDraws))
		tp = p
		go func() { _, _ = p.Run() }()
	}

	q := make([]float64, mdl.NumParamsR())
	acceptSum := 0.0
	divergences := 0

	advance := func(samp hmc.Sample) {
		q = samp.Q
		acceptSum += samp.AcceptStat
	}

	if cfg.Sampler == "static" {
		s := hmc.NewStatic(mdl, metric, src)
		if err := s.SetNominalStepsizeAndT(cfg.HMC.Stepsize, cfg.HMC.IntTime); err != nil {
			return nil, err
		}
		if err := diagWriter.WriteHeader([]string{"stepsize__", "int_time__"}); err != nil {
			return nil, err
		}
		for i := 0; i < cfg.NDraws; i++ {
			samp, err := s.Transition(q)
			if err != nil {
				return nil, err
			}
			advance(samp)
			if err := w.WriteSample(i, samp.LogP, samp.Q); err != nil {
				return nil, err
			}
			d := s.LastDiagnostics
			if err := diagWriter.WriteRow(i, []float64{d.Stepsize, d.IntTime}); err != nil {
				return nil, err
			}
			if tp != nil {
				tp.Send(tui.Update{Iter: i, Scalar: samp.LogP, AcceptStat: samp.AcceptStat, Done: i == cfg.NDraws-1})
			}
		}
	} else {
		nt := hmc.NewNUTS(mdl, metric, src)
		nt.MaxTreeDepth = cfg.HMC.MaxTreeDepth
		nt.MaxDeltaEnergy = cfg.HMC.MaxDeltaEnergy
		if err := nt.SetNominalStepsize(cfg.HMC.Stepsize); err != nil {
			return nil, err
		}
		if err := diagWriter.WriteHeader([]string{"stepsize__", "treedepth__", "n_leapfrog__", "divergent__", "energy__"}); err != nil {
			return nil, err
		}
		for i := 0; i < cfg.NDraws; i++ {
			samp, err := nt.Transition(q)
			if err != nil {
				return nil, err
			}
			advance(samp)
			if nt.LastDiagnostics.Divergent {
				divergences++
			}
			if err := w.WriteSample(i, samp.LogP, samp.Q); err != nil {
				return nil, err
			}
			d := nt.LastDiagnostics
			row := []float64{d.Stepsize, float64(d.TreeDepth), float64(d.NLeapfrog), sampleio.BoolColumn(d.Divergent), d.Energy}
			if err := diagWriter.WriteRow(i, row); err != nil {
				return nil, err
			}
			if tp != nil {
				tp.Send(tui.Update{Iter: i, Scalar: samp.LogP, AcceptStat: samp.AcceptStat, Divergent: nt.LastDiagnostics.Divergent, Done: i == cfg.NDraws-1})
			}
		}
	}

	if tp != nil {
		tp.Quit()
	}

	return map[string]float64{
		"mean_accept_stat": acceptSum / float64(cfg.NDraws),
		"n_divergences":    float64(divergences),
		"divergence_frac":  float64(divergences) / float64(cfg.NDraws),
	}, nil
}

type stdoutPrinter struct{}

func (stdoutPrinter) Printf(format string, args ...any) { fmt.Printf(format, args...) }

func runADVI(cfg *config.Config, mdl model.LogDensityModel, runDir string) (map[string]float64, error) {
	src := rng.New(cfg.Seed)
	engine := advi.NewEngine(mdl, src)
	engine.NPosteriorSamples = cfg.ADVI.NPosteriorSamples
	engine.Print = stdoutPrinter{}

	diagFile, err := os.Create(fmt.Sprintf("%s/diagnostics.csv", runDir))
	if err != nil {
		return nil, err
	}
	defer diagFile.Close()
	diagWriter := sampleio.NewCSVDiagnosticWriter(diagFile)
	engine.Diagnostic = diagWriter

	posteriorFile, err := os.Create(fmt.Sprintf("%s/posterior.csv", runDir))
	if err != nil {
		return nil, err
	}
	defer posteriorFile.Close()
	posteriorWriter := sampleio.NewCSVSampleWriter(posteriorFile)
	names := make([]string, mdl.NumParamsR())
	for i := range names {
		names[i] = fmt.Sprintf("x%d", i)
	}
	if err := posteriorWriter.WriteHeader(names); err != nil {
		return nil, err
	}
	engine.Posterior = posteriorWriter

	x0 := make([]float64, mdl.NumParamsR())
	var newFamily func(x0 []float64) advi.Family
	switch cfg.ADVI.Family {
	case "fullrank":
		newFamily = func(x0 []float64) advi.Family { return advi.NewFullRank(x0) }
	default:
		newFamily = func(x0 []float64) advi.Family { return advi.NewMeanField(x0) }
	}

	start := time.Now()
	now := func() float64 { return time.Since(start).Seconds() }

	if err := engine.Run(newFamily, x0, cfg.ADVI.Eta, cfg.ADVI.TolRelObj, cfg.ADVI.MaxIterations, now); err != nil {
		return nil, err
	}

	return map[string]float64{
		"n_posterior_samples": float64(cfg.ADVI.NPosteriorSamples),
	}, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	store := sampleio.NewRunStore(dataDir)
	runs, err := store.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tSAMPLER\tTIME\tDURATION\tSEED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.3fs\t%d\n",
			run.ID, run.Model, run.Sampler,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration, run.Seed)
	}
	return w.Flush()
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	store := sampleio.NewRunStore(dataDir)
	meta, err := store.Load(runID)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func benchSampler(cmd *cobra.Command, args []string) error {
	samplerArg, modelArg := args[0], args[1]

	cfg := config.DefaultConfig()
	cfg.Sampler = samplerArg
	cfg.Target.Kind = modelArg
	cfg.NDraws = nDraws

	mdl, err := buildTarget(cfg.Target)
	if err != nil {
		return err
	}
	metric, err := buildMetric(cfg.HMC.Metric, mdl.NumParamsR())
	if err != nil {
		return err
	}
	src := rng.New(cfg.Seed)

	q := make([]float64, mdl.NumParamsR())
	start := time.Now()

	if samplerArg == "static" {
		s := hmc.NewStatic(mdl, metric, src)
		if err := s.SetNominalStepsizeAndT(cfg.HMC.Stepsize, cfg.HMC.IntTime); err != nil {
			return err
		}
		for i := 0; i < nDraws; i++ {
			samp, err := s.Transition(q)
			if err != nil {
				return err
			}
			q = samp.Q
		}
	} else {
		nt := hmc.NewNUTS(mdl, metric, src)
		if err := nt.SetNominalStepsize(cfg.HMC.Stepsize); err != nil {
			return err
		}
		for i := 0; i < nDraws; i++ {
			samp, err := nt.Transition(q)
			if err != nil {
				return err
			}
			q = samp.Q
		}
	}

	elapsed := time.Since(start)
	fmt.Printf("sampler=%s model=%s draws=%d elapsed=%v draws/sec=%.0f\n",
		samplerArg, modelArg, nDraws, elapsed, float64(nDraws)/elapsed.Seconds())
	return nil
}
