package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/jakecoffman/cp"
	"github.com/san-kum/kinelab/internal/analysis"
	"github.com/san-kum/kinelab/internal/config"
	"github.com/san-kum/kinelab/internal/demo"
	"github.com/san-kum/kinelab/internal/experiment"
	"github.com/san-kum/kinelab/internal/export"
	"github.com/san-kum/kinelab/internal/gui"
	"github.com/san-kum/kinelab/internal/render"
	"github.com/san-kum/kinelab/internal/scene"
	"github.com/san-kum/kinelab/internal/storage"
	"github.com/san-kum/kinelab/internal/tui"
	"github.com/san-kum/kinelab/internal/viz"
	"github.com/spf13/cobra"
)

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	log, closer, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()

	h := newHost(cfg, log)
	defer h.Close()

	factory := func(name string) (viz.Model, error) {
		def, store, session, err := h.build(name)
		if err != nil {
			return viz.Model{}, err
		}
		return viz.NewModel(def, store, session, cfg.FPS), nil
	}

	if len(args) == 0 {
		return viz.Run(viz.NewApp(h.demos, factory))
	}
	m, err := factory(cfg.Demo)
	if err != nil {
		return err
	}
	return viz.Run(m)
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	log, closer, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()

	h := newHost(cfg, log)
	defer h.Close()

	app := gui.NewApp(h.demos, func(name string) (gui.Session, error) {
		def, store, session, err := h.build(name)
		if err != nil {
			return gui.Session{}, err
		}
		return gui.Session{Def: def, Store: store, Session: session}, nil
	})

	start := ""
	if len(args) > 0 {
		start = cfg.Demo
	}
	return gui.Run(app, start, int(cfg.Viewport.Width), int(cfg.Viewport.Height), cfg.FPS)
}

// newExperiment builds a headless run from the layered config. A positive
// fps paces it in real time.
func newExperiment(cfg *config.Config, log *slog.Logger, n, fps int) (*experiment.Experiment, error) {
	if n <= 0 {
		n = cfg.Frames
	}
	sp := cfg.SpawnOptions()
	if seed != 0 {
		sp.Seed = seed
	}
	return experiment.New(experiment.Config{
		Demo:     cfg.Demo,
		Frames:   n,
		Viewport: cfg.Viewport,
		Params:   cfg.Params,
		Spawn:    sp,
		Metric:   cfg.OverlayMetric(),
		Script:   script,
		FPS:      fps,
		Logger:   log,
	}, demo.NewRegistry(), experiment.NewRegistry())
}

func playDemo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	log, closer, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()

	exp, err := newExperiment(cfg, log, frames, cfg.FPS)
	if err != nil {
		return err
	}

	session := exp.Session()
	renderer := tui.NewLiveRenderer(session.Definition().Title, cfg.FPS, os.Stdout)
	session.AddObserver(renderer)
	if s := startSound(cfg, log); s != nil {
		defer s.Stop()
		session.AddObserver(s)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	renderer.Start()
	res, err := exp.Run(ctx)
	renderer.Stop()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	if err != nil {
		return err
	}
	printMetrics(res.Meta.Metrics)
	return nil
}

func recordDemo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	log, closer, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()

	exp, err := newExperiment(cfg, log, frames, 0)
	if err != nil {
		return err
	}

	res, err := exp.Run(cmd.Context())
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(res.Meta, res.Samples)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", runID)
	fmt.Printf("frames: %d  time: %.2fs\n", len(res.Samples), res.Meta.Duration)
	printMetrics(res.Meta.Metrics)
	if cfg.Demo == "spring" {
		printPeriod(res.Meta, res.Samples)
	}

	if svgOut != "" {
		points := make([]cp.Vector, 0, len(res.Samples))
		for _, sm := range res.Samples {
			points = append(points, cp.Vector{X: sm.X, Y: sm.Y})
		}
		vp := scene.Viewport{Width: res.Meta.Width, Height: res.Meta.Height}
		doc := export.TrajectoryToSVG(points, vp, render.Background, render.DistanceBlue)
		if doc == "" {
			return fmt.Errorf("run %s has too few samples to draw", runID)
		}
		if err := os.WriteFile(svgOut, []byte(doc), 0644); err != nil {
			return err
		}
		fmt.Printf("trajectory: %s\n", svgOut)
	}
	return nil
}

func snapshotDemo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	log, closer, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()

	exp, err := newExperiment(cfg, log, snapFrames, 0)
	if err != nil {
		return err
	}

	res, err := exp.Run(cmd.Context())
	if err != nil {
		return err
	}
	doc := export.CmdsToSVG(res.Last.Cmds, cfg.Viewport)
	if svgOut == "" {
		fmt.Print(doc)
		return nil
	}
	return os.WriteFile(svgOut, []byte(doc), 0644)
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
	fmt.Fprintln(w, "ID\tDEMO\tTIME\tFRAMES\tDURATION\tSEED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2fs\t%d\n",
			run.ID,
			run.Demo,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.Duration,
			run.Seed,
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
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	data, err := storage.Series(samples, column)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("demo: %s\n", meta.Demo)
	fmt.Printf("samples: %d\n\n", len(samples))

	graph := asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s vs frame", column)),
	)
	fmt.Println(graph)

	if meta.Demo == "spring" {
		fmt.Println()
		printPeriod(*meta, samples)
	}

	if phase {
		y, _ := storage.Series(samples, "y")
		v := analysis.Velocity(y, frameDt(*meta, samples))
		fmt.Println()
		fmt.Println(analysis.PhasePortraitToASCII(analysis.NewPhasePortrait(y, v), 60, 20))
		fmt.Println("  y vs dy/dt")
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, *meta, samples)
}

func listDemos(cmd *cobra.Command, args []string) error {
	reg := demo.NewRegistry()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DEMO\tKEY\tLABEL\tRANGE\tDEFAULT\tREBUILDS")

	for _, name := range reg.Names() {
		def, err := reg.Get(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t\t%s\t\t\t\n", name, def.Title)
		for _, sl := range def.Sliders {
			rebuild := ""
			if slices.Contains(def.Structural, sl.Key) {
				rebuild = "yes"
			}
			fmt.Fprintf(w, "\t%s\t%s\t%g..%g\t%g\t%s\n", sl.Key, sl.Label, sl.Min, sl.Max, sl.Default, rebuild)
		}
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	names := demo.NewRegistry().Names()
	if len(args) > 0 {
		names = args[:1]
	}

	for _, name := range names {
		presets := config.ListPresets(name)
		if len(presets) == 0 {
			fmt.Printf("no presets for demo: %s\n", name)
			continue
		}
		fmt.Printf("presets for %s:\n", name)
		for _, p := range presets {
			cfg := config.GetPreset(name, p)
			fmt.Printf("  %-8s %s\n", p, formatParams(cfg.Params))
		}
	}
	return nil
}

func printMetrics(m map[string]float64) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %-18s %.4f\n", k, m[k])
	}
}

// printPeriod compares the weight's measured oscillation with 2π√(m/k).
func printPeriod(meta storage.RunMetadata, samples []storage.Sample) {
	y, _ := storage.Series(samples, "y")
	dt := frameDt(meta, samples)

	measured := analysis.MeasuredPeriod(y, dt)
	freq := analysis.DominantFrequency(y, dt)
	predicted := scene.PredictedPeriod(meta.Params[scene.KeyMass], meta.Params[scene.KeyStiffness])

	fmt.Printf("period: measured %.3fs  predicted %.3fs\n", measured, predicted)
	if freq > 0 {
		fmt.Printf("dominant frequency: %.3f Hz\n", freq)
	}
}

func frameDt(meta storage.RunMetadata, samples []storage.Sample) float64 {
	if len(samples) == 0 {
		return 0
	}
	return meta.Duration / float64(len(samples))
}

func formatParams(p map[string]float64) string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%g", k, p[k])
	}
	return strings.Join(parts, " ")
}
