package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/jakecoffman/cp"
	"github.com/spf13/cobra"

	"github.com/solthas/platsim/internal/actor"
	"github.com/solthas/platsim/internal/config"
	"github.com/solthas/platsim/internal/event"
	"github.com/solthas/platsim/internal/motion"
	"github.com/solthas/platsim/internal/script"
	"github.com/solthas/platsim/internal/trace"
	"github.com/solthas/platsim/internal/tui"
	"github.com/solthas/platsim/internal/world"
)

var (
	dataDir    string
	configFile string
	preset     string
	duration   float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "platsim",
		Short: "deterministic platformer motion sandbox",
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand: drop into the playground.
			return playScene(cmd, args)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".platsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "tuning file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "named tuning preset")

	runCmd := &cobra.Command{
		Use:   "run [pattern]",
		Short: "headless scripted run, recorded as a trace",
		Args:  cobra.ExactArgs(1),
		RunE:  runScripted,
	}
	runCmd.Flags().Float64Var(&duration, "time", 8.0, "run duration in seconds")

	playCmd := &cobra.Command{
		Use:   "play",
		Short: "interactive terminal playground",
		RunE:  playScene,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list tuning presets and input patterns",
		Run: func(cmd *cobra.Command, args []string) {
			names := config.ListPresets()
			sort.Strings(names)
			fmt.Println("presets:")
			for _, name := range names {
				fmt.Printf("  %s\n", name)
			}
			fmt.Println("patterns:")
			for _, name := range script.List() {
				fmt.Printf("  %s\n", name)
			}
		},
	}

	rootCmd.AddCommand(runCmd, playCmd, listCmd, plotCmd, exportCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadTuning resolves the effective config: explicit file, then preset, then
// defaults.
func loadTuning() (*config.Config, string, error) {
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("load config: %w", err)
		}
		return cfg, "custom", nil
	}
	if preset != "" {
		cfg := config.GetPreset(preset)
		if cfg == nil {
			return nil, "", fmt.Errorf("unknown preset: %s", preset)
		}
		return cfg, preset, nil
	}
	return config.DefaultConfig(), "default", nil
}

// demoLevel is the shared course: a long floor, a step, raised slabs, a
// patrol platform and a breakable one. Meters, y down, floor top at y=0.
func demoLevel() []world.PlatformSpec {
	return []world.PlatformSpec{
		{Kind: world.KindStatic, Center: cp.Vector{X: 0, Y: 0.5}, HalfW: 14, HalfH: 0.5},
		{Kind: world.KindStatic, Center: cp.Vector{X: 4, Y: -0.1}, HalfW: 1, HalfH: 0.1},
		{Kind: world.KindStatic, Center: cp.Vector{X: 7, Y: -1}, HalfW: 1.2, HalfH: 0.2},
		{Kind: world.KindStatic, Center: cp.Vector{X: -5, Y: -1.6}, HalfW: 1, HalfH: 0.2},
		{
			Kind:   world.KindMoving,
			Center: cp.Vector{X: 10, Y: -1.8},
			HalfW:  1, HalfH: 0.2,
			To:    cp.Vector{X: 13, Y: -1.8},
			Speed: 1.2,
		},
		{
			Kind:   world.KindBreakable,
			Center: cp.Vector{X: -8, Y: -2.4},
			HalfW:  0.8, HalfH: 0.2,
			Hits: 2,
		},
	}
}

var spawnPoint = cp.Vector{X: 0, Y: -0.46}

func playScene(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadTuning()
	if err != nil {
		return err
	}
	return tui.Run(cfg, demoLevel(), spawnPoint)
}

func runScripted(cmd *cobra.Command, args []string) error {
	patternName := args[0]
	pat, err := script.Get(patternName)
	if err != nil {
		return err
	}
	cfg, presetName, err := loadTuning()
	if err != nil {
		return err
	}

	scene, err := actor.NewScene(cfg, demoLevel())
	if err != nil {
		return err
	}
	defer scene.Close()

	hero, err := scene.Spawn("hero", spawnPoint)
	if err != nil {
		return err
	}

	var jumps, landings int
	scene.Bus().Subscribe(event.EventJumpPerformed, func(any) { jumps++ })
	scene.Bus().Subscribe(event.EventLanded, func(any) { landings++ })

	dt := cfg.World.FixedDt
	ticks := int(duration / dt)
	rec := trace.NewRecorder()

	for i := 0; i < ticks; i++ {
		intent := pat(i)
		if err := scene.Frame(dt, map[string]motion.Intent{"hero": intent}); err != nil {
			fmt.Fprintf(os.Stderr, "tick %d: %v\n", i, err)
		}
		pos := hero.Actor().Position()
		rec.Record(dt, pos.X, pos.Y, hero.Actor().Snapshot())
	}

	store := trace.NewStore(dataDir)
	if err := store.Init(); err != nil {
		return err
	}
	runID, err := store.Save(trace.RunMetadata{
		Preset:   presetName,
		Pattern:  patternName,
		Dt:       dt,
		Jumps:    jumps,
		Landings: landings,
	}, rec)
	if err != nil {
		return err
	}

	final := hero.Actor().Position()
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("ticks: %d (%.2fs at dt=%.4fs)\n", ticks, float64(ticks)*dt, dt)
	fmt.Printf("final position: %.3f, %.3f m\n", final.X, final.Y)
	fmt.Printf("jumps: %d  landings: %d\n", jumps, landings)
	if hero.Benched() {
		fmt.Println("actor ended the run benched")
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	store := trace.NewStore(dataDir)
	runs, err := store.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tPATTERN\tTIME\tDURATION\tTICKS\tJUMPS\tLANDINGS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2fs\t%d\t%d\t%d\n",
			run.ID,
			run.Preset,
			run.Pattern,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Ticks,
			run.Jumps,
			run.Landings,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	store := trace.NewStore(dataDir)

	meta, err := store.Load(runID)
	if err != nil {
		return err
	}
	ticks, err := store.LoadTicks(runID)
	if err != nil {
		return err
	}
	if len(ticks) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s  pattern: %s\n", meta.Preset, meta.Pattern)
	fmt.Printf("samples: %d\n\n", len(ticks))

	series := []struct {
		caption string
		value   func(trace.Sample) float64
	}{
		// Simulation y grows downward; height plots the negation so up
		// is up on screen.
		{"height (m)", func(s trace.Sample) float64 { return -s.PosY }},
		{"horizontal position (m)", func(s trace.Sample) float64 { return s.PosX }},
		{"horizontal velocity (m/s)", func(s trace.Sample) float64 { return s.VelX }},
		{"vertical velocity (m/s, down positive)", func(s trace.Sample) float64 { return s.VelY }},
	}

	for _, sr := range series {
		data := make([]float64, len(ticks))
		for i, s := range ticks {
			data[i] = sr.value(s)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(sr.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	store := trace.NewStore(dataDir)
	meta, err := store.Load(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}
