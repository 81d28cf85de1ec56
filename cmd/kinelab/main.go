package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	overrides  []string
	logFile    string
	logLevel   string
	withAudio  bool
	// Headless runs
	frames     int
	snapFrames int
	fps        int
	script     string
	seed       int64
	// Outputs
	svgOut string
	column string
	phase  bool
)

// main registers the commands and flags and runs the root command. With no
// subcommand it opens the terminal demo menu.
func main() {
	rootCmd := &cobra.Command{
		Use:   "kinelab",
		Short: "interactive physics demos",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, nil)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".kinelab", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset parameters")
	pf.StringArrayVar(&overrides, "set", nil, "override a parameter (key=value, repeatable)")
	pf.StringVar(&logFile, "log-file", "", "write json logs to this file")
	pf.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.BoolVar(&withAudio, "audio", false, "sonify the tracked body")
	pf.IntVar(&fps, "fps", 0, "frame rate (defaults to the config)")

	tuiCmd := &cobra.Command{
		Use:   "tui [demo]",
		Short: "run a demo in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTUI,
	}

	guiCmd := &cobra.Command{
		Use:   "gui [demo]",
		Short: "run a demo in a desktop window",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGUI,
	}

	playCmd := &cobra.Command{
		Use:   "play [demo]",
		Short: "play a scripted run as plain text",
		Args:  cobra.MaximumNArgs(1),
		RunE:  playDemo,
	}
	playCmd.Flags().IntVar(&frames, "frames", 0, "number of frames (defaults to the config)")
	playCmd.Flags().StringVar(&script, "script", "", "pointer script (idle, hold, pluck, tap)")

	recordCmd := &cobra.Command{
		Use:   "record [demo]",
		Short: "run a demo headlessly and store its trace",
		Args:  cobra.MaximumNArgs(1),
		RunE:  recordDemo,
	}
	recordCmd.Flags().IntVar(&frames, "frames", 0, "number of frames (defaults to the config)")
	recordCmd.Flags().StringVar(&script, "script", "", "pointer script (idle, hold, pluck, tap)")
	recordCmd.Flags().Int64Var(&seed, "seed", 0, "spawn seed (0 keeps the config)")
	recordCmd.Flags().StringVar(&svgOut, "svg", "", "also write the tracked trajectory as svg")

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&column, "column", "speed", "sample column to plot")
	plotCmd.Flags().BoolVar(&phase, "phase", false, "also draw the phase portrait of y")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [demo]",
		Short: "render one frame to svg",
		Args:  cobra.MaximumNArgs(1),
		RunE:  snapshotDemo,
	}
	snapshotCmd.Flags().IntVar(&snapFrames, "frames", 60, "frames to advance before rendering")
	snapshotCmd.Flags().StringVar(&svgOut, "out", "", "output file (defaults to stdout)")
	snapshotCmd.Flags().StringVar(&script, "script", "", "pointer script (idle, hold, pluck, tap)")

	demosCmd := &cobra.Command{
		Use:   "demos",
		Short: "list demos and their sliders",
		RunE:  listDemos,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [demo]",
		Short: "list parameter presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	rootCmd.AddCommand(tuiCmd, guiCmd, playCmd, recordCmd, runsCmd, plotCmd, exportCmd, snapshotCmd, demosCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
