// Command analyze prints quick, human-readable heuristics about the game
// configurations in a directory: grid sizes per viewport, the worst-case
// number of commands to sweep each grid and the piloting pace the timer
// demands.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/mars-rover-game/game/autopilot"
	"github.com/wricardo/mars-rover-game/game/config"
	"github.com/wricardo/mars-rover-game/game/engine"
)

// GridAnalysis describes one of the two grids a config can produce.
type GridAnalysis struct {
	Label string
	Size  int
	Cells int
	// Worst case: the alien sits on the last cell of the sweep.
	SweepCommands int
	// Expected commands with the alien anywhere but base.
	AverageCommands float64
	CommandsPerSec  float64
	BulkRequests    int
}

// Analysis is the report for one configuration.
type Analysis struct {
	ConfigID string
	Name     string
	Timer    time.Duration
	Grids    []GridAnalysis
}

func analyzeGrid(label string, size int, timer time.Duration) GridAnalysis {
	sweep := autopilot.SweepLength(size)
	g := GridAnalysis{
		Label:           label,
		Size:            size,
		Cells:           size * size,
		SweepCommands:   sweep,
		AverageCommands: float64(sweep) / 2,
		BulkRequests:    (sweep + engine.MaxBulkCommands - 1) / engine.MaxBulkCommands,
	}
	if timer > 0 {
		g.CommandsPerSec = float64(sweep) / timer.Seconds()
	}
	return g
}

func analyzeConfig(id string, cfg *engine.GameConfig) (*Analysis, error) {
	timer, err := cfg.TimerDuration()
	if err != nil {
		return nil, err
	}

	a := &Analysis{ConfigID: id, Name: cfg.Name, Timer: timer}
	a.Grids = append(a.Grids, analyzeGrid(fmt.Sprintf("<= %dpx", cfg.Grid.Breakpoint), cfg.Grid.Small, timer))
	a.Grids = append(a.Grids, analyzeGrid(fmt.Sprintf("> %dpx", cfg.Grid.Breakpoint), cfg.Grid.Large, timer))
	return a, nil
}

func printAnalysis(w io.Writer, a *Analysis) {
	fmt.Fprintf(w, "\n=== Analyzing %s ===\n", a.ConfigID)
	fmt.Fprintf(w, "Name: %s\n", a.Name)
	fmt.Fprintf(w, "Timer: %s\n", a.Timer)

	for _, g := range a.Grids {
		fmt.Fprintf(w, "Viewport %s: %dx%d grid, %d cells\n", g.Label, g.Size, g.Size, g.Cells)
		fmt.Fprintf(w, "   Full sweep: %d commands (%d bulk requests), %.1f on average\n",
			g.SweepCommands, g.BulkRequests, g.AverageCommands)
		switch {
		case g.CommandsPerSec > 4:
			fmt.Fprintf(w, "⚠️  Needs %.1f commands/s to sweep in time: only bulk piloting will make it\n", g.CommandsPerSec)
		case g.CommandsPerSec > 2:
			fmt.Fprintf(w, "⚡ Needs %.1f commands/s: tight for a human\n", g.CommandsPerSec)
		default:
			fmt.Fprintf(w, "✅ Needs %.1f commands/s: comfortable\n", g.CommandsPerSec)
		}
	}
}

func run(dir string, w io.Writer) error {
	manager, err := config.NewManager(dir)
	if err != nil {
		return err
	}
	infos, err := manager.ListConfigs()
	if err != nil {
		return err
	}

	for _, info := range infos {
		cfg, err := manager.LoadConfig(info.ConfigID)
		if err != nil {
			fmt.Fprintf(w, "\n=== %s ===\nError loading config: %v\n", info.ConfigID, err)
			continue
		}
		a, err := analyzeConfig(info.ConfigID, cfg)
		if err != nil {
			fmt.Fprintf(w, "\n=== %s ===\nError: %v\n", info.ConfigID, err)
			continue
		}
		printAnalysis(w, a)
	}
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:      "analyze",
		Usage:     "print difficulty heuristics for game configurations",
		ArgsUsage: "[config-dir]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir := "configs"
			if cmd.Args().Len() > 0 {
				dir = cmd.Args().First()
			}
			return run(dir, os.Stdout)
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
