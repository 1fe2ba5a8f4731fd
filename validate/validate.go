// Command validate checks the game configuration files (*.hcl, *.json) in a
// directory. It checks:
//   - HCL / JSON syntax and the schema (unknown attributes are errors)
//   - Grid sizes, breakpoint and timer ranges after defaults are applied
//   - Message placeholders (victory takes row and column, status also takes the heading)
//   - Timer feasibility: how fast a player must pilot to sweep the whole grid in time
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/mars-rover-game/game/autopilot"
	"github.com/wricardo/mars-rover-game/game/engine"
)

// A full sweep faster than this is out of reach without bulk commands.
const maxCommandsPerSecond = 4.0

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File     string
	Valid    bool
	Errors   []string
	Warnings []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) info(format string, args ...interface{}) {
	r.Errors = append(r.Errors, "✓ "+fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single configuration file.
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	format, err := engine.FormatForPath(filePath)
	if err != nil {
		result.fail("%v", err)
		return result
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	config, err := engine.DecodeConfig(data, result.File, format)
	if err != nil {
		result.fail("%v", err)
		return result
	}

	if n := strings.Count(config.Messages.Status, "%d"); n != 2 || strings.Count(config.Messages.Status, "%s") != 1 {
		result.fail("messages.status must contain %%d twice and %%s once (row, column, heading)")
	}
	if stem := strings.TrimSuffix(result.File, filepath.Ext(result.File)); stem != config.Name {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("name %q differs from the file name; sessions refer to this config as %q", config.Name, stem))
	}

	timer, _ := config.TimerDuration()
	checkFeasibility(&result, config.Grid.Small, timer)
	if config.Grid.Large != config.Grid.Small {
		checkFeasibility(&result, config.Grid.Large, timer)
	}

	if result.Valid {
		result.info("Name: %s", config.Name)
		result.info("Grid: %dx%d up to %dpx, %dx%d above", config.Grid.Small, config.Grid.Small,
			config.Grid.Breakpoint, config.Grid.Large, config.Grid.Large)
		result.info("Timer: %s", timer)
		result.info("Orientation lock: landscape up to %dpx", config.OrientationLockWidth)
	}
	return result
}

// checkFeasibility warns when sweeping a size x size grid before the timer
// runs out needs more than maxCommandsPerSecond.
func checkFeasibility(result *ValidationResult, size int, timer time.Duration) {
	commands := autopilot.SweepLength(size)
	rate := float64(commands) / timer.Seconds()
	if rate > maxCommandsPerSecond {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("sweeping the %dx%d grid takes %d commands in %s (%.1f/s)", size, size, commands, timer, rate))
	}
}

// validateDir validates every config file in dir and prints a report to w.
// It reports whether all files are valid.
func validateDir(dir string, w io.Writer) (bool, error) {
	var files []string
	for _, pattern := range []string{"*.hcl", "*.json"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return false, fmt.Errorf("finding config files: %w", err)
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	if len(files) == 0 {
		return false, fmt.Errorf("no config files in %s", dir)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Errors {
				fmt.Fprintln(w, "  "+info)
			}
		} else {
			fmt.Fprintln(w, "❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Fprintln(w, "  ❌ "+err)
				}
			}
		}
		for _, warning := range result.Warnings {
			fmt.Fprintln(w, "  ⚠️  "+warning)
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(w, "✅ All configurations are valid!")
	} else {
		fmt.Fprintln(w, "❌ Some configurations have errors")
	}
	return allValid, nil
}

func newCommand(w io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "validate rover game configuration files",
		ArgsUsage: "[config-dir]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Value:   "configs",
				Usage:   "directory containing game configurations",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir := cmd.String("dir")
			if cmd.Args().Len() > 0 {
				dir = cmd.Args().First()
			}
			ok, err := validateDir(dir, w)
			if err != nil {
				return err
			}
			if !ok {
				return errors.New("some configurations have errors")
			}
			return nil
		},
	}
}

func main() {
	if err := newCommand(os.Stdout).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
