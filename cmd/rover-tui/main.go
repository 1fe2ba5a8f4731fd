// Command rover-tui plays the Mars Rover Alien Hunt in the terminal against a
// local engine, with background music when an audio device is available.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/mars-rover-game/game/audio"
	"github.com/wricardo/mars-rover-game/game/config"
	"github.com/wricardo/mars-rover-game/game/engine"
	"github.com/wricardo/mars-rover-game/transport/terminal"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "rover-tui: %v\n", err)
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "rover-tui",
		Usage: "pilot the Mars rover in your terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "directory containing game configurations",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "configuration name inside config-dir, or a path to a .hcl/.json file",
			},
			&cli.BoolFlag{
				Name:  "mute",
				Usage: "never open the audio device",
			},
			&cli.FloatFlag{
				Name:  "volume",
				Value: 1,
				Usage: "music volume between 0 (silent) and 1 (full)",
			},
			&cli.StringFlag{
				Name:  "log",
				Usage: "write logs to this file (the terminal belongs to the game)",
			},
		},
		Action: run,
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	log.SetOutput(io.Discard)
	if path := cmd.String("log"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	cfg, err := loadConfig(cmd.String("config-dir"), cmd.String("config"))
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	ui := terminal.New(screen)
	var renderer engine.Renderer = ui
	if cmd.String("log") != "" {
		renderer = engine.MultiRenderer{ui, logRenderer(log.Default())}
	}
	opts := []engine.Option{
		engine.WithRenderer(renderer),
		engine.WithViewport(ui.ViewportWidth()),
	}
	if !cmd.Bool("mute") {
		opts = append(opts, engine.WithAudio(newPlayer(cmd.Float("volume"))))
	}

	eng, err := engine.NewEngine(cfg, opts...)
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}
	defer eng.Close()

	ui.Attach(eng)
	log.Printf("Playing %q on a %d column terminal", cfg.Name, ui.ViewportWidth()/10)
	return ui.Run(ctx)
}

// newPlayer returns the theme player at volume, clamped to [0, 1].
func newPlayer(volume float64) *audio.Player {
	player := audio.NewPlayer(audio.MarsTheme)
	player.SetVolume(min(max(volume, 0), 1))
	return player
}

// logRenderer records status changes, so a game can be followed from the
// log file while the terminal is busy.
func logRenderer(logger *log.Logger) engine.Renderer {
	var last string
	var won, over bool
	return engine.RendererFunc(func(state *engine.GameState) {
		if state.Message != last {
			logger.Printf("status: %s", state.Message)
			last = state.Message
		}
		if state.AlienFound && !won && state.AlienPos != nil {
			logger.Printf("alien found at %d/%d", state.AlienPos.Row, state.AlienPos.Column)
		}
		if state.GameOver && !over {
			logger.Printf("countdown expired with the rover at %d/%d", state.Rover.Row, state.Rover.Column)
		}
		won, over = state.AlienFound, state.GameOver
	})
}

// loadConfig resolves name as a file path first, then as a configuration in
// dir. An empty name picks the directory default, or the built-in config when
// dir does not exist.
func loadConfig(dir, name string) (*engine.GameConfig, error) {
	if name != "" {
		if _, err := engine.FormatForPath(name); err == nil {
			if _, statErr := os.Stat(name); statErr == nil {
				return engine.LoadConfigFile(name)
			}
		}
	}

	manager, err := config.NewManager(dir)
	if err != nil {
		if name != "" {
			return nil, err
		}
		return engine.DefaultConfig(), nil
	}
	if name == "" {
		return manager.GetDefault(), nil
	}
	return manager.LoadConfig(name)
}
