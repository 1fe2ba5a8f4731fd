// Command autopilot plays a session on a running game server by sweeping the
// grid row by row until the alien turns up.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/mars-rover-game/game/autopilot"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		log.Printf("❌ %v", err)
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "autopilot",
		Usage: "find the alien automatically through the REST API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "url",
				Value:   "http://localhost:8080",
				Usage:   "game server URL",
				Sources: cli.EnvVars("ROVER_URL"),
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "configuration id for a new session",
			},
			&cli.StringFlag{
				Name:  "continue",
				Usage: "play an existing session by ID instead of creating one",
			},
			&cli.IntFlag{
				Name:  "width",
				Value: 1280,
				Usage: "viewport width reported at start (picks the grid size)",
			},
			&cli.IntFlag{
				Name:  "max-attempts",
				Value: 3,
				Usage: "attempts before giving up",
			},
			&cli.DurationFlag{
				Name:  "delay",
				Usage: "pause between bulk requests",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log every bulk request",
			},
		},
		Action: run,
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	client := autopilot.NewClient(cmd.String("url"))
	log.Printf("Connecting to game server at %s", cmd.String("url"))

	if id := cmd.String("continue"); id != "" {
		client.UseSession(id)
		if _, err := client.State(ctx); err != nil {
			return fmt.Errorf("resume session %s: %w", id, err)
		}
		log.Printf("🔄 Resuming session: %s", id)
	} else {
		info, err := client.CreateSession(ctx, cmd.String("config"), int(cmd.Int("width")))
		if err != nil {
			return err
		}
		log.Printf("✨ Session created: %s (config %s)", info.ID, info.ConfigName)
	}

	start := time.Now()
	result, err := autopilot.Run(ctx, client, autopilot.Options{
		ViewportWidth: int(cmd.Int("width")),
		MaxAttempts:   int(cmd.Int("max-attempts")),
		Delay:         cmd.Duration("delay"),
		Verbose:       cmd.Bool("verbose"),
	})
	if err != nil {
		return fmt.Errorf("session %s: %w", client.SessionID(), err)
	}

	log.Printf("🎉 VICTORY! Alien at %d/%d, %d commands, %d attempt(s), %s",
		result.Alien.Row, result.Alien.Column, result.Commands, result.Attempts, time.Since(start).Round(time.Millisecond))
	log.Printf("Session: %s", client.SessionID())
	return nil
}
