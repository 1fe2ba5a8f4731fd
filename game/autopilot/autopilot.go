package autopilot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/wricardo/mars-rover-game/game/engine"
	"github.com/wricardo/mars-rover-game/game/service"
)

// ErrGaveUp is returned when every attempt ran out of time.
var ErrGaveUp = errors.New("alien not found")

// Game is the part of a session the autopilot plays. *Client implements it.
type Game interface {
	Start(ctx context.Context, viewportWidth int) (*service.CommandResult, error)
	Reset(ctx context.Context) (*service.CommandResult, error)
	CloseDialog(ctx context.Context) (*service.CommandResult, error)
	BulkPilot(ctx context.Context, commands []string) (*service.BulkCommandResult, error)
}

// Options tune a run.
type Options struct {
	ViewportWidth int
	MaxAttempts   int
	// Delay between bulk requests, to watch the rover in a browser.
	Delay   time.Duration
	Verbose bool
}

// Result summarizes a run.
type Result struct {
	Won      bool
	Attempts int
	// Commands executed in the winning (or last) attempt.
	Commands int
	Alien    *engine.Position
	State    *engine.GameState
}

// Run sweeps the grid until the alien is found, restarting after each
// expired countdown, up to opts.MaxAttempts attempts.
func Run(ctx context.Context, game Game, opts Options) (*Result, error) {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}

	result := &Result{}
	for result.Attempts < opts.MaxAttempts {
		result.Attempts++
		log.Printf("=== 🚀 Attempt %d/%d ===", result.Attempts, opts.MaxAttempts)

		state, err := launch(ctx, game, opts.ViewportWidth)
		if err != nil {
			return result, err
		}
		if state.AlienFound {
			// Hidden under the base: found without moving.
			result.Won, result.Commands, result.State, result.Alien = true, 0, state, state.AlienPos
			log.Printf("🎉 Alien found at base in attempt %d", result.Attempts)
			return result, nil
		}

		won, commands, state, err := sweep(ctx, game, state.GridSize, opts)
		result.Commands = commands
		result.State = state
		if err != nil {
			return result, err
		}
		if won {
			result.Won = true
			if state != nil {
				result.Alien = state.AlienPos
			}
			log.Printf("🎉 Alien found in attempt %d after %d commands", result.Attempts, commands)
			return result, nil
		}
		log.Printf("⏰ Countdown expired after %d commands", commands)
	}
	return result, fmt.Errorf("%w after %d attempts", ErrGaveUp, result.Attempts)
}

// launch leaves the rover at base with a fresh countdown. The returned state
// has AlienFound set when the alien was hiding under the base.
func launch(ctx context.Context, game Game, width int) (*engine.GameState, error) {
	res, err := game.Start(ctx, width)
	if err != nil {
		return nil, err
	}

	switch res.Reason {
	case "":
	case service.ReasonAlreadyStarted:
		// A running game only needs the rover back at base
		if res, err = game.Reset(ctx); err != nil {
			return nil, err
		}
	case service.ReasonDialogLocked:
		return nil, fmt.Errorf("start refused: %s", res.Message)
	default:
		if _, err := game.CloseDialog(ctx); err != nil {
			return nil, err
		}
		if res, err = game.Start(ctx, width); err != nil {
			return nil, err
		}
	}
	if !res.Accepted || res.GameState == nil {
		return nil, fmt.Errorf("could not start: %s", res.Message)
	}
	return res.GameState, nil
}

func sweep(ctx context.Context, game Game, size int, opts Options) (bool, int, *engine.GameState, error) {
	var (
		executed int
		state    *engine.GameState
	)
	for _, chunk := range Chunks(SweepPlan(size), engine.MaxBulkCommands) {
		res, err := game.BulkPilot(ctx, chunk)
		if err != nil {
			return false, executed, state, err
		}
		executed += res.CommandsExecuted
		state = res.GameState

		if opts.Verbose {
			log.Printf("Rover (%d,%d,%s) -> (%d,%d,%s), %d commands so far",
				res.StartRover.Row, res.StartRover.Column, res.StartRover.Heading,
				res.EndRover.Row, res.EndRover.Column, res.EndRover.Heading, executed)
		}

		switch {
		case res.Won:
			return true, executed, state, nil
		case res.GameOver:
			if _, err := game.CloseDialog(ctx); err != nil {
				return false, executed, state, err
			}
			return false, executed, state, nil
		case res.StopReasonCode != "":
			return false, executed, state, fmt.Errorf("sweep stopped on command %d: %s (%s)",
				res.StoppedOnCommand, res.StoppedReason, res.StopReasonCode)
		}

		if opts.Delay > 0 {
			select {
			case <-ctx.Done():
				return false, executed, state, ctx.Err()
			case <-time.After(opts.Delay):
			}
		}
	}
	return false, executed, state, fmt.Errorf("sweep of %dx%d grid finished without finding the alien", size, size)
}
