// Package engine provides the core game logic for the Mars Rover alien hunt.
//
// The engine package implements the game mechanics including:
//   - Heading rotation and bounds-checked rover movement
//   - Grid sizing from the player's viewport width
//   - Random placement of the hidden alien cell
//   - Win detection and countdown expiry handling
//   - Dialog state that pauses and resumes the countdown
//   - Configuration loading and validation
//
// Core Types:
//
// Rover holds the position and heading. The navigation functions (TurnLeft,
// TurnRight, MoveForward, MoveBackward, Apply) are pure: they take a Rover and
// return a new one, or ErrOutOfBounds when the move would leave the grid.
// GameEngine owns one session's state and wires the navigation functions to a
// countdown (game/clock), a Renderer and an AudioPlayer.
//
// Usage:
//
//	cfg := engine.DefaultConfig()
//	eng, err := engine.NewEngine(cfg, engine.WithRenderer(renderer), engine.WithViewport(1280))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	eng.Start(0)
//	outcome := eng.AttemptMove(engine.CommandForward)
//	if !outcome.Accepted {
//		fmt.Println(outcome.Message)
//	}
//
// Game Rules:
//
// The rover starts at row 0, column 0 facing north. The player turns and moves
// it around the grid looking for the alien before the countdown ends. Moves
// that would leave the grid are refused with a message. Landing on the alien
// cell wins and cancels the countdown; running out of time ends the game and
// returns the rover to base.
package engine
