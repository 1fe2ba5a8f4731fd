package engine

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrOutOfBounds    = errors.New("move would leave the grid")
	ErrInvalidCommand = errors.New("invalid command")
	ErrInvalidHeading = errors.New("invalid heading")
)

// Valid reports whether h is one of the four compass headings.
func (h Heading) Valid() bool {
	switch h {
	case North, East, South, West:
		return true
	}
	return false
}

// Left returns the heading after a quarter turn counter-clockwise.
func (h Heading) Left() Heading {
	switch h {
	case North:
		return West
	case West:
		return South
	case South:
		return East
	case East:
		return North
	default:
		return h
	}
}

// Right returns the heading after a quarter turn clockwise.
func (h Heading) Right() Heading {
	switch h {
	case North:
		return East
	case East:
		return South
	case South:
		return West
	case West:
		return North
	default:
		return h
	}
}

// delta is the row/column step of one forward move.
func (h Heading) delta() (dRow, dCol int) {
	switch h {
	case North:
		return -1, 0
	case East:
		return 0, 1
	case South:
		return 1, 0
	case West:
		return 0, -1
	}
	return 0, 0
}

// TurnLeft rotates the rover counter-clockwise without moving it.
func TurnLeft(r Rover) Rover {
	r.Heading = r.Heading.Left()
	return r
}

// TurnRight rotates the rover clockwise without moving it.
func TurnRight(r Rover) Rover {
	r.Heading = r.Heading.Right()
	return r
}

// MoveForward advances one cell along the heading.
func MoveForward(r Rover, gridSize int) (Rover, error) {
	return step(r, gridSize, 1)
}

// MoveBackward moves one cell against the heading.
func MoveBackward(r Rover, gridSize int) (Rover, error) {
	return step(r, gridSize, -1)
}

func step(r Rover, gridSize, sign int) (Rover, error) {
	if !r.Heading.Valid() {
		return r, fmt.Errorf("%w: %q", ErrInvalidHeading, r.Heading)
	}
	dRow, dCol := r.Heading.delta()
	row, col := r.Row+sign*dRow, r.Column+sign*dCol
	if row < 0 || row >= gridSize || col < 0 || col >= gridSize {
		return r, ErrOutOfBounds
	}
	r.Row, r.Column = row, col
	return r, nil
}

// Apply dispatches a command to the matching navigation primitive.
func Apply(r Rover, cmd Command, gridSize int) (Rover, error) {
	switch cmd {
	case CommandLeft:
		return TurnLeft(r), nil
	case CommandRight:
		return TurnRight(r), nil
	case CommandForward:
		return MoveForward(r, gridSize)
	case CommandBackward:
		return MoveBackward(r, gridSize)
	default:
		return r, fmt.Errorf("%w: %q", ErrInvalidCommand, cmd)
	}
}

// ParseCommand accepts the single-letter codes and their long forms
// ("left", "turn-left", "forward", "move-forward", ...).
func ParseCommand(s string) (Command, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "l", "left", "turn-left", "turn_left":
		return CommandLeft, nil
	case "r", "right", "turn-right", "turn_right":
		return CommandRight, nil
	case "f", "forward", "move-forward", "move_forward":
		return CommandForward, nil
	case "b", "backward", "back", "move-backward", "move_backward":
		return CommandBackward, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidCommand, s)
	}
}

// Name returns the long form of the command.
func (c Command) Name() string {
	switch c {
	case CommandLeft:
		return "turn-left"
	case CommandRight:
		return "turn-right"
	case CommandForward:
		return "move-forward"
	case CommandBackward:
		return "move-backward"
	default:
		return string(c)
	}
}

// IsTurn reports whether the command only changes the heading.
func (c Command) IsTurn() bool {
	return c == CommandLeft || c == CommandRight
}
