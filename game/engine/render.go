package engine

import (
	"fmt"
	"strings"
)

// RenderText draws the grid as text. The rover is shown by its heading
// letter, a found alien by 'A' and every other cell by '.'.
func RenderText(state *GameState) string {
	if state == nil || state.GridSize <= 0 {
		return ""
	}

	var b strings.Builder
	for r := 0; r < state.GridSize; r++ {
		for c := 0; c < state.GridSize; c++ {
			if c > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(cellGlyph(state, r, c))
		}
		b.WriteByte('\n')
	}

	fmt.Fprintf(&b, "Position: %d/%d - Direction: %s\n", state.Rover.Row, state.Rover.Column, state.Rover.Heading)
	if state.Started {
		fmt.Fprintf(&b, "Time left: %.1fs (%s)\n", float64(state.RemainingMs)/1000, state.ClockState)
	}
	if state.Dialog != nil {
		fmt.Fprintf(&b, "[%s] %s\n", state.Dialog.Kind, state.Dialog.Message)
	} else if state.Message != "" {
		b.WriteString(state.Message)
		b.WriteByte('\n')
	}
	return b.String()
}

func cellGlyph(state *GameState, row, col int) string {
	if state.Rover.Row == row && state.Rover.Column == col {
		return string(state.Rover.Heading)
	}
	if state.AlienPos != nil && state.AlienPos.Row == row && state.AlienPos.Column == col {
		return "A"
	}
	return "."
}
