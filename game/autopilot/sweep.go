package autopilot

import "github.com/wricardo/mars-rover-game/game/engine"

// SweepPlan returns the commands that drive a rover from base (0,0) heading
// north through every cell of a size x size grid, row by row in a serpentine.
// None of the commands is ever refused for leaving the grid.
func SweepPlan(size int) []engine.Command {
	if size < 1 {
		return nil
	}

	plan := make([]engine.Command, 0, SweepLength(size))
	plan = append(plan, engine.CommandRight) // face east

	for row := 0; row < size; row++ {
		for c := 1; c < size; c++ {
			plan = append(plan, engine.CommandForward)
		}
		if row == size-1 {
			break
		}

		// Drop one row and face back the way we came
		turn := engine.CommandRight
		if row%2 == 1 {
			turn = engine.CommandLeft
		}
		plan = append(plan, turn, engine.CommandForward, turn)
	}
	return plan
}

// SweepLength is the number of commands in SweepPlan(size): the worst case
// for finding an alien by sweeping.
func SweepLength(size int) int {
	if size < 1 {
		return 0
	}
	return 1 + size*(size-1) + 3*(size-1)
}

// Chunks splits commands into bulk requests of at most limit entries.
func Chunks(commands []engine.Command, limit int) [][]string {
	if limit < 1 {
		limit = engine.MaxBulkCommands
	}

	var chunks [][]string
	for len(commands) > 0 {
		n := min(limit, len(commands))
		chunk := make([]string, n)
		for i, cmd := range commands[:n] {
			chunk[i] = string(cmd)
		}
		chunks = append(chunks, chunk)
		commands = commands[n:]
	}
	return chunks
}
