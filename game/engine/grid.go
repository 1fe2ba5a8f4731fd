package engine

import "math/rand/v2"

// Grid is the square play area. It knows which single cell hides the alien.
type Grid struct {
	Size  int
	alien Position
}

// GridSizeForViewport picks the small grid for narrow screens. A width of
// zero or less means the viewport is unknown and selects the large grid.
func GridSizeForViewport(width int, settings *GridSettings) int {
	if settings == nil {
		settings = DefaultConfig().Grid
	}
	if width > 0 && width <= settings.Breakpoint {
		return settings.Small
	}
	return settings.Large
}

// Contains reports whether p lies inside the grid.
func (g *Grid) Contains(p Position) bool {
	return p.Row >= 0 && p.Row < g.Size && p.Column >= 0 && p.Column < g.Size
}

// HideAlien moves the alien to a uniformly random cell. The rover's base is
// as likely as any other cell.
func (g *Grid) HideAlien(rng *rand.Rand) {
	cells := g.Size * g.Size
	if cells <= 1 {
		g.alien = Position{}
		return
	}
	idx := rng.IntN(cells)
	g.alien = Position{Row: idx / g.Size, Column: idx % g.Size}
}

// HasAlien reports whether p is the alien cell.
func (g *Grid) HasAlien(p Position) bool {
	return g.alien == p
}

// Alien returns the hidden cell.
func (g *Grid) Alien() Position {
	return g.alien
}
