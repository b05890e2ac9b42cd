package network

import (
	"fmt"

	"github.com/andrescamacho/lpg-dispatch/internal/domain/shared"
)

// Grid bounds the rectilinear street network: x in [0,Length] and
// y in [0,Width]. The default city is 70x50.
type Grid struct {
	Length int
	Width  int
}

// NewGrid creates a bounded grid.
func NewGrid(length, width int) (Grid, error) {
	if length <= 0 || width <= 0 {
		return Grid{}, shared.NewValidationError("grid", fmt.Sprintf("dimensions must be positive, got %dx%d", length, width))
	}
	return Grid{Length: length, Width: width}, nil
}

// Contains reports whether p lies inside the grid bounds.
func (g Grid) Contains(p shared.Position) bool {
	return p.X >= 0 && p.X <= g.Length && p.Y >= 0 && p.Y <= g.Width
}

// Neighbors returns the in-bounds four-neighbourhood of p. No diagonals.
func (g Grid) Neighbors(p shared.Position) []shared.Position {
	candidates := [4]shared.Position{
		{X: p.X + 1, Y: p.Y},
		{X: p.X - 1, Y: p.Y},
		{X: p.X, Y: p.Y + 1},
		{X: p.X, Y: p.Y - 1},
	}
	neighbors := make([]shared.Position, 0, 4)
	for _, candidate := range candidates {
		if g.Contains(candidate) {
			neighbors = append(neighbors, candidate)
		}
	}
	return neighbors
}

// NodeCount is the number of lattice points in the grid.
func (g Grid) NodeCount() int {
	return (g.Length + 1) * (g.Width + 1)
}

func (g Grid) String() string {
	return fmt.Sprintf("Grid(%dx%d)", g.Length, g.Width)
}
