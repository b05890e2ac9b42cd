package shared

import "fmt"

// Position is an immutable point on the city lattice. Adjacent lattice
// points are 1 km apart and streets follow the grid, so all distances
// are Manhattan.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// NewPosition creates a lattice position.
func NewPosition(x, y int) Position {
	return Position{X: x, Y: y}
}

// DistanceTo calculates Manhattan distance in km to another position.
func (p Position) DistanceTo(other Position) int {
	dx := p.X - other.X
	if dx < 0 {
		dx = -dx
	}
	dy := p.Y - other.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Equals reports whether two positions are the same lattice point.
func (p Position) Equals(other Position) bool {
	return p.X == other.X && p.Y == other.Y
}

// IsAdjacentTo reports whether other is exactly one street segment away.
func (p Position) IsAdjacentTo(other Position) bool {
	return p.DistanceTo(other) == 1
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// FindNearestPosition returns the nearest candidate to from and its
// Manhattan distance. Returns false if candidates is empty. Ties break
// on the earlier candidate to keep selection stable.
func FindNearestPosition(from Position, candidates []Position) (Position, int, bool) {
	if len(candidates) == 0 {
		return Position{}, 0, false
	}

	nearest := candidates[0]
	minDistance := from.DistanceTo(candidates[0])

	for _, candidate := range candidates[1:] {
		distance := from.DistanceTo(candidate)
		if distance < minDistance {
			minDistance = distance
			nearest = candidate
		}
	}

	return nearest, minDistance, true
}
