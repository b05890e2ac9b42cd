package network

import (
	"fmt"
	"time"

	"github.com/andrescamacho/lpg-dispatch/internal/domain/shared"
	"github.com/andrescamacho/lpg-dispatch/pkg/utils"
)

// Blockage closes a polyline of streets for a time window. Consecutive
// point pairs define closed axis-aligned segments; every lattice point
// on a segment is impassable while the blockage is active, as is every
// unit edge lying along a segment. Polylines are open by construction,
// so every node keeps an alternate route.
type Blockage struct {
	id     string
	start  time.Time
	end    time.Time
	points []shared.Position
}

// NewBlockage creates a blockage with validation: at least two points,
// every consecutive pair axis-aligned, and a non-inverted window.
func NewBlockage(id string, start, end time.Time, points []shared.Position) (*Blockage, error) {
	if len(points) < 2 {
		return nil, shared.NewValidationError("points", fmt.Sprintf("polyline needs at least 2 points, got %d", len(points)))
	}
	if end.Before(start) {
		return nil, shared.NewValidationError("end", "blockage window cannot end before it starts")
	}
	for i := 0; i < len(points)-1; i++ {
		a, b := points[i], points[i+1]
		if a.X != b.X && a.Y != b.Y {
			return nil, shared.NewValidationError("points",
				fmt.Sprintf("segment %s-%s is not axis-aligned", a, b))
		}
	}

	copied := make([]shared.Position, len(points))
	copy(copied, points)

	return &Blockage{id: id, start: start, end: end, points: copied}, nil
}

// Getters

func (b *Blockage) ID() string       { return b.id }
func (b *Blockage) Start() time.Time { return b.start }
func (b *Blockage) End() time.Time   { return b.end }

// Points returns a copy of the polyline vertices.
func (b *Blockage) Points() []shared.Position {
	points := make([]shared.Position, len(b.points))
	copy(points, b.points)
	return points
}

// ActiveAt reports whether the blockage is in force at t. The window is
// closed on both ends.
func (b *Blockage) ActiveAt(t time.Time) bool {
	return !t.Before(b.start) && !t.After(b.end)
}

// ActiveDuring reports whether the blockage overlaps the interval
// [from, to].
func (b *Blockage) ActiveDuring(from, to time.Time) bool {
	return !to.Before(b.start) && !from.After(b.end)
}

// BlocksNode reports whether p lies on any closed segment.
func (b *Blockage) BlocksNode(p shared.Position) bool {
	for i := 0; i < len(b.points)-1; i++ {
		if onSegment(p, b.points[i], b.points[i+1]) {
			return true
		}
	}
	return false
}

// BlocksEdge reports whether the unit edge u-v lies along any closed
// segment. Edges that merely touch a segment endpoint perpendicular to
// it are caught by the node check on the endpoint instead.
func (b *Blockage) BlocksEdge(u, v shared.Position) bool {
	for i := 0; i < len(b.points)-1; i++ {
		if onSegment(u, b.points[i], b.points[i+1]) && onSegment(v, b.points[i], b.points[i+1]) {
			return true
		}
	}
	return false
}

// onSegment reports whether p lies on the closed axis-aligned segment a-b.
func onSegment(p, a, b shared.Position) bool {
	if a.X == b.X {
		return p.X == a.X &&
			p.Y >= utils.Min(a.Y, b.Y) && p.Y <= utils.Max(a.Y, b.Y)
	}
	return p.Y == a.Y &&
		p.X >= utils.Min(a.X, b.X) && p.X <= utils.Max(a.X, b.X)
}

// Clone returns an independent copy.
func (b *Blockage) Clone() *Blockage {
	return &Blockage{
		id:     b.id,
		start:  b.start,
		end:    b.end,
		points: b.Points(),
	}
}

func (b *Blockage) String() string {
	return fmt.Sprintf("Blockage(%s, %d points, %s - %s)",
		b.id, len(b.points), shared.FormatTimestamp(b.start), shared.FormatTimestamp(b.end))
}
