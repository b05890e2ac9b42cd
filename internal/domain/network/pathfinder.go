package network

import (
	"container/heap"
	"time"

	"github.com/andrescamacho/lpg-dispatch/internal/domain/shared"
)

// Path is the canonical pathfinder result: the node sequence, the
// earliest arrival time at every node, and the total length in km.
type Path struct {
	Positions    []shared.Position
	ArrivalTimes []time.Time
	DistanceKm   int
}

// Destination returns the final node of the path.
func (p *Path) Destination() shared.Position {
	return p.Positions[len(p.Positions)-1]
}

// ArrivalTime returns the earliest arrival at the final node.
func (p *Path) ArrivalTime() time.Time {
	return p.ArrivalTimes[len(p.ArrivalTimes)-1]
}

// Clone returns an independent copy.
func (p *Path) Clone() *Path {
	positions := make([]shared.Position, len(p.Positions))
	copy(positions, p.Positions)
	times := make([]time.Time, len(p.ArrivalTimes))
	copy(times, p.ArrivalTimes)
	return &Path{Positions: positions, ArrivalTimes: times, DistanceKm: p.DistanceKm}
}

// Pathfinder runs time-aware A* over the grid. Edge availability varies
// with time: an edge u->v is forbidden when any blockage active over
// [t_u, t_v] closes v or the u-v street segment.
type Pathfinder struct {
	grid Grid
}

// NewPathfinder creates a pathfinder for the given grid.
func NewPathfinder(grid Grid) *Pathfinder {
	return &Pathfinder{grid: grid}
}

// searchNode is one open-set entry. g is km travelled so far; f adds the
// Manhattan heuristic, which is admissible and consistent on the grid.
type searchNode struct {
	position shared.Position
	g        int
	f        int
	arrival  time.Time
	index    int
}

type openSet []*searchNode

func (s openSet) Len() int { return len(s) }

func (s openSet) Less(i, j int) bool {
	if s[i].f != s[j].f {
		return s[i].f < s[j].f
	}
	// Prefer higher g: more committed progress toward the goal.
	return s[i].g > s[j].g
}

func (s openSet) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
	s[i].index = i
	s[j].index = j
}

func (s *openSet) Push(x interface{}) {
	node := x.(*searchNode)
	node.index = len(*s)
	*s = append(*s, node)
}

func (s *openSet) Pop() interface{} {
	old := *s
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	*s = old[:n-1]
	return node
}

// FindPath searches for the shortest route from start to goal departing
// at the given time, avoiding every blockage active while the truck
// would traverse it. Returns a NoPathError when the open set empties.
func (pf *Pathfinder) FindPath(start, goal shared.Position, departure time.Time, blockages []*Blockage) (*Path, error) {
	if !pf.grid.Contains(start) {
		return nil, shared.NewValidationError("start", "outside grid bounds")
	}
	if !pf.grid.Contains(goal) {
		return nil, shared.NewValidationError("goal", "outside grid bounds")
	}

	if start.Equals(goal) {
		return &Path{
			Positions:    []shared.Position{start},
			ArrivalTimes: []time.Time{departure},
			DistanceKm:   0,
		}, nil
	}

	startNode := &searchNode{
		position: start,
		g:        0,
		f:        start.DistanceTo(goal),
		arrival:  departure,
	}

	open := &openSet{}
	heap.Init(open)
	heap.Push(open, startNode)

	gScore := map[shared.Position]int{start: 0}
	cameFrom := map[shared.Position]shared.Position{}

	for open.Len() > 0 {
		current := heap.Pop(open).(*searchNode)

		if current.position.Equals(goal) {
			return pf.reconstruct(start, goal, departure, cameFrom), nil
		}

		// Stale heap entry: a strictly better g was found after this
		// node was pushed.
		if best, ok := gScore[current.position]; ok && current.g > best {
			continue
		}

		for _, neighbor := range pf.grid.Neighbors(current.position) {
			tentativeG := current.g + 1
			arrival := current.arrival.Add(shared.EdgeTravelTime)

			if edgeForbidden(current.position, neighbor, current.arrival, arrival, blockages) {
				continue
			}

			// Re-opening a closed node is permitted only on a strictly
			// lower g; the same rule prunes open duplicates.
			if best, seen := gScore[neighbor]; seen && tentativeG >= best {
				continue
			}

			gScore[neighbor] = tentativeG
			cameFrom[neighbor] = current.position

			heap.Push(open, &searchNode{
				position: neighbor,
				g:        tentativeG,
				f:        tentativeG + neighbor.DistanceTo(goal),
				arrival:  arrival,
			})
		}
	}

	return nil, shared.NewNoPathError(start, goal, departure)
}

// edgeForbidden applies the time-windowed availability rule for one edge.
func edgeForbidden(u, v shared.Position, tU, tV time.Time, blockages []*Blockage) bool {
	for _, blockage := range blockages {
		if !blockage.ActiveDuring(tU, tV) {
			continue
		}
		if blockage.BlocksNode(v) || blockage.BlocksEdge(u, v) {
			return true
		}
	}
	return false
}

// reconstruct walks cameFrom backwards and rebuilds per-node arrivals.
func (pf *Pathfinder) reconstruct(start, goal shared.Position, departure time.Time, cameFrom map[shared.Position]shared.Position) *Path {
	var reversed []shared.Position
	for at := goal; ; {
		reversed = append(reversed, at)
		if at.Equals(start) {
			break
		}
		at = cameFrom[at]
	}

	positions := make([]shared.Position, len(reversed))
	for i := range reversed {
		positions[i] = reversed[len(reversed)-1-i]
	}

	arrivals := make([]time.Time, len(positions))
	for i := range positions {
		arrivals[i] = departure.Add(time.Duration(i) * shared.EdgeTravelTime)
	}

	return &Path{
		Positions:    positions,
		ArrivalTimes: arrivals,
		DistanceKm:   len(positions) - 1,
	}
}
