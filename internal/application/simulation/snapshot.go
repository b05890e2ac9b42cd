package simulation

import (
	"time"

	"github.com/andrescamacho/lpg-dispatch/internal/domain/delivery"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/fleet"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/shared"
)

// StatusSnapshot is the lightweight control-surface view of the loop.
type StatusSnapshot struct {
	Running          bool      `json:"running"`
	Paused           bool      `json:"paused"`
	CurrentTime      time.Time `json:"currentTime"`
	TickPeriodMs     int       `json:"tickPeriodMs"`
	Ticks            int64     `json:"ticks"`
	Replans          int64     `json:"replans"`
	EventsProcessed  int64     `json:"eventsProcessed"`
	PendingOrders    int       `json:"pendingOrders"`
	DeliveredOrders  int       `json:"deliveredOrders"`
	DeliveredM3      int       `json:"deliveredM3"`
	ActiveIncidents  int       `json:"activeIncidents"`
	LastScore        *float64  `json:"lastScore,omitempty"`
	UnassignedOrders []string  `json:"unassignedOrders,omitempty"`
}

// VehicleSnapshot is one truck as seen by the map frontend: state,
// inventories, and the not-yet-traversed remainder of its current drive.
type VehicleSnapshot struct {
	ID              string            `json:"id"`
	Type            string            `json:"type"`
	Status          string            `json:"status"`
	Position        shared.Position   `json:"position"`
	LpgM3           int               `json:"lpgM3"`
	LpgCapacityM3   int               `json:"lpgCapacityM3"`
	LpgPercent      float64           `json:"lpgPercent"`
	FuelGal         float64           `json:"fuelGal"`
	FuelCapacityGal float64           `json:"fuelCapacityGal"`
	FuelPercent     float64           `json:"fuelPercent"`
	RemainingPath   []shared.Position `json:"remainingPath,omitempty"`
	PathEndsAt      *time.Time        `json:"pathEndsAt,omitempty"`
}

// OrderSnapshot is one pending or delivered order.
type OrderSnapshot struct {
	ID          string          `json:"id"`
	Position    shared.Position `json:"position"`
	ArrivalTime time.Time       `json:"arrivalTime"`
	DueTime     *time.Time      `json:"dueTime,omitempty"`
	RequestedM3 int             `json:"requestedM3"`
	RemainingM3 int             `json:"remainingM3"`
	Served      bool            `json:"served"`
	Overdue     bool            `json:"overdue"`
}

// BlockageSnapshot is one blockage active at snapshot time.
type BlockageSnapshot struct {
	ID     string            `json:"id"`
	Start  time.Time         `json:"start"`
	End    time.Time         `json:"end"`
	Points []shared.Position `json:"points"`
}

// DepotSnapshot is one depot with its live inventory.
type DepotSnapshot struct {
	ID         string          `json:"id"`
	Position   shared.Position `json:"position"`
	IsMain     bool            `json:"isMain"`
	CanRefuel  bool            `json:"canRefuel"`
	CurrentM3  int             `json:"currentM3"`
	CapacityM3 int             `json:"capacityM3"`
}

// WorldSnapshot is the full consistent view of the environment taken
// under the simulation mutex.
type WorldSnapshot struct {
	CurrentTime time.Time          `json:"currentTime"`
	GridLength  int                `json:"gridLength"`
	GridWidth   int                `json:"gridWidth"`
	Vehicles    []VehicleSnapshot  `json:"vehicles"`
	Orders      []OrderSnapshot    `json:"orders"`
	Blockages   []BlockageSnapshot `json:"blockages"`
	Depots      []DepotSnapshot    `json:"depots"`
}

// Status returns the control-surface view.
func (s *Simulation) Status() StatusSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := s.env.PendingOrders()
	delivered := s.env.DeliveredOrders()
	deliveredM3 := 0
	for _, o := range delivered {
		deliveredM3 += o.RequestedM3()
	}
	for _, o := range pending {
		deliveredM3 += o.RequestedM3() - o.RemainingM3()
	}

	status := StatusSnapshot{
		Running:         s.running,
		Paused:          s.paused,
		CurrentTime:     s.env.CurrentTime(),
		TickPeriodMs:    s.cfg.TickPeriodMs,
		Ticks:           s.ticks,
		Replans:         s.replans,
		EventsProcessed: s.eventsProcessed,
		PendingOrders:   len(pending),
		DeliveredOrders: len(delivered),
		DeliveredM3:     deliveredM3,
		ActiveIncidents: len(s.env.ActiveIncidents()),
	}
	if s.lastResult != nil {
		score := s.lastResult.Score
		status.LastScore = &score
		status.UnassignedOrders = s.lastResult.Unassigned
	}
	return status
}

// Snapshot captures the whole world in one consistent view.
func (s *Simulation) Snapshot() WorldSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.env.CurrentTime()
	grid := s.env.Grid()

	snapshot := WorldSnapshot{
		CurrentTime: now,
		GridLength:  grid.Length,
		GridWidth:   grid.Width,
	}

	for _, v := range s.env.Vehicles() {
		vs := VehicleSnapshot{
			ID:              v.ID(),
			Type:            string(v.Type().Code),
			Status:          string(v.Status()),
			Position:        v.Position(),
			LpgM3:           v.CurrentLpg(),
			LpgCapacityM3:   v.Type().CapacityM3,
			LpgPercent:      100 * float64(v.CurrentLpg()) / float64(v.Type().CapacityM3),
			FuelGal:         v.CurrentFuel(),
			FuelCapacityGal: fleet.FuelTankCapacityGal,
			FuelPercent:     100 * v.CurrentFuel() / fleet.FuelTankCapacityGal,
		}
		// A queued drive is not traversal: the remainder is shown only
		// once the truck is actually on the road.
		if state, ok := s.states[v.ID()]; ok && v.Status() == fleet.StatusDriving {
			if action, remaining, mid := state.RemainingDrivePath(v.Position()); mid {
				vs.RemainingPath = remaining
				end := action.End
				vs.PathEndsAt = &end
			}
		}
		snapshot.Vehicles = append(snapshot.Vehicles, vs)
	}

	// Delivered orders are excluded from the world view; the delivery
	// log keeps the history.
	for _, o := range s.env.PendingOrders() {
		snapshot.Orders = append(snapshot.Orders, orderSnapshot(o, now))
	}

	for _, b := range s.env.ActiveBlockagesAt(now) {
		snapshot.Blockages = append(snapshot.Blockages, BlockageSnapshot{
			ID:     b.ID(),
			Start:  b.Start(),
			End:    b.End(),
			Points: b.Points(),
		})
	}

	for _, d := range s.env.Depots() {
		snapshot.Depots = append(snapshot.Depots, DepotSnapshot{
			ID:         d.ID(),
			Position:   d.Position(),
			IsMain:     d.IsMain(),
			CanRefuel:  d.CanRefuel(),
			CurrentM3:  d.CurrentLpg(),
			CapacityM3: d.CapacityM3(),
		})
	}

	return snapshot
}

func orderSnapshot(o *delivery.Order, now time.Time) OrderSnapshot {
	snapshot := OrderSnapshot{
		ID:          o.ID(),
		Position:    o.Position(),
		ArrivalTime: o.ArrivalTime(),
		RequestedM3: o.RequestedM3(),
		RemainingM3: o.RemainingM3(),
		Served:      o.IsServed(),
		Overdue:     o.IsOverdue(now),
	}
	if due := o.DueTime(); !due.IsZero() {
		snapshot.DueTime = &due
	}
	return snapshot
}
