package environment

import (
	"sort"
	"time"

	"github.com/andrescamacho/lpg-dispatch/internal/domain/delivery"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/depot"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/fleet"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/maintenance"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/network"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/shared"
)

// Environment is the owned aggregate of process-wide world state: the
// simulation clock, the vehicle table, depot inventories, and the
// order/blockage/incident/maintenance registries. It is passed by
// reference into the orchestrator; tests construct isolated instances.
//
// Invariant: each vehicle's position is consistent with the destination
// of the last action the executor applied to it.
type Environment struct {
	currentTime time.Time
	grid        network.Grid

	vehicles   map[string]*fleet.Vehicle
	vehicleIDs []string // insertion order, for deterministic iteration

	mainDepot *depot.Depot
	auxDepots []*depot.Depot

	orders   map[string]*delivery.Order
	orderIDs []string // arrival order

	blockages []*network.Blockage
	incidents map[string]*maintenance.Incident // active, by vehicle id
	tasks     []*maintenance.Task
}

// New creates an environment at the given start of simulation time.
func New(grid network.Grid, startTime time.Time, mainDepot *depot.Depot, auxDepots []*depot.Depot) *Environment {
	return &Environment{
		currentTime: startTime,
		grid:        grid,
		vehicles:    make(map[string]*fleet.Vehicle),
		mainDepot:   mainDepot,
		auxDepots:   auxDepots,
		orders:      make(map[string]*delivery.Order),
		incidents:   make(map[string]*maintenance.Incident),
	}
}

// Clock and geometry

func (e *Environment) CurrentTime() time.Time { return e.currentTime }
func (e *Environment) Grid() network.Grid     { return e.grid }

// AdvanceClock moves simulation time forward by delta.
func (e *Environment) AdvanceClock(delta time.Duration) {
	e.currentTime = e.currentTime.Add(delta)
}

// SetTime rewinds or forwards the clock; only the orchestrator's reset
// path uses this.
func (e *Environment) SetTime(t time.Time) {
	e.currentTime = t
}

// Vehicles

// AddVehicle registers a truck in the fleet table.
func (e *Environment) AddVehicle(v *fleet.Vehicle) error {
	if _, exists := e.vehicles[v.ID()]; exists {
		return shared.NewValidationError("vehicle", "duplicate id "+v.ID())
	}
	e.vehicles[v.ID()] = v
	e.vehicleIDs = append(e.vehicleIDs, v.ID())
	return nil
}

// FindVehicleByID resolves a truck by identity.
func (e *Environment) FindVehicleByID(id string) (*fleet.Vehicle, error) {
	v, ok := e.vehicles[id]
	if !ok {
		return nil, shared.NewNotFoundError("vehicle", id)
	}
	return v, nil
}

// Vehicles returns the fleet in registration order.
func (e *Environment) Vehicles() []*fleet.Vehicle {
	vehicles := make([]*fleet.Vehicle, 0, len(e.vehicleIDs))
	for _, id := range e.vehicleIDs {
		vehicles = append(vehicles, e.vehicles[id])
	}
	return vehicles
}

// AvailableVehicles returns trucks that can take new work now: status
// AVAILABLE (or IDLE), not incident-held, and outside any maintenance
// window.
func (e *Environment) AvailableVehicles() []*fleet.Vehicle {
	var available []*fleet.Vehicle
	for _, id := range e.vehicleIDs {
		v := e.vehicles[id]
		if !v.IsAvailable() {
			continue
		}
		if incident, ok := e.incidents[id]; ok && incident.HoldsAt(e.currentTime) {
			continue
		}
		if e.InMaintenanceWindow(id, e.currentTime) {
			continue
		}
		available = append(available, v)
	}
	return available
}

// Depots

func (e *Environment) MainDepot() *depot.Depot { return e.mainDepot }

// AuxDepots returns the auxiliary depots.
func (e *Environment) AuxDepots() []*depot.Depot {
	return e.auxDepots
}

// Depots returns every depot, main plant first.
func (e *Environment) Depots() []*depot.Depot {
	depots := make([]*depot.Depot, 0, len(e.auxDepots)+1)
	depots = append(depots, e.mainDepot)
	depots = append(depots, e.auxDepots...)
	return depots
}

// FindDepotByID resolves a depot by identity.
func (e *Environment) FindDepotByID(id string) (*depot.Depot, error) {
	for _, d := range e.Depots() {
		if d.ID() == id {
			return d, nil
		}
	}
	return nil, shared.NewNotFoundError("depot", id)
}

// RefillAuxDepots restores every auxiliary depot to its effective
// capacity. Invoked at each midnight.
func (e *Environment) RefillAuxDepots() {
	for _, d := range e.auxDepots {
		d.Refill()
	}
	e.mainDepot.Refill()
}

// Orders

// AddOrder makes an order visible to the planner.
func (e *Environment) AddOrder(o *delivery.Order) error {
	if _, exists := e.orders[o.ID()]; exists {
		return shared.NewValidationError("order", "duplicate id "+o.ID())
	}
	e.orders[o.ID()] = o
	e.orderIDs = append(e.orderIDs, o.ID())
	return nil
}

// FindOrderByID resolves an order by identity.
func (e *Environment) FindOrderByID(id string) (*delivery.Order, error) {
	o, ok := e.orders[id]
	if !ok {
		return nil, shared.NewNotFoundError("order", id)
	}
	return o, nil
}

// PendingOrders returns undelivered orders sorted by ascending due time,
// orders without a due time last. Ties break by id for determinism.
func (e *Environment) PendingOrders() []*delivery.Order {
	var pending []*delivery.Order
	for _, id := range e.orderIDs {
		if o := e.orders[id]; !o.IsServed() {
			pending = append(pending, o)
		}
	}
	sort.SliceStable(pending, func(i, j int) bool {
		di, dj := pending[i].DueTime(), pending[j].DueTime()
		switch {
		case di.IsZero() && dj.IsZero():
			return pending[i].ID() < pending[j].ID()
		case di.IsZero():
			return false
		case dj.IsZero():
			return true
		case !di.Equal(dj):
			return di.Before(dj)
		default:
			return pending[i].ID() < pending[j].ID()
		}
	})
	return pending
}

// DeliveredOrders returns fully served orders in arrival order.
func (e *Environment) DeliveredOrders() []*delivery.Order {
	var delivered []*delivery.Order
	for _, id := range e.orderIDs {
		if o := e.orders[id]; o.IsServed() {
			delivered = append(delivered, o)
		}
	}
	return delivered
}

// Blockages

// AddBlockage registers a street blockage.
func (e *Environment) AddBlockage(b *network.Blockage) {
	e.blockages = append(e.blockages, b)
}

// Blockages returns every registered blockage, active or not.
func (e *Environment) Blockages() []*network.Blockage {
	return e.blockages
}

// ActiveBlockagesAt returns the blockages in force at t.
func (e *Environment) ActiveBlockagesAt(t time.Time) []*network.Blockage {
	var active []*network.Blockage
	for _, b := range e.blockages {
		if b.ActiveAt(t) {
			active = append(active, b)
		}
	}
	return active
}

// Incidents

// AddIncident records a breakdown and takes the vehicle out of service.
func (e *Environment) AddIncident(incident *maintenance.Incident) error {
	v, err := e.FindVehicleByID(incident.VehicleID())
	if err != nil {
		return err
	}
	e.incidents[incident.VehicleID()] = incident
	v.SetStatus(fleet.StatusUnavailable)
	return nil
}

// ResolveIncident returns a broken-down vehicle to service.
func (e *Environment) ResolveIncident(vehicleID string) error {
	v, err := e.FindVehicleByID(vehicleID)
	if err != nil {
		return err
	}
	if _, ok := e.incidents[vehicleID]; !ok {
		return shared.NewNotFoundError("incident", vehicleID)
	}
	delete(e.incidents, vehicleID)
	v.SetStatus(fleet.StatusAvailable)
	return nil
}

// ActiveIncident returns the incident currently holding vehicleID, if any.
func (e *Environment) ActiveIncident(vehicleID string) (*maintenance.Incident, bool) {
	incident, ok := e.incidents[vehicleID]
	return incident, ok
}

// ActiveIncidents returns all recorded incidents by vehicle id order.
func (e *Environment) ActiveIncidents() []*maintenance.Incident {
	ids := make([]string, 0, len(e.incidents))
	for id := range e.incidents {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	incidents := make([]*maintenance.Incident, 0, len(ids))
	for _, id := range ids {
		incidents = append(incidents, e.incidents[id])
	}
	return incidents
}

// Maintenance

// AddMaintenanceTask schedules preventive maintenance.
func (e *Environment) AddMaintenanceTask(task *maintenance.Task) {
	e.tasks = append(e.tasks, task)
}

// MaintenanceTasks returns the full preventive schedule.
func (e *Environment) MaintenanceTasks() []*maintenance.Task {
	return e.tasks
}

// InMaintenanceWindow reports whether vehicleID is scheduled for
// preventive maintenance at instant.
func (e *Environment) InMaintenanceWindow(vehicleID string, instant time.Time) bool {
	for _, task := range e.tasks {
		if task.VehicleID() == vehicleID && task.Covers(instant) {
			return true
		}
	}
	return false
}

// Clone returns a deep snapshot: evaluators and move operators work on
// clones so candidate evaluation never mutates the owned aggregate.
func (e *Environment) Clone() *Environment {
	clone := &Environment{
		currentTime: e.currentTime,
		grid:        e.grid,
		vehicles:    make(map[string]*fleet.Vehicle, len(e.vehicles)),
		vehicleIDs:  append([]string(nil), e.vehicleIDs...),
		mainDepot:   e.mainDepot.Clone(),
		auxDepots:   make([]*depot.Depot, 0, len(e.auxDepots)),
		orders:      make(map[string]*delivery.Order, len(e.orders)),
		orderIDs:    append([]string(nil), e.orderIDs...),
		incidents:   make(map[string]*maintenance.Incident, len(e.incidents)),
		tasks:       append([]*maintenance.Task(nil), e.tasks...),
	}
	for id, v := range e.vehicles {
		clone.vehicles[id] = v.Clone()
	}
	for _, d := range e.auxDepots {
		clone.auxDepots = append(clone.auxDepots, d.Clone())
	}
	for id, o := range e.orders {
		clone.orders[id] = o.Clone()
	}
	for id, incident := range e.incidents {
		clone.incidents[id] = incident.Clone()
	}
	for _, b := range e.blockages {
		clone.blockages = append(clone.blockages, b.Clone())
	}
	return clone
}
