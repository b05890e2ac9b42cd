package planning

import (
	"fmt"
	"time"

	"github.com/andrescamacho/lpg-dispatch/internal/domain/network"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/shared"
)

// ActionKind tags the action union. The executor pattern-matches on it.
type ActionKind string

const (
	ActionDrive       ActionKind = "DRIVE"
	ActionRefuel      ActionKind = "REFUEL"
	ActionReload      ActionKind = "RELOAD"
	ActionServe       ActionKind = "SERVE"
	ActionMaintenance ActionKind = "MAINTENANCE"
	ActionWait        ActionKind = "WAIT"
)

// Action is one step of a vehicle plan: a tagged union over the six
// kinds, each carrying its per-variant fields plus start/end timestamps
// and a destination. Actions are immutable once emitted; re-timing a
// plan creates a new sequence.
type Action struct {
	Kind        ActionKind
	Start       time.Time
	End         time.Time
	Destination shared.Position

	// DRIVE
	Path    *network.Path
	FuelGal float64

	// REFUEL / RELOAD
	DepotID string

	// RELOAD (+) and SERVE (-), stored positive
	LpgM3 int

	// SERVE
	OrderID string
}

// Timing carries the fixed action durations. DRIVE length derives from
// distance; everything else is configured transfer/service time.
type Timing struct {
	TransferMinutes    int
	ServeMinutes       int
	MaintenanceMinutes int
}

// DefaultTiming returns the reference durations: 10 min transfers,
// 15 min service, 15 min routine maintenance.
func DefaultTiming() Timing {
	return Timing{TransferMinutes: 10, ServeMinutes: 15, MaintenanceMinutes: 15}
}

// NewDriveAction emits a drive along path, burning fuelGal.
func NewDriveAction(path *network.Path, fuelGal float64, start time.Time) Action {
	return Action{
		Kind:        ActionDrive,
		Start:       start,
		End:         start.Add(shared.DriveDuration(path.DistanceKm)),
		Destination: path.Destination(),
		Path:        path,
		FuelGal:     fuelGal,
	}
}

// NewRefuelAction emits a fuel top-up at a depot.
func NewRefuelAction(depotID string, at shared.Position, start time.Time, timing Timing) Action {
	return Action{
		Kind:        ActionRefuel,
		Start:       start,
		End:         start.Add(time.Duration(timing.TransferMinutes) * time.Minute),
		Destination: at,
		DepotID:     depotID,
	}
}

// NewReloadAction emits an LPG reload of m3 at a depot.
func NewReloadAction(depotID string, at shared.Position, m3 int, start time.Time, timing Timing) Action {
	return Action{
		Kind:        ActionReload,
		Start:       start,
		End:         start.Add(time.Duration(timing.TransferMinutes) * time.Minute),
		Destination: at,
		DepotID:     depotID,
		LpgM3:       m3,
	}
}

// NewServeAction emits a customer discharge of m3 against an order.
func NewServeAction(orderID string, at shared.Position, m3 int, start time.Time, timing Timing) Action {
	return Action{
		Kind:        ActionServe,
		Start:       start,
		End:         start.Add(time.Duration(timing.ServeMinutes) * time.Minute),
		Destination: at,
		OrderID:     orderID,
		LpgM3:       m3,
	}
}

// NewMaintenanceAction emits the routine maintenance closing a plan.
func NewMaintenanceAction(at shared.Position, start time.Time, timing Timing) Action {
	return Action{
		Kind:        ActionMaintenance,
		Start:       start,
		End:         start.Add(time.Duration(timing.MaintenanceMinutes) * time.Minute),
		Destination: at,
	}
}

// NewWaitAction emits an idle hold at a position until end.
func NewWaitAction(at shared.Position, start, end time.Time) Action {
	return Action{
		Kind:        ActionWait,
		Start:       start,
		End:         end,
		Destination: at,
	}
}

// Duration is the scheduled length of the action.
func (a Action) Duration() time.Duration {
	return a.End.Sub(a.Start)
}

func (a Action) String() string {
	switch a.Kind {
	case ActionDrive:
		return fmt.Sprintf("DRIVE %dkm to %s (%.2f gal)", a.Path.DistanceKm, a.Destination, a.FuelGal)
	case ActionServe:
		return fmt.Sprintf("SERVE %s %dm3 at %s", a.OrderID, a.LpgM3, a.Destination)
	case ActionReload:
		return fmt.Sprintf("RELOAD +%dm3 at %s", a.LpgM3, a.DepotID)
	case ActionRefuel:
		return fmt.Sprintf("REFUEL at %s", a.DepotID)
	default:
		return string(a.Kind)
	}
}
