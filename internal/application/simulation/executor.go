package simulation

import (
	"context"
	"time"

	"github.com/andrescamacho/lpg-dispatch/internal/domain/environment"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/fleet"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/planning"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/shared"
	"github.com/andrescamacho/lpg-dispatch/pkg/utils"
)

// DeliveryRecord captures one completed customer discharge for the
// delivery log.
type DeliveryRecord struct {
	VehicleID   string
	OrderID     string
	AmountM3    int
	DeliveredAt time.Time
	Position    shared.Position
}

// DeliveryRecorder persists completed discharges. A no-op implementation
// backs tests and metric-less runs.
type DeliveryRecorder interface {
	RecordDelivery(ctx context.Context, record DeliveryRecord) error
}

// NopDeliveryRecorder discards records.
type NopDeliveryRecorder struct{}

func (NopDeliveryRecorder) RecordDelivery(ctx context.Context, record DeliveryRecord) error {
	return nil
}

// executionState tracks how far a vehicle has progressed through its
// attached plan. partialFuel is the fuel already drawn from the current
// drive leg, so proportional execution never double-burns.
type executionState struct {
	plan        *planning.VehiclePlan
	actions     []planning.Action
	actionIndex int
	partialFuel float64
}

func newExecutionState(plan *planning.VehiclePlan) *executionState {
	return &executionState{plan: plan, actions: plan.Actions()}
}

// Done reports whether every action has been applied.
func (s *executionState) Done() bool {
	return s.actionIndex >= len(s.actions)
}

// Current returns the head action, or false when the plan is exhausted.
func (s *executionState) Current() (planning.Action, bool) {
	if s.Done() {
		return planning.Action{}, false
	}
	return s.actions[s.actionIndex], true
}

// RemainingDrivePath returns the not-yet-traversed portion of the
// current drive, for the snapshot API. Returns false when the vehicle
// is not mid-drive.
func (s *executionState) RemainingDrivePath(at shared.Position) (planning.Action, []shared.Position, bool) {
	action, ok := s.Current()
	if !ok || action.Kind != planning.ActionDrive {
		return planning.Action{}, nil, false
	}
	positions := action.Path.Positions
	for i, p := range positions {
		if p.Equals(at) {
			return action, positions[i:], true
		}
	}
	return action, positions, true
}

// Executor applies plan actions to the environment as simulation time
// advances: full effects at action end times, proportional movement and
// fuel draw while a drive is in flight.
type Executor struct {
	recorder DeliveryRecorder
}

// NewExecutor creates an executor writing completed discharges to the
// given recorder.
func NewExecutor(recorder DeliveryRecorder) *Executor {
	if recorder == nil {
		recorder = NopDeliveryRecorder{}
	}
	return &Executor{recorder: recorder}
}

// Advance executes the vehicle's plan up to now. It returns true when
// the plan completed during this call.
func (x *Executor) Advance(ctx context.Context, env *environment.Environment, vehicle *fleet.Vehicle, state *executionState, now time.Time) (bool, error) {
	for {
		action, ok := state.Current()
		if !ok {
			if vehicle.Status() != fleet.StatusMaintenance && vehicle.Status() != fleet.StatusUnavailable {
				vehicle.SetStatus(fleet.StatusAvailable)
			}
			return true, nil
		}

		if action.Start.After(now) {
			return false, nil
		}

		if action.End.After(now) {
			x.applyPartial(vehicle, state, action, now)
			return false, nil
		}

		if err := x.applyComplete(ctx, env, vehicle, state, action); err != nil {
			return false, err
		}
		state.actionIndex++
		state.partialFuel = 0
	}
}

// applyPartial advances an in-flight action proportionally.
func (x *Executor) applyPartial(vehicle *fleet.Vehicle, state *executionState, action planning.Action, now time.Time) {
	switch action.Kind {
	case planning.ActionDrive:
		vehicle.SetStatus(fleet.StatusDriving)
		duration := action.Duration()
		if duration <= 0 {
			return
		}
		progress := float64(now.Sub(action.Start)) / float64(duration)

		nodes := action.Path.Positions
		index := utils.Clamp(int(progress*float64(len(nodes)-1)), 0, len(nodes)-1)
		vehicle.MoveTo(nodes[index])

		targetFuel := action.FuelGal * progress
		if delta := targetFuel - state.partialFuel; delta > 0 {
			if err := vehicle.ConsumeFuel(delta); err == nil {
				state.partialFuel = targetFuel
			}
		}
	case planning.ActionRefuel:
		vehicle.SetStatus(fleet.StatusRefueling)
	case planning.ActionReload:
		vehicle.SetStatus(fleet.StatusReloading)
	case planning.ActionServe:
		vehicle.SetStatus(fleet.StatusServing)
	case planning.ActionMaintenance:
		vehicle.SetStatus(fleet.StatusMaintenance)
	case planning.ActionWait:
		vehicle.SetStatus(fleet.StatusIdle)
	}
}

// applyComplete applies an action's full effect at its end time.
func (x *Executor) applyComplete(ctx context.Context, env *environment.Environment, vehicle *fleet.Vehicle, state *executionState, action planning.Action) error {
	switch action.Kind {
	case planning.ActionDrive:
		vehicle.MoveTo(action.Destination)
		remaining := action.FuelGal - state.partialFuel
		if remaining > 0 {
			if err := vehicle.ConsumeFuel(remaining); err != nil {
				return err
			}
		}

	case planning.ActionRefuel:
		vehicle.MoveTo(action.Destination)
		vehicle.Refuel()

	case planning.ActionReload:
		depot, err := env.FindDepotByID(action.DepotID)
		if err != nil {
			return err
		}
		amount := utils.Min(action.LpgM3, depot.CurrentLpg())
		amount = utils.Min(amount, vehicle.Type().CapacityM3-vehicle.CurrentLpg())
		if amount > 0 {
			if err := depot.Draw(amount); err != nil {
				return err
			}
			if err := vehicle.LoadLpg(amount); err != nil {
				return err
			}
		}

	case planning.ActionServe:
		order, err := env.FindOrderByID(action.OrderID)
		if err != nil {
			return err
		}
		amount := utils.Min(action.LpgM3, order.RemainingM3())
		amount = utils.Min(amount, vehicle.CurrentLpg())
		if amount > 0 {
			if err := vehicle.UnloadLpg(amount); err != nil {
				return err
			}
			if err := order.Deliver(amount); err != nil {
				return err
			}
			if err := x.recorder.RecordDelivery(ctx, DeliveryRecord{
				VehicleID:   vehicle.ID(),
				OrderID:     order.ID(),
				AmountM3:    amount,
				DeliveredAt: action.End,
				Position:    action.Destination,
			}); err != nil {
				return err
			}
		}

	case planning.ActionMaintenance, planning.ActionWait:
		// No world effect beyond occupying the window.
	}
	return nil
}
