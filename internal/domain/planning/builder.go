package planning

import (
	"time"

	"github.com/andrescamacho/lpg-dispatch/internal/domain/delivery"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/depot"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/environment"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/fleet"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/network"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/shared"
	"github.com/andrescamacho/lpg-dispatch/pkg/utils"
)

// Builder lowers an ordered instruction list into a concrete action
// timeline: drive, refuel, reload, serve, and the closing return to the
// plant. It works greedily, inserting refuel and reload detours on
// demand, and returns an InfeasiblePlanError when a leg cannot be
// repaired by a single refuel hop.
type Builder struct {
	pathfinder *network.Pathfinder
	timing     Timing
}

// NewBuilder creates a plan builder over the given grid.
func NewBuilder(grid network.Grid, timing Timing) *Builder {
	return &Builder{pathfinder: network.NewPathfinder(grid), timing: timing}
}

// buildState tracks the simulated truck while lowering instructions.
// The builder never touches the canonical aggregate: it clones the
// vehicle and shadows depot levels locally, so building is idempotent.
type buildState struct {
	vehicle     *fleet.Vehicle
	cursor      time.Time
	actions     []Action
	depotLevels map[string]int
}

// Build produces a plan for the vehicle snapshot starting at start, or
// an error when the instruction sequence is infeasible.
func (b *Builder) Build(env *environment.Environment, vehicle *fleet.Vehicle, instructions []delivery.DeliveryInstruction, start time.Time) (*VehiclePlan, error) {
	state := &buildState{
		vehicle:     vehicle.Clone(),
		cursor:      start,
		depotLevels: make(map[string]int),
	}
	for _, d := range env.Depots() {
		state.depotLevels[d.ID()] = d.CurrentLpg()
	}

	for _, instruction := range instructions {
		order, err := env.FindOrderByID(instruction.OrderID)
		if err != nil {
			return nil, shared.NewInfeasiblePlanError(vehicle.ID(), err.Error())
		}
		if order.IsServed() || instruction.AmountM3 <= 0 {
			continue
		}

		amount := utils.Min(instruction.AmountM3, state.vehicle.Type().CapacityM3)

		// LPG sufficiency: reload before the customer leg when the
		// tank cannot cover this instruction.
		if state.vehicle.CurrentLpg() < amount {
			if err := b.reload(env, state, amount); err != nil {
				return nil, shared.NewInfeasiblePlanError(vehicle.ID(), err.Error())
			}
		}

		// Reachability plus the drive itself, with at most one refuel
		// detour.
		if err := b.driveWithRefuel(env, state, order.Position()); err != nil {
			return nil, shared.NewInfeasiblePlanError(vehicle.ID(), err.Error())
		}

		serve := NewServeAction(order.ID(), order.Position(), amount, state.cursor, b.timing)
		if err := state.vehicle.UnloadLpg(amount); err != nil {
			return nil, shared.NewInfeasiblePlanError(vehicle.ID(), err.Error())
		}
		state.emit(serve)
	}

	// Routine maintenance to exit: return to the plant and close out.
	if len(state.actions) > 0 {
		plant := env.MainDepot()
		if !state.vehicle.Position().Equals(plant.Position()) {
			if err := b.driveWithRefuel(env, state, plant.Position()); err != nil {
				return nil, shared.NewInfeasiblePlanError(vehicle.ID(), err.Error())
			}
		}
		state.emit(NewMaintenanceAction(plant.Position(), state.cursor, b.timing))
	}

	return NewVehiclePlan(vehicle.ID(), start, state.actions), nil
}

// reload routes the truck to the nearest depot holding at least amount,
// auxiliaries preferred, the main plant as fallback, and tops the tank
// up as far as the depot allows.
func (b *Builder) reload(env *environment.Environment, state *buildState, amount int) error {
	target := b.selectReloadDepot(env, state, amount)
	if target == nil {
		return shared.NewDepotShortageError("", amount, 0)
	}

	if err := b.driveWithRefuel(env, state, target.Position()); err != nil {
		return err
	}

	capacityLeft := state.vehicle.Type().CapacityM3 - state.vehicle.CurrentLpg()
	load := utils.Min(capacityLeft, state.depotLevels[target.ID()])
	if state.vehicle.CurrentLpg()+load < amount {
		return shared.NewDepotShortageError(target.ID(), amount, state.depotLevels[target.ID()])
	}

	if err := state.vehicle.LoadLpg(load); err != nil {
		return err
	}
	state.depotLevels[target.ID()] -= load
	state.emit(NewReloadAction(target.ID(), target.Position(), load, state.cursor, b.timing))
	return nil
}

// selectReloadDepot picks the nearest auxiliary with enough product, or
// the main plant when no auxiliary is sufficient. The plant always is.
func (b *Builder) selectReloadDepot(env *environment.Environment, state *buildState, amount int) *depot.Depot {
	var best *depot.Depot
	bestDistance := 0
	from := state.vehicle.Position()

	for _, d := range env.AuxDepots() {
		if state.depotLevels[d.ID()] < amount {
			continue
		}
		distance := from.DistanceTo(d.Position())
		if best == nil || distance < bestDistance {
			best = d
			bestDistance = distance
		}
	}
	if best != nil {
		return best
	}
	if state.depotLevels[env.MainDepot().ID()] >= amount {
		return env.MainDepot()
	}
	return nil
}

// driveWithRefuel drives to the target, inserting one refuel detour when
// the leg's fuel draw exceeds the current tank.
func (b *Builder) driveWithRefuel(env *environment.Environment, state *buildState, to shared.Position) error {
	if state.vehicle.Position().Equals(to) {
		return nil
	}

	path, err := b.pathfinder.FindPath(state.vehicle.Position(), to, state.cursor, env.Blockages())
	if err != nil {
		return err
	}

	if state.vehicle.CanReach(path.DistanceKm) {
		return b.drive(state, path)
	}

	// One refuel hop: nearest fuel-capable depot reachable on the
	// current tank, then re-attempt the leg.
	station, stationPath := b.nearestFuelStop(env, state)
	if station == nil {
		return shared.NewInsufficientFuelError(
			state.vehicle.FuelNeededGal(path.DistanceKm), state.vehicle.CurrentFuel())
	}

	if stationPath.DistanceKm > 0 {
		if err := b.drive(state, stationPath); err != nil {
			return err
		}
	}
	state.emit(NewRefuelAction(station.ID(), station.Position(), state.cursor, b.timing))
	state.vehicle.Refuel()

	retry, err := b.pathfinder.FindPath(state.vehicle.Position(), to, state.cursor, env.Blockages())
	if err != nil {
		return err
	}
	if !state.vehicle.CanReach(retry.DistanceKm) {
		return shared.NewInsufficientFuelError(
			state.vehicle.FuelNeededGal(retry.DistanceKm), state.vehicle.CurrentFuel())
	}
	return b.drive(state, retry)
}

// nearestFuelStop finds the closest fuel-capable depot the truck can
// reach on its remaining fuel, with the actual routed path.
func (b *Builder) nearestFuelStop(env *environment.Environment, state *buildState) (*depot.Depot, *network.Path) {
	var best *depot.Depot
	var bestPath *network.Path

	for _, d := range env.Depots() {
		if !d.CanRefuel() {
			continue
		}
		path, err := b.pathfinder.FindPath(state.vehicle.Position(), d.Position(), state.cursor, env.Blockages())
		if err != nil {
			continue
		}
		if !state.vehicle.CanReach(path.DistanceKm) {
			continue
		}
		if best == nil || path.DistanceKm < bestPath.DistanceKm {
			best = d
			bestPath = path
		}
	}
	return best, bestPath
}

// drive emits a drive action and advances the simulated truck.
func (b *Builder) drive(state *buildState, path *network.Path) error {
	fuel := state.vehicle.FuelNeededGal(path.DistanceKm)
	action := NewDriveAction(path, fuel, state.cursor)
	if err := state.vehicle.ConsumeFuel(fuel); err != nil {
		return err
	}
	state.vehicle.MoveTo(path.Destination())
	state.emit(action)
	return nil
}

func (s *buildState) emit(action Action) {
	s.actions = append(s.actions, action)
	s.cursor = action.End
}
