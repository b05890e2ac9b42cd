package steps

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/lpg-dispatch/internal/application/planner"
	"github.com/andrescamacho/lpg-dispatch/internal/application/simulation"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/delivery"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/depot"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/environment"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/fleet"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/network"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/planning"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/shared"
)

var dispatchStart = time.Date(2026, time.August, 1, 8, 0, 0, 0, time.UTC)

type dispatchContext struct {
	env     *environment.Environment
	builder *planning.Builder

	plan    *planning.VehiclePlan
	planErr error

	path    *network.Path
	pathErr error

	seedSolution *delivery.Solution
	seedScore    float64
	result       *planner.Result

	sim *simulation.Simulation
}

func (dc *dispatchContext) reset() {
	dc.env = nil
	dc.builder = nil
	dc.plan = nil
	dc.planErr = nil
	dc.path = nil
	dc.pathErr = nil
	dc.seedSolution = nil
	dc.seedScore = 0
	dc.result = nil
	dc.sim = nil
}

// Givens

func (dc *dispatchContext) aCityGridWithTheMainPlantAt(length, width, x, y int) error {
	grid, err := network.NewGrid(length, width)
	if err != nil {
		return err
	}
	dc.env = environment.New(grid, dispatchStart,
		depot.NewMainPlant("PLANT", shared.NewPosition(x, y)), nil)
	dc.builder = planning.NewBuilder(grid, planning.DefaultTiming())
	return nil
}

func (dc *dispatchContext) aTruckAtLoadedWith(id, typeCode string, x, y, lpgM3 int) error {
	vehicleType, err := fleet.TypeByCode(fleet.VehicleTypeCode(typeCode))
	if err != nil {
		return err
	}
	vehicle, err := fleet.NewVehicle(id, vehicleType, shared.NewPosition(x, y), lpgM3, fleet.FuelTankCapacityGal)
	if err != nil {
		return err
	}
	return dc.env.AddVehicle(vehicle)
}

func (dc *dispatchContext) theTruckHasGallonsOfFuel(id string, gallons float64) error {
	vehicle, err := dc.env.FindVehicleByID(id)
	if err != nil {
		return err
	}
	return vehicle.ConsumeFuel(vehicle.CurrentFuel() - gallons)
}

func (dc *dispatchContext) aPendingOrderAtForDueInHours(id string, x, y, m3, hours int) error {
	order, err := delivery.NewOrder(id, shared.NewPosition(x, y), dispatchStart,
		dispatchStart.Add(time.Duration(hours)*time.Hour), m3)
	if err != nil {
		return err
	}
	return dc.env.AddOrder(order)
}

func (dc *dispatchContext) aBlockageFromToActiveForTheFirstHours(x1, y1, x2, y2, hours int) error {
	blockage, err := network.NewBlockage("b-1", dispatchStart,
		dispatchStart.Add(time.Duration(hours)*time.Hour),
		[]shared.Position{shared.NewPosition(x1, y1), shared.NewPosition(x2, y2)})
	if err != nil {
		return err
	}
	dc.env.AddBlockage(blockage)
	return nil
}

// Whens

func (dc *dispatchContext) iBuildTheDeliveryPlanFor(vehicleID string) error {
	vehicle, err := dc.env.FindVehicleByID(vehicleID)
	if err != nil {
		return err
	}
	var instructions []delivery.DeliveryInstruction
	for _, order := range dc.env.PendingOrders() {
		instructions = append(instructions, delivery.DeliveryInstruction{
			OrderID:  order.ID(),
			AmountM3: order.RemainingM3(),
		})
	}
	dc.plan, dc.planErr = dc.builder.Build(dc.env, vehicle, instructions, dispatchStart)
	return nil
}

func (dc *dispatchContext) iRouteFromTo(x1, y1, x2, y2 int) error {
	pathfinder := network.NewPathfinder(dc.env.Grid())
	dc.path, dc.pathErr = pathfinder.FindPath(
		shared.NewPosition(x1, y1), shared.NewPosition(x2, y2), dispatchStart, dc.env.Blockages())
	return nil
}

func (dc *dispatchContext) iBuildASeedAssignment() error {
	dc.seedSolution = planner.NewSeedConstructor(1, 1).Build(dc.env)
	return nil
}

func (dc *dispatchContext) iOptimizeTheAssignment() error {
	cfg := planner.DefaultConfig()
	cfg.MaxIterations = 40
	cfg.NeighborhoodSize = 8
	cfg.WallClockBudget = 5 * time.Second

	evaluator := planner.NewEvaluator(planner.DefaultEvaluatorWeights())
	seeder := planner.NewSeedConstructor(cfg.RandomSeed, 1)

	seed := seeder.Build(dc.env)
	dc.seedScore = evaluator.Score(dc.env, seed, planner.RealizeAll(dc.builder, dc.env, seed))

	optimizer := planner.NewTabuOptimizer(cfg, dc.builder, evaluator, seeder,
		shared.NewMockClock(dispatchStart))
	result, err := optimizer.Optimize(context.Background(), dc.env)
	if err != nil {
		return err
	}
	dc.result = result
	return nil
}

func (dc *dispatchContext) theSimulationIsRunning() error {
	cfg := planner.DefaultConfig()
	cfg.MaxIterations = 30
	cfg.NeighborhoodSize = 5
	cfg.WallClockBudget = 5 * time.Second

	evaluator := planner.NewEvaluator(planner.DefaultEvaluatorWeights())
	seeder := planner.NewSeedConstructor(cfg.RandomSeed, 1)
	optimizer := planner.NewTabuOptimizer(cfg, dc.builder, evaluator, seeder,
		shared.NewMockClock(dispatchStart))

	dc.sim = simulation.New(dc.env, optimizer, dc.builder, simulation.NewExecutor(nil),
		simulation.DefaultConfig(), shared.NewMockClock(dispatchStart), nil)
	dc.sim.Start()
	return nil
}

func (dc *dispatchContext) theTruckBreaksDownForHours(vehicleID string, hours int) error {
	_, err := dc.sim.ReportBreakdown(vehicleID, "breakdown", time.Duration(hours)*time.Hour)
	return err
}

func (dc *dispatchContext) theNextTickPasses() error {
	dc.sim.TickOnce(context.Background())
	return nil
}

// Thens

func (dc *dispatchContext) thePlanActionsAre(expected string) error {
	if dc.planErr != nil {
		return fmt.Errorf("plan construction failed: %w", dc.planErr)
	}
	var kinds []string
	for _, action := range dc.plan.Actions() {
		kinds = append(kinds, string(action.Kind))
	}
	got := strings.Join(kinds, ",")
	if got != expected {
		return fmt.Errorf("expected actions %s, got %s", expected, got)
	}
	return nil
}

func (dc *dispatchContext) thePlanEndsAt(x, y int) error {
	actions := dc.plan.Actions()
	if len(actions) == 0 {
		return fmt.Errorf("plan has no actions")
	}
	last := actions[len(actions)-1].Destination
	if !last.Equals(shared.NewPosition(x, y)) {
		return fmt.Errorf("plan ends at %s, expected (%d,%d)", last, x, y)
	}
	return nil
}

func (dc *dispatchContext) thePlanCoversKm(km int) error {
	if got := dc.plan.TotalDistanceKm(); got != km {
		return fmt.Errorf("plan covers %d km, expected %d", got, km)
	}
	return nil
}

func (dc *dispatchContext) thePlanIncludesARefuelAt(depotID string) error {
	for _, action := range dc.plan.Actions() {
		if action.Kind == planning.ActionRefuel && action.DepotID == depotID {
			return nil
		}
	}
	return fmt.Errorf("no refuel at %s in plan %s", depotID, dc.plan)
}

func (dc *dispatchContext) theRouteIsKmLong(km int) error {
	if dc.pathErr != nil {
		return fmt.Errorf("routing failed: %w", dc.pathErr)
	}
	if dc.path.DistanceKm != km {
		return fmt.Errorf("route is %d km, expected %d", dc.path.DistanceKm, km)
	}
	return nil
}

func (dc *dispatchContext) everyOrderReceivesProduct() error {
	for _, order := range dc.env.PendingOrders() {
		if dc.seedSolution.AssignedM3(order.ID()) == 0 {
			return fmt.Errorf("order %s received nothing", order.ID())
		}
	}
	return nil
}

func (dc *dispatchContext) noInstructionExceedsM3(limit int) error {
	for _, vehicleID := range dc.seedSolution.VehicleIDs() {
		for _, instruction := range dc.seedSolution.Instructions(vehicleID) {
			if instruction.AmountM3 > limit {
				return fmt.Errorf("instruction %s on %s exceeds %d m3",
					instruction, vehicleID, limit)
			}
		}
	}
	return nil
}

func (dc *dispatchContext) theOptimizedScoreIsAtLeastTheSeedScore() error {
	if dc.result.Score < dc.seedScore {
		return fmt.Errorf("optimized score %.2f below seed score %.2f", dc.result.Score, dc.seedScore)
	}
	return nil
}

func (dc *dispatchContext) noOrderIsLeftUnassigned() error {
	if len(dc.result.Unassigned) != 0 {
		return fmt.Errorf("unassigned orders: %v", dc.result.Unassigned)
	}
	return nil
}

func (dc *dispatchContext) theTruckIsOutOfService(vehicleID string) error {
	vehicle, err := dc.env.FindVehicleByID(vehicleID)
	if err != nil {
		return err
	}
	if vehicle.IsAvailable() {
		return fmt.Errorf("vehicle %s is still in service", vehicleID)
	}
	return nil
}

func (dc *dispatchContext) aReplanningPassHasRun() error {
	if dc.sim.Status().Replans == 0 {
		return fmt.Errorf("no replanning pass recorded")
	}
	return nil
}

// InitializeDispatchScenario registers the dispatch step definitions.
func InitializeDispatchScenario(sc *godog.ScenarioContext) {
	dc := &dispatchContext{}

	sc.Before(func(ctx context.Context, scenario *godog.Scenario) (context.Context, error) {
		dc.reset()
		return ctx, nil
	})

	sc.Step(`^a (\d+) by (\d+) city grid with the main plant at (\d+),(\d+)$`, dc.aCityGridWithTheMainPlantAt)
	sc.Step(`^a truck "([^"]*)" of type "([^"]*)" at (\d+),(\d+) loaded with (\d+) m3$`, dc.aTruckAtLoadedWith)
	sc.Step(`^the truck "([^"]*)" has ([\d.]+) gallons of fuel$`, dc.theTruckHasGallonsOfFuel)
	sc.Step(`^a pending order "([^"]*)" at (\d+),(\d+) for (\d+) m3 due in (\d+) hours$`, dc.aPendingOrderAtForDueInHours)
	sc.Step(`^a blockage from (\d+),(\d+) to (\d+),(\d+) active for the first (\d+) hours$`, dc.aBlockageFromToActiveForTheFirstHours)

	sc.Step(`^I build the delivery plan for "([^"]*)"$`, dc.iBuildTheDeliveryPlanFor)
	sc.Step(`^I route from (\d+),(\d+) to (\d+),(\d+)$`, dc.iRouteFromTo)
	sc.Step(`^I build a seed assignment$`, dc.iBuildASeedAssignment)
	sc.Step(`^I optimize the assignment$`, dc.iOptimizeTheAssignment)
	sc.Step(`^the simulation is running$`, dc.theSimulationIsRunning)
	sc.Step(`^the truck "([^"]*)" breaks down for (\d+) hours$`, dc.theTruckBreaksDownForHours)
	sc.Step(`^the next tick passes$`, dc.theNextTickPasses)

	sc.Step(`^the plan actions are "([^"]*)"$`, dc.thePlanActionsAre)
	sc.Step(`^the plan ends at (\d+),(\d+)$`, dc.thePlanEndsAt)
	sc.Step(`^the plan covers (\d+) km$`, dc.thePlanCoversKm)
	sc.Step(`^the plan includes a refuel at "([^"]*)"$`, dc.thePlanIncludesARefuelAt)
	sc.Step(`^the route is (\d+) km long$`, dc.theRouteIsKmLong)
	sc.Step(`^every order receives product$`, dc.everyOrderReceivesProduct)
	sc.Step(`^no instruction exceeds (\d+) m3$`, dc.noInstructionExceedsM3)
	sc.Step(`^the optimized score is at least the seed score$`, dc.theOptimizedScoreIsAtLeastTheSeedScore)
	sc.Step(`^no order is left unassigned$`, dc.noOrderIsLeftUnassigned)
	sc.Step(`^the truck "([^"]*)" is out of service$`, dc.theTruckIsOutOfService)
	sc.Step(`^a replanning pass has run$`, dc.aReplanningPassHasRun)
}
