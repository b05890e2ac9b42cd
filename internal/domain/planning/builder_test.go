package planning_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/lpg-dispatch/internal/domain/delivery"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/depot"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/environment"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/fleet"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/network"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/planning"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/shared"
)

var startTime = time.Date(2026, time.August, 1, 8, 0, 0, 0, time.UTC)

func newTestEnvironment(t *testing.T) *environment.Environment {
	t.Helper()
	grid, err := network.NewGrid(70, 50)
	require.NoError(t, err)
	return environment.New(grid, startTime,
		depot.NewMainPlant("PLANT", shared.NewPosition(12, 8)),
		[]*depot.Depot{depot.NewAuxiliaryDepot("NORTH", shared.NewPosition(42, 42))})
}

func newTruck(t *testing.T, id string, lpgM3 int, fuelGal float64) *fleet.Vehicle {
	t.Helper()
	vehicleType, err := fleet.TypeByCode(fleet.VehicleTypeCode(id[:2]))
	require.NoError(t, err)
	vehicle, err := fleet.NewVehicle(id, vehicleType, shared.NewPosition(12, 8), lpgM3, fuelGal)
	require.NoError(t, err)
	return vehicle
}

func addOrder(t *testing.T, env *environment.Environment, id string, at shared.Position, m3 int) *delivery.Order {
	t.Helper()
	order, err := delivery.NewOrder(id, at, startTime, startTime.Add(24*time.Hour), m3)
	require.NoError(t, err)
	require.NoError(t, env.AddOrder(order))
	return order
}

func kinds(plan *planning.VehiclePlan) []planning.ActionKind {
	actions := plan.Actions()
	result := make([]planning.ActionKind, len(actions))
	for i, a := range actions {
		result[i] = a.Kind
	}
	return result
}

func TestBuilder_SingleDelivery(t *testing.T) {
	// Arrange - truck already carries enough product
	env := newTestEnvironment(t)
	builder := planning.NewBuilder(env.Grid(), planning.DefaultTiming())
	truck := newTruck(t, "TD01", 5, fleet.FuelTankCapacityGal)
	addOrder(t, env, "c-1", shared.NewPosition(20, 8), 5)

	// Act
	plan, err := builder.Build(env, truck,
		[]delivery.DeliveryInstruction{{OrderID: "c-1", AmountM3: 5}}, startTime)

	// Assert - drive, serve, drive home, routine maintenance
	require.NoError(t, err)
	assert.Equal(t, []planning.ActionKind{
		planning.ActionDrive, planning.ActionServe,
		planning.ActionDrive, planning.ActionMaintenance,
	}, kinds(plan))
	assert.Equal(t, 5, plan.DeliveredM3())
	assert.Equal(t, 16, plan.TotalDistanceKm(), "8 km out and 8 km back")
	assert.Equal(t, shared.NewPosition(12, 8), plan.Actions()[2].Destination)
}

func TestBuilder_InsertsReloadWhenTankShort(t *testing.T) {
	// Arrange - empty truck must reload before serving
	env := newTestEnvironment(t)
	builder := planning.NewBuilder(env.Grid(), planning.DefaultTiming())
	truck := newTruck(t, "TD01", 0, fleet.FuelTankCapacityGal)
	addOrder(t, env, "c-1", shared.NewPosition(20, 8), 5)

	// Act
	plan, err := builder.Build(env, truck,
		[]delivery.DeliveryInstruction{{OrderID: "c-1", AmountM3: 5}}, startTime)

	// Assert - the reload happens at a depot before the serve
	require.NoError(t, err)
	actions := plan.Actions()
	reloadIndex, serveIndex := -1, -1
	for i, a := range actions {
		switch a.Kind {
		case planning.ActionReload:
			reloadIndex = i
		case planning.ActionServe:
			serveIndex = i
		}
	}
	require.GreaterOrEqual(t, reloadIndex, 0)
	require.Greater(t, serveIndex, reloadIndex)
}

func TestBuilder_InsertsRefuelDetourWhenFuelShort(t *testing.T) {
	// Arrange - loaded TA with a nearly dry tank: it cannot make the
	// customer leg without topping up at the plant first.
	env := newTestEnvironment(t)
	builder := planning.NewBuilder(env.Grid(), planning.DefaultTiming())
	truck := newTruck(t, "TA01", 25, 2)
	addOrder(t, env, "c-1", shared.NewPosition(60, 40), 25)

	// Act
	plan, err := builder.Build(env, truck,
		[]delivery.DeliveryInstruction{{OrderID: "c-1", AmountM3: 25}}, startTime)

	// Assert
	require.NoError(t, err)
	refuels := 0
	for _, a := range plan.Actions() {
		if a.Kind == planning.ActionRefuel {
			refuels++
			assert.Equal(t, "PLANT", a.DepotID, "only the plant dispenses fuel")
		}
	}
	assert.Greater(t, refuels, 0)
	assert.Equal(t, 25, plan.DeliveredM3())
}

func TestBuilder_SkipsServedOrders(t *testing.T) {
	// Arrange
	env := newTestEnvironment(t)
	builder := planning.NewBuilder(env.Grid(), planning.DefaultTiming())
	truck := newTruck(t, "TD01", 5, fleet.FuelTankCapacityGal)
	order := addOrder(t, env, "c-1", shared.NewPosition(20, 8), 5)
	require.NoError(t, order.Deliver(5))

	// Act
	plan, err := builder.Build(env, truck,
		[]delivery.DeliveryInstruction{{OrderID: "c-1", AmountM3: 5}}, startTime)

	// Assert - nothing to do, empty plan without the maintenance closeout
	require.NoError(t, err)
	assert.Equal(t, 0, plan.ActionCount())
}

func TestBuilder_UnknownOrderIsInfeasible(t *testing.T) {
	// Arrange
	env := newTestEnvironment(t)
	builder := planning.NewBuilder(env.Grid(), planning.DefaultTiming())
	truck := newTruck(t, "TD01", 5, fleet.FuelTankCapacityGal)

	// Act
	_, err := builder.Build(env, truck,
		[]delivery.DeliveryInstruction{{OrderID: "missing", AmountM3: 5}}, startTime)

	// Assert
	require.Error(t, err)
	assert.IsType(t, &shared.InfeasiblePlanError{}, err)
}

func TestBuilder_TimelineIsContiguous(t *testing.T) {
	// Arrange
	env := newTestEnvironment(t)
	builder := planning.NewBuilder(env.Grid(), planning.DefaultTiming())
	truck := newTruck(t, "TB01", 0, fleet.FuelTankCapacityGal)
	addOrder(t, env, "c-1", shared.NewPosition(30, 20), 15)

	// Act
	plan, err := builder.Build(env, truck,
		[]delivery.DeliveryInstruction{{OrderID: "c-1", AmountM3: 15}}, startTime)

	// Assert - each action starts exactly when the previous one ends
	require.NoError(t, err)
	actions := plan.Actions()
	require.NotEmpty(t, actions)
	assert.Equal(t, startTime, actions[0].Start)
	for i := 1; i < len(actions); i++ {
		assert.Equal(t, actions[i-1].End, actions[i].Start)
	}
	assert.Equal(t, actions[len(actions)-1].End, plan.EndTime())
}

func TestBuilder_ClampsInstructionToCapacity(t *testing.T) {
	// Arrange - a TD (5 m3) handed a 40 m3 instruction delivers its
	// capacity share only.
	env := newTestEnvironment(t)
	builder := planning.NewBuilder(env.Grid(), planning.DefaultTiming())
	truck := newTruck(t, "TD01", 5, fleet.FuelTankCapacityGal)
	addOrder(t, env, "c-1", shared.NewPosition(20, 8), 40)

	// Act
	plan, err := builder.Build(env, truck,
		[]delivery.DeliveryInstruction{{OrderID: "c-1", AmountM3: 40}}, startTime)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 5, plan.DeliveredM3())
}
