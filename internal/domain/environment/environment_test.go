package environment_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/lpg-dispatch/internal/domain/delivery"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/depot"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/environment"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/fleet"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/maintenance"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/network"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/shared"
)

var startTime = time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)

func newTestEnvironment(t *testing.T) *environment.Environment {
	t.Helper()
	grid, err := network.NewGrid(70, 50)
	require.NoError(t, err)
	env := environment.New(grid, startTime,
		depot.NewMainPlant("PLANT", shared.NewPosition(12, 8)),
		[]*depot.Depot{
			depot.NewAuxiliaryDepot("NORTH", shared.NewPosition(42, 42)),
			depot.NewAuxiliaryDepot("EAST", shared.NewPosition(63, 3)),
		})
	return env
}

func addVehicle(t *testing.T, env *environment.Environment, id string) *fleet.Vehicle {
	t.Helper()
	vehicleType, err := fleet.TypeByCode(fleet.VehicleTypeCode(id[:2]))
	require.NoError(t, err)
	vehicle, err := fleet.NewVehicle(id, vehicleType, shared.NewPosition(12, 8), 0, fleet.FuelTankCapacityGal)
	require.NoError(t, err)
	require.NoError(t, env.AddVehicle(vehicle))
	return vehicle
}

func addOrder(t *testing.T, env *environment.Environment, id string, due time.Time, m3 int) *delivery.Order {
	t.Helper()
	order, err := delivery.NewOrder(id, shared.NewPosition(20, 20), startTime, due, m3)
	require.NoError(t, err)
	require.NoError(t, env.AddOrder(order))
	return order
}

func TestEnvironment_AddVehicle_RejectsDuplicate(t *testing.T) {
	// Arrange
	env := newTestEnvironment(t)
	vehicle := addVehicle(t, env, "TA01")

	// Act
	err := env.AddVehicle(vehicle)

	// Assert
	assert.Error(t, err)
	assert.Len(t, env.Vehicles(), 1)
}

func TestEnvironment_PendingOrders_SortedByDueTime(t *testing.T) {
	// Arrange
	env := newTestEnvironment(t)
	addOrder(t, env, "c-late", startTime.Add(24*time.Hour), 10)
	addOrder(t, env, "c-open", time.Time{}, 10)
	addOrder(t, env, "c-soon", startTime.Add(4*time.Hour), 10)

	// Act
	pending := env.PendingOrders()

	// Assert - ascending due time, no-due-time orders last
	require.Len(t, pending, 3)
	assert.Equal(t, "c-soon", pending[0].ID())
	assert.Equal(t, "c-late", pending[1].ID())
	assert.Equal(t, "c-open", pending[2].ID())
}

func TestEnvironment_ServedOrdersLeavePending(t *testing.T) {
	// Arrange
	env := newTestEnvironment(t)
	order := addOrder(t, env, "c-1", startTime.Add(4*time.Hour), 10)

	// Act
	require.NoError(t, order.Deliver(10))

	// Assert
	assert.Empty(t, env.PendingOrders())
	require.Len(t, env.DeliveredOrders(), 1)
	assert.Equal(t, "c-1", env.DeliveredOrders()[0].ID())
}

func TestEnvironment_AvailableVehicles_ExcludesHeld(t *testing.T) {
	// Arrange
	env := newTestEnvironment(t)
	addVehicle(t, env, "TA01")
	addVehicle(t, env, "TB01")
	addVehicle(t, env, "TB02")

	// TB01 breaks down now (TI1 holds it 2h).
	incident, err := maintenance.NewIncident("i-1", "TB01", startTime, maintenance.IncidentTI1, "")
	require.NoError(t, err)
	require.NoError(t, env.AddIncident(incident))

	// TB02 is in its preventive window today.
	task, err := maintenance.NewTask("TB02", startTime)
	require.NoError(t, err)
	env.AddMaintenanceTask(task)

	// Act
	available := env.AvailableVehicles()

	// Assert
	require.Len(t, available, 1)
	assert.Equal(t, "TA01", available[0].ID())
}

func TestEnvironment_ResolveIncident_RestoresVehicle(t *testing.T) {
	// Arrange
	env := newTestEnvironment(t)
	vehicle := addVehicle(t, env, "TA01")
	incident, err := maintenance.NewIncident("i-1", "TA01", startTime, maintenance.IncidentTI1, "")
	require.NoError(t, err)
	require.NoError(t, env.AddIncident(incident))
	assert.Equal(t, fleet.StatusUnavailable, vehicle.Status())

	// Act
	err = env.ResolveIncident("TA01")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, fleet.StatusAvailable, vehicle.Status())
	_, active := env.ActiveIncident("TA01")
	assert.False(t, active)

	// Resolving again is a not-found.
	err = env.ResolveIncident("TA01")
	assert.IsType(t, &shared.NotFoundError{}, err)
}

func TestEnvironment_ActiveBlockagesAt(t *testing.T) {
	// Arrange
	env := newTestEnvironment(t)
	blockage, err := network.NewBlockage("b-1",
		startTime.Add(2*time.Hour), startTime.Add(4*time.Hour),
		[]shared.Position{{X: 1, Y: 1}, {X: 5, Y: 1}})
	require.NoError(t, err)
	env.AddBlockage(blockage)

	// Act & Assert
	assert.Empty(t, env.ActiveBlockagesAt(startTime))
	assert.Len(t, env.ActiveBlockagesAt(startTime.Add(3*time.Hour)), 1)
	assert.Empty(t, env.ActiveBlockagesAt(startTime.Add(5*time.Hour)))
}

func TestEnvironment_RefillAuxDepots(t *testing.T) {
	// Arrange
	env := newTestEnvironment(t)
	aux := env.AuxDepots()[0]
	require.NoError(t, aux.Draw(100))

	// Act
	env.RefillAuxDepots()

	// Assert
	assert.Equal(t, depot.AuxEffectiveCapacityM3, aux.CurrentLpg())
}

func TestEnvironment_Clone_IsIndependent(t *testing.T) {
	// Arrange
	env := newTestEnvironment(t)
	vehicle := addVehicle(t, env, "TA01")
	order := addOrder(t, env, "c-1", startTime.Add(4*time.Hour), 10)

	// Act
	clone := env.Clone()
	cloneVehicle, err := clone.FindVehicleByID("TA01")
	require.NoError(t, err)
	require.NoError(t, cloneVehicle.LoadLpg(10))
	cloneOrder, err := clone.FindOrderByID("c-1")
	require.NoError(t, err)
	require.NoError(t, cloneOrder.Deliver(10))
	clone.AdvanceClock(time.Hour)
	require.NoError(t, clone.AuxDepots()[0].Draw(50))

	// Assert - the original aggregate is untouched
	assert.Equal(t, 0, vehicle.CurrentLpg())
	assert.False(t, order.IsServed())
	assert.Equal(t, startTime, env.CurrentTime())
	assert.Equal(t, depot.AuxEffectiveCapacityM3, env.AuxDepots()[0].CurrentLpg())
}
