package fleet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/lpg-dispatch/internal/domain/fleet"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/shared"
)

func newTestVehicle(t *testing.T, code fleet.VehicleTypeCode, lpgM3 int, fuelGal float64) *fleet.Vehicle {
	t.Helper()
	vehicleType, err := fleet.TypeByCode(code)
	require.NoError(t, err)
	vehicle, err := fleet.NewVehicle(string(code)+"01", vehicleType, shared.NewPosition(12, 8), lpgM3, fuelGal)
	require.NoError(t, err)
	return vehicle
}

func TestNewVehicle_RejectsBadID(t *testing.T) {
	// Arrange
	vehicleType, err := fleet.TypeByCode(fleet.TypeTA)
	require.NoError(t, err)

	// Act
	_, err = fleet.NewVehicle("TB01", vehicleType, shared.NewPosition(0, 0), 0, 25)

	// Assert
	assert.Error(t, err)
	assert.IsType(t, &shared.ValidationError{}, err)
}

func TestNewVehicle_RejectsOverCapacity(t *testing.T) {
	// Arrange
	vehicleType, err := fleet.TypeByCode(fleet.TypeTD)
	require.NoError(t, err)

	// Act - TD holds 5 m3
	_, err = fleet.NewVehicle("TD01", vehicleType, shared.NewPosition(0, 0), 6, 25)

	// Assert
	assert.Error(t, err)
}

func TestVehicleType_FuelNeededGal(t *testing.T) {
	// A fully loaded TA weighs 15 t gross; 100 km burns 100*15/180 gal.
	vehicleType, err := fleet.TypeByCode(fleet.TypeTA)
	require.NoError(t, err)

	assert.InDelta(t, 8.333, vehicleType.FuelNeededGal(100, 25), 0.001)
	// Empty, only the 2.5 t tare counts.
	assert.InDelta(t, 1.389, vehicleType.FuelNeededGal(100, 0), 0.001)
}

func TestVehicle_ConsumeFuel(t *testing.T) {
	// Arrange
	vehicle := newTestVehicle(t, fleet.TypeTB, 0, 10)

	// Act
	err := vehicle.ConsumeFuel(4)

	// Assert
	require.NoError(t, err)
	assert.InDelta(t, 6, vehicle.CurrentFuel(), 1e-9)

	// Act - more than the tank holds
	err = vehicle.ConsumeFuel(7)

	// Assert
	assert.Error(t, err)
	assert.IsType(t, &shared.InsufficientFuelError{}, err)
	assert.InDelta(t, 6, vehicle.CurrentFuel(), 1e-9, "failed consumption must not change the tank")
}

func TestVehicle_CanReach_KeepsEpsilon(t *testing.T) {
	// Arrange - empty TD: 1 t tare, so 1 km burns 1/180 gal.
	vehicle := newTestVehicle(t, fleet.TypeTD, 0, 25)

	// Act & Assert
	assert.True(t, vehicle.CanReach(100))

	// Exactly the tank minus epsilon is not enough: 25 gal covers
	// 25*180 = 4500 km at tare weight, but the epsilon forbids it.
	assert.False(t, vehicle.CanReach(4500))
	assert.True(t, vehicle.CanReach(4400))
}

func TestVehicle_LoadAndUnloadLpg(t *testing.T) {
	// Arrange
	vehicle := newTestVehicle(t, fleet.TypeTC, 0, 25)

	// Act
	require.NoError(t, vehicle.LoadLpg(10))

	// Assert
	assert.Equal(t, 10, vehicle.CurrentLpg())
	assert.Error(t, vehicle.LoadLpg(1), "TC capacity is 10 m3")

	// Act
	require.NoError(t, vehicle.UnloadLpg(7))

	// Assert
	assert.Equal(t, 3, vehicle.CurrentLpg())
	assert.Error(t, vehicle.UnloadLpg(4), "cannot discharge more than on board")
}

func TestVehicle_Clone_IsIndependent(t *testing.T) {
	// Arrange
	vehicle := newTestVehicle(t, fleet.TypeTA, 20, 25)

	// Act
	clone := vehicle.Clone()
	require.NoError(t, clone.UnloadLpg(5))
	clone.MoveTo(shared.NewPosition(1, 1))

	// Assert
	assert.Equal(t, 20, vehicle.CurrentLpg())
	assert.Equal(t, shared.NewPosition(12, 8), vehicle.Position())
}

func TestAllTypes_FleetComposition(t *testing.T) {
	// Act
	types := fleet.AllTypes()

	// Assert - TA x2, TB x4, TC x4, TD x10
	require.Len(t, types, 4)
	total := 0
	for _, vehicleType := range types {
		total += vehicleType.Units
	}
	assert.Equal(t, 20, total)
	assert.Equal(t, fleet.TypeTA, types[0].Code)
	assert.Equal(t, 2, types[0].Units)
	assert.Equal(t, 10, types[3].Units)
}
