package simulation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/lpg-dispatch/internal/domain/delivery"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/fleet"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/shared"
)

func TestSnapshot_ShowsRemainingPathOnlyWhileDriving(t *testing.T) {
	// Arrange - a drive plan is attached but the truck has not started it
	env := execEnvironment(t)
	vehicle := execVehicle(t, env, 0)
	sim := New(env, nil, nil, NewExecutor(nil), DefaultConfig(), shared.NewMockClock(execStart), nil)
	sim.states["TB01"] = newExecutionState(drivePlan(t, env, shared.NewPosition(22, 8), 1.2))

	// Act
	queued := sim.Snapshot()

	// Assert - no remainder before the wheels turn
	require.Len(t, queued.Vehicles, 1)
	assert.Empty(t, queued.Vehicles[0].RemainingPath)
	assert.Nil(t, queued.Vehicles[0].PathEndsAt)

	// Act - mid-drive the remainder starts at the current position
	vehicle.SetStatus(fleet.StatusDriving)
	vehicle.MoveTo(shared.NewPosition(16, 8))
	driving := sim.Snapshot()

	// Assert
	require.Len(t, driving.Vehicles, 1)
	require.NotEmpty(t, driving.Vehicles[0].RemainingPath)
	assert.Equal(t, shared.NewPosition(16, 8), driving.Vehicles[0].RemainingPath[0])
	assert.NotNil(t, driving.Vehicles[0].PathEndsAt)
}

func TestStatus_CountsDeliveredVolume(t *testing.T) {
	// Arrange - one order fully served, another half served
	env := execEnvironment(t)
	execVehicle(t, env, 0)
	full, err := delivery.NewOrder("c-1", shared.NewPosition(20, 8), execStart, execStart.Add(8*time.Hour), 10)
	require.NoError(t, err)
	require.NoError(t, env.AddOrder(full))
	require.NoError(t, full.Deliver(10))
	half, err := delivery.NewOrder("c-2", shared.NewPosition(30, 8), execStart, execStart.Add(8*time.Hour), 8)
	require.NoError(t, err)
	require.NoError(t, env.AddOrder(half))
	require.NoError(t, half.Deliver(4))

	sim := New(env, nil, nil, NewExecutor(nil), DefaultConfig(), shared.NewMockClock(execStart), nil)

	// Act
	status := sim.Status()

	// Assert
	assert.Equal(t, 1, status.DeliveredOrders)
	assert.Equal(t, 1, status.PendingOrders)
	assert.Equal(t, 14, status.DeliveredM3)
}
