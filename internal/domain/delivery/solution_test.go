package delivery_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/lpg-dispatch/internal/domain/delivery"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/shared"
)

func TestSolution_AssignedM3_AcrossVehicles(t *testing.T) {
	// Arrange - a 40 m3 order split over two trucks
	solution := delivery.NewSolution([]string{"TA01", "TB01"})
	solution.Append("TA01", delivery.DeliveryInstruction{OrderID: "c-1", AmountM3: 25})
	solution.Append("TB01", delivery.DeliveryInstruction{OrderID: "c-1", AmountM3: 15})
	solution.Append("TB01", delivery.DeliveryInstruction{OrderID: "c-2", AmountM3: 5})

	// Act & Assert
	assert.Equal(t, 40, solution.AssignedM3("c-1"))
	assert.Equal(t, 5, solution.AssignedM3("c-2"))
	assert.Equal(t, 0, solution.AssignedM3("c-3"))
	assert.Equal(t, 3, solution.InstructionCount())
}

func TestSolution_VehicleIDs_Sorted(t *testing.T) {
	// Arrange
	solution := delivery.NewSolution([]string{"TD03", "TA01", "TB02"})

	// Act & Assert
	assert.Equal(t, []string{"TA01", "TB02", "TD03"}, solution.VehicleIDs())
}

func TestSolution_UnassignedOrders(t *testing.T) {
	// Arrange
	solution := delivery.NewSolution([]string{"TA01"})
	solution.Append("TA01", delivery.DeliveryInstruction{OrderID: "c-1", AmountM3: 10})

	assigned, err := delivery.NewOrder("c-1", shared.NewPosition(1, 1), arrival, due, 10)
	require.NoError(t, err)
	skipped, err := delivery.NewOrder("c-2", shared.NewPosition(2, 2), arrival, due, 5)
	require.NoError(t, err)

	// Act
	unassigned := solution.UnassignedOrders([]*delivery.Order{assigned, skipped})

	// Assert
	assert.Equal(t, []string{"c-2"}, unassigned)
}

func TestSolution_LeastLoadedVehicle(t *testing.T) {
	// Arrange
	solution := delivery.NewSolution([]string{"TA01", "TB01"})
	solution.Append("TA01", delivery.DeliveryInstruction{OrderID: "c-1", AmountM3: 10})

	// Act
	id, ok := solution.LeastLoadedVehicle()

	// Assert
	assert.True(t, ok)
	assert.Equal(t, "TB01", id)

	// Empty solution has no vehicle.
	_, ok = delivery.NewSolution(nil).LeastLoadedVehicle()
	assert.False(t, ok)
}

func TestSolution_CloneAndEquals(t *testing.T) {
	// Arrange
	solution := delivery.NewSolution([]string{"TA01", "TB01"})
	solution.Append("TA01", delivery.DeliveryInstruction{OrderID: "c-1", AmountM3: 10})

	// Act
	clone := solution.Clone()

	// Assert
	assert.True(t, solution.Equals(clone))

	// Mutating the clone must not leak into the original.
	clone.Append("TB01", delivery.DeliveryInstruction{OrderID: "c-2", AmountM3: 5})
	assert.False(t, solution.Equals(clone))
	assert.Empty(t, solution.Instructions("TB01"))
}
