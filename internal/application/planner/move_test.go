package planner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/lpg-dispatch/internal/application/planner"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/delivery"
)

func twoVehicleSolution() *delivery.Solution {
	solution := delivery.NewSolution([]string{"TA01", "TB01"})
	solution.Append("TA01", delivery.DeliveryInstruction{OrderID: "c-1", AmountM3: 10})
	solution.Append("TA01", delivery.DeliveryInstruction{OrderID: "c-2", AmountM3: 5})
	solution.Append("TB01", delivery.DeliveryInstruction{OrderID: "c-3", AmountM3: 8})
	return solution
}

func TestMove_Transfer(t *testing.T) {
	// Arrange
	solution := twoVehicleSolution()
	move := planner.Move{
		Kind:            planner.MoveTransfer,
		SourceVehicleID: "TA01", SourceIndex: 0,
		TargetVehicleID: "TB01", TargetIndex: 0,
	}

	// Act
	result, err := move.Apply(solution)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "c-2", result.Instructions("TA01")[0].OrderID)
	assert.Equal(t, "c-1", result.Instructions("TB01")[0].OrderID)
	assert.Equal(t, "c-3", result.Instructions("TB01")[1].OrderID)

	// The input solution is untouched.
	assert.Len(t, solution.Instructions("TA01"), 2)
}

func TestMove_Swap(t *testing.T) {
	// Arrange
	solution := twoVehicleSolution()
	move := planner.Move{
		Kind:            planner.MoveSwap,
		SourceVehicleID: "TA01", SourceIndex: 1,
		TargetVehicleID: "TB01", TargetIndex: 0,
	}

	// Act
	result, err := move.Apply(solution)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "c-3", result.Instructions("TA01")[1].OrderID)
	assert.Equal(t, "c-2", result.Instructions("TB01")[0].OrderID)
}

func TestMove_Reorder(t *testing.T) {
	// Arrange
	solution := twoVehicleSolution()
	move := planner.Move{
		Kind:            planner.MoveReorder,
		SourceVehicleID: "TA01", SourceIndex: 0,
		TargetVehicleID: "TA01", TargetIndex: 1,
	}

	// Act
	result, err := move.Apply(solution)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "c-2", result.Instructions("TA01")[0].OrderID)
	assert.Equal(t, "c-1", result.Instructions("TA01")[1].OrderID)
}

func TestMove_ApplyThenInverseRestores(t *testing.T) {
	moves := []planner.Move{
		{Kind: planner.MoveTransfer, SourceVehicleID: "TA01", SourceIndex: 1, TargetVehicleID: "TB01", TargetIndex: 1},
		{Kind: planner.MoveSwap, SourceVehicleID: "TA01", SourceIndex: 0, TargetVehicleID: "TB01", TargetIndex: 0},
		{Kind: planner.MoveReorder, SourceVehicleID: "TA01", SourceIndex: 0, TargetVehicleID: "TA01", TargetIndex: 1},
	}

	for _, move := range moves {
		// Arrange
		solution := twoVehicleSolution()

		// Act
		applied, err := move.Apply(solution)
		require.NoError(t, err, move.String())
		restored, err := move.Inverse().Apply(applied)
		require.NoError(t, err, move.String())

		// Assert
		assert.True(t, solution.Equals(restored), "inverse of %s must restore the solution", move)
	}
}

func TestMove_RejectsOutOfRangeIndices(t *testing.T) {
	// Arrange
	solution := twoVehicleSolution()

	// Act & Assert
	_, err := planner.Move{Kind: planner.MoveTransfer, SourceVehicleID: "TA01", SourceIndex: 5, TargetVehicleID: "TB01"}.Apply(solution)
	assert.Error(t, err)

	_, err = planner.Move{Kind: planner.MoveSwap, SourceVehicleID: "TA01", SourceIndex: 0, TargetVehicleID: "TB01", TargetIndex: 3}.Apply(solution)
	assert.Error(t, err)

	_, err = planner.Move{Kind: planner.MoveReorder, SourceVehicleID: "TB01", SourceIndex: 0, TargetVehicleID: "TB01", TargetIndex: 2}.Apply(solution)
	assert.Error(t, err)
}
