package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTabuList_FIFOEviction(t *testing.T) {
	// Arrange
	list := newTabuList(2)
	first := Move{Kind: MoveSwap, SourceVehicleID: "TA01", TargetVehicleID: "TB01"}
	second := Move{Kind: MoveSwap, SourceVehicleID: "TA01", TargetVehicleID: "TC01"}
	third := Move{Kind: MoveSwap, SourceVehicleID: "TB01", TargetVehicleID: "TC01"}

	// Act
	list.Push(first)
	list.Push(second)

	// Assert
	assert.True(t, list.Contains(first))
	assert.True(t, list.Contains(second))

	// Act - exceeding capacity drops the oldest entry
	list.Push(third)

	// Assert
	assert.False(t, list.Contains(first))
	assert.True(t, list.Contains(second))
	assert.True(t, list.Contains(third))
}

func TestMove_IdentityIsFullTuple(t *testing.T) {
	// Arrange
	move := Move{Kind: MoveTransfer, SourceVehicleID: "TA01", SourceIndex: 1, TargetVehicleID: "TB01", TargetIndex: 0}

	// Assert - any differing field breaks equality
	assert.True(t, move.Equals(move))
	other := move
	other.TargetIndex = 2
	assert.False(t, move.Equals(other))
}
