package planner

import (
	"fmt"

	"github.com/andrescamacho/lpg-dispatch/internal/domain/delivery"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/shared"
)

// MoveKind is a neighborhood move family.
type MoveKind string

const (
	// MoveTransfer moves one instruction from vehicle A to vehicle B.
	MoveTransfer MoveKind = "TRANSFER"
	// MoveSwap exchanges instructions between two vehicles.
	MoveSwap MoveKind = "SWAP"
	// MoveReorder moves an instruction within a single vehicle.
	MoveReorder MoveKind = "REORDER"
)

// Move identifies one solution transformation. Identity, for tabu
// comparison, is the full five-tuple: two moves are equal iff kind,
// both vehicles and both indices all match.
type Move struct {
	Kind            MoveKind
	SourceVehicleID string
	SourceIndex     int
	TargetVehicleID string
	TargetIndex     int
}

// Equals compares full move identity.
func (m Move) Equals(other Move) bool {
	return m == other
}

// Inverse returns the move undoing this one. Applying a move and then
// its inverse restores the original solution.
func (m Move) Inverse() Move {
	switch m.Kind {
	case MoveTransfer:
		return Move{
			Kind:            MoveTransfer,
			SourceVehicleID: m.TargetVehicleID,
			SourceIndex:     m.TargetIndex,
			TargetVehicleID: m.SourceVehicleID,
			TargetIndex:     m.SourceIndex,
		}
	case MoveSwap:
		return m
	case MoveReorder:
		return Move{
			Kind:            MoveReorder,
			SourceVehicleID: m.SourceVehicleID,
			SourceIndex:     m.TargetIndex,
			TargetVehicleID: m.TargetVehicleID,
			TargetIndex:     m.SourceIndex,
		}
	default:
		return m
	}
}

// Apply returns a new solution with the move applied; the input solution
// is never mutated.
func (m Move) Apply(sol *delivery.Solution) (*delivery.Solution, error) {
	result := sol.Clone()

	switch m.Kind {
	case MoveTransfer:
		source := result.Instructions(m.SourceVehicleID)
		if m.SourceIndex < 0 || m.SourceIndex >= len(source) {
			return nil, shared.NewValidationError("move", fmt.Sprintf("transfer source index %d out of range", m.SourceIndex))
		}
		if !result.HasVehicle(m.TargetVehicleID) {
			return nil, shared.NewValidationError("move", "transfer target vehicle "+m.TargetVehicleID+" not in solution")
		}
		instruction := source[m.SourceIndex]
		source = append(source[:m.SourceIndex], source[m.SourceIndex+1:]...)
		result.SetInstructions(m.SourceVehicleID, source)

		target := result.Instructions(m.TargetVehicleID)
		index := m.TargetIndex
		if index < 0 || index > len(target) {
			index = len(target)
		}
		target = append(target, delivery.DeliveryInstruction{})
		copy(target[index+1:], target[index:])
		target[index] = instruction
		result.SetInstructions(m.TargetVehicleID, target)

	case MoveSwap:
		source := result.Instructions(m.SourceVehicleID)
		target := result.Instructions(m.TargetVehicleID)
		if m.SourceIndex < 0 || m.SourceIndex >= len(source) {
			return nil, shared.NewValidationError("move", fmt.Sprintf("swap source index %d out of range", m.SourceIndex))
		}
		if m.TargetIndex < 0 || m.TargetIndex >= len(target) {
			return nil, shared.NewValidationError("move", fmt.Sprintf("swap target index %d out of range", m.TargetIndex))
		}
		source[m.SourceIndex], target[m.TargetIndex] = target[m.TargetIndex], source[m.SourceIndex]
		result.SetInstructions(m.SourceVehicleID, source)
		result.SetInstructions(m.TargetVehicleID, target)

	case MoveReorder:
		instructions := result.Instructions(m.SourceVehicleID)
		if m.SourceIndex < 0 || m.SourceIndex >= len(instructions) {
			return nil, shared.NewValidationError("move", fmt.Sprintf("reorder source index %d out of range", m.SourceIndex))
		}
		if m.TargetIndex < 0 || m.TargetIndex >= len(instructions) {
			return nil, shared.NewValidationError("move", fmt.Sprintf("reorder target index %d out of range", m.TargetIndex))
		}
		instruction := instructions[m.SourceIndex]
		instructions = append(instructions[:m.SourceIndex], instructions[m.SourceIndex+1:]...)
		instructions = append(instructions, delivery.DeliveryInstruction{})
		copy(instructions[m.TargetIndex+1:], instructions[m.TargetIndex:])
		instructions[m.TargetIndex] = instruction
		result.SetInstructions(m.SourceVehicleID, instructions)

	default:
		return nil, shared.NewValidationError("move", "unknown kind "+string(m.Kind))
	}

	return result, nil
}

func (m Move) String() string {
	switch m.Kind {
	case MoveReorder:
		return fmt.Sprintf("REORDER %s %d->%d", m.SourceVehicleID, m.SourceIndex, m.TargetIndex)
	default:
		return fmt.Sprintf("%s %s[%d]->%s[%d]", m.Kind, m.SourceVehicleID, m.SourceIndex, m.TargetVehicleID, m.TargetIndex)
	}
}

// tabuList is the FIFO memory of recent moves.
type tabuList struct {
	moves    []Move
	capacity int
}

func newTabuList(capacity int) *tabuList {
	return &tabuList{capacity: capacity}
}

// Push appends a move and drops the head beyond capacity.
func (t *tabuList) Push(move Move) {
	t.moves = append(t.moves, move)
	if len(t.moves) > t.capacity {
		t.moves = t.moves[1:]
	}
}

// Contains reports whether move is currently tabu.
func (t *tabuList) Contains(move Move) bool {
	for _, m := range t.moves {
		if m.Equals(move) {
			return true
		}
	}
	return false
}
