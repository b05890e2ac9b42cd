package delivery

import (
	"fmt"
	"sort"
)

// DeliveryInstruction commits a vehicle to deliver part of an order.
// Multiple instructions across vehicles may together satisfy one order.
type DeliveryInstruction struct {
	OrderID  string
	AmountM3 int
}

func (i DeliveryInstruction) String() string {
	return fmt.Sprintf("%s:%dm3", i.OrderID, i.AmountM3)
}

// Solution maps each vehicle to its ordered instruction list. Every
// pending order either appears at least once (possibly split) or shows
// up in the unassigned report with an explicit penalty in the score.
type Solution struct {
	assignments map[string][]DeliveryInstruction
}

// NewSolution creates an empty, well-typed solution covering the given
// vehicles.
func NewSolution(vehicleIDs []string) *Solution {
	assignments := make(map[string][]DeliveryInstruction, len(vehicleIDs))
	for _, id := range vehicleIDs {
		assignments[id] = nil
	}
	return &Solution{assignments: assignments}
}

// VehicleIDs returns the covered vehicles in lexicographic order, so
// iteration over a solution is deterministic.
func (s *Solution) VehicleIDs() []string {
	ids := make([]string, 0, len(s.assignments))
	for id := range s.assignments {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Instructions returns the instruction list of one vehicle.
func (s *Solution) Instructions(vehicleID string) []DeliveryInstruction {
	return s.assignments[vehicleID]
}

// SetInstructions replaces the instruction list of one vehicle.
func (s *Solution) SetInstructions(vehicleID string, instructions []DeliveryInstruction) {
	s.assignments[vehicleID] = instructions
}

// Append adds one instruction to the end of a vehicle's list.
func (s *Solution) Append(vehicleID string, instruction DeliveryInstruction) {
	s.assignments[vehicleID] = append(s.assignments[vehicleID], instruction)
}

// HasVehicle reports whether the solution covers vehicleID.
func (s *Solution) HasVehicle(vehicleID string) bool {
	_, ok := s.assignments[vehicleID]
	return ok
}

// AssignedM3 totals the volume committed to an order across all vehicles.
func (s *Solution) AssignedM3(orderID string) int {
	total := 0
	for _, instructions := range s.assignments {
		for _, instruction := range instructions {
			if instruction.OrderID == orderID {
				total += instruction.AmountM3
			}
		}
	}
	return total
}

// InstructionCount totals instructions across all vehicles.
func (s *Solution) InstructionCount() int {
	total := 0
	for _, instructions := range s.assignments {
		total += len(instructions)
	}
	return total
}

// LeastLoadedVehicle returns the vehicle with the fewest instructions,
// breaking ties by id. Returns false when the solution covers no vehicle.
func (s *Solution) LeastLoadedVehicle() (string, bool) {
	best := ""
	bestCount := 0
	for _, id := range s.VehicleIDs() {
		count := len(s.assignments[id])
		if best == "" || count < bestCount {
			best = id
			bestCount = count
		}
	}
	return best, best != ""
}

// UnassignedOrders reports pending orders with zero committed volume.
func (s *Solution) UnassignedOrders(pending []*Order) []string {
	var unassigned []string
	for _, order := range pending {
		if s.AssignedM3(order.ID()) == 0 {
			unassigned = append(unassigned, order.ID())
		}
	}
	return unassigned
}

// Clone returns a deep copy, so move operators never mutate the current
// solution in place.
func (s *Solution) Clone() *Solution {
	assignments := make(map[string][]DeliveryInstruction, len(s.assignments))
	for id, instructions := range s.assignments {
		if instructions == nil {
			assignments[id] = nil
			continue
		}
		cloned := make([]DeliveryInstruction, len(instructions))
		copy(cloned, instructions)
		assignments[id] = cloned
	}
	return &Solution{assignments: assignments}
}

// Equals compares two solutions instruction by instruction.
func (s *Solution) Equals(other *Solution) bool {
	if len(s.assignments) != len(other.assignments) {
		return false
	}
	for id, instructions := range s.assignments {
		otherInstructions, ok := other.assignments[id]
		if !ok || len(instructions) != len(otherInstructions) {
			return false
		}
		for i := range instructions {
			if instructions[i] != otherInstructions[i] {
				return false
			}
		}
	}
	return true
}
