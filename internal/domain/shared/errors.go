package shared

import (
	"fmt"
	"time"
)

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// Validation error

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Routing errors

// NoPathError is returned by the pathfinder when the goal is unreachable
// at the requested departure time.
type NoPathError struct {
	*DomainError
	From      Position
	To        Position
	Departure time.Time
}

func NewNoPathError(from, to Position, departure time.Time) *NoPathError {
	return &NoPathError{
		DomainError: &DomainError{Message: fmt.Sprintf("no path from %s to %s departing %s",
			from, to, departure.Format(TimestampLayout))},
		From:      from,
		To:        to,
		Departure: departure,
	}
}

// Fuel and LPG errors

type InsufficientFuelError struct {
	*DomainError
	RequiredGal  float64
	AvailableGal float64
}

func NewInsufficientFuelError(required, available float64) *InsufficientFuelError {
	return &InsufficientFuelError{
		DomainError:  &DomainError{Message: fmt.Sprintf("insufficient fuel: need %.2f gal, have %.2f gal", required, available)},
		RequiredGal:  required,
		AvailableGal: available,
	}
}

type DepotShortageError struct {
	*DomainError
	DepotID     string
	RequestedM3 int
	AvailableM3 int
}

func NewDepotShortageError(depotID string, requested, available int) *DepotShortageError {
	return &DepotShortageError{
		DomainError: &DomainError{Message: fmt.Sprintf("depot %s cannot supply %d m3 (has %d m3)",
			depotID, requested, available)},
		DepotID:     depotID,
		RequestedM3: requested,
		AvailableM3: available,
	}
}

// Planning errors

// InfeasiblePlanError is returned by the plan builder when an instruction
// sequence cannot be realized within fuel and reachability limits.
type InfeasiblePlanError struct {
	*DomainError
	VehicleID string
	Reason    string
}

func NewInfeasiblePlanError(vehicleID, reason string) *InfeasiblePlanError {
	return &InfeasiblePlanError{
		DomainError: &DomainError{Message: fmt.Sprintf("infeasible plan for vehicle %s: %s", vehicleID, reason)},
		VehicleID:   vehicleID,
		Reason:      reason,
	}
}

// Vehicle errors

type VehicleError struct {
	*DomainError
	VehicleID string
}

func NewVehicleError(vehicleID, message string) *VehicleError {
	return &VehicleError{
		DomainError: &DomainError{Message: fmt.Sprintf("vehicle %s: %s", vehicleID, message)},
		VehicleID:   vehicleID,
	}
}

// NotFoundError is returned by registries when an entity is unknown.
type NotFoundError struct {
	*DomainError
	Entity string
	ID     string
}

func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{
		DomainError: &DomainError{Message: fmt.Sprintf("%s %s not found", entity, id)},
		Entity:      entity,
		ID:          id,
	}
}
