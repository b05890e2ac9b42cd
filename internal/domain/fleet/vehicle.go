package fleet

import (
	"fmt"
	"strings"

	"github.com/andrescamacho/lpg-dispatch/internal/domain/shared"
)

// VehicleStatus represents what a truck is doing right now.
type VehicleStatus string

const (
	StatusAvailable   VehicleStatus = "AVAILABLE"
	StatusDriving     VehicleStatus = "DRIVING"
	StatusRefueling   VehicleStatus = "REFUELING"
	StatusReloading   VehicleStatus = "RELOADING"
	StatusServing     VehicleStatus = "SERVING"
	StatusMaintenance VehicleStatus = "MAINTENANCE"
	StatusIdle        VehicleStatus = "IDLE"
	StatusUnavailable VehicleStatus = "UNAVAILABLE"
)

// fuelEpsilon guards reachability checks against float drift; a leg is
// reachable only when the projected fuel draw leaves this margin.
const fuelEpsilon = 0.05

// Vehicle is the tanker truck aggregate, owned by the Environment and
// mutated only by the plan executor or the maintenance/incident handlers.
//
// Invariants:
//   - 0 <= currentLpg <= type capacity
//   - 0 <= currentFuel <= FuelTankCapacityGal
type Vehicle struct {
	id          string
	vehicleType VehicleType
	position    shared.Position
	currentLpg  int
	currentFuel float64
	status      VehicleStatus
}

// NewVehicle creates a truck with validation. Identity follows the TTNN
// convention (type code plus two-digit unit number, e.g. TA01).
func NewVehicle(id string, vehicleType VehicleType, position shared.Position, lpgM3 int, fuelGal float64) (*Vehicle, error) {
	if len(id) != 4 || !strings.HasPrefix(id, string(vehicleType.Code)) {
		return nil, shared.NewValidationError("id", fmt.Sprintf("%q does not match TTNN for type %s", id, vehicleType.Code))
	}
	if lpgM3 < 0 || lpgM3 > vehicleType.CapacityM3 {
		return nil, shared.NewValidationError("lpg", fmt.Sprintf("%d m3 outside [0,%d]", lpgM3, vehicleType.CapacityM3))
	}
	if fuelGal < 0 || fuelGal > FuelTankCapacityGal {
		return nil, shared.NewValidationError("fuel", fmt.Sprintf("%.2f gal outside [0,%.0f]", fuelGal, FuelTankCapacityGal))
	}

	return &Vehicle{
		id:          id,
		vehicleType: vehicleType,
		position:    position,
		currentLpg:  lpgM3,
		currentFuel: fuelGal,
		status:      StatusAvailable,
	}, nil
}

// Getters

func (v *Vehicle) ID() string                { return v.id }
func (v *Vehicle) Type() VehicleType         { return v.vehicleType }
func (v *Vehicle) Position() shared.Position { return v.position }
func (v *Vehicle) CurrentLpg() int           { return v.currentLpg }
func (v *Vehicle) CurrentFuel() float64      { return v.currentFuel }
func (v *Vehicle) Status() VehicleStatus     { return v.status }

// IsAvailable reports whether the truck can be handed new work.
func (v *Vehicle) IsAvailable() bool {
	return v.status == StatusAvailable || v.status == StatusIdle
}

// SetStatus transitions the truck to a new status.
func (v *Vehicle) SetStatus(status VehicleStatus) {
	v.status = status
}

// MoveTo relocates the truck. Position consistency with the executed
// action's destination is the executor's responsibility.
func (v *Vehicle) MoveTo(position shared.Position) {
	v.position = position
}

// FuelNeededGal computes fuel for a leg at the current LPG load.
func (v *Vehicle) FuelNeededGal(distanceKm int) float64 {
	return v.vehicleType.FuelNeededGal(distanceKm, v.currentLpg)
}

// CanReach reports whether a leg of distanceKm is drivable on the
// current tank, keeping the safety epsilon.
func (v *Vehicle) CanReach(distanceKm int) bool {
	return v.FuelNeededGal(distanceKm) <= v.currentFuel-fuelEpsilon
}

// ConsumeFuel burns fuel for a completed leg.
func (v *Vehicle) ConsumeFuel(gallons float64) error {
	if gallons < 0 {
		return shared.NewValidationError("fuel", "consumption cannot be negative")
	}
	if gallons > v.currentFuel {
		return shared.NewInsufficientFuelError(gallons, v.currentFuel)
	}
	v.currentFuel -= gallons
	return nil
}

// Refuel fills the tank to capacity.
func (v *Vehicle) Refuel() {
	v.currentFuel = FuelTankCapacityGal
}

// LoadLpg takes product on board at a depot.
func (v *Vehicle) LoadLpg(m3 int) error {
	if m3 < 0 {
		return shared.NewValidationError("lpg", "load cannot be negative")
	}
	if v.currentLpg+m3 > v.vehicleType.CapacityM3 {
		return shared.NewVehicleError(v.id, fmt.Sprintf("loading %d m3 exceeds capacity %d", m3, v.vehicleType.CapacityM3))
	}
	v.currentLpg += m3
	return nil
}

// UnloadLpg discharges product at a customer.
func (v *Vehicle) UnloadLpg(m3 int) error {
	if m3 < 0 {
		return shared.NewValidationError("lpg", "discharge cannot be negative")
	}
	if m3 > v.currentLpg {
		return shared.NewVehicleError(v.id, fmt.Sprintf("discharging %d m3 but only %d on board", m3, v.currentLpg))
	}
	v.currentLpg -= m3
	return nil
}

// Clone returns an independent copy for candidate evaluation.
func (v *Vehicle) Clone() *Vehicle {
	clone := *v
	return &clone
}

func (v *Vehicle) String() string {
	return fmt.Sprintf("Vehicle(%s at %s, %dm3, %.1fgal, %s)",
		v.id, v.position, v.currentLpg, v.currentFuel, v.status)
}
