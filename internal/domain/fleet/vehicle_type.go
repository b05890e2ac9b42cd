package fleet

import (
	"fmt"

	"github.com/andrescamacho/lpg-dispatch/internal/domain/shared"
)

const (
	// FuelTankCapacityGal is the fuel tank size shared by every truck.
	FuelTankCapacityGal = 25.0

	// fuelDivisor converts km x tons into gallons burned:
	// fuel = distance_km * combined_weight_tons / 180.
	fuelDivisor = 180.0
)

// VehicleTypeCode identifies one of the four truck variants.
type VehicleTypeCode string

const (
	TypeTA VehicleTypeCode = "TA"
	TypeTB VehicleTypeCode = "TB"
	TypeTC VehicleTypeCode = "TC"
	TypeTD VehicleTypeCode = "TD"
)

// VehicleType carries the fixed attributes of a truck variant.
type VehicleType struct {
	Code       VehicleTypeCode
	TareTons   float64
	CapacityM3 int
	GrossTons  float64 // tare plus a full LPG load
	Units      int
}

var vehicleTypes = map[VehicleTypeCode]VehicleType{
	TypeTA: {Code: TypeTA, TareTons: 2.5, CapacityM3: 25, GrossTons: 15.0, Units: 2},
	TypeTB: {Code: TypeTB, TareTons: 2.0, CapacityM3: 15, GrossTons: 9.5, Units: 4},
	TypeTC: {Code: TypeTC, TareTons: 1.5, CapacityM3: 10, GrossTons: 6.5, Units: 4},
	TypeTD: {Code: TypeTD, TareTons: 1.0, CapacityM3: 5, GrossTons: 3.5, Units: 10},
}

// TypeByCode resolves a truck variant from its two-letter code.
func TypeByCode(code VehicleTypeCode) (VehicleType, error) {
	t, ok := vehicleTypes[code]
	if !ok {
		return VehicleType{}, shared.NewValidationError("type", fmt.Sprintf("unknown vehicle type %q", code))
	}
	return t, nil
}

// AllTypes returns the four truck variants in fleet order (TA..TD).
func AllTypes() []VehicleType {
	return []VehicleType{
		vehicleTypes[TypeTA],
		vehicleTypes[TypeTB],
		vehicleTypes[TypeTC],
		vehicleTypes[TypeTD],
	}
}

// LpgWeightTons is the weight of an LPG load for this variant.
func (t VehicleType) LpgWeightTons(lpgM3 int) float64 {
	if t.CapacityM3 == 0 {
		return 0
	}
	return (t.GrossTons - t.TareTons) * float64(lpgM3) / float64(t.CapacityM3)
}

// CombinedWeightTons is tare plus the current LPG load weight.
func (t VehicleType) CombinedWeightTons(lpgM3 int) float64 {
	return t.TareTons + t.LpgWeightTons(lpgM3)
}

// FuelNeededGal computes the fuel burned over a leg of distanceKm while
// carrying lpgM3 of product.
func (t VehicleType) FuelNeededGal(distanceKm, lpgM3 int) float64 {
	return float64(distanceKm) * t.CombinedWeightTons(lpgM3) / fuelDivisor
}

func (t VehicleType) String() string {
	return fmt.Sprintf("%s(%.1ft, %dm3)", t.Code, t.TareTons, t.CapacityM3)
}
