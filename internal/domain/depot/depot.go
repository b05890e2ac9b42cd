package depot

import (
	"fmt"

	"github.com/andrescamacho/lpg-dispatch/internal/domain/shared"
)

// AuxEffectiveCapacityM3 is the level auxiliary depots refill to at
// every midnight.
const AuxEffectiveCapacityM3 = 160

// Depot is a refill location: the main plant or an auxiliary tank.
// The main plant also dispenses fuel and is modelled as effectively
// unlimited.
//
// Invariant: 0 <= currentLpg <= capacity.
type Depot struct {
	id         string
	position   shared.Position
	capacityM3 int
	currentLpg int
	canRefuel  bool
	isMain     bool
}

// NewMainPlant creates the main plant depot. Capacity is large enough to
// be effectively unlimited and it is the only place fuel is dispensed.
func NewMainPlant(id string, position shared.Position) *Depot {
	const mainCapacity = 1_000_000
	return &Depot{
		id:         id,
		position:   position,
		capacityM3: mainCapacity,
		currentLpg: mainCapacity,
		canRefuel:  true,
		isMain:     true,
	}
}

// NewAuxiliaryDepot creates an intermediate tank. Auxiliary depots serve
// LPG only.
func NewAuxiliaryDepot(id string, position shared.Position) *Depot {
	return &Depot{
		id:         id,
		position:   position,
		capacityM3: AuxEffectiveCapacityM3,
		currentLpg: AuxEffectiveCapacityM3,
		canRefuel:  false,
	}
}

// Getters

func (d *Depot) ID() string                { return d.id }
func (d *Depot) Position() shared.Position { return d.position }
func (d *Depot) CapacityM3() int           { return d.capacityM3 }
func (d *Depot) CurrentLpg() int           { return d.currentLpg }
func (d *Depot) CanRefuel() bool           { return d.canRefuel }
func (d *Depot) IsMain() bool              { return d.isMain }

// CanSupply reports whether the depot currently holds at least m3.
func (d *Depot) CanSupply(m3 int) bool {
	return d.currentLpg >= m3
}

// Draw takes m3 of product out of the tank.
func (d *Depot) Draw(m3 int) error {
	if m3 < 0 {
		return shared.NewValidationError("m3", "draw cannot be negative")
	}
	if m3 > d.currentLpg {
		return shared.NewDepotShortageError(d.id, m3, d.currentLpg)
	}
	d.currentLpg -= m3
	return nil
}

// Refill restores the tank to its effective capacity. Invoked for every
// depot at midnight; the main plant stays effectively unlimited.
func (d *Depot) Refill() {
	d.currentLpg = d.capacityM3
}

// Clone returns an independent copy for candidate evaluation.
func (d *Depot) Clone() *Depot {
	clone := *d
	return &clone
}

func (d *Depot) String() string {
	kind := "aux"
	if d.isMain {
		kind = "main"
	}
	return fmt.Sprintf("Depot(%s %s at %s, %d/%d m3)", d.id, kind, d.position, d.currentLpg, d.capacityM3)
}
