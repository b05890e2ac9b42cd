package planning

import (
	"fmt"
	"time"
)

// VehiclePlan is an ordered action sequence realizing one vehicle's
// instructions over time. Plans reference vehicles by identity only;
// the Environment holds the canonical Vehicle.
type VehiclePlan struct {
	vehicleID string
	startTime time.Time
	actions   []Action
}

// NewVehiclePlan creates a plan from an already-timed action sequence.
func NewVehiclePlan(vehicleID string, startTime time.Time, actions []Action) *VehiclePlan {
	return &VehiclePlan{vehicleID: vehicleID, startTime: startTime, actions: actions}
}

func (p *VehiclePlan) VehicleID() string    { return p.vehicleID }
func (p *VehiclePlan) StartTime() time.Time { return p.startTime }

// Actions returns a copy of the action sequence.
func (p *VehiclePlan) Actions() []Action {
	actions := make([]Action, len(p.actions))
	copy(actions, p.actions)
	return actions
}

// ActionCount returns the number of scheduled actions.
func (p *VehiclePlan) ActionCount() int {
	return len(p.actions)
}

// EndTime is when the last action completes; the start time for an
// empty plan.
func (p *VehiclePlan) EndTime() time.Time {
	if len(p.actions) == 0 {
		return p.startTime
	}
	return p.actions[len(p.actions)-1].End
}

// TotalDistanceKm totals drive legs.
func (p *VehiclePlan) TotalDistanceKm() int {
	total := 0
	for _, a := range p.actions {
		if a.Kind == ActionDrive {
			total += a.Path.DistanceKm
		}
	}
	return total
}

// TotalFuelGal totals the scheduled fuel draw of all drive legs.
func (p *VehiclePlan) TotalFuelGal() float64 {
	total := 0.0
	for _, a := range p.actions {
		if a.Kind == ActionDrive {
			total += a.FuelGal
		}
	}
	return total
}

// DeliveredM3 totals the product discharged by serve actions.
func (p *VehiclePlan) DeliveredM3() int {
	total := 0
	for _, a := range p.actions {
		if a.Kind == ActionServe {
			total += a.LpgM3
		}
	}
	return total
}

// ServeActions returns the discharge steps in schedule order.
func (p *VehiclePlan) ServeActions() []Action {
	var serves []Action
	for _, a := range p.actions {
		if a.Kind == ActionServe {
			serves = append(serves, a)
		}
	}
	return serves
}

func (p *VehiclePlan) String() string {
	return fmt.Sprintf("Plan(%s, %d actions, %dkm, %dm3)",
		p.vehicleID, len(p.actions), p.TotalDistanceKm(), p.DeliveredM3())
}
