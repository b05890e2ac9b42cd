package planner

import (
	"math"
	"time"

	"github.com/andrescamacho/lpg-dispatch/internal/domain/delivery"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/environment"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/fleet"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/planning"
)

// PlanRealizer lowers one vehicle's instruction list into a concrete
// plan. *planning.Builder is the production implementation.
type PlanRealizer interface {
	Build(env *environment.Environment, vehicle *fleet.Vehicle, instructions []delivery.DeliveryInstruction, start time.Time) (*planning.VehiclePlan, error)
}

// EvaluatorWeights tunes the score composition. Higher scores are
// better: rewards are positive, penalties negative.
type EvaluatorWeights struct {
	CompletedOrderReward float64
	PartialCreditFactor  float64
	EarlyBonusCapMinutes float64
	EarlyBonusPerMinute  float64
	LatePenaltyExponent  float64
	UnderDeliveryWeight  float64
	DistanceWeight       float64
}

// DefaultEvaluatorWeights returns the reference weighting.
func DefaultEvaluatorWeights() EvaluatorWeights {
	return EvaluatorWeights{
		CompletedOrderReward: 500,
		PartialCreditFactor:  0.5,
		EarlyBonusCapMinutes: 120,
		EarlyBonusPerMinute:  0.5,
		LatePenaltyExponent:  1.5,
		UnderDeliveryWeight:  200,
		DistanceWeight:       0.05,
	}
}

// Evaluator scores a candidate assignment against an environment
// snapshot. It is a pure function of (snapshot, solution, plans):
// repeated evaluation of the same pair returns identical scores.
type Evaluator struct {
	weights EvaluatorWeights
}

// NewEvaluator creates an evaluator with the given weights.
func NewEvaluator(weights EvaluatorWeights) *Evaluator {
	return &Evaluator{weights: weights}
}

// Score computes the scalar objective for a solution whose plans have
// already been realized. Vehicles whose plan came back infeasible carry
// a nil entry; their instructions count as unassigned.
func (e *Evaluator) Score(env *environment.Environment, sol *delivery.Solution, plans map[string]*planning.VehiclePlan) float64 {
	score := 0.0

	deliveredByOrder := make(map[string]int)
	assignedByOrder := make(map[string]int)

	for _, vehicleID := range sol.VehicleIDs() {
		plan := plans[vehicleID]
		if plan == nil {
			continue
		}
		for _, instruction := range sol.Instructions(vehicleID) {
			assignedByOrder[instruction.OrderID] += instruction.AmountM3
		}
		for _, serve := range plan.ServeActions() {
			deliveredByOrder[serve.OrderID] += serve.LpgM3

			order, err := env.FindOrderByID(serve.OrderID)
			if err != nil || order.DueTime().IsZero() {
				continue
			}
			score += e.dueDateComponent(serve.Start, order.DueTime())
		}
		score -= e.weights.DistanceWeight * float64(plan.TotalDistanceKm())
	}

	// Coverage is measured against the remaining volume, not the
	// original request: after a partial delivery an order that has its
	// remainder fully assigned counts as completed.
	for _, order := range env.PendingOrders() {
		remaining := float64(order.RemainingM3())
		delivered := float64(deliveredByOrder[order.ID()])
		if delivered >= remaining {
			score += e.weights.CompletedOrderReward
		} else if delivered > 0 {
			score += e.weights.CompletedOrderReward * e.weights.PartialCreditFactor * delivered / remaining
		}

		assigned := float64(assignedByOrder[order.ID()])
		if assigned == 0 {
			// Missing-order penalty: double the incomplete penalty.
			score -= 2 * e.weights.UnderDeliveryWeight
			continue
		}
		if assigned < remaining {
			fraction := (remaining - assigned) / remaining
			score -= e.weights.UnderDeliveryWeight * fraction * fraction
		}
	}

	return score
}

// dueDateComponent rewards early arrival linearly up to the cap and
// penalizes lateness superlinearly.
func (e *Evaluator) dueDateComponent(arrival, due time.Time) float64 {
	if arrival.After(due) {
		minutesLate := arrival.Sub(due).Minutes()
		return -math.Pow(minutesLate, e.weights.LatePenaltyExponent)
	}
	minutesEarly := due.Sub(arrival).Minutes()
	if minutesEarly > e.weights.EarlyBonusCapMinutes {
		minutesEarly = e.weights.EarlyBonusCapMinutes
	}
	return minutesEarly * e.weights.EarlyBonusPerMinute
}

// RealizeAll lowers every vehicle's instructions into plans, starting at
// the snapshot's current time. Infeasible sequences map to nil.
func RealizeAll(realizer PlanRealizer, env *environment.Environment, sol *delivery.Solution) map[string]*planning.VehiclePlan {
	plans := make(map[string]*planning.VehiclePlan, len(sol.VehicleIDs()))
	for _, vehicleID := range sol.VehicleIDs() {
		vehicle, err := env.FindVehicleByID(vehicleID)
		if err != nil {
			plans[vehicleID] = nil
			continue
		}
		plan, err := realizer.Build(env, vehicle, sol.Instructions(vehicleID), env.CurrentTime())
		if err != nil {
			plans[vehicleID] = nil
			continue
		}
		plans[vehicleID] = plan
	}
	return plans
}
