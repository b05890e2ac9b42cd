package planner

import (
	"math/rand"
	"sort"

	"github.com/andrescamacho/lpg-dispatch/internal/domain/delivery"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/environment"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/fleet"
	"github.com/andrescamacho/lpg-dispatch/pkg/utils"
)

// SeedConstructor produces the greedy-with-randomization seed solution:
// orders by ascending due time, each covered by the nearest vehicles
// with uniformly sampled split amounts.
type SeedConstructor struct {
	seed       int64
	minSplitM3 int
}

// NewSeedConstructor creates a constructor for the given seed.
func NewSeedConstructor(seed int64, minSplitM3 int) *SeedConstructor {
	if minSplitM3 < 1 {
		minSplitM3 = 1
	}
	return &SeedConstructor{seed: seed, minSplitM3: minSplitM3}
}

// Build constructs a seed solution over the currently available fleet.
// Each call derives a fresh random stream from the configured seed, so
// repeated builds over the same environment yield the same solution.
// With no pending orders or no vehicles it returns an empty,
// well-typed solution.
func (c *SeedConstructor) Build(env *environment.Environment) *delivery.Solution {
	rng := rand.New(rand.NewSource(c.seed))
	vehicles := env.AvailableVehicles()
	vehicleIDs := make([]string, 0, len(vehicles))
	for _, v := range vehicles {
		vehicleIDs = append(vehicleIDs, v.ID())
	}
	solution := delivery.NewSolution(vehicleIDs)

	if len(vehicles) == 0 {
		return solution
	}

	for _, order := range env.PendingOrders() {
		remaining := order.RemainingM3()
		if remaining <= 0 {
			continue
		}

		// Nearest vehicles first; stable tie-break by id keeps the
		// seed deterministic for a fixed random stream.
		byProximity := make([]*fleet.Vehicle, len(vehicles))
		copy(byProximity, vehicles)
		sort.SliceStable(byProximity, func(i, j int) bool {
			di := byProximity[i].Position().DistanceTo(order.Position())
			dj := byProximity[j].Position().DistanceTo(order.Position())
			if di != dj {
				return di < dj
			}
			return byProximity[i].ID() < byProximity[j].ID()
		})

		for _, vehicle := range byProximity {
			if remaining <= 0 {
				break
			}
			amount := c.sampleAmount(rng, vehicle.Type().CapacityM3, remaining)
			if amount <= 0 {
				continue
			}
			solution.Append(vehicle.ID(), delivery.DeliveryInstruction{
				OrderID:  order.ID(),
				AmountM3: amount,
			})
			remaining -= amount
		}
	}

	return solution
}

// sampleAmount draws a split uniformly in [minSplit, min(capacity,
// remaining)], degenerating to the remainder when the interval is empty.
func (c *SeedConstructor) sampleAmount(rng *rand.Rand, capacityM3, remainingM3 int) int {
	upper := utils.Min(capacityM3, remainingM3)
	if upper < c.minSplitM3 {
		return upper
	}
	return c.minSplitM3 + rng.Intn(upper-c.minSplitM3+1)
}
