package planner

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/andrescamacho/lpg-dispatch/internal/domain/delivery"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/environment"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/shared"
	"github.com/andrescamacho/lpg-dispatch/pkg/utils"
)

// Config bounds one optimization run. The optimizer stops on whichever
// budget triggers first (iterations, wall clock, or context
// cancellation) and always returns its best-so-far solution.
type Config struct {
	MaxIterations      int
	NeighborhoodSize   int
	TabuCapacity       int
	InitialTemperature float64
	CoolingRate        float64
	StallRatio         float64
	ClusterRadiusKm    int
	WallClockBudget    time.Duration
	RandomSeed         int64
}

// DefaultConfig returns the reference tabu-search parameters.
func DefaultConfig() Config {
	return Config{
		MaxIterations:      3000,
		NeighborhoodSize:   100,
		TabuCapacity:       25,
		InitialTemperature: 100,
		CoolingRate:        0.995,
		StallRatio:         0.001,
		ClusterRadiusKm:    20,
		WallClockBudget:    30 * time.Second,
		RandomSeed:         1,
	}
}

// TabuOptimizer distributes orders across the fleet with tabu search
// under simulated-annealing acceptance and periodic diversification.
type TabuOptimizer struct {
	cfg       Config
	realizer  PlanRealizer
	evaluator *Evaluator
	seeder    *SeedConstructor
	rng       *rand.Rand
	clock     shared.Clock
}

// NewTabuOptimizer wires the optimizer with its collaborators.
func NewTabuOptimizer(cfg Config, realizer PlanRealizer, evaluator *Evaluator, seeder *SeedConstructor, clock shared.Clock) *TabuOptimizer {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &TabuOptimizer{
		cfg:       cfg,
		realizer:  realizer,
		evaluator: evaluator,
		seeder:    seeder,
		rng:       rand.New(rand.NewSource(cfg.RandomSeed)),
		clock:     clock,
	}
}

// Result carries the chosen solution with its score and the orders the
// search could not cover.
type Result struct {
	Solution   *delivery.Solution
	Score      float64
	Iterations int
	Unassigned []string
}

// Optimize searches for an assignment maximizing the evaluator score.
// env must be a deep snapshot: the optimizer never mutates it. A
// cancelled context is treated as normal completion with the
// best-so-far (possibly seed-quality) solution.
func (o *TabuOptimizer) Optimize(ctx context.Context, env *environment.Environment) (*Result, error) {
	started := o.clock.Now()

	current := o.seeder.Build(env)
	currentScore := o.score(env, current)

	best := current.Clone()
	bestScore := currentScore

	tabu := newTabuList(o.cfg.TabuCapacity)
	temperature := o.cfg.InitialTemperature
	stallWindow := utils.Max(1, o.cfg.MaxIterations/2)
	sinceImprovement := 0
	iterations := 0

	for i := 0; i < o.cfg.MaxIterations; i++ {
		if o.budgetExpired(ctx, started) {
			break
		}
		iterations++

		move, neighbor, neighborScore, ok := o.bestAdmissibleNeighbor(env, current, currentScore, bestScore, tabu, temperature)
		if ok {
			current = neighbor
			currentScore = neighborScore
			tabu.Push(move.Inverse())

			if neighborScore > bestScore {
				if significantImprovement(bestScore, neighborScore, o.cfg.StallRatio) {
					sinceImprovement = 0
				}
				best = neighbor.Clone()
				bestScore = neighborScore
			} else {
				sinceImprovement++
			}
		} else {
			sinceImprovement++
		}

		if sinceImprovement >= stallWindow {
			current = o.diversify(env, current)
			currentScore = o.score(env, current)
			temperature = o.cfg.InitialTemperature / 2
			sinceImprovement = 0
			if currentScore > bestScore {
				best = current.Clone()
				bestScore = currentScore
			}
		}

		temperature *= o.cfg.CoolingRate
	}

	o.ensureAllDelivered(env, best)
	bestScore = o.score(env, best)

	// The move families rearrange instructions but never change their
	// amounts, so a poor volume split survives the whole search. A
	// topped-up variant is kept only when it actually scores better.
	if rebalanced := o.rebalanceAmounts(env, best); rebalanced != nil {
		if rebalancedScore := o.score(env, rebalanced); rebalancedScore > bestScore {
			best = rebalanced
			bestScore = rebalancedScore
		}
	}

	return &Result{
		Solution:   best,
		Score:      bestScore,
		Iterations: iterations,
		Unassigned: best.UnassignedOrders(env.PendingOrders()),
	}, nil
}

func (o *TabuOptimizer) budgetExpired(ctx context.Context, started time.Time) bool {
	select {
	case <-ctx.Done():
		return true
	default:
	}
	return o.cfg.WallClockBudget > 0 && o.clock.Now().Sub(started) > o.cfg.WallClockBudget
}

func (o *TabuOptimizer) score(env *environment.Environment, sol *delivery.Solution) float64 {
	plans := RealizeAll(o.realizer, env, sol)
	return o.evaluator.Score(env, sol, plans)
}

// bestAdmissibleNeighbor samples the neighborhood and returns the best
// candidate that is either non-tabu, a new global best (aspiration), or
// a worse move surviving the annealing coin flip.
func (o *TabuOptimizer) bestAdmissibleNeighbor(
	env *environment.Environment,
	current *delivery.Solution,
	currentScore, bestScore float64,
	tabu *tabuList,
	temperature float64,
) (Move, *delivery.Solution, float64, bool) {
	var chosenMove Move
	var chosen *delivery.Solution
	chosenScore := math.Inf(-1)

	for n := 0; n < o.cfg.NeighborhoodSize; n++ {
		move, ok := o.randomMove(current)
		if !ok {
			break
		}
		neighbor, err := move.Apply(current)
		if err != nil {
			continue
		}
		neighborScore := o.score(env, neighbor)

		if tabu.Contains(move) && neighborScore <= bestScore {
			continue
		}
		if neighborScore < currentScore && temperature > 0 {
			acceptance := math.Exp((neighborScore - currentScore) / temperature)
			if o.rng.Float64() >= acceptance {
				continue
			}
		}

		if neighborScore > chosenScore {
			chosenMove = move
			chosen = neighbor
			chosenScore = neighborScore
		}
	}

	return chosenMove, chosen, chosenScore, chosen != nil
}

// randomMove draws one move from the admissible families. With a single
// loaded vehicle only REORDER applies.
func (o *TabuOptimizer) randomMove(sol *delivery.Solution) (Move, bool) {
	vehicleIDs := sol.VehicleIDs()
	var loaded []string
	for _, id := range vehicleIDs {
		if len(sol.Instructions(id)) > 0 {
			loaded = append(loaded, id)
		}
	}
	if len(loaded) == 0 {
		return Move{}, false
	}

	kinds := []MoveKind{MoveReorder}
	if len(vehicleIDs) > 1 {
		kinds = append(kinds, MoveTransfer)
	}
	if len(loaded) > 1 {
		kinds = append(kinds, MoveSwap)
	}

	for attempt := 0; attempt < 10; attempt++ {
		switch kinds[o.rng.Intn(len(kinds))] {
		case MoveReorder:
			source := loaded[o.rng.Intn(len(loaded))]
			count := len(sol.Instructions(source))
			if count < 2 {
				continue
			}
			i := o.rng.Intn(count)
			j := o.rng.Intn(count)
			if i == j {
				continue
			}
			return Move{Kind: MoveReorder, SourceVehicleID: source, SourceIndex: i, TargetVehicleID: source, TargetIndex: j}, true

		case MoveTransfer:
			source := loaded[o.rng.Intn(len(loaded))]
			target := vehicleIDs[o.rng.Intn(len(vehicleIDs))]
			if target == source {
				continue
			}
			i := o.rng.Intn(len(sol.Instructions(source)))
			j := o.rng.Intn(len(sol.Instructions(target)) + 1)
			return Move{Kind: MoveTransfer, SourceVehicleID: source, SourceIndex: i, TargetVehicleID: target, TargetIndex: j}, true

		case MoveSwap:
			a := loaded[o.rng.Intn(len(loaded))]
			b := loaded[o.rng.Intn(len(loaded))]
			if a == b {
				continue
			}
			i := o.rng.Intn(len(sol.Instructions(a)))
			j := o.rng.Intn(len(sol.Instructions(b)))
			return Move{Kind: MoveSwap, SourceVehicleID: a, SourceIndex: i, TargetVehicleID: b, TargetIndex: j}, true
		}
	}

	return Move{}, false
}

// diversify escapes a stalled basin: either redistribute all
// instructions round-robin or shuffle spatial clusters across vehicles.
func (o *TabuOptimizer) diversify(env *environment.Environment, sol *delivery.Solution) *delivery.Solution {
	if o.rng.Intn(2) == 0 {
		return o.redistributeRoundRobin(sol)
	}
	return o.shuffleClusters(env, sol)
}

// redistributeRoundRobin deals every instruction across the fleet in
// turn, discarding the previous grouping entirely.
func (o *TabuOptimizer) redistributeRoundRobin(sol *delivery.Solution) *delivery.Solution {
	vehicleIDs := sol.VehicleIDs()
	var all []delivery.DeliveryInstruction
	for _, id := range vehicleIDs {
		all = append(all, sol.Instructions(id)...)
	}
	o.rng.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })

	result := delivery.NewSolution(vehicleIDs)
	for i, instruction := range all {
		result.Append(vehicleIDs[i%len(vehicleIDs)], instruction)
	}
	return result
}

// shuffleClusters groups instructions whose customers sit within the
// cluster radius of each other, then hands whole clusters to randomly
// chosen vehicles.
func (o *TabuOptimizer) shuffleClusters(env *environment.Environment, sol *delivery.Solution) *delivery.Solution {
	vehicleIDs := sol.VehicleIDs()
	var all []delivery.DeliveryInstruction
	for _, id := range vehicleIDs {
		all = append(all, sol.Instructions(id)...)
	}

	var clusters [][]delivery.DeliveryInstruction
	for _, instruction := range all {
		order, err := env.FindOrderByID(instruction.OrderID)
		if err != nil {
			clusters = append(clusters, []delivery.DeliveryInstruction{instruction})
			continue
		}
		placed := false
		for c := range clusters {
			anchor, err := env.FindOrderByID(clusters[c][0].OrderID)
			if err != nil {
				continue
			}
			if anchor.Position().DistanceTo(order.Position()) <= o.cfg.ClusterRadiusKm {
				clusters[c] = append(clusters[c], instruction)
				placed = true
				break
			}
		}
		if !placed {
			clusters = append(clusters, []delivery.DeliveryInstruction{instruction})
		}
	}

	o.rng.Shuffle(len(clusters), func(i, j int) { clusters[i], clusters[j] = clusters[j], clusters[i] })

	result := delivery.NewSolution(vehicleIDs)
	for _, cluster := range clusters {
		target := vehicleIDs[o.rng.Intn(len(vehicleIDs))]
		for _, instruction := range cluster {
			result.Append(target, instruction)
		}
	}
	return result
}

// ensureAllDelivered repairs the final solution: every pending order
// with zero assigned volume is appended as a single instruction on the
// least-loaded vehicle.
func (o *TabuOptimizer) ensureAllDelivered(env *environment.Environment, sol *delivery.Solution) {
	pending := env.PendingOrders()
	sort.SliceStable(pending, func(i, j int) bool { return pending[i].ID() < pending[j].ID() })

	for _, order := range pending {
		if sol.AssignedM3(order.ID()) > 0 {
			continue
		}
		vehicleID, ok := sol.LeastLoadedVehicle()
		if !ok {
			return
		}
		vehicle, err := env.FindVehicleByID(vehicleID)
		amount := order.RemainingM3()
		if err == nil {
			amount = utils.Min(amount, vehicle.Type().CapacityM3)
		}
		sol.Append(vehicleID, delivery.DeliveryInstruction{OrderID: order.ID(), AmountM3: amount})
	}
}

// rebalanceAmounts raises under-assigned instructions toward each
// order's remaining volume, bounded by the carrying vehicle's capacity.
// Returns nil when every order is already fully assigned.
func (o *TabuOptimizer) rebalanceAmounts(env *environment.Environment, sol *delivery.Solution) *delivery.Solution {
	result := sol.Clone()
	changed := false

	for _, vehicleID := range result.VehicleIDs() {
		vehicle, err := env.FindVehicleByID(vehicleID)
		if err != nil {
			continue
		}
		instructions := result.Instructions(vehicleID)
		for i := range instructions {
			order, err := env.FindOrderByID(instructions[i].OrderID)
			if err != nil {
				continue
			}
			shortfall := order.RemainingM3() - result.AssignedM3(instructions[i].OrderID)
			if shortfall <= 0 {
				continue
			}
			room := vehicle.Type().CapacityM3 - instructions[i].AmountM3
			if add := utils.Min(shortfall, room); add > 0 {
				instructions[i].AmountM3 += add
				changed = true
			}
		}
		result.SetInstructions(vehicleID, instructions)
	}

	if !changed {
		return nil
	}
	return result
}

func significantImprovement(oldScore, newScore, ratio float64) bool {
	if oldScore == 0 {
		return newScore > 0
	}
	return (newScore-oldScore)/math.Abs(oldScore) > ratio
}
