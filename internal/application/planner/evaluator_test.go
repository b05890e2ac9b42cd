package planner_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/lpg-dispatch/internal/application/planner"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/delivery"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/depot"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/environment"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/fleet"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/network"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/planning"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/shared"
)

var startTime = time.Date(2026, time.August, 1, 8, 0, 0, 0, time.UTC)

func newTestEnvironment(t *testing.T, vehicleIDs ...string) *environment.Environment {
	t.Helper()
	grid, err := network.NewGrid(70, 50)
	require.NoError(t, err)
	env := environment.New(grid, startTime,
		depot.NewMainPlant("PLANT", shared.NewPosition(12, 8)),
		[]*depot.Depot{depot.NewAuxiliaryDepot("NORTH", shared.NewPosition(42, 42))})
	for _, id := range vehicleIDs {
		vehicleType, err := fleet.TypeByCode(fleet.VehicleTypeCode(id[:2]))
		require.NoError(t, err)
		vehicle, err := fleet.NewVehicle(id, vehicleType, shared.NewPosition(12, 8), 0, fleet.FuelTankCapacityGal)
		require.NoError(t, err)
		require.NoError(t, env.AddVehicle(vehicle))
	}
	return env
}

func addOrder(t *testing.T, env *environment.Environment, id string, at shared.Position, m3 int, due time.Time) {
	t.Helper()
	order, err := delivery.NewOrder(id, at, startTime, due, m3)
	require.NoError(t, err)
	require.NoError(t, env.AddOrder(order))
}

func realize(t *testing.T, env *environment.Environment, sol *delivery.Solution) map[string]*planning.VehiclePlan {
	t.Helper()
	builder := planning.NewBuilder(env.Grid(), planning.DefaultTiming())
	return planner.RealizeAll(builder, env, sol)
}

func TestEvaluator_ScoreIsDeterministic(t *testing.T) {
	// Arrange
	env := newTestEnvironment(t, "TB01")
	addOrder(t, env, "c-1", shared.NewPosition(20, 8), 10, startTime.Add(8*time.Hour))
	solution := delivery.NewSolution([]string{"TB01"})
	solution.Append("TB01", delivery.DeliveryInstruction{OrderID: "c-1", AmountM3: 10})
	evaluator := planner.NewEvaluator(planner.DefaultEvaluatorWeights())
	plans := realize(t, env, solution)

	// Act
	first := evaluator.Score(env, solution, plans)
	second := evaluator.Score(env, solution, plans)

	// Assert
	assert.Equal(t, first, second)
}

func TestEvaluator_FullCoverageBeatsNone(t *testing.T) {
	// Arrange
	env := newTestEnvironment(t, "TB01")
	addOrder(t, env, "c-1", shared.NewPosition(20, 8), 10, startTime.Add(8*time.Hour))
	evaluator := planner.NewEvaluator(planner.DefaultEvaluatorWeights())

	covered := delivery.NewSolution([]string{"TB01"})
	covered.Append("TB01", delivery.DeliveryInstruction{OrderID: "c-1", AmountM3: 10})
	empty := delivery.NewSolution([]string{"TB01"})

	// Act
	coveredScore := evaluator.Score(env, covered, realize(t, env, covered))
	emptyScore := evaluator.Score(env, empty, realize(t, env, empty))

	// Assert - the zero-assignment solution carries the missing-order penalty
	assert.Greater(t, coveredScore, emptyScore)
	assert.Negative(t, emptyScore)
}

func TestEvaluator_PartialAssignmentScoresBetweenExtremes(t *testing.T) {
	// Arrange
	env := newTestEnvironment(t, "TA01")
	addOrder(t, env, "c-1", shared.NewPosition(20, 8), 20, startTime.Add(8*time.Hour))
	evaluator := planner.NewEvaluator(planner.DefaultEvaluatorWeights())

	full := delivery.NewSolution([]string{"TA01"})
	full.Append("TA01", delivery.DeliveryInstruction{OrderID: "c-1", AmountM3: 20})
	half := delivery.NewSolution([]string{"TA01"})
	half.Append("TA01", delivery.DeliveryInstruction{OrderID: "c-1", AmountM3: 10})
	none := delivery.NewSolution([]string{"TA01"})

	// Act
	fullScore := evaluator.Score(env, full, realize(t, env, full))
	halfScore := evaluator.Score(env, half, realize(t, env, half))
	noneScore := evaluator.Score(env, none, realize(t, env, none))

	// Assert
	assert.Greater(t, fullScore, halfScore)
	assert.Greater(t, halfScore, noneScore)
}

func TestEvaluator_PartiallyDeliveredOrderCountsRemainingCoverage(t *testing.T) {
	// Arrange - c-1 asked for 10 m3 and already received 5; the candidate
	// covers the remaining 5 in full. That must score like a fresh 5 m3
	// order covered in full, not like half an order.
	partialEnv := newTestEnvironment(t, "TB01")
	addOrder(t, partialEnv, "c-1", shared.NewPosition(20, 8), 10, startTime.Add(8*time.Hour))
	order, err := partialEnv.FindOrderByID("c-1")
	require.NoError(t, err)
	require.NoError(t, order.Deliver(5))

	freshEnv := newTestEnvironment(t, "TB01")
	addOrder(t, freshEnv, "c-1", shared.NewPosition(20, 8), 5, startTime.Add(8*time.Hour))

	evaluator := planner.NewEvaluator(planner.DefaultEvaluatorWeights())
	solution := delivery.NewSolution([]string{"TB01"})
	solution.Append("TB01", delivery.DeliveryInstruction{OrderID: "c-1", AmountM3: 5})

	// Act
	partialScore := evaluator.Score(partialEnv, solution, realize(t, partialEnv, solution))
	freshScore := evaluator.Score(freshEnv, solution, realize(t, freshEnv, solution))

	// Assert - covering the remainder earns the full completion reward
	assert.InDelta(t, freshScore, partialScore, 1e-9)
	assert.Greater(t, partialScore, planner.DefaultEvaluatorWeights().CompletedOrderReward/2)
}

func TestEvaluator_LateDeliveryIsPunished(t *testing.T) {
	// Arrange - same assignment, but one order's window is already almost
	// closed so the serve lands late.
	tightEnv := newTestEnvironment(t, "TB01")
	addOrder(t, tightEnv, "c-1", shared.NewPosition(40, 30), 10, startTime.Add(30*time.Minute))
	looseEnv := newTestEnvironment(t, "TB01")
	addOrder(t, looseEnv, "c-1", shared.NewPosition(40, 30), 10, startTime.Add(24*time.Hour))

	evaluator := planner.NewEvaluator(planner.DefaultEvaluatorWeights())
	solution := delivery.NewSolution([]string{"TB01"})
	solution.Append("TB01", delivery.DeliveryInstruction{OrderID: "c-1", AmountM3: 10})

	// Act
	tightScore := evaluator.Score(tightEnv, solution, realize(t, tightEnv, solution))
	looseScore := evaluator.Score(looseEnv, solution, realize(t, looseEnv, solution))

	// Assert
	assert.Greater(t, looseScore, tightScore)
}

func TestEvaluator_DistanceCostTellsRoutesApart(t *testing.T) {
	// Arrange - identical coverage, one truck serves a far customer
	nearEnv := newTestEnvironment(t, "TB01")
	addOrder(t, nearEnv, "c-1", shared.NewPosition(14, 8), 10, time.Time{})
	farEnv := newTestEnvironment(t, "TB01")
	addOrder(t, farEnv, "c-1", shared.NewPosition(60, 45), 10, time.Time{})

	evaluator := planner.NewEvaluator(planner.DefaultEvaluatorWeights())
	solution := delivery.NewSolution([]string{"TB01"})
	solution.Append("TB01", delivery.DeliveryInstruction{OrderID: "c-1", AmountM3: 10})

	// Act
	nearScore := evaluator.Score(nearEnv, solution, realize(t, nearEnv, solution))
	farScore := evaluator.Score(farEnv, solution, realize(t, farEnv, solution))

	// Assert
	assert.Greater(t, nearScore, farScore)
}

func TestEvaluator_NeverMutatesEnvironment(t *testing.T) {
	// Arrange
	env := newTestEnvironment(t, "TB01")
	addOrder(t, env, "c-1", shared.NewPosition(20, 8), 10, startTime.Add(8*time.Hour))
	evaluator := planner.NewEvaluator(planner.DefaultEvaluatorWeights())
	solution := delivery.NewSolution([]string{"TB01"})
	solution.Append("TB01", delivery.DeliveryInstruction{OrderID: "c-1", AmountM3: 10})

	// Act
	evaluator.Score(env, solution, realize(t, env, solution))

	// Assert - order still pending, truck untouched
	assert.Len(t, env.PendingOrders(), 1)
	vehicle, err := env.FindVehicleByID("TB01")
	require.NoError(t, err)
	assert.Equal(t, 0, vehicle.CurrentLpg())
	assert.Equal(t, fleet.FuelTankCapacityGal, vehicle.CurrentFuel())
}
