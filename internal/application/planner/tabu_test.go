package planner_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/lpg-dispatch/internal/application/planner"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/planning"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/shared"
)

func testOptimizerConfig() planner.Config {
	cfg := planner.DefaultConfig()
	cfg.MaxIterations = 60
	cfg.NeighborhoodSize = 10
	cfg.WallClockBudget = 5 * time.Second
	return cfg
}

func newOptimizer(t *testing.T, cfg planner.Config, builder *planning.Builder) *planner.TabuOptimizer {
	t.Helper()
	evaluator := planner.NewEvaluator(planner.DefaultEvaluatorWeights())
	seeder := planner.NewSeedConstructor(cfg.RandomSeed, 1)
	return planner.NewTabuOptimizer(cfg, builder, evaluator, seeder, shared.NewMockClock(startTime))
}

func TestTabuOptimizer_BeatsOrMatchesSeed(t *testing.T) {
	// Arrange
	env := newTestEnvironment(t, "TA01", "TB01", "TD01", "TD02")
	addOrder(t, env, "c-1", shared.NewPosition(20, 8), 10, startTime.Add(8*time.Hour))
	addOrder(t, env, "c-2", shared.NewPosition(40, 30), 5, startTime.Add(6*time.Hour))
	addOrder(t, env, "c-3", shared.NewPosition(5, 40), 15, startTime.Add(10*time.Hour))

	builder := planning.NewBuilder(env.Grid(), planning.DefaultTiming())
	cfg := testOptimizerConfig()
	evaluator := planner.NewEvaluator(planner.DefaultEvaluatorWeights())
	seed := planner.NewSeedConstructor(cfg.RandomSeed, 1).Build(env)
	seedScore := evaluator.Score(env, seed, planner.RealizeAll(builder, env, seed))

	optimizer := newOptimizer(t, cfg, builder)

	// Act
	result, err := optimizer.Optimize(context.Background(), env)

	// Assert
	require.NoError(t, err)
	assert.GreaterOrEqual(t, result.Score, seedScore)
	assert.Positive(t, result.Iterations)
}

func TestTabuOptimizer_LeavesNoOrderUnassigned(t *testing.T) {
	// Arrange
	env := newTestEnvironment(t, "TB01", "TD01")
	addOrder(t, env, "c-1", shared.NewPosition(20, 8), 10, startTime.Add(8*time.Hour))
	addOrder(t, env, "c-2", shared.NewPosition(50, 40), 5, startTime.Add(12*time.Hour))
	builder := planning.NewBuilder(env.Grid(), planning.DefaultTiming())
	optimizer := newOptimizer(t, testOptimizerConfig(), builder)

	// Act
	result, err := optimizer.Optimize(context.Background(), env)

	// Assert - the final repair pass assigns every pending order
	require.NoError(t, err)
	assert.Empty(t, result.Unassigned)
	assert.Positive(t, result.Solution.AssignedM3("c-1"))
	assert.Positive(t, result.Solution.AssignedM3("c-2"))
}

func TestTabuOptimizer_TopsUpUnderAssignedSplits(t *testing.T) {
	// Arrange - 40 m3 demanded, fleet capacity exactly 40. A seed that
	// samples splits below capacity must not survive to the final result.
	env := newTestEnvironment(t, "TA01", "TB01")
	addOrder(t, env, "c-big", shared.NewPosition(20, 8), 40, startTime.Add(12*time.Hour))
	builder := planning.NewBuilder(env.Grid(), planning.DefaultTiming())
	optimizer := newOptimizer(t, testOptimizerConfig(), builder)

	// Act
	result, err := optimizer.Optimize(context.Background(), env)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 40, result.Solution.AssignedM3("c-big"))
}

func TestTabuOptimizer_NeverMutatesSnapshot(t *testing.T) {
	// Arrange
	env := newTestEnvironment(t, "TB01")
	addOrder(t, env, "c-1", shared.NewPosition(20, 8), 10, startTime.Add(8*time.Hour))
	builder := planning.NewBuilder(env.Grid(), planning.DefaultTiming())
	optimizer := newOptimizer(t, testOptimizerConfig(), builder)

	// Act
	_, err := optimizer.Optimize(context.Background(), env)

	// Assert
	require.NoError(t, err)
	assert.Len(t, env.PendingOrders(), 1)
	vehicle, err := env.FindVehicleByID("TB01")
	require.NoError(t, err)
	assert.Equal(t, 0, vehicle.CurrentLpg())
	assert.Equal(t, startTime, env.CurrentTime())
}

func TestTabuOptimizer_CancelledContextReturnsSeedQuality(t *testing.T) {
	// Arrange
	env := newTestEnvironment(t, "TB01")
	addOrder(t, env, "c-1", shared.NewPosition(20, 8), 10, startTime.Add(8*time.Hour))
	builder := planning.NewBuilder(env.Grid(), planning.DefaultTiming())
	optimizer := newOptimizer(t, testOptimizerConfig(), builder)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Act
	result, err := optimizer.Optimize(ctx, env)

	// Assert - cancellation is normal completion, not an error
	require.NoError(t, err)
	require.NotNil(t, result.Solution)
	assert.Zero(t, result.Iterations)
	assert.Empty(t, result.Unassigned)
}

func TestTabuOptimizer_DeterministicForFixedSeed(t *testing.T) {
	// Arrange
	run := func() float64 {
		env := newTestEnvironment(t, "TB01", "TD01")
		addOrder(t, env, "c-1", shared.NewPosition(20, 8), 10, startTime.Add(8*time.Hour))
		addOrder(t, env, "c-2", shared.NewPosition(40, 30), 5, startTime.Add(6*time.Hour))
		builder := planning.NewBuilder(env.Grid(), planning.DefaultTiming())
		optimizer := newOptimizer(t, testOptimizerConfig(), builder)

		result, err := optimizer.Optimize(context.Background(), env)
		require.NoError(t, err)
		return result.Score
	}

	// Act & Assert
	assert.Equal(t, run(), run())
}
