package persistence

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/lpg-dispatch/internal/application/simulation"
)

// SimulationRunRepository tracks tick-loop lifecycles.
type SimulationRunRepository interface {
	// Begin records the start of a run.
	Begin(ctx context.Context, runID string, startedAt, simStart time.Time) error

	// UpdateProgress refreshes the running counters.
	UpdateProgress(ctx context.Context, runID string, deliveredOrders, deliveredM3, replans int) error

	// Finish closes the run with its final score.
	Finish(ctx context.Context, runID string, finishedAt, simEnd time.Time, finalScore *float64) error

	// Find returns one run row.
	Find(ctx context.Context, runID string) (*SimulationRunModel, error)
}

// GormSimulationRunRepository is the GORM-based implementation.
type GormSimulationRunRepository struct {
	db *gorm.DB
}

// NewGormSimulationRunRepository creates a run repository.
func NewGormSimulationRunRepository(db *gorm.DB) *GormSimulationRunRepository {
	return &GormSimulationRunRepository{db: db}
}

// Begin records the start of a run.
func (r *GormSimulationRunRepository) Begin(ctx context.Context, runID string, startedAt, simStart time.Time) error {
	model := &SimulationRunModel{
		ID:        runID,
		StartedAt: startedAt,
		SimStart:  simStart,
	}
	return r.db.WithContext(ctx).Create(model).Error
}

// UpdateProgress refreshes the running counters.
func (r *GormSimulationRunRepository) UpdateProgress(ctx context.Context, runID string, deliveredOrders, deliveredM3, replans int) error {
	return r.db.WithContext(ctx).
		Model(&SimulationRunModel{}).
		Where("id = ?", runID).
		Updates(map[string]interface{}{
			"delivered_orders": deliveredOrders,
			"delivered_m3":     deliveredM3,
			"replans":          replans,
		}).Error
}

// Finish closes the run with its final score.
func (r *GormSimulationRunRepository) Finish(ctx context.Context, runID string, finishedAt, simEnd time.Time, finalScore *float64) error {
	return r.db.WithContext(ctx).
		Model(&SimulationRunModel{}).
		Where("id = ?", runID).
		Updates(map[string]interface{}{
			"finished_at": finishedAt,
			"sim_end":     simEnd,
			"final_score": finalScore,
		}).Error
}

// Find returns one run row.
func (r *GormSimulationRunRepository) Find(ctx context.Context, runID string) (*SimulationRunModel, error) {
	var model SimulationRunModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", runID).Error; err != nil {
		return nil, err
	}
	return &model, nil
}

// RunTracker mirrors the tick loop's counters into one run row.
type RunTracker struct {
	repo  SimulationRunRepository
	runID string
}

// NewRunTracker creates a tracker for one run.
func NewRunTracker(repo SimulationRunRepository, runID string) *RunTracker {
	return &RunTracker{repo: repo, runID: runID}
}

// Record refreshes the run row from a status snapshot.
func (t *RunTracker) Record(ctx context.Context, status simulation.StatusSnapshot) error {
	return t.repo.UpdateProgress(ctx, t.runID, status.DeliveredOrders, status.DeliveredM3, int(status.Replans))
}

// Close writes the final counters and stamps the run finished.
func (t *RunTracker) Close(ctx context.Context, finishedAt time.Time, status simulation.StatusSnapshot) error {
	if err := t.Record(ctx, status); err != nil {
		return err
	}
	return t.repo.Finish(ctx, t.runID, finishedAt, status.CurrentTime, status.LastScore)
}
