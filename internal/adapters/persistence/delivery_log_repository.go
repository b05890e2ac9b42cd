package persistence

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/lpg-dispatch/internal/application/simulation"
)

// DeliveryLogRepository persists completed discharges and serves the
// delivery history queries.
type DeliveryLogRepository interface {
	simulation.DeliveryRecorder

	// ForOrder returns every discharge against one order, oldest first.
	ForOrder(ctx context.Context, orderID string) ([]simulation.DeliveryRecord, error)

	// Since returns discharges after the given instant, oldest first.
	Since(ctx context.Context, t time.Time) ([]simulation.DeliveryRecord, error)
}

// GormDeliveryLogRepository is the GORM-based implementation.
type GormDeliveryLogRepository struct {
	db    *gorm.DB
	runID string
}

// NewGormDeliveryLogRepository creates a delivery log repository scoped
// to one simulation run.
func NewGormDeliveryLogRepository(db *gorm.DB, runID string) *GormDeliveryLogRepository {
	return &GormDeliveryLogRepository{db: db, runID: runID}
}

// RecordDelivery writes one discharge row.
func (r *GormDeliveryLogRepository) RecordDelivery(ctx context.Context, record simulation.DeliveryRecord) error {
	model := &DeliveryLogModel{
		RunID:       r.runID,
		VehicleID:   record.VehicleID,
		OrderID:     record.OrderID,
		AmountM3:    record.AmountM3,
		DeliveredAt: record.DeliveredAt,
		PosX:        record.Position.X,
		PosY:        record.Position.Y,
	}
	return r.db.WithContext(ctx).Create(model).Error
}

// ForOrder returns every discharge against one order, oldest first.
func (r *GormDeliveryLogRepository) ForOrder(ctx context.Context, orderID string) ([]simulation.DeliveryRecord, error) {
	var models []DeliveryLogModel
	err := r.db.WithContext(ctx).
		Where("run_id = ? AND order_id = ?", r.runID, orderID).
		Order("delivered_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return toRecords(models), nil
}

// Since returns discharges after the given instant, oldest first.
func (r *GormDeliveryLogRepository) Since(ctx context.Context, t time.Time) ([]simulation.DeliveryRecord, error) {
	var models []DeliveryLogModel
	err := r.db.WithContext(ctx).
		Where("run_id = ? AND delivered_at > ?", r.runID, t).
		Order("delivered_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return toRecords(models), nil
}

func toRecords(models []DeliveryLogModel) []simulation.DeliveryRecord {
	records := make([]simulation.DeliveryRecord, len(models))
	for i, model := range models {
		records[i] = simulation.DeliveryRecord{
			VehicleID:   model.VehicleID,
			OrderID:     model.OrderID,
			AmountM3:    model.AmountM3,
			DeliveredAt: model.DeliveredAt,
		}
		records[i].Position.X = model.PosX
		records[i].Position.Y = model.PosY
	}
	return records
}
