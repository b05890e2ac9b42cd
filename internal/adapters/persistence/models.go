package persistence

import (
	"time"
)

// DeliveryLogModel represents the delivery_log table: one row per
// completed customer discharge.
type DeliveryLogModel struct {
	ID          int       `gorm:"column:id;primaryKey;autoIncrement"`
	RunID       string    `gorm:"column:run_id;index;not null"`
	VehicleID   string    `gorm:"column:vehicle_id;not null"`
	OrderID     string    `gorm:"column:order_id;index;not null"`
	AmountM3    int       `gorm:"column:amount_m3;not null"`
	DeliveredAt time.Time `gorm:"column:delivered_at;not null"`
	PosX        int       `gorm:"column:pos_x;not null"`
	PosY        int       `gorm:"column:pos_y;not null"`
}

func (DeliveryLogModel) TableName() string {
	return "delivery_log"
}

// SimulationRunModel represents the simulation_runs table: one row per
// lifecycle of the tick loop, updated as the run progresses.
type SimulationRunModel struct {
	ID              string     `gorm:"column:id;primaryKey"`
	StartedAt       time.Time  `gorm:"column:started_at;not null"`
	FinishedAt      *time.Time `gorm:"column:finished_at"`
	SimStart        time.Time  `gorm:"column:sim_start;not null"`
	SimEnd          *time.Time `gorm:"column:sim_end"`
	DeliveredOrders int        `gorm:"column:delivered_orders;default:0"`
	DeliveredM3     int        `gorm:"column:delivered_m3;default:0"`
	Replans         int        `gorm:"column:replans;default:0"`
	FinalScore      *float64   `gorm:"column:final_score"`
}

func (SimulationRunModel) TableName() string {
	return "simulation_runs"
}
