package metrics

import (
	"context"

	"github.com/andrescamacho/lpg-dispatch/internal/application/simulation"
)

// DeliveryMetricsRecorder bridges completed discharges into the
// simulation metrics collector.
type DeliveryMetricsRecorder struct {
	collector *SimulationMetricsCollector
}

// NewDeliveryMetricsRecorder creates the bridge.
func NewDeliveryMetricsRecorder(collector *SimulationMetricsCollector) *DeliveryMetricsRecorder {
	return &DeliveryMetricsRecorder{collector: collector}
}

// RecordDelivery counts the discharge; it never fails.
func (r *DeliveryMetricsRecorder) RecordDelivery(ctx context.Context, record simulation.DeliveryRecord) error {
	if r.collector != nil {
		r.collector.RecordDelivery(record.AmountM3)
	}
	return nil
}
