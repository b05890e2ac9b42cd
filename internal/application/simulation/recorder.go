package simulation

import "context"

// MultiDeliveryRecorder fans one discharge out to several recorders,
// e.g. the delivery log repository plus the metrics collector.
type MultiDeliveryRecorder []DeliveryRecorder

func (m MultiDeliveryRecorder) RecordDelivery(ctx context.Context, record DeliveryRecord) error {
	for _, recorder := range m {
		if err := recorder.RecordDelivery(ctx, record); err != nil {
			return err
		}
	}
	return nil
}
