package delivery

import (
	"fmt"
	"time"

	"github.com/andrescamacho/lpg-dispatch/internal/domain/shared"
)

// Order is a time-windowed customer demand. Partial delivery is allowed:
// remaining decreases with each discharge and the order is served once it
// reaches zero.
type Order struct {
	id          string
	position    shared.Position
	arrivalTime time.Time
	dueTime     time.Time
	requestedM3 int
	remainingM3 int
	delivered   bool
}

// NewOrder creates an order with validation. dueTime is arrival plus the
// customer's limit hours.
func NewOrder(id string, position shared.Position, arrivalTime, dueTime time.Time, requestedM3 int) (*Order, error) {
	if id == "" {
		return nil, shared.NewValidationError("id", "cannot be empty")
	}
	if requestedM3 <= 0 {
		return nil, shared.NewValidationError("requestedM3", fmt.Sprintf("must be positive, got %d", requestedM3))
	}
	if !dueTime.IsZero() && dueTime.Before(arrivalTime) {
		return nil, shared.NewValidationError("dueTime", "cannot precede arrival time")
	}

	return &Order{
		id:          id,
		position:    position,
		arrivalTime: arrivalTime,
		dueTime:     dueTime,
		requestedM3: requestedM3,
		remainingM3: requestedM3,
	}, nil
}

// Getters

func (o *Order) ID() string                { return o.id }
func (o *Order) Position() shared.Position { return o.position }
func (o *Order) ArrivalTime() time.Time    { return o.arrivalTime }
func (o *Order) DueTime() time.Time        { return o.dueTime }
func (o *Order) RequestedM3() int          { return o.requestedM3 }
func (o *Order) RemainingM3() int          { return o.remainingM3 }

// IsServed reports whether the full requested volume has been delivered.
func (o *Order) IsServed() bool {
	return o.delivered
}

// IsOverdue reports whether t is past the order's due time. Orders with
// no due time never become overdue.
func (o *Order) IsOverdue(t time.Time) bool {
	return !o.dueTime.IsZero() && t.After(o.dueTime)
}

// Deliver discharges m3 toward the order and marks it served when the
// remaining volume reaches zero.
func (o *Order) Deliver(m3 int) error {
	if m3 <= 0 {
		return shared.NewValidationError("m3", "delivery must be positive")
	}
	if m3 > o.remainingM3 {
		return shared.NewValidationError("m3", fmt.Sprintf("delivering %d m3 but only %d remaining", m3, o.remainingM3))
	}
	o.remainingM3 -= m3
	if o.remainingM3 == 0 {
		o.delivered = true
	}
	return nil
}

// Clone returns an independent copy for candidate evaluation.
func (o *Order) Clone() *Order {
	clone := *o
	return &clone
}

func (o *Order) String() string {
	return fmt.Sprintf("Order(%s at %s, %d/%d m3, due %s)",
		o.id, o.position, o.remainingM3, o.requestedM3, shared.FormatTimestamp(o.dueTime))
}
