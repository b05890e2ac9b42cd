package maintenance

import (
	"fmt"
	"time"

	"github.com/andrescamacho/lpg-dispatch/internal/domain/shared"
)

// RecurrenceMonths is the preventive maintenance cadence: every task
// recurs bimonthly on the same day of month.
const RecurrenceMonths = 2

// Task is a scheduled preventive maintenance entry: the vehicle is held
// at the plant for the full 00:00-23:59 window of the scheduled day.
type Task struct {
	vehicleID string
	day       time.Time // midnight of the scheduled day
}

// NewTask creates a preventive maintenance task for the given day.
func NewTask(vehicleID string, day time.Time) (*Task, error) {
	if vehicleID == "" {
		return nil, shared.NewValidationError("vehicleID", "cannot be empty")
	}
	return &Task{vehicleID: vehicleID, day: shared.Midnight(day)}, nil
}

func (t *Task) VehicleID() string { return t.vehicleID }
func (t *Task) Day() time.Time    { return t.day }

// WindowStart is 00:00 of the scheduled day.
func (t *Task) WindowStart() time.Time {
	return t.day
}

// WindowEnd is 23:59 of the scheduled day.
func (t *Task) WindowEnd() time.Time {
	return t.day.Add(24*time.Hour - time.Minute)
}

// Covers reports whether instant is inside the maintenance window of the
// scheduled day or any of its bimonthly recurrences.
func (t *Task) Covers(instant time.Time) bool {
	if instant.Before(t.day) {
		return false
	}
	day := t.day
	for !day.After(instant) {
		if !instant.Before(day) && !instant.After(day.Add(24*time.Hour-time.Minute)) {
			return true
		}
		day = day.AddDate(0, RecurrenceMonths, 0)
	}
	return false
}

// NextWindowStart returns the start of the first window at or after
// instant, honoring the bimonthly recurrence.
func (t *Task) NextWindowStart(instant time.Time) time.Time {
	day := t.day
	for day.Add(24 * time.Hour).Before(instant) {
		day = day.AddDate(0, RecurrenceMonths, 0)
	}
	return day
}

func (t *Task) String() string {
	return fmt.Sprintf("Maintenance(%s on %s)", t.vehicleID, t.day.Format("2006-01-02"))
}
