package maintenance

import (
	"fmt"
	"time"

	"github.com/andrescamacho/lpg-dispatch/internal/domain/shared"
)

// Shift is one of the three 8-hour windows of a day:
// T1=[00:00,08:00), T2=[08:00,16:00), T3=[16:00,24:00).
type Shift int

const (
	ShiftT1 Shift = 1
	ShiftT2 Shift = 2
	ShiftT3 Shift = 3
)

// ShiftOf returns the shift containing t.
func ShiftOf(t time.Time) Shift {
	switch {
	case t.Hour() < 8:
		return ShiftT1
	case t.Hour() < 16:
		return ShiftT2
	default:
		return ShiftT3
	}
}

// Start returns the start of this shift on the given day.
func (s Shift) Start(day time.Time) time.Time {
	return shared.Midnight(day).Add(time.Duration(s-1) * 8 * time.Hour)
}

func (s Shift) String() string {
	return fmt.Sprintf("T%d", int(s))
}

// IncidentType classifies a breakdown by its immobilization profile.
type IncidentType string

const (
	// IncidentTI1 holds the truck 2h on site, no workshop time.
	IncidentTI1 IncidentType = "TI1"
	// IncidentTI2 holds the truck 2h on site plus one shift in the workshop.
	IncidentTI2 IncidentType = "TI2"
	// IncidentTI3 holds the truck 4h on site plus a full day in the workshop.
	IncidentTI3 IncidentType = "TI3"
)

// OnSiteDuration is the time the truck stays immobilized where it broke.
func (t IncidentType) OnSiteDuration() (time.Duration, error) {
	switch t {
	case IncidentTI1, IncidentTI2:
		return 2 * time.Hour, nil
	case IncidentTI3:
		return 4 * time.Hour, nil
	default:
		return 0, shared.NewValidationError("type", fmt.Sprintf("unknown incident type %q", t))
	}
}

// InferIncidentType maps an estimated repair duration to an incident
// class: up to 2h is TI1, up to a day TI2, anything longer TI3.
func InferIncidentType(estimatedRepair time.Duration) IncidentType {
	switch {
	case estimatedRepair <= 2*time.Hour:
		return IncidentTI1
	case estimatedRepair <= 24*time.Hour:
		return IncidentTI2
	default:
		return IncidentTI3
	}
}

// Incident is a stochastic breakdown holding one vehicle out of service.
type Incident struct {
	id         string
	vehicleID  string
	occurredAt time.Time
	kind       IncidentType
	reason     string
}

// NewIncident records a breakdown.
func NewIncident(id, vehicleID string, occurredAt time.Time, kind IncidentType, reason string) (*Incident, error) {
	if vehicleID == "" {
		return nil, shared.NewValidationError("vehicleID", "cannot be empty")
	}
	if _, err := kind.OnSiteDuration(); err != nil {
		return nil, err
	}
	return &Incident{
		id:         id,
		vehicleID:  vehicleID,
		occurredAt: occurredAt,
		kind:       kind,
		reason:     reason,
	}, nil
}

func (i *Incident) ID() string            { return i.id }
func (i *Incident) VehicleID() string     { return i.vehicleID }
func (i *Incident) OccurredAt() time.Time { return i.occurredAt }
func (i *Incident) Type() IncidentType    { return i.kind }
func (i *Incident) Reason() string        { return i.reason }

// AvailableAt computes when the vehicle returns to service.
//
//   - TI1: after the on-site hold only.
//   - TI2: on-site hold, then one shift in the workshop. A breakdown in
//     shift Tk of day D releases at the start of T((k+2-1)%3+1), on day D
//     for T1 and on day D+1 for T2 and T3.
//   - TI3: on-site hold, then a full day in the workshop; released at
//     T1 of day D+3.
func (i *Incident) AvailableAt() time.Time {
	switch i.kind {
	case IncidentTI1:
		return i.occurredAt.Add(2 * time.Hour)
	case IncidentTI2:
		shift := ShiftOf(i.occurredAt)
		release := Shift((int(shift)-1+2)%3 + 1)
		day := i.occurredAt
		if shift != ShiftT1 {
			day = day.AddDate(0, 0, 1)
		}
		return release.Start(day)
	case IncidentTI3:
		return shared.Midnight(i.occurredAt).AddDate(0, 0, 3)
	default:
		return i.occurredAt
	}
}

// HoldsAt reports whether the vehicle is still out of service at t.
func (i *Incident) HoldsAt(t time.Time) bool {
	return t.Before(i.AvailableAt())
}

// Clone returns an independent copy.
func (i *Incident) Clone() *Incident {
	clone := *i
	return &clone
}

func (i *Incident) String() string {
	return fmt.Sprintf("Incident(%s %s at %s)", i.vehicleID, i.kind, shared.FormatTimestamp(i.occurredAt))
}
