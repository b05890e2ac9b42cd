package maintenance_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/lpg-dispatch/internal/domain/maintenance"
)

func day(hour, minute int) time.Time {
	return time.Date(2026, time.August, 10, hour, minute, 0, 0, time.UTC)
}

func newIncident(t *testing.T, kind maintenance.IncidentType, occurredAt time.Time) *maintenance.Incident {
	t.Helper()
	incident, err := maintenance.NewIncident("i-1", "TA01", occurredAt, kind, "flat tyre")
	require.NoError(t, err)
	return incident
}

func TestShiftOf(t *testing.T) {
	assert.Equal(t, maintenance.ShiftT1, maintenance.ShiftOf(day(0, 0)))
	assert.Equal(t, maintenance.ShiftT1, maintenance.ShiftOf(day(7, 59)))
	assert.Equal(t, maintenance.ShiftT2, maintenance.ShiftOf(day(8, 0)))
	assert.Equal(t, maintenance.ShiftT2, maintenance.ShiftOf(day(15, 59)))
	assert.Equal(t, maintenance.ShiftT3, maintenance.ShiftOf(day(16, 0)))
	assert.Equal(t, maintenance.ShiftT3, maintenance.ShiftOf(day(23, 59)))
}

func TestIncident_AvailableAt_TI1(t *testing.T) {
	// Arrange
	incident := newIncident(t, maintenance.IncidentTI1, day(9, 30))

	// Act & Assert - back on the road after the 2h on-site hold
	assert.Equal(t, day(11, 30), incident.AvailableAt())
}

func TestIncident_AvailableAt_TI2(t *testing.T) {
	// T2 breakdown on day D releases at the start of T1 on day D+1.
	incident := newIncident(t, maintenance.IncidentTI2, day(10, 0))
	assert.Equal(t, time.Date(2026, time.August, 11, 0, 0, 0, 0, time.UTC), incident.AvailableAt())

	// T1 breakdown releases at T3 of the same day.
	incident = newIncident(t, maintenance.IncidentTI2, day(3, 0))
	assert.Equal(t, day(16, 0), incident.AvailableAt())

	// T3 breakdown releases at T2 of the next day.
	incident = newIncident(t, maintenance.IncidentTI2, day(20, 0))
	assert.Equal(t, time.Date(2026, time.August, 11, 8, 0, 0, 0, time.UTC), incident.AvailableAt())
}

func TestIncident_AvailableAt_TI3(t *testing.T) {
	// Arrange
	incident := newIncident(t, maintenance.IncidentTI3, day(14, 45))

	// Act & Assert - released at midnight three days later regardless of shift
	assert.Equal(t, time.Date(2026, time.August, 13, 0, 0, 0, 0, time.UTC), incident.AvailableAt())
}

func TestIncident_HoldsAt(t *testing.T) {
	// Arrange
	incident := newIncident(t, maintenance.IncidentTI1, day(9, 0))

	// Act & Assert
	assert.True(t, incident.HoldsAt(day(10, 59)))
	assert.False(t, incident.HoldsAt(day(11, 0)), "release instant is back in service")
}

func TestInferIncidentType(t *testing.T) {
	assert.Equal(t, maintenance.IncidentTI1, maintenance.InferIncidentType(30*time.Minute))
	assert.Equal(t, maintenance.IncidentTI1, maintenance.InferIncidentType(2*time.Hour))
	assert.Equal(t, maintenance.IncidentTI2, maintenance.InferIncidentType(5*time.Hour))
	assert.Equal(t, maintenance.IncidentTI2, maintenance.InferIncidentType(24*time.Hour))
	assert.Equal(t, maintenance.IncidentTI3, maintenance.InferIncidentType(48*time.Hour))
}

func TestNewIncident_RejectsUnknownType(t *testing.T) {
	// Act
	_, err := maintenance.NewIncident("i-1", "TA01", day(9, 0), maintenance.IncidentType("TI9"), "")

	// Assert
	assert.Error(t, err)
}
