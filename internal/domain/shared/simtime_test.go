package shared_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/lpg-dispatch/internal/domain/shared"
)

func TestDriveDuration_RoundsUpToWholeMinutes(t *testing.T) {
	// 1 km at 50 km/h is 72 s, scheduled as 2 min.
	assert.Equal(t, 2*time.Minute, shared.DriveDuration(1))
	assert.Equal(t, 12*time.Minute, shared.DriveDuration(10))
	assert.Equal(t, 60*time.Minute, shared.DriveDuration(50))
	assert.Equal(t, time.Duration(0), shared.DriveDuration(0))
}

func TestEdgeTravelTime(t *testing.T) {
	assert.Equal(t, 72*time.Second, shared.EdgeTravelTime)
}

func TestMonthOffset(t *testing.T) {
	// Arrange
	base := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)

	// Act
	at := shared.MonthOffset(base, 11, 13, 27)

	// Assert
	assert.Equal(t, time.Date(2026, time.August, 11, 13, 27, 0, 0, time.UTC), at)
}

func TestMidnight(t *testing.T) {
	// Arrange
	at := time.Date(2026, time.August, 11, 13, 27, 45, 12, time.UTC)

	// Act & Assert
	assert.Equal(t, time.Date(2026, time.August, 11, 0, 0, 0, 0, time.UTC), shared.Midnight(at))
	assert.True(t, shared.IsMidnight(shared.Midnight(at)))
	assert.False(t, shared.IsMidnight(at))
}

func TestTimestampRoundTrip(t *testing.T) {
	// Arrange
	at := time.Date(2026, time.August, 11, 13, 27, 45, 0, time.UTC)

	// Act
	parsed, err := shared.ParseTimestamp(shared.FormatTimestamp(at))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, at.Format(shared.TimestampLayout), parsed.Format(shared.TimestampLayout))
}
