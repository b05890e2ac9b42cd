package parsers_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/lpg-dispatch/internal/adapters/parsers"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/maintenance"
)

func TestParseBreakdowns_ValidLines(t *testing.T) {
	// Arrange
	input := "T2_TA01_TI2\nT1_TD05_TI1\nT3_TB02_TI3\n"

	// Act
	records, diagnostics := parsers.ParseBreakdowns(strings.NewReader(input), "averias.txt")

	// Assert
	assert.Empty(t, diagnostics)
	require.Len(t, records, 3)
	assert.Equal(t, maintenance.ShiftT2, records[0].Shift)
	assert.Equal(t, "TA01", records[0].VehicleID)
	assert.Equal(t, maintenance.IncidentTI2, records[0].Type)
	assert.Equal(t, maintenance.ShiftT1, records[1].Shift)
	assert.Equal(t, maintenance.IncidentTI1, records[1].Type)
	assert.Equal(t, maintenance.ShiftT3, records[2].Shift)
	assert.Equal(t, maintenance.IncidentTI3, records[2].Type)
}

func TestParseBreakdowns_SkipsMalformedLines(t *testing.T) {
	// Arrange - bad shift, bad vehicle, bad incident class
	input := strings.Join([]string{
		"T4_TA01_TI2",
		"T2_TX01_TI2",
		"T2_TA01_TI4",
		"T2_TA01_TI2",
	}, "\n")

	// Act
	records, diagnostics := parsers.ParseBreakdowns(strings.NewReader(input), "averias.txt")

	// Assert
	require.Len(t, records, 1)
	assert.Equal(t, "TA01", records[0].VehicleID)
	assert.Len(t, diagnostics, 3)
}
