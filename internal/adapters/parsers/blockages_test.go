package parsers_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/lpg-dispatch/internal/adapters/parsers"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/shared"
)

func TestParseBlockages_ValidLine(t *testing.T) {
	// Arrange
	input := "01d06h00m-01d18h00m:31,21,34,21,34,24\n"

	// Act
	records, diagnostics := parsers.ParseBlockages(strings.NewReader(input), "bloqueos202608.txt")

	// Assert
	assert.Empty(t, diagnostics)
	require.Len(t, records, 1)
	record := records[0]
	assert.Equal(t, []shared.Position{
		shared.NewPosition(31, 21),
		shared.NewPosition(34, 21),
		shared.NewPosition(34, 24),
	}, record.Points)

	start, end := record.Window(monthBase)
	assert.Equal(t, time.Date(2026, time.August, 1, 6, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, time.August, 1, 18, 0, 0, 0, time.UTC), end)
}

func TestParseBlockages_RejectsShortOrOddPolylines(t *testing.T) {
	// Arrange - a lone point and an odd coordinate count
	input := strings.Join([]string{
		"01d06h00m-01d18h00m:31,21",
		"01d06h00m-01d18h00m:31,21,34",
		"01d06h00m-01d18h00m:31,21,34,21",
	}, "\n")

	// Act
	records, diagnostics := parsers.ParseBlockages(strings.NewReader(input), "bloqueos202608.txt")

	// Assert
	require.Len(t, records, 1)
	assert.Len(t, records[0].Points, 2)
	require.Len(t, diagnostics, 2)
	assert.Equal(t, 1, diagnostics[0].Line)
	assert.Equal(t, 2, diagnostics[1].Line)
}

func TestParseBlockages_RejectsInvertedWindow(t *testing.T) {
	// Arrange - end precedes start
	input := "02d06h00m-01d18h00m:31,21,34,21\n"

	// Act
	records, diagnostics := parsers.ParseBlockages(strings.NewReader(input), "bloqueos202608.txt")

	// Assert
	assert.Empty(t, records)
	require.Len(t, diagnostics, 1)
	assert.Contains(t, diagnostics[0].Message, "window end")
}

func TestParseBlockages_SkipsMalformedLines(t *testing.T) {
	// Arrange
	input := strings.Join([]string{
		"not a blockage",
		"01d06h00m-01d18h00m:31,21,34,21",
	}, "\n")

	// Act
	records, diagnostics := parsers.ParseBlockages(strings.NewReader(input), "bloqueos202608.txt")

	// Assert
	assert.Len(t, records, 1)
	require.Len(t, diagnostics, 1)
	assert.Equal(t, "bloqueos202608.txt", diagnostics[0].File)
	assert.Equal(t, 1, diagnostics[0].Line)
}

func TestBlockageRecord_ToBlockage(t *testing.T) {
	// Arrange
	records, diagnostics := parsers.ParseBlockages(
		strings.NewReader("01d06h00m-01d18h00m:31,21,34,21"), "bloqueos")
	require.Empty(t, diagnostics)
	require.Len(t, records, 1)

	// Act
	blockage, err := records[0].ToBlockage("b-1", monthBase)

	// Assert
	require.NoError(t, err)
	assert.True(t, blockage.ActiveAt(time.Date(2026, time.August, 1, 12, 0, 0, 0, time.UTC)))
	assert.False(t, blockage.ActiveAt(time.Date(2026, time.August, 1, 19, 0, 0, 0, time.UTC)))
	assert.True(t, blockage.BlocksNode(shared.NewPosition(32, 21)))
}
