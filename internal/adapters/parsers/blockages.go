package parsers

import (
	"bufio"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/andrescamacho/lpg-dispatch/internal/domain/network"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/shared"
)

// blockageLine matches one blockage window:
// ##d##h##m-##d##h##m:x1,y1,x2,y2,...
var blockageLine = regexp.MustCompile(
	`^(\d{2})d(\d{2})h(\d{2})m-(\d{2})d(\d{2})h(\d{2})m:([0-9,]+)$`)

// BlockageRecord is one parsed blockage line, still relative to the
// simulation month base.
type BlockageRecord struct {
	StartDay, StartHour, StartMinute int
	EndDay, EndHour, EndMinute       int
	Points                           []shared.Position
}

// Window resolves the record's active interval against the month base.
func (r BlockageRecord) Window(monthBase time.Time) (time.Time, time.Time) {
	start := shared.MonthOffset(monthBase, r.StartDay, r.StartHour, r.StartMinute)
	end := shared.MonthOffset(monthBase, r.EndDay, r.EndHour, r.EndMinute)
	return start, end
}

// ToBlockage builds the domain blockage.
func (r BlockageRecord) ToBlockage(id string, monthBase time.Time) (*network.Blockage, error) {
	start, end := r.Window(monthBase)
	return network.NewBlockage(id, start, end, r.Points)
}

// ParseBlockages reads a blockage file. Malformed lines produce
// diagnostics and are skipped.
func ParseBlockages(r io.Reader, name string) ([]BlockageRecord, []Diagnostic) {
	var records []BlockageRecord
	var diagnostics []Diagnostic

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		match := blockageLine.FindStringSubmatch(line)
		if match == nil {
			diagnostics = append(diagnostics, Diagnostic{File: name, Line: lineNo, Message: "malformed blockage record"})
			continue
		}

		coordinates := strings.Split(match[7], ",")
		if len(coordinates) < 4 || len(coordinates)%2 != 0 {
			diagnostics = append(diagnostics, Diagnostic{File: name, Line: lineNo, Message: "polyline needs at least two x,y pairs"})
			continue
		}
		points := make([]shared.Position, 0, len(coordinates)/2)
		for i := 0; i < len(coordinates); i += 2 {
			points = append(points, shared.Position{X: atoi(coordinates[i]), Y: atoi(coordinates[i+1])})
		}

		record := BlockageRecord{
			StartDay: atoi(match[1]), StartHour: atoi(match[2]), StartMinute: atoi(match[3]),
			EndDay: atoi(match[4]), EndHour: atoi(match[5]), EndMinute: atoi(match[6]),
			Points: points,
		}
		reference := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
		if start, end := record.Window(reference); !end.After(start) {
			diagnostics = append(diagnostics, Diagnostic{File: name, Line: lineNo, Message: "window end does not follow start"})
			continue
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		diagnostics = append(diagnostics, Diagnostic{File: name, Line: lineNo, Message: err.Error()})
	}
	return records, diagnostics
}
