package parsers

import (
	"bufio"
	"io"
	"regexp"
	"strings"

	"github.com/andrescamacho/lpg-dispatch/internal/domain/maintenance"
)

// breakdownLine matches one catalogue entry: Tk_TTNN_TIm
var breakdownLine = regexp.MustCompile(`^T([1-3])_(T[A-D]\d{2})_TI([1-3])$`)

// BreakdownRecord is one breakdown catalogue entry: the shift in which
// the vehicle breaks down and the incident class it suffers.
type BreakdownRecord struct {
	Shift     maintenance.Shift
	VehicleID string
	Type      maintenance.IncidentType
}

// ParseBreakdowns reads the breakdown catalogue. Malformed lines produce
// diagnostics and are skipped.
func ParseBreakdowns(r io.Reader, name string) ([]BreakdownRecord, []Diagnostic) {
	var records []BreakdownRecord
	var diagnostics []Diagnostic

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		match := breakdownLine.FindStringSubmatch(line)
		if match == nil {
			diagnostics = append(diagnostics, Diagnostic{File: name, Line: lineNo, Message: "malformed breakdown record"})
			continue
		}
		records = append(records, BreakdownRecord{
			Shift:     maintenance.Shift(atoi(match[1])),
			VehicleID: match[2],
			Type:      maintenance.IncidentType("TI" + match[3]),
		})
	}
	if err := scanner.Err(); err != nil {
		diagnostics = append(diagnostics, Diagnostic{File: name, Line: lineNo, Message: err.Error()})
	}
	return records, diagnostics
}
