package parsers

import (
	"bufio"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/andrescamacho/lpg-dispatch/internal/domain/maintenance"
)

// maintenanceLine matches one preventive schedule entry: YYYYMMDD:TTNN
var maintenanceLine = regexp.MustCompile(`^(\d{8}):(T[A-D]\d{2})$`)

// MaintenanceRecord is one parsed preventive maintenance entry.
type MaintenanceRecord struct {
	Day       time.Time
	VehicleID string
}

// ToTask builds the domain maintenance task.
func (r MaintenanceRecord) ToTask() (*maintenance.Task, error) {
	return maintenance.NewTask(r.VehicleID, r.Day)
}

// ParseMaintenance reads the preventive maintenance schedule. Malformed
// lines produce diagnostics and are skipped.
func ParseMaintenance(r io.Reader, name string) ([]MaintenanceRecord, []Diagnostic) {
	var records []MaintenanceRecord
	var diagnostics []Diagnostic

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		match := maintenanceLine.FindStringSubmatch(line)
		if match == nil {
			diagnostics = append(diagnostics, Diagnostic{File: name, Line: lineNo, Message: "malformed maintenance record"})
			continue
		}
		day, err := time.Parse("20060102", match[1])
		if err != nil {
			diagnostics = append(diagnostics, Diagnostic{File: name, Line: lineNo, Message: "invalid date: " + err.Error()})
			continue
		}
		records = append(records, MaintenanceRecord{Day: day, VehicleID: match[2]})
	}
	if err := scanner.Err(); err != nil {
		diagnostics = append(diagnostics, Diagnostic{File: name, Line: lineNo, Message: err.Error()})
	}
	return records, diagnostics
}
