package parsers

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/andrescamacho/lpg-dispatch/internal/domain/delivery"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/shared"
)

// orderLine matches one sales record:
// ##d##h##m:posX,posY,c-<clientId>,<m3>m3,<hours>h
var orderLine = regexp.MustCompile(
	`^(\d{2})d(\d{2})h(\d{2})m:(\d+),(\d+),c-([0-9A-Za-z]+),(\d+)m3,(\d+)h$`)

// OrderRecord is one parsed sales line, still relative to the simulation
// month base.
type OrderRecord struct {
	Day        int
	Hour       int
	Minute     int
	Position   shared.Position
	ClientID   string
	AmountM3   int
	LimitHours int
}

// ArrivalTime resolves the record's arrival against the month base.
func (r OrderRecord) ArrivalTime(monthBase time.Time) time.Time {
	return shared.MonthOffset(monthBase, r.Day, r.Hour, r.Minute)
}

// ToOrder builds the domain order. LimitHours of zero leaves the order
// without a due time.
func (r OrderRecord) ToOrder(id string, monthBase time.Time) (*delivery.Order, error) {
	arrival := r.ArrivalTime(monthBase)
	var due time.Time
	if r.LimitHours > 0 {
		due = arrival.Add(time.Duration(r.LimitHours) * time.Hour)
	}
	return delivery.NewOrder(id, r.Position, arrival, due, r.AmountM3)
}

// FormatOrderRecord renders a record back into the sales file format.
func FormatOrderRecord(r OrderRecord) string {
	return fmt.Sprintf("%02dd%02dh%02dm:%d,%d,c-%s,%dm3,%dh",
		r.Day, r.Hour, r.Minute, r.Position.X, r.Position.Y, r.ClientID, r.AmountM3, r.LimitHours)
}

// ParseOrders reads a sales file. Malformed lines produce diagnostics and
// are skipped.
func ParseOrders(r io.Reader, name string) ([]OrderRecord, []Diagnostic) {
	var records []OrderRecord
	var diagnostics []Diagnostic

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		match := orderLine.FindStringSubmatch(line)
		if match == nil {
			diagnostics = append(diagnostics, Diagnostic{File: name, Line: lineNo, Message: "malformed order record"})
			continue
		}

		record := OrderRecord{
			Day:        atoi(match[1]),
			Hour:       atoi(match[2]),
			Minute:     atoi(match[3]),
			Position:   shared.Position{X: atoi(match[4]), Y: atoi(match[5])},
			ClientID:   match[6],
			AmountM3:   atoi(match[7]),
			LimitHours: atoi(match[8]),
		}
		if record.Day < 1 || record.Day > 31 || record.Hour > 23 || record.Minute > 59 {
			diagnostics = append(diagnostics, Diagnostic{File: name, Line: lineNo, Message: "timestamp out of range"})
			continue
		}
		if record.AmountM3 <= 0 {
			diagnostics = append(diagnostics, Diagnostic{File: name, Line: lineNo, Message: "requested volume must be positive"})
			continue
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		diagnostics = append(diagnostics, Diagnostic{File: name, Line: lineNo, Message: err.Error()})
	}
	return records, diagnostics
}

// atoi converts digits already vetted by the line regexp.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
