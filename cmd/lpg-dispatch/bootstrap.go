package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/andrescamacho/lpg-dispatch/internal/adapters/parsers"
	"github.com/andrescamacho/lpg-dispatch/internal/application/simulation"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/depot"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/environment"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/fleet"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/maintenance"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/network"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/shared"
)

// Reference city: 70x50 km grid, main plant plus two auxiliary tanks.
var (
	gridSize      = network.Grid{Length: 70, Width: 50}
	plantPosition = shared.Position{X: 12, Y: 8}
	northPosition = shared.Position{X: 42, Y: 42}
	eastPosition  = shared.Position{X: 63, Y: 3}
)

func nowUTC() time.Time {
	return time.Now().UTC()
}

// buildEnvironment assembles the world at the start of the current
// month: depots at their fixed sites and the full fleet parked at the
// plant with full tanks and no product on board.
func buildEnvironment() (*environment.Environment, time.Time, error) {
	now := nowUTC()
	monthBase := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	mainDepot := depot.NewMainPlant("PLANT", plantPosition)
	auxDepots := []*depot.Depot{
		depot.NewAuxiliaryDepot("NORTH", northPosition),
		depot.NewAuxiliaryDepot("EAST", eastPosition),
	}

	env := environment.New(gridSize, monthBase, mainDepot, auxDepots)

	for _, vehicleType := range fleet.AllTypes() {
		for unit := 1; unit <= vehicleType.Units; unit++ {
			id := fmt.Sprintf("%s%02d", vehicleType.Code, unit)
			vehicle, err := fleet.NewVehicle(id, vehicleType, plantPosition, 0, fleet.FuelTankCapacityGal)
			if err != nil {
				return nil, time.Time{}, err
			}
			if err := env.AddVehicle(vehicle); err != nil {
				return nil, time.Time{}, err
			}
		}
	}

	return env, monthBase, nil
}

// bootstrapDataDir loads the line-oriented input files and schedules
// their events on the simulation queue.
func bootstrapDataDir(sim *simulation.Simulation, env *environment.Environment, dataDir string, monthBase time.Time) error {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		path := filepath.Join(dataDir, name)

		switch {
		case strings.HasPrefix(name, "ventas"):
			if err := loadOrders(sim, path, name, monthBase); err != nil {
				return err
			}
		case strings.HasSuffix(name, ".bloqueos"):
			if err := loadBlockages(sim, path, name, monthBase); err != nil {
				return err
			}
		case name == "mantpreventivo":
			if err := loadMaintenance(sim, env, path, name); err != nil {
				return err
			}
		case strings.HasPrefix(name, "averias"):
			if err := loadBreakdowns(sim, path, name, monthBase); err != nil {
				return err
			}
		}
	}
	return nil
}

func loadOrders(sim *simulation.Simulation, path, name string, monthBase time.Time) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	records, diagnostics := parsers.ParseOrders(file, name)
	logDiagnostics(diagnostics)

	for i, record := range records {
		orderID := fmt.Sprintf("c-%s-%04d", record.ClientID, i+1)
		order, err := record.ToOrder(orderID, monthBase)
		if err != nil {
			log.Printf("bootstrap: skipping order %s: %v", orderID, err)
			continue
		}
		sim.Schedule(simulation.Event{
			Time:     order.ArrivalTime(),
			Kind:     simulation.EventOrderArrival,
			EntityID: order.ID(),
			Payload:  order,
		})
	}
	log.Printf("bootstrap: %s: %d orders scheduled", name, len(records))
	return nil
}

func loadBlockages(sim *simulation.Simulation, path, name string, monthBase time.Time) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	records, diagnostics := parsers.ParseBlockages(file, name)
	logDiagnostics(diagnostics)

	for _, record := range records {
		blockage, err := record.ToBlockage(uuid.NewString(), monthBase)
		if err != nil {
			log.Printf("bootstrap: skipping blockage: %v", err)
			continue
		}
		sim.Schedule(simulation.Event{
			Time:     blockage.Start(),
			Kind:     simulation.EventBlockageStart,
			EntityID: blockage.ID(),
			Payload:  blockage,
		})
		sim.Schedule(simulation.Event{
			Time:     blockage.End(),
			Kind:     simulation.EventBlockageEnd,
			EntityID: blockage.ID(),
		})
	}
	log.Printf("bootstrap: %s: %d blockages scheduled", name, len(records))
	return nil
}

func loadMaintenance(sim *simulation.Simulation, env *environment.Environment, path, name string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	records, diagnostics := parsers.ParseMaintenance(file, name)
	logDiagnostics(diagnostics)

	for _, record := range records {
		task, err := record.ToTask()
		if err != nil {
			log.Printf("bootstrap: skipping maintenance for %s: %v", record.VehicleID, err)
			continue
		}
		env.AddMaintenanceTask(task)

		start := task.NextWindowStart(env.CurrentTime())
		sim.Schedule(simulation.Event{
			Time:     start,
			Kind:     simulation.EventMaintenanceStart,
			EntityID: task.VehicleID(),
		})
		sim.Schedule(simulation.Event{
			Time:     start.Add(24*time.Hour - time.Minute),
			Kind:     simulation.EventMaintenanceEnd,
			EntityID: task.VehicleID(),
		})
	}
	log.Printf("bootstrap: %s: %d maintenance windows scheduled", name, len(records))
	return nil
}

// loadBreakdowns schedules the catalogue entries as incidents on the
// first day of the simulated month, each at the start of its shift.
func loadBreakdowns(sim *simulation.Simulation, path, name string, monthBase time.Time) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	records, diagnostics := parsers.ParseBreakdowns(file, name)
	logDiagnostics(diagnostics)

	for _, record := range records {
		occurredAt := record.Shift.Start(monthBase)
		incident, err := maintenance.NewIncident(uuid.NewString(), record.VehicleID, occurredAt, record.Type, "scheduled breakdown")
		if err != nil {
			log.Printf("bootstrap: skipping breakdown for %s: %v", record.VehicleID, err)
			continue
		}
		sim.Schedule(simulation.Event{
			Time:     occurredAt,
			Kind:     simulation.EventIncidentTrigger,
			EntityID: record.VehicleID,
			Payload:  incident,
		})
	}
	log.Printf("bootstrap: %s: %d breakdowns scheduled", name, len(records))
	return nil
}

func logDiagnostics(diagnostics []parsers.Diagnostic) {
	for _, d := range diagnostics {
		log.Printf("bootstrap: %s", d)
	}
}
