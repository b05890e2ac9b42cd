package simulation

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/andrescamacho/lpg-dispatch/internal/application/planner"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/delivery"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/environment"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/fleet"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/maintenance"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/network"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/planning"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/shared"
)

// Optimizer produces an assignment for the current world state.
// *planner.TabuOptimizer is the production implementation.
type Optimizer interface {
	Optimize(ctx context.Context, env *environment.Environment) (*planner.Result, error)
}

// MetricsRecorder receives simulation telemetry. A no-op implementation
// backs tests.
type MetricsRecorder interface {
	RecordTick()
	RecordEvent(kind string)
	RecordReplan(duration time.Duration, score float64, iterations int)
	SetVehicleStatus(vehicleID, status string)
}

// NopMetrics discards telemetry.
type NopMetrics struct{}

func (NopMetrics) RecordTick()                                                        {}
func (NopMetrics) RecordEvent(kind string)                                            {}
func (NopMetrics) RecordReplan(duration time.Duration, score float64, iterations int) {}
func (NopMetrics) SetVehicleStatus(vehicleID, status string)                          {}

// Config bounds the tick loop.
type Config struct {
	TickDelta       time.Duration // simulated time per tick
	TickPeriodMs    int           // wall-clock time between ticks
	MinTickPeriodMs int
	MaxTickPeriodMs int
	EndTime         time.Time // zero means run until stopped
}

// DefaultConfig returns the reference cadence: one simulated minute per
// tick, 1000 ms wall clock, period adjustable in [50, 10000] ms.
func DefaultConfig() Config {
	return Config{
		TickDelta:       time.Minute,
		TickPeriodMs:    1000,
		MinTickPeriodMs: 50,
		MaxTickPeriodMs: 10000,
	}
}

// Simulation owns the event queue and drives the world forward tick by
// tick. A single mutex guards the Environment: control operations and
// the tick loop serialize on it, so each tick is atomic with respect to
// external mutations and observers always see consistent snapshots.
type Simulation struct {
	mu sync.Mutex

	cfg        Config
	env        *environment.Environment
	initialEnv *environment.Environment

	queue         *EventQueue
	initialEvents []Event

	optimizer  Optimizer
	builder    *planning.Builder
	pathfinder *network.Pathfinder
	executor   *Executor
	states     map[string]*executionState

	clock   shared.Clock
	metrics MetricsRecorder

	running bool
	paused  bool

	ticks           int64
	replans         int64
	eventsProcessed int64
	lastResult      *planner.Result
}

// New creates a simulation over an environment. The environment's state
// at construction is the reset point.
func New(env *environment.Environment, optimizer Optimizer, builder *planning.Builder, executor *Executor, cfg Config, clock shared.Clock, metrics MetricsRecorder) *Simulation {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &Simulation{
		cfg:        cfg,
		env:        env,
		initialEnv: env.Clone(),
		queue:      NewEventQueue(),
		optimizer:  optimizer,
		builder:    builder,
		pathfinder: network.NewPathfinder(env.Grid()),
		executor:   executor,
		states:     make(map[string]*executionState),
		clock:      clock,
		metrics:    metrics,
	}
}

// Schedule enqueues a bootstrap event; it survives resets.
func (s *Simulation) Schedule(event Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue.Push(event)
	s.initialEvents = append(s.initialEvents, event)
}

// Run drives the tick loop until ctx is cancelled. Ticks are skipped
// while the simulation is stopped or paused; a tick period change takes
// effect on the next iteration.
func (s *Simulation) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		s.mu.Lock()
		if s.running && !s.paused {
			s.tick(ctx)
		}
		period := time.Duration(s.cfg.TickPeriodMs) * time.Millisecond
		s.mu.Unlock()

		s.clock.Sleep(period)
	}
}

// Start begins (or resumes) ticking.
func (s *Simulation) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = true
	s.paused = false
}

// Pause suspends ticking without losing state.
func (s *Simulation) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = true
}

// Reset restores the environment and event queue to their bootstrap
// state and stops the loop.
func (s *Simulation) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.env = s.initialEnv.Clone()
	s.queue.Clear()
	for _, event := range s.initialEvents {
		s.queue.Push(event)
	}
	s.states = make(map[string]*executionState)
	s.running = false
	s.paused = false
	s.ticks = 0
	s.replans = 0
	s.eventsProcessed = 0
	s.lastResult = nil
}

// SetTickPeriod changes the wall-clock tick period. Values outside the
// configured range are rejected.
func (s *Simulation) SetTickPeriod(ms int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ms < s.cfg.MinTickPeriodMs || ms > s.cfg.MaxTickPeriodMs {
		return shared.NewValidationError("speed",
			fmt.Sprintf("%d ms outside [%d, %d]", ms, s.cfg.MinTickPeriodMs, s.cfg.MaxTickPeriodMs))
	}
	s.cfg.TickPeriodMs = ms
	return nil
}

// CurrentTime returns the simulation clock's current instant.
func (s *Simulation) CurrentTime() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.env.CurrentTime()
}

// TickPeriodMs returns the current wall-clock tick period.
func (s *Simulation) TickPeriodMs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.TickPeriodMs
}

// TickOnce advances the world by exactly one tick regardless of the
// running flag. Tests and the loop share the same path.
func (s *Simulation) TickOnce(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tick(ctx)
}

// tick performs one simulation step. Caller holds the mutex.
func (s *Simulation) tick(ctx context.Context) {
	now := s.env.CurrentTime()

	replanNeeded := false
	for _, event := range s.queue.PopDue(now) {
		s.eventsProcessed++
		s.metrics.RecordEvent(string(event.Kind))
		if s.applyEvent(ctx, event) {
			replanNeeded = true
		}
	}

	if replanNeeded {
		s.replan(ctx)
	}

	s.executePlans(ctx, now)

	s.env.AdvanceClock(s.cfg.TickDelta)
	if shared.IsMidnight(s.env.CurrentTime()) {
		s.env.RefillAuxDepots()
	}

	if !s.cfg.EndTime.IsZero() && !s.env.CurrentTime().Before(s.cfg.EndTime) {
		s.running = false
	}

	s.ticks++
	s.metrics.RecordTick()
	for _, v := range s.env.Vehicles() {
		s.metrics.SetVehicleStatus(v.ID(), string(v.Status()))
	}
}

// applyEvent applies one event's semantics and reports whether it
// changed pending orders or vehicle availability.
func (s *Simulation) applyEvent(ctx context.Context, event Event) bool {
	switch event.Kind {
	case EventOrderArrival:
		order, ok := event.Payload.(*delivery.Order)
		if !ok {
			return false
		}
		if err := s.env.AddOrder(order); err != nil {
			log.Printf("simulation: dropping order %s: %v", order.ID(), err)
			return false
		}
		return true

	case EventBlockageStart:
		if blockage, ok := event.Payload.(*network.Blockage); ok {
			s.env.AddBlockage(blockage)
		}
		return true

	case EventBlockageEnd:
		// The blockage expires by its own window; routes may shorten.
		return true

	case EventMaintenanceStart:
		s.forceMaintenanceReturn(event.EntityID)
		return true

	case EventMaintenanceEnd:
		if vehicle, err := s.env.FindVehicleByID(event.EntityID); err == nil {
			vehicle.SetStatus(fleet.StatusAvailable)
		}
		return true

	case EventIncidentTrigger:
		incident, ok := event.Payload.(*maintenance.Incident)
		if !ok {
			return false
		}
		if err := s.env.AddIncident(incident); err != nil {
			log.Printf("simulation: dropping incident for %s: %v", incident.VehicleID(), err)
			return false
		}
		delete(s.states, incident.VehicleID())
		s.queue.Push(Event{
			Time:     incident.AvailableAt(),
			Kind:     EventIncidentResolve,
			EntityID: incident.VehicleID(),
		})
		return true

	case EventIncidentResolve:
		if err := s.env.ResolveIncident(event.EntityID); err != nil {
			return false
		}
		return true

	case EventReplan:
		s.replan(ctx)
		return false

	case EventSimulationEnd:
		s.running = false
		return false
	}
	return false
}

// forceMaintenanceReturn discards the vehicle's remaining actions and
// sends it back to the main plant for its maintenance window.
func (s *Simulation) forceMaintenanceReturn(vehicleID string) {
	vehicle, err := s.env.FindVehicleByID(vehicleID)
	if err != nil {
		return
	}
	delete(s.states, vehicleID)
	vehicle.SetStatus(fleet.StatusMaintenance)

	plant := s.env.MainDepot().Position()
	if vehicle.Position().Equals(plant) {
		return
	}
	path, err := s.pathfinder.FindPath(vehicle.Position(), plant, s.env.CurrentTime(), s.env.Blockages())
	if err != nil {
		log.Printf("simulation: vehicle %s cannot route to plant for maintenance: %v", vehicleID, err)
		return
	}
	drive := planning.NewDriveAction(path, vehicle.FuelNeededGal(path.DistanceKm), s.env.CurrentTime())
	plan := planning.NewVehiclePlan(vehicleID, s.env.CurrentTime(), []planning.Action{drive})
	s.states[vehicleID] = newExecutionState(plan)
}

// replan asks the optimizer for a fresh assignment over a deep snapshot
// and attaches the realized plans atomically, replacing every vehicle's
// remaining unexecuted actions. A failed optimization keeps the
// previously installed plans.
func (s *Simulation) replan(ctx context.Context) {
	if len(s.env.PendingOrders()) == 0 {
		return
	}

	started := s.clock.Now()
	snapshot := s.env.Clone()
	result, err := s.optimizer.Optimize(ctx, snapshot)
	if err != nil {
		log.Printf("simulation: optimization failed, keeping previous plans: %v", err)
		return
	}

	now := s.env.CurrentTime()
	states := make(map[string]*executionState)

	// Vehicles outside the new assignment keep plans only while
	// maintenance-bound; everything else is replaced.
	for vehicleID, state := range s.states {
		if vehicle, err := s.env.FindVehicleByID(vehicleID); err == nil && vehicle.Status() == fleet.StatusMaintenance {
			states[vehicleID] = state
		}
	}

	for _, vehicleID := range result.Solution.VehicleIDs() {
		instructions := result.Solution.Instructions(vehicleID)
		if len(instructions) == 0 {
			continue
		}
		vehicle, err := s.env.FindVehicleByID(vehicleID)
		if err != nil {
			continue
		}
		plan, err := s.builder.Build(s.env, vehicle, instructions, now)
		if err != nil {
			log.Printf("simulation: plan for %s infeasible: %v", vehicleID, err)
			continue
		}
		states[vehicleID] = newExecutionState(plan)
	}

	s.states = states
	s.lastResult = result
	s.replans++
	s.metrics.RecordReplan(s.clock.Now().Sub(started), result.Score, result.Iterations)
}

// executePlans advances every attached plan up to now.
func (s *Simulation) executePlans(ctx context.Context, now time.Time) {
	ids := make([]string, 0, len(s.states))
	for id := range s.states {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		vehicle, err := s.env.FindVehicleByID(id)
		if err != nil {
			delete(s.states, id)
			continue
		}
		done, err := s.executor.Advance(ctx, s.env, vehicle, s.states[id], now)
		if err != nil {
			log.Printf("simulation: executing plan for %s: %v", id, err)
			delete(s.states, id)
			continue
		}
		if done {
			delete(s.states, id)
		}
	}
}

// Control-surface operations

// SubmitOrder schedules (or immediately applies) an externally submitted
// order.
func (s *Simulation) SubmitOrder(order *delivery.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.env.Grid().Contains(order.Position()) {
		return shared.NewValidationError("position", order.Position().String()+" outside the city grid")
	}
	if !order.ArrivalTime().After(s.env.CurrentTime()) {
		if err := s.env.AddOrder(order); err != nil {
			return err
		}
		s.queue.Push(Event{Time: s.env.CurrentTime(), Kind: EventReplan, EntityID: order.ID()})
		return nil
	}
	s.queue.Push(Event{Time: order.ArrivalTime(), Kind: EventOrderArrival, EntityID: order.ID(), Payload: order})
	return nil
}

// ReportBreakdown marks a vehicle broken down, inferring the incident
// type from the estimated repair time.
func (s *Simulation) ReportBreakdown(vehicleID, reason string, estimatedRepair time.Duration) (*maintenance.Incident, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.env.FindVehicleByID(vehicleID); err != nil {
		return nil, err
	}
	kind := maintenance.InferIncidentType(estimatedRepair)
	incident, err := maintenance.NewIncident(uuid.NewString(), vehicleID, s.env.CurrentTime(), kind, reason)
	if err != nil {
		return nil, err
	}

	s.queue.Push(Event{Time: s.env.CurrentTime(), Kind: EventIncidentTrigger, EntityID: vehicleID, Payload: incident})
	return incident, nil
}

// RepairVehicle resolves a vehicle's active incident immediately.
func (s *Simulation) RepairVehicle(vehicleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.env.ActiveIncident(vehicleID); !ok {
		return shared.NewNotFoundError("incident", vehicleID)
	}
	if err := s.env.ResolveIncident(vehicleID); err != nil {
		return err
	}
	s.queue.Push(Event{Time: s.env.CurrentTime(), Kind: EventReplan, EntityID: vehicleID})
	return nil
}
