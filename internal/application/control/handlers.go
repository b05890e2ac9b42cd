package control

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/andrescamacho/lpg-dispatch/internal/application/common"
	"github.com/andrescamacho/lpg-dispatch/internal/application/simulation"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/delivery"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/shared"
)

var validate = validator.New()

// SubmitOrderHandler accepts externally submitted orders.
type SubmitOrderHandler struct {
	sim *simulation.Simulation
}

func NewSubmitOrderHandler(sim *simulation.Simulation) *SubmitOrderHandler {
	return &SubmitOrderHandler{sim: sim}
}

func (h *SubmitOrderHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(SubmitOrderCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: %T", request)
	}
	if err := validate.Struct(cmd); err != nil {
		return nil, shared.NewValidationError("order", err.Error())
	}

	now := h.sim.CurrentTime()
	var due time.Time
	if cmd.LimitHours > 0 {
		due = now.Add(time.Duration(cmd.LimitHours) * time.Hour)
	}

	orderID := fmt.Sprintf("c-%s-%s", cmd.CustomerID, uuid.NewString()[:8])
	order, err := delivery.NewOrder(orderID, shared.Position{X: cmd.PosX, Y: cmd.PosY}, now, due, cmd.AmountM3)
	if err != nil {
		return nil, err
	}
	if err := h.sim.SubmitOrder(order); err != nil {
		return nil, err
	}

	result := SubmitOrderResult{OrderID: orderID}
	if !due.IsZero() {
		result.DueTime = shared.FormatTimestamp(due)
	}
	return result, nil
}

// ReportBreakdownHandler records a vehicle breakdown.
type ReportBreakdownHandler struct {
	sim *simulation.Simulation
}

func NewReportBreakdownHandler(sim *simulation.Simulation) *ReportBreakdownHandler {
	return &ReportBreakdownHandler{sim: sim}
}

func (h *ReportBreakdownHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(ReportBreakdownCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: %T", request)
	}
	if err := validate.Struct(cmd); err != nil {
		return nil, shared.NewValidationError("breakdown", err.Error())
	}

	estimated := time.Duration(cmd.EstimatedRepairHours) * time.Hour
	incident, err := h.sim.ReportBreakdown(cmd.VehicleID, cmd.Reason, estimated)
	if err != nil {
		return nil, err
	}
	return ReportBreakdownResult{
		IncidentID:   incident.ID(),
		IncidentType: string(incident.Type()),
		AvailableAt:  shared.FormatTimestamp(incident.AvailableAt()),
	}, nil
}

// RepairVehicleHandler resolves an active incident.
type RepairVehicleHandler struct {
	sim *simulation.Simulation
}

func NewRepairVehicleHandler(sim *simulation.Simulation) *RepairVehicleHandler {
	return &RepairVehicleHandler{sim: sim}
}

func (h *RepairVehicleHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(RepairVehicleCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: %T", request)
	}
	if err := validate.Struct(cmd); err != nil {
		return nil, shared.NewValidationError("repair", err.Error())
	}
	if err := h.sim.RepairVehicle(cmd.VehicleID); err != nil {
		return nil, err
	}
	return nil, nil
}

// ChangeSpeedHandler adjusts the tick period.
type ChangeSpeedHandler struct {
	sim *simulation.Simulation
}

func NewChangeSpeedHandler(sim *simulation.Simulation) *ChangeSpeedHandler {
	return &ChangeSpeedHandler{sim: sim}
}

func (h *ChangeSpeedHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(ChangeSpeedCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: %T", request)
	}
	if err := h.sim.SetTickPeriod(cmd.TickPeriodMs); err != nil {
		return nil, err
	}
	return SpeedResult{TickPeriodMs: cmd.TickPeriodMs}, nil
}

// LifecycleHandler serves start, pause, and reset.
type LifecycleHandler struct {
	sim *simulation.Simulation
}

func NewLifecycleHandler(sim *simulation.Simulation) *LifecycleHandler {
	return &LifecycleHandler{sim: sim}
}

func (h *LifecycleHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	switch request.(type) {
	case StartSimulationCommand:
		h.sim.Start()
	case PauseSimulationCommand:
		h.sim.Pause()
	case ResetSimulationCommand:
		h.sim.Reset()
	default:
		return nil, fmt.Errorf("invalid request type: %T", request)
	}
	return h.sim.Status(), nil
}

// StatusHandler serves the control-surface view.
type StatusHandler struct {
	sim *simulation.Simulation
}

func NewStatusHandler(sim *simulation.Simulation) *StatusHandler {
	return &StatusHandler{sim: sim}
}

func (h *StatusHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	switch request.(type) {
	case SimulationStatusQuery:
		return h.sim.Status(), nil
	case EnvironmentQuery:
		return h.sim.Snapshot(), nil
	case SpeedQuery:
		return SpeedResult{TickPeriodMs: h.sim.TickPeriodMs()}, nil
	default:
		return nil, fmt.Errorf("invalid request type: %T", request)
	}
}

// RegisterHandlers wires every control request into the mediator.
func RegisterHandlers(m common.Mediator, sim *simulation.Simulation) error {
	if err := common.RegisterHandler[SubmitOrderCommand](m, NewSubmitOrderHandler(sim)); err != nil {
		return err
	}
	if err := common.RegisterHandler[ReportBreakdownCommand](m, NewReportBreakdownHandler(sim)); err != nil {
		return err
	}
	if err := common.RegisterHandler[RepairVehicleCommand](m, NewRepairVehicleHandler(sim)); err != nil {
		return err
	}
	if err := common.RegisterHandler[ChangeSpeedCommand](m, NewChangeSpeedHandler(sim)); err != nil {
		return err
	}
	lifecycle := NewLifecycleHandler(sim)
	if err := common.RegisterHandler[StartSimulationCommand](m, lifecycle); err != nil {
		return err
	}
	if err := common.RegisterHandler[PauseSimulationCommand](m, lifecycle); err != nil {
		return err
	}
	if err := common.RegisterHandler[ResetSimulationCommand](m, lifecycle); err != nil {
		return err
	}
	status := NewStatusHandler(sim)
	if err := common.RegisterHandler[SimulationStatusQuery](m, status); err != nil {
		return err
	}
	if err := common.RegisterHandler[EnvironmentQuery](m, status); err != nil {
		return err
	}
	return common.RegisterHandler[SpeedQuery](m, status)
}
