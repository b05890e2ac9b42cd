package control

// SubmitOrderCommand registers a new customer order at the simulation's
// current time. LimitHours of zero means the order has no due time.
type SubmitOrderCommand struct {
	PosX       int    `json:"posX" validate:"min=0"`
	PosY       int    `json:"posY" validate:"min=0"`
	CustomerID string `json:"customerId" validate:"required"`
	AmountM3   int    `json:"amountM3" validate:"required,min=1"`
	LimitHours int    `json:"limitHours" validate:"min=0"`
}

// SubmitOrderResult reports the accepted order's identity and deadline.
type SubmitOrderResult struct {
	OrderID string `json:"orderId"`
	DueTime string `json:"dueTime,omitempty"`
}

// ReportBreakdownCommand declares a vehicle broken down. The incident
// class is inferred from the estimated repair time.
type ReportBreakdownCommand struct {
	VehicleID            string `json:"vehicleId" validate:"required,len=4"`
	Reason               string `json:"reason"`
	EstimatedRepairHours int    `json:"estimatedRepairHours" validate:"min=0"`
}

// ReportBreakdownResult reports the recorded incident.
type ReportBreakdownResult struct {
	IncidentID   string `json:"incidentId"`
	IncidentType string `json:"incidentType"`
	AvailableAt  string `json:"availableAt"`
}

// RepairVehicleCommand resolves a vehicle's active incident immediately.
type RepairVehicleCommand struct {
	VehicleID string `json:"vehicleId" validate:"required,len=4"`
}

// ChangeSpeedCommand adjusts the wall-clock tick period.
type ChangeSpeedCommand struct {
	TickPeriodMs int `json:"tickPeriodMs" validate:"required,min=1"`
}

// StartSimulationCommand begins (or resumes) the tick loop.
type StartSimulationCommand struct{}

// PauseSimulationCommand suspends ticking without losing state.
type PauseSimulationCommand struct{}

// ResetSimulationCommand restores the bootstrap state and stops the loop.
type ResetSimulationCommand struct{}
