package control

// SimulationStatusQuery asks for the loop's control-surface view.
type SimulationStatusQuery struct{}

// EnvironmentQuery asks for the full world snapshot.
type EnvironmentQuery struct{}

// SpeedQuery asks for the current tick period.
type SpeedQuery struct{}

// SpeedResult carries the current tick period.
type SpeedResult struct {
	TickPeriodMs int `json:"tickPeriodMs"`
}
