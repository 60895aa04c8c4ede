package domain

import "time"

type ManeuverStatus string

const (
	StatusRunning ManeuverStatus = "running"
	StatusArrived ManeuverStatus = "arrived"
	StatusAborted ManeuverStatus = "aborted"
)

// Represents a single applied action within a maneuver.
// Before and After capture the vehicle state around the action.
type Step struct {
	Action Action
	Before VehicleState
	After  VehicleState
}

// Represents one trip of the vehicle towards a tapped destination.
// A Maneuver is the record of the steps the planner emitted until the
// vehicle arrived (or the run was aborted). Dry-run plans use the same
// shape with zero timestamps.
type Maneuver struct {
	ID          string
	StartedAt   time.Time
	FinishedAt  *time.Time
	Start       VehicleState
	Destination Position
	Steps       []Step
	Status      ManeuverStatus
}

// Final returns the vehicle state after the last recorded step.
func (m *Maneuver) Final() VehicleState {
	if len(m.Steps) == 0 {
		return m.Start
	}
	return m.Steps[len(m.Steps)-1].After
}

// TotalDistance sums the forward travel of every Move step.
func (m *Maneuver) TotalDistance() float64 {
	total := 0.0
	for _, s := range m.Steps {
		if mv, ok := s.Action.(Move); ok {
			total += mv.Distance
		}
	}
	return total
}

// Finish stamps the end time and final status.
func (m *Maneuver) Finish(status ManeuverStatus, at time.Time) {
	m.Status = status
	m.FinishedAt = &at
}
