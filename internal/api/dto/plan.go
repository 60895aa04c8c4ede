package dto

import "time"

type PlanRequest struct {
	X    *float64         `json:"x"`
	Y    *float64         `json:"y"`
	From *VehicleStateDTO `json:"from"`
}

type StepResponse struct {
	Action    string          `json:"action"`
	Distance  *float64        `json:"distance,omitempty"`
	Direction string          `json:"direction,omitempty"`
	After     VehicleStateDTO `json:"after"`
}

type ManeuverResponse struct {
	ManeuverID    string          `json:"maneuver_id,omitempty"`
	Status        string          `json:"status"`
	StartedAt     *time.Time      `json:"started_at,omitempty"`
	FinishedAt    *time.Time      `json:"finished_at,omitempty"`
	Start         VehicleStateDTO `json:"start"`
	Destination   PositionDTO     `json:"destination"`
	TotalDistance float64         `json:"total_distance"`
	Steps         []StepResponse  `json:"steps"`
}

type ListManeuversResponse struct {
	Maneuvers []ManeuverResponse `json:"maneuvers"`
}
