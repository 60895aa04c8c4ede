package dto

type PositionDTO struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type VehicleStateDTO struct {
	Position    PositionDTO `json:"position"`
	Orientation string      `json:"orientation"`
}

type VehicleResponse struct {
	VehicleStateDTO
	Busy          bool    `json:"busy"`
	ManeuverID    string  `json:"maneuver_id,omitempty"`
	Width         float64 `json:"width"`
	Length        float64 `json:"length"`
	TurningRadius float64 `json:"turning_radius"`
}

type TapRequest struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

type TapResponse struct {
	ManeuverID  string      `json:"maneuver_id"`
	Destination PositionDTO `json:"destination"`
}
