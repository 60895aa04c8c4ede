package dto

import "car-maneuver-service/internal/domain"

func FromState(s domain.VehicleState) VehicleStateDTO {
	return VehicleStateDTO{
		Position:    PositionDTO{X: s.Position.X, Y: s.Position.Y},
		Orientation: s.Orientation.String(),
	}
}

func (s VehicleStateDTO) ToDomain() (domain.VehicleState, error) {
	o, err := domain.ParseOrientation(s.Orientation)
	if err != nil {
		return domain.VehicleState{}, err
	}
	state := domain.VehicleState{
		Position:    domain.Position{X: s.Position.X, Y: s.Position.Y},
		Orientation: o,
	}
	return state, state.Validate()
}

func FromManeuver(m *domain.Maneuver) ManeuverResponse {
	res := ManeuverResponse{
		ManeuverID:    m.ID,
		Status:        string(m.Status),
		FinishedAt:    m.FinishedAt,
		Start:         FromState(m.Start),
		Destination:   PositionDTO{X: m.Destination.X, Y: m.Destination.Y},
		TotalDistance: m.TotalDistance(),
		Steps:         make([]StepResponse, 0, len(m.Steps)),
	}
	if !m.StartedAt.IsZero() {
		t := m.StartedAt
		res.StartedAt = &t
	}

	for _, s := range m.Steps {
		step := StepResponse{
			Action: string(s.Action.Kind()),
			After:  FromState(s.After),
		}
		switch a := s.Action.(type) {
		case domain.Move:
			d := a.Distance
			step.Distance = &d
		case domain.Turn:
			step.Direction = a.Direction.String()
		}
		res.Steps = append(res.Steps, step)
	}

	return res
}
