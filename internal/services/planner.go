package services

import (
	"car-maneuver-service/internal/domain"
	"errors"
	"fmt"
	"math"
)

const DefaultMaxSteps = 32

var ErrPlanDidNotConverge = errors.New("plan did not converge")

type turnChoiceKey struct {
	heading domain.Orientation
	// negative is the sign of the cross-axis delta: deltaX for Up/Down,
	// deltaY for Left/Right.
	negative bool
}

// Which way to turn once the current heading has no forward progress left.
// Forward differs per heading, so the mapping is not a plain sign rule.
var turnChoice = map[turnChoiceKey]domain.TurnDirection{
	{domain.Up, true}:     domain.TurnLeft,
	{domain.Up, false}:    domain.TurnRight,
	{domain.Down, true}:   domain.TurnRight,
	{domain.Down, false}:  domain.TurnLeft,
	{domain.Left, true}:   domain.TurnRight,
	{domain.Left, false}:  domain.TurnLeft,
	{domain.Right, true}:  domain.TurnLeft,
	{domain.Right, false}: domain.TurnRight,
}

// NextAction decides the next atomic step towards destination.
//
// The vehicle drives straight while its heading still makes progress beyond
// the turning radius, stopping one radius short so it brakes into tolerance.
// Otherwise it turns towards the destination. Within one radius on both
// axes it has arrived.
func NextAction(state domain.VehicleState, destination domain.Position) domain.Action {
	const r = domain.TurningRadius

	dx, dy := destination.Sub(state.CurrentPosition())

	if math.Abs(dx) <= r && math.Abs(dy) <= r {
		return domain.Arrived{}
	}

	along, cross := dx, dy
	if state.Orientation.Vertical() {
		along, cross = dy, dx
	}

	// Forward progress: the destination lies ahead by more than one radius.
	if state.Orientation.IsValid() && state.MovementSign()*along > r {
		return domain.NewMove(math.Abs(along) - r)
	}

	dir, ok := turnChoice[turnChoiceKey{heading: state.Orientation, negative: cross < 0}]
	if !ok {
		return domain.Arrived{}
	}
	return domain.Turn{Direction: dir}
}

// PlanManeuver runs the planner against a copy of start without animating
// anything and returns the steps up to arrival. The trailing Arrived action
// is not recorded as a step.
func PlanManeuver(start domain.VehicleState, destination domain.Position, maxSteps int) (*domain.Maneuver, error) {
	if err := start.Validate(); err != nil {
		return nil, fmt.Errorf("plan maneuver: %w", err)
	}
	if !destination.IsFinite() {
		return nil, fmt.Errorf("plan maneuver: %w", ErrInvalidDestination)
	}
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}

	m := &domain.Maneuver{
		Start:       start,
		Destination: destination,
		Steps:       []domain.Step{},
	}

	state := start
	for {
		action := NextAction(state, destination)
		if action.Kind() == domain.KindArrived {
			m.Status = domain.StatusArrived
			return m, nil
		}

		if len(m.Steps) >= maxSteps {
			return nil, fmt.Errorf("plan maneuver: %w after %d steps", ErrPlanDidNotConverge, maxSteps)
		}

		before := state
		state.Apply(action)
		m.Steps = append(m.Steps, domain.Step{Action: action, Before: before, After: state})
	}
}
