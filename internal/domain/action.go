package domain

import "math"

type ActionKind string

const (
	KindMove    ActionKind = "move"
	KindTurn    ActionKind = "turn"
	KindArrived ActionKind = "arrived"
)

// Action is the next atomic instruction produced by the planner.
// It is one of Move, Turn or Arrived.
type Action interface {
	Kind() ActionKind
	isAction()
}

// Move advances the vehicle forward along its current heading.
type Move struct {
	Distance float64
}

// NewMove clamps negative distances to zero.
func NewMove(distance float64) Move {
	return Move{Distance: math.Max(0, distance)}
}

func (Move) Kind() ActionKind { return KindMove }
func (Move) isAction()        {}

// Turn rotates the vehicle by 90 degrees.
type Turn struct {
	Direction TurnDirection
}

func (Turn) Kind() ActionKind { return KindTurn }
func (Turn) isAction()        {}

// Arrived means the destination is within tolerance; there is nothing left to do.
type Arrived struct{}

func (Arrived) Kind() ActionKind { return KindArrived }
func (Arrived) isAction()        {}

// Apply mutates the state according to the action. Arrived is a no-op.
func (s *VehicleState) Apply(a Action) {
	switch a := a.(type) {
	case Move:
		s.ApplyMove(a.Distance)
	case Turn:
		s.ApplyTurn(a.Direction)
	}
}
