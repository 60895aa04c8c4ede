package domain

import (
	"errors"
	"fmt"
	"math"
)

const (
	CarWidth  = 50.0
	CarLength = 100.0

	// TurningRadius is both the arrival tolerance and the per-axis
	// displacement of a 90 degree turn.
	TurningRadius = 70.0
)

var ErrInvalidState = errors.New("invalid vehicle state")

// Vehicle aggregate: the single car of a session, its reference point
// (the center of its footprint) and its heading.
//
// VehicleState is a value; applying an action mutates it in place and it
// carries no rendering state.
type VehicleState struct {
	Position    Position    `json:"position"`
	Orientation Orientation `json:"orientation"`
}

// InitialState places the vehicle the way a fresh session starts: facing Up,
// horizontally centered, rear bumper on the bottom edge of the canvas.
func InitialState(canvasWidth, canvasHeight float64) VehicleState {
	return VehicleState{
		Position: Position{
			X: canvasWidth / 2,
			Y: canvasHeight - CarLength/2,
		},
		Orientation: Up,
	}
}

func (s VehicleState) Validate() error {
	if !s.Orientation.IsValid() {
		return fmt.Errorf("validate vehicle state: %w: orientation %d", ErrInvalidState, int(s.Orientation))
	}
	if !s.Position.IsFinite() {
		return fmt.Errorf("validate vehicle state: %w: position (%v, %v)", ErrInvalidState, s.Position.X, s.Position.Y)
	}
	return nil
}

func (s VehicleState) CurrentPosition() Position { return s.Position }

// MovementSign is +1 when forward increases the moving coordinate (Down,
// Right) and -1 when it decreases it (Up, Left).
func (s VehicleState) MovementSign() float64 {
	switch s.Orientation {
	case Down, Right:
		return 1
	default:
		return -1
	}
}

// ApplyMove advances the vehicle forward along its heading.
func (s *VehicleState) ApplyMove(distance float64) {
	d := s.MovementSign() * distance
	if s.Orientation.Vertical() {
		s.Position.Y += d
		return
	}
	s.Position.X += d
}

type turnKey struct {
	from Orientation
	dir  TurnDirection
}

// TurnTransition is one row of the turn table: the heading after the turn
// and the displacement, in units of TurningRadius, applied to the center.
type TurnTransition struct {
	To     Orientation
	DX, DY float64
}

// Each direction forms a 4-cycle whose displacements sum to zero.
var turnTable = map[turnKey]TurnTransition{
	{Up, TurnRight}:    {To: Right, DX: +1, DY: -1},
	{Right, TurnRight}: {To: Down, DX: +1, DY: +1},
	{Down, TurnRight}:  {To: Left, DX: -1, DY: +1},
	{Left, TurnRight}:  {To: Up, DX: -1, DY: -1},

	{Up, TurnLeft}:    {To: Left, DX: -1, DY: -1},
	{Right, TurnLeft}: {To: Up, DX: +1, DY: -1},
	{Down, TurnLeft}:  {To: Right, DX: +1, DY: +1},
	{Left, TurnLeft}:  {To: Down, DX: -1, DY: +1},
}

// Transition looks up the turn table. ok is false for an invalid pair.
func Transition(from Orientation, dir TurnDirection) (TurnTransition, bool) {
	t, ok := turnTable[turnKey{from: from, dir: dir}]
	return t, ok
}

// ApplyTurn rotates the heading by 90 degrees and shifts the center
// diagonally by TurningRadius on each axis. It returns the displacement.
// An invalid (orientation, direction) pair leaves the state untouched.
func (s *VehicleState) ApplyTurn(dir TurnDirection) (dx, dy float64) {
	t, ok := Transition(s.Orientation, dir)
	if !ok {
		return 0, 0
	}

	dx, dy = t.DX*TurningRadius, t.DY*TurningRadius
	s.Position.X += dx
	s.Position.Y += dy
	s.Orientation = t.To
	return dx, dy
}

// Contains reports whether p falls on the vehicle's footprint.
// The footprint is CarWidth across the heading and CarLength along it.
func (s VehicleState) Contains(p Position) bool {
	halfX, halfY := CarWidth/2, CarLength/2
	if !s.Orientation.Vertical() {
		halfX, halfY = halfY, halfX
	}

	dx, dy := p.Sub(s.Position)
	return math.Abs(dx) <= halfX && math.Abs(dy) <= halfY
}
