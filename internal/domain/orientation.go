package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidOrientation   = errors.New("invalid orientation")
	ErrInvalidTurnDirection = errors.New("invalid turn direction")
)

// Orientation is the cardinal heading the vehicle currently faces.
// Screen coordinates are used throughout: Y grows downwards.
type Orientation int

const (
	Up Orientation = iota
	Right
	Left
	Down
)

// Orientations lists every valid heading, for iteration.
func Orientations() []Orientation {
	return []Orientation{Up, Right, Left, Down}
}

func (o Orientation) String() string {
	switch o {
	case Up:
		return "up"
	case Right:
		return "right"
	case Left:
		return "left"
	case Down:
		return "down"
	default:
		return fmt.Sprintf("orientation(%d)", int(o))
	}
}

func (o Orientation) IsValid() bool {
	return o >= Up && o <= Down
}

// Vertical reports whether forward motion runs along the Y axis.
func (o Orientation) Vertical() bool {
	return o == Up || o == Down
}

func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return Up, nil
	case "right":
		return Right, nil
	case "left":
		return Left, nil
	case "down":
		return Down, nil
	}
	return 0, fmt.Errorf("parse orientation %q: %w", s, ErrInvalidOrientation)
}

func (o Orientation) MarshalText() ([]byte, error) {
	if !o.IsValid() {
		return nil, fmt.Errorf("marshal orientation %d: %w", int(o), ErrInvalidOrientation)
	}
	return []byte(o.String()), nil
}

func (o *Orientation) UnmarshalText(b []byte) error {
	v, err := ParseOrientation(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// TurnDirection is the rotational sense of a 90 degree turn.
type TurnDirection int

const (
	TurnLeft TurnDirection = iota
	TurnRight
)

func (d TurnDirection) String() string {
	switch d {
	case TurnLeft:
		return "left"
	case TurnRight:
		return "right"
	default:
		return fmt.Sprintf("turn(%d)", int(d))
	}
}

func (d TurnDirection) IsValid() bool {
	return d == TurnLeft || d == TurnRight
}

func ParseTurnDirection(s string) (TurnDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left":
		return TurnLeft, nil
	case "right":
		return TurnRight, nil
	}
	return 0, fmt.Errorf("parse turn direction %q: %w", s, ErrInvalidTurnDirection)
}

func (d TurnDirection) MarshalText() ([]byte, error) {
	if !d.IsValid() {
		return nil, fmt.Errorf("marshal turn direction %d: %w", int(d), ErrInvalidTurnDirection)
	}
	return []byte(d.String()), nil
}

func (d *TurnDirection) UnmarshalText(b []byte) error {
	v, err := ParseTurnDirection(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}
