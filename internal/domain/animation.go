package domain

import (
	"math"
	"time"
)

type TrackProperty string

const (
	PropertyX        TrackProperty = "x"
	PropertyY        TrackProperty = "y"
	PropertyRotation TrackProperty = "rotation"
)

type Curve string

const (
	CurveLinear  Curve = "linear"
	CurveEaseOut Curve = "ease_out"
)

const (
	MoveDuration   = 1 * time.Second
	TurnDuration   = 1 * time.Second
	RotateDuration = 900 * time.Millisecond
)

// Track animates one property of the vehicle's visual transform.
// Rotation deltas are in radians, positive clockwise on screen.
type Track struct {
	Property TrackProperty
	Delta    float64
	Duration time.Duration
	Curve    Curve
}

// Animation is the visual counterpart of one step. Its tracks touch
// different properties, so they may run concurrently; the step completes
// when every track has.
type Animation struct {
	Action Action
	Tracks []Track
}

func (a Animation) Duration() time.Duration {
	var d time.Duration
	for _, t := range a.Tracks {
		d = max(d, t.Duration)
	}
	return d
}

// AnimationFor builds the animation of an applied step.
func AnimationFor(step Step) Animation {
	switch a := step.Action.(type) {
	case Move:
		prop := PropertyX
		if step.Before.Orientation.Vertical() {
			prop = PropertyY
		}
		return Animation{
			Action: a,
			Tracks: []Track{{
				Property: prop,
				Delta:    step.Before.MovementSign() * a.Distance,
				Duration: MoveDuration,
				Curve:    CurveLinear,
			}},
		}

	case Turn:
		dx, dy := step.After.Position.Sub(step.Before.Position)

		// The axis the vehicle now drives along is linear, the other one eases out.
		curveX, curveY := CurveLinear, CurveEaseOut
		if step.After.Orientation.Vertical() {
			curveX, curveY = CurveEaseOut, CurveLinear
		}

		angle := math.Pi / 2
		if a.Direction == TurnLeft {
			angle = -angle
		}

		return Animation{
			Action: a,
			Tracks: []Track{
				{Property: PropertyY, Delta: dy, Duration: TurnDuration, Curve: curveY},
				{Property: PropertyX, Delta: dx, Duration: TurnDuration, Curve: curveX},
				{Property: PropertyRotation, Delta: angle, Duration: RotateDuration, Curve: CurveLinear},
			},
		}
	}

	return Animation{Action: step.Action}
}
