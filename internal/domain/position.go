package domain

import "math"

// Position is a point on the canvas, in the canvas's own coordinate space.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sub returns the component-wise delta p - o.
func (p Position) Sub(o Position) (dx, dy float64) {
	return p.X - o.X, p.Y - o.Y
}

func (p Position) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}
