package world

import "math"

// Position is a point in the world plane, [0, WorldSize) on each axis.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dist returns the Euclidean distance between two positions.
func Dist(a, b Position) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// InBounds reports whether p lies inside the world square.
func InBounds(p Position) bool {
	return p.X >= 0 && p.X < WorldSize && p.Y >= 0 && p.Y < WorldSize
}

// StepToward advances from by at most speed units toward to. Returns the new
// position and whether to was reached.
func StepToward(from, to Position, speed float64) (Position, bool) {
	d := Dist(from, to)
	if d <= speed {
		return to, true
	}
	f := speed / d
	return Position{X: from.X + (to.X-from.X)*f, Y: from.Y + (to.Y-from.Y)*f}, false
}

// Clamp forces p into world bounds.
func Clamp(p Position) Position {
	if p.X < 0 {
		p.X = 0
	} else if p.X >= WorldSize {
		p.X = math.Nextafter(WorldSize, 0)
	}
	if p.Y < 0 {
		p.Y = 0
	} else if p.Y >= WorldSize {
		p.Y = math.Nextafter(WorldSize, 0)
	}
	return p
}
