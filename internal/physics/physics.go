// Package physics provides collision detection and distance utilities.
package physics

import "github.com/peterhellberg/gfx"

// Body is anything with a circular collision shape.
type Body interface {
	GetPosition() gfx.Vec
	GetRadius() float64
}

// Distance calculates the Euclidean distance between two points.
func Distance(a, b gfx.Vec) float64 {
	return a.To(b).Len()
}

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(a, b gfx.Vec) float64 {
	d := a.To(b)
	return d.X*d.X + d.Y*d.Y
}

// CirclesOverlap checks if two circles overlap. Touching circles do not.
func CirclesOverlap(p1 gfx.Vec, r1 float64, p2 gfx.Vec, r2 float64) bool {
	minDist := r1 + r2
	return DistanceSquared(p1, p2) < minDist*minDist
}

// Collides reports whether two bodies overlap.
func Collides(a, b Body) bool {
	return CirclesOverlap(a.GetPosition(), a.GetRadius(), b.GetPosition(), b.GetRadius())
}

// Direction returns the unit vector pointing from one point to another.
// ok is false when the points coincide and no direction exists.
func Direction(from, to gfx.Vec) (dir gfx.Vec, ok bool) {
	d := from.To(to)
	l := d.Len()
	if l == 0 {
		return gfx.Vec{}, false
	}
	return d.Scaled(1 / l), true
}
