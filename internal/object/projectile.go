package object

import (
	"image/color"

	"github.com/peterhellberg/gfx"
	"github.com/tomz197/orbshot/internal/physics"
)

// Projectile is a shot fired by the player toward a clicked point.
type Projectile struct {
	Position gfx.Vec
	Radius   float64
	Speed    float64
	Color    color.RGBA

	direction gfx.Vec // Fixed at creation
}

// NewProjectile creates a projectile at origin heading toward target.
// It returns false when target equals origin, since no heading exists.
func NewProjectile(origin, target gfx.Vec, radius, speed float64) (*Projectile, bool) {
	dir, ok := physics.Direction(origin, target)
	if !ok {
		return nil, false
	}
	return &Projectile{
		Position:  origin,
		Radius:    radius,
		Speed:     speed,
		Color:     ColorProjectile,
		direction: dir,
	}, true
}

// Direction returns the fixed unit heading.
func (p *Projectile) Direction() gfx.Vec {
	return p.direction
}

// Update moves the projectile along its heading.
func (p *Projectile) Update(ctx UpdateContext) {
	p.Position = p.Position.Add(p.direction.Scaled(p.Speed * ctx.Delta.Seconds()))
}

// OffScreen reports whether the center has left the field. A center lying
// exactly on an edge is still on screen.
func (p *Projectile) OffScreen(f Field) bool {
	return !f.ContainsPoint(p.Position)
}

// Draw returns the projectile's circle.
func (p *Projectile) Draw() Circle {
	return Circle{Center: p.Position, Radius: p.Radius, Color: p.Color}
}

// GetPosition returns the projectile's center position.
func (p *Projectile) GetPosition() gfx.Vec {
	return p.Position
}

// GetRadius returns the projectile's collision radius.
func (p *Projectile) GetRadius() float64 {
	return p.Radius
}
