package object

import (
	"image/color"

	"github.com/peterhellberg/gfx"
)

// Player is the keyboard-controlled circle.
type Player struct {
	Position gfx.Vec
	Radius   float64
	Speed    float64 // Units per second along each axis
	Color    color.RGBA
}

// NewPlayer creates a player at the given position.
func NewPlayer(pos gfx.Vec, radius, speed float64) *Player {
	return &Player{
		Position: pos,
		Radius:   radius,
		Speed:    speed,
		Color:    ColorPlayer,
	}
}

// Move shifts the player along every held axis and keeps the whole circle
// inside the field. A step that would cross the wall stops at the wall
// instead of being rejected. Axes are independent, so diagonal movement is
// faster than straight movement.
func (p *Player) Move(ctx UpdateContext, keys Keys) {
	step := p.Speed * ctx.Delta.Seconds()
	f := ctx.Field

	if keys.Up {
		p.Position.Y = gfx.Clamp(p.Position.Y-step, p.Radius, f.Height-p.Radius)
	}
	if keys.Down {
		p.Position.Y = gfx.Clamp(p.Position.Y+step, p.Radius, f.Height-p.Radius)
	}
	if keys.Left {
		p.Position.X = gfx.Clamp(p.Position.X-step, p.Radius, f.Width-p.Radius)
	}
	if keys.Right {
		p.Position.X = gfx.Clamp(p.Position.X+step, p.Radius, f.Width-p.Radius)
	}
}

// Draw returns the player's circle.
func (p *Player) Draw() Circle {
	return Circle{Center: p.Position, Radius: p.Radius, Color: p.Color}
}

// GetPosition returns the player's center position.
func (p *Player) GetPosition() gfx.Vec {
	return p.Position
}

// GetRadius returns the player's collision radius.
func (p *Player) GetRadius() float64 {
	return p.Radius
}
