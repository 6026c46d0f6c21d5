// Package object contains the game entities (player, enemies, projectiles)
// and the field geometry and draw primitive they share.
package object

import (
	"image/color"
	"math/rand"
	"time"

	"github.com/peterhellberg/gfx"
)

// Display colors. Core logic never inspects them.
var (
	ColorPlayer     = color.RGBA{R: 0x00, G: 0xff, B: 0x00, A: 0xff}
	ColorEnemy      = color.RGBA{R: 0xff, G: 0x00, B: 0x00, A: 0xff}
	ColorProjectile = color.RGBA{R: 0xff, G: 0xff, B: 0x00, A: 0xff}
)

// Field is the rectangular play area [0,Width]x[0,Height].
type Field struct {
	Width  float64
	Height float64
}

// ContainsPoint reports whether p lies inside the field, edges included.
func (f Field) ContainsPoint(p gfx.Vec) bool {
	return p.X >= 0 && p.X <= f.Width && p.Y >= 0 && p.Y <= f.Height
}

// ContainsCircle reports whether a circle of radius r centered at p fits entirely.
func (f Field) ContainsCircle(p gfx.Vec, r float64) bool {
	return p.X-r >= 0 && p.X+r <= f.Width && p.Y-r >= 0 && p.Y+r <= f.Height
}

// UpdateContext provides all the information an object needs during update.
type UpdateContext struct {
	Delta time.Duration
	Field Field
	Rand  *rand.Rand
}

// Circle is the only draw primitive: a solid disc.
type Circle struct {
	Center gfx.Vec
	Radius float64
	Color  color.RGBA
}

// Drawable is implemented by every entity.
type Drawable interface {
	Draw() Circle
}

var (
	_ Drawable = (*Player)(nil)
	_ Drawable = (*Enemy)(nil)
	_ Drawable = (*Projectile)(nil)
)

// Keys is the set of movement keys held during a tick.
type Keys struct {
	Up, Down, Left, Right bool
}

// randomUnit returns a uniformly sampled direction in the unit square,
// normalized. Degenerate zero samples are redrawn.
func randomUnit(rng *rand.Rand) gfx.Vec {
	for {
		v := gfx.V(rng.Float64()*2-1, rng.Float64()*2-1)
		if l := v.Len(); l > 1e-9 {
			return v.Scaled(1 / l)
		}
	}
}

// uniform returns a value in [lo, hi).
func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
