package object

import (
	"image/color"
	"math/rand"

	"github.com/peterhellberg/gfx"
	"github.com/tomz197/orbshot/internal/physics"
)

// Mode is an enemy's behavior for a single tick. It is derived from the
// distance to the player every time and never stored.
type Mode int

const (
	ModeRoam  Mode = iota // Wander and bounce off the field edges
	ModeChase             // Head straight for the player
)

func (m Mode) String() string {
	switch m {
	case ModeRoam:
		return "roam"
	case ModeChase:
		return "chase"
	default:
		return "unknown"
	}
}

// EnemyTuning holds the behavior parameters shared by all enemies.
type EnemyTuning struct {
	ChaseDistance float64
	RoamMin       float64 // Seconds
	RoamMax       float64 // Seconds, exclusive
}

// Enemy roams the field and chases the player once close enough.
type Enemy struct {
	Position  gfx.Vec
	Radius    float64
	Speed     float64
	Color     color.RGBA
	Direction gfx.Vec // Roaming direction, always unit length
	RoamTimer float64 // Seconds until Direction is re-randomized

	tuning EnemyTuning
}

// NewEnemy creates an enemy with a random roaming direction and timer.
func NewEnemy(pos gfx.Vec, radius, speed float64, tuning EnemyTuning, rng *rand.Rand) *Enemy {
	return &Enemy{
		Position:  pos,
		Radius:    radius,
		Speed:     speed,
		Color:     ColorEnemy,
		Direction: randomUnit(rng),
		RoamTimer: uniform(rng, tuning.RoamMin, tuning.RoamMax),
		tuning:    tuning,
	}
}

// Mode returns the behavior the enemy would use with the player at target.
func (e *Enemy) Mode(target gfx.Vec) Mode {
	if physics.Distance(e.Position, target) < e.tuning.ChaseDistance {
		return ModeChase
	}
	return ModeRoam
}

// Update moves the enemy for one tick given the player's position.
func (e *Enemy) Update(ctx UpdateContext, target gfx.Vec) {
	dt := ctx.Delta.Seconds()

	if e.Mode(target) == ModeChase {
		e.chase(target, dt)
		return
	}
	e.roam(ctx.Field, dt)
	e.tickRoamTimer(ctx.Rand, dt)
}

// chase moves straight toward target, ignoring the field edges.
func (e *Enemy) chase(target gfx.Vec, dt float64) {
	dir, ok := physics.Direction(e.Position, target)
	if !ok {
		return
	}
	e.Position = e.Position.Add(dir.Scaled(e.Speed * dt))
}

// roam advances along Direction, reflecting each axis independently when the
// prospective position would push the circle past an edge.
func (e *Enemy) roam(f Field, dt float64) {
	next := e.Position.Add(e.Direction.Scaled(e.Speed * dt))

	if next.X-e.Radius < 0 || next.X+e.Radius > f.Width {
		e.Direction.X = -e.Direction.X
	}
	if next.Y-e.Radius < 0 || next.Y+e.Radius > f.Height {
		e.Direction.Y = -e.Direction.Y
	}

	e.Position = e.Position.Add(e.Direction.Scaled(e.Speed * dt))
}

func (e *Enemy) tickRoamTimer(rng *rand.Rand, dt float64) {
	e.RoamTimer -= dt
	if e.RoamTimer <= 0 {
		e.Direction = randomUnit(rng)
		e.RoamTimer = uniform(rng, e.tuning.RoamMin, e.tuning.RoamMax)
	}
}

// Draw returns the enemy's circle.
func (e *Enemy) Draw() Circle {
	return Circle{Center: e.Position, Radius: e.Radius, Color: e.Color}
}

// GetPosition returns the enemy's center position.
func (e *Enemy) GetPosition() gfx.Vec {
	return e.Position
}

// GetRadius returns the enemy's collision radius.
func (e *Enemy) GetRadius() float64 {
	return e.Radius
}
