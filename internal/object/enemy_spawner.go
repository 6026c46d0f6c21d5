package object

import (
	"math/rand"

	"github.com/peterhellberg/gfx"
)

// EnemySpawner creates fresh enemy waves in the right half of the field.
type EnemySpawner struct {
	Margin    int // Distance kept from the field edges
	MinRadius int
	MaxRadius int
	Tuning    EnemyTuning
}

// Spawn creates count enemies moving at speed. Positions and radii are
// integers: x in [W/2, W-margin], y in [margin, H-margin], radius in
// [MinRadius, MaxRadius], all inclusive.
func (s EnemySpawner) Spawn(f Field, count int, speed float64, rng *rand.Rand) []*Enemy {
	if count < 0 {
		count = 0
	}

	w := int(f.Width)
	h := int(f.Height)

	enemies := make([]*Enemy, 0, count)
	for i := 0; i < count; i++ {
		x := randInt(rng, w/2, w-s.Margin)
		y := randInt(rng, s.Margin, h-s.Margin)
		r := randInt(rng, s.MinRadius, s.MaxRadius)
		enemies = append(enemies, NewEnemy(gfx.V(float64(x), float64(y)), float64(r), speed, s.Tuning, rng))
	}
	return enemies
}

// randInt returns an integer in [lo, hi]. An empty range yields lo.
func randInt(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}
