// Package game runs the simulation: entity updates, collisions, level
// progression and the top-level state machine. It performs no I/O; drivers
// feed it input and elapsed time and draw the Frame it produces.
package game

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/peterhellberg/gfx"
	"github.com/tomz197/orbshot/internal/config"
	"github.com/tomz197/orbshot/internal/level"
	"github.com/tomz197/orbshot/internal/object"
	"github.com/tomz197/orbshot/internal/physics"
)

// Game is a single-player session. It is not safe for concurrent use; the
// driver goroutine is its only mutator.
type Game struct {
	cfg     config.Config
	field   object.Field
	rng     *rand.Rand
	logger  *log.Logger
	spawner object.EnemySpawner

	player      *object.Player
	enemies     []*object.Enemy
	projectiles []*object.Projectile
	levels      *level.Manager

	kills   int
	state   State
	elapsed time.Duration // Time spent in the current timed state
	notice  level.Notice  // Last level-up, shown during StateLevelComplete
	done    bool
}

// Option configures a Game.
type Option func(*Game)

// WithLogger sets the logger used for game events.
func WithLogger(l *log.Logger) Option {
	return func(g *Game) {
		g.logger = l
	}
}

// WithRand sets the random source used for spawning and roaming.
func WithRand(rng *rand.Rand) Option {
	return func(g *Game) {
		g.rng = rng
	}
}

// New creates a game at level 1 with its first enemy wave.
func New(cfg config.Config, opts ...Option) *Game {
	g := &Game{
		cfg:   cfg,
		field: object.Field{Width: cfg.Field.Width, Height: cfg.Field.Height},
		spawner: object.EnemySpawner{
			Margin:    cfg.Enemy.SpawnMargin,
			MinRadius: cfg.Enemy.MinRadius,
			MaxRadius: cfg.Enemy.MaxRadius,
			Tuning: object.EnemyTuning{
				ChaseDistance: cfg.Enemy.ChaseDistance,
				RoamMin:       cfg.Enemy.RoamMin,
				RoamMax:       cfg.Enemy.RoamMax,
			},
		},
		levels: level.New(cfg.Enemy.InitialCount, cfg.Enemy.InitialSpeed, cfg.Enemy.CountGrowth, cfg.Enemy.SpeedGrowth),
		state:  StatePlaying,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if g.logger == nil {
		g.logger = log.New(io.Discard)
	}

	g.player = object.NewPlayer(g.startPosition(), cfg.Player.Radius, cfg.Player.Speed)
	g.enemies = g.spawner.Spawn(g.field, g.levels.NumEnemies, g.levels.EnemySpeed, g.rng)

	g.logger.Debug("game started", "enemies", len(g.enemies), "speed", g.levels.EnemySpeed)
	return g
}

// startPosition is where the player begins every level.
func (g *Game) startPosition() gfx.Vec {
	return gfx.V(g.field.Width/10, g.field.Height/2)
}

// Step advances the game by one tick.
func (g *Game) Step(in Input, dt time.Duration) {
	if g.done {
		return
	}
	if in.Quit {
		g.done = true
		g.logger.Info("quit", "state", g.state, "level", g.levels.Level, "kills", g.kills)
		return
	}

	if dt < 0 {
		dt = 0
	}
	if limit := g.cfg.Timing.MaxDelta; limit > 0 && dt > limit {
		dt = limit
	}

	switch g.state {
	case StatePlaying:
		if in.Pause {
			g.state = StatePaused
			return
		}
		g.stepPlaying(in, dt)
	case StatePaused:
		if in.Pause {
			g.state = StatePlaying
		}
	case StateLevelComplete:
		g.advanceTimed(dt, g.cfg.Timing.LevelBanner, StateCountdown)
	case StateCountdown:
		g.advanceTimed(dt, g.cfg.Timing.Countdown, StatePlaying)
	case StateGameOver:
		g.elapsed += dt
		if g.elapsed >= g.cfg.Timing.GameOver {
			g.done = true
		}
	}
}

// advanceTimed moves to next once the current timed state has lasted d.
func (g *Game) advanceTimed(dt, d time.Duration, next State) {
	g.elapsed += dt
	if g.elapsed >= d {
		g.state = next
		g.elapsed = 0
	}
}

// stepPlaying runs one simulation tick: fire, move, collide, level up.
func (g *Game) stepPlaying(in Input, dt time.Duration) {
	ctx := object.UpdateContext{
		Delta: dt,
		Field: g.field,
		Rand:  g.rng,
	}

	for _, target := range in.Clicks {
		g.fire(target)
	}

	g.player.Move(ctx, in.Keys)

	if g.updateEnemies(ctx) {
		return
	}
	g.updateProjectiles(ctx)

	if len(g.enemies) == 0 {
		g.nextLevel()
	}
}

// fire launches a projectile from the player toward target.
func (g *Game) fire(target gfx.Vec) {
	p, ok := object.NewProjectile(g.player.Position, target, g.cfg.Projectile.Radius, g.cfg.Projectile.Speed)
	if !ok {
		return
	}
	g.projectiles = append(g.projectiles, p)
}

// updateEnemies moves every enemy and reports whether one reached the player.
// The first contact ends the game and skips the rest of the tick.
func (g *Game) updateEnemies(ctx object.UpdateContext) bool {
	for _, e := range g.enemies {
		e.Update(ctx, g.player.Position)
		if physics.Collides(g.player, e) {
			g.gameOver()
			return true
		}
	}
	return false
}

// updateProjectiles moves projectiles and resolves hits. Each projectile
// kills at most the first live enemy it overlaps. Removals are applied after
// traversal.
func (g *Game) updateProjectiles(ctx object.UpdateContext) {
	dead := make([]bool, len(g.enemies))

	kept := g.projectiles[:0] // reuse backing array
	for _, p := range g.projectiles {
		p.Update(ctx)
		if p.OffScreen(ctx.Field) {
			continue
		}
		if g.hitFirst(p, dead) {
			continue
		}
		kept = append(kept, p)
	}
	clear(g.projectiles[len(kept):])
	g.projectiles = kept

	alive := g.enemies[:0]
	for i, e := range g.enemies {
		if !dead[i] {
			alive = append(alive, e)
		}
	}
	clear(g.enemies[len(alive):])
	g.enemies = alive
}

// hitFirst marks the first live enemy overlapping p as dead.
func (g *Game) hitFirst(p *object.Projectile, dead []bool) bool {
	for i, e := range g.enemies {
		if dead[i] {
			continue
		}
		if physics.Collides(p, e) {
			dead[i] = true
			g.kills++
			return true
		}
	}
	return false
}

// nextLevel replaces the wave, clears shots and resets the player.
func (g *Game) nextLevel() {
	g.notice = g.levels.LevelUp()
	g.enemies = g.spawner.Spawn(g.field, g.levels.NumEnemies, g.levels.EnemySpeed, g.rng)
	clear(g.projectiles)
	g.projectiles = g.projectiles[:0]
	g.player.Position = g.startPosition()

	g.state = StateLevelComplete
	g.elapsed = 0

	g.logger.Info("level up",
		"level", g.levels.Level,
		"enemies", g.levels.NumEnemies,
		"speed", g.levels.EnemySpeed,
		"kills", g.kills)
}

func (g *Game) gameOver() {
	g.state = StateGameOver
	g.elapsed = 0
	g.logger.Info("game over", "level", g.levels.Level, "kills", g.kills)
}

// Frame returns what should be drawn for the current state.
func (g *Game) Frame() Frame {
	f := Frame{
		State: g.state,
		Kills: g.kills,
		Level: g.levels.Level,
	}

	switch g.state {
	case StatePlaying:
		f.Circles = g.circles(true)
		f.HUD = fmt.Sprintf("Enemies Killed: %d", g.kills)
	case StatePaused:
		f.Overlay = Overlay{Kind: OverlayPaused, Text: PausedText}
	case StateLevelComplete:
		f.Overlay = Overlay{Kind: OverlayLevelUp, Text: g.notice.Message()}
	case StateCountdown:
		f.Circles = g.circles(false)
		if n := g.CountdownSeconds(); n > 0 {
			f.Overlay = Overlay{Kind: OverlayCountdown, Text: fmt.Sprintf("Get Ready! %d", n)}
		}
	case StateGameOver:
		f.Overlay = Overlay{Kind: OverlayGameOver, Text: GameOverText}
	}
	return f
}

// circles collects the draw list: player, enemies, then projectiles.
func (g *Game) circles(withProjectiles bool) []object.Circle {
	items := make([]object.Drawable, 0, 1+len(g.enemies)+len(g.projectiles))
	items = append(items, g.player)
	for _, e := range g.enemies {
		items = append(items, e)
	}
	if withProjectiles {
		for _, p := range g.projectiles {
			items = append(items, p)
		}
	}

	out := make([]object.Circle, len(items))
	for i, d := range items {
		out[i] = d.Draw()
	}
	return out
}

// CountdownSeconds returns the whole seconds left before play resumes, or 0
// outside the countdown.
func (g *Game) CountdownSeconds() int {
	if g.state != StateCountdown {
		return 0
	}
	left := (g.cfg.Timing.Countdown - g.elapsed).Seconds()
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(left))
}

// State returns the current phase.
func (g *Game) State() State {
	return g.state
}

// Done reports whether the driver should stop: after quit, or once the game
// over screen has been shown long enough.
func (g *Game) Done() bool {
	return g.done
}

// Kills returns the number of enemies destroyed so far.
func (g *Game) Kills() int {
	return g.kills
}

// Level returns the current level number.
func (g *Game) Level() int {
	return g.levels.Level
}

// Field returns the play field dimensions.
func (g *Game) Field() object.Field {
	return g.field
}

// Player returns the player entity.
func (g *Game) Player() *object.Player {
	return g.player
}

// Enemies returns the live enemies. The slice must not be modified.
func (g *Game) Enemies() []*object.Enemy {
	return g.enemies
}

// Projectiles returns the live projectiles. The slice must not be modified.
func (g *Game) Projectiles() []*object.Projectile {
	return g.projectiles
}
