package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. ORBSHOT_PLAYER_SPEED.
const EnvPrefix = "ORBSHOT"

// Terminal rendering limits. Larger terminals get a centered render area.
const (
	MaxTermWidth  = 200
	MaxTermHeight = 60
)

// Inactivity (SSH sessions only)
const (
	InactivityWarnUser       = 90 * time.Second
	InactivityDisconnectUser = 120 * time.Second
)

// Shutdown
const (
	ShutdownDrainTimeout = 15 * time.Second
)

// Config holds every tunable of the game.
type Config struct {
	Field      FieldConfig      `mapstructure:"field"`
	Player     PlayerConfig     `mapstructure:"player"`
	Enemy      EnemyConfig      `mapstructure:"enemy"`
	Projectile ProjectileConfig `mapstructure:"projectile"`
	Timing     TimingConfig     `mapstructure:"timing"`
}

// FieldConfig is the size of the play field in logical units.
type FieldConfig struct {
	Width  float64 `mapstructure:"width"`
	Height float64 `mapstructure:"height"`
}

// PlayerConfig tunes the player circle.
type PlayerConfig struct {
	Radius float64 `mapstructure:"radius"`
	Speed  float64 `mapstructure:"speed"` // units per second
}

// EnemyConfig tunes enemy behavior, spawning and per-level growth.
type EnemyConfig struct {
	ChaseDistance float64 `mapstructure:"chase_distance"`
	InitialCount  int     `mapstructure:"initial_count"`
	InitialSpeed  float64 `mapstructure:"initial_speed"`
	CountGrowth   int     `mapstructure:"count_growth"`
	SpeedGrowth   float64 `mapstructure:"speed_growth"`
	RoamMin       float64 `mapstructure:"roam_min"` // seconds
	RoamMax       float64 `mapstructure:"roam_max"` // seconds, exclusive
	SpawnMargin   int     `mapstructure:"spawn_margin"`
	MinRadius     int     `mapstructure:"min_radius"`
	MaxRadius     int     `mapstructure:"max_radius"`
}

// ProjectileConfig tunes fired projectiles.
type ProjectileConfig struct {
	Radius float64 `mapstructure:"radius"`
	Speed  float64 `mapstructure:"speed"`
}

// TimingConfig controls tick rate and the length of timed screens.
type TimingConfig struct {
	TickRate    int           `mapstructure:"tick_rate"`
	MaxDelta    time.Duration `mapstructure:"max_delta"` // 0 disables clamping
	LevelBanner time.Duration `mapstructure:"level_banner"`
	Countdown   time.Duration `mapstructure:"countdown"`
	GameOver    time.Duration `mapstructure:"game_over"`
}

// TickTime returns the target duration of one tick.
func (t TimingConfig) TickTime() time.Duration {
	return time.Second / time.Duration(t.TickRate)
}

// Default returns the stock tuning.
func Default() Config {
	return Config{
		Field: FieldConfig{Width: 1280, Height: 720},
		Player: PlayerConfig{
			Radius: 40,
			Speed:  300,
		},
		Enemy: EnemyConfig{
			ChaseDistance: 300,
			InitialCount:  5,
			InitialSpeed:  50,
			CountGrowth:   5,
			SpeedGrowth:   20,
			RoamMin:       1,
			RoamMax:       3,
			SpawnMargin:   30,
			MinRadius:     10,
			MaxRadius:     30,
		},
		Projectile: ProjectileConfig{
			Radius: 10,
			Speed:  500,
		},
		Timing: TimingConfig{
			TickRate:    60,
			LevelBanner: 2 * time.Second,
			Countdown:   2 * time.Second,
			GameOver:    2 * time.Second,
		},
	}
}

// Load reads the configuration from defaults, the optional file at path and
// ORBSHOT_* environment variables, in increasing order of precedence.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("field.width", d.Field.Width)
	v.SetDefault("field.height", d.Field.Height)

	v.SetDefault("player.radius", d.Player.Radius)
	v.SetDefault("player.speed", d.Player.Speed)

	v.SetDefault("enemy.chase_distance", d.Enemy.ChaseDistance)
	v.SetDefault("enemy.initial_count", d.Enemy.InitialCount)
	v.SetDefault("enemy.initial_speed", d.Enemy.InitialSpeed)
	v.SetDefault("enemy.count_growth", d.Enemy.CountGrowth)
	v.SetDefault("enemy.speed_growth", d.Enemy.SpeedGrowth)
	v.SetDefault("enemy.roam_min", d.Enemy.RoamMin)
	v.SetDefault("enemy.roam_max", d.Enemy.RoamMax)
	v.SetDefault("enemy.spawn_margin", d.Enemy.SpawnMargin)
	v.SetDefault("enemy.min_radius", d.Enemy.MinRadius)
	v.SetDefault("enemy.max_radius", d.Enemy.MaxRadius)

	v.SetDefault("projectile.radius", d.Projectile.Radius)
	v.SetDefault("projectile.speed", d.Projectile.Speed)

	v.SetDefault("timing.tick_rate", d.Timing.TickRate)
	v.SetDefault("timing.max_delta", d.Timing.MaxDelta)
	v.SetDefault("timing.level_banner", d.Timing.LevelBanner)
	v.SetDefault("timing.countdown", d.Timing.Countdown)
	v.SetDefault("timing.game_over", d.Timing.GameOver)
}

// Validate reports every out-of-range tunable at once.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Field.Width > 0 && c.Field.Height > 0,
		"field must have positive size, got %gx%g", c.Field.Width, c.Field.Height)

	check(c.Player.Radius > 0, "player.radius must be > 0, got %g", c.Player.Radius)
	check(c.Player.Speed >= 0, "player.speed must be >= 0, got %g", c.Player.Speed)
	check(2*c.Player.Radius <= c.Field.Width && 2*c.Player.Radius <= c.Field.Height,
		"player (radius %g) does not fit in the field", c.Player.Radius)

	e := c.Enemy
	check(e.ChaseDistance >= 0, "enemy.chase_distance must be >= 0, got %g", e.ChaseDistance)
	check(e.InitialCount >= 1, "enemy.initial_count must be >= 1, got %d", e.InitialCount)
	check(e.InitialSpeed >= 0, "enemy.initial_speed must be >= 0, got %g", e.InitialSpeed)
	check(e.CountGrowth >= 0, "enemy.count_growth must be >= 0, got %d", e.CountGrowth)
	check(e.SpeedGrowth >= 0, "enemy.speed_growth must be >= 0, got %g", e.SpeedGrowth)
	check(e.RoamMin > 0 && e.RoamMax > e.RoamMin,
		"enemy roam interval must satisfy 0 < roam_min < roam_max, got [%g, %g)", e.RoamMin, e.RoamMax)
	check(e.MinRadius > 0 && e.MaxRadius >= e.MinRadius,
		"enemy radius range must satisfy 0 < min_radius <= max_radius, got [%d, %d]", e.MinRadius, e.MaxRadius)
	check(e.SpawnMargin >= 0, "enemy.spawn_margin must be >= 0, got %d", e.SpawnMargin)
	check(float64(e.SpawnMargin) <= c.Field.Width/2 && float64(2*e.SpawnMargin) <= c.Field.Height,
		"enemy.spawn_margin %d leaves no spawn area", e.SpawnMargin)

	check(c.Projectile.Radius > 0, "projectile.radius must be > 0, got %g", c.Projectile.Radius)
	check(c.Projectile.Speed > 0, "projectile.speed must be > 0, got %g", c.Projectile.Speed)

	t := c.Timing
	check(t.TickRate > 0, "timing.tick_rate must be > 0, got %d", t.TickRate)
	check(t.MaxDelta >= 0, "timing.max_delta must be >= 0, got %s", t.MaxDelta)
	check(t.LevelBanner >= 0 && t.Countdown >= 0 && t.GameOver >= 0,
		"timed screens must not be negative")

	return errors.Join(errs...)
}
