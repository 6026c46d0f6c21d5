package game

import (
	"github.com/peterhellberg/gfx"
	"github.com/tomz197/orbshot/internal/object"
)

// State is the current phase of a game.
type State int

const (
	StatePlaying       State = iota // Active gameplay
	StatePaused                     // Frozen until the pause toggle is pressed again
	StateLevelComplete              // Level-up banner, nothing moves
	StateCountdown                  // "Get Ready!" with the new wave visible
	StateGameOver                   // Player was hit; terminal
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateLevelComplete:
		return "level-complete"
	case StateCountdown:
		return "countdown"
	case StateGameOver:
		return "game-over"
	default:
		return "unknown"
	}
}

// Input is everything the presentation layer collected for one tick.
type Input struct {
	Keys   object.Keys // Movement keys currently held
	Clicks []gfx.Vec   // Fire targets in field coordinates, in click order
	Pause  bool        // Toggle pause
	Quit   bool
}

// OverlayKind identifies a transient full-screen message.
type OverlayKind int

const (
	OverlayNone OverlayKind = iota
	OverlayPaused
	OverlayLevelUp
	OverlayCountdown
	OverlayGameOver
)

// Overlay is a centered text message drawn on top of the field.
type Overlay struct {
	Kind OverlayKind
	Text string
}

// Frame is what the presentation layer draws for one tick.
type Frame struct {
	State   State
	Circles []object.Circle // Player first, then enemies, then projectiles
	HUD     string          // Kill counter; empty when not shown
	Kills   int
	Level   int
	Overlay Overlay
}

// Overlay texts.
const (
	PausedText   = "Paused - Press ESC to Resume"
	GameOverText = "Game Over"
)
