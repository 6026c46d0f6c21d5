// Package window runs a game in a desktop window through ebiten.
package window

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/peterhellberg/gfx"
	"github.com/tomz197/orbshot/internal/game"
	"github.com/tomz197/orbshot/internal/object"
	"golang.org/x/image/font/basicfont"
)

var (
	background = color.RGBA{A: 0xff}
	textColor  = color.White
)

// Key bindings for movement.
var (
	upKeys    = []ebiten.Key{ebiten.KeyW, ebiten.KeyArrowUp}
	downKeys  = []ebiten.Key{ebiten.KeyS, ebiten.KeyArrowDown}
	leftKeys  = []ebiten.Key{ebiten.KeyA, ebiten.KeyArrowLeft}
	rightKeys = []ebiten.Key{ebiten.KeyD, ebiten.KeyArrowRight}
)

// Window adapts a game to ebiten.Game. The logical screen is the play field,
// so cursor positions are field coordinates.
type Window struct {
	game *game.Game
	now  func() time.Time
	last time.Time
}

var _ ebiten.Game = (*Window)(nil)

// New wraps g for ebiten.RunGame.
func New(g *game.Game) *Window {
	return &Window{
		game: g,
		now:  time.Now,
	}
}

// Update polls input and advances the game by the real time since the last call.
func (w *Window) Update() error {
	return w.step(pollInput(), w.now())
}

func (w *Window) step(in game.Input, now time.Time) error {
	var dt time.Duration
	if !w.last.IsZero() {
		dt = now.Sub(w.last)
	}
	w.last = now

	w.game.Step(in, dt)
	if w.game.Done() {
		return ebiten.Termination
	}
	return nil
}

func pollInput() game.Input {
	in := game.Input{
		Keys:  heldKeys(ebiten.IsKeyPressed),
		Pause: inpututil.IsKeyJustPressed(ebiten.KeyEscape),
		Quit:  inpututil.IsKeyJustPressed(ebiten.KeyQ),
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		in.Clicks = append(in.Clicks, gfx.V(float64(x), float64(y)))
	}
	return in
}

func heldKeys(pressed func(ebiten.Key) bool) object.Keys {
	held := func(keys []ebiten.Key) bool {
		for _, k := range keys {
			if pressed(k) {
				return true
			}
		}
		return false
	}
	return object.Keys{
		Up:    held(upKeys),
		Down:  held(downKeys),
		Left:  held(leftKeys),
		Right: held(rightKeys),
	}
}

// Draw renders the current frame.
func (w *Window) Draw(screen *ebiten.Image) {
	screen.Fill(background)

	frame := w.game.Frame()
	for _, c := range frame.Circles {
		vector.DrawFilledCircle(screen, float32(c.Center.X), float32(c.Center.Y), float32(c.Radius), c.Color, true)
	}

	if frame.HUD != "" {
		text.Draw(screen, frame.HUD, basicfont.Face7x13, 10, 20, textColor)
	}
	if frame.Overlay.Kind != game.OverlayNone {
		size := screen.Bounds().Size()
		x, y := centerText(frame.Overlay.Text, size.X, size.Y)
		text.Draw(screen, frame.Overlay.Text, basicfont.Face7x13, x, y, textColor)
	}
}

// Layout keeps the logical screen at the field size regardless of window size.
func (w *Window) Layout(_, _ int) (int, int) {
	f := w.game.Field()
	return int(f.Width), int(f.Height)
}

// centerText returns the text.Draw origin that centers s in a width x height area.
func centerText(s string, width, height int) (x, y int) {
	b := text.BoundString(basicfont.Face7x13, s)
	x = (width-b.Dx())/2 - b.Min.X
	y = (height-b.Dy())/2 - b.Min.Y
	return x, y
}
