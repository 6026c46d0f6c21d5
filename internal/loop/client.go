// Package loop drives one game in a terminal: it reads input, steps the
// simulation at a fixed frame rate and renders each frame with ANSI output.
package loop

import (
	"context"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/peterhellberg/gfx"
	"github.com/tomz197/orbshot/internal/config"
	"github.com/tomz197/orbshot/internal/draw"
	"github.com/tomz197/orbshot/internal/game"
	"github.com/tomz197/orbshot/internal/input"
	"github.com/tomz197/orbshot/internal/object"
)

// Options configures a client.
type Options struct {
	Config       config.Config
	TermSizeFunc draw.TermSizeFunc
	Logger       *log.Logger
	Rand         *rand.Rand

	// Inactivity limits; zero disables them.
	WarnAfter       time.Duration
	DisconnectAfter time.Duration
}

// Client handles rendering and input for a single game.
type Client struct {
	game         *game.Game
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates frame output for chunked writes
	writer       io.Writer
	inputStream  *input.Stream
	termSizeFunc draw.TermSizeFunc
	logger       *log.Logger
	frameTime    time.Duration

	warnAfter       time.Duration
	disconnectAfter time.Duration
	lastInput       time.Time
	isInactive      bool
}

// Run plays one game on the terminal behind r and w. It returns when the
// player quits, the game over screen has been shown, ctx is cancelled or the
// session has been idle for too long.
func Run(ctx context.Context, r io.ByteReader, w io.Writer, opts Options) error {
	return NewClient(r, w, opts).Run(ctx)
}

// NewClient creates a client with a fresh game.
func NewClient(r io.ByteReader, w io.Writer, opts Options) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	gameOpts := []game.Option{game.WithLogger(logger)}
	if opts.Rand != nil {
		gameOpts = append(gameOpts, game.WithRand(opts.Rand))
	}
	g := game.New(opts.Config, gameOpts...)

	// Create canvas with clamped dimensions for max render resolution
	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	field := g.Field()
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, field.Width, field.Height)
	canvas.SetOffset(offsetCol, offsetRow)

	return &Client{
		game:            g,
		canvas:          canvas,
		chunkWriter:     draw.NewChunkWriter(w, offsetCol, offsetRow),
		writer:          w,
		inputStream:     input.StartStream(r),
		termSizeFunc:    termSizeFunc,
		logger:          logger,
		frameTime:       opts.Config.Timing.TickTime(),
		warnAfter:       opts.WarnAfter,
		disconnectAfter: opts.DisconnectAfter,
		lastInput:       time.Now(),
	}
}

// Game returns the game driven by this client.
func (c *Client) Game() *game.Game {
	return c.game
}

// Run starts the client loop. Blocks until the game ends or ctx is done.
func (c *Client) Run(ctx context.Context) error {
	draw.HideCursor(c.writer)
	draw.EnableMouse(c.writer)
	defer func() {
		draw.ClearScreen(c.writer)
		draw.DisableMouse(c.writer)
		draw.ShowCursor(c.writer)
	}()
	draw.ClearScreen(c.writer)

	ticker := time.NewTicker(c.frameTime)
	defer ticker.Stop()

	lastTime := time.Now()
	for {
		frameStart := time.Now()
		delta := frameStart.Sub(lastTime)
		lastTime = frameStart

		c.updateScreen()

		raw := input.ReadInput(c.inputStream)
		if c.checkActivity(len(raw.Pressed) > 0, frameStart) {
			c.logger.Info("disconnecting idle session", "idle", frameStart.Sub(c.lastInput).Round(time.Second))
			return nil
		}

		c.game.Step(c.gameInput(raw), delta)

		if err := c.drawFrame(); err != nil {
			return err
		}
		if c.game.Done() {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// checkActivity tracks idle time and reports whether the session should be
// dropped. Past warnAfter the client shows a warning until input arrives.
func (c *Client) checkActivity(gotInput bool, now time.Time) bool {
	if gotInput {
		c.lastInput = now
		c.isInactive = false
		return false
	}
	idle := now.Sub(c.lastInput)
	if c.disconnectAfter > 0 && idle > c.disconnectAfter {
		return true
	}
	if c.warnAfter > 0 && idle > c.warnAfter {
		c.isInactive = true
	}
	return false
}

// gameInput converts terminal input to simulation input. Clicks outside the
// render area are dropped.
func (c *Client) gameInput(raw input.Input) game.Input {
	in := game.Input{
		Keys: object.Keys{
			Up:    raw.Up,
			Down:  raw.Down,
			Left:  raw.Left,
			Right: raw.Right,
		},
		Pause: raw.Pause,
		Quit:  raw.Quit,
	}
	for _, click := range raw.Clicks {
		x, y, ok := c.canvas.TerminalToLogical(click.Col, click.Row)
		if !ok {
			continue
		}
		in.Clicks = append(in.Clicks, gfx.V(x, y))
	}
	return in
}

// updateScreen handles terminal resize, clamping to max render resolution.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(termWidth, config.MaxTermWidth)
	renderHeight = min(termHeight, config.MaxTermHeight)
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}
