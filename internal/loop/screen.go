package loop

import (
	"fmt"
	"time"

	"github.com/tomz197/orbshot/internal/draw"
	"github.com/tomz197/orbshot/internal/game"
)

const controlsHint = "WASD/Arrows move  Click fire  ESC pause  Q quit"

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	frame := c.game.Frame()

	c.chunkWriter.WriteString("\033[H\033[2J")
	c.canvas.Clear()

	for _, circle := range frame.Circles {
		c.canvas.DrawCircle(draw.Point{X: circle.Center.X, Y: circle.Center.Y}, circle.Radius, circle.Color)
	}

	// Render canvas to terminal
	c.canvas.Render(c.chunkWriter)

	// Draw border when terminal exceeds max render resolution
	c.canvas.RenderBorder(c.chunkWriter)

	c.drawUI(frame)

	return c.chunkWriter.Flush()
}

// drawUI draws the HUD and any overlay on top of the canvas.
func (c *Client) drawUI(frame game.Frame) {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	if c.isInactive {
		c.drawInactivityScreen(centerX, centerY)
		return
	}

	if frame.HUD != "" {
		c.chunkWriter.WriteAt(2, 1, frame.HUD)
	}

	switch frame.Overlay.Kind {
	case game.OverlayNone:
	case game.OverlayPaused:
		c.writeCentered(centerX, centerY, frame.Overlay.Text)
		c.writeCentered(centerX, centerY+2, controlsHint)
	case game.OverlayGameOver:
		c.writeCentered(centerX, centerY, frame.Overlay.Text)
		c.writeCentered(centerX, centerY+2, fmt.Sprintf("Enemies Killed: %d  Level: %d", frame.Kills, frame.Level))
	default:
		c.writeCentered(centerX, centerY, frame.Overlay.Text)
	}
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerX, centerY int) {
	title := "INACTIVITY WARNING"
	c.writeCentered(centerX, centerY-2, title)

	left := c.disconnectAfter - time.Since(c.lastInput)
	msg := fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.",
		max(int(left.Seconds()), 0),
	)
	c.writeCentered(centerX, centerY, msg)

	hint := "Press any key to continue"
	c.writeCentered(centerX, centerY+2, hint)
}

func (c *Client) writeCentered(centerX, row int, s string) {
	c.chunkWriter.WriteAt(max(centerX-len(s)/2, 1), row, s)
}
