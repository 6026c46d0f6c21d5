package draw

import (
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"
)

// Canvas is a drawing buffer with 2x vertical resolution using half-block characters.
// Supports scaling from logical coordinates to actual terminal pixels.
type Canvas struct {
	termWidth      int          // Actual terminal columns
	termHeight     int          // Actual terminal rows
	subPixelHeight int          // termHeight * 2
	pixels         []color.RGBA // Flat slice: [y * termWidth + x]; alpha 0 means empty

	// Scaling from logical to pixel coordinates
	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// Offset for centering the render area when terminal is larger than max resolution.
	// These are 0-based terminal offsets (columns/rows to skip).
	offsetCol int
	offsetRow int

	renderBuf strings.Builder // Reused across frames
	numBuf    [20]byte
}

// NewScaledCanvas creates a canvas that scales from logical coordinates to terminal pixels.
// logicalWidth/Height define the coordinate space used by game objects.
// termWidth/Height are the actual terminal dimensions.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
	}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	termWidth = max(termWidth, 1)
	termHeight = max(termHeight, 1)
	subPixelHeight := termHeight * 2

	if termWidth != c.termWidth || termHeight != c.termHeight {
		c.pixels = make([]color.RGBA, subPixelHeight*termWidth)
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = subPixelHeight
	}

	c.scaleX = float64(termWidth) / c.logicalWidth
	c.scaleY = float64(subPixelHeight) / c.logicalHeight
}

// SetOffset sets the column and row offset for centering the canvas.
// Offsets are 0-based terminal positions: the canvas starts at (offsetCol+1, offsetRow+1).
func (c *Canvas) SetOffset(col, row int) {
	c.offsetCol = col
	c.offsetRow = row
}

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// setPixel sets a pixel at actual terminal coordinates (no scaling).
func (c *Canvas) setPixel(x, y int, col color.RGBA) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = col
	}
}

// At returns the pixel at terminal pixel coordinates; alpha 0 means empty.
func (c *Canvas) At(x, y int) color.RGBA {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return color.RGBA{}
	}
	return c.pixels[y*c.termWidth+x]
}

// DrawCircle fills a circle given in logical coordinates. Since the axes scale
// independently it becomes an ellipse in pixel space. A circle smaller than a
// pixel still sets the pixel under its center.
func (c *Canvas) DrawCircle(center Point, radius float64, col color.RGBA) {
	cx := center.X * c.scaleX
	cy := center.Y * c.scaleY
	rx := radius * c.scaleX
	ry := radius * c.scaleY

	// Pixel (x, y) covers [x, x+1) and is filled when its center is inside.
	yStart := int(math.Ceil(cy - ry - 0.5))
	yEnd := int(math.Floor(cy + ry - 0.5))
	for y := yStart; y <= yEnd; y++ {
		dy := (float64(y) + 0.5 - cy) / ry
		span := rx * math.Sqrt(max(0, 1-dy*dy))
		xStart := int(math.Ceil(cx - span - 0.5))
		xEnd := int(math.Floor(cx + span - 0.5))
		for x := xStart; x <= xEnd; x++ {
			c.setPixel(x, y, col)
		}
	}

	c.setPixel(int(math.Floor(cx)), int(math.Floor(cy)), col)
}

// maxChunkSize is the maximum bytes to write at once for optimal network flow.
// Matches typical MTU size for smooth SSH/network transmission.
const maxChunkSize = 1400

// Render outputs the canvas to the writer using half-block characters.
// The top pixel of a cell is the foreground of '▀', the bottom one its background.
func (c *Canvas) Render(w io.Writer) {
	c.renderBuf.Reset()
	c.renderBuf.Grow(c.termWidth * c.termHeight * 8)

	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.termWidth
		bottomOffset := topOffset + c.termWidth

		for col := 0; col < c.termWidth; col++ {
			top := c.pixels[topOffset+col]
			bottom := c.pixels[bottomOffset+col]

			switch {
			case top.A == 0 && bottom.A == 0:
				continue // Skip empty cells
			case bottom.A == 0:
				c.moveTo(col, row)
				c.writeColor(fgPrefix, top)
				c.renderBuf.WriteRune(BlockUpperHalf)
			case top.A == 0:
				c.moveTo(col, row)
				c.writeColor(fgPrefix, bottom)
				c.renderBuf.WriteRune(BlockLowerHalf)
			case top == bottom:
				c.moveTo(col, row)
				c.writeColor(fgPrefix, top)
				c.renderBuf.WriteRune(BlockFull)
			default:
				c.moveTo(col, row)
				c.writeColor(fgPrefix, top)
				c.writeColor(bgPrefix, bottom)
				c.renderBuf.WriteRune(BlockUpperHalf)
			}
			c.renderBuf.WriteString(resetColor)
		}
	}

	writeChunked(w, c.renderBuf.String())
}

const (
	fgPrefix   = "\033[38;2;"
	bgPrefix   = "\033[48;2;"
	resetColor = "\033[0m"
)

// moveTo appends a cursor move to a 0-based canvas cell.
func (c *Canvas) moveTo(col, row int) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(row+1+c.offsetRow), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col+1+c.offsetCol), 10))
	c.renderBuf.WriteByte('H')
}

// writeColor appends a 24-bit SGR color sequence.
func (c *Canvas) writeColor(prefix string, col color.RGBA) {
	c.renderBuf.WriteString(prefix)
	c.renderBuf.Write(strconv.AppendUint(c.numBuf[:0], uint64(col.R), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendUint(c.numBuf[:0], uint64(col.G), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendUint(c.numBuf[:0], uint64(col.B), 10))
	c.renderBuf.WriteByte('m')
}

// RenderBorder draws a box border around the canvas area when the terminal
// exceeds the max render resolution on either axis.
// Draws horizontal borders when there is vertical offset, vertical borders
// when there is horizontal offset, and corners when both are present.
func (c *Canvas) RenderBorder(w io.Writer) {
	hasH := c.offsetCol >= 1 // Room for left/right vertical bars
	hasV := c.offsetRow >= 1 // Room for top/bottom horizontal bars
	if !hasH && !hasV {
		return
	}

	// Border positions (1-based terminal coordinates)
	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1
	line := strings.Repeat("─", c.termWidth)

	var buf strings.Builder
	if hasV {
		if hasH {
			buf.WriteString(cursorTo(left, top) + "┌" + line + "┐")
			buf.WriteString(cursorTo(left, bottom) + "└" + line + "┘")
		} else {
			buf.WriteString(cursorTo(c.offsetCol+1, top) + line)
			buf.WriteString(cursorTo(c.offsetCol+1, bottom) + line)
		}
	}

	if hasH {
		for row := c.offsetRow + 1; row <= c.offsetRow+c.termHeight; row++ {
			buf.WriteString(cursorTo(left, row) + "│" + cursorTo(right, row) + "│")
		}
	}

	io.WriteString(w, buf.String())
}

// TerminalWidth returns the render area column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the render area row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// LogicalToTerminal converts logical coordinates to a 1-based position (col, row)
// inside the render area.
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px := int(math.Floor(x * c.scaleX))
	py := int(math.Floor(y * c.scaleY))
	return px + 1, py/2 + 1
}

// TerminalToLogical maps a 1-based screen cell, as reported by the terminal,
// to the logical coordinates of the cell's center. ok is false outside the
// render area.
func (c *Canvas) TerminalToLogical(col, row int) (x, y float64, ok bool) {
	col -= c.offsetCol
	row -= c.offsetRow
	if col < 1 || col > c.termWidth || row < 1 || row > c.termHeight {
		return 0, 0, false
	}
	x = (float64(col) - 0.5) / c.scaleX
	y = (float64(row-1)*2 + 1) / c.scaleY
	return x, y, true
}
