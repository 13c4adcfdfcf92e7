// Package draw renders game snapshots to a terminal using half-block
// characters, with a lipgloss-styled HUD on top.
package draw

import (
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/muesli/termenv"

	"github.com/tomz197/polyroids/internal/physics"
)

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
	BlockEmpty     = ' '
)

// cell is what was last written to one terminal position.
type cell struct {
	ch    rune
	level uint8
}

// Canvas is a drawing buffer with 2x vertical resolution using half-block
// characters. Each sub-pixel carries a brightness so fading effects can be
// drawn in shades of gray. The logical field is scaled uniformly to fit and
// centered inside the render area.
type Canvas struct {
	termWidth      int     // Render area columns
	termHeight     int     // Render area rows
	subPixelHeight int     // termHeight * 2
	pixels         []uint8 // Flat slice: [y * termWidth + x], 0 is off
	prev           []cell  // Last rendered frame, for differential output
	forceRedraw    bool

	logicalWidth  float64
	logicalHeight float64
	scale         float64 // Logical units to sub-pixels
	padX, padY    float64 // Sub-pixel padding that centers the field

	// 0-based terminal offsets of the render area.
	offsetCol int
	offsetRow int

	shades    [256]string // SGR sequences per brightness
	renderBuf strings.Builder
}

// NewScaledCanvas creates a canvas that maps a logicalWidth x logicalHeight
// field onto a termWidth x termHeight render area.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
	}
	c.SetProfile(termenv.ANSI256)
	c.Resize(termWidth, termHeight)
	return c
}

// SetProfile selects the color profile used for shading. termenv.Ascii
// draws everything at full brightness.
func (c *Canvas) SetProfile(p termenv.Profile) {
	for i := range c.shades {
		seq := p.FromColor(color.Gray{Y: uint8(i)}).Sequence(false)
		if seq == "" {
			c.shades[i] = ""
			continue
		}
		c.shades[i] = termenv.CSI + seq + "m"
	}
	c.forceRedraw = true
}

// Resize updates the canvas for new terminal dimensions while keeping the
// logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	termWidth, termHeight = max(termWidth, 1), max(termHeight, 1)
	subPixelHeight := termHeight * 2

	if termWidth != c.termWidth || termHeight != c.termHeight {
		c.pixels = make([]uint8, subPixelHeight*termWidth)
		c.prev = make([]cell, termWidth*termHeight)
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = subPixelHeight
		c.forceRedraw = true
	}

	c.scale = math.Min(float64(termWidth)/c.logicalWidth, float64(subPixelHeight)/c.logicalHeight)
	c.padX = (float64(termWidth) - c.logicalWidth*c.scale) / 2
	c.padY = (float64(subPixelHeight) - c.logicalHeight*c.scale) / 2
}

// SetOffset sets the column and row offset for centering the canvas.
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.forceRedraw = true
	}
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// TerminalWidth returns the render area column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the render area row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// ForceRedraw makes the next Render rewrite every cell, e.g. after the
// terminal was cleared.
func (c *Canvas) ForceRedraw() {
	c.forceRedraw = true
}

// InvalidateRow makes the next Render rewrite a 0-based row, e.g. after the
// HUD erased the line.
func (c *Canvas) InvalidateRow(row int) {
	if row < 0 || row >= c.termHeight {
		return
	}
	for i := row * c.termWidth; i < (row+1)*c.termWidth; i++ {
		c.prev[i] = cell{ch: -1}
	}
}

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// toPixel converts logical coordinates to sub-pixel coordinates.
func (c *Canvas) toPixel(p physics.Vec) (int, int) {
	return int(math.Round(p.X*c.scale + c.padX)), int(math.Round(p.Y*c.scale + c.padY))
}

// setPixel brightens a sub-pixel; overlapping shapes keep the brighter one.
func (c *Canvas) setPixel(x, y int, level uint8) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		i := y*c.termWidth + x
		c.pixels[i] = max(c.pixels[i], level)
	}
}

// Plot sets the pixel at a logical position.
func (c *Canvas) Plot(p physics.Vec, level uint8) {
	x, y := c.toPixel(p)
	c.setPixel(x, y, level)
}

// Line draws a line using Bresenham's algorithm.
func (c *Canvas) Line(a, b physics.Vec, level uint8) {
	x1, y1 := c.toPixel(a)
	x2, y2 := c.toPixel(b)

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		c.setPixel(x1, y1, level)

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// Polygon draws a closed outline.
func (c *Canvas) Polygon(points []physics.Vec, level uint8) {
	n := len(points)
	if n < 2 {
		return
	}
	for i := 0; i < n; i++ {
		c.Line(points[i], points[(i+1)%n], level)
	}
}

// Square fills an axis-aligned square of logical side size centered on p.
// Anything smaller than a sub-pixel still shows as one.
func (c *Canvas) Square(p physics.Vec, size float64, level uint8) {
	half := size / 2
	x1, y1 := c.toPixel(physics.Vec{X: p.X - half, Y: p.Y - half})
	x2, y2 := c.toPixel(physics.Vec{X: p.X + half, Y: p.Y + half})
	for y := y1; y <= max(y2, y1); y++ {
		for x := x1; x <= max(x2, x1); x++ {
			c.setPixel(x, y, level)
		}
	}
}

// Render writes the cells that changed since the last call, using
// half-block characters.
func (c *Canvas) Render(w io.Writer) error {
	c.renderBuf.Reset()
	var numBuf [20]byte
	lastShade := -1

	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.termWidth
		bottomOffset := topOffset + c.termWidth

		for col := 0; col < c.termWidth; col++ {
			top := c.pixels[topOffset+col]
			bottom := c.pixels[bottomOffset+col]

			next := cell{ch: BlockEmpty, level: max(top, bottom)}
			switch {
			case top > 0 && bottom > 0:
				next.ch = BlockFull
			case top > 0:
				next.ch = BlockUpperHalf
			case bottom > 0:
				next.ch = BlockLowerHalf
			}

			i := row*c.termWidth + col
			if !c.forceRedraw && c.prev[i] == next {
				continue
			}
			if c.forceRedraw && next.ch == BlockEmpty {
				c.prev[i] = next
				continue // Screen was cleared
			}
			c.prev[i] = next

			c.renderBuf.WriteString("\033[")
			c.renderBuf.Write(strconv.AppendInt(numBuf[:0], int64(row+1+c.offsetRow), 10))
			c.renderBuf.WriteByte(';')
			c.renderBuf.Write(strconv.AppendInt(numBuf[:0], int64(col+1+c.offsetCol), 10))
			c.renderBuf.WriteByte('H')
			if next.ch != BlockEmpty && int(next.level) != lastShade {
				c.renderBuf.WriteString(c.shades[next.level])
				lastShade = int(next.level)
			}
			c.renderBuf.WriteRune(next.ch)
		}
	}
	if lastShade >= 0 {
		c.renderBuf.WriteString("\033[0m")
	}
	c.forceRedraw = false

	_, err := io.WriteString(w, c.renderBuf.String())
	return err
}

// RenderBorder draws a box around the render area when the terminal exceeds
// the max render resolution on either axis.
func (c *Canvas) RenderBorder(w io.Writer) error {
	hasH := c.offsetCol >= 1 // Room for left/right bars
	hasV := c.offsetRow >= 1 // Room for top/bottom bars

	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1
	line := strings.Repeat("─", c.termWidth)

	var buf strings.Builder
	at := func(row, col int, s string) {
		buf.WriteString("\033[" + strconv.Itoa(row) + ";" + strconv.Itoa(col) + "H" + s)
	}

	if hasV {
		if hasH {
			at(top, left, "┌"+line+"┐")
			at(bottom, left, "└"+line+"┘")
		} else {
			at(top, left+1, line)
			at(bottom, left+1, line)
		}
	}
	if hasH {
		for row := c.offsetRow + 1; row <= c.offsetRow+c.termHeight; row++ {
			at(row, left, "│")
			at(row, right, "│")
		}
	}

	_, err := io.WriteString(w, buf.String())
	return err
}

// Level converts an alpha in [0, 255] to a brightness, keeping anything
// visible at least dimly lit.
func Level(alpha float64) uint8 {
	switch {
	case alpha <= 0:
		return 0
	case alpha >= 255:
		return 255
	default:
		return uint8(max(alpha, 40))
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
