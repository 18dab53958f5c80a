package viz

import (
	"math"
	"strings"

	"github.com/san-kum/spiralarms/internal/analysis"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800 // Empty braille char
		}
	}
	return c
}

// Set lights the dot at sub-pixel (x, y). The canvas is Width*2 by Height*4
// sub-pixels; points outside are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	subX := x % 2
	subY := y % 4

	c.Grid[row][col] |= rune(pixelMap[subY][subX])
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// toSub maps world coordinates in [-extent, extent] to sub-pixels, y up.
func (c *Canvas) toSub(x, y, extent float64) (int, int) {
	w, h := float64(c.Width*2-1), float64(c.Height*4-1)
	sx := (x + extent) / (2 * extent) * w
	sy := h - (y+extent)/(2*extent)*h
	return int(math.Round(sx)), int(math.Round(sy))
}

// PlotPath joins consecutive world points with lines. Segments with an end
// far outside the view are skipped.
func (c *Canvas) PlotPath(pts []analysis.Point, extent float64) {
	near := func(p analysis.Point) bool {
		return math.Abs(p.X) <= 2*extent && math.Abs(p.Y) <= 2*extent
	}
	for i, p := range pts {
		if !near(p) {
			continue
		}
		x, y := c.toSub(p.X, p.Y, extent)
		if i == 0 || !near(pts[i-1]) {
			c.Set(x, y)
			continue
		}
		px, py := c.toSub(pts[i-1].X, pts[i-1].Y, extent)
		c.DrawLine(px, py, x, y)
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
