package analysis

import (
	"strings"

	"github.com/san-kum/spiralarms/internal/dynamo"
)

type Point struct{ X, Y float64 }

// Projection maps a state onto the plane of a section or portrait.
type Projection func(x dynamo.State) Point

// SurfaceOfSection collects the projected points where component crossIdx of
// a recorded trajectory passes upward through threshold. Each point is
// interpolated linearly between the two samples around the crossing, so the
// result is only as good as the sampling of the trajectory.
func SurfaceOfSection(res *dynamo.Result, crossIdx int, threshold float64, project Projection) []Point {
	if res == nil || len(res.States) < 2 || crossIdx < 0 || crossIdx >= len(res.States[0]) {
		return nil
	}

	var pts []Point
	prev := res.States[0]
	for _, cur := range res.States[1:] {
		a, b := prev[crossIdx], cur[crossIdx]
		if a < threshold && b >= threshold {
			frac := (threshold - a) / (b - a)
			p, q := project(prev), project(cur)
			pts = append(pts, Point{
				X: p.X + frac*(q.X-p.X),
				Y: p.Y + frac*(q.Y-p.Y),
			})
		}
		prev = cur
	}
	return pts
}

// Portrait projects every recorded state.
func Portrait(res *dynamo.Result, project Projection) []Point {
	if res == nil {
		return nil
	}
	pts := make([]Point, len(res.States))
	for i, x := range res.States {
		pts[i] = project(x)
	}
	return pts
}

// ScatterASCII renders points on a width x height character canvas with 10%
// padding, drawing the axes where they fall inside the view.
func ScatterASCII(points []Point, width, height int) string {
	if len(points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for _, p := range points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if col >= 0 && col < width && canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
