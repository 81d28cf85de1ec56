package viz

import (
	"math"
	"strings"

	"github.com/jakecoffman/cp"
	"github.com/san-kum/kinelab/internal/render"
	"github.com/san-kum/kinelab/internal/scene"
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

const blank = 0x2800

// Canvas is a monochrome braille raster. Each cell holds 2x4 dots, so the
// dot grid is (Width*2) x (Height*4).
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
	}
	c.Clear()
	return c
}

func (c *Canvas) Dots() (int, int) { return c.Width * 2, c.Height * 4 }

// Set turns on the dot at (x, y); dots outside the grid are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// IsSet reports whether the dot at (x, y) is on.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm. With dash > 0 the line
// alternates dash dots on and dash dots off.
func (c *Canvas) DrawLine(x0, y0, x1, y1, dash int) {
	dx, dy := absInt(x1-x0), absInt(y1-y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for n := 0; ; n++ {
		if dash <= 0 || (n/dash)%2 == 0 {
			c.Set(x0, y0)
		}
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

// FillPolygon sets every dot whose center lies inside the convex polygon.
func (c *Canvas) FillPolygon(pts []cp.Vector) {
	if len(pts) < 3 {
		return
	}
	minX, maxX, minY, maxY := pts[0].X, pts[0].X, pts[0].Y, pts[0].Y
	for _, p := range pts[1:] {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	for y := int(math.Floor(minY)); y <= int(math.Ceil(maxY)); y++ {
		for x := int(math.Floor(minX)); x <= int(math.Ceil(maxX)); x++ {
			if insideConvex(pts, cp.Vector{X: float64(x) + 0.5, Y: float64(y) + 0.5}) {
				c.Set(x, y)
			}
		}
	}
	c.outline(pts)
}

func (c *Canvas) outline(pts []cp.Vector) {
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		c.DrawLine(round(p.X), round(p.Y), round(q.X), round(q.Y), 0)
	}
}

// Disc draws a circle of radius r dots around (cx, cy), filled or as a ring.
func (c *Canvas) Disc(cx, cy, r float64, fill bool) {
	if r < 0.5 {
		c.Set(round(cx), round(cy))
		return
	}
	for y := int(math.Floor(cy - r)); y <= int(math.Ceil(cy+r)); y++ {
		for x := int(math.Floor(cx - r)); x <= int(math.Ceil(cx+r)); x++ {
			d := math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy)
			if d <= r && (fill || d >= r-1) {
				c.Set(x, y)
			}
		}
	}
}

// Plot rasterizes one frame of draw commands, mapping viewport pixels onto
// the dot grid. Text commands are left to the side panel.
func (c *Canvas) Plot(cmds []render.Cmd, vp scene.Viewport) {
	if vp.Width <= 0 || vp.Height <= 0 {
		return
	}
	dw, dh := c.Dots()
	sx, sy := float64(dw)/vp.Width, float64(dh)/vp.Height
	dot := func(v cp.Vector) cp.Vector { return cp.Vector{X: v.X * sx, Y: v.Y * sy} }

	for _, cmd := range cmds {
		switch cmd.Shape {
		case render.ShapeClear:
			c.Clear()
		case render.ShapeRect:
			corners := scene.RotatedCorners(cmd.Center, cmd.Width, cmd.Height, cmd.Angle)
			pts := make([]cp.Vector, len(corners))
			for i, p := range corners {
				pts[i] = dot(p)
			}
			if cmd.Style.Fill.A != 0 {
				c.FillPolygon(pts)
			} else {
				c.outline(pts)
			}
		case render.ShapeCircle:
			ctr := dot(cmd.Center)
			c.Disc(ctr.X, ctr.Y, cmd.Radius*math.Min(sx, sy), cmd.Style.Fill.A != 0)
		case render.ShapeLine:
			a, b := dot(cmd.From), dot(cmd.To)
			dash := 0
			if cmd.Style.Dashed {
				dash = 2
			}
			c.DrawLine(round(a.X), round(a.Y), round(b.X), round(b.Y), dash)
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

func insideConvex(pts []cp.Vector, p cp.Vector) bool {
	sign := 0.0
	for i, a := range pts {
		b := pts[(i+1)%len(pts)]
		cross := (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
		if cross == 0 {
			continue
		}
		if sign == 0 {
			sign = cross
		} else if (cross > 0) != (sign > 0) {
			return false
		}
	}
	return true
}

func round(v float64) int { return int(math.Round(v)) }

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
