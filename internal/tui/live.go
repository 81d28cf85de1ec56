// Package tui plays a running session as plain ANSI text, one frame at a
// time, without taking over the terminal's input.
package tui

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/san-kum/kinelab/internal/engine"
	"github.com/san-kum/kinelab/internal/lab"
	"github.com/san-kum/kinelab/internal/render"
	"github.com/san-kum/kinelab/internal/scene"
)

const (
	width       = 70
	height      = 20
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

var roleChars = map[scene.Role]rune{
	scene.RoleGround: '=',
	scene.RoleWall:   '#',
	scene.RoleRamp:   '/',
	scene.RoleCar:    'C',
	scene.RoleAnchor: '+',
	scene.RoleWeight: 'O',
	scene.RoleBox:    '□',
}

// LiveRenderer is a lab.Observer that redraws the terminal at most
// frameRate times per second. A frameRate of 0 draws every frame.
type LiveRenderer struct {
	title     string
	frameRate int
	out       io.Writer
	now       func() time.Time
	lastFrame time.Time
	canvas    [][]rune
}

func NewLiveRenderer(title string, frameRate int, out io.Writer) *LiveRenderer {
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
	}
	return &LiveRenderer{
		title:     title,
		frameRate: frameRate,
		out:       out,
		now:       time.Now,
		canvas:    canvas,
	}
}

func (r *LiveRenderer) OnFrame(out lab.Output, _ *engine.World) {
	if r.frameRate > 0 {
		now := r.now()
		if now.Sub(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
			return
		}
		r.lastFrame = now
	}
	r.draw(out.Cmds)
	r.render(out)
}

func (r *LiveRenderer) clear() {
	for y := range r.canvas {
		for x := range r.canvas[y] {
			r.canvas[y][x] = ' '
		}
	}
}

func (r *LiveRenderer) set(x, y int, c rune) {
	if x >= 0 && x < width && y >= 0 && y < height {
		r.canvas[y][x] = c
	}
}

func (r *LiveRenderer) line(x1, y1, x2, y2 int, c rune) {
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy
	for {
		r.set(x1, y1, c)
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

// draw maps viewport pixels to character cells. The clear command carries
// the viewport size.
func (r *LiveRenderer) draw(cmds []render.Cmd) {
	r.clear()
	sx, sy := 1.0, 1.0
	cell := func(v cp.Vector) (int, int) { return int(v.X * sx), int(v.Y * sy) }

	for _, c := range cmds {
		switch c.Shape {
		case render.ShapeClear:
			if c.Width > 0 && c.Height > 0 {
				sx, sy = width/c.Width, height/c.Height
			}
		case render.ShapeRect:
			ch := roleChars[c.Role]
			corners := scene.RotatedCorners(c.Center, c.Width, c.Height, c.Angle)
			for i := range corners {
				x1, y1 := cell(corners[i])
				x2, y2 := cell(corners[(i+1)%4])
				r.line(x1, y1, x2, y2, ch)
			}
			if c.Style.Fill.A != 0 {
				x, y := cell(c.Center)
				r.set(x, y, ch)
			}
		case render.ShapeCircle:
			if !c.Body {
				continue
			}
			x, y := cell(c.Center)
			r.set(x, y, roleChars[c.Role])
		case render.ShapeLine:
			ch := '~'
			if c.Style.Dashed {
				ch = '.'
			}
			x1, y1 := cell(c.From)
			x2, y2 := cell(c.To)
			r.line(x1, y1, x2, y2, ch)
		}
	}
}

func (r *LiveRenderer) render(out lab.Output) {
	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  %s  frame %d  t=%.2fs\n", r.title, out.Frame, out.Time))
	b.WriteString("  " + strings.Repeat("-", width) + "\n")

	for _, row := range r.canvas {
		b.WriteString("  ")
		b.WriteString(string(row))
		b.WriteString("\n")
	}

	b.WriteString("  " + strings.Repeat("-", width) + "\n")
	for _, l := range TextLines(out.Cmds) {
		b.WriteString("  " + l + "\n")
	}

	fmt.Fprint(r.out, b.String())
}

// TextLines joins the text commands of a frame into lines, top to bottom,
// with the pieces of each row ordered left to right.
func TextLines(cmds []render.Cmd) []string {
	rows := make(map[float64][]render.Cmd)
	for _, c := range cmds {
		if c.Shape == render.ShapeText {
			rows[c.At.Y] = append(rows[c.At.Y], c)
		}
	}
	ys := make([]float64, 0, len(rows))
	for y := range rows {
		ys = append(ys, y)
	}
	sort.Float64s(ys)

	lines := make([]string, 0, len(ys))
	for _, y := range ys {
		row := rows[y]
		sort.SliceStable(row, func(i, j int) bool { return row[i].At.X < row[j].At.X })
		var sb strings.Builder
		for _, c := range row {
			sb.WriteString(c.Text)
		}
		lines = append(lines, sb.String())
	}
	return lines
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
