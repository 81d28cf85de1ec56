package gui

import (
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/jakecoffman/cp"
	"github.com/san-kum/kinelab/internal/render"
	"github.com/san-kum/kinelab/internal/scene"
)

func toColor(c color.RGBA) rl.Color { return rl.NewColor(c.R, c.G, c.B, c.A) }
func vec(v cp.Vector) rl.Vector2    { return rl.NewVector2(float32(v.X), float32(v.Y)) }

// drawCmds replays one frame in order.
func (a *App) drawCmds(cmds []render.Cmd) {
	if len(cmds) == 0 {
		rl.ClearBackground(toColor(render.Background))
		return
	}
	for _, c := range cmds {
		switch c.Shape {
		case render.ShapeClear:
			rl.ClearBackground(toColor(c.Style.Fill))
		case render.ShapeRect:
			a.drawRect(c)
		case render.ShapeCircle:
			a.drawCircle(c)
		case render.ShapeLine:
			a.drawLine(c.From, c.To, c.Style)
		case render.ShapeText:
			a.drawLabel(c)
		}
	}
}

func (a *App) drawRect(c render.Cmd) {
	if c.Style.Fill.A != 0 {
		rl.DrawRectanglePro(
			rl.Rectangle{X: float32(c.Center.X), Y: float32(c.Center.Y), Width: float32(c.Width), Height: float32(c.Height)},
			rl.NewVector2(float32(c.Width/2), float32(c.Height/2)),
			float32(c.Angle*180/math.Pi),
			toColor(c.Style.Fill),
		)
	}
	if c.Style.Stroke.A != 0 {
		corners := scene.RotatedCorners(c.Center, c.Width, c.Height, c.Angle)
		for i := range corners {
			a.drawLine(corners[i], corners[(i+1)%4], c.Style)
		}
	}
}

func (a *App) drawCircle(c render.Cmd) {
	if c.Style.Fill.A != 0 {
		rl.DrawCircleV(vec(c.Center), float32(c.Radius), toColor(c.Style.Fill))
	}
	if c.Style.Stroke.A != 0 {
		rl.DrawCircleLines(int32(c.Center.X), int32(c.Center.Y), float32(c.Radius), toColor(c.Style.Stroke))
	}
}

func (a *App) drawLine(from, to cp.Vector, s render.Style) {
	thick := float32(max(s.Weight, 1))
	col := toColor(s.Stroke)
	if !s.Dashed {
		rl.DrawLineEx(vec(from), vec(to), thick, col)
		return
	}
	for _, d := range render.Dashes(from, to) {
		rl.DrawLineEx(vec(d[0]), vec(d[1]), thick, col)
	}
}

// drawLabel draws text with At on the baseline, right-aligned when asked.
func (a *App) drawLabel(c render.Cmd) {
	size := float32(c.Size)
	pos := vec(c.At)
	pos.Y -= size * 0.8
	if c.Align == render.AlignRight {
		pos.X -= rl.MeasureTextEx(a.font, c.Text, size, 1).X
	}
	rl.DrawTextEx(a.font, c.Text, pos, size, 1, toColor(c.Style.Fill))
}
