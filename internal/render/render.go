// Package render turns the world and the overlay readout into an ordered
// list of host-agnostic draw commands. Hosts replay the list in order.
package render

import (
	"image/color"

	"github.com/jakecoffman/cp"
	"github.com/san-kum/kinelab/internal/engine"
	"github.com/san-kum/kinelab/internal/overlay"
	"github.com/san-kum/kinelab/internal/scene"
)

type Shape uint8

const (
	ShapeClear Shape = iota
	ShapeRect
	ShapeCircle
	ShapeLine
	ShapeText
)

func (s Shape) String() string {
	switch s {
	case ShapeClear:
		return "clear"
	case ShapeRect:
		return "rect"
	case ShapeCircle:
		return "circle"
	case ShapeLine:
		return "line"
	case ShapeText:
		return "text"
	}
	return "unknown"
}

type Align uint8

const (
	AlignLeft Align = iota
	AlignRight
)

// Style is the paint for one command. A zero alpha means "don't paint".
type Style struct {
	Fill   color.RGBA
	Stroke color.RGBA
	Weight float64
	Dashed bool
}

// Cmd is one draw instruction. Which fields matter depends on Shape:
// rects use Center/Width/Height/Angle, circles Center/Radius, lines
// From/To and texts At/Text/Size/Align.
type Cmd struct {
	Shape Shape
	Role  scene.Role
	// Body is set on commands that draw a rigid body.
	Body bool

	Center        cp.Vector
	Width, Height float64
	Radius        float64
	Angle         float64

	From, To cp.Vector

	At    cp.Vector
	Text  string
	Size  float64
	Align Align

	Style Style
}

var (
	Background     = gray(30)
	RampBackground = gray(20)
	StaticFill     = gray(80)
	AnchorFill     = gray(100)
	White          = gray(255)
	Muted          = gray(100)
	Label          = gray(150)
	HintColor      = gray(80)
	CarRed         = rgb(0xFF, 0x4C, 0x4C)
	WeightYellow   = rgb(255, 204, 0)
	BoxBlue        = rgb(0, 200, 255)
	DistanceBlue   = rgb(0x4C, 0x9A, 0xFF)
	AccelGreen     = rgb(0x42, 0xB8, 0x83)
)

func rgb(r, g, b uint8) color.RGBA { return color.RGBA{R: r, G: g, B: b, A: 255} }
func gray(v uint8) color.RGBA      { return rgb(v, v, v) }

const (
	wheelRadius = 5.0
	pivotRadius = 5.0
	springWidth = 4.0
)

// Map draws every body in registration order, then springs, the pointer
// joint and the overlay for the tracked body. It reads the world and never
// changes it.
func Map(w *engine.World, f scene.Frame, r overlay.Readout, vp scene.Viewport) []Cmd {
	var subject *engine.Body
	if f.Tracks() {
		subject = w.SceneBody(f.Subject)
	}

	bg := Background
	if subject != nil && subject.Role() == scene.RoleCar {
		bg = RampBackground
	}
	cmds := []Cmd{{Shape: ShapeClear, Width: vp.Width, Height: vp.Height, Style: Style{Fill: bg}}}

	for _, s := range w.Springs() {
		a, b := s.Endpoints()
		cmds = append(cmds, Cmd{Shape: ShapeLine, From: a, To: b, Style: Style{Stroke: White, Weight: springWidth}})
	}
	for _, b := range w.Bodies() {
		cmds = append(cmds, bodyCmds(b, vp)...)
	}
	if p := w.Pointer(); p.Active() {
		cmds = append(cmds, Cmd{
			Shape: ShapeLine,
			From:  p.Position,
			To:    p.Grabbed.Position(),
			Style: Style{Stroke: Muted, Weight: 1, Dashed: true},
		})
	}

	if subject == nil || !r.Tracking {
		return append(cmds, fallingPanel(w)...)
	}
	switch subject.Role() {
	case scene.RoleCar:
		cmds = append(cmds, kinematicsPanel(subject, f, r, vp)...)
	default:
		cmds = append(cmds, oscillatorPanel(r)...)
	}
	return cmds
}

func bodyCmds(b *engine.Body, vp scene.Viewport) []Cmd {
	g := b.Geometry()
	base := Cmd{Role: b.Role(), Body: true, Center: b.Position(), Angle: b.Angle()}
	if g.IsCircle() {
		base.Shape = ShapeCircle
		base.Radius = g.Radius
	} else {
		base.Shape = ShapeRect
		base.Width, base.Height = g.Width, g.Height
	}

	switch b.Role() {
	case scene.RoleGround, scene.RoleWall:
		base.Style = Style{Fill: StaticFill}
	case scene.RoleRamp:
		base.Style = Style{Stroke: White, Weight: 2}
		pivot := scene.RampBase(vp).Add(cp.Vector{X: 0, Y: scene.RampThickness / 2})
		return []Cmd{base, {Shape: ShapeCircle, Role: scene.RoleRamp, Center: pivot, Radius: pivotRadius, Style: Style{Fill: White}}}
	case scene.RoleCar:
		base.Style = Style{Fill: CarRed}
		cmds := []Cmd{base}
		rot := cp.ForAngle(b.Angle())
		for _, x := range []float64{-15, 15} {
			local := cp.Vector{X: x, Y: g.Height / 2}
			cmds = append(cmds, Cmd{
				Shape:  ShapeCircle,
				Role:   scene.RoleCar,
				Center: b.Position().Add(local.Rotate(rot)),
				Radius: wheelRadius,
				Style:  Style{Fill: White},
			})
		}
		return cmds
	case scene.RoleAnchor:
		base.Style = Style{Fill: AnchorFill}
	case scene.RoleWeight:
		base.Style = Style{Fill: WeightYellow}
	default:
		base.Style = Style{Fill: BoxBlue}
	}
	return []Cmd{base}
}

// Hint is the small instruction line in the bottom-right corner.
func Hint(text string, vp scene.Viewport) Cmd {
	return Cmd{
		Shape: ShapeText,
		At:    cp.Vector{X: vp.Width - 200, Y: vp.Height - 20},
		Text:  text,
		Size:  12,
		Style: Style{Fill: HintColor},
	}
}
