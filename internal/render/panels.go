package render

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/jakecoffman/cp"
	"github.com/san-kum/kinelab/internal/engine"
	"github.com/san-kum/kinelab/internal/overlay"
	"github.com/san-kum/kinelab/internal/scene"
)

const (
	panelMargin = 50.0
	// connectorMin is the distance below which the connector lines are hidden.
	connectorMin = 10.0
)

// TextWidth estimates the width of s in a monospace face of the given size.
func TextWidth(s string, size float64) float64 {
	return float64(utf8.RuneCountInString(s)) * size * 0.6
}

func text(at cp.Vector, s string, size float64, c Style, align Align) Cmd {
	return Cmd{Shape: ShapeText, At: at, Text: s, Size: size, Align: align, Style: c}
}

// kinematicsPanel writes v² = 0 + 2(a)(s) right-aligned in the top-right
// corner, one colored segment at a time, and ties s back to the ramp with a
// dashed connector and a solid distance line.
func kinematicsPanel(car *engine.Body, f scene.Frame, r overlay.Readout, vp scene.Viewport) []Cmd {
	baseX := vp.Width - panelMargin
	baseY := panelMargin
	row := baseY + 40

	cmds := []Cmd{text(cp.Vector{X: baseX, Y: baseY}, "Kinematic Equation:", 24, Style{Fill: Label}, AlignRight)}

	a := fmt.Sprintf("%.2f", r.Acceleration)
	s := fmt.Sprintf("%.1f", r.Distance)
	segments := []struct {
		text     string
		advance  string
		fill     Style
		distance bool
	}{
		{"v²", "v² ", Style{Fill: CarRed}, false},
		{" = ", " = ", Style{Fill: White}, false},
		{"0", "0 ", Style{Fill: Muted}, false},
		{" + 2(", " + 2(", Style{Fill: White}, false},
		{a, a, Style{Fill: AccelGreen}, false},
		{")(", ")(", Style{Fill: White}, false},
		{s, s, Style{Fill: DistanceBlue}, true},
		{")", ")", Style{Fill: White}, false},
	}

	cursor := baseX
	anchorX := baseX
	for _, seg := range segments {
		cmds = append(cmds, text(cp.Vector{X: cursor, Y: row}, seg.text, 32, seg.fill, AlignRight))
		if seg.distance {
			anchorX = cursor - TextWidth(s, 32)/2
		}
		cursor -= TextWidth(seg.advance, 32)
	}

	if r.Distance > connectorMin {
		cmds = append(cmds,
			Cmd{
				Shape: ShapeLine,
				From:  cp.Vector{X: anchorX, Y: baseY + 20},
				To:    f.Origin,
				Style: Style{Stroke: DistanceBlue, Weight: 1, Dashed: true},
			},
			Cmd{
				Shape: ShapeLine,
				From:  f.Origin,
				To:    car.Position(),
				Style: Style{Stroke: DistanceBlue, Weight: 3},
			},
		)
	}

	left := baseX - 300
	cmds = append(cmds,
		text(cp.Vector{X: left, Y: baseY + 80}, fmt.Sprintf("Left Side (v²): %.2f", r.VSquared), 20, Style{Fill: Label}, AlignLeft),
		text(cp.Vector{X: left, Y: baseY + 110}, fmt.Sprintf("Right Side (2as): %.2f", r.TwoAS), 20, Style{Fill: Label}, AlignLeft),
	)
	if r.Landed {
		cmds = append(cmds, text(cp.Vector{X: left, Y: baseY + 140}, fmt.Sprintf("Final Speed: %.2f", r.FinalSpeed), 20, Style{Fill: AccelGreen}, AlignLeft))
	}
	return cmds
}

func oscillatorPanel(r overlay.Readout) []Cmd {
	at := cp.Vector{X: panelMargin / 2, Y: panelMargin / 2}
	return []Cmd{
		text(at, fmt.Sprintf("Displacement: %.1f", r.Distance), 16, Style{Fill: Label}, AlignLeft),
		text(at.Add(cp.Vector{Y: 22}), fmt.Sprintf("Speed: %.1f", r.Speed), 16, Style{Fill: Label}, AlignLeft),
	}
}

func fallingPanel(w *engine.World) []Cmd {
	at := cp.Vector{X: panelMargin / 2, Y: panelMargin / 2}
	return []Cmd{
		text(at, fmt.Sprintf("Boxes: %d", w.CountRole(scene.RoleBox)), 16, Style{Fill: Label}, AlignLeft),
	}
}

// DashLength is the on and off length, in pixels, of a dashed line.
const DashLength = 5.0

// Dashes splits the segment from a to b into its visible dashes.
func Dashes(a, b cp.Vector) [][2]cp.Vector {
	length := a.Distance(b)
	if length == 0 {
		return nil
	}
	dir := b.Sub(a).Mult(1 / length)
	var out [][2]cp.Vector
	for start := 0.0; start < length; start += 2 * DashLength {
		end := math.Min(start+DashLength, length)
		out = append(out, [2]cp.Vector{a.Add(dir.Mult(start)), a.Add(dir.Mult(end))})
	}
	return out
}
