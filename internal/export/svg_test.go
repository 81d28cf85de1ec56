package export

import (
	"strings"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/san-kum/kinelab/internal/render"
	"github.com/san-kum/kinelab/internal/scene"
)

func TestCmdsToSVG(t *testing.T) {
	vp := scene.Viewport{Width: 640, Height: 480}
	cmds := []render.Cmd{
		{Shape: render.ShapeClear, Style: render.Style{Fill: render.RampBackground}},
		{Shape: render.ShapeRect, Center: cp.Vector{X: 100, Y: 50}, Width: 40, Height: 20, Style: render.Style{Fill: render.CarRed}},
		{Shape: render.ShapeCircle, Center: cp.Vector{X: 10, Y: 10}, Radius: 5, Style: render.Style{Fill: render.White}},
		{Shape: render.ShapeLine, From: cp.Vector{}, To: cp.Vector{X: 5, Y: 5}, Style: render.Style{Stroke: render.DistanceBlue, Weight: 1, Dashed: true}},
		{Shape: render.ShapeText, At: cp.Vector{X: 300, Y: 40}, Text: "v² < 2as", Size: 20, Align: render.AlignRight, Style: render.Style{Fill: render.Label}},
	}

	svg := CmdsToSVG(cmds, vp)

	for _, want := range []string{
		`width="640" height="480"`,
		`fill="#141414"`,
		`<rect x="80.0" y="40.0" width="40.0" height="20.0"`,
		`fill="#ff4c4c"`,
		`<circle cx="10.0" cy="10.0" r="5.0" fill="#ffffff"/>`,
		`stroke-dasharray="5 5"`,
		`text-anchor="end"`,
		`v² &lt; 2as`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("missing %q in:\n%s", want, svg)
		}
	}
	if !strings.HasSuffix(svg, "</svg>") {
		t.Error("document not closed")
	}
}

func TestCmdsToSVG_Outline(t *testing.T) {
	svg := CmdsToSVG([]render.Cmd{{
		Shape: render.ShapeRect, Width: 10, Height: 10,
		Style: render.Style{Stroke: render.White, Weight: 2},
	}}, scene.Viewport{Width: 10, Height: 10})

	if !strings.Contains(svg, `fill="none" stroke="#ffffff" stroke-width="2.0"`) {
		t.Errorf("expected an unfilled outline:\n%s", svg)
	}
}

func TestTrajectoryToSVG(t *testing.T) {
	vp := scene.Viewport{Width: 200, Height: 100}
	pts := []cp.Vector{{X: 1, Y: 2}, {X: 3, Y: 4}, {X: 5, Y: 6}}

	svg := TrajectoryToSVG(pts, vp, render.Background, render.DistanceBlue)
	if !strings.Contains(svg, `d="M1.0,2.0 L3.0,4.0 L5.0,6.0"`) {
		t.Errorf("unexpected path:\n%s", svg)
	}
	if TrajectoryToSVG(pts[:1], vp, render.Background, render.DistanceBlue) != "" {
		t.Error("a single point has no path")
	}
}
