// Package export writes draw-command lists and recorded paths as SVG.
package export

import (
	"fmt"
	"html"
	"image/color"
	"math"
	"strings"

	"github.com/jakecoffman/cp"
	"github.com/san-kum/kinelab/internal/render"
	"github.com/san-kum/kinelab/internal/scene"
)

// CmdsToSVG replays one frame's draw commands into an SVG document the size
// of the viewport.
func CmdsToSVG(cmds []render.Cmd, vp scene.Viewport) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
`, vp.Width, vp.Height, vp.Width, vp.Height)

	for _, c := range cmds {
		switch c.Shape {
		case render.ShapeClear:
			fmt.Fprintf(&sb, `<rect width="100%%" height="100%%" fill="%s"/>`+"\n", hex(c.Style.Fill))
		case render.ShapeRect:
			fmt.Fprintf(&sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" transform="rotate(%.2f %.1f %.1f)"%s/>`+"\n",
				c.Center.X-c.Width/2, c.Center.Y-c.Height/2, c.Width, c.Height,
				c.Angle*180/math.Pi, c.Center.X, c.Center.Y, paint(c.Style))
		case render.ShapeCircle:
			fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"%s/>`+"\n", c.Center.X, c.Center.Y, c.Radius, paint(c.Style))
		case render.ShapeLine:
			fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"%s/>`+"\n", c.From.X, c.From.Y, c.To.X, c.To.Y, paint(c.Style))
		case render.ShapeText:
			anchor := "start"
			if c.Align == render.AlignRight {
				anchor = "end"
			}
			fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" font-family="monospace" font-size="%.0f" text-anchor="%s" fill="%s">%s</text>`+"\n",
				c.At.X, c.At.Y, c.Size, anchor, hex(c.Style.Fill), html.EscapeString(c.Text))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// TrajectoryToSVG draws a recorded path in viewport coordinates over the
// given background.
func TrajectoryToSVG(points []cp.Vector, vp scene.Viewport, bg, stroke color.RGBA) string {
	if len(points) < 2 {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="`,
		vp.Width, vp.Height, vp.Width, vp.Height, hex(bg), hex(stroke))

	for i, p := range points {
		op := " L"
		if i == 0 {
			op = "M"
		}
		fmt.Fprintf(&sb, "%s%.1f,%.1f", op, p.X, p.Y)
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func paint(s render.Style) string {
	var sb strings.Builder
	if s.Fill.A == 0 {
		sb.WriteString(` fill="none"`)
	} else {
		fmt.Fprintf(&sb, ` fill="%s"`, hex(s.Fill))
	}
	if s.Stroke.A != 0 {
		fmt.Fprintf(&sb, ` stroke="%s" stroke-width="%.1f"`, hex(s.Stroke), max(s.Weight, 1))
		if s.Dashed {
			sb.WriteString(` stroke-dasharray="5 5"`)
		}
	}
	return sb.String()
}
