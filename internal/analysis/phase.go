package analysis

import (
	"strings"
)

// PhasePortrait2D holds data for a 2D phase space plot
type PhasePortrait2D struct {
	Points []struct{ X, Y float64 }
}

// NewPhasePortrait pairs each displacement with the matching velocity. The
// shorter slice bounds the portrait.
func NewPhasePortrait(displacement, velocity []float64) *PhasePortrait2D {
	n := min(len(displacement), len(velocity))
	portrait := &PhasePortrait2D{
		Points: make([]struct{ X, Y float64 }, 0, n),
	}
	for i := 0; i < n; i++ {
		portrait.Points = append(portrait.Points, struct{ X, Y float64 }{
			X: displacement[i],
			Y: velocity[i],
		})
	}
	return portrait
}

// Velocity differentiates a sampled trace with central differences (one-sided
// at the ends).
func Velocity(data []float64, dt float64) []float64 {
	n := len(data)
	if n < 2 || dt <= 0 {
		return make([]float64, n)
	}
	v := make([]float64, n)
	v[0] = (data[1] - data[0]) / dt
	v[n-1] = (data[n-1] - data[n-2]) / dt
	for i := 1; i < n-1; i++ {
		v[i] = (data[i+1] - data[i-1]) / (2 * dt)
	}
	return v
}

type bounds struct{ minX, maxX, minY, maxY float64 }

// padded returns the portrait's bounding box grown by 10% on every side, with
// flat axes widened to a unit range.
func (p *PhasePortrait2D) padded() bounds {
	b := bounds{p.Points[0].X, p.Points[0].X, p.Points[0].Y, p.Points[0].Y}
	for _, pt := range p.Points[1:] {
		b.minX, b.maxX = min(b.minX, pt.X), max(b.maxX, pt.X)
		b.minY, b.maxY = min(b.minY, pt.Y), max(b.maxY, pt.Y)
	}
	grow := func(lo, hi float64) (float64, float64) {
		span := hi - lo
		if span == 0 {
			span = 1
		}
		return lo - span*0.1, hi + span*0.1
	}
	b.minX, b.maxX = grow(b.minX, b.maxX)
	b.minY, b.maxY = grow(b.minY, b.maxY)
	return b
}

// PhasePortraitToASCII plots the portrait on a width x height character grid
// with the zero axes drawn where they are in view.
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width < 2 || height < 2 {
		return ""
	}
	b := portrait.padded()
	col := func(x float64) int { return int((x - b.minX) / (b.maxX - b.minX) * float64(width-1)) }
	row := func(y float64) int { return height - 1 - int((y-b.minY)/(b.maxY-b.minY)*float64(height-1)) }

	grid := make([][]rune, height)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", width))
	}
	set := func(r, c int, ch rune, overwrite bool) {
		if r < 0 || r >= height || c < 0 || c >= width {
			return
		}
		if overwrite || grid[r][c] == ' ' {
			grid[r][c] = ch
		}
	}

	for _, pt := range portrait.Points {
		set(row(pt.Y), col(pt.X), '•', true)
	}
	if b.minX <= 0 && b.maxX >= 0 {
		for r, c := 0, col(0); r < height; r++ {
			set(r, c, '│', false)
		}
	}
	if b.minY <= 0 && b.maxY >= 0 {
		for c, r := 0, row(0); c < width; c++ {
			set(r, c, '─', false)
		}
	}

	var sb strings.Builder
	for _, r := range grid {
		sb.WriteString(string(r))
		sb.WriteRune('\n')
	}
	return sb.String()
}
