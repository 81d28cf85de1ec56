package scene

import (
	"math"

	"github.com/jakecoffman/cp"
)

// tieEpsilon is the projection difference under which two corners count as
// equally extreme. Corners at the same end of a rectangle tie exactly in
// theory and differ only by rounding in practice.
const tieEpsilon = 1e-9

// RotatedCorners returns the four vertices of a w x h rectangle centered at
// center and rotated by angle, in the order top-left, top-right,
// bottom-right, bottom-left of the unrotated box.
func RotatedCorners(center cp.Vector, w, h, angle float64) [4]cp.Vector {
	rot := cp.ForAngle(angle)
	hw, hh := w/2, h/2
	local := [4]cp.Vector{
		{X: -hw, Y: -hh},
		{X: hw, Y: -hh},
		{X: hw, Y: hh},
		{X: -hw, Y: hh},
	}
	var out [4]cp.Vector
	for i, v := range local {
		out[i] = center.Add(v.Rotate(rot))
	}
	return out
}

// ExtremeCorner picks the corner with the minimum (or maximum, when max is
// set) projection on dir. Corners within tieEpsilon of the extreme are
// separated by the larger projection on tiebreak.
func ExtremeCorner(corners [4]cp.Vector, dir cp.Vector, max bool, tiebreak cp.Vector) cp.Vector {
	sign := 1.0
	if max {
		sign = -1
	}
	best := corners[0]
	bestProj := sign * best.Dot(dir)
	for _, c := range corners[1:] {
		proj := sign * c.Dot(dir)
		switch {
		case proj < bestProj-tieEpsilon*scaleOf(proj):
			best, bestProj = c, proj
		case math.Abs(proj-bestProj) <= tieEpsilon*scaleOf(proj):
			if c.Dot(tiebreak) > best.Dot(tiebreak) {
				best, bestProj = c, math.Min(proj, bestProj)
			}
		}
	}
	return best
}

func scaleOf(v float64) float64 {
	return math.Max(1, math.Abs(v))
}

// SurfaceNormal is the unit normal of a surface running along dir that points
// up the screen (negative y) for angles in (-90°, 90°).
func SurfaceNormal(dir cp.Vector) cp.Vector {
	return cp.Vector{X: dir.Y, Y: -dir.X}
}

// DistanceToLine is the perpendicular distance from p to the line through
// origin with unit direction dir.
func DistanceToLine(p, origin, dir cp.Vector) float64 {
	return math.Abs(p.Sub(origin).Cross(dir))
}
