package scene

import (
	"github.com/jakecoffman/cp"
	"github.com/san-kum/kinelab/internal/params"
)

const (
	BoxDensity     = 0.001
	BoxFriction    = 0.1
	DefaultBoxSize = 30.0
)

// BuildFalling lays out the empty floor that pointer-spawned boxes land on.
// It tracks nothing, so the overlay stays off.
func BuildFalling(_ params.Snapshot, vp Viewport) Scene {
	return Scene{
		Bodies:   []BodySpec{Ground(vp)},
		Viewport: vp,
		Frame:    Frame{Subject: NoSubject},
	}
}

// Box describes a square dynamic body of the given side centered at pos.
func Box(pos cp.Vector, size float64) BodySpec {
	g := Rect(size, size)
	return BodySpec{
		Role:     RoleBox,
		Kind:     KindDynamic,
		Geometry: g,
		Position: pos,
		Mass:     BoxDensity * g.Area(),
		Friction: BoxFriction,
	}
}
