package scene

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/san-kum/kinelab/internal/params"
)

const (
	RampBaseX      = 150.0
	RampBaseInset  = 40.0
	RampThickness  = 20.0
	GroundHeight   = 40.0
	WallWidth      = 20.0
	CarLength      = 40.0
	CarHeight      = 20.0
	CarMass        = 4.0
	CarAirFriction = 0.005

	DefaultRampAngle    = 30.0
	DefaultRampLength   = 500.0
	DefaultRampFriction = 0.001
)

// RampBase is the right-angle corner of the triangle the ramp spans: the
// ramp's center line runs from straight above it down to the ground
// length·cos(angle) to its right.
func RampBase(vp Viewport) cp.Vector {
	return cp.Vector{X: RampBaseX, Y: vp.Height - RampBaseInset}
}

// Ground is the static floor spanning the whole viewport.
func Ground(vp Viewport) BodySpec {
	return BodySpec{
		Role:     RoleGround,
		Kind:     KindStatic,
		Geometry: Rect(vp.Width, GroundHeight),
		Position: cp.Vector{X: vp.Width / 2, Y: vp.Height - GroundHeight/2},
		Friction: 1,
	}
}

// RampGeometry is the derived placement of a ramp of the given angle and length.
type RampGeometry struct {
	Center    cp.Vector
	Direction cp.Vector
	Normal    cp.Vector
	Top       cp.Vector
	Spawn     cp.Vector
	LandingX  float64
}

// PlaceRamp computes the ramp center from its pivot, then finds the top
// corner of the rotated ramp and offsets the car from it so the car's center
// sits half the car's height above the ramp surface.
func PlaceRamp(vp Viewport, angle, length float64) RampGeometry {
	base := RampBase(vp)
	dir := cp.ForAngle(angle)
	normal := SurfaceNormal(dir)

	center := cp.Vector{
		X: base.X + length/2*math.Cos(angle),
		Y: base.Y - length/2*math.Sin(angle),
	}
	corners := RotatedCorners(center, length, RampThickness, angle)
	top := ExtremeCorner(corners, dir, false, normal)

	return RampGeometry{
		Center:    center,
		Direction: dir,
		Normal:    normal,
		Top:       top,
		Spawn:     RampSpawnPoint(top, dir, normal),
		LandingX:  center.X + length/2*math.Cos(angle),
	}
}

// RampSpawnPoint offsets from the ramp's top corner by half a car length
// along the slope and half a car height off the surface.
func RampSpawnPoint(top, dir, normal cp.Vector) cp.Vector {
	return top.Add(dir.Mult(CarLength / 2)).Add(normal.Mult(CarHeight / 2))
}

// BuildRamp lays out the ramp demo: ground, support wall, angled ramp and a
// car resting at the top of the ramp.
func BuildRamp(p params.Snapshot, vp Viewport) Scene {
	angle := Radians(p.Get(KeyAngle, DefaultRampAngle))
	length := p.Get(KeyLength, DefaultRampLength)
	friction := p.Get(KeyFriction, DefaultRampFriction)

	geo := PlaceRamp(vp, angle, length)

	bodies := []BodySpec{
		Ground(vp),
		{
			Role:     RoleWall,
			Kind:     KindStatic,
			Geometry: Rect(WallWidth, vp.Height),
			Position: cp.Vector{X: RampBaseX, Y: vp.Height / 2},
			Sensor:   true,
		},
		{
			Role:     RoleRamp,
			Kind:     KindStatic,
			Geometry: Rect(length, RampThickness),
			Position: geo.Center,
			Angle:    angle,
			Friction: friction,
		},
		{
			Role:        RoleCar,
			Kind:        KindDynamic,
			Geometry:    Rect(CarLength, CarHeight),
			Position:    geo.Spawn,
			Angle:       angle,
			Mass:        CarMass,
			Friction:    1,
			AirFriction: CarAirFriction,
		},
	}

	return Scene{
		Bodies:   bodies,
		Viewport: vp,
		Frame: Frame{
			Subject:      3,
			Origin:       geo.Spawn,
			Direction:    geo.Direction,
			SurfaceAngle: angle,
			LandingX:     geo.LandingX,
			HalfLength:   CarLength / 2,
		},
	}
}
