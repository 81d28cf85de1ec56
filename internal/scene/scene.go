// Package scene builds the bodies, constraints and reference frame of a demo
// from a parameter snapshot and a viewport.
//
// Builders are pure: they read only their arguments and return a brand-new
// [Scene]. Identical arguments always yield bit-identical placements, which
// is what lets the controller throw a scene away and rebuild it at any frame.
//
// Coordinates are screen pixels with y pointing down. Angles are radians,
// positive angles rotate from +x towards +y.
package scene

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Parameter keys shared by the demo surfaces.
const (
	KeyGravityScale = "gravityScale"
	KeyTimeScale    = "timeScale"
	KeyStiffness    = "stiffness"
	KeyDamping      = "damping"
	KeyLength       = "length"
	KeyMass         = "mass"
	KeyAngle        = "angle"
	KeyFriction     = "friction"
)

// Kind is the closed set of body variants the engine knows about.
type Kind uint8

const (
	// KindStatic bodies never move: ground, walls, ramps, spring anchors.
	KindStatic Kind = iota
	// KindDynamic bodies are integrated by the engine.
	KindDynamic
	// KindPointer is the kinematic body driven by the pointer while dragging.
	KindPointer
)

func (k Kind) String() string {
	switch k {
	case KindStatic:
		return "static"
	case KindDynamic:
		return "dynamic"
	case KindPointer:
		return "pointer"
	}
	return "unknown"
}

// Role says what a body is for; renderers and demos key off it.
type Role uint8

const (
	RoleGround Role = iota
	RoleWall
	RoleRamp
	RoleCar
	RoleAnchor
	RoleWeight
	RoleBox
)

var roleNames = [...]string{"ground", "wall", "ramp", "car", "anchor", "weight", "box"}

func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return "unknown"
}

type ShapeKind uint8

const (
	ShapeRect ShapeKind = iota
	ShapeCircle
)

// Geometry carries only the dimensions its shape needs.
type Geometry struct {
	Shape  ShapeKind
	Width  float64
	Height float64
	Radius float64
}

func Rect(w, h float64) Geometry  { return Geometry{Shape: ShapeRect, Width: w, Height: h} }
func Circle(r float64) Geometry   { return Geometry{Shape: ShapeCircle, Radius: r} }
func (g Geometry) IsCircle() bool { return g.Shape == ShapeCircle }
func (g Geometry) Area() float64 {
	if g.IsCircle() {
		return math.Pi * g.Radius * g.Radius
	}
	return g.Width * g.Height
}

// BodySpec is the creation-time description of one rigid body.
type BodySpec struct {
	Role        Role
	Kind        Kind
	Geometry    Geometry
	Position    cp.Vector
	Angle       float64
	Mass        float64
	Friction    float64
	Restitution float64
	AirFriction float64
	// Sensor bodies are drawn but take no part in collisions.
	Sensor bool
}

// Fixed marks a constraint end attached to a world point instead of a body.
const Fixed = -1

// ConstraintSpec links two bodies (indices into Scene.Bodies) with a damped spring.
type ConstraintSpec struct {
	A, B       int
	AnchorA    cp.Vector
	AnchorB    cp.Vector
	RestLength float64
	Stiffness  float64
	Damping    float64
}

type Viewport struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Frame is the reference frame the overlay measures the tracked body against.
// It is fixed when the scene is built.
type Frame struct {
	// Subject indexes the tracked body in Scene.Bodies, or is NoSubject.
	Subject      int
	Origin       cp.Vector
	Direction    cp.Vector
	SurfaceAngle float64
	// LandingX is the ground-intersection x; +Inf disables landing detection.
	LandingX float64
	// HalfLength is the subject's half extent along Direction.
	HalfLength   float64
	InitialSpeed float64
}

const NoSubject = -1

func (f Frame) Tracks() bool { return f.Subject >= 0 }

// Scene is everything a demo registers with the world, replaced wholesale.
type Scene struct {
	Bodies      []BodySpec
	Constraints []ConstraintSpec
	Frame       Frame
	Viewport    Viewport
}

// Find returns the index of the first body with the given role.
func (s Scene) Find(role Role) int {
	for i, b := range s.Bodies {
		if b.Role == role {
			return i
		}
	}
	return -1
}

func Radians(deg float64) float64 { return deg * math.Pi / 180 }
