// Package engine owns the rigid-body world the demos run in. It wraps a
// Chipmunk space and exposes just what the controller needs: load a scene,
// step it, spawn and remove bodies, and drag dynamic bodies with the pointer.
package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/san-kum/kinelab/internal/scene"
)

const (
	// BaseDt is one frame at 60 Hz.
	BaseDt = 1.0 / 60.0
	// BaseGravity is gravity at scale 1, px/s².
	BaseGravity = 1000.0

	Iterations = 10

	grabRadius      = 5.0
	pointerMaxForce = 50000.0
	pointerFollow   = 0.25
)

var (
	ErrNoBody       = errors.New("engine: body not in world")
	ErrBadReference = errors.New("engine: constraint references missing body")
)

const grabbableMask uint = 1 << 31

// Dynamic shapes keep cp.SHAPE_FILTER_ALL so they collide with everything;
// only non-dynamic shapes drop the grabbable category.
var (
	grabFilter    = cp.ShapeFilter{Group: cp.NO_GROUP, Categories: grabbableMask, Mask: grabbableMask}
	notGrabFilter = cp.ShapeFilter{Group: cp.NO_GROUP, Categories: ^grabbableMask, Mask: ^grabbableMask}
)

// StepParams are the world-level knobs applied on every step.
type StepParams struct {
	GravityScale float64
	TimeScale    float64
}

func DefaultStepParams() StepParams { return StepParams{GravityScale: 1, TimeScale: 1} }

// Spring is a damped spring constraint between two bodies (or a body and the
// world when one end is fixed).
type Spring struct {
	c    *cp.Constraint
	s    *cp.DampedSpring
	a, b *Body
}

func (s *Spring) Stiffness() float64  { return s.s.Stiffness }
func (s *Spring) Damping() float64    { return s.s.Damping }
func (s *Spring) RestLength() float64 { return s.s.RestLength }

func (s *Spring) SetStiffness(k float64) {
	if k < 0 {
		return
	}
	s.c.ActivateBodies()
	s.s.Stiffness = k
}

func (s *Spring) SetDamping(d float64) {
	if d < 0 {
		return
	}
	s.c.ActivateBodies()
	s.s.Damping = d
}

func (s *Spring) SetRestLength(l float64) {
	if l < 0 {
		return
	}
	s.c.ActivateBodies()
	s.s.RestLength = l
}

// Endpoints returns the world positions of the two attachment points.
func (s *Spring) Endpoints() (cp.Vector, cp.Vector) {
	a, b := s.s.AnchorA, s.s.AnchorB
	if s.a != nil {
		a = s.a.body.LocalToWorld(a)
	}
	if s.b != nil {
		b = s.b.body.LocalToWorld(b)
	}
	return a, b
}

// Length is the current distance between the endpoints.
func (s *Spring) Length() float64 {
	a, b := s.Endpoints()
	return a.Distance(b)
}

// World is a Chipmunk space plus the bookkeeping needed to map Chipmunk
// bodies back to roles. It is not safe for concurrent use.
type World struct {
	space   *cp.Space
	bodies  []*Body
	scene   []*Body
	springs []*Spring
	nextID  int

	gravity float64
	dt      float64
	ticks   int

	pointer *Body
	joint   *cp.Constraint
	grabbed *Body
	target  cp.Vector
}

func NewWorld() *World {
	w := &World{}
	w.reset()
	return w
}

func (w *World) reset() {
	w.space = cp.NewSpace()
	w.space.Iterations = Iterations
	w.space.SetGravity(cp.Vector{X: 0, Y: BaseGravity})
	w.bodies = nil
	w.scene = nil
	w.springs = nil
	w.gravity = BaseGravity
	w.dt = BaseDt
	w.ticks = 0
	w.joint = nil
	w.grabbed = nil

	mouse := cp.NewKinematicBody()
	w.space.AddBody(mouse)
	w.pointer = &Body{id: -1, spec: scene.BodySpec{Kind: scene.KindPointer}, body: mouse}
}

// Load discards everything in the world and registers the scene's bodies and
// springs in order. Scene body i is afterwards SceneBody(i).
func (w *World) Load(sc scene.Scene) error {
	w.reset()
	for _, spec := range sc.Bodies {
		w.scene = append(w.scene, w.AddBody(spec))
	}
	for i, cs := range sc.Constraints {
		if _, err := w.addSpring(cs); err != nil {
			return fmt.Errorf("constraint %d: %w", i, err)
		}
	}
	return nil
}

// AddBody creates and registers one body.
func (w *World) AddBody(spec scene.BodySpec) *Body {
	var body *cp.Body
	switch spec.Kind {
	case scene.KindStatic:
		body = cp.NewStaticBody()
	case scene.KindPointer:
		body = cp.NewKinematicBody()
	default:
		if spec.Mass <= 0 {
			spec.Mass = 1
		}
		body = cp.NewBody(spec.Mass, momentFor(spec.Geometry, spec.Mass))
	}
	body.SetPosition(spec.Position)
	body.SetAngle(spec.Angle)
	if spec.Kind == scene.KindDynamic && spec.AirFriction > 0 {
		body.SetVelocityUpdateFunc(airDrag(spec.AirFriction))
	}

	var shape *cp.Shape
	if spec.Geometry.IsCircle() {
		shape = cp.NewCircle(body, spec.Geometry.Radius, cp.Vector{})
	} else {
		shape = cp.NewBox(body, spec.Geometry.Width, spec.Geometry.Height, 0)
	}
	shape.SetFriction(spec.Friction)
	shape.SetElasticity(spec.Restitution)
	shape.SetSensor(spec.Sensor)
	if spec.Kind != scene.KindDynamic {
		shape.SetFilter(notGrabFilter)
	}

	b := &Body{id: w.nextID, spec: spec, body: body, shape: shape}
	w.nextID++
	body.UserData = b

	w.space.AddBody(body)
	w.space.AddShape(shape)
	w.bodies = append(w.bodies, b)
	return b
}

// RemoveBody unregisters a body and any springs attached to it.
func (w *World) RemoveBody(b *Body) error {
	idx := w.indexOf(b)
	if idx < 0 {
		return ErrNoBody
	}
	if w.grabbed == b {
		w.Release()
	}

	kept := w.springs[:0]
	for _, s := range w.springs {
		if s.a == b || s.b == b {
			w.space.RemoveConstraint(s.c)
			continue
		}
		kept = append(kept, s)
	}
	w.springs = kept

	w.space.RemoveShape(b.shape)
	w.space.RemoveBody(b.body)
	w.bodies = append(w.bodies[:idx], w.bodies[idx+1:]...)
	for i, sb := range w.scene {
		if sb == b {
			w.scene[i] = nil
		}
	}
	return nil
}

func (w *World) indexOf(b *Body) int {
	for i, x := range w.bodies {
		if x == b {
			return i
		}
	}
	return -1
}

func (w *World) addSpring(cs scene.ConstraintSpec) (*Spring, error) {
	a, err := w.endpoint(cs.A)
	if err != nil {
		return nil, err
	}
	b, err := w.endpoint(cs.B)
	if err != nil {
		return nil, err
	}

	bodyA, bodyB := w.space.StaticBody, w.space.StaticBody
	if a != nil {
		bodyA = a.body
	}
	if b != nil {
		bodyB = b.body
	}

	c := w.space.AddConstraint(cp.NewDampedSpring(bodyA, bodyB, cs.AnchorA, cs.AnchorB, cs.RestLength, cs.Stiffness, cs.Damping))
	s := &Spring{c: c, s: c.Class.(*cp.DampedSpring), a: a, b: b}
	w.springs = append(w.springs, s)
	return s, nil
}

func (w *World) endpoint(i int) (*Body, error) {
	if i == scene.Fixed {
		return nil, nil
	}
	if i < 0 || i >= len(w.scene) || w.scene[i] == nil {
		return nil, fmt.Errorf("%w: index %d", ErrBadReference, i)
	}
	return w.scene[i], nil
}

// Step applies the gravity and time scale and advances the world by one frame.
func (w *World) Step(p StepParams) {
	w.gravity = BaseGravity * p.GravityScale
	w.space.SetGravity(cp.Vector{X: 0, Y: w.gravity})
	w.dt = BaseDt * p.TimeScale
	if w.grabbed != nil {
		w.follow()
	}
	if w.dt > 0 && !math.IsInf(w.dt, 0) {
		w.space.Step(w.dt)
	}
	w.ticks++
}

// Gravity is the downward acceleration used by the last step, px/s².
func (w *World) Gravity() float64 { return w.gravity }

// Dt is the duration of the last step, s.
func (w *World) Dt() float64 { return w.dt }

func (w *World) Ticks() int         { return w.ticks }
func (w *World) Bodies() []*Body    { return w.bodies }
func (w *World) Springs() []*Spring { return w.springs }
func (w *World) BodyCount() int     { return len(w.bodies) }

// SceneBody returns the body created from scene body i by the last Load, or
// nil if it has been removed.
func (w *World) SceneBody(i int) *Body {
	if i < 0 || i >= len(w.scene) {
		return nil
	}
	return w.scene[i]
}

// FirstWithRole returns the first live body with the role, or nil.
func (w *World) FirstWithRole(r scene.Role) *Body {
	for _, b := range w.bodies {
		if b.Role() == r {
			return b
		}
	}
	return nil
}

// CountRole counts live bodies with the role.
func (w *World) CountRole(r scene.Role) int {
	n := 0
	for _, b := range w.bodies {
		if b.Role() == r {
			n++
		}
	}
	return n
}

// KineticEnergy sums the kinetic energy of every dynamic body.
func (w *World) KineticEnergy() float64 {
	e := 0.0
	for _, b := range w.bodies {
		e += b.KineticEnergy()
	}
	return e
}
