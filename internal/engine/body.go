package engine

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/san-kum/kinelab/internal/scene"
)

// Body is one rigid body registered with a World. Callers read it; only the
// world and the demo patchers write to it.
type Body struct {
	id    int
	spec  scene.BodySpec
	body  *cp.Body
	shape *cp.Shape
}

func (b *Body) ID() int                  { return b.id }
func (b *Body) Role() scene.Role         { return b.spec.Role }
func (b *Body) Kind() scene.Kind         { return b.spec.Kind }
func (b *Body) Geometry() scene.Geometry { return b.spec.Geometry }
func (b *Body) Spec() scene.BodySpec     { return b.spec }
func (b *Body) Position() cp.Vector      { return b.body.Position() }
func (b *Body) Angle() float64           { return b.body.Angle() }
func (b *Body) Velocity() cp.Vector      { return b.body.Velocity() }

// Speed is the magnitude of the body's linear velocity, px/s.
func (b *Body) Speed() float64 { return b.body.Velocity().Length() }

func (b *Body) Mass() float64 {
	if b.spec.Kind != scene.KindDynamic {
		return math.Inf(1)
	}
	return b.body.Mass()
}

// SetMass changes a dynamic body's mass and rescales its moment to match.
// It is a no-op for static and pointer bodies and for non-positive masses.
func (b *Body) SetMass(m float64) {
	if b.spec.Kind != scene.KindDynamic || m <= 0 || m == b.body.Mass() {
		return
	}
	b.body.SetMass(m)
	b.body.SetMoment(momentFor(b.spec.Geometry, m))
	b.spec.Mass = m
}

func (b *Body) Friction() float64 {
	if b.shape == nil {
		return 0
	}
	return b.shape.Friction()
}

func (b *Body) SetFriction(u float64) {
	if b.shape == nil || u < 0 {
		return
	}
	b.shape.SetFriction(u)
	b.spec.Friction = u
}

// KineticEnergy is ½mv² + ½Iω² for dynamic bodies and 0 otherwise.
func (b *Body) KineticEnergy() float64 {
	if b.spec.Kind != scene.KindDynamic {
		return 0
	}
	v := b.body.Velocity().LengthSq()
	w := b.body.AngularVelocity()
	return 0.5*b.body.Mass()*v + 0.5*b.body.Moment()*w*w
}

func momentFor(g scene.Geometry, mass float64) float64 {
	if g.IsCircle() {
		return cp.MomentForCircle(mass, 0, g.Radius, cp.Vector{})
	}
	return cp.MomentForBox(mass, g.Width, g.Height)
}

// airDrag scales the per-step damping by the fraction of velocity a body
// keeps after one 60 Hz frame of air friction.
func airDrag(frictionAir float64) cp.BodyVelocityFunc {
	return func(body *cp.Body, gravity cp.Vector, damping, dt float64) {
		retain := math.Pow(1-frictionAir, dt*60)
		cp.BodyUpdateVelocity(body, gravity, damping*retain, dt)
	}
}
