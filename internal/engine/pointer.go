package engine

import (
	"math"

	"github.com/jakecoffman/cp"
)

// PointerState describes the drag joint, if any.
type PointerState struct {
	Position cp.Vector
	Target   cp.Vector
	Grabbed  *Body
}

func (p PointerState) Active() bool { return p.Grabbed != nil }

// Grab attaches the pointer to the dynamic body under pt. It returns the body
// or nil if there is nothing grabbable within reach.
func (w *World) Grab(pt cp.Vector) *Body {
	w.Release()

	w.pointer.body.SetVelocity(0, 0)
	w.pointer.body.SetPosition(pt)
	w.target = pt

	info := w.space.PointQueryNearest(pt, grabRadius, grabFilter)
	if info == nil || info.Shape == nil {
		return nil
	}
	body := info.Shape.Body()
	if body.Mass() >= math.Inf(1) {
		return nil
	}
	b, ok := body.UserData.(*Body)
	if !ok {
		return nil
	}

	hold := pt
	if info.Distance > 0 {
		hold = info.Point
	}
	joint := cp.NewPivotJoint2(w.pointer.body, body, cp.Vector{}, body.WorldToLocal(hold))
	joint.SetMaxForce(pointerMaxForce)
	joint.SetErrorBias(math.Pow(1-0.15, 60))
	w.joint = w.space.AddConstraint(joint)
	w.grabbed = b
	return b
}

// Drag moves the pointer target; the joint catches up on the next step.
func (w *World) Drag(pt cp.Vector) {
	w.target = pt
}

// Release drops whatever the pointer holds.
func (w *World) Release() {
	if w.joint != nil {
		w.space.RemoveConstraint(w.joint)
	}
	w.joint = nil
	w.grabbed = nil
}

func (w *World) Pointer() PointerState {
	return PointerState{
		Position: w.pointer.body.Position(),
		Target:   w.target,
		Grabbed:  w.grabbed,
	}
}

// follow eases the kinematic pointer body toward the target and gives it the
// velocity that covers that distance in one step.
func (w *World) follow() {
	pos := w.pointer.body.Position()
	next := pos.Lerp(w.target, pointerFollow)
	if w.dt > 0 {
		w.pointer.body.SetVelocityVector(next.Sub(pos).Mult(1 / w.dt))
	}
	w.pointer.body.SetPosition(next)
}
