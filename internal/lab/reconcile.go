package lab

import (
	"github.com/san-kum/kinelab/internal/params"
	"github.com/san-kum/kinelab/internal/scene"
)

// Reason says why a scene was (re)built.
type Reason uint8

const (
	ReasonNone Reason = iota
	ReasonInitial
	ReasonStructural
	ReasonViewport
	ReasonReset
	ReasonPointer
	ReasonOffscreen
)

var reasonNames = [...]string{"none", "initial", "structural", "viewport", "reset", "pointer", "offscreen"}

func (r Reason) String() string {
	if int(r) < len(reasonNames) {
		return reasonNames[r]
	}
	return "unknown"
}

// Decision is the outcome of comparing this frame's inputs with the last.
type Decision struct {
	Rebuild bool
	Reason  Reason
	// Changed lists the structural keys that differ, if any.
	Changed []string
}

// Reconcile decides between patching the live world and rebuilding it. A nil
// prev means nothing has been built yet. Viewport changes win over
// structural parameter changes when both happen in the same frame.
func Reconcile(prev, curr params.Snapshot, structural []string, prevVP, currVP scene.Viewport) Decision {
	if prev == nil {
		return Decision{Rebuild: true, Reason: ReasonInitial}
	}
	changed := prev.Changed(curr, structural)
	if prevVP != currVP {
		return Decision{Rebuild: true, Reason: ReasonViewport, Changed: changed}
	}
	if len(changed) > 0 {
		return Decision{Rebuild: true, Reason: ReasonStructural, Changed: changed}
	}
	return Decision{}
}
