package metrics

import (
	"math"

	"github.com/san-kum/kinelab/internal/engine"
	"github.com/san-kum/kinelab/internal/overlay"
)

// Energy is the mean total kinetic energy of the world's dynamic bodies.
type Energy struct {
	name        string
	samples     int
	totalEnergy float64
}

func NewEnergy() *Energy {
	return &Energy{name: "kinetic_energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(w *engine.World, _ overlay.Readout, _ float64) {
	e.totalEnergy += w.KineticEnergy()
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// PeakSpeed is the highest tracked-body speed seen.
type PeakSpeed struct {
	name string
	peak float64
}

func NewPeakSpeed() *PeakSpeed {
	return &PeakSpeed{name: "peak_speed"}
}

func (p *PeakSpeed) Name() string { return p.name }

func (p *PeakSpeed) Observe(_ *engine.World, r overlay.Readout, _ float64) {
	p.peak = math.Max(p.peak, r.Speed)
}

func (p *PeakSpeed) Value() float64 { return p.peak }
func (p *PeakSpeed) Reset()         { p.peak = 0 }

// KinematicsError tracks the worst relative gap between v² and 2as while
// the tracked body is on the ramp, i.e. how far friction and drag pull the
// simulation away from the frictionless prediction.
type KinematicsError struct {
	name     string
	minDist  float64
	maxError float64
}

func NewKinematicsError(minDist float64) *KinematicsError {
	return &KinematicsError{name: "kinematics_error", minDist: minDist}
}

func (k *KinematicsError) Name() string { return k.name }

func (k *KinematicsError) Observe(_ *engine.World, r overlay.Readout, _ float64) {
	if !r.Tracking || r.Landed || r.Distance < k.minDist || r.TwoAS == 0 {
		return
	}
	gap := math.Abs(r.VSquared-r.TwoAS) / math.Abs(r.TwoAS)
	k.maxError = math.Max(k.maxError, gap)
}

func (k *KinematicsError) Value() float64 { return k.maxError }
func (k *KinematicsError) Reset()         { k.maxError = 0 }
