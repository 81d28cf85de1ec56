package metrics

import (
	"github.com/san-kum/kinelab/internal/engine"
	"github.com/san-kum/kinelab/internal/overlay"
)

// Stability is the fraction of frames in which the tracked body moved slower
// than the threshold. A settled spring or a parked car reads close to 1.
type Stability struct {
	name      string
	threshold float64
	resting   int
	samples   int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(_ *engine.World, r overlay.Readout, _ float64) {
	if !r.Tracking {
		return
	}
	s.samples++
	if r.Speed < s.threshold {
		s.resting++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return float64(s.resting) / float64(s.samples)
}

func (s *Stability) Reset() {
	s.resting = 0
	s.samples = 0
}
