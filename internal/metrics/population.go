package metrics

import (
	"github.com/san-kum/kinelab/internal/engine"
	"github.com/san-kum/kinelab/internal/overlay"
	"github.com/san-kum/kinelab/internal/scene"
)

// Population is the largest number of bodies with the given role that were
// alive at once.
type Population struct {
	name string
	role scene.Role
	max  int
}

func NewPopulation(role scene.Role) *Population {
	return &Population{
		name: role.String() + "_count",
		role: role,
	}
}

func (p *Population) Name() string {
	return p.name
}

func (p *Population) Observe(w *engine.World, _ overlay.Readout, _ float64) {
	if n := w.CountRole(p.role); n > p.max {
		p.max = n
	}
}

func (p *Population) Value() float64 {
	return float64(p.max)
}

func (p *Population) Reset() {
	p.max = 0
}
