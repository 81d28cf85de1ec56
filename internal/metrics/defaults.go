package metrics

import (
	"github.com/san-kum/kinelab/internal/lab"
	"github.com/san-kum/kinelab/internal/scene"
)

// restSpeed is the speed, px/s, below which a body counts as at rest.
const restSpeed = 5.0

// Default returns the metrics worth recording for a demo.
func Default(demo string) []lab.Metric {
	ms := []lab.Metric{NewEnergy()}
	switch demo {
	case "falling":
		ms = append(ms, NewPopulation(scene.RoleBox))
	case "spring":
		ms = append(ms, NewPeakSpeed(), NewStability(restSpeed))
	case "ramp":
		ms = append(ms, NewPeakSpeed(), NewKinematicsError(50))
	}
	return ms
}
