package scene

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/san-kum/kinelab/internal/params"
)

const (
	AnchorRadius      = 20.0
	AnchorY           = 50.0
	WeightRadius      = 40.0
	WeightY           = 300.0
	WeightRestitution = 0.8

	// StiffnessScale and DampingScale convert the unitless slider values into
	// spring constants (force per pixel, force per pixel/second).
	StiffnessScale = 2000.0
	DampingScale   = 100.0

	DefaultStiffness  = 0.05
	DefaultDamping    = 0.01
	DefaultRestLength = 200.0
	DefaultMass       = 5.0
)

func SpringStiffness(slider float64) float64 { return slider * StiffnessScale }
func SpringDamping(slider float64) float64   { return slider * DampingScale }

// BuildSpring lays out a static anchor with a weight hanging from it on a
// damped spring.
func BuildSpring(p params.Snapshot, vp Viewport) Scene {
	anchor := cp.Vector{X: vp.Width / 2, Y: AnchorY}
	weight := cp.Vector{X: vp.Width / 2, Y: WeightY}

	bodies := []BodySpec{
		{
			Role:     RoleAnchor,
			Kind:     KindStatic,
			Geometry: Circle(AnchorRadius),
			Position: anchor,
		},
		{
			Role:        RoleWeight,
			Kind:        KindDynamic,
			Geometry:    Circle(WeightRadius),
			Position:    weight,
			Mass:        p.Get(KeyMass, DefaultMass),
			Friction:    0.1,
			Restitution: WeightRestitution,
		},
	}
	constraints := []ConstraintSpec{{
		A:          0,
		B:          1,
		RestLength: p.Get(KeyLength, DefaultRestLength),
		Stiffness:  SpringStiffness(p.Get(KeyStiffness, DefaultStiffness)),
		Damping:    SpringDamping(p.Get(KeyDamping, DefaultDamping)),
	}}

	return Scene{
		Bodies:      bodies,
		Constraints: constraints,
		Viewport:    vp,
		Frame: Frame{
			Subject:      1,
			Origin:       weight,
			Direction:    cp.Vector{X: 0, Y: 1},
			SurfaceAngle: math.Pi / 2,
			LandingX:     math.Inf(1),
			HalfLength:   WeightRadius,
		},
	}
}

// PredictedPeriod is the undamped period 2π√(m/k) of the weight on the
// spring, in seconds.
func PredictedPeriod(mass, stiffnessSlider float64) float64 {
	k := SpringStiffness(stiffnessSlider)
	if k <= 0 || mass <= 0 {
		return 0
	}
	return 2 * math.Pi * math.Sqrt(mass/k)
}
