// Package overlay derives the kinematic readouts drawn over a tracked body:
// distance travelled along the reference direction, speed, the predicted
// acceleration g·sin θ and the speed at the bottom of the ramp.
package overlay

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/san-kum/kinelab/internal/scene"
)

// Metric selects how Distance is measured.
type Metric uint8

const (
	// MetricProjection is the signed displacement along the frame direction.
	MetricProjection Metric = iota
	// MetricMagnitude is the straight-line displacement from the origin.
	MetricMagnitude
)

func (m Metric) String() string {
	if m == MetricMagnitude {
		return "magnitude"
	}
	return "projection"
}

// ParseMetric maps a config string to a Metric; anything unrecognised is
// MetricProjection.
func ParseMetric(s string) Metric {
	if s == "magnitude" {
		return MetricMagnitude
	}
	return MetricProjection
}

// Sample is the tracked body's state after a step.
type Sample struct {
	Position cp.Vector
	Velocity cp.Vector
	Frame    int
}

type Readout struct {
	Tracking     bool
	Distance     float64
	Speed        float64
	Acceleration float64
	// VSquared and TwoAS are the two sides of v² = u² + 2as with u = 0.
	VSquared float64
	TwoAS    float64

	Landed      bool
	FinalSpeed  float64
	LandedFrame int
}

// Predicted is the along-slope acceleration g·sin θ.
func Predicted(g, angle float64) float64 {
	return finite(g * math.Sin(angle))
}

// Calculator is stateful only for the landing latch.
type Calculator struct {
	metric Metric

	landed      bool
	final       float64
	landedFrame int
}

func NewCalculator(m Metric) *Calculator {
	return &Calculator{metric: m}
}

func (c *Calculator) Metric() Metric { return c.metric }

// Reset clears the landing latch. Call it whenever the scene is rebuilt.
func (c *Calculator) Reset() {
	c.landed = false
	c.final = 0
	c.landedFrame = 0
}

// Derive computes the readout for one frame. g is the world's current
// gravity in px/s².
func (c *Calculator) Derive(s Sample, f scene.Frame, g float64) Readout {
	if !f.Tracks() {
		return Readout{}
	}

	accel := Predicted(g, f.SurfaceAngle)
	dist := c.distance(s.Position, f)
	speed := finite(s.Velocity.Length())

	if !c.landed && !math.IsInf(f.LandingX, 1) {
		leading := s.Position.X + f.HalfLength*math.Cos(f.SurfaceAngle)
		if leading >= f.LandingX {
			c.landed = true
			c.final = FinalSpeed(f.InitialSpeed, accel, dist)
			c.landedFrame = s.Frame
		}
	}

	return Readout{
		Tracking:     true,
		Distance:     dist,
		Speed:        speed,
		Acceleration: accel,
		VSquared:     finite(speed * speed),
		TwoAS:        finite(2 * accel * dist),
		Landed:       c.landed,
		FinalSpeed:   c.final,
		LandedFrame:  c.landedFrame,
	}
}

func (c *Calculator) distance(pos cp.Vector, f scene.Frame) float64 {
	disp := pos.Sub(f.Origin)
	if c.metric == MetricMagnitude {
		return finite(disp.Length())
	}
	n := f.Direction.Length()
	if n == 0 || !isFinite(n) {
		return 0
	}
	return finite(disp.Dot(f.Direction) / n)
}

// FinalSpeed is √(u² + 2as), or 0 when the radicand is negative.
func FinalSpeed(u, a, s float64) float64 {
	r := u*u + 2*a*s
	if r < 0 || !isFinite(r) {
		return 0
	}
	return math.Sqrt(r)
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func finite(v float64) float64 {
	if !isFinite(v) {
		return 0
	}
	return v
}
