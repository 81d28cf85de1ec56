package overlay

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	. "github.com/onsi/gomega"
	"github.com/san-kum/kinelab/internal/params"
	"github.com/san-kum/kinelab/internal/scene"
)

func rampFrame() scene.Frame {
	return scene.BuildRamp(params.Snapshot{scene.KeyAngle: 30, scene.KeyLength: 500}, scene.Viewport{Width: 1200, Height: 800}).Frame
}

func TestPredicted(t *testing.T) {
	g := NewWithT(t)

	for _, deg := range []float64{10, 30, 45, 60} {
		th := scene.Radians(deg)
		g.Expect(Predicted(1000, th)).To(BeNumerically("~", 1000*math.Sin(th), 1e-12))
	}
	g.Expect(Predicted(math.NaN(), 1)).To(BeZero())
	g.Expect(Predicted(math.Inf(1), 1)).To(BeZero())
}

func TestUntrackedFrame(t *testing.T) {
	g := NewWithT(t)
	c := NewCalculator(MetricProjection)

	r := c.Derive(Sample{Position: cp.Vector{X: 5, Y: 5}}, scene.Frame{Subject: scene.NoSubject}, 1000)
	g.Expect(r).To(Equal(Readout{}))
}

func TestSignedProjection(t *testing.T) {
	g := NewWithT(t)
	f := rampFrame()
	c := NewCalculator(MetricProjection)

	down := c.Derive(Sample{Position: f.Origin.Add(f.Direction.Mult(120))}, f, 1000)
	g.Expect(down.Distance).To(BeNumerically("~", 120, 1e-9))

	up := c.Derive(Sample{Position: f.Origin.Sub(f.Direction.Mult(15))}, f, 1000)
	g.Expect(up.Distance).To(BeNumerically("~", -15, 1e-9))

	// sideways drift off the slope does not count
	normal := scene.SurfaceNormal(f.Direction)
	side := c.Derive(Sample{Position: f.Origin.Add(normal.Mult(30))}, f, 1000)
	g.Expect(side.Distance).To(BeNumerically("~", 0, 1e-9))
}

func TestMagnitudeMetric(t *testing.T) {
	g := NewWithT(t)
	f := rampFrame()
	c := NewCalculator(MetricMagnitude)

	r := c.Derive(Sample{Position: f.Origin.Sub(f.Direction.Mult(15))}, f, 1000)
	g.Expect(r.Distance).To(BeNumerically("~", 15, 1e-9))
}

func TestDegenerateDirection(t *testing.T) {
	g := NewWithT(t)
	f := rampFrame()
	f.Direction = cp.Vector{}
	c := NewCalculator(MetricProjection)

	r := c.Derive(Sample{Position: cp.Vector{X: 500, Y: 500}, Velocity: cp.Vector{X: math.NaN()}}, f, 1000)
	g.Expect(r.Distance).To(BeZero())
	g.Expect(r.Speed).To(BeZero())
}

func TestSpeedAndComparison(t *testing.T) {
	g := NewWithT(t)
	f := rampFrame()
	c := NewCalculator(MetricProjection)

	r := c.Derive(Sample{Position: f.Origin.Add(f.Direction.Mult(100)), Velocity: cp.Vector{X: 30, Y: 40}}, f, 1000)
	g.Expect(r.Tracking).To(BeTrue())
	g.Expect(r.Speed).To(BeNumerically("~", 50, 1e-12))
	g.Expect(r.VSquared).To(BeNumerically("~", 2500, 1e-9))
	g.Expect(r.Acceleration).To(BeNumerically("~", 500, 1e-9))
	g.Expect(r.TwoAS).To(BeNumerically("~", 2*500*100, 1e-6))
}

func TestLandingLatch(t *testing.T) {
	g := NewWithT(t)
	f := rampFrame()
	c := NewCalculator(MetricProjection)
	lead := f.HalfLength * math.Cos(f.SurfaceAngle)

	before := c.Derive(Sample{Position: cp.Vector{X: f.LandingX - lead - 1, Y: 700}, Frame: 10}, f, 1000)
	g.Expect(before.Landed).To(BeFalse())
	g.Expect(before.FinalSpeed).To(BeZero())

	at := cp.Vector{X: f.LandingX - lead + 0.5, Y: 700}
	first := c.Derive(Sample{Position: at, Frame: 11}, f, 1000)
	dist := at.Sub(f.Origin).Dot(f.Direction)
	want := math.Sqrt(2 * 1000 * math.Sin(f.SurfaceAngle) * dist)
	g.Expect(first.Landed).To(BeTrue())
	g.Expect(first.FinalSpeed).To(BeNumerically("~", want, 1e-9))
	g.Expect(first.LandedFrame).To(Equal(11))

	// further travel and a gravity change leave the latched value alone
	later := c.Derive(Sample{Position: at.Add(cp.Vector{X: 200}), Frame: 40}, f, 3000)
	g.Expect(later.FinalSpeed).To(Equal(first.FinalSpeed))
	g.Expect(later.LandedFrame).To(Equal(11))

	c.Reset()
	again := c.Derive(Sample{Position: f.Origin}, f, 1000)
	g.Expect(again.Landed).To(BeFalse())
}

func TestSpringNeverLands(t *testing.T) {
	g := NewWithT(t)
	f := scene.BuildSpring(params.Snapshot{}, scene.Viewport{Width: 800, Height: 600}).Frame
	c := NewCalculator(MetricProjection)

	r := c.Derive(Sample{Position: cp.Vector{X: 1e9, Y: 1e9}}, f, 1000)
	g.Expect(r.Landed).To(BeFalse())
}

func TestFinalSpeed(t *testing.T) {
	tests := []struct {
		name    string
		u, a, s float64
		want    float64
	}{
		{"from rest", 0, 500, 100, math.Sqrt(100000)},
		{"with initial speed", 30, 0, 100, 30},
		{"negative radicand", 0, 500, -100, 0},
		{"nan", math.NaN(), 1, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FinalSpeed(tt.u, tt.a, tt.s); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("expected %f, got %f", tt.want, got)
			}
		})
	}
}
