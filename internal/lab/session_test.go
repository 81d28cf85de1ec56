package lab_test

import (
	"github.com/jakecoffman/cp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/kinelab/internal/demo"
	"github.com/san-kum/kinelab/internal/engine"
	"github.com/san-kum/kinelab/internal/lab"
	"github.com/san-kum/kinelab/internal/params"
	"github.com/san-kum/kinelab/internal/scene"
)

var viewport = scene.Viewport{Width: 1200, Height: 800}

type frameCounter struct{ frames, rebuilds int }

func (c *frameCounter) OnFrame(out lab.Output, _ *engine.World) {
	c.frames++
	if out.Rebuilt {
		c.rebuilds++
	}
}

var _ = Describe("Reconcile", func() {
	structural := []string{scene.KeyAngle, scene.KeyLength}
	base := params.Snapshot{scene.KeyAngle: 30, scene.KeyLength: 500, scene.KeyFriction: 0.001}

	It("builds on the first frame", func() {
		d := lab.Reconcile(nil, base, structural, scene.Viewport{}, viewport)
		Expect(d.Rebuild).To(BeTrue())
		Expect(d.Reason).To(Equal(lab.ReasonInitial))
	})

	It("patches when nothing structural changed", func() {
		curr := base.Clone()
		curr[scene.KeyFriction] = 0.05
		d := lab.Reconcile(base, curr, structural, viewport, viewport)
		Expect(d.Rebuild).To(BeFalse())
		Expect(d.Reason).To(Equal(lab.ReasonNone))
	})

	It("rebuilds on a structural change and names the keys", func() {
		curr := base.Clone()
		curr[scene.KeyAngle] = 45
		d := lab.Reconcile(base, curr, structural, viewport, viewport)
		Expect(d.Rebuild).To(BeTrue())
		Expect(d.Reason).To(Equal(lab.ReasonStructural))
		Expect(d.Changed).To(ConsistOf(scene.KeyAngle))
	})

	It("rebuilds on a viewport change", func() {
		d := lab.Reconcile(base, base.Clone(), structural, viewport, scene.Viewport{Width: 900, Height: 800})
		Expect(d.Rebuild).To(BeTrue())
		Expect(d.Reason).To(Equal(lab.ReasonViewport))
	})
})

var _ = Describe("Session", func() {
	var (
		def     demo.Definition
		session *lab.Session
		p       params.Snapshot
	)

	advance := func(ptr lab.Pointer) lab.Output {
		return session.Advance(lab.Input{Params: p, Pointer: ptr, Viewport: viewport})
	}

	Context("falling shapes", func() {
		BeforeEach(func() {
			def = demo.Falling()
			session = lab.New(def, lab.DefaultOptions())
			p = def.Sliders.Defaults()
		})

		It("spawns four boxes over frames 0 through 19 with the pointer held", func() {
			spawned := 0
			for i := 0; i < 20; i++ {
				out := advance(lab.Pointer{Pos: cp.Vector{X: 600, Y: 100}, Down: true})
				Expect(out.Frame).To(Equal(i))
				if out.Spawn.Spawned != nil {
					spawned++
				}
			}
			Expect(spawned).To(Equal(4))
			Expect(session.World().CountRole(scene.RoleBox)).To(Equal(4))
		})

		It("does not track anything", func() {
			out := advance(lab.Pointer{})
			Expect(out.Readout.Tracking).To(BeFalse())
		})

		It("clears spawned boxes on reset", func() {
			for i := 0; i < 10; i++ {
				advance(lab.Pointer{Pos: cp.Vector{X: 600, Y: 100}, Down: true})
			}
			session.Reset()
			out := advance(lab.Pointer{})
			Expect(out.Rebuilt).To(BeTrue())
			Expect(out.Reason).To(Equal(lab.ReasonReset))
			Expect(session.World().CountRole(scene.RoleBox)).To(BeZero())
			Expect(session.Spawner().Live()).To(BeZero())
		})

		It("rebuilds on resize with a ground that spans the new viewport", func() {
			advance(lab.Pointer{})
			resized := scene.Viewport{Width: 640, Height: 480}
			out := session.Advance(lab.Input{Params: p, Viewport: resized})

			Expect(out.Rebuilt).To(BeTrue())
			Expect(out.Reason).To(Equal(lab.ReasonViewport))
			ground := session.World().FirstWithRole(scene.RoleGround)
			Expect(ground.Geometry().Width).To(Equal(640.0))
			Expect(ground.Geometry().Height).To(Equal(scene.GroundHeight))
			Expect(ground.Position()).To(Equal(cp.Vector{X: 320, Y: 460}))
		})

		It("applies gravity scale through the step", func() {
			p[scene.KeyGravityScale] = 2.5
			advance(lab.Pointer{})
			Expect(session.World().Gravity()).To(Equal(2.5 * engine.BaseGravity))
		})
	})

	Context("spring", func() {
		BeforeEach(func() {
			def = demo.Spring()
			session = lab.New(def, lab.DefaultOptions())
			p = def.Sliders.Defaults()
		})

		It("patches live parameters without replacing bodies", func() {
			advance(lab.Pointer{})
			weight := session.World().FirstWithRole(scene.RoleWeight)
			spring := session.World().Springs()[0]

			p[scene.KeyStiffness] = 0.12
			p[scene.KeyDamping] = 0.2
			p[scene.KeyLength] = 300
			p[scene.KeyMass] = 30
			out := advance(lab.Pointer{})

			Expect(out.Rebuilt).To(BeFalse())
			Expect(session.World().FirstWithRole(scene.RoleWeight)).To(BeIdenticalTo(weight))
			Expect(session.World().Springs()[0]).To(BeIdenticalTo(spring))
			Expect(spring.Stiffness()).To(Equal(scene.SpringStiffness(0.12)))
			Expect(spring.RestLength()).To(Equal(300.0))
			Expect(weight.Mass()).To(Equal(30.0))
			Expect(session.Builds()).To(Equal(1))
		})

		It("drags the weight with the pointer", func() {
			advance(lab.Pointer{})
			weight := session.World().FirstWithRole(scene.RoleWeight)
			start := weight.Position()

			advance(lab.Pointer{Pos: start, Down: true})
			Expect(session.World().Pointer().Active()).To(BeTrue())
			for i := 0; i < 60; i++ {
				advance(lab.Pointer{Pos: start.Add(cp.Vector{X: 250}), Down: true})
			}
			Expect(weight.Position().X).To(BeNumerically(">", start.X+50))

			advance(lab.Pointer{})
			Expect(session.World().Pointer().Active()).To(BeFalse())
		})

		It("tracks the weight", func() {
			out := advance(lab.Pointer{})
			Expect(out.Readout.Tracking).To(BeTrue())
			Expect(out.Readout.Landed).To(BeFalse())
		})
	})

	Context("ramp", func() {
		BeforeEach(func() {
			def = demo.Ramp()
			session = lab.New(def, lab.DefaultOptions())
			p = def.Sliders.Defaults()
		})

		It("predicts g sin θ", func() {
			out := advance(lab.Pointer{})
			Expect(out.Readout.Acceleration).To(BeNumerically("~", engine.BaseGravity*0.5, 1e-9))
		})

		It("rebuilds on an angle change and seats the car on the new surface", func() {
			advance(lab.Pointer{})
			p[scene.KeyAngle] = 50
			out := advance(lab.Pointer{})

			Expect(out.Rebuilt).To(BeTrue())
			Expect(out.Reason).To(Equal(lab.ReasonStructural))

			want := scene.BuildRamp(p, viewport)
			Expect(session.Frame()).To(Equal(want.Frame))

			geo := scene.PlaceRamp(viewport, scene.Radians(50), p[scene.KeyLength])
			car := session.World().FirstWithRole(scene.RoleCar)
			Expect(scene.DistanceToLine(car.Position(), geo.Top, geo.Direction)).To(BeNumerically("~", scene.CarHeight/2, 1))
		})

		It("slides the car down the ramp surface", func() {
			geo := scene.PlaceRamp(viewport, scene.Radians(p[scene.KeyAngle]), p[scene.KeyLength])

			prev := advance(lab.Pointer{}).Readout.Distance
			for i := 0; i < 60; i++ {
				out := advance(lab.Pointer{})
				Expect(out.Rebuilt).To(BeFalse())
				Expect(out.Readout.Distance).To(BeNumerically(">=", prev-0.5))
				prev = out.Readout.Distance

				car := session.World().FirstWithRole(scene.RoleCar)
				Expect(scene.DistanceToLine(car.Position(), geo.Top, geo.Direction)).To(BeNumerically("~", scene.CarHeight/2, 2))
			}
			Expect(prev).To(BeNumerically(">", 100))
		})

		It("patches friction without a rebuild", func() {
			advance(lab.Pointer{})
			p[scene.KeyFriction] = 0.08
			out := advance(lab.Pointer{})
			Expect(out.Rebuilt).To(BeFalse())
			Expect(session.World().FirstWithRole(scene.RoleRamp).Friction()).To(Equal(0.08))
		})

		It("resets on pointer press but not while held", func() {
			advance(lab.Pointer{})
			out := advance(lab.Pointer{Down: true})
			Expect(out.Rebuilt).To(BeTrue())
			Expect(out.Reason).To(Equal(lab.ReasonPointer))

			out = advance(lab.Pointer{Down: true})
			Expect(out.Rebuilt).To(BeFalse())
		})

		It("latches the landing speed and resets once the car leaves the viewport", func() {
			small := scene.Viewport{Width: 640, Height: 600}
			counter := &frameCounter{}
			session.AddObserver(counter)

			var landed *lab.Output
			reset := false
			for i := 0; i < 1200 && !reset; i++ {
				out := session.Advance(lab.Input{Params: p, Viewport: small})
				if out.Readout.Landed && landed == nil {
					landed = &out
				}
				if landed != nil && out.Readout.Landed {
					Expect(out.Readout.FinalSpeed).To(Equal(landed.Readout.FinalSpeed))
				}
				if out.Rebuilt && out.Reason == lab.ReasonOffscreen {
					reset = true
					Expect(out.Readout.Landed).To(BeFalse())
				}
			}

			Expect(landed).NotTo(BeNil())
			Expect(landed.Readout.FinalSpeed).To(BeNumerically(">", 0))
			Expect(reset).To(BeTrue())
			Expect(counter.rebuilds).To(Equal(2))
		})
	})
})
