package spring_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/motionkit/internal/dynamo"
	"github.com/san-kum/motionkit/internal/integrators"
	"github.com/san-kum/motionkit/internal/spring"
)

const frame = 1.0 / 60

var _ = Describe("Step", func() {
	p := spring.Presets["default"]

	It("leaves a state at equilibrium unchanged", func() {
		s := spring.NewState(dynamo.Vec{5, -3})
		next := spring.Step(s, dynamo.Vec{5, -3}, p, frame)

		Expect(next.Position).To(Equal(dynamo.Vec{5, -3}))
		Expect(next.Velocity).To(Equal(dynamo.Vec{0, 0}))
	})

	It("does not mutate its input", func() {
		s := spring.NewState(dynamo.Vec{0})
		spring.Step(s, dynamo.Vec{10}, p, frame)
		Expect(s.Position[0]).To(Equal(0.0))
	})

	It("applies Hooke's law and damping on the first step", func() {
		s := spring.State{Position: dynamo.Vec{1}, Velocity: dynamo.Vec{2}}
		params := spring.Params{Stiffness: 10, Damping: 3, Mass: 2}
		next := spring.Step(s, dynamo.Vec{0}, params, 0.1)

		acc := (-10*1.0 - 3*2.0) / 2
		v := 2 + acc*0.1
		Expect(next.Velocity[0]).To(BeNumerically("~", v, 1e-12))
		Expect(next.Position[0]).To(BeNumerically("~", 1+v*0.1, 1e-12))
	})

	It("converges to a fixed target", func() {
		s := spring.NewState(dynamo.Vec{0, 0, 0})
		target := dynamo.Vec{100, -50, 12}

		steps := 0
		for !spring.Settled(s, target, spring.DefaultThreshold) {
			s = spring.Step(s, target, p, frame)
			steps++
			Expect(steps).To(BeNumerically("<", 1000), "spring never settled")
		}
	})

	It("produces no motion with zero mass", func() {
		s := spring.State{Position: dynamo.Vec{1}, Velocity: dynamo.Vec{0}}
		next := spring.Step(s, dynamo.Vec{5}, spring.Params{Stiffness: 100, Damping: 10}, frame)
		Expect(next.Position[0]).To(Equal(1.0))
	})

	It("treats a missing velocity as rest", func() {
		s := spring.State{Position: dynamo.Vec{5, 2}}
		var next spring.State
		Expect(func() { next = spring.Step(s, dynamo.Vec{0, 2}, p, frame) }).NotTo(Panic())

		Expect(next.Velocity).To(HaveLen(2))
		Expect(next.Velocity[0]).To(BeNumerically("<", 0))
		Expect(next.Velocity[1]).To(Equal(0.0))
		Expect(next.Position[0]).To(BeNumerically("<", 5))
	})

	It("pads a short velocity with zeros", func() {
		s := spring.State{Position: dynamo.Vec{0, 0}, Velocity: dynamo.Vec{3}}
		next := spring.Step(s, dynamo.Vec{0, 0}, p, frame)
		Expect(next.Velocity).To(HaveLen(2))
		Expect(next.Position[0]).To(BeNumerically(">", 0))
		Expect(next.Position[1]).To(Equal(0.0))
	})

	It("matches the semi-implicit integrator over the System adapter", func() {
		sys := spring.NewSpring(spring.Presets["wobbly"], 1)
		integ := integrators.NewSemiImplicitEuler()

		s := spring.NewState(dynamo.Vec{0})
		x := dynamo.Join(dynamo.Vec{0}, dynamo.Vec{0})
		for i := 0; i < 30; i++ {
			s = spring.Step(s, dynamo.Vec{1}, sys.Params, frame)
			x = integ.Step(sys, x, dynamo.Input{1}, 0, frame)
		}
		Expect(x[0]).To(BeNumerically("~", s.Position[0], 1e-12))
		Expect(x[1]).To(BeNumerically("~", s.Velocity[0], 1e-12))
	})
})

var _ = Describe("Settled", func() {
	It("requires both position and velocity under the threshold", func() {
		target := dynamo.Vec{1}
		Expect(spring.Settled(spring.State{Position: dynamo.Vec{1.001}, Velocity: dynamo.Vec{0}}, target, 0.01)).To(BeTrue())
		Expect(spring.Settled(spring.State{Position: dynamo.Vec{1.1}, Velocity: dynamo.Vec{0}}, target, 0.01)).To(BeFalse())
		Expect(spring.Settled(spring.State{Position: dynamo.Vec{1}, Velocity: dynamo.Vec{0.5}}, target, 0.01)).To(BeFalse())
	})

	It("measures distance and speed as vector lengths", func() {
		target := dynamo.Vec{0, 0}
		near := spring.State{Position: dynamo.Vec{0.009, 0.009}, Velocity: dynamo.Vec{0, 0}}
		Expect(spring.Settled(near, target, 0.01)).To(BeFalse())

		moving := spring.State{Position: dynamo.Vec{0, 0}, Velocity: dynamo.Vec{0.009, 0.009}}
		Expect(spring.Settled(moving, target, 0.01)).To(BeFalse())

		closer := spring.State{Position: dynamo.Vec{0.005, 0.005}, Velocity: dynamo.Vec{0.005, 0.005}}
		Expect(spring.Settled(closer, target, 0.01)).To(BeTrue())
	})

	It("accepts a state without velocity", func() {
		Expect(spring.Settled(spring.State{Position: dynamo.Vec{1}}, dynamo.Vec{1}, 0.01)).To(BeTrue())
		Expect(spring.Settled(spring.State{Position: dynamo.Vec{2}}, dynamo.Vec{1}, 0.01)).To(BeFalse())
	})
})

var _ = Describe("Animator", func() {
	It("starts idle", func() {
		a := spring.NewAnimator(spring.Presets["default"], dynamo.Vec{0})
		Expect(a.Idle()).To(BeTrue())
		Expect(a.Update(frame)).To(BeFalse())
	})

	It("wakes on a new target and snaps once settled", func() {
		a := spring.NewAnimator(spring.Presets["gentle"], dynamo.Vec{0, 0})
		a.SetTarget(dynamo.Vec{40, 20})
		Expect(a.Idle()).To(BeFalse())

		frames := 0
		for a.Update(frame) {
			frames++
			Expect(frames).To(BeNumerically("<", 600))
		}
		Expect(a.Position()).To(Equal(dynamo.Vec{40, 20}))
		Expect(a.Velocity()).To(Equal(dynamo.Vec{0, 0}))
	})

	It("stays stable for the light magnetic preset at long frames", func() {
		a := spring.NewAnimator(spring.Presets["magnetic"], dynamo.Vec{0})
		a.SetTarget(dynamo.Vec{30})
		for i := 0; i < 300; i++ {
			a.Update(1.0 / 30)
			Expect(math.IsNaN(a.Value())).To(BeFalse())
			Expect(math.Abs(a.Value())).To(BeNumerically("<", 100))
		}
		Expect(a.Idle()).To(BeTrue())
		Expect(a.Value()).To(Equal(30.0))
	})

	It("moves again after an impulse", func() {
		a := spring.NewAnimator(spring.Presets["stiff"], dynamo.Vec{0})
		a.Impulse(dynamo.Vec{200})
		Expect(a.Update(frame)).To(BeTrue())
		Expect(a.Value()).To(BeNumerically(">", 0))
	})

	It("finishes instead of integrating a very long frame", func() {
		a := spring.NewAnimator(spring.Presets["default"], dynamo.Vec{0, 0})
		a.SetTarget(dynamo.Vec{10, -4})

		Expect(a.Update(1e6)).To(BeFalse())
		Expect(a.Idle()).To(BeTrue())
		Expect(a.Position()).To(Equal(dynamo.Vec{10, -4}))
		Expect(a.Velocity()).To(Equal(dynamo.Vec{0, 0}))
	})

	It("still integrates a frame within the substep budget", func() {
		a := spring.NewAnimator(spring.Presets["default"], dynamo.Vec{0})
		a.SetTarget(dynamo.Vec{10})
		Expect(a.Update(0.05)).To(BeTrue())
		Expect(a.Idle()).To(BeFalse())
		Expect(a.Value()).To(BeNumerically(">", 0))
		Expect(a.Value()).To(BeNumerically("<", 10))
	})

	It("jumps without animating", func() {
		a := spring.NewAnimator(spring.Presets["default"], dynamo.Vec{0})
		a.Jump(dynamo.Vec{9})
		Expect(a.Idle()).To(BeTrue())
		Expect(a.Value()).To(Equal(9.0))
	})
})

var _ = Describe("Harmonic", func() {
	It("settles at the same target as the Euler step", func() {
		p := spring.Presets["default"]
		h := spring.NewHarmonic(p, 60)
		Expect(h.Omega).To(BeNumerically("~", math.Sqrt(170), 1e-12))
		Expect(h.Zeta).To(BeNumerically("~", 26/(2*math.Sqrt(170)), 1e-12))

		a := spring.NewState(dynamo.Vec{0})
		b := spring.NewState(dynamo.Vec{0})
		target := dynamo.Vec{1}
		for i := 0; i < 180; i++ {
			a = h.Update(a, target)
			b = spring.Step(b, target, p, frame)
		}
		Expect(a.Position[0]).To(BeNumerically("~", 1, 1e-3))
		Expect(b.Position[0]).To(BeNumerically("~", a.Position[0], 1e-3))
	})

	It("accepts a state without velocity", func() {
		h := spring.NewHarmonic(spring.Presets["default"], 60)
		next := h.Update(spring.State{Position: dynamo.Vec{4, 1}}, dynamo.Vec{0, 1})
		Expect(next.Velocity).To(HaveLen(2))
		Expect(next.Position[0]).To(BeNumerically("<", 4))
		Expect(next.Position[1]).To(BeNumerically("~", 1, 1e-12))
	})
})

var _ = Describe("Spring system", func() {
	It("reports dimensions and energy", func() {
		s := spring.NewSpring(spring.Params{Stiffness: 4, Damping: 0, Mass: 2}, 2)
		Expect(s.StateDim()).To(Equal(4))
		Expect(s.InputDim()).To(Equal(2))

		e := s.Energy(dynamo.State{1, 0, 0, 3})
		Expect(e).To(BeNumerically("~", 0.5*4*1+0.5*2*9, 1e-12))
	})

	It("validates parameters", func() {
		s := spring.NewSpring(spring.Presets["default"], 1)
		Expect(s.SetParam("damping", 5)).To(Succeed())
		Expect(s.Damping).To(Equal(5.0))

		err := s.SetParam("damping", -1)
		Expect(errors.Is(err, dynamo.ErrParameterBounds)).To(BeTrue())

		err = s.SetParam("friction", 1)
		Expect(errors.Is(err, dynamo.ErrUnknownParam)).To(BeTrue())
	})
})

var _ = Describe("Presets", func() {
	It("resolves every listed name", func() {
		for _, name := range spring.PresetNames() {
			p, err := spring.Preset(name)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Mass).To(BeNumerically(">", 0))
		}
	})

	It("rejects unknown names", func() {
		_, err := spring.Preset("bouncy-castle")
		Expect(err).To(HaveOccurred())
	})
})
