package effects

import (
	"math"

	"github.com/san-kum/motionkit/internal/dynamo"
	"github.com/san-kum/motionkit/internal/spring"
)

// Point is a 2D position in CSS pixels.
type Point struct {
	X, Y float64
}

func (p Point) Sub(o Point) Point { return Point{p.X - o.X, p.Y - o.Y} }

func (p Point) Len() float64 { return math.Hypot(p.X, p.Y) }

// Magnetic pulls an element toward the pointer while the pointer is within
// Radius of the element's center.
type Magnetic struct {
	Radius   float64
	Strength float64

	anim *spring.Animator
}

func NewMagnetic(radius, strength float64, p spring.Params) *Magnetic {
	return &Magnetic{
		Radius:   radius,
		Strength: strength,
		anim:     spring.NewAnimator(p, dynamo.Vec{0, 0}),
	}
}

// Pointer updates the pull target from the pointer and element center.
func (m *Magnetic) Pointer(pointer, center Point) {
	d := pointer.Sub(center)
	if d.Len() > m.Radius {
		m.anim.SetTarget(dynamo.Vec{0, 0})
		return
	}
	m.anim.SetTarget(dynamo.Vec{d.X * m.Strength, d.Y * m.Strength})
}

// Leave releases the element back to rest.
func (m *Magnetic) Leave() {
	m.anim.SetTarget(dynamo.Vec{0, 0})
}

func (m *Magnetic) Update(dt float64) bool {
	return m.anim.Update(dt)
}

// Offset is the element's current translation.
func (m *Magnetic) Offset() Point {
	p := m.anim.Position()
	return Point{p[0], p[1]}
}

func (m *Magnetic) Idle() bool { return m.anim.Idle() }
