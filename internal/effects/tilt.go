package effects

import (
	"github.com/san-kum/motionkit/internal/dynamo"
	"github.com/san-kum/motionkit/internal/mathx"
	"github.com/san-kum/motionkit/internal/spring"
)

// Bounds is an element's box in page coordinates.
type Bounds struct {
	X, Y, Width, Height float64
}

func (b Bounds) Contains(p Point) bool {
	return p.X >= b.X && p.X <= b.X+b.Width && p.Y >= b.Y && p.Y <= b.Y+b.Height
}

func (b Bounds) Center() Point {
	return Point{b.X + b.Width/2, b.Y + b.Height/2}
}

// Normalize maps p to [-1,1] on both axes, 0 at the center.
func (b Bounds) Normalize(p Point) Point {
	if b.Width <= 0 || b.Height <= 0 {
		return Point{}
	}
	nx := (p.X-b.X)/b.Width*2 - 1
	ny := (p.Y-b.Y)/b.Height*2 - 1
	return Point{mathx.Clamp(nx, -1, 1), mathx.Clamp(ny, -1, 1)}
}

// Tilt rotates a card toward the pointer with spring physics.
type Tilt struct {
	MaxAngle float64

	anim *spring.Animator
}

func NewTilt(maxAngle float64, p spring.Params) *Tilt {
	return &Tilt{MaxAngle: maxAngle, anim: spring.NewAnimator(p, dynamo.Vec{0, 0})}
}

// Hover aims the rotation at the pointer. Pointer right of center turns the
// card around Y; below center tips it around X.
func (t *Tilt) Hover(pointer Point, b Bounds) {
	n := b.Normalize(pointer)
	t.anim.SetTarget(dynamo.Vec{-n.Y * t.MaxAngle, n.X * t.MaxAngle})
}

func (t *Tilt) Leave() {
	t.anim.SetTarget(dynamo.Vec{0, 0})
}

func (t *Tilt) Update(dt float64) bool {
	return t.anim.Update(dt)
}

// Angles returns rotateX and rotateY in degrees.
func (t *Tilt) Angles() (rx, ry float64) {
	p := t.anim.Position()
	return p[0], p[1]
}
