package control

import (
	"sync"

	"github.com/san-kum/motionkit/internal/dynamo"
	"github.com/san-kum/motionkit/internal/easing"
	"github.com/san-kum/motionkit/internal/mathx"
)

// Tween moves the target from From to To between Start and Start+Duration.
// A nil Ease is linear.
type Tween struct {
	From, To dynamo.Vec
	Start    float64
	Duration float64
	Ease     easing.Func
}

func (tw Tween) Drive(x dynamo.State, t float64) dynamo.Input {
	p := 1.0
	if tw.Duration > 0 {
		p = mathx.Clamp01((t - tw.Start) / tw.Duration)
	} else if t < tw.Start {
		p = 0
	}
	if tw.Ease != nil {
		p = tw.Ease(p)
	}

	u := make(dynamo.Input, len(tw.To))
	for i := range u {
		from := 0.0
		if i < len(tw.From) {
			from = tw.From[i]
		}
		u[i] = mathx.Lerp(from, tw.To[i], p)
	}
	return u
}

// Manual holds a target set from another goroutine, such as an input
// handler.
type Manual struct {
	mu     sync.Mutex
	target dynamo.Input
}

func NewManual(initial dynamo.Vec) *Manual {
	return &Manual{target: dynamo.Input(initial.Clone())}
}

func (m *Manual) Set(target dynamo.Vec) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.target = dynamo.Input(target.Clone())
}

func (m *Manual) Drive(x dynamo.State, t float64) dynamo.Input {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(dynamo.Input, len(m.target))
	copy(out, m.target)
	return out
}
