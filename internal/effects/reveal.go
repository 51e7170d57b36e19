package effects

import (
	"github.com/san-kum/motionkit/internal/easing"
	"github.com/san-kum/motionkit/internal/mathx"
)

// Reveal fires once when an element becomes visible enough and then plays a
// timed, eased 0 to 1 transition.
type Reveal struct {
	Threshold float64
	Duration  float64
	Delay     float64
	Ease      easing.Func

	triggered bool
	elapsed   float64
}

func NewReveal(threshold, duration float64, ease easing.Func) *Reveal {
	if ease == nil {
		ease = easing.Linear
	}
	return &Reveal{Threshold: threshold, Duration: duration, Ease: ease}
}

// Observe feeds the element's visibility. It reports true only on the call
// that triggers the reveal.
func (r *Reveal) Observe(visibility float64) bool {
	if r.triggered || visibility < r.Threshold {
		return false
	}
	r.triggered = true
	return true
}

// Update advances a triggered reveal and reports whether it is still running.
func (r *Reveal) Update(dt float64) bool {
	if !r.triggered {
		return false
	}
	r.elapsed += dt
	return !r.Done()
}

func (r *Reveal) Triggered() bool { return r.triggered }

func (r *Reveal) Done() bool {
	return r.triggered && r.elapsed >= r.Delay+r.Duration
}

// Progress is the eased transition value.
func (r *Reveal) Progress() float64 {
	if !r.triggered {
		return 0
	}
	if r.Done() {
		return 1
	}
	if r.Duration <= 0 {
		return 0
	}
	return r.Ease(mathx.Clamp01((r.elapsed - r.Delay) / r.Duration))
}

// Reset re-arms the trigger.
func (r *Reveal) Reset() {
	r.triggered = false
	r.elapsed = 0
}
