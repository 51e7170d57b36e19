package viewport

// Sampler evaluates a Tracker at most once per animation frame. Scroll and
// resize handlers call Invalidate; the frame callback calls Frame.
type Sampler struct {
	tracker  *Tracker
	onChange func(prev, next string)

	dirty  bool
	vp     Viewport
	last   Snapshot
	frames int
	evals  int
}

// NewSampler starts dirty so the first frame always measures.
func NewSampler(t *Tracker) *Sampler {
	return &Sampler{tracker: t, dirty: true}
}

// OnChange registers a callback for active section changes.
func (s *Sampler) OnChange(fn func(prev, next string)) {
	s.onChange = fn
}

// Invalidate marks the last snapshot stale. Any number of calls between two
// frames cost one evaluation.
func (s *Sampler) Invalidate() {
	s.dirty = true
}

// Frame returns the current snapshot, re-measuring only when invalidated or
// when the viewport size changed since the last evaluation.
func (s *Sampler) Frame(vp Viewport) Snapshot {
	s.frames++
	if !s.dirty && vp == s.vp {
		return s.last
	}

	prev := s.last.Active
	s.last = s.tracker.Sample(vp)
	s.vp = vp
	s.dirty = false
	s.evals++

	if s.onChange != nil && s.last.Active != prev {
		s.onChange(prev, s.last.Active)
	}
	return s.last
}

func (s *Sampler) Last() Snapshot { return s.last }

// Stats returns the number of frames seen and how many of them measured.
func (s *Sampler) Stats() (frames, evaluations int) {
	return s.frames, s.evals
}
