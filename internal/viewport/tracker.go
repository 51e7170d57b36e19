package viewport

// RectFunc measures an element. It reports false when the element is gone,
// for instance after it was removed from the page.
type RectFunc func() (Rect, bool)

type entry struct {
	id      string
	measure RectFunc
}

// Measurement is one element's geometry for a single sample.
type Measurement struct {
	ID         string  `json:"id"`
	Rect       Rect    `json:"rect"`
	Visibility float64 `json:"visibility"`
	Progress   float64 `json:"progress"`
}

// Snapshot is the result of one sample. Active is the most visible element,
// or empty when nothing is on screen.
type Snapshot struct {
	Entries []Measurement `json:"entries"`
	Active  string        `json:"active"`
}

func (s Snapshot) Get(id string) (Measurement, bool) {
	for _, m := range s.Entries {
		if m.ID == id {
			return m, true
		}
	}
	return Measurement{}, false
}

// Tracker holds the elements whose progress is observed, in registration
// order.
type Tracker struct {
	entries []entry
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// Register adds an element. Registering an existing id replaces its RectFunc
// and keeps its position.
func (t *Tracker) Register(id string, fn RectFunc) {
	for i := range t.entries {
		if t.entries[i].id == id {
			t.entries[i].measure = fn
			return
		}
	}
	t.entries = append(t.entries, entry{id: id, measure: fn})
}

func (t *Tracker) Unregister(id string) bool {
	for i := range t.entries {
		if t.entries[i].id == id {
			t.entries = append(t.entries[:i], t.entries[i+1:]...)
			return true
		}
	}
	return false
}

func (t *Tracker) Len() int { return len(t.entries) }

// Sample measures every element. Missing elements are skipped. Ties for the
// active element go to the one registered first.
func (t *Tracker) Sample(vp Viewport) Snapshot {
	snap := Snapshot{Entries: make([]Measurement, 0, len(t.entries))}
	best := 0.0

	for _, e := range t.entries {
		if e.measure == nil {
			continue
		}
		r, ok := e.measure()
		if !ok {
			continue
		}
		m := Measurement{
			ID:         e.id,
			Rect:       r,
			Visibility: Visibility(r, vp),
			Progress:   Progress(r, vp),
		}
		snap.Entries = append(snap.Entries, m)

		if m.Visibility > best {
			best = m.Visibility
			snap.Active = m.ID
		}
	}
	return snap
}
