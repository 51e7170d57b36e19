package viewport

import (
	"fmt"

	"github.com/san-kum/motionkit/internal/mathx"
)

// Section is one block of a stacked page.
type Section struct {
	ID     string  `yaml:"id" json:"id"`
	Height float64 `yaml:"height" json:"height"`
	// Hidden sections have no rect, like an element not yet mounted.
	Hidden bool `yaml:"hidden,omitempty" json:"hidden,omitempty"`
}

// Document is a simulated page: sections stacked top to bottom and a scroll
// offset. It stands in for the browser layout in the CLI and tests.
type Document struct {
	Sections []Section
	Viewport Viewport
	ScrollY  float64
}

func NewDocument(vp Viewport, sections ...Section) *Document {
	return &Document{Sections: sections, Viewport: vp}
}

// Height is the total page height.
func (d *Document) Height() float64 {
	h := 0.0
	for _, s := range d.Sections {
		h += s.Height
	}
	return h
}

// MaxScroll is the largest reachable scroll offset.
func (d *Document) MaxScroll() float64 {
	return max(d.Height()-d.Viewport.Height, 0)
}

// ScrollTo moves the page, clamped to the scrollable range.
func (d *Document) ScrollTo(y float64) {
	d.ScrollY = mathx.Clamp(y, 0, d.MaxScroll())
}

func (d *Document) ScrollBy(dy float64) {
	d.ScrollTo(d.ScrollY + dy)
}

// ScrollProgress is the page-level scroll position in [0,1].
func (d *Document) ScrollProgress() float64 {
	m := d.MaxScroll()
	if m == 0 {
		return 0
	}
	return d.ScrollY / m
}

// RectOf returns the current viewport-relative rect of a section.
func (d *Document) RectOf(id string) (Rect, bool) {
	offset := 0.0
	for _, s := range d.Sections {
		if s.ID == id {
			if s.Hidden {
				return Rect{}, false
			}
			return Rect{Top: offset - d.ScrollY, Height: s.Height}, true
		}
		offset += s.Height
	}
	return Rect{}, false
}

// SetHidden toggles a section's presence.
func (d *Document) SetHidden(id string, hidden bool) error {
	for i := range d.Sections {
		if d.Sections[i].ID == id {
			d.Sections[i].Hidden = hidden
			return nil
		}
	}
	return fmt.Errorf("unknown section: %s", id)
}

// Track registers every section with t. The RectFuncs read the document live,
// so later scrolling is reflected in subsequent samples.
func (d *Document) Track(t *Tracker) {
	for _, s := range d.Sections {
		id := s.ID
		t.Register(id, func() (Rect, bool) { return d.RectOf(id) })
	}
}
