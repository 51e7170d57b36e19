package viewport_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/motionkit/internal/viewport"
)

func portfolio() *viewport.Document {
	return viewport.NewDocument(viewport.Viewport{Height: 800},
		viewport.Section{ID: "hero", Height: 800},
		viewport.Section{ID: "work", Height: 1200},
		viewport.Section{ID: "about", Height: 600},
		viewport.Section{ID: "contact", Height: 400},
	)
}

var _ = Describe("Document", func() {
	var doc *viewport.Document

	BeforeEach(func() {
		doc = portfolio()
	})

	It("clamps scrolling to the page", func() {
		Expect(doc.Height()).To(Equal(3000.0))
		Expect(doc.MaxScroll()).To(Equal(2200.0))

		doc.ScrollTo(-50)
		Expect(doc.ScrollY).To(Equal(0.0))
		doc.ScrollBy(99999)
		Expect(doc.ScrollY).To(Equal(2200.0))
		Expect(doc.ScrollProgress()).To(Equal(1.0))
	})

	It("reports rects relative to the viewport", func() {
		doc.ScrollTo(1000)
		r, ok := doc.RectOf("about")
		Expect(ok).To(BeTrue())
		Expect(r).To(Equal(viewport.Rect{Top: 1000, Height: 600}))

		_, ok = doc.RectOf("missing")
		Expect(ok).To(BeFalse())
	})

	It("rejects unknown sections when hiding", func() {
		Expect(doc.SetHidden("nope", true)).NotTo(Succeed())
	})
})

var _ = Describe("Tracker", func() {
	var (
		doc     *viewport.Document
		tracker *viewport.Tracker
	)

	BeforeEach(func() {
		doc = portfolio()
		tracker = viewport.NewTracker()
		doc.Track(tracker)
	})

	It("picks the most visible section", func() {
		Expect(tracker.Sample(doc.Viewport).Active).To(Equal("hero"))

		doc.ScrollTo(1000)
		Expect(tracker.Sample(doc.Viewport).Active).To(Equal("work"))

		doc.ScrollTo(1700)
		snap := tracker.Sample(doc.Viewport)
		Expect(snap.Active).To(Equal("about"))

		about, ok := snap.Get("about")
		Expect(ok).To(BeTrue())
		Expect(about.Visibility).To(BeNumerically("~", 500.0/600, 1e-12))
	})

	It("breaks ties in registration order", func() {
		doc.ScrollTo(400)
		snap := tracker.Sample(doc.Viewport)

		hero, _ := snap.Get("hero")
		work, _ := snap.Get("work")
		Expect(hero.Visibility).To(Equal(work.Visibility))
		Expect(snap.Active).To(Equal("hero"))
	})

	It("skips elements that are missing", func() {
		Expect(doc.SetHidden("work", true)).To(Succeed())
		doc.ScrollTo(1000)

		snap := tracker.Sample(doc.Viewport)
		Expect(snap.Entries).To(HaveLen(3))
		_, ok := snap.Get("work")
		Expect(ok).To(BeFalse())
	})

	It("has no active section when nothing is visible", func() {
		empty := viewport.NewTracker()
		empty.Register("offscreen", func() (viewport.Rect, bool) {
			return viewport.Rect{Top: 5000, Height: 100}, true
		})
		empty.Register("nil", nil)
		Expect(empty.Sample(viewport.Viewport{Height: 800}).Active).To(BeEmpty())
	})

	It("replaces and removes entries by id", func() {
		Expect(tracker.Len()).To(Equal(4))
		tracker.Register("hero", func() (viewport.Rect, bool) { return viewport.Rect{}, false })
		Expect(tracker.Len()).To(Equal(4))

		Expect(tracker.Unregister("contact")).To(BeTrue())
		Expect(tracker.Unregister("contact")).To(BeFalse())
		Expect(tracker.Len()).To(Equal(3))
	})
})

var _ = Describe("Sampler", func() {
	var (
		doc     *viewport.Document
		sampler *viewport.Sampler
		changes [][2]string
	)

	BeforeEach(func() {
		doc = portfolio()
		tracker := viewport.NewTracker()
		doc.Track(tracker)

		changes = nil
		sampler = viewport.NewSampler(tracker)
		sampler.OnChange(func(prev, next string) {
			changes = append(changes, [2]string{prev, next})
		})
	})

	It("evaluates at most once per frame", func() {
		sampler.Frame(doc.Viewport)
		sampler.Frame(doc.Viewport)

		for i := 0; i < 5; i++ {
			doc.ScrollBy(10)
			sampler.Invalidate()
		}
		sampler.Frame(doc.Viewport)

		frames, evals := sampler.Stats()
		Expect(frames).To(Equal(3))
		Expect(evals).To(Equal(2))
	})

	It("returns the cached snapshot while clean", func() {
		first := sampler.Frame(doc.Viewport)
		doc.ScrollTo(1000)
		Expect(sampler.Frame(doc.Viewport).Active).To(Equal(first.Active))

		sampler.Invalidate()
		Expect(sampler.Frame(doc.Viewport).Active).To(Equal("work"))
	})

	It("re-measures when the viewport is resized", func() {
		sampler.Frame(doc.Viewport)
		sampler.Frame(viewport.Viewport{Height: 400})
		_, evals := sampler.Stats()
		Expect(evals).To(Equal(2))
	})

	It("reports active section changes", func() {
		sampler.Frame(doc.Viewport)
		doc.ScrollTo(1000)
		sampler.Invalidate()
		sampler.Frame(doc.Viewport)
		sampler.Invalidate()
		sampler.Frame(doc.Viewport)

		Expect(changes).To(Equal([][2]string{{"", "hero"}, {"hero", "work"}}))
	})
})
