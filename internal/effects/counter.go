package effects

import (
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/san-kum/motionkit/internal/easing"
	"github.com/san-kum/motionkit/internal/mathx"
)

// Counter animates a number from From to To once its element is revealed,
// like the "120+ commissions" figures on the about page.
type Counter struct {
	From, To float64
	Decimals int

	reveal *Reveal
}

func NewCounter(from, to, duration, threshold float64, ease easing.Func) *Counter {
	return &Counter{From: from, To: to, reveal: NewReveal(threshold, duration, ease)}
}

func (c *Counter) Observe(visibility float64) bool { return c.reveal.Observe(visibility) }

func (c *Counter) Update(dt float64) bool { return c.reveal.Update(dt) }

func (c *Counter) Done() bool { return c.reveal.Done() }

// Reset re-arms the counter at From.
func (c *Counter) Reset() { c.reveal.Reset() }

// Value is the displayed number. It equals To exactly once finished.
func (c *Counter) Value() float64 {
	if c.reveal.Done() {
		return c.To
	}
	return mathx.Lerp(c.From, c.To, c.reveal.Progress())
}

// String formats Value with thousands separators.
func (c *Counter) String() string {
	v := c.Value()
	if c.Decimals <= 0 {
		return humanize.Comma(int64(math.Round(v)))
	}
	return humanize.CommafWithDigits(v, c.Decimals)
}

// Label is String plus a suffix, e.g. "+" or " works".
func (c *Counter) Label(suffix string) string {
	return c.String() + suffix
}

// Ordinal formats the rounded value as "1st", "2nd" and so on.
func (c *Counter) Ordinal() string {
	n := int(math.Round(c.Value()))
	if n < 0 {
		return strconv.Itoa(n)
	}
	return humanize.Ordinal(n)
}
