package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/motionkit/internal/easing"
)

type Point struct {
	X, Y float64
}

// Series is one polyline of a plot.
type Series struct {
	Points []Point
	Stroke string
	// Dashed series are drawn as reference lines.
	Dashed bool
}

type Options struct {
	Width      int
	Height     int
	Background string
	// Bounds fixes the plotted range. A zero Bounds fits the data.
	Bounds Bounds
}

type Bounds struct {
	MinX, MaxX, MinY, MaxY float64
}

func (b Bounds) empty() bool { return b == Bounds{} }

func DefaultOptions() Options {
	return Options{Width: 480, Height: 320, Background: "#0a0a0a"}
}

// PlotSVG renders every series into one standalone SVG document.
func PlotSVG(series []Series, opts Options) string {
	if opts.Width <= 0 || opts.Height <= 0 {
		d := DefaultOptions()
		opts.Width, opts.Height = d.Width, d.Height
	}

	b := opts.Bounds
	if b.empty() {
		b = fit(series)
	}
	rangeX := b.MaxX - b.MinX
	rangeY := b.MaxY - b.MinY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}

	w, h := float64(opts.Width), float64(opts.Height)
	project := func(p Point) (float64, float64) {
		return (p.X - b.MinX) / rangeX * w, h - (p.Y-b.MinY)/rangeY*h
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
`, opts.Width, opts.Height, opts.Width, opts.Height)
	if opts.Background != "" {
		fmt.Fprintf(&sb, `<rect width="100%%" height="100%%" fill="%s"/>
`, opts.Background)
	}

	for _, s := range series {
		if len(s.Points) < 2 {
			continue
		}
		dash := ""
		if s.Dashed {
			dash = ` stroke-dasharray="4 4"`
		}
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5"%s d="`, s.Stroke, dash)
		for i, p := range s.Points {
			x, y := project(p)
			if i == 0 {
				fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString(`"/>
`)
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// fit returns the data bounds padded by 10% on each side.
func fit(series []Series) Bounds {
	b := Bounds{MinX: math.Inf(1), MaxX: math.Inf(-1), MinY: math.Inf(1), MaxY: math.Inf(-1)}
	for _, s := range series {
		for _, p := range s.Points {
			b.MinX, b.MaxX = min(b.MinX, p.X), max(b.MaxX, p.X)
			b.MinY, b.MaxY = min(b.MinY, p.Y), max(b.MaxY, p.Y)
		}
	}
	if math.IsInf(b.MinX, 1) {
		return Bounds{MaxX: 1, MaxY: 1}
	}
	padX := (b.MaxX - b.MinX) * 0.1
	padY := (b.MaxY - b.MinY) * 0.1
	return Bounds{b.MinX - padX, b.MaxX + padX, b.MinY - padY, b.MaxY + padY}
}

// CurveSVG plots an easing curve over t in [0,1] with the linear diagonal as
// a dashed reference. Curves that overshoot keep their excursion visible.
func CurveSVG(f easing.Func, samples int, stroke string, opts Options) string {
	if samples < 2 {
		samples = 100
	}
	ys := easing.Sample(f, samples)
	curve := make([]Point, len(ys))
	lo, hi := 0.0, 1.0
	for i, y := range ys {
		curve[i] = Point{X: float64(i) / float64(samples), Y: y}
		lo, hi = min(lo, y), max(hi, y)
	}

	pad := (hi - lo) * 0.1
	opts.Bounds = Bounds{MinX: -0.05, MaxX: 1.05, MinY: lo - pad, MaxY: hi + pad}

	return PlotSVG([]Series{
		{Points: []Point{{0, 0}, {1, 1}}, Stroke: "#444444", Dashed: true},
		{Points: curve, Stroke: stroke},
	}, opts)
}

// TraceSVG plots values over time. A non-nil target adds a dashed line at
// that level.
func TraceSVG(times, values []float64, target *float64, stroke string, opts Options) string {
	n := min(len(times), len(values))
	trace := make([]Point, n)
	for i := 0; i < n; i++ {
		trace[i] = Point{X: times[i], Y: values[i]}
	}

	series := []Series{{Points: trace, Stroke: stroke}}
	if target != nil && n > 0 {
		series = append(series, Series{
			Points: []Point{{times[0], *target}, {times[n-1], *target}},
			Stroke: "#666666",
			Dashed: true,
		})
	}
	return PlotSVG(series, opts)
}
