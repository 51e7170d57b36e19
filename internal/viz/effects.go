package viz

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/motionkit/internal/control"
	"github.com/san-kum/motionkit/internal/dynamo"
	"github.com/san-kum/motionkit/internal/effects"
	"github.com/san-kum/motionkit/internal/mathx"
	"github.com/san-kum/motionkit/internal/spring"
)

// Effects tab geometry, in canvas dots.
const (
	cardHalfW      = 16
	cardHalfH      = 8
	magnetRadius   = 30
	magnetStrength = 0.35
	maxTilt        = 12
	pointerStep    = 5
	driftLambda    = 4
	parallaxRange  = 16

	// The canvas starts below the header line and inside the canvas
	// style's padding. Braille cells are 2x4 dots.
	canvasTop  = 2
	canvasLeft = 2
)

var parallaxSpeeds = []float64{0.25, 0.6, 1}

// effectsScene is the card on the effects tab. The pointer lives in a
// control.Manual so key and mouse handlers only ever set it.
type effectsScene struct {
	pointer  *control.Manual
	card     effects.Bounds
	magnetic *effects.Magnetic
	tilt     *effects.Tilt
	drift    *effects.Drift
	// driftWeight fades idle drift in and out instead of jumping.
	driftWeight float64
	layers      []effects.Parallax
}

func newEffectsScene(w, h int) *effectsScene {
	cx, cy := float64(w)/2, float64(h)/2
	magnetic, _ := spring.Preset("magnetic")
	stiff, _ := spring.Preset("stiff")

	sc := &effectsScene{
		pointer:     control.NewManual(dynamo.Vec{cx - 40, cy - 30}),
		card:        effects.Bounds{X: cx - cardHalfW, Y: cy - cardHalfH, Width: 2 * cardHalfW, Height: 2 * cardHalfH},
		magnetic:    effects.NewMagnetic(magnetRadius, magnetStrength, magnetic),
		tilt:        effects.NewTilt(maxTilt, stiff),
		drift:       effects.NewDrift(7, 3, 0.4),
		driftWeight: 1,
	}
	for _, s := range parallaxSpeeds {
		sc.layers = append(sc.layers, effects.Parallax{Speed: s, Range: parallaxRange})
	}
	return sc
}

func (sc *effectsScene) Pointer() effects.Point {
	u := sc.pointer.Drive(nil, 0)
	return effects.Point{X: u[0], Y: u[1]}
}

func (sc *effectsScene) movePointer(dx, dy float64, w, h int) {
	p := sc.Pointer()
	sc.pointer.Set(dynamo.Vec{
		mathx.Clamp(p.X+dx, 0, float64(w-1)),
		mathx.Clamp(p.Y+dy, 0, float64(h-1)),
	})
}

func (sc *effectsScene) step(dt float64) {
	p := sc.Pointer()
	sc.magnetic.Pointer(p, sc.card.Center())
	if sc.card.Contains(p) {
		sc.tilt.Hover(p, sc.card)
	} else {
		sc.tilt.Leave()
	}
	sc.magnetic.Update(dt)
	sc.tilt.Update(dt)

	sc.drift.Update(dt)
	idle := 0.0
	if sc.magnetic.Idle() && p.Sub(sc.card.Center()).Len() > magnetRadius {
		idle = 1
	}
	sc.driftWeight = mathx.Damp(sc.driftWeight, idle, driftLambda, dt)
}

// Offset is where the card sits relative to its rest position.
func (sc *effectsScene) Offset() effects.Point {
	m := sc.magnetic.Offset()
	d := sc.drift.Offset()
	return effects.Point{X: m.X + d.X*sc.driftWeight, Y: m.Y + d.Y*sc.driftWeight}
}

func (m *Model) effectsKey(key string) {
	w, h := m.canvas.Dots()
	sc := m.scene
	switch key {
	case "left", "h":
		sc.movePointer(-pointerStep, 0, w, h)
	case "right", "l":
		sc.movePointer(pointerStep, 0, w, h)
	case "up", "k":
		sc.movePointer(0, -pointerStep, w, h)
	case "down", "j":
		sc.movePointer(0, pointerStep, w, h)
	case "c":
		c := sc.card.Center()
		sc.pointer.Set(dynamo.Vec{c.X, c.Y})
	case "o":
		sc.pointer.Set(dynamo.Vec{0, 0})
	}
}

// mouse maps a terminal cell onto canvas dots.
func (m *Model) mouse(msg tea.MouseMsg) {
	if m.tab != TabEffects {
		return
	}
	w, h := m.canvas.Dots()
	x := float64((msg.X-canvasLeft)*2) + 0.5
	y := float64((msg.Y-canvasTop)*4) + 1.5
	if x < 0 || y < 0 || x >= float64(w) || y >= float64(h) {
		return
	}
	m.scene.pointer.Set(dynamo.Vec{x, y})
}

func (m *Model) drawEffects() {
	w, h := m.canvas.Dots()
	sc := m.scene

	progress := 0.5
	if e, ok := m.snap.Get(m.snap.Active); ok {
		progress = e.Progress
	}
	for i, layer := range sc.layers {
		y := h - 22 + i*8 + int(math.Round(layer.Offset(progress)))
		dash := 2 + 2*i
		for x := 0; x < w; x += 2 * dash {
			m.canvas.Line(x, y, min(x+dash, w-1), y)
		}
	}

	off := sc.Offset()
	rx, ry := sc.tilt.Angles()
	sx, sy := ry/3, rx/3
	x0, y0 := sc.card.X+off.X, sc.card.Y+off.Y
	x1, y1 := x0+sc.card.Width, y0+sc.card.Height
	corners := [4][2]float64{
		{x0 + sx, y0 + sy},
		{x1 + sx, y0 - sy},
		{x1 - sx, y1 - sy},
		{x0 - sx, y1 + sy},
	}
	for i := range corners {
		a, b := corners[i], corners[(i+1)%4]
		m.canvas.Line(round(a[0]), round(a[1]), round(b[0]), round(b[1]))
	}

	p := sc.Pointer()
	px, py := round(p.X), round(p.Y)
	m.canvas.Line(px-2, py, px+2, py)
	m.canvas.Line(px, py-2, px, py+2)
}

func round(v float64) int { return int(math.Round(v)) }

func (m Model) effectsPanel() string {
	var b strings.Builder
	sc := m.scene
	p := sc.Pointer()
	off := sc.magnetic.Offset()
	d := sc.drift.Offset()
	rx, ry := sc.tilt.Angles()

	state := "pulling"
	if sc.magnetic.Idle() {
		state = "idle"
	}
	b.WriteString(m.st.title.Render("EFFECTS") + "\n\n")
	b.WriteString(m.st.row("pointer", fmt.Sprintf("%6.1f %6.1f", p.X, p.Y)))
	b.WriteString(m.st.row("magnetic", fmt.Sprintf("%6.1f %6.1f", off.X, off.Y)))
	b.WriteString(m.st.row("magnet", state))
	b.WriteString(m.st.row("tilt", fmt.Sprintf("%5.1f° %5.1f°", rx, ry)))
	b.WriteString(m.st.row("drift", fmt.Sprintf("%5.1f %5.1f  %s", d.X, d.Y, m.st.bar(sc.driftWeight, 8))))
	b.WriteString("\n")
	progress := 0.5
	if e, ok := m.snap.Get(m.snap.Active); ok {
		progress = e.Progress
	}
	for i, layer := range sc.layers {
		b.WriteString(m.st.row(fmt.Sprintf("layer %d", i+1), fmt.Sprintf("%+5.1f", layer.Offset(progress))))
	}
	b.WriteString("\n")
	for _, s := range m.doc.Sections {
		c := m.counters[s.ID]
		b.WriteString(m.st.row(s.ID, c.Label("px")))
	}
	return b.String()
}
