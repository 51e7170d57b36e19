package viz

import (
	"fmt"
	"image"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/motionkit/internal/dynamo"
	"github.com/san-kum/motionkit/internal/easing"
	"github.com/san-kum/motionkit/internal/effects"
	"github.com/san-kum/motionkit/internal/mathx"
	"github.com/san-kum/motionkit/internal/spring"
	"github.com/san-kum/motionkit/internal/viewport"
)

const (
	canvasWidth  = 60
	canvasHeight = 20
	frameDt      = 1.0 / 60
	trailLength  = 48
	targetStep   = 10
	easeLoop     = 1.6
	scrollLambda = 10
)

type Tab int

const (
	TabSpring Tab = iota
	TabEasing
	TabScroll
	TabEffects
)

var tabNames = []string{"spring", "easing", "scroll", "effects"}

func (t Tab) String() string { return tabNames[t] }

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Options configures the preview. Zero values fall back to the defaults.
type Options struct {
	SpringPreset    string
	Easing          string
	Document        *viewport.Document
	ScrollStep      float64
	RevealThreshold float64
	Theme           string
	GIFPath         string
}

// Model is the interactive motion preview.
type Model struct {
	opts     Options
	st       styles
	canvas   *Canvas
	tab      Tab
	running  bool
	showHelp bool
	status   string
	elapsed  float64

	presets   []string
	presetIdx int
	anim      *spring.Animator
	trail     [][2]int

	easings []string
	easeIdx int
	ease    easing.Func
	phase   float64

	doc          *viewport.Document
	sampler      *viewport.Sampler
	snap         viewport.Snapshot
	reveals      map[string]*effects.Reveal
	counters     map[string]*effects.Counter
	scrollTarget float64

	scene *effectsScene

	recording bool
	frames    []*image.Paletted
}

func NewModel(opts Options) Model {
	if opts.SpringPreset == "" {
		opts.SpringPreset = "wobbly"
	}
	if opts.Easing == "" {
		opts.Easing = "smooth"
	}
	if opts.Document == nil {
		opts.Document = viewport.NewDocument(viewport.Viewport{Height: 800},
			viewport.Section{ID: "hero", Height: 800},
			viewport.Section{ID: "portfolio", Height: 1600},
			viewport.Section{ID: "contact", Height: 600},
		)
	}
	if opts.ScrollStep <= 0 {
		opts.ScrollStep = 200
	}
	if opts.RevealThreshold <= 0 {
		opts.RevealThreshold = 0.2
	}
	if opts.GIFPath == "" {
		opts.GIFPath = "motionkit.gif"
	}

	m := Model{
		opts:    opts,
		st:      newStyles(GetTheme(opts.Theme)),
		canvas:  NewCanvas(canvasWidth, canvasHeight),
		running: true,
		presets: spring.PresetNames(),
		easings: easing.Names(),
		doc:     opts.Document,
		reveals:  make(map[string]*effects.Reveal),
		counters: make(map[string]*effects.Counter),
	}
	m.presetIdx = indexOf(m.presets, opts.SpringPreset)
	m.easeIdx = indexOf(m.easings, opts.Easing)
	m.ease = m.easeFunc(opts.Easing)

	w, h := m.canvas.Dots()
	p, _ := spring.Preset(m.presets[m.presetIdx])
	m.anim = spring.NewAnimator(p, dynamo.Vec{float64(w) / 2, float64(h) / 2})
	m.scene = newEffectsScene(w, h)

	tracker := viewport.NewTracker()
	m.doc.Track(tracker)
	m.sampler = viewport.NewSampler(tracker)
	for _, s := range m.doc.Sections {
		m.reveals[s.ID] = effects.NewReveal(opts.RevealThreshold, 0.6, m.ease)
		m.counters[s.ID] = effects.NewCounter(0, s.Height, 1.2, opts.RevealThreshold, m.ease)
	}
	m.scrollTarget = m.doc.ScrollY
	m.snap = m.sampler.Frame(m.doc.Viewport)
	return m
}

// easeFunc parses name, falling back to the smooth preset so a bad name
// never stops the preview.
func (m Model) easeFunc(name string) easing.Func {
	f, err := easing.Parse(name)
	if err != nil {
		f, _ = easing.Named("smooth")
	}
	return f
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return 0
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Tab() Tab { return m.tab }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.mouse(msg)
		return m, nil
	case TickMsg:
		if m.running {
			m.step(frameDt)
		}
		m.draw()
		if m.recording {
			m.frames = append(m.frames, m.canvas.Image(2, m.st.theme.Accent))
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.tab = (m.tab + 1) % Tab(len(tabNames))
	case "1", "2", "3", "4":
		m.tab = Tab(msg.String()[0] - '1')
	case " ":
		m.running = !m.running
	case "r":
		m.reset()
	case "t":
		m.st = newStyles(NextTheme(m.st.theme))
	case "?":
		m.showHelp = !m.showHelp
	case "g":
		m.toggleRecording()
	default:
		switch m.tab {
		case TabSpring:
			m.springKey(msg.String())
		case TabEasing:
			m.easingKey(msg.String())
		case TabScroll:
			m.scrollKey(msg.String())
		case TabEffects:
			m.effectsKey(msg.String())
		}
	}
	return m, nil
}

func (m *Model) springKey(key string) {
	w, h := m.canvas.Dots()
	target := m.anim.Target()
	switch key {
	case "left", "h":
		target[0] -= targetStep
	case "right", "l":
		target[0] += targetStep
	case "up", "k":
		target[1] -= targetStep
	case "down", "j":
		target[1] += targetStep
	case "p":
		m.presetIdx = (m.presetIdx + 1) % len(m.presets)
		m.anim.Params, _ = spring.Preset(m.presets[m.presetIdx])
		return
	case "i":
		m.anim.Impulse(dynamo.Vec{0, -400})
		return
	default:
		return
	}
	target[0] = mathx.Clamp(target[0], 0, float64(w-1))
	target[1] = mathx.Clamp(target[1], 0, float64(h-1))
	m.anim.SetTarget(target)
}

func (m *Model) easingKey(key string) {
	switch key {
	case "up", "k":
		m.easeIdx = (m.easeIdx + len(m.easings) - 1) % len(m.easings)
	case "down", "j":
		m.easeIdx = (m.easeIdx + 1) % len(m.easings)
	default:
		return
	}
	m.ease = m.easeFunc(m.easings[m.easeIdx])
	m.phase = 0
}

func (m *Model) scrollKey(key string) {
	switch key {
	case "up", "k":
		m.scrollTarget -= m.opts.ScrollStep
	case "down", "j":
		m.scrollTarget += m.opts.ScrollStep
	case "pgup":
		m.scrollTarget -= m.doc.Viewport.Height
	case "pgdown":
		m.scrollTarget += m.doc.Viewport.Height
	case "home":
		m.scrollTarget = 0
	case "end":
		m.scrollTarget = m.doc.MaxScroll()
	case "x":
		m.rearm()
		return
	default:
		return
	}
	m.scrollTarget = mathx.Clamp(m.scrollTarget, 0, m.doc.MaxScroll())
}

// step advances every tab so switching tabs never shows stale motion.
func (m *Model) step(dt float64) {
	m.elapsed += dt

	m.anim.Update(dt)
	pos := m.anim.Position()
	m.trail = append(m.trail, [2]int{int(math.Round(pos[0])), int(math.Round(pos[1]))})
	if len(m.trail) > trailLength {
		m.trail = m.trail[1:]
	}

	m.phase = math.Mod(m.phase+dt, easeLoop)

	if m.doc.ScrollY != m.scrollTarget {
		next := mathx.Damp(m.doc.ScrollY, m.scrollTarget, scrollLambda, dt)
		if math.Abs(next-m.scrollTarget) < 0.5 {
			next = m.scrollTarget
		}
		m.doc.ScrollTo(next)
		m.sampler.Invalidate()
	}
	m.snap = m.sampler.Frame(m.doc.Viewport)
	for _, e := range m.snap.Entries {
		if r, ok := m.reveals[e.ID]; ok {
			r.Observe(e.Visibility)
			r.Update(dt)
		}
		if c, ok := m.counters[e.ID]; ok {
			c.Observe(e.Visibility)
			c.Update(dt)
		}
	}

	m.scene.step(dt)
}

func (m *Model) rearm() {
	for _, r := range m.reveals {
		r.Reset()
	}
	for _, c := range m.counters {
		c.Reset()
	}
}

func (m *Model) reset() {
	w, h := m.canvas.Dots()
	m.anim.Jump(dynamo.Vec{float64(w) / 2, float64(h) / 2})
	m.trail = m.trail[:0]
	m.phase = 0
	m.elapsed = 0
	m.scrollTarget = 0
	m.doc.ScrollTo(0)
	m.sampler.Invalidate()
	m.rearm()
	m.scene = newEffectsScene(w, h)
}

func (m *Model) toggleRecording() {
	if !m.recording {
		m.recording = true
		m.frames = m.frames[:0]
		m.status = "recording"
		return
	}
	m.recording = false
	if err := SaveGIF(m.opts.GIFPath, m.frames); err != nil {
		m.status = "gif failed: " + err.Error()
	} else {
		m.status = fmt.Sprintf("saved %d frames to %s", len(m.frames), m.opts.GIFPath)
	}
	m.frames = nil
}

func (m *Model) draw() {
	m.canvas.Clear()
	switch m.tab {
	case TabSpring:
		m.drawSpring()
	case TabEasing:
		m.drawEasing()
	case TabScroll:
		m.drawScroll()
	case TabEffects:
		m.drawEffects()
	}
}

func (m *Model) drawSpring() {
	target := m.anim.Target()
	tx, ty := int(math.Round(target[0])), int(math.Round(target[1]))
	m.canvas.Line(tx-3, ty, tx+3, ty)
	m.canvas.Line(tx, ty-3, tx, ty+3)

	for i := 1; i < len(m.trail); i++ {
		a, b := m.trail[i-1], m.trail[i]
		if i%2 == 0 {
			m.canvas.Line(a[0], a[1], b[0], b[1])
		}
	}
	if n := len(m.trail); n > 0 {
		p := m.trail[n-1]
		m.canvas.Disc(p[0], p[1], 2)
	}
}

// easeY maps an eased value onto canvas rows, leaving room for overshoot.
func easeY(v float64, h int) int {
	return int(math.Round(mathx.MapRange(v, -0.25, 1.25, float64(h-1), 0)))
}

func (m *Model) drawEasing() {
	w, h := m.canvas.Dots()
	px, py := 0, easeY(m.ease(0), h)
	for x := 1; x < w; x++ {
		y := easeY(m.ease(float64(x)/float64(w-1)), h)
		m.canvas.Line(px, py, x, y)
		px, py = x, y
	}

	t := mathx.Clamp01(m.phase / (easeLoop - 0.4))
	v := m.ease(t)
	m.canvas.Disc(int(t*float64(w-1)), easeY(v, h), 2)

	track := h - 3
	m.canvas.Line(0, track+2, w-1, track+2)
	m.canvas.Disc(int(mathx.Lerp(2, float64(w-3), v)), track, 2)
}

func (m *Model) drawScroll() {
	w, h := m.canvas.Dots()
	total := m.doc.Height()
	if total <= 0 {
		return
	}
	scale := float64(h-1) / total
	offset := 0.0
	for _, s := range m.doc.Sections {
		y := int(offset * scale)
		m.canvas.Line(0, y, w/2, y)
		if s.ID == m.snap.Active {
			for yy := y + 1; yy < int((offset+s.Height)*scale); yy += 2 {
				m.canvas.Line(0, yy, 3, yy)
			}
		}
		offset += s.Height
	}
	m.canvas.Line(0, h-1, w/2, h-1)

	top := int(m.doc.ScrollY * scale)
	bottom := int((m.doc.ScrollY + m.doc.Viewport.Height) * scale)
	bottom = min(bottom, h-1)
	left, right := w/2+4, w-1
	m.canvas.Line(left, top, right, top)
	m.canvas.Line(left, bottom, right, bottom)
	m.canvas.Line(left, top, left, bottom)
	m.canvas.Line(right, top, right, bottom)
}

func (m Model) View() string {
	m.draw()
	var tabs []string
	for i, name := range tabNames {
		if Tab(i) == m.tab {
			tabs = append(tabs, m.st.active.Render(name))
		} else {
			tabs = append(tabs, m.st.tab.Render(name))
		}
	}
	header := m.st.title.Render("MOTIONKIT") + "  " + strings.Join(tabs, "")

	var panel string
	switch m.tab {
	case TabSpring:
		panel = m.springPanel()
	case TabEasing:
		panel = m.easingPanel()
	case TabScroll:
		panel = m.scrollPanel()
	case TabEffects:
		panel = m.effectsPanel()
	}
	if m.status != "" {
		panel += "\n" + m.st.muted.Render(m.status) + "\n"
	}
	panel += m.st.help.Render(m.helpLine())

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.st.canvas.Render(m.canvas.String()),
		m.st.panel.Render(panel),
	)
	out := header + "\n" + body
	if m.showHelp {
		out += "\n" + m.st.muted.Render(helpText)
	}
	return out
}

func (m Model) springPanel() string {
	var b strings.Builder
	p := m.anim.Params
	pos, vel, target := m.anim.Position(), m.anim.Velocity(), m.anim.Target()
	state := "moving"
	if m.anim.Idle() {
		state = "settled"
	}
	b.WriteString(m.st.title.Render(strings.ToUpper(m.presets[m.presetIdx])) + "\n\n")
	b.WriteString(m.st.row("stiffness", fmt.Sprintf("%.0f", p.Stiffness)))
	b.WriteString(m.st.row("damping", fmt.Sprintf("%.0f", p.Damping)))
	b.WriteString(m.st.row("mass", fmt.Sprintf("%.2f", p.Mass)))
	b.WriteString(m.st.row("ratio", fmt.Sprintf("%.2f", spring.DampingRatio(p))))
	b.WriteString("\n")
	b.WriteString(m.st.row("position", fmt.Sprintf("%6.1f %6.1f", pos[0], pos[1])))
	b.WriteString(m.st.row("target", fmt.Sprintf("%6.1f %6.1f", target[0], target[1])))
	b.WriteString(m.st.row("speed", fmt.Sprintf("%.1f", vel.Norm())))
	b.WriteString(m.st.row("state", state))
	return b.String()
}

func (m Model) easingPanel() string {
	var b strings.Builder
	name := m.easings[m.easeIdx]
	b.WriteString(m.st.title.Render(strings.ToUpper(name)) + "\n\n")
	chart := asciigraph.Plot(easing.Sample(m.ease, 32),
		asciigraph.Height(8), asciigraph.Width(32), asciigraph.Precision(1))
	b.WriteString(m.st.value.Render(chart) + "\n\n")
	t := mathx.Clamp01(m.phase / (easeLoop - 0.4))
	b.WriteString(m.st.row("t", fmt.Sprintf("%.2f", t)))
	b.WriteString(m.st.row("value", fmt.Sprintf("%.3f", m.ease(t))))
	mono := "yes"
	if !easing.IsMonotonic(m.ease, 200) {
		mono = "no (overshoots)"
	}
	b.WriteString(m.st.row("monotonic", mono))
	return b.String()
}

func (m Model) scrollPanel() string {
	var b strings.Builder
	b.WriteString(m.st.title.Render("SCROLL") + "\n\n")
	b.WriteString(m.st.row("offset", fmt.Sprintf("%.0f / %.0f", m.doc.ScrollY, m.doc.MaxScroll())))
	b.WriteString(m.st.row("page", m.st.bar(m.doc.ScrollProgress(), 20)))
	b.WriteString("\n")
	for _, s := range m.doc.Sections {
		e, ok := m.snap.Get(s.ID)
		name := fmt.Sprintf("%-11s", s.ID)
		if !ok {
			b.WriteString(m.st.muted.Render(name+" hidden") + "\n")
			continue
		}
		mark := " "
		if r := m.reveals[s.ID]; r != nil && r.Triggered() {
			mark = m.st.level(r.Progress()).Render("●")
		}
		if s.ID == m.snap.Active {
			name = m.st.active.UnsetPadding().Render(name)
		} else {
			name = m.st.muted.Render(name)
		}
		b.WriteString(fmt.Sprintf("%s %s %s %3.0f%%\n", name, mark, m.st.bar(e.Progress, 14), e.Visibility*100))
	}
	frames, evals := m.sampler.Stats()
	b.WriteString("\n" + m.st.row("samples", fmt.Sprintf("%d / %d frames", evals, frames)))
	return b.String()
}

func (m Model) helpLine() string {
	var keys string
	switch m.tab {
	case TabSpring:
		keys = "arrows:target p:preset i:flick"
	case TabEasing:
		keys = "↑↓:curve"
	case TabScroll:
		keys = "↑↓:scroll pgup/pgdn home/end x:rearm"
	case TabEffects:
		keys = "arrows/mouse:pointer c:center o:out"
	}
	return "─────────────────────\n" + keys + "\ntab:next spc:pause r:reset t:theme g:gif ?:help q:quit"
}

const helpText = `
  tab / 1-4   switch preview
  space       pause or resume
  r           reset
  t           cycle theme
  g           start or stop GIF capture
  q           quit
`

// Run starts the preview full screen.
func Run(opts Options) error {
	_, err := tea.NewProgram(NewModel(opts), tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
