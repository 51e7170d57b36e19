package viz

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/motionkit/internal/audio"
)

func press(m Model, key tea.KeyMsg) Model {
	next, _ := m.Update(key)
	return next.(Model)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func ticks(m Model, n int) Model {
	for i := 0; i < n; i++ {
		next, _ := m.Update(TickMsg{})
		m = next.(Model)
	}
	return m
}

func TestModelDefaults(t *testing.T) {
	m := NewModel(Options{})
	if m.Tab() != TabSpring {
		t.Errorf("expected spring tab, got %s", m.Tab())
	}
	if !m.anim.Idle() {
		t.Error("animator should start idle")
	}
	if m.presets[m.presetIdx] != "wobbly" {
		t.Errorf("expected wobbly preset, got %s", m.presets[m.presetIdx])
	}
	if !strings.Contains(m.View(), "MOTIONKIT") {
		t.Error("expected title in view")
	}
}

func TestSpringTabFollowsTarget(t *testing.T) {
	m := NewModel(Options{})
	start := m.anim.Position()

	m = press(m, tea.KeyMsg{Type: tea.KeyRight})
	m = press(m, tea.KeyMsg{Type: tea.KeyDown})
	target := m.anim.Target()
	if target[0] != start[0]+targetStep || target[1] != start[1]+targetStep {
		t.Fatalf("unexpected target %v", target)
	}

	m = ticks(m, 5)
	if m.anim.Idle() {
		t.Error("animator should be moving toward the new target")
	}

	m = ticks(m, 240)
	if !m.anim.Idle() {
		t.Fatal("expected animator to settle")
	}
	pos := m.anim.Position()
	if pos[0] != target[0] || pos[1] != target[1] {
		t.Errorf("expected snap to %v, got %v", target, pos)
	}
	if len(m.trail) != trailLength {
		t.Errorf("expected trail of %d, got %d", trailLength, len(m.trail))
	}
}

func TestPauseStopsMotion(t *testing.T) {
	m := NewModel(Options{})
	m = press(m, tea.KeyMsg{Type: tea.KeyLeft})
	m = press(m, tea.KeyMsg{Type: tea.KeySpace})
	before := m.anim.Position()
	m = ticks(m, 10)
	after := m.anim.Position()
	if before[0] != after[0] {
		t.Errorf("expected no motion while paused, moved %v -> %v", before, after)
	}
}

func TestPresetCycle(t *testing.T) {
	m := NewModel(Options{SpringPreset: "stiff"})
	first := m.anim.Params
	m = press(m, runes("p"))
	if m.anim.Params == first {
		t.Error("expected preset change")
	}
}

func TestTabSwitching(t *testing.T) {
	m := NewModel(Options{})
	m = press(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.Tab() != TabEasing {
		t.Errorf("expected easing tab, got %s", m.Tab())
	}
	m = press(m, runes("3"))
	if m.Tab() != TabScroll {
		t.Errorf("expected scroll tab, got %s", m.Tab())
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.Tab() != TabEffects {
		t.Errorf("expected effects tab, got %s", m.Tab())
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.Tab() != TabSpring {
		t.Errorf("expected wrap to spring tab, got %s", m.Tab())
	}
}

func TestEffectsTab(t *testing.T) {
	m := NewModel(Options{})
	m = press(m, runes("4"))
	if m.Tab() != TabEffects {
		t.Fatalf("expected effects tab, got %s", m.Tab())
	}

	m = ticks(m, 60)
	if !m.scene.magnetic.Idle() || m.scene.driftWeight < 0.99 {
		t.Errorf("expected an idle, drifting card, weight %v", m.scene.driftWeight)
	}

	m = press(m, runes("c"))
	m = press(m, tea.KeyMsg{Type: tea.KeyRight})
	m = press(m, tea.KeyMsg{Type: tea.KeyRight})
	center := m.scene.card.Center()
	if p := m.scene.Pointer(); p.X != center.X+2*pointerStep || p.Y != center.Y {
		t.Fatalf("unexpected pointer %+v", p)
	}

	m = ticks(m, 240)
	off := m.scene.Offset()
	want := 2 * pointerStep * magnetStrength
	if math.Abs(off.X-want) > 0.01 || math.Abs(off.Y) > 0.01 {
		t.Errorf("expected card pulled to (%v, 0), got %+v", want, off)
	}
	if _, ry := m.scene.tilt.Angles(); ry <= 0 {
		t.Errorf("expected the card to turn toward the pointer, got %v", ry)
	}
	if !strings.Contains(m.View(), "EFFECTS") {
		t.Error("expected effects panel in view")
	}

	m = press(m, runes("o"))
	m = ticks(m, 240)
	if rx, ry := m.scene.tilt.Angles(); rx != 0 || ry != 0 {
		t.Errorf("expected flat card after the pointer left, got (%v, %v)", rx, ry)
	}
	if off := m.scene.magnetic.Offset(); off.X != 0 || off.Y != 0 {
		t.Errorf("expected magnet released, got %+v", off)
	}
}

func TestEffectsMouse(t *testing.T) {
	m := NewModel(Options{})
	move := tea.MouseMsg{X: 37, Y: 12, Action: tea.MouseActionMotion}

	next, _ := m.Update(move)
	m = next.(Model)
	before := m.scene.Pointer()
	if before.X == 70.5 {
		t.Fatal("mouse should only move the pointer on the effects tab")
	}

	m = press(m, runes("4"))
	next, _ = m.Update(move)
	m = next.(Model)
	if p := m.scene.Pointer(); p.X != 70.5 || p.Y != 41.5 {
		t.Errorf("expected pointer at (70.5, 41.5), got %+v", p)
	}

	next, _ = m.Update(tea.MouseMsg{X: 500, Y: 500, Action: tea.MouseActionMotion})
	m = next.(Model)
	if p := m.scene.Pointer(); p.X != 70.5 {
		t.Errorf("off-canvas motion should be ignored, got %+v", p)
	}
}

func TestEasingTab(t *testing.T) {
	m := NewModel(Options{Easing: "linear"})
	m = press(m, runes("2"))
	if got := m.ease(0.3); math.Abs(got-0.3) > 1e-9 {
		t.Errorf("expected linear easing, got %f", got)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyDown})
	name := m.easings[m.easeIdx]
	if name == "linear" {
		t.Fatal("expected a different curve")
	}
	if !strings.Contains(m.View(), strings.ToUpper(name)) {
		t.Errorf("expected %s in view", name)
	}
}

func TestScrollTab(t *testing.T) {
	m := NewModel(Options{})
	m = press(m, runes("3"))
	for i := 0; i < 3; i++ {
		m = press(m, tea.KeyMsg{Type: tea.KeyDown})
	}
	m = ticks(m, 120)

	if m.doc.ScrollY != 600 {
		t.Fatalf("expected scroll 600, got %f", m.doc.ScrollY)
	}
	if m.snap.Active != "portfolio" {
		t.Errorf("expected portfolio active, got %q", m.snap.Active)
	}
	if !m.reveals["portfolio"].Triggered() {
		t.Error("expected portfolio reveal to fire")
	}
	if m.reveals["contact"].Triggered() {
		t.Error("contact is off screen and should not reveal")
	}
	if got := m.counters["portfolio"].Value(); got != 1600 {
		t.Errorf("expected portfolio counter at 1600, got %v", got)
	}
	if m.counters["contact"].Value() != 0 {
		t.Error("contact counter should not have started")
	}

	frames, evals := m.sampler.Stats()
	if evals > frames {
		t.Errorf("sampler measured %d times in %d frames", evals, frames)
	}

	settled := evals
	m = ticks(m, 10)
	if _, evals := m.sampler.Stats(); evals != settled {
		t.Errorf("idle frames should not re-measure, got %d evaluations", evals-settled)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyEnd})
	m = ticks(m, 180)
	if m.doc.ScrollY != m.doc.MaxScroll() {
		t.Errorf("expected max scroll, got %f", m.doc.ScrollY)
	}
}

func TestResetAndTheme(t *testing.T) {
	m := NewModel(Options{Theme: "neon"})
	if m.st.theme.Name != "neon" {
		t.Errorf("expected neon theme, got %s", m.st.theme.Name)
	}
	m = press(m, runes("t"))
	if m.st.theme.Name != "sunset" {
		t.Errorf("expected sunset theme, got %s", m.st.theme.Name)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyUp})
	m = ticks(m, 20)
	m = press(m, runes("r"))
	if !m.anim.Idle() || len(m.trail) != 0 {
		t.Error("reset should park the spring")
	}
}

func TestQuit(t *testing.T) {
	m := NewModel(Options{})
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

type toneSource struct {
	frames int
}

func (s *toneSource) Start(ctx context.Context, fn func([]float32)) error {
	frame := make([]float32, 1024)
	for f := 0; f < s.frames; f++ {
		for i := range frame {
			n := f*len(frame) + i
			frame[i] = float32(0.8 * math.Sin(2*math.Pi*100*float64(n)/44100))
		}
		fn(frame)
	}
	return nil
}

func (s *toneSource) Close() error { return nil }

func TestAudioModel(t *testing.T) {
	an := audio.NewAnalyzer(audio.Options{})
	m := NewAudioModel(an, &toneSource{frames: 8}, "tone", "")

	msg := m.listen()()
	next, _ := m.Update(msg)
	m = next.(AudioModel)
	if m.Inactive() != nil {
		t.Fatalf("unexpected error %v", m.Inactive())
	}
	if an.Frames() == 0 {
		t.Fatal("expected analyzed frames")
	}

	for i := 0; i < 30; i++ {
		next, _ = m.Update(TickMsg{})
		m = next.(AudioModel)
	}
	if len(m.bars) != audio.DefaultBins {
		t.Errorf("expected %d bars, got %d", audio.DefaultBins, len(m.bars))
	}
	peak := 0.0
	for _, v := range m.bars {
		peak = max(peak, v)
	}
	if peak == 0 {
		t.Error("expected some energy in the bars")
	}
	if !strings.Contains(m.View(), "source ended") {
		t.Error("expected finished source in view")
	}
}

func TestAudioModelInactive(t *testing.T) {
	an := audio.NewAnalyzer(audio.Options{})
	m := NewAudioModel(an, nil, "mic", "")

	next, _ := m.Update(m.listen()())
	m = next.(AudioModel)
	if !errors.Is(m.Inactive(), audio.ErrMicUnavailable) {
		t.Errorf("expected ErrMicUnavailable, got %v", m.Inactive())
	}
	if !strings.Contains(m.View(), "audio inactive") {
		t.Error("expected inactive message")
	}

	next, _ = m.Update(TickMsg{})
	if next.(AudioModel).Inactive() == nil {
		t.Error("view should keep running after the source fails")
	}
}
