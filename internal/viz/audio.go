package viz

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/motionkit/internal/audio"
	"github.com/san-kum/motionkit/internal/mathx"
)

const barRows = 12

type sourceDoneMsg struct{ err error }

// AudioModel shows the analyzer bands as bars. When the source fails, the
// view keeps running and reports the audio as inactive.
type AudioModel struct {
	analyzer *audio.Analyzer
	source   audio.Source
	label    string
	st       styles

	ctx    context.Context
	cancel context.CancelFunc

	bars     []float64
	pulse    float64
	inactive error
	finished bool
}

func NewAudioModel(an *audio.Analyzer, src audio.Source, label, theme string) AudioModel {
	ctx, cancel := context.WithCancel(context.Background())
	return AudioModel{
		analyzer: an,
		source:   src,
		label:    label,
		st:       newStyles(GetTheme(theme)),
		ctx:      ctx,
		cancel:   cancel,
		bars:     make([]float64, an.Options().Bins),
	}
}

func (m AudioModel) Init() tea.Cmd {
	return tea.Batch(m.listen(), tick())
}

func (m AudioModel) listen() tea.Cmd {
	if m.source == nil {
		return func() tea.Msg { return sourceDoneMsg{err: audio.ErrMicUnavailable} }
	}
	src, an, ctx := m.source, m.analyzer, m.ctx
	return func() tea.Msg {
		err := src.Start(ctx, an.Write)
		return sourceDoneMsg{err: err}
	}
}

func (m AudioModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.cancel()
			return m, tea.Quit
		case "t":
			m.st = newStyles(NextTheme(m.st.theme))
		}
	case sourceDoneMsg:
		if msg.err != nil && !errors.Is(msg.err, context.Canceled) {
			m.inactive = msg.err
		} else {
			m.finished = true
		}
	case TickMsg:
		m.step(frameDt)
		return m, tick()
	}
	return m, nil
}

// step eases the displayed bars toward the analyzer output so they fall
// smoothly between frames.
func (m *AudioModel) step(dt float64) {
	spec := m.analyzer.Spectrum()
	for i := range m.bars {
		target := 0.0
		if i < len(spec) {
			target = spec[i]
		}
		lambda := 8.0
		if target > m.bars[i] {
			lambda = 30
		}
		m.bars[i] = mathx.Damp(m.bars[i], target, lambda, dt)
	}
	bass, _, _ := m.analyzer.Levels()
	m.pulse = mathx.Damp(m.pulse, bass, 12, dt)
}

func (m AudioModel) Inactive() error { return m.inactive }

func (m AudioModel) View() string {
	var b strings.Builder
	b.WriteString(m.st.title.Render("AUDIO") + "  " + m.st.muted.Render(m.label) + "\n\n")
	if m.inactive != nil {
		b.WriteString(m.st.muted.Render("audio inactive: "+m.inactive.Error()) + "\n\n")
	}
	b.WriteString(m.st.columns(m.bars, barRows) + "\n")
	b.WriteString(m.st.muted.Render(strings.Repeat("─", len(m.bars))) + "\n\n")

	bass, mid, high := m.analyzer.Levels()
	b.WriteString(m.st.row("bass", m.st.bar(bass, 20)))
	b.WriteString(m.st.row("mid", m.st.bar(mid, 20)))
	b.WriteString(m.st.row("high", m.st.bar(high, 20)))
	b.WriteString(m.st.row("pulse", fmt.Sprintf("%.2fx", 1+0.2*m.pulse)))
	b.WriteString(m.st.row("frames", fmt.Sprintf("%d", m.analyzer.Frames())))
	if m.finished {
		b.WriteString(m.st.muted.Render("source ended") + "\n")
	}
	b.WriteString(m.st.help.Render("t:theme q:quit"))
	return b.String()
}

// RunAudio starts the analyzer view and blocks until the user quits. It
// returns the source error that made the audio inactive, if any.
func RunAudio(an *audio.Analyzer, src audio.Source, label, theme string) (inactive error, err error) {
	m := NewAudioModel(an, src, label, theme)
	defer m.cancel()
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if am, ok := final.(AudioModel); ok {
		inactive = am.Inactive()
	}
	return inactive, err
}
