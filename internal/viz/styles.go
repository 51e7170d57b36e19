package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/motionkit/internal/mathx"
)

type styles struct {
	theme  Theme
	title  lipgloss.Style
	tab    lipgloss.Style
	active lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	muted  lipgloss.Style
	canvas lipgloss.Style
	panel  lipgloss.Style
	help   lipgloss.Style
	low    lipgloss.Style
	mid    lipgloss.Style
	high   lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		theme:  t,
		title:  lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		tab:    lipgloss.NewStyle().Foreground(t.Muted).Padding(0, 1),
		active: lipgloss.NewStyle().Bold(true).Foreground(t.Accent).Padding(0, 1).Underline(true),
		label:  lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:  lipgloss.NewStyle().Foreground(t.Text),
		muted:  lipgloss.NewStyle().Foreground(t.Muted),
		canvas: lipgloss.NewStyle().Foreground(t.Secondary).Padding(1, 2),
		panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(1, 2).
			Width(44),
		help: lipgloss.NewStyle().Foreground(t.Muted).Italic(true).MarginTop(1),
		low:  lipgloss.NewStyle().Foreground(t.Low),
		mid:  lipgloss.NewStyle().Foreground(t.Mid),
		high: lipgloss.NewStyle().Foreground(t.High),
	}
}

func (s styles) level(v float64) lipgloss.Style {
	switch {
	case v > 0.7:
		return s.high
	case v > 0.3:
		return s.mid
	default:
		return s.low
	}
}

// bar renders v in [0,1] as a horizontal bar of the given width.
func (s styles) bar(v float64, width int) string {
	filled := int(mathx.Clamp01(v)*float64(width) + 0.5)
	return s.level(v).Render(strings.Repeat("█", filled)) + s.muted.Render(strings.Repeat("░", width-filled))
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// sparkline renders values in [0,1], one rune each.
func (s styles) sparkline(values []float64) string {
	var b strings.Builder
	for _, v := range values {
		v = mathx.Clamp01(v)
		idx := min(int(v*float64(len(sparkChars))), len(sparkChars)-1)
		b.WriteString(s.level(v).Render(string(sparkChars[idx])))
	}
	return b.String()
}

// columns renders values in [0,1] as vertical bars rows high.
func (s styles) columns(values []float64, rows int) string {
	var b strings.Builder
	for r := rows; r > 0; r-- {
		for _, v := range values {
			fill := mathx.Clamp01(v) * float64(rows)
			switch {
			case fill >= float64(r):
				b.WriteString(s.level(v).Render("█"))
			case fill > float64(r-1):
				idx := int((fill - float64(r-1)) * float64(len(sparkChars)-1))
				b.WriteString(s.level(v).Render(string(sparkChars[idx])))
			default:
				b.WriteByte(' ')
			}
		}
		if r > 1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (s styles) row(label, value string) string {
	return s.label.Render(label) + s.value.Render(value) + "\n"
}
