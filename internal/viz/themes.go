package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the preview color scheme.
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Low       lipgloss.Color
	Mid       lipgloss.Color
	High      lipgloss.Color
}

var (
	ThemeInk = Theme{
		Name:      "ink",
		Primary:   lipgloss.Color("#f5f5f0"),
		Secondary: lipgloss.Color("#b8b8b0"),
		Accent:    lipgloss.Color("#ff5a36"),
		Text:      lipgloss.Color("#e8e8e0"),
		Muted:     lipgloss.Color("#5c5c58"),
		Low:       lipgloss.Color("#3a3a38"),
		Mid:       lipgloss.Color("#a0a098"),
		High:      lipgloss.Color("#ff5a36"),
	}

	ThemeNeon = Theme{
		Name:      "neon",
		Primary:   lipgloss.Color("#00ffff"),
		Secondary: lipgloss.Color("#ff00ff"),
		Accent:    lipgloss.Color("#ffff00"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#666688"),
		Low:       lipgloss.Color("#ff4444"),
		Mid:       lipgloss.Color("#ffcc00"),
		High:      lipgloss.Color("#00ff88"),
	}

	ThemeSunset = Theme{
		Name:      "sunset",
		Primary:   lipgloss.Color("#ff6b6b"),
		Secondary: lipgloss.Color("#feca57"),
		Accent:    lipgloss.Color("#ff9ff3"),
		Text:      lipgloss.Color("#fff5f5"),
		Muted:     lipgloss.Color("#8b6b8c"),
		Low:       lipgloss.Color("#8b6b8c"),
		Mid:       lipgloss.Color("#feca57"),
		High:      lipgloss.Color("#ff6b6b"),
	}

	Themes = []Theme{ThemeInk, ThemeNeon, ThemeSunset}
)

// GetTheme returns the named theme, falling back to ink.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeInk
}

// NextTheme returns the theme after t, wrapping around.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
