package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme for the playback TUI.
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Pending lipgloss.Color
	Cursor  lipgloss.Color
	Muted   lipgloss.Color
}

var (
	ThemeTerminal = Theme{
		Name:    "terminal",
		Primary: lipgloss.Color("#00ff88"),
		Accent:  lipgloss.Color("#00ccff"),
		Text:    lipgloss.Color("#e8e8e8"),
		Pending: lipgloss.Color("#3a3a3a"),
		Cursor:  lipgloss.Color("#00ff88"),
		Muted:   lipgloss.Color("#666666"),
	}

	ThemeAmber = Theme{
		Name:    "amber",
		Primary: lipgloss.Color("#ffb000"),
		Accent:  lipgloss.Color("#ff8800"),
		Text:    lipgloss.Color("#ffd27a"),
		Pending: lipgloss.Color("#3d2e00"),
		Cursor:  lipgloss.Color("#ffb000"),
		Muted:   lipgloss.Color("#8a6a00"),
	}

	ThemePaper = Theme{
		Name:    "paper",
		Primary: lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#0088ff"),
		Text:    lipgloss.Color("#f0f0f0"),
		Pending: lipgloss.Color("#444444"),
		Cursor:  lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
	}

	CurrentTheme = ThemeTerminal

	Themes = []Theme{ThemeTerminal, ThemeAmber, ThemePaper}
)

// GetTheme returns a theme by name, falling back to the default.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeTerminal
}

// SetTheme changes the current theme.
func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// ThemeNames returns the available theme names.
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
