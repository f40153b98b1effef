package main

import "github.com/charmbracelet/lipgloss"

type styles struct {
	app      lipgloss.Style
	footer   lipgloss.Style
	inactive lipgloss.Style
	error    lipgloss.Style
	success  lipgloss.Style
	command  lipgloss.Style
	selected lipgloss.Style
	ascii    lipgloss.Style
}

type ThemeName string

const (
	ThemeCyan   ThemeName = "cyan"
	ThemeMatrix ThemeName = "matrix"
	ThemeAmber  ThemeName = "amber"
)

type ThemePalette struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Error     lipgloss.Color
	Inactive  lipgloss.Color
}

var palettes = map[ThemeName]ThemePalette{
	ThemeCyan: {
		Primary:   lipgloss.Color("51"),
		Secondary: lipgloss.Color("33"),
		Success:   lipgloss.Color("46"),
		Error:     lipgloss.Color("196"),
		Inactive:  lipgloss.Color("240"),
	},
	ThemeMatrix: {
		Primary:   lipgloss.Color("82"),
		Secondary: lipgloss.Color("46"),
		Success:   lipgloss.Color("82"),
		Error:     lipgloss.Color("196"),
		Inactive:  lipgloss.Color("240"),
	},
	ThemeAmber: {
		Primary:   lipgloss.Color("220"),
		Secondary: lipgloss.Color("214"),
		Success:   lipgloss.Color("220"),
		Error:     lipgloss.Color("196"),
		Inactive:  lipgloss.Color("240"),
	},
}

// ListThemes returns the selectable theme names.
func ListThemes() []ThemeName {
	return []ThemeName{ThemeCyan, ThemeMatrix, ThemeAmber}
}

// GetTheme resolves a theme name to its style set, falling back to cyan.
func GetTheme(theme ThemeName) styles {
	palette, ok := palettes[theme]
	if !ok {
		palette = palettes[ThemeCyan]
	}
	return newStylesFromPalette(palette)
}

func newStylesFromPalette(p ThemePalette) styles {
	return styles{
		app:      lipgloss.NewStyle().Padding(1, 2),
		footer:   lipgloss.NewStyle().Foreground(p.Secondary),
		inactive: lipgloss.NewStyle().Foreground(p.Inactive),
		error:    lipgloss.NewStyle().Foreground(p.Error),
		success:  lipgloss.NewStyle().Foreground(p.Success),
		command:  lipgloss.NewStyle().Foreground(p.Secondary),
		selected: lipgloss.NewStyle().Foreground(p.Primary).Bold(true),
		ascii:    lipgloss.NewStyle().Foreground(p.Primary),
	}
}
