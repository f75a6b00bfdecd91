package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/discovery/internal/theme"
)

// Styles holds the lipgloss styles derived from a theme.
type Styles struct {
	Header        lipgloss.Style
	RowTitle      lipgloss.Style
	RowSubtitle   lipgloss.Style
	RowPath       lipgloss.Style
	RowSelected   lipgloss.Style
	Card          lipgloss.Style
	CardMeta      lipgloss.Style
	Tile          lipgloss.Style
	TileSelected  lipgloss.Style
	Panel         lipgloss.Style
	PanelTitle    lipgloss.Style
	Help          lipgloss.Style
	StatusBar     lipgloss.Style
	StatusBarKey  lipgloss.Style
	StatusBarText lipgloss.Style
	Error         lipgloss.Style
}

// NewStyles builds the screen styles from the theme's color tokens.
func NewStyles(t theme.Theme) Styles {
	c := t.Colors
	return Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(c.Accent).
			Padding(0, 1).
			MarginBottom(1),
		RowTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(c.Text).
			Padding(0, 1),
		RowSubtitle: lipgloss.NewStyle().
			Foreground(c.Muted).
			Padding(0, 1),
		RowPath: lipgloss.NewStyle().
			Foreground(c.Primary),
		RowSelected: lipgloss.NewStyle().
			Bold(true).
			Foreground(c.Text).
			Background(c.Primary).
			Padding(0, 1),
		Card: lipgloss.NewStyle().
			Foreground(c.Text).
			Background(c.Surface).
			Padding(0, 1).
			MarginRight(1),
		CardMeta: lipgloss.NewStyle().
			Foreground(c.Muted),
		Tile: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c.Muted).
			Foreground(c.Text).
			Padding(0, 2),
		TileSelected: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c.Accent).
			Foreground(c.Accent).
			Bold(true).
			Padding(0, 2),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c.Primary).
			Background(c.Background).
			Padding(0, 1),
		PanelTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(c.Accent),
		Help: lipgloss.NewStyle().
			Foreground(c.Muted).
			Italic(true),
		StatusBar: lipgloss.NewStyle().
			Foreground(c.Text).
			Background(c.Surface).
			Padding(0, 1),
		StatusBarKey: lipgloss.NewStyle().
			Foreground(c.Accent).
			Bold(true),
		StatusBarText: lipgloss.NewStyle().
			Foreground(c.Muted),
		Error: lipgloss.NewStyle().
			Foreground(c.Error).
			Bold(true).
			Padding(0, 1),
	}
}
