// Package theme holds the color palettes available to the screen.
package theme

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Colors are the color tokens a theme exposes to rendering.
type Colors struct {
	Background lipgloss.Color
	Surface    lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Error      lipgloss.Color
}

// Theme is a read-only snapshot of the active palette.
type Theme struct {
	Name   string
	Colors Colors
}

// Dark is the default palette.
func Dark() Theme {
	return Theme{
		Name: "dark",
		Colors: Colors{
			Background: lipgloss.Color("234"),
			Surface:    lipgloss.Color("236"),
			Text:       lipgloss.Color("255"),
			Muted:      lipgloss.Color("242"),
			Primary:    lipgloss.Color("62"),
			Accent:     lipgloss.Color("212"),
			Error:      lipgloss.Color("196"),
		},
	}
}

// Light is a palette for light terminals.
func Light() Theme {
	return Theme{
		Name: "light",
		Colors: Colors{
			Background: lipgloss.Color("255"),
			Surface:    lipgloss.Color("254"),
			Text:       lipgloss.Color("235"),
			Muted:      lipgloss.Color("245"),
			Primary:    lipgloss.Color("25"),
			Accent:     lipgloss.Color("163"),
			Error:      lipgloss.Color("160"),
		},
	}
}

// ByName returns the named palette.
func ByName(name string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "dark":
		return Dark(), nil
	case "light":
		return Light(), nil
	}
	return Theme{}, fmt.Errorf("unknown theme %q", name)
}
