// Package overlay provides the slide-in queue panel.
package overlay

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Styles for the panel frame.
type Styles struct {
	Frame lipgloss.Style
	Title lipgloss.Style
	Help  lipgloss.Style
}

// Panel is a bottom sheet covering a fraction of the screen height.
// It starts closed and closes itself on esc or q.
type Panel struct {
	title    string
	styles   Styles
	fraction float64
	open     bool
	vp       viewport.Model
	width    int
	height   int
}

// New creates a closed panel. fraction is the share of the screen height the
// open panel covers; values outside (0,1] fall back to 0.75.
func New(title string, fraction float64, styles Styles) *Panel {
	if fraction <= 0 || fraction > 1 {
		fraction = 0.75
	}
	return &Panel{
		title:    title,
		styles:   styles,
		fraction: fraction,
		vp:       viewport.New(0, 0),
	}
}

// Open shows the panel. Opening an open panel is a no-op.
func (p *Panel) Open() {
	if p == nil || p.open {
		return
	}
	p.open = true
	p.vp.GotoTop()
}

// Close hides the panel.
func (p *Panel) Close() {
	if p == nil {
		return
	}
	p.open = false
}

// IsOpen reports whether the panel is showing.
func (p *Panel) IsOpen() bool {
	return p != nil && p.open
}

// SetContent replaces the panel body.
func (p *Panel) SetContent(lines []string) {
	p.vp.SetContent(strings.Join(lines, "\n"))
}

// SetSize fits the panel to a screen of the given dimensions.
func (p *Panel) SetSize(width, height int) {
	p.width = width
	p.height = int(float64(height) * p.fraction)
	// border (2) + title (1) + help (1)
	inner := p.height - 4
	if inner < 1 {
		inner = 1
	}
	w := width - 4
	if w < 1 {
		w = 1
	}
	p.vp.Width = w
	p.vp.Height = inner
}

// Height is the rendered height of the open panel.
func (p *Panel) Height() int {
	return p.height
}

// Update handles input while the panel is open. It reports whether the
// message was consumed.
func (p *Panel) Update(msg tea.Msg) (tea.Cmd, bool) {
	if !p.IsOpen() {
		return nil, false
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc", "q":
			p.Close()
			return nil, true
		}
	}
	var cmd tea.Cmd
	p.vp, cmd = p.vp.Update(msg)
	_, isKey := msg.(tea.KeyMsg)
	return cmd, isKey
}

// View renders the panel, or "" when closed.
func (p *Panel) View() string {
	if !p.IsOpen() {
		return ""
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		p.styles.Title.Render(p.title),
		p.vp.View(),
		p.styles.Help.Render("esc close · j/k scroll"),
	)
	w := p.width - 2
	if w < 1 {
		w = 1
	}
	return p.styles.Frame.Width(w).Render(body)
}
