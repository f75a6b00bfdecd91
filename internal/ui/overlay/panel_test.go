package overlay

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestPanelStartsClosed(t *testing.T) {
	p := New("Queue", 0.5, Styles{})
	if p.IsOpen() {
		t.Error("new panel should be closed")
	}
	if p.View() != "" {
		t.Error("closed panel should render nothing")
	}
}

func TestPanelOpenClose(t *testing.T) {
	p := New("Queue", 0.5, Styles{})
	p.SetSize(80, 20)
	p.SetContent([]string{"Frieren, episode 5"})

	p.Open()
	p.Open()
	if !p.IsOpen() {
		t.Fatal("Open should show the panel")
	}
	view := p.View()
	if !strings.Contains(view, "Queue") || !strings.Contains(view, "Frieren") {
		t.Errorf("unexpected view:\n%s", view)
	}

	for _, k := range []tea.KeyMsg{{Type: tea.KeyEsc}, {Type: tea.KeyRunes, Runes: []rune("q")}} {
		p.Open()
		cmd, consumed := p.Update(k)
		if cmd != nil || !consumed {
			t.Errorf("%s should be consumed without a command", k)
		}
		if p.IsOpen() {
			t.Errorf("%s should close the panel", k)
		}
	}
}

func TestPanelIgnoresInputWhenClosed(t *testing.T) {
	p := New("Queue", 0.5, Styles{})
	if _, consumed := p.Update(tea.KeyMsg{Type: tea.KeyEsc}); consumed {
		t.Error("closed panel should not consume input")
	}
}

func TestPanelHeightFraction(t *testing.T) {
	tests := []struct {
		fraction float64
		want     int
	}{
		{0.5, 20},
		{1, 40},
		{0, 30},
		{1.5, 30},
	}
	for _, tt := range tests {
		p := New("Queue", tt.fraction, Styles{})
		p.SetSize(80, 40)
		if got := p.Height(); got != tt.want {
			t.Errorf("fraction %v: Height = %d, want %d", tt.fraction, got, tt.want)
		}
	}
}

func TestNilPanel(t *testing.T) {
	var p *Panel
	p.Open()
	p.Close()
	if p.IsOpen() {
		t.Error("nil panel should report closed")
	}
}
