package theme

import "testing"

func TestByName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "dark"},
		{"dark", "dark"},
		{" Light ", "light"},
	}
	for _, tt := range tests {
		got, err := ByName(tt.in)
		if err != nil {
			t.Errorf("ByName(%q) error: %v", tt.in, err)
			continue
		}
		if got.Name != tt.want {
			t.Errorf("ByName(%q) = %s, want %s", tt.in, got.Name, tt.want)
		}
	}

	if _, err := ByName("solarized"); err == nil {
		t.Error("expected error for unknown theme")
	}
}

func TestPalettesComplete(t *testing.T) {
	for _, th := range []Theme{Dark(), Light()} {
		c := th.Colors
		for name, v := range map[string]string{
			"Background": string(c.Background),
			"Surface":    string(c.Surface),
			"Text":       string(c.Text),
			"Muted":      string(c.Muted),
			"Primary":    string(c.Primary),
			"Accent":     string(c.Accent),
			"Error":      string(c.Error),
		} {
			if v == "" {
				t.Errorf("%s theme: %s color is empty", th.Name, name)
			}
		}
	}
}
