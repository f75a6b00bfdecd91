package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestTableRender(t *testing.T) {
	var buf bytes.Buffer
	table := NewTableWithWriter(&buf, []string{"category", "items"})
	table.AddRow("Popular", "20")
	table.AddRow("Trending", "18")

	if table.Len() != 2 {
		t.Fatalf("Len = %d, want 2", table.Len())
	}
	if err := table.Render(); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"CATEGORY", "ITEMS", "Popular", "Trending", "18"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Popular") > strings.Index(out, "Trending") {
		t.Errorf("rows out of order:\n%s", out)
	}
}
