package discover

import (
	"errors"
	"strings"
	"testing"

	"github.com/abelbrown/discovery/internal/anilist"
)

func TestLabelAndPathTotal(t *testing.T) {
	paths := map[string]bool{}
	for _, c := range anilist.Categories() {
		l := LabelFor(c)
		if l.Title == "" || l.Subtitle == "" {
			t.Errorf("LabelFor(%s) = %+v, want title and subtitle", c, l)
		}
		p := PathFor(c)
		if !strings.HasPrefix(p, "/browse/") {
			t.Errorf("PathFor(%s) = %q", c, p)
		}
		if paths[p] {
			t.Errorf("PathFor(%s) = %q is shared with another category", c, p)
		}
		paths[p] = true
	}
}

func TestLabelForUnknownPanics(t *testing.T) {
	for name, fn := range map[string]func(){
		"LabelFor": func() { LabelFor(anilist.Category("Upcoming")) },
		"PathFor":  func() { PathFor(anilist.Category("Upcoming")) },
	} {
		t.Run(name, func(t *testing.T) {
			defer func() {
				r := recover()
				err, ok := r.(error)
				if !ok || !errors.Is(err, ErrUnknownCategory) {
					t.Errorf("expected panic with ErrUnknownCategory, got %v", r)
				}
			}()
			fn()
		})
	}
}
