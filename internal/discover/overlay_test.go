package discover

import "testing"

type fakeOverlay struct {
	opens int
}

func (f *fakeOverlay) Open() { f.opens++ }

func TestOverlayOpenUnbound(t *testing.T) {
	var c OverlayController
	if c.Open() {
		t.Error("Open without a bound overlay should report false")
	}
	if c.Bound() {
		t.Error("zero controller should be unbound")
	}
}

func TestOverlayOpenNilController(t *testing.T) {
	var c *OverlayController
	if c.Open() {
		t.Error("Open on a nil controller should report false")
	}
}

func TestOverlayOpenForwards(t *testing.T) {
	var c OverlayController
	o := &fakeOverlay{}
	c.Bind(o)

	if !c.Open() {
		t.Error("Open with a bound overlay should report true")
	}
	if o.opens != 1 {
		t.Errorf("overlay opened %d times, want 1", o.opens)
	}

	c.Bind(nil)
	if c.Open() {
		t.Error("Open after unbinding should report false")
	}
	if o.opens != 1 {
		t.Errorf("overlay opened %d times after unbind, want 1", o.opens)
	}
}
