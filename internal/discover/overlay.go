package discover

// Opener is the capability the controller needs from an overlay widget.
type Opener interface {
	Open()
}

// OverlayController forwards open requests to a bound overlay widget.
// Closing is left to the widget's own dismissal handling.
type OverlayController struct {
	target Opener
}

// Bind attaches the overlay instance. Passing nil unbinds it.
func (c *OverlayController) Bind(o Opener) {
	c.target = o
}

// Bound reports whether an overlay instance is attached.
func (c *OverlayController) Bound() bool {
	return c != nil && c.target != nil
}

// Open asks the bound overlay to open. Without a bound instance it does
// nothing and reports false.
func (c *OverlayController) Open() bool {
	if !c.Bound() {
		return false
	}
	c.target.Open()
	return true
}
