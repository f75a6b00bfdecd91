// Package discover merges independently resolving category pages into the
// ordered collection shown on the discovery screen.
package discover

import (
	"iter"
	"slices"

	"github.com/abelbrown/discovery/internal/anilist"
)

// Collection is the aggregated, insertion-ordered set of category pages.
// It holds at most one entry per category and only ever grows.
//
// Not safe for concurrent use: all calls come from the UI event loop.
type Collection struct {
	entries []anilist.PagedData
	notify  func()
	closed  bool
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{}
}

// Subscribe sets the single observer called after every successful mutation.
// A later call replaces the previous observer.
func (c *Collection) Subscribe(fn func()) {
	c.notify = fn
}

// Observe records a resolved page. A nil page is an unresolved source and is
// ignored. The first page seen for a category wins; later pages for the same
// category are discarded. Reports whether the collection changed.
func (c *Collection) Observe(page *anilist.PagedData) bool {
	if c == nil || c.closed || page == nil {
		return false
	}
	if c.index(page.Type) >= 0 {
		return false
	}
	c.entries = append(c.entries, clonePage(*page))
	c.changed()
	return true
}

// Revalidate applies an interval refresh. An existing slot keeps its position
// and has its items replaced; a category not yet present is appended as by
// Observe. Reports whether the collection changed.
func (c *Collection) Revalidate(page *anilist.PagedData) bool {
	if c == nil || c.closed || page == nil {
		return false
	}
	i := c.index(page.Type)
	if i < 0 {
		return c.Observe(page)
	}
	c.entries[i] = clonePage(*page)
	c.changed()
	return true
}

// Close tears the collection down. Observe and Revalidate become no-ops and
// the subscriber is released.
func (c *Collection) Close() {
	if c == nil {
		return
	}
	c.closed = true
	c.notify = nil
}

// Closed reports whether Close has been called.
func (c *Collection) Closed() bool {
	return c == nil || c.closed
}

// Len returns the number of categories present.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Has reports whether a page for t is present.
func (c *Collection) Has(t anilist.Category) bool {
	return c != nil && c.index(t) >= 0
}

// Get returns the page for t.
func (c *Collection) Get(t anilist.Category) (anilist.PagedData, bool) {
	if c == nil {
		return anilist.PagedData{}, false
	}
	i := c.index(t)
	if i < 0 {
		return anilist.PagedData{}, false
	}
	return c.entries[i], true
}

// Types returns the categories in display order.
func (c *Collection) Types() []anilist.Category {
	if c == nil {
		return nil
	}
	out := make([]anilist.Category, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Type
	}
	return out
}

// Entries yields position and page in display order. The sequence iterates
// over a snapshot, so mutations during iteration are not observed.
func (c *Collection) Entries() iter.Seq2[int, anilist.PagedData] {
	var snapshot []anilist.PagedData
	if c != nil {
		snapshot = slices.Clone(c.entries)
	}
	return func(yield func(int, anilist.PagedData) bool) {
		for i, e := range snapshot {
			if !yield(i, e) {
				return
			}
		}
	}
}

func (c *Collection) index(t anilist.Category) int {
	return slices.IndexFunc(c.entries, func(e anilist.PagedData) bool {
		return e.Type == t
	})
}

func (c *Collection) changed() {
	if c.notify != nil {
		c.notify()
	}
}

func clonePage(p anilist.PagedData) anilist.PagedData {
	p.Items = slices.Clone(p.Items)
	if p.Items == nil {
		p.Items = []anilist.Media{}
	}
	return p
}
