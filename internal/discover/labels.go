package discover

import (
	"errors"
	"fmt"

	"github.com/abelbrown/discovery/internal/anilist"
)

// ErrUnknownCategory marks a category with no presentation mapping. It means
// the request layer and the presentation layer disagree on the enumeration.
var ErrUnknownCategory = errors.New("discover: no presentation mapping for category")

// Label is the display text of a category row.
type Label struct {
	Title    string
	Subtitle string
}

// LabelFor returns the row label for c. Panics on a category outside the
// enumeration.
func LabelFor(c anilist.Category) Label {
	switch c {
	case anilist.Popular:
		return Label{Title: "Popular", Subtitle: "All-time fan favourites"}
	case anilist.Trending:
		return Label{Title: "Trending Now", Subtitle: "What everyone is watching right now"}
	case anilist.Seasonal:
		return Label{Title: "This Season", Subtitle: "Airing this season"}
	}
	panic(fmt.Errorf("%w: %q", ErrUnknownCategory, c))
}

// PathFor returns the browse path opened from the row for c. Panics on a
// category outside the enumeration.
func PathFor(c anilist.Category) string {
	switch c {
	case anilist.Popular:
		return "/browse/popular"
	case anilist.Trending:
		return "/browse/trending"
	case anilist.Seasonal:
		return "/browse/seasonal"
	}
	panic(fmt.Errorf("%w: %q", ErrUnknownCategory, c))
}
