package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/discovery/internal/anilist"
	"github.com/abelbrown/discovery/internal/discover"
	"github.com/abelbrown/discovery/internal/store"
)

// maxCardTitle is the rune width of a title inside a card.
const maxCardTitle = 24

// rowCache holds the rendered item strip of each collection entry.
// The collection's observer marks it stale; View rebuilds it lazily.
type rowCache struct {
	strips []string
	dirty  bool
	built  bool
}

func (r *rowCache) invalidate() {
	r.dirty = true
}

func (r *rowCache) stale() bool {
	return r.dirty || !r.built
}

func (r *rowCache) rebuild(c *discover.Collection, styles Styles, width int) {
	r.strips = r.strips[:0]
	for _, page := range c.Entries() {
		r.strips = append(r.strips, renderStrip(page, styles, width))
	}
	r.dirty = false
	r.built = true
}

func (r *rowCache) strip(i int) string {
	if i < 0 || i >= len(r.strips) {
		return ""
	}
	return r.strips[i]
}

// renderStrip lays the page's items out horizontally and clips to width.
func renderStrip(page anilist.PagedData, styles Styles, width int) string {
	if len(page.Items) == 0 {
		return styles.CardMeta.Render("  Nothing here yet")
	}
	cards := make([]string, 0, len(page.Items))
	for _, m := range page.Items {
		cards = append(cards, styles.Card.Render(mediaCard(m, styles)))
	}
	return clipWidth(lipgloss.JoinHorizontal(lipgloss.Top, cards...), width)
}

func mediaCard(m anilist.Media, styles Styles) string {
	title := truncate(m.Title.Preferred(), maxCardTitle)
	var meta []string
	if m.Format != "" {
		meta = append(meta, m.Format)
	}
	if m.AverageScore > 0 {
		meta = append(meta, fmt.Sprintf("%d%%", m.AverageScore))
	}
	if len(meta) == 0 {
		return title
	}
	return title + "\n" + styles.CardMeta.Render(strings.Join(meta, " · "))
}

func followingCard(n store.Notification) string {
	title := truncate(n.Title, maxCardTitle)
	if n.Episode > 0 {
		return fmt.Sprintf("%s\nEp %d", title, n.Episode)
	}
	return title
}

func queueLabel(n int) string {
	if n == 1 {
		return "Queue · 1 episode"
	}
	return fmt.Sprintf("Queue · %d episodes", n)
}

// queueLines renders the queue panel body.
func queueLines(following []store.Notification) []string {
	if len(following) == 0 {
		return []string{"Your queue is empty."}
	}
	lines := make([]string, 0, len(following))
	for _, n := range following {
		line := n.Title
		if n.Episode > 0 {
			line = fmt.Sprintf("%s, episode %d", line, n.Episode)
		}
		if !n.AiringAt.IsZero() {
			line += "  " + n.AiringAt.Local().Format("Mon Jan 2 15:04")
		}
		lines = append(lines, line)
	}
	return lines
}

// RenderStatusBar renders the bottom bar: key hints on the left, the
// selected path or entry count on the right.
func RenderStatusBar(styles Styles, status string, entries, width int) string {
	hints := []string{
		styles.StatusBarKey.Render("j/k") + styles.StatusBarText.Render(":nav"),
		styles.StatusBarKey.Render("enter") + styles.StatusBarText.Render(":open"),
		styles.StatusBarKey.Render("Q") + styles.StatusBarText.Render(":queue"),
		styles.StatusBarKey.Render("q") + styles.StatusBarText.Render(":quit"),
	}
	left := strings.Join(hints, "  ")

	right := styles.StatusBarText.Render(fmt.Sprintf("%d categories", entries))
	if status != "" {
		right = styles.RowPath.Render(status)
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}
	bar := left + strings.Repeat(" ", padding) + right
	return styles.StatusBar.Width(width).Render(bar)
}

// truncate shortens s to n runes, ending in "...".
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// clipWidth cuts every line of s to width cells.
func clipWidth(s string, width int) string {
	if width <= 0 {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(s)
}

// clipLines keeps the first n lines of s.
func clipLines(s string, n int) string {
	if n <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[:n], "\n")
}
