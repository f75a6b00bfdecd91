package ui

import (
	"cmp"
	"slices"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/discovery/internal/anilist"
	"github.com/abelbrown/discovery/internal/discover"
	"github.com/abelbrown/discovery/internal/eventlog"
	"github.com/abelbrown/discovery/internal/query"
	"github.com/abelbrown/discovery/internal/store"
	"github.com/abelbrown/discovery/internal/theme"
	"github.com/abelbrown/discovery/internal/ui/overlay"
)

// Config holds the read-only inputs of the discovery screen.
type Config struct {
	Theme         theme.Theme
	Notifications map[string]store.Notification
	QueueHeight   float64
	Logger        *eventlog.Logger
}

// Screen is the discovery screen model.
// It does not fetch anything. Resolved pages arrive as query.Resolved
// messages sent by the query cache.
type Screen struct {
	styles    Styles
	following []store.Notification

	collection *discover.Collection
	overlay    *discover.OverlayController
	panel      *overlay.Panel
	rows       *rowCache
	spinner    spinner.Model
	log        *eventlog.Logger

	cursor   int // 0 is the queue tile, i > 0 is collection entry i-1
	status   string
	errs     map[anilist.Category]error
	width    int
	height   int
	ready    bool
	quitting bool
}

// NewScreen creates the screen with an empty collection and a closed,
// not yet mounted queue panel.
func NewScreen(cfg Config) Screen {
	styles := NewStyles(cfg.Theme)

	following := make([]store.Notification, 0, len(cfg.Notifications))
	for _, n := range cfg.Notifications {
		following = append(following, n)
	}
	slices.SortFunc(following, func(a, b store.Notification) int {
		if c := a.AiringAt.Compare(b.AiringAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	panel := overlay.New("Queue", cfg.QueueHeight, overlay.Styles{
		Frame: styles.Panel,
		Title: styles.PanelTitle,
		Help:  styles.Help,
	})
	panel.SetContent(queueLines(following))

	rows := &rowCache{}
	collection := discover.NewCollection()
	collection.Subscribe(rows.invalidate)

	return Screen{
		styles:     styles,
		following:  following,
		collection: collection,
		overlay:    &discover.OverlayController{},
		panel:      panel,
		rows:       rows,
		errs:       map[anilist.Category]error{},
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.StatusBarKey)),
		log:        cfg.Logger,
	}
}

// Collection exposes the aggregated collection for read access.
func (s Screen) Collection() *discover.Collection {
	return s.collection
}

// Init starts the loading spinner.
func (s Screen) Init() tea.Cmd {
	return s.spinner.Tick
}

// Update handles messages and returns the updated model and any commands.
func (s Screen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.ready = true
		s.panel.SetSize(msg.Width, msg.Height)
		// The panel is mounted once the screen has a size to lay it out in.
		if !s.overlay.Bound() {
			s.overlay.Bind(s.panel)
		}
		s.rows.invalidate()
		return s, nil

	case spinner.TickMsg:
		if s.collection.Len() > 0 || s.quitting {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case query.Resolved:
		s.applyResolved(msg)
		return s, nil

	case tea.KeyMsg:
		return s.handleKeyMsg(msg)
	}
	return s, nil
}

// applyResolved feeds one resolution into the collection.
func (s *Screen) applyResolved(msg query.Resolved) {
	if s.quitting || s.collection.Closed() {
		return
	}
	if msg.Err != nil {
		s.errs[msg.Category] = msg.Err
	}
	if msg.Data == nil {
		return
	}
	if msg.Err == nil {
		delete(s.errs, msg.Category)
	}

	ev := eventlog.Event{
		Level:    eventlog.LevelDebug,
		Comp:     "ui",
		Category: string(msg.Category),
		Revision: msg.Revision,
		Count:    len(msg.Data.Items),
	}
	if msg.Revision == 0 {
		if s.collection.Observe(msg.Data) {
			ev.Kind = eventlog.KindAppend
		} else {
			ev.Kind = eventlog.KindDrop
		}
	} else {
		s.collection.Revalidate(msg.Data)
		ev.Kind = eventlog.KindRevalidate
	}
	s.log.Emit(ev)
}

func (s Screen) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return s.quit()
	}
	if s.panel.IsOpen() {
		cmd, _ := s.panel.Update(msg)
		return s, cmd
	}

	switch msg.String() {
	case "q":
		return s.quit()

	case "Q":
		s.openQueue()

	case "j", "down":
		if s.cursor < s.collection.Len() {
			s.cursor++
		}

	case "k", "up":
		if s.cursor > 0 {
			s.cursor--
		}

	case "g", "home":
		s.cursor = 0

	case "enter":
		if s.cursor == 0 {
			s.openQueue()
			break
		}
		types := s.collection.Types()
		if s.cursor-1 < len(types) {
			s.status = discover.PathFor(types[s.cursor-1])
		}
	}
	return s, nil
}

func (s Screen) quit() (tea.Model, tea.Cmd) {
	s.quitting = true
	s.panel.Close()
	s.collection.Close()
	return s, tea.Quit
}

func (s *Screen) openQueue() {
	if s.overlay.Open() {
		s.log.Emit(eventlog.Event{Level: eventlog.LevelDebug, Kind: eventlog.KindOverlayOpen, Comp: "ui"})
		return
	}
	s.log.Emit(eventlog.Event{Level: eventlog.LevelDebug, Kind: eventlog.KindOverlayIgnore, Comp: "ui", Msg: "queue panel not mounted"})
}

// View renders the screen.
func (s Screen) View() string {
	if !s.ready {
		return "Loading..."
	}
	if s.quitting {
		return ""
	}

	var sections []string
	sections = append(sections, s.styles.Header.Render("Discover"))

	if len(s.following) > 0 {
		sections = append(sections, s.renderFollowing())
	}
	sections = append(sections, s.renderQueueTile())

	if s.collection.Len() == 0 {
		sections = append(sections, s.styles.RowSubtitle.Render(s.spinner.View()+" Loading categories..."))
	} else {
		sections = append(sections, s.renderRows())
	}

	for _, c := range anilist.Categories() {
		if err, ok := s.errs[c]; ok {
			sections = append(sections, s.styles.Error.Render(discover.LabelFor(c).Title+": "+err.Error()))
		}
	}

	body := lipgloss.JoinVertical(lipgloss.Left, sections...)
	statusBar := RenderStatusBar(s.styles, s.status, s.collection.Len(), s.width)

	if !s.panel.IsOpen() {
		return lipgloss.JoinVertical(lipgloss.Left, body, statusBar)
	}

	// The open panel covers the lower part of the screen.
	room := s.height - s.panel.Height() - 1
	return lipgloss.JoinVertical(lipgloss.Left,
		clipLines(body, room),
		s.panel.View(),
		statusBar,
	)
}

func (s Screen) renderFollowing() string {
	cards := make([]string, 0, len(s.following))
	for _, n := range s.following {
		cards = append(cards, s.styles.Card.Render(followingCard(n)))
	}
	title := s.styles.RowTitle.Render("Following")
	subtitle := s.styles.RowSubtitle.Render("New episodes on anime you're following")
	strip := clipWidth(lipgloss.JoinHorizontal(lipgloss.Top, cards...), s.width)
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, strip)
}

func (s Screen) renderQueueTile() string {
	style := s.styles.Tile
	if s.cursor == 0 {
		style = s.styles.TileSelected
	}
	label := "Queue"
	if n := len(s.following); n > 0 {
		label = queueLabel(n)
	}
	return style.Render(label)
}

func (s Screen) renderRows() string {
	if s.rows.stale() {
		s.rows.rebuild(s.collection, s.styles, s.width)
	}

	var out []string
	for i, page := range s.collection.Entries() {
		label := discover.LabelFor(page.Type)
		titleStyle := s.styles.RowTitle
		if s.cursor == i+1 {
			titleStyle = s.styles.RowSelected
		}
		out = append(out,
			titleStyle.Render(label.Title),
			s.styles.RowSubtitle.Render(label.Subtitle),
			s.rows.strip(i),
			"",
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left, out...)
}

