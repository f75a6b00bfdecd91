package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/abelbrown/discovery/internal/anilist"
	"github.com/abelbrown/discovery/internal/eventlog"
	"github.com/abelbrown/discovery/internal/query"
	"github.com/abelbrown/discovery/internal/store"
	"github.com/abelbrown/discovery/internal/theme"
	"github.com/abelbrown/discovery/internal/ui"
)

// runScreen starts the discovery screen.
func runScreen(cmd *cobra.Command, args []string) error {
	th, err := theme.ByName(cfg.UI.Theme)
	if err != nil {
		return err
	}

	logger, closeLog, err := openEventLog(cfg.Log.Path)
	if err != nil {
		return err
	}
	defer closeLog()

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	// The notification snapshot is read once; the screen never writes it.
	notifications, err := st.Notifications()
	if err != nil {
		logger.Error(eventlog.KindStoreError, "main", err)
		notifications = map[string]store.Notification{}
	}

	client := anilist.NewClient(cfg.AniList.Endpoint, cfg.AniList.Timeout, cfg.AniList.RequestsPerMinute)
	cache, err := query.New(client, query.Config{
		FetchTimeout: cfg.AniList.Timeout,
		Recorder:     st,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	screen := ui.NewScreen(ui.Config{
		Theme:         th,
		Notifications: notifications,
		QueueHeight:   cfg.UI.QueueHeight,
		Logger:        logger,
	})
	program := tea.NewProgram(screen, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	logger.Emit(eventlog.Event{
		Level: eventlog.LevelInfo,
		Kind:  eventlog.KindStartup,
		Comp:  "main",
		Extra: map[string]any{"endpoint": client.Endpoint(), "notifications": len(notifications)},
	})

	now := time.Now()
	for _, c := range anilist.Categories() {
		cache.Query(ctx, program, anilist.RequestFor(c, now), query.Options{RefreshInterval: cfg.RefreshFor(c)})
	}

	_, runErr := program.Run()

	cancel()
	cache.Wait()

	revisions := map[string]any{}
	for _, c := range anilist.Categories() {
		if r, ok := cache.Peek(anilist.RequestFor(c, now).Key()); ok {
			revisions[string(c)] = r.Revision
		}
	}
	logger.Emit(eventlog.Event{
		Level: eventlog.LevelInfo,
		Kind:  eventlog.KindShutdown,
		Comp:  "main",
		Msg:   "screen closed",
		Extra: map[string]any{"revisions": revisions, "dropped_events": logger.Dropped()},
	})

	if runErr != nil {
		return fmt.Errorf("run screen: %w", runErr)
	}
	return nil
}

func openStore() (*store.Store, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return store.Open(cfg.Database.Path)
}

// openEventLog opens the JSONL event log for appending.
func openEventLog(path string) (*eventlog.Logger, func(), error) {
	if path == "" {
		return eventlog.Discard(), func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open event log: %w", err)
	}
	logger := eventlog.New(f)
	return logger, func() {
		logger.Close()
		f.Close()
	}, nil
}
