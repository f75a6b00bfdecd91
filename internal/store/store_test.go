package store

import (
	"errors"
	"testing"
	"time"

	"github.com/abelbrown/discovery/internal/anilist"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	st, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		// Shared-cache memory databases outlive a single Store; reset state.
		st.db.Exec(`DELETE FROM notifications`)
		st.db.Exec(`DELETE FROM pages`)
		st.Close()
	})
	return st
}

func TestOpenCreatesTables(t *testing.T) {
	st := openTest(t)

	for _, table := range []string{"notifications", "pages"} {
		var name string
		err := st.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Fatalf("%s table not created: %v", table, err)
		}
	}
}

func TestNotificationsRoundTrip(t *testing.T) {
	st := openTest(t)

	airing := time.Date(2026, 10, 18, 15, 0, 0, 0, time.UTC)
	if err := st.AddNotification(Notification{ID: "n1", MediaID: 154587, Title: "Frieren", Episode: 5, AiringAt: airing}); err != nil {
		t.Fatalf("AddNotification failed: %v", err)
	}
	if err := st.AddNotification(Notification{ID: "n2", MediaID: 161645, Title: "The Apothecary Diaries", Episode: 12}); err != nil {
		t.Fatalf("AddNotification failed: %v", err)
	}

	got, err := st.Notifications()
	if err != nil {
		t.Fatalf("Notifications failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(got))
	}
	n1 := got["n1"]
	if n1.Title != "Frieren" || n1.Episode != 5 || n1.MediaID != 154587 {
		t.Errorf("unexpected notification: %+v", n1)
	}
	if !n1.AiringAt.Equal(airing) {
		t.Errorf("AiringAt = %v, want %v", n1.AiringAt, airing)
	}
	if !got["n2"].AiringAt.IsZero() {
		t.Errorf("n2 AiringAt should be zero, got %v", got["n2"].AiringAt)
	}
}

func TestAddNotificationReplaces(t *testing.T) {
	st := openTest(t)

	st.AddNotification(Notification{ID: "n1", Title: "Frieren", Episode: 5})
	st.AddNotification(Notification{ID: "n1", Title: "Frieren", Episode: 6})

	got, err := st.Notifications()
	if err != nil {
		t.Fatalf("Notifications failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(got))
	}
	if got["n1"].Episode != 6 {
		t.Errorf("Episode = %d, want 6", got["n1"].Episode)
	}
}

func TestClearNotifications(t *testing.T) {
	st := openTest(t)

	st.AddNotification(Notification{ID: "n1", Title: "a"})
	st.AddNotification(Notification{ID: "n2", Title: "b"})

	n, err := st.ClearNotifications()
	if err != nil {
		t.Fatalf("ClearNotifications failed: %v", err)
	}
	if n != 2 {
		t.Errorf("cleared %d, want 2", n)
	}
	got, _ := st.Notifications()
	if len(got) != 0 {
		t.Errorf("expected no notifications, got %d", len(got))
	}
}

func TestSavePageReplacesPerCategory(t *testing.T) {
	st := openTest(t)

	first := anilist.PagedData{Type: anilist.Trending, Items: []anilist.Media{{ID: 1}, {ID: 2}}}
	second := anilist.PagedData{Type: anilist.Trending, Items: []anilist.Media{{ID: 3}}}

	if err := st.SavePage(first, 0); err != nil {
		t.Fatalf("SavePage failed: %v", err)
	}
	if err := st.SavePage(second, 1); err != nil {
		t.Fatalf("SavePage failed: %v", err)
	}

	got, err := st.LastPage(anilist.Trending)
	if err != nil {
		t.Fatalf("LastPage failed: %v", err)
	}
	if len(got.Items) != 1 || got.Items[0].ID != 3 {
		t.Errorf("LastPage items = %+v, want [3]", got.Items)
	}

	stats, err := st.PageStats()
	if err != nil {
		t.Fatalf("PageStats failed: %v", err)
	}
	if len(stats) != 1 {
		t.Fatalf("expected 1 stat row, got %d", len(stats))
	}
	if stats[0].Revision != 1 || stats[0].Items != 1 {
		t.Errorf("unexpected stat: %+v", stats[0])
	}
}

func TestLastPageNotFound(t *testing.T) {
	st := openTest(t)

	_, err := st.LastPage(anilist.Seasonal)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
