// Package store provides SQLite persistence for discovery.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/abelbrown/discovery/internal/anilist"
)

// ErrNotFound is returned when no stored page exists for a category.
var ErrNotFound = errors.New("store: not found")

// Store handles SQLite persistence. Safe for concurrent use.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Notification is a new-episode alert for a followed title.
type Notification struct {
	ID        string
	MediaID   int
	Title     string
	Episode   int
	AiringAt  time.Time
	CreatedAt time.Time
}

// PageStat summarises the stored snapshot of one category.
type PageStat struct {
	Category  anilist.Category
	Items     int
	Revision  int
	FetchedAt time.Time
}

// Open creates a Store at dbPath, creating tables if needed.
// ":memory:" opens a single-connection in-memory database.
func Open(dbPath string) (*Store, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS notifications (
		id TEXT PRIMARY KEY,
		media_id INTEGER NOT NULL,
		title TEXT NOT NULL,
		episode INTEGER NOT NULL DEFAULT 0,
		airing_at DATETIME,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS pages (
		category TEXT PRIMARY KEY,
		revision INTEGER NOT NULL DEFAULT 0,
		item_count INTEGER NOT NULL DEFAULT 0,
		payload TEXT NOT NULL,
		fetched_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_notifications_created ON notifications(created_at DESC);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// AddNotification inserts or replaces a notification.
func (s *Store) AddNotification(n Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	var airing any
	if !n.AiringAt.IsZero() {
		airing = n.AiringAt
	}

	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO notifications (id, media_id, title, episode, airing_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, n.ID, n.MediaID, n.Title, n.Episode, airing, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// Notifications returns all notifications keyed by ID.
func (s *Store) Notifications() (map[string]Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, media_id, title, episode, airing_at, created_at
		FROM notifications
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	out := make(map[string]Notification)
	for rows.Next() {
		var n Notification
		var airing sql.NullTime
		if err := rows.Scan(&n.ID, &n.MediaID, &n.Title, &n.Episode, &airing, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		if airing.Valid {
			n.AiringAt = airing.Time
		}
		out[n.ID] = n
	}
	return out, rows.Err()
}

// ClearNotifications deletes every notification and returns how many were removed.
func (s *Store) ClearNotifications() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM notifications`)
	if err != nil {
		return 0, fmt.Errorf("clear notifications: %w", err)
	}
	return res.RowsAffected()
}

// SavePage stores the latest page for its category, replacing any earlier one.
func (s *Store) SavePage(p anilist.PagedData, revision int) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal page: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.Exec(`
		INSERT INTO pages (category, revision, item_count, payload, fetched_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(category) DO UPDATE SET
			revision = excluded.revision,
			item_count = excluded.item_count,
			payload = excluded.payload,
			fetched_at = excluded.fetched_at
	`, string(p.Type), revision, len(p.Items), string(payload), time.Now())
	if err != nil {
		return fmt.Errorf("save page %s: %w", p.Type, err)
	}
	return nil
}

// LastPage returns the stored page for c, or ErrNotFound.
func (s *Store) LastPage(c anilist.Category) (anilist.PagedData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var payload string
	err := s.db.QueryRow(`SELECT payload FROM pages WHERE category = ?`, string(c)).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return anilist.PagedData{}, fmt.Errorf("%w: %s", ErrNotFound, c)
	}
	if err != nil {
		return anilist.PagedData{}, fmt.Errorf("query page %s: %w", c, err)
	}

	var p anilist.PagedData
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return anilist.PagedData{}, fmt.Errorf("decode page %s: %w", c, err)
	}
	return p, nil
}

// PageStats returns one row per stored category, ordered by category name.
func (s *Store) PageStats() ([]PageStat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT category, item_count, revision, fetched_at
		FROM pages
		ORDER BY category
	`)
	if err != nil {
		return nil, fmt.Errorf("query page stats: %w", err)
	}
	defer rows.Close()

	var out []PageStat
	for rows.Next() {
		var ps PageStat
		var cat string
		if err := rows.Scan(&cat, &ps.Items, &ps.Revision, &ps.FetchedAt); err != nil {
			return nil, fmt.Errorf("scan page stat: %w", err)
		}
		ps.Category = anilist.Category(cat)
		out = append(out, ps)
	}
	return out, rows.Err()
}
