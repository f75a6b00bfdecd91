// Package eventlog writes structured JSONL events for the discovery screen.
//
// Events are typed structs, one JSON object per line. The Logger writes
// asynchronously through a buffered channel drained by a single goroutine.
package eventlog

import (
	"encoding/json"
	"time"
)

// Level is the event severity.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Kind names an event as "<subsystem>.<action>".
type Kind string

const (
	// Remote query cache
	KindFetchStart Kind = "query.fetch"
	KindResolve    Kind = "query.resolve"
	KindCacheHit   Kind = "query.cache_hit"
	KindFetchError Kind = "query.error"

	// Aggregated collection
	KindAppend     Kind = "collection.append"
	KindDrop       Kind = "collection.drop"
	KindRevalidate Kind = "collection.revalidate"

	// Overlay
	KindOverlayOpen   Kind = "overlay.open"
	KindOverlayIgnore Kind = "overlay.ignore"

	// Store
	KindStoreError Kind = "store.error"

	// System
	KindStartup  Kind = "sys.startup"
	KindShutdown Kind = "sys.shutdown"
	KindError    Kind = "sys.error"
)

// Event is a single log record. Only Kind is required.
type Event struct {
	Time      time.Time      `json:"t"`
	Level     Level          `json:"level,omitempty"`
	Kind      Kind           `json:"kind"`
	Comp      string         `json:"comp,omitempty"` // "query", "ui", "main"
	SessionID string         `json:"session_id,omitempty"`
	Category  string         `json:"category,omitempty"`
	Revision  int            `json:"rev,omitempty"`
	Count     int            `json:"count,omitempty"`
	Dur       time.Duration  `json:"-"`
	DurMs     float64        `json:"dur_ms,omitempty"`
	Err       string         `json:"err,omitempty"`
	Msg       string         `json:"msg,omitempty"`
	Extra     map[string]any `json:"extra,omitempty"`
}

// MarshalJSON fills DurMs from Dur.
func (e Event) MarshalJSON() ([]byte, error) {
	type alias Event
	a := alias(e)
	if e.Dur > 0 {
		a.DurMs = float64(e.Dur) / float64(time.Millisecond)
	}
	return json.Marshal(a)
}
