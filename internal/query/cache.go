// Package query fetches catalog pages in the background, caches them per
// request key and delivers every resolution to the UI event loop.
package query

import (
	"context"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/abelbrown/discovery/internal/anilist"
	"github.com/abelbrown/discovery/internal/eventlog"
)

// defaultFetchTimeout bounds a single fetch when Config.FetchTimeout is zero.
const defaultFetchTimeout = 30 * time.Second

// defaultCacheSize is the number of request keys kept in memory.
const defaultCacheSize = 64

// maxConcurrentFetches limits FetchAll.
const maxConcurrentFetches = 3

// Fetcher executes one catalog request.
type Fetcher interface {
	Do(ctx context.Context, req anilist.Request) (anilist.PagedData, error)
}

// Sender delivers messages to the UI event loop. *tea.Program implements it.
type Sender interface {
	Send(msg tea.Msg)
}

// Recorder persists resolved pages. Optional.
type Recorder interface {
	SavePage(p anilist.PagedData, revision int) error
}

// Options configures one query.
type Options struct {
	// RefreshInterval re-issues the request this long after each resolution.
	// Zero fetches once and serves the cached page for the rest of the session.
	RefreshInterval time.Duration
}

// Config holds the Cache dependencies.
type Config struct {
	FetchTimeout time.Duration
	CacheSize    int
	Recorder     Recorder
	Logger       *eventlog.Logger
}

// Resolved is sent each time a query settles. Data is nil when the source is
// absent: still loading or failed. Revision 0 is the first resolution of a
// watch; higher revisions come from the refresh interval.
type Resolved struct {
	Key      string
	Category anilist.Category
	Data     *anilist.PagedData
	Revision int
	Err      error
}

// Result is the latest known state of a key.
type Result struct {
	Data      *anilist.PagedData
	Loading   bool
	Err       error
	Revision  int
	FetchedAt time.Time
}

type entry struct {
	data      *anilist.PagedData
	err       error
	loading   bool
	revision  int
	fetchedAt time.Time
}

// Cache is the remote query cache. Watchers stop only through context
// cancellation; Wait blocks until they have exited.
type Cache struct {
	fetcher  Fetcher
	timeout  time.Duration
	recorder Recorder
	log      *eventlog.Logger

	mu      sync.Mutex // serializes read-modify-write on entries
	entries *lru.Cache[string, *entry]

	wg sync.WaitGroup
}

// New creates a Cache backed by f.
func New(f Fetcher, cfg Config) (*Cache, error) {
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = defaultFetchTimeout
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = defaultCacheSize
	}
	entries, err := lru.New[string, *entry](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create result cache: %w", err)
	}
	return &Cache{
		fetcher:  f,
		timeout:  cfg.FetchTimeout,
		recorder: cfg.Recorder,
		log:      cfg.Logger,
		entries:  entries,
	}, nil
}

// Query starts watching req. The first resolution comes from the cache when
// the key already holds a page, otherwise from the network. With a refresh
// interval the request is re-issued after every resolution until ctx ends.
func (c *Cache) Query(ctx context.Context, send Sender, req anilist.Request, opts Options) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.watch(ctx, send, req, opts)
	}()
}

// Wait blocks until every watcher has exited.
// Call after cancelling the context passed to Query.
func (c *Cache) Wait() {
	c.wg.Wait()
}

// Peek returns the latest state of key without triggering a fetch.
func (c *Cache) Peek(key string) (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries.Get(key)
	if !ok {
		return Result{}, false
	}
	return Result{
		Data:      e.data,
		Loading:   e.loading,
		Err:       e.err,
		Revision:  e.revision,
		FetchedAt: e.fetchedAt,
	}, true
}

// FetchAll fetches every request once, bypassing the cache, and returns the
// results in request order. Errors are reported per request.
func (c *Cache) FetchAll(ctx context.Context, reqs []anilist.Request) []Resolved {
	out := make([]Resolved, len(reqs))

	var g errgroup.Group
	g.SetLimit(maxConcurrentFetches)
	for i, req := range reqs {
		g.Go(func() error {
			if ctx.Err() != nil {
				out[i] = Resolved{Key: req.Key(), Category: req.Category, Err: ctx.Err()}
				return nil
			}
			out[i] = c.fetch(ctx, req, 0)
			return nil // errors are carried per request
		})
	}
	_ = g.Wait()
	return out
}

func (c *Cache) watch(ctx context.Context, send Sender, req anilist.Request, opts Options) {
	rev := 0
	if cached, ok := c.cached(req.Key()); ok {
		c.log.Emit(eventlog.Event{Level: eventlog.LevelDebug, Kind: eventlog.KindCacheHit, Comp: "query", Category: string(req.Category)})
		c.deliver(ctx, send, Resolved{Key: req.Key(), Category: req.Category, Data: cached, Revision: rev})
	} else {
		c.deliver(ctx, send, c.fetch(ctx, req, rev))
	}

	if opts.RefreshInterval <= 0 {
		return
	}

	timer := time.NewTimer(opts.RefreshInterval)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			rev++
			c.deliver(ctx, send, c.fetch(ctx, req, rev))
			timer.Reset(opts.RefreshInterval)
		}
	}
}

// cached returns the stored page for key when one exists.
func (c *Cache) cached(key string) (*anilist.PagedData, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries.Get(key)
	if !ok || e.data == nil {
		return nil, false
	}
	return e.data, true
}

// fetch runs one request with the per-fetch timeout and updates the entry.
// A failed refresh keeps the previously cached page.
func (c *Cache) fetch(ctx context.Context, req anilist.Request, rev int) Resolved {
	key := req.Key()
	res := Resolved{Key: key, Category: req.Category, Revision: rev}
	if ctx.Err() != nil {
		res.Err = ctx.Err()
		return res
	}

	c.update(key, func(e *entry) { e.loading = true })
	c.log.Emit(eventlog.Event{Level: eventlog.LevelDebug, Kind: eventlog.KindFetchStart, Comp: "query", Category: string(req.Category), Revision: rev})

	fetchCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	page, err := c.fetcher.Do(fetchCtx, req)
	dur := time.Since(start)

	if err != nil {
		c.update(key, func(e *entry) {
			e.loading = false
			e.err = err
		})
		c.log.Emit(eventlog.Event{Level: eventlog.LevelWarn, Kind: eventlog.KindFetchError, Comp: "query", Category: string(req.Category), Revision: rev, Dur: dur, Err: err.Error()})
		res.Err = err
		return res
	}

	page.Type = req.Category
	c.update(key, func(e *entry) {
		e.data = &page
		e.err = nil
		e.loading = false
		e.revision = rev
		e.fetchedAt = time.Now()
	})
	c.log.Emit(eventlog.Event{Level: eventlog.LevelInfo, Kind: eventlog.KindResolve, Comp: "query", Category: string(req.Category), Revision: rev, Count: len(page.Items), Dur: dur})

	if c.recorder != nil {
		if err := c.recorder.SavePage(page, rev); err != nil {
			c.log.Error(eventlog.KindStoreError, "query", err)
		}
	}

	res.Data = &page
	return res
}

func (c *Cache) update(key string, fn func(*entry)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries.Get(key)
	if !ok {
		e = &entry{}
	}
	fn(e)
	c.entries.Add(key, e)
}

// deliver sends res unless the watcher's context has ended.
func (c *Cache) deliver(ctx context.Context, send Sender, res Resolved) {
	if ctx.Err() != nil || send == nil {
		return
	}
	send.Send(res)
}
