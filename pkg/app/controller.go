// Package app coordinates the search box, the paginated note list, the
// create modal and the delete controls on top of a query cache.
//
// Reads run in the background and follow two rules: the most recently
// issued read is the only one allowed to update the view, and the previous
// (or cached) page stays on screen while a new one loads.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/notehub/pkg/core"
	"github.com/aretw0/notehub/pkg/debounce"
	"github.com/aretw0/notehub/pkg/query"
)

const (
	DefaultPageSize = 12
	DefaultDebounce = 300 * time.Millisecond
)

var (
	ErrDeleteInFlight = errors.New("delete already in progress for this note")
	ErrCreateInFlight = errors.New("create already in progress")
	ErrStarted        = errors.New("controller already started")
	ErrClosed         = errors.New("controller is closed")
)

// Notes is the subset of core.Service the controller drives.
type Notes interface {
	ListNotes(ctx context.Context, q core.Query) (core.FetchResult, error)
	CreateNote(ctx context.Context, d core.Draft) (core.Note, error)
	DeleteNote(ctx context.Context, id core.NoteID) (core.Note, error)
}

var _ Notes = (*core.Service)(nil)

// Listener is called after every state change with a snapshot of the view.
type Listener func(Snapshot)

// Option configures a Controller.
type Option func(*Controller)

// WithPageSize sets the number of notes per page.
func WithPageSize(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithDebounce sets the quiet period before a search term is committed.
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) {
		c.debounceDelay = d
	}
}

// WithStaleTime sets how long a cached page is served without a read.
func WithStaleTime(d time.Duration) Option {
	return func(c *Controller) {
		c.staleTime = d
	}
}

// WithLogger sets the logger used for failed reads and mutations.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// Controller owns the view state. All methods are safe for concurrent use.
type Controller struct {
	notes         Notes
	cache         *query.Cache
	debouncer     *debounce.Debouncer
	logger        *slog.Logger
	debounceDelay time.Duration
	staleTime     time.Duration

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
	closed  bool

	mu        sync.Mutex
	input     string
	search    string
	page      int
	pageSize  int
	modalOpen bool

	seq       uint64
	key       query.Key
	result    core.FetchResult
	resultKey query.Key
	hasResult bool
	stale     bool
	fetching  bool
	readErr   error

	creating    bool
	deleting    map[core.NoteID]bool
	mutationErr error

	version   uint64
	listeners map[int]Listener
	nextID    int
}

// New creates a controller over notes. Reads start with Start.
func New(notes Notes, opts ...Option) *Controller {
	c := &Controller{
		notes:         notes,
		logger:        slog.Default(),
		debounceDelay: DefaultDebounce,
		staleTime:     query.DefaultStaleTime,
		page:          1,
		pageSize:      DefaultPageSize,
		deleting:      make(map[core.NoteID]bool),
		listeners:     make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.debouncer = debounce.New(c.debounceDelay)
	c.cache = query.New(notes.ListNotes,
		query.WithStaleTime(c.staleTime),
		query.WithLogger(c.logger),
	)
	c.key = c.currentKey()
	return c
}

// Start issues the first read. Background reads are bound to ctx.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.started {
		c.mu.Unlock()
		return ErrStarted
	}
	c.started = true
	c.cancel()
	c.ctx, c.cancel = context.WithCancel(ctx)
	c.issueLocked(false)
	c.mu.Unlock()

	c.notify()
	return nil
}

// TypeSearch records raw input immediately and commits the trimmed term
// once typing pauses.
func (c *Controller) TypeSearch(value string) {
	c.mu.Lock()
	c.input = value
	c.mu.Unlock()

	c.debouncer.Do(func() { c.commitSearch(value) })
	c.notify()
}

// FlushSearch commits a pending search term without waiting.
func (c *Controller) FlushSearch() {
	c.debouncer.Flush()
}

func (c *Controller) commitSearch(value string) {
	term := strings.TrimSpace(value)

	c.mu.Lock()
	if c.closed || term == c.search {
		c.mu.Unlock()
		return
	}
	c.search = term
	c.page = 1
	c.issueLocked(false)
	c.mu.Unlock()

	c.notify()
}

// SetPage moves to page p, clamped to the known page range. The range is
// only known once a result for the current term and page size is on screen.
func (c *Controller) SetPage(p int) {
	c.mu.Lock()
	if p < 1 {
		p = 1
	}
	if c.pageCountKnownLocked() && p > c.result.TotalPages {
		p = c.result.TotalPages
	}
	if p == c.page {
		c.mu.Unlock()
		return
	}
	c.page = p
	c.issueLocked(false)
	c.mu.Unlock()

	c.notify()
}

// NextPage moves one page forward.
func (c *Controller) NextPage() {
	c.mu.Lock()
	p := c.page + 1
	c.mu.Unlock()
	c.SetPage(p)
}

// PrevPage moves one page back.
func (c *Controller) PrevPage() {
	c.mu.Lock()
	p := c.page - 1
	c.mu.Unlock()
	c.SetPage(p)
}

// SetPageSize changes the page size and goes back to the first page.
func (c *Controller) SetPageSize(n int) {
	c.mu.Lock()
	if n < 1 || n == c.pageSize {
		c.mu.Unlock()
		return
	}
	c.pageSize = n
	c.page = 1
	c.issueLocked(false)
	c.mu.Unlock()

	c.notify()
}

// OpenModal shows the create form.
func (c *Controller) OpenModal() {
	c.mu.Lock()
	c.modalOpen = true
	c.mutationErr = nil
	c.mu.Unlock()
	c.notify()
}

// CloseModal hides the create form.
func (c *Controller) CloseModal() {
	c.mu.Lock()
	c.modalOpen = false
	c.mu.Unlock()
	c.notify()
}

// Create sends d to the API. On success the cache is invalidated, the modal
// closes and the current page is read again. On failure the modal stays open.
func (c *Controller) Create(ctx context.Context, d core.Draft) (core.Note, error) {
	c.mu.Lock()
	if c.creating {
		c.mu.Unlock()
		return core.Note{}, ErrCreateInFlight
	}
	c.creating = true
	c.mutationErr = nil
	c.mu.Unlock()
	c.notify()

	note, err := c.notes.CreateNote(ctx, d)

	c.mu.Lock()
	c.creating = false
	if err != nil {
		c.mutationErr = err
		c.mu.Unlock()
		c.logger.Error("create note failed", "title", d.Title, "error", err)
		c.notify()
		return core.Note{}, err
	}
	c.modalOpen = false
	c.cache.Invalidate()
	c.issueLocked(true)
	c.mu.Unlock()

	c.logger.Info("note created", "id", note.ID)
	c.notify()
	return note, nil
}

// Delete removes the note id. While it is in flight a second Delete for the
// same id returns ErrDeleteInFlight.
func (c *Controller) Delete(ctx context.Context, id core.NoteID) (core.Note, error) {
	c.mu.Lock()
	if c.deleting[id] {
		c.mu.Unlock()
		return core.Note{}, ErrDeleteInFlight
	}
	c.deleting[id] = true
	c.mutationErr = nil
	c.mu.Unlock()
	c.notify()

	note, err := c.notes.DeleteNote(ctx, id)

	c.mu.Lock()
	delete(c.deleting, id)
	if err != nil {
		c.mutationErr = err
		c.mu.Unlock()
		c.logger.Error("delete note failed", "id", id, "error", err)
		c.notify()
		return core.Note{}, err
	}
	c.cache.Invalidate()
	c.issueLocked(true)
	c.mu.Unlock()

	c.logger.Info("note deleted", "id", id)
	c.notify()
	return note, nil
}

// Retry re-issues the current read.
func (c *Controller) Retry() {
	c.mu.Lock()
	c.issueLocked(true)
	c.mu.Unlock()
	c.notify()
}

func (c *Controller) pageCountKnownLocked() bool {
	return c.hasResult && c.result.TotalPages > 0 &&
		c.resultKey.Search == c.search && c.resultKey.PageSize == c.pageSize
}

func (c *Controller) currentKey() query.Key {
	return query.KeyFor(core.Query{Page: c.page, PageSize: c.pageSize, Search: c.search})
}

// issueLocked starts a read for the current key. A cached result for the key
// is shown at once; a fresh one skips the network unless force is set.
func (c *Controller) issueLocked(force bool) {
	if c.closed {
		return
	}
	key := c.currentKey()
	c.seq++
	seq := c.seq
	c.key = key

	if e, ok := c.cache.Peek(key); ok && e.HasResult {
		c.result = e.Result
		c.resultKey = key
		c.hasResult = true
		c.stale = e.Stale
	} else if c.hasResult {
		c.stale = true
	}

	if !force && c.cache.Fresh(key) {
		c.fetching = false
		c.readErr = nil
		return
	}
	c.fetching = true

	ctx := c.ctx
	c.wg.Add(1)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer c.wg.Done()
		res, err := c.cache.Fetch(ctx, key)
		c.complete(seq, key, res, err)
		return nil
	}, lifecycle.WithErrorHandler(func(err error) {
		c.logger.Error("read panicked", "key", key.String(), "error", err)
	}))
}

func (c *Controller) complete(seq uint64, key query.Key, res core.FetchResult, err error) {
	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		c.logger.Debug("discarding superseded read", "key", key.String(), "seq", seq)
		return
	}
	c.fetching = false
	if err != nil {
		c.readErr = err
		if c.hasResult {
			c.stale = true
		}
		c.mu.Unlock()
		if !errors.Is(err, context.Canceled) {
			c.logger.Error("load notes failed", "key", key.String(), "error", err)
		}
		c.notify()
		return
	}
	c.result = res
	c.resultKey = key
	c.hasResult = true
	c.stale = false
	c.readErr = nil
	// The page count may have shrunk since the page was chosen.
	if last := max(res.TotalPages, 1); c.page > last {
		c.logger.Debug("page out of range, moving back", "page", c.page, "total_pages", res.TotalPages)
		c.page = last
		c.issueLocked(true)
	}
	c.mu.Unlock()

	c.notify()
}

// Subscribe registers fn for state changes and returns a function that
// removes it.
func (c *Controller) Subscribe(fn Listener) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

func (c *Controller) notify() {
	c.mu.Lock()
	c.version++
	snap := c.snapshotLocked()
	fns := make([]Listener, 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

// Wait blocks until every background read has finished.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close cancels pending work and waits for background reads.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.cancel()
	c.mu.Unlock()

	var err error
	if !c.debouncer.StopAndWait(time.Second) {
		err = fmt.Errorf("search commit still running after close")
	}
	c.wg.Wait()
	return err
}
