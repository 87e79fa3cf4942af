// Package catalog implements the product-listing state manager: paging,
// debounced search, stale-response suppression, and favorites. It is
// independent of any presentation layer.
package catalog

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/donaldgifford/storefront/internal/metrics"
	domain "github.com/donaldgifford/storefront/pkg/types"
)

const (
	defaultPageSize = 10
	defaultDebounce = 500 * time.Millisecond
)

// Request kinds, used as the metrics label.
const (
	kindPage   = "page"
	kindSearch = "search"
)

// Source is the remote catalog the controller reads from.
type Source interface {
	FetchPage(ctx context.Context, page, pageSize int) ([]domain.Product, error)
	SearchProducts(ctx context.Context, term string) ([]domain.Product, error)
}

// AfterFunc schedules f to run after d and returns a function that cancels
// it. The stop function reports whether it prevented f from running.
type AfterFunc func(d time.Duration, f func()) (stop func() bool)

func timeAfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// State is a point-in-time copy of the controller's listing state.
type State struct {
	Page      int              `json:"page"`
	Term      string           `json:"term"`
	Products  []domain.Product `json:"products"`
	Loading   bool             `json:"loading"`
	Favorites []int            `json:"favorites"`
}

// Controller owns product-list state for one screen. All methods are safe
// for concurrent use; state transitions are serialised under one lock and
// remote calls are made outside it.
type Controller struct {
	src       Source
	log       *slog.Logger
	pageSize  int
	debounce  time.Duration
	afterFunc AfterFunc
	onChange  func(State)

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	idle      *sync.Cond
	pending   int
	closed    bool
	page      int
	term      string
	products  []domain.Product
	loading   bool
	favorites map[int]struct{}
	// seq is bumped by every list-mutating request; a response is applied
	// only if it still carries the current value.
	seq uint64
	// searchGen identifies the latest scheduled debounce timer.
	searchGen   uint64
	stopPending func() bool
}

// Option configures the Controller.
type Option func(*Controller)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		c.log = l
	}
}

// WithPageSize overrides the default page size of 10.
func WithPageSize(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithDebounce overrides the default 500ms search quiet period.
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) {
		c.debounce = d
	}
}

// WithOnChange registers a callback that receives a fresh State after every
// transition. It is called outside the controller lock.
func WithOnChange(f func(State)) Option {
	return func(c *Controller) {
		c.onChange = f
	}
}

// WithAfterFunc replaces the timer used for debouncing. Intended for tests.
func WithAfterFunc(f AfterFunc) Option {
	return func(c *Controller) {
		c.afterFunc = f
	}
}

// NewController creates a Controller at page 1 with an empty term and an
// empty list. Nothing is fetched until LoadPage is called.
func NewController(src Source, opts ...Option) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		src:       src,
		log:       slog.Default(),
		pageSize:  defaultPageSize,
		debounce:  defaultDebounce,
		afterFunc: timeAfterFunc,
		ctx:       ctx,
		cancel:    cancel,
		page:      1,
		products:  []domain.Product{},
		favorites: make(map[int]struct{}),
	}
	c.idle = sync.NewCond(&c.mu)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetSearchTerm records term. A non-empty term schedules a search after the
// debounce period, replacing any search still waiting. An empty term cancels
// the pending search and reloads page 1 in the background.
func (c *Controller) SetSearchTerm(term string) {
	c.mu.Lock()
	if c.closed || term == c.term {
		c.mu.Unlock()
		return
	}
	c.term = term
	c.searchGen++
	c.cancelPendingLocked()

	if term != "" {
		gen := c.searchGen
		c.pending++
		c.stopPending = c.afterFunc(c.debounce, func() {
			c.runDebouncedSearch(gen, term)
		})
		st := c.snapshotLocked()
		c.mu.Unlock()
		c.notify(st)
		return
	}

	c.page = 1
	seq := c.beginLocked()
	c.pending++
	st := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(st)

	c.log.Debug("search cleared, reloading first page")
	go func() {
		defer c.done()
		c.fetchPage(c.ctx, seq, 1)
	}()
}

// LoadPage fetches one page. Page 1 replaces the list; later pages append.
// Failures are logged and treated as an empty page.
func (c *Controller) LoadPage(ctx context.Context, page int) {
	if page < 1 {
		page = 1
	}

	c.mu.Lock()
	c.page = page
	seq := c.beginLocked()
	st := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(st)

	c.fetchPage(ctx, seq, page)
}

// LoadMore advances to the next page and loads it. It does nothing and
// returns false while a request is loading or a search term is active.
func (c *Controller) LoadMore(ctx context.Context) bool {
	c.mu.Lock()
	if c.loading || c.term != "" {
		c.mu.Unlock()
		return false
	}
	c.page++
	page := c.page
	seq := c.beginLocked()
	st := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(st)

	c.fetchPage(ctx, seq, page)
	return true
}

// ExecuteSearch runs a search immediately and replaces the list with its
// results, whatever the current page. Failures yield an empty list.
func (c *Controller) ExecuteSearch(ctx context.Context, term string) {
	c.mu.Lock()
	seq := c.beginLocked()
	st := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(st)

	c.search(ctx, seq, term)
}

// search fetches term under a sequence number taken by the caller.
func (c *Controller) search(ctx context.Context, seq uint64, term string) {
	results, err := c.src.SearchProducts(ctx, term)
	if err != nil {
		metrics.CatalogFetchFailuresTotal.WithLabelValues(kindSearch).Inc()
		c.log.Warn("search failed, showing no results", "term", term, "error", err)
		results = nil
	}

	c.finish(seq, kindSearch, func() {
		c.products = nonNil(results)
	})
}

// ToggleFavorite flips membership of id and returns the new membership.
func (c *Controller) ToggleFavorite(id int) bool {
	c.mu.Lock()
	_, fav := c.favorites[id]
	if fav {
		delete(c.favorites, id)
	} else {
		c.favorites[id] = struct{}{}
	}
	st := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(st)
	return !fav
}

// IsFavorite reports whether id is in the favorite set.
func (c *Controller) IsFavorite(id int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.favorites[id]
	return ok
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Wait blocks until no debounced search is pending and no background
// reload is running.
func (c *Controller) Wait() {
	c.mu.Lock()
	for c.pending > 0 {
		c.idle.Wait()
	}
	c.mu.Unlock()
}

// Close cancels the pending search and any background fetch. The
// controller ignores further search-term changes.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.cancelPendingLocked()
	c.mu.Unlock()
	c.cancel()
}

func (c *Controller) runDebouncedSearch(gen uint64, term string) {
	defer c.done()

	c.mu.Lock()
	// The timer may have fired just as the term changed. The generation
	// check and the sequence bump share one critical section so a term
	// change after this point always supersedes the search.
	if c.closed || gen != c.searchGen {
		c.mu.Unlock()
		return
	}
	c.stopPending = nil
	seq := c.beginLocked()
	st := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(st)

	c.log.Debug("debounced search firing", "term", term)
	c.search(c.ctx, seq, term)
}

func (c *Controller) fetchPage(ctx context.Context, seq uint64, page int) {
	products, err := c.src.FetchPage(ctx, page, c.pageSize)
	if err != nil {
		metrics.CatalogFetchFailuresTotal.WithLabelValues(kindPage).Inc()
		c.log.Warn("page fetch failed, treating as empty", "page", page, "error", err)
		products = nil
	}

	c.finish(seq, kindPage, func() {
		if page == 1 {
			c.products = nonNil(products)
			return
		}
		c.products = append(c.products, products...)
	})
}

// finish applies a response if seq is still current, otherwise discards it.
func (c *Controller) finish(seq uint64, kind string, apply func()) {
	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		metrics.CatalogStaleResponsesTotal.WithLabelValues(kind).Inc()
		c.log.Debug("discarding stale response", "kind", kind, "seq", seq)
		return
	}
	apply()
	c.loading = false
	st := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(st)
}

func (c *Controller) beginLocked() uint64 {
	c.seq++
	c.loading = true
	return c.seq
}

func (c *Controller) cancelPendingLocked() {
	if c.stopPending == nil {
		return
	}
	if c.stopPending() {
		metrics.CatalogSearchesCancelledTotal.Inc()
		c.doneLocked()
	}
	c.stopPending = nil
}

func (c *Controller) done() {
	c.mu.Lock()
	c.doneLocked()
	c.mu.Unlock()
}

func (c *Controller) doneLocked() {
	c.pending--
	if c.pending == 0 {
		c.idle.Broadcast()
	}
}

func (c *Controller) snapshotLocked() State {
	favorites := slices.Sorted(maps.Keys(c.favorites))
	if favorites == nil {
		favorites = []int{}
	}
	return State{
		Page:      c.page,
		Term:      c.term,
		Products:  slices.Clone(c.products),
		Loading:   c.loading,
		Favorites: favorites,
	}
}

func (c *Controller) notify(st State) {
	if c.onChange != nil {
		c.onChange(st)
	}
}

func nonNil(p []domain.Product) []domain.Product {
	if p == nil {
		return []domain.Product{}
	}
	return p
}
