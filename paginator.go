package gopaginator

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

type listener[T any] struct {
	id int
	fn func(PageState[T])
}

// Paginator is the pagination engine. It owns the accumulated item list, the
// pagination cursor and the load status, executes one of four cache-policy
// strategies per load and publishes an immutable PageState snapshot on every
// transition.
//
// One engine instance serves one logical sequence of loads: exactly one load
// is in flight at a time, enforced by an internal guard that Refresh and
// UpdateFilter deliberately pre-empt. A pre-empted fetch is not cancelled;
// its eventual completion is discarded by a generation check and never
// corrupts state.
type Paginator[T any, K comparable] struct {
	fetcher  Fetcher[T, K]
	store    CacheStore[T, K]
	policy   CachePolicy
	retry    RetryPolicy
	pageSize int
	cacheTTL time.Duration
	logger   zerolog.Logger

	mu             sync.Mutex
	state          PageState[T]
	filter         *FilterSpec
	nextKey        *K
	inFlight       bool
	loadGen        uint64
	baseLen        int
	listeners      []listener[T]
	nextListenerID int
}

// New creates a Paginator over the given fetcher with network-first policy,
// DefaultPageSize, DefaultRetryPolicy and no cache store.
func New[T any, K comparable](fetcher Fetcher[T, K]) *Paginator[T, K] {
	return &Paginator[T, K]{
		fetcher:  fetcher,
		policy:   CachePolicyNetworkFirst,
		retry:    DefaultRetryPolicy(),
		pageSize: DefaultPageSize,
		logger:   zerolog.Nop(),
		state: PageState[T]{
			Items:   []T{},
			Status:  StatusIdle,
			HasMore: true,
		},
	}
}

// WithStore sets the cache store consulted by the cache-aware policies.
func (p *Paginator[T, K]) WithStore(store CacheStore[T, K]) *Paginator[T, K] {
	p.store = store

	return p
}

// WithPolicy sets the cache policy applied to every load.
func (p *Paginator[T, K]) WithPolicy(policy CachePolicy) *Paginator[T, K] {
	p.policy = policy

	return p
}

// WithPageSize sets the page size. NormalizePageSize is applied.
func (p *Paginator[T, K]) WithPageSize(pageSize int) *Paginator[T, K] {
	p.pageSize = NormalizePageSize(pageSize)

	return p
}

// WithRetryPolicy sets the retry policy wrapped around live fetches.
func (p *Paginator[T, K]) WithRetryPolicy(retry RetryPolicy) *Paginator[T, K] {
	p.retry = retry

	return p
}

// WithCacheTTL sets the time-to-live stamped on cached pages.
// NeverExpires (the default) stores pages without expiry.
func (p *Paginator[T, K]) WithCacheTTL(ttl time.Duration) *Paginator[T, K] {
	p.cacheTTL = ttl

	return p
}

// WithFilter sets the initial filter specification. Use UpdateFilter to
// change it once loading has started.
func (p *Paginator[T, K]) WithFilter(filter *FilterSpec) *Paginator[T, K] {
	p.filter = filter

	return p
}

// WithLogger sets the logger for debug-level load diagnostics.
func (p *Paginator[T, K]) WithLogger(logger zerolog.Logger) *Paginator[T, K] {
	p.logger = logger

	return p
}

// GetPageSize returns the normalized page size used for fetch queries.
func (p *Paginator[T, K]) GetPageSize() int {
	return p.pageSize
}

// GetPolicy returns the configured cache policy.
func (p *Paginator[T, K]) GetPolicy() CachePolicy {
	return p.policy
}

// GetFilter returns the active filter specification as-is.
func (p *Paginator[T, K]) GetFilter() *FilterSpec {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.filter
}

// State returns the current snapshot.
func (p *Paginator[T, K]) State() PageState[T] {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.state.clone()
}

// Subscribe registers a state-change listener and returns its unsubscribe
// function. Listeners fire synchronously with publication, in subscription
// order, once per published transition.
func (p *Paginator[T, K]) Subscribe(fn func(PageState[T])) (unsubscribe func()) {
	p.mu.Lock()
	p.nextListenerID++
	id := p.nextListenerID
	p.listeners = append(p.listeners, listener[T]{id: id, fn: fn})
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		p.listeners = slices.DeleteFunc(p.listeners, func(l listener[T]) bool {
			return l.id == id
		})
		p.mu.Unlock()
	}
}

// LoadInitial starts a fresh pagination run: accumulated items and the
// cursor are reset, the reset snapshot is published with StatusIdle, then
// the configured cache policy runs for the first page. No-op when a load is
// already in flight.
func (p *Paginator[T, K]) LoadInitial(ctx context.Context) error {
	p.mu.Lock()
	if p.inFlight {
		p.mu.Unlock()
		return nil
	}
	gen, query, snap := p.beginInitialLocked()
	p.mu.Unlock()

	p.notify(snap)

	return p.executePolicy(ctx, gen, query, true)
}

// LoadNext loads the page after the stored cursor and appends its items.
// Publishes a StatusLoading snapshot first so append-style consumers can
// render a trailing indicator. No-op when a load is in flight, when the
// backend reported the last page, or when the status is already loading.
func (p *Paginator[T, K]) LoadNext(ctx context.Context) error {
	p.mu.Lock()
	if p.inFlight || !p.state.HasMore || p.state.Status == StatusLoading {
		p.mu.Unlock()
		return nil
	}

	p.inFlight = true
	p.loadGen++
	gen := p.loadGen
	p.baseLen = len(p.state.Items)
	query := p.queryLocked(p.nextKey)

	st := p.state
	st.Status = StatusLoading
	st.Err = nil
	st.FromCache = false
	st.RetryAttempt = 0
	p.state = st
	snap := st.clone()
	p.mu.Unlock()

	p.notify(snap)

	return p.executePolicy(ctx, gen, query, false)
}

// Refresh restarts pagination from the first page, optionally clearing the
// whole cache store first. Unlike LoadInitial it pre-empts an in-flight
// load, so a stuck load can always be recovered from.
func (p *Paginator[T, K]) Refresh(ctx context.Context, clearCache bool) error {
	if clearCache && p.store != nil {
		p.store.Clear(ctx)
	}

	p.preempt()

	return p.LoadInitial(ctx)
}

// UpdateFilter replaces the active filter specification and restarts
// pagination from the first page, pre-empting any in-flight load.
func (p *Paginator[T, K]) UpdateFilter(ctx context.Context, filter *FilterSpec) error {
	p.mu.Lock()
	p.filter = filter
	p.inFlight = false
	p.loadGen++
	p.mu.Unlock()

	return p.LoadInitial(ctx)
}

// UpdateItem replaces every accumulated item matched by the predicate,
// preserving order and count, and publishes a snapshot. Purely local: no
// fetch, no cache write, no change to status, cursor or HasMore. A snapshot
// is published even when nothing matched.
func (p *Paginator[T, K]) UpdateItem(item T, predicate func(T) bool) {
	p.mu.Lock()
	p.state.Items = lo.Map(p.state.Items, func(existing T, _ int) T {
		return lo.Ternary(predicate(existing), item, existing)
	})
	snap := p.state.clone()
	p.mu.Unlock()

	p.notify(snap)
}

// RemoveItem drops every accumulated item matched by the predicate,
// preserving the order of survivors, and publishes a snapshot. Purely local.
func (p *Paginator[T, K]) RemoveItem(predicate func(T) bool) {
	p.mu.Lock()
	p.state.Items = lo.Reject(p.state.Items, func(existing T, _ int) bool {
		return predicate(existing)
	})
	snap := p.state.clone()
	p.mu.Unlock()

	p.notify(snap)
}

// InsertItem inserts an item at the given position, clamped to
// [0, len(items)]; position 0 prepends, any position past the end appends.
// Purely local; publishes a snapshot.
func (p *Paginator[T, K]) InsertItem(item T, position int) {
	p.mu.Lock()
	pos := lo.Clamp(position, 0, len(p.state.Items))
	p.state.Items = slices.Insert(p.state.Items, pos, item)
	snap := p.state.clone()
	p.mu.Unlock()

	p.notify(snap)
}

func (p *Paginator[T, K]) beginInitialLocked() (uint64, FetchQuery[K], PageState[T]) {
	p.inFlight = true
	p.loadGen++
	p.nextKey = nil
	p.baseLen = 0
	p.state = PageState[T]{
		Items:   []T{},
		Status:  StatusIdle,
		HasMore: true,
	}

	return p.loadGen, p.queryLocked(nil), p.state.clone()
}

// preempt releases the in-flight guard and invalidates outstanding loads so
// their eventual completion is discarded.
func (p *Paginator[T, K]) preempt() {
	p.mu.Lock()
	p.inFlight = false
	p.loadGen++
	p.mu.Unlock()
}

func (p *Paginator[T, K]) queryLocked(key *K) FetchQuery[K] {
	return FetchQuery[K]{
		PageSize: p.pageSize,
		PageKey:  key,
		Filter:   p.filter,
	}
}

func (p *Paginator[T, K]) executePolicy(ctx context.Context, gen uint64, query FetchQuery[K], initial bool) error {
	if err := query.Filter.validate(); err != nil {
		return p.fail(gen, fmt.Errorf("invalid filter: %w", err))
	}

	key := deriveCacheKey(query)
	p.logger.Debug().
		Str("policy", string(p.policy)).
		Str("cache_key", key).
		Bool("initial", initial).
		Msg("load started")

	switch p.policy {
	case CachePolicyCacheFirst:
		return p.loadCacheFirst(ctx, gen, query, key, initial)
	case CachePolicyNetworkFirst:
		return p.loadNetworkFirst(ctx, gen, query, key, initial)
	case CachePolicyCacheOnly:
		return p.loadCacheOnly(ctx, gen, query, key, initial)
	case CachePolicyNetworkOnly:
		return p.loadNetworkOnly(ctx, gen, query, initial)
	default:
		return p.fail(gen, fmt.Errorf("invalid cache policy '%s'", p.policy))
	}
}

// loadCacheFirst publishes a cache hit immediately, keeps the in-flight
// guard held and refreshes the page from the backend in the background.
// Background failures never surface as an error state; the cached page stays.
func (p *Paginator[T, K]) loadCacheFirst(ctx context.Context, gen uint64, query FetchQuery[K], key string, initial bool) error {
	if p.store != nil {
		if cached, ok := p.store.Get(ctx, key, query); ok {
			p.logger.Debug().Str("cache_key", key).Msg("cache hit, refreshing in background")

			if !p.succeed(gen, cached, true, initial, true) {
				return nil
			}
			p.setRefreshing(gen)

			go p.refreshInBackground(context.WithoutCancel(ctx), gen, query, key, initial)

			return nil
		}
	}

	page, err := p.fetchPage(ctx, gen, query)
	if err != nil {
		return p.fail(gen, err)
	}

	p.putCache(ctx, key, query, page)
	p.succeed(gen, page, false, initial, false)

	return nil
}

// loadNetworkFirst fetches from the backend; when the fetch fails and the
// cache holds the page, the cached page is published and the network error
// swallowed. Without a cached fallback the error is published.
func (p *Paginator[T, K]) loadNetworkFirst(ctx context.Context, gen uint64, query FetchQuery[K], key string, initial bool) error {
	page, err := p.fetchPage(ctx, gen, query)
	if err != nil {
		if p.store != nil {
			if cached, ok := p.store.Get(ctx, key, query); ok {
				p.logger.Debug().Err(err).Str("cache_key", key).Msg("fetch failed, serving cached page")
				p.succeed(gen, cached, true, initial, false)

				return nil
			}
		}

		return p.fail(gen, err)
	}

	p.putCache(ctx, key, query, page)
	p.succeed(gen, page, false, initial, false)

	return nil
}

// loadCacheOnly never touches the fetcher. Running it without a store, or
// missing the cache, is a configuration error published immediately.
func (p *Paginator[T, K]) loadCacheOnly(ctx context.Context, gen uint64, query FetchQuery[K], key string, initial bool) error {
	if p.store == nil {
		return p.fail(gen, ErrNoCacheStore)
	}

	if cached, ok := p.store.Get(ctx, key, query); ok {
		p.succeed(gen, cached, true, initial, false)

		return nil
	}

	return p.fail(gen, fmt.Errorf("%w: key '%s'", ErrNoCachedPage, key))
}

// loadNetworkOnly never reads or writes the cache.
func (p *Paginator[T, K]) loadNetworkOnly(ctx context.Context, gen uint64, query FetchQuery[K], initial bool) error {
	page, err := p.fetchPage(ctx, gen, query)
	if err != nil {
		return p.fail(gen, err)
	}

	p.succeed(gen, page, false, initial, false)

	return nil
}

func (p *Paginator[T, K]) refreshInBackground(ctx context.Context, gen uint64, query FetchQuery[K], key string, initial bool) {
	page, err := p.fetchPage(ctx, gen, query)
	if err != nil {
		p.logger.Debug().Err(err).Str("cache_key", key).Msg("background refresh failed, keeping cached page")
		p.clearRefreshing(gen)

		return
	}

	p.putCache(ctx, key, query, page)
	p.succeed(gen, page, false, initial, false)
}

// fetchPage wraps a single Fetcher call with the retry loop, publishing the
// retry ordinal so observers can show "retrying (n)".
func (p *Paginator[T, K]) fetchPage(ctx context.Context, gen uint64, query FetchQuery[K]) (Page[T, K], error) {
	return fetchWithRetry(ctx, p.retry, func(attempt int) {
		p.logger.Debug().Int("attempt", attempt).Msg("retrying fetch")
		p.publishRetryAttempt(gen, attempt)
	}, func(ctx context.Context) (Page[T, K], error) {
		return p.fetcher.FetchPage(ctx, query)
	})
}

func (p *Paginator[T, K]) putCache(ctx context.Context, key string, query FetchQuery[K], page Page[T, K]) {
	if p.store == nil {
		return
	}

	p.store.Put(ctx, key, query, page, p.cacheTTL)
}

// succeed folds a page into state under the generation guard: items are
// replaced on an initial load and appended past the pre-load length on a
// next-page load, the cursor and HasMore are stored, status becomes ready.
// Returns false when the load was superseded and nothing was applied.
func (p *Paginator[T, K]) succeed(gen uint64, page Page[T, K], fromCache, initial, holdInFlight bool) bool {
	p.mu.Lock()
	if gen != p.loadGen {
		p.mu.Unlock()
		return false
	}

	var items []T
	if initial {
		items = slices.Clone(page.Items)
	} else {
		base := min(p.baseLen, len(p.state.Items))
		items = append(slices.Clone(p.state.Items[:base]), page.Items...)
	}
	if items == nil {
		items = []T{}
	}

	p.nextKey = page.NextKey
	p.state = PageState[T]{
		Items:     items,
		Status:    StatusReady,
		HasMore:   !page.IsLast,
		FromCache: fromCache,
	}
	p.inFlight = holdInFlight
	snap := p.state.clone()
	p.mu.Unlock()

	p.notify(snap)

	return true
}

// fail publishes the error state under the generation guard. Accumulated
// items survive the transition. Returns nil when the load was superseded.
func (p *Paginator[T, K]) fail(gen uint64, err error) error {
	p.mu.Lock()
	if gen != p.loadGen {
		p.mu.Unlock()
		return nil
	}

	st := p.state
	st.Status = StatusError
	st.Err = err
	st.FromCache = false
	st.Refreshing = false
	st.RetryAttempt = 0
	p.state = st
	p.inFlight = false
	snap := st.clone()
	p.mu.Unlock()

	p.notify(snap)

	return err
}

func (p *Paginator[T, K]) setRefreshing(gen uint64) {
	p.mu.Lock()
	if gen != p.loadGen {
		p.mu.Unlock()
		return
	}

	st := p.state
	st.Refreshing = true
	p.state = st
	snap := st.clone()
	p.mu.Unlock()

	p.notify(snap)
}

// clearRefreshing ends a failed background refresh: the refreshing flag and
// the in-flight guard drop, the cached page stays published.
func (p *Paginator[T, K]) clearRefreshing(gen uint64) {
	p.mu.Lock()
	if gen != p.loadGen {
		p.mu.Unlock()
		return
	}

	st := p.state
	st.Refreshing = false
	p.state = st
	p.inFlight = false
	snap := st.clone()
	p.mu.Unlock()

	p.notify(snap)
}

func (p *Paginator[T, K]) publishRetryAttempt(gen uint64, attempt int) {
	p.mu.Lock()
	if gen != p.loadGen {
		p.mu.Unlock()
		return
	}

	st := p.state
	st.RetryAttempt = attempt
	p.state = st
	snap := st.clone()
	p.mu.Unlock()

	p.notify(snap)
}

// notify delivers a snapshot to every listener outside the state lock.
func (p *Paginator[T, K]) notify(snap PageState[T]) {
	p.mu.Lock()
	listeners := slices.Clone(p.listeners)
	p.mu.Unlock()

	for _, l := range listeners {
		l.fn(snap)
	}
}
