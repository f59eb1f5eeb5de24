package gopaginator

import (
	"context"
	"sync"
	"time"
)

type tUser struct {
	ID   int
	Name string
}

// scriptedPage is one outcome of a fake fetcher call.
type scriptedPage struct {
	page Page[tUser, int]
	err  error
}

// fakeFetcher replays scripted outcomes in call order and records the
// queries it received. Once the script is exhausted, the last outcome
// repeats.
type fakeFetcher struct {
	mu      sync.Mutex
	script  []scriptedPage
	queries []FetchQuery[int]
	calls   int
}

func (f *fakeFetcher) FetchPage(_ context.Context, query FetchQuery[int]) (Page[tUser, int], error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.queries = append(f.queries, query)
	idx := f.calls
	f.calls++
	if idx >= len(f.script) {
		idx = len(f.script) - 1
	}
	if idx < 0 {
		return Page[tUser, int]{IsLast: true}, nil
	}

	outcome := f.script[idx]

	return outcome.page, outcome.err
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls
}

// spyStore wraps MemoryCacheStore and counts operations.
type spyStore struct {
	*MemoryCacheStore[tUser, int]

	mu     sync.Mutex
	gets   int
	puts   int
	clears int
}

func newSpyStore() *spyStore {
	return &spyStore{MemoryCacheStore: NewMemoryCacheStore[tUser, int](DefaultMaxCacheEntries)}
}

func (s *spyStore) Get(ctx context.Context, key string, query FetchQuery[int]) (Page[tUser, int], bool) {
	s.mu.Lock()
	s.gets++
	s.mu.Unlock()

	return s.MemoryCacheStore.Get(ctx, key, query)
}

func (s *spyStore) Put(ctx context.Context, key string, query FetchQuery[int], page Page[tUser, int], ttl time.Duration) {
	s.mu.Lock()
	s.puts++
	s.mu.Unlock()

	s.MemoryCacheStore.Put(ctx, key, query, page, ttl)
}

func (s *spyStore) Clear(ctx context.Context) {
	s.mu.Lock()
	s.clears++
	s.mu.Unlock()

	s.MemoryCacheStore.Clear(ctx)
}

func (s *spyStore) putCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.puts
}

// stateRecorder collects every published snapshot.
type stateRecorder struct {
	mu     sync.Mutex
	states []PageState[tUser]
}

func (r *stateRecorder) record(state PageState[tUser]) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.states = append(r.states, state)
}

func (r *stateRecorder) snapshot() []PageState[tUser] {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]PageState[tUser], len(r.states))
	copy(out, r.states)

	return out
}

func intPtr(v int) *int {
	return &v
}

func pageOf(ids []int, nextKey *int, isLast bool) Page[tUser, int] {
	items := make([]tUser, 0, len(ids))
	for _, id := range ids {
		items = append(items, tUser{ID: id, Name: "user"})
	}

	return Page[tUser, int]{Items: items, NextKey: nextKey, IsLast: isLast}
}

// fastRetry keeps test backoffs negligible.
func fastRetry(maxAttempts int) RetryPolicy {
	return RetryPolicy{
		MaxAttempts:  maxAttempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     4 * time.Millisecond,
	}
}
