package gopaginator

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// NeverExpires disables expiry for a cached page.
const NeverExpires time.Duration = 0

// DefaultMaxCacheEntries bounds the default in-memory store.
const DefaultMaxCacheEntries = 128

// CacheStore is the query-aware page cache contract.
//
// Keys are always derived by the engine (see deriveCacheKey); stores address
// pages by key only. The query is passed alongside for stores that need
// backend context (e.g. remote re-validation) - simple stores ignore it.
//
// Get must report a miss for expired entries as well as never-stored ones.
// Implementations own their internal consistency under concurrent use.
type CacheStore[T any, K comparable] interface {
	Get(ctx context.Context, key string, query FetchQuery[K]) (Page[T, K], bool)
	Put(ctx context.Context, key string, query FetchQuery[K], page Page[T, K], ttl time.Duration)
	Remove(ctx context.Context, key string)
	Clear(ctx context.Context)
	Has(ctx context.Context, key string) bool
}

type memoryCacheEntry[T any, K comparable] struct {
	key       string
	page      Page[T, K]
	expiresAt time.Time // zero time = never expires
}

// MemoryCacheStore is the default CacheStore: a bounded in-memory LRU with
// optional per-entry TTL. It ignores the query parameter of Get/Put.
type MemoryCacheStore[T any, K comparable] struct {
	mu         sync.Mutex
	maxEntries int
	entries    map[string]*list.Element
	order      *list.List // front = most recently used
	now        func() time.Time
}

// NewMemoryCacheStore creates a bounded in-memory store. A non-positive
// maxEntries falls back to DefaultMaxCacheEntries.
func NewMemoryCacheStore[T any, K comparable](maxEntries int) *MemoryCacheStore[T, K] {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxCacheEntries
	}

	return &MemoryCacheStore[T, K]{
		maxEntries: maxEntries,
		entries:    make(map[string]*list.Element),
		order:      list.New(),
		now:        time.Now,
	}
}

// Get - implements CacheStore. A hit promotes the entry to most recently used.
func (s *MemoryCacheStore[T, K]) Get(_ context.Context, key string, _ FetchQuery[K]) (Page[T, K], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.entries[key]
	if !ok {
		return Page[T, K]{}, false
	}

	entry := elem.Value.(*memoryCacheEntry[T, K])
	if s.expired(entry) {
		s.removeElement(elem)
		return Page[T, K]{}, false
	}

	s.order.MoveToFront(elem)

	return entry.page, true
}

// Put - implements CacheStore. NeverExpires (zero) ttl stores the entry
// without an expiry. Inserting past the bound evicts the least recently used
// entry.
func (s *MemoryCacheStore[T, K]) Put(_ context.Context, key string, _ FetchQuery[K], page Page[T, K], ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = s.now().Add(ttl)
	}

	if elem, ok := s.entries[key]; ok {
		entry := elem.Value.(*memoryCacheEntry[T, K])
		entry.page = page
		entry.expiresAt = expiresAt
		s.order.MoveToFront(elem)
		return
	}

	s.entries[key] = s.order.PushFront(&memoryCacheEntry[T, K]{
		key:       key,
		page:      page,
		expiresAt: expiresAt,
	})

	for len(s.entries) > s.maxEntries {
		if oldest := s.order.Back(); oldest != nil {
			s.removeElement(oldest)
		}
	}
}

// Remove - implements CacheStore.
func (s *MemoryCacheStore[T, K]) Remove(_ context.Context, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.entries[key]; ok {
		s.removeElement(elem)
	}
}

// Clear - implements CacheStore.
func (s *MemoryCacheStore[T, K]) Clear(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]*list.Element)
	s.order.Init()
}

// Has - implements CacheStore. Does not promote the entry.
func (s *MemoryCacheStore[T, K]) Has(_ context.Context, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.entries[key]
	if !ok {
		return false
	}

	if s.expired(elem.Value.(*memoryCacheEntry[T, K])) {
		s.removeElement(elem)
		return false
	}

	return true
}

// Len returns the number of live entries, expired ones included until their
// next lookup.
func (s *MemoryCacheStore[T, K]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries)
}

func (s *MemoryCacheStore[T, K]) expired(entry *memoryCacheEntry[T, K]) bool {
	return !entry.expiresAt.IsZero() && !s.now().Before(entry.expiresAt)
}

func (s *MemoryCacheStore[T, K]) removeElement(elem *list.Element) {
	entry := elem.Value.(*memoryCacheEntry[T, K])
	s.order.Remove(elem)
	delete(s.entries, entry.key)
}

var _ CacheStore[any, string] = (*MemoryCacheStore[any, string])(nil)
