package gopaginator

import "errors"

// Configuration errors. They are surfaced immediately and never retried.
var (
	// ErrNoCacheStore is published when a cache-only load runs without a
	// configured cache store.
	ErrNoCacheStore = errors.New("cache-only policy requires a cache store")
	// ErrNoCachedPage is published when a cache-only load misses.
	ErrNoCachedPage = errors.New("no cached page for query")
)
