package gopaginator

// CachePolicy selects the relationship between cache lookup and live fetch
// for every load executed by the engine.
type CachePolicy string

const (
	// CachePolicyCacheFirst serves a cache hit immediately, then refreshes
	// it from the backend in the background. A miss falls through to a
	// foreground fetch.
	CachePolicyCacheFirst CachePolicy = "cache-first"
	// CachePolicyNetworkFirst fetches from the backend and falls back to the
	// cache when the fetch fails.
	CachePolicyNetworkFirst CachePolicy = "network-first"
	// CachePolicyCacheOnly never touches the backend.
	CachePolicyCacheOnly CachePolicy = "cache-only"
	// CachePolicyNetworkOnly never touches the cache.
	CachePolicyNetworkOnly CachePolicy = "network-only"
)

func (p CachePolicy) Valid() bool {
	return p == CachePolicyCacheFirst ||
		p == CachePolicyNetworkFirst ||
		p == CachePolicyCacheOnly ||
		p == CachePolicyNetworkOnly
}
