package gopaginator

import "context"

// FetchQuery describes a single page request. A fresh value is built for
// every fetch attempt and passed to the Fetcher and the CacheStore.
//
// PageKey is the opaque cursor of the requested page; nil means "first page".
// The key type K is caller-chosen: an integer offset, a cursor token, a
// backend-specific document handle.
type FetchQuery[K comparable] struct {
	// PageSize maximum number of items requested for this page.
	PageSize int
	// PageKey cursor of the requested page. Nil requests the first page.
	PageKey *K
	// Filter optional filter/sort specification. Nil means unfiltered.
	Filter *FilterSpec
}

// Page is a generic single-page result container.
type Page[T any, K comparable] struct {
	// Items result elements in backend order.
	Items []T
	// NextKey cursor for the page after this one. Nil when unknown or IsLast.
	NextKey *K
	// IsLast true when the backend has no data past this page.
	IsLast bool
	// TotalCount total number of matching elements, when the backend knows it.
	TotalCount *int64
}

// Fetcher is the page-fetch contract. Implementations must return transport
// and backend failures as errors rather than swallowing them: retry and
// cache-fallback logic depends on seeing the failure.
type Fetcher[T any, K comparable] interface {
	FetchPage(ctx context.Context, query FetchQuery[K]) (Page[T, K], error)
}

// FetcherFunc adapts a plain function to the Fetcher interface.
type FetcherFunc[T any, K comparable] func(ctx context.Context, query FetchQuery[K]) (Page[T, K], error)

// FetchPage - implements Fetcher.
func (f FetcherFunc[T, K]) FetchPage(ctx context.Context, query FetchQuery[K]) (Page[T, K], error) {
	return f(ctx, query)
}
