// Package gopaginator provides a backend-agnostic pagination engine: given a
// way to fetch one page of items at a time, it manages an accumulating item
// list, a cache layer, retry-on-failure and a four-mode cache/network
// strategy, exposing a single observable state snapshot.
//
// # Overview
//
// gopaginator is built around three contracts:
//   - Fetcher: a single operation returning one page of items plus a
//     next-page cursor and an end-of-data flag. Any backend (REST, SQL,
//     document store, in-memory slice) fits behind it.
//   - CacheStore: a query-aware key/value store of pages with optional
//     per-entry TTL. MemoryCacheStore is the bounded in-memory default.
//   - Paginator: the engine. It derives a deterministic cache key from each
//     query, runs one of four CachePolicy strategies (cache-first,
//     network-first, cache-only, network-only), wraps live fetches in a
//     bounded exponential-backoff retry loop and publishes a fresh PageState
//     snapshot on every transition.
//
// Key concepts
//   - FilterSpec: ordered field predicates and multi-key sort order; part of
//     the cache identity, interpreted by the backend fetcher.
//   - PageState: immutable snapshot of items, status, error, more-available
//     flag, cache provenance and retry progress.
//   - In-flight guard: exactly one load runs per engine; Refresh and
//     UpdateFilter pre-empt it, superseded fetches are discarded.
//
// See the examples directory for usage against an in-memory backend, an
// HTTP JSON API and a GORM-backed database.
package gopaginator
