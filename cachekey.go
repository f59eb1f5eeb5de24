package gopaginator

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/samber/lo"
)

var _encoder = base64.RawURLEncoding

// cacheKeyPayload is the canonical serialized form of a fetch query identity.
//
// An absent page key and an absent filter each serialize as JSON null, which
// keeps them distinguishable from "first page with an empty filter": a
// present-but-empty FilterSpec serializes as an object with empty arrays.
type (
	cacheKeyPayload struct {
		PageKey json.RawMessage `json:"k"`
		Filter  *cacheKeyFilter `json:"f"`
	}

	cacheKeyFilter struct {
		Filters []cacheKeyField `json:"f"`
		Sorts   []cacheKeySort  `json:"s"`
	}

	// cacheKeyField represents a triple (c v o), where:
	//
	//   - "c" - the filtered field.
	//   - "v" - the value the field is compared with.
	//   - "o" - the operation applied to the pair (c, v).
	cacheKeyField struct {
		Field     string `json:"c"`
		Value     any    `json:"v"`
		Operation string `json:"o"`
	}

	cacheKeySort struct {
		Field      string `json:"c"`
		Descending bool   `json:"d"`
	}
)

// deriveCacheKey turns a fetch query into a stable string identity: the
// canonical JSON of (page key, filter) encoded as base64.
//
// The key is a pure function of the query. Identical (PageKey, Filter) pairs
// always yield the same key; any difference in filter fields, values,
// operations, sort keys or sort order yields a different key. Keys are always
// derived by the engine and handed to the CacheStore - stores never
// reconstruct them.
func deriveCacheKey[K comparable](query FetchQuery[K]) string {
	payload := cacheKeyPayload{}

	if query.PageKey != nil {
		rawKey, err := json.Marshal(*query.PageKey)
		if err != nil {
			panic(fmt.Errorf("cannot marshal page key: %w", err))
		}
		payload.PageKey = rawKey
	}

	if query.Filter != nil {
		payload.Filter = &cacheKeyFilter{
			Filters: lo.Map(query.Filter.GetFilters(), func(filter FilterField, _ int) cacheKeyField {
				return cacheKeyField{
					Field:     filter.Field,
					Value:     filter.Value,
					Operation: filter.Operation.String(),
				}
			}),
			Sorts: lo.Map(query.Filter.GetSorts(), func(sort SortField, _ int) cacheKeySort {
				return cacheKeySort{
					Field:      sort.Field,
					Descending: sort.Descending,
				}
			}),
		}
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		panic(fmt.Errorf("cannot marshal cache key payload: %w", err))
	}

	return _encoder.EncodeToString(jsonData)
}
