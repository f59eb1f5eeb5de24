package gopaginator

import (
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
)

type (
	// FilterField is a single field predicate of the form Operation(Field, Value).
	FilterField struct {
		Field     string
		Value     any
		Operation FilterOperation
	}

	// SortField is a single sort key with an explicit direction.
	SortField struct {
		Field      string
		Descending bool
	}
)

// FilterSpec is an immutable-by-convention description of field predicates
// and multi-key sort order. It is held by FetchQuery, interpreted by the
// backend Fetcher and folded into cache-key derivation.
//
// Two specs are equal iff their filter sequences and sort sequences are
// element-wise equal, order included. Callers that reorder conditions get a
// different cache identity on purpose.
type FilterSpec struct {
	filters []FilterField
	sorts   []SortField
}

func NewFilterSpec() *FilterSpec {
	return new(FilterSpec)
}

// WithFilter appends a field predicate. Predicates accumulate in call order.
func (f *FilterSpec) WithFilter(field string, operation FilterOperation, value any) *FilterSpec {
	if f == nil {
		f = new(FilterSpec)
	}

	f.filters = append(f.filters, FilterField{
		Field:     field,
		Value:     value,
		Operation: operation,
	})

	return f
}

// WithSort appends a sort key without overwriting existing ones. A repeated
// field replaces its previous occurrence and moves to the end, as if calling:
//
//	OrderBy(f1).ThenBy(f2).ThenBy(f3)...
func (f *FilterSpec) WithSort(field string, descending bool) *FilterSpec {
	if f == nil {
		f = new(FilterSpec)
	}

	idx := slices.IndexFunc(f.sorts, func(processed SortField) bool {
		return processed.Field == field
	})

	// Remove previous occurrence (avoid duplication).
	if idx != -1 {
		f.sorts = slices.Delete(f.sorts, idx, idx+1)
	}

	f.sorts = append(f.sorts, SortField{Field: field, Descending: descending})

	return f
}

// GetFilters returns the accumulated field predicates in application order.
func (f *FilterSpec) GetFilters() []FilterField {
	if f == nil {
		return nil
	}

	return f.filters
}

// GetSorts returns the accumulated sort keys in application order.
func (f *FilterSpec) GetSorts() []SortField {
	if f == nil {
		return nil
	}

	return f.sorts
}

// Equal reports structural, order-sensitive equality. A nil spec equals only
// another nil spec: "no filter" and "filter present but empty" are distinct
// identities (they derive distinct cache keys too).
func (f *FilterSpec) Equal(other *FilterSpec) bool {
	if f == nil || other == nil {
		return f == other
	}

	if len(f.filters) != len(other.filters) || len(f.sorts) != len(other.sorts) {
		return false
	}

	for i := range f.filters {
		a, b := f.filters[i], other.filters[i]
		if a.Field != b.Field || a.Operation != b.Operation || !reflect.DeepEqual(a.Value, b.Value) {
			return false
		}
	}

	return slices.Equal(f.sorts, other.sorts)
}

func (f *FilterSpec) validate() error {
	if f == nil {
		return nil
	}

	for _, filter := range f.filters {
		if filter.Field == "" {
			return fmt.Errorf("empty filter field name")
		}
		if !filter.Operation.Valid() {
			return fmt.Errorf("invalid filter operation '%s' for field '%s'", filter.Operation, filter.Field)
		}
		// Filter values feed cache-key serialization, so they must marshal.
		if _, err := json.Marshal(filter.Value); err != nil {
			return fmt.Errorf("filter value for field '%s' is not serializable: %w", filter.Field, err)
		}
	}

	for _, sort := range f.sorts {
		if sort.Field == "" {
			return fmt.Errorf("empty sort field name")
		}
	}

	return nil
}
