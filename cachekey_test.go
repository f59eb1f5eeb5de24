package gopaginator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queryWith(key *int, filter *FilterSpec) FetchQuery[int] {
	return FetchQuery[int]{PageSize: 20, PageKey: key, Filter: filter}
}

func Test_deriveCacheKey_Deterministic(t *testing.T) {
	filter := func() *FilterSpec {
		return NewFilterSpec().
			WithFilter("age", OperationGreaterThan, 18).
			WithSort("name", true)
	}

	k1 := deriveCacheKey(queryWith(intPtr(3), filter()))
	k2 := deriveCacheKey(queryWith(intPtr(3), filter()))

	require.Equal(t, k1, k2, "identical queries must derive identical keys")
	require.NotEmpty(t, k1)
}

func Test_deriveCacheKey_Distinctness(t *testing.T) {
	base := func() *FilterSpec {
		return NewFilterSpec().
			WithFilter("age", OperationGreaterThan, 18).
			WithSort("name", false)
	}
	baseKey := deriveCacheKey(queryWith(intPtr(1), base()))

	tests := []struct {
		name  string
		query FetchQuery[int]
	}{
		{"different page key", queryWith(intPtr(2), base())},
		{"absent page key", queryWith(nil, base())},
		{
			"different filter value",
			queryWith(intPtr(1), NewFilterSpec().WithFilter("age", OperationGreaterThan, 19).WithSort("name", false)),
		},
		{
			"different operation",
			queryWith(intPtr(1), NewFilterSpec().WithFilter("age", OperationLessThan, 18).WithSort("name", false)),
		},
		{
			"different filter field",
			queryWith(intPtr(1), NewFilterSpec().WithFilter("height", OperationGreaterThan, 18).WithSort("name", false)),
		},
		{
			"different sort direction",
			queryWith(intPtr(1), NewFilterSpec().WithFilter("age", OperationGreaterThan, 18).WithSort("name", true)),
		},
		{
			"extra sort key",
			queryWith(intPtr(1), base().WithSort("id", false)),
		},
		{"no filter at all", queryWith(intPtr(1), nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEqual(t, baseKey, deriveCacheKey(tt.query))
		})
	}
}

func Test_deriveCacheKey_AbsentVsEmpty(t *testing.T) {
	// "no filter" and "filter present but empty" are distinct identities,
	// as are "first page" and "page at key 0".
	noFilter := deriveCacheKey(queryWith(nil, nil))
	emptyFilter := deriveCacheKey(queryWith(nil, NewFilterSpec()))
	firstPage := deriveCacheKey(queryWith(nil, nil))
	zeroKey := deriveCacheKey(queryWith(intPtr(0), nil))

	assert.NotEqual(t, noFilter, emptyFilter)
	assert.NotEqual(t, firstPage, zeroKey)
}

func Test_deriveCacheKey_SortOrderSensitive(t *testing.T) {
	ab := NewFilterSpec().WithSort("a", false).WithSort("b", false)
	ba := NewFilterSpec().WithSort("b", false).WithSort("a", false)

	assert.NotEqual(t,
		deriveCacheKey(queryWith(nil, ab)),
		deriveCacheKey(queryWith(nil, ba)),
	)
}

func Test_deriveCacheKey_CustomOperationCollision(t *testing.T) {
	// A custom operation can never collide with a named one, even when the
	// code spells the same tag.
	named := NewFilterSpec().WithFilter("f", OperationContains, "x")
	custom := NewFilterSpec().WithFilter("f", OperationCustom("contains"), "x")

	assert.NotEqual(t,
		deriveCacheKey(queryWith(nil, named)),
		deriveCacheKey(queryWith(nil, custom)),
	)
}
