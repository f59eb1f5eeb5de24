package gopaginator

import "fmt"

// FilterOperation defines the predicate applied to a single filter field.
// The named operations form a closed set interpreted by the backend fetcher;
// OperationCustom carries an opaque backend-specific predicate.
type FilterOperation struct {
	tag  string
	code string
}

var (
	OperationEquals             = FilterOperation{tag: "eq"}
	OperationNotEquals          = FilterOperation{tag: "neq"}
	OperationGreaterThan        = FilterOperation{tag: "gt"}
	OperationGreaterThanOrEqual = FilterOperation{tag: "gte"}
	OperationLessThan           = FilterOperation{tag: "lt"}
	OperationLessThanOrEqual    = FilterOperation{tag: "lte"}
	OperationContains           = FilterOperation{tag: "contains"}
	OperationStartsWith         = FilterOperation{tag: "startsWith"}
	OperationEndsWith           = FilterOperation{tag: "endsWith"}
	OperationIsIn               = FilterOperation{tag: "in"}
	OperationIsNotIn            = FilterOperation{tag: "notIn"}
	OperationIsNull             = FilterOperation{tag: "isNull"}
	OperationIsNotNull          = FilterOperation{tag: "isNotNull"}
)

// _operationCustomTag is private because custom operations are constructed
// ONLY through OperationCustom, which pairs the tag with its code.
const _operationCustomTag = "custom"

// OperationCustom builds a backend-specific operation from an opaque code
// string. The engine treats it as any other operation; interpretation is
// entirely up to the Fetcher implementation.
func OperationCustom(code string) FilterOperation {
	return FilterOperation{tag: _operationCustomTag, code: code}
}

func (o FilterOperation) Valid() bool {
	switch o.tag {
	case "eq", "neq", "gt", "gte", "lt", "lte",
		"contains", "startsWith", "endsWith",
		"in", "notIn", "isNull", "isNotNull":
		return o.code == ""
	case _operationCustomTag:
		return true
	default:
		return false
	}
}

// IsCustom returns true if the operation was built via OperationCustom.
func (o FilterOperation) IsCustom() bool {
	return o.tag == _operationCustomTag
}

// Code returns the opaque code of a custom operation, or "" for named ones.
func (o FilterOperation) Code() string {
	return o.code
}

// String - implements fmt.Stringer. The representation is stable and feeds
// cache-key derivation: named operations render as their tag, custom ones as
// "custom(<code>)" so they can never collide with the named set.
func (o FilterOperation) String() string {
	if o.IsCustom() {
		return fmt.Sprintf("%s(%s)", _operationCustomTag, o.code)
	}

	return o.tag
}

var _ fmt.Stringer = FilterOperation{}
