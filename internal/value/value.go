// Package value defines the cell value model for tabular data.
//
// Cells are cty.Value: a closed union of string, number, bool, null, list,
// and object. Every formula category coerces through the explicit helpers in
// this package so its null and type handling stays auditable in one place.
package value

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// nanText is the canonical text of the not-a-number sentinel. cty numbers
// are arbitrary-precision and cannot represent IEEE NaN, so the sentinel is
// a marked string cell instead.
const nanText = "NaN"

// errorPrefix tags cells produced by a per-row execution failure.
const errorPrefix = "#ERROR! "

// NaN is the sentinel cell for numeric operations with no defined result,
// such as division by zero with no default supplied.
var NaN = cty.StringVal(nanText)

// IsNaN reports whether v is the not-a-number sentinel.
func IsNaN(v cty.Value) bool {
	return v != cty.NilVal && !v.IsNull() && v.Type() == cty.String && v.AsString() == nanText
}

// Errorf builds an ERROR-tagged cell carrying a human-readable cause.
// Error cells mark the offending cell without aborting the step.
func Errorf(format string, args ...any) cty.Value {
	return cty.StringVal(errorPrefix + fmt.Sprintf(format, args...))
}

// IsError reports whether v is an ERROR-tagged cell.
func IsError(v cty.Value) bool {
	return v != cty.NilVal && !v.IsNull() && v.Type() == cty.String &&
		strings.HasPrefix(v.AsString(), errorPrefix)
}

// IsMissing reports whether v is absent or null. Missing map lookups yield
// cty.NilVal, which callers must treat the same as an explicit null.
func IsMissing(v cty.Value) bool {
	return v == cty.NilVal || v.IsNull()
}

// IsEmpty reports whether v is missing, null, or an empty string. This is
// the emptiness test used by ignore-empty style formulas.
func IsEmpty(v cty.Value) bool {
	if IsMissing(v) {
		return true
	}
	return v.Type() == cty.String && v.AsString() == ""
}
