package value

import (
	"math"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// AsString coerces v to its canonical text representation. Missing and null
// cells become the empty string; numbers and bools use their canonical
// forms; collections fall back to their JSON encoding.
func AsString(v cty.Value) string {
	if IsMissing(v) {
		return ""
	}
	switch v.Type() {
	case cty.String:
		return v.AsString()
	case cty.Number:
		return v.AsBigFloat().Text('f', -1)
	case cty.Bool:
		if v.True() {
			return "true"
		}
		return "false"
	}
	if b, err := ctyjson.Marshal(v, v.Type()); err == nil {
		return string(b)
	}
	return v.GoString()
}

// AsNumber coerces v to a float64 for arithmetic. Missing, null, empty, and
// non-numeric cells are treated as zero.
func AsNumber(v cty.Value) float64 {
	if IsMissing(v) {
		return 0
	}
	switch v.Type() {
	case cty.Number:
		f, _ := v.AsBigFloat().Float64()
		return f
	case cty.String:
		s := strings.TrimSpace(v.AsString())
		if s == "" {
			return 0
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
		return 0
	case cty.Bool:
		if v.True() {
			return 1
		}
		return 0
	}
	return 0
}

// AsBool coerces v to a bool. Only true bool cells are true; everything
// else, including truthy-looking strings, is false.
func AsBool(v cty.Value) bool {
	if IsMissing(v) {
		return false
	}
	return v.Type() == cty.Bool && v.True()
}

// Num builds a number cell from f. NaN has no cty representation, so it
// maps to the NaN sentinel.
func Num(f float64) cty.Value {
	if math.IsNaN(f) {
		return NaN
	}
	return cty.NumberFloatVal(f)
}
