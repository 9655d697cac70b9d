package formula

import (
	"github.com/vk/flowsheet/internal/value"
	"github.com/zclconf/go-cty/cty"
)

// Params is the evaluated parameter map handed to an executor. Values come
// from the workflow definition, so they carry the same cell value union as
// the data itself.
type Params map[string]cty.Value

// Param returns the raw parameter value when present and non-null.
func (p Params) Param(name string) (cty.Value, bool) {
	v, ok := p[name]
	if !ok || value.IsMissing(v) {
		return cty.NilVal, false
	}
	return v, true
}

// Has reports presence of a non-null parameter.
func (p Params) Has(name string) bool {
	_, ok := p.Param(name)
	return ok
}

// String returns the parameter coerced to text.
func (p Params) String(name string) (string, bool) {
	v, ok := p.Param(name)
	if !ok {
		return "", false
	}
	return value.AsString(v), true
}

// StringOr returns the parameter coerced to text, or def when absent.
func (p Params) StringOr(name, def string) string {
	if s, ok := p.String(name); ok {
		return s
	}
	return def
}

// Bool returns the parameter coerced to bool.
func (p Params) Bool(name string) (bool, bool) {
	v, ok := p.Param(name)
	if !ok {
		return false, false
	}
	return value.AsBool(v), true
}

// BoolOr returns the parameter coerced to bool, or def when absent.
func (p Params) BoolOr(name string, def bool) bool {
	if v, ok := p.Param(name); ok {
		return value.AsBool(v)
	}
	return def
}

// Number returns the parameter coerced to a float64.
func (p Params) Number(name string) (float64, bool) {
	v, ok := p.Param(name)
	if !ok {
		return 0, false
	}
	return value.AsNumber(v), true
}

// Strings returns a multi-valued parameter as a string slice. Lists,
// tuples, and sets iterate element-wise; a single scalar becomes a
// one-element slice so single- and multi-select parameters share a path.
func (p Params) Strings(name string) ([]string, bool) {
	v, ok := p.Param(name)
	if !ok {
		return nil, false
	}
	if v.Type().IsTupleType() || v.Type().IsListType() || v.Type().IsSetType() {
		var out []string
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			if !value.IsMissing(ev) {
				out = append(out, value.AsString(ev))
			}
		}
		return out, len(out) > 0
	}
	return []string{value.AsString(v)}, true
}
