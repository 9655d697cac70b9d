package formula

import (
	"github.com/vk/flowsheet/internal/tabular"
	"github.com/zclconf/go-cty/cty"
)

func listOf(items ...string) cty.Value {
	vals := make([]cty.Value, len(items))
	for i, s := range items {
		vals[i] = cty.StringVal(s)
	}
	return cty.ListVal(vals)
}

func strRow(kv map[string]string) tabular.Row {
	r := make(tabular.Row, len(kv))
	for k, v := range kv {
		r[k] = cty.StringVal(v)
	}
	return r
}

func numRow(kv map[string]float64) tabular.Row {
	r := make(tabular.Row, len(kv))
	for k, v := range kv {
		r[k] = cty.NumberFloatVal(v)
	}
	return r
}
