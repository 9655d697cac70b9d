package formula

import (
	"sort"
	"strings"

	"github.com/vk/flowsheet/internal/tabular"
	"github.com/vk/flowsheet/internal/value"
	"github.com/zclconf/go-cty/cty"
)

// pivotExecutor implements PIVOT: groups rows by the index column and emits
// one row per group with count, sum, and avg of the value column. Groups
// keep first-seen order so repeated runs are identical.
type pivotExecutor struct{}

func (pivotExecutor) ValidateParams(params Params) error {
	for _, name := range []string{"index_column", "value_column"} {
		if !params.Has(name) {
			return missingParam("PIVOT", name)
		}
	}
	return nil
}

func (pivotExecutor) OutputColumns(Params) []string {
	return []string{"index", "count", "sum", "avg"}
}

func (pivotExecutor) Execute(rows []tabular.Row, params Params) ([]tabular.Row, error) {
	idxCol, ok := params.String("index_column")
	if !ok {
		return nil, missingParam("PIVOT", "index_column")
	}
	valCol, ok := params.String("value_column")
	if !ok {
		return nil, missingParam("PIVOT", "value_column")
	}
	var order []string
	groups := make(map[string][]float64)
	for _, r := range rows {
		if value.IsMissing(r[idxCol]) || value.IsMissing(r[valCol]) {
			continue
		}
		key := value.AsString(r[idxCol])
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], value.AsNumber(r[valCol]))
	}
	out := make([]tabular.Row, 0, len(order))
	for _, key := range order {
		vals := groups[key]
		sum := 0.0
		for _, v := range vals {
			sum += v
		}
		out = append(out, tabular.Row{
			"index": cty.StringVal(key),
			"count": cty.NumberIntVal(int64(len(vals))),
			"sum":   value.Num(sum),
			"avg":   value.Num(sum / float64(len(vals))),
		})
	}
	return out, nil
}

func (pivotExecutor) Reshapes() bool   { return true }
func (pivotExecutor) Aggregates() bool { return true }

// depivotExecutor implements DEPIVOT: melts every non-id column into
// variable/value rows, keeping the id columns on each output row. Non-id
// columns are visited in sorted order for deterministic output.
type depivotExecutor struct{}

func (depivotExecutor) ValidateParams(params Params) error {
	if _, ok := params.Strings("id_columns"); !ok {
		return missingParam("DEPIVOT", "id_columns")
	}
	return nil
}

func (depivotExecutor) OutputColumns(params Params) []string {
	ids, _ := params.Strings("id_columns")
	return append(ids, "variable", "value")
}

func (depivotExecutor) Execute(rows []tabular.Row, params Params) ([]tabular.Row, error) {
	ids, ok := params.Strings("id_columns")
	if !ok {
		return nil, missingParam("DEPIVOT", "id_columns")
	}
	idSet := make(map[string]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
	}
	var out []tabular.Row
	for _, r := range rows {
		keys := make([]string, 0, len(r))
		for k := range r {
			if !idSet[k] {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			nr := make(tabular.Row, len(ids)+2)
			for _, id := range ids {
				if v, exists := r[id]; exists {
					nr[id] = v
				}
			}
			nr["variable"] = cty.StringVal(k)
			nr["value"] = r[k]
			out = append(out, nr)
		}
	}
	return out, nil
}

func (depivotExecutor) Reshapes() bool   { return true }
func (depivotExecutor) Aggregates() bool { return true }

// removeDuplicatesExecutor implements REMOVE_DUPLICATES: keeps the first
// row for every distinct combination of the key columns.
type removeDuplicatesExecutor struct{}

func (removeDuplicatesExecutor) ValidateParams(params Params) error {
	if _, ok := params.Strings("columns"); !ok {
		return missingParam("REMOVE_DUPLICATES", "columns")
	}
	return nil
}

// OutputColumns is empty: the surviving rows keep the input schema.
func (removeDuplicatesExecutor) OutputColumns(Params) []string { return nil }

func (removeDuplicatesExecutor) Execute(rows []tabular.Row, params Params) ([]tabular.Row, error) {
	cols, ok := params.Strings("columns")
	if !ok {
		return nil, missingParam("REMOVE_DUPLICATES", "columns")
	}
	seen := make(map[string]bool)
	out := make([]tabular.Row, 0, len(rows))
	for _, r := range rows {
		parts := make([]string, len(cols))
		for i, c := range cols {
			if v := r[c]; !value.IsMissing(v) {
				parts[i] = v.GoString()
			}
		}
		key := strings.Join(parts, "\x1f")
		if !seen[key] {
			seen[key] = true
			out = append(out, r.Clone())
		}
	}
	return out, nil
}

func (removeDuplicatesExecutor) Reshapes() bool   { return true }
func (removeDuplicatesExecutor) Aggregates() bool { return true }

// fillnaExecutor implements FILLNA: replaces null, empty, and NaN cells of
// the column with the given value, in place, adding no new column.
type fillnaExecutor struct{}

func (fillnaExecutor) ValidateParams(params Params) error {
	for _, name := range []string{"column", "value"} {
		if !params.Has(name) {
			return missingParam("FILLNA", name)
		}
	}
	return nil
}

// OutputColumns is empty: FILLNA rewrites an existing column.
func (fillnaExecutor) OutputColumns(Params) []string { return nil }

func (fillnaExecutor) Execute(rows []tabular.Row, params Params) ([]tabular.Row, error) {
	col, ok := params.String("column")
	if !ok {
		return nil, missingParam("FILLNA", "column")
	}
	fill, ok := params.Param("value")
	if !ok {
		return nil, missingParam("FILLNA", "value")
	}
	return mapRows(rows, func(r tabular.Row) {
		if v, exists := r[col]; !exists || value.IsEmpty(v) || value.IsNaN(v) {
			r[col] = fill
		}
	}), nil
}

func (fillnaExecutor) Chunkable() bool { return true }
