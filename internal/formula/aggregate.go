package formula

import (
	"github.com/vk/flowsheet/internal/tabular"
	"github.com/vk/flowsheet/internal/value"
	"github.com/zclconf/go-cty/cty"
)

// sumExecutor implements SUM: the total of every value in the given columns
// across all rows, broadcast into each output row.
type sumExecutor struct{}

func (sumExecutor) ValidateParams(params Params) error {
	if _, ok := params.Strings("columns"); !ok {
		return missingParam("SUM", "columns")
	}
	return nil
}

func (sumExecutor) OutputColumns(Params) []string { return []string{"sum_result"} }

func (sumExecutor) Execute(rows []tabular.Row, params Params) ([]tabular.Row, error) {
	cols, ok := params.Strings("columns")
	if !ok {
		return nil, missingParam("SUM", "columns")
	}
	total := 0.0
	for _, r := range rows {
		for _, c := range cols {
			total += value.AsNumber(r[c])
		}
	}
	result := value.Num(total)
	return mapRows(rows, func(r tabular.Row) {
		r["sum_result"] = result
	}), nil
}

func (sumExecutor) Aggregates() bool { return true }

// countExecutor implements COUNT: the number of non-null cells in the
// column, broadcast into each output row.
type countExecutor struct{}

func (countExecutor) ValidateParams(params Params) error {
	if !params.Has("column") {
		return missingParam("COUNT", "column")
	}
	return nil
}

func (countExecutor) OutputColumns(Params) []string { return []string{"count_result"} }

func (countExecutor) Execute(rows []tabular.Row, params Params) ([]tabular.Row, error) {
	col, ok := params.String("column")
	if !ok {
		return nil, missingParam("COUNT", "column")
	}
	count := 0
	for _, r := range rows {
		if !value.IsMissing(r[col]) {
			count++
		}
	}
	result := cty.NumberIntVal(int64(count))
	return mapRows(rows, func(r tabular.Row) {
		r["count_result"] = result
	}), nil
}

func (countExecutor) Aggregates() bool { return true }

// uniqueCountExecutor implements UNIQUE_COUNT: the number of distinct
// non-null values in the column, broadcast into each output row.
type uniqueCountExecutor struct{}

func (uniqueCountExecutor) ValidateParams(params Params) error {
	if !params.Has("column") {
		return missingParam("UNIQUE_COUNT", "column")
	}
	return nil
}

func (uniqueCountExecutor) OutputColumns(Params) []string { return []string{"unique_count_result"} }

func (uniqueCountExecutor) Execute(rows []tabular.Row, params Params) ([]tabular.Row, error) {
	col, ok := params.String("column")
	if !ok {
		return nil, missingParam("UNIQUE_COUNT", "column")
	}
	seen := make(map[string]struct{})
	for _, r := range rows {
		v := r[col]
		if value.IsMissing(v) {
			continue
		}
		// GoString keys on type and value, so "1" and 1 stay distinct.
		seen[v.GoString()] = struct{}{}
	}
	result := cty.NumberIntVal(int64(len(seen)))
	return mapRows(rows, func(r tabular.Row) {
		r["unique_count_result"] = result
	}), nil
}

func (uniqueCountExecutor) Aggregates() bool { return true }

// sumifExecutor implements SUMIF: per row, the sum column's value when the
// condition column matches the condition value, else zero.
type sumifExecutor struct{}

func (sumifExecutor) ValidateParams(params Params) error {
	for _, name := range []string{"sum_column", "condition_column", "condition_value"} {
		if !params.Has(name) {
			return missingParam("SUMIF", name)
		}
	}
	return nil
}

func (sumifExecutor) OutputColumns(Params) []string { return []string{"sumif_result"} }

func (sumifExecutor) Execute(rows []tabular.Row, params Params) ([]tabular.Row, error) {
	sumCol, ok := params.String("sum_column")
	if !ok {
		return nil, missingParam("SUMIF", "sum_column")
	}
	condCol, ok := params.String("condition_column")
	if !ok {
		return nil, missingParam("SUMIF", "condition_column")
	}
	condVal, ok := params.String("condition_value")
	if !ok {
		return nil, missingParam("SUMIF", "condition_value")
	}
	return mapRows(rows, func(r tabular.Row) {
		if value.AsString(r[condCol]) == condVal {
			r["sumif_result"] = value.Num(value.AsNumber(r[sumCol]))
		} else {
			r["sumif_result"] = cty.Zero
		}
	}), nil
}

func (sumifExecutor) Chunkable() bool { return true }

// countifExecutor implements COUNTIF: per row, 1 when the condition column
// matches the condition value, else 0.
type countifExecutor struct{}

func (countifExecutor) ValidateParams(params Params) error {
	for _, name := range []string{"condition_column", "condition_value"} {
		if !params.Has(name) {
			return missingParam("COUNTIF", name)
		}
	}
	return nil
}

func (countifExecutor) OutputColumns(Params) []string { return []string{"countif_result"} }

func (countifExecutor) Execute(rows []tabular.Row, params Params) ([]tabular.Row, error) {
	condCol, ok := params.String("condition_column")
	if !ok {
		return nil, missingParam("COUNTIF", "condition_column")
	}
	condVal, ok := params.String("condition_value")
	if !ok {
		return nil, missingParam("COUNTIF", "condition_value")
	}
	return mapRows(rows, func(r tabular.Row) {
		if value.AsString(r[condCol]) == condVal {
			r["countif_result"] = cty.NumberIntVal(1)
		} else {
			r["countif_result"] = cty.Zero
		}
	}), nil
}

func (countifExecutor) Chunkable() bool { return true }
