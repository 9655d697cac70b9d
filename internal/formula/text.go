package formula

import (
	"strings"

	"github.com/vk/flowsheet/internal/tabular"
	"github.com/vk/flowsheet/internal/value"
	"github.com/zclconf/go-cty/cty"
)

// mapRows applies fn to a clone of every row, preserving order.
func mapRows(rows []tabular.Row, fn func(tabular.Row)) []tabular.Row {
	out := make([]tabular.Row, len(rows))
	for i, r := range rows {
		nr := r.Clone()
		fn(nr)
		out[i] = nr
	}
	return out
}

// caseExecutor implements the case-conversion formulas (UPPER, LOWER,
// PROPER_CASE). It accepts one or more columns: a single column emits the
// classic `<formula>_result` column, N>1 columns emit one `<col>_<formula>`
// column each.
type caseExecutor struct {
	name  string
	apply func(string) string
}

func (e *caseExecutor) ValidateParams(params Params) error {
	if _, ok := params.Strings("columns"); !ok {
		return missingParam(e.name, "columns")
	}
	return nil
}

func (e *caseExecutor) OutputColumns(params Params) []string {
	cols, ok := params.Strings("columns")
	if !ok {
		return nil
	}
	suffix := strings.ToLower(e.name)
	if len(cols) == 1 {
		return []string{suffix + "_result"}
	}
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c + "_" + suffix
	}
	return out
}

func (e *caseExecutor) Execute(rows []tabular.Row, params Params) ([]tabular.Row, error) {
	cols, ok := params.Strings("columns")
	if !ok {
		return nil, missingParam(e.name, "columns")
	}
	outCols := e.OutputColumns(params)
	return mapRows(rows, func(r tabular.Row) {
		for i, c := range cols {
			r[outCols[i]] = cty.StringVal(e.apply(value.AsString(r[c])))
		}
	}), nil
}

func (e *caseExecutor) Chunkable() bool { return true }

// properCase capitalizes the first letter of every whitespace-separated
// word and lowercases the rest.
func properCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		words[i] = strings.ToUpper(string(r[0])) + strings.ToLower(string(r[1:]))
	}
	return strings.Join(words, " ")
}

// trimExecutor implements TRIM over a single column.
type trimExecutor struct{}

func (trimExecutor) ValidateParams(params Params) error {
	if !params.Has("column") {
		return missingParam("TRIM", "column")
	}
	return nil
}

func (trimExecutor) OutputColumns(Params) []string { return []string{"trim_result"} }

func (trimExecutor) Execute(rows []tabular.Row, params Params) ([]tabular.Row, error) {
	col, ok := params.String("column")
	if !ok {
		return nil, missingParam("TRIM", "column")
	}
	return mapRows(rows, func(r tabular.Row) {
		r["trim_result"] = cty.StringVal(strings.TrimSpace(value.AsString(r[col])))
	}), nil
}

func (trimExecutor) Chunkable() bool { return true }

// textLengthExecutor implements TEXT_LENGTH: the byte length of the cell's
// canonical text form.
type textLengthExecutor struct{}

func (textLengthExecutor) ValidateParams(params Params) error {
	if !params.Has("column") {
		return missingParam("TEXT_LENGTH", "column")
	}
	return nil
}

func (textLengthExecutor) OutputColumns(Params) []string { return []string{"text_length_result"} }

func (textLengthExecutor) Execute(rows []tabular.Row, params Params) ([]tabular.Row, error) {
	col, ok := params.String("column")
	if !ok {
		return nil, missingParam("TEXT_LENGTH", "column")
	}
	return mapRows(rows, func(r tabular.Row) {
		r["text_length_result"] = cty.NumberIntVal(int64(len(value.AsString(r[col]))))
	}), nil
}

func (textLengthExecutor) Chunkable() bool { return true }

// textJoinExecutor implements TEXT_JOIN: joins the given columns' text
// values with a delimiter, optionally filtering empty operands out of the
// operand set before the join runs.
type textJoinExecutor struct{}

func (textJoinExecutor) ValidateParams(params Params) error {
	for _, name := range []string{"delimiter", "ignore_empty", "text_columns"} {
		if !params.Has(name) {
			return missingParam("TEXT_JOIN", name)
		}
	}
	return nil
}

func (textJoinExecutor) OutputColumns(Params) []string { return []string{"text_join_result"} }

func (textJoinExecutor) Execute(rows []tabular.Row, params Params) ([]tabular.Row, error) {
	delim := params.StringOr("delimiter", ", ")
	ignoreEmpty := params.BoolOr("ignore_empty", false)
	cols, ok := params.Strings("text_columns")
	if !ok {
		return nil, missingParam("TEXT_JOIN", "text_columns")
	}
	return mapRows(rows, func(r tabular.Row) {
		parts := make([]string, 0, len(cols))
		for _, c := range cols {
			if ignoreEmpty && value.IsEmpty(r[c]) {
				continue
			}
			parts = append(parts, value.AsString(r[c]))
		}
		r["text_join_result"] = cty.StringVal(strings.Join(parts, delim))
	}), nil
}

func (textJoinExecutor) Chunkable() bool { return true }
