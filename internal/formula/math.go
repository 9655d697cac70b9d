package formula

import (
	"strings"

	"github.com/vk/flowsheet/internal/tabular"
	"github.com/vk/flowsheet/internal/value"
)

// arithExecutor implements the two-operand arithmetic formulas (ADD,
// SUBTRACT, MULTIPLY). Null, empty, and non-numeric operands coerce to
// zero.
type arithExecutor struct {
	name string
	op   func(a, b float64) float64
}

func (e *arithExecutor) ValidateParams(params Params) error {
	for _, name := range []string{"column1", "column2"} {
		if !params.Has(name) {
			return missingParam(e.name, name)
		}
	}
	return nil
}

func (e *arithExecutor) OutputColumns(Params) []string {
	return []string{strings.ToLower(e.name) + "_result"}
}

func (e *arithExecutor) Execute(rows []tabular.Row, params Params) ([]tabular.Row, error) {
	col1, ok := params.String("column1")
	if !ok {
		return nil, missingParam(e.name, "column1")
	}
	col2, ok := params.String("column2")
	if !ok {
		return nil, missingParam(e.name, "column2")
	}
	out := e.OutputColumns(params)[0]
	return mapRows(rows, func(r tabular.Row) {
		r[out] = value.Num(e.op(value.AsNumber(r[col1]), value.AsNumber(r[col2])))
	}), nil
}

func (e *arithExecutor) Chunkable() bool { return true }

// divideExecutor implements DIVIDE. A zero divisor yields the
// caller-supplied default when one is given, otherwise the NaN sentinel.
// Division never fails a row or a step.
type divideExecutor struct{}

func (divideExecutor) ValidateParams(params Params) error {
	for _, name := range []string{"column1", "column2"} {
		if !params.Has(name) {
			return missingParam("DIVIDE", name)
		}
	}
	return nil
}

func (divideExecutor) OutputColumns(Params) []string { return []string{"divide_result"} }

func (divideExecutor) Execute(rows []tabular.Row, params Params) ([]tabular.Row, error) {
	col1, ok := params.String("column1")
	if !ok {
		return nil, missingParam("DIVIDE", "column1")
	}
	col2, ok := params.String("column2")
	if !ok {
		return nil, missingParam("DIVIDE", "column2")
	}
	def, hasDefault := params.Number("default")
	return mapRows(rows, func(r tabular.Row) {
		divisor := value.AsNumber(r[col2])
		if divisor == 0 {
			if hasDefault {
				r["divide_result"] = value.Num(def)
			} else {
				r["divide_result"] = value.NaN
			}
			return
		}
		r["divide_result"] = value.Num(value.AsNumber(r[col1]) / divisor)
	}), nil
}

func (divideExecutor) Chunkable() bool { return true }
