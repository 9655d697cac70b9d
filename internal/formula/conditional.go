package formula

import (
	"github.com/vk/flowsheet/internal/tabular"
	"github.com/vk/flowsheet/internal/value"
	"github.com/zclconf/go-cty/cty"
)

// ifExecutor implements IF. When condition_value is supplied the condition
// column's text form is compared against it; otherwise the cell's boolean
// coercion decides. The result cell is the true_value or false_value text.
type ifExecutor struct{}

func (ifExecutor) ValidateParams(params Params) error {
	if !params.Has("condition_column") {
		return missingParam("IF", "condition_column")
	}
	return nil
}

func (ifExecutor) OutputColumns(Params) []string { return []string{"if_result"} }

func (ifExecutor) Execute(rows []tabular.Row, params Params) ([]tabular.Row, error) {
	condCol, ok := params.String("condition_column")
	if !ok {
		return nil, missingParam("IF", "condition_column")
	}
	condVal, compare := params.String("condition_value")
	trueVal := params.StringOr("true_value", "TRUE")
	falseVal := params.StringOr("false_value", "FALSE")
	return mapRows(rows, func(r tabular.Row) {
		var met bool
		if compare {
			met = value.AsString(r[condCol]) == condVal
		} else {
			met = value.AsBool(r[condCol])
		}
		if met {
			r["if_result"] = cty.StringVal(trueVal)
		} else {
			r["if_result"] = cty.StringVal(falseVal)
		}
	}), nil
}

func (ifExecutor) Chunkable() bool { return true }
