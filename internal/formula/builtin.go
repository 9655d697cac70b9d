package formula

import (
	"context"
	"strings"

	"github.com/vk/flowsheet/internal/config"
	"github.com/zclconf/go-cty/cty"
)

// Formula categories, matching the configuration UI's grouping.
const (
	CategoryText        = "Text & String"
	CategoryMath        = "Mathematical"
	CategoryStatistical = "Statistical"
	CategoryConditional = "Conditional"
	CategoryTransform   = "Transformation"
)

func columnsParam(name, label string) *config.ParamSpec {
	return &config.ParamSpec{
		Name: name, Type: config.ParamMultiSelect, Label: label,
		Description: "Columns to operate on", Required: true,
	}
}

func columnParam(name, label string) *config.ParamSpec {
	return &config.ParamSpec{
		Name: name, Type: config.ParamSingleSel, Label: label,
		Description: "Column to operate on", Required: true,
	}
}

func textParam(name, label string, def *cty.Value) *config.ParamSpec {
	return &config.ParamSpec{
		Name: name, Type: config.ParamText, Label: label, Required: def != nil, Default: def,
	}
}

func ptr(v cty.Value) *cty.Value { return &v }

// Builtins returns the manifests and executors of every builtin formula.
func Builtins() map[*config.FormulaManifest]Executor {
	out := make(map[*config.FormulaManifest]Executor)

	for _, name := range []string{"UPPER", "LOWER", "PROPER_CASE"} {
		apply := strings.ToUpper
		switch name {
		case "LOWER":
			apply = strings.ToLower
		case "PROPER_CASE":
			apply = properCase
		}
		out[&config.FormulaManifest{
			Name: name, Category: CategoryText,
			Description: "Converts the text of the selected columns (" + strings.ToLower(name) + " case)",
			Syntax:      name + " [columns...]",
			Examples:    []string{name + " [Name]"},
			Params:      []*config.ParamSpec{columnsParam("columns", "Columns")},
			IsActive:    true,
		}] = &caseExecutor{name: name, apply: apply}
	}

	out[&config.FormulaManifest{
		Name: "TRIM", Category: CategoryText,
		Description: "Removes leading and trailing whitespace",
		Syntax:      "TRIM [column]",
		Examples:    []string{"TRIM [Name]"},
		Params:      []*config.ParamSpec{columnParam("column", "Column")},
		IsActive:    true,
	}] = trimExecutor{}

	out[&config.FormulaManifest{
		Name: "TEXT_LENGTH", Category: CategoryText,
		Description: "Length of the cell's text representation",
		Syntax:      "TEXT_LENGTH [column]",
		Examples:    []string{"TEXT_LENGTH [Name]"},
		Params:      []*config.ParamSpec{columnParam("column", "Column")},
		IsActive:    true,
	}] = textLengthExecutor{}

	out[&config.FormulaManifest{
		Name: "TEXT_JOIN", Category: CategoryText,
		Description: "Joins text values together, with optional delimiter and empty handling",
		Syntax:      "TEXT_JOIN [delimiter -> ignore_empty -> text1 -> text2 -> ...]",
		Tip:         "Add delimiter, then ignore_empty, then the text columns to join",
		Examples:    []string{`TEXT_JOIN [", " -> TRUE -> City -> State -> Country]`},
		Params: []*config.ParamSpec{
			textParam("delimiter", "Delimiter", ptr(cty.StringVal(", "))),
			{Name: "ignore_empty", Type: config.ParamCheckbox, Label: "Ignore Empty",
				Description: "Skip blank values when joining", Required: true,
				Default: ptr(cty.False)},
			columnsParam("text_columns", "Text Columns"),
		},
		IsActive: true,
	}] = textJoinExecutor{}

	for name, op := range map[string]func(a, b float64) float64{
		"ADD":      func(a, b float64) float64 { return a + b },
		"SUBTRACT": func(a, b float64) float64 { return a - b },
		"MULTIPLY": func(a, b float64) float64 { return a * b },
	} {
		out[&config.FormulaManifest{
			Name: name, Category: CategoryMath,
			Description: "Applies " + strings.ToLower(name) + " to two numeric columns, row by row",
			Syntax:      name + " [column1 -> column2]",
			Examples:    []string{name + " [Price -> Tax]"},
			Params: []*config.ParamSpec{
				columnParam("column1", "First Column"),
				columnParam("column2", "Second Column"),
			},
			IsActive: true,
		}] = &arithExecutor{name: name, op: op}
	}

	out[&config.FormulaManifest{
		Name: "DIVIDE", Category: CategoryMath,
		Description: "Divides two numeric columns; zero divisors yield the default value or NaN",
		Syntax:      "DIVIDE [column1 -> column2 -> default?]",
		Examples:    []string{"DIVIDE [Revenue -> Units]"},
		Params: []*config.ParamSpec{
			columnParam("column1", "Numerator"),
			columnParam("column2", "Divisor"),
			{Name: "default", Type: config.ParamNumber, Label: "Default",
				Description: "Value to use when the divisor is zero"},
		},
		IsActive: true,
	}] = divideExecutor{}

	out[&config.FormulaManifest{
		Name: "SUM", Category: CategoryStatistical,
		Description: "Total of the selected columns over all rows",
		Syntax:      "SUM [columns...]",
		Examples:    []string{"SUM [Sales]"},
		Params:      []*config.ParamSpec{columnsParam("columns", "Columns")},
		IsActive:    true,
	}] = sumExecutor{}

	out[&config.FormulaManifest{
		Name: "COUNT", Category: CategoryStatistical,
		Description: "Number of non-null values in the column",
		Syntax:      "COUNT [column]",
		Examples:    []string{"COUNT [OrderID]"},
		Params:      []*config.ParamSpec{columnParam("column", "Column")},
		IsActive:    true,
	}] = countExecutor{}

	out[&config.FormulaManifest{
		Name: "UNIQUE_COUNT", Category: CategoryStatistical,
		Description: "Number of distinct values in the column",
		Syntax:      "UNIQUE_COUNT [column]",
		Examples:    []string{"UNIQUE_COUNT [Customer]"},
		Params:      []*config.ParamSpec{columnParam("column", "Column")},
		IsActive:    true,
	}] = uniqueCountExecutor{}

	out[&config.FormulaManifest{
		Name: "SUMIF", Category: CategoryStatistical,
		Description: "Per-row sum value gated by a condition column match",
		Syntax:      "SUMIF [sum_column -> condition_column -> condition_value]",
		Examples:    []string{`SUMIF [Sales -> Region -> "West"]`},
		Params: []*config.ParamSpec{
			columnParam("sum_column", "Sum Column"),
			columnParam("condition_column", "Condition Column"),
			textParam("condition_value", "Condition Value", ptr(cty.StringVal(""))),
		},
		IsActive: true,
	}] = sumifExecutor{}

	out[&config.FormulaManifest{
		Name: "COUNTIF", Category: CategoryStatistical,
		Description: "Per-row 1/0 flag for a condition column match",
		Syntax:      "COUNTIF [condition_column -> condition_value]",
		Examples:    []string{`COUNTIF [Status -> "shipped"]`},
		Params: []*config.ParamSpec{
			columnParam("condition_column", "Condition Column"),
			textParam("condition_value", "Condition Value", ptr(cty.StringVal(""))),
		},
		IsActive: true,
	}] = countifExecutor{}

	out[&config.FormulaManifest{
		Name: "IF", Category: CategoryConditional,
		Description: "Conditional logic with true/false values",
		Syntax:      "IF [condition_column -> condition_value -> true_value -> false_value]",
		Tip:         "Pick the condition column, a comparison value, then the true/false outputs",
		Examples:    []string{`IF [Region -> "West" -> "coastal" -> "inland"]`},
		Params: []*config.ParamSpec{
			columnParam("condition_column", "Condition Column"),
			textParam("condition_value", "Condition Value", nil),
			textParam("true_value", "True Value", ptr(cty.StringVal("TRUE"))),
			textParam("false_value", "False Value", ptr(cty.StringVal("FALSE"))),
		},
		IsActive: true,
	}] = ifExecutor{}

	out[&config.FormulaManifest{
		Name: "PIVOT", Category: CategoryTransform,
		Description: "Groups by an index column and aggregates a value column (count, sum, avg)",
		Syntax:      "PIVOT [index_column -> value_column]",
		Examples:    []string{"PIVOT [Region -> Sales]"},
		Params: []*config.ParamSpec{
			columnParam("index_column", "Index Column"),
			columnParam("value_column", "Value Column"),
		},
		IsActive: true,
	}] = pivotExecutor{}

	out[&config.FormulaManifest{
		Name: "DEPIVOT", Category: CategoryTransform,
		Description: "Melts non-id columns into variable/value rows",
		Syntax:      "DEPIVOT [id_columns...]",
		Examples:    []string{"DEPIVOT [Region]"},
		Params:      []*config.ParamSpec{columnsParam("id_columns", "ID Columns")},
		IsActive:    true,
	}] = depivotExecutor{}

	out[&config.FormulaManifest{
		Name: "REMOVE_DUPLICATES", Category: CategoryTransform,
		Description: "Keeps the first row for each distinct key-column combination",
		Syntax:      "REMOVE_DUPLICATES [columns...]",
		Examples:    []string{"REMOVE_DUPLICATES [Email]"},
		Params:      []*config.ParamSpec{columnsParam("columns", "Key Columns")},
		IsActive:    true,
	}] = removeDuplicatesExecutor{}

	out[&config.FormulaManifest{
		Name: "FILLNA", Category: CategoryTransform,
		Description: "Replaces null, empty, and NaN cells with a value",
		Syntax:      "FILLNA [column -> value]",
		Examples:    []string{`FILLNA [Discount -> 0]`},
		Params: []*config.ParamSpec{
			columnParam("column", "Column"),
			textParam("value", "Fill Value", ptr(cty.StringVal(""))),
		},
		IsActive: true,
	}] = fillnaExecutor{}

	return out
}

// RegisterBuiltins registers the builtin formula set. Manifests loaded from
// configuration files may be registered afterwards and replace these.
func RegisterBuiltins(ctx context.Context, reg *Registry) error {
	for manifest, exec := range Builtins() {
		if err := reg.Register(ctx, manifest, exec); err != nil {
			return err
		}
	}
	return nil
}
