package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/flowsheet/internal/tabular"
	"github.com/vk/flowsheet/internal/value"
	"github.com/zclconf/go-cty/cty"
)

func arithParams() Params {
	return Params{
		"column1": cty.StringVal("a"),
		"column2": cty.StringVal("b"),
	}
}

func TestArithmetic(t *testing.T) {
	rows := []tabular.Row{numRow(map[string]float64{"a": 10, "b": 4})}

	cases := []struct {
		name string
		op   func(a, b float64) float64
		want float64
	}{
		{"ADD", func(a, b float64) float64 { return a + b }, 14},
		{"SUBTRACT", func(a, b float64) float64 { return a - b }, 6},
		{"MULTIPLY", func(a, b float64) float64 { return a * b }, 40},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			exec := &arithExecutor{name: tc.name, op: tc.op}
			out, err := exec.Execute(rows, arithParams())
			require.NoError(t, err)
			col := exec.OutputColumns(nil)[0]
			assert.Equal(t, tc.want, value.AsNumber(out[0][col]))
		})
	}
}

func TestArithmeticCoercesMissingToZero(t *testing.T) {
	rows := []tabular.Row{{"a": cty.NumberIntVal(7)}} // b absent
	exec := &arithExecutor{name: "ADD", op: func(a, b float64) float64 { return a + b }}
	out, err := exec.Execute(rows, arithParams())
	require.NoError(t, err)
	assert.Equal(t, 7.0, value.AsNumber(out[0]["add_result"]))
}

func TestArithmeticDeterminism(t *testing.T) {
	rows := []tabular.Row{
		numRow(map[string]float64{"a": 1, "b": 2}),
		numRow(map[string]float64{"a": 3, "b": 4}),
	}
	exec := &arithExecutor{name: "MULTIPLY", op: func(a, b float64) float64 { return a * b }}

	first, err := exec.Execute(rows, arithParams())
	require.NoError(t, err)
	second, err := exec.Execute(rows, arithParams())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDivide(t *testing.T) {
	t.Run("plain division", func(t *testing.T) {
		rows := []tabular.Row{numRow(map[string]float64{"a": 9, "b": 3})}
		out, err := divideExecutor{}.Execute(rows, arithParams())
		require.NoError(t, err)
		assert.Equal(t, 3.0, value.AsNumber(out[0]["divide_result"]))
	})

	t.Run("zero divisor without default yields the NaN sentinel", func(t *testing.T) {
		rows := []tabular.Row{numRow(map[string]float64{"a": 9, "b": 0})}
		out, err := divideExecutor{}.Execute(rows, arithParams())
		require.NoError(t, err)
		assert.True(t, value.IsNaN(out[0]["divide_result"]))
	})

	t.Run("zero divisor with default yields the default", func(t *testing.T) {
		rows := []tabular.Row{numRow(map[string]float64{"a": 9, "b": 0})}
		params := arithParams()
		params["default"] = cty.NumberFloatVal(-1)
		out, err := divideExecutor{}.Execute(rows, params)
		require.NoError(t, err)
		assert.Equal(t, -1.0, value.AsNumber(out[0]["divide_result"]))
	})

	t.Run("missing divisor counts as zero", func(t *testing.T) {
		rows := []tabular.Row{{"a": cty.NumberIntVal(1)}}
		out, err := divideExecutor{}.Execute(rows, arithParams())
		require.NoError(t, err)
		assert.True(t, value.IsNaN(out[0]["divide_result"]))
	})
}
