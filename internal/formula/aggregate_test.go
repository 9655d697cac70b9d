package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/flowsheet/internal/tabular"
	"github.com/vk/flowsheet/internal/value"
	"github.com/zclconf/go-cty/cty"
)

func salesRows() []tabular.Row {
	return []tabular.Row{
		numRow(map[string]float64{"sales": 10}),
		numRow(map[string]float64{"sales": 20}),
		numRow(map[string]float64{"sales": 30}),
	}
}

func TestSumBroadcast(t *testing.T) {
	out, err := sumExecutor{}.Execute(salesRows(), Params{"columns": listOf("sales")})
	require.NoError(t, err)
	require.Len(t, out, 3)
	for _, r := range out {
		assert.Equal(t, 60.0, value.AsNumber(r["sum_result"]))
	}
}

func TestSumOverStringCells(t *testing.T) {
	rows := []tabular.Row{
		strRow(map[string]string{"v": "1.5"}),
		strRow(map[string]string{"v": "not a number"}),
		strRow(map[string]string{"v": "2.5"}),
	}
	out, err := sumExecutor{}.Execute(rows, Params{"columns": listOf("v")})
	require.NoError(t, err)
	assert.Equal(t, 4.0, value.AsNumber(out[0]["sum_result"]))
}

func TestCount(t *testing.T) {
	rows := []tabular.Row{
		strRow(map[string]string{"v": "a"}),
		{"v": cty.NullVal(cty.String)},
		{},
		strRow(map[string]string{"v": "b"}),
	}
	out, err := countExecutor{}.Execute(rows, Params{"column": cty.StringVal("v")})
	require.NoError(t, err)
	for _, r := range out {
		assert.Equal(t, 2.0, value.AsNumber(r["count_result"]))
	}
}

func TestUniqueCount(t *testing.T) {
	rows := []tabular.Row{
		strRow(map[string]string{"v": "x"}),
		strRow(map[string]string{"v": "y"}),
		strRow(map[string]string{"v": "x"}),
		{"v": cty.NumberIntVal(1)},
		strRow(map[string]string{"v": "1"}),
	}
	out, err := uniqueCountExecutor{}.Execute(rows, Params{"column": cty.StringVal("v")})
	require.NoError(t, err)
	// "x", "y", number 1 and string "1" are four distinct values.
	assert.Equal(t, 4.0, value.AsNumber(out[0]["unique_count_result"]))
}

func TestSumif(t *testing.T) {
	rows := []tabular.Row{
		{"sales": cty.NumberIntVal(10), "region": cty.StringVal("west")},
		{"sales": cty.NumberIntVal(20), "region": cty.StringVal("east")},
	}
	out, err := sumifExecutor{}.Execute(rows, Params{
		"sum_column":       cty.StringVal("sales"),
		"condition_column": cty.StringVal("region"),
		"condition_value":  cty.StringVal("west"),
	})
	require.NoError(t, err)
	assert.Equal(t, 10.0, value.AsNumber(out[0]["sumif_result"]))
	assert.Equal(t, 0.0, value.AsNumber(out[1]["sumif_result"]))
}

func TestCountif(t *testing.T) {
	rows := []tabular.Row{
		strRow(map[string]string{"status": "shipped"}),
		strRow(map[string]string{"status": "pending"}),
		strRow(map[string]string{"status": "shipped"}),
	}
	out, err := countifExecutor{}.Execute(rows, Params{
		"condition_column": cty.StringVal("status"),
		"condition_value":  cty.StringVal("shipped"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1.0, value.AsNumber(out[0]["countif_result"]))
	assert.Equal(t, 0.0, value.AsNumber(out[1]["countif_result"]))
	assert.Equal(t, 1.0, value.AsNumber(out[2]["countif_result"]))
}
