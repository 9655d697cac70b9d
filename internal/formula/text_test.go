package formula

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/flowsheet/internal/tabular"
	"github.com/vk/flowsheet/internal/value"
	"github.com/zclconf/go-cty/cty"
)

func TestUpperRoundTrip(t *testing.T) {
	exec := &caseExecutor{name: "UPPER", apply: strings.ToUpper}
	rows := []tabular.Row{strRow(map[string]string{"name": "hello world"})}
	params := Params{"columns": listOf("name")}

	out, err := exec.Execute(rows, params)
	require.NoError(t, err)
	require.Len(t, out, 1)

	got := value.AsString(out[0]["upper_result"])
	assert.Equal(t, "HELLO WORLD", got)
	assert.Equal(t, "hello world", strings.ToLower(got), "lowering the result recovers the input")
	assert.Equal(t, cty.StringVal("hello world"), rows[0]["name"], "input rows stay untouched")
}

func TestCaseOutputNaming(t *testing.T) {
	exec := &caseExecutor{name: "LOWER", apply: strings.ToLower}

	t.Run("single column emits lower_result", func(t *testing.T) {
		assert.Equal(t, []string{"lower_result"},
			exec.OutputColumns(Params{"columns": listOf("Name")}))
	})

	t.Run("multiple columns emit one column each", func(t *testing.T) {
		assert.Equal(t, []string{"First_lower", "Last_lower"},
			exec.OutputColumns(Params{"columns": listOf("First", "Last")}))
	})
}

func TestProperCase(t *testing.T) {
	assert.Equal(t, "Hello World", properCase("hELLO wORLD"))
	assert.Equal(t, "A B C", properCase("  a  b  c  "))
	assert.Equal(t, "", properCase(""))
}

func TestTrim(t *testing.T) {
	out, err := trimExecutor{}.Execute(
		[]tabular.Row{strRow(map[string]string{"v": "  spaced  "})},
		Params{"column": cty.StringVal("v")},
	)
	require.NoError(t, err)
	assert.Equal(t, "spaced", value.AsString(out[0]["trim_result"]))
}

func TestTextLength(t *testing.T) {
	rows := []tabular.Row{
		strRow(map[string]string{"v": "abcd"}),
		{"v": cty.NullVal(cty.String)},
	}
	out, err := textLengthExecutor{}.Execute(rows, Params{"column": cty.StringVal("v")})
	require.NoError(t, err)
	assert.Equal(t, 4.0, value.AsNumber(out[0]["text_length_result"]))
	assert.Equal(t, 0.0, value.AsNumber(out[1]["text_length_result"]), "null reads as empty text")
}

func TestTextJoin(t *testing.T) {
	rows := []tabular.Row{strRow(map[string]string{"a": "x", "b": "", "c": "z"})}

	t.Run("keeps empty operands by default", func(t *testing.T) {
		out, err := textJoinExecutor{}.Execute(rows, Params{
			"delimiter":    cty.StringVal("-"),
			"ignore_empty": cty.False,
			"text_columns": listOf("a", "b", "c"),
		})
		require.NoError(t, err)
		assert.Equal(t, "x--z", value.AsString(out[0]["text_join_result"]))
	})

	t.Run("ignore_empty filters before joining", func(t *testing.T) {
		out, err := textJoinExecutor{}.Execute(rows, Params{
			"delimiter":    cty.StringVal("-"),
			"ignore_empty": cty.True,
			"text_columns": listOf("a", "b", "c"),
		})
		require.NoError(t, err)
		assert.Equal(t, "x-z", value.AsString(out[0]["text_join_result"]))
	})

	t.Run("all-empty operands join to the empty string", func(t *testing.T) {
		empty := []tabular.Row{strRow(map[string]string{"a": "", "b": ""})}
		out, err := textJoinExecutor{}.Execute(empty, Params{
			"delimiter":    cty.StringVal(","),
			"ignore_empty": cty.True,
			"text_columns": listOf("a", "b"),
		})
		require.NoError(t, err)
		assert.Equal(t, "", value.AsString(out[0]["text_join_result"]))
	})
}
