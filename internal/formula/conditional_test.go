package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/flowsheet/internal/tabular"
	"github.com/vk/flowsheet/internal/value"
	"github.com/zclconf/go-cty/cty"
)

func TestIfComparesConditionValue(t *testing.T) {
	rows := []tabular.Row{
		strRow(map[string]string{"region": "west"}),
		strRow(map[string]string{"region": "east"}),
	}
	out, err := ifExecutor{}.Execute(rows, Params{
		"condition_column": cty.StringVal("region"),
		"condition_value":  cty.StringVal("west"),
		"true_value":       cty.StringVal("coastal"),
		"false_value":      cty.StringVal("inland"),
	})
	require.NoError(t, err)
	assert.Equal(t, "coastal", value.AsString(out[0]["if_result"]))
	assert.Equal(t, "inland", value.AsString(out[1]["if_result"]))
}

func TestIfBooleanCoercionWithoutConditionValue(t *testing.T) {
	rows := []tabular.Row{
		{"flag": cty.True},
		{"flag": cty.False},
		{"flag": cty.StringVal("anything")},
	}
	out, err := ifExecutor{}.Execute(rows, Params{
		"condition_column": cty.StringVal("flag"),
	})
	require.NoError(t, err)
	assert.Equal(t, "TRUE", value.AsString(out[0]["if_result"]))
	assert.Equal(t, "FALSE", value.AsString(out[1]["if_result"]))
	assert.Equal(t, "FALSE", value.AsString(out[2]["if_result"]), "non-bool cells coerce to false")
}
