package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/flowsheet/internal/app"
)

func TestParsePositionalWorkflowPath(t *testing.T) {
	var out bytes.Buffer
	cfg, exit, err := Parse([]string{"workflows/report.hcl"}, &out)
	require.NoError(t, err)
	require.False(t, exit)
	assert.Equal(t, "workflows/report.hcl", cfg.WorkflowPath)
	assert.Equal(t, app.ModePreview, cfg.Mode)
	assert.Equal(t, 100, cfg.SampleSize)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestParseFlags(t *testing.T) {
	var out bytes.Buffer
	cfg, exit, err := Parse([]string{
		"--workflow", "wf.hcl",
		"--sources", "/data",
		"--formulas", "formulas/",
		"--mode", "run",
		"--sample-size", "50",
		"--workers", "4",
		"--aggregate-scope", "full",
		"--out", "result.json",
		"--log-format", "json",
		"--log-level", "debug",
	}, &out)
	require.NoError(t, err)
	require.False(t, exit)
	assert.Equal(t, "wf.hcl", cfg.WorkflowPath)
	assert.Equal(t, "/data", cfg.SourcesDir)
	assert.Equal(t, "formulas/", cfg.FormulasPath)
	assert.Equal(t, app.ModeRun, cfg.Mode)
	assert.Equal(t, 50, cfg.SampleSize)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "full", cfg.AggregateScope)
	assert.Equal(t, "result.json", cfg.OutPath)
}

func TestParseShorthandWorkflowFlag(t *testing.T) {
	var out bytes.Buffer
	cfg, _, err := Parse([]string{"-w", "wf.hcl"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "wf.hcl", cfg.WorkflowPath)
}

func TestParseGenerateMode(t *testing.T) {
	var out bytes.Buffer
	cfg, exit, err := Parse([]string{"--generate", "MY_FORMULA", "--executors-dir", "custom"}, &out)
	require.NoError(t, err)
	require.False(t, exit)
	assert.Equal(t, "MY_FORMULA", cfg.GenerateFormula)
	assert.Equal(t, "custom", cfg.ExecutorsDir)
	assert.Empty(t, cfg.WorkflowPath, "generation does not need a workflow")
}

func TestParseNoPathPrintsUsage(t *testing.T) {
	var out bytes.Buffer
	cfg, exit, err := Parse(nil, &out)
	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParseInvalidValues(t *testing.T) {
	cases := []struct {
		name string
		args []string
	}{
		{"bad mode", []string{"--mode", "sideways", "wf.hcl"}},
		{"bad aggregate scope", []string{"--aggregate-scope", "everything", "wf.hcl"}},
		{"bad log format", []string{"--log-format", "xml", "wf.hcl"}},
		{"bad log level", []string{"--log-level", "loud", "wf.hcl"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			_, _, err := Parse(tc.args, &out)
			require.Error(t, err)
			exitErr, ok := err.(*ExitError)
			require.True(t, ok)
			assert.Equal(t, 2, exitErr.Code)
		})
	}
}
