package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vk/flowsheet/internal/ctxlog"
	"github.com/vk/flowsheet/internal/engine"
	"github.com/vk/flowsheet/internal/source"
	"github.com/vk/flowsheet/internal/value"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Run loads the declared sources, executes the workflow in the configured
// mode, prints per-step telemetry, and optionally writes the result rows
// as JSON.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	start := time.Now()

	srcs := a.model.Workflow.Sources
	if appConfig.SourcesDir != "" {
		for _, s := range srcs {
			if s.Path != "" && !filepath.IsAbs(s.Path) {
				s.Path = filepath.Join(appConfig.SourcesDir, s.Path)
			}
		}
	}
	catalog, err := source.LoadCatalog(ctx, srcs)
	if err != nil {
		return fmt.Errorf("loading sources: %w", err)
	}

	wf, err := engine.FromConfig(a.model.Workflow)
	if err != nil {
		return fmt.Errorf("building workflow: %w", err)
	}

	eng := engine.New(a.registry, a.engineOptions(appConfig))

	var result *engine.Result
	if appConfig.Mode == ModePreview {
		result, err = eng.Preview(ctx, wf, catalog)
	} else {
		result, err = eng.Execute(ctx, wf, catalog)
	}
	if err != nil {
		return fmt.Errorf("workflow %q: %w", a.model.Workflow.Name, err)
	}

	a.printSummary(result)
	a.logger.Info("Run complete.", "mode", appConfig.Mode, "total_ms", time.Since(start).Milliseconds())

	if appConfig.OutPath != "" {
		if err := writeResult(appConfig.OutPath, result); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		a.logger.Info("Result written.", "path", appConfig.OutPath, "rows", result.RowCount)
	}
	return nil
}

func (a *App) printSummary(result *engine.Result) {
	fmt.Fprintf(a.outW, "Workflow %q: %d rows, %d ms, ~%d bytes\n",
		result.Workflow, result.RowCount, result.ExecutionTimeMS, result.MemoryEstimateBytes)
	for _, step := range result.Steps {
		line := fmt.Sprintf("  [%d] %-30s %-10s %6d rows %6d ms ~%d bytes",
			step.StepIndex, step.StepName, step.Status, step.RowCount, step.ExecutionTimeMS, step.MemoryEstimateBytes)
		if step.Err != nil {
			line += "  " + step.Err.Error()
		}
		fmt.Fprintln(a.outW, line)
	}
}

// writeResult serializes the rows as a JSON array of objects, cells encoded
// through cty's JSON mapping so types survive the trip.
func writeResult(path string, result *engine.Result) error {
	rows := make([]map[string]json.RawMessage, 0, len(result.Rows))
	for _, r := range result.Rows {
		obj := make(map[string]json.RawMessage, len(r))
		for _, col := range result.Columns {
			v, ok := r[col]
			if !ok || value.IsMissing(v) {
				obj[col] = json.RawMessage("null")
				continue
			}
			b, err := ctyjson.Marshal(v, v.Type())
			if err != nil {
				return fmt.Errorf("column %q: %w", col, err)
			}
			obj[col] = b
		}
		rows = append(rows, obj)
	}

	payload := struct {
		Workflow string                       `json:"workflow"`
		Columns  []string                     `json:"columns"`
		RowCount int                          `json:"rowCount"`
		Rows     []map[string]json.RawMessage `json:"rows"`
	}{
		Workflow: result.Workflow,
		Columns:  result.Columns,
		RowCount: result.RowCount,
		Rows:     rows,
	}

	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}
