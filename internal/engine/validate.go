package engine

import (
	"fmt"

	"github.com/vk/flowsheet/internal/config"
	"github.com/vk/flowsheet/internal/formula"
	"github.com/vk/flowsheet/internal/tabular"
	"github.com/vk/flowsheet/internal/value"
)

// Validate walks the step list in order and rejects structural problems
// before any row is touched: unknown step kinds, unknown sheets, and
// forward references to columns no earlier step produces. Raw source
// columns count as produced from the start. Formula lookup and parameter
// problems are NOT structural: those fail the individual step at run time
// and the rest of the workflow continues.
func (e *Engine) Validate(wf *Workflow, catalog *tabular.Catalog) error {
	res := tabular.NewResolver(catalog)
	produced := make(map[string]bool)
	if ds := catalog.First(); ds != nil {
		for _, c := range ds.Columns {
			produced[c] = true
		}
	}

	for i, step := range wf.Steps {
		switch step.Kind {
		case KindSheetSelect:
			sheet, ok := catalog.SheetNamed(step.Sheet)
			if !ok {
				return fmt.Errorf("step %d (%s): no source has sheet %q", i, step.Name, step.Sheet)
			}
			produced = make(map[string]bool)
			for _, c := range sheet.Columns {
				produced[c] = true
			}

		case KindColumnSelect:
			if err := validateRef(res, step.Ref, produced); err != nil {
				return fmt.Errorf("step %d (%s): %w", i, step.Name, err)
			}
			produced[step.Ref.Column] = true

		case KindCustomLiteral:
			produced[step.Target] = true

		case KindFormulaApply:
			// An unknown, disabled, or badly parameterized formula fails
			// its own step later; its output columns are simply never
			// produced. Only the reference shape is checked here.
			reg, err := e.registry.Lookup(step.Formula)
			if err != nil {
				continue
			}
			params := reg.ApplyDefaults(step.Params)
			if err := reg.Validate(params); err != nil {
				continue
			}
			if err := validateColumnParams(res, reg, params, produced); err != nil {
				return fmt.Errorf("step %d (%s): %w", i, step.Name, err)
			}
			for _, c := range reg.Exec.OutputColumns(params) {
				produced[c] = true
			}
			if step.Target != "" {
				produced[step.Target] = true
			}
		}
	}
	return nil
}

// validateColumnParams checks every column-selector parameter of a formula
// against the columns produced so far. A reference to a column only a later
// step creates is a forward reference and fails validation.
func validateColumnParams(res *tabular.Resolver, reg *formula.Registered, params formula.Params, produced map[string]bool) error {
	for _, spec := range reg.Manifest.Params {
		if !spec.ColumnSelector() {
			continue
		}
		v, ok := params.Param(spec.Name)
		if !ok || value.IsMissing(v) {
			continue
		}
		var names []string
		if spec.Type == config.ParamMultiSelect {
			names, _ = params.Strings(spec.Name)
		} else if s, ok := params.String(spec.Name); ok {
			names = []string{s}
		}
		for _, name := range names {
			if err := validateRef(res, tabular.ParseRef(name), produced); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateRef(res *tabular.Resolver, ref tabular.Ref, produced map[string]bool) error {
	if ref.File == "" && produced[ref.Column] {
		return nil
	}
	if _, err := res.Resolve(ref); err != nil {
		return err
	}
	return nil
}
