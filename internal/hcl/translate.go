package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/flowsheet/internal/config"
	"github.com/vk/flowsheet/internal/schema"
	"github.com/zclconf/go-cty/cty"
)

// translateWorkflow converts the HCL-specific workflow schema into the
// agnostic model.
func translateWorkflow(wf *schema.Workflow) (*config.Workflow, error) {
	out := &config.Workflow{Name: wf.Name}
	for _, src := range wf.Sources {
		translated, err := translateSource(src)
		if err != nil {
			return nil, fmt.Errorf("workflow %q: %w", wf.Name, err)
		}
		out.Sources = append(out.Sources, translated)
	}
	for _, step := range wf.Steps {
		translated, err := translateStep(step)
		if err != nil {
			return nil, fmt.Errorf("workflow %q: %w", wf.Name, err)
		}
		out.Steps = append(out.Steps, translated)
	}
	return out, nil
}

func translateSource(s *schema.Source) (*config.Source, error) {
	if (s.Path == "") == (s.URL == "") {
		return nil, fmt.Errorf("source %q: exactly one of path or url must be set", s.Name)
	}
	return &config.Source{
		Name:      s.Name,
		Path:      s.Path,
		URL:       s.URL,
		Sheet:     s.Sheet,
		TimeoutMS: s.TimeoutMS,
	}, nil
}

// translateStep converts one step block. The value expression and every
// params attribute are evaluated here with a nil context: configuration
// files carry literals, not references to other blocks.
func translateStep(s *schema.Step) (*config.Step, error) {
	out := &config.Step{
		Kind:    s.Kind,
		Name:    s.Name,
		Formula: s.Formula,
		Column:  s.Column,
		File:    s.File,
		Sheet:   s.Sheet,
		Target:  s.Target,
	}
	if s.Value != nil {
		val, diags := s.Value.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("step %q: value: %w", s.Name, diags)
		}
		out.Value = val
	}
	params, err := extractParams(s.Params)
	if err != nil {
		return nil, fmt.Errorf("step %q: %w", s.Name, err)
	}
	out.Params = params
	return out, nil
}

func extractParams(block *schema.StepParams) (map[string]cty.Value, error) {
	if block == nil || block.Body == nil {
		return nil, nil
	}
	attrs, diags := block.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("params: %w", diags)
	}
	out := make(map[string]cty.Value, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("params: %s: %w", name, diags)
		}
		out[name] = val
	}
	return out, nil
}

// translateFormula converts a formula manifest block. A manifest without an
// is_active attribute is active; disabling is always explicit.
func translateFormula(f *schema.Formula) (*config.FormulaManifest, error) {
	out := &config.FormulaManifest{
		Name:        f.Name,
		Category:    f.Category,
		Description: f.Description,
		Syntax:      f.Syntax,
		Tip:         f.Tip,
		Examples:    f.Examples,
		IsActive:    true,
	}
	if f.IsActive != nil {
		out.IsActive = *f.IsActive
	}
	for _, p := range f.Params {
		translated, err := translateParam(p)
		if err != nil {
			return nil, fmt.Errorf("formula %q: %w", f.Name, err)
		}
		out.Params = append(out.Params, translated)
	}
	return out, nil
}

func translateParam(p *schema.Param) (*config.ParamSpec, error) {
	out := &config.ParamSpec{
		Name:        p.Name,
		Type:        p.Type,
		Label:       p.Label,
		Description: p.Description,
		Required:    p.Required,
		Options:     p.Options,
		Placeholder: p.Placeholder,
	}
	out.Default = evalDefault(p.Default)
	if p.Validation != nil {
		out.Validation = &config.ParamValidation{
			Min:     p.Validation.Min,
			Max:     p.Validation.Max,
			Pattern: p.Validation.Pattern,
		}
	}
	return out, nil
}

// evalDefault evaluates a default expression. A default is only kept when
// it evaluates cleanly to a non-null value.
func evalDefault(expr hcl.Expression) *cty.Value {
	if expr == nil {
		return nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() || val.IsNull() {
		return nil
	}
	return &val
}
