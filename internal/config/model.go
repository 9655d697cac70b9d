// Package config holds the format-agnostic model of everything a user
// declares: the workflow, its sources, and the formula manifests. The HCL
// loader translates into this model; nothing below it knows about HCL.
package config

import (
	"github.com/zclconf/go-cty/cty"
)

// Model is the unified representation of the loaded configuration.
type Model struct {
	Workflow *Workflow
	Formulas map[string]*FormulaManifest
}

// Workflow is the user's ordered step list plus the sources it reads.
type Workflow struct {
	Name    string
	Sources []*Source
	Steps   []*Step
}

// Source declares one tabular input. Exactly one of Path or URL is set.
type Source struct {
	Name      string
	Path      string
	URL       string
	Sheet     string
	TimeoutMS int
}

// Step is the declarative form of one workflow step. Kind selects which of
// the remaining fields are meaningful.
type Step struct {
	Kind    string // "select", "formula", "literal" or "sheet"
	Name    string
	Formula string
	Column  string
	File    string
	Sheet   string
	Target  string
	Value   cty.Value
	Params  map[string]cty.Value
}

// Parameter types a manifest may declare. These drive both the editing UI
// and the registry's structural validation.
const (
	ParamText        = "text"
	ParamNumber      = "number"
	ParamCheckbox    = "checkbox"
	ParamSingleSel   = "single-select"
	ParamMultiSelect = "multi-select"
)

// ValidParamType reports whether t is one of the supported parameter types.
func ValidParamType(t string) bool {
	switch t {
	case ParamText, ParamNumber, ParamCheckbox, ParamSingleSel, ParamMultiSelect:
		return true
	}
	return false
}

// FormulaManifest is the user-editable presentation and parameter schema of
// one formula. It is read at resolution time and never from inside an
// executor's row loop.
type FormulaManifest struct {
	Name        string
	Category    string
	Description string
	Syntax      string
	Tip         string
	Examples    []string
	Params      []*ParamSpec
	IsActive    bool
}

// ParamSpec describes one parameter of a formula.
type ParamSpec struct {
	Name        string
	Type        string
	Label       string
	Description string
	Required    bool
	Default     *cty.Value
	Options     []string
	Placeholder string
	Validation  *ParamValidation
}

// ParamValidation carries optional structural constraints on a parameter.
type ParamValidation struct {
	Min     *float64
	Max     *float64
	Pattern string
}

// ColumnSelector reports whether the parameter selects data columns, which
// is what the engine's forward-reference validation needs to know. A select
// with a fixed option list is an enum, not a column selector.
func (p *ParamSpec) ColumnSelector() bool {
	if len(p.Options) > 0 {
		return false
	}
	return p.Type == ParamSingleSel || p.Type == ParamMultiSelect
}
