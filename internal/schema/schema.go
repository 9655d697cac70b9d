// Package schema defines the HCL shapes of the two user-facing file kinds:
// workflow files and formula manifest files. These structs are decode
// targets only; the loader translates them into the agnostic config model.
package schema

import (
	"github.com/hashicorp/hcl/v2"
)

// StepParams represents the content of the 'params' block within a step.
// Attributes are kept as raw expressions so the loader controls evaluation.
type StepParams struct {
	Body hcl.Body `hcl:",remain"`
}

// Source represents a `source` block: one tabular input of the workflow.
type Source struct {
	Name      string `hcl:"name,label"`
	Path      string `hcl:"path,optional"`
	URL       string `hcl:"url,optional"`
	Sheet     string `hcl:"sheet,optional"`
	TimeoutMS int    `hcl:"timeout_ms,optional"`
}

// Step represents a `step` block from a workflow file. The first label is
// the step kind, the second its display name.
type Step struct {
	Kind    string         `hcl:"kind,label"`
	Name    string         `hcl:"name,label"`
	Formula string         `hcl:"formula,optional"`
	Column  string         `hcl:"column,optional"`
	File    string         `hcl:"file,optional"`
	Sheet   string         `hcl:"sheet,optional"`
	Target  string         `hcl:"target,optional"`
	Value   hcl.Expression `hcl:"value,optional"`
	Params  *StepParams    `hcl:"params,block"`
}

// Workflow represents a `workflow` block: sources plus the ordered steps.
type Workflow struct {
	Name    string    `hcl:"name,label"`
	Sources []*Source `hcl:"source,block"`
	Steps   []*Step   `hcl:"step,block"`
}

// ParamValidation represents the `validation` block of a parameter.
type ParamValidation struct {
	Min     *float64 `hcl:"min,optional"`
	Max     *float64 `hcl:"max,optional"`
	Pattern string   `hcl:"pattern,optional"`
}

// Param represents a `param` block inside a formula manifest.
type Param struct {
	Name        string           `hcl:"name,label"`
	Type        string           `hcl:"type"`
	Label       string           `hcl:"label"`
	Description string           `hcl:"description,optional"`
	Required    bool             `hcl:"required,optional"`
	Default     hcl.Expression   `hcl:"default,optional"`
	Options     []string         `hcl:"options,optional"`
	Placeholder string           `hcl:"placeholder,optional"`
	Validation  *ParamValidation `hcl:"validation,block"`
}

// Formula represents a `formula` block: the user-editable manifest of one
// formula's presentation and parameter schema.
type Formula struct {
	Name        string   `hcl:"name,label"`
	Category    string   `hcl:"category"`
	Description string   `hcl:"description"`
	Syntax      string   `hcl:"syntax,optional"`
	Tip         string   `hcl:"tip,optional"`
	Examples    []string `hcl:"examples,optional"`
	IsActive    *bool    `hcl:"is_active,optional"`
	Params      []*Param `hcl:"param,block"`
}

// FileConfig represents the top-level structure of any configuration file.
// Workflow and formula blocks may live in the same file or separate ones.
type FileConfig struct {
	Workflows []*Workflow `hcl:"workflow,block"`
	Formulas  []*Formula  `hcl:"formula,block"`
	Body      hcl.Body    `hcl:",remain"`
}
