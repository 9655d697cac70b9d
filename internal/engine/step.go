// Package engine walks a workflow's ordered step list, threading tabular
// state from each step into the next. Order is the dependency graph: a step
// may only consume columns produced by earlier steps or raw source columns.
package engine

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/vk/flowsheet/internal/config"
	"github.com/vk/flowsheet/internal/formula"
	"github.com/vk/flowsheet/internal/tabular"
	"github.com/zclconf/go-cty/cty"
)

// Kind tags what a step does.
type Kind string

const (
	KindColumnSelect  Kind = "select"
	KindFormulaApply  Kind = "formula"
	KindCustomLiteral Kind = "literal"
	KindSheetSelect   Kind = "sheet"
)

// KindFromString parses a step kind from its configuration tag.
func KindFromString(s string) (Kind, error) {
	switch Kind(s) {
	case KindColumnSelect, KindFormulaApply, KindCustomLiteral, KindSheetSelect:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown step kind %q", s)
}

// Status is a step's position in its lifecycle.
type Status int

const (
	StatusPending Status = iota
	StatusProcessing
	StatusCompleted
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusProcessing:
		return "processing"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// allowedTransition enforces Pending -> Processing -> {Completed, Failed}.
// No transition skips Processing.
func allowedTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusProcessing
	case StatusProcessing:
		return to == StatusCompleted || to == StatusFailed
	}
	return false
}

// Step is one runtime unit of transformation. Only the engine moves its
// status; editing flows rebuild steps rather than mutating them mid-run.
type Step struct {
	ID      uuid.UUID
	Name    string
	Kind    Kind
	Formula string
	Target  string
	Params  formula.Params
	Ref     tabular.Ref
	Sheet   string
	Literal cty.Value

	status Status
	err    error
}

// NewStep builds a runtime step from its declarative form.
func NewStep(def *config.Step) (*Step, error) {
	kind, err := KindFromString(def.Kind)
	if err != nil {
		return nil, err
	}
	s := &Step{
		ID:      uuid.New(),
		Name:    def.Name,
		Kind:    kind,
		Formula: def.Formula,
		Target:  def.Target,
		Ref:     tabular.Ref{File: def.File, Column: def.Column},
		Sheet:   def.Sheet,
		Literal: def.Value,
		Params:  formula.Params(def.Params),
	}
	switch kind {
	case KindColumnSelect:
		if def.Column == "" {
			return nil, fmt.Errorf("step %q: select steps need a column", def.Name)
		}
	case KindFormulaApply:
		if def.Formula == "" {
			return nil, fmt.Errorf("step %q: formula steps need a formula name", def.Name)
		}
	case KindCustomLiteral:
		if def.Target == "" {
			return nil, fmt.Errorf("step %q: literal steps need a target column", def.Name)
		}
	case KindSheetSelect:
		if def.Sheet == "" {
			return nil, fmt.Errorf("step %q: sheet steps need a sheet name", def.Name)
		}
	}
	return s, nil
}

// Status returns the step's current lifecycle position.
func (s *Step) Status() Status { return s.status }

// Err returns the failure recorded for the step, if any.
func (s *Step) Err() error { return s.err }

// transition validates and applies a status change. An illegal transition
// is a programmer error in the engine, not user input, hence the panic.
func (s *Step) transition(to Status) {
	if !allowedTransition(s.status, to) {
		panic(fmt.Sprintf("step %q: illegal status transition %s -> %s", s.Name, s.status, to))
	}
	s.status = to
}

// reset returns the step to Pending for a fresh run.
func (s *Step) reset() {
	s.status = StatusPending
	s.err = nil
}

// Workflow is the ordered runtime step list.
type Workflow struct {
	Name  string
	Steps []*Step
}

// FromConfig builds the runtime workflow from its declarative form.
func FromConfig(def *config.Workflow) (*Workflow, error) {
	wf := &Workflow{Name: def.Name}
	for _, sd := range def.Steps {
		s, err := NewStep(sd)
		if err != nil {
			return nil, err
		}
		wf.Steps = append(wf.Steps, s)
	}
	return wf, nil
}
