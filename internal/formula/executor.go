// Package formula implements the formula evaluation subsystem: the registry
// of named operations and one executor per supported formula.
package formula

import (
	"github.com/vk/flowsheet/internal/tabular"
)

// Executor is the behavioral contract for one named operation. Executors own
// no dataset state and must be pure functions of rows and params: the same
// inputs always produce the same outputs, which is what makes preview and
// full execution comparable and per-chunk parallelism safe.
type Executor interface {
	// ValidateParams rejects missing or structurally invalid parameters
	// before any row is processed.
	ValidateParams(params Params) error

	// Execute produces the output rows. Input rows must not be mutated;
	// executors that add columns clone each row first.
	Execute(rows []tabular.Row, params Params) ([]tabular.Row, error)

	// OutputColumns declares the columns the executor introduces for the
	// given params, without running it, so the engine can infer the
	// resulting schema up front.
	OutputColumns(params Params) []string
}

// Chunkable marks executors whose Execute maps each row independently. The
// engine may split their input into chunks, run the chunks on worker
// goroutines, and reassemble the output in the original row order.
type Chunkable interface {
	Chunkable() bool
}

// Reshaper marks executors that change the row set or schema wholesale
// (pivots, melts, deduplication). They are exempt from the engine's
// schema-growth check; everything else must only add columns.
type Reshaper interface {
	Reshapes() bool
}

// Aggregate marks executors that need a full pass over their input before
// producing any output. The engine never chunk-parallelizes these, and in
// preview mode it may widen their input to the full dataset depending on
// the configured aggregate scope.
type Aggregate interface {
	Aggregates() bool
}
