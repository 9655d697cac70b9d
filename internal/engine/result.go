package engine

import (
	"github.com/vk/flowsheet/internal/tabular"
	"github.com/vk/flowsheet/internal/value"
)

// StepResult is the per-step telemetry snapshot recorded during a run.
type StepResult struct {
	StepIndex           int
	StepName            string
	Status              Status
	RowCount            int
	ExecutionTimeMS     int64
	MemoryEstimateBytes int64
	Err                 error
}

// Result is the outcome of a workflow run. It is built once by the engine
// and not mutated afterwards.
type Result struct {
	Workflow        string
	Columns         []string
	Rows            []tabular.Row
	RowCount        int
	SampleSize      int
	ExecutionTimeMS int64

	// MemoryEstimateBytes approximates the working set from a sampled
	// row size times the row count. It informs UI hints, not limits.
	MemoryEstimateBytes int64

	Steps []StepResult
}

func newResult(name string, columns []string, rows []tabular.Row, sampleSize int, elapsedMS int64, steps []StepResult) *Result {
	return &Result{
		Workflow:            name,
		Columns:             columns,
		Rows:                rows,
		RowCount:            len(rows),
		SampleSize:          sampleSize,
		ExecutionTimeMS:     elapsedMS,
		MemoryEstimateBytes: estimateMemory(rows),
		Steps:               steps,
	}
}

// estimateMemory sizes the first row's text form and extrapolates. Cheap
// and rough on purpose.
func estimateMemory(rows []tabular.Row) int64 {
	if len(rows) == 0 {
		return 0
	}
	var rowBytes int64
	for k, v := range rows[0] {
		rowBytes += int64(len(k)) + int64(len(value.AsString(v)))
	}
	return rowBytes * int64(len(rows))
}
