package engine

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/vk/flowsheet/internal/ctxlog"
	"github.com/vk/flowsheet/internal/formula"
	"github.com/vk/flowsheet/internal/tabular"
	"golang.org/x/sync/errgroup"
)

// AggregateScope controls what aggregate formulas see during a preview.
type AggregateScope string

const (
	// ScopeSample runs aggregates over the sampled rows only. Fast, but
	// totals differ from a full run.
	ScopeSample AggregateScope = "sample"
	// ScopeFull runs the whole pipeline when aggregates are present and
	// truncates only the returned rows, so previewed totals match the
	// full run.
	ScopeFull AggregateScope = "full"
)

// Options tune a run. The zero value is usable; withDefaults fills the gaps.
type Options struct {
	SampleSize     int
	Workers        int
	ChunkSize      int
	AggregateScope AggregateScope
}

func (o Options) withDefaults() Options {
	if o.SampleSize <= 0 {
		o.SampleSize = 100
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = 1000
	}
	if o.AggregateScope == "" {
		o.AggregateScope = ScopeSample
	}
	return o
}

// Engine executes workflows against a catalog of loaded sources. It is
// stateless between runs; all mutable run state lives on the stack.
type Engine struct {
	registry *formula.Registry
	opts     Options
}

// New returns an engine over the given formula registry.
func New(registry *formula.Registry, opts Options) *Engine {
	return &Engine{registry: registry, opts: opts.withDefaults()}
}

// Preview runs the workflow over a bounded sample. With ScopeFull and an
// aggregate step present it runs everything and truncates only the rows
// handed back, so aggregate cells match a full run.
func (e *Engine) Preview(ctx context.Context, wf *Workflow, catalog *tabular.Catalog) (*Result, error) {
	limit := e.opts.SampleSize
	full := e.opts.AggregateScope == ScopeFull && e.hasAggregate(wf)
	runLimit := limit
	if full {
		runLimit = 0
	}
	res, err := e.run(ctx, wf, catalog, runLimit)
	if err != nil {
		return nil, err
	}
	if full && len(res.Rows) > limit {
		res.Rows = res.Rows[:limit]
		res.RowCount = len(res.Rows)
	}
	res.SampleSize = limit
	return res, nil
}

// Execute runs the workflow over the complete dataset.
func (e *Engine) Execute(ctx context.Context, wf *Workflow, catalog *tabular.Catalog) (*Result, error) {
	return e.run(ctx, wf, catalog, 0)
}

// run is the shared pipeline walk. limit bounds the initial working set;
// zero means all rows. Preview and full execution differ only in that bound,
// which is what makes their outputs comparable.
func (e *Engine) run(ctx context.Context, wf *Workflow, catalog *tabular.Catalog, limit int) (*Result, error) {
	log := ctxlog.FromContext(ctx)
	if err := e.Validate(wf, catalog); err != nil {
		return nil, err
	}
	for _, s := range wf.Steps {
		s.reset()
	}

	resolver := tabular.NewResolver(catalog)
	rows, cols := workingSet(catalog.First(), limit)
	start := time.Now()
	steps := make([]StepResult, 0, len(wf.Steps))

	for i, step := range wf.Steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		step.transition(StatusProcessing)
		stepStart := time.Now()
		log.Debug("Running step.", "index", i, "name", step.Name, "kind", step.Kind)

		outRows, outCols, err := e.runStep(ctx, step, rows, cols, catalog, resolver, limit)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			// The step fails, the workflow does not: later steps see the
			// rows as they were before this one.
			step.err = err
			step.transition(StatusFailed)
			log.Warn("Step failed.", "index", i, "name", step.Name, "error", err)
		} else {
			rows, cols = outRows, outCols
			step.transition(StatusCompleted)
		}
		steps = append(steps, StepResult{
			StepIndex:           i,
			StepName:            step.Name,
			Status:              step.Status(),
			RowCount:            len(rows),
			ExecutionTimeMS:     time.Since(stepStart).Milliseconds(),
			MemoryEstimateBytes: estimateMemory(rows),
			Err:                 step.Err(),
		})
	}

	res := newResult(wf.Name, cols, rows, limit, time.Since(start).Milliseconds(), steps)
	log.Info("Workflow finished.", "workflow", wf.Name, "rows", res.RowCount, "ms", res.ExecutionTimeMS)
	return res, nil
}

func (e *Engine) runStep(ctx context.Context, step *Step, rows []tabular.Row, cols []string, catalog *tabular.Catalog, resolver *tabular.Resolver, limit int) ([]tabular.Row, []string, error) {
	switch step.Kind {
	case KindSheetSelect:
		sheet, ok := catalog.SheetNamed(step.Sheet)
		if !ok {
			return nil, nil, fmt.Errorf("no source has sheet %q", step.Sheet)
		}
		outRows, outCols := workingSet(sheet, limit)
		return outRows, outCols, nil

	case KindColumnSelect:
		return selectColumn(step, rows, cols, resolver)

	case KindCustomLiteral:
		out := make([]tabular.Row, len(rows))
		for i, r := range rows {
			nr := r.Clone()
			nr[step.Target] = step.Literal
			out[i] = nr
		}
		return out, appendColumn(cols, step.Target), nil

	case KindFormulaApply:
		return e.applyFormula(ctx, step, rows, cols)
	}
	return nil, nil, fmt.Errorf("unknown step kind %q", step.Kind)
}

// selectColumn pulls the referenced column into the working rows, aligned
// by row index. Rows past the source's end read as null.
func selectColumn(step *Step, rows []tabular.Row, cols []string, resolver *tabular.Resolver) ([]tabular.Row, []string, error) {
	for _, c := range cols {
		if c == step.Ref.Column {
			return rows, cols, nil
		}
	}
	rc, err := resolver.Resolve(step.Ref)
	if err != nil {
		return nil, nil, err
	}
	src := rc.Source.Column(rc.Column)
	out := make([]tabular.Row, len(rows))
	for i, r := range rows {
		nr := r.Clone()
		if i < len(src) {
			nr[rc.Column] = src[i]
		}
		out[i] = nr
	}
	return out, appendColumn(cols, rc.Column), nil
}

func (e *Engine) applyFormula(ctx context.Context, step *Step, rows []tabular.Row, cols []string) ([]tabular.Row, []string, error) {
	reg, err := e.registry.Lookup(step.Formula)
	if err != nil {
		return nil, nil, err
	}
	params := reg.ApplyDefaults(step.Params)
	if err := reg.Validate(params); err != nil {
		return nil, nil, err
	}

	var out []tabular.Row
	if chunkable(reg.Exec) && len(rows) > e.opts.ChunkSize && e.opts.Workers > 1 {
		out, err = e.executeChunked(ctx, reg.Exec, rows, params)
	} else {
		out, err = reg.Exec.Execute(rows, params)
	}
	if err != nil {
		return nil, nil, &formula.ExecutionError{Formula: step.Formula, Cause: err}
	}

	outCols := reg.Exec.OutputColumns(params)
	if reshapes(reg.Exec) {
		// A reshaper that declares no schema of its own keeps the rows'
		// existing shape; deriving columns from row maps would make the
		// output order depend on map iteration.
		if len(outCols) == 0 {
			return out, cols, nil
		}
		ds := tabular.NewDataset("", "", outCols, out)
		return out, ds.Columns, nil
	}
	merged := cols
	for _, c := range outCols {
		merged = appendColumn(merged, c)
	}
	if step.Target != "" && len(outCols) == 1 {
		out, merged = renameColumn(out, merged, outCols[0], step.Target)
	}
	if err := checkSchemaGrowth(cols, merged); err != nil {
		return nil, nil, err
	}
	return out, merged, nil
}

// executeChunked splits the rows into fixed-size chunks, runs the executor
// over them on a bounded errgroup, and reassembles the outputs in chunk
// order. Only executors that declared themselves row-independent get here.
func (e *Engine) executeChunked(ctx context.Context, exec formula.Executor, rows []tabular.Row, params formula.Params) ([]tabular.Row, error) {
	size := e.opts.ChunkSize
	n := (len(rows) + size - 1) / size
	parts := make([][]tabular.Row, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)
	for i := 0; i < n; i++ {
		i := i
		lo := i * size
		hi := lo + size
		if hi > len(rows) {
			hi = len(rows)
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			part, err := exec.Execute(rows[lo:hi], params)
			if err != nil {
				return err
			}
			parts[i] = part
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]tabular.Row, 0, len(rows))
	for _, p := range parts {
		out = append(out, p...)
	}
	return out, nil
}

// checkSchemaGrowth enforces that a non-reshaping step only ever widens the
// schema. Losing a column mid-pipeline breaks every later reference to it.
func checkSchemaGrowth(before, after []string) error {
	have := make(map[string]bool, len(after))
	for _, c := range after {
		have[c] = true
	}
	for _, c := range before {
		if !have[c] {
			return fmt.Errorf("step output dropped column %q", c)
		}
	}
	return nil
}

func (e *Engine) hasAggregate(wf *Workflow) bool {
	for _, step := range wf.Steps {
		if step.Kind != KindFormulaApply {
			continue
		}
		if reg, err := e.registry.Lookup(step.Formula); err == nil && aggregates(reg.Exec) {
			return true
		}
	}
	return false
}

// workingSet clones the dataset's rows so executors never touch loaded
// source data. limit bounds the copy; zero means everything.
func workingSet(ds *tabular.Dataset, limit int) ([]tabular.Row, []string) {
	if ds == nil {
		return nil, nil
	}
	n := len(ds.Rows)
	if limit > 0 && limit < n {
		n = limit
	}
	rows := make([]tabular.Row, n)
	for i := 0; i < n; i++ {
		rows[i] = ds.Rows[i].Clone()
	}
	cols := make([]string, len(ds.Columns))
	copy(cols, ds.Columns)
	return rows, cols
}

func appendColumn(cols []string, name string) []string {
	for _, c := range cols {
		if c == name {
			return cols
		}
	}
	out := make([]string, len(cols), len(cols)+1)
	copy(out, cols)
	return append(out, name)
}

func renameColumn(rows []tabular.Row, cols []string, from, to string) ([]tabular.Row, []string) {
	if from == to {
		return rows, cols
	}
	outCols := make([]string, len(cols))
	for i, c := range cols {
		if c == from {
			c = to
		}
		outCols[i] = c
	}
	out := make([]tabular.Row, len(rows))
	for i, r := range rows {
		nr := r.Clone()
		if v, ok := nr[from]; ok {
			delete(nr, from)
			nr[to] = v
		}
		out[i] = nr
	}
	return out, outCols
}

func chunkable(exec formula.Executor) bool {
	c, ok := exec.(formula.Chunkable)
	return ok && c.Chunkable()
}

func reshapes(exec formula.Executor) bool {
	r, ok := exec.(formula.Reshaper)
	return ok && r.Reshapes()
}

func aggregates(exec formula.Executor) bool {
	a, ok := exec.(formula.Aggregate)
	return ok && a.Aggregates()
}
