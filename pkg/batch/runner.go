// Package batch runs one directions request per input row and merges the
// flattened results back onto the input table.
package batch

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/YONSEI-TPLAB/map-api/pkg/flatten"
	"github.com/YONSEI-TPLAB/map-api/pkg/table"
)

// JoinKey is the temporary column holding each row's query string.
const JoinKey = "params"

// ErrorPolicy decides what a failed row does to the batch.
type ErrorPolicy int

const (
	// Strict aborts the batch on the first failed row.
	Strict ErrorPolicy = iota
	// Isolate logs the failure and leaves the row's result columns null.
	Isolate
)

// Job builds and resolves the request for one row.
type Job interface {
	// Params serializes one input row into its query string.
	Params(r table.Record) (string, error)
	// Resolve performs the request for a query string and flattens the response.
	Resolve(ctx context.Context, params string) (flatten.Result, error)
	// Columns is the result column set, including JoinKey.
	Columns() []string
}

// RowError reports which input row failed.
type RowError struct {
	Row    int
	Params string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Stats counts row outcomes of a run.
type Stats struct {
	Rows        int
	Success     int
	Empty       int
	Unsupported int
	Failed      int
}

// Runner executes jobs row by row.
type Runner struct {
	logger   *zap.Logger
	policy   ErrorPolicy
	progress func(done, total int)
}

// Option configures a Runner
type Option func(*Runner)

// WithLogger sets the runner's logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithPolicy sets the error policy. The default is Strict.
func WithPolicy(p ErrorPolicy) Option {
	return func(r *Runner) { r.policy = p }
}

// WithProgress registers a callback invoked after every row.
func WithProgress(fn func(done, total int)) Option {
	return func(r *Runner) { r.progress = fn }
}

// NewRunner creates a runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{logger: zap.NewNop(), policy: Strict}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run builds each row's query just before resolving it, so rows without a
// departure time are stamped when their request goes out. The results are
// joined onto a copy of input, the join key is dropped and duplicate rows
// are removed. The input table is not modified.
func (r *Runner) Run(ctx context.Context, job Job, input *table.Table) (*table.Table, Stats, error) {
	stats := Stats{Rows: input.Len()}

	if input.Index(JoinKey) >= 0 {
		return nil, stats, fmt.Errorf("input table already has a %q column", JoinKey)
	}

	keyed := &table.Table{Columns: append(append([]string(nil), input.Columns...), JoinKey)}
	results := []*table.Table{table.New(job.Columns()...)}
	for i := 0; i < input.Len(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}

		// A nil key leaves the row's result columns null after the join
		row := append(append([]any(nil), input.Rows[i]...), nil)
		keyed.Rows = append(keyed.Rows, row)

		p, err := job.Params(input.Record(i))
		if err != nil {
			stats.Failed++
			if r.policy == Strict {
				return nil, stats, &RowError{Row: i, Err: err}
			}
			r.logger.Warn("row has no valid query, leaving result columns empty",
				zap.Int("row", i),
				zap.Error(err),
			)
			r.report(i+1, input.Len())
			continue
		}
		row[len(row)-1] = p

		res, err := job.Resolve(ctx, p)
		if err != nil {
			stats.Failed++
			rowErr := &RowError{Row: i, Params: p, Err: err}
			if r.policy == Strict || errors.Is(err, context.Canceled) {
				return nil, stats, rowErr
			}
			r.logger.Warn("row failed, leaving result columns empty",
				zap.Int("row", i),
				zap.String("params", p),
				zap.Error(err),
			)
			r.report(i+1, input.Len())
			continue
		}

		switch res.Outcome {
		case flatten.Success:
			stats.Success++
		case flatten.Empty:
			stats.Empty++
			r.logger.Info("empty response", zap.Int("row", i), zap.String("params", p))
		case flatten.Unsupported:
			stats.Unsupported++
			r.logger.Warn("unsupported response status, no rows produced",
				zap.Int("row", i),
				zap.String("status", res.Status),
				zap.String("params", p),
			)
		}
		results = append(results, res.Table)
		r.report(i+1, input.Len())
	}

	merged, err := table.LeftJoin(keyed, table.Concat(results...), JoinKey)
	if err != nil {
		return nil, stats, err
	}
	merged.Drop(JoinKey)
	merged.Dedup()

	r.logger.Info("batch finished",
		zap.Int("rows", stats.Rows),
		zap.Int("success", stats.Success),
		zap.Int("empty", stats.Empty),
		zap.Int("unsupported", stats.Unsupported),
		zap.Int("failed", stats.Failed),
		zap.Int("output_rows", merged.Len()),
	)
	return merged, stats, nil
}

func (r *Runner) report(done, total int) {
	if r.progress != nil {
		r.progress(done, total)
	}
}
