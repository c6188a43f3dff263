// Package worker runs per-year normalization jobs on a fixed pool of
// goroutines fed from a bounded queue.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/okian/pdxcrime/internal/adapters/mq/queue"
	"github.com/okian/pdxcrime/pkg/logger"
	"github.com/okian/pdxcrime/pkg/metrics"
)

// Job produces the rows of one year.
type Job[T any] func(ctx context.Context, year int) ([]T, error)

// Pool bounds how many jobs run at once.
type Pool struct {
	size   int
	name   string
	logger logger.Logger
}

type task struct {
	index int
	year  int
}

// NewPool creates a pool. The default size is runtime.NumCPU().
func NewPool(opts ...Option) *Pool {
	p := &Pool{
		size: runtime.NumCPU(),
		name: "worker-pool",
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.Named(p.name)
	}
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return p.size }

// Run executes job for every year and returns the results in the order of
// years. On failure the remaining jobs are cancelled and the error of the
// earliest failing year is returned.
func Run[T any](ctx context.Context, p *Pool, years []int, job Job[T]) ([][]T, error) {
	if len(years) == 0 {
		return nil, nil
	}
	parent := ctx
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	q := queue.NewInMemoryQueue[task](queue.WithCapacity(len(years)))
	for i, y := range years {
		if !q.Enqueue(ctx, task{index: i, year: y}) {
			if err := parent.Err(); err != nil {
				return nil, err
			}
			return nil, fmt.Errorf("%w: year %d", queue.ErrRejected, y)
		}
	}
	_ = q.Close()

	results := make([][]T, len(years))
	errs := make([]error, len(years))
	tasks := q.Dequeue(ctx)

	var wg sync.WaitGroup
	for w := 0; w < min(p.size, len(years)); w++ {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			for t := range tasks {
				if err := ctx.Err(); err != nil {
					errs[t.index] = err
					continue
				}
				rows, err := runJob(ctx, p.logger, name, t, job)
				if err != nil {
					errs[t.index] = fmt.Errorf("year %d: %w", t.year, err)
					cancel()
					continue
				}
				results[t.index] = rows
			}
		}("worker-" + strconv.Itoa(w))
	}
	wg.Wait()

	if err := firstError(errs); err != nil {
		return nil, err
	}
	if err := parent.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func runJob[T any](ctx context.Context, log logger.Logger, name string, t task, job Job[T]) ([]T, error) {
	metrics.RecordWorkerBusy(1)
	defer metrics.RecordWorkerBusy(-1)

	start := time.Now()
	rows, err := job(ctx, t.year)
	log.Debug(ctx, "job finished",
		logger.String("worker", name),
		logger.Year(t.year),
		logger.Int("rows", len(rows)),
		logger.Any("elapsed", time.Since(start)),
		logger.Any("failed", err != nil))
	return rows, err
}

// firstError prefers a real failure over the cancellations it caused.
func firstError(errs []error) error {
	var cancelled error
	for _, err := range errs {
		switch {
		case err == nil:
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			if cancelled == nil {
				cancelled = err
			}
		default:
			return err
		}
	}
	return cancelled
}
