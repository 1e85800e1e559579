// Package orchestrator provides the bounded worker pool the sync path uses
// for fetch-then-ingest work.
package orchestrator

import (
	"context"
	"log/slog"
	"sync"
)

// Result wraps the output of one unit of work with its error. Index is the
// position of the input the result belongs to.
type Result[Out any] struct {
	Value Out
	Err   error
	Index int
}

// Pool processes inputs with a fixed number of workers. Workers pull from a
// shared queue, so a finished worker is immediately replenished with the
// next remaining input.
type Pool[In, Out any] struct {
	name        string
	concurrency int
	logger      *slog.Logger
	process     func(ctx context.Context, input In) (Out, error)
}

// NewPool creates a pool. Concurrency values below 1 are raised to 1.
func NewPool[In, Out any](name string, concurrency int, logger *slog.Logger, process func(ctx context.Context, input In) (Out, error)) *Pool[In, Out] {
	if concurrency < 1 {
		concurrency = 1
	}

	return &Pool[In, Out]{
		name:        name,
		concurrency: concurrency,
		logger:      logger,
		process:     process,
	}
}

// Run processes all inputs and returns one result per input, in input order.
// Cancellation is cooperative: it is checked between units of work, already
// finished units keep their results, and not-yet-started units carry the
// context error.
func (p *Pool[In, Out]) Run(ctx context.Context, inputs []In) []Result[Out] {
	if len(inputs) == 0 {
		return nil
	}

	workers := p.concurrency
	if workers > len(inputs) {
		workers = len(inputs)
	}

	p.logger.InfoContext(ctx, "starting worker pool",
		"pool", p.name, "workers", workers, "inputs", len(inputs))

	results := make([]Result[Out], len(inputs))
	jobs := make(chan int)

	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for idx := range jobs {
				if err := ctx.Err(); err != nil {
					results[idx] = Result[Out]{Err: err, Index: idx}
					continue
				}

				out, err := p.process(ctx, inputs[idx])
				results[idx] = Result[Out]{Value: out, Err: err, Index: idx}
			}
		}()
	}

	for i := range inputs {
		jobs <- i
	}
	close(jobs)

	wg.Wait()

	return results
}
