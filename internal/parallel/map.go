// Package parallel runs a function over a lazy sequence with a bounded
// number of goroutines.
package parallel

import (
	"context"
	"iter"

	"golang.org/x/sync/errgroup"
)

// Map applies f to every value of a sequence, running at most limit calls
// concurrently.
type Map[T, R any] struct {
	ctx   context.Context
	limit int
	f     func(context.Context, T) (R, error)
}

type result[R any] struct {
	value R
	err   error
}

func NewMap[T, R any](ctx context.Context, limit int, f func(context.Context, T) (R, error)) Map[T, R] {
	if limit < 1 {
		limit = 1
	}
	return Map[T, R]{
		ctx:   ctx,
		limit: limit,
		f:     f,
	}
}

// Iter returns the results in completion order. Errors from seq are passed
// through, errors of f are returned with the value f returned.
//
// Once the context is canceled or the consumer stops the iteration, no new
// calls are started and results of the calls still running are dropped.
// Iter does not return before all goroutines have finished.
func (m Map[T, R]) Iter(seq iter.Seq2[T, error]) iter.Seq2[R, error] {
	return func(yield func(R, error) bool) {
		ctx, cancel := context.WithCancel(m.ctx)
		defer cancel()

		results := make(chan result[R])
		send := func(r result[R]) {
			select {
			case results <- r:
			case <-ctx.Done():
			}
		}

		go func() {
			defer close(results)
			var g errgroup.Group
			g.SetLimit(m.limit)
			for x, err := range seq {
				if ctx.Err() != nil {
					break
				}
				if err != nil {
					send(result[R]{err: err})
					continue
				}
				g.Go(func() error {
					// g.Go may have waited for a free slot
					if ctx.Err() != nil {
						return nil
					}
					v, err := m.f(ctx, x)
					if ctx.Err() != nil {
						return nil
					}
					send(result[R]{value: v, err: err})
					return nil
				})
			}
			_ = g.Wait()
		}()

		for r := range results {
			if !yield(r.value, r.err) {
				cancel()
				for range results {
				}
				return
			}
		}
	}
}
