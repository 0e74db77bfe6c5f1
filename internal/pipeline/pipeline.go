package pipeline

import (
	"context"
	"runtime"
	"sync"
)

// Result is the outcome of one unit of work, stored at its input index.
type Result[R any] struct {
	Value R
	Err   error
}

// Map runs fn over items on a bounded pool. Results keep input order
// whatever the completion order. Once ctx is done no new units start and
// the remaining slots report ctx.Err().
func Map[T, R any](ctx context.Context, items []T, workers int, fn func(context.Context, T) (R, error)) []Result[R] {
	if len(items) == 0 || fn == nil {
		return nil
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
		if workers < 1 {
			workers = 1
		}
	}
	workers = min(workers, len(items))

	out := make([]Result[R], len(items))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					out[i].Err = err
					continue
				}
				v, err := fn(ctx, items[i])
				out[i] = Result[R]{Value: v, Err: err}
			}
		}()
	}

	next := 0
feed:
	for ; next < len(items); next++ {
		select {
		case jobs <- next:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	for i := next; i < len(items); i++ {
		out[i].Err = ctx.Err()
	}
	return out
}
