package concurrent

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Map applies fn to every element of in on at most limit goroutines and
// returns the results in input order. A limit <= 0 uses GOMAXPROCS. The first
// error cancels the context handed to the remaining calls and is returned.
func Map[T any, R any](ctx context.Context, in []T, limit int, fn func(context.Context, T) (R, error)) ([]R, error) {
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	out := make([]R, len(in))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, v := range in {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := fn(gctx, v)
			if err != nil {
				return err
			}
			out[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// ForEach runs fn for every element of in on at most limit goroutines and
// waits for all of them. It returns the first error encountered.
func ForEach[T any](ctx context.Context, in []T, limit int, fn func(context.Context, T) error) error {
	_, err := Map(ctx, in, limit, func(ctx context.Context, v T) (struct{}, error) {
		return struct{}{}, fn(ctx, v)
	})
	return err
}
