package provider

import (
	"context"
	"golang.org/x/sync/errgroup"
)

// Batch runs request-producing closures concurrently and returns results in
// input order, independent of completion order. The first failure cancels
// the remaining calls.
func Batch[T any](ctx context.Context, fns []func(context.Context) (T, error)) ([]T, error) {
	results := make([]T, len(fns))
	group, ctx := errgroup.WithContext(ctx)
	for i, fn := range fns {
		i, fn := i, fn
		group.Go(func() error {
			res, err := fn(ctx)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
