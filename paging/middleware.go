package paging

import (
	"context"

	"github.com/samber/lo"
)

// EnsureLimits uses defaultSize when the requested size is not positive and clamps it to maxSize.
func EnsureLimits[T any](defaultSize, maxSize int) func(next Paginator[T]) Paginator[T] {
	if defaultSize <= 0 {
		panic("defaultSize must be greater than 0")
	}
	if maxSize < defaultSize {
		panic("maxSize must be greater than or equal to defaultSize")
	}
	return func(next Paginator[T]) Paginator[T] {
		return PaginatorFunc[T](func(ctx context.Context, req *PageRequest) (*Page[T], error) {
			if req.Size <= 0 {
				req.Size = defaultSize
			}
			if req.Size > maxSize {
				req.Size = maxSize
			}
			return next.Paginate(ctx, req)
		})
	}
}

func EnsurePrimaryOrderBy[T any](primaryOrderBy ...Order) func(next Paginator[T]) Paginator[T] {
	return func(next Paginator[T]) Paginator[T] {
		return PaginatorFunc[T](func(ctx context.Context, req *PageRequest) (*Page[T], error) {
			req.OrderBy = AppendPrimaryOrderBy(req.OrderBy, primaryOrderBy...)
			return next.Paginate(ctx, req)
		})
	}
}

func AppendPrimaryOrderBy(orderBy []Order, primaryOrderBy ...Order) []Order {
	if len(primaryOrderBy) == 0 {
		return orderBy
	}
	orderByFields := lo.SliceToMap(orderBy, func(orderBy Order) (string, bool) {
		return orderBy.Field, true
	})
	for _, primaryOrderBy := range primaryOrderBy {
		if _, ok := orderByFields[primaryOrderBy.Field]; !ok {
			orderBy = append(orderBy, primaryOrderBy)
		}
	}
	return orderBy
}
