package paging

import "context"

type ctxKeySkipCount struct{}

// WithSkipCount makes fetchers skip the count query. Pages then carry no totals.
func WithSkipCount(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxKeySkipCount{}, true)
}

func SkipCount(ctx context.Context) bool {
	skip, _ := ctx.Value(ctxKeySkipCount{}).(bool)
	return skip
}
