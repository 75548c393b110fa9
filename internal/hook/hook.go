package hook

import "github.com/samber/lo"

// Chain composes hooks so that the first one is the outermost.
// It returns nil when there is nothing to chain.
func Chain[T any](hooks ...func(next T) T) func(next T) T {
	hooks = lo.Filter(hooks, func(h func(next T) T, _ int) bool {
		return h != nil
	})
	if len(hooks) == 0 {
		return nil
	}
	return func(next T) T {
		for i := len(hooks) - 1; i >= 0; i-- {
			next = hooks[i](next)
		}
		return next
	}
}
