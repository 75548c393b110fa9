package hook

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fn func(s string) string

func wrap(tag string) func(next fn) fn {
	return func(next fn) fn {
		return func(s string) string {
			return tag + "(" + next(s) + ")"
		}
	}
}

func TestChain(t *testing.T) {
	require.Nil(t, Chain[fn]())
	require.Nil(t, Chain[fn](nil, nil))

	h := Chain(wrap("a"), nil, wrap("b"))
	got := h(func(s string) string { return s })("x")
	require.Equal(t, "a(b(x))", got)
}
