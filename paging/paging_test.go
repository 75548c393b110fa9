package paging_test

import (
	"context"
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"github.com/vaudoise/backoffice/paging"
)

// sliceFetcher serves items from memory and records the last request.
func sliceFetcher(items []int, last **paging.FetchRequest) paging.FetchFunc[int] {
	return func(ctx context.Context, req *paging.FetchRequest) (*paging.FetchResponse[int], error) {
		*last = req
		var total *int
		if !paging.SkipCount(ctx) {
			total = lo.ToPtr(len(items))
		}
		start := min(req.Offset, len(items))
		end := min(req.Offset+req.Limit, len(items))
		return &paging.FetchResponse[int]{Content: items[start:end], TotalCount: total}, nil
	}
}

func TestPaginate(t *testing.T) {
	items := lo.Range(45)
	var last *paging.FetchRequest
	p := paging.New(sliceFetcher(items, &last),
		paging.EnsureLimits[int](20, 50),
		paging.EnsurePrimaryOrderBy[int](paging.Order{Field: "id", Direction: paging.DirectionAsc}),
	)
	ctx := context.Background()

	t.Run("first page", func(t *testing.T) {
		page, err := p.Paginate(ctx, &paging.PageRequest{})
		require.NoError(t, err)
		require.Equal(t, lo.Range(20), page.Content)
		require.Equal(t, 45, *page.TotalElements)
		require.Equal(t, 3, *page.TotalPages)
		require.Equal(t, 20, page.Size)
		require.True(t, page.First)
		require.False(t, page.Last)
		require.Equal(t, []paging.Order{{Field: "id", Direction: paging.DirectionAsc}}, last.OrderBy)
		require.Equal(t, 0, last.Offset)
		require.Equal(t, 20, last.Limit)
	})

	t.Run("last page", func(t *testing.T) {
		page, err := p.Paginate(ctx, &paging.PageRequest{Page: 2, Size: 20})
		require.NoError(t, err)
		require.Equal(t, []int{40, 41, 42, 43, 44}, page.Content)
		require.Equal(t, 5, page.NumberOfElements)
		require.False(t, page.First)
		require.True(t, page.Last)
	})

	t.Run("beyond the last page", func(t *testing.T) {
		page, err := p.Paginate(ctx, &paging.PageRequest{Page: 9, Size: 10})
		require.NoError(t, err)
		require.Empty(t, page.Content)
		require.NotNil(t, page.Content)
		require.True(t, page.Empty)
		require.True(t, page.Last)
	})

	t.Run("size is clamped", func(t *testing.T) {
		page, err := p.Paginate(ctx, &paging.PageRequest{Size: 500})
		require.NoError(t, err)
		require.Equal(t, 50, page.Size)
		require.Len(t, page.Content, 45)
		require.True(t, page.Last)
	})

	t.Run("explicit order keeps its direction", func(t *testing.T) {
		_, err := p.Paginate(ctx, &paging.PageRequest{
			Size:    5,
			OrderBy: []paging.Order{{Field: "name", Direction: paging.DirectionDesc}},
		})
		require.NoError(t, err)
		require.Equal(t, []paging.Order{
			{Field: "name", Direction: paging.DirectionDesc},
			{Field: "id", Direction: paging.DirectionAsc},
		}, last.OrderBy)
	})

	t.Run("skip count", func(t *testing.T) {
		page, err := p.Paginate(paging.WithSkipCount(ctx), &paging.PageRequest{Page: 1, Size: 20})
		require.NoError(t, err)
		require.Equal(t, 21, last.Limit)
		require.Len(t, page.Content, 20)
		require.Nil(t, page.TotalElements)
		require.False(t, page.Last)

		page, err = p.Paginate(paging.WithSkipCount(ctx), &paging.PageRequest{Page: 2, Size: 20})
		require.NoError(t, err)
		require.Len(t, page.Content, 5)
		require.True(t, page.Last)
	})

	t.Run("invalid requests", func(t *testing.T) {
		_, err := p.Paginate(ctx, &paging.PageRequest{Page: -1})
		require.ErrorContains(t, err, "page must be a non-negative integer")

		_, err = p.Paginate(ctx, &paging.PageRequest{OrderBy: []paging.Order{{Field: "a"}, {Field: "a"}}})
		require.ErrorContains(t, err, "duplicated order by fields [a]")

		_, err = p.Paginate(ctx, &paging.PageRequest{Page: math.MaxInt / 10, Size: 50})
		require.ErrorContains(t, err, "is out of range for size 50")

		_, err = p.Paginate(ctx, &paging.PageRequest{Page: math.MaxInt, Size: 1})
		require.ErrorContains(t, err, "is out of range for size 1")

		raw := paging.New(sliceFetcher(items, &last))
		_, err = raw.Paginate(ctx, &paging.PageRequest{})
		require.ErrorContains(t, err, "size must be a positive integer")
	})

	t.Run("fetch error", func(t *testing.T) {
		failing := paging.New(func(ctx context.Context, req *paging.FetchRequest) (*paging.FetchResponse[int], error) {
			return nil, errors.New("boom")
		})
		_, err := failing.Paginate(ctx, &paging.PageRequest{Size: 1})
		require.EqualError(t, err, "boom")
	})
}

func TestEnsureLimitsPanics(t *testing.T) {
	require.Panics(t, func() { paging.EnsureLimits[int](0, 10) })
	require.Panics(t, func() { paging.EnsureLimits[int](20, 10) })
	require.Panics(t, func() { paging.New[int](nil) })
}

func TestMap(t *testing.T) {
	page := &paging.Page[int]{Content: []int{1, 2}, TotalElements: lo.ToPtr(2), Number: 0, Size: 20, First: true, Last: true, NumberOfElements: 2}
	mapped := paging.Map(page, func(i int) string { return string(rune('a' + i)) })
	require.Equal(t, []string{"b", "c"}, mapped.Content)
	require.Equal(t, page.TotalElements, mapped.TotalElements)
	require.True(t, mapped.Last)
	require.Nil(t, paging.Map[int, string](nil, nil))
}

func TestParseOrder(t *testing.T) {
	tests := []struct {
		in      string
		want    paging.Order
		wantErr string
	}{
		{in: "name", want: paging.Order{Field: "name", Direction: paging.DirectionAsc}},
		{in: "name,asc", want: paging.Order{Field: "name", Direction: paging.DirectionAsc}},
		{in: " name , DESC ", want: paging.Order{Field: "name", Direction: paging.DirectionDesc}},
		{in: ",asc", wantErr: "missing field"},
		{in: "name,up", wantErr: "unknown direction"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := paging.ParseOrder(tt.in)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
