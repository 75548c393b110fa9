package paging

import (
	"context"
	"math"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/vaudoise/backoffice/internal/hook"
)

type Direction string

const (
	DirectionAsc  Direction = "ASC"
	DirectionDesc Direction = "DESC"
)

type Order struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

func (o Order) Desc() bool {
	return strings.EqualFold(string(o.Direction), string(DirectionDesc))
}

// ParseOrder parses "field" or "field,asc|desc".
func ParseOrder(s string) (Order, error) {
	field, dir, _ := strings.Cut(strings.TrimSpace(s), ",")
	field = strings.TrimSpace(field)
	if field == "" {
		return Order{}, errors.Errorf("invalid order %q: missing field", s)
	}
	switch strings.ToUpper(strings.TrimSpace(dir)) {
	case "", string(DirectionAsc):
		return Order{Field: field, Direction: DirectionAsc}, nil
	case string(DirectionDesc):
		return Order{Field: field, Direction: DirectionDesc}, nil
	default:
		return Order{}, errors.Errorf("invalid order %q: unknown direction %q", s, dir)
	}
}

// PageRequest asks for the zero based page Page of Size elements.
type PageRequest struct {
	Page    int     `json:"page"`
	Size    int     `json:"size"`
	OrderBy []Order `json:"orderBy"`
}

type Page[T any] struct {
	Content          []T  `json:"content"`
	TotalElements    *int `json:"totalElements,omitempty"`
	TotalPages       *int `json:"totalPages,omitempty"`
	Number           int  `json:"number"`
	Size             int  `json:"size"`
	NumberOfElements int  `json:"numberOfElements"`
	First            bool `json:"first"`
	Last             bool `json:"last"`
	Empty            bool `json:"empty"`
}

type FetchRequest struct {
	OrderBy []Order
	Offset  int
	Limit   int
}

type FetchResponse[T any] struct {
	Content    []T
	TotalCount *int
}

// FetchFunc loads Limit elements starting at Offset. TotalCount may be nil when the
// count is skipped, see WithSkipCount.
type FetchFunc[T any] func(ctx context.Context, req *FetchRequest) (*FetchResponse[T], error)

func paginate[T any](ctx context.Context, req *PageRequest, fetch FetchFunc[T]) (*Page[T], error) {
	if req.Page < 0 {
		return nil, errors.New("page must be a non-negative integer")
	}
	if req.Size <= 0 {
		return nil, errors.New("size must be a positive integer")
	}
	// (Page+1)*Size plus the look-ahead element must fit in an int
	if req.Page >= (math.MaxInt-1)/req.Size {
		return nil, errors.Errorf("page %d is out of range for size %d", req.Page, req.Size)
	}

	if len(req.OrderBy) > 0 {
		dups := lo.FindDuplicatesBy(req.OrderBy, func(item Order) string {
			return item.Field
		})
		if len(dups) > 0 {
			return nil, errors.Errorf("duplicated order by fields %v", lo.Map(dups, func(item Order, _ int) string {
				return item.Field
			}))
		}
	}

	skipCount := SkipCount(ctx)

	// without a count, one extra element tells whether this is the last page
	limit := req.Size
	if skipCount {
		limit++
	}

	rsp, err := fetch(ctx, &FetchRequest{
		OrderBy: req.OrderBy,
		Offset:  req.Page * req.Size,
		Limit:   limit,
	})
	if err != nil {
		return nil, err
	}

	content := rsp.Content
	if content == nil {
		content = []T{}
	}

	var hasNext bool
	if len(content) > req.Size {
		content = content[:req.Size]
		hasNext = true
	}

	page := &Page[T]{
		Content:          content,
		Number:           req.Page,
		Size:             req.Size,
		NumberOfElements: len(content),
		First:            req.Page == 0,
		Empty:            len(content) == 0,
	}
	if rsp.TotalCount != nil && !skipCount {
		total := *rsp.TotalCount
		totalPages := (total + req.Size - 1) / req.Size
		page.TotalElements = &total
		page.TotalPages = &totalPages
		hasNext = (req.Page+1)*req.Size < total
	}
	page.Last = !hasNext
	return page, nil
}

type Paginator[T any] interface {
	Paginate(ctx context.Context, req *PageRequest) (*Page[T], error)
}

type PaginatorFunc[T any] func(ctx context.Context, req *PageRequest) (*Page[T], error)

func (f PaginatorFunc[T]) Paginate(ctx context.Context, req *PageRequest) (*Page[T], error) {
	return f(ctx, req)
}

func New[T any](fetch FetchFunc[T], hooks ...func(next Paginator[T]) Paginator[T]) Paginator[T] {
	if fetch == nil {
		panic("fetch must be set")
	}

	var p Paginator[T] = PaginatorFunc[T](func(ctx context.Context, req *PageRequest) (*Page[T], error) {
		return paginate(ctx, req, fetch)
	})

	h := hook.Chain(hooks...)
	if h != nil {
		p = h(p)
	}
	return p
}

// Map converts the content of page, keeping its numbering.
func Map[E, R any](page *Page[E], fn func(E) R) *Page[R] {
	if page == nil {
		return nil
	}
	return &Page[R]{
		Content: lo.Map(page.Content, func(item E, _ int) R {
			return fn(item)
		}),
		TotalElements:    page.TotalElements,
		TotalPages:       page.TotalPages,
		Number:           page.Number,
		Size:             page.Size,
		NumberOfElements: page.NumberOfElements,
		First:            page.First,
		Last:             page.Last,
		Empty:            page.Empty,
	}
}
