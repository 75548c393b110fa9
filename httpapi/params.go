package httpapi

import (
	"context"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vaudoise/backoffice/insurance"
	"github.com/vaudoise/backoffice/paging"
	"github.com/vaudoise/backoffice/service"
)

// Ids and numbers are plain base 10.
func pathID(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid id %q", raw)
	}
	return id, nil
}

func queryInt(q url.Values, name string) (*int64, error) {
	raw := q.Get(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid %s %q", name, raw)
	}
	return &n, nil
}

func queryDate(q url.Values, name string) (*insurance.Date, error) {
	raw := q.Get(name)
	if raw == "" {
		return nil, nil
	}
	d, err := insurance.ParseDate(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid %s %q", name, raw)
	}
	return &d, nil
}

// maxPage keeps page*size within an int for any clamped size.
const maxPage = math.MaxInt32

// pageRequest reads page, size and any number of sort=field[,asc|desc] parameters.
func pageRequest(q url.Values) (*paging.PageRequest, error) {
	req := &paging.PageRequest{}

	page, err := queryInt(q, "page")
	if err != nil {
		return nil, err
	}
	if page != nil {
		if *page < 0 {
			return nil, errors.Errorf("invalid page %d: must not be negative", *page)
		}
		if *page > maxPage {
			return nil, errors.Errorf("invalid page %d: must not exceed %d", *page, maxPage)
		}
		req.Page = int(*page)
	}

	size, err := queryInt(q, "size")
	if err != nil {
		return nil, err
	}
	if size != nil {
		req.Size = int(*size)
	}

	for _, s := range q["sort"] {
		order, err := paging.ParseOrder(s)
		if err != nil {
			return nil, err
		}
		req.OrderBy = append(req.OrderBy, order)
	}
	return req, nil
}

// withSkipCount leaves the totals out of the page when skipCount is true.
func withSkipCount(ctx context.Context, q url.Values) (context.Context, error) {
	raw := q.Get("skipCount")
	if raw == "" {
		return ctx, nil
	}
	skip, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid skipCount %q", raw)
	}
	if skip {
		ctx = paging.WithSkipCount(ctx)
	}
	return ctx, nil
}

func activityFilter(q url.Values) (service.ActivityFilter, error) {
	after, err := queryDate(q, "updatedAfter")
	if err != nil {
		return service.ActivityFilter{}, err
	}
	before, err := queryDate(q, "updatedBefore")
	if err != nil {
		return service.ActivityFilter{}, err
	}
	return service.ActivityFilter{UpdatedAfter: after, UpdatedBefore: before}, nil
}

func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return errors.New("request body is empty")
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(err, "decode request body")
	}
	return nil
}
