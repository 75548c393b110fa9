package service

import (
	"time"

	"github.com/vaudoise/backoffice/store"
)

type options struct {
	now        func() time.Time
	repository []store.RepositoryOption
}

type Option func(*options)

// WithClock replaces time.Now, which decides what "today" is.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func WithPageSizes(defaultSize, maxSize int) Option {
	return func(o *options) {
		o.repository = append(o.repository, store.WithPageSizes(defaultSize, maxSize))
	}
}

func newOptions(opts []Option) *options {
	o := &options{now: time.Now}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
