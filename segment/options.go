package segment

import (
	"context"

	"github.com/hupe1980/schemaidx/codec"
)

// IOLimiter admits segment bytes before they are read or written.
type IOLimiter interface {
	AcquireIO(ctx context.Context, bytes int) error
}

type options struct {
	pageSize int
	codec    codec.Type
	limiter  IOLimiter
}

// Option configures a Writer or Open.
type Option func(*options)

// WithPageSize sets the uncompressed page size. Only writers use it.
func WithPageSize(size int) Option {
	return func(o *options) { o.pageSize = size }
}

// WithCodec sets the block codec. Only writers use it; readers take the
// codec from the header.
func WithCodec(c codec.Type) Option {
	return func(o *options) { o.codec = c }
}

// WithIOLimiter throttles payload reads in Open.
func WithIOLimiter(l IOLimiter) Option {
	return func(o *options) { o.limiter = l }
}

func applyOptions(optFns []Option) options {
	o := options{
		pageSize: DefaultPageSize,
		codec:    codec.Default,
	}
	for _, fn := range optFns {
		fn(&o)
	}
	return o
}

func (o *options) acquireIO(ctx context.Context, n int) error {
	if o.limiter == nil {
		return nil
	}
	return o.limiter.AcquireIO(ctx, n)
}
