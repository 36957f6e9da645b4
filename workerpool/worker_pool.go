// Package workerpool provides an ants backed pool for running asynchronous
// work, such as engine initializations, off the reactive propagation pass.
package workerpool

import (
	"context"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/pitabwire/util"
)

// Pool runs submitted tasks on managed workers. It satisfies
// reactive.Runner.
type Pool interface {
	Submit(ctx context.Context, task func()) error
	Shutdown()
}

// Options defines configurable options for a pool.
type Options struct {
	Capacity       int
	ExpiryDuration time.Duration
	Nonblocking    bool
	PreAlloc       bool
	PanicHandler   func(any)
	Logger         *util.LogEntry
}

// Option defines a function that configures pool options.
type Option func(*Options)

// WithCapacity sets the number of workers in the pool.
func WithCapacity(capacity int) Option {
	return func(opts *Options) {
		opts.Capacity = capacity
	}
}

// WithExpiryDuration sets the expiry duration for idle workers.
func WithExpiryDuration(duration time.Duration) Option {
	return func(opts *Options) {
		opts.ExpiryDuration = duration
	}
}

// WithNonblocking makes Submit fail instead of waiting when the pool is full.
func WithNonblocking(nonblocking bool) Option {
	return func(opts *Options) {
		opts.Nonblocking = nonblocking
	}
}

// WithPreAlloc pre-allocates memory for the pool.
func WithPreAlloc(preAlloc bool) Option {
	return func(opts *Options) {
		opts.PreAlloc = preAlloc
	}
}

// WithPanicHandler sets a panic handler for worker tasks.
func WithPanicHandler(handler func(any)) Option {
	return func(opts *Options) {
		opts.PanicHandler = handler
	}
}

const defaultCapacity = 10

// New creates a pool. The zero configuration yields a small blocking pool
// logging through the context's logger.
func New(ctx context.Context, opts ...Option) (Pool, error) {
	popts := &Options{
		Capacity: defaultCapacity,
		Logger:   util.Log(ctx),
	}
	for _, opt := range opts {
		opt(popts)
	}

	var antsOpts []ants.Option
	if popts.ExpiryDuration > 0 {
		antsOpts = append(antsOpts, ants.WithExpiryDuration(popts.ExpiryDuration))
	}
	antsOpts = append(antsOpts, ants.WithNonblocking(popts.Nonblocking))
	if popts.PreAlloc {
		antsOpts = append(antsOpts, ants.WithPreAlloc(popts.PreAlloc))
	}
	if popts.PanicHandler != nil {
		antsOpts = append(antsOpts, ants.WithPanicHandler(popts.PanicHandler))
	}
	antsOpts = append(antsOpts, ants.WithLogger(popts.Logger))

	p, err := ants.NewPool(popts.Capacity, antsOpts...)
	if err != nil {
		return nil, err
	}

	return &poolWrapper{pool: p}, nil
}

// poolWrapper adapts *ants.Pool to the Pool interface.
type poolWrapper struct {
	pool *ants.Pool
}

func (w *poolWrapper) Submit(ctx context.Context, task func()) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	return w.pool.Submit(task)
}

func (w *poolWrapper) Shutdown() {
	w.pool.Release()
}
