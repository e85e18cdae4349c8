package dispatch

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Limiter caps the number of in-flight service calls across the whole batch.
// It is a counting permit pool: Acquire blocks until a permit is free.
type Limiter struct {
	sem  *semaphore.Weighted
	size int
}

// NewLimiter creates a limiter with the given pool size.
func NewLimiter(size int) *Limiter {
	return &Limiter{
		sem:  semaphore.NewWeighted(int64(size)),
		size: size,
	}
}

// Acquire takes one permit, blocking until one is available or the context
// is done.
func (l *Limiter) Acquire(ctx context.Context) error {
	return l.sem.Acquire(ctx, 1)
}

// Release returns one permit.
func (l *Limiter) Release() {
	l.sem.Release(1)
}

// Size returns the pool capacity.
func (l *Limiter) Size() int {
	return l.size
}
