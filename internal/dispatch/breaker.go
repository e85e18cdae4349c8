package dispatch

import (
	"log/slog"
	"sync"
)

// Breaker is a one-shot circuit breaker shared by every retry loop in a
// batch run. It counts failures across all items and flips to open once the
// count exceeds the threshold. There is no half-open probing: once open it
// stays open for the remainder of the run.
type Breaker struct {
	mu        sync.Mutex
	failures  int
	threshold int
	open      bool
	log       *slog.Logger
}

// NewBreaker creates a breaker that opens after threshold failures.
func NewBreaker(threshold int) *Breaker {
	return &Breaker{
		threshold: threshold,
		log:       slog.Default().With("component", "breaker"),
	}
}

// RecordFailure increments the shared failure count and trips the breaker
// when the count exceeds the threshold. The check and the transition happen
// under one lock hold so exactly one caller observes the trip. Returns true
// if the breaker is open after recording.
func (b *Breaker) RecordFailure() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures++
	if !b.open && b.failures > b.threshold {
		b.open = true
		BreakerTrips.Inc()
		b.log.Error("Circuit opened due to excessive failures", "failures", b.failures)
	}
	return b.open
}

// IsOpen reports whether the breaker has tripped.
func (b *Breaker) IsOpen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.open
}

// Failures returns the number of failures recorded so far.
func (b *Breaker) Failures() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures
}
