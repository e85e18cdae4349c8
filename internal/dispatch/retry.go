package dispatch

import (
	"context"
	"errors"
	"time"

	"github.com/vietddude/dispatcher/internal/core/domain"
)

// ErrCircuitOpen is the cause recorded on rejected outcomes.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// runItem drives up to RetryCount attempts of the operation for one item,
// with exponential backoff between attempts, short-circuiting through the
// shared breaker. The permit is held only for the duration of the call
// itself, never across the backoff sleep.
func (e *Executor) runItem(ctx context.Context, item domain.WorkItem) domain.Outcome {
	log := e.log.With("item", item.ID)

	var lastErr error
	for attempt := 0; attempt < e.cfg.RetryCount; attempt++ {
		if err := e.limiter.Acquire(ctx); err != nil {
			return e.outcome(item, domain.StatusFailure, "", attempt, err)
		}

		if e.breaker.IsOpen() {
			e.limiter.Release()
			log.Warn("Circuit is open, rejecting item")
			return e.outcome(item, domain.StatusRejected, "", attempt, ErrCircuitOpen)
		}

		AttemptsTotal.Inc()
		InflightCalls.Inc()
		start := time.Now()
		result, err := e.op.Call(ctx, item)
		CallLatency.Observe(time.Since(start).Seconds())
		InflightCalls.Dec()
		e.limiter.Release()

		if err == nil {
			log.Debug("Attempt succeeded", "attempt", attempt)
			return e.outcome(item, domain.StatusSuccess, result, attempt+1, nil)
		}

		lastErr = err
		AttemptErrorsTotal.Inc()
		log.Error("Service call failed", "attempt", attempt, "error", err)

		if e.breaker.RecordFailure() {
			// Tripped during this attempt, or by a sibling. Stop retrying.
			return e.outcome(item, domain.StatusRejected, "", attempt+1, ErrCircuitOpen)
		}

		if attempt == e.cfg.RetryCount-1 {
			break
		}

		delay := e.cfg.BaseDelay << attempt
		if err := e.sleep(ctx, delay); err != nil {
			return e.outcome(item, domain.StatusFailure, "", attempt+1, err)
		}
	}

	log.Error("All retries failed", "attempts", e.cfg.RetryCount, "error", lastErr)
	return e.outcome(item, domain.StatusFailure, "", e.cfg.RetryCount, lastErr)
}

// sleepContext waits for the delay unless the context is cancelled first.
func sleepContext(ctx context.Context, delay time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}
