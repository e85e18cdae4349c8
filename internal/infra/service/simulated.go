package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/vietddude/dispatcher/internal/core/domain"
)

// SimulatedOperation stands in for a real service. It waits a little and
// echoes the payload, failing a configurable fraction of calls. Used when
// no endpoint is configured, and in failure drills.
type SimulatedOperation struct {
	delay       time.Duration
	failureRate float64
}

// NewSimulatedOperation creates a simulated operation with the given
// failure rate in [0, 1].
func NewSimulatedOperation(failureRate float64) *SimulatedOperation {
	return &SimulatedOperation{
		delay:       100 * time.Millisecond,
		failureRate: failureRate,
	}
}

// Name identifies the operation in logs.
func (o *SimulatedOperation) Name() string { return "simulated" }

// Call simulates one service call.
func (o *SimulatedOperation) Call(ctx context.Context, item domain.WorkItem) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(o.delay):
	}

	if o.failureRate > 0 && rand.Float64() < o.failureRate {
		return "", fmt.Errorf("simulated failure for item %d", item.ID)
	}
	return item.Payload, nil
}
