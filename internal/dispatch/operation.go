package dispatch

import (
	"context"

	"github.com/vietddude/dispatcher/internal/core/domain"
)

// Operation is the external service call a batch is dispatched against.
// Implementations must be safe for concurrent use; the executor never calls
// it with more than PoolSize invocations in flight.
type Operation interface {
	// Name identifies the operation in logs.
	Name() string

	// Call performs the operation for one item and returns its result
	// payload. Any error, including a timeout surfaced by the
	// implementation, counts as one failed attempt.
	Call(ctx context.Context, item domain.WorkItem) (string, error)
}
