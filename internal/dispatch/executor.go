package dispatch

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vietddude/dispatcher/internal/core/domain"
)

// Config holds the executor settings.
type Config struct {
	PoolSize         int           // Max in-flight service calls (default: 10)
	RetryCount       int           // Attempts per item (default: 3)
	FailureThreshold int           // Failures before the breaker opens (default: 5)
	BaseDelay        time.Duration // First backoff delay, doubles per attempt (default: 1s)
}

// DefaultConfig returns default executor configuration.
func DefaultConfig() Config {
	return Config{
		PoolSize:         10,
		RetryCount:       3,
		FailureThreshold: 5,
		BaseDelay:        time.Second,
	}
}

// Executor fans the retry policy out over all items of a batch under the
// concurrency limiter and joins every item before returning. Breaker and
// limiter are created per executor, so each Run shares one breaker across
// all of its items.
type Executor struct {
	cfg     Config
	op      Operation
	breaker *Breaker
	limiter *Limiter
	log     *slog.Logger

	// sleep is swapped out by tests to observe backoff delays.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewExecutor creates an executor for one batch run.
func NewExecutor(cfg Config, op Operation) *Executor {
	def := DefaultConfig()
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = def.PoolSize
	}
	if cfg.RetryCount <= 0 {
		cfg.RetryCount = def.RetryCount
	}
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = def.BaseDelay
	}

	return &Executor{
		cfg:     cfg,
		op:      op,
		breaker: NewBreaker(cfg.FailureThreshold),
		limiter: NewLimiter(cfg.PoolSize),
		log:     slog.Default().With("component", "executor", "operation", op.Name()),
		sleep:   sleepContext,
	}
}

// Breaker exposes the shared breaker, for observation.
func (e *Executor) Breaker() *Breaker {
	return e.breaker
}

// Run dispatches every item concurrently and returns one outcome per item,
// positionally aligned with the input. Malformed items abort the whole batch
// before any work starts; nothing else does. Item failures never cancel
// sibling items.
func (e *Executor) Run(ctx context.Context, items []domain.WorkItem) ([]domain.Outcome, error) {
	for i, item := range items {
		if err := item.Validate(); err != nil {
			return nil, &domain.ErrInvalidItem{Index: i, Reason: err.Error()}
		}
	}

	e.log.Info("Starting batch", "items", len(items), "pool_size", e.cfg.PoolSize)

	outcomes := make([]domain.Outcome, len(items))

	var g errgroup.Group
	for i, item := range items {
		g.Go(func() error {
			outcomes[i] = e.runItem(ctx, item)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes, nil
}

func (e *Executor) outcome(
	item domain.WorkItem,
	status domain.Status,
	result string,
	attempts int,
	cause error,
) domain.Outcome {
	ItemsTotal.WithLabelValues(string(status)).Inc()

	o := domain.Outcome{
		ItemID:    item.ID,
		Status:    status,
		Result:    result,
		Attempts:  attempts,
		Timestamp: time.Now(),
	}
	if cause != nil {
		o.Error = cause.Error()
	}
	return o
}
