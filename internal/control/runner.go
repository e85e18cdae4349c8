package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/vietddude/dispatcher/internal/core/config"
	"github.com/vietddude/dispatcher/internal/core/domain"
	"github.com/vietddude/dispatcher/internal/dispatch"
	"github.com/vietddude/dispatcher/internal/infra/emitter"
	redisclient "github.com/vietddude/dispatcher/internal/infra/redis"
	"github.com/vietddude/dispatcher/internal/infra/service"
	"github.com/vietddude/dispatcher/internal/infra/sink"
	"github.com/vietddude/dispatcher/internal/infra/storage/postgres"
)

// ErrNoSuccess reports a batch in which not one item succeeded.
var ErrNoSuccess = errors.New("no items processed successfully")

// Summary is the batch-level outcome report.
type Summary struct {
	BatchID  string
	Total    int
	Success  int
	Failure  int
	Rejected int
}

type closer interface {
	Close() error
}

// Runner wires configuration into an executor, its operation, and the
// result sinks, and drives one batch run end to end.
type Runner struct {
	cfg *config.AppConfig
	op  dispatch.Operation

	fileSink    *sink.FileSink
	outcomeRepo *postgres.OutcomeRepo
	dlq         *redisclient.DeadLetterQueue
	emit        *emitter.NATSEmitter
	server      *Server

	db          *postgres.DB
	redisClient *redisclient.Client

	log *slog.Logger
}

// NewRunner creates a runner with all dependencies initialized.
func NewRunner(cfg *config.AppConfig) (*Runner, error) {
	r := &Runner{
		cfg: cfg,
		log: slog.Default().With("component", "runner"),
	}

	// 1. External operation
	switch cfg.Service.Kind {
	case "http":
		r.op = service.NewHTTPOperation(cfg.Service.Endpoint, cfg.Service.Timeout)
	case "grpc":
		op, err := service.NewGRPCOperation(cfg.Service.Endpoint, cfg.Service.GRPCMethod)
		if err != nil {
			return nil, fmt.Errorf("failed to init grpc operation: %w", err)
		}
		r.op = op
	case "simulated", "":
		r.op = service.NewSimulatedOperation(cfg.Service.FailureRate)
	default:
		return nil, fmt.Errorf("unknown service kind %q", cfg.Service.Kind)
	}

	// 2. Result sinks
	r.fileSink = sink.NewFileSink(cfg.Output.Path)

	if cfg.Database.URL != "" {
		db, err := postgres.NewDB(context.Background(), cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to init db: %w", err)
		}
		r.db = db
		r.outcomeRepo = postgres.NewOutcomeRepo(db)
		slog.Info("Using PostgreSQL outcome storage")
	}

	if cfg.Redis.URL != "" {
		rc, err := redisclient.NewClient(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to init redis: %w", err)
		}
		r.redisClient = rc
		r.dlq = redisclient.NewDeadLetterQueue(rc)
		slog.Info("Using Redis dead-letter queue")
	}

	if cfg.NATS.URL != "" {
		em, err := emitter.Connect(cfg.NATS)
		if err != nil {
			return nil, fmt.Errorf("failed to init nats emitter: %w", err)
		}
		r.emit = em
		slog.Info("Publishing results to NATS", "subject", cfg.NATS.Subject)
	}

	// 3. Health and metrics server
	if cfg.Server.Port > 0 {
		r.server = NewServer(cfg.Server.Port)
		go func() {
			if err := r.server.Start(); err != nil {
				r.log.Warn("Metrics server stopped", "error", err)
			}
		}()
	}

	return r, nil
}

// DrainDeadLetters pops previously failed items back into a batch.
func (r *Runner) DrainDeadLetters(ctx context.Context) ([]domain.WorkItem, error) {
	if r.dlq == nil {
		return nil, nil
	}
	items, err := r.dlq.Drain(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to drain dead-letter queue: %w", err)
	}
	if len(items) > 0 {
		r.log.Info("Drained dead-letter queue", "items", len(items))
	}
	return items, nil
}

// Run executes one batch and routes the outcomes to every configured sink.
func (r *Runner) Run(ctx context.Context, items []domain.WorkItem) (Summary, error) {
	summary := Summary{
		BatchID: uuid.New().String(),
		Total:   len(items),
	}
	log := r.log.With("batch", summary.BatchID)

	exec := dispatch.NewExecutor(dispatch.Config{
		PoolSize:         r.cfg.Dispatch.PoolSize,
		RetryCount:       r.cfg.Dispatch.RetryCount,
		FailureThreshold: r.cfg.Dispatch.FailureThreshold,
		BaseDelay:        r.cfg.Dispatch.BaseDelay,
	}, r.op)

	outcomes, err := exec.Run(ctx, items)
	if err != nil {
		return summary, fmt.Errorf("batch processing failed: %w", err)
	}

	for _, o := range outcomes {
		switch o.Status {
		case domain.StatusSuccess:
			summary.Success++
			if r.emit != nil {
				if err := r.emit.Emit(o); err != nil {
					log.Warn("Failed to publish result", "item", o.ItemID, "error", err)
				}
			}
		case domain.StatusFailure:
			summary.Failure++
			r.deadLetter(ctx, log, items, o)
		case domain.StatusRejected:
			summary.Rejected++
		}
	}

	if r.outcomeRepo != nil {
		if err := r.outcomeRepo.SaveBatch(ctx, summary.BatchID, outcomes); err != nil {
			log.Warn("Failed to save outcomes to database", "error", err)
		}
	}

	if _, err := r.fileSink.Save(outcomes); err != nil {
		return summary, err
	}

	log.Info("Batch finished",
		"total", summary.Total,
		"success", summary.Success,
		"failure", summary.Failure,
		"rejected", summary.Rejected,
	)

	if summary.Success == 0 && summary.Total > 0 {
		return summary, ErrNoSuccess
	}
	return summary, nil
}

func (r *Runner) deadLetter(ctx context.Context, log *slog.Logger, items []domain.WorkItem, o domain.Outcome) {
	if r.dlq == nil {
		return
	}
	for _, item := range items {
		if item.ID != o.ItemID {
			continue
		}
		di := &redisclient.DeadItem{
			Item:        item,
			Error:       o.Error,
			RetryCount:  o.Attempts,
			LastAttempt: o.Timestamp,
		}
		if err := r.dlq.Add(ctx, di); err != nil {
			log.Warn("Failed to dead-letter item", "item", item.ID, "error", err)
		}
		return
	}
}

// Stop shuts the runner's clients down.
func (r *Runner) Stop(ctx context.Context) error {
	if r.server != nil {
		if err := r.server.Stop(ctx); err != nil {
			r.log.Warn("Failed to stop metrics server", "error", err)
		}
	}
	if r.emit != nil {
		r.emit.Close()
	}
	if r.redisClient != nil {
		if err := r.redisClient.Close(); err != nil {
			r.log.Warn("Failed to close redis client", "error", err)
		}
	}
	if r.db != nil {
		if err := r.db.Close(); err != nil {
			r.log.Warn("Failed to close database", "error", err)
		}
	}
	if c, ok := r.op.(closer); ok {
		return c.Close()
	}
	return nil
}
