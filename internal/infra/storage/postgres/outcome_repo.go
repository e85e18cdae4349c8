package postgres

import (
	"context"
	"fmt"

	"github.com/vietddude/dispatcher/internal/core/domain"
)

// OutcomeRepo persists batch outcomes in PostgreSQL. All outcomes are kept,
// not only successes, so a batch can be audited afterwards.
type OutcomeRepo struct {
	db *DB
}

// NewOutcomeRepo creates a new PostgreSQL outcome repository.
func NewOutcomeRepo(db *DB) *OutcomeRepo {
	return &OutcomeRepo{db: db}
}

// SaveBatch inserts all outcomes of one batch run.
func (r *OutcomeRepo) SaveBatch(ctx context.Context, batchID string, outcomes []domain.Outcome) error {
	if len(outcomes) == 0 {
		return nil
	}

	query := `
		INSERT INTO outcomes (batch_id, item_id, status, result, attempts, error_msg, created_at)
		VALUES (:batch_id, :item_id, :status, :result, :attempts, :error_msg, :created_at)
	`

	rows := make([]map[string]any, 0, len(outcomes))
	for _, o := range outcomes {
		rows = append(rows, map[string]any{
			"batch_id":   batchID,
			"item_id":    o.ItemID,
			"status":     string(o.Status),
			"result":     o.Result,
			"attempts":   o.Attempts,
			"error_msg":  o.Error,
			"created_at": o.Timestamp,
		})
	}

	if _, err := r.db.NamedExecContext(ctx, query, rows); err != nil {
		return fmt.Errorf("failed to save outcomes: %w", err)
	}
	return nil
}

// CountByStatus returns outcome counts for a batch, keyed by status.
func (r *OutcomeRepo) CountByStatus(ctx context.Context, batchID string) (map[domain.Status]int, error) {
	query := `
		SELECT status, COUNT(*) AS count
		FROM outcomes
		WHERE batch_id = $1
		GROUP BY status
	`

	var dest []struct {
		Status string `db:"status"`
		Count  int    `db:"count"`
	}
	if err := r.db.SelectContext(ctx, &dest, query, batchID); err != nil {
		return nil, fmt.Errorf("failed to count outcomes: %w", err)
	}

	counts := make(map[domain.Status]int, len(dest))
	for _, row := range dest {
		counts[domain.Status(row.Status)] = row.Count
	}
	return counts, nil
}
