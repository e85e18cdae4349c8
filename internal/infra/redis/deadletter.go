package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vietddude/dispatcher/internal/core/domain"
)

// DeadItem is a work item that exhausted its retries, queued for a later run.
type DeadItem struct {
	Item        domain.WorkItem `json:"item"`
	Error       string          `json:"error_msg"`
	RetryCount  int             `json:"retry_count"`
	LastAttempt time.Time       `json:"last_attempt"`
}

// DeadLetterQueue holds failed work items in Redis between batch runs.
type DeadLetterQueue struct {
	rdb *redis.Client
}

// NewDeadLetterQueue creates a Redis-backed dead-letter queue.
func NewDeadLetterQueue(client *Client) *DeadLetterQueue {
	return &DeadLetterQueue{rdb: client.rdb}
}

// Key helpers
func (q *DeadLetterQueue) queueKey() string {
	return "dead_items"
}

func (q *DeadLetterQueue) itemKey(id int64) string {
	return fmt.Sprintf("dead_item:%d", id)
}

// Add queues a failed item. Items with fewer prior retries sort first.
func (q *DeadLetterQueue) Add(ctx context.Context, di *DeadItem) error {
	data, err := json.Marshal(di)
	if err != nil {
		return fmt.Errorf("failed to marshal dead item: %w", err)
	}

	if err := q.rdb.Set(ctx, q.itemKey(di.Item.ID), data, 24*time.Hour).Err(); err != nil {
		return fmt.Errorf("failed to set dead item: %w", err)
	}

	if err := q.rdb.ZAdd(ctx, q.queueKey(), redis.Z{
		Score:  float64(di.RetryCount),
		Member: fmt.Sprintf("%d", di.Item.ID),
	}).Err(); err != nil {
		return fmt.Errorf("failed to add to queue: %w", err)
	}

	return nil
}

// Drain pops every queued item, removing them from Redis.
func (q *DeadLetterQueue) Drain(ctx context.Context) ([]domain.WorkItem, error) {
	ids, err := q.rdb.ZRange(ctx, q.queueKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("zrange failed: %w", err)
	}

	items := make([]domain.WorkItem, 0, len(ids))
	for _, id := range ids {
		data, err := q.rdb.Get(ctx, "dead_item:"+id).Bytes()
		if err == redis.Nil {
			// Data expired but ID still in queue, remove it
			q.rdb.ZRem(ctx, q.queueKey(), id)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get dead item: %w", err)
		}

		var di DeadItem
		if err := json.Unmarshal(data, &di); err != nil {
			continue
		}
		items = append(items, di.Item)

		q.rdb.ZRem(ctx, q.queueKey(), id)
		q.rdb.Del(ctx, "dead_item:"+id)
	}

	return items, nil
}

// Count returns the number of queued items.
func (q *DeadLetterQueue) Count(ctx context.Context) (int, error) {
	count, err := q.rdb.ZCard(ctx, q.queueKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("zcard failed: %w", err)
	}
	return int(count), nil
}
