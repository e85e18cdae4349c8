package domain

import "fmt"

// WorkItem is one immutable unit of input for a batch run.
type WorkItem struct {
	ID      int64  `json:"id"`
	Payload string `json:"payload"`
}

// ErrInvalidItem marks a contract violation in the input batch.
// It is fatal for the whole batch, never retried.
type ErrInvalidItem struct {
	Index  int
	Reason string
}

func (e *ErrInvalidItem) Error() string {
	return fmt.Sprintf("invalid work item at index %d: %s", e.Index, e.Reason)
}

// Validate checks the item's contract: a non-negative id and a payload.
func (i WorkItem) Validate() error {
	if i.ID < 0 {
		return fmt.Errorf("negative id %d", i.ID)
	}
	if i.Payload == "" {
		return fmt.Errorf("empty payload")
	}
	return nil
}
