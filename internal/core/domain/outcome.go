package domain

import "time"

// Status classifies the terminal result of one item's full attempt sequence.
type Status string

const (
	StatusSuccess  Status = "success"  // An attempt returned a result
	StatusFailure  Status = "failure"  // All attempts failed, breaker never tripped
	StatusRejected Status = "rejected" // Short-circuited by an open breaker
)

// Outcome is the terminal record for one work item. Created once per item,
// never mutated afterwards.
type Outcome struct {
	ItemID    int64     `json:"item_id"`
	Status    Status    `json:"status"`
	Result    string    `json:"result,omitempty"` // Present iff StatusSuccess
	Attempts  int       `json:"attempts"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// SuccessRecord is the persisted shape of a successful outcome.
type SuccessRecord struct {
	ID        int64     `json:"id"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Data      string    `json:"data"`
}

// Record converts a success outcome to its persisted form.
func (o Outcome) Record() SuccessRecord {
	return SuccessRecord{
		ID:        o.ItemID,
		Status:    string(o.Status),
		Timestamp: o.Timestamp,
		Data:      o.Result,
	}
}
