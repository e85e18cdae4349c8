package control

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/vietddude/dispatcher/internal/core/domain"
)

// LoadItems reads a batch of work items from a JSON array file.
func LoadItems(path string) ([]domain.WorkItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read items file: %w", err)
	}

	var items []domain.WorkItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse items file: %w", err)
	}
	return items, nil
}

// GenerateItems builds a synthetic demo batch of n items.
func GenerateItems(n int) []domain.WorkItem {
	items := make([]domain.WorkItem, n)
	for i := range items {
		items[i] = domain.WorkItem{
			ID:      int64(i),
			Payload: fmt.Sprintf("test_data_%d", i),
		}
	}
	return items
}
